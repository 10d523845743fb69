// Package conf loads and validates the console's settings.
package conf

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Settings is the full console configuration.
type Settings struct {
	Listen  string          `mapstructure:"listen" yaml:"listen"`
	Backend BackendSettings `mapstructure:"backend" yaml:"backend"`
	Alerts  AlertSettings   `mapstructure:"alerts" yaml:"alerts"`
}

// BackendSettings describes the remote monitoring API.
type BackendSettings struct {
	// BaseURL is the API root including any path prefix,
	// e.g. "https://monitor.example.com/api".
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
	// Token is the bearer credential issued by the authentication service.
	Token   string   `mapstructure:"token" yaml:"token"`
	Timeout Duration `mapstructure:"timeout" yaml:"timeout"`
}

// AlertSettings tunes the alert rule registry.
type AlertSettings struct {
	// RefreshInterval is how often the rule list is re-fetched while the
	// console is running.
	RefreshInterval Duration `mapstructure:"refresh_interval" yaml:"refresh_interval"`
}

// Load reads settings from the given config file (optional; viper's search
// path is used when empty), applying defaults and CONSOLE_* environment
// overrides.
func Load(configFile string) (*Settings, error) {
	v := viper.New()
	v.SetConfigName("console")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/beehive-console")
	if configFile != "" {
		v.SetConfigFile(configFile)
	}

	v.SetDefault("listen", ":8090")
	v.SetDefault("backend.base_url", "http://localhost:8080/api")
	v.SetDefault("backend.timeout", "10s")
	v.SetDefault("alerts.refresh_interval", "60s")

	v.SetEnvPrefix("CONSOLE")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing file is fine; defaults and environment apply.
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s, viper.DecodeHook(DurationDecodeHook())); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks the settings a running console cannot do without.
func (s *Settings) Validate() error {
	if s.Backend.BaseURL == "" {
		return fmt.Errorf("backend.base_url must be set")
	}
	if s.Alerts.RefreshInterval < 0 {
		return fmt.Errorf("alerts.refresh_interval must not be negative")
	}
	return nil
}

// DumpYAML renders the effective settings as YAML, for the config
// subcommand.
func (s *Settings) DumpYAML() (string, error) {
	out, err := yaml.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
