// The console command runs the beehive monitoring management console: an
// HTTP service for authoring alert rules and tracking their status against
// the remote monitoring API.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/beehivemonitor/console/internal/alerting"
	"github.com/beehivemonitor/console/internal/api"
	"github.com/beehivemonitor/console/internal/backend"
	"github.com/beehivemonitor/console/internal/conf"
)

const shutdownTimeout = 10 * time.Second

var configFile string

func main() {
	root := &cobra.Command{
		Use:   "console",
		Short: "Beehive monitoring management console",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run()
		},
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&configFile, "config", "c", "", "path to config file")

	root.AddCommand(&cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := conf.Load(configFile)
			if err != nil {
				return err
			}
			out, err := settings.DumpYAML()
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	})

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	settings, err := conf.Load(configFile)
	if err != nil {
		return err
	}

	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck // best-effort flush on exit

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tokens := backend.NewStaticToken(settings.Backend.Token)
	client := backend.NewClient(settings.Backend.BaseURL, settings.Backend.Timeout.Std(), tokens, logger)

	registry := alerting.NewRegistry(client, settings.Alerts.RefreshInterval.Std(), logger)
	registry.Start(ctx)
	defer registry.Stop()

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	api.NewController(client, client, registry, logger).RegisterRoutes(e)

	logger.Info("console starting",
		zap.String("listen", settings.Listen),
		zap.String("backend", settings.Backend.BaseURL),
		zap.Duration("refresh_interval", settings.Alerts.RefreshInterval.Std()))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := e.Start(settings.Listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("console stopped with error", zap.Error(err))
		return err
	}
	logger.Info("console stopped")
	return nil
}
