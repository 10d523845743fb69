// Package backend is the HTTP client for the remote beehive monitoring API,
// the collaborator that owns rule persistence, hive records, and rule
// evaluation. The console never mutates server-owned state directly; it
// issues the requests defined here and re-fetches.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/beehivemonitor/console/internal/alerting"
)

const (
	// defaultTimeout bounds every request, matching the 10s the original
	// console used for submissions.
	defaultTimeout = 10 * time.Second

	// Hive records change rarely; the selector list is cached briefly so
	// opening the editor repeatedly does not hammer the API.
	hiveCacheTTL     = 5 * time.Minute
	hiveCacheCleanup = 10 * time.Minute
	hiveCacheKey     = "hives"
)

// alertRecord is the wire shape of one rule, camelCase per the remote API.
type alertRecord struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	HiveID            string `json:"hiveId"`
	HiveName          string `json:"hiveName"`
	TriggerConditions string `json:"triggerConditions"`
	IsTriggered       bool   `json:"isTriggered"`
	CreatedAt         string `json:"createdAt"`
}

func (rec alertRecord) toRule() alerting.AlertRule {
	return alerting.NewAlertRule(
		rec.ID, rec.Name, rec.HiveID, rec.HiveName,
		rec.TriggerConditions, rec.CreatedAt, rec.IsTriggered,
	)
}

// alertRequest is the create/update payload. The condition string is opaque
// to the transport.
type alertRequest struct {
	Name              string `json:"name"`
	HiveID            string `json:"hiveId"`
	TriggerConditions string `json:"triggerConditions"`
}

// Client talks to the remote monitoring API with a bearer credential.
// It implements alerting.AlertService and alerting.HiveService.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	log        *zap.Logger
	hiveCache  *gocache.Cache
}

// NewClient creates a client for the API rooted at baseURL (including any
// path prefix, e.g. "https://monitor.example.com/api"). A zero timeout
// falls back to the default.
func NewClient(baseURL string, timeout time.Duration, tokens TokenSource, log *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		tokens:     tokens,
		log:        log,
		hiveCache:  gocache.New(hiveCacheTTL, hiveCacheCleanup),
	}
}

// ListAlerts fetches all rules visible to the current account scope.
func (c *Client) ListAlerts(ctx context.Context) ([]alerting.AlertRule, error) {
	var records []alertRecord
	if err := c.do(ctx, http.MethodGet, "/alerts", nil, &records); err != nil {
		return nil, err
	}
	rules := make([]alerting.AlertRule, 0, len(records))
	for _, rec := range records {
		rules = append(rules, rec.toRule())
	}
	return rules, nil
}

// GetAlert fetches a single rule by ID.
func (c *Client) GetAlert(ctx context.Context, id string) (alerting.AlertRule, error) {
	if err := validateID(id); err != nil {
		return alerting.AlertRule{}, err
	}
	var rec alertRecord
	if err := c.do(ctx, http.MethodGet, "/alerts/"+id, nil, &rec); err != nil {
		return alerting.AlertRule{}, err
	}
	return rec.toRule(), nil
}

// CreateAlert persists a new rule definition and returns the stored record
// with its assigned identity.
func (c *Client) CreateAlert(ctx context.Context, sub alerting.RuleSubmission) (alerting.AlertRule, error) {
	var rec alertRecord
	body := alertRequest{Name: sub.Name, HiveID: sub.HiveID, TriggerConditions: sub.TriggerConditions}
	if err := c.do(ctx, http.MethodPost, "/alerts", body, &rec); err != nil {
		return alerting.AlertRule{}, err
	}
	return rec.toRule(), nil
}

// UpdateAlert replaces an existing rule definition.
func (c *Client) UpdateAlert(ctx context.Context, id string, sub alerting.RuleSubmission) (alerting.AlertRule, error) {
	if err := validateID(id); err != nil {
		return alerting.AlertRule{}, err
	}
	var rec alertRecord
	body := alertRequest{Name: sub.Name, HiveID: sub.HiveID, TriggerConditions: sub.TriggerConditions}
	if err := c.do(ctx, http.MethodPut, "/alerts/"+id, body, &rec); err != nil {
		return alerting.AlertRule{}, err
	}
	return rec.toRule(), nil
}

// DeleteAlert removes a rule. Operator confirmation is enforced by the
// caller before this is reached.
func (c *Client) DeleteAlert(ctx context.Context, id string) error {
	if err := validateID(id); err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, "/alerts/"+id, nil, nil)
}

// ResetAlert asks the server to move a rule's status back to Normal.
func (c *Client) ResetAlert(ctx context.Context, id string) (alerting.AlertRule, error) {
	if err := validateID(id); err != nil {
		return alerting.AlertRule{}, err
	}
	var rec alertRecord
	if err := c.do(ctx, http.MethodPost, "/alerts/"+id+"/reset", nil, &rec); err != nil {
		return alerting.AlertRule{}, err
	}
	return rec.toRule(), nil
}

// ListHives fetches the hive selector entries, serving a cached copy
// within the TTL.
func (c *Client) ListHives(ctx context.Context) ([]alerting.Hive, error) {
	if cached, found := c.hiveCache.Get(hiveCacheKey); found {
		if hives, ok := cached.([]alerting.Hive); ok {
			return hives, nil
		}
	}
	var hives []alerting.Hive
	if err := c.do(ctx, http.MethodGet, "/hives", nil, &hives); err != nil {
		return nil, err
	}
	c.hiveCache.Set(hiveCacheKey, hives, gocache.DefaultExpiration)
	return hives, nil
}

// do issues one authenticated request. No request is attempted without a
// credential; a 401/403 response invalidates the held credential.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	token := c.tokens.Token()
	if token == "" {
		return ErrNotAuthenticated
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		c.tokens.Invalidate()
		c.log.Warn("credential rejected by monitoring service",
			zap.Int("status", resp.StatusCode),
			zap.String("path", path))
		return ErrNotAuthenticated
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return &APIError{StatusCode: resp.StatusCode, Message: extractMessage(respBody)}
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

// validateID rejects malformed rule IDs before a request is issued; the
// remote API uses UUID path variables and would 400 on anything else.
func validateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return &APIError{StatusCode: http.StatusBadRequest, Message: fmt.Sprintf("invalid alert id %q", id)}
	}
	return nil
}
