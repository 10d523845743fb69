package alerting

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/beehivemonitor/console/internal/metrics"
)

// DefaultRefreshInterval is how often the registry re-fetches the rule list
// while the view is live.
const DefaultRefreshInterval = 60 * time.Second

// refreshTimeout is the context deadline for one background list fetch.
const refreshTimeout = 10 * time.Second

// ErrConfirmationRequired is returned by Remove when the operator has not
// confirmed the deletion.
var ErrConfirmationRequired = errors.New("deleting an alert requires confirmation")

// Registry is the client-side cache of the rule list for the current
// account scope. It refreshes periodically while live, and serves delete
// and reset requests. A failed list fetch is logged and presented as an
// empty list so the surrounding view stays available; nothing here is
// fatal.
type Registry struct {
	alerts   AlertService
	log      *zap.Logger
	interval time.Duration

	mu    sync.RWMutex
	rules []AlertRule

	// refreshStop guards the background loop. Mutex-protected so Stop and
	// Start cannot race into a double close.
	refreshStop chan struct{}
}

// NewRegistry creates a registry over the remote alert service. A zero or
// negative interval falls back to DefaultRefreshInterval.
func NewRegistry(alerts AlertService, interval time.Duration, log *zap.Logger) *Registry {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	return &Registry{
		alerts:   alerts,
		log:      log,
		interval: interval,
		rules:    []AlertRule{},
	}
}

// Rules returns a snapshot of the cached rule list.
func (r *Registry) Rules() []AlertRule {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]AlertRule, len(r.rules))
	copy(out, r.rules)
	return out
}

// Refresh fetches the rule list and replaces the cache. On any failure,
// including a missing credential, the cache becomes empty and the error is
// only logged: background refresh failures must never propagate into the
// rest of the view.
func (r *Registry) Refresh(ctx context.Context) {
	rules := r.fetch(ctx)
	r.mu.Lock()
	r.rules = rules
	r.mu.Unlock()
}

// fetch lists rules, degrading to an empty slice on failure.
func (r *Registry) fetch(ctx context.Context) []AlertRule {
	rules, err := r.alerts.ListAlerts(ctx)
	if err != nil {
		metrics.RegistryRefreshes.WithLabelValues(metrics.OutcomeFailure).Inc()
		r.log.Error("alert list fetch failed", zap.Error(err))
		return []AlertRule{}
	}
	metrics.RegistryRefreshes.WithLabelValues(metrics.OutcomeSuccess).Inc()
	return rules
}

// Start begins the periodic refresh loop. The first fetch happens
// immediately; afterwards the list is re-fetched on the configured
// interval until Stop is called. Calling Start again replaces any running
// loop.
func (r *Registry) Start(ctx context.Context) {
	r.stopRefresh()
	r.mu.Lock()
	r.refreshStop = make(chan struct{})
	stopCh := r.refreshStop
	r.mu.Unlock()

	r.Refresh(ctx)

	go func() {
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				fetchCtx, cancel := context.WithTimeout(ctx, refreshTimeout)
				rules := r.fetch(fetchCtx)
				cancel()
				// A response arriving after teardown is discarded, never
				// applied to the cache.
				select {
				case <-stopCh:
					return
				default:
				}
				r.mu.Lock()
				r.rules = rules
				r.mu.Unlock()
			case <-stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop tears down the refresh loop. Safe to call without a running loop
// and safe to call more than once.
func (r *Registry) Stop() {
	r.stopRefresh()
}

func (r *Registry) stopRefresh() {
	r.mu.Lock()
	ch := r.refreshStop
	r.refreshStop = nil
	r.mu.Unlock()
	if ch != nil {
		close(ch)
	}
}

// Remove deletes a rule. The operator must have confirmed the action
// first. On success the list is re-fetched; on failure the cache is left
// unchanged and the error returned for display.
func (r *Registry) Remove(ctx context.Context, ruleID string, confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}
	if err := r.alerts.DeleteAlert(ctx, ruleID); err != nil {
		metrics.RuleDeletions.WithLabelValues(metrics.OutcomeFailure).Inc()
		r.log.Warn("alert delete failed", zap.String("id", ruleID), zap.Error(err))
		return err
	}
	metrics.RuleDeletions.WithLabelValues(metrics.OutcomeSuccess).Inc()
	r.log.Info("alert deleted", zap.String("id", ruleID))
	r.Refresh(ctx)
	return nil
}

// Reset asks the remote service to move a triggered rule back to Normal.
// The authoritative new state comes from the follow-up list fetch; the
// cached flag is never flipped locally.
func (r *Registry) Reset(ctx context.Context, ruleID string) error {
	if _, err := r.alerts.ResetAlert(ctx, ruleID); err != nil {
		metrics.RuleResets.WithLabelValues(metrics.OutcomeFailure).Inc()
		r.log.Warn("alert reset failed", zap.String("id", ruleID), zap.Error(err))
		return err
	}
	metrics.RuleResets.WithLabelValues(metrics.OutcomeSuccess).Inc()
	r.log.Info("alert reset requested", zap.String("id", ruleID))
	r.Refresh(ctx)
	return nil
}
