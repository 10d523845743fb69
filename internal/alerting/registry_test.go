package alerting

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func triggeredRule(id, name string) AlertRule {
	return NewAlertRule(id, name, "H1", "Garden hive",
		`[{"parameter":"temperature","operator":">","value":"38"}]`,
		"2025-05-01T10:15:30", true)
}

func TestRegistry_RefreshPopulatesCache(t *testing.T) {
	fake := &fakeAlertService{rules: []AlertRule{triggeredRule("rule-1", "Overheat")}}
	r := NewRegistry(fake, 0, zap.NewNop())

	require.Empty(t, r.Rules())
	r.Refresh(context.Background())

	rules := r.Rules()
	require.Len(t, rules, 1)
	assert.Equal(t, "Overheat", rules[0].Name)
	assert.True(t, rules[0].Triggered())
}

func TestRegistry_RefreshFailureYieldsEmptyList(t *testing.T) {
	fake := &fakeAlertService{rules: []AlertRule{triggeredRule("rule-1", "Overheat")}}
	r := NewRegistry(fake, 0, zap.NewNop())
	r.Refresh(context.Background())
	require.Len(t, r.Rules(), 1)

	// The shell UI keeps rendering; the list just goes empty.
	fake.listErr = errors.New("network unreachable")
	r.Refresh(context.Background())
	assert.Empty(t, r.Rules())
	assert.NotNil(t, r.Rules())
}

func TestRegistry_RemoveRequiresConfirmation(t *testing.T) {
	fake := &fakeAlertService{rules: []AlertRule{triggeredRule("rule-1", "Overheat")}}
	r := NewRegistry(fake, 0, zap.NewNop())

	err := r.Remove(context.Background(), "rule-1", false)
	assert.ErrorIs(t, err, ErrConfirmationRequired)
	assert.Zero(t, fake.deleteCalls)
}

func TestRegistry_RemoveConfirmed(t *testing.T) {
	fake := &fakeAlertService{rules: []AlertRule{triggeredRule("rule-1", "Overheat")}}
	r := NewRegistry(fake, 0, zap.NewNop())
	r.Refresh(context.Background())
	require.Len(t, r.Rules(), 1)

	require.NoError(t, r.Remove(context.Background(), "rule-1", true))
	assert.Equal(t, []string{"rule-1"}, fake.deletedIDs)
	// The list was re-fetched after the delete.
	assert.Empty(t, r.Rules())
}

func TestRegistry_RemoveFailureLeavesListUnchanged(t *testing.T) {
	fake := &fakeAlertService{rules: []AlertRule{triggeredRule("rule-1", "Overheat")}}
	r := NewRegistry(fake, 0, zap.NewNop())
	r.Refresh(context.Background())

	fake.deleteErr = errors.New("boom")
	err := r.Remove(context.Background(), "rule-1", true)
	require.Error(t, err)
	assert.Len(t, r.Rules(), 1)
}

func TestRegistry_ResetRefetchesAuthoritativeState(t *testing.T) {
	// The client never flips isTriggered itself: the new state arrives via
	// the follow-up list fetch after the remote service resets the rule.
	fake := &fakeAlertService{rules: []AlertRule{triggeredRule("rule-1", "Overheat")}}
	r := NewRegistry(fake, 0, zap.NewNop())
	r.Refresh(context.Background())
	require.True(t, r.Rules()[0].Triggered())

	require.NoError(t, r.Reset(context.Background(), "rule-1"))

	assert.Equal(t, []string{"rule-1"}, fake.resetIDs)
	rules := r.Rules()
	require.Len(t, rules, 1)
	assert.False(t, rules[0].Triggered())
	assert.Equal(t, StatusNormal, rules[0].Status())
}

func TestRegistry_ResetFailureLeavesStatusUnchanged(t *testing.T) {
	fake := &fakeAlertService{rules: []AlertRule{triggeredRule("rule-1", "Overheat")}}
	r := NewRegistry(fake, 0, zap.NewNop())
	r.Refresh(context.Background())

	fake.resetErr = errors.New("boom")
	err := r.Reset(context.Background(), "rule-1")
	require.Error(t, err)
	assert.True(t, r.Rules()[0].Triggered())
}

func TestRegistry_PeriodicRefreshStopsCleanly(t *testing.T) {
	defer goleak.VerifyNone(t)

	fake := &fakeAlertService{rules: []AlertRule{triggeredRule("rule-1", "Overheat")}}
	r := NewRegistry(fake, 5*time.Millisecond, zap.NewNop())

	r.Start(context.Background())
	require.Eventually(t, func() bool {
		fake.mu.Lock()
		defer fake.mu.Unlock()
		return fake.listCalls >= 3
	}, 2*time.Second, time.Millisecond, "periodic refresh should keep fetching")

	require.Len(t, r.Rules(), 1)
	r.Stop()
	// A second stop is safe.
	r.Stop()
}

func TestRegistry_StartReplacesRunningLoop(t *testing.T) {
	defer goleak.VerifyNone(t)

	fake := &fakeAlertService{}
	r := NewRegistry(fake, 5*time.Millisecond, zap.NewNop())
	r.Start(context.Background())
	r.Start(context.Background())
	r.Stop()
}

func TestRegistry_DefaultInterval(t *testing.T) {
	r := NewRegistry(&fakeAlertService{}, 0, zap.NewNop())
	assert.Equal(t, DefaultRefreshInterval, r.interval)
}
