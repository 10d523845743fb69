package alerting

import (
	"context"
	"sync"
)

// fakeAlertService is an in-memory stand-in for the remote API used by the
// editor and registry tests.
type fakeAlertService struct {
	mu    sync.Mutex
	rules []AlertRule

	listErr   error
	getErr    error
	createErr error
	updateErr error
	deleteErr error
	resetErr  error

	listCalls   int
	createCalls int
	updateCalls int
	deleteCalls int
	resetCalls  int

	lastCreate   RuleSubmission
	lastUpdateID string
	lastUpdate   RuleSubmission
	deletedIDs   []string
	resetIDs     []string
}

func (f *fakeAlertService) networkCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls + f.createCalls + f.updateCalls + f.deleteCalls + f.resetCalls
}

func (f *fakeAlertService) ListAlerts(ctx context.Context) ([]AlertRule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]AlertRule, len(f.rules))
	copy(out, f.rules)
	return out, nil
}

func (f *fakeAlertService) GetAlert(ctx context.Context, id string) (AlertRule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return AlertRule{}, f.getErr
	}
	for _, r := range f.rules {
		if r.ID == id {
			return r, nil
		}
	}
	return AlertRule{}, f.getErr
}

func (f *fakeAlertService) CreateAlert(ctx context.Context, sub RuleSubmission) (AlertRule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	f.lastCreate = sub
	if f.createErr != nil {
		return AlertRule{}, f.createErr
	}
	rule := NewAlertRule("created-1", sub.Name, sub.HiveID, "", sub.TriggerConditions, "2025-05-01T10:15:30", false)
	f.rules = append(f.rules, rule)
	return rule, nil
}

func (f *fakeAlertService) UpdateAlert(ctx context.Context, id string, sub RuleSubmission) (AlertRule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateCalls++
	f.lastUpdateID = id
	f.lastUpdate = sub
	if f.updateErr != nil {
		return AlertRule{}, f.updateErr
	}
	return NewAlertRule(id, sub.Name, sub.HiveID, "", sub.TriggerConditions, "2025-05-01T10:15:30", false), nil
}

func (f *fakeAlertService) DeleteAlert(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls++
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deletedIDs = append(f.deletedIDs, id)
	kept := f.rules[:0]
	for _, r := range f.rules {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	f.rules = kept
	return nil
}

func (f *fakeAlertService) ResetAlert(ctx context.Context, id string) (AlertRule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resetCalls++
	if f.resetErr != nil {
		return AlertRule{}, f.resetErr
	}
	f.resetIDs = append(f.resetIDs, id)
	for i, r := range f.rules {
		if r.ID == id {
			f.rules[i] = NewAlertRule(r.ID, r.Name, r.HiveID, r.HiveName, r.TriggerConditions, r.CreatedAt, false)
			return f.rules[i], nil
		}
	}
	return AlertRule{}, nil
}

type fakeHiveService struct {
	hives []Hive
	err   error
}

func (f *fakeHiveService) ListHives(ctx context.Context) ([]Hive, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.hives, nil
}
