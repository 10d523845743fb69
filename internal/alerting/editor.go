package alerting

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/beehivemonitor/console/internal/metrics"
)

// Validation errors reported before any network call is made.
var (
	ErrNameRequired = errors.New("alert name is required")
	ErrHiveRequired = errors.New("a hive must be selected")
	ErrNoConditions = errors.New("please add at least one trigger condition")
	ErrHiveLocked   = errors.New("the hive of an existing alert cannot be changed")
)

// Draft is the in-progress rule definition owned by one editor instance.
// It is never shared between editors.
type Draft struct {
	RuleID     string // empty while creating
	Name       string
	HiveID     string
	Conditions ConditionSet
}

// Editing reports whether the draft modifies an existing rule.
func (d Draft) Editing() bool { return d.RuleID != "" }

// Editor lets an operator author a new alert rule or modify an existing
// one: it manages the draft condition set, field-level validation, and
// submission to the remote service. On a failed submission the draft is
// preserved so the operator can correct and resubmit.
type Editor struct {
	alerts AlertService
	hives  HiveService
	log    *zap.Logger

	draft      Draft
	hiveLocked bool
	submitErr  string
}

// NewEditor creates an editor bound to the remote services. The draft
// starts in create mode.
func NewEditor(alerts AlertService, hives HiveService, log *zap.Logger) *Editor {
	e := &Editor{alerts: alerts, hives: hives, log: log}
	e.LoadForCreate()
	return e
}

// LoadForCreate initializes a fresh draft: empty name, no hive selected,
// one blank condition.
func (e *Editor) LoadForCreate() {
	e.draft = Draft{Conditions: NewConditionSet()}
	e.hiveLocked = false
	e.submitErr = ""
}

// LoadForEdit fetches an existing rule and seeds the draft from it. The
// hive binding becomes immutable for the remainder of the session.
func (e *Editor) LoadForEdit(ctx context.Context, ruleID string) error {
	rule, err := e.alerts.GetAlert(ctx, ruleID)
	if err != nil {
		return fmt.Errorf("loading alert %s: %w", ruleID, err)
	}
	e.draft = Draft{
		RuleID:     rule.ID,
		Name:       rule.Name,
		HiveID:     rule.HiveID,
		Conditions: DecodeConditions(rule.TriggerConditions),
	}
	e.hiveLocked = true
	e.submitErr = ""
	return nil
}

// Draft returns a snapshot of the current draft.
func (e *Editor) Draft() Draft {
	d := e.draft
	d.Conditions = conditionSetOf(e.draft.Conditions.Conditions())
	return d
}

// HiveLocked reports whether the hive selector is disabled.
func (e *Editor) HiveLocked() bool { return e.hiveLocked }

// SubmissionError returns the message of the last failed submission, or ""
// when none is pending.
func (e *Editor) SubmissionError() string { return e.submitErr }

// SetName updates the draft name and clears any pending submission error.
func (e *Editor) SetName(name string) {
	e.draft.Name = name
	e.submitErr = ""
}

// SetHive updates the hive binding. Refused once the draft edits an
// existing rule.
func (e *Editor) SetHive(hiveID string) error {
	if e.hiveLocked && hiveID != e.draft.HiveID {
		return ErrHiveLocked
	}
	e.draft.HiveID = hiveID
	e.submitErr = ""
	return nil
}

// AddCondition appends a blank condition row to the draft.
func (e *Editor) AddCondition() error {
	return e.draft.Conditions.Add()
}

// RemoveCondition removes one condition row from the draft.
func (e *Editor) RemoveCondition(index int) error {
	return e.draft.Conditions.Remove(index)
}

// UpdateCondition replaces one field of one condition row and clears any
// pending submission error.
func (e *Editor) UpdateCondition(index int, field, value string) error {
	if err := e.draft.Conditions.Update(index, field, value); err != nil {
		return err
	}
	e.submitErr = ""
	return nil
}

// ReplaceConditions rebuilds the draft rows from a submitted form state,
// running every row through the same bounds and field checks as
// interactive editing. An empty operator falls back to the default the
// blank row carries.
func (e *Editor) ReplaceConditions(rows []TriggerCondition) error {
	set := NewConditionSet()
	for i, row := range rows {
		if i > 0 {
			if err := set.Add(); err != nil {
				return err
			}
		}
		op := row.Operator
		if op == "" {
			op = DefaultOperator
		}
		if err := set.Update(i, FieldParameter, row.Parameter); err != nil {
			return err
		}
		if err := set.Update(i, FieldOperator, op); err != nil {
			return err
		}
		if err := set.Update(i, FieldValue, row.Value.String()); err != nil {
			return err
		}
	}
	e.draft.Conditions = set
	e.submitErr = ""
	return nil
}

// Hives lists the hives available for the selector.
func (e *Editor) Hives(ctx context.Context) ([]Hive, error) {
	return e.hives.ListHives(ctx)
}

// Submit validates the draft and sends it to the remote service, creating
// or updating depending on the draft mode. Validation failures are returned
// before any network call. On remote rejection the draft is kept intact and
// the error recorded so the operator can correct and resubmit; the next
// field edit clears it.
func (e *Editor) Submit(ctx context.Context) (AlertRule, error) {
	if err := e.validate(); err != nil {
		return AlertRule{}, err
	}

	encoded, err := EncodeConditions(e.draft.Conditions)
	if err != nil {
		return AlertRule{}, fmt.Errorf("encoding conditions: %w", err)
	}
	sub := RuleSubmission{
		Name:              e.draft.Name,
		HiveID:            e.draft.HiveID,
		TriggerConditions: encoded,
	}

	var rule AlertRule
	if e.draft.Editing() {
		rule, err = e.alerts.UpdateAlert(ctx, e.draft.RuleID, sub)
	} else {
		rule, err = e.alerts.CreateAlert(ctx, sub)
	}
	if err != nil {
		e.submitErr = err.Error()
		metrics.RuleSubmissions.WithLabelValues(metrics.OutcomeFailure).Inc()
		e.log.Warn("alert rule submission rejected",
			zap.String("name", e.draft.Name),
			zap.Bool("editing", e.draft.Editing()),
			zap.Error(err))
		return AlertRule{}, err
	}

	metrics.RuleSubmissions.WithLabelValues(metrics.OutcomeSuccess).Inc()
	e.log.Info("alert rule saved",
		zap.String("id", rule.ID),
		zap.String("name", rule.Name),
		zap.String("hive_id", rule.HiveID))
	e.submitErr = ""
	return rule, nil
}

func (e *Editor) validate() error {
	if e.draft.Name == "" {
		return ErrNameRequired
	}
	if e.draft.HiveID == "" {
		return ErrHiveRequired
	}
	if len(e.draft.Conditions.CompleteSubset()) == 0 {
		return ErrNoConditions
	}
	return nil
}
