package alerting

import "context"

// RuleSubmission is the definition payload sent when creating or updating a
// rule. TriggerConditions carries the encoded condition string produced by
// EncodeConditions.
type RuleSubmission struct {
	Name              string
	HiveID            string
	TriggerConditions string
}

// AlertService is the remote collaborator that owns rule persistence,
// identity, and triggered status. Implemented by the backend API client.
type AlertService interface {
	ListAlerts(ctx context.Context) ([]AlertRule, error)
	GetAlert(ctx context.Context, id string) (AlertRule, error)
	CreateAlert(ctx context.Context, sub RuleSubmission) (AlertRule, error)
	UpdateAlert(ctx context.Context, id string, sub RuleSubmission) (AlertRule, error)
	DeleteAlert(ctx context.Context, id string) error
	ResetAlert(ctx context.Context, id string) (AlertRule, error)
}

// HiveService lists the hives an operator may bind a rule to.
type HiveService interface {
	ListHives(ctx context.Context) ([]Hive, error)
}
