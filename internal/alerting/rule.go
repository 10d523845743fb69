package alerting

// Status is the server-evaluated state of an alert rule. The remote
// monitoring service is the sole owner of this field: the console reads it
// from fetched records and may request a reset, but never flips it locally.
type Status string

// The two rule states. A rule starts Normal; the remote evaluator moves it
// to Triggered, and an operator-initiated reset moves it back.
const (
	StatusNormal    Status = "normal"
	StatusTriggered Status = "triggered"
)

// Triggered reports whether the status is Triggered.
func (s Status) Triggered() bool { return s == StatusTriggered }

// String returns the status name.
func (s Status) String() string { return string(s) }

// statusOf converts the wire boolean into a Status value.
func statusOf(triggered bool) Status {
	if triggered {
		return StatusTriggered
	}
	return StatusNormal
}

// AlertRule is one persisted rule as fetched from the remote API. The
// condition string stays encoded here; it is only decoded when seeding the
// editor and only formatted when rendering the list. Status has no setter
// so no code path can locally un-trigger a rule.
type AlertRule struct {
	ID                string
	Name              string
	HiveID            string
	HiveName          string // denormalized by the server for display; not authoritative
	TriggerConditions string // encoded, see codec.go
	CreatedAt         string // server-assigned, rendered verbatim
	status            Status
}

// NewAlertRule builds a rule from a fetched record. The triggered flag comes
// from the wire; this is the only way status enters the model.
func NewAlertRule(id, name, hiveID, hiveName, triggerConditions, createdAt string, triggered bool) AlertRule {
	return AlertRule{
		ID:                id,
		Name:              name,
		HiveID:            hiveID,
		HiveName:          hiveName,
		TriggerConditions: triggerConditions,
		CreatedAt:         createdAt,
		status:            statusOf(triggered),
	}
}

// Status returns the server-evaluated state.
func (r AlertRule) Status() Status { return r.status }

// Triggered reports whether the rule is currently triggered.
func (r AlertRule) Triggered() bool { return r.status.Triggered() }

// FormattedConditions renders the rule's condition string for display.
func (r AlertRule) FormattedConditions() string {
	return FormatConditions(r.TriggerConditions)
}

// Hive is one entry of the hive selector, as served by the remote API.
type Hive struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
}
