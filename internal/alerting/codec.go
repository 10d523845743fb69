package alerting

import (
	"encoding/json"
	"strings"
)

// The remote API stores a rule's conditions inside a single string field
// (`triggerConditions`) holding a JSON array of {parameter, operator, value}
// records. This file is the only place that string is produced or parsed.
//
// Decoding never fails: a corrupt or legacy-shaped persisted value must not
// prevent a rule list from rendering, so unusable input degrades to a single
// blank condition (for editing) or a fixed placeholder (for display).

// Fixed renderings for unusable condition strings.
const (
	formatNoConditions      = "No conditions"
	formatInvalidConditions = "Invalid conditions"
)

// EncodeConditions serializes the complete subset of a condition set into
// the wire string. Incomplete rows are never encoded.
func EncodeConditions(set ConditionSet) (string, error) {
	complete := set.CompleteSubset()
	if complete == nil {
		complete = []TriggerCondition{}
	}
	data, err := json.Marshal(complete)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// DecodeConditions parses a wire string into a condition set for editing.
// Malformed, absent, or empty input yields a set with one blank condition
// so the editor always has a row to show.
func DecodeConditions(raw string) ConditionSet {
	if raw == "" {
		return NewConditionSet()
	}
	var conditions []TriggerCondition
	if err := json.Unmarshal([]byte(raw), &conditions); err != nil {
		return NewConditionSet()
	}
	if len(conditions) == 0 {
		return NewConditionSet()
	}
	return conditionSetOf(conditions)
}

// FormatConditions renders a wire string for display: each condition as
// "<label> <operator> <value>", joined by " AND ". Absent or empty input
// renders as "No conditions"; malformed input as "Invalid conditions".
func FormatConditions(raw string) string {
	if raw == "" {
		return formatNoConditions
	}
	var conditions []TriggerCondition
	if err := json.Unmarshal([]byte(raw), &conditions); err != nil {
		return formatInvalidConditions
	}
	if len(conditions) == 0 {
		return formatNoConditions
	}
	parts := make([]string, 0, len(conditions))
	for _, c := range conditions {
		parts = append(parts, ParameterLabel(c.Parameter)+" "+c.Operator+" "+c.Value.String())
	}
	return strings.Join(parts, " AND ")
}
