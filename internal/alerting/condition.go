package alerting

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// Condition set mutation errors.
var (
	ErrTooManyConditions = errors.New("a rule may have at most 4 conditions")
	ErrLastCondition     = errors.New("a rule must keep at least 1 condition")
	ErrIndexOutOfRange   = errors.New("condition index out of range")
)

// ThresholdValue is the numeric threshold of a condition, kept in the string
// form the operator typed so it round-trips byte-for-byte through the wire
// encoding. Persisted payloads carry it as a JSON string, but legacy and
// hand-written payloads sometimes use a bare number; both shapes decode.
type ThresholdValue string

// String returns the raw threshold text.
func (v ThresholdValue) String() string { return string(v) }

// Float parses the threshold as a float64.
func (v ThresholdValue) Float() (float64, error) {
	return strconv.ParseFloat(string(v), 64)
}

// MarshalJSON always emits the string form, matching what the original
// console persisted.
func (v ThresholdValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(v))
}

// UnmarshalJSON accepts a JSON string, a bare number, or null.
func (v *ThresholdValue) UnmarshalJSON(b []byte) error {
	if len(b) == 0 {
		*v = ""
		return nil
	}
	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = ThresholdValue(s)
	case 'n': // null
		*v = ""
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return err
		}
		*v = ThresholdValue(n.String())
	}
	return nil
}

// TriggerCondition is a single threshold comparison within a rule: one
// sensor parameter compared against a numeric value.
type TriggerCondition struct {
	Parameter string         `json:"parameter"`
	Operator  string         `json:"operator"`
	Value     ThresholdValue `json:"value"`
}

// BlankCondition returns the empty row the editor starts with and that the
// codec substitutes for unusable persisted data.
func BlankCondition() TriggerCondition {
	return TriggerCondition{Parameter: "", Operator: DefaultOperator, Value: ""}
}

// Complete reports whether the condition carries enough to be submitted:
// a parameter and a value. Incomplete conditions may exist transiently in
// the editor but are never transmitted.
func (c TriggerCondition) Complete() bool {
	return c.Parameter != "" && c.Value != ""
}

// ConditionSet is the ordered group of 1 to 4 AND-combined trigger conditions
// belonging to one alert rule. Order is preserved for display only; AND is
// commutative. Duplicate parameters are allowed (e.g. two temperature
// bounds forming a range check).
type ConditionSet struct {
	conditions []TriggerCondition
}

// NewConditionSet returns a set with a single blank condition, the state a
// freshly opened editor shows.
func NewConditionSet() ConditionSet {
	return ConditionSet{conditions: []TriggerCondition{BlankCondition()}}
}

// conditionSetOf wraps existing conditions without copying. Callers own cs.
func conditionSetOf(cs []TriggerCondition) ConditionSet {
	return ConditionSet{conditions: cs}
}

// Len returns the number of condition rows, complete or not.
func (s ConditionSet) Len() int { return len(s.conditions) }

// At returns the condition at index i.
func (s ConditionSet) At(i int) TriggerCondition { return s.conditions[i] }

// Conditions returns a copy of all rows in display order.
func (s ConditionSet) Conditions() []TriggerCondition {
	out := make([]TriggerCondition, len(s.conditions))
	copy(out, s.conditions)
	return out
}

// CompleteSubset returns the rows with both parameter and value set, in
// order. This is the subset actually transmitted on submission.
func (s ConditionSet) CompleteSubset() []TriggerCondition {
	var out []TriggerCondition
	for _, c := range s.conditions {
		if c.Complete() {
			out = append(out, c)
		}
	}
	return out
}

// Add appends a blank condition row. Refused once the set holds
// MaxConditions rows.
func (s *ConditionSet) Add() error {
	if len(s.conditions) >= MaxConditions {
		return ErrTooManyConditions
	}
	s.conditions = append(s.conditions, BlankCondition())
	return nil
}

// Remove deletes the row at index. Refused once the set is down to
// MinConditions rows.
func (s *ConditionSet) Remove(index int) error {
	if index < 0 || index >= len(s.conditions) {
		return ErrIndexOutOfRange
	}
	if len(s.conditions) <= MinConditions {
		return ErrLastCondition
	}
	s.conditions = append(s.conditions[:index], s.conditions[index+1:]...)
	return nil
}

// Condition field names accepted by Update.
const (
	FieldParameter = "parameter"
	FieldOperator  = "operator"
	FieldValue     = "value"
)

// Update replaces one field of one row, leaving the other rows untouched.
// Parameter and operator values are checked against the closed sets here,
// at the editing boundary; an empty parameter or value is allowed so a row
// can be cleared while editing.
func (s *ConditionSet) Update(index int, field, value string) error {
	if index < 0 || index >= len(s.conditions) {
		return ErrIndexOutOfRange
	}
	switch field {
	case FieldParameter:
		if value != "" && !ValidParameter(value) {
			return fmt.Errorf("unknown sensor parameter %q", value)
		}
		s.conditions[index].Parameter = value
	case FieldOperator:
		if !ValidOperator(value) {
			return fmt.Errorf("unknown operator %q", value)
		}
		s.conditions[index].Operator = value
	case FieldValue:
		if value != "" {
			if _, err := strconv.ParseFloat(value, 64); err != nil {
				return fmt.Errorf("threshold value %q is not a number", value)
			}
		}
		s.conditions[index].Value = ThresholdValue(value)
	default:
		return fmt.Errorf("unknown condition field %q", field)
	}
	return nil
}
