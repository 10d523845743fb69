// Package alerting models hive alert rules: threshold conditions, the
// encoded wire form they persist as, and the editor/registry flows that
// author and track them against the remote monitoring API.
package alerting

// Sensor parameters that a trigger condition can compare against.
const (
	ParameterTemperature  = "temperature" // internal hive temperature
	ParameterExternalTemp = "externalTemperature"
	ParameterHumidity     = "humidity"
	ParameterCO2          = "co2"
	ParameterSound        = "sound"
	ParameterWeight       = "weight"
)

// Comparison operators for trigger conditions.
const (
	OperatorGreaterThan    = ">"
	OperatorGreaterOrEqual = ">="
	OperatorLessThan       = "<"
	OperatorLessOrEqual    = "<="
)

// Condition set bounds. A rule carries between one and four AND-combined
// conditions; both limits are part of the persisted contract.
const (
	MinConditions = 1
	MaxConditions = 4
)

// DefaultOperator is the operator a blank condition row starts with.
const DefaultOperator = OperatorGreaterThan

// parameterLabels maps internal parameter keys to the presentation labels
// used when rendering conditions. Keys absent from this map (persisted data
// that predates a parameter addition) render as-is.
var parameterLabels = map[string]string{
	ParameterTemperature:  "Int. Temperature",
	ParameterExternalTemp: "Ext. Temperature",
	ParameterHumidity:     "Humidity",
	ParameterCO2:          "CO₂",
	ParameterSound:        "Sound Level",
	ParameterWeight:       "Weight",
}

// parameterOrder fixes the catalog order for the editor UI.
var parameterOrder = []string{
	ParameterTemperature,
	ParameterExternalTemp,
	ParameterHumidity,
	ParameterCO2,
	ParameterSound,
	ParameterWeight,
}

// operatorOrder fixes the catalog order for the editor UI.
var operatorOrder = []string{
	OperatorGreaterThan,
	OperatorGreaterOrEqual,
	OperatorLessThan,
	OperatorLessOrEqual,
}

// ValidParameter reports whether p is a known sensor parameter.
func ValidParameter(p string) bool {
	_, ok := parameterLabels[p]
	return ok
}

// ValidOperator reports whether op is a known comparison operator.
func ValidOperator(op string) bool {
	switch op {
	case OperatorGreaterThan, OperatorGreaterOrEqual, OperatorLessThan, OperatorLessOrEqual:
		return true
	default:
		return false
	}
}

// ParameterLabel returns the display label for a parameter key. Unrecognized
// keys pass through unchanged so legacy data still renders.
func ParameterLabel(p string) string {
	if label, ok := parameterLabels[p]; ok {
		return label
	}
	return p
}
