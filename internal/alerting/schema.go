package alerting

// Schema is the catalog of condition parameters and operators served to the
// editor UI so the selects stay in sync with the closed sets the console
// accepts.
type Schema struct {
	Parameters []ParameterSchema `json:"parameters"`
	Operators  []OperatorSchema  `json:"operators"`
	Min        int               `json:"minConditions"`
	Max        int               `json:"maxConditions"`
}

// ParameterSchema describes one selectable sensor parameter.
type ParameterSchema struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}

// OperatorSchema describes one selectable comparison operator.
type OperatorSchema struct {
	Name string `json:"name"`
}

// GetSchema returns the editor catalog.
func GetSchema() Schema {
	params := make([]ParameterSchema, 0, len(parameterOrder))
	for _, p := range parameterOrder {
		params = append(params, ParameterSchema{Name: p, Label: parameterLabels[p]})
	}
	ops := make([]OperatorSchema, 0, len(operatorOrder))
	for _, op := range operatorOrder {
		ops = append(ops, OperatorSchema{Name: op})
	}
	return Schema{
		Parameters: params,
		Operators:  ops,
		Min:        MinConditions,
		Max:        MaxConditions,
	}
}
