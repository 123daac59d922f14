package domain

import "encoding/json"

// Op is a condition operator.
type Op string

const (
	OpEquals      Op = "equals"
	OpNotEquals   Op = "notEquals"
	OpContains    Op = "contains"
	OpNotContains Op = "notContains"

	OpAnd Op = "and"
	OpOr  Op = "or"
	OpNot Op = "not"
)

// Condition is a boolean expression tree over answers.
//
// Shapes:
//
//	nil                               always true
//	{questionId, op, value}           leaf
//	{op: "and"|"or", conditions: []}  compound
//	{op: "not", condition: {}}        negation
//
// A compound node is only recognized when its children are present;
// Conditions == nil is distinct from an empty list.
type Condition struct {
	QuestionID string       `json:"questionId,omitempty" yaml:"questionId,omitempty" mapstructure:"questionId"`
	Op         Op           `json:"op,omitempty" yaml:"op,omitempty" mapstructure:"op"`
	Value      Value        `json:"value,omitzero" yaml:"value,omitempty" mapstructure:"value"`
	Conditions []*Condition `json:"conditions,omitempty" yaml:"conditions,omitempty" mapstructure:"conditions"`
	Condition  *Condition   `json:"condition,omitempty" yaml:"condition,omitempty" mapstructure:"condition"`
}

// MarshalJSON keeps an empty (non-nil) child list, which `omitempty` would drop.
func (c Condition) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, 3)
	if c.QuestionID != "" {
		out["questionId"] = c.QuestionID
	}
	if c.Op != "" {
		out["op"] = c.Op
	}
	if !c.Value.IsNull() {
		out["value"] = c.Value
	}
	if c.Conditions != nil {
		out["conditions"] = c.Conditions
	}
	if c.Condition != nil {
		out["condition"] = c.Condition
	}
	return json.Marshal(out)
}
