package domain

// NodeTypeQuestion is the node type emitted by the flow editor for question nodes.
const NodeTypeQuestion = "question"

// Control defines how a question collects its answer.
type Control string

const (
	// ControlSingle collects exactly one option value (a string).
	ControlSingle Control = "single"
	// ControlMulti collects a list of option values.
	ControlMulti Control = "multi"
)

// Validation declares the constraints on a node's answer.
// MinItems and MaxItems only apply to multi controls; nil means unbounded.
type Validation struct {
	Required bool `json:"required,omitempty" yaml:"required,omitempty" mapstructure:"required"`
	MinItems *int `json:"minItems,omitempty" yaml:"minItems,omitempty" mapstructure:"minItems"`
	MaxItems *int `json:"maxItems,omitempty" yaml:"maxItems,omitempty" mapstructure:"maxItems"`
}

// Node represents one question in the flow graph.
type Node struct {
	ID   string `json:"id" yaml:"id"`
	Type string `json:"type,omitempty" yaml:"type,omitempty"`

	// QuestionID is the logical field name the answer is stored under.
	// Several nodes may share a QuestionID.
	QuestionID string `json:"questionId" yaml:"questionId"`

	Label   string  `json:"label,omitempty" yaml:"label,omitempty"`
	Control Control `json:"control" yaml:"control"`

	Validation *Validation `json:"validation,omitempty" yaml:"validation,omitempty"`

	// DefaultValue seeds the answer when the question is first shown.
	DefaultValue Value `json:"defaultValue,omitzero" yaml:"defaultValue,omitempty"`
}

// MinItems returns the declared minimum, defaulting to 0.
func (n Node) MinItems() int {
	if n.Validation == nil || n.Validation.MinItems == nil {
		return 0
	}
	return *n.Validation.MinItems
}

// Required reports whether the node declares an answer as mandatory.
func (n Node) Required() bool {
	return n.Validation != nil && n.Validation.Required
}
