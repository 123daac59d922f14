package domain

// FlowVersion is the current flow document version (rootId + options).
const FlowVersion = 2

// OptionType distinguishes options with special semantics.
type OptionType string

const (
	// OptionNormal is a plain selectable value.
	OptionNormal OptionType = ""
	// OptionOther requires a companion free-text answer when selected.
	OptionOther OptionType = "other"
	// OptionNone is mutually exclusive with every other selection.
	OptionNone OptionType = "none"
)

// Option is one selectable answer of a question.
type Option struct {
	Value string     `json:"value" yaml:"value" mapstructure:"value"`
	Label string     `json:"label" yaml:"label" mapstructure:"label"`
	Type  OptionType `json:"type,omitempty" yaml:"type,omitempty" mapstructure:"type"`
}

// Flow is the immutable questionnaire definition.
// Nodes are an arena keyed by id; edges reference them by id.
type Flow struct {
	Version int                 `json:"version" yaml:"version"`
	RootID  string              `json:"rootId" yaml:"rootId"`
	Nodes   []Node              `json:"nodes" yaml:"nodes"`
	Edges   []Edge              `json:"edges" yaml:"edges"`
	Options map[string][]Option `json:"options" yaml:"options"`
}

// OptionsFor returns the option list of a question (nil when undeclared).
func (f *Flow) OptionsFor(questionID string) []Option {
	if f == nil || f.Options == nil {
		return nil
	}
	return f.Options[questionID]
}

// OptionLabel resolves the display label of an option value, falling back to the value itself.
func (f *Flow) OptionLabel(questionID, value string) string {
	for _, o := range f.OptionsFor(questionID) {
		if o.Value == value {
			if o.Label == "" {
				return value
			}
			return o.Label
		}
	}
	return value
}
