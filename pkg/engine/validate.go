package engine

import (
	"fmt"

	"github.com/aretw0/questflow/pkg/domain"
)

// Validation messages.
const (
	MsgRequired     = "This field is required."
	MsgSelectOne    = "Select at least one option."
	MsgExpectArray  = "Expected an array."
	MsgExpectString = "Expected a string."
	MsgOtherText    = `Please specify a value for "Other".`
)

// NodeResult is the outcome of validating one node.
type NodeResult struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// FieldError is a validation failure reported against a node and its answer key.
type FieldError struct {
	NodeID  string `json:"nodeId"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Report is the outcome of validating a whole answer set.
type Report struct {
	Valid  bool         `json:"valid"`
	Errors []FieldError `json:"errors"`
}

func valid() NodeResult { return NodeResult{Valid: true} }

func invalid(format string, args ...any) NodeResult {
	return NodeResult{Error: fmt.Sprintf(format, args...)}
}

// ValidateNode checks a node's answer against its declared rules and option list.
// The first failing rule is reported.
func ValidateNode(node *domain.Node, answers domain.Answers, options []domain.Option) NodeResult {
	if node == nil {
		return valid()
	}
	answer := answers.Get(node.QuestionID)

	if node.Required() {
		if answer.IsNull() {
			return invalid(MsgRequired)
		}
		if items, ok := answer.Items(); ok && node.Control == domain.ControlMulti && len(items) == 0 {
			return invalid(MsgSelectOne)
		}
		if s, ok := answer.Str(); ok && node.Control == domain.ControlSingle && s == "" {
			return invalid(MsgRequired)
		}
	}

	if answer.IsNull() {
		return valid()
	}

	switch node.Control {
	case domain.ControlMulti:
		if res := validateMulti(node, answer, options); !res.Valid {
			return res
		}
	case domain.ControlSingle:
		s, ok := answer.Str()
		if !ok {
			return invalid(MsgExpectString)
		}
		if !recognized(options, s) {
			return invalid("Invalid option: %q.", s)
		}
	}

	if HasOther(options) && otherSelected(node.Control, answer) {
		if blank(answers.Get(domain.CompanionKey(node.QuestionID))) {
			return invalid(MsgOtherText)
		}
	}

	return valid()
}

func validateMulti(node *domain.Node, answer domain.Value, options []domain.Option) NodeResult {
	items, ok := answer.Items()
	if !ok {
		return invalid(MsgExpectArray)
	}

	if v := node.Validation; v != nil {
		if v.MinItems != nil && len(items) < *v.MinItems {
			return invalid("Select at least %d option(s).", *v.MinItems)
		}
		if v.MaxItems != nil && len(items) > *v.MaxItems {
			return invalid("Select at most %d option(s).", *v.MaxItems)
		}
	}

	if none, ok := noneValue(options); ok && none != "" && answer.Includes(none) && len(items) > 1 {
		return invalid("%q cannot be combined with other selections.", none)
	}

	for _, item := range items {
		if !recognized(options, item) {
			return invalid("Invalid option: %q.", item)
		}
	}
	return valid()
}

// recognized reports whether value is one of the options. An empty list accepts anything.
func recognized(options []domain.Option, value string) bool {
	if len(options) == 0 {
		return true
	}
	for _, o := range options {
		if o.Value == value {
			return true
		}
	}
	return false
}

// ValidateAll validates every node in the full reachable set of the flow.
func ValidateAll(flow *domain.Flow, answers domain.Answers) Report {
	return ValidateAllIndexed(flow, BuildIndex(flow), answers)
}

// ValidateAllIndexed is ValidateAll with a prebuilt index.
func ValidateAllIndexed(flow *domain.Flow, idx *Index, answers domain.Answers) Report {
	report := Report{Errors: []FieldError{}}
	if flow == nil {
		report.Valid = true
		return report
	}

	for _, id := range FullReachable(flow.RootID, answers, flow, idx) {
		node, ok := idx.Node(id)
		if !ok {
			continue
		}
		res := ValidateNode(node, answers, flow.OptionsFor(node.QuestionID))
		if !res.Valid {
			report.Errors = append(report.Errors, FieldError{
				NodeID:  id,
				Field:   node.QuestionID,
				Message: res.Error,
			})
		}
	}

	report.Valid = len(report.Errors) == 0
	return report
}
