package engine

import (
	"strings"

	"github.com/aretw0/questflow/pkg/domain"
)

// OtherValue is the option value that requires a companion free-text answer.
const OtherValue = "other"

// HasOther reports whether the option list declares an "other" option.
func HasOther(options []domain.Option) bool {
	for _, o := range options {
		if o.Type == domain.OptionOther {
			return true
		}
	}
	return false
}

// HasNone reports whether the option list declares a "none" option.
func HasNone(options []domain.Option) bool {
	_, ok := noneValue(options)
	return ok
}

func noneValue(options []domain.Option) (string, bool) {
	for _, o := range options {
		if o.Type == domain.OptionNone {
			return o.Value, true
		}
	}
	return "", false
}

// IsComplete reports whether a node's answer is enough to expand past it.
// It is looser than ValidateNode: it never inspects option membership or MaxItems.
func IsComplete(node *domain.Node, answers domain.Answers, options []domain.Option, skip domain.SkipSet) bool {
	if node == nil {
		return false
	}
	if skip.Has(node.QuestionID) {
		return true
	}

	answer := answers.Get(node.QuestionID)
	if answer.IsNull() {
		return false
	}

	switch node.Control {
	case domain.ControlMulti:
		items, ok := answer.Items()
		if !ok {
			return false
		}
		if len(items) < node.MinItems() {
			return false
		}
		if len(items) == 0 && node.Required() {
			return false
		}
	case domain.ControlSingle:
		s, ok := answer.Str()
		if !ok || s == "" {
			return false
		}
	}

	if HasOther(options) && otherSelected(node.Control, answer) {
		return !blank(answers.Get(domain.CompanionKey(node.QuestionID)))
	}
	return true
}

func otherSelected(control domain.Control, answer domain.Value) bool {
	if control == domain.ControlMulti {
		return answer.Includes(OtherValue)
	}
	return answer.StrictEqual(domain.Single(OtherValue))
}

// blank reports whether a companion answer is missing, falsy or whitespace-only.
func blank(v domain.Value) bool {
	switch v.Kind() {
	case domain.KindNull:
		return true
	case domain.KindSingle:
		s, _ := v.Str()
		return strings.TrimSpace(s) == ""
	case domain.KindRaw:
		switch x := v.Interface().(type) {
		case bool:
			return !x
		case float64:
			return x == 0
		}
	}
	return false
}
