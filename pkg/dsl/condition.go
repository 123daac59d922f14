package dsl

import "github.com/aretw0/questflow/pkg/domain"

// Opt declares a plain option.
func Opt(value, label string) domain.Option {
	return domain.Option{Value: value, Label: label}
}

// Other declares the "other" option, which asks for a companion free-text answer.
func Other(label string) domain.Option {
	return domain.Option{Value: "other", Label: label, Type: domain.OptionOther}
}

// None declares an exclusive option that cannot be combined with other selections.
func None(value, label string) domain.Option {
	return domain.Option{Value: value, Label: label, Type: domain.OptionNone}
}

// Equals holds when the answer strictly equals v (string, number or bool).
func Equals(questionID string, v any) *domain.Condition {
	return &domain.Condition{QuestionID: questionID, Op: domain.OpEquals, Value: domain.Raw(v)}
}

// NotEquals is the negation of Equals.
func NotEquals(questionID string, v any) *domain.Condition {
	return &domain.Condition{QuestionID: questionID, Op: domain.OpNotEquals, Value: domain.Raw(v)}
}

// Contains holds when a multi answer includes value.
func Contains(questionID, value string) *domain.Condition {
	return &domain.Condition{QuestionID: questionID, Op: domain.OpContains, Value: domain.Single(value)}
}

// NotContains holds when a multi answer does not include value.
func NotContains(questionID, value string) *domain.Condition {
	return &domain.Condition{QuestionID: questionID, Op: domain.OpNotContains, Value: domain.Single(value)}
}

// And holds when every child holds. And() is true.
func And(conds ...*domain.Condition) *domain.Condition {
	return &domain.Condition{Op: domain.OpAnd, Conditions: append([]*domain.Condition{}, conds...)}
}

// Or holds when any child holds. Or() is false.
func Or(conds ...*domain.Condition) *domain.Condition {
	return &domain.Condition{Op: domain.OpOr, Conditions: append([]*domain.Condition{}, conds...)}
}

// Not negates its child.
func Not(cond *domain.Condition) *domain.Condition {
	return &domain.Condition{Op: domain.OpNot, Condition: cond}
}
