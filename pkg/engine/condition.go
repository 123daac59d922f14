package engine

import "github.com/aretw0/questflow/pkg/domain"

// Evaluate reports whether cond holds for the given answers.
//
// A nil condition is always true. Malformed conditions (missing question id or operator,
// unknown operator, a `not` without a child) fail open and evaluate to true.
func Evaluate(cond *domain.Condition, answers domain.Answers) bool {
	if cond == nil {
		return true
	}

	// Compound operators only apply when their children are present.
	switch {
	case cond.Op == domain.OpAnd && cond.Conditions != nil:
		for _, c := range cond.Conditions {
			if !Evaluate(c, answers) {
				return false
			}
		}
		return true
	case cond.Op == domain.OpOr && cond.Conditions != nil:
		for _, c := range cond.Conditions {
			if Evaluate(c, answers) {
				return true
			}
		}
		return false
	case cond.Op == domain.OpNot && cond.Condition != nil:
		return !Evaluate(cond.Condition, answers)
	}

	if cond.QuestionID == "" || cond.Op == "" {
		return true
	}

	answer := answers.Get(cond.QuestionID)

	switch cond.Op {
	case domain.OpContains:
		return contains(answer, cond.Value)
	case domain.OpNotContains:
		return !contains(answer, cond.Value)
	case domain.OpEquals:
		return answer.StrictEqual(cond.Value)
	case domain.OpNotEquals:
		return !answer.StrictEqual(cond.Value)
	default:
		return true
	}
}

// contains matches a list answer against a string needle.
// Non-list answers and non-string needles never match.
func contains(answer, needle domain.Value) bool {
	s, ok := needle.Str()
	if !ok {
		return false
	}
	return answer.Includes(s)
}
