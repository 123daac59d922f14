package domain

import "strings"

// CompanionSuffix is appended to a question id to name its "other" free-text field.
const CompanionSuffix = "_other_text"

// CompanionKey derives the companion field name of a question.
func CompanionKey(questionID string) string {
	return questionID + CompanionSuffix
}

// CompanionBase returns the question id of a companion key.
func CompanionBase(key string) (string, bool) {
	return strings.CutSuffix(key, CompanionSuffix)
}

// Answers is the flat answer set: field key -> value.
// A missing key and a Null value both mean "no answer".
type Answers map[string]Value

// AnswersFromMap converts decoded JSON/YAML data into Answers.
func AnswersFromMap(m map[string]any) Answers {
	out := make(Answers, len(m))
	for k, v := range m {
		out[k] = Raw(v)
	}
	return out
}

// Get returns the value stored under key (Null when absent).
func (a Answers) Get(key string) Value {
	if a == nil {
		return Null()
	}
	return a[key]
}

// Clone returns a shallow copy.
func (a Answers) Clone() Answers {
	out := make(Answers, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Merge returns a copy of a with the keys of updates applied on top.
func (a Answers) Merge(updates Answers) Answers {
	out := a.Clone()
	for k, v := range updates {
		out[k] = v
	}
	return out
}

// ToMap returns the plain representation.
func (a Answers) ToMap() map[string]any {
	out := make(map[string]any, len(a))
	for k, v := range a {
		out[k] = v.Interface()
	}
	return out
}

// SkipSet holds the question ids the user explicitly chose not to answer.
type SkipSet map[string]struct{}

// NewSkipSet builds a set from question ids.
func NewSkipSet(questionIDs ...string) SkipSet {
	s := make(SkipSet, len(questionIDs))
	for _, id := range questionIDs {
		s[id] = struct{}{}
	}
	return s
}

// Has reports whether the question was skipped. Safe on a nil set.
func (s SkipSet) Has(questionID string) bool {
	_, ok := s[questionID]
	return ok
}

// IDs returns the skipped question ids.
func (s SkipSet) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	return ids
}
