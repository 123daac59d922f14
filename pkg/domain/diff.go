package domain

import "slices"

// SessionDiff represents the changes between two snapshots of a session.
// It is serialized to JSON so clients can patch their local copy.
type SessionDiff struct {
	SessionID string `json:"session_id"`

	// Answers contains only changed, added or deleted keys.
	// For deletions, the key is present with a nil value.
	Answers map[string]any `json:"answers,omitempty"`

	// Skipped is the full skip list when it changed.
	Skipped *[]string `json:"skipped,omitempty"`
}

// Diff calculates the difference between oldSession and newSession.
// If oldSession is nil, the diff carries the entire newSession.
func Diff(oldSession, newSession *Session) *SessionDiff {
	if newSession == nil {
		return nil
	}

	diff := &SessionDiff{
		SessionID: newSession.ID,
		Answers:   diffAnswers(oldSession, newSession),
	}

	if oldSession == nil {
		if len(newSession.Skipped) > 0 {
			diff.Skipped = &newSession.Skipped
		}
	} else if !slices.Equal(oldSession.Skipped, newSession.Skipped) {
		skipped := slices.Clone(newSession.Skipped)
		if skipped == nil {
			skipped = []string{}
		}
		diff.Skipped = &skipped
	}

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

// Removed lists the answer keys present in old but not in new, sorted.
func Removed(old, new Answers) []string {
	var out []string
	for k := range old {
		if _, ok := new[k]; !ok {
			out = append(out, k)
		}
	}
	slices.Sort(out)
	return out
}

func diffAnswers(old, new *Session) map[string]any {
	delta := make(map[string]any)

	if old == nil {
		for k, v := range new.Answers {
			delta[k] = v.Interface()
		}
		return nilIfEmpty(delta)
	}

	for k, newVal := range new.Answers {
		oldVal, exists := old.Answers[k]
		if !exists || !sameValue(oldVal, newVal) {
			delta[k] = newVal.Interface()
		}
	}

	for k := range old.Answers {
		if _, exists := new.Answers[k]; !exists {
			delta[k] = nil
		}
	}

	return nilIfEmpty(delta)
}

// sameValue is structural equality, unlike StrictEqual which never matches lists.
func sameValue(a, b Value) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	if a.Kind() == KindMulti {
		x, _ := a.Items()
		y, _ := b.Items()
		return slices.Equal(x, y)
	}
	return a.StrictEqual(b)
}

func nilIfEmpty(m map[string]any) map[string]any {
	if len(m) == 0 {
		return nil
	}
	return m
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *SessionDiff) IsEmpty() bool {
	return len(d.Answers) == 0 && d.Skipped == nil
}
