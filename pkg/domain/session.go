package domain

import (
	"slices"
	"time"
)

// Session is a persisted questionnaire run.
type Session struct {
	ID        string    `json:"id"`
	Answers   Answers   `json:"answers"`
	Skipped   []string  `json:"skipped,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewSession creates a session with the given initial answers.
func NewSession(id string, answers Answers) *Session {
	now := time.Now().UTC()
	if answers == nil {
		answers = Answers{}
	}
	return &Session{
		ID:        id,
		Answers:   answers.Clone(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// SkipSet returns the skipped question ids as a set.
func (s *Session) SkipSet() SkipSet {
	return NewSkipSet(s.Skipped...)
}

// Snapshot returns a copy that shares no mutable state with s.
func (s *Session) Snapshot() *Session {
	if s == nil {
		return nil
	}
	cp := *s
	cp.Answers = s.Answers.Clone()
	cp.Skipped = slices.Clone(s.Skipped)
	return &cp
}
