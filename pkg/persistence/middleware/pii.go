package middleware

import (
	"context"
	"regexp"

	"github.com/aretw0/questflow/pkg/domain"
	"github.com/aretw0/questflow/pkg/ports"
)

// Mask replaces the value of masked answers.
const Mask = "***"

// DefaultPIIPatterns masks free-text companion answers, the only place users type freely.
var DefaultPIIPatterns = []string{`_other_text$`}

type piiMiddleware struct {
	next     ports.SessionStore
	patterns []*regexp.Regexp
}

// NewPIIMiddleware creates a middleware that masks answers whose key matches any pattern.
// Masking is one-way: stored sessions keep Mask in place of the original value.
func NewPIIMiddleware(patternStrings []string) Middleware {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		patterns[i] = regexp.MustCompile(p)
	}
	return func(next ports.SessionStore) ports.SessionStore {
		return &piiMiddleware{next: next, patterns: patterns}
	}
}

func (m *piiMiddleware) Save(ctx context.Context, sessionID string, sess *domain.Session) error {
	// Copy so the caller's session is left untouched.
	masked := sess.Snapshot()
	for key, value := range masked.Answers {
		if value.IsNull() || !m.matches(key) {
			continue
		}
		masked.Answers[key] = domain.Single(Mask)
	}
	return m.next.Save(ctx, sessionID, masked)
}

func (m *piiMiddleware) matches(key string) bool {
	for _, p := range m.patterns {
		if p.MatchString(key) {
			return true
		}
	}
	return false
}

func (m *piiMiddleware) Load(ctx context.Context, sessionID string) (*domain.Session, error) {
	return m.next.Load(ctx, sessionID)
}

func (m *piiMiddleware) Delete(ctx context.Context, sessionID string) error {
	return m.next.Delete(ctx, sessionID)
}

func (m *piiMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}
