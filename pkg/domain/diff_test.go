package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiff(t *testing.T) {
	tests := []struct {
		name string
		old  *Session
		new  *Session
		want *SessionDiff
	}{
		{
			name: "Initial Load (Old is Nil)",
			old:  nil,
			new: &Session{
				ID:      "sess-1",
				Answers: Answers{"q1": Single("yes")},
			},
			want: &SessionDiff{
				SessionID: "sess-1",
				Answers:   map[string]any{"q1": "yes"},
			},
		},
		{
			name: "No Changes",
			old: &Session{
				ID:      "sess-1",
				Answers: Answers{"q1": Multi("a", "b")},
			},
			new: &Session{
				ID:      "sess-1",
				Answers: Answers{"q1": Multi("a", "b")},
			},
			want: nil,
		},
		{
			name: "Modified And Deleted Keys",
			old: &Session{
				ID:      "sess-1",
				Answers: Answers{"q1": Single("yes"), "q2": Single("x")},
			},
			new: &Session{
				ID:      "sess-1",
				Answers: Answers{"q1": Single("no")},
			},
			want: &SessionDiff{
				SessionID: "sess-1",
				Answers:   map[string]any{"q1": "no", "q2": nil},
			},
		},
		{
			name: "Skip List Cleared",
			old: &Session{
				ID:      "sess-1",
				Answers: Answers{},
				Skipped: []string{"q3"},
			},
			new: &Session{
				ID:      "sess-1",
				Answers: Answers{},
			},
			want: &SessionDiff{
				SessionID: "sess-1",
				Skipped:   &[]string{},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Diff(tt.old, tt.new)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDiff_JSON(t *testing.T) {
	old := &Session{ID: "s", Answers: Answers{"a": Single("1"), "b": Single("2")}}
	next := &Session{ID: "s", Answers: Answers{"a": Single("1")}}

	data, err := json.Marshal(Diff(old, next))
	require.NoError(t, err)
	assert.JSONEq(t, `{"session_id":"s","answers":{"b":null}}`, string(data))
}

func TestRemoved(t *testing.T) {
	old := Answers{"c": Null(), "a": Single("x"), "b": Single("y")}
	next := Answers{"b": Single("y")}

	assert.Equal(t, []string{"a", "c"}, Removed(old, next))
	assert.Nil(t, Removed(next, next))
}
