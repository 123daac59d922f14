package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCondition_MarshalJSON(t *testing.T) {
	t.Run("Leaf", func(t *testing.T) {
		c := Condition{QuestionID: "q1", Op: OpEquals, Value: Single("yes")}
		data, err := json.Marshal(c)
		require.NoError(t, err)
		assert.JSONEq(t, `{"questionId":"q1","op":"equals","value":"yes"}`, string(data))
	})

	t.Run("Empty Compound Keeps Children", func(t *testing.T) {
		c := Condition{Op: OpOr, Conditions: []*Condition{}}
		data, err := json.Marshal(c)
		require.NoError(t, err)
		assert.JSONEq(t, `{"op":"or","conditions":[]}`, string(data))
	})

	t.Run("Compound Without Children", func(t *testing.T) {
		data, err := json.Marshal(Condition{Op: OpAnd})
		require.NoError(t, err)
		assert.JSONEq(t, `{"op":"and"}`, string(data))
	})
}

func TestCondition_UnmarshalJSON(t *testing.T) {
	var c Condition
	err := json.Unmarshal([]byte(`{"op":"not","condition":{"questionId":"q","op":"contains","value":"a"}}`), &c)
	require.NoError(t, err)

	assert.Equal(t, OpNot, c.Op)
	require.NotNil(t, c.Condition)
	assert.Equal(t, "q", c.Condition.QuestionID)
	assert.True(t, c.Condition.Value.StrictEqual(Single("a")))
	assert.Nil(t, c.Conditions)
}

func TestCompanionKey(t *testing.T) {
	assert.Equal(t, "q1_other_text", CompanionKey("q1"))

	base, ok := CompanionBase("q1_other_text")
	assert.True(t, ok)
	assert.Equal(t, "q1", base)

	_, ok = CompanionBase("q1")
	assert.False(t, ok)
}
