package lint_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/questflow/internal/lint"
	"github.com/aretw0/questflow/internal/testutils"
	"github.com/aretw0/questflow/pkg/domain"
)

func messages(issues []lint.Issue) []string {
	out := make([]string, len(issues))
	for i, is := range issues {
		out[i] = is.String()
	}
	return out
}

func TestCheck_CleanFlow(t *testing.T) {
	issues := lint.Check(testutils.StacksFlow())
	assert.Empty(t, issues, messages(issues))
	assert.NoError(t, lint.ValidateFlow(testutils.StacksFlow()))
}

func TestCheck_BrokenFlow(t *testing.T) {
	flow := testutils.StacksFlow()
	flow.Nodes = append(flow.Nodes,
		domain.Node{ID: "q_orphan", QuestionID: "orphan", Control: domain.ControlSingle},
		domain.Node{ID: "q_pkg", QuestionID: "pkg", Control: domain.ControlSingle},
	)
	flow.Edges = append(flow.Edges,
		domain.Edge{ID: "e_ghost", Source: "q_pkg", Target: "ghost_node"},
		domain.Edge{ID: "e_bad", Source: "q_stacks", Target: "q_pkg",
			When: &domain.Condition{QuestionID: "nope", Op: domain.OpEquals, Value: domain.Single("x")}},
		domain.Edge{ID: "e_open", Source: "q_stacks", Target: "q_pkg", When: &domain.Condition{Op: domain.OpEquals}},
	)

	issues := lint.Check(flow)
	msgs := messages(issues)

	assert.Contains(t, msgs, "[error] q_pkg: duplicate node id (the last declaration wins)")
	assert.Contains(t, msgs, `[error] edge e_ghost: target "ghost_node" does not exist`)
	assert.Contains(t, msgs, `[warning] edge e_bad: condition references unknown question "nope"`)
	assert.Contains(t, msgs, "[warning] edge e_open: condition is missing questionId or op and always holds")
	assert.Contains(t, msgs, "[warning] q_orphan: node is unreachable from the root")
	assert.Contains(t, msgs, `[warning] q_orphan: question "orphan" has no options`)
	assert.True(t, lint.HasErrors(issues))

	err := lint.ValidateFlow(flow)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "found 2 errors")
}

func TestCheck_Root(t *testing.T) {
	flow := testutils.StacksFlow()
	flow.RootID = "missing"
	assert.Contains(t, messages(lint.Check(flow)), `[error] root node "missing" does not exist`)

	flow.RootID = ""
	assert.Contains(t, messages(lint.Check(flow)), "[error] rootId is not set")

	assert.True(t, lint.HasErrors(lint.Check(nil)))
}

func TestCheck_NestedConditions(t *testing.T) {
	flow := testutils.StacksFlow()
	flow.Edges[0].When = &domain.Condition{Op: domain.OpAnd, Conditions: []*domain.Condition{
		{Op: domain.OpNot, Condition: &domain.Condition{QuestionID: "stacks", Op: "matches", Value: domain.Single("w")}},
	}}

	assert.Contains(t, messages(lint.Check(flow)), `[warning] edge e_web: unknown operator "matches" always holds`)
}

func TestCheck_ItemBounds(t *testing.T) {
	flow := testutils.StacksFlow()
	two, one := 2, 1
	flow.Nodes[1].Validation = &domain.Validation{MinItems: &two, MaxItems: &one}

	assert.Contains(t, messages(lint.Check(flow)), "[error] q_web_lang: minItems 2 exceeds maxItems 1")
}
