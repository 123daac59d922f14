package file_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/questflow/internal/testutils"
	"github.com/aretw0/questflow/pkg/adapters/file"
	"github.com/aretw0/questflow/pkg/domain"
	"github.com/aretw0/questflow/pkg/engine"
	contract "github.com/aretw0/questflow/pkg/ports/tests"
)

func TestFileLoader_Contract(t *testing.T) {
	path := testutils.WriteFile(t, "flow.yaml", testutils.StacksFlowYAML)
	contract.FlowLoaderContractTest(t, file.NewLoader(path), testutils.StacksFlow())
}

func TestFileLoader_EditorExport(t *testing.T) {
	path := testutils.WriteFile(t, "flow.yaml", testutils.StacksFlowYAML)

	flow, err := file.NewLoader(path).LoadFlow(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, flow.Version)
	idx := engine.BuildIndex(flow)

	root, ok := idx.Node("q_stacks")
	require.True(t, ok)
	assert.Equal(t, "stacks", root.QuestionID)
	assert.Equal(t, domain.ControlMulti, root.Control)
	assert.True(t, root.Required())
	assert.Equal(t, 1, root.MinItems())
	assert.True(t, root.DefaultValue.Includes("web"))

	edges := idx.Edges("q_stacks")
	require.Len(t, edges, 3)
	assert.Equal(t, "e_web", edges[0].ID)
	assert.Equal(t, 10, edges[0].Order)
	require.NotNil(t, edges[0].When)
	assert.Equal(t, domain.OpContains, edges[0].When.Op)
	assert.True(t, edges[0].When.Value.StrictEqual(domain.Single("web")))
	assert.Nil(t, edges[2].When)

	assert.Equal(t, domain.OptionOther, flow.OptionsFor("web_lang")[1].Type)

	// The decoded flow drives the engine like the in-memory one.
	got := engine.Traverse(flow.RootID, domain.Answers{"stacks": domain.Multi("web")}, flow, idx, nil)
	assert.Equal(t, []string{"q_stacks", "q_web_lang", "q_pkg"}, got)
}

func TestDecode_FlatJSON(t *testing.T) {
	doc := `{
    "rootId": "a",
    "nodes": [
      {"id": "a", "questionId": "qa", "control": "single"},
      {"id": "b", "questionId": "qb", "control": "multi", "validation": {"maxItems": 2}}
    ],
    "edges": [
      {"id": "ab", "source": "a", "target": "b", "order": 3,
       "when": {"op": "or", "conditions": []}}
    ]
  }`

	flow, err := file.Decode([]byte(doc))
	require.NoError(t, err)

	assert.Equal(t, 1, flow.Version, "missing version defaults to 1")
	assert.NotNil(t, flow.Options)
	require.Len(t, flow.Nodes, 2)
	require.NotNil(t, flow.Nodes[1].Validation)
	require.NotNil(t, flow.Nodes[1].Validation.MaxItems)
	assert.Equal(t, 2, *flow.Nodes[1].Validation.MaxItems)

	require.Len(t, flow.Edges, 1)
	assert.Equal(t, 3, flow.Edges[0].Order)
	require.NotNil(t, flow.Edges[0].When)
	assert.NotNil(t, flow.Edges[0].When.Conditions, "an empty list stays distinct from a missing one")
	assert.False(t, engine.Evaluate(flow.Edges[0].When, nil))
}

func TestDecode_NestedConditions(t *testing.T) {
	doc := `
rootId: a
nodes: [{id: a, questionId: qa, control: single}]
edges:
  - id: e
    source: a
    target: a
    when:
      op: not
      condition:
        op: and
        conditions:
          - {questionId: qa, op: equals, value: x}
          - {questionId: qa, op: notEquals, value: 3}
`
	flow, err := file.Decode([]byte(doc))
	require.NoError(t, err)

	when := flow.Edges[0].When
	require.NotNil(t, when)
	require.NotNil(t, when.Condition)
	require.Len(t, when.Condition.Conditions, 2)
	assert.Equal(t, domain.KindRaw, when.Condition.Conditions[1].Value.Kind())

	assert.False(t, engine.Evaluate(when, domain.Answers{"qa": domain.Single("x")}))
	assert.True(t, engine.Evaluate(when, domain.Answers{"qa": domain.Single("y")}))
}

func TestDecode_Errors(t *testing.T) {
	_, err := file.Decode([]byte("nodes: [unterminated"))
	assert.Error(t, err)

	_, err = file.Decode([]byte(""))
	assert.Error(t, err)

	_, err = file.NewLoader("/does/not/exist.yaml").LoadFlow(context.Background())
	assert.Error(t, err)
}

func TestFileLoader_Watch(t *testing.T) {
	path := testutils.WriteFile(t, "flow.yaml", testutils.StacksFlowYAML)
	info, err := os.Stat(path)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes, err := file.NewLoader(path).Watch(ctx)
	require.NoError(t, err)

	// New content with the old mtime still counts as a change.
	updated := strings.Replace(testutils.StacksFlowYAML, "Package manager", "Package tool", 1)
	require.NoError(t, os.WriteFile(path, []byte(updated), 0644))
	require.NoError(t, os.Chtimes(path, info.ModTime(), info.ModTime()))

	waitChange(t, changes)

	cancel()
	assert.Eventually(t, func() bool {
		select {
		case _, ok := <-changes:
			return !ok
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond)
}

func TestFileLoader_WatchRenameSave(t *testing.T) {
	path := testutils.WriteFile(t, "flow.yaml", testutils.StacksFlowYAML)
	dir := filepath.Dir(path)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes, err := file.NewLoader(path).Watch(ctx)
	require.NoError(t, err)

	// Other files in the directory are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	select {
	case <-changes:
		t.Fatal("unrelated file triggered a change")
	case <-time.After(200 * time.Millisecond):
	}

	tmp := filepath.Join(dir, ".flow.yaml.tmp")
	require.NoError(t, os.WriteFile(tmp, []byte(testutils.StacksFlowYAML), 0644))
	require.NoError(t, os.Rename(tmp, path))

	waitChange(t, changes)
}

func TestFileLoader_WatchMissingFile(t *testing.T) {
	_, err := file.NewLoader(filepath.Join(t.TempDir(), "missing.yaml")).Watch(context.Background())
	assert.Error(t, err)
}

func waitChange(t *testing.T, changes <-chan struct{}) {
	t.Helper()
	select {
	case _, ok := <-changes:
		assert.True(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("expected a change notification")
	}
}
