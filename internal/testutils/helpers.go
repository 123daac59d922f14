package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aretw0/questflow/pkg/domain"
)

// StacksFlowYAML is the editor-export shape of StacksFlow: node fields live under `data`.
const StacksFlowYAML = `
version: 2
rootId: q_stacks
nodes:
  - id: q_stacks
    type: question
    data:
      questionId: stacks
      label: "What's in your stack?"
      control: multi
      defaultValue: [web]
      validation: { required: true, minItems: 1 }
  - id: q_web_lang
    type: question
    data: { questionId: web_lang, label: Web language, control: multi }
  - id: q_server_lang
    type: question
    data: { questionId: server_lang, label: Server language, control: multi }
  - id: q_pkg
    type: question
    data:
      questionId: pkg
      label: Package manager
      control: single
      defaultValue: pnpm
      validation: { required: true }
edges:
  - id: e_web
    source: q_stacks
    target: q_web_lang
    data: { order: 10, when: { questionId: stacks, op: contains, value: web } }
  - id: e_server
    source: q_stacks
    target: q_server_lang
    data: { order: 20, when: { questionId: stacks, op: contains, value: server } }
  - id: e_pkg
    source: q_stacks
    target: q_pkg
    data: { order: 100 }
options:
  stacks:
    - { value: web, label: Web }
    - { value: server, label: Server }
  web_lang:
    - { value: ts, label: TypeScript }
    - { value: other, label: Other, type: other }
  server_lang:
    - { value: go, label: Go }
    - { value: py, label: Python }
  pkg:
    - { value: pnpm, label: pnpm }
    - { value: npm, label: npm }
`

func intp(n int) *int { return &n }

// StacksFlow returns a root multi-select fanning out to per-stack follow-ups and a shared tail.
// It is the in-memory twin of StacksFlowYAML.
func StacksFlow() *domain.Flow {
	web := &domain.Condition{QuestionID: "stacks", Op: domain.OpContains, Value: domain.Single("web")}
	server := &domain.Condition{QuestionID: "stacks", Op: domain.OpContains, Value: domain.Single("server")}

	return &domain.Flow{
		Version: domain.FlowVersion,
		RootID:  "q_stacks",
		Nodes: []domain.Node{
			{
				ID: "q_stacks", Type: domain.NodeTypeQuestion, QuestionID: "stacks", Label: "What's in your stack?",
				Control:      domain.ControlMulti,
				Validation:   &domain.Validation{Required: true, MinItems: intp(1)},
				DefaultValue: domain.Multi("web"),
			},
			{ID: "q_web_lang", Type: domain.NodeTypeQuestion, QuestionID: "web_lang", Label: "Web language", Control: domain.ControlMulti},
			{ID: "q_server_lang", Type: domain.NodeTypeQuestion, QuestionID: "server_lang", Label: "Server language", Control: domain.ControlMulti},
			{
				ID: "q_pkg", Type: domain.NodeTypeQuestion, QuestionID: "pkg", Label: "Package manager",
				Control:      domain.ControlSingle,
				Validation:   &domain.Validation{Required: true},
				DefaultValue: domain.Single("pnpm"),
			},
		},
		Edges: []domain.Edge{
			{ID: "e_web", Source: "q_stacks", Target: "q_web_lang", Order: 10, When: web},
			{ID: "e_server", Source: "q_stacks", Target: "q_server_lang", Order: 20, When: server},
			{ID: "e_pkg", Source: "q_stacks", Target: "q_pkg", Order: 100},
		},
		Options: map[string][]domain.Option{
			"stacks":      {{Value: "web", Label: "Web"}, {Value: "server", Label: "Server"}},
			"web_lang":    {{Value: "ts", Label: "TypeScript"}, {Value: "other", Label: "Other", Type: domain.OptionOther}},
			"server_lang": {{Value: "go", Label: "Go"}, {Value: "py", Label: "Python"}},
			"pkg":         {{Value: "pnpm", Label: "pnpm"}, {Value: "npm", Label: "npm"}},
		},
	}
}

// WriteFile writes content into a fresh temp dir and returns the absolute file path.
// It fails the test immediately on error.
func WriteFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644), "Failed to write %s", name)
	return path
}
