package tui_test

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/questflow/internal/presentation/tui"
	"github.com/aretw0/questflow/pkg/engine"
)

func TestSummaryMarkdown(t *testing.T) {
	s := engine.Summary{Items: []engine.SummaryItem{
		{QuestionID: "stacks", Label: "Stacks", Values: []string{"web"}, Labels: []string{"Web"}},
		{QuestionID: "web_lang", Label: "Web language", Values: []string{"other"}, Labels: []string{"Other"}, OtherText: "Elm"},
		{QuestionID: "server_lang", Label: "Server language", Skipped: true},
		{QuestionID: "pkg", Label: "Package manager"},
	}}

	md := tui.SummaryMarkdown("Answers", s)
	assert.Contains(t, md, "# Answers\n")
	assert.Contains(t, md, "## Stacks\n\n- Web\n")
	assert.Contains(t, md, "- Other: Elm\n")
	assert.Contains(t, md, "## Server language\n\n_Skipped_")
	assert.Contains(t, md, "## Package manager\n\n_Not answered_")

	assert.Contains(t, tui.SummaryMarkdown("Empty", engine.Summary{}), "_No questions reached._")
}

func TestRenderer(t *testing.T) {
	out, err := tui.NewRenderer()("# Title")
	require.NoError(t, err)
	assert.Contains(t, out, "Title")
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	tui.PrintBanner(&buf, "1.2.3\n")
	assert.Contains(t, buf.String(), "v1.2.3")
}

func TestIsTerminal_File(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "out")
	require.NoError(t, err)
	defer f.Close()
	assert.False(t, tui.IsTerminal(f))
}
