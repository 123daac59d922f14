package questflow_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/questflow"
	"github.com/aretw0/questflow/pkg/domain"
)

func TestRunner_CompletesFlow(t *testing.T) {
	eng := newEngine(t)
	in := strings.NewReader("1\nother\nelm\n\n")
	var out bytes.Buffer

	res, err := questflow.NewRunner(in, &out).Run(context.Background(), eng, nil, nil)
	require.NoError(t, err)

	assert.True(t, res.Finished)
	assert.True(t, res.Answers.Get("stacks").Includes("web"))
	assert.True(t, res.Answers.Get("web_lang").Includes("other"))
	assert.True(t, res.Answers.Get("web_lang_other_text").StrictEqual(domain.Single("elm")))
	assert.True(t, res.Answers.Get("pkg").StrictEqual(domain.Single("pnpm")), "empty input takes the default")

	assert.Contains(t, out.String(), "What's in your stack?")
	assert.Contains(t, out.String(), "1) Web")
	assert.Contains(t, out.String(), "[pnpm]")
}

func TestRunner_RejectsInvalidAnswer(t *testing.T) {
	eng := newEngine(t)
	in := strings.NewReader("cobol\n2\n")
	var out bytes.Buffer

	res, err := questflow.NewRunner(in, &out).Run(context.Background(), eng, nil, nil)
	require.NoError(t, err)

	assert.False(t, res.Finished, "input ended before the flow")
	assert.Contains(t, out.String(), `! Invalid option: "cobol".`)
	assert.True(t, res.Answers.Get("stacks").Includes("server"))
}

func TestRunner_SkipAndExit(t *testing.T) {
	eng := newEngine(t)
	in := strings.NewReader("server\nskip\nexit\n")
	var out bytes.Buffer

	res, err := questflow.NewRunner(in, &out).Run(context.Background(), eng, nil, nil)
	require.NoError(t, err)

	assert.True(t, res.Skip.Has("server_lang"))
	assert.False(t, res.Finished)
	assert.Contains(t, out.String(), "Bye!")
}

func TestRunner_RequiredCannotBeSkipped(t *testing.T) {
	eng := newEngine(t)
	in := strings.NewReader("skip\n")
	var out bytes.Buffer

	res, err := questflow.NewRunner(in, &out).Run(context.Background(), eng, nil, nil)
	require.NoError(t, err)
	assert.False(t, res.Skip.Has("stacks"))
	assert.Contains(t, out.String(), "cannot be skipped")
}

func TestRunner_PrunesChangedBranch(t *testing.T) {
	eng := newEngine(t)
	start := domain.Answers{
		"stacks":   domain.Multi("web"),
		"web_lang": domain.Multi("ts"),
	}
	// Only pkg is pending; answering it finishes the flow and keeps the web branch.
	res, err := questflow.NewRunner(strings.NewReader("npm\n"), &bytes.Buffer{}).Run(context.Background(), eng, start, nil)
	require.NoError(t, err)

	assert.True(t, res.Finished)
	assert.True(t, res.Answers.Get("web_lang").Includes("ts"))
	assert.True(t, res.Answers.Get("pkg").StrictEqual(domain.Single("npm")))
	assert.Len(t, start, 2, "input answers are not modified")
}

func TestRunner_RequiresIO(t *testing.T) {
	eng := newEngine(t)
	_, err := (&questflow.Runner{}).Run(context.Background(), eng, nil, nil)
	assert.Error(t, err)
}
