package cli_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/questflow"
	"github.com/aretw0/questflow/internal/cli"
	"github.com/aretw0/questflow/internal/logging"
	"github.com/aretw0/questflow/internal/testutils"
	"github.com/aretw0/questflow/pkg/domain"
	"github.com/aretw0/questflow/pkg/session"
)

func newRunStack(t *testing.T) (*questflow.Engine, *session.Manager) {
	t.Helper()
	logger := logging.NewNop()
	path := testutils.WriteFile(t, "stacks.yaml", testutils.StacksFlowYAML)

	eng, err := cli.NewEngine(cli.Options{FlowPath: path}, logger)
	require.NoError(t, err)
	p, err := cli.NewPersistence(context.Background(), cli.Options{Store: cli.StoreMemory}, logger)
	require.NoError(t, err)
	return eng, cli.NewSessionManager(p, eng, logger)
}

func TestRunSession_Finishes(t *testing.T) {
	eng, mgr := newRunStack(t)
	var out bytes.Buffer

	sess, res, err := cli.RunSession(context.Background(), eng, mgr, cli.RunOptions{
		In:  strings.NewReader("\n1\n\n"),
		Out: &out,
	})
	require.NoError(t, err)
	assert.True(t, res.Finished)
	assert.Contains(t, out.String(), "Finished.")

	stored, err := mgr.Load(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.True(t, stored.Answers.Get("web_lang").Includes("ts"))
	assert.True(t, stored.Answers.Get("pkg").StrictEqual(domain.Single("pnpm")))
}

func TestRunSession_ResumeAndFresh(t *testing.T) {
	eng, mgr := newRunStack(t)
	ctx := context.Background()

	var out bytes.Buffer
	_, res, err := cli.RunSession(ctx, eng, mgr, cli.RunOptions{
		SessionID: "demo",
		In:        strings.NewReader("2\nskip\nexit\n"),
		Out:       &out,
	})
	require.NoError(t, err)
	assert.False(t, res.Finished)
	assert.Contains(t, out.String(), "Session 'demo' active.")
	assert.Contains(t, out.String(), "Resume with --session demo")

	stored, err := mgr.Load(ctx, "demo")
	require.NoError(t, err)
	assert.Equal(t, []string{"server_lang"}, stored.Skipped)

	out.Reset()
	_, res, err = cli.RunSession(ctx, eng, mgr, cli.RunOptions{
		SessionID: "demo",
		In:        strings.NewReader("\n"),
		Out:       &out,
	})
	require.NoError(t, err)
	assert.True(t, res.Finished, "only the package manager was left")
	assert.Contains(t, out.String(), "Resuming session 'demo' (1 answers).")

	out.Reset()
	_, res, err = cli.RunSession(ctx, eng, mgr, cli.RunOptions{
		SessionID: "demo",
		Fresh:     true,
		In:        strings.NewReader(""),
		Out:       &out,
	})
	require.NoError(t, err)
	assert.False(t, res.Finished)
	assert.Contains(t, out.String(), "Session 'demo' active.")
}

func TestRunSession_Interrupted(t *testing.T) {
	eng, mgr := newRunStack(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	_, _, err := cli.RunSession(ctx, eng, mgr, cli.RunOptions{
		In:  strings.NewReader(""),
		Out: &out,
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoError(t, cli.HandleExecutionError(err))
}
