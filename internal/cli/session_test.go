package cli_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/questflow/internal/cli"
	"github.com/aretw0/questflow/pkg/adapters/file"
	"github.com/aretw0/questflow/pkg/domain"
)

func TestSessionCommands(t *testing.T) {
	ctx := context.Background()
	store := file.NewStore(t.TempDir())
	var out bytes.Buffer

	require.NoError(t, cli.ListSessions(ctx, store, &out))
	assert.Equal(t, "No active sessions found.\n", out.String())

	require.NoError(t, store.Save(ctx, "b", domain.NewSession("b", domain.Answers{"pkg": domain.Single("npm")})))
	require.NoError(t, store.Save(ctx, "a", domain.NewSession("a", nil)))

	out.Reset()
	require.NoError(t, cli.ListSessions(ctx, store, &out))
	assert.Equal(t, "Active Sessions:\n- a\n- b\n", out.String())

	out.Reset()
	require.NoError(t, cli.InspectSession(ctx, store, "b", &out))
	assert.Contains(t, out.String(), `"pkg": "npm"`)

	err := cli.InspectSession(ctx, store, "missing", &out)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	out.Reset()
	require.NoError(t, cli.RemoveSessions(ctx, store, []string{"a", "b"}, &out))
	assert.Contains(t, out.String(), "Removed session 'a'")

	err = cli.RemoveSessions(ctx, store, []string{"../escape"}, &out)
	assert.Error(t, err)
}
