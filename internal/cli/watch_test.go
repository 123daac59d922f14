package cli_test

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/questflow"
	"github.com/aretw0/questflow/internal/cli"
	"github.com/aretw0/questflow/internal/logging"
	"github.com/aretw0/questflow/internal/testutils"
	"github.com/aretw0/questflow/pkg/adapters/file"
	"github.com/aretw0/questflow/pkg/adapters/memory"
)

func TestWatchFlow_Reloads(t *testing.T) {
	path := testutils.WriteFile(t, "stacks.yaml", testutils.StacksFlowYAML)
	eng, err := questflow.New(path, questflow.WithLoader(file.NewLoader(path)))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, err = eng.Flow(ctx)
	require.NoError(t, err)

	reloaded := make(chan struct{}, 1)
	done := make(chan error, 1)
	go func() {
		done <- cli.WatchFlow(ctx, eng, logging.NewNop(), func() {
			select {
			case reloaded <- struct{}{}:
			default:
			}
		})
	}()

	// Let WatchFlow subscribe before the write.
	time.Sleep(50 * time.Millisecond)
	updated := strings.Replace(testutils.StacksFlowYAML, "Package manager", "Package tool", 1)
	require.NoError(t, os.WriteFile(path, []byte(updated), 0644))

	select {
	case <-reloaded:
	case <-time.After(5 * time.Second):
		t.Fatal("flow was not reloaded")
	}

	node, err := eng.Node(ctx, "q_pkg")
	require.NoError(t, err)
	assert.Equal(t, "Package tool", node.Label)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatchFlow_Unsupported(t *testing.T) {
	eng, err := questflow.New("stacks", questflow.WithLoader(memory.NewLoader(testutils.StacksFlow())))
	require.NoError(t, err)

	err = cli.WatchFlow(context.Background(), eng, logging.NewNop(), nil)
	assert.Error(t, err)
}
