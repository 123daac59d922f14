package tests

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/questflow/pkg/domain"
	"github.com/aretw0/questflow/pkg/ports"
)

// FlowLoaderContractTest is a reusable test suite that verifies if an adapter complies with ports.FlowLoader.
func FlowLoaderContractTest(t *testing.T, loader ports.FlowLoader, want *domain.Flow) {
	t.Helper()
	ctx := context.Background()

	t.Run("LoadFlow", func(t *testing.T) {
		flow, err := loader.LoadFlow(ctx)
		require.NoError(t, err)
		require.NotNil(t, flow)

		assert.Equal(t, want.RootID, flow.RootID)
		assert.Len(t, flow.Nodes, len(want.Nodes))
		assert.Len(t, flow.Edges, len(want.Edges))
		for qid, opts := range want.Options {
			assert.Len(t, flow.OptionsFor(qid), len(opts), "options of %s", qid)
		}
	})

	t.Run("LoadFlow_Stable", func(t *testing.T) {
		first, err := loader.LoadFlow(ctx)
		require.NoError(t, err)
		second, err := loader.LoadFlow(ctx)
		require.NoError(t, err)

		var a, b []string
		for _, n := range first.Nodes {
			a = append(a, n.ID)
		}
		for _, n := range second.Nodes {
			b = append(b, n.ID)
		}
		assert.Equal(t, a, b, "node order must be preserved across loads")
	})
}
