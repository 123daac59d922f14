package observability_test

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/questflow"
	"github.com/aretw0/questflow/internal/logging"
	"github.com/aretw0/questflow/internal/testutils"
	"github.com/aretw0/questflow/pkg/adapters/memory"
	"github.com/aretw0/questflow/pkg/domain"
	"github.com/aretw0/questflow/pkg/observability"
)

func TestMetrics_RecordsEngineEvents(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	eng, err := questflow.New("stacks",
		questflow.WithLoader(memory.NewLoader(testutils.StacksFlow())),
		questflow.WithLifecycleHooks(m.Hooks()),
	)
	require.NoError(t, err)
	ctx := context.Background()

	answers := domain.Answers{
		"stacks":      domain.Multi("web"),
		"server_lang": domain.Multi("go"),
	}
	_, err = eng.Progress(ctx, answers, nil)
	require.NoError(t, err)
	_, err = eng.Commit(ctx, answers)
	require.NoError(t, err)
	_, err = eng.Validate(ctx, answers)
	require.NoError(t, err)

	count, err := testutil.GatherAndCount(reg,
		"questflow_traversals_total",
		"questflow_pruned_answers_total",
		"questflow_validations_total",
	)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	values := map[string]float64{}
	for _, mf := range mfs {
		for _, metric := range mf.GetMetric() {
			if c := metric.GetCounter(); c != nil {
				values[mf.GetName()] += c.GetValue()
			}
		}
	}
	assert.Equal(t, 1.0, values["questflow_traversals_total"])
	assert.Equal(t, 1.0, values["questflow_pruned_answers_total"])
	assert.Equal(t, 1.0, values["questflow_validations_total"])
	assert.Equal(t, 1.0, values["questflow_validation_errors_total"], "pkg is required")
}

func TestNewMetrics_DoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	_, err = observability.NewMetrics(reg)
	assert.Error(t, err)
}

func TestNewMetrics_PrivateRegistry(t *testing.T) {
	m, err := observability.NewMetrics(nil)
	require.NoError(t, err)
	assert.NotNil(t, m.Gatherer())
	assert.NotNil(t, m.Registerer())
}

func TestCombine(t *testing.T) {
	var calls []string
	a := domain.LifecycleHooks{
		OnPrune: func(context.Context, *domain.PruneEvent) { calls = append(calls, "a") },
	}
	b := domain.LifecycleHooks{
		OnPrune:    func(context.Context, *domain.PruneEvent) { calls = append(calls, "b") },
		OnValidate: func(context.Context, *domain.ValidateEvent) { calls = append(calls, "v") },
	}

	h := observability.Combine(a, domain.LifecycleHooks{}, b)
	h.OnPrune(context.Background(), &domain.PruneEvent{})
	h.OnValidate(context.Background(), &domain.ValidateEvent{})

	assert.Equal(t, []string{"a", "b", "v"}, calls)
	assert.Nil(t, h.OnTraverse)
}

func TestLogHooks(t *testing.T) {
	h := observability.LogHooks(logging.NewNop())
	assert.NotPanics(t, func() {
		h.OnTraverse(context.Background(), &domain.TraverseEvent{})
		h.OnPrune(context.Background(), &domain.PruneEvent{Removed: []string{"x"}})
		h.OnValidate(context.Background(), &domain.ValidateEvent{})
	})
}
