package observability

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/questflow/pkg/domain"
)

// Metrics records engine events as Prometheus collectors.
type Metrics struct {
	traversals  *prometheus.CounterVec
	visited     prometheus.Histogram
	pruned      *prometheus.CounterVec
	validations *prometheus.CounterVec
	fieldErrors prometheus.Counter
	registerer  prometheus.Registerer
	gatherer    prometheus.Gatherer
}

// NewMetrics creates the collectors and registers them on reg.
// A nil reg gets a fresh private registry.
func NewMetrics(reg *prometheus.Registry) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	m := &Metrics{
		traversals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "questflow_traversals_total",
			Help: "Total number of progress computations",
		}, []string{"flow", "finished"}),
		visited: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "questflow_traversal_visited_nodes",
			Help:    "Number of visible nodes per traversal",
			Buckets: prometheus.LinearBuckets(1, 2, 10),
		}),
		pruned: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "questflow_pruned_answers_total",
			Help: "Total number of stale answers removed",
		}, []string{"flow"}),
		validations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "questflow_validations_total",
			Help: "Total number of full validation passes",
		}, []string{"flow", "valid"}),
		fieldErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "questflow_validation_errors_total",
			Help: "Total number of field errors reported",
		}),
		registerer: reg,
		gatherer:   reg,
	}

	for _, c := range []prometheus.Collector{m.traversals, m.visited, m.pruned, m.validations, m.fieldErrors} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Gatherer exposes the registry, e.g. for promhttp.HandlerFor.
func (m *Metrics) Gatherer() prometheus.Gatherer { return m.gatherer }

// Registerer exposes the registry so hosts can add their own collectors.
func (m *Metrics) Registerer() prometheus.Registerer { return m.registerer }

// Hooks returns lifecycle hooks feeding the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTraverse: func(_ context.Context, e *domain.TraverseEvent) {
			m.traversals.WithLabelValues(e.FlowID, boolLabel(e.Finished)).Inc()
			m.visited.Observe(float64(e.Visited))
		},
		OnPrune: func(_ context.Context, e *domain.PruneEvent) {
			m.pruned.WithLabelValues(e.FlowID).Add(float64(len(e.Removed)))
		},
		OnValidate: func(_ context.Context, e *domain.ValidateEvent) {
			m.validations.WithLabelValues(e.FlowID, boolLabel(e.Valid)).Inc()
			m.fieldErrors.Add(float64(e.Errors))
		},
	}
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
