package memory

import (
	"context"

	"github.com/aretw0/questflow/pkg/domain"
)

// Loader implements ports.FlowLoader with a flow held in memory.
type Loader struct {
	flow *domain.Flow
}

// NewLoader creates a loader serving the given flow.
// The flow must not be modified afterwards.
func NewLoader(flow *domain.Flow) *Loader {
	return &Loader{flow: flow}
}

// LoadFlow returns the held flow, or domain.ErrFlowNotLoaded when there is none.
func (l *Loader) LoadFlow(ctx context.Context) (*domain.Flow, error) {
	if l.flow == nil {
		return nil, domain.ErrFlowNotLoaded
	}
	return l.flow, nil
}
