package ports

import (
	"context"

	"github.com/aretw0/questflow/pkg/domain"
)

// FlowLoader defines how the engine retrieves the flow definition.
// The flow is treated as read-only once loaded.
type FlowLoader interface {
	// LoadFlow returns the parsed flow document.
	LoadFlow(ctx context.Context) (*domain.Flow, error)
}

// Watchable defines an interface for loaders that can notify about backend changes.
// This is typically used for hot-reload or dev-mode functionality.
type Watchable interface {
	// Watch returns a channel that is signaled when the underlying flow changes.
	// It abstracts away the specific event details, signaling only that a reload is required.
	Watch(ctx context.Context) (<-chan struct{}, error)
}
