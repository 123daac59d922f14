package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventTraverse EventType = "traverse"
	EventPrune    EventType = "prune"
	EventValidate EventType = "validate"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	FlowID    string    `json:"flow_id"`
}

// TraverseEvent is emitted after a gated traversal.
type TraverseEvent struct {
	EventBase
	Visited       int    `json:"visited"`
	CurrentNodeID string `json:"current_node_id,omitempty"`
	Finished      bool   `json:"finished"`
}

// PruneEvent is emitted after stale answers were stripped.
type PruneEvent struct {
	EventBase
	Removed []string `json:"removed,omitempty"`
}

// ValidateEvent is emitted after a full validation pass.
type ValidateEvent struct {
	EventBase
	Valid  bool `json:"valid"`
	Errors int  `json:"errors"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnTraverse func(context.Context, *TraverseEvent)
	OnPrune    func(context.Context, *PruneEvent)
	OnValidate func(context.Context, *ValidateEvent)
}
