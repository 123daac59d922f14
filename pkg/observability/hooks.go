package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/questflow/pkg/domain"
)

// LogHooks logs every engine event at Debug level.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTraverse: func(ctx context.Context, e *domain.TraverseEvent) {
			logger.DebugContext(ctx, "traverse",
				"flow", e.FlowID,
				"visited", e.Visited,
				"current", e.CurrentNodeID,
				"finished", e.Finished,
			)
		},
		OnPrune: func(ctx context.Context, e *domain.PruneEvent) {
			if len(e.Removed) == 0 {
				return
			}
			logger.DebugContext(ctx, "prune", "flow", e.FlowID, "pruned", e.Removed)
		},
		OnValidate: func(ctx context.Context, e *domain.ValidateEvent) {
			logger.DebugContext(ctx, "validate", "flow", e.FlowID, "valid", e.Valid, "errors", e.Errors)
		},
	}
}

// Combine merges hook sets; each event is delivered to every set in order.
func Combine(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	var out domain.LifecycleHooks

	for _, s := range sets {
		if f := s.OnTraverse; f != nil {
			prev := out.OnTraverse
			out.OnTraverse = func(ctx context.Context, e *domain.TraverseEvent) {
				if prev != nil {
					prev(ctx, e)
				}
				f(ctx, e)
			}
		}
		if f := s.OnPrune; f != nil {
			prev := out.OnPrune
			out.OnPrune = func(ctx context.Context, e *domain.PruneEvent) {
				if prev != nil {
					prev(ctx, e)
				}
				f(ctx, e)
			}
		}
		if f := s.OnValidate; f != nil {
			prev := out.OnValidate
			out.OnValidate = func(ctx context.Context, e *domain.ValidateEvent) {
				if prev != nil {
					prev(ctx, e)
				}
				f(ctx, e)
			}
		}
	}
	return out
}
