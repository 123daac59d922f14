package ports

import (
	"context"

	"github.com/aretw0/questflow/pkg/domain"
	"github.com/aretw0/questflow/pkg/engine"
)

// Engine is the questionnaire facade driven by adapters (HTTP, MCP, CLI).
// Implementations must not retain answers between calls.
type Engine interface {
	// Flow returns the loaded flow definition.
	Flow(ctx context.Context) (*domain.Flow, error)

	// Progress derives the traversal state for the given answers.
	Progress(ctx context.Context, answers domain.Answers, skip domain.SkipSet) (domain.TraversalState, error)

	// Commit strips answers that are no longer reachable.
	Commit(ctx context.Context, answers domain.Answers) (domain.Answers, error)

	// Validate checks every reachable node.
	Validate(ctx context.Context, answers domain.Answers) (engine.Report, error)

	// Summary resolves the reachable questions for text generation.
	Summary(ctx context.Context, answers domain.Answers, skip domain.SkipSet) (engine.Summary, error)
}
