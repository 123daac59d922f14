package questflow

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/questflow/internal/logging"
	"github.com/aretw0/questflow/pkg/adapters/file"
	"github.com/aretw0/questflow/pkg/domain"
	"github.com/aretw0/questflow/pkg/engine"
	"github.com/aretw0/questflow/pkg/ports"
)

// Engine is the high-level entry point for the questflow library.
// It loads the flow once, caches its index and answers every question about
// an answer set without keeping it.
type Engine struct {
	loader ports.FlowLoader
	hooks  domain.LifecycleHooks
	logger *slog.Logger
	Name   string

	mu   sync.RWMutex
	flow *domain.Flow
	idx  *engine.Index
}

var _ ports.Engine = (*Engine)(nil)

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLoader injects a custom FlowLoader, bypassing the default file loader.
func WithLoader(l ports.FlowLoader) Option {
	return func(e *Engine) {
		e.loader = l
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New initializes a new Engine.
// By default, it reads the flow document at flowPath.
// If WithLoader is provided, flowPath can be empty and only names the flow.
func New(flowPath string, opts ...Option) (*Engine, error) {
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}

	if eng.loader == nil {
		if flowPath == "" {
			return nil, fmt.Errorf("flowPath is required when no custom loader is provided")
		}
		absPath, err := filepath.Abs(flowPath)
		if err != nil {
			return nil, fmt.Errorf("invalid path: %w", err)
		}
		eng.loader = file.NewLoader(absPath, file.WithLoaderLogger(eng.logger))
		flowPath = absPath
	}

	if flowPath != "" {
		base := filepath.Base(flowPath)
		eng.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	if eng.Name != "" {
		eng.logger = eng.logger.With("flow", eng.Name)
	}

	return eng, nil
}

// Loader returns the underlying FlowLoader used by the engine.
func (e *Engine) Loader() ports.FlowLoader {
	return e.loader
}

// Watch returns a channel that signals when the underlying flow changes.
// Returns error if the loader does not support watching.
func (e *Engine) Watch(ctx context.Context) (<-chan struct{}, error) {
	if w, ok := e.loader.(ports.Watchable); ok {
		return w.Watch(ctx)
	}
	return nil, fmt.Errorf("current loader does not support watching")
}

// Reload fetches the flow again and swaps the cached index.
// On failure the previous flow stays in service.
func (e *Engine) Reload(ctx context.Context) error {
	flow, err := e.loader.LoadFlow(ctx)
	if err != nil {
		return fmt.Errorf("failed to load flow: %w", err)
	}
	if flow == nil {
		return domain.ErrFlowNotLoaded
	}

	idx := engine.BuildIndex(flow)

	e.mu.Lock()
	e.flow, e.idx = flow, idx
	e.mu.Unlock()

	e.logger.Debug("flow loaded", "root", flow.RootID, "nodes", len(flow.Nodes), "edges", len(flow.Edges))
	return nil
}

func (e *Engine) snapshot(ctx context.Context) (*domain.Flow, *engine.Index, error) {
	e.mu.RLock()
	flow, idx := e.flow, e.idx
	e.mu.RUnlock()
	if flow != nil {
		return flow, idx, nil
	}

	if err := e.Reload(ctx); err != nil {
		return nil, nil, err
	}

	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.flow, e.idx, nil
}

// Flow returns the loaded flow definition. It must be treated as read-only.
func (e *Engine) Flow(ctx context.Context) (*domain.Flow, error) {
	flow, _, err := e.snapshot(ctx)
	return flow, err
}

// Index returns the cached adjacency index of the loaded flow.
func (e *Engine) Index(ctx context.Context) (*engine.Index, error) {
	_, idx, err := e.snapshot(ctx)
	return idx, err
}

// Progress derives the gated traversal, the current node and the completed nodes.
func (e *Engine) Progress(ctx context.Context, answers domain.Answers, skip domain.SkipSet) (domain.TraversalState, error) {
	flow, idx, err := e.snapshot(ctx)
	if err != nil {
		return domain.TraversalState{}, err
	}

	state := engine.State(flow, idx, answers, skip)
	e.logger.Debug("traversal", "visited", len(state.Order), "current", state.CurrentNodeID, "finished", state.Finished)

	if e.hooks.OnTraverse != nil {
		e.hooks.OnTraverse(ctx, &domain.TraverseEvent{
			EventBase:     e.event(domain.EventTraverse),
			Visited:       len(state.Order),
			CurrentNodeID: state.CurrentNodeID,
			Finished:      state.Finished,
		})
	}
	return state, nil
}

// Commit strips answers whose question is no longer reachable under the given answers.
// The input map is not modified.
func (e *Engine) Commit(ctx context.Context, answers domain.Answers) (domain.Answers, error) {
	flow, idx, err := e.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	reachable := engine.FullReachable(flow.RootID, answers, flow, idx)
	pruned := engine.Prune(answers, reachable, flow, idx)
	removed := domain.Removed(answers, pruned)

	if len(removed) > 0 {
		e.logger.Debug("answers pruned", "pruned", removed)
	}
	if e.hooks.OnPrune != nil {
		e.hooks.OnPrune(ctx, &domain.PruneEvent{
			EventBase: e.event(domain.EventPrune),
			Removed:   removed,
		})
	}
	return pruned, nil
}

// Validate checks the answers of every node reachable without the completion gate.
func (e *Engine) Validate(ctx context.Context, answers domain.Answers) (engine.Report, error) {
	flow, idx, err := e.snapshot(ctx)
	if err != nil {
		return engine.Report{}, err
	}

	report := engine.ValidateAllIndexed(flow, idx, answers)
	e.logger.Debug("validation", "valid", report.Valid, "errors", len(report.Errors))

	if e.hooks.OnValidate != nil {
		e.hooks.OnValidate(ctx, &domain.ValidateEvent{
			EventBase: e.event(domain.EventValidate),
			Valid:     report.Valid,
			Errors:    len(report.Errors),
		})
	}
	return report, nil
}

// Summary prunes the answers and resolves the reachable questions for text generation.
func (e *Engine) Summary(ctx context.Context, answers domain.Answers, skip domain.SkipSet) (engine.Summary, error) {
	flow, idx, err := e.snapshot(ctx)
	if err != nil {
		return engine.Summary{}, err
	}
	return engine.Summarize(flow, idx, answers, skip), nil
}

// InitialValue returns the value a question should show: the stored answer when
// present, otherwise the node's default. Unknown nodes yield Null.
func (e *Engine) InitialValue(ctx context.Context, nodeID string, answers domain.Answers) (domain.Value, error) {
	_, idx, err := e.snapshot(ctx)
	if err != nil {
		return domain.Null(), err
	}

	node, ok := idx.Node(nodeID)
	if !ok {
		return domain.Null(), nil
	}
	if v := answers.Get(node.QuestionID); !v.IsNull() {
		return v, nil
	}
	return node.DefaultValue, nil
}

// Node resolves a node of the loaded flow.
func (e *Engine) Node(ctx context.Context, nodeID string) (*domain.Node, error) {
	_, idx, err := e.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	node, ok := idx.Node(nodeID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrNodeNotFound, nodeID)
	}
	return node, nil
}

func (e *Engine) event(t domain.EventType) domain.EventBase {
	return domain.EventBase{
		Timestamp: time.Now(),
		Type:      t,
		FlowID:    e.Name,
	}
}
