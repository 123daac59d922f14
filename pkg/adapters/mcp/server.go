package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/aretw0/questflow"
	"github.com/aretw0/questflow/internal/logging"
	"github.com/aretw0/questflow/pkg/domain"
	"github.com/aretw0/questflow/pkg/ports"
)

// FlowURI is the resource under which the loaded flow is exposed.
const FlowURI = "questflow://flow"

// ProgressResponse is the payload of the progress tool.
type ProgressResponse struct {
	State   domain.TraversalState `json:"state"`
	Visible []string              `json:"visible"`
}

// PruneResponse is the payload of the prune tool.
type PruneResponse struct {
	Answers domain.Answers `json:"answers"`
	Removed []string       `json:"removed"`
}

// Server wraps the questionnaire engine and exposes it as an MCP Server.
type Server struct {
	engine    ports.Engine
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the logger used by the server.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(engine ports.Engine, opts ...Option) *Server {
	s := &Server{
		engine:    engine,
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("questflow-mcp", strings.TrimSpace(questflow.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying protocol server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given address using SSE.
// It returns when ctx is cancelled or the listener fails.
func (s *Server) ServeSSE(ctx context.Context, addr string) error {
	baseURL := "http://" + addr
	if strings.HasPrefix(addr, ":") {
		baseURL = "http://localhost" + addr
	}

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	answersParam := mcp.WithObject("answers",
		mcp.Description("Answer set keyed by question id. Multi-select answers are string arrays."),
	)
	skippedParam := mcp.WithArray("skipped",
		mcp.Description("Question ids the respondent chose to skip"),
		mcp.WithStringItems(),
	)

	s.mcpServer.AddTool(mcp.NewTool("get_flow",
		mcp.WithDescription("Get the full questionnaire flow definition."),
	), s.handleGetFlow)

	s.mcpServer.AddTool(mcp.NewTool("progress",
		mcp.WithDescription("Compute the visible path, the current question and completion for an answer set."),
		answersParam,
		skippedParam,
	), s.handleProgress)

	s.mcpServer.AddTool(mcp.NewTool("validate",
		mcp.WithDescription("Validate every reachable question against its rules."),
		answersParam,
	), s.handleValidate)

	s.mcpServer.AddTool(mcp.NewTool("prune",
		mcp.WithDescription("Remove answers to questions that are no longer reachable."),
		answersParam,
	), s.handlePrune)

	s.mcpServer.AddTool(mcp.NewTool("summary",
		mcp.WithDescription("Resolve the reachable questions and their answers for display."),
		answersParam,
		skippedParam,
	), s.handleSummary)
}

func (s *Server) handleGetFlow(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	flow, err := s.engine.Flow(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("load failed: %v", err)), nil
	}
	return jsonResult(flow)
}

func (s *Server) handleProgress(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	answers, err := answersArg(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	skip, err := skippedArg(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	state, err := s.engine.Progress(ctx, answers, skip)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("progress failed: %v", err)), nil
	}
	s.logger.Debug("MCP progress", "visible", len(state.Order), "finished", state.Finished)
	return jsonResult(ProgressResponse{State: state, Visible: state.Order})
}

func (s *Server) handleValidate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	answers, err := answersArg(request.GetArguments())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	report, err := s.engine.Validate(ctx, answers)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("validate failed: %v", err)), nil
	}
	return jsonResult(report)
}

func (s *Server) handlePrune(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	answers, err := answersArg(request.GetArguments())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	kept, err := s.engine.Commit(ctx, answers)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("prune failed: %v", err)), nil
	}
	return jsonResult(PruneResponse{Answers: kept, Removed: domain.Removed(answers, kept)})
}

func (s *Server) handleSummary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	answers, err := answersArg(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	skip, err := skippedArg(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	summary, err := s.engine.Summary(ctx, answers, skip)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("summary failed: %v", err)), nil
	}
	return jsonResult(summary)
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(FlowURI, "Questionnaire Flow",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		flow, err := s.engine.Flow(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load flow: %w", err)
		}
		data, err := json.Marshal(flow)
		if err != nil {
			return nil, err
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      FlowURI,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	})
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(data)), nil
}

// answersArg accepts the answers either as an object or as its JSON encoding.
func answersArg(args map[string]any) (domain.Answers, error) {
	switch raw := args["answers"].(type) {
	case nil:
		return domain.Answers{}, nil
	case map[string]any:
		return domain.AnswersFromMap(raw), nil
	case string:
		if strings.TrimSpace(raw) == "" {
			return domain.Answers{}, nil
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(raw), &m); err != nil {
			return nil, fmt.Errorf("invalid answers: %w", err)
		}
		return domain.AnswersFromMap(m), nil
	default:
		return nil, fmt.Errorf("invalid answers: expected an object, got %T", raw)
	}
}

func skippedArg(args map[string]any) (domain.SkipSet, error) {
	switch raw := args["skipped"].(type) {
	case nil:
		return nil, nil
	case []any:
		ids := make([]string, 0, len(raw))
		for _, item := range raw {
			id, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("invalid skipped: expected strings, got %T", item)
			}
			ids = append(ids, id)
		}
		return domain.NewSkipSet(ids...), nil
	case []string:
		return domain.NewSkipSet(raw...), nil
	default:
		return nil, fmt.Errorf("invalid skipped: expected an array, got %T", raw)
	}
}
