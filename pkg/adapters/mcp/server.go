package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/pkg/ports"
	"github.com/aretw0/arbor/pkg/sample"
	"github.com/aretw0/arbor/pkg/tree"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const snapshotsURI = "arbor://snapshots"

// ExpandResponse is the structured result of the expand_container tool.
type ExpandResponse struct {
	Snapshot *tree.Snapshot `json:"snapshot" jsonschema_description:"The expanded fixture tree"`
	Saved    bool           `json:"saved" jsonschema_description:"Whether the snapshot was persisted"`
}

// Server wraps a tree builder and exposes it as an MCP Server.
type Server struct {
	engine    ports.TreeBuilder
	store     ports.SnapshotStore
	limits    sample.Limits
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the MCP server.
type Option func(*Server)

// WithStore enables snapshot persistence and the snapshot tools.
func WithStore(store ports.SnapshotStore) Option {
	return func(s *Server) {
		s.store = store
	}
}

// WithLimits bounds the trees expand_container may request.
func WithLimits(l sample.Limits) Option {
	return func(s *Server) {
		s.limits = l
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(engine ports.TreeBuilder, opts ...Option) *Server {
	s := &Server{
		engine:    engine,
		limits:    sample.DefaultLimits(),
		mcpServer: server.NewMCPServer("arbor-mcp", strings.TrimSpace(arbor.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	s.registerTools()
	if s.store != nil {
		s.registerResources()
	}
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves over SSE on the given port until ctx is cancelled.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
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

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: expand_container
	expandTool := mcp.NewTool("expand_container",
		mcp.WithDescription("Expand a container declaration into a fixture tree."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Root path name, e.g. 'scores'")),
		mcp.WithString("type", mcp.Required(), mcp.Description("Container type, e.g. '[int]' or 'seq[string]'")),
		mcp.WithString("value", mcp.Description("JSON array used as the sample source (optional)")),
		mcp.WithBoolean("empty", mcp.Description("Mark the container as explicitly empty")),
		mcp.WithNumber("size_min", mcp.Description("Lower bound of the element count")),
		mcp.WithNumber("size_max", mcp.Description("Upper bound of the element count")),
		mcp.WithString("tags", mcp.Description("Annotation markers, e.g. 'size=1..3,notnull'")),
		mcp.WithBoolean("save", mcp.Description("Persist the resulting snapshot")),
		mcp.WithOutputSchema[ExpandResponse](),
	)
	s.mcpServer.AddTool(expandTool, mcp.NewStructuredToolHandler(s.handleExpand))

	if s.store == nil {
		return
	}

	// TOOL: get_snapshot
	s.mcpServer.AddTool(mcp.NewTool("get_snapshot",
		mcp.WithDescription("Load a previously saved fixture tree."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Snapshot ID")),
	), s.handleGetSnapshot)
}

func (s *Server) handleExpand(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ExpandResponse, error) {
	raw, save, err := entryArgs(args)
	if err != nil {
		return ExpandResponse{}, err
	}

	entry, err := sample.DecodeEntry(raw)
	if err != nil {
		return ExpandResponse{}, err
	}
	if err := s.limits.Check(entry); err != nil {
		return ExpandResponse{}, err
	}
	root, err := entry.Node()
	if err != nil {
		return ExpandResponse{}, err
	}

	t, err := s.engine.Build(ctx, root)
	if err != nil {
		s.logger.Error("MCP Expand: build failed", "error", err, "container", entry.Name)
		return ExpandResponse{}, fmt.Errorf("expand failed: %w", err)
	}

	snap := t.Snapshot()
	if save {
		if s.store == nil {
			return ExpandResponse{}, errors.New("no snapshot store configured")
		}
		if err := s.store.Save(ctx, snap); err != nil {
			return ExpandResponse{}, fmt.Errorf("save failed: %w", err)
		}
	}

	return ExpandResponse{Snapshot: snap, Saved: save}, nil
}

// entryArgs maps flat tool arguments onto a sample entry.
func entryArgs(args map[string]interface{}) (map[string]any, bool, error) {
	raw := map[string]any{}
	for _, key := range []string{"name", "type", "tags"} {
		if v, ok := args[key]; ok {
			raw[key] = v
		}
	}

	if valStr, ok := args["value"].(string); ok && valStr != "" {
		var value any
		if err := json.Unmarshal([]byte(valStr), &value); err != nil {
			return nil, false, fmt.Errorf("value must be a JSON array: %w", err)
		}
		raw["value"] = value
	}
	if empty, ok := args["empty"].(bool); ok && empty {
		raw["empty"] = true
	}

	minV, hasMin := args["size_min"]
	maxV, hasMax := args["size_max"]
	if hasMin != hasMax {
		return nil, false, errors.New("size_min and size_max must be given together")
	}
	if hasMin {
		raw["size"] = map[string]any{"min": minV, "max": maxV}
	}

	save, _ := args["save"].(bool)
	return raw, save, nil
}

func (s *Server) handleGetSnapshot(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	snap, err := s.store.Load(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("load failed: %v", err)), nil
	}
	jsonBytes, _ := json.Marshal(snap)
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) registerResources() {
	// EXPOSE: arbor://snapshots
	s.mcpServer.AddResource(mcp.NewResource(snapshotsURI, "Saved Snapshot IDs",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		ids, err := s.store.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list snapshots: %w", err)
		}
		jsonBytes, _ := json.Marshal(ids)

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      snapshotsURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
