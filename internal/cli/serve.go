package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/arbor"
	httpAdapter "github.com/aretw0/arbor/pkg/adapters/http"
	"github.com/aretw0/arbor/pkg/adapters/mcp"
)

const shutdownTimeout = 5 * time.Second

// NewHTTPHandler builds the HTTP API for a runtime.
func NewHTTPHandler(rt *Runtime) http.Handler {
	return httpAdapter.NewHandler(rt.Engine,
		httpAdapter.WithStore(rt.Store),
		httpAdapter.WithMetrics(rt.Metrics.Handler()),
		httpAdapter.WithLogger(rt.Logger),
		httpAdapter.WithLimits(rt.Limits),
		httpAdapter.WithVersion(strings.TrimSpace(arbor.Version)),
	)
}

// RunServe serves the HTTP API on addr until ctx is cancelled.
func RunServe(ctx context.Context, rt *Runtime, addr string, stdout io.Writer) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: NewHTTPHandler(rt),
	}

	serverErrors := make(chan error, 1)
	go func() {
		printSystemMessage(stdout, "Starting Arbor Server on %s", srv.Addr)
		rt.Logger.Info("HTTP server listening", "address", srv.Addr)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case <-ctx.Done():
		printSystemMessage(stdout, "Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			rt.Logger.Warn("Graceful shutdown did not complete", "timeout", shutdownTimeout, "error", err)
			return srv.Close()
		}
		rt.Logger.Info("HTTP server stopped gracefully")
		return nil
	}
}

// RunMCP serves the MCP tools over the given transport ("stdio" or "sse").
func RunMCP(ctx context.Context, rt *Runtime, transport string, port int) error {
	srv := mcp.NewServer(rt.Engine,
		mcp.WithStore(rt.Store),
		mcp.WithLogger(rt.Logger),
		mcp.WithLimits(rt.Limits),
	)

	switch transport {
	case "stdio":
		rt.Logger.Info("Starting Arbor MCP Server (Stdio)")
		return srv.ServeStdio()
	case "sse":
		rt.Logger.Info("Starting Arbor MCP Server (SSE)", "port", port)
		return srv.ServeSSE(ctx, port)
	default:
		return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", transport)
	}
}
