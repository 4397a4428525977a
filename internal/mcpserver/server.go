// Package mcpserver exposes the registered commands as MCP tools.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"taskbridge/internal/commands"
	"taskbridge/internal/config"
	"taskbridge/internal/metrics"
	"taskbridge/internal/result"
)

const shutdownTimeout = 5 * time.Second

// Dispatcher runs a named command.
type Dispatcher interface {
	Dispatch(ctx context.Context, name string, args commands.Args) result.Result[any]
}

// Server wraps an MCP server with one tool per registered command.
type Server struct {
	mcp     *server.MCPServer
	metrics *metrics.Metrics
	log     *zap.Logger
}

// New registers every command in registry as a tool routed through d.
// m and log may be nil.
func New(registry *commands.Registry, d Dispatcher, m *metrics.Metrics, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := server.NewMCPServer(
		config.AppName,
		commands.Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)
	for _, c := range registry.All() {
		s.AddTool(commands.Tool(c), Handler(d, c.Name()))
	}
	return &Server{mcp: s, metrics: m, log: log}
}

// MCP returns the underlying server.
func (s *Server) MCP() *server.MCPServer { return s.mcp }

// Handler returns the tool handler for the command called name.
// The tool result text is the JSON-encoded Result; IsError marks failures.
func Handler(d Dispatcher, name string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		res := d.Dispatch(ctx, name, commands.Args(req.GetArguments()))
		b, err := json.Marshal(res)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
		}
		out := mcp.NewToolResultText(string(b))
		out.IsError = !res.IsOk()
		return out, nil
	}
}

// ServeStdio serves on stdin/stdout until ctx is cancelled or stdin closes.
func (s *Server) ServeStdio(ctx context.Context) error {
	s.log.Info("serving MCP over stdio")
	stdio := server.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(zap.NewStdLog(s.log.Named("stdio")))
	err := stdio.Listen(ctx, os.Stdin, os.Stdout)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// ServeSSE serves MCP over SSE on addr, with /metrics on the same listener,
// until ctx is cancelled.
func (s *Server) ServeSSE(ctx context.Context, addr string) error {
	sse := server.NewSSEServer(s.mcp,
		server.WithBaseURL("http://"+addr),
		server.WithKeepAlive(true),
	)

	mux := http.NewServeMux()
	mux.Handle("/metrics", s.metrics.Handler())
	mux.Handle("/", sse)

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("serving MCP over SSE", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := sse.Shutdown(shutdownCtx); err != nil {
		s.log.Warn("error shutting down SSE sessions", zap.Error(err))
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
