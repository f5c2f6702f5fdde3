package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"investPilot/internal/app"
	"investPilot/internal/ports"
)

const shutdownTimeout = 10 * time.Second

// ToolRunner is the application side of the transport.
type ToolRunner interface {
	Tools() []app.Tool
	Invoke(ctx context.Context, name string, args app.Args) (string, error)
}

// Server publishes the tool table over MCP.
type Server struct {
	mcp    *server.MCPServer
	runner ToolRunner
	logger ports.Logger
}

// New creates the MCP server and registers every tool of runner.
func New(name, version string, runner ToolRunner, logger ports.Logger) (*Server, error) {
	if runner == nil || logger == nil {
		return nil, fmt.Errorf("missing required dependencies for MCP server")
	}

	s := &Server{
		mcp:    server.NewMCPServer(name, version, server.WithToolCapabilities(false), server.WithRecovery()),
		runner: runner,
		logger: logger,
	}
	for _, t := range runner.Tools() {
		s.mcp.AddTool(newTool(t), s.handler(t.Name))
	}
	logger.Info(context.Background(), "MCP tools registered", map[string]interface{}{"count": len(runner.Tools())})
	return s, nil
}

// ServeStdio serves on stdin/stdout until the input closes or the process is signalled.
func (s *Server) ServeStdio() error {
	s.logger.Info(context.Background(), "Serving MCP over stdio")
	return server.ServeStdio(s.mcp)
}

// Router returns the HTTP routes: /mcp for the streamable transport and /healthz.
func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()
	router.Handle("/mcp", server.NewStreamableHTTPServer(s.mcp))
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)
	return router
}

// ServeHTTP listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ServeHTTP(ctx context.Context, addr string) error {
	srv := &http.Server{
		Handler:           s.Router(),
		Addr:              addr,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Serving MCP over HTTP", map[string]interface{}{"addr": addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info(ctx, "Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handler(name string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		out, err := s.runner.Invoke(ctx, name, app.Args(request.GetArguments()))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(out), nil
	}
}

// integerType narrows a number property to JSON Schema "integer".
func integerType(schema map[string]any) {
	schema["type"] = "integer"
}

// newTool converts a tool table entry into its MCP definition.
func newTool(t app.Tool) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(t.Description)}
	for _, p := range t.Params {
		props := []mcp.PropertyOption{mcp.Description(p.Description)}
		if p.Required {
			props = append(props, mcp.Required())
		}
		if len(p.Enum) > 0 {
			props = append(props, mcp.Enum(p.Enum...))
		}

		switch p.Type {
		case app.ParamNumber, app.ParamInteger:
			if v, ok := p.Default.(float64); ok {
				props = append(props, mcp.DefaultNumber(v))
			}
			if p.Type == app.ParamInteger {
				props = append(props, integerType)
			}
			opts = append(opts, mcp.WithNumber(p.Name, props...))
		case app.ParamBoolean:
			if v, ok := p.Default.(bool); ok {
				props = append(props, mcp.DefaultBool(v))
			}
			opts = append(opts, mcp.WithBoolean(p.Name, props...))
		default:
			if v, ok := p.Default.(string); ok {
				props = append(props, mcp.DefaultString(v))
			}
			opts = append(opts, mcp.WithString(p.Name, props...))
		}
	}
	return mcp.NewTool(t.Name, opts...)
}
