// Package mcp exposes the location resolver and the travel search tools as a
// Model Context Protocol server, so MCP-capable clients can drive the same
// dispatcher the conversation loop uses.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/aretw0/voyant"
	"github.com/aretw0/voyant/internal/logging"
	"github.com/aretw0/voyant/pkg/dispatch"
	"github.com/aretw0/voyant/pkg/domain"
	"github.com/aretw0/voyant/pkg/location"
	"github.com/aretw0/voyant/pkg/ports"
)

// Server publishes the travel tool dispatcher over MCP.
type Server struct {
	dispatcher ports.ToolDispatcher
	logger     *slog.Logger
	mcpServer  *server.MCPServer
}

// Option defines a functional option for configuring the Server.
type Option func(*Server)

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer creates a new MCP Server instance over the given dispatcher.
func NewServer(dispatcher ports.ToolDispatcher, opts ...Option) *Server {
	s := &Server{
		dispatcher: dispatcher,
		logger:     logging.NewNop(),
		mcpServer:  server.NewMCPServer("voyant-mcp", strings.TrimSpace(voyant.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio serves JSON-RPC on the process stdio and blocks until the
// client disconnects.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the tools over Server-Sent Events until ctx is cancelled,
// then drains open connections for up to five seconds.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	sse := server.NewSSEServer(s.mcpServer,
		server.WithBaseURL(fmt.Sprintf("http://localhost:%d", port)))

	mux := http.NewServeMux()
	mux.Handle("/sse", allowCORS(sse.SSEHandler()))
	mux.Handle("/message", allowCORS(sse.MessageHandler()))

	srv := &http.Server{Addr: addr, Handler: mux}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutdown signal received, draining SSE clients")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("could not stop server gracefully: %w", err)
	}
	return nil
}

func allowCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: resolve_location
	resolveTool := mcp.NewTool("resolve_location",
		mcp.WithDescription("Resolve free-form location text to a 3-letter airport code."),
		mcp.WithString("text", mcp.Required(), mcp.Description("City or country name in any common form, or an IATA airport code")),
		mcp.WithOutputSchema[location.Resolution](),
	)
	s.mcpServer.AddTool(resolveTool, mcp.NewStructuredToolHandler(s.handleResolve))

	// TOOLS: search_flights, search_hotels. Declarations come from the shared
	// catalog so MCP clients see the exact schemas the oracle sees.
	for _, t := range dispatch.Catalog() {
		schema, _ := json.Marshal(t.Parameters)
		s.mcpServer.AddTool(
			mcp.NewToolWithRawSchema(t.Name, t.Description, schema),
			s.handleDispatch(t.Name),
		)
	}
}

func (s *Server) handleResolve(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (location.Resolution, error) {
	text, _ := args["text"].(string)
	res := location.Resolve(text)
	if !res.Resolved() {
		s.logger.Warn("MCP Resolve: location rejected", "text", text)
		return location.Resolution{}, fmt.Errorf("could not resolve location: %s", strings.TrimSpace(text))
	}
	return res, nil
}

// handleDispatch routes one named tool through the dispatcher. Dispatcher
// faults arrive as error-flagged results, never as handler errors, so the
// client always gets the same content the conversation loop would see.
func (s *Server) handleDispatch(name string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		res := s.dispatcher.Execute(ctx, domain.ToolCall{
			Name: name,
			Args: request.GetArguments(),
		})
		if res.IsError {
			return mcp.NewToolResultError(res.Content), nil
		}
		return mcp.NewToolResultText(res.Content), nil
	}
}

func (s *Server) registerResources() {
	catalog := mcp.NewResource("voyant://tools", "Travel Tool Catalog",
		mcp.WithMIMEType("application/json"))

	s.mcpServer.AddResource(catalog, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		payload, err := json.Marshal(dispatch.Catalog())
		if err != nil {
			return nil, fmt.Errorf("failed to marshal tool catalog: %w", err)
		}
		return []mcp.ResourceContents{mcp.TextResourceContents{
			URI:      "voyant://tools",
			MIMEType: "application/json",
			Text:     string(payload),
		}}, nil
	})
}
