package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/ironsheep/chris-mcp/internal/tools"
)

const serverName = "ChRIS MCP Server"

// Server wires the tool registry to its two transports: an MCP session
// endpoint (SSE out, POST in) and a synchronous REST facade.
type Server struct {
	log      *slog.Logger
	registry *tools.Registry
	mcp      *mcpserver.MCPServer
	sse      *mcpserver.SSEServer
	router   chi.Router
}

// New builds a Server exposing every tool registered in reg.
func New(log *slog.Logger, reg *tools.Registry, version string) *Server {
	s := &Server{
		log:      log,
		registry: reg,
	}

	s.mcp = mcpserver.NewMCPServer(
		serverName,
		version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithRecovery(),
	)
	for _, d := range reg.Descriptors() {
		s.mcp.AddTool(mcp.NewToolWithRawSchema(d.Name, d.Description, d.Schema), s.callTool(d.Name))
	}

	s.sse = mcpserver.NewSSEServer(
		s.mcp,
		mcpserver.WithSSEEndpoint("/sse"),
		mcpserver.WithMessageEndpoint("/messages"),
	)

	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)

	r.Handle("/sse", s.sse.SSEHandler())
	r.Handle("/messages", s.sse.MessageHandler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/", s.handleRoot)
		r.Get("/pacs/{mrn}", s.handlePACSImage)
		r.Post("/pipeline/run/{pipeline_id}", s.handlePipelineRun)
		r.Get("/job/status/{job_id}", s.handleJobStatus)
	})

	s.router = r
	return s
}

// Handler returns the root HTTP handler: session endpoints plus the
// REST facade.
func (s *Server) Handler() http.Handler { return s.router }

// callTool adapts one registry tool to the MCP session transport. The
// returned handler never propagates an error to the protocol layer: a
// failed invocation becomes a structured result, so concurrent
// invocations on the same session are unaffected.
func (s *Server) callTool(name string) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		env, err := s.registry.Dispatch(ctx, name, req.GetArguments())
		if env == nil {
			// Unknown tool or undeclared/missing arguments; nothing
			// ran, so there is no envelope to deliver.
			s.log.Warn("tool call rejected", "tool", name, "error", err)
			return mcp.NewToolResultError(err.Error()), nil
		}
		if err != nil {
			s.log.Warn("tool call failed", "tool", name, "error", err)
		}
		return mcp.NewToolResultText(env.JSON()), nil
	}
}
