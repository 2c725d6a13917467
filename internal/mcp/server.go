package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"benchboard/internal/sandbox"
	"benchboard/internal/service"
)

// Server is the MCP server for a bench.
// It exposes tools, resources, and prompts so AI agents can place blocks and
// wire pins on the live session.
type Server struct {
	mcp     *server.MCPServer
	session *sandbox.Session
	benches *service.BenchService
	logger  *log.Logger
}

// Deps holds the dependencies passed from the host to the MCP server.
type Deps struct {
	Session *sandbox.Session
	Benches *service.BenchService // optional; save_bench is unavailable without it
	Logger  *log.Logger
	Version string
}

// New creates and configures a new MCP server with all tools and resources.
func New(ctx context.Context, deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = log.Default()
	}
	version := deps.Version
	if version == "" {
		version = "dev"
	}
	s := &Server{
		session: deps.Session,
		benches: deps.Benches,
		logger:  logger.WithPrefix("mcp"),
	}

	s.mcp = server.NewMCPServer(
		"benchboard",
		version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
		server.WithPromptCapabilities(true),
	)

	s.registerBenchTools()
	s.registerWiringTools()
	s.registerResources()
	s.registerPrompts()

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	s.logger.Info("starting stdio server")
	return server.ServeStdio(s.mcp)
}

// MCP exposes the underlying server for in-process transports.
func (s *Server) MCP() *server.MCPServer { return s.mcp }

// ── Helpers ────────────────────────────────────────────────

// textResult creates a simple text tool result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

// jsonResult serializes v to JSON and wraps it in a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return textResult(string(data)), nil
}

func boolPtr(v bool) *bool { return &v }

func getFloat(args map[string]any, key string, fallback float64) float64 {
	if v, ok := args[key].(float64); ok {
		return v
	}
	return fallback
}

func getBool(args map[string]any, key string, fallback bool) bool {
	if v, ok := args[key].(bool); ok {
		return v
	}
	return fallback
}

// requireString returns a non-empty string argument.
func requireString(args map[string]any, key string) (string, error) {
	v, _ := args[key].(string)
	if v == "" {
		return "", fmt.Errorf("%s is required", key)
	}
	return v, nil
}

// pinArg resolves a block/pin argument pair to a connector id.
func (s *Server) pinArg(args map[string]any, blockKey, pinKey string) (string, error) {
	blockID, err := requireString(args, blockKey)
	if err != nil {
		return "", err
	}
	pin, ok := args[pinKey].(string)
	if !ok {
		if f, isNum := args[pinKey].(float64); isNum {
			pin = fmt.Sprint(int(f))
		}
	}
	if pin == "" {
		return "", fmt.Errorf("%s is required", pinKey)
	}
	return s.session.PinID(blockID, pin)
}
