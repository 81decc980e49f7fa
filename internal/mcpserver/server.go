// Package mcpserver exposes a Cosense project to LLM clients over the Model
// Context Protocol.
package mcpserver

import (
	"context"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/cosense-mcp/internal/journal"
	"github.com/starford/cosense-mcp/internal/models"
	"github.com/starford/cosense-mcp/internal/pageclient"
	"github.com/starford/cosense-mcp/internal/sse"
)

// Name is the server name announced to clients.
const Name = "cosense-mcp"

// Reader is the read side used by the tools.
type Reader interface {
	ListPages(ctx context.Context, opts pageclient.ListOptions) (*models.PageList, error)
	GetPage(ctx context.Context, title string) (*models.Page, error)
	SearchPages(ctx context.Context, query string) (*models.SearchResult, error)
	GetLinks(ctx context.Context, title string) ([]string, error)
	GetBacklinks(ctx context.Context, title string) ([]string, error)
}

// Writer is the write side used by the tools.
type Writer interface {
	CreatePage(ctx context.Context, title, body string) (*pageclient.PageRef, error)
	UpdatePage(ctx context.Context, title, body string) (*pageclient.PageRef, error)
	InsertLines(ctx context.Context, title string, lines []string, position *float64) (*pageclient.Insertion, error)
	DeletePage(ctx context.Context, title string) (*pageclient.Deletion, error)
}

// Publisher receives page change notifications.
type Publisher interface {
	PublishPageEvent(kind string, page sse.PageEvent)
}

var (
	_ Reader    = (*pageclient.ReadClient)(nil)
	_ Writer    = (*pageclient.WriteClient)(nil)
	_ Publisher = (*sse.Broker)(nil)
)

// Config holds the optional collaborators and settings of a Server.
type Config struct {
	Project string
	Version string
	// Tools is the allowlist of tool names. Nil registers every tool.
	Tools []string
	// Journal records writes when set.
	Journal journal.Journal
	// Events receives page events when set.
	Events Publisher
	Logger *slog.Logger
}

// Server wraps the MCP server with the Cosense tools.
type Server struct {
	mcp     *server.MCPServer
	reader  Reader
	writer  Writer
	cfg     Config
	logger  *slog.Logger
	enabled []string
}

// New creates an MCP server with the allowed tools, resources and prompts registered.
func New(reader Reader, writer Writer, cfg Config) *Server {
	if cfg.Version == "" {
		cfg.Version = "dev"
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{reader: reader, writer: writer, cfg: cfg, logger: logger}

	s.mcp = server.NewMCPServer(
		Name,
		cfg.Version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithPromptCapabilities(false),
		server.WithRecovery(),
		server.WithInstructions(instructions),
	)

	s.registerTools(allowlist(cfg.Tools))
	s.registerResources()
	s.registerPrompts()
	return s
}

const instructions = `Tools for reading and editing pages of a Cosense (Scrapbox) project.
Page bodies use Scrapbox notation, not Markdown: read the cosense://notation resource before writing.
The first line of every page is its title.`

// ServeStdio serves MCP on stdin/stdout until ctx is cancelled.
func (s *Server) ServeStdio(ctx context.Context) error {
	stdio := server.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(slog.NewLogLogger(s.logger.Handler(), slog.LevelError))
	return stdio.Listen(ctx, os.Stdin, os.Stdout)
}

// HTTPHandler returns the streamable HTTP transport for this server.
func (s *Server) HTTPHandler() *server.StreamableHTTPServer {
	return server.NewStreamableHTTPServer(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// EnabledTools lists the registered tool names in registration order.
func (s *Server) EnabledTools() []string {
	return append([]string(nil), s.enabled...)
}

func (s *Server) addTool(allow map[string]bool, tool mcp.Tool, handler server.ToolHandlerFunc) {
	if !shouldRegister(tool.Name, allow) {
		return
	}
	s.mcp.AddTool(tool, handler)
	s.enabled = append(s.enabled, tool.Name)
}
