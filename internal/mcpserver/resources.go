package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/cosense-mcp/internal/journal"
)

// Resource URIs.
const (
	ServerInfoURI = "info://server"
	NotationURI   = "cosense://notation"
	JournalURI    = "cosense://journal"
)

// ServerInfo is the payload of the info://server resource.
type ServerInfo struct {
	Name         string          `json:"name"`
	Version      string          `json:"version"`
	Description  string          `json:"description"`
	Project      string          `json:"project"`
	Tools        []string        `json:"tools"`
	Capabilities map[string]bool `json:"capabilities"`
}

func (s *Server) registerResources() {
	s.mcp.AddResource(
		mcp.NewResource(ServerInfoURI, "Server Info",
			mcp.WithResourceDescription("Information about this MCP server and the tools it exposes."),
			mcp.WithMIMEType("application/json"),
		),
		s.readServerInfo,
	)

	s.mcp.AddResource(
		mcp.NewResource(NotationURI, "Scrapbox Notation",
			mcp.WithResourceDescription("How page bodies are written. Read this before creating or editing pages."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readNotation,
	)

	if s.cfg.Journal != nil {
		s.mcp.AddResource(
			mcp.NewResource(JournalURI, "Write Journal",
				mcp.WithResourceDescription("Recent page writes made through this server (metadata only)."),
				mcp.WithMIMEType("application/json"),
			),
			s.readJournal,
		)
	}
}

func (s *Server) readServerInfo(_ context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	info := ServerInfo{
		Name:        Name,
		Version:     s.cfg.Version,
		Description: "Read and edit pages of a Cosense (Scrapbox) project",
		Project:     s.cfg.Project,
		Tools:       s.EnabledTools(),
		Capabilities: map[string]bool{
			"tools":     true,
			"resources": true,
			"prompts":   true,
		},
	}
	out, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal server info: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{URI: req.Params.URI, MIMEType: "application/json", Text: string(out)},
	}, nil
}

func (s *Server) readNotation(_ context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{URI: NotationURI, MIMEType: "text/markdown", Text: NotationGuide},
	}, nil
}

func (s *Server) readJournal(ctx context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	entries, err := s.cfg.Journal.Recent(ctx, journal.Query{})
	if err != nil {
		return nil, err
	}
	out, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal journal: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{URI: JournalURI, MIMEType: "application/json", Text: string(out)},
	}, nil
}
