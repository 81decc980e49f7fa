package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// Link styles accepted by the link_pages prompt.
const (
	LinkStyleInline  = "inline"
	LinkStyleRelated = "related"
)

func (s *Server) registerPrompts() {
	s.mcp.AddPrompt(mcp.NewPrompt("summarize_page",
		mcp.WithPromptDescription("Summarize a page together with the pages around it."),
		mcp.WithArgument("title", mcp.ArgumentDescription("Page title"), mcp.RequiredArgument()),
	), s.summarizePagePrompt)

	s.mcp.AddPrompt(mcp.NewPrompt("link_pages",
		mcp.WithPromptDescription("Find related pages and add links to a page."),
		mcp.WithArgument("title", mcp.ArgumentDescription("Page title"), mcp.RequiredArgument()),
		mcp.WithArgument("style", mcp.ArgumentDescription("inline (default): link words in the text; related: append a list of related pages")),
	), s.linkPagesPrompt)
}

func (s *Server) summarizePagePrompt(_ context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	title := req.Params.Arguments["title"]
	if title == "" {
		return nil, fmt.Errorf("title is required")
	}
	text := fmt.Sprintf(`Summarize the Cosense page "%s" of project %s.

1. Read it with the %s tool.
2. Call %s and %s and skim the most relevant neighbours.
3. Write a short summary of the page, then one line per neighbour explaining how it relates.`,
		title, s.cfg.Project, ToolGetPage, ToolGetLinks, ToolGetBacklinks)

	return mcp.NewGetPromptResult("Summarize "+title, []mcp.PromptMessage{
		mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(text)),
	}), nil
}

func (s *Server) linkPagesPrompt(_ context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	title := req.Params.Arguments["title"]
	if title == "" {
		return nil, fmt.Errorf("title is required")
	}
	style := req.Params.Arguments["style"]
	if style == "" {
		style = LinkStyleInline
	}

	var edit string
	switch style {
	case LinkStyleInline:
		edit = fmt.Sprintf("Wrap the words that name those pages in [brackets] and save the page with %s. Do not change anything else.", ToolUpdatePage)
	case LinkStyleRelated:
		edit = fmt.Sprintf("Append a \"[* Related]\" line followed by one indented [link] per page with %s.", ToolInsertLines)
	default:
		return nil, fmt.Errorf("style must be %q or %q", LinkStyleInline, LinkStyleRelated)
	}

	text := fmt.Sprintf(`Add links to the Cosense page "%s".

1. Read the page with %s and the notation guide at %s.
2. Use %s to find existing pages about the topics the page mentions.
3. %s`,
		title, ToolGetPage, NotationURI, ToolSearchPages, edit)

	return mcp.NewGetPromptResult("Link "+title, []mcp.PromptMessage{
		mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(text)),
	}), nil
}
