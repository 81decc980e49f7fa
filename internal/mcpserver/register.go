package mcpserver

import (
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/cosense-mcp/internal/pageclient"
)

func sortNames() []string {
	out := make([]string, len(pageclient.SortOrders))
	for i, o := range pageclient.SortOrders {
		out[i] = string(o)
	}
	return out
}

// linesSchema accepts a single string or an array of strings.
func linesSchema(schema map[string]any) {
	schema["anyOf"] = []any{
		map[string]any{"type": "string", "minLength": 1},
		map[string]any{"type": "array", "minItems": 1, "items": map[string]any{"type": "string", "minLength": 1}},
	}
}

func (s *Server) registerTools(allow map[string]bool) {
	s.addTool(allow, mcp.NewTool(ToolListPages,
		mcp.WithDescription("List pages of the project, newest first by default."),
		mcp.WithTitleAnnotation("List Pages"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
		mcp.WithNumber("limit", mcp.Description("Number of pages (default 100, max 1000)"), mcp.Min(1), mcp.Max(maxListLimit)),
		mcp.WithNumber("skip", mcp.Description("Number of pages to skip (default 0)"), mcp.Min(0)),
		mcp.WithString("sort", mcp.Description("Sort order"), mcp.Enum(sortNames()...)),
	), s.listPages)

	s.addTool(allow, mcp.NewTool(ToolGetPage,
		mcp.WithDescription("Get the full text of a page with its links and backlinks."),
		mcp.WithTitleAnnotation("Get Page"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
		mcp.WithString("title", mcp.Required(), mcp.Description("Page title")),
	), s.getPage)

	s.addTool(allow, mcp.NewTool(ToolSearchPages,
		mcp.WithDescription("Full-text search. Supports multiple words, -excluded words and \"exact phrases\"."),
		mcp.WithTitleAnnotation("Search Pages"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query")),
	), s.searchPages)

	s.addTool(allow, mcp.NewTool(ToolGetLinks,
		mcp.WithDescription("List the pages a page links to."),
		mcp.WithTitleAnnotation("Get Links"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
		mcp.WithString("title", mcp.Required(), mcp.Description("Page title")),
	), s.getLinks)

	s.addTool(allow, mcp.NewTool(ToolGetBacklinks,
		mcp.WithDescription("List the pages that link to a page."),
		mcp.WithTitleAnnotation("Get Backlinks"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
		mcp.WithString("title", mcp.Required(), mcp.Description("Page title")),
	), s.getBacklinks)

	s.addTool(allow, mcp.NewTool(ToolCreatePage,
		mcp.WithDescription("Create a page. An existing page with the same title is replaced entirely. "+
			"The body uses Scrapbox notation (see the cosense://notation resource)."),
		mcp.WithTitleAnnotation("Create Page"),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
		mcp.WithString("title", mcp.Required(), mcp.Description("Page title")),
		mcp.WithString("body", mcp.Required(), mcp.Description("Page body in Scrapbox notation, without the title line")),
	), s.createPage)

	s.addTool(allow, mcp.NewTool(ToolUpdatePage,
		mcp.WithDescription("Replace the whole body of a page. The body uses Scrapbox notation."),
		mcp.WithTitleAnnotation("Update Page"),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
		mcp.WithString("title", mcp.Required(), mcp.Description("Page title")),
		mcp.WithString("body", mcp.Required(), mcp.Description("New page body in Scrapbox notation, without the title line")),
	), s.updatePage)

	s.addTool(allow, mcp.NewTool(ToolInsertLines,
		mcp.WithDescription("Insert lines into a page. Without a position the lines are appended."),
		mcp.WithTitleAnnotation("Insert Lines"),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(false),
		mcp.WithOpenWorldHintAnnotation(true),
		mcp.WithString("title", mcp.Required(), mcp.Description("Page title")),
		mcp.WithAny("lines", mcp.Required(), linesSchema,
			mcp.Description("Lines to insert: a string or an array of strings. Newlines split a string into several lines.")),
		mcp.WithNumber("position", mcp.Min(1),
			mcp.Description("Insert after this line (1 is right after the title). Defaults to the end of the page.")),
	), s.insertLines)

	s.addTool(allow, mcp.NewTool(ToolDeletePage,
		mcp.WithDescription("Delete a page. This cannot be undone."),
		mcp.WithTitleAnnotation("Delete Page"),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(false),
		mcp.WithOpenWorldHintAnnotation(true),
		mcp.WithString("title", mcp.Required(), mcp.Description("Page title")),
	), s.deletePage)

	s.addTool(allow, mcp.NewTool(ToolTextStats,
		mcp.WithDescription("Count characters, words, lines and paragraphs of a text."),
		mcp.WithTitleAnnotation("Text Statistics"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
		mcp.WithString("text", mcp.Required(), mcp.Description("Text to analyze")),
	), s.textStats)
}
