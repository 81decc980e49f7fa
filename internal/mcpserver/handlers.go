package mcpserver

import (
	"context"
	"math"
	"slices"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/cosense-mcp/internal/pageclient"
)

func (s *Server) listPages(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit, err := optionalInt(req, "limit", 1, maxListLimit)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	skip, err := optionalInt(req, "skip", 0, math.MaxInt32)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	sort := pageclient.SortOrder(req.GetString("sort", ""))
	if sort != "" && !slices.Contains(pageclient.SortOrders, sort) {
		return mcp.NewToolResultErrorf("sort must be one of %v", sortNames()), nil
	}

	list, err := s.reader.ListPages(ctx, pageclient.ListOptions{Limit: limit, Skip: skip, Sort: sort})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(renderPageList(list)), nil
}

func (s *Server) getPage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	page, err := s.reader.GetPage(ctx, title)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(renderPage(page)), nil
}

func (s *Server) searchPages(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := s.reader.SearchPages(ctx, query)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(renderSearch(res)), nil
}

func (s *Server) getLinks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	links, err := s.reader.GetLinks(ctx, title)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(renderLinks(title, links)), nil
}

func (s *Server) getBacklinks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	backlinks, err := s.reader.GetBacklinks(ctx, title)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(renderBacklinks(title, backlinks)), nil
}
