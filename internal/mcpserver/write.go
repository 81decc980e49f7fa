package mcpserver

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/cosense-mcp/internal/apperr"
	"github.com/starford/cosense-mcp/internal/checksum"
	"github.com/starford/cosense-mcp/internal/journal"
	"github.com/starford/cosense-mcp/internal/notation"
	"github.com/starford/cosense-mcp/internal/pageclient"
	"github.com/starford/cosense-mcp/internal/sse"
)

func (s *Server) createPage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.replacePage(ctx, req, journal.OpCreate, "Created", sse.PageCreated, s.writer.CreatePage)
}

func (s *Server) updatePage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.replacePage(ctx, req, journal.OpUpdate, "Updated", sse.PageUpdated, s.writer.UpdatePage)
}

type replaceFunc func(ctx context.Context, title, body string) (*pageclient.PageRef, error)

func (s *Server) replacePage(ctx context.Context, req mcp.CallToolRequest, op journal.Operation, verb, event string, write replaceFunc) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	body, err := req.RequireString("body")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	lines := pageclient.ReplacementLines(title, body)
	links := notation.ScanText(body).All()
	entry := journal.Entry{
		Operation: op,
		Title:     title,
		LineCount: len(lines),
		Checksum:  checksum.Lines(lines),
		Links:     links,
	}

	ref, err := write(ctx, title, body)
	s.afterWrite(ctx, entry, err, event, func(ev *sse.PageEvent) {
		ev.URL = ref.URL
		ev.LineCount = len(lines)
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(renderPageRef(verb, ref, links)), nil
}

func (s *Server) insertLines(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	lines, err := linesArgument(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	position, err := optionalNumber(req, "position")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	entry := journal.Entry{
		Operation: journal.OpInsert,
		Title:     title,
		LineCount: len(lines),
		Checksum:  checksum.Lines(lines),
		Links:     notation.Scan(lines).All(),
	}

	ins, err := s.writer.InsertLines(ctx, title, lines, position)
	if err == nil {
		at := ins.InsertedAt
		entry.InsertedAt = &at
	}
	s.afterWrite(ctx, entry, err, sse.PageLinesInserted, func(ev *sse.PageEvent) {
		ev.URL = ins.URL
		ev.InsertedAt = entry.InsertedAt
		ev.LineCount = len(lines)
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(renderInsertion(ins, len(lines))), nil
}

func (s *Server) deletePage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	del, err := s.writer.DeletePage(ctx, title)
	s.afterWrite(ctx, journal.Entry{Operation: journal.OpDelete, Title: title}, err, sse.PageDeleted, nil)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText("Deleted page: " + del.Title), nil
}

// afterWrite journals the outcome of a write and, on success, publishes a page
// event. fill completes the event payload and only runs on success. Journal
// failures are logged and never fail the tool call.
func (s *Server) afterWrite(ctx context.Context, entry journal.Entry, writeErr error, event string, fill func(*sse.PageEvent)) {
	entry.OK = writeErr == nil
	if writeErr != nil {
		entry.ErrorKind = string(apperr.KindOf(writeErr))
		s.logger.Warn("page write failed",
			slog.String("operation", string(entry.Operation)),
			slog.String("title", entry.Title),
			slog.String("kind", entry.ErrorKind),
			slog.String("error", writeErr.Error()))
	} else {
		s.logger.Info("page written",
			slog.String("operation", string(entry.Operation)),
			slog.String("title", entry.Title))
	}

	if s.cfg.Journal != nil {
		if _, err := s.cfg.Journal.Record(ctx, entry); err != nil {
			s.logger.Error("journal record failed", slog.String("error", err.Error()))
		}
	}

	if writeErr != nil || s.cfg.Events == nil {
		return
	}
	ev := sse.PageEvent{Project: s.cfg.Project, Title: entry.Title}
	if fill != nil {
		fill(&ev)
	}
	s.cfg.Events.PublishPageEvent(event, ev)
}
