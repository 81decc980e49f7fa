package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mark3labs/mcp-go/mcp"
)

var (
	lineBreakRe      = regexp.MustCompile(`\r?\n`)
	paragraphBreakRe = regexp.MustCompile(`\r?\n\s*\r?\n`)
)

// TextStats are simple counts over a text.
type TextStats struct {
	Characters         int
	CharactersNoSpaces int
	Words              int
	Lines              int
	Paragraphs         int
}

// AnalyzeText counts t. Blank input is rejected.
func AnalyzeText(t string) (*TextStats, error) {
	if strings.TrimSpace(t) == "" {
		return nil, errors.New("Text cannot be empty")
	}

	noSpaces := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, t)

	paragraphs := 0
	for _, p := range paragraphBreakRe.Split(t, -1) {
		if strings.TrimSpace(p) != "" {
			paragraphs++
		}
	}

	return &TextStats{
		Characters:         utf8.RuneCountInString(t),
		CharactersNoSpaces: utf8.RuneCountInString(noSpaces),
		Words:              len(strings.Fields(t)),
		Lines:              len(lineBreakRe.Split(t, -1)),
		Paragraphs:         paragraphs,
	}, nil
}

func (st *TextStats) String() string {
	return fmt.Sprintf("Characters: %d\nCharacters (no spaces): %d\nWords: %d\nLines: %d\nParagraphs: %d",
		st.Characters, st.CharactersNoSpaces, st.Words, st.Lines, st.Paragraphs)
}

func (s *Server) textStats(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	stats, err := AnalyzeText(text)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(stats.String()), nil
}
