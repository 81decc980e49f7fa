package mcpserver

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/starford/cosense-mcp/internal/models"
	"github.com/starford/cosense-mcp/internal/pageclient"
)

const (
	snippetLines = 3
	snippetRunes = 100
)

// isoTime formats t like JavaScript's Date.prototype.toISOString.
func isoTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}

func renderPageList(list *models.PageList) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d pages:\n", list.Count)
	for _, p := range list.Pages {
		fmt.Fprintf(&b, "\n- %s (updated: %s)", p.Title, isoTime(p.Updated))
	}
	return b.String()
}

func renderPage(p *models.Page) string {
	backlinks := make([]string, len(p.RelatedPages.Links1Hop))
	for i, r := range p.RelatedPages.Links1Hop {
		backlinks[i] = r.Title
	}
	return strings.Join([]string{
		"# " + p.Title,
		"",
		strings.Join(p.Texts(), "\n"),
		"",
		"---",
		"Created: " + isoTime(p.Created),
		"Updated: " + isoTime(p.Updated),
		"Links: " + joinOrNone(p.Links),
		"Backlinks: " + joinOrNone(backlinks),
	}, "\n")
}

func renderSearch(res *models.SearchResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Search: \"%s\"\nFound %d results:\n", res.SearchQuery, res.Count)
	for _, hit := range res.Pages {
		fmt.Fprintf(&b, "\n- %s\n  %s...", hit.Title, snippet(hit.Lines))
	}
	return b.String()
}

func snippet(lines []string) string {
	s := strings.Join(lines[:min(len(lines), snippetLines)], " ")
	if utf8.RuneCountInString(s) <= snippetRunes {
		return s
	}
	return string([]rune(s)[:snippetRunes])
}

func renderLinks(title string, links []string) string {
	if len(links) == 0 {
		return fmt.Sprintf("No links found in \"%s\"", title)
	}
	return fmt.Sprintf("Links from \"%s\":\n\n", title) + bulletList(links)
}

func renderBacklinks(title string, backlinks []string) string {
	if len(backlinks) == 0 {
		return fmt.Sprintf("No backlinks found for \"%s\"", title)
	}
	return fmt.Sprintf("Backlinks to \"%s\":\n\n", title) + bulletList(backlinks)
}

func renderPageRef(verb string, ref *pageclient.PageRef, links []string) string {
	out := fmt.Sprintf("%s page: %s\nURL: %s", verb, ref.Title, ref.URL)
	if len(links) > 0 {
		out += "\nLinks: " + strings.Join(links, ", ")
	}
	return out
}

func renderInsertion(ins *pageclient.Insertion, count int) string {
	return fmt.Sprintf("Inserted %d line(s) at line %d\nPage: %s\nURL: %s", count, ins.InsertedAt, ins.Title, ins.URL)
}

func bulletList(items []string) string {
	var b strings.Builder
	for i, item := range items {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("- " + item)
	}
	return b.String()
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "(none)"
	}
	return strings.Join(items, ", ")
}
