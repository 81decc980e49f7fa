package pageclient

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/starford/cosense-mcp/internal/apperr"
	"github.com/starford/cosense-mcp/internal/cosense"
)

// Validation messages reported under apperr.KindUnknown.
const (
	msgEmptyLines      = "Lines array cannot be empty"
	msgInvalidPosition = "Position must be a finite integer"
	msgNotApplied      = "Insert was not applied"
)

// PageRef identifies a written page.
type PageRef struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Insertion is the outcome of InsertLines. InsertedAt is the line index the new
// lines start at; 1 is immediately after the title line.
type Insertion struct {
	Title      string `json:"title"`
	URL        string `json:"url"`
	InsertedAt int    `json:"insertedAt"`
}

// Deletion is the outcome of DeletePage.
type Deletion struct {
	Title string `json:"title"`
}

// WriteClient performs mutating page operations through patch commits.
type WriteClient struct {
	transport WriteTransport
	identity  Identity
	baseURL   string
}

// NewWriteClient creates a WriteClient bound to one project. baseURL is the scheme and
// host page URLs are built from, e.g. "https://scrapbox.io".
func NewWriteClient(transport WriteTransport, identity Identity, baseURL string) *WriteClient {
	return &WriteClient{
		transport: transport,
		identity:  identity,
		baseURL:   strings.TrimRight(baseURL, "/"),
	}
}

// PageURL returns the browser URL of a page in the client's project.
func (c *WriteClient) PageURL(title string) string {
	return c.baseURL + "/" + c.identity.Project + "/" + cosense.EncodeURIComponent(title)
}

// CreatePage writes title and body as a page, replacing any existing content.
func (c *WriteClient) CreatePage(ctx context.Context, title, body string) (*PageRef, error) {
	return c.replacePage(ctx, title, body)
}

// UpdatePage replaces the whole content of a page. It behaves exactly like CreatePage.
func (c *WriteClient) UpdatePage(ctx context.Context, title, body string) (*PageRef, error) {
	return c.replacePage(ctx, title, body)
}

func (c *WriteClient) replacePage(ctx context.Context, title, body string) (*PageRef, error) {
	lines := ReplacementLines(title, body)
	err := c.patch(ctx, title, func([]string) []string {
		return append([]string(nil), lines...)
	})
	if err != nil {
		return nil, err
	}
	return &PageRef{Title: title, URL: c.PageURL(title)}, nil
}

// InsertLines inserts lines into a page at position, or appends them when position is
// nil. position arrives as a JSON number and must hold a finite integer. It is clamped
// against the line count the remote reports at commit time, so the title line is
// never displaced.
func (c *WriteClient) InsertLines(ctx context.Context, title string, lines []string, position *float64) (*Insertion, error) {
	if len(lines) == 0 {
		return nil, apperr.New(apperr.KindUnknown, msgEmptyLines)
	}
	var pos *int
	if position != nil {
		p, err := positionFromFloat(*position)
		if err != nil {
			return nil, err
		}
		pos = &p
	}

	insertedAt := -1
	err := c.patch(ctx, title, func(current []string) []string {
		next, at := InsertAt(current, lines, pos)
		insertedAt = at
		return next
	})
	if err != nil {
		return nil, err
	}
	if insertedAt < 0 {
		slog.Warn("patch committed without running the transform", slog.String("title", title))
		return nil, apperr.New(apperr.KindUnknown, msgNotApplied)
	}
	return &Insertion{Title: title, URL: c.PageURL(title), InsertedAt: insertedAt}, nil
}

// DeletePage removes a page.
func (c *WriteClient) DeletePage(ctx context.Context, title string) (result *Deletion, err error) {
	defer recoverPush(&err)

	if err := c.transport.DeletePage(ctx, c.identity.Project, title, c.identity.options()); err != nil {
		slog.Debug("delete page failed", slog.String("title", title), slog.String("error", err.Error()))
		return nil, mapPushError(err)
	}
	return &Deletion{Title: title}, nil
}

func (c *WriteClient) patch(ctx context.Context, title string, fn cosense.TransformFunc) (err error) {
	defer recoverPush(&err)

	if _, err := c.transport.Patch(ctx, c.identity.Project, title, fn, c.identity.options()); err != nil {
		slog.Debug("patch failed", slog.String("title", title), slog.String("error", err.Error()))
		return mapPushError(err)
	}
	return nil
}

// recoverPush converts a panic raised by the transport into a mapped error.
func recoverPush(err *error) {
	if r := recover(); r != nil {
		slog.Error("write transport panicked", slog.String("panic", fmt.Sprint(r)))
		*err = mapPushError(r)
	}
}

// ReplacementLines returns the full line sequence for a page with the given body.
func ReplacementLines(title, body string) []string {
	return append([]string{title}, strings.Split(body, "\n")...)
}

// InsertAt returns current with lines inserted at the clamped position together with
// that position. A nil position appends. The result never shares current's backing
// array.
func InsertAt(current, lines []string, position *int) ([]string, int) {
	at := len(current)
	if position != nil {
		at = *position
	}
	at = min(max(1, at), len(current))

	next := make([]string, 0, len(current)+len(lines))
	next = append(next, current[:at]...)
	next = append(next, lines...)
	next = append(next, current[at:]...)
	return next, at
}

func positionFromFloat(f float64) (int, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, apperr.New(apperr.KindUnknown, msgInvalidPosition)
	}
	// Out-of-range integers clamp the same way as in-range ones.
	return int(max(min(f, math.MaxInt32), math.MinInt32)), nil
}
