package pageclient

import (
	"context"
	"log/slog"

	"github.com/starford/cosense-mcp/internal/cosense"
	"github.com/starford/cosense-mcp/internal/models"
)

// SortOrder is a page listing order understood by the remote.
type SortOrder string

// Listing orders. The empty order leaves the choice to the remote.
const (
	SortUpdated  SortOrder = "updated"
	SortCreated  SortOrder = "created"
	SortAccessed SortOrder = "accessed"
	SortLinked   SortOrder = "linked"
	SortViews    SortOrder = "views"
	SortTitle    SortOrder = "title"
)

// SortOrders lists every accepted listing order.
var SortOrders = []SortOrder{SortUpdated, SortCreated, SortAccessed, SortLinked, SortViews, SortTitle}

// ListOptions are passed through to the remote listing. Ranges are enforced remotely.
type ListOptions struct {
	Limit *int
	Skip  *int
	Sort  SortOrder
}

// ReadClient performs read-only page queries.
type ReadClient struct {
	transport ReadTransport
	identity  Identity
}

// NewReadClient creates a ReadClient bound to one project.
func NewReadClient(transport ReadTransport, identity Identity) *ReadClient {
	return &ReadClient{transport: transport, identity: identity}
}

// ListPages returns one page of the project's listing.
func (c *ReadClient) ListPages(ctx context.Context, opts ListOptions) (*models.PageList, error) {
	list, err := c.transport.ListPages(ctx, c.identity.Project, cosense.ListParams{
		Options: c.identity.options(),
		Limit:   opts.Limit,
		Skip:    opts.Skip,
		Sort:    string(opts.Sort),
	})
	if err != nil {
		slog.Debug("list pages failed", slog.String("error", err.Error()))
		return nil, mapCosenseError(err)
	}
	return list, nil
}

// GetPage fetches a page by title. The remote answers an unknown title with an
// empty, non-persistent page rather than an error, and that page is returned as is;
// apperr.KindNotFound only comes from a remote error response.
func (c *ReadClient) GetPage(ctx context.Context, title string) (*models.Page, error) {
	page, err := c.transport.GetPage(ctx, c.identity.Project, title, c.identity.options())
	if err != nil {
		slog.Debug("get page failed", slog.String("title", title), slog.String("error", err.Error()))
		return nil, mapCosenseError(err)
	}
	return page, nil
}

// SearchPages runs a full-text search. The query syntax is interpreted remotely.
func (c *ReadClient) SearchPages(ctx context.Context, query string) (*models.SearchResult, error) {
	res, err := c.transport.SearchForPages(ctx, query, c.identity.Project, c.identity.options())
	if err != nil {
		slog.Debug("search pages failed", slog.String("query", query), slog.String("error", err.Error()))
		return nil, mapCosenseError(err)
	}
	return res, nil
}

// GetLinks returns the titles a page links to.
func (c *ReadClient) GetLinks(ctx context.Context, title string) ([]string, error) {
	page, err := c.GetPage(ctx, title)
	if err != nil {
		return nil, err
	}
	return append([]string{}, page.Links...), nil
}

// GetBacklinks returns the titles of pages linking directly to a page.
func (c *ReadClient) GetBacklinks(ctx context.Context, title string) ([]string, error) {
	page, err := c.GetPage(ctx, title)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(page.RelatedPages.Links1Hop))
	for i, rel := range page.RelatedPages.Links1Hop {
		out[i] = rel.Title
	}
	return out, nil
}
