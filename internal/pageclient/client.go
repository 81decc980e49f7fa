// Package pageclient adapts the Cosense transports to the page operations exposed to
// agents. Every error returned by ReadClient and WriteClient is an *apperr.Error.
package pageclient

import (
	"context"

	"github.com/starford/cosense-mcp/internal/cosense"
	"github.com/starford/cosense-mcp/internal/models"
)

// Identity is the project a client operates on and the credential used for it.
type Identity struct {
	Project    string
	Credential string
}

func (id Identity) options() cosense.Options {
	return cosense.Options{SID: id.Credential}
}

// ReadTransport is the request/response side of the remote.
type ReadTransport interface {
	ListPages(ctx context.Context, project string, params cosense.ListParams) (*models.PageList, error)
	GetPage(ctx context.Context, project, title string, opts cosense.Options) (*models.Page, error)
	SearchForPages(ctx context.Context, query, project string, opts cosense.Options) (*models.SearchResult, error)
}

// WriteTransport is the real-time side of the remote.
type WriteTransport interface {
	Patch(ctx context.Context, project, title string, fn cosense.TransformFunc, opts cosense.Options) (*cosense.CommitResult, error)
	DeletePage(ctx context.Context, project, title string, opts cosense.Options) error
}

var (
	_ ReadTransport  = (*cosense.REST)(nil)
	_ WriteTransport = (*cosense.Patcher)(nil)
)
