// Package testutil provides fake Cosense transports shared by tests.
package testutil

import (
	"context"
	"sync"

	"github.com/starford/cosense-mcp/internal/cosense"
	"github.com/starford/cosense-mcp/internal/models"
)

// ReadTransport is an in-memory pageclient.ReadTransport. Err, when set, is returned
// by every call.
type ReadTransport struct {
	mu sync.Mutex

	Pages  map[string]*models.Page
	List   *models.PageList
	Search *models.SearchResult
	Err    error

	LastProject string
	LastParams  cosense.ListParams
	LastQuery   string
	LastOptions cosense.Options
	Calls       int
}

// ListPages implements pageclient.ReadTransport.
func (f *ReadTransport) ListPages(_ context.Context, project string, params cosense.ListParams) (*models.PageList, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++
	f.LastProject = project
	f.LastParams = params
	f.LastOptions = params.Options
	if f.Err != nil {
		return nil, f.Err
	}
	if f.List == nil {
		return &models.PageList{ProjectName: project}, nil
	}
	return f.List, nil
}

// GetPage implements pageclient.ReadTransport.
func (f *ReadTransport) GetPage(_ context.Context, project, title string, opts cosense.Options) (*models.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++
	f.LastProject = project
	f.LastOptions = opts
	if f.Err != nil {
		return nil, f.Err
	}
	page, ok := f.Pages[title]
	if !ok {
		return nil, &cosense.RemoteError{Name: "NotFoundError", Message: "Page not found.", StatusCode: 404}
	}
	return page, nil
}

// SearchForPages implements pageclient.ReadTransport.
func (f *ReadTransport) SearchForPages(_ context.Context, query, project string, opts cosense.Options) (*models.SearchResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++
	f.LastProject = project
	f.LastQuery = query
	f.LastOptions = opts
	if f.Err != nil {
		return nil, f.Err
	}
	if f.Search == nil {
		return &models.SearchResult{ProjectName: project, SearchQuery: query, Pages: []models.SearchHit{}}, nil
	}
	return f.Search, nil
}

// WriteTransport is an in-memory pageclient.WriteTransport holding page texts.
//
// PatchErr and DeleteErr are returned instead of applying the operation. PatchPanic,
// when non-nil, is raised from Patch. Races replays the transform that many extra
// times against a stale title-only snapshot before committing against the stored
// lines, as a remote losing commit races would. SkipTransform reports a commit
// without calling the transform.
type WriteTransport struct {
	mu sync.Mutex

	Pages map[string][]string

	PatchErr   error
	DeleteErr  error
	PatchPanic any
	Races      int

	SkipTransform bool

	LastProject string
	LastOptions cosense.Options
	Calls       int
}

// NewWriteTransport returns a WriteTransport with the given pages.
func NewWriteTransport(pages map[string][]string) *WriteTransport {
	if pages == nil {
		pages = map[string][]string{}
	}
	return &WriteTransport{Pages: pages}
}

// Patch implements pageclient.WriteTransport.
func (f *WriteTransport) Patch(_ context.Context, project, title string, fn cosense.TransformFunc, opts cosense.Options) (*cosense.CommitResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++
	f.LastProject = project
	f.LastOptions = opts
	if f.PatchPanic != nil {
		panic(f.PatchPanic)
	}
	if f.PatchErr != nil {
		return nil, f.PatchErr
	}

	if f.SkipTransform {
		return &cosense.CommitResult{CommitID: "commit"}, nil
	}

	current, ok := f.Pages[title]
	if !ok {
		current = []string{title}
	}
	for i := 0; i < f.Races; i++ {
		_ = fn([]string{title})
	}
	f.Pages[title] = fn(append([]string(nil), current...))
	return &cosense.CommitResult{CommitID: "commit"}, nil
}

// DeletePage implements pageclient.WriteTransport.
func (f *WriteTransport) DeletePage(_ context.Context, project, title string, opts cosense.Options) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++
	f.LastProject = project
	f.LastOptions = opts
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	if _, ok := f.Pages[title]; !ok {
		return cosense.PushError("NotFoundError: 404")
	}
	delete(f.Pages, title)
	return nil
}

// Lines returns a copy of a stored page.
func (f *WriteTransport) Lines(title string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.Pages[title]...)
}
