package pageclient

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/starford/cosense-mcp/internal/apperr"
	"github.com/starford/cosense-mcp/internal/cosense"
	"github.com/starford/cosense-mcp/internal/models"
	"github.com/starford/cosense-mcp/internal/testutil"
)

func samplePage() *models.Page {
	return &models.Page{
		Title:   "Test Page",
		Lines:   []models.Line{{Text: "Test Page"}, {Text: "see [Other]"}},
		Links:   []string{"Other", "Third"},
		Created: time.Unix(1700000000, 0).UTC(),
		Updated: time.Unix(1700000100, 0).UTC(),
		RelatedPages: models.RelatedPages{Links1Hop: []models.RelatedPage{
			{Title: "Backlink A"},
			{Title: "Backlink B"},
		}},
	}
}

func newReader(tr *testutil.ReadTransport) *ReadClient {
	return NewReadClient(tr, testIdentity)
}

func TestListPagesPassesOptionsThrough(t *testing.T) {
	tr := &testutil.ReadTransport{List: &models.PageList{Count: 2, Limit: 10, Pages: []models.PageSummary{{Title: "a"}, {Title: "b"}}}}
	limit, skip := 10, 5

	list, err := newReader(tr).ListPages(context.Background(), ListOptions{Limit: &limit, Skip: &skip, Sort: SortViews})
	if err != nil {
		t.Fatalf("ListPages: %v", err)
	}
	if list.Count != 2 || len(list.Pages) != 2 {
		t.Errorf("list = %+v", list)
	}
	if tr.LastProject != "test-project" || tr.LastOptions.SID != "test-cookie" {
		t.Errorf("identity = %q/%q", tr.LastProject, tr.LastOptions.SID)
	}
	if *tr.LastParams.Limit != 10 || *tr.LastParams.Skip != 5 || tr.LastParams.Sort != "views" {
		t.Errorf("params = %+v", tr.LastParams)
	}
}

func TestListPagesDefaults(t *testing.T) {
	tr := &testutil.ReadTransport{}
	if _, err := newReader(tr).ListPages(context.Background(), ListOptions{}); err != nil {
		t.Fatal(err)
	}
	if tr.LastParams.Limit != nil || tr.LastParams.Skip != nil || tr.LastParams.Sort != "" {
		t.Errorf("expected remote defaults, got %+v", tr.LastParams)
	}
}

func TestGetPage(t *testing.T) {
	tr := &testutil.ReadTransport{Pages: map[string]*models.Page{"Test Page": samplePage()}}

	page, err := newReader(tr).GetPage(context.Background(), "Test Page")
	if err != nil {
		t.Fatalf("GetPage: %v", err)
	}
	if page.Title != "Test Page" || len(page.Lines) != 2 {
		t.Errorf("page = %+v", page)
	}
}

func TestGetPageNotFound(t *testing.T) {
	tr := &testutil.ReadTransport{Pages: map[string]*models.Page{}}

	_, err := newReader(tr).GetPage(context.Background(), "missing")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("err = %v, want NotFound", err)
	}
	if err.Error() != "Page not found." {
		t.Errorf("message = %q", err.Error())
	}
}

func TestSearchPagesForwardsQueryVerbatim(t *testing.T) {
	want := &models.SearchResult{
		SearchQuery: `foo -bar "baz qux"`,
		Count:       2,
		Pages:       []models.SearchHit{{Title: "second"}, {Title: "first"}},
	}
	tr := &testutil.ReadTransport{Search: want}

	res, err := newReader(tr).SearchPages(context.Background(), `foo -bar "baz qux"`)
	if err != nil {
		t.Fatal(err)
	}
	if tr.LastQuery != `foo -bar "baz qux"` {
		t.Errorf("query = %q", tr.LastQuery)
	}
	if res.Pages[0].Title != "second" || res.Pages[1].Title != "first" {
		t.Errorf("order not preserved: %+v", res.Pages)
	}
}

func TestGetLinksAndBacklinks(t *testing.T) {
	tr := &testutil.ReadTransport{Pages: map[string]*models.Page{"Test Page": samplePage()}}
	c := newReader(tr)

	links, err := c.GetLinks(context.Background(), "Test Page")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(links, []string{"Other", "Third"}) {
		t.Errorf("links = %q", links)
	}

	backlinks, err := c.GetBacklinks(context.Background(), "Test Page")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(backlinks, []string{"Backlink A", "Backlink B"}) {
		t.Errorf("backlinks = %q", backlinks)
	}
}

func TestDerivedViewsFailLikeGetPage(t *testing.T) {
	tr := &testutil.ReadTransport{Err: &cosense.RemoteError{Name: "NotMemberError"}}
	c := newReader(tr)

	for name, call := range map[string]func(context.Context, string) ([]string, error){
		"links":     c.GetLinks,
		"backlinks": c.GetBacklinks,
	} {
		_, err := call(context.Background(), "Test Page")
		if !errors.Is(err, apperr.ErrForbidden) {
			t.Errorf("%s: err = %v, want Forbidden", name, err)
		}
	}
}

func TestReadErrorsAreMapped(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantKind apperr.Kind
		wantMsg  string
	}{
		{"not found default message", &cosense.RemoteError{Name: "NotFoundError"}, apperr.KindNotFound, "Page or project not found"},
		{"not logged in", &cosense.RemoteError{Name: "NotLoggedInError", Message: "login required"}, apperr.KindUnauthorized, "login required"},
		{"not logged in default", &cosense.RemoteError{Name: "NotLoggedInError"}, apperr.KindUnauthorized, "Not logged in"},
		{"not member", &cosense.RemoteError{Name: "NotMemberError"}, apperr.KindForbidden, "Not a member of this project"},
		{"unknown name", &cosense.RemoteError{Name: "TooManyRequests"}, apperr.KindUnknown, "TooManyRequests"},
		{"unknown with message", &cosense.RemoteError{Name: "HTTPError", Message: "API error (status 500): oops"}, apperr.KindUnknown, "API error (status 500): oops"},
		{"network", errors.New("dial tcp: timeout"), apperr.KindUnknown, "dial tcp: timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := &testutil.ReadTransport{Err: tt.err}
			c := newReader(tr)

			_, err := c.ListPages(context.Background(), ListOptions{})
			assertAdapterError(t, err, tt.wantKind, tt.wantMsg)
			_, err = c.GetPage(context.Background(), "x")
			assertAdapterError(t, err, tt.wantKind, tt.wantMsg)
			_, err = c.SearchPages(context.Background(), "x")
			assertAdapterError(t, err, tt.wantKind, tt.wantMsg)
		})
	}
}
