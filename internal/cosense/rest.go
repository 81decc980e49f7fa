package cosense

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/starford/cosense-mcp/internal/models"
)

// REST is a client for the Cosense REST API.
type REST struct {
	httpClient *http.Client
	baseURL    string
}

// NewREST creates a REST client for host (DefaultHost when empty). A nil httpClient
// uses http.DefaultClient.
func NewREST(host string, httpClient *http.Client) *REST {
	if host == "" {
		host = DefaultHost
	}
	return NewRESTWithBaseURL("https://"+host, httpClient)
}

// NewRESTWithBaseURL creates a REST client rooted at an explicit base URL such as an
// httptest server.
func NewRESTWithBaseURL(baseURL string, httpClient *http.Client) *REST {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &REST{httpClient: httpClient, baseURL: baseURL}
}

// ListPages fetches one page of the project's page listing.
func (c *REST) ListPages(ctx context.Context, project string, params ListParams) (*models.PageList, error) {
	q := url.Values{}
	if params.Limit != nil {
		q.Set("limit", strconv.Itoa(*params.Limit))
	}
	if params.Skip != nil {
		q.Set("skip", strconv.Itoa(*params.Skip))
	}
	if params.Sort != "" {
		q.Set("sort", params.Sort)
	}
	endpoint := fmt.Sprintf("%s/api/pages/%s", c.baseURL, EncodeURIComponent(project))
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}

	var out wirePageList
	if err := c.getJSON(ctx, endpoint, params.Options, &out); err != nil {
		return nil, err
	}
	return out.toModel(), nil
}

// GetPage fetches a page with its lines, links and related pages. Renamed pages are
// followed.
func (c *REST) GetPage(ctx context.Context, project, title string, opts Options) (*models.Page, error) {
	endpoint := fmt.Sprintf("%s/api/pages/%s/%s?followRename=true",
		c.baseURL, EncodeURIComponent(project), EncodeURIComponent(title))

	var out wirePage
	if err := c.getJSON(ctx, endpoint, opts, &out); err != nil {
		return nil, err
	}
	return out.toModel(), nil
}

// SearchForPages runs a full-text query. The query is sent verbatim.
func (c *REST) SearchForPages(ctx context.Context, query, project string, opts Options) (*models.SearchResult, error) {
	endpoint := fmt.Sprintf("%s/api/pages/%s/search/query?q=%s",
		c.baseURL, EncodeURIComponent(project), EncodeURIComponent(query))

	var out wireSearchResult
	if err := c.getJSON(ctx, endpoint, opts, &out); err != nil {
		return nil, err
	}
	out.Pages = nonNil(out.Pages)
	return &out, nil
}

// Me returns the id of the user owning the session cookie.
func (c *REST) Me(ctx context.Context, opts Options) (string, error) {
	var out wireUser
	if err := c.getJSON(ctx, c.baseURL+"/api/users/me", opts, &out); err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", &RemoteError{Name: "NotLoggedInError", Message: "Not logged in", StatusCode: http.StatusUnauthorized}
	}
	return out.ID, nil
}

// ProjectID resolves a project name to its id.
func (c *REST) ProjectID(ctx context.Context, project string, opts Options) (string, error) {
	var out wireProject
	endpoint := fmt.Sprintf("%s/api/projects/%s", c.baseURL, EncodeURIComponent(project))
	if err := c.getJSON(ctx, endpoint, opts, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

func (c *REST) getJSON(ctx context.Context, endpoint string, opts Options, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if cookie := opts.cookie(); cookie != "" {
		req.Header.Set("Cookie", cookie)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		slog.Debug("cosense api error",
			slog.String("url", endpoint),
			slog.Int("status", resp.StatusCode))
		return decodeRemoteError(resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}

func decodeRemoteError(status int, body []byte) error {
	var rerr RemoteError
	if err := json.Unmarshal(body, &rerr); err != nil || rerr.Name == "" {
		return &RemoteError{
			Name:       "HTTPError",
			Message:    fmt.Sprintf("API error (status %d): %s", status, string(body)),
			StatusCode: status,
		}
	}
	rerr.StatusCode = status
	return &rerr
}
