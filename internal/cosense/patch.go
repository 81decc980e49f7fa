package cosense

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/starford/cosense-mcp/internal/models"
)

const defaultMaxAttempts = 3

// TransformFunc receives the current texts of a page, title line first, and returns
// the desired texts. It may be invoked more than once when the commit races another
// writer; the last invocation is the one committed.
type TransformFunc func(current []string) []string

// CommitResult describes an accepted commit.
type CommitResult struct {
	CommitID string
	PageID   string
}

// Patcher applies read-modify-write patches through the real-time commit API.
type Patcher struct {
	rest        *REST
	socketURL   string
	maxAttempts int
	now         func() time.Time
}

// PatcherOption configures a Patcher.
type PatcherOption func(*Patcher)

// WithSocketURL overrides the websocket endpoint.
func WithSocketURL(u string) PatcherOption {
	return func(p *Patcher) { p.socketURL = u }
}

// WithMaxAttempts bounds how often a commit is retried after losing a race.
func WithMaxAttempts(n int) PatcherOption {
	return func(p *Patcher) {
		if n > 0 {
			p.maxAttempts = n
		}
	}
}

// NewPatcher creates a Patcher that reads snapshots through rest and commits to the
// socket endpoint of host.
func NewPatcher(host string, rest *REST, opts ...PatcherOption) *Patcher {
	p := &Patcher{
		rest:        rest,
		socketURL:   SocketURL(host),
		maxAttempts: defaultMaxAttempts,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type session struct {
	socket    *Socket
	userID    string
	projectID string
}

func (p *Patcher) open(ctx context.Context, project string, opts Options) (*session, error) {
	userID, err := p.rest.Me(ctx, opts)
	if err != nil {
		return nil, asPushError(err)
	}
	projectID, err := p.rest.ProjectID(ctx, project, opts)
	if err != nil {
		return nil, asPushError(err)
	}
	sock, err := DialSocket(ctx, p.socketURL, opts)
	if err != nil {
		return nil, err
	}
	return &session{socket: sock, userID: userID, projectID: projectID}, nil
}

// Patch replaces the lines of a page with the output of fn. The page is created when
// it does not exist yet.
func (p *Patcher) Patch(ctx context.Context, project, title string, fn TransformFunc, opts Options) (*CommitResult, error) {
	sess, err := p.open(ctx, project, opts)
	if err != nil {
		return nil, err
	}
	defer sess.socket.Close()

	var lastErr error
	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		page, err := p.rest.GetPage(ctx, project, title, opts)
		if err != nil {
			return nil, asPushError(err)
		}

		next := fn(page.Texts())
		changes := makeChanges(page, next, func() string { return newLineID(sess.userID, p.now()) })
		if len(changes) == 0 {
			return &CommitResult{CommitID: page.CommitID, PageID: page.ID}, nil
		}

		commitID, err := p.commit(ctx, sess, page, changes)
		if err == nil {
			return &CommitResult{CommitID: commitID, PageID: page.ID}, nil
		}
		if !isNotFastForward(err) {
			return nil, err
		}
		slog.Debug("cosense: commit lost race, retrying",
			slog.String("title", title),
			slog.Int("attempt", attempt))
		lastErr = err
	}
	return nil, lastErr
}

// DeletePage removes a page.
func (p *Patcher) DeletePage(ctx context.Context, project, title string, opts Options) error {
	sess, err := p.open(ctx, project, opts)
	if err != nil {
		return err
	}
	defer sess.socket.Close()

	page, err := p.rest.GetPage(ctx, project, title, opts)
	if err != nil {
		return asPushError(err)
	}
	if !page.Persistent {
		return PushError(fmt.Sprintf("NotFoundError: %q does not exist", title))
	}
	_, err = p.commit(ctx, sess, page, []Change{{Deleted: true}})
	return err
}

func (p *Patcher) commit(ctx context.Context, sess *session, page *models.Page, changes []Change) (string, error) {
	if _, err := sess.socket.Request(ctx, "room:join", map[string]any{
		"pageId":               page.ID,
		"projectId":            sess.projectID,
		"projectUpdatesStream": false,
	}); err != nil {
		return "", err
	}

	raw, err := sess.socket.Request(ctx, "commit", map[string]any{
		"kind":      "page",
		"parentId":  page.CommitID,
		"changes":   changes,
		"cursor":    nil,
		"pageId":    page.ID,
		"userId":    sess.userID,
		"projectId": sess.projectID,
		"freeze":    true,
	})
	if err != nil {
		return "", err
	}

	var ack struct {
		CommitID string `json:"commitId"`
	}
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &ack)
	}
	return ack.CommitID, nil
}

func isNotFastForward(err error) bool {
	var perr PushError
	return errors.As(err, &perr) && strings.Contains(string(perr), "NotFastForwardError")
}

// asPushError folds REST failures into the string vocabulary of the commit channel,
// keeping the HTTP status visible in the text.
func asPushError(err error) error {
	var rerr *RemoteError
	if errors.As(err, &rerr) {
		return PushError(fmt.Sprintf("%s (%d)", rerr.Error(), rerr.StatusCode))
	}
	return err
}
