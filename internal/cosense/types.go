// Package cosense implements the Cosense (Scrapbox) remote transports: a REST client
// for reads and a socket.io commit client for patches.
package cosense

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/starford/cosense-mcp/internal/models"
)

// DefaultHost is the public Cosense host.
const DefaultHost = "scrapbox.io"

// Options carries per-call credentials.
type Options struct {
	// SID is the connect.sid session cookie value. A full "connect.sid=..." pair is
	// accepted as well.
	SID string
}

func (o Options) cookie() string {
	if o.SID == "" {
		return ""
	}
	if strings.HasPrefix(o.SID, "connect.sid=") {
		return o.SID
	}
	return "connect.sid=" + o.SID
}

// ListParams are the query parameters of the page listing endpoint. Nil or empty
// fields are omitted so the remote applies its defaults.
type ListParams struct {
	Options
	Limit *int
	Skip  *int
	Sort  string
}

// unixTime decodes the remote's epoch-seconds timestamps.
type unixTime int64

func (u unixTime) Time() time.Time {
	if u == 0 {
		return time.Time{}
	}
	return time.Unix(int64(u), 0).UTC()
}

type wireLine struct {
	ID      string   `json:"id"`
	Text    string   `json:"text"`
	UserID  string   `json:"userId"`
	Created unixTime `json:"created"`
	Updated unixTime `json:"updated"`
}

type wireRelated struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	TitleLc      string   `json:"titleLc"`
	Image        string   `json:"image"`
	Descriptions []string `json:"descriptions"`
	Updated      unixTime `json:"updated"`
}

type wirePage struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Lines        []wireLine `json:"lines"`
	Links        []string   `json:"links"`
	Persistent   bool       `json:"persistent"`
	CommitID     string     `json:"commitId"`
	Created      unixTime   `json:"created"`
	Updated      unixTime   `json:"updated"`
	RelatedPages struct {
		Links1Hop []wireRelated `json:"links1hop"`
	} `json:"relatedPages"`
}

func (w *wirePage) toModel() *models.Page {
	p := &models.Page{
		ID:         w.ID,
		Title:      w.Title,
		Links:      nonNil(w.Links),
		Persistent: w.Persistent,
		CommitID:   w.CommitID,
		Created:    w.Created.Time(),
		Updated:    w.Updated.Time(),
		Lines:      make([]models.Line, len(w.Lines)),
	}
	for i, l := range w.Lines {
		p.Lines[i] = models.Line{
			ID:      l.ID,
			Text:    l.Text,
			UserID:  l.UserID,
			Created: l.Created.Time(),
			Updated: l.Updated.Time(),
		}
	}
	p.RelatedPages.Links1Hop = make([]models.RelatedPage, len(w.RelatedPages.Links1Hop))
	for i, r := range w.RelatedPages.Links1Hop {
		p.RelatedPages.Links1Hop[i] = models.RelatedPage{
			ID:           r.ID,
			Title:        r.Title,
			TitleLc:      r.TitleLc,
			Image:        r.Image,
			Descriptions: r.Descriptions,
			Updated:      r.Updated.Time(),
		}
	}
	return p
}

type wireSummary struct {
	ID           string      `json:"id"`
	Title        string      `json:"title"`
	Image        string      `json:"image"`
	Descriptions []string    `json:"descriptions"`
	Pin          json.Number `json:"pin"`
	Views        int         `json:"views"`
	Linked       int         `json:"linked"`
	Created      unixTime    `json:"created"`
	Updated      unixTime    `json:"updated"`
	Accessed     unixTime    `json:"accessed"`
}

type wirePageList struct {
	ProjectName string        `json:"projectName"`
	Skip        int           `json:"skip"`
	Limit       int           `json:"limit"`
	Count       int           `json:"count"`
	Pages       []wireSummary `json:"pages"`
}

func (w *wirePageList) toModel() *models.PageList {
	out := &models.PageList{
		ProjectName: w.ProjectName,
		Skip:        w.Skip,
		Limit:       w.Limit,
		Count:       w.Count,
		Pages:       make([]models.PageSummary, len(w.Pages)),
	}
	for i, s := range w.Pages {
		pin, _ := s.Pin.Int64()
		out.Pages[i] = models.PageSummary{
			ID:           s.ID,
			Title:        s.Title,
			Image:        s.Image,
			Descriptions: s.Descriptions,
			Pin:          pin,
			Views:        s.Views,
			Linked:       s.Linked,
			Created:      s.Created.Time(),
			Updated:      s.Updated.Time(),
			Accessed:     s.Accessed.Time(),
		}
	}
	return out
}

// The search payload has no timestamps, so it decodes straight into the model.
type wireSearchResult = models.SearchResult

type wireUser struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type wireProject struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
