// Package models defines the page types returned by the Cosense API.
package models

import "time"

// Line is a single line of a page. Line 0 of a page is its title.
type Line struct {
	ID      string    `json:"id"`
	Text    string    `json:"text"`
	UserID  string    `json:"userId,omitempty"`
	Created time.Time `json:"created"`
	Updated time.Time `json:"updated"`
}

// RelatedPage is a page adjacent to another page in the link graph.
type RelatedPage struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	TitleLc      string    `json:"titleLc,omitempty"`
	Image        string    `json:"image,omitempty"`
	Descriptions []string  `json:"descriptions,omitempty"`
	Updated      time.Time `json:"updated"`
}

// RelatedPages groups the pages around a page.
type RelatedPages struct {
	// Links1Hop are pages that link directly to the page (backlinks).
	Links1Hop []RelatedPage `json:"links1hop"`
}

// Page is a full page as returned by the remote.
type Page struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Lines        []Line       `json:"lines"`
	Links        []string     `json:"links"`
	RelatedPages RelatedPages `json:"relatedPages"`
	Persistent   bool         `json:"persistent"`
	CommitID     string       `json:"commitId,omitempty"`
	Created      time.Time    `json:"created"`
	Updated      time.Time    `json:"updated"`
}

// Texts returns the text of every line in document order.
func (p *Page) Texts() []string {
	out := make([]string, len(p.Lines))
	for i, l := range p.Lines {
		out[i] = l.Text
	}
	return out
}

// PageSummary is the listing view of a page.
type PageSummary struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Image        string    `json:"image,omitempty"`
	Descriptions []string  `json:"descriptions,omitempty"`
	Pin          int64     `json:"pin"`
	Views        int       `json:"views"`
	Linked       int       `json:"linked"`
	Created      time.Time `json:"created"`
	Updated      time.Time `json:"updated"`
	Accessed     time.Time `json:"accessed"`
}

// PageList is one page of a project listing. Skip, Limit and Count are the values
// the remote applied.
type PageList struct {
	ProjectName string        `json:"projectName"`
	Skip        int           `json:"skip"`
	Limit       int           `json:"limit"`
	Count       int           `json:"count"`
	Pages       []PageSummary `json:"pages"`
}

// SearchQuery is the remote's parse of a search string.
type SearchQuery struct {
	Words    []string `json:"words"`
	Excludes []string `json:"excludes"`
}

// SearchHit is a single search result.
type SearchHit struct {
	ID    string   `json:"id"`
	Title string   `json:"title"`
	Image string   `json:"image,omitempty"`
	Words []string `json:"words"`
	Lines []string `json:"lines"`
}

// SearchResult holds search hits in remote relevance order.
type SearchResult struct {
	ProjectName           string      `json:"projectName"`
	SearchQuery           string      `json:"searchQuery"`
	Query                 SearchQuery `json:"query"`
	Limit                 int         `json:"limit"`
	Count                 int         `json:"count"`
	ExistsExactTitleMatch bool        `json:"existsExactTitleMatch"`
	Pages                 []SearchHit `json:"pages"`
}
