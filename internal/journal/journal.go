// Package journal records page writes in SQLite. Only metadata is kept: the page
// text itself is never stored.
package journal

import (
	"context"
	"time"
)

// Operation names a write.
type Operation string

const (
	OpCreate Operation = "create_page"
	OpUpdate Operation = "update_page"
	OpInsert Operation = "insert_lines"
	OpDelete Operation = "delete_page"
)

// Entry is one journaled write.
type Entry struct {
	ID         string    `json:"id"`
	Operation  Operation `json:"operation"`
	Title      string    `json:"title"`
	InsertedAt *int      `json:"insertedAt,omitempty"`
	LineCount  int       `json:"lineCount"`
	Checksum   string    `json:"checksum,omitempty"`
	Links      []string  `json:"links"`
	OK         bool      `json:"ok"`
	ErrorKind  string    `json:"errorKind,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Journal defines the write journal operations.
// Consumers should depend on this interface rather than the concrete *DB type.
type Journal interface {
	Record(ctx context.Context, e Entry) (Entry, error)
	Recent(ctx context.Context, q Query) ([]Entry, error)
	Close() error
}

// Query filters Recent. A zero Limit means DefaultLimit.
type Query struct {
	Limit int
	Title string
}

// DefaultLimit and MaxLimit bound Recent.
const (
	DefaultLimit = 50
	MaxLimit     = 500
)

// Verify *DB satisfies Journal at compile time.
var _ Journal = (*DB)(nil)
