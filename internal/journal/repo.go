package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Record stores e. ID and CreatedAt are filled in when empty; the stored entry is
// returned.
func (db *DB) Record(ctx context.Context, e Entry) (Entry, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = db.now().UTC()
	}
	if e.Links == nil {
		e.Links = []string{}
	}
	linksJSON, _ := json.Marshal(e.Links)

	var insertedAt sql.NullInt64
	if e.InsertedAt != nil {
		insertedAt = sql.NullInt64{Int64: int64(*e.InsertedAt), Valid: true}
	}

	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO writes (id, operation, title, inserted_at, line_count, checksum, links, ok, error_kind, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, e.ID, string(e.Operation), e.Title, insertedAt, e.LineCount, e.Checksum,
		string(linksJSON), e.OK, e.ErrorKind, e.CreatedAt)
	if err != nil {
		return Entry{}, fmt.Errorf("journal: insert: %w", err)
	}
	return e, nil
}

// Recent returns the newest entries first.
func (db *DB) Recent(ctx context.Context, q Query) ([]Entry, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	limit = min(limit, MaxLimit)

	query := `SELECT id, operation, title, inserted_at, line_count, checksum, links, ok, error_kind, created_at
		FROM writes`
	args := []any{}
	if q.Title != "" {
		query += ` WHERE title = ?`
		args = append(args, q.Title)
	}
	query += ` ORDER BY created_at DESC, rowid DESC LIMIT ?`
	args = append(args, limit)

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("journal: recent: %w", err)
	}
	defer rows.Close()

	out := []Entry{}
	for rows.Next() {
		var (
			e          Entry
			op         string
			insertedAt sql.NullInt64
			linksJSON  string
			createdAt  time.Time
		)
		if err := rows.Scan(&e.ID, &op, &e.Title, &insertedAt, &e.LineCount, &e.Checksum,
			&linksJSON, &e.OK, &e.ErrorKind, &createdAt); err != nil {
			return nil, fmt.Errorf("journal: scan: %w", err)
		}
		e.Operation = Operation(op)
		if insertedAt.Valid {
			v := int(insertedAt.Int64)
			e.InsertedAt = &v
		}
		if err := json.Unmarshal([]byte(linksJSON), &e.Links); err != nil {
			e.Links = []string{}
		}
		e.CreatedAt = createdAt.UTC()
		out = append(out, e)
	}
	return out, rows.Err()
}
