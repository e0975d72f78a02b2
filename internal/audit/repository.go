// Package audit stores the lock's history in the audit_logs table:
// enrollments, password attempts, door cycles, alarms and store faults.
package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// timeLayout is fixed width so that created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000Z"

// Page size bounds for List.
const (
	DefaultLimit = 50
	MaxLimit     = 200
)

const columns = "id, action, node, mode, attempt, success, details, created_at"

// Entry is one row of the audit trail. Action is the event kind that
// produced it.
type Entry struct {
	ID        string         `json:"id"`
	Action    string         `json:"action"`
	Node      string         `json:"node"`
	Mode      string         `json:"mode"`
	Attempt   int            `json:"attempt,omitempty"`
	Success   bool           `json:"success"`
	Details   map[string]any `json:"details,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// Filter selects entries. Zero fields match everything; Since is
// inclusive and Until exclusive.
type Filter struct {
	Action string
	Node   string
	Since  time.Time
	Until  time.Time
	Limit  int
	Offset int
}

// Page is one window of a List, newest first. Total counts every entry
// matching the filter, ignoring Limit and Offset.
type Page struct {
	Entries []Entry `json:"entries"`
	Total   int     `json:"total"`
	Limit   int     `json:"limit"`
	Offset  int     `json:"offset"`
}

// Repository records and lists audit entries.
type Repository interface {
	Record(ctx context.Context, e *Entry) error
	List(ctx context.Context, f Filter) (*Page, error)
}

// SQLiteRepository is a Repository over the audit_logs table.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository returns a repository on a migrated database.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Record inserts e, filling ID and CreatedAt when they are empty.
func (r *SQLiteRepository) Record(ctx context.Context, e *Entry) error {
	if e.ID == "" {
		e.ID = "aud-" + uuid.NewString()[:8]
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	var details sql.NullString
	if len(e.Details) > 0 {
		b, err := json.Marshal(e.Details)
		if err != nil {
			return fmt.Errorf("encoding details of %s: %w", e.ID, err)
		}
		details = sql.NullString{String: string(b), Valid: true}
	}

	success := 0
	if e.Success {
		success = 1
	}

	if _, err := r.db.ExecContext(ctx,
		"INSERT INTO audit_logs ("+columns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		e.ID, e.Action, e.Node, e.Mode, e.Attempt, success, details,
		e.CreatedAt.UTC().Format(timeLayout),
	); err != nil {
		return fmt.Errorf("recording %s entry: %w", e.Action, err)
	}
	return nil
}

// normalize clamps the paging fields into range.
func (f Filter) normalize() Filter {
	switch {
	case f.Limit <= 0:
		f.Limit = DefaultLimit
	case f.Limit > MaxLimit:
		f.Limit = MaxLimit
	}
	f.Offset = max(f.Offset, 0)
	return f
}

// where renders the filter as a WHERE clause and its arguments.
func (f Filter) where() (string, []any) {
	var (
		terms []string
		args  []any
	)
	add := func(term string, arg any) {
		terms = append(terms, term)
		args = append(args, arg)
	}

	if f.Action != "" {
		add("action = ?", f.Action)
	}
	if f.Node != "" {
		add("node = ?", f.Node)
	}
	if !f.Since.IsZero() {
		add("created_at >= ?", f.Since.UTC().Format(timeLayout))
	}
	if !f.Until.IsZero() {
		add("created_at < ?", f.Until.UTC().Format(timeLayout))
	}

	if len(terms) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(terms, " AND "), args
}

// List returns the page of entries matching f, newest first.
func (r *SQLiteRepository) List(ctx context.Context, f Filter) (*Page, error) {
	f = f.normalize()
	where, args := f.where()

	page := &Page{Entries: []Entry{}, Limit: f.Limit, Offset: f.Offset}
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM audit_logs"+where, args...).Scan(&page.Total); err != nil {
		return nil, fmt.Errorf("counting audit entries: %w", err)
	}
	if page.Total <= f.Offset {
		return page, nil
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT "+columns+" FROM audit_logs"+where+" ORDER BY created_at DESC, rowid DESC LIMIT ? OFFSET ?",
		append(args, f.Limit, f.Offset)...,
	)
	if err != nil {
		return nil, fmt.Errorf("listing audit entries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		page.Entries = append(page.Entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing audit entries: %w", err)
	}
	return page, nil
}

func scanEntry(rows *sql.Rows) (Entry, error) {
	var (
		e         Entry
		success   int
		details   sql.NullString
		createdAt string
	)
	if err := rows.Scan(&e.ID, &e.Action, &e.Node, &e.Mode, &e.Attempt, &success, &details, &createdAt); err != nil {
		return Entry{}, fmt.Errorf("scanning audit entry: %w", err)
	}
	e.Success = success != 0

	// A details column that no longer decodes is dropped, not fatal.
	if details.Valid {
		_ = json.Unmarshal([]byte(details.String), &e.Details) //nolint:errcheck // see above
	}

	t, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		return Entry{}, fmt.Errorf("audit entry %s: bad created_at %q: %w", e.ID, createdAt, err)
	}
	e.CreatedAt = t
	return e, nil
}
