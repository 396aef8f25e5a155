// Package sqlite stores the transition log in SQLite through the pure-Go
// modernc driver, so the binary builds without CGO.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jcmexdev/printhub/internal/dashboard/translog"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS status_transitions (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id      TEXT NOT NULL,
    order_key    TEXT NOT NULL,
    kind         TEXT NOT NULL DEFAULT '',
    from_status  TEXT NOT NULL DEFAULT '',
    to_status    TEXT NOT NULL,
    outcome      TEXT NOT NULL,
    message      TEXT,
    trace_id     TEXT NOT NULL DEFAULT '',
    span_id      TEXT NOT NULL DEFAULT '',
    recorded_at  TEXT NOT NULL
);

-- order keys are only unique per user
CREATE INDEX IF NOT EXISTS idx_status_transitions_order ON status_transitions(user_id, order_key, recorded_at);
CREATE INDEX IF NOT EXISTS idx_status_transitions_trace ON status_transitions(trace_id);
`

// fixed width so TEXT ordering matches time ordering
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Repository implements translog.Repository and translog.Reader.
type Repository struct {
	db *sql.DB
}

var (
	_ translog.Repository = (*Repository)(nil)
	_ translog.Reader     = (*Repository)(nil)
)

// Open opens or creates the database at path and applies the schema.
//
//	repo, err := sqlite.Open("./data/transitions.db")
func Open(path string) (*Repository, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}
	// single writer
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: apply schema: %w", err)
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

// Save appends one entry.
func (r *Repository) Save(ctx context.Context, e *translog.Entry) error {
	const q = `
		INSERT INTO status_transitions
			(user_id, order_key, kind, from_status, to_status, outcome, message, trace_id, span_id, recorded_at)
		VALUES
			(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, q,
		e.UserID,
		e.OrderKey,
		e.Kind,
		e.FromStatus,
		e.ToStatus,
		string(e.Outcome),
		nullableString(e.Message),
		e.TraceID,
		e.SpanID,
		e.RecordedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("sqlite: save transition for %s/%s: %w", e.UserID, e.OrderKey, err)
	}
	return nil
}

// History returns every entry of one order, oldest first.
func (r *Repository) History(ctx context.Context, userID, orderKey string) ([]translog.Entry, error) {
	const q = `
		SELECT user_id, order_key, kind, from_status, to_status, outcome,
		       COALESCE(message, ''), trace_id, span_id, recorded_at
		FROM   status_transitions
		WHERE  user_id = ? AND order_key = ?
		ORDER  BY recorded_at ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, q, userID, orderKey)
	if err != nil {
		return nil, fmt.Errorf("sqlite: history for %s/%s: %w", userID, orderKey, err)
	}
	defer rows.Close()

	var out []translog.Entry
	for rows.Next() {
		var (
			e          translog.Entry
			outcome    string
			recordedAt string
		)
		if err := rows.Scan(&e.UserID, &e.OrderKey, &e.Kind, &e.FromStatus, &e.ToStatus,
			&outcome, &e.Message, &e.TraceID, &e.SpanID, &recordedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scan transition: %w", err)
		}
		e.Outcome = translog.Outcome(outcome)
		if e.RecordedAt, err = parseTime(recordedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterate transitions: %w", err)
	}
	return out, nil
}

// nullableString stores NULL instead of an empty TEXT.
func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
