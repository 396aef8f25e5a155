package translog

import "context"

// Repository persists transition log entries. The table is append-only.
type Repository interface {
	Save(ctx context.Context, entry *Entry) error
}

// Reader lists the history of one order, oldest first.
type Reader interface {
	History(ctx context.Context, userID, orderKey string) ([]Entry, error)
}
