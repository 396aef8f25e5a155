package translog

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// NewEntry builds an entry stamped with the trace and span ids of the span
// active in ctx. Without an active span both ids are empty.
func NewEntry(ctx context.Context, userID, orderKey, kind, from, to string, outcome Outcome, message string) *Entry {
	e := &Entry{
		UserID:     userID,
		OrderKey:   orderKey,
		Kind:       kind,
		FromStatus: from,
		ToStatus:   to,
		Outcome:    outcome,
		Message:    message,
		RecordedAt: time.Now().UTC(),
	}
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		e.TraceID = sc.TraceID().String()
		e.SpanID = sc.SpanID().String()
	}
	return e
}
