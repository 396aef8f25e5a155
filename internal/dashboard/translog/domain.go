// Package translog defines the audit trail of order status transitions.
//
// Every call to the transition controller leaves rows here: one when the
// update is issued and one for its outcome. Rows carry the OTel trace id
// of the request so a row can be joined with the distributed trace.
package translog

import "time"

// Outcome is the lifecycle point a log entry records.
type Outcome string

const (
	OutcomeStarted Outcome = "STARTED"
	OutcomeApplied Outcome = "APPLIED"
	OutcomeFailed  Outcome = "FAILED"
	OutcomeBusy    Outcome = "BUSY"
)

// Entry is a single row of the transition log.
type Entry struct {
	UserID   string
	OrderKey string
	Kind     string

	// FromStatus is the status held in memory when the request arrived.
	FromStatus string
	ToStatus   string

	Outcome Outcome

	// Message carries the backend failure reason for FAILED rows.
	Message string

	TraceID string
	SpanID  string

	RecordedAt time.Time
}
