// Package transition drives per-order status changes and keeps at most one
// update in flight per order.
package transition

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jcmexdev/printhub/internal/dashboard/core/domain/entity"
	"github.com/jcmexdev/printhub/internal/dashboard/core/normalizer"
	"github.com/jcmexdev/printhub/internal/dashboard/translog"
)

const fallbackMessage = "failed to update order status"

// Updater persists a status change for one user's order.
type Updater interface {
	UpdateOrderStatus(ctx context.Context, userID, orderKey string, status entity.Status) (entity.StatusUpdate, error)
}

// Records is the in-memory collection the controller reads and patches.
type Records interface {
	Find(userID, orderKey string) (entity.OrderRecord, bool)
	Patch(userID, orderKey string, status entity.Status, updatedAt time.Time) bool
}

// Recorder counts outcomes. *metrics.Metrics satisfies it.
type Recorder interface {
	ObserveTransition(outcome string)
}

// Controller validates and issues status transitions.
type Controller struct {
	updater Updater
	records Records
	log     translog.Repository // nil-safe
	metrics Recorder            // nil-safe
	now     func() time.Time

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// Option customises a Controller.
type Option func(*Controller)

func WithLog(repo translog.Repository) Option {
	return func(c *Controller) { c.log = repo }
}

func WithRecorder(r Recorder) Option {
	return func(c *Controller) { c.metrics = r }
}

func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

func NewController(updater Updater, records Records, opts ...Option) *Controller {
	c := &Controller{
		updater:  updater,
		records:  records,
		now:      func() time.Time { return time.Now().UTC() },
		inFlight: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Order keys are only unique within a user, so the guard is scoped by both.
func flightKey(userID, orderKey string) string {
	return userID + "\x00" + orderKey
}

func (c *Controller) acquire(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, busy := c.inFlight[key]; busy {
		return false
	}
	c.inFlight[key] = struct{}{}
	return true
}

func (c *Controller) release(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.inFlight, key)
}

// InFlight reports whether an update for the order is outstanding.
func (c *Controller) InFlight(userID, orderKey string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.inFlight[flightKey(userID, orderKey)]
	return ok
}

// RequestTransition asks the backend to move the order to next and patches
// the in-memory record with what the backend returns.
//
// A second request for an order whose update is still outstanding returns
// ErrBusy without calling the backend. Requesting the current status is
// allowed. On failure the record is left unchanged and the returned error
// wraps ErrTransitionFailed with the backend's message.
func (c *Controller) RequestTransition(ctx context.Context, orderKey, userID string, next entity.Status) (entity.OrderRecord, error) {
	key := flightKey(userID, orderKey)
	if !c.acquire(key) {
		c.audit(ctx, translog.NewEntry(ctx, userID, orderKey, "", "", string(next), translog.OutcomeBusy, ""))
		slog.DebugContext(ctx, "status update already in flight", "user_id", userID, "order_key", orderKey)
		return entity.OrderRecord{}, entity.ErrBusy
	}
	defer c.release(key)

	rec, ok := c.records.Find(userID, orderKey)
	if !ok {
		return entity.OrderRecord{}, fmt.Errorf("%w: %s/%s", entity.ErrOrderNotFound, userID, orderKey)
	}
	if !next.ValidFor(rec.Kind) {
		return entity.OrderRecord{}, fmt.Errorf("%w: %q is not a %s order status", entity.ErrInvalidStatus, next, rec.Kind)
	}

	// An issued update runs to completion, and is audited, even if the caller
	// goes away.
	ctx = context.WithoutCancel(ctx)

	kind, from := string(rec.Kind), string(rec.Status)
	c.audit(ctx, translog.NewEntry(ctx, userID, orderKey, kind, from, string(next), translog.OutcomeStarted, ""))

	upd, err := c.updater.UpdateOrderStatus(ctx, userID, orderKey, next)
	if err != nil {
		msg := failureMessage(err)
		c.audit(ctx, translog.NewEntry(ctx, userID, orderKey, kind, from, string(next), translog.OutcomeFailed, msg))
		slog.WarnContext(ctx, "status update rejected", "user_id", userID, "order_key", orderKey, "status", next, "error", err)
		return entity.OrderRecord{}, fmt.Errorf("%w: %s", entity.ErrTransitionFailed, msg)
	}

	status := upd.Status
	if !status.ValidFor(rec.Kind) {
		status = next
	}
	updatedAt := normalizer.ParseTime(upd.UpdatedAt)
	if updatedAt.IsZero() {
		updatedAt = c.now()
	}
	c.records.Patch(userID, orderKey, status, updatedAt)

	c.audit(ctx, translog.NewEntry(ctx, userID, orderKey, kind, from, string(status), translog.OutcomeApplied, ""))
	slog.InfoContext(ctx, "order status updated", "user_id", userID, "order_key", orderKey, "from", from, "to", status)

	rec.Status = status
	rec.UpdatedAt = updatedAt
	return rec, nil
}

func (c *Controller) audit(ctx context.Context, e *translog.Entry) {
	if c.metrics != nil {
		c.metrics.ObserveTransition(string(e.Outcome))
	}
	if c.log == nil {
		return
	}
	if err := c.log.Save(ctx, e); err != nil {
		slog.ErrorContext(ctx, "failed to write transition log", "order_key", e.OrderKey, "error", err)
	}
}

func failureMessage(err error) string {
	var be *entity.BackendError
	if errors.As(err, &be) && be.Message != "" {
		return be.Message
	}
	return fallbackMessage
}
