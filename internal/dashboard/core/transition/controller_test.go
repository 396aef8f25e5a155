package transition

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/printhub/internal/dashboard/core/aggregator"
	"github.com/jcmexdev/printhub/internal/dashboard/core/domain/entity"
	"github.com/jcmexdev/printhub/internal/dashboard/translog"
)

type fakeUpdater struct {
	calls   atomic.Int32
	release chan struct{} // when set, calls block until closed
	entered chan struct{}
	result  entity.StatusUpdate
	err     error
	panics  bool
	ctxErr  error // ctx.Err() observed once the call is released
}

func (f *fakeUpdater) UpdateOrderStatus(ctx context.Context, userID, orderKey string, status entity.Status) (entity.StatusUpdate, error) {
	f.calls.Add(1)
	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.release != nil {
		<-f.release
	}
	f.ctxErr = ctx.Err()
	if f.panics {
		panic("transport exploded")
	}
	if f.err != nil {
		return entity.StatusUpdate{}, f.err
	}
	res := f.result
	if res.Status == "" {
		res.Status = status
	}
	return res, nil
}

type memLog struct {
	mu      sync.Mutex
	entries []translog.Entry
}

func (m *memLog) Save(_ context.Context, e *translog.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, *e)
	return nil
}

func (m *memLog) outcomes() []translog.Outcome {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]translog.Outcome, len(m.entries))
	for i, e := range m.entries {
		out[i] = e.Outcome
	}
	return out
}

type countingRecorder struct {
	mu     sync.Mutex
	counts map[string]int
}

func (r *countingRecorder) ObserveTransition(outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.counts == nil {
		r.counts = map[string]int{}
	}
	r.counts[outcome]++
}

func collection() *aggregator.Collection {
	return aggregator.Merge([]entity.UserDocument{{
		Key: "u1",
		Orders: map[string]entity.CustomOrderDocument{
			"c1": {Status: "pending", TotalPrice: entity.NewAmount(decimal.NewFromInt(500))},
		},
		StoreOrders: map[string]entity.StoreOrderDocument{
			"s1": {Status: "paid"},
		},
	}})
}

func TestRequestTransition_AppliesBackendResult(t *testing.T) {
	records := collection()
	up := &fakeUpdater{result: entity.StatusUpdate{OrderID: "c1", Status: entity.StatusPrinting, UpdatedAt: "2026-06-01T08:00:00Z"}}
	log := &memLog{}
	c := NewController(up, records, WithLog(log))

	rec, err := c.RequestTransition(context.Background(), "c1", "u1", entity.StatusPrinting)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPrinting, rec.Status)
	assert.Equal(t, time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC), rec.UpdatedAt)

	stored, _ := records.Find("u1", "c1")
	assert.Equal(t, entity.StatusPrinting, stored.Status)
	assert.Equal(t, int32(1), up.calls.Load())
	assert.Equal(t, []translog.Outcome{translog.OutcomeStarted, translog.OutcomeApplied}, log.outcomes())
	assert.False(t, c.InFlight("u1", "c1"))
}

func TestRequestTransition_SameStatusIsAllowed(t *testing.T) {
	up := &fakeUpdater{}
	c := NewController(up, collection())

	_, err := c.RequestTransition(context.Background(), "c1", "u1", entity.StatusPending)
	require.NoError(t, err)
	assert.Equal(t, int32(1), up.calls.Load())
}

func TestRequestTransition_MissingUpdatedAtUsesClock(t *testing.T) {
	fixed := time.Date(2026, 7, 7, 7, 7, 7, 0, time.UTC)
	c := NewController(&fakeUpdater{}, collection(), WithClock(func() time.Time { return fixed }))

	rec, err := c.RequestTransition(context.Background(), "s1", "u1", entity.StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, fixed, rec.UpdatedAt)
}

func TestRequestTransition_CallerCancelDoesNotAbortUpdate(t *testing.T) {
	records := collection()
	up := &fakeUpdater{release: make(chan struct{}), entered: make(chan struct{}, 1)}
	c := NewController(up, records)

	ctx, cancel := context.WithCancel(context.Background())
	type result struct {
		rec entity.OrderRecord
		err error
	}
	done := make(chan result, 1)
	go func() {
		rec, err := c.RequestTransition(ctx, "c1", "u1", entity.StatusPrinting)
		done <- result{rec, err}
	}()

	<-up.entered
	cancel()
	close(up.release)
	res := <-done

	require.NoError(t, res.err)
	assert.NoError(t, up.ctxErr)
	assert.Equal(t, entity.StatusPrinting, res.rec.Status)
	stored, _ := records.Find("u1", "c1")
	assert.Equal(t, entity.StatusPrinting, stored.Status)
}

func TestRequestTransition_DuplicateWhileInFlight(t *testing.T) {
	up := &fakeUpdater{release: make(chan struct{}), entered: make(chan struct{}, 1)}
	rec := &countingRecorder{}
	c := NewController(up, collection(), WithRecorder(rec))

	done := make(chan error, 1)
	go func() {
		_, err := c.RequestTransition(context.Background(), "c1", "u1", entity.StatusShipped)
		done <- err
	}()
	<-up.entered
	require.True(t, c.InFlight("u1", "c1"))

	_, err := c.RequestTransition(context.Background(), "c1", "u1", entity.StatusCancelled)
	assert.ErrorIs(t, err, entity.ErrBusy)

	// a different order is not blocked
	up2 := &fakeUpdater{}
	c2 := NewController(up2, collection())
	_, err = c2.RequestTransition(context.Background(), "s1", "u1", entity.StatusCompleted)
	require.NoError(t, err)

	close(up.release)
	require.NoError(t, <-done)
	assert.Equal(t, int32(1), up.calls.Load(), "only one backend call for the same order")
	assert.Equal(t, 1, rec.counts[string(translog.OutcomeBusy)])
	assert.False(t, c.InFlight("u1", "c1"))
}

func TestRequestTransition_FailureLeavesRecordUnchanged(t *testing.T) {
	records := collection()
	log := &memLog{}
	up := &fakeUpdater{err: &entity.BackendError{Op: "UpdateOrderStatus", Message: "order locked by warehouse"}}
	c := NewController(up, records, WithLog(log))

	_, err := c.RequestTransition(context.Background(), "c1", "u1", entity.StatusShipped)
	require.ErrorIs(t, err, entity.ErrTransitionFailed)
	assert.Contains(t, err.Error(), "order locked by warehouse")

	stored, _ := records.Find("u1", "c1")
	assert.Equal(t, entity.StatusPending, stored.Status)
	assert.False(t, c.InFlight("u1", "c1"))
	assert.Equal(t, []translog.Outcome{translog.OutcomeStarted, translog.OutcomeFailed}, log.outcomes())

	// retry is possible once the key is released
	up.err = nil
	_, err = c.RequestTransition(context.Background(), "c1", "u1", entity.StatusShipped)
	require.NoError(t, err)
}

func TestRequestTransition_GenericFailureMessage(t *testing.T) {
	c := NewController(&fakeUpdater{err: errors.New("dial tcp: refused")}, collection())

	_, err := c.RequestTransition(context.Background(), "c1", "u1", entity.StatusShipped)
	require.ErrorIs(t, err, entity.ErrTransitionFailed)
	assert.Contains(t, err.Error(), fallbackMessage)
}

func TestRequestTransition_ReleasesOnPanic(t *testing.T) {
	c := NewController(&fakeUpdater{panics: true}, collection())

	assert.Panics(t, func() {
		_, _ = c.RequestTransition(context.Background(), "c1", "u1", entity.StatusShipped)
	})
	assert.False(t, c.InFlight("u1", "c1"))
}

func TestRequestTransition_Validation(t *testing.T) {
	up := &fakeUpdater{}
	c := NewController(up, collection())

	_, err := c.RequestTransition(context.Background(), "nope", "u1", entity.StatusShipped)
	assert.ErrorIs(t, err, entity.ErrOrderNotFound)

	_, err = c.RequestTransition(context.Background(), "s1", "u1", entity.StatusPrinting)
	assert.ErrorIs(t, err, entity.ErrInvalidStatus, "printing is not a store status")

	_, err = c.RequestTransition(context.Background(), "c1", "u1", entity.StatusPaid)
	assert.ErrorIs(t, err, entity.ErrInvalidStatus, "paid is not a custom status")

	assert.Zero(t, up.calls.Load())
	assert.False(t, c.InFlight("u1", "nope"))
}
