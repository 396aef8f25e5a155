// Package app holds the session state of the dashboard and the carts and
// wires the core stages to the store backend.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jcmexdev/printhub/internal/dashboard/core/aggregator"
	"github.com/jcmexdev/printhub/internal/dashboard/core/domain/entity"
	"github.com/jcmexdev/printhub/internal/dashboard/core/pipeline"
	"github.com/jcmexdev/printhub/internal/dashboard/core/ports"
	"github.com/jcmexdev/printhub/internal/dashboard/core/revenue"
	"github.com/jcmexdev/printhub/internal/dashboard/core/transition"
	"github.com/jcmexdev/printhub/internal/dashboard/translog"
	"github.com/jcmexdev/printhub/internal/pkg/metrics"
)

// Dashboard is one operator session: the merged collection of the last
// successful refresh, the current view, and the transition controller.
type Dashboard struct {
	backend ports.StoreBackend
	metrics *metrics.Metrics
	history translog.Reader // nil-safe

	mu         sync.RWMutex
	collection *aggregator.Collection
	loadErr    error
	loaded     bool
	refreshed  time.Time
	view       *pipeline.View

	controller *transition.Controller
}

type DashboardOption func(*dashboardOptions)

type dashboardOptions struct {
	log     translog.Repository
	history translog.Reader
	metrics *metrics.Metrics
}

// WithTransitionLog records every transition attempt in repo.
func WithTransitionLog(repo translog.Repository) DashboardOption {
	return func(o *dashboardOptions) { o.log = repo }
}

// WithHistory enables History lookups.
func WithHistory(r translog.Reader) DashboardOption {
	return func(o *dashboardOptions) { o.history = r }
}

func WithMetrics(m *metrics.Metrics) DashboardOption {
	return func(o *dashboardOptions) { o.metrics = m }
}

func NewDashboard(backend ports.StoreBackend, opts ...DashboardOption) *Dashboard {
	var o dashboardOptions
	for _, opt := range opts {
		opt(&o)
	}
	d := &Dashboard{
		backend: backend,
		metrics: o.metrics,
		history: o.history,
		view:    pipeline.NewView(),
	}

	ctrlOpts := []transition.Option{transition.WithRecorder(o.metrics)}
	if o.log != nil {
		ctrlOpts = append(ctrlOpts, transition.WithLog(o.log))
	}
	d.controller = transition.NewController(backend, (*sessionRecords)(d), ctrlOpts...)
	return d
}

// RefreshResult describes the collection after a refresh.
type RefreshResult struct {
	Orders      int
	Custom      int
	Store       int
	Skipped     int
	RefreshedAt time.Time
}

// Refresh refetches every user and rebuilds the merged collection. On
// failure the session enters a blocking error state until the next
// successful refresh.
func (d *Dashboard) Refresh(ctx context.Context) (RefreshResult, error) {
	users, err := d.backend.FetchAllUsers(ctx)
	if err != nil {
		d.metrics.ObserveRefresh(false)
		d.mu.Lock()
		d.loadErr = fmt.Errorf("%w: %v", entity.ErrSourceUnavailable, err)
		d.collection = nil
		d.mu.Unlock()
		slog.ErrorContext(ctx, "order source refresh failed", "error", err)
		return RefreshResult{}, d.loadErr
	}

	c := aggregator.Merge(users)
	res := RefreshResult{Orders: c.Len(), Skipped: c.Skipped(), RefreshedAt: time.Now().UTC()}
	for _, r := range c.Records() {
		switch r.Kind {
		case entity.KindCustom:
			res.Custom++
		case entity.KindStore:
			res.Store++
		}
	}

	d.mu.Lock()
	d.collection = c
	d.loadErr = nil
	d.loaded = true
	d.refreshed = res.RefreshedAt
	d.mu.Unlock()

	d.metrics.ObserveRefresh(true)
	d.metrics.SetOrders(string(entity.KindCustom), res.Custom)
	d.metrics.SetOrders(string(entity.KindStore), res.Store)
	slog.InfoContext(ctx, "order source refreshed", "orders", res.Orders, "skipped_users", res.Skipped)
	return res, nil
}

// ensureLoaded refreshes once on first use. Callers must not hold d.mu.
func (d *Dashboard) ensureLoaded(ctx context.Context) error {
	d.mu.RLock()
	loaded, err := d.loaded, d.loadErr
	d.mu.RUnlock()
	if err != nil {
		return err
	}
	if loaded {
		return nil
	}
	_, err = d.Refresh(ctx)
	return err
}

// Orders applies p to the session view and evaluates it. Changing any
// parameter resets the page to 1.
func (d *Dashboard) Orders(ctx context.Context, p pipeline.Params) (pipeline.Result, error) {
	if err := d.ensureLoaded(ctx); err != nil {
		return pipeline.Result{}, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.loadErr != nil {
		return pipeline.Result{}, d.loadErr
	}
	d.view.Apply(p)
	return d.view.Run(d.collection.Records()), nil
}

// LoadMore grows the visible window by one page.
func (d *Dashboard) LoadMore(ctx context.Context) (pipeline.Result, error) {
	if err := d.ensureLoaded(ctx); err != nil {
		return pipeline.Result{}, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.loadErr != nil {
		return pipeline.Result{}, d.loadErr
	}
	d.view.LoadMore()
	return d.view.Run(d.collection.Records()), nil
}

// Summary reduces the whole merged collection.
func (d *Dashboard) Summary(ctx context.Context) (revenue.Summary, error) {
	if err := d.ensureLoaded(ctx); err != nil {
		return revenue.Summary{}, err
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.loadErr != nil {
		return revenue.Summary{}, d.loadErr
	}
	return revenue.Summarize(d.collection.Records()), nil
}

// Order returns one merged record.
func (d *Dashboard) Order(ctx context.Context, userID, orderKey string) (entity.OrderRecord, error) {
	if err := d.ensureLoaded(ctx); err != nil {
		return entity.OrderRecord{}, err
	}
	rec, ok := (*sessionRecords)(d).Find(userID, orderKey)
	if !ok {
		return entity.OrderRecord{}, fmt.Errorf("%w: %s/%s", entity.ErrOrderNotFound, userID, orderKey)
	}
	return rec, nil
}

// UpdateStatus requests a status transition for one order.
func (d *Dashboard) UpdateStatus(ctx context.Context, userID, orderKey string, status entity.Status) (entity.OrderRecord, error) {
	if err := d.ensureLoaded(ctx); err != nil {
		return entity.OrderRecord{}, err
	}
	return d.controller.RequestTransition(ctx, orderKey, userID, status)
}

// History returns the transition log of one order.
func (d *Dashboard) History(ctx context.Context, userID, orderKey string) ([]translog.Entry, error) {
	if d.history == nil {
		return nil, nil
	}
	return d.history.History(ctx, userID, orderKey)
}

// sessionRecords adapts the session collection to transition.Records
// under the session lock.
type sessionRecords Dashboard

func (s *sessionRecords) Find(userID, orderKey string) (entity.OrderRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collection.Find(userID, orderKey)
}

func (s *sessionRecords) Patch(userID, orderKey string, status entity.Status, updatedAt time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.collection.Patch(userID, orderKey, status, updatedAt)
}
