// Package controller holds the stateful list controllers that sit between
// the resource modules and a rendering surface. A controller owns the
// Idle/Loading/Rendered/Error lifecycle for one list view and guarantees
// that only the newest fetch ever reaches the screen.
package controller

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/Likhith-Bhargav/talent-link/internal/api"
	"github.com/Likhith-Bhargav/talent-link/internal/models"
	"github.com/Likhith-Bhargav/talent-link/internal/store"
)

// State is the view lifecycle phase of a controller.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateRendered
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateRendered:
		return "rendered"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

const (
	msgNoConnection = "Unable to connect to the server. Please check your internet connection."
	msgLoadFailed   = "Something went wrong"
)

// Snapshot is an immutable view of a controller at one point in time.
// A Rendered snapshot with zero items is the "no results" state; a
// snapshot is never half-populated.
type Snapshot[T any] struct {
	State      State
	Items      []T
	Count      int
	Page       int
	TotalPages int
	Err        error
	Message    string
}

// FetchFunc loads one page of items for the given filters, returning the
// items plus the backend's total count.
type FetchFunc[T, F any] func(ctx context.Context, filters F, page int) ([]T, int, error)

// ListController drives one paginated list. Every trigger (Start,
// SetFilters, SetPage, Refresh, listings signal) issues exactly one fetch
// tagged with a monotonic sequence id; results carrying a stale id are
// discarded so a slow response can never overwrite a newer one.
type ListController[T, F any] struct {
	fetch    FetchFunc[T, F]
	pageSize int
	logger   *zap.Logger

	seq atomic.Uint64

	mu      sync.Mutex
	filters F
	page    int
	snap    Snapshot[T]
	subs    []chan Snapshot[T]
	ctx     context.Context
	cancel  context.CancelFunc
	stopped bool
}

func NewListController[T, F any](fetch FetchFunc[T, F], filters F, pageSize int, logger *zap.Logger) *ListController[T, F] {
	if pageSize <= 0 {
		pageSize = models.DefaultPageSize
	}
	return &ListController[T, F]{
		fetch:    fetch,
		pageSize: pageSize,
		logger:   logger,
		filters:  filters,
		page:     1,
		snap:     Snapshot[T]{State: StateIdle, Page: 1, TotalPages: 1},
	}
}

// Start mounts the controller and issues the initial fetch. The derived
// context governs every fetch the controller makes; Stop cancels it.
func (c *ListController[T, F]) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return models.ErrControllerDone
	}
	if c.cancel != nil {
		c.mu.Unlock()
		return nil
	}
	c.ctx, c.cancel = context.WithCancel(ctx)
	c.mu.Unlock()

	c.load()
	return nil
}

// SetFilters replaces the filter state and restarts from page one.
func (c *ListController[T, F]) SetFilters(filters F) error {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return models.ErrControllerDone
	}
	c.filters = filters
	c.page = 1
	c.mu.Unlock()

	c.load()
	return nil
}

// SetPage moves to the given page. Out-of-range pages are clamped by the
// snapshot's page count.
func (c *ListController[T, F]) SetPage(page int) error {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return models.ErrControllerDone
	}
	if page < 1 {
		page = 1
	}
	if c.snap.State == StateRendered && page > c.snap.TotalPages {
		page = c.snap.TotalPages
	}
	c.page = page
	c.mu.Unlock()

	c.load()
	return nil
}

// Refresh refetches the current page with the current filters.
func (c *ListController[T, F]) Refresh() error {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return models.ErrControllerDone
	}
	c.mu.Unlock()

	c.load()
	return nil
}

// ObserveSignal refreshes the controller whenever the listings-updated
// signal fires, until the controller stops.
func (c *ListController[T, F]) ObserveSignal(signal store.ListingsSignal) {
	c.mu.Lock()
	ctx := c.ctx
	c.mu.Unlock()
	if ctx == nil || signal == nil {
		return
	}

	ch := signal.Subscribe(ctx)
	go func() {
		for range ch {
			if err := c.Refresh(); err != nil {
				return
			}
		}
	}()
}

// Stop cancels in-flight fetches and freezes the controller. Responses
// arriving after Stop are dropped.
func (c *ListController[T, F]) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return
	}
	c.stopped = true
	if c.cancel != nil {
		c.cancel()
	}
	for _, ch := range c.subs {
		close(ch)
	}
	c.subs = nil
}

// Snapshot returns the current view state.
func (c *ListController[T, F]) Snapshot() Snapshot[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap
}

// Filters returns the current filter state.
func (c *ListController[T, F]) Filters() F {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filters
}

// Subscribe returns a channel receiving every snapshot transition and a
// cancel func releasing it. Slow receivers miss intermediate snapshots
// rather than blocking the controller.
func (c *ListController[T, F]) Subscribe() (<-chan Snapshot[T], func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ch := make(chan Snapshot[T], 16)
	c.subs = append(c.subs, ch)
	return ch, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		for i, sub := range c.subs {
			if sub == ch {
				c.subs = append(c.subs[:i], c.subs[i+1:]...)
				close(ch)
				return
			}
		}
	}
}

// load issues one fetch tagged with the next sequence id and transitions
// through Loading synchronously, so callers observe the Loading state
// before the response lands.
func (c *ListController[T, F]) load() {
	id := c.seq.Add(1)

	c.mu.Lock()
	if c.stopped || c.ctx == nil {
		c.mu.Unlock()
		return
	}
	ctx := c.ctx
	filters := c.filters
	page := c.page
	c.snap.State = StateLoading
	c.snap.Err = nil
	c.snap.Message = ""
	c.broadcastLocked()
	c.mu.Unlock()

	go func() {
		items, count, err := c.fetch(ctx, filters, page)
		c.complete(id, page, items, count, err)
	}()
}

func (c *ListController[T, F]) complete(id uint64, page int, items []T, count int, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return
	}
	if id != c.seq.Load() {
		if c.logger != nil {
			c.logger.Debug("discarding stale fetch result", zap.Uint64("id", id))
		}
		return
	}

	if err != nil {
		if c.ctx.Err() != nil {
			return
		}
		c.snap = Snapshot[T]{
			State:      StateError,
			Page:       page,
			TotalPages: c.snap.TotalPages,
			Err:        err,
			Message:    friendlyMessage(err),
		}
		c.broadcastLocked()
		return
	}

	if items == nil {
		items = []T{}
	}
	c.snap = Snapshot[T]{
		State:      StateRendered,
		Items:      items,
		Count:      count,
		Page:       page,
		TotalPages: TotalPages(count, c.pageSize),
	}
	c.broadcastLocked()
}

func (c *ListController[T, F]) broadcastLocked() {
	for _, ch := range c.subs {
		select {
		case ch <- c.snap:
		default:
		}
	}
}

// friendlyMessage maps an error onto the text a view shows next to the
// retry affordance.
func friendlyMessage(err error) string {
	if api.IsNetworkError(err) || api.IsTimeout(err) {
		return msgNoConnection
	}
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return msgLoadFailed
}
