package service

import (
	"context"
	"sync"
	"time"
	"weighbridge/application/weighbridge/domain"

	"go.uber.org/zap"
)

// ListState is the view state published by a ListController
type ListState = domain.ViewState[[]domain.Ticket]

// ListController holds the most recently loaded ticket snapshot for one client
// session and publishes filtered views of it.
//
// Loads are serialized; a filter always reads the latest completed snapshot.
// Snapshots and states are replaced wholesale, never mutated.
type ListController struct {
	repo   domain.Repository
	logger *zap.Logger

	loadMu sync.Mutex // one load in flight

	mu          sync.RWMutex
	fullList    []domain.Ticket
	loaded      bool
	state       ListState
	filter      domain.FilterPayload
	filterSet   bool
	subscribers map[int]func(ListState)
	nextSubID   int
}

// NewListController creates a controller in the Loading state
func NewListController(repo domain.Repository, logger *zap.Logger) *ListController {
	return &ListController{
		repo:        repo,
		logger:      logger,
		state:       domain.Loading[[]domain.Ticket](),
		subscribers: make(map[int]func(ListState)),
	}
}

// Load fetches every ticket, stores the snapshot and publishes Ready with it.
// On failure it publishes Failed and keeps the previous snapshot.
func (c *ListController) Load(ctx context.Context) error {
	return c.load(ctx, false)
}

// SetFilter publishes the snapshot reordered and filtered by query/ascending.
// The view is computed under the snapshot lock.
func (c *ListController) SetFilter(query string, ascending bool) ListState {
	c.mu.Lock()
	c.filter = domain.FilterPayload{Query: query, Ascending: ascending}
	c.filterSet = true
	state := domain.Ready(FilterTickets(c.fullList, query, ascending))
	c.state = state
	subs := c.subscribersLocked()
	c.mu.Unlock()

	notify(subs, state)
	return state
}

// Refresh reloads and, if a filter was set earlier, publishes the new snapshot
// already filtered. Subscribers never see the unfiltered reload.
func (c *ListController) Refresh(ctx context.Context) error {
	return c.load(ctx, true)
}

func (c *ListController) load(ctx context.Context, keepFilter bool) error {
	c.loadMu.Lock()
	defer c.loadMu.Unlock()

	start := time.Now()
	tickets, err := c.repo.GetAll(ctx)
	if err != nil {
		c.logger.Error("ticket list load failed",
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		c.publish(domain.Failed[[]domain.Ticket](err))
		return err
	}

	c.logger.Debug("ticket list loaded",
		zap.Int("count", len(tickets)),
		zap.Duration("duration", time.Since(start)),
		zap.Bool("keep_filter", keepFilter),
	)
	c.publishSnapshot(tickets, keepFilter)
	return nil
}

// State returns the latest published state
func (c *ListController) State() ListState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Loaded reports whether a load has ever completed
func (c *ListController) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// Snapshot returns a copy of the ticket list from the last completed load
func (c *ListController) Snapshot() []domain.Ticket {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]domain.Ticket(nil), c.fullList...)
}

// Subscribe registers fn to receive every published state, starting with the
// current one. The returned func removes the subscription.
func (c *ListController) Subscribe(fn func(ListState)) func() {
	c.mu.Lock()
	id := c.nextSubID
	c.nextSubID++
	c.subscribers[id] = fn
	current := c.state
	c.mu.Unlock()

	fn(current)

	return func() {
		c.mu.Lock()
		delete(c.subscribers, id)
		c.mu.Unlock()
	}
}

// publishSnapshot replaces the snapshot and publishes it, filtered by the last
// filter when keepFilter is set. Published data never aliases the snapshot.
func (c *ListController) publishSnapshot(tickets []domain.Ticket, keepFilter bool) {
	c.mu.Lock()
	c.fullList = tickets
	c.loaded = true
	var state ListState
	if keepFilter && c.filterSet {
		state = domain.Ready(FilterTickets(tickets, c.filter.Query, c.filter.Ascending))
	} else {
		state = domain.Ready(FilterTickets(tickets, "", false))
	}
	c.state = state
	subs := c.subscribersLocked()
	c.mu.Unlock()

	notify(subs, state)
}

// publish swaps in a new state then notifies subscribers outside the lock
func (c *ListController) publish(state ListState) {
	c.mu.Lock()
	c.state = state
	subs := c.subscribersLocked()
	c.mu.Unlock()

	notify(subs, state)
}

func (c *ListController) subscribersLocked() []func(ListState) {
	subs := make([]func(ListState), 0, len(c.subscribers))
	for _, fn := range c.subscribers {
		subs = append(subs, fn)
	}
	return subs
}

func notify(subs []func(ListState), state ListState) {
	for _, fn := range subs {
		fn(state)
	}
}
