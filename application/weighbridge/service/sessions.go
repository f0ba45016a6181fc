package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"weighbridge/application/weighbridge/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Registry owns one ListController per client session. Sessions share the
// repository but never share controller state.
type Registry struct {
	repo   domain.Repository
	logger *zap.Logger

	mu       sync.RWMutex
	sessions map[string]*ListController
}

// NewRegistry creates an empty session registry
func NewRegistry(repo domain.Repository, logger *zap.Logger) *Registry {
	return &Registry{
		repo:     repo,
		logger:   logger,
		sessions: make(map[string]*ListController),
	}
}

// Open starts a new session and returns its id and controller
func (r *Registry) Open() (string, *ListController) {
	id := uuid.New().String()
	ctrl := NewListController(r.repo, r.logger.With(zap.String("session_id", id)))

	r.mu.Lock()
	r.sessions[id] = ctrl
	r.mu.Unlock()

	return id, ctrl
}

// Get returns the controller for a session
func (r *Registry) Get(id string) (*ListController, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ctrl, ok := r.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
	}
	return ctrl, nil
}

// Close ends a session
func (r *Registry) Close(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
	}
	delete(r.sessions, id)
	return nil
}

// Len reports the number of open sessions
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// RefreshAll reloads every session that has loaded at least once and
// re-applies its last filter. Sessions still waiting for their first load are
// left alone.
func (r *Registry) RefreshAll(ctx context.Context) error {
	r.mu.RLock()
	targets := make([]*ListController, 0, len(r.sessions))
	for _, ctrl := range r.sessions {
		if ctrl.Loaded() {
			targets = append(targets, ctrl)
		}
	}
	r.mu.RUnlock()

	var errs []error
	for _, ctrl := range targets {
		if err := ctrl.Refresh(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// HandleTicketSaved refreshes sessions after a write
func (r *Registry) HandleTicketSaved(ctx context.Context, event domain.TicketSaved) error {
	r.logger.Debug("refreshing list sessions",
		zap.Int64("ticket_id", event.TicketID),
		zap.String("operation", event.Operation),
	)
	return r.RefreshAll(ctx)
}
