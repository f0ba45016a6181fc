package service

import (
	"context"
	"fmt"
	"sync"
	"time"
	"weighbridge/application/weighbridge/domain"

	"go.uber.org/zap"
)

// EditorState is the view state published by an EditorController
type EditorState = domain.ViewState[domain.Ticket]

// EditorController backs the create/edit screen: it loads one ticket and
// saves the edited value back, dispatching to add or update by id.
type EditorController struct {
	repo      domain.Repository
	publisher domain.Publisher
	logger    *zap.Logger
	now       func() time.Time

	mu    sync.RWMutex
	state EditorState
}

// NewEditorController creates an editor in the Loading state.
// publisher may be nil when nobody listens for saves.
func NewEditorController(repo domain.Repository, publisher domain.Publisher, logger *zap.Logger) *EditorController {
	return &EditorController{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
		state:     domain.Loading[domain.Ticket](),
	}
}

// Open loads the ticket to edit. Unknown ids yield the default ticket.
func (e *EditorController) Open(ctx context.Context, id int64) EditorState {
	ticket, err := e.repo.FindByID(ctx, id)
	if err != nil {
		e.logger.Error("ticket lookup failed", zap.Int64("ticket_id", id), zap.Error(err))
		return e.set(domain.Failed[domain.Ticket](err))
	}
	return e.set(domain.Ready(ticket))
}

// Save updates tickets with a positive id and adds all others. The saved
// ticket is returned; adds carry the newly assigned id.
func (e *EditorController) Save(ctx context.Context, ticket domain.Ticket) (domain.Ticket, error) {
	operation := domain.OperationCreated
	saved := ticket

	var err error
	if ticket.IsNew() {
		saved, err = e.repo.Add(ctx, ticket)
	} else {
		operation = domain.OperationUpdated
		err = e.repo.Update(ctx, ticket)
	}
	if err != nil {
		e.logger.Error("ticket save failed",
			zap.String("operation", operation),
			zap.Int64("ticket_id", ticket.ID),
			zap.Error(err),
		)
		e.set(domain.Failed[domain.Ticket](err))
		return domain.Ticket{}, fmt.Errorf("failed to save ticket: %w", err)
	}

	e.logger.Info("ticket saved",
		zap.String("operation", operation),
		zap.Int64("ticket_id", saved.ID),
		zap.String("license_number", saved.LicenseNumber),
		zap.Int64("net_weight", saved.NetWeight()),
	)
	e.set(domain.Ready(saved))

	if e.publisher != nil {
		event := domain.TicketSaved{TicketID: saved.ID, Operation: operation, SavedAt: e.now().UnixMilli()}
		if err := e.publisher.PublishTicketSaved(ctx, event); err != nil {
			// the write already happened; listeners just miss this refresh
			e.logger.Warn("ticket saved event not published", zap.Int64("ticket_id", saved.ID), zap.Error(err))
		}
	}

	return saved, nil
}

// State returns the latest published state
func (e *EditorController) State() EditorState {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state
}

func (e *EditorController) set(state EditorState) EditorState {
	e.mu.Lock()
	e.state = state
	e.mu.Unlock()
	return state
}
