package service

import (
	"context"
	"fmt"
	"time"
	"weighbridge/application/weighbridge/domain"
	"weighbridge/internal/stream"
	"weighbridge/middleware"

	"go.uber.org/zap"
)

// Service is the presentation boundary used by the HTTP handler
type Service struct {
	repo      domain.Repository
	validator domain.Validator
	publisher domain.Publisher
	sessions  *Registry
	exporter  stream.Streamer[domain.Ticket]
	logger    *zap.Logger
	now       func() time.Time
}

// NewService wires the controllers over a repository. publisher may be nil.
func NewService(repo domain.Repository, publisher domain.Publisher, logger *zap.Logger) *Service {
	return &Service{
		repo:      repo,
		validator: domain.NewValidator(),
		publisher: publisher,
		sessions:  NewRegistry(repo, logger),
		exporter:  stream.NewDefaultStreamer[domain.Ticket](),
		logger:    logger,
		now:       time.Now,
	}
}

// Sessions exposes the list session registry
func (s *Service) Sessions() *Registry {
	return s.sessions
}

// OpenSession starts a list session in the Loading state
func (s *Service) OpenSession() (string, ListState) {
	id, ctrl := s.sessions.Open()
	return id, ctrl.State()
}

// SessionState returns the latest state of a session
func (s *Service) SessionState(id string) (ListState, error) {
	ctrl, err := s.sessions.Get(id)
	if err != nil {
		return ListState{}, err
	}
	return ctrl.State(), nil
}

// LoadSession loads the session's ticket list. A storage failure is returned
// and also published as the session's Failed state.
func (s *Service) LoadSession(ctx context.Context, id string) (ListState, error) {
	ctrl, err := s.sessions.Get(id)
	if err != nil {
		return ListState{}, err
	}
	err = ctrl.Load(ctx)
	return ctrl.State(), err
}

// FilterSession applies a search/sort to the session's last loaded list
func (s *Service) FilterSession(id string, payload *domain.FilterPayload) (ListState, error) {
	if err := s.validator.ValidateFilter(payload); err != nil {
		return ListState{}, err
	}
	ctrl, err := s.sessions.Get(id)
	if err != nil {
		return ListState{}, err
	}
	return ctrl.SetFilter(payload.Query, payload.Ascending), nil
}

// CloseSession ends a session
func (s *Service) CloseSession(id string) error {
	return s.sessions.Close(id)
}

// OpenTicket returns the editor state for a ticket id
func (s *Service) OpenTicket(ctx context.Context, id int64) EditorState {
	return s.newEditor().Open(ctx, id)
}

// SaveTicket validates the payload and adds or updates the ticket
func (s *Service) SaveTicket(ctx context.Context, payload *domain.SavePayload) (domain.Ticket, error) {
	if err := s.validator.ValidateSave(payload); err != nil {
		return domain.Ticket{}, err
	}
	return s.newEditor().Save(ctx, payload.Ticket(s.now()))
}

// ExportTickets streams every ticket as a JSON array of ticket views
func (s *Service) ExportTickets(ctx context.Context) middleware.StreamResponse {
	tickets, err := s.repo.GetAll(ctx)
	if err != nil {
		return middleware.StreamResponse{
			Code:  500,
			Error: fmt.Errorf("failed to load tickets for export: %w", err),
		}
	}

	resp := s.exporter.Stream(ctx, stream.SliceFetcher(tickets), func(t domain.Ticket) (interface{}, error) {
		return t.View(), nil
	})
	resp.TotalCount = int64(len(tickets))
	return resp
}

// LogRequest logs a request outcome
func (s *Service) LogRequest(requestID, operation string, duration time.Duration, err error) {
	fields := []zap.Field{
		zap.String("request_id", requestID),
		zap.String("operation", operation),
		zap.Int64("duration_ms", duration.Milliseconds()),
	}
	if err != nil {
		s.logger.Warn("request completed", append(fields, zap.String("status", "error"), zap.Error(err))...)
		return
	}
	s.logger.Info("request completed", append(fields, zap.String("status", "success"))...)
}

func (s *Service) newEditor() *EditorController {
	e := NewEditorController(s.repo, s.publisher, s.logger)
	e.now = s.now
	return e
}
