package repository

import (
	"context"
	"errors"
	"fmt"
	"time"
	"weighbridge/application/weighbridge/domain"
)

// repository implements the Repository interface
type repository struct {
	store domain.Store
	now   func() time.Time
}

// Option configures a repository
type Option func(*repository)

// WithClock overrides the clock used to timestamp default tickets
func WithClock(now func() time.Time) Option {
	return func(r *repository) {
		r.now = now
	}
}

// NewRepository creates a new Repository over a store
func NewRepository(store domain.Store, opts ...Option) domain.Repository {
	r := &repository{store: store, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// GetAll returns every ticket in store order
func (r *repository) GetAll(ctx context.Context) ([]domain.Ticket, error) {
	records, err := r.store.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get tickets: %w", err)
	}
	return ToDomainList(records), nil
}

// FindByID returns the default ticket when the id is unknown. Callers cannot tell
// a miss from a blank stored ticket other than by the zero id.
func (r *repository) FindByID(ctx context.Context, id int64) (domain.Ticket, error) {
	record, err := r.store.FindByID(ctx, id)
	if errors.Is(err, domain.ErrTicketNotFound) {
		return domain.NewTicket(r.now()), nil
	}
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("failed to find ticket %d: %w", id, err)
	}
	return ToDomain(record), nil
}

// Add inserts the ticket as a new record regardless of its id
func (r *repository) Add(ctx context.Context, ticket domain.Ticket) (domain.Ticket, error) {
	record := ToRecord(ticket)
	record.ID = 0

	saved, err := r.store.Insert(ctx, record)
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("failed to add ticket: %w", err)
	}
	return ToDomain(saved), nil
}

// Update replaces the record with the ticket's id
func (r *repository) Update(ctx context.Context, ticket domain.Ticket) error {
	if ticket.IsNew() {
		return fmt.Errorf("failed to update ticket: %w", domain.ErrTicketNotFound)
	}
	if err := r.store.Update(ctx, ToRecord(ticket)); err != nil {
		return fmt.Errorf("failed to update ticket %d: %w", ticket.ID, err)
	}
	return nil
}
