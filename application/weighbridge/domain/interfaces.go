package domain

import (
	"context"
	"weighbridge/common"
)

// Store is the storage boundary consumed by the repository
type Store interface {
	// ListAll returns every record in storage-native order
	ListAll(ctx context.Context) ([]common.Ticket, error)

	// FindByID returns ErrTicketNotFound when no record has the id
	FindByID(ctx context.Context, id int64) (common.Ticket, error)

	// Insert stores a new record and returns it with its assigned id
	Insert(ctx context.Context, record common.Ticket) (common.Ticket, error)

	// Update overwrites the record with the same id, ErrTicketNotFound if absent
	Update(ctx context.Context, record common.Ticket) error
}

// Repository mediates between controllers and the store, speaking domain tickets
type Repository interface {
	GetAll(ctx context.Context) ([]Ticket, error)

	// FindByID degrades a miss to the default ticket with a nil error
	FindByID(ctx context.Context, id int64) (Ticket, error)

	// Add ignores the incoming id; the store assigns one
	Add(ctx context.Context, ticket Ticket) (Ticket, error)

	Update(ctx context.Context, ticket Ticket) error
}

// Validator checks incoming payloads
type Validator interface {
	ValidateSave(payload *SavePayload) error
	ValidateFilter(payload *FilterPayload) error
}

// Publisher announces completed writes
type Publisher interface {
	PublishTicketSaved(ctx context.Context, event TicketSaved) error
}
