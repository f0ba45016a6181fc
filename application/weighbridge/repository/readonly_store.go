package repository

import (
	"context"
	"fmt"
	"weighbridge/application/weighbridge/domain"
	"weighbridge/common"
)

// ReadOnlyStore serves a fixed record set in the order given and rejects writes
type ReadOnlyStore struct {
	records []common.Ticket
}

// NewReadOnlyStore wraps records; the slice is copied
func NewReadOnlyStore(records []common.Ticket) *ReadOnlyStore {
	cp := make([]common.Ticket, len(records))
	copy(cp, records)
	return &ReadOnlyStore{records: cp}
}

func (s *ReadOnlyStore) ListAll(ctx context.Context) ([]common.Ticket, error) {
	cp := make([]common.Ticket, len(s.records))
	copy(cp, s.records)
	return cp, nil
}

func (s *ReadOnlyStore) FindByID(ctx context.Context, id int64) (common.Ticket, error) {
	for _, r := range s.records {
		if r.ID == id {
			return r, nil
		}
	}
	return common.Ticket{}, domain.ErrTicketNotFound
}

func (s *ReadOnlyStore) Insert(ctx context.Context, record common.Ticket) (common.Ticket, error) {
	return common.Ticket{}, fmt.Errorf("insert: %w", domain.ErrNotSupported)
}

func (s *ReadOnlyStore) Update(ctx context.Context, record common.Ticket) error {
	return fmt.Errorf("update: %w", domain.ErrNotSupported)
}
