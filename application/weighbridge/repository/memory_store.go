package repository

import (
	"context"
	"sort"
	"sync"
	"weighbridge/application/weighbridge/domain"
	"weighbridge/common"
)

// MemoryStore keeps tickets in process memory with auto-increment ids.
// Ordering matches GormStore: newest id first.
type MemoryStore struct {
	mu     sync.RWMutex
	data   map[int64]common.Ticket
	nextID int64
}

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data:   make(map[int64]common.Ticket),
		nextID: 1,
	}
}

func (s *MemoryStore) ListAll(ctx context.Context) ([]common.Ticket, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]common.Ticket, 0, len(s.data))
	for _, r := range s.data {
		records = append(records, r)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].ID > records[j].ID
	})
	return records, nil
}

func (s *MemoryStore) FindByID(ctx context.Context, id int64) (common.Ticket, error) {
	if err := ctx.Err(); err != nil {
		return common.Ticket{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.data[id]
	if !ok {
		return common.Ticket{}, domain.ErrTicketNotFound
	}
	return r, nil
}

func (s *MemoryStore) Insert(ctx context.Context, record common.Ticket) (common.Ticket, error) {
	if err := ctx.Err(); err != nil {
		return common.Ticket{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record.ID = s.nextID
	s.nextID++
	s.data[record.ID] = record
	return record, nil
}

func (s *MemoryStore) Update(ctx context.Context, record common.Ticket) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data[record.ID]; !ok {
		return domain.ErrTicketNotFound
	}
	s.data[record.ID] = record
	return nil
}

// Len reports how many tickets are stored
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
