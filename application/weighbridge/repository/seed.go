package repository

import (
	"context"
	"fmt"
	"time"
	"weighbridge/application/weighbridge/domain"
	"weighbridge/common"
)

var demoTickets = []struct {
	license string
	driver  string
	in, out int64
}{
	{"B 1234 KJA", "Agus Santoso", 31250, 11840},
	{"D 8812 BC", "Rina Wulandari", 28700, 10950},
	{"L 4410 XZ", "Joko Prasetyo", 12100, 29800},
	{"B 9001 TRK", "Siti Rahma", 30500, 12020},
	{"AB 123 CD", "Hendra Gunawan", 25600, 9870},
}

// Seed fills an empty store with a handful of demo tickets.
// It returns the number of tickets inserted.
func Seed(ctx context.Context, store domain.Store, now time.Time) (int, error) {
	existing, err := store.ListAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to inspect store before seeding: %w", err)
	}
	if len(existing) > 0 {
		return 0, nil
	}

	for i, d := range demoTickets {
		record := common.Ticket{
			Timestamp:     now.Add(-time.Duration(len(demoTickets)-i) * time.Hour).UnixMilli(),
			LicenseNumber: d.license,
			DriverName:    d.driver,
			InWeight:      d.in,
			OutWeight:     d.out,
		}
		if _, err := store.Insert(ctx, record); err != nil {
			return i, fmt.Errorf("failed to seed ticket %d: %w", i+1, err)
		}
	}

	return len(demoTickets), nil
}
