package service

import (
	"strings"
	"weighbridge/application/weighbridge/domain"
)

// FilterTickets computes the displayed list from a loaded snapshot.
//
// ascending reverses the load order; it does not sort by any field. Stores list
// newest first, so the reversal happens to put the oldest ticket first, but the
// flag means "reverse", nothing more.
//
// A blank query keeps every ticket. Otherwise a ticket is kept when its driver
// name or license number contains query, ignoring case. Relative order is preserved.
// The input slice is never modified.
func FilterTickets(tickets []domain.Ticket, query string, ascending bool) []domain.Ticket {
	ordered := make([]domain.Ticket, len(tickets))
	if ascending {
		for i, t := range tickets {
			ordered[len(tickets)-1-i] = t
		}
	} else {
		copy(ordered, tickets)
	}

	if strings.TrimSpace(query) == "" {
		return ordered
	}

	needle := strings.ToLower(query)
	filtered := make([]domain.Ticket, 0, len(ordered))
	for _, t := range ordered {
		if containsFold(t.DriverName, needle) || containsFold(t.LicenseNumber, needle) {
			filtered = append(filtered, t)
		}
	}
	return filtered
}

// containsFold reports whether lowerNeedle occurs in s, case-insensitively
func containsFold(s, lowerNeedle string) bool {
	return strings.Contains(strings.ToLower(s), lowerNeedle)
}
