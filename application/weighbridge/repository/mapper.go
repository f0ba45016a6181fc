package repository

import (
	"weighbridge/application/weighbridge/domain"
	"weighbridge/common"
)

// ToDomain copies a stored record into a domain ticket, field for field
func ToDomain(r common.Ticket) domain.Ticket {
	return domain.Ticket{
		ID:            r.ID,
		Timestamp:     r.Timestamp,
		LicenseNumber: r.LicenseNumber,
		DriverName:    r.DriverName,
		InWeight:      r.InWeight,
		OutWeight:     r.OutWeight,
	}
}

// ToRecord copies a domain ticket into its storage shape, field for field
func ToRecord(t domain.Ticket) common.Ticket {
	return common.Ticket{
		ID:            t.ID,
		Timestamp:     t.Timestamp,
		LicenseNumber: t.LicenseNumber,
		DriverName:    t.DriverName,
		InWeight:      t.InWeight,
		OutWeight:     t.OutWeight,
	}
}

// ToDomainList maps records in order
func ToDomainList(records []common.Ticket) []domain.Ticket {
	tickets := make([]domain.Ticket, len(records))
	for i, r := range records {
		tickets[i] = ToDomain(r)
	}
	return tickets
}
