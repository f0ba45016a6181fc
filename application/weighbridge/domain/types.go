package domain

import (
	"math"
	"time"

	"github.com/guregu/null/v5"
	json "github.com/json-iterator/go"
)

// DateLayout renders a ticket timestamp the way the ticket list labels it
const DateLayout = "02 January 2006"

// Ticket is a single weighbridge weighing event.
// A zero ID means the ticket has never been persisted.
type Ticket struct {
	ID            int64
	Timestamp     int64 // epoch milliseconds
	LicenseNumber string
	DriverName    string
	InWeight      int64
	OutWeight     int64
}

// NewTicket returns the default ticket: no id, empty strings, zero weights,
// timestamped at now.
func NewTicket(now time.Time) Ticket {
	return Ticket{Timestamp: now.UnixMilli()}
}

// NetWeight is the absolute difference between inbound and outbound weight.
// Differences beyond the int64 range saturate at math.MaxInt64.
func (t Ticket) NetWeight() int64 {
	hi, lo := t.InWeight, t.OutWeight
	if hi < lo {
		hi, lo = lo, hi
	}
	diff := hi - lo
	if diff < 0 {
		return math.MaxInt64
	}
	return diff
}

// IsNew reports whether the ticket still needs an insert rather than an update
func (t Ticket) IsNew() bool {
	return t.ID <= 0
}

// Date formats the ticket timestamp in UTC using DateLayout
func (t Ticket) Date() string {
	return time.UnixMilli(t.Timestamp).UTC().Format(DateLayout)
}

// TicketView is the JSON shape handed to clients, including derived fields
type TicketView struct {
	ID            int64  `json:"id"`
	Timestamp     int64  `json:"timestamp"`
	Date          string `json:"date"`
	LicenseNumber string `json:"licenseNumber"`
	DriverName    string `json:"driverName"`
	InWeight      int64  `json:"inWeight"`
	OutWeight     int64  `json:"outWeight"`
	NetWeight     int64  `json:"netWeight"`
}

// View builds the client-facing representation of the ticket
func (t Ticket) View() TicketView {
	return TicketView{
		ID:            t.ID,
		Timestamp:     t.Timestamp,
		Date:          t.Date(),
		LicenseNumber: t.LicenseNumber,
		DriverName:    t.DriverName,
		InWeight:      t.InWeight,
		OutWeight:     t.OutWeight,
		NetWeight:     t.NetWeight(),
	}
}

// Views maps a ticket slice to its client-facing representation
func Views(tickets []Ticket) []TicketView {
	views := make([]TicketView, len(tickets))
	for i, t := range tickets {
		views[i] = t.View()
	}
	return views
}

// SavePayload is the incoming create/edit request.
// Missing timestamp falls back to the time of the request, missing weights to zero.
type SavePayload struct {
	ID            int64    `json:"id"`
	Timestamp     null.Int `json:"timestamp"`
	LicenseNumber string   `json:"licenseNumber"`
	DriverName    string   `json:"driverName"`
	InWeight      null.Int `json:"inWeight"`
	OutWeight     null.Int `json:"outWeight"`
}

// Ticket converts the payload to a domain ticket
func (p *SavePayload) Ticket(now time.Time) Ticket {
	t := NewTicket(now)
	t.ID = p.ID
	if p.Timestamp.Valid {
		t.Timestamp = p.Timestamp.Int64
	}
	t.LicenseNumber = p.LicenseNumber
	t.DriverName = p.DriverName
	t.InWeight = p.InWeight.ValueOrZero()
	t.OutWeight = p.OutWeight.ValueOrZero()
	return t
}

// FilterPayload is the list search/sort request
type FilterPayload struct {
	Query     string `json:"query"`
	Ascending bool   `json:"ascending"`
}

// StateKind tags a published view state
type StateKind int

const (
	StateLoading StateKind = iota
	StateReady
	StateFailed
)

func (k StateKind) String() string {
	switch k {
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "loading"
	}
}

// ViewState is the tagged result published to the presentation layer.
// Data is only meaningful when Kind is StateReady, Err only when StateFailed.
type ViewState[T any] struct {
	Kind StateKind
	Data T
	Err  error
}

func Loading[T any]() ViewState[T] {
	return ViewState[T]{Kind: StateLoading}
}

func Ready[T any](data T) ViewState[T] {
	return ViewState[T]{Kind: StateReady, Data: data}
}

func Failed[T any](err error) ViewState[T] {
	return ViewState[T]{Kind: StateFailed, Err: err}
}

// MarshalJSON writes {"state": ..., "data": ..., "error": ...}
func (s ViewState[T]) MarshalJSON() ([]byte, error) {
	out := struct {
		State string  `json:"state"`
		Data  any     `json:"data,omitempty"`
		Error *string `json:"error,omitempty"`
	}{State: s.Kind.String()}

	switch s.Kind {
	case StateReady:
		out.Data = viewData(s.Data)
	case StateFailed:
		if s.Err != nil {
			msg := s.Err.Error()
			out.Error = &msg
		}
	}

	return json.Marshal(out)
}

// viewData swaps domain tickets for their client-facing form
func viewData(data any) any {
	switch v := data.(type) {
	case Ticket:
		return v.View()
	case []Ticket:
		return Views(v)
	default:
		return v
	}
}

// TicketSaved describes a completed add or update
type TicketSaved struct {
	TicketID  int64  `json:"ticketId"`
	Operation string `json:"operation"`
	SavedAt   int64  `json:"savedAt"`
}

const (
	OperationCreated = "created"
	OperationUpdated = "updated"
)
