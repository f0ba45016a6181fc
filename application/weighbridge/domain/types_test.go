package domain

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/guregu/null/v5"
	json "github.com/json-iterator/go"
)

func TestTicket_NetWeight(t *testing.T) {
	tests := []struct {
		name     string
		in, out  int64
		expected int64
	}{
		{"inbound heavier", 12000, 4000, 8000},
		{"outbound heavier", 4000, 12000, 8000},
		{"equal", 5000, 5000, 0},
		{"zero weights", 0, 0, 0},
		{"only outbound", 0, 700, 700},
		{"negative outbound", 300, -200, 500},
		{"largest representable gap", math.MaxInt64, 0, math.MaxInt64},
		{"gap beyond int64 saturates", math.MaxInt64, -1, math.MaxInt64},
		{"reversed gap beyond int64 saturates", math.MinInt64, math.MaxInt64, math.MaxInt64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ticket := Ticket{InWeight: tt.in, OutWeight: tt.out}
			if got := ticket.NetWeight(); got != tt.expected {
				t.Errorf("NetWeight() = %d, expected %d", got, tt.expected)
			}
		})
	}
}

func TestNewTicket(t *testing.T) {
	now := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)
	ticket := NewTicket(now)

	if ticket.ID != 0 || ticket.LicenseNumber != "" || ticket.DriverName != "" ||
		ticket.InWeight != 0 || ticket.OutWeight != 0 {
		t.Errorf("Expected default ticket, got %+v", ticket)
	}
	if ticket.Timestamp != now.UnixMilli() {
		t.Errorf("Expected timestamp %d, got %d", now.UnixMilli(), ticket.Timestamp)
	}
	if !ticket.IsNew() {
		t.Error("Expected default ticket to be new")
	}
}

func TestTicket_Date(t *testing.T) {
	ticket := Ticket{Timestamp: time.Date(2023, 8, 17, 23, 0, 0, 0, time.UTC).UnixMilli()}
	if got := ticket.Date(); got != "17 August 2023" {
		t.Errorf("Date() = %q, expected %q", got, "17 August 2023")
	}
}

func TestSavePayload_Ticket(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("missing timestamp and weights use defaults", func(t *testing.T) {
		p := &SavePayload{LicenseNumber: "B 1234 XY", DriverName: "Budi"}
		ticket := p.Ticket(now)

		if ticket.Timestamp != now.UnixMilli() {
			t.Errorf("Expected timestamp to default to now, got %d", ticket.Timestamp)
		}
		if ticket.InWeight != 0 || ticket.OutWeight != 0 {
			t.Errorf("Expected zero weights, got in=%d out=%d", ticket.InWeight, ticket.OutWeight)
		}
	})

	t.Run("explicit fields are copied", func(t *testing.T) {
		p := &SavePayload{
			ID:            7,
			Timestamp:     null.IntFrom(42),
			LicenseNumber: "L 99",
			DriverName:    "Sari",
			InWeight:      null.IntFrom(900),
			OutWeight:     null.IntFrom(300),
		}
		expected := Ticket{ID: 7, Timestamp: 42, LicenseNumber: "L 99", DriverName: "Sari", InWeight: 900, OutWeight: 300}
		if got := p.Ticket(now); got != expected {
			t.Errorf("Ticket() = %+v, expected %+v", got, expected)
		}
	})

	t.Run("null values decode from JSON", func(t *testing.T) {
		var p SavePayload
		if err := json.Unmarshal([]byte(`{"id":0,"timestamp":null,"licenseNumber":"X","inWeight":10}`), &p); err != nil {
			t.Fatalf("Unmarshal() error = %v", err)
		}
		if p.Timestamp.Valid {
			t.Error("Expected timestamp to be null")
		}
		if !p.InWeight.Valid || p.InWeight.Int64 != 10 {
			t.Errorf("Expected inWeight 10, got %+v", p.InWeight)
		}
		if p.OutWeight.Valid {
			t.Error("Expected absent outWeight to be null")
		}
	})
}

func TestViewState_MarshalJSON(t *testing.T) {
	t.Run("loading", func(t *testing.T) {
		b, err := json.Marshal(Loading[[]Ticket]())
		if err != nil {
			t.Fatalf("Marshal() error = %v", err)
		}
		if string(b) != `{"state":"loading"}` {
			t.Errorf("Unexpected JSON: %s", b)
		}
	})

	t.Run("ready list carries derived fields", func(t *testing.T) {
		state := Ready([]Ticket{{ID: 1, LicenseNumber: "A1", InWeight: 10, OutWeight: 25}})
		b, err := json.Marshal(state)
		if err != nil {
			t.Fatalf("Marshal() error = %v", err)
		}
		s := string(b)
		if !strings.Contains(s, `"state":"ready"`) || !strings.Contains(s, `"netWeight":15`) {
			t.Errorf("Unexpected JSON: %s", s)
		}
	})

	t.Run("failed carries error message", func(t *testing.T) {
		b, err := json.Marshal(Failed[Ticket](errors.New("disk full")))
		if err != nil {
			t.Fatalf("Marshal() error = %v", err)
		}
		if string(b) != `{"state":"failed","error":"disk full"}` {
			t.Errorf("Unexpected JSON: %s", b)
		}
	})
}
