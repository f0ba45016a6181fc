package handler

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"weighbridge/application/weighbridge/domain"
	"weighbridge/application/weighbridge/repository"
	"weighbridge/application/weighbridge/service"
	"weighbridge/common"
	"weighbridge/middleware"

	"github.com/gin-gonic/gin"
	json "github.com/json-iterator/go"
	"go.uber.org/zap"
)

type envelope struct {
	RequestID string          `json:"requestId"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data"`
}

type stateBody struct {
	State string              `json:"state"`
	Data  []domain.TicketView `json:"data"`
	Error string              `json:"error"`
}

type sessionBody struct {
	SessionID string    `json:"sessionId"`
	State     stateBody `json:"state"`
}

func setupRouter(store domain.Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	svc := service.NewService(repository.NewRepository(store), nil, logger)

	r := gin.New()
	r.Use(middleware.RequestInit())
	r.Use(middleware.ResponseInit(logger))
	NewHandler(svc).RegisterRoutes(r.Group(""))
	return r
}

func do(t *testing.T, r *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") && path != "/v1/tickets/export" {
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			t.Fatalf("Response is not an envelope: %v (%s)", err, w.Body.String())
		}
	}
	return w, env
}

func TestHandler_SaveAndGetTicket(t *testing.T) {
	r := setupRouter(repository.NewMemoryStore())

	w, env := do(t, r, http.MethodPost, "/v1/tickets", `{"licenseNumber":"B 1234 XY","driverName":"Joko","inWeight":12000,"outWeight":4500}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var created domain.TicketView
	if err := json.Unmarshal(env.Data, &created); err != nil {
		t.Fatalf("Failed to decode ticket: %v", err)
	}
	if created.ID <= 0 || created.NetWeight != 7500 || created.Date == "" {
		t.Errorf("Unexpected created ticket %+v", created)
	}

	w, _ = do(t, r, http.MethodPost, "/v1/tickets", `{"id":`+itoa(created.ID)+`,"timestamp":1692230400000,"licenseNumber":"B 1234 XY","driverName":"Joko","inWeight":12000,"outWeight":5000}`)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 on update, got %d: %s", w.Code, w.Body.String())
	}

	w, env = do(t, r, http.MethodGet, "/v1/tickets/"+itoa(created.ID), "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	var state struct {
		State string            `json:"state"`
		Data  domain.TicketView `json:"data"`
	}
	if err := json.Unmarshal(env.Data, &state); err != nil {
		t.Fatalf("Failed to decode state: %v", err)
	}
	if state.State != "ready" || state.Data.OutWeight != 5000 || state.Data.Date != "17 August 2023" {
		t.Errorf("Unexpected ticket state %+v", state)
	}
}

func TestHandler_GetTicket(t *testing.T) {
	r := setupRouter(repository.NewMemoryStore())

	t.Run("unknown id returns default ticket", func(t *testing.T) {
		w, env := do(t, r, http.MethodGet, "/v1/tickets/404", "")
		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", w.Code)
		}
		var state struct {
			Data domain.TicketView `json:"data"`
		}
		_ = json.Unmarshal(env.Data, &state)
		if state.Data.ID != 0 || state.Data.Timestamp == 0 {
			t.Errorf("Expected default ticket, got %+v", state.Data)
		}
	})

	t.Run("non numeric id", func(t *testing.T) {
		w, _ := do(t, r, http.MethodGet, "/v1/tickets/abc", "")
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})
}

func TestHandler_SaveTicketErrors(t *testing.T) {
	tests := []struct {
		name  string
		store domain.Store
		body  string
		want  int
	}{
		{name: "malformed json", store: repository.NewMemoryStore(), body: `{"driverName":`, want: http.StatusBadRequest},
		{name: "license too long", store: repository.NewMemoryStore(), body: `{"licenseNumber":"` + strings.Repeat("x", 65) + `"}`, want: http.StatusBadRequest},
		{name: "update of missing ticket", store: repository.NewMemoryStore(), body: `{"id":9,"driverName":"x"}`, want: http.StatusNotFound},
		{name: "read-only store", store: repository.NewReadOnlyStore([]common.Ticket{{ID: 1}}), body: `{"driverName":"x"}`, want: http.StatusNotImplemented},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, _ := do(t, setupRouter(tt.store), http.MethodPost, "/v1/tickets", tt.body)
			if w.Code != tt.want {
				t.Errorf("Expected %d, got %d: %s", tt.want, w.Code, w.Body.String())
			}
		})
	}
}

func TestHandler_SessionFlow(t *testing.T) {
	store := repository.NewMemoryStore()
	r := setupRouter(store)
	for _, body := range []string{
		`{"timestamp":1,"licenseNumber":"123","driverName":"test1"}`,
		`{"timestamp":2,"licenseNumber":"123","driverName":"test2"}`,
		`{"timestamp":3,"licenseNumber":"456","driverName":"test3"}`,
	} {
		if w, _ := do(t, r, http.MethodPost, "/v1/tickets", body); w.Code != http.StatusCreated {
			t.Fatalf("Seeding failed with %d", w.Code)
		}
	}

	w, env := do(t, r, http.MethodPost, "/v1/sessions", "")
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d", w.Code)
	}
	var opened sessionBody
	if err := json.Unmarshal(env.Data, &opened); err != nil {
		t.Fatalf("Failed to decode session: %v", err)
	}
	if opened.SessionID == "" || opened.State.State != "loading" {
		t.Fatalf("Unexpected session %+v", opened)
	}
	base := "/v1/sessions/" + opened.SessionID

	_, env = do(t, r, http.MethodPost, base+"/load", "")
	var loaded sessionBody
	_ = json.Unmarshal(env.Data, &loaded)
	if loaded.State.State != "ready" || len(loaded.State.Data) != 3 || loaded.State.Data[0].Timestamp != 3 {
		t.Errorf("Unexpected loaded state %+v", loaded.State)
	}

	_, env = do(t, r, http.MethodPost, base+"/filter", `{"query":"123","ascending":true}`)
	var filtered sessionBody
	_ = json.Unmarshal(env.Data, &filtered)
	if len(filtered.State.Data) != 2 || filtered.State.Data[0].Timestamp != 1 {
		t.Errorf("Unexpected filtered state %+v", filtered.State)
	}

	_, env = do(t, r, http.MethodGet, base, "")
	var current sessionBody
	_ = json.Unmarshal(env.Data, &current)
	if len(current.State.Data) != 2 {
		t.Errorf("Expected latest state to be the filtered one, got %+v", current.State)
	}

	if w, _ := do(t, r, http.MethodDelete, base, ""); w.Code != http.StatusOK {
		t.Errorf("Expected 200 on close, got %d", w.Code)
	}
	if w, _ := do(t, r, http.MethodPost, base+"/load", ""); w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 after close, got %d", w.Code)
	}
}

func TestHandler_FilterErrors(t *testing.T) {
	r := setupRouter(repository.NewMemoryStore())
	_, env := do(t, r, http.MethodPost, "/v1/sessions", "")
	var opened sessionBody
	_ = json.Unmarshal(env.Data, &opened)

	if w, _ := do(t, r, http.MethodPost, "/v1/sessions/"+opened.SessionID+"/filter", `{"query":`); w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 on malformed body, got %d", w.Code)
	}
	if w, _ := do(t, r, http.MethodPost, "/v1/sessions/unknown/filter", `{"query":"x"}`); w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 on unknown session, got %d", w.Code)
	}
}

func TestHandler_ExportTickets(t *testing.T) {
	records := []common.Ticket{
		{ID: 2, Timestamp: 2, LicenseNumber: "B", DriverName: "two", InWeight: 10, OutWeight: 30},
		{ID: 1, Timestamp: 1, LicenseNumber: "A", DriverName: "one"},
	}
	r := setupRouter(repository.NewReadOnlyStore(records))

	w, _ := do(t, r, http.MethodGet, "/v1/tickets/export", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	if got := w.Header().Get("X-Total-Count"); got != "2" {
		t.Errorf("Expected X-Total-Count 2, got %q", got)
	}

	var views []domain.TicketView
	if err := json.Unmarshal(w.Body.Bytes(), &views); err != nil {
		t.Fatalf("Export is not a JSON array: %v (%s)", err, w.Body.String())
	}
	if len(views) != 2 || views[0].NetWeight != 20 {
		t.Errorf("Unexpected export %+v", views)
	}
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
