package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"
	"weighbridge/application/weighbridge/domain"
	"weighbridge/application/weighbridge/service"
	"weighbridge/middleware"

	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for weighbridge tickets and list sessions
type Handler struct {
	svc *service.Service
}

// NewHandler creates a new Handler
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers the handler routes
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	sessions := api.Group("/v1/sessions")
	{
		sessions.POST("", h.OpenSession)
		sessions.GET("/:sessionId", h.SessionState)
		sessions.POST("/:sessionId/load", h.LoadSession)
		sessions.POST("/:sessionId/filter", h.FilterSession)
		sessions.DELETE("/:sessionId", h.CloseSession)
	}

	tickets := api.Group("/v1/tickets")
	{
		tickets.GET("/export", h.ExportTickets)
		tickets.GET("/:id", h.GetTicket)
		tickets.POST("", h.SaveTicket)
	}
}

type sessionResponse struct {
	SessionID string            `json:"sessionId"`
	State     service.ListState `json:"state"`
}

// OpenSession handles POST /v1/sessions
func (h *Handler) OpenSession(c *gin.Context) {
	send := middleware.Send(c)

	id, state := h.svc.OpenSession()
	send(middleware.Response{
		Code:    http.StatusCreated,
		Message: "Session opened",
		Data:    sessionResponse{SessionID: id, State: state},
	})
}

// SessionState handles GET /v1/sessions/:sessionId
func (h *Handler) SessionState(c *gin.Context) {
	send := middleware.Send(c)
	id := c.Param("sessionId")

	state, err := h.svc.SessionState(id)
	if err != nil {
		send(errorResponse(err))
		return
	}
	send(middleware.Response{
		Code:    http.StatusOK,
		Message: "Session state",
		Data:    sessionResponse{SessionID: id, State: state},
	})
}

// LoadSession handles POST /v1/sessions/:sessionId/load.
// A storage failure still answers with the Failed state in the envelope.
func (h *Handler) LoadSession(c *gin.Context) {
	send := middleware.Send(c)
	requestID := c.GetString(middleware.KeyRequestID)
	startTime := time.Now()
	id := c.Param("sessionId")

	state, err := h.svc.LoadSession(c.Request.Context(), id)
	h.svc.LogRequest(requestID, "load", time.Since(startTime), err)
	if err != nil {
		resp := errorResponse(err)
		if !errors.Is(err, domain.ErrSessionNotFound) {
			resp.Data = sessionResponse{SessionID: id, State: state}
		}
		send(resp)
		return
	}

	send(middleware.Response{
		Code:    http.StatusOK,
		Message: "Tickets loaded",
		Data:    sessionResponse{SessionID: id, State: state},
	})
}

// FilterSession handles POST /v1/sessions/:sessionId/filter
func (h *Handler) FilterSession(c *gin.Context) {
	send := middleware.Send(c)
	requestID := c.GetString(middleware.KeyRequestID)
	startTime := time.Now()
	id := c.Param("sessionId")

	var payload domain.FilterPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		send(middleware.Response{
			Code:    http.StatusBadRequest,
			Message: "Invalid JSON payload",
			Error:   err,
		})
		return
	}

	state, err := h.svc.FilterSession(id, &payload)
	h.svc.LogRequest(requestID, "filter", time.Since(startTime), err)
	if err != nil {
		send(errorResponse(err))
		return
	}

	send(middleware.Response{
		Code:    http.StatusOK,
		Message: "Filter applied",
		Data:    sessionResponse{SessionID: id, State: state},
	})
}

// CloseSession handles DELETE /v1/sessions/:sessionId
func (h *Handler) CloseSession(c *gin.Context) {
	send := middleware.Send(c)

	if err := h.svc.CloseSession(c.Param("sessionId")); err != nil {
		send(errorResponse(err))
		return
	}
	send(middleware.Response{
		Code:    http.StatusOK,
		Message: "Session closed",
	})
}

// GetTicket handles GET /v1/tickets/:id. Unknown ids answer with the default ticket.
func (h *Handler) GetTicket(c *gin.Context) {
	send := middleware.Send(c)
	requestID := c.GetString(middleware.KeyRequestID)
	startTime := time.Now()

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		send(middleware.Response{
			Code:    http.StatusBadRequest,
			Message: "Invalid ticket id",
			Error:   err,
		})
		return
	}

	state := h.svc.OpenTicket(c.Request.Context(), id)
	h.svc.LogRequest(requestID, "open", time.Since(startTime), state.Err)
	if state.Kind == domain.StateFailed {
		resp := errorResponse(state.Err)
		resp.Data = state
		send(resp)
		return
	}

	send(middleware.Response{
		Code:    http.StatusOK,
		Message: "Ticket loaded",
		Data:    state,
	})
}

// SaveTicket handles POST /v1/tickets. Tickets without a positive id are
// created, others replace the stored ticket with that id.
func (h *Handler) SaveTicket(c *gin.Context) {
	send := middleware.Send(c)
	requestID := c.GetString(middleware.KeyRequestID)
	startTime := time.Now()

	var payload domain.SavePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		send(middleware.Response{
			Code:    http.StatusBadRequest,
			Message: "Invalid JSON payload",
			Error:   err,
		})
		return
	}

	created := payload.ID <= 0
	saved, err := h.svc.SaveTicket(c.Request.Context(), &payload)
	h.svc.LogRequest(requestID, "save", time.Since(startTime), err)
	if err != nil {
		send(errorResponse(err))
		return
	}

	code, message := http.StatusOK, "Ticket updated"
	if created {
		code, message = http.StatusCreated, "Ticket created"
	}
	send(middleware.Response{
		Code:    code,
		Message: message,
		Data:    saved.View(),
	})
}

// ExportTickets handles GET /v1/tickets/export
func (h *Handler) ExportTickets(c *gin.Context) {
	sendStream := middleware.SendStream(c)
	requestID := c.GetString(middleware.KeyRequestID)
	startTime := time.Now()

	response := h.svc.ExportTickets(c.Request.Context())
	h.svc.LogRequest(requestID, "export", time.Since(startTime), response.Error)

	sendStream(response)
}

// errorResponse maps service errors to status codes
func errorResponse(err error) middleware.Response {
	switch {
	case errors.Is(err, domain.ErrInvalidPayload):
		return middleware.Response{Code: http.StatusBadRequest, Message: "Invalid payload", Error: err}
	case errors.Is(err, domain.ErrSessionNotFound):
		return middleware.Response{Code: http.StatusNotFound, Message: "Session not found", Error: err}
	case errors.Is(err, domain.ErrTicketNotFound):
		return middleware.Response{Code: http.StatusNotFound, Message: "Ticket not found", Error: err}
	case errors.Is(err, domain.ErrNotSupported):
		return middleware.Response{Code: http.StatusNotImplemented, Message: "Operation not supported", Error: err}
	default:
		return middleware.Response{Code: http.StatusInternalServerError, Message: "Internal server error", Error: err}
	}
}
