package health

import (
	"net/http"
	"weighbridge/middleware"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{svc: service}
}

func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	health := api.Group("/health")
	{
		health.GET("", h.HealthCheck)
		health.GET("/stream", h.HealthCheckStream)
	}
}

func (h *Handler) HealthCheck(c *gin.Context) {
	send := middleware.Send(c)

	report, err := h.svc.CheckHealth(c.Request.Context())
	if err != nil {
		send(middleware.Response{
			Code:    http.StatusServiceUnavailable,
			Message: "Health check failed",
			Data:    report,
			Error:   err,
		})
		return
	}

	send(middleware.Response{
		Code:    http.StatusOK,
		Message: "Health check completed",
		Data:    report,
	})
}

func (h *Handler) HealthCheckStream(c *gin.Context) {
	sendStream := middleware.SendStream(c)

	sendStream(middleware.StreamResponse{
		TotalCount: -1,
		ChunkChan:  h.svc.CheckHealthStream(c.Request.Context()),
	})
}
