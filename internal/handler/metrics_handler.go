package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-adp-admin/internal/service"
	"github.com/noah-isme/sma-adp-admin/internal/session"
	"github.com/noah-isme/sma-adp-admin/pkg/response"
)

// MetricsHandler serves the scrape and health endpoints.
type MetricsHandler struct {
	metrics  *service.MetricsService
	sessions *session.Registry
}

type healthStatus struct {
	Status   string `json:"status"`
	Sessions int    `json:"sessions"`
}

// NewMetricsHandler constructs a MetricsHandler. sessions may be nil.
func NewMetricsHandler(metrics *service.MetricsService, sessions *session.Registry) *MetricsHandler {
	return &MetricsHandler{metrics: metrics, sessions: sessions}
}

// Prometheus hands the request to the metrics registry.
func (h *MetricsHandler) Prometheus(c *gin.Context) {
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}

// Health reports liveness and the number of live browser sessions.
func (h *MetricsHandler) Health(c *gin.Context) {
	status := healthStatus{Status: "ok"}
	if h.sessions != nil {
		status.Sessions = h.sessions.Len()
	}
	response.JSON(c, http.StatusOK, status)
}
