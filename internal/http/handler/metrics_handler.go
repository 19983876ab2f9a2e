package handler

import (
	"log"
	"net/http"

	"GemScheduler/internal/metrics"

	"github.com/gin-gonic/gin"
)

type MetricsHandler struct {
	recorder *metrics.Recorder
}

func NewMetricsHandler(recorder *metrics.Recorder) *MetricsHandler {
	return &MetricsHandler{recorder: recorder}
}

// GET /api/v1/metrics/poller
func (h *MetricsHandler) GetPollerMetrics(c *gin.Context) {
	passes, last, err := h.recorder.LastPass(c.Request.Context())
	if err != nil {
		log.Printf("failed to get poller metrics: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"passes": passes,
		"last":   last, // 包含 run_id, time, started, completed, dispatched
	})
}
