package handler

import (
	"net/http"

	"GemScheduler/internal/service"

	"github.com/gin-gonic/gin"
)

type SyncHandler struct {
	svc *service.SyncService
}

func NewSyncHandler(svc *service.SyncService) *SyncHandler {
	return &SyncHandler{svc: svc}
}

// POST /api/v1/sync/profiles
func (h *SyncHandler) SyncProfiles(c *gin.Context) {
	n, err := h.svc.SyncProfiles(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"synced": n})
}

// POST /api/v1/sync/scripts
func (h *SyncHandler) SyncScripts(c *gin.Context) {
	n, err := h.svc.SyncScripts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"synced": n})
}
