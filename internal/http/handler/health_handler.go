package handler

import (
	"net/http"
	"time"

	"GemScheduler/internal/gemlogin"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type HealthHandler struct {
	db  *pgxpool.Pool
	rdb *redis.Client
	api *gemlogin.Client
}

func NewHealthHandler(db *pgxpool.Pool, rdb *redis.Client, api *gemlogin.Client) *HealthHandler {
	return &HealthHandler{db: db, rdb: rdb, api: api}
}

// GET /healthz
func (h *HealthHandler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GET /readyz
func (h *HealthHandler) Readyz(c *gin.Context) {
	ctx := c.Request.Context()
	// 就绪检查：DB、Redis、GemLogin 三个依赖都探一遍
	if err := h.db.Ping(ctx); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ready": false, "error": "db ping failed"})
		return
	}
	if err := h.rdb.Ping(ctx).Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ready": false, "error": "redis ping failed"})
		return
	}
	if res := h.api.Ping(ctx); !res.Success {
		c.JSON(http.StatusInternalServerError, gin.H{"ready": false, "error": "gemlogin ping failed: " + res.Message})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ready": true, "timestamp": time.Now().UTC()})
}
