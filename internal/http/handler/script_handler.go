package handler

import (
	"net/http"

	"GemScheduler/internal/gemlogin"
	"GemScheduler/internal/repo"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ScriptHandler 脚本镜像的查询 + 手动执行（直连 GemLogin）
type ScriptHandler struct {
	db  *pgxpool.Pool
	api *gemlogin.Client
}

func NewScriptHandler(db *pgxpool.Pool, api *gemlogin.Client) *ScriptHandler {
	return &ScriptHandler{db: db, api: api}
}

// GET /api/v1/scripts
func (h *ScriptHandler) ListScripts(c *gin.Context) {
	scripts, err := repo.ListScripts(c.Request.Context(), h.db)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"scripts": scripts, "count": len(scripts)})
}

type executeScriptRequest struct {
	ProfileIDs   []int          `json:"profile_ids" binding:"required"`
	Parameters   map[string]any `json:"parameters"`
	CloseBrowser *bool          `json:"close_browser"`
}

// POST /api/v1/scripts/:id/execute
// 手动跑一把脚本；parameters 不传就用脚本镜像里的默认值
func (h *ScriptHandler) ExecuteScript(c *gin.Context) {
	scriptID := c.Param("id")
	var req executeScriptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	params := req.Parameters
	if params == nil {
		defaults, err := repo.GetScriptDefaultParameters(c.Request.Context(), h.db, scriptID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "script not found"})
			return
		}
		params = defaults
	}
	closeBrowser := true
	if req.CloseBrowser != nil {
		closeBrowser = *req.CloseBrowser
	}

	res := h.api.ExecuteScript(c.Request.Context(), scriptID, req.ProfileIDs, params, closeBrowser)
	c.JSON(resultStatus(res), res)
}

type scriptStatusRequest struct {
	ProfileID int `json:"profile_id" binding:"required"`
}

// POST /api/v1/scripts/:id/status
func (h *ScriptHandler) CheckScriptStatus(c *gin.Context) {
	scriptID := c.Param("id")
	var req scriptStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res := h.api.CheckScriptStatus(c.Request.Context(), scriptID, req.ProfileID)
	if !res.Success {
		c.JSON(http.StatusBadGateway, res)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "is_running": res.IsRunning})
}

type killScriptRequest struct {
	ProfileIDs   []int `json:"profile_ids" binding:"required"`
	CloseBrowser *bool `json:"close_browser"`
}

// POST /api/v1/scripts/:id/kill
func (h *ScriptHandler) KillScript(c *gin.Context) {
	scriptID := c.Param("id")
	var req killScriptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	closeBrowser := true
	if req.CloseBrowser != nil {
		closeBrowser = *req.CloseBrowser
	}
	res := h.api.KillExecuteScript(c.Request.Context(), scriptID, req.ProfileIDs, closeBrowser)
	c.JSON(resultStatus(res), res)
}
