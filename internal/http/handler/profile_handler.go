package handler

import (
	"net/http"
	"strconv"

	"GemScheduler/internal/gemlogin"
	"GemScheduler/internal/repo"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ProfileHandler 档案镜像的查询 + 手动操作（直连 GemLogin）
type ProfileHandler struct {
	db  *pgxpool.Pool
	api *gemlogin.Client
}

func NewProfileHandler(db *pgxpool.Pool, api *gemlogin.Client) *ProfileHandler {
	return &ProfileHandler{db: db, api: api}
}

// GET /api/v1/profiles
func (h *ProfileHandler) ListProfiles(c *gin.Context) {
	profiles, err := repo.ListProfiles(c.Request.Context(), h.db)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"profiles": profiles, "count": len(profiles)})
}

type startProfileRequest struct {
	URL     string `json:"url"`
	WinSize string `json:"win_size"`
	WinPos  string `json:"win_pos"`
}

// POST /api/v1/profiles/:id/start
func (h *ProfileHandler) StartProfile(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid profile id"})
		return
	}
	var req startProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.URL == "" {
		req.URL = "https://google.com"
	}
	if req.WinSize == "" {
		req.WinSize = "1280,720"
	}
	res := h.api.StartProfile(c.Request.Context(), id, req.URL, req.WinSize, req.WinPos)
	c.JSON(resultStatus(res), res)
}

// POST /api/v1/profiles/:id/close
func (h *ProfileHandler) CloseProfile(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid profile id"})
		return
	}
	res := h.api.CloseProfile(c.Request.Context(), id)
	c.JSON(resultStatus(res), res)
}

type fingerprintRequest struct {
	ProfileIDs []int `json:"profile_ids" binding:"required"`
}

// POST /api/v1/fingerprint
func (h *ProfileHandler) ChangeFingerprint(c *gin.Context) {
	var req fingerprintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res := h.api.ChangeFingerprint(c.Request.Context(), req.ProfileIDs)
	c.JSON(resultStatus(res), res)
}

// resultStatus 远端操作的结果原样透传，失败统一映射成 502：
// 问题出在上游自动化服务而不是本服务
func resultStatus(res gemlogin.Result) int {
	if res.Success {
		return http.StatusOK
	}
	return http.StatusBadGateway
}
