package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"GemScheduler/internal/domain"
	"GemScheduler/internal/service"

	"github.com/gin-gonic/gin"
)

type ScheduleHandler struct {
	svc *service.ScheduleService
}

func NewScheduleHandler(svc *service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{svc: svc}
}

type scheduleRequest struct {
	Name         string `json:"name" binding:"required"`
	ScriptID     string `json:"script_id" binding:"required"`
	StartTime    string `json:"start_time" binding:"required"` // RFC3339
	EndTime      string `json:"end_time" binding:"required"`   // RFC3339
	ProfileDelay int    `json:"profile_delay"`
	LoopDelay    int    `json:"loop_delay"`
	ProfileIDs   []int  `json:"profile_ids" binding:"required"`
	CreatedBy    *int   `json:"created_by"`
}

func (r scheduleRequest) toParams() (service.ScheduleParams, error) {
	start, err := time.Parse(time.RFC3339, r.StartTime)
	if err != nil {
		return service.ScheduleParams{}, errors.New("invalid start_time")
	}
	end, err := time.Parse(time.RFC3339, r.EndTime)
	if err != nil {
		return service.ScheduleParams{}, errors.New("invalid end_time")
	}
	return service.ScheduleParams{
		Name:         r.Name,
		ScriptID:     r.ScriptID,
		StartTime:    start,
		EndTime:      end,
		ProfileDelay: r.ProfileDelay,
		LoopDelay:    r.LoopDelay,
		ProfileIDs:   r.ProfileIDs,
		CreatedBy:    r.CreatedBy,
	}, nil
}

func isValidationErr(err error) bool {
	return errors.Is(err, service.ErrEndBeforeStart) ||
		errors.Is(err, service.ErrNegativeDelay) ||
		errors.Is(err, service.ErrNoProfiles)
}

// POST /api/v1/schedules
func (h *ScheduleHandler) CreateSchedule(c *gin.Context) {
	var req scheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	params, err := req.toParams()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id, err := h.svc.CreateSchedule(c.Request.Context(), params)
	if err != nil {
		if isValidationErr(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"schedule_id": id, "status": domain.StatusPending})
}

// GET /api/v1/schedules?status=pending|running|completed|stopped
func (h *ScheduleHandler) ListSchedules(c *gin.Context) {
	schedules, err := h.svc.ListSchedules(c.Request.Context(), c.Query("status"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"schedules": schedules})
}

// GET /api/v1/schedules/:id
func (h *ScheduleHandler) GetSchedule(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	sch, profiles, err := h.svc.GetSchedule(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "schedule not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"schedule": sch, "profiles": profiles})
}

// PUT /api/v1/schedules/:id
func (h *ScheduleHandler) UpdateSchedule(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req scheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	params, err := req.toParams()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.svc.UpdateSchedule(c.Request.Context(), id, params); err != nil {
		if isValidationErr(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"schedule_id": id})
}

// DELETE /api/v1/schedules/:id
func (h *ScheduleHandler) DeleteSchedule(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := h.svc.DeleteSchedule(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"schedule_id": id, "deleted": true})
}

// POST /api/v1/schedules/:id/stop
func (h *ScheduleHandler) StopSchedule(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := h.svc.StopSchedule(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrInvalidTransition) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"schedule_id": id, "status": domain.StatusStopped})
}

// POST /api/v1/schedules/:id/restart
func (h *ScheduleHandler) RestartSchedule(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := h.svc.RestartSchedule(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrInvalidTransition) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"schedule_id": id, "status": domain.StatusPending})
}

// GET /api/v1/schedules/:id/logs?limit=100
func (h *ScheduleHandler) ListLogs(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	logs, err := h.svc.ListLogs(c.Request.Context(), id, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": logs})
}
