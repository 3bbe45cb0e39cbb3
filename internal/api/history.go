package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/aleksandrukbogdan/pm-dashboard-sub000/internal/model"
)

// GetProjectHistory returns the full status history of one project key.
// GET /api/history?key=Site|Web
func (h *Handler) GetProjectHistory(c *gin.Context) {
	key := c.Query("key")
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing project key"})
		return
	}

	records, err := h.svc.ProjectHistory(key)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if records == nil {
		records = []model.HistoryRecord{}
	}

	c.JSON(http.StatusOK, records)
}

type durationsRequest struct {
	ProjectKeys []string `json:"projectKeys" binding:"required"`
}

// GetStatusDurations answers days-in-current-status for many keys at once.
// Keys without any history map to null.
// POST /api/durations
func (h *Handler) GetStatusDurations(c *gin.Context) {
	var req durationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "projectKeys must be an array of strings"})
		return
	}

	durations, err := h.svc.StatusDurations(req.ProjectKeys)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, durations)
}

// Compare diffs the live aggregate against the snapshot N days back.
// GET /api/compare?days=7&source=main
func (h *Handler) Compare(c *gin.Context) {
	days := h.svc.CompareDays()
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be a positive integer"})
			return
		}
		days = parsed
	}
	sourceID := c.DefaultQuery("source", h.svc.DefaultSource())

	result, err := h.svc.Compare(c.Request.Context(), sourceID, days)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}
