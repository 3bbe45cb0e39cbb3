package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/aleksandrukbogdan/pm-dashboard-sub000/internal/model"
)

// StatusResponse describes the overall system state.
type StatusResponse struct {
	Initialized      bool   `json:"initialized"`      // at least one snapshot stored
	SnapshotCount    int    `json:"snapshotCount"`    // stored snapshots
	LastSnapshotDate string `json:"lastSnapshotDate"` // newest date key, if any
	DefaultSource    string `json:"defaultSource"`    // source id used by default
}

// GetStatus reports the system state.
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	metas, err := h.svc.Snapshots()
	if err != nil {
		// An unreadable store is a failure, not an empty one.
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := StatusResponse{
		Initialized:   len(metas) > 0,
		SnapshotCount: len(metas),
		DefaultSource: h.svc.DefaultSource(),
	}
	if len(metas) > 0 {
		resp.LastSnapshotDate = metas[0].DateKey
	}

	c.JSON(http.StatusOK, resp)
}

// GetActivity returns the newest audit entries.
// GET /api/activity?limit=50
func (h *Handler) GetActivity(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	entries, err := h.svc.Activity(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if entries == nil {
		entries = []model.ActivityEntry{}
	}

	c.JSON(http.StatusOK, entries)
}
