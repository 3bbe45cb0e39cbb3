package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aleksandrukbogdan/pm-dashboard-sub000/internal/model"
)

type createSnapshotRequest struct {
	Source string `json:"source"`
}

// CreateSnapshot computes a fresh bundle and persists today's snapshot.
// POST /api/snapshots
func (h *Handler) CreateSnapshot(c *gin.Context) {
	var req createSnapshotRequest
	_ = c.ShouldBindJSON(&req)
	if req.Source == "" {
		req.Source = h.svc.DefaultSource()
	}

	meta, err := h.svc.CreateSnapshot(c.Request.Context(), req.Source)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, meta)
}

// ListSnapshots lists stored snapshots, newest first.
// GET /api/snapshots
func (h *Handler) ListSnapshots(c *gin.Context) {
	metas, err := h.svc.Snapshots()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if metas == nil {
		metas = []model.SnapshotMeta{}
	}

	c.JSON(http.StatusOK, metas)
}

// GetSnapshot returns one stored snapshot.
// GET /api/snapshots/:date
func (h *Handler) GetSnapshot(c *gin.Context) {
	dateKey, ok := parseDateKey(c)
	if !ok {
		return
	}

	snap, err := h.svc.Snapshot(dateKey)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if snap == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "snapshot not found"})
		return
	}

	c.JSON(http.StatusOK, snap)
}

// DeleteSnapshot removes one snapshot and its history rows.
// DELETE /api/snapshots/:date
func (h *Handler) DeleteSnapshot(c *gin.Context) {
	dateKey, ok := parseDateKey(c)
	if !ok {
		return
	}

	deleted, err := h.svc.DeleteSnapshot(dateKey)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

func parseDateKey(c *gin.Context) (string, bool) {
	dateKey := c.Param("date")
	if _, err := time.Parse(model.DateKeyLayout, dateKey); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
		return "", false
	}
	return dateKey, true
}
