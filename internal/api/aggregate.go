package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetAggregate returns the live aggregate bundle.
// GET /api/aggregate?source=main&refresh=1
func (h *Handler) GetAggregate(c *gin.Context) {
	sourceID := c.DefaultQuery("source", h.svc.DefaultSource())
	refresh := c.Query("refresh") == "1" || c.Query("refresh") == "true"

	agg, err := h.svc.GetAggregate(c.Request.Context(), sourceID, refresh)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, agg)
}

type invalidateRequest struct {
	Source string `json:"source"`
}

// InvalidateCache drops the cached bundle for one source.
// POST /api/cache/invalidate
func (h *Handler) InvalidateCache(c *gin.Context) {
	// An empty or absent body means the default source.
	var req invalidateRequest
	_ = c.ShouldBindJSON(&req)
	if req.Source == "" {
		req.Source = h.svc.DefaultSource()
	}

	h.svc.InvalidateCache(req.Source)
	c.JSON(http.StatusOK, gin.H{"invalidated": req.Source})
}
