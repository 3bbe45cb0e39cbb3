package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UploadWorkbook stores an uploaded .xlsx under a source id and drops any
// cached bundle for that id.
// POST /api/workbooks (multipart: file, optional source)
func (h *Handler) UploadWorkbook(c *gin.Context) {
	if h.workbooks == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "workbook storage unavailable"})
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing uploaded file"})
		return
	}
	if !strings.HasSuffix(strings.ToLower(file.Filename), ".xlsx") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "only .xlsx workbooks are supported"})
		return
	}

	sourceID := c.PostForm("source")
	if sourceID == "" {
		sourceID = "wb-" + uuid.NewString()[:8]
	}

	path, err := h.workbooks.Path(sourceID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := c.SaveUploadedFile(file, path); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store workbook"})
		return
	}

	// The old bundle for this id no longer reflects the file on disk.
	h.svc.InvalidateCache(sourceID)

	c.JSON(http.StatusOK, gin.H{"source": sourceID})
}

// ListWorkbooks lists the registered workbook source ids.
// GET /api/workbooks
func (h *Handler) ListWorkbooks(c *gin.Context) {
	if h.workbooks == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "workbook storage unavailable"})
		return
	}

	ids, err := h.workbooks.ListWorkbooks()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if ids == nil {
		ids = []string{}
	}

	c.JSON(http.StatusOK, gin.H{"workbooks": ids})
}
