package api

import (
	"github.com/gin-gonic/gin"

	"github.com/aleksandrukbogdan/pm-dashboard-sub000/internal/service"
	"github.com/aleksandrukbogdan/pm-dashboard-sub000/internal/source"
)

// Handler is the HTTP API over the dashboard service.
type Handler struct {
	svc       *service.Dashboard
	workbooks *source.ExcelSource
}

// NewHandler creates the API handler. workbooks may be nil when no upload
// directory is configured; the workbook endpoints then report unavailable.
func NewHandler(svc *service.Dashboard, workbooks *source.ExcelSource) *Handler {
	return &Handler{
		svc:       svc,
		workbooks: workbooks,
	}
}

// RegisterRoutes registers the API routes.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// Aggregate pipeline
	router.GET("/aggregate", h.GetAggregate)
	router.POST("/cache/invalidate", h.InvalidateCache)

	// Snapshots
	router.POST("/snapshots", h.CreateSnapshot)
	router.GET("/snapshots", h.ListSnapshots)
	router.GET("/snapshots/:date", h.GetSnapshot)
	router.DELETE("/snapshots/:date", h.DeleteSnapshot)

	// History
	router.GET("/history", h.GetProjectHistory)
	router.POST("/durations", h.GetStatusDurations)
	router.GET("/compare", h.Compare)

	// Workbooks
	router.POST("/workbooks", h.UploadWorkbook)
	router.GET("/workbooks", h.ListWorkbooks)

	// System
	router.GET("/status", h.GetStatus)
	router.GET("/activity", h.GetActivity)
}
