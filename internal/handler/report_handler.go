package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sgmi-dev/sgmi-api/internal/service"
	"github.com/sgmi-dev/sgmi-api/pkg/response"
)

// ReportHandler exposes reporting and export endpoints.
type ReportHandler struct {
	reports *service.ReportService
}

// NewReportHandler constructs ReportHandler.
func NewReportHandler(reports *service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// OrderStatistics returns work order counts by status, type and priority.
func (h *ReportHandler) OrderStatistics(c *gin.Context) {
	stats, err := h.reports.OrderStatistics(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil)
}

// InventoryStatistics returns stock totals and the below-threshold count.
func (h *ReportHandler) InventoryStatistics(c *gin.Context) {
	stats, err := h.reports.InventoryStatistics(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil)
}

// CompletedOrdersExport streams completed work orders in the given format.
func (h *ReportHandler) CompletedOrdersExport(format service.ExportFormat) gin.HandlerFunc {
	return func(c *gin.Context) {
		file, err := h.reports.ExportCompletedOrders(c.Request.Context(), format)
		if err != nil {
			response.Error(c, err)
			return
		}
		serveFile(c, file)
	}
}

// InventoryExport streams the full inventory in the given format.
func (h *ReportHandler) InventoryExport(format service.ExportFormat) gin.HandlerFunc {
	return func(c *gin.Context) {
		file, err := h.reports.ExportInventory(c.Request.Context(), format)
		if err != nil {
			response.Error(c, err)
			return
		}
		serveFile(c, file)
	}
}

func serveFile(c *gin.Context, file *service.ExportFile) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Data(http.StatusOK, file.ContentType, file.Content)
}
