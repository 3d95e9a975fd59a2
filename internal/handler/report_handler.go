package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"canopy/internal/errors"
	"canopy/internal/middleware"
	"canopy/internal/service"
)

// ReportHandler serves aggregate reports and their CSV export.
type ReportHandler struct {
	reportService service.ReportService
}

// NewReportHandler creates a new report handler.
func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Generate godoc
// @Summary Generate an aggregate report over approved trees
// @Tags reports
// @Produce json
// @Param type query string false "tree-health|trees-by-species|planting-activity|user-contributions|tree-growth"
// @Param timeFrame query string false "week|month|year|all-time"
// @Success 200 {object} service.Report
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /api/reports [get]
func (h *ReportHandler) Generate(c echo.Context) error {
	user, _ := middleware.CurrentUser(c)

	reportType := c.QueryParam("type")
	if reportType == "" {
		reportType = service.ReportTreeHealth
	}
	timeFrame := c.QueryParam("timeFrame")
	if timeFrame == "" {
		timeFrame = service.TimeFrameAllTime
	}

	report, err := h.reportService.Generate(c.Request().Context(), user, reportType, timeFrame)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, report)
}

// Export godoc
// @Summary Export a report as CSV or JSON
// @Tags reports
// @Produce json
// @Produce text/csv
// @Param type query string false "Report type"
// @Param timeFrame query string false "week|month|year|all-time"
// @Param format query string false "json|csv"
// @Success 200 {object} service.Report
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /api/reports/export [get]
func (h *ReportHandler) Export(c echo.Context) error {
	user, _ := middleware.CurrentUser(c)

	reportType := c.QueryParam("type")
	if reportType == "" {
		reportType = service.ReportTreeHealth
	}
	timeFrame := c.QueryParam("timeFrame")
	if timeFrame == "" {
		timeFrame = service.TimeFrameAllTime
	}

	report, err := h.reportService.Generate(c.Request().Context(), user, reportType, timeFrame)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	if c.QueryParam("format") != "csv" {
		return c.JSON(http.StatusOK, report)
	}

	content, filename, err := h.reportService.ExportCSV(report, reportType)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, "text/csv", content)
}
