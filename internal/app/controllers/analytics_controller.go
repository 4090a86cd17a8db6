package controllers

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/madrasa/backoffice/internal/app/models"
	"github.com/madrasa/backoffice/internal/app/models/dto"
	"github.com/madrasa/backoffice/internal/app/services"
	"github.com/madrasa/backoffice/internal/middleware"
	"github.com/madrasa/backoffice/internal/pkg/apperrors"
	"github.com/madrasa/backoffice/internal/pkg/export"
	"github.com/madrasa/backoffice/internal/pkg/helpers"
)

// AnalyticsController serves the dashboard figures.
type AnalyticsController struct {
	analyticsService services.AnalyticsService
}

// NewAnalyticsController creates a new AnalyticsController
func NewAnalyticsController(analyticsService services.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{analyticsService: analyticsService}
}

// GetOverviewStats returns the year's ledger totals and the resulting balance
// @Summary Overview statistics
// @Description Income, donation and expense totals for the current year and the balance (income + donations - expense)
// @Tags analytics
// @Produce json
// @Param branch query string false "Branch code (1-4) or 'all'"
// @Success 200 {object} dto.Response{data=dto.OverviewStatsResponse}
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /analytics/overview-stats [get]
func (ac *AnalyticsController) GetOverviewStats(c *gin.Context) {
	totals, err := ac.analyticsService.OverviewStats(c.Request.Context(), helpers.ParseBranchFilter(c.Query("branch")))
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse("Overview stats retrieved successfully", dto.NewOverviewStatsResponse(totals)))
}

// GetReportOverview returns ledger totals over an explicit date range
// @Summary Overview for a date range
// @Tags analytics
// @Produce json
// @Param startDate query string true "Inclusive start date (YYYY-MM-DD)"
// @Param endDate query string true "Inclusive end date (YYYY-MM-DD)"
// @Param branch query string false "Branch code (1-4) or 'all'"
// @Success 200 {object} dto.Response{data=dto.OverviewStatsResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /analytics/report-overview [get]
func (ac *AnalyticsController) GetReportOverview(c *gin.Context) {
	start, err := parseDateQuery(c, "startDate")
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	end, err := parseDateQuery(c, "endDate")
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	if start == nil || end == nil {
		middleware.HandleAPIError(c, apperrors.NewValidationError("startDate and endDate are required", nil))
		return
	}

	window := models.DateRange{Start: *start, End: helpers.EndOfDay(*end)}
	totals, err := ac.analyticsService.ReportOverview(c.Request.Context(), window, helpers.ParseBranchFilter(c.Query("branch")))
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse("Report overview retrieved successfully", dto.NewOverviewStatsResponse(totals)))
}

// GetIncomeExpenseComparison returns twelve monthly income/expense rows
// @Summary Monthly income vs expense
// @Tags analytics
// @Produce json
// @Param branch query string false "Branch code (1-4) or 'all'"
// @Success 200 {object} dto.Response{data=[]dto.IncomeExpenseComparison}
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /analytics/income-expense-comparison [get]
func (ac *AnalyticsController) GetIncomeExpenseComparison(c *gin.Context) {
	rows, err := ac.analyticsService.IncomeExpenseComparison(c.Request.Context(), helpers.ParseBranchFilter(c.Query("branch")))
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse("Income and expense comparison retrieved successfully", dto.NewIncomeExpenseComparison(rows)))
}

// GetDonationsByMonth returns twelve monthly donation rows split by category
// @Summary Monthly donations by category
// @Tags analytics
// @Produce json
// @Param branch query string false "Branch code (1-4) or 'all'"
// @Success 200 {object} dto.Response{data=[]dto.DonationsByMonth}
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /analytics/donations-by-month [get]
func (ac *AnalyticsController) GetDonationsByMonth(c *gin.Context) {
	rows, err := ac.analyticsService.DonationsByMonth(c.Request.Context(), helpers.ParseBranchFilter(c.Query("branch")))
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse("Donations by month retrieved successfully", dto.NewDonationsByMonth(rows)))
}

// ExportMonthlyReport streams the monthly series as an Excel workbook
// @Summary Export monthly report
// @Tags analytics
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param branch query string false "Branch code (1-4) or 'all'"
// @Success 200 {file} file
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /analytics/monthly-report/export [get]
func (ac *AnalyticsController) ExportMonthlyReport(c *gin.Context) {
	report, err := ac.analyticsService.MonthlyReport(c.Request.Context(), helpers.ParseBranchFilter(c.Query("branch")))
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	// Render fully before writing so a failure still gets a JSON error.
	var buf bytes.Buffer
	if err := export.WriteMonthlyReport(&buf, report); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+export.FileName(report)+`"`)
	c.Data(http.StatusOK, export.ContentType, buf.Bytes())
}
