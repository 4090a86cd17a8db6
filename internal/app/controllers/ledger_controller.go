package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/madrasa/backoffice/internal/app/models"
	"github.com/madrasa/backoffice/internal/app/models/dto"
	"github.com/madrasa/backoffice/internal/app/services"
	"github.com/madrasa/backoffice/internal/middleware"
	"github.com/madrasa/backoffice/internal/pkg/apperrors"
	"github.com/madrasa/backoffice/internal/pkg/helpers"
)

var ledgerLabels = map[models.LedgerKind]string{
	models.LedgerIncome:   "Income",
	models.LedgerDonation: "Donation",
	models.LedgerExpense:  "Expense",
}

// LedgerController serves one ledger (incomes, donations or expenses). The
// three ledgers share handlers and differ only in kind.
type LedgerController struct {
	kind          models.LedgerKind
	label         string
	ledgerService services.LedgerService
}

// NewLedgerController creates a controller bound to one ledger kind
func NewLedgerController(kind models.LedgerKind, ledgerService services.LedgerService) *LedgerController {
	return &LedgerController{kind: kind, label: ledgerLabels[kind], ledgerService: ledgerService}
}

// CreateEntry records a ledger entry for the authenticated admin
// @Summary Create ledger entry
// @Description Body is dto.IncomeRequest, dto.DonationRequest or dto.ExpenseRequest depending on the ledger
// @Tags ledgers
// @Accept json
// @Produce json
// @Param request body dto.IncomeRequest true "Ledger entry"
// @Success 201 {object} dto.Response{data=dto.IncomeResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /incomes [post]
// @Router /donations [post]
// @Router /expenses [post]
func (lc *LedgerController) CreateEntry(c *gin.Context) {
	adminID, ok := middleware.CurrentAdminID(c)
	if !ok {
		middleware.HandleAPIError(c, apperrors.ErrUnauthorized)
		return
	}

	req := dto.NewLedgerRequest(lc.kind)
	if err := c.ShouldBindJSON(req); err != nil {
		middleware.HandleAPIError(c, middleware.BindingError(err))
		return
	}

	entry, err := lc.ledgerService.CreateEntry(c.Request.Context(), lc.kind, req.Input(), adminID)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(lc.label+" created successfully", dto.NewLedgerResponse(entry)))
}

// ListEntries returns a page of ledger entries
// @Summary List ledger entries
// @Tags ledgers
// @Produce json
// @Param page query int false "Page number (default 1)"
// @Param limit query int false "Page size (default 10, max 100)"
// @Param branch query string false "Branch code (1-4) or 'all'"
// @Param type query int false "Category code"
// @Param from query string false "Inclusive start date (YYYY-MM-DD)"
// @Param to query string false "Inclusive end date (YYYY-MM-DD)"
// @Success 200 {object} dto.Response{data=dto.Page[dto.IncomeResponse]}
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /incomes [get]
// @Router /donations [get]
// @Router /expenses [get]
func (lc *LedgerController) ListEntries(c *gin.Context) {
	from, err := parseDateQuery(c, "from")
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	to, err := parseDateQuery(c, "to")
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	if to != nil {
		end := helpers.EndOfDay(*to)
		to = &end
	}

	page, limit := helpers.ParsePaginationParams(c)
	filter := models.LedgerFilter{
		Branch: helpers.ParseBranchFilter(c.Query("branch")),
		Type:   helpers.ParseOptionalInt(c.Query("type")),
		From:   from,
		To:     to,
		Page:   page,
		Limit:  limit,
	}

	entries, total, err := lc.ledgerService.ListEntries(c.Request.Context(), lc.kind, filter)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(lc.label+" entries retrieved successfully",
		helpers.NewPage(dto.NewLedgerResponses(entries), total, page, limit)))
}

// GetEntry returns one ledger entry
// @Summary Get ledger entry
// @Tags ledgers
// @Produce json
// @Param id path int true "Entry ID"
// @Success 200 {object} dto.Response{data=dto.IncomeResponse}
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /incomes/{id} [get]
// @Router /donations/{id} [get]
// @Router /expenses/{id} [get]
func (lc *LedgerController) GetEntry(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	entry, err := lc.ledgerService.GetEntry(c.Request.Context(), lc.kind, id)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(lc.label+" retrieved successfully", dto.NewLedgerResponse(entry)))
}

// UpdateEntry replaces a ledger entry's content
// @Summary Update ledger entry
// @Tags ledgers
// @Accept json
// @Produce json
// @Param id path int true "Entry ID"
// @Param request body dto.IncomeRequest true "Ledger entry"
// @Success 200 {object} dto.Response{data=dto.IncomeResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /incomes/{id} [put]
// @Router /donations/{id} [put]
// @Router /expenses/{id} [put]
func (lc *LedgerController) UpdateEntry(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	req := dto.NewLedgerRequest(lc.kind)
	if err := c.ShouldBindJSON(req); err != nil {
		middleware.HandleAPIError(c, middleware.BindingError(err))
		return
	}

	entry, err := lc.ledgerService.UpdateEntry(c.Request.Context(), lc.kind, id, req.Input())
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(lc.label+" updated successfully", dto.NewLedgerResponse(entry)))
}

// DeleteEntry removes a ledger entry
// @Summary Delete ledger entry
// @Tags ledgers
// @Produce json
// @Param id path int true "Entry ID"
// @Success 200 {object} dto.Response
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /incomes/{id} [delete]
// @Router /donations/{id} [delete]
// @Router /expenses/{id} [delete]
func (lc *LedgerController) DeleteEntry(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	if err := lc.ledgerService.DeleteEntry(c.Request.Context(), lc.kind, id); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(lc.label+" deleted successfully", nil))
}
