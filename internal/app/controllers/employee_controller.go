package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/madrasa/backoffice/internal/app/models"
	"github.com/madrasa/backoffice/internal/app/models/dto"
	"github.com/madrasa/backoffice/internal/app/services"
	"github.com/madrasa/backoffice/internal/middleware"
	"github.com/madrasa/backoffice/internal/pkg/helpers"
)

// EmployeeController handles employee operations
type EmployeeController struct {
	employeeService services.EmployeeService
}

// NewEmployeeController creates a new EmployeeController
func NewEmployeeController(employeeService services.EmployeeService) *EmployeeController {
	return &EmployeeController{employeeService: employeeService}
}

// CreateEmployee godoc
// @Summary Create employee
// @Tags employees
// @Accept json
// @Produce json
// @Param request body dto.EmployeeRequest true "Employee"
// @Success 201 {object} dto.Response{data=dto.EmployeeResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /employees [post]
func (ec *EmployeeController) CreateEmployee(c *gin.Context) {
	var req dto.EmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(c, middleware.BindingError(err))
		return
	}

	employee, err := ec.employeeService.CreateEmployee(c.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewSuccessResponse("Employee created successfully", dto.NewEmployeeResponse(employee)))
}

// ListEmployees godoc
// @Summary List employees
// @Tags employees
// @Produce json
// @Param page query int false "Page number (default 1)"
// @Param limit query int false "Page size (default 10, max 100)"
// @Param branch query string false "Branch code (1-4) or 'all'"
// @Param search query string false "Matches name or phone"
// @Success 200 {object} dto.Response{data=dto.Page[dto.EmployeeResponse]}
// @Security BearerAuth
// @Router /employees [get]
func (ec *EmployeeController) ListEmployees(c *gin.Context) {
	page, limit := helpers.ParsePaginationParams(c)
	filter := models.EmployeeFilter{
		Branch: helpers.ParseBranchFilter(c.Query("branch")),
		Search: strings.TrimSpace(c.Query("search")),
		Page:   page,
		Limit:  limit,
	}

	employees, total, err := ec.employeeService.ListEmployees(c.Request.Context(), filter)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	docs := make([]dto.EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		docs = append(docs, dto.NewEmployeeResponse(e))
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse("Employees retrieved successfully", helpers.NewPage(docs, total, page, limit)))
}

// GetEmployee godoc
// @Summary Get employee
// @Tags employees
// @Produce json
// @Param id path int true "Employee ID"
// @Success 200 {object} dto.Response{data=dto.EmployeeResponse}
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /employees/{id} [get]
func (ec *EmployeeController) GetEmployee(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	employee, err := ec.employeeService.GetEmployee(c.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse("Employee retrieved successfully", dto.NewEmployeeResponse(employee)))
}

// UpdateEmployee godoc
// @Summary Update employee
// @Tags employees
// @Accept json
// @Produce json
// @Param id path int true "Employee ID"
// @Param request body dto.EmployeeRequest true "Employee"
// @Success 200 {object} dto.Response{data=dto.EmployeeResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /employees/{id} [put]
func (ec *EmployeeController) UpdateEmployee(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	var req dto.EmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(c, middleware.BindingError(err))
		return
	}

	employee, err := ec.employeeService.UpdateEmployee(c.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse("Employee updated successfully", dto.NewEmployeeResponse(employee)))
}

// DeleteEmployee godoc
// @Summary Delete employee
// @Description Rejected with 409 while an admin account is linked to the employee
// @Tags employees
// @Produce json
// @Param id path int true "Employee ID"
// @Success 200 {object} dto.Response
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /employees/{id} [delete]
func (ec *EmployeeController) DeleteEmployee(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	if err := ec.employeeService.DeleteEmployee(c.Request.Context(), id); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse("Employee deleted successfully", nil))
}
