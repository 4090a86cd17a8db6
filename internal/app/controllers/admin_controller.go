package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/madrasa/backoffice/internal/app/models/dto"
	"github.com/madrasa/backoffice/internal/app/services"
	"github.com/madrasa/backoffice/internal/middleware"
	"github.com/madrasa/backoffice/internal/pkg/helpers"
)

// AdminController manages admin accounts. All routes require super_admin.
type AdminController struct {
	adminService services.AdminService
}

// NewAdminController creates a new AdminController
func NewAdminController(adminService services.AdminService) *AdminController {
	return &AdminController{adminService: adminService}
}

// CreateAdmin godoc
// @Summary Create admin
// @Description Grants an existing employee an admin account
// @Tags admins
// @Accept json
// @Produce json
// @Param request body dto.CreateAdminRequest true "Admin"
// @Success 201 {object} dto.Response{data=dto.AdminResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse "Employee not found"
// @Failure 409 {object} dto.ErrorResponse "Employee is already an admin"
// @Security BearerAuth
// @Router /admins [post]
func (ac *AdminController) CreateAdmin(c *gin.Context) {
	var req dto.CreateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(c, middleware.BindingError(err))
		return
	}

	admin, err := ac.adminService.CreateAdmin(c.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewSuccessResponse("Admin created successfully", dto.NewAdminResponse(admin)))
}

// ListAdmins godoc
// @Summary List admins
// @Tags admins
// @Produce json
// @Param page query int false "Page number (default 1)"
// @Param limit query int false "Page size (default 10, max 100)"
// @Success 200 {object} dto.Response{data=dto.Page[dto.AdminResponse]}
// @Failure 403 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /admins [get]
func (ac *AdminController) ListAdmins(c *gin.Context) {
	page, limit := helpers.ParsePaginationParams(c)

	admins, total, err := ac.adminService.ListAdmins(c.Request.Context(), page, limit)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	docs := make([]dto.AdminResponse, 0, len(admins))
	for _, a := range admins {
		docs = append(docs, dto.NewAdminResponse(a))
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse("Admins retrieved successfully", helpers.NewPage(docs, total, page, limit)))
}

// GetAdmin godoc
// @Summary Get admin
// @Tags admins
// @Produce json
// @Param id path int true "Admin ID"
// @Success 200 {object} dto.Response{data=dto.AdminResponse}
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /admins/{id} [get]
func (ac *AdminController) GetAdmin(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	admin, err := ac.adminService.GetAdmin(c.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse("Admin retrieved successfully", dto.NewAdminResponse(admin)))
}

// UpdateAdmin godoc
// @Summary Update admin
// @Description Absent fields are left unchanged
// @Tags admins
// @Accept json
// @Produce json
// @Param id path int true "Admin ID"
// @Param request body dto.UpdateAdminRequest true "Changes"
// @Success 200 {object} dto.Response{data=dto.AdminResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /admins/{id} [put]
func (ac *AdminController) UpdateAdmin(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	var req dto.UpdateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(c, middleware.BindingError(err))
		return
	}

	admin, err := ac.adminService.UpdateAdmin(c.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse("Admin updated successfully", dto.NewAdminResponse(admin)))
}

// DeleteAdmin godoc
// @Summary Delete admin
// @Tags admins
// @Produce json
// @Param id path int true "Admin ID"
// @Success 200 {object} dto.Response
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /admins/{id} [delete]
func (ac *AdminController) DeleteAdmin(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	if err := ac.adminService.DeleteAdmin(c.Request.Context(), id); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse("Admin deleted successfully", nil))
}
