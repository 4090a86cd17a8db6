package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/madrasa/backoffice/internal/app/models"
	"github.com/madrasa/backoffice/internal/app/models/dto"
	"github.com/madrasa/backoffice/internal/app/services"
	"github.com/madrasa/backoffice/internal/middleware"
	"github.com/madrasa/backoffice/internal/pkg/apperrors"
	"github.com/madrasa/backoffice/internal/pkg/helpers"
)

// StudentController handles student enrollment endpoints
type StudentController struct {
	studentService services.StudentService
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService services.StudentService) *StudentController {
	return &StudentController{studentService: studentService}
}

// CreateStudent registers a student with enrollment and guardian
// @Summary Create student
// @Description Writes the student, its enrollment and its guardian in one transaction
// @Tags students
// @Accept json
// @Produce json
// @Param request body dto.StudentRequest true "Student, enrollment and guardian fields"
// @Success 201 {object} dto.Response
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /students/create-student [post]
func (sc *StudentController) CreateStudent(c *gin.Context) {
	var req dto.StudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(c, middleware.BindingError(err))
		return
	}

	if _, err := sc.studentService.CreateStudent(c.Request.Context(), &req); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewSuccessResponse("Student created successfully", nil))
}

// UpdateStudent replaces a student's fields, enrollment and guardian
// @Summary Update student
// @Description Optional If-Match header carries the expected version; a mismatch is rejected with 409
// @Tags students
// @Accept json
// @Produce json
// @Param id path int true "Student ID"
// @Param If-Match header int false "Expected student version"
// @Param request body dto.StudentRequest true "Student, enrollment and guardian fields"
// @Success 200 {object} dto.Response
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /students/{id} [put]
func (sc *StudentController) UpdateStudent(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	expectedVersion, err := parseIfMatch(c.GetHeader("If-Match"))
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	var req dto.StudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(c, middleware.BindingError(err))
		return
	}

	rec, err := sc.studentService.UpdateStudent(c.Request.Context(), id, &req, expectedVersion)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.Header("ETag", strconv.Itoa(rec.Student.Version))
	c.JSON(http.StatusOK, dto.NewSuccessResponse("Student updated successfully", nil))
}

// GetStudent returns one student with enrollment and guardian
// @Summary Get student
// @Tags students
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} dto.Response{data=dto.StudentResponse}
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /students/{id} [get]
func (sc *StudentController) GetStudent(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	rec, err := sc.studentService.GetStudent(c.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.Header("ETag", strconv.Itoa(rec.Student.Version))
	c.JSON(http.StatusOK, dto.NewSuccessResponse("Student retrieved successfully", dto.NewStudentResponse(rec)))
}

// ListStudents returns a page of students
// @Summary List students
// @Tags students
// @Produce json
// @Param page query int false "Page number (default 1)"
// @Param limit query int false "Page size (default 10, max 100)"
// @Param branch query string false "Branch code (1-4) or 'all'"
// @Param search query string false "Matches name, birth certificate number or guardian phone"
// @Param disabled query bool false "Filter on the disable flag"
// @Success 200 {object} dto.Response{data=dto.Page[dto.StudentResponse]}
// @Security BearerAuth
// @Router /students [get]
func (sc *StudentController) ListStudents(c *gin.Context) {
	page, limit := helpers.ParsePaginationParams(c)
	filter := models.StudentFilter{
		Branch:   helpers.ParseBranchFilter(c.Query("branch")),
		Search:   strings.TrimSpace(c.Query("search")),
		Disabled: helpers.ParseOptionalBool(c.Query("disabled")),
		Page:     page,
		Limit:    limit,
	}

	records, total, err := sc.studentService.ListStudents(c.Request.Context(), filter)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	docs := make([]dto.StudentResponse, 0, len(records))
	for _, rec := range records {
		docs = append(docs, dto.NewStudentResponse(rec))
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse("Students retrieved successfully", helpers.NewPage(docs, total, page, limit)))
}

// DisableStudent soft-deletes a student
// @Summary Disable student
// @Description Sets disable=true; enrollment and guardian rows are kept
// @Tags students
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} dto.Response
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /students/{id} [delete]
func (sc *StudentController) DisableStudent(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	if err := sc.studentService.DisableStudent(c.Request.Context(), id); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse("Student disabled successfully", nil))
}

// parseIfMatch accepts a bare or quoted version number; an empty header means
// no version check.
func parseIfMatch(header string) (*int, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return nil, nil
	}
	raw := strings.Trim(strings.TrimPrefix(header, "W/"), `"`)
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return nil, apperrors.NewBadRequestError("If-Match must carry a student version number")
	}
	return &v, nil
}
