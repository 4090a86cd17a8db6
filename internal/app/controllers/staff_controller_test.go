package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/madrasa/backoffice/internal/app/models"
	"github.com/madrasa/backoffice/internal/app/models/dto"
	"github.com/madrasa/backoffice/internal/pkg/apperrors"
)

type fakeEmployeeService struct {
	employees map[int64]*models.Employee
	filter    models.EmployeeFilter
}

func (f *fakeEmployeeService) CreateEmployee(_ context.Context, req *dto.EmployeeRequest) (*models.Employee, error) {
	e := &models.Employee{ID: int64(len(f.employees) + 1), Name: req.Name, Phone: req.Phone, Branch: models.Branch(req.Branch), JoiningDate: time.Now()}
	f.employees[e.ID] = e
	return e, nil
}

func (f *fakeEmployeeService) GetEmployee(_ context.Context, id int64) (*models.Employee, error) {
	e, ok := f.employees[id]
	if !ok {
		return nil, apperrors.ErrEmployeeNotFound
	}
	return e, nil
}

func (f *fakeEmployeeService) ListEmployees(_ context.Context, filter models.EmployeeFilter) ([]*models.Employee, int64, error) {
	f.filter = filter
	out := []*models.Employee{}
	for _, e := range f.employees {
		out = append(out, e)
	}
	return out, int64(len(out)), nil
}

func (f *fakeEmployeeService) UpdateEmployee(_ context.Context, id int64, req *dto.EmployeeRequest) (*models.Employee, error) {
	e, ok := f.employees[id]
	if !ok {
		return nil, apperrors.ErrEmployeeNotFound
	}
	e.Name = req.Name
	return e, nil
}

func (f *fakeEmployeeService) DeleteEmployee(_ context.Context, id int64) error {
	if id == 1 {
		return apperrors.ErrEmployeeHasAdmin
	}
	return apperrors.ErrEmployeeNotFound
}

type fakeAdminService struct {
	created *dto.CreateAdminRequest
	updated *dto.UpdateAdminRequest
}

func (f *fakeAdminService) CreateAdmin(_ context.Context, req *dto.CreateAdminRequest) (*models.Admin, error) {
	if req.EmployeeID == 404 {
		return nil, apperrors.ErrEmployeeNotFound
	}
	if req.EmployeeID == 409 {
		return nil, apperrors.ErrAdminAlreadyExists
	}
	f.created = req
	return &models.Admin{ID: 1, EmployeeID: req.EmployeeID, Role: models.AdminRole(req.Role), PasswordHash: "$2a$12$secret"}, nil
}

func (f *fakeAdminService) GetAdmin(_ context.Context, id int64) (*models.Admin, error) {
	return nil, apperrors.ErrAdminNotFound
}

func (f *fakeAdminService) ListAdmins(_ context.Context, page, limit int) ([]*models.Admin, int64, error) {
	return []*models.Admin{{ID: 1, Role: models.RoleSuperAdmin}}, 1, nil
}

func (f *fakeAdminService) UpdateAdmin(_ context.Context, id int64, req *dto.UpdateAdminRequest) (*models.Admin, error) {
	f.updated = req
	return &models.Admin{ID: id, Role: models.RoleAdmin}, nil
}

func (f *fakeAdminService) DeleteAdmin(_ context.Context, id int64) error {
	return nil
}

func staffRouter(employees *fakeEmployeeService, admins *fakeAdminService) *gin.Engine {
	ec := NewEmployeeController(employees)
	ac := NewAdminController(admins)
	r := gin.New()

	e := r.Group("/employees")
	e.POST("", ec.CreateEmployee)
	e.GET("", ec.ListEmployees)
	e.GET("/:id", ec.GetEmployee)
	e.PUT("/:id", ec.UpdateEmployee)
	e.DELETE("/:id", ec.DeleteEmployee)

	a := r.Group("/admins")
	a.POST("", ac.CreateAdmin)
	a.GET("", ac.ListAdmins)
	a.GET("/:id", ac.GetAdmin)
	a.PUT("/:id", ac.UpdateAdmin)
	a.DELETE("/:id", ac.DeleteAdmin)
	return r
}

func TestEmployeeEndpoints(t *testing.T) {
	employees := &fakeEmployeeService{employees: map[int64]*models.Employee{}}
	r := staffRouter(employees, &fakeAdminService{})

	body := map[string]interface{}{"name": "Ahmad", "designation": "Teacher", "phone": "01800000000", "branch": 2, "joining_date": "2022-09-01", "salary": 20000}
	w, env := perform(t, r, http.MethodPost, "/employees", body, nil)
	require.Equal(t, http.StatusCreated, w.Code, string(env.Data))

	body["email"] = "not-an-email"
	w, env = perform(t, r, http.MethodPost, "/employees", body, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Message, "email must be a valid email address")

	w, _ = perform(t, r, http.MethodGet, "/employees?branch=2&search=%20ahm%20", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ahm", employees.filter.Search)

	w, _ = perform(t, r, http.MethodGet, "/employees/99", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = perform(t, r, http.MethodDelete, "/employees/1", nil, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCreateAdmin_StatusCodes(t *testing.T) {
	admins := &fakeAdminService{}
	r := staffRouter(&fakeEmployeeService{employees: map[int64]*models.Employee{}}, admins)

	body := map[string]interface{}{"employee_id": 5, "role": "accountant", "password": "password1", "access_girls_section": true}
	w, env := perform(t, r, http.MethodPost, "/admins", body, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.NotContains(t, string(env.Data), "secret", "password hash is never returned")
	require.NotNil(t, admins.created)
	assert.True(t, admins.created.AccessGirlsSection)

	body["employee_id"] = 404
	w, _ = perform(t, r, http.MethodPost, "/admins", body, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	body["employee_id"] = 409
	w, _ = perform(t, r, http.MethodPost, "/admins", body, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	body["employee_id"] = 5
	body["role"] = "janitor"
	w, _ = perform(t, r, http.MethodPost, "/admins", body, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateAndListAdmins(t *testing.T) {
	admins := &fakeAdminService{}
	r := staffRouter(&fakeEmployeeService{employees: map[int64]*models.Employee{}}, admins)

	w, _ := perform(t, r, http.MethodPut, "/admins/3", map[string]interface{}{"access_boys_section": false}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, admins.updated.AccessBoysSection)
	assert.Nil(t, admins.updated.Password)

	w, _ = perform(t, r, http.MethodPut, "/admins/3", map[string]interface{}{"password": "short"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env := perform(t, r, http.MethodGet, "/admins", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page dto.Page[dto.AdminResponse]
	require.NoError(t, json.Unmarshal(env.Data, &page))
	require.Len(t, page.Docs, 1)
	assert.Equal(t, "super_admin", page.Docs[0].Role)

	w, _ = perform(t, r, http.MethodGet, "/admins/3", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
