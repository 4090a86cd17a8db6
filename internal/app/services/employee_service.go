package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/madrasa/backoffice/internal/app/models"
	"github.com/madrasa/backoffice/internal/app/models/dto"
	"github.com/madrasa/backoffice/internal/pkg/apperrors"
	"github.com/madrasa/backoffice/internal/pkg/helpers"
)

// EmployeeService defines the interface for employee-related operations
type EmployeeService interface {
	CreateEmployee(ctx context.Context, req *dto.EmployeeRequest) (*models.Employee, error)
	GetEmployee(ctx context.Context, id int64) (*models.Employee, error)
	ListEmployees(ctx context.Context, filter models.EmployeeFilter) ([]*models.Employee, int64, error)
	UpdateEmployee(ctx context.Context, id int64, req *dto.EmployeeRequest) (*models.Employee, error)
	DeleteEmployee(ctx context.Context, id int64) error
}

type employeeServiceImpl struct {
	store EmployeeStore
}

// NewEmployeeService creates a new employee service instance
func NewEmployeeService(store EmployeeStore) EmployeeService {
	return &employeeServiceImpl{store: store}
}

func (s *employeeServiceImpl) buildEmployee(req *dto.EmployeeRequest) (*models.Employee, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: employee payload is nil", apperrors.ErrValidationFailed)
	}

	joiningDate, err := helpers.ParseDate(req.JoiningDate, dateLocation)
	if err != nil {
		return nil, apperrors.NewValidationError("joining_date must be a valid date", map[string]interface{}{"joining_date": req.JoiningDate})
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name cannot be empty", apperrors.ErrValidationFailed)
	}
	branch := models.Branch(req.Branch)
	if !branch.Valid() {
		return nil, apperrors.NewValidationError("branch must be one of 1, 2, 3, 4", map[string]interface{}{"branch": req.Branch})
	}

	e := &models.Employee{
		Name:        strings.TrimSpace(req.Name),
		Designation: strings.TrimSpace(req.Designation),
		Phone:       strings.TrimSpace(req.Phone),
		Branch:      branch,
		JoiningDate: joiningDate,
		Salary:      money(req.Salary),
	}
	if email := strings.TrimSpace(req.Email); email != "" {
		e.Email = &email
	}
	if address := strings.TrimSpace(req.Address); address != "" {
		e.Address = &address
	}
	return e, nil
}

// CreateEmployee creates a new employee
func (s *employeeServiceImpl) CreateEmployee(ctx context.Context, req *dto.EmployeeRequest) (*models.Employee, error) {
	e, err := s.buildEmployee(req)
	if err != nil {
		return nil, err
	}

	if err := s.store.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("error creating employee: %w", err)
	}
	return e, nil
}

// GetEmployee retrieves an employee by ID
func (s *employeeServiceImpl) GetEmployee(ctx context.Context, id int64) (*models.Employee, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: invalid employee ID", apperrors.ErrValidationFailed)
	}

	e, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error retrieving employee: %w", err)
	}
	return e, nil
}

// ListEmployees returns one page of employees
func (s *employeeServiceImpl) ListEmployees(ctx context.Context, filter models.EmployeeFilter) ([]*models.Employee, int64, error) {
	filter.Page, filter.Limit = helpers.NormalizePage(filter.Page, filter.Limit)

	employees, total, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing employees: %w", err)
	}
	return employees, total, nil
}

// UpdateEmployee updates an existing employee
func (s *employeeServiceImpl) UpdateEmployee(ctx context.Context, id int64, req *dto.EmployeeRequest) (*models.Employee, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: invalid employee ID", apperrors.ErrValidationFailed)
	}

	e, err := s.buildEmployee(req)
	if err != nil {
		return nil, err
	}
	e.ID = id

	if err := s.store.Update(ctx, e); err != nil {
		return nil, fmt.Errorf("error updating employee: %w", err)
	}
	return e, nil
}

// DeleteEmployee deletes an employee that does not back an admin account
func (s *employeeServiceImpl) DeleteEmployee(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid employee ID", apperrors.ErrValidationFailed)
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("error deleting employee: %w", err)
	}
	return nil
}
