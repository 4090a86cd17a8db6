package services

import (
	"context"
	"fmt"

	"github.com/madrasa/backoffice/internal/app/models"
	"github.com/madrasa/backoffice/internal/app/models/dto"
	"github.com/madrasa/backoffice/internal/pkg/apperrors"
	"github.com/madrasa/backoffice/internal/pkg/auth"
	"github.com/madrasa/backoffice/internal/pkg/helpers"
	"github.com/madrasa/backoffice/internal/pkg/logger"
)

const minPasswordLength = 8

// AdminService manages admin accounts.
type AdminService interface {
	CreateAdmin(ctx context.Context, req *dto.CreateAdminRequest) (*models.Admin, error)
	GetAdmin(ctx context.Context, id int64) (*models.Admin, error)
	ListAdmins(ctx context.Context, page, limit int) ([]*models.Admin, int64, error)
	UpdateAdmin(ctx context.Context, id int64, req *dto.UpdateAdminRequest) (*models.Admin, error)
	DeleteAdmin(ctx context.Context, id int64) error
}

type adminServiceImpl struct {
	admins    AdminStore
	employees EmployeeStore
	hash      func(string) (string, error)
}

// NewAdminService creates a new admin service instance
func NewAdminService(admins AdminStore, employees EmployeeStore) AdminService {
	return &adminServiceImpl{admins: admins, employees: employees, hash: auth.HashPassword}
}

func validateRole(role string) (models.AdminRole, error) {
	r := models.AdminRole(role)
	if !r.Valid() {
		return "", apperrors.NewValidationError("role must be one of super_admin, admin, accountant", map[string]interface{}{"role": role})
	}
	return r, nil
}

// CreateAdmin turns an existing employee into an admin. The employee must exist
// and must not be an admin yet.
func (s *adminServiceImpl) CreateAdmin(ctx context.Context, req *dto.CreateAdminRequest) (*models.Admin, error) {
	role, err := validateRole(req.Role)
	if err != nil {
		return nil, err
	}
	if len(req.Password) < minPasswordLength {
		return nil, apperrors.ErrAdminPasswordTooShort
	}

	employee, err := s.employees.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return nil, fmt.Errorf("error loading employee: %w", err)
	}

	hash, err := s.hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	admin := &models.Admin{
		EmployeeID:         employee.ID,
		Role:               role,
		PasswordHash:       hash,
		AccessBoysSection:  req.AccessBoysSection,
		AccessGirlsSection: req.AccessGirlsSection,
		Employee:           employee,
	}
	if err := s.admins.Create(ctx, admin); err != nil {
		return nil, fmt.Errorf("error creating admin: %w", err)
	}

	logger.Info().Int64("adminID", admin.ID).Int64("employeeID", employee.ID).Str("role", string(role)).Msg("Admin created")
	return admin, nil
}

// GetAdmin retrieves an admin with its employee.
func (s *adminServiceImpl) GetAdmin(ctx context.Context, id int64) (*models.Admin, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: invalid admin ID", apperrors.ErrValidationFailed)
	}

	admin, err := s.admins.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error retrieving admin: %w", err)
	}
	return admin, nil
}

// ListAdmins returns one page of admins.
func (s *adminServiceImpl) ListAdmins(ctx context.Context, page, limit int) ([]*models.Admin, int64, error) {
	page, limit = helpers.NormalizePage(page, limit)

	admins, total, err := s.admins.List(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing admins: %w", err)
	}
	return admins, total, nil
}

// UpdateAdmin applies the fields present in req.
func (s *adminServiceImpl) UpdateAdmin(ctx context.Context, id int64, req *dto.UpdateAdminRequest) (*models.Admin, error) {
	admin, err := s.GetAdmin(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Role != nil {
		if admin.Role, err = validateRole(*req.Role); err != nil {
			return nil, err
		}
	}
	if req.Password != nil {
		if len(*req.Password) < minPasswordLength {
			return nil, apperrors.ErrAdminPasswordTooShort
		}
		if admin.PasswordHash, err = s.hash(*req.Password); err != nil {
			return nil, fmt.Errorf("error hashing password: %w", err)
		}
	}
	if req.AccessBoysSection != nil {
		admin.AccessBoysSection = *req.AccessBoysSection
	}
	if req.AccessGirlsSection != nil {
		admin.AccessGirlsSection = *req.AccessGirlsSection
	}

	if err := s.admins.Update(ctx, admin); err != nil {
		return nil, fmt.Errorf("error updating admin: %w", err)
	}
	return admin, nil
}

// DeleteAdmin removes an admin account. The employee is kept.
func (s *adminServiceImpl) DeleteAdmin(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid admin ID", apperrors.ErrValidationFailed)
	}

	if err := s.admins.Delete(ctx, id); err != nil {
		return fmt.Errorf("error deleting admin: %w", err)
	}
	return nil
}
