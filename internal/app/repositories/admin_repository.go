package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/madrasa/backoffice/internal/app/models"
	"github.com/madrasa/backoffice/internal/db"
	"github.com/madrasa/backoffice/internal/pkg/apperrors"
	"github.com/madrasa/backoffice/internal/pkg/dberrors"
	"github.com/madrasa/backoffice/internal/pkg/helpers"
	"github.com/madrasa/backoffice/internal/pkg/logger"
)

const constraintAdminEmployeeUnique = "admins_employee_id_key"

// AdminRepository handles admin accounts. Every admin wraps exactly one employee.
type AdminRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewAdminRepository creates a new AdminRepository
func NewAdminRepository(conn db.DBTX) *AdminRepository {
	return &AdminRepository{
		db: conn,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var adminColumns = []string{
	"a.id", "a.employee_id", "a.role", "a.password_hash", "a.access_boys_section", "a.access_girls_section",
	"a.created_at", "a.updated_at",
	"e.id", "e.name", "e.designation", "e.phone", "e.email", "e.branch", "e.joining_date", "e.salary",
	"e.address", "e.created_at", "e.updated_at",
}

func scanAdmin(row pgx.Row) (*models.Admin, error) {
	a := &models.Admin{Employee: &models.Employee{}}
	e := a.Employee
	err := row.Scan(
		&a.ID, &a.EmployeeID, &a.Role, &a.PasswordHash, &a.AccessBoysSection, &a.AccessGirlsSection,
		&a.CreatedAt, &a.UpdatedAt,
		&e.ID, &e.Name, &e.Designation, &e.Phone, &e.Email, &e.Branch, &e.JoiningDate, &e.Salary,
		&e.Address, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *AdminRepository) adminQuery() squirrel.SelectBuilder {
	return r.sb.Select(adminColumns...).
		From("admins a").
		Join("employees e ON e.id = a.employee_id")
}

// Create inserts an admin for an existing employee.
func (r *AdminRepository) Create(ctx context.Context, a *models.Admin) error {
	sql, args, err := r.sb.Insert("admins").
		Columns("employee_id", "role", "password_hash", "access_boys_section", "access_girls_section").
		Values(a.EmployeeID, a.Role, a.PasswordHash, a.AccessBoysSection, a.AccessGirlsSection).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create admin SQL")
		return fmt.Errorf("failed to build create admin query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt); err != nil {
		switch {
		case dberrors.IsDuplicateConstraintError(err, constraintAdminEmployeeUnique):
			return apperrors.ErrAdminAlreadyExists
		case dberrors.IsForeignKeyViolation(err, constraintAdminEmployee):
			return apperrors.ErrEmployeeNotFound
		}
		logger.Error().Err(err).Int64("employeeID", a.EmployeeID).Msg("Error executing create admin query")
		return fmt.Errorf("error creating admin: %w", err)
	}
	return nil
}

// GetByID retrieves an admin together with its employee.
func (r *AdminRepository) GetByID(ctx context.Context, id int64) (*models.Admin, error) {
	sql, args, err := r.adminQuery().Where(squirrel.Eq{"a.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get admin query: %w", err)
	}

	a, err := scanAdmin(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAdminNotFound
		}
		logger.Error().Err(err).Int64("adminID", id).Msg("Error scanning admin row")
		return nil, fmt.Errorf("error getting admin: %w", err)
	}
	return a, nil
}

// List returns one page of admins and the total count.
func (r *AdminRepository) List(ctx context.Context, page, limit int) ([]*models.Admin, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM admins").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting admins: %w", err)
	}

	offset, size := helpers.CalculateOffsetLimit(page, limit)
	sql, args, err := r.adminQuery().
		OrderBy("a.id ASC").
		Limit(size).
		Offset(offset).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list admins query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list admins query")
		return nil, 0, fmt.Errorf("error listing admins: %w", err)
	}
	defer rows.Close()

	admins := []*models.Admin{}
	for rows.Next() {
		a, err := scanAdmin(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning admin row: %w", err)
		}
		admins = append(admins, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating admin rows: %w", err)
	}

	return admins, total, nil
}

// Update overwrites role, password hash and access flags.
func (r *AdminRepository) Update(ctx context.Context, a *models.Admin) error {
	sql, args, err := r.sb.Update("admins").
		SetMap(map[string]interface{}{
			"role":                 a.Role,
			"password_hash":        a.PasswordHash,
			"access_boys_section":  a.AccessBoysSection,
			"access_girls_section": a.AccessGirlsSection,
			"updated_at":           squirrel.Expr("NOW()"),
		}).
		Where(squirrel.Eq{"id": a.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update admin query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("adminID", a.ID).Msg("Error executing update admin query")
		return fmt.Errorf("error updating admin: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrAdminNotFound
	}
	return nil
}

// Delete removes an admin account; the employee stays.
func (r *AdminRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("admins").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete admin query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("adminID", id).Msg("Error executing delete admin query")
		return fmt.Errorf("error deleting admin: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrAdminNotFound
	}
	return nil
}

// HasRole reports whether at least one admin with role exists.
func (r *AdminRepository) HasRole(ctx context.Context, role models.AdminRole) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM admins WHERE role = $1)", role).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking admin role: %w", err)
	}
	return exists, nil
}
