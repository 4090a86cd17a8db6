package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/madrasa/backoffice/internal/app/models"
	"github.com/madrasa/backoffice/internal/db"
	"github.com/madrasa/backoffice/internal/pkg/apperrors"
	"github.com/madrasa/backoffice/internal/pkg/dberrors"
	"github.com/madrasa/backoffice/internal/pkg/helpers"
	"github.com/madrasa/backoffice/internal/pkg/logger"
)

const (
	constraintEmployeePhone = "employees_phone_key"
	constraintAdminEmployee = "admins_employee_id_fkey"
)

// EmployeeRepository handles employee database operations
type EmployeeRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewEmployeeRepository creates a new EmployeeRepository
func NewEmployeeRepository(conn db.DBTX) *EmployeeRepository {
	return &EmployeeRepository{
		db: conn,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var employeeColumns = []string{
	"id", "name", "designation", "phone", "email", "branch", "joining_date", "salary", "address", "created_at", "updated_at",
}

func scanEmployee(row pgx.Row) (*models.Employee, error) {
	e := &models.Employee{}
	err := row.Scan(&e.ID, &e.Name, &e.Designation, &e.Phone, &e.Email, &e.Branch,
		&e.JoiningDate, &e.Salary, &e.Address, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func employeeValues(e *models.Employee) map[string]interface{} {
	return map[string]interface{}{
		"name":         e.Name,
		"designation":  e.Designation,
		"phone":        e.Phone,
		"email":        e.Email,
		"branch":       e.Branch,
		"joining_date": e.JoiningDate,
		"salary":       e.Salary,
		"address":      e.Address,
	}
}

var errEmployeePhoneTaken = apperrors.NewCustomError(apperrors.ErrResourceAlreadyExists, "an employee with this phone number already exists")

// Create inserts an employee and fills its ID and timestamps.
func (r *EmployeeRepository) Create(ctx context.Context, e *models.Employee) error {
	sql, args, err := r.sb.Insert("employees").
		SetMap(employeeValues(e)).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create employee SQL")
		return fmt.Errorf("failed to build create employee query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt); err != nil {
		if dberrors.IsDuplicateConstraintError(err, constraintEmployeePhone) {
			return errEmployeePhoneTaken
		}
		logger.Error().Err(err).Msg("Error executing create employee query")
		return fmt.Errorf("error creating employee: %w", err)
	}
	return nil
}

// GetByID retrieves an employee by ID
func (r *EmployeeRepository) GetByID(ctx context.Context, id int64) (*models.Employee, error) {
	sql, args, err := r.sb.Select(employeeColumns...).
		From("employees").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get employee query: %w", err)
	}

	e, err := scanEmployee(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEmployeeNotFound
		}
		logger.Error().Err(err).Int64("employeeID", id).Msg("Error scanning employee row")
		return nil, fmt.Errorf("error getting employee: %w", err)
	}
	return e, nil
}

func applyEmployeeFilter(q squirrel.SelectBuilder, f models.EmployeeFilter) squirrel.SelectBuilder {
	if f.Branch != nil {
		q = q.Where(squirrel.Eq{"branch": *f.Branch})
	}
	if search := strings.TrimSpace(f.Search); search != "" {
		pattern := "%" + search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"phone": pattern},
			squirrel.ILike{"designation": pattern},
		})
	}
	return q
}

// List returns one page of employees and the total match count.
func (r *EmployeeRepository) List(ctx context.Context, filter models.EmployeeFilter) ([]*models.Employee, int64, error) {
	countSQL, countArgs, err := applyEmployeeFilter(r.sb.Select("COUNT(*)").From("employees"), filter).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count employees query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting employees: %w", err)
	}

	offset, limit := helpers.CalculateOffsetLimit(filter.Page, filter.Limit)
	sql, args, err := applyEmployeeFilter(r.sb.Select(employeeColumns...).From("employees"), filter).
		OrderBy("name ASC", "id ASC").
		Limit(limit).
		Offset(offset).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list employees query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list employees query")
		return nil, 0, fmt.Errorf("error listing employees: %w", err)
	}
	defer rows.Close()

	employees := []*models.Employee{}
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning employee row: %w", err)
		}
		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating employee rows: %w", err)
	}

	return employees, total, nil
}

// Update overwrites an employee's editable fields.
func (r *EmployeeRepository) Update(ctx context.Context, e *models.Employee) error {
	sql, args, err := r.sb.Update("employees").
		SetMap(employeeValues(e)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": e.ID}).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update employee query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&e.CreatedAt, &e.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrEmployeeNotFound
		}
		if dberrors.IsDuplicateConstraintError(err, constraintEmployeePhone) {
			return errEmployeePhoneTaken
		}
		logger.Error().Err(err).Int64("employeeID", e.ID).Msg("Error executing update employee query")
		return fmt.Errorf("error updating employee: %w", err)
	}
	return nil
}

// Delete removes an employee. An employee still backing an admin account
// cannot be deleted.
func (r *EmployeeRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("employees").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete employee query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err, constraintAdminEmployee) {
			return apperrors.ErrEmployeeHasAdmin
		}
		logger.Error().Err(err).Int64("employeeID", id).Msg("Error executing delete employee query")
		return fmt.Errorf("error deleting employee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrEmployeeNotFound
	}
	return nil
}
