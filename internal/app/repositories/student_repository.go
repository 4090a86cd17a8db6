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

// Unique constraints of the student tables (see migrations).
const (
	constraintBirthCertificate = "students_birth_certificate_no_key"
	constraintEnrollmentRoll   = "student_enrollments_roll_key"
)

// StudentRepository persists the student aggregate: a student row together with
// its enrollment and guardian rows. Writes of the three always share one
// transaction.
type StudentRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(conn db.DBTX) *StudentRepository {
	return &StudentRepository{
		db: conn,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var studentRecordColumns = []string{
	"s.id", "s.name", "s.branch", "s.blood_group", "s.gender", "s.birth_certificate_no",
	"s.registration_date", "s.residential", "s.residential_category", "s.residential_fee",
	"s.day_care", "s.day_care_fee", "s.admission_fee", "s.monthly_fee",
	"s.present_address", "s.permanent_address", "s.disable", "s.version", "s.created_at", "s.updated_at",
	"e.id", "e.class", "e.section", `e."group"`, "e.roll", "e.academic_year", "e.fee",
	"g.id", "g.name", "g.relation", "g.phone", "g.present_address", "g.permanent_address",
}

func scanStudentRecord(row pgx.Row) (*models.StudentRecord, error) {
	rec := &models.StudentRecord{}
	s, e, g := &rec.Student, &rec.Enrollment, &rec.Guardian
	err := row.Scan(
		&s.ID, &s.Name, &s.Branch, &s.BloodGroup, &s.Gender, &s.BirthCertificateNo,
		&s.RegistrationDate, &s.Residential, &s.ResidentialCategory, &s.ResidentialFee,
		&s.DayCare, &s.DayCareFee, &s.AdmissionFee, &s.MonthlyFee,
		&s.PresentAddress, &s.PermanentAddress, &s.Disable, &s.Version, &s.CreatedAt, &s.UpdatedAt,
		&e.ID, &e.Class, &e.Section, &e.Group, &e.Roll, &e.AcademicYear, &e.Fee,
		&g.ID, &g.Name, &g.Relation, &g.Phone, &g.PresentAddress, &g.PermanentAddress,
	)
	if err != nil {
		return nil, err
	}
	e.StudentID = s.ID
	g.StudentID = s.ID
	return rec, nil
}

func (r *StudentRepository) recordQuery() squirrel.SelectBuilder {
	return r.sb.Select(studentRecordColumns...).
		From("students s").
		Join("student_enrollments e ON e.student_id = s.id").
		Join("student_guardians g ON g.student_id = s.id")
}

func studentValues(s *models.Student) map[string]interface{} {
	return map[string]interface{}{
		"name":                 s.Name,
		"branch":               s.Branch,
		"blood_group":          s.BloodGroup,
		"gender":               s.Gender,
		"birth_certificate_no": s.BirthCertificateNo,
		"registration_date":    s.RegistrationDate,
		"residential":          s.Residential,
		"residential_category": s.ResidentialCategory,
		"residential_fee":      s.ResidentialFee,
		"day_care":             s.DayCare,
		"day_care_fee":         s.DayCareFee,
		"admission_fee":        s.AdmissionFee,
		"monthly_fee":          s.MonthlyFee,
		"present_address":      s.PresentAddress,
		"permanent_address":    s.PermanentAddress,
	}
}

// translateWriteError maps constraint violations of the aggregate to conflicts.
func translateWriteError(err error) error {
	switch {
	case dberrors.IsDuplicateConstraintError(err, constraintBirthCertificate):
		return apperrors.NewCustomError(apperrors.ErrResourceAlreadyExists, "a student with this birth certificate number already exists")
	case dberrors.IsDuplicateConstraintError(err, constraintEnrollmentRoll):
		return apperrors.NewCustomError(apperrors.ErrResourceAlreadyExists, "roll is already taken in this class and section")
	}
	return err
}

// Create writes a new student with its enrollment and guardian. rec must be
// normalized; on success rec carries the generated ids.
func (r *StudentRepository) Create(ctx context.Context, rec *models.StudentRecord) error {
	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, err := r.sb.Insert("students").
			SetMap(studentValues(&rec.Student)).
			Suffix("RETURNING id, version, created_at, updated_at").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build create student query: %w", err)
		}

		s := &rec.Student
		if err := tx.QueryRow(ctx, sql, args...).Scan(&s.ID, &s.Version, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return fmt.Errorf("error inserting student: %w", err)
		}
		rec.Enrollment.StudentID = s.ID
		rec.Guardian.StudentID = s.ID

		return r.upsertChildren(ctx, tx, rec)
	})
	if err != nil {
		logger.Error().Err(err).Str("student", rec.Student.Name).Msg("Student create transaction aborted")
		return translateWriteError(err)
	}
	return nil
}

// Update rewrites the student, its enrollment and its guardian. When
// expectedVersion is set the write only succeeds against that stored version.
// The version is bumped on every successful update.
func (r *StudentRepository) Update(ctx context.Context, rec *models.StudentRecord, expectedVersion *int) error {
	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		where := squirrel.Eq{"id": rec.Student.ID}
		if expectedVersion != nil {
			where["version"] = *expectedVersion
		}

		sql, args, err := r.sb.Update("students").
			SetMap(studentValues(&rec.Student)).
			Set("version", squirrel.Expr("version + 1")).
			Set("updated_at", squirrel.Expr("NOW()")).
			Where(where).
			Suffix("RETURNING disable, version, created_at, updated_at").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build update student query: %w", err)
		}

		s := &rec.Student
		err = tx.QueryRow(ctx, sql, args...).Scan(&s.Disable, &s.Version, &s.CreatedAt, &s.UpdatedAt)
		if errors.Is(err, pgx.ErrNoRows) {
			return r.missingOrStale(ctx, tx, s.ID)
		}
		if err != nil {
			return fmt.Errorf("error updating student: %w", err)
		}
		rec.Enrollment.StudentID = s.ID
		rec.Guardian.StudentID = s.ID

		return r.upsertChildren(ctx, tx, rec)
	})
	if err != nil {
		logger.Error().Err(err).Int64("studentID", rec.Student.ID).Msg("Student update transaction aborted")
		return translateWriteError(err)
	}
	return nil
}

// missingOrStale explains why an update matched no row.
func (r *StudentRepository) missingOrStale(ctx context.Context, tx pgx.Tx, id int64) error {
	var exists bool
	if err := tx.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM students WHERE id = $1)", id).Scan(&exists); err != nil {
		return fmt.Errorf("error checking student existence: %w", err)
	}
	if !exists {
		return apperrors.ErrStudentNotFound
	}
	return apperrors.ErrStudentVersionConflict
}

// upsertChildren replaces the enrollment and the guardian keyed by student_id.
func (r *StudentRepository) upsertChildren(ctx context.Context, tx pgx.Tx, rec *models.StudentRecord) error {
	e := rec.Enrollment
	sql, args, err := r.sb.Insert("student_enrollments").
		Columns("student_id", "class", "section", `"group"`, "roll", "academic_year", "fee").
		Values(e.StudentID, e.Class, e.Section, e.Group, e.Roll, e.AcademicYear, e.Fee).
		Suffix(`ON CONFLICT (student_id) DO UPDATE SET class = EXCLUDED.class, section = EXCLUDED.section, ` +
			`"group" = EXCLUDED."group", roll = EXCLUDED.roll, academic_year = EXCLUDED.academic_year, ` +
			`fee = EXCLUDED.fee, updated_at = NOW()`).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build enrollment upsert: %w", err)
	}
	if _, err := tx.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error upserting enrollment: %w", err)
	}

	g := rec.Guardian
	sql, args, err = r.sb.Insert("student_guardians").
		Columns("student_id", "name", "relation", "phone", "present_address", "permanent_address").
		Values(g.StudentID, g.Name, g.Relation, g.Phone, g.PresentAddress, g.PermanentAddress).
		Suffix("ON CONFLICT (student_id) DO UPDATE SET name = EXCLUDED.name, relation = EXCLUDED.relation, " +
			"phone = EXCLUDED.phone, present_address = EXCLUDED.present_address, " +
			"permanent_address = EXCLUDED.permanent_address, updated_at = NOW()").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build guardian upsert: %w", err)
	}
	if _, err := tx.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error upserting guardian: %w", err)
	}

	return nil
}

// GetByID loads the full aggregate. Disabled students are returned too.
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*models.StudentRecord, error) {
	sql, args, err := r.recordQuery().Where(squirrel.Eq{"s.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get student query: %w", err)
	}

	rec, err := scanStudentRecord(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		logger.Error().Err(err).Int64("studentID", id).Msg("Error scanning student record")
		return nil, fmt.Errorf("error getting student: %w", err)
	}
	return rec, nil
}

func applyStudentFilter(q squirrel.SelectBuilder, f models.StudentFilter) squirrel.SelectBuilder {
	if f.Branch != nil {
		q = q.Where(squirrel.Eq{"s.branch": *f.Branch})
	}
	if f.Disabled != nil {
		q = q.Where(squirrel.Eq{"s.disable": *f.Disabled})
	}
	if search := strings.TrimSpace(f.Search); search != "" {
		pattern := "%" + search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"s.name": pattern},
			squirrel.ILike{"s.birth_certificate_no": pattern},
			squirrel.ILike{"g.phone": pattern},
		})
	}
	return q
}

// List returns one page of student aggregates and the total match count.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]*models.StudentRecord, int64, error) {
	countQuery := r.sb.Select("COUNT(*)").
		From("students s").
		Join("student_guardians g ON g.student_id = s.id")
	countSQL, countArgs, err := applyStudentFilter(countQuery, filter).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count students query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		logger.Error().Err(err).Msg("Error counting students")
		return nil, 0, fmt.Errorf("error counting students: %w", err)
	}

	offset, limit := helpers.CalculateOffsetLimit(filter.Page, filter.Limit)
	sql, args, err := applyStudentFilter(r.recordQuery(), filter).
		OrderBy("e.academic_year DESC", "s.id DESC").
		Limit(limit).
		Offset(offset).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list students query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list students query")
		return nil, 0, fmt.Errorf("error listing students: %w", err)
	}
	defer rows.Close()

	records := []*models.StudentRecord{}
	for rows.Next() {
		rec, err := scanStudentRecord(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning student row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating student rows: %w", err)
	}

	return records, total, nil
}

// Disable flags a student as disabled. Enrollment and guardian rows are kept.
func (r *StudentRepository) Disable(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Update("students").
		Set("disable", true).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build disable student query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", id).Msg("Error disabling student")
		return fmt.Errorf("error disabling student: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}
	return nil
}
