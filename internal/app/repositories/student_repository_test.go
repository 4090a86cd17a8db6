package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/madrasa/backoffice/internal/app/models"
	"github.com/madrasa/backoffice/internal/pkg/apperrors"
)

func sampleRecord() *models.StudentRecord {
	category := "full"
	rec := &models.StudentRecord{
		Student: models.Student{
			Name:                "Abdullah",
			Branch:              models.BranchBoys,
			Gender:              "male",
			RegistrationDate:    time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC),
			Residential:         true,
			ResidentialCategory: &category,
			ResidentialFee:      decimal.NewFromInt(1500),
			MonthlyFee:          decimal.NewFromInt(800),
		},
		Enrollment: models.StudentEnrollment{Class: "Hifz", Roll: 4, Fee: decimal.NewFromInt(800)},
		Guardian:   models.StudentGuardian{Name: "Yusuf", Relation: "father", Phone: "01700000000"},
	}
	rec.Normalize()
	return rec
}

func newMockRepo(t *testing.T) (pgxmock.PgxPoolIface, *StudentRepository) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, NewStudentRepository(mock)
}

func TestStudentRepository_CreateCommitsAllThreeRows(t *testing.T) {
	mock, repo := newMockRepo(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO students").
		WillReturnRows(pgxmock.NewRows([]string{"id", "version", "created_at", "updated_at"}).
			AddRow(int64(42), 1, now, now))
	mock.ExpectExec("INSERT INTO student_enrollments").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO student_guardians").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	rec := sampleRecord()
	require.NoError(t, repo.Create(context.Background(), rec))

	assert.Equal(t, int64(42), rec.Student.ID)
	assert.Equal(t, int64(42), rec.Enrollment.StudentID)
	assert.Equal(t, int64(42), rec.Guardian.StudentID)
	assert.Equal(t, 2024, rec.Enrollment.AcademicYear)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepository_CreateRollsBackWhenGuardianFails(t *testing.T) {
	mock, repo := newMockRepo(t)
	now := time.Now()
	guardianErr := &pgconn.PgError{Code: "23514", ConstraintName: "student_guardians_phone_check"}

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO students").
		WillReturnRows(pgxmock.NewRows([]string{"id", "version", "created_at", "updated_at"}).
			AddRow(int64(42), 1, now, now))
	mock.ExpectExec("INSERT INTO student_enrollments").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO student_guardians").
		WillReturnError(guardianErr)
	mock.ExpectRollback()

	err := repo.Create(context.Background(), sampleRecord())
	require.Error(t, err)

	var pgErr *pgconn.PgError
	require.ErrorAs(t, err, &pgErr)
	assert.Equal(t, "23514", pgErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepository_CreateDuplicateRollIsConflict(t *testing.T) {
	mock, repo := newMockRepo(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO students").
		WillReturnRows(pgxmock.NewRows([]string{"id", "version", "created_at", "updated_at"}).
			AddRow(int64(7), 1, now, now))
	mock.ExpectExec("INSERT INTO student_enrollments").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: constraintEnrollmentRoll})
	mock.ExpectRollback()

	err := repo.Create(context.Background(), sampleRecord())
	assert.ErrorIs(t, err, apperrors.ErrResourceAlreadyExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepository_UpdateBumpsVersion(t *testing.T) {
	mock, repo := newMockRepo(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE students").
		WillReturnRows(pgxmock.NewRows([]string{"disable", "version", "created_at", "updated_at"}).
			AddRow(false, 3, now, now))
	mock.ExpectExec("INSERT INTO student_enrollments").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO student_guardians").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	rec := sampleRecord()
	rec.Student.ID = 42
	expected := 2
	require.NoError(t, repo.Update(context.Background(), rec, &expected))

	assert.Equal(t, 3, rec.Student.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepository_UpdateStaleVersion(t *testing.T) {
	mock, repo := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE students").WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery("SELECT EXISTS").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	rec := sampleRecord()
	rec.Student.ID = 42
	stale := 1
	err := repo.Update(context.Background(), rec, &stale)
	assert.ErrorIs(t, err, apperrors.ErrStudentVersionConflict)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepository_UpdateMissingStudent(t *testing.T) {
	mock, repo := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE students").WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery("SELECT EXISTS").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectRollback()

	rec := sampleRecord()
	rec.Student.ID = 404
	err := repo.Update(context.Background(), rec, nil)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepository_DisableMissingStudent(t *testing.T) {
	mock, repo := newMockRepo(t)

	mock.ExpectExec("UPDATE students").WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Disable(context.Background(), 9)
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepository_GetByIDNotFound(t *testing.T) {
	mock, repo := newMockRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM students s").WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 1)
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
