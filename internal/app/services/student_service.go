package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/madrasa/backoffice/internal/app/models"
	"github.com/madrasa/backoffice/internal/app/models/dto"
	"github.com/madrasa/backoffice/internal/pkg/apperrors"
	"github.com/madrasa/backoffice/internal/pkg/helpers"
	"github.com/madrasa/backoffice/internal/pkg/logger"
)

// StudentService writes and reads the student aggregate.
type StudentService interface {
	CreateStudent(ctx context.Context, req *dto.StudentRequest) (*models.StudentRecord, error)
	UpdateStudent(ctx context.Context, id int64, req *dto.StudentRequest, expectedVersion *int) (*models.StudentRecord, error)
	GetStudent(ctx context.Context, id int64) (*models.StudentRecord, error)
	ListStudents(ctx context.Context, filter models.StudentFilter) ([]*models.StudentRecord, int64, error)
	DisableStudent(ctx context.Context, id int64) error
}

type studentServiceImpl struct {
	store StudentStore
}

// NewStudentService creates a new student service instance
func NewStudentService(store StudentStore) StudentService {
	return &studentServiceImpl{store: store}
}

// buildRecord validates the payload and turns it into a normalized aggregate.
// It runs before any transaction is opened.
func (s *studentServiceImpl) buildRecord(req *dto.StudentRequest) (*models.StudentRecord, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: student payload is nil", apperrors.ErrValidationFailed)
	}

	registrationDate, err := helpers.ParseDate(req.RegistrationDate, dateLocation)
	if err != nil {
		return nil, apperrors.ErrInvalidRegistrationDate
	}
	if req.Residential && strings.TrimSpace(req.ResidentialCategory) == "" {
		return nil, apperrors.ErrResidentialCategory
	}
	if !models.Branch(req.Branch).Valid() {
		return nil, apperrors.NewValidationError("branch must be one of 1, 2, 3, 4", map[string]interface{}{"branch": req.Branch})
	}

	rec := req.Record(registrationDate)
	rec.Normalize()
	return rec, nil
}

// CreateStudent writes the student, its enrollment and its guardian as one unit.
func (s *studentServiceImpl) CreateStudent(ctx context.Context, req *dto.StudentRequest) (*models.StudentRecord, error) {
	rec, err := s.buildRecord(req)
	if err != nil {
		return nil, err
	}

	if err := s.store.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("error creating student: %w", err)
	}

	logger.Info().Int64("studentID", rec.Student.ID).Int("academicYear", rec.Enrollment.AcademicYear).Msg("Student created")
	return rec, nil
}

// UpdateStudent rewrites the whole aggregate. The academic year is derived
// again from the registration date. A non-nil expectedVersion must match the
// stored version.
func (s *studentServiceImpl) UpdateStudent(ctx context.Context, id int64, req *dto.StudentRequest, expectedVersion *int) (*models.StudentRecord, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: invalid student ID", apperrors.ErrValidationFailed)
	}

	rec, err := s.buildRecord(req)
	if err != nil {
		return nil, err
	}
	rec.Student.ID = id
	rec.Normalize()

	if err := s.store.Update(ctx, rec, expectedVersion); err != nil {
		return nil, fmt.Errorf("error updating student: %w", err)
	}

	logger.Info().Int64("studentID", id).Int("version", rec.Student.Version).Msg("Student updated")
	return rec, nil
}

// GetStudent retrieves one student with its enrollment and guardian.
func (s *studentServiceImpl) GetStudent(ctx context.Context, id int64) (*models.StudentRecord, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: invalid student ID", apperrors.ErrValidationFailed)
	}

	rec, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}
	return rec, nil
}

// ListStudents returns one page of students.
func (s *studentServiceImpl) ListStudents(ctx context.Context, filter models.StudentFilter) ([]*models.StudentRecord, int64, error) {
	filter.Page, filter.Limit = helpers.NormalizePage(filter.Page, filter.Limit)

	records, total, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing students: %w", err)
	}
	return records, total, nil
}

// DisableStudent soft-deletes a student. Enrollment and guardian rows stay
// untouched.
func (s *studentServiceImpl) DisableStudent(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid student ID", apperrors.ErrValidationFailed)
	}

	if err := s.store.Disable(ctx, id); err != nil {
		return fmt.Errorf("error disabling student: %w", err)
	}
	return nil
}
