package dto

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/madrasa/backoffice/internal/app/models"
)

// StudentRequest is the flat create/update payload of the student writer. It
// carries the student, enrollment and guardian fields in one body.
type StudentRequest struct {
	Name                string  `json:"name" binding:"required,max=150"`
	Branch              int16   `json:"branch" binding:"required,min=1,max=4"`
	BloodGroup          string  `json:"blood_group" binding:"omitempty,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
	Gender              string  `json:"gender" binding:"required,oneof=male female"`
	BirthCertificateNo  string  `json:"birth_certificate_no" binding:"omitempty,max=50"`
	RegistrationDate    string  `json:"registration_date" binding:"required" example:"2024-03-15"`
	Residential         bool    `json:"residential"`
	ResidentialCategory string  `json:"residential_category" binding:"omitempty,max=50"`
	ResidentialFee      float64 `json:"residential_fee" binding:"gte=0"`
	DayCare             bool    `json:"day_care"`
	DayCareFee          float64 `json:"day_care_fee" binding:"gte=0"`
	AdmissionFee        float64 `json:"admission_fee" binding:"gte=0"`
	MonthlyFee          float64 `json:"monthly_fee" binding:"gte=0"`
	PresentAddress      string  `json:"present_address"`
	PermanentAddress    string  `json:"permanent_address"`

	Class   string  `json:"class" binding:"required,max=30"`
	Section string  `json:"section" binding:"omitempty,max=30"`
	Group   string  `json:"group" binding:"omitempty,max=30"`
	Roll    int     `json:"roll" binding:"required,min=1"`
	Fee     float64 `json:"fee" binding:"gte=0"`

	GuardianName             string `json:"guardian_name" binding:"required,max=150"`
	GuardianRelation         string `json:"guardian_relation" binding:"required,max=50"`
	GuardianPhone            string `json:"guardian_phone" binding:"required,max=20,phone"`
	GuardianPresentAddress   string `json:"guardian_present_address"`
	GuardianPermanentAddress string `json:"guardian_permanent_address"`
}

// Record maps the payload onto the student aggregate. registrationDate must
// already be parsed by the caller.
func (r *StudentRequest) Record(registrationDate time.Time) *models.StudentRecord {
	return &models.StudentRecord{
		Student: models.Student{
			Name:                strings.TrimSpace(r.Name),
			Branch:              models.Branch(r.Branch),
			BloodGroup:          optional(r.BloodGroup),
			Gender:              r.Gender,
			BirthCertificateNo:  optional(r.BirthCertificateNo),
			RegistrationDate:    registrationDate,
			Residential:         r.Residential,
			ResidentialCategory: optional(r.ResidentialCategory),
			ResidentialFee:      decimal.NewFromFloat(r.ResidentialFee),
			DayCare:             r.DayCare,
			DayCareFee:          decimal.NewFromFloat(r.DayCareFee),
			AdmissionFee:        decimal.NewFromFloat(r.AdmissionFee),
			MonthlyFee:          decimal.NewFromFloat(r.MonthlyFee),
			PresentAddress:      optional(r.PresentAddress),
			PermanentAddress:    optional(r.PermanentAddress),
		},
		Enrollment: models.StudentEnrollment{
			Class:   strings.TrimSpace(r.Class),
			Section: optional(r.Section),
			Group:   optional(r.Group),
			Roll:    r.Roll,
			Fee:     decimal.NewFromFloat(r.Fee),
		},
		Guardian: models.StudentGuardian{
			Name:             strings.TrimSpace(r.GuardianName),
			Relation:         strings.TrimSpace(r.GuardianRelation),
			Phone:            strings.TrimSpace(r.GuardianPhone),
			PresentAddress:   optional(r.GuardianPresentAddress),
			PermanentAddress: optional(r.GuardianPermanentAddress),
		},
	}
}

// StudentResponse is the read model of one student with its current
// enrollment and guardian.
type StudentResponse struct {
	ID                  int64     `json:"id"`
	Name                string    `json:"name"`
	Branch              int16     `json:"branch"`
	BloodGroup          *string   `json:"blood_group,omitempty"`
	Gender              string    `json:"gender"`
	BirthCertificateNo  *string   `json:"birth_certificate_no,omitempty"`
	RegistrationDate    string    `json:"registration_date" example:"2024-03-15"`
	Residential         bool      `json:"residential"`
	ResidentialCategory *string   `json:"residential_category,omitempty"`
	ResidentialFee      float64   `json:"residential_fee"`
	DayCare             bool      `json:"day_care"`
	DayCareFee          float64   `json:"day_care_fee"`
	AdmissionFee        float64   `json:"admission_fee"`
	MonthlyFee          float64   `json:"monthly_fee"`
	PresentAddress      *string   `json:"present_address,omitempty"`
	PermanentAddress    *string   `json:"permanent_address,omitempty"`
	Disable             bool      `json:"disable"`
	Version             int       `json:"version"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`

	Enrollment EnrollmentResponse `json:"enrollment"`
	Guardian   GuardianResponse   `json:"guardian"`
}

// EnrollmentResponse is the enrollment part of StudentResponse.
type EnrollmentResponse struct {
	Class        string  `json:"class"`
	Section      *string `json:"section,omitempty"`
	Group        *string `json:"group,omitempty"`
	Roll         int     `json:"roll"`
	AcademicYear int     `json:"academic_year"`
	Fee          float64 `json:"fee"`
}

// GuardianResponse is the guardian part of StudentResponse.
type GuardianResponse struct {
	Name             string  `json:"name"`
	Relation         string  `json:"relation"`
	Phone            string  `json:"phone"`
	PresentAddress   *string `json:"present_address,omitempty"`
	PermanentAddress *string `json:"permanent_address,omitempty"`
}

// NewStudentResponse converts the aggregate to its API shape.
func NewStudentResponse(rec *models.StudentRecord) StudentResponse {
	s := rec.Student
	return StudentResponse{
		ID:                  s.ID,
		Name:                s.Name,
		Branch:              int16(s.Branch),
		BloodGroup:          s.BloodGroup,
		Gender:              s.Gender,
		BirthCertificateNo:  s.BirthCertificateNo,
		RegistrationDate:    s.RegistrationDate.Format("2006-01-02"),
		Residential:         s.Residential,
		ResidentialCategory: s.ResidentialCategory,
		ResidentialFee:      s.ResidentialFee.InexactFloat64(),
		DayCare:             s.DayCare,
		DayCareFee:          s.DayCareFee.InexactFloat64(),
		AdmissionFee:        s.AdmissionFee.InexactFloat64(),
		MonthlyFee:          s.MonthlyFee.InexactFloat64(),
		PresentAddress:      s.PresentAddress,
		PermanentAddress:    s.PermanentAddress,
		Disable:             s.Disable,
		Version:             s.Version,
		CreatedAt:           s.CreatedAt,
		UpdatedAt:           s.UpdatedAt,
		Enrollment: EnrollmentResponse{
			Class:        rec.Enrollment.Class,
			Section:      rec.Enrollment.Section,
			Group:        rec.Enrollment.Group,
			Roll:         rec.Enrollment.Roll,
			AcademicYear: rec.Enrollment.AcademicYear,
			Fee:          rec.Enrollment.Fee.InexactFloat64(),
		},
		Guardian: GuardianResponse{
			Name:             rec.Guardian.Name,
			Relation:         rec.Guardian.Relation,
			Phone:            rec.Guardian.Phone,
			PresentAddress:   rec.Guardian.PresentAddress,
			PermanentAddress: rec.Guardian.PermanentAddress,
		},
	}
}

// optional turns blank strings into nil so they are stored as NULL.
func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
