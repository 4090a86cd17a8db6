package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Student is the core identity row of a pupil. Disable is the soft-delete flag.
type Student struct {
	ID                  int64           `json:"id"`
	Name                string          `json:"name"`
	Branch              Branch          `json:"branch"`
	BloodGroup          *string         `json:"blood_group,omitempty"`
	Gender              string          `json:"gender"`
	BirthCertificateNo  *string         `json:"birth_certificate_no,omitempty"`
	RegistrationDate    time.Time       `json:"registration_date"`
	Residential         bool            `json:"residential"`
	ResidentialCategory *string         `json:"residential_category,omitempty"`
	ResidentialFee      decimal.Decimal `json:"residential_fee"`
	DayCare             bool            `json:"day_care"`
	DayCareFee          decimal.Decimal `json:"day_care_fee"`
	AdmissionFee        decimal.Decimal `json:"admission_fee"`
	MonthlyFee          decimal.Decimal `json:"monthly_fee"`
	PresentAddress      *string         `json:"present_address,omitempty"`
	PermanentAddress    *string         `json:"permanent_address,omitempty"`
	Disable             bool            `json:"disable"`
	Version             int             `json:"version"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

// StudentEnrollment is the class placement of a student for one academic year.
type StudentEnrollment struct {
	ID           int64           `json:"id"`
	StudentID    int64           `json:"student_id"`
	Class        string          `json:"class"`
	Section      *string         `json:"section,omitempty"`
	Group        *string         `json:"group,omitempty"`
	Roll         int             `json:"roll"`
	AcademicYear int             `json:"academic_year"`
	Fee          decimal.Decimal `json:"fee"`
}

// StudentGuardian is the single guardian on record for a student.
type StudentGuardian struct {
	ID               int64   `json:"id"`
	StudentID        int64   `json:"student_id"`
	Name             string  `json:"name"`
	Relation         string  `json:"relation"`
	Phone            string  `json:"phone"`
	PresentAddress   *string `json:"present_address,omitempty"`
	PermanentAddress *string `json:"permanent_address,omitempty"`
}

// StudentRecord is the aggregate written and read as one unit: a student is only
// complete together with its current enrollment and its guardian.
type StudentRecord struct {
	Student    Student           `json:"student"`
	Enrollment StudentEnrollment `json:"enrollment"`
	Guardian   StudentGuardian   `json:"guardian"`
}

// Normalize applies the residential rule and derives the academic year from the
// registration date. It must run before every write of the aggregate.
func (r *StudentRecord) Normalize() {
	if !r.Student.Residential {
		r.Student.ResidentialCategory = nil
		r.Student.ResidentialFee = decimal.Zero
	}
	r.Enrollment.AcademicYear = r.Student.RegistrationDate.Year()
	r.Enrollment.StudentID = r.Student.ID
	r.Guardian.StudentID = r.Student.ID
}

// StudentFilter narrows student listings.
type StudentFilter struct {
	Branch   *Branch
	Search   string
	Disabled *bool
	Page     int
	Limit    int
}
