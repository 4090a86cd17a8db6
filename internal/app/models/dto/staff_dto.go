package dto

import (
	"time"

	"github.com/madrasa/backoffice/internal/app/models"
)

// EmployeeRequest is the create/update body of /employees.
type EmployeeRequest struct {
	Name        string  `json:"name" binding:"required,max=150"`
	Designation string  `json:"designation" binding:"required,max=100"`
	Phone       string  `json:"phone" binding:"required,max=20,phone"`
	Email       string  `json:"email" binding:"omitempty,email"`
	Branch      int16   `json:"branch" binding:"required,min=1,max=4"`
	JoiningDate string  `json:"joining_date" binding:"required" example:"2023-01-10"`
	Salary      float64 `json:"salary" binding:"gte=0"`
	Address     string  `json:"address" binding:"max=300"`
}

// EmployeeResponse is the API shape of an employee.
type EmployeeResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Designation string    `json:"designation"`
	Phone       string    `json:"phone"`
	Email       *string   `json:"email,omitempty"`
	Branch      int16     `json:"branch"`
	JoiningDate string    `json:"joining_date"`
	Salary      float64   `json:"salary"`
	Address     *string   `json:"address,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func NewEmployeeResponse(e *models.Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:          e.ID,
		Name:        e.Name,
		Designation: e.Designation,
		Phone:       e.Phone,
		Email:       e.Email,
		Branch:      int16(e.Branch),
		JoiningDate: e.JoiningDate.Format("2006-01-02"),
		Salary:      e.Salary.InexactFloat64(),
		Address:     e.Address,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

// CreateAdminRequest turns an existing employee into an admin.
type CreateAdminRequest struct {
	EmployeeID         int64  `json:"employee_id" binding:"required,gt=0"`
	Role               string `json:"role" binding:"required,oneof=super_admin admin accountant"`
	Password           string `json:"password" binding:"required,min=8,max=72"`
	AccessBoysSection  bool   `json:"access_boys_section"`
	AccessGirlsSection bool   `json:"access_girls_section"`
}

// UpdateAdminRequest changes role, access flags and, optionally, the password.
// Absent fields are left unchanged.
type UpdateAdminRequest struct {
	Role               *string `json:"role" binding:"omitempty,oneof=super_admin admin accountant"`
	Password           *string `json:"password" binding:"omitempty,min=8,max=72"`
	AccessBoysSection  *bool   `json:"access_boys_section"`
	AccessGirlsSection *bool   `json:"access_girls_section"`
}

// AdminResponse is the API shape of an admin. The password hash is never exposed.
type AdminResponse struct {
	ID                 int64             `json:"id"`
	EmployeeID         int64             `json:"employee_id"`
	Role               string            `json:"role"`
	AccessBoysSection  bool              `json:"access_boys_section"`
	AccessGirlsSection bool              `json:"access_girls_section"`
	Employee           *EmployeeResponse `json:"employee,omitempty"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
}

func NewAdminResponse(a *models.Admin) AdminResponse {
	resp := AdminResponse{
		ID:                 a.ID,
		EmployeeID:         a.EmployeeID,
		Role:               string(a.Role),
		AccessBoysSection:  a.AccessBoysSection,
		AccessGirlsSection: a.AccessGirlsSection,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}
	if a.Employee != nil {
		emp := NewEmployeeResponse(a.Employee)
		resp.Employee = &emp
	}
	return resp
}
