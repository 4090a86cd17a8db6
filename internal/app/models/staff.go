package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Employee is a staff member of the madrasa.
type Employee struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Designation string          `json:"designation"`
	Phone       string          `json:"phone"`
	Email       *string         `json:"email,omitempty"`
	Branch      Branch          `json:"branch"`
	JoiningDate time.Time       `json:"joining_date"`
	Salary      decimal.Decimal `json:"salary"`
	Address     *string         `json:"address,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// AdminRole is the permission level of an admin account.
type AdminRole string

const (
	RoleSuperAdmin AdminRole = "super_admin"
	RoleAdmin      AdminRole = "admin"
	RoleAccountant AdminRole = "accountant"
)

// Valid reports whether r is a known role.
func (r AdminRole) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleAccountant:
		return true
	}
	return false
}

// Admin wraps exactly one employee with login credentials and section access.
type Admin struct {
	ID                 int64     `json:"id"`
	EmployeeID         int64     `json:"employee_id"`
	Role               AdminRole `json:"role"`
	PasswordHash       string    `json:"-"`
	AccessBoysSection  bool      `json:"access_boys_section"`
	AccessGirlsSection bool      `json:"access_girls_section"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`

	Employee *Employee `json:"employee,omitempty"`
}

// EmployeeFilter narrows employee listings.
type EmployeeFilter struct {
	Branch *Branch
	Search string
	Page   int
	Limit  int
}
