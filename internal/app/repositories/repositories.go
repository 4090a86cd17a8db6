package repositories

import (
	"github.com/madrasa/backoffice/internal/db"
)

// Repositories holds all the repository instances
type Repositories struct {
	StudentRepository   *StudentRepository
	LedgerRepository    *LedgerRepository
	AnalyticsRepository *AnalyticsRepository
	EmployeeRepository  *EmployeeRepository
	AdminRepository     *AdminRepository
}

// NewRepositories initializes all repositories on one connection source,
// normally the pgx pool.
func NewRepositories(conn db.DBTX) *Repositories {
	return &Repositories{
		StudentRepository:   NewStudentRepository(conn),
		LedgerRepository:    NewLedgerRepository(conn),
		AnalyticsRepository: NewAnalyticsRepository(conn),
		EmployeeRepository:  NewEmployeeRepository(conn),
		AdminRepository:     NewAdminRepository(conn),
	}
}
