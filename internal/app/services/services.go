package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/madrasa/backoffice/internal/app/models"
	"github.com/madrasa/backoffice/internal/app/repositories"
	"github.com/madrasa/backoffice/internal/config"
)

// Storage contracts the services depend on. The repositories package provides
// the PostgreSQL implementations; tests use in-memory fakes.

type StudentStore interface {
	Create(ctx context.Context, rec *models.StudentRecord) error
	Update(ctx context.Context, rec *models.StudentRecord, expectedVersion *int) error
	GetByID(ctx context.Context, id int64) (*models.StudentRecord, error)
	List(ctx context.Context, filter models.StudentFilter) ([]*models.StudentRecord, int64, error)
	Disable(ctx context.Context, id int64) error
}

type LedgerStore interface {
	Create(ctx context.Context, entry *models.LedgerEntry) error
	GetByID(ctx context.Context, kind models.LedgerKind, id int64) (*models.LedgerEntry, error)
	List(ctx context.Context, kind models.LedgerKind, filter models.LedgerFilter) ([]*models.LedgerEntry, int64, error)
	Update(ctx context.Context, entry *models.LedgerEntry) error
	Delete(ctx context.Context, kind models.LedgerKind, id int64) error
}

type AnalyticsStore interface {
	Totals(ctx context.Context, window models.DateRange, branch *models.Branch) (models.OverviewTotals, error)
	MonthlyTotals(ctx context.Context, kind models.LedgerKind, window models.DateRange, branch *models.Branch, byCategory bool) ([]models.MonthlyAmount, error)
}

type EmployeeStore interface {
	Create(ctx context.Context, e *models.Employee) error
	GetByID(ctx context.Context, id int64) (*models.Employee, error)
	List(ctx context.Context, filter models.EmployeeFilter) ([]*models.Employee, int64, error)
	Update(ctx context.Context, e *models.Employee) error
	Delete(ctx context.Context, id int64) error
}

type AdminStore interface {
	Create(ctx context.Context, a *models.Admin) error
	GetByID(ctx context.Context, id int64) (*models.Admin, error)
	List(ctx context.Context, page, limit int) ([]*models.Admin, int64, error)
	Update(ctx context.Context, a *models.Admin) error
	Delete(ctx context.Context, id int64) error
}

// Services holds all the service instances
type Services struct {
	AnalyticsService AnalyticsService
	StudentService   StudentService
	LedgerService    LedgerService
	EmployeeService  EmployeeService
	AdminService     AdminService
}

// NewServices wires the services on top of the repositories.
func NewServices(repos *repositories.Repositories, cfg *config.Config) *Services {
	return &Services{
		AnalyticsService: NewAnalyticsService(repos.AnalyticsRepository, cfg.Analytics.OverviewWindow),
		StudentService:   NewStudentService(repos.StudentRepository),
		LedgerService:    NewLedgerService(repos.LedgerRepository),
		EmployeeService:  NewEmployeeService(repos.EmployeeRepository),
		AdminService:     NewAdminService(repos.AdminRepository, repos.EmployeeRepository),
	}
}

// money converts an API amount to a two-decimal fixed-point value.
func money(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

// dateLocation is the zone calendar dates from requests are interpreted in.
var dateLocation = time.Local
