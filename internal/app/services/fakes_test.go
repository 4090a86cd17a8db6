package services

import (
	"context"
	"errors"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/madrasa/backoffice/internal/app/models"
	"github.com/madrasa/backoffice/internal/pkg/apperrors"
)

// fakeAnalyticsStore aggregates raw ledger rows in memory the way the SQL does.
type fakeAnalyticsStore struct {
	entries []models.LedgerEntry
	err     error
	windows []models.DateRange
}

func (f *fakeAnalyticsStore) matching(kind models.LedgerKind, window models.DateRange, branch *models.Branch) []models.LedgerEntry {
	var out []models.LedgerEntry
	for _, e := range f.entries {
		if e.Kind != kind || e.Date.Before(window.Start) || e.Date.After(window.End) {
			continue
		}
		if branch != nil && e.Branch != *branch {
			continue
		}
		out = append(out, e)
	}
	return out
}

func (f *fakeAnalyticsStore) sum(kind models.LedgerKind, window models.DateRange, branch *models.Branch) decimal.Decimal {
	total := decimal.Zero
	for _, e := range f.matching(kind, window, branch) {
		total = total.Add(e.Amount)
	}
	return total
}

func (f *fakeAnalyticsStore) Totals(_ context.Context, window models.DateRange, branch *models.Branch) (models.OverviewTotals, error) {
	f.windows = append(f.windows, window)
	if f.err != nil {
		return models.OverviewTotals{}, f.err
	}
	return models.OverviewTotals{
		Income:    f.sum(models.LedgerIncome, window, branch),
		Donations: f.sum(models.LedgerDonation, window, branch),
		Expense:   f.sum(models.LedgerExpense, window, branch),
	}, nil
}

func (f *fakeAnalyticsStore) MonthlyTotals(_ context.Context, kind models.LedgerKind, window models.DateRange, branch *models.Branch, byCategory bool) ([]models.MonthlyAmount, error) {
	f.windows = append(f.windows, window)
	if f.err != nil {
		return nil, f.err
	}

	type key struct{ month, category int }
	sums := map[key]decimal.Decimal{}
	for _, e := range f.matching(kind, window, branch) {
		k := key{month: int(e.Date.Month())}
		if byCategory {
			k.category = e.Type
		}
		sums[k] = sums[k].Add(e.Amount)
	}

	out := make([]models.MonthlyAmount, 0, len(sums))
	for k, v := range sums {
		out = append(out, models.MonthlyAmount{Month: k.month, Category: k.category, Amount: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Month != out[j].Month {
			return out[i].Month < out[j].Month
		}
		return out[i].Category < out[j].Category
	})
	return out, nil
}

// fakeStudentStore keeps aggregates by id and counts writes.
type fakeStudentStore struct {
	records map[int64]*models.StudentRecord
	nextID  int64
	writes  int
	err     error
}

func newFakeStudentStore() *fakeStudentStore {
	return &fakeStudentStore{records: map[int64]*models.StudentRecord{}, nextID: 1}
}

func (f *fakeStudentStore) Create(_ context.Context, rec *models.StudentRecord) error {
	f.writes++
	if f.err != nil {
		return f.err
	}
	rec.Student.ID = f.nextID
	rec.Student.Version = 1
	rec.Enrollment.StudentID = rec.Student.ID
	rec.Guardian.StudentID = rec.Student.ID
	f.nextID++
	stored := *rec
	f.records[rec.Student.ID] = &stored
	return nil
}

func (f *fakeStudentStore) Update(_ context.Context, rec *models.StudentRecord, expectedVersion *int) error {
	f.writes++
	if f.err != nil {
		return f.err
	}
	current, ok := f.records[rec.Student.ID]
	if !ok {
		return apperrors.ErrStudentNotFound
	}
	if expectedVersion != nil && *expectedVersion != current.Student.Version {
		return apperrors.ErrStudentVersionConflict
	}
	rec.Student.Version = current.Student.Version + 1
	rec.Student.Disable = current.Student.Disable
	stored := *rec
	f.records[rec.Student.ID] = &stored
	return nil
}

func (f *fakeStudentStore) GetByID(_ context.Context, id int64) (*models.StudentRecord, error) {
	rec, ok := f.records[id]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	return rec, nil
}

func (f *fakeStudentStore) List(_ context.Context, filter models.StudentFilter) ([]*models.StudentRecord, int64, error) {
	var out []*models.StudentRecord
	for _, rec := range f.records {
		if filter.Branch != nil && rec.Student.Branch != *filter.Branch {
			continue
		}
		out = append(out, rec)
	}
	return out, int64(len(out)), nil
}

func (f *fakeStudentStore) Disable(_ context.Context, id int64) error {
	rec, ok := f.records[id]
	if !ok {
		return apperrors.ErrStudentNotFound
	}
	rec.Student.Disable = true
	return nil
}

// fakeLedgerStore keeps entries per kind.
type fakeLedgerStore struct {
	entries map[int64]*models.LedgerEntry
	nextID  int64
	filter  models.LedgerFilter
}

func newFakeLedgerStore() *fakeLedgerStore {
	return &fakeLedgerStore{entries: map[int64]*models.LedgerEntry{}, nextID: 1}
}

func (f *fakeLedgerStore) Create(_ context.Context, entry *models.LedgerEntry) error {
	entry.ID = f.nextID
	f.nextID++
	stored := *entry
	f.entries[entry.ID] = &stored
	return nil
}

func (f *fakeLedgerStore) GetByID(_ context.Context, kind models.LedgerKind, id int64) (*models.LedgerEntry, error) {
	e, ok := f.entries[id]
	if !ok || e.Kind != kind {
		return nil, apperrors.ErrLedgerEntryNotFound
	}
	return e, nil
}

func (f *fakeLedgerStore) List(_ context.Context, kind models.LedgerKind, filter models.LedgerFilter) ([]*models.LedgerEntry, int64, error) {
	f.filter = filter
	var out []*models.LedgerEntry
	for _, e := range f.entries {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeLedgerStore) Update(_ context.Context, entry *models.LedgerEntry) error {
	current, ok := f.entries[entry.ID]
	if !ok || current.Kind != entry.Kind {
		return apperrors.ErrLedgerEntryNotFound
	}
	entry.AdminID = current.AdminID
	stored := *entry
	f.entries[entry.ID] = &stored
	return nil
}

func (f *fakeLedgerStore) Delete(_ context.Context, kind models.LedgerKind, id int64) error {
	e, ok := f.entries[id]
	if !ok || e.Kind != kind {
		return apperrors.ErrLedgerEntryNotFound
	}
	delete(f.entries, id)
	return nil
}

// fakeEmployeeStore and fakeAdminStore back the staff services.
type fakeEmployeeStore struct {
	employees map[int64]*models.Employee
	admins    *fakeAdminStore
	nextID    int64
}

func newFakeEmployeeStore() *fakeEmployeeStore {
	return &fakeEmployeeStore{employees: map[int64]*models.Employee{}, nextID: 1}
}

func (f *fakeEmployeeStore) Create(_ context.Context, e *models.Employee) error {
	e.ID = f.nextID
	f.nextID++
	stored := *e
	f.employees[e.ID] = &stored
	return nil
}

func (f *fakeEmployeeStore) GetByID(_ context.Context, id int64) (*models.Employee, error) {
	e, ok := f.employees[id]
	if !ok {
		return nil, apperrors.ErrEmployeeNotFound
	}
	return e, nil
}

func (f *fakeEmployeeStore) List(_ context.Context, _ models.EmployeeFilter) ([]*models.Employee, int64, error) {
	out := make([]*models.Employee, 0, len(f.employees))
	for _, e := range f.employees {
		out = append(out, e)
	}
	return out, int64(len(out)), nil
}

func (f *fakeEmployeeStore) Update(_ context.Context, e *models.Employee) error {
	if _, ok := f.employees[e.ID]; !ok {
		return apperrors.ErrEmployeeNotFound
	}
	stored := *e
	f.employees[e.ID] = &stored
	return nil
}

func (f *fakeEmployeeStore) Delete(_ context.Context, id int64) error {
	if _, ok := f.employees[id]; !ok {
		return apperrors.ErrEmployeeNotFound
	}
	if f.admins != nil {
		for _, a := range f.admins.admins {
			if a.EmployeeID == id {
				return apperrors.ErrEmployeeHasAdmin
			}
		}
	}
	delete(f.employees, id)
	return nil
}

type fakeAdminStore struct {
	admins map[int64]*models.Admin
	nextID int64
}

func newFakeAdminStore() *fakeAdminStore {
	return &fakeAdminStore{admins: map[int64]*models.Admin{}, nextID: 1}
}

func (f *fakeAdminStore) Create(_ context.Context, a *models.Admin) error {
	for _, existing := range f.admins {
		if existing.EmployeeID == a.EmployeeID {
			return apperrors.ErrAdminAlreadyExists
		}
	}
	a.ID = f.nextID
	f.nextID++
	stored := *a
	f.admins[a.ID] = &stored
	return nil
}

func (f *fakeAdminStore) GetByID(_ context.Context, id int64) (*models.Admin, error) {
	a, ok := f.admins[id]
	if !ok {
		return nil, apperrors.ErrAdminNotFound
	}
	copied := *a
	return &copied, nil
}

func (f *fakeAdminStore) List(_ context.Context, _, _ int) ([]*models.Admin, int64, error) {
	out := make([]*models.Admin, 0, len(f.admins))
	for _, a := range f.admins {
		out = append(out, a)
	}
	return out, int64(len(out)), nil
}

func (f *fakeAdminStore) Update(_ context.Context, a *models.Admin) error {
	if _, ok := f.admins[a.ID]; !ok {
		return apperrors.ErrAdminNotFound
	}
	stored := *a
	f.admins[a.ID] = &stored
	return nil
}

func (f *fakeAdminStore) Delete(_ context.Context, id int64) error {
	if _, ok := f.admins[id]; !ok {
		return apperrors.ErrAdminNotFound
	}
	delete(f.admins, id)
	return nil
}

var errStoreDown = errors.New("connection refused")
