package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/madrasa/backoffice/internal/app/models"
	"github.com/madrasa/backoffice/internal/app/models/dto"
	"github.com/madrasa/backoffice/internal/middleware"
	"github.com/madrasa/backoffice/internal/pkg/apperrors"
	"github.com/madrasa/backoffice/internal/pkg/export"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	if err := middleware.SetupValidator(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Code    string          `json:"code"`
}

func perform(t *testing.T, r http.Handler, method, path string, body interface{}, headers map[string]string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if w.Header().Get("Content-Type") != export.ContentType {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

// asAdmin stands in for JWTAuth in controller tests.
func asAdmin(id int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextKeyAdminID, id)
		c.Set(middleware.ContextKeyRole, models.RoleAdmin)
		c.Next()
	}
}

// ---- analytics ----

type fakeAnalyticsService struct {
	branch *models.Branch
	window models.DateRange
	err    error
}

func (f *fakeAnalyticsService) OverviewStats(_ context.Context, branch *models.Branch) (models.OverviewTotals, error) {
	f.branch = branch
	return models.OverviewTotals{Income: decimal.NewFromInt(1000), Donations: decimal.NewFromInt(500)}, f.err
}

func (f *fakeAnalyticsService) ReportOverview(_ context.Context, window models.DateRange, branch *models.Branch) (models.OverviewTotals, error) {
	f.window, f.branch = window, branch
	return models.OverviewTotals{Expense: decimal.NewFromInt(40)}, f.err
}

func (f *fakeAnalyticsService) IncomeExpenseComparison(_ context.Context, branch *models.Branch) ([]models.IncomeExpenseMonth, error) {
	f.branch = branch
	if f.err != nil {
		return nil, f.err
	}
	rows := make([]models.IncomeExpenseMonth, 12)
	for i := range rows {
		rows[i] = models.IncomeExpenseMonth{Month: time.Month(i + 1)}
	}
	return rows, nil
}

func (f *fakeAnalyticsService) DonationsByMonth(_ context.Context, branch *models.Branch) ([]models.DonationMonth, error) {
	f.branch = branch
	rows := make([]models.DonationMonth, 12)
	for i := range rows {
		rows[i] = models.DonationMonth{Month: time.Month(i + 1)}
	}
	return rows, f.err
}

func (f *fakeAnalyticsService) MonthlyReport(ctx context.Context, branch *models.Branch) (*models.MonthlyReport, error) {
	ie, err := f.IncomeExpenseComparison(ctx, branch)
	if err != nil {
		return nil, err
	}
	don, _ := f.DonationsByMonth(ctx, branch)
	return &models.MonthlyReport{Year: 2024, Branch: branch, IncomeExpense: ie, Donations: don}, nil
}

func analyticsRouter(svc *fakeAnalyticsService) *gin.Engine {
	ac := NewAnalyticsController(svc)
	r := gin.New()
	g := r.Group("/analytics")
	g.GET("/overview-stats", ac.GetOverviewStats)
	g.GET("/report-overview", ac.GetReportOverview)
	g.GET("/income-expense-comparison", ac.GetIncomeExpenseComparison)
	g.GET("/donations-by-month", ac.GetDonationsByMonth)
	g.GET("/monthly-report/export", ac.ExportMonthlyReport)
	return r
}

func TestGetOverviewStats(t *testing.T) {
	svc := &fakeAnalyticsService{}
	w, env := perform(t, analyticsRouter(svc), http.MethodGet, "/analytics/overview-stats?branch=all", nil, nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	assert.JSONEq(t, `{"totalIncome":1000,"totalDonations":500,"totalExpense":0,"currentBalance":1500}`, string(env.Data))
	assert.Nil(t, svc.branch)

	perform(t, analyticsRouter(svc), http.MethodGet, "/analytics/overview-stats?branch=3", nil, nil)
	require.NotNil(t, svc.branch)
	assert.Equal(t, models.BranchGirls, *svc.branch)
}

func TestGetOverviewStats_StoreFailure(t *testing.T) {
	svc := &fakeAnalyticsService{err: assert.AnError}
	w, env := perform(t, analyticsRouter(svc), http.MethodGet, "/analytics/overview-stats", nil, nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.False(t, env.Success)
}

func TestGetIncomeExpenseComparison(t *testing.T) {
	w, env := perform(t, analyticsRouter(&fakeAnalyticsService{}), http.MethodGet, "/analytics/income-expense-comparison", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var rows []dto.IncomeExpenseComparison
	require.NoError(t, json.Unmarshal(env.Data, &rows))
	require.Len(t, rows, 12)
	assert.Equal(t, "January", rows[0].Month)
	assert.Equal(t, "December", rows[11].Month)
}

func TestGetDonationsByMonth(t *testing.T) {
	w, env := perform(t, analyticsRouter(&fakeAnalyticsService{}), http.MethodGet, "/analytics/donations-by-month", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var rows []map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &rows))
	require.Len(t, rows, 12)
	assert.ElementsMatch(t, []string{"month", "sadaqah", "zakat", "membership", "others"}, keys(rows[0]))
}

func keys(m map[string]interface{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func TestGetReportOverview(t *testing.T) {
	svc := &fakeAnalyticsService{}
	r := analyticsRouter(svc)

	w, _ := perform(t, r, http.MethodGet, "/analytics/report-overview?startDate=2024-01-01&endDate=2024-01-31", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, svc.window.Start.Day())
	assert.Equal(t, 31, svc.window.End.Day())
	assert.Equal(t, 23, svc.window.End.Hour(), "end date is inclusive")

	w, env := perform(t, r, http.MethodGet, "/analytics/report-overview?startDate=01-01-2024&endDate=2024-01-31", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Message, "startDate")

	w, _ = perform(t, r, http.MethodGet, "/analytics/report-overview?startDate=2024-01-01", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExportMonthlyReport(t *testing.T) {
	w, _ := perform(t, analyticsRouter(&fakeAnalyticsService{}), http.MethodGet, "/analytics/monthly-report/export?branch=2", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, export.ContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "monthly-report-2024-boys.xlsx")
	assert.NotZero(t, w.Body.Len())
}

// ---- students ----

type fakeStudentService struct {
	created         *dto.StudentRequest
	expectedVersion *int
	records         map[int64]*models.StudentRecord
	err             error
}

func (f *fakeStudentService) CreateStudent(_ context.Context, req *dto.StudentRequest) (*models.StudentRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = req
	return &models.StudentRecord{Student: models.Student{ID: 1, Version: 1}}, nil
}

func (f *fakeStudentService) UpdateStudent(_ context.Context, id int64, _ *dto.StudentRequest, expectedVersion *int) (*models.StudentRecord, error) {
	f.expectedVersion = expectedVersion
	if f.err != nil {
		return nil, f.err
	}
	return &models.StudentRecord{Student: models.Student{ID: id, Version: 4}}, nil
}

func (f *fakeStudentService) GetStudent(_ context.Context, id int64) (*models.StudentRecord, error) {
	rec, ok := f.records[id]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	return rec, nil
}

func (f *fakeStudentService) ListStudents(_ context.Context, filter models.StudentFilter) ([]*models.StudentRecord, int64, error) {
	out := []*models.StudentRecord{}
	for _, rec := range f.records {
		out = append(out, rec)
	}
	return out, int64(len(out)), nil
}

func (f *fakeStudentService) DisableStudent(_ context.Context, id int64) error {
	if _, ok := f.records[id]; !ok {
		return apperrors.ErrStudentNotFound
	}
	return nil
}

func studentRouter(svc *fakeStudentService) *gin.Engine {
	sc := NewStudentController(svc)
	r := gin.New()
	g := r.Group("/students")
	g.POST("/create-student", sc.CreateStudent)
	g.GET("", sc.ListStudents)
	g.GET("/:id", sc.GetStudent)
	g.PUT("/:id", sc.UpdateStudent)
	g.DELETE("/:id", sc.DisableStudent)
	return r
}

func studentBody() map[string]interface{} {
	return map[string]interface{}{
		"name":              "Abdullah",
		"branch":            2,
		"gender":            "male",
		"registration_date": "2024-03-15",
		"class":             "Hifz",
		"roll":              4,
		"guardian_name":     "Yusuf",
		"guardian_relation": "father",
		"guardian_phone":    "01700000000",
	}
}

func TestCreateStudent_EnvelopeWithoutData(t *testing.T) {
	svc := &fakeStudentService{}
	w, env := perform(t, studentRouter(svc), http.MethodPost, "/students/create-student", studentBody(), nil)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, env.Success)
	assert.Equal(t, "Student created successfully", env.Message)
	assert.Empty(t, env.Data)
	require.NotNil(t, svc.created)
	assert.Equal(t, "Hifz", svc.created.Class)
}

func TestCreateStudent_BindingFailure(t *testing.T) {
	body := studentBody()
	delete(body, "guardian_phone")

	w, env := perform(t, studentRouter(&fakeStudentService{}), http.MethodPost, "/students/create-student", body, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, string(dto.ErrorCodeValidationFailed), env.Code)
	assert.Contains(t, env.Message, "guardian_phone is required")
}

func TestCreateStudent_ServiceValidationError(t *testing.T) {
	svc := &fakeStudentService{err: apperrors.ErrResidentialCategory}
	w, env := perform(t, studentRouter(svc), http.MethodPost, "/students/create-student", studentBody(), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Message, "residential_category")
}

func TestUpdateStudent_IfMatch(t *testing.T) {
	svc := &fakeStudentService{}
	r := studentRouter(svc)

	w, _ := perform(t, r, http.MethodPut, "/students/5", studentBody(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, svc.expectedVersion)
	assert.Equal(t, "4", w.Header().Get("ETag"))

	w, _ = perform(t, r, http.MethodPut, "/students/5", studentBody(), map[string]string{"If-Match": `"3"`})
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.expectedVersion)
	assert.Equal(t, 3, *svc.expectedVersion)

	w, _ = perform(t, r, http.MethodPut, "/students/5", studentBody(), map[string]string{"If-Match": "latest"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	svc.err = apperrors.ErrStudentVersionConflict
	w, _ = perform(t, r, http.MethodPut, "/students/5", studentBody(), map[string]string{"If-Match": "3"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = perform(t, r, http.MethodPut, "/students/abc", studentBody(), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetListAndDisableStudent(t *testing.T) {
	rec := &models.StudentRecord{
		Student:    models.Student{ID: 7, Name: "Maryam", Branch: models.BranchGirls, Version: 2, RegistrationDate: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)},
		Enrollment: models.StudentEnrollment{StudentID: 7, Class: "Nazera", Roll: 1, AcademicYear: 2024},
		Guardian:   models.StudentGuardian{StudentID: 7, Name: "Aisha", Phone: "01900000000"},
	}
	svc := &fakeStudentService{records: map[int64]*models.StudentRecord{7: rec}}
	r := studentRouter(svc)

	w, env := perform(t, r, http.MethodGet, "/students/7", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got dto.StudentResponse
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "Maryam", got.Name)
	assert.Equal(t, 2024, got.Enrollment.AcademicYear)
	assert.Equal(t, "Aisha", got.Guardian.Name)

	w, _ = perform(t, r, http.MethodGet, "/students/8", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, env = perform(t, r, http.MethodGet, "/students?page=1&limit=5", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page dto.Page[dto.StudentResponse]
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Equal(t, int64(1), page.Total)
	assert.Equal(t, 5, page.Limit)
	assert.False(t, page.HasNext)

	w, _ = perform(t, r, http.MethodDelete, "/students/7", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = perform(t, r, http.MethodDelete, "/students/8", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// ---- ledgers ----

type fakeLedgerService struct {
	kind    models.LedgerKind
	input   dto.LedgerInput
	adminID int64
	filter  models.LedgerFilter
}

func (f *fakeLedgerService) CreateEntry(_ context.Context, kind models.LedgerKind, in dto.LedgerInput, adminID int64) (*models.LedgerEntry, error) {
	f.kind, f.input, f.adminID = kind, in, adminID
	return &models.LedgerEntry{ID: 1, Kind: kind, Branch: models.Branch(in.Branch), Type: in.Type, Amount: decimal.NewFromFloat(in.Amount), AdminID: &adminID}, nil
}

func (f *fakeLedgerService) GetEntry(_ context.Context, kind models.LedgerKind, id int64) (*models.LedgerEntry, error) {
	if id != 1 {
		return nil, apperrors.ErrLedgerEntryNotFound
	}
	return &models.LedgerEntry{ID: 1, Kind: kind, Type: 1, Amount: decimal.NewFromInt(10)}, nil
}

func (f *fakeLedgerService) ListEntries(_ context.Context, kind models.LedgerKind, filter models.LedgerFilter) ([]*models.LedgerEntry, int64, error) {
	f.kind, f.filter = kind, filter
	return nil, 0, nil
}

func (f *fakeLedgerService) UpdateEntry(_ context.Context, kind models.LedgerKind, id int64, in dto.LedgerInput) (*models.LedgerEntry, error) {
	f.kind, f.input = kind, in
	return &models.LedgerEntry{ID: id, Kind: kind, Amount: decimal.NewFromFloat(in.Amount)}, nil
}

func (f *fakeLedgerService) DeleteEntry(_ context.Context, _ models.LedgerKind, id int64) error {
	if id != 1 {
		return apperrors.ErrLedgerEntryNotFound
	}
	return nil
}

func ledgerRouter(kind models.LedgerKind, svc *fakeLedgerService, auth ...gin.HandlerFunc) *gin.Engine {
	lc := NewLedgerController(kind, svc)
	r := gin.New()
	g := r.Group("/ledger", auth...)
	g.POST("", lc.CreateEntry)
	g.GET("", lc.ListEntries)
	g.GET("/:id", lc.GetEntry)
	g.PUT("/:id", lc.UpdateEntry)
	g.DELETE("/:id", lc.DeleteEntry)
	return r
}

func TestCreateDonation_UsesTokenAdmin(t *testing.T) {
	svc := &fakeLedgerService{}
	r := ledgerRouter(models.LedgerDonation, svc, asAdmin(42))

	body := map[string]interface{}{"branch": 3, "donation_type": 2, "amount": 500, "donation_date": "2024-03-03"}
	w, env := perform(t, r, http.MethodPost, "/ledger", body, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Donation created successfully", env.Message)
	assert.Equal(t, int64(42), svc.adminID)
	assert.Equal(t, models.LedgerDonation, svc.kind)
	assert.Equal(t, 2, svc.input.Type)
	assert.Equal(t, "donation_date", svc.input.DateField)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.Contains(t, resp, "donation_type")
}

func TestCreateEntry_RequiresAuthenticatedAdmin(t *testing.T) {
	body := map[string]interface{}{"branch": 1, "type": 1, "amount": 5, "income_date": "2024-03-03"}
	w, _ := perform(t, ledgerRouter(models.LedgerIncome, &fakeLedgerService{}), http.MethodPost, "/ledger", body, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateEntry_BindingFailure(t *testing.T) {
	body := map[string]interface{}{"branch": 9, "type": 1, "amount": 0, "expense_date": "2024-03-03"}
	w, env := perform(t, ledgerRouter(models.LedgerExpense, &fakeLedgerService{}, asAdmin(1)), http.MethodPost, "/ledger", body, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Message, "branch")
	assert.Contains(t, env.Message, "amount")
}

func TestListEntries_Filters(t *testing.T) {
	svc := &fakeLedgerService{}
	r := ledgerRouter(models.LedgerIncome, svc, asAdmin(1))

	w, env := perform(t, r, http.MethodGet, "/ledger?branch=2&type=3&from=2024-01-01&to=2024-01-31", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.filter.Branch)
	assert.Equal(t, models.BranchBoys, *svc.filter.Branch)
	require.NotNil(t, svc.filter.Type)
	assert.Equal(t, 3, *svc.filter.Type)
	require.NotNil(t, svc.filter.To)
	assert.Equal(t, 23, svc.filter.To.Hour())

	var page dto.Page[map[string]interface{}]
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.NotNil(t, page.Docs)
	assert.Empty(t, page.Docs)

	w, _ = perform(t, r, http.MethodGet, "/ledger?from=yesterday", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetUpdateDeleteEntry(t *testing.T) {
	svc := &fakeLedgerService{}
	r := ledgerRouter(models.LedgerExpense, svc, asAdmin(1))

	w, _ := perform(t, r, http.MethodGet, "/ledger/1", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = perform(t, r, http.MethodGet, "/ledger/2", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	body := map[string]interface{}{"branch": 1, "type": 5, "amount": 75.5, "expense_date": "2024-03-03"}
	w, _ = perform(t, r, http.MethodPut, "/ledger/1", body, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 75.5, svc.input.Amount)

	w, _ = perform(t, r, http.MethodDelete, "/ledger/1", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = perform(t, r, http.MethodDelete, "/ledger/0", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
