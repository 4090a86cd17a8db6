package routes

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/madrasa/backoffice/internal/app/controllers"
	"github.com/madrasa/backoffice/internal/app/models"
	"github.com/madrasa/backoffice/internal/middleware"
	"github.com/madrasa/backoffice/internal/pkg/auth"
)

const testBasePath = "/api/v1"

func newTestRouter(health HealthCheck) (*gin.Engine, *auth.JWTService) {
	gin.SetMode(gin.TestMode)
	jwt := auth.NewJWTService(auth.JWTConfig{SecretKey: "routes-secret", TokenIssuer: "madrasa"})

	// Handlers are never reached in these tests, so no services are needed.
	c := Controllers{
		Analytics: controllers.NewAnalyticsController(nil),
		Students:  controllers.NewStudentController(nil),
		Incomes:   controllers.NewLedgerController(models.LedgerIncome, nil),
		Donations: controllers.NewLedgerController(models.LedgerDonation, nil),
		Expenses:  controllers.NewLedgerController(models.LedgerExpense, nil),
		Employees: controllers.NewEmployeeController(nil),
		Admins:    controllers.NewAdminController(nil),
	}

	r := gin.New()
	r.NoRoute(middleware.NoRoute)
	SetupSwagger(r, testBasePath)
	SetupRouter(r, testBasePath, c, middleware.NewAuthMiddleware(jwt), health)
	return r, jwt
}

func get(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r, _ := newTestRouter(nil)

	for _, path := range []string{
		"/analytics/overview-stats",
		"/analytics/income-expense-comparison",
		"/analytics/donations-by-month",
		"/students",
		"/incomes",
		"/donations/1",
		"/expenses",
		"/employees",
		"/admins",
	} {
		w := get(r, testBasePath+path, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestAdminRoutesRequireSuperAdmin(t *testing.T) {
	r, jwt := newTestRouter(nil)

	token, err := jwt.GenerateToken(2, 2, string(models.RoleAccountant), time.Hour)
	require.NoError(t, err)

	w := get(r, testBasePath+"/admins", token)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestHealth(t *testing.T) {
	r, _ := newTestRouter(func(context.Context) error { return nil })
	assert.Equal(t, http.StatusOK, get(r, testBasePath+"/health", "").Code)

	r, _ = newTestRouter(func(context.Context) error { return errors.New("dial tcp: refused") })
	assert.Equal(t, http.StatusServiceUnavailable, get(r, testBasePath+"/health", "").Code)
}

func TestUnknownRouteAndSwagger(t *testing.T) {
	r, _ := newTestRouter(nil)

	w := get(r, testBasePath+"/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)

	w = get(r, "/swagger/doc.json", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"basePath": "/api/v1"`)
	assert.Contains(t, w.Body.String(), "/students/create-student")
}
