package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/madrasa/backoffice/internal/app/models"
	"github.com/madrasa/backoffice/internal/app/models/dto"
	"github.com/madrasa/backoffice/internal/pkg/apperrors"
	"github.com/madrasa/backoffice/internal/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serveError(t *testing.T, err error) (*httptest.ResponseRecorder, dto.ErrorResponse) {
	t.Helper()
	r := gin.New()
	r.GET("/", func(c *gin.Context) { HandleAPIError(c, err) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestHandleAPIError_StatusMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   dto.ErrorCode
	}{
		{apperrors.ErrInvalidRegistrationDate, http.StatusBadRequest, dto.ErrorCodeValidationFailed},
		{apperrors.NewBadRequestError("bad body"), http.StatusBadRequest, dto.ErrorCodeInvalidRequest},
		{fmt.Errorf("error getting student: %w", apperrors.ErrStudentNotFound), http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{apperrors.ErrAdminAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists},
		{apperrors.ErrStudentVersionConflict, http.StatusConflict, dto.ErrorCodeConflict},
		{apperrors.ErrPermissionDenied, http.StatusForbidden, dto.ErrorCodeForbidden},
		{apperrors.ErrTokenExpired, http.StatusUnauthorized, dto.ErrorCodeExpiredToken},
		{apperrors.ErrUnauthorized, http.StatusUnauthorized, dto.ErrorCodeUnauthorized},
	}

	for _, tc := range cases {
		w, body := serveError(t, tc.err)
		assert.Equal(t, tc.status, w.Code, tc.err.Error())
		assert.Equal(t, tc.code, body.Code)
		assert.False(t, body.Success)
		assert.Equal(t, tc.status, body.StatusCode)
	}
}

func TestHandleAPIError_UsesSpecificMessage(t *testing.T) {
	_, body := serveError(t, fmt.Errorf("error getting student: %w", apperrors.ErrStudentNotFound))
	assert.Equal(t, "student not found", body.Message)
	assert.Equal(t, "error getting student: student not found", body.Error)
}

func TestHandleAPIError_InternalErrorText(t *testing.T) {
	defer SetExposeInternalErrors(true)

	SetExposeInternalErrors(true)
	w, body := serveError(t, errors.New("dial tcp: connection refused"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal server error", body.Message)
	assert.Equal(t, "dial tcp: connection refused", body.Error)

	SetExposeInternalErrors(false)
	_, body = serveError(t, errors.New("dial tcp: connection refused"))
	assert.NotContains(t, body.Error, "dial tcp")
}

type bindTarget struct {
	Name   string `json:"name" binding:"required"`
	Branch int    `json:"branch" binding:"min=1,max=4"`
	Phone  string `json:"phone" binding:"omitempty,phone"`
}

func TestBindingError_ReportsJSONFieldNames(t *testing.T) {
	require.NoError(t, SetupValidator())

	r := gin.New()
	r.POST("/", func(c *gin.Context) {
		var req bindTarget
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleAPIError(c, BindingError(err))
			return
		}
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"branch": 9}`)))
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, dto.ErrorCodeValidationFailed, body.Code)
	assert.Contains(t, body.Message, "name is required")
	assert.Contains(t, body.Message, "branch must be at most 4")

	details, ok := body.Details.(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, details, "name")
	assert.Contains(t, details, "branch")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name": 5}`)))
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrorCodeInvalidRequest, body.Code)
}

func newAuthRouter(jwt *auth.JWTService, roles ...models.AdminRole) *gin.Engine {
	m := NewAuthMiddleware(jwt)
	r := gin.New()
	handlers := []gin.HandlerFunc{m.JWTAuth()}
	if len(roles) > 0 {
		handlers = append(handlers, m.RoleRequired(roles...))
	}
	handlers = append(handlers, func(c *gin.Context) {
		id, _ := CurrentAdminID(c)
		c.JSON(http.StatusOK, gin.H{"adminId": id})
	})
	r.GET("/", handlers...)
	return r
}

func TestJWTAuth(t *testing.T) {
	jwt := auth.NewJWTService(auth.JWTConfig{SecretKey: "test-secret", TokenIssuer: "madrasa"})
	token, err := jwt.GenerateToken(7, 3, string(models.RoleAccountant), time.Hour)
	require.NoError(t, err)
	r := newAuthRouter(jwt)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"adminId":7}`, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/?token="+token, nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRoleRequired(t *testing.T) {
	jwt := auth.NewJWTService(auth.JWTConfig{SecretKey: "test-secret"})
	r := newAuthRouter(jwt, models.RoleSuperAdmin)

	accountant, err := jwt.GenerateToken(7, 3, string(models.RoleAccountant), time.Hour)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+accountant)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	super, err := jwt.GenerateToken(1, 1, string(models.RoleSuperAdmin), time.Hour)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+super)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), RequestLogger())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(ContextKeyRequestID)) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := w.Header().Get(HeaderRequestID)
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(HeaderRequestID))
}

func TestBindingError_PhoneRule(t *testing.T) {
	require.NoError(t, SetupValidator())

	r := gin.New()
	r.POST("/", func(c *gin.Context) {
		var req bindTarget
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleAPIError(c, BindingError(err))
			return
		}
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"a","branch":1,"phone":"call me"}`)))
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "phone must be a valid phone number")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"a","branch":1,"phone":"+8801700000000"}`)))
	assert.Equal(t, http.StatusNoContent, w.Code)
}
