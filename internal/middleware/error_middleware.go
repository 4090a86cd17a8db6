package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/madrasa/backoffice/internal/app/models/dto"
	"github.com/madrasa/backoffice/internal/pkg/apperrors"
	"github.com/madrasa/backoffice/internal/pkg/logger"
)

// exposeInternalErrors controls whether 500 responses carry the underlying
// error text. It is switched off in production mode.
var exposeInternalErrors = true

// SetExposeInternalErrors sets whether 500 responses include the error text.
func SetExposeInternalErrors(expose bool) {
	exposeInternalErrors = expose
}

type errorMapping struct {
	target error
	status int
	code   dto.ErrorCode
}

// Ordered: the first matching sentinel wins.
var errorMappings = []errorMapping{
	{apperrors.ErrValidationFailed, http.StatusBadRequest, dto.ErrorCodeValidationFailed},
	{apperrors.ErrBadRequest, http.StatusBadRequest, dto.ErrorCodeInvalidRequest},
	{apperrors.ErrResourceNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
	{apperrors.ErrResourceAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists},
	{apperrors.ErrConflict, http.StatusConflict, dto.ErrorCodeConflict},
	{apperrors.ErrPermissionDenied, http.StatusForbidden, dto.ErrorCodeForbidden},
	{apperrors.ErrTokenExpired, http.StatusUnauthorized, dto.ErrorCodeExpiredToken},
	{apperrors.ErrTokenInvalid, http.StatusUnauthorized, dto.ErrorCodeInvalidToken},
	{apperrors.ErrUnauthorized, http.StatusUnauthorized, dto.ErrorCodeUnauthorized},
}

// HandleAPIError writes the error envelope matching err and aborts the chain.
func HandleAPIError(c *gin.Context, err error) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			resp := dto.NewErrorResponse(m.status, m.code, apperrors.Message(err), err.Error())
			if details := apperrors.Details(err); len(details) > 0 {
				resp.WithDetails(details)
			}
			c.AbortWithStatusJSON(m.status, resp)
			return
		}
	}

	logger.Error().Err(err).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Str("requestId", c.GetString(ContextKeyRequestID)).
		Msg("Unhandled error")

	errText := "internal server error"
	if exposeInternalErrors {
		errText = err.Error()
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError,
		dto.NewErrorResponse(http.StatusInternalServerError, dto.ErrorCodeInternalServer, "Internal server error", errText))
}

// Recovery turns panics into a 500 envelope.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Error().Interface("panic", recovered).Str("path", c.Request.URL.Path).Msg("Recovered from panic")
		c.AbortWithStatusJSON(http.StatusInternalServerError,
			dto.NewErrorResponse(http.StatusInternalServerError, dto.ErrorCodeInternalServer, "Internal server error", "internal server error"))
	})
}

// NoRoute answers unknown paths with the error envelope.
func NoRoute(c *gin.Context) {
	c.JSON(http.StatusNotFound,
		dto.NewErrorResponse(http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Route not found", c.Request.Method+" "+c.Request.URL.Path))
}
