package controllers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/madrasa/backoffice/internal/pkg/apperrors"
	"github.com/madrasa/backoffice/internal/pkg/helpers"
)

// parseIDParam reads a positive int64 path parameter.
func parseIDParam(c *gin.Context, name string) (int64, error) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid "+name, map[string]interface{}{name: raw})
	}
	return id, nil
}

// parseDateQuery parses an optional calendar-date query parameter.
func parseDateQuery(c *gin.Context, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	t, err := helpers.ParseDate(raw, time.Local)
	if err != nil {
		return nil, apperrors.NewValidationError(name+" must be a date in YYYY-MM-DD format", map[string]interface{}{name: raw})
	}
	return &t, nil
}
