package helpers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/madrasa/backoffice/internal/app/models/dto"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	DefaultPage     = 1 // Default page is 1-based
)

// NormalizePage clamps page and limit to the accepted ranges.
func NormalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if limit <= 0 || limit > MaxPageSize {
		limit = DefaultPageSize
	}
	return page, limit
}

// CalculateOffsetLimit calculates the offset and limit for SQL queries based on 1-based page index.
func CalculateOffsetLimit(page, limit int) (offset uint64, size uint64) {
	page, limit = NormalizePage(page, limit)
	return uint64((page - 1) * limit), uint64(limit)
}

// ParsePaginationParams extracts page and limit query parameters, falling back to defaults.
func ParsePaginationParams(c *gin.Context) (page, limit int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		page = DefaultPage
	}
	limit, err = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultPageSize)))
	if err != nil {
		limit = DefaultPageSize
	}
	return NormalizePage(page, limit)
}

// NewPage builds the paginated payload for one page of docs.
func NewPage[T any](docs []T, total int64, page, limit int) dto.Page[T] {
	page, limit = NormalizePage(page, limit)
	if docs == nil {
		docs = []T{}
	}

	pages := int((total + int64(limit) - 1) / int64(limit))

	return dto.Page[T]{
		Docs:    docs,
		Total:   total,
		Page:    page,
		Pages:   pages,
		Limit:   limit,
		HasNext: page < pages,
		HasPrev: page > 1,
	}
}
