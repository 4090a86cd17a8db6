package helpers

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/madrasa/backoffice/internal/app/models"
)

// ParseBranchFilter turns the branch query value into a filter. A positive
// integer filters on that branch code; "all" in any case, an empty value, zero,
// a negative or a non-numeric value all mean no filter (nil).
func ParseBranchFilter(raw string) *models.Branch {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "all") {
		return nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return nil
	}
	if n <= 0 {
		return nil
	}
	// Codes past the column range still filter; they match no row.
	if n > math.MaxInt16 {
		n = math.MaxInt16
	}
	b := models.Branch(n)
	return &b
}

// ParseOptionalInt returns nil for an empty or non-numeric value.
func ParseOptionalInt(raw string) *int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return nil
	}
	return &n
}

// ParseOptionalBool returns nil for an empty or unparsable value.
func ParseOptionalBool(raw string) *bool {
	b, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return nil
	}
	return &b
}
