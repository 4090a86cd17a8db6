package migrations

import (
	"io/fs"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations_LedgerDatesAreCalendarDays(t *testing.T) {
	schema, err := fs.ReadFile(embedded, "sql/001_init.sql")
	require.NoError(t, err)

	for _, column := range []string{"income_date", "donation_date", "expense_date"} {
		pattern := regexp.MustCompile(`(?m)^\s*` + column + `\s+DATE\s+NOT NULL`)
		assert.Regexp(t, pattern, string(schema), column)
	}
}
