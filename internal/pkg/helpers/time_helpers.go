package helpers

import (
	"fmt"
	"strings"
	"time"

	"github.com/madrasa/backoffice/internal/app/models"
)

// DateLayout is the calendar-date format accepted and produced by the API.
const DateLayout = "2006-01-02"

// ParseDate parses a calendar date ("2006-01-02") or an RFC3339 timestamp.
// Calendar dates are interpreted in loc.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	if t, err := time.ParseInLocation(DateLayout, value, loc); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD or RFC3339", value)
	}
	return t, nil
}

// EndOfDay returns the last representable instant of t's calendar day.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

// YearToDate is [Jan 1 of now's year, now].
func YearToDate(now time.Time) models.DateRange {
	return models.DateRange{
		Start: time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location()),
		End:   now,
	}
}

// CalendarYear is [Jan 1, Dec 31 23:59:59.999999999] of now's year.
func CalendarYear(now time.Time) models.DateRange {
	return models.DateRange{
		Start: time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location()),
		End:   EndOfDay(time.Date(now.Year(), time.December, 31, 0, 0, 0, 0, now.Location())),
	}
}
