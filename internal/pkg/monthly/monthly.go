// Package monthly reshapes aggregated rows into fixed January..December series.
package monthly

import "time"

// Months is the number of entries in every series produced by Bucket.
const Months = 12

// Bucket folds rows into twelve calendar-month buckets, January first.
//
// key maps a row to its month; rows whose month is outside 1..12 (or for which
// key reports false) are skipped. zero builds the empty bucket for a month, so
// months without rows still appear. add folds one row into its bucket and may
// ignore rows it does not recognise.
func Bucket[R any, T any](rows []R, key func(R) (time.Month, bool), zero func(time.Month) T, add func(*T, R)) []T {
	series := make([]T, Months)
	for i := range series {
		series[i] = zero(time.Month(i + 1))
	}

	for _, row := range rows {
		month, ok := key(row)
		if !ok || month < time.January || month > time.December {
			continue
		}
		add(&series[month-1], row)
	}

	return series
}

// MonthNames returns the English month names in calendar order.
func MonthNames() []string {
	names := make([]string, Months)
	for i := range names {
		names[i] = time.Month(i + 1).String()
	}
	return names
}
