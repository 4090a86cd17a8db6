package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateRange is an inclusive [Start, End] window.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// MonthlyAmount is one aggregated row: the sum of a ledger for a month and,
// where grouped by category, one category code. Category is 0 when not grouped.
type MonthlyAmount struct {
	Month    int
	Category int
	Amount   decimal.Decimal
}

// OverviewTotals are the ledger sums over one window.
type OverviewTotals struct {
	Income    decimal.Decimal
	Donations decimal.Decimal
	Expense   decimal.Decimal
}

// Balance is income plus donations minus expenses.
func (t OverviewTotals) Balance() decimal.Decimal {
	return t.Income.Add(t.Donations).Sub(t.Expense)
}

// IncomeExpenseMonth is one row of the income versus expense series.
type IncomeExpenseMonth struct {
	Month   time.Month
	Income  decimal.Decimal
	Expense decimal.Decimal
}

// DonationMonth is one row of the donations-by-category series.
type DonationMonth struct {
	Month      time.Month
	Sadaqah    decimal.Decimal
	Zakat      decimal.Decimal
	Membership decimal.Decimal
	Others     decimal.Decimal
}

// MonthlyReport bundles both monthly series of one calendar year for export.
type MonthlyReport struct {
	Year          int
	Branch        *Branch
	IncomeExpense []IncomeExpenseMonth
	Donations     []DonationMonth
}
