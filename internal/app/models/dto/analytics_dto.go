package dto

import "github.com/madrasa/backoffice/internal/app/models"

// OverviewStatsResponse holds the ledger totals of one window.
type OverviewStatsResponse struct {
	TotalIncome    float64 `json:"totalIncome" example:"1000"`
	TotalDonations float64 `json:"totalDonations" example:"500"`
	TotalExpense   float64 `json:"totalExpense" example:"0"`
	CurrentBalance float64 `json:"currentBalance" example:"1500"`
}

// NewOverviewStatsResponse converts totals, deriving the balance.
func NewOverviewStatsResponse(t models.OverviewTotals) OverviewStatsResponse {
	return OverviewStatsResponse{
		TotalIncome:    t.Income.InexactFloat64(),
		TotalDonations: t.Donations.InexactFloat64(),
		TotalExpense:   t.Expense.InexactFloat64(),
		CurrentBalance: t.Balance().InexactFloat64(),
	}
}

// IncomeExpenseComparison is one month of the income versus expense chart.
type IncomeExpenseComparison struct {
	Month   string  `json:"month" example:"January"`
	Income  float64 `json:"income" example:"1200"`
	Expense float64 `json:"expense" example:"800"`
}

// DonationsByMonth is one month of the donations chart.
type DonationsByMonth struct {
	Month      string  `json:"month" example:"January"`
	Sadaqah    float64 `json:"sadaqah"`
	Zakat      float64 `json:"zakat"`
	Membership float64 `json:"membership"`
	Others     float64 `json:"others"`
}

// NewIncomeExpenseComparison converts the monthly series.
func NewIncomeExpenseComparison(rows []models.IncomeExpenseMonth) []IncomeExpenseComparison {
	out := make([]IncomeExpenseComparison, len(rows))
	for i, r := range rows {
		out[i] = IncomeExpenseComparison{
			Month:   r.Month.String(),
			Income:  r.Income.InexactFloat64(),
			Expense: r.Expense.InexactFloat64(),
		}
	}
	return out
}

// NewDonationsByMonth converts the monthly donation series.
func NewDonationsByMonth(rows []models.DonationMonth) []DonationsByMonth {
	out := make([]DonationsByMonth, len(rows))
	for i, r := range rows {
		out[i] = DonationsByMonth{
			Month:      r.Month.String(),
			Sadaqah:    r.Sadaqah.InexactFloat64(),
			Zakat:      r.Zakat.InexactFloat64(),
			Membership: r.Membership.InexactFloat64(),
			Others:     r.Others.InexactFloat64(),
		}
	}
	return out
}
