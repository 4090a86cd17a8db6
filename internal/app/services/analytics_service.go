package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/madrasa/backoffice/internal/app/models"
	"github.com/madrasa/backoffice/internal/config"
	"github.com/madrasa/backoffice/internal/pkg/apperrors"
	"github.com/madrasa/backoffice/internal/pkg/helpers"
	"github.com/madrasa/backoffice/internal/pkg/monthly"
)

// AnalyticsService produces the dashboard and report figures. A nil branch
// means all branches.
type AnalyticsService interface {
	OverviewStats(ctx context.Context, branch *models.Branch) (models.OverviewTotals, error)
	ReportOverview(ctx context.Context, window models.DateRange, branch *models.Branch) (models.OverviewTotals, error)
	IncomeExpenseComparison(ctx context.Context, branch *models.Branch) ([]models.IncomeExpenseMonth, error)
	DonationsByMonth(ctx context.Context, branch *models.Branch) ([]models.DonationMonth, error)
	MonthlyReport(ctx context.Context, branch *models.Branch) (*models.MonthlyReport, error)
}

type analyticsServiceImpl struct {
	store  AnalyticsStore
	window string
	now    func() time.Time
}

// NewAnalyticsService creates the analytics service. window selects the
// overview-stats window: config.WindowYearToDate or config.WindowCalendarYear.
func NewAnalyticsService(store AnalyticsStore, window string) AnalyticsService {
	return &analyticsServiceImpl{store: store, window: window, now: time.Now}
}

func (s *analyticsServiceImpl) overviewWindow() models.DateRange {
	if s.window == config.WindowCalendarYear {
		return helpers.CalendarYear(s.now())
	}
	return helpers.YearToDate(s.now())
}

// OverviewStats sums the three ledgers over the configured current-year window.
func (s *analyticsServiceImpl) OverviewStats(ctx context.Context, branch *models.Branch) (models.OverviewTotals, error) {
	totals, err := s.store.Totals(ctx, s.overviewWindow(), branch)
	if err != nil {
		return models.OverviewTotals{}, fmt.Errorf("error computing overview stats: %w", err)
	}
	return totals, nil
}

// ReportOverview sums the three ledgers over an explicit inclusive window.
func (s *analyticsServiceImpl) ReportOverview(ctx context.Context, window models.DateRange, branch *models.Branch) (models.OverviewTotals, error) {
	if window.Start.After(window.End) {
		return models.OverviewTotals{}, apperrors.NewValidationError("startDate must not be after endDate", map[string]interface{}{
			"startDate": window.Start.Format(helpers.DateLayout),
			"endDate":   window.End.Format(helpers.DateLayout),
		})
	}

	totals, err := s.store.Totals(ctx, window, branch)
	if err != nil {
		return models.OverviewTotals{}, fmt.Errorf("error computing report overview: %w", err)
	}
	return totals, nil
}

func monthOf(row models.MonthlyAmount) (time.Month, bool) {
	return time.Month(row.Month), true
}

// IncomeExpenseComparison returns twelve months of income and expense sums for
// the full current calendar year.
func (s *analyticsServiceImpl) IncomeExpenseComparison(ctx context.Context, branch *models.Branch) ([]models.IncomeExpenseMonth, error) {
	year := helpers.CalendarYear(s.now())

	income, err := s.store.MonthlyTotals(ctx, models.LedgerIncome, year, branch, false)
	if err != nil {
		return nil, fmt.Errorf("error aggregating monthly income: %w", err)
	}
	expense, err := s.store.MonthlyTotals(ctx, models.LedgerExpense, year, branch, false)
	if err != nil {
		return nil, fmt.Errorf("error aggregating monthly expense: %w", err)
	}

	zero := func(m time.Month) models.IncomeExpenseMonth {
		return models.IncomeExpenseMonth{Month: m, Income: decimal.Zero, Expense: decimal.Zero}
	}
	series := monthly.Bucket(income, monthOf, zero, func(b *models.IncomeExpenseMonth, r models.MonthlyAmount) {
		b.Income = b.Income.Add(r.Amount)
	})
	expenses := monthly.Bucket(expense, monthOf, zero, func(b *models.IncomeExpenseMonth, r models.MonthlyAmount) {
		b.Expense = b.Expense.Add(r.Amount)
	})
	for i := range series {
		series[i].Expense = expenses[i].Expense
	}

	return series, nil
}

// DonationsByMonth returns twelve months of donation sums split by category.
// Rows with an unknown category code are dropped.
func (s *analyticsServiceImpl) DonationsByMonth(ctx context.Context, branch *models.Branch) ([]models.DonationMonth, error) {
	rows, err := s.store.MonthlyTotals(ctx, models.LedgerDonation, helpers.CalendarYear(s.now()), branch, true)
	if err != nil {
		return nil, fmt.Errorf("error aggregating monthly donations: %w", err)
	}

	zero := func(m time.Month) models.DonationMonth {
		return models.DonationMonth{
			Month:      m,
			Sadaqah:    decimal.Zero,
			Zakat:      decimal.Zero,
			Membership: decimal.Zero,
			Others:     decimal.Zero,
		}
	}
	add := func(b *models.DonationMonth, r models.MonthlyAmount) {
		switch r.Category {
		case models.DonationSadaqah:
			b.Sadaqah = b.Sadaqah.Add(r.Amount)
		case models.DonationZakat:
			b.Zakat = b.Zakat.Add(r.Amount)
		case models.DonationMembership:
			b.Membership = b.Membership.Add(r.Amount)
		case models.DonationOthers:
			b.Others = b.Others.Add(r.Amount)
		}
	}

	return monthly.Bucket(rows, monthOf, zero, add), nil
}

// MonthlyReport gathers both series for the spreadsheet export.
func (s *analyticsServiceImpl) MonthlyReport(ctx context.Context, branch *models.Branch) (*models.MonthlyReport, error) {
	incomeExpense, err := s.IncomeExpenseComparison(ctx, branch)
	if err != nil {
		return nil, err
	}
	donations, err := s.DonationsByMonth(ctx, branch)
	if err != nil {
		return nil, err
	}

	return &models.MonthlyReport{
		Year:          s.now().Year(),
		Branch:        branch,
		IncomeExpense: incomeExpense,
		Donations:     donations,
	}, nil
}
