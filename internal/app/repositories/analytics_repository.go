package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"

	"github.com/madrasa/backoffice/internal/app/models"
	"github.com/madrasa/backoffice/internal/db"
	"github.com/madrasa/backoffice/internal/pkg/logger"
)

// AnalyticsRepository runs the grouped sums behind the reporting endpoints.
// Filtering and summation happen in PostgreSQL; callers reshape the rows.
type AnalyticsRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewAnalyticsRepository creates a new AnalyticsRepository
func NewAnalyticsRepository(conn db.DBTX) *AnalyticsRepository {
	return &AnalyticsRepository{
		db: conn,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func windowFilter(q squirrel.SelectBuilder, t ledgerTable, window models.DateRange, branch *models.Branch) squirrel.SelectBuilder {
	q = q.Where(squirrel.GtOrEq{t.dateColumn: calendarDate(window.Start)}).
		Where(squirrel.LtOrEq{t.dateColumn: calendarDate(window.End)})
	if branch != nil {
		q = q.Where(squirrel.Eq{"branch": *branch})
	}
	return q
}

// Total sums the amount of one ledger over window, optionally for one branch.
func (r *AnalyticsRepository) Total(ctx context.Context, kind models.LedgerKind, window models.DateRange, branch *models.Branch) (decimal.Decimal, error) {
	t, err := tableFor(kind)
	if err != nil {
		return decimal.Zero, err
	}

	sql, args, err := windowFilter(r.sb.Select("COALESCE(SUM(amount), 0)").From(t.name), t, window, branch).ToSql()
	if err != nil {
		logger.Error().Err(err).Str("ledger", t.name).Msg("Error building total SQL")
		return decimal.Zero, fmt.Errorf("failed to build %s total query: %w", t.name, err)
	}

	var total decimal.Decimal
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		logger.Error().Err(err).Str("ledger", t.name).Msg("Error executing total query")
		return decimal.Zero, fmt.Errorf("error summing %s: %w", t.name, err)
	}
	return total, nil
}

// Totals sums the three ledgers over the same window.
func (r *AnalyticsRepository) Totals(ctx context.Context, window models.DateRange, branch *models.Branch) (models.OverviewTotals, error) {
	var totals models.OverviewTotals
	var err error

	if totals.Income, err = r.Total(ctx, models.LedgerIncome, window, branch); err != nil {
		return models.OverviewTotals{}, err
	}
	if totals.Donations, err = r.Total(ctx, models.LedgerDonation, window, branch); err != nil {
		return models.OverviewTotals{}, err
	}
	if totals.Expense, err = r.Total(ctx, models.LedgerExpense, window, branch); err != nil {
		return models.OverviewTotals{}, err
	}
	return totals, nil
}

// MonthlyTotals groups one ledger by calendar month, and by category code when
// byCategory is set. Months without rows are absent from the result. The date
// columns are DATE, so the extracted month is the day the entry was recorded on.
func (r *AnalyticsRepository) MonthlyTotals(ctx context.Context, kind models.LedgerKind, window models.DateRange, branch *models.Branch, byCategory bool) ([]models.MonthlyAmount, error) {
	t, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	columns := []string{fmt.Sprintf("EXTRACT(MONTH FROM %s)::int AS month", t.dateColumn)}
	groupBy := []string{"month"}
	if byCategory {
		columns = append(columns, t.typeColumn+"::int AS category")
		groupBy = append(groupBy, "category")
	} else {
		columns = append(columns, "0 AS category")
	}
	columns = append(columns, "COALESCE(SUM(amount), 0) AS total")

	sql, args, err := windowFilter(r.sb.Select(columns...).From(t.name), t, window, branch).
		GroupBy(groupBy...).
		OrderBy(groupBy...).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Str("ledger", t.name).Msg("Error building monthly totals SQL")
		return nil, fmt.Errorf("failed to build %s monthly query: %w", t.name, err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("ledger", t.name).Msg("Error executing monthly totals query")
		return nil, fmt.Errorf("error aggregating %s by month: %w", t.name, err)
	}
	defer rows.Close()

	result := []models.MonthlyAmount{}
	for rows.Next() {
		var m models.MonthlyAmount
		if err := rows.Scan(&m.Month, &m.Category, &m.Amount); err != nil {
			return nil, fmt.Errorf("error scanning %s monthly row: %w", t.name, err)
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s monthly rows: %w", t.name, err)
	}

	return result, nil
}
