package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/madrasa/backoffice/internal/app/models"
	"github.com/madrasa/backoffice/internal/db"
	"github.com/madrasa/backoffice/internal/pkg/apperrors"
	"github.com/madrasa/backoffice/internal/pkg/helpers"
	"github.com/madrasa/backoffice/internal/pkg/logger"
)

// ledgerTable describes where a ledger lives. The three ledgers share one shape
// and differ only in table, date column and category column names.
type ledgerTable struct {
	name       string
	dateColumn string
	typeColumn string
}

var ledgerTables = map[models.LedgerKind]ledgerTable{
	models.LedgerIncome:   {name: "incomes", dateColumn: "income_date", typeColumn: "type"},
	models.LedgerDonation: {name: "donations", dateColumn: "donation_date", typeColumn: "donation_type"},
	models.LedgerExpense:  {name: "expenses", dateColumn: "expense_date", typeColumn: "type"},
}

// calendarDate binds t to a DATE column as the day it reads as in its own zone,
// so the stored day never depends on the database session time zone.
func calendarDate(t time.Time) string {
	return t.Format(helpers.DateLayout)
}

func tableFor(kind models.LedgerKind) (ledgerTable, error) {
	t, ok := ledgerTables[kind]
	if !ok {
		return ledgerTable{}, fmt.Errorf("unknown ledger kind %q", kind)
	}
	return t, nil
}

// LedgerRepository handles the income, donation and expense tables.
type LedgerRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewLedgerRepository creates a new LedgerRepository
func NewLedgerRepository(conn db.DBTX) *LedgerRepository {
	return &LedgerRepository{
		db: conn,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (t ledgerTable) columns() []string {
	return []string{"id", "branch", t.typeColumn, "amount", t.dateColumn, "notes", "admin_id", "created_at", "updated_at"}
}

func scanLedgerEntry(row pgx.Row, kind models.LedgerKind) (*models.LedgerEntry, error) {
	e := &models.LedgerEntry{Kind: kind}
	err := row.Scan(&e.ID, &e.Branch, &e.Type, &e.Amount, &e.Date, &e.Notes, &e.AdminID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// Create inserts an entry and fills its ID and timestamps.
func (r *LedgerRepository) Create(ctx context.Context, entry *models.LedgerEntry) error {
	t, err := tableFor(entry.Kind)
	if err != nil {
		return err
	}

	sql, args, err := r.sb.Insert(t.name).
		Columns("branch", t.typeColumn, "amount", t.dateColumn, "notes", "admin_id").
		Values(entry.Branch, entry.Type, entry.Amount, calendarDate(entry.Date), entry.Notes, entry.AdminID).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Str("ledger", t.name).Msg("Error building create ledger entry SQL")
		return fmt.Errorf("failed to build create %s query: %w", t.name, err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&entry.ID, &entry.CreatedAt, &entry.UpdatedAt); err != nil {
		logger.Error().Err(err).Str("ledger", t.name).Msg("Error executing create ledger entry query")
		return fmt.Errorf("error creating %s entry: %w", entry.Kind, err)
	}
	return nil
}

// GetByID fetches one entry of kind.
func (r *LedgerRepository) GetByID(ctx context.Context, kind models.LedgerKind, id int64) (*models.LedgerEntry, error) {
	t, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	sql, args, err := r.sb.Select(t.columns()...).
		From(t.name).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get %s query: %w", t.name, err)
	}

	entry, err := scanLedgerEntry(r.db.QueryRow(ctx, sql, args...), kind)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrLedgerEntryNotFound
		}
		logger.Error().Err(err).Str("ledger", t.name).Int64("id", id).Msg("Error scanning ledger entry")
		return nil, fmt.Errorf("error getting %s entry: %w", kind, err)
	}
	return entry, nil
}

func applyLedgerFilter(q squirrel.SelectBuilder, t ledgerTable, f models.LedgerFilter) squirrel.SelectBuilder {
	if f.Branch != nil {
		q = q.Where(squirrel.Eq{"branch": *f.Branch})
	}
	if f.Type != nil {
		q = q.Where(squirrel.Eq{t.typeColumn: *f.Type})
	}
	if f.From != nil {
		q = q.Where(squirrel.GtOrEq{t.dateColumn: calendarDate(*f.From)})
	}
	if f.To != nil {
		q = q.Where(squirrel.LtOrEq{t.dateColumn: calendarDate(*f.To)})
	}
	return q
}

// List returns one page of entries, newest first, and the total match count.
func (r *LedgerRepository) List(ctx context.Context, kind models.LedgerKind, filter models.LedgerFilter) ([]*models.LedgerEntry, int64, error) {
	t, err := tableFor(kind)
	if err != nil {
		return nil, 0, err
	}

	countSQL, countArgs, err := applyLedgerFilter(r.sb.Select("COUNT(*)").From(t.name), t, filter).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count %s query: %w", t.name, err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		logger.Error().Err(err).Str("ledger", t.name).Msg("Error counting ledger entries")
		return nil, 0, fmt.Errorf("error counting %s entries: %w", kind, err)
	}

	offset, limit := helpers.CalculateOffsetLimit(filter.Page, filter.Limit)
	sql, args, err := applyLedgerFilter(r.sb.Select(t.columns()...).From(t.name), t, filter).
		OrderBy(t.dateColumn+" DESC", "id DESC").
		Limit(limit).
		Offset(offset).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list %s query: %w", t.name, err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("ledger", t.name).Msg("Error executing list ledger query")
		return nil, 0, fmt.Errorf("error listing %s entries: %w", kind, err)
	}
	defer rows.Close()

	entries := []*models.LedgerEntry{}
	for rows.Next() {
		entry, err := scanLedgerEntry(rows, kind)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning %s row: %w", kind, err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating %s rows: %w", kind, err)
	}

	return entries, total, nil
}

// Update overwrites the editable fields of an entry.
func (r *LedgerRepository) Update(ctx context.Context, entry *models.LedgerEntry) error {
	t, err := tableFor(entry.Kind)
	if err != nil {
		return err
	}

	sql, args, err := r.sb.Update(t.name).
		SetMap(map[string]interface{}{
			"branch":     entry.Branch,
			t.typeColumn: entry.Type,
			"amount":     entry.Amount,
			t.dateColumn: calendarDate(entry.Date),
			"notes":      entry.Notes,
			"updated_at": time.Now(),
		}).
		Where(squirrel.Eq{"id": entry.ID}).
		Suffix("RETURNING admin_id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update %s query: %w", t.name, err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&entry.AdminID, &entry.CreatedAt, &entry.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrLedgerEntryNotFound
		}
		logger.Error().Err(err).Str("ledger", t.name).Int64("id", entry.ID).Msg("Error executing update ledger query")
		return fmt.Errorf("error updating %s entry: %w", entry.Kind, err)
	}
	return nil
}

// Delete removes an entry for good.
func (r *LedgerRepository) Delete(ctx context.Context, kind models.LedgerKind, id int64) error {
	t, err := tableFor(kind)
	if err != nil {
		return err
	}

	sql, args, err := r.sb.Delete(t.name).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete %s query: %w", t.name, err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("ledger", t.name).Int64("id", id).Msg("Error executing delete ledger query")
		return fmt.Errorf("error deleting %s entry: %w", kind, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrLedgerEntryNotFound
	}
	return nil
}
