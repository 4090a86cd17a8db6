package services

import (
	"context"
	"fmt"

	"github.com/madrasa/backoffice/internal/app/models"
	"github.com/madrasa/backoffice/internal/app/models/dto"
	"github.com/madrasa/backoffice/internal/pkg/apperrors"
	"github.com/madrasa/backoffice/internal/pkg/helpers"
)

// LedgerService manages income, donation and expense entries.
type LedgerService interface {
	CreateEntry(ctx context.Context, kind models.LedgerKind, in dto.LedgerInput, adminID int64) (*models.LedgerEntry, error)
	GetEntry(ctx context.Context, kind models.LedgerKind, id int64) (*models.LedgerEntry, error)
	ListEntries(ctx context.Context, kind models.LedgerKind, filter models.LedgerFilter) ([]*models.LedgerEntry, int64, error)
	UpdateEntry(ctx context.Context, kind models.LedgerKind, id int64, in dto.LedgerInput) (*models.LedgerEntry, error)
	DeleteEntry(ctx context.Context, kind models.LedgerKind, id int64) error
}

type ledgerServiceImpl struct {
	store LedgerStore
}

// NewLedgerService creates a new ledger service instance
func NewLedgerService(store LedgerStore) LedgerService {
	return &ledgerServiceImpl{store: store}
}

func (s *ledgerServiceImpl) buildEntry(kind models.LedgerKind, in dto.LedgerInput) (*models.LedgerEntry, error) {
	date, err := helpers.ParseDate(in.Date, dateLocation)
	if err != nil {
		return nil, apperrors.NewValidationError(in.DateField+" must be a valid date", map[string]interface{}{in.DateField: in.Date})
	}
	if !kind.ValidCategory(in.Type) {
		return nil, apperrors.ErrInvalidLedgerType
	}
	branch := models.Branch(in.Branch)
	if !branch.Valid() {
		return nil, apperrors.NewValidationError("branch must be one of 1, 2, 3, 4", map[string]interface{}{"branch": in.Branch})
	}
	amount := money(in.Amount)
	if !amount.IsPositive() {
		return nil, apperrors.NewValidationError("amount must be greater than zero", map[string]interface{}{"amount": in.Amount})
	}

	entry := &models.LedgerEntry{
		Kind:   kind,
		Branch: branch,
		Type:   in.Type,
		Amount: amount,
		Date:   date,
	}
	if in.Notes != "" {
		notes := in.Notes
		entry.Notes = &notes
	}
	return entry, nil
}

// CreateEntry records a new entry authored by adminID.
func (s *ledgerServiceImpl) CreateEntry(ctx context.Context, kind models.LedgerKind, in dto.LedgerInput, adminID int64) (*models.LedgerEntry, error) {
	entry, err := s.buildEntry(kind, in)
	if err != nil {
		return nil, err
	}
	if adminID > 0 {
		entry.AdminID = &adminID
	}

	if err := s.store.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("error creating %s entry: %w", kind, err)
	}
	return entry, nil
}

// GetEntry retrieves one entry.
func (s *ledgerServiceImpl) GetEntry(ctx context.Context, kind models.LedgerKind, id int64) (*models.LedgerEntry, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: invalid %s ID", apperrors.ErrValidationFailed, kind)
	}

	entry, err := s.store.GetByID(ctx, kind, id)
	if err != nil {
		return nil, fmt.Errorf("error retrieving %s entry: %w", kind, err)
	}
	return entry, nil
}

// ListEntries returns one page of entries matching filter.
func (s *ledgerServiceImpl) ListEntries(ctx context.Context, kind models.LedgerKind, filter models.LedgerFilter) ([]*models.LedgerEntry, int64, error) {
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return nil, 0, apperrors.NewValidationError("from must not be after to", nil)
	}
	filter.Page, filter.Limit = helpers.NormalizePage(filter.Page, filter.Limit)

	entries, total, err := s.store.List(ctx, kind, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing %s entries: %w", kind, err)
	}
	return entries, total, nil
}

// UpdateEntry replaces the editable fields of an entry. The author is kept.
func (s *ledgerServiceImpl) UpdateEntry(ctx context.Context, kind models.LedgerKind, id int64, in dto.LedgerInput) (*models.LedgerEntry, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: invalid %s ID", apperrors.ErrValidationFailed, kind)
	}

	entry, err := s.buildEntry(kind, in)
	if err != nil {
		return nil, err
	}
	entry.ID = id

	if err := s.store.Update(ctx, entry); err != nil {
		return nil, fmt.Errorf("error updating %s entry: %w", kind, err)
	}
	return entry, nil
}

// DeleteEntry removes an entry permanently.
func (s *ledgerServiceImpl) DeleteEntry(ctx context.Context, kind models.LedgerKind, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid %s ID", apperrors.ErrValidationFailed, kind)
	}

	if err := s.store.Delete(ctx, kind, id); err != nil {
		return fmt.Errorf("error deleting %s entry: %w", kind, err)
	}
	return nil
}
