package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/madrasa/backoffice/internal/app/models"
	"github.com/madrasa/backoffice/internal/app/models/dto"
	"github.com/madrasa/backoffice/internal/pkg/apperrors"
)

func donationInput() dto.LedgerInput {
	req := &dto.DonationRequest{Branch: 3, DonationType: models.DonationZakat, Amount: 250.456, DonationDate: "2024-04-01", Notes: "Ramadan"}
	return req.Input()
}

func TestCreateEntry(t *testing.T) {
	store := newFakeLedgerStore()
	svc := NewLedgerService(store)

	entry, err := svc.CreateEntry(context.Background(), models.LedgerDonation, donationInput(), 12)
	require.NoError(t, err)

	assert.Equal(t, models.LedgerDonation, entry.Kind)
	assert.Equal(t, models.BranchGirls, entry.Branch)
	assert.Equal(t, "250.46", entry.Amount.StringFixed(2))
	assert.Equal(t, time.April, entry.Date.Month())
	require.NotNil(t, entry.AdminID)
	assert.Equal(t, int64(12), *entry.AdminID)
	require.NotNil(t, entry.Notes)
	assert.Equal(t, "Ramadan", *entry.Notes)
}

func TestCreateEntry_RejectsUnknownCategory(t *testing.T) {
	in := donationInput()
	in.Type = 9

	_, err := NewLedgerService(newFakeLedgerStore()).CreateEntry(context.Background(), models.LedgerDonation, in, 1)
	assert.ErrorIs(t, err, apperrors.ErrInvalidLedgerType)

	// 5 is a valid expense category but not a valid income one
	expense := (&dto.ExpenseRequest{Branch: 1, Type: models.ExpenseOthers, Amount: 10, ExpenseDate: "2024-01-01"}).Input()
	_, err = NewLedgerService(newFakeLedgerStore()).CreateEntry(context.Background(), models.LedgerIncome, expense, 1)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestCreateEntry_RejectsBadDateAndAmount(t *testing.T) {
	svc := NewLedgerService(newFakeLedgerStore())

	in := donationInput()
	in.Date = "01-04-2024"
	_, err := svc.CreateEntry(context.Background(), models.LedgerDonation, in, 1)
	require.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.Contains(t, apperrors.Message(err), "donation_date")

	in = donationInput()
	in.Amount = 0.001
	_, err = svc.CreateEntry(context.Background(), models.LedgerDonation, in, 1)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestUpdateAndDeleteEntry(t *testing.T) {
	store := newFakeLedgerStore()
	svc := NewLedgerService(store)

	created, err := svc.CreateEntry(context.Background(), models.LedgerDonation, donationInput(), 12)
	require.NoError(t, err)

	in := donationInput()
	in.Amount = 100
	updated, err := svc.UpdateEntry(context.Background(), models.LedgerDonation, created.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "100.00", updated.Amount.StringFixed(2))
	require.NotNil(t, updated.AdminID)
	assert.Equal(t, int64(12), *updated.AdminID)

	_, err = svc.GetEntry(context.Background(), models.LedgerIncome, created.ID)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound, "ids are scoped to their ledger")

	require.NoError(t, svc.DeleteEntry(context.Background(), models.LedgerDonation, created.ID))
	assert.ErrorIs(t, svc.DeleteEntry(context.Background(), models.LedgerDonation, created.ID), apperrors.ErrLedgerEntryNotFound)
}

func TestListEntries_RejectsInvertedRange(t *testing.T) {
	store := newFakeLedgerStore()
	from := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

	_, _, err := NewLedgerService(store).ListEntries(context.Background(), models.LedgerIncome, models.LedgerFilter{From: &from, To: &to})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, _, err = NewLedgerService(store).ListEntries(context.Background(), models.LedgerIncome, models.LedgerFilter{Page: 0, Limit: 0})
	require.NoError(t, err)
	assert.Equal(t, 1, store.filter.Page)
	assert.Equal(t, 10, store.filter.Limit)
}
