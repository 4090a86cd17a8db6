package dto

import (
	"time"

	"github.com/madrasa/backoffice/internal/app/models"
)

// LedgerInput is the kind-independent content of a ledger write request.
type LedgerInput struct {
	Branch    int16
	Type      int
	Amount    float64
	Date      string
	DateField string
	Notes     string
}

// LedgerRequest is implemented by the per-ledger request bodies.
type LedgerRequest interface {
	Input() LedgerInput
}

// IncomeRequest is the create/update body of /incomes.
type IncomeRequest struct {
	Branch     int16   `json:"branch" binding:"required,min=1,max=4"`
	Type       int     `json:"type" binding:"required,min=1"`
	Amount     float64 `json:"amount" binding:"required,gt=0"`
	IncomeDate string  `json:"income_date" binding:"required" example:"2024-03-15"`
	Notes      string  `json:"notes" binding:"max=500"`
}

func (r *IncomeRequest) Input() LedgerInput {
	return LedgerInput{Branch: r.Branch, Type: r.Type, Amount: r.Amount, Date: r.IncomeDate, DateField: "income_date", Notes: r.Notes}
}

// DonationRequest is the create/update body of /donations.
type DonationRequest struct {
	Branch       int16   `json:"branch" binding:"required,min=1,max=4"`
	DonationType int     `json:"donation_type" binding:"required,min=1"`
	Amount       float64 `json:"amount" binding:"required,gt=0"`
	DonationDate string  `json:"donation_date" binding:"required" example:"2024-03-15"`
	Notes        string  `json:"notes" binding:"max=500"`
}

func (r *DonationRequest) Input() LedgerInput {
	return LedgerInput{Branch: r.Branch, Type: r.DonationType, Amount: r.Amount, Date: r.DonationDate, DateField: "donation_date", Notes: r.Notes}
}

// ExpenseRequest is the create/update body of /expenses.
type ExpenseRequest struct {
	Branch      int16   `json:"branch" binding:"required,min=1,max=4"`
	Type        int     `json:"type" binding:"required,min=1"`
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	ExpenseDate string  `json:"expense_date" binding:"required" example:"2024-03-15"`
	Notes       string  `json:"notes" binding:"max=500"`
}

func (r *ExpenseRequest) Input() LedgerInput {
	return LedgerInput{Branch: r.Branch, Type: r.Type, Amount: r.Amount, Date: r.ExpenseDate, DateField: "expense_date", Notes: r.Notes}
}

// NewLedgerRequest returns an empty request body for kind, ready for binding.
func NewLedgerRequest(kind models.LedgerKind) LedgerRequest {
	switch kind {
	case models.LedgerDonation:
		return &DonationRequest{}
	case models.LedgerExpense:
		return &ExpenseRequest{}
	default:
		return &IncomeRequest{}
	}
}

// IncomeResponse is one income row.
type IncomeResponse struct {
	ID         int64     `json:"id"`
	Branch     int16     `json:"branch"`
	Type       int       `json:"type"`
	Category   string    `json:"category"`
	Amount     float64   `json:"amount"`
	IncomeDate string    `json:"income_date"`
	Notes      *string   `json:"notes,omitempty"`
	AdminID    *int64    `json:"admin_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// DonationResponse is one donation row.
type DonationResponse struct {
	ID           int64     `json:"id"`
	Branch       int16     `json:"branch"`
	DonationType int       `json:"donation_type"`
	Category     string    `json:"category"`
	Amount       float64   `json:"amount"`
	DonationDate string    `json:"donation_date"`
	Notes        *string   `json:"notes,omitempty"`
	AdminID      *int64    `json:"admin_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ExpenseResponse is one expense row.
type ExpenseResponse struct {
	ID          int64     `json:"id"`
	Branch      int16     `json:"branch"`
	Type        int       `json:"type"`
	Category    string    `json:"category"`
	Amount      float64   `json:"amount"`
	ExpenseDate string    `json:"expense_date"`
	Notes       *string   `json:"notes,omitempty"`
	AdminID     *int64    `json:"admin_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewLedgerResponse renders entry in the JSON shape of its ledger.
func NewLedgerResponse(entry *models.LedgerEntry) interface{} {
	date := entry.Date.Format("2006-01-02")
	amount := entry.Amount.InexactFloat64()
	category := entry.Kind.CategoryName(entry.Type)

	switch entry.Kind {
	case models.LedgerDonation:
		return DonationResponse{
			ID: entry.ID, Branch: int16(entry.Branch), DonationType: entry.Type, Category: category,
			Amount: amount, DonationDate: date, Notes: entry.Notes, AdminID: entry.AdminID,
			CreatedAt: entry.CreatedAt, UpdatedAt: entry.UpdatedAt,
		}
	case models.LedgerExpense:
		return ExpenseResponse{
			ID: entry.ID, Branch: int16(entry.Branch), Type: entry.Type, Category: category,
			Amount: amount, ExpenseDate: date, Notes: entry.Notes, AdminID: entry.AdminID,
			CreatedAt: entry.CreatedAt, UpdatedAt: entry.UpdatedAt,
		}
	default:
		return IncomeResponse{
			ID: entry.ID, Branch: int16(entry.Branch), Type: entry.Type, Category: category,
			Amount: amount, IncomeDate: date, Notes: entry.Notes, AdminID: entry.AdminID,
			CreatedAt: entry.CreatedAt, UpdatedAt: entry.UpdatedAt,
		}
	}
}

// NewLedgerResponses converts a page of entries.
func NewLedgerResponses(entries []*models.LedgerEntry) []interface{} {
	out := make([]interface{}, 0, len(entries))
	for _, e := range entries {
		out = append(out, NewLedgerResponse(e))
	}
	return out
}
