package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerKind names one of the three independent financial ledgers.
type LedgerKind string

const (
	LedgerIncome   LedgerKind = "income"
	LedgerDonation LedgerKind = "donation"
	LedgerExpense  LedgerKind = "expense"
)

// Donation category codes.
const (
	DonationSadaqah    = 1
	DonationZakat      = 2
	DonationMembership = 3
	DonationOthers     = 4
)

// Income category codes.
const (
	IncomeAdmission  = 1
	IncomeMonthlyFee = 2
	IncomeHostelFee  = 3
	IncomeOthers     = 4
)

// Expense category codes.
const (
	ExpenseSalary      = 1
	ExpenseUtilities   = 2
	ExpenseFood        = 3
	ExpenseMaintenance = 4
	ExpenseOthers      = 5
)

var ledgerCategories = map[LedgerKind]map[int]string{
	LedgerIncome: {
		IncomeAdmission:  "admission",
		IncomeMonthlyFee: "monthly_fee",
		IncomeHostelFee:  "hostel_fee",
		IncomeOthers:     "others",
	},
	LedgerDonation: {
		DonationSadaqah:    "sadaqah",
		DonationZakat:      "zakat",
		DonationMembership: "membership",
		DonationOthers:     "others",
	},
	LedgerExpense: {
		ExpenseSalary:      "salary",
		ExpenseUtilities:   "utilities",
		ExpenseFood:        "food",
		ExpenseMaintenance: "maintenance",
		ExpenseOthers:      "others",
	},
}

// ValidCategory reports whether code is a known category of the ledger.
func (k LedgerKind) ValidCategory(code int) bool {
	_, ok := ledgerCategories[k][code]
	return ok
}

// CategoryName returns the label of a category code, or "" when unknown.
func (k LedgerKind) CategoryName(code int) string {
	return ledgerCategories[k][code]
}

// LedgerEntry is one row of an income, donation or expense ledger. Type holds
// the category code (donation_type for donations).
type LedgerEntry struct {
	ID        int64
	Kind      LedgerKind
	Branch    Branch
	Type      int
	Amount    decimal.Decimal
	Date      time.Time
	Notes     *string
	AdminID   *int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// LedgerFilter narrows ledger listings.
type LedgerFilter struct {
	Branch *Branch
	Type   *int
	From   *time.Time
	To     *time.Time
	Page   int
	Limit  int
}
