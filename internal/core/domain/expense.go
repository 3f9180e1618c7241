package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod is how an expense was settled.
type PaymentMethod string

const (
	PaymentCash          PaymentMethod = "cash"
	PaymentCreditCard    PaymentMethod = "credit_card"
	PaymentDebitCard     PaymentMethod = "debit_card"
	PaymentBankTransfer  PaymentMethod = "bank_transfer"
	PaymentDigitalWallet PaymentMethod = "digital_wallet"
	PaymentOther         PaymentMethod = "other"
)

// Expense is a single ledger entry belonging to exactly one family and one
// category within that family.
type Expense struct {
	ExpenseID     string          `json:"expenseID"` // Primary key (UUID)
	FamilyID      string          `json:"familyID"`
	CategoryID    string          `json:"categoryID"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	PaidByUserID  string          `json:"paidBy"`
	Date          time.Time       `json:"date"` // Day granularity
	PaymentMethod PaymentMethod   `json:"paymentMethod"`
	Tags          string          `json:"tags"` // Comma-separated
	AuditFields
}

// TagList splits the comma-separated tags into a trimmed slice.
// Empty input yields an empty (non-nil) slice.
func (e *Expense) TagList() []string {
	return SplitTags(e.Tags)
}

// SplitTags parses a comma-separated tag string, dropping empty entries.
func SplitTags(tags string) []string {
	out := []string{}
	for _, t := range strings.Split(tags, ",") {
		t = strings.TrimSpace(t)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// RecurrenceFrequency is the declared cadence of a recurring-expense template.
type RecurrenceFrequency string

const (
	FrequencyDaily   RecurrenceFrequency = "daily"
	FrequencyWeekly  RecurrenceFrequency = "weekly"
	FrequencyMonthly RecurrenceFrequency = "monthly"
	FrequencyYearly  RecurrenceFrequency = "yearly"
)

// RecurringExpense is a declared template only. Nothing materializes Expense
// rows from it; that would be the job of a separate scheduling collaborator.
type RecurringExpense struct {
	RecurringExpenseID string              `json:"recurringExpenseID"` // Primary key (UUID)
	FamilyID           string              `json:"familyID"`
	CategoryID         string              `json:"categoryID"`
	Title              string              `json:"title"`
	Description        string              `json:"description"`
	Amount             decimal.Decimal     `json:"amount"`
	PaidByUserID       string              `json:"paidBy"`
	Frequency          RecurrenceFrequency `json:"frequency"`
	StartDate          time.Time           `json:"startDate"`
	EndDate            *time.Time          `json:"endDate,omitempty"`
	PaymentMethod      PaymentMethod       `json:"paymentMethod"`
	IsActive           bool                `json:"isActive"`
	AuditFields
}

// ExpenseShare assigns a portion of an expense to a user. One row per
// (expense, user). Share amounts are not reconciled against the parent
// expense total.
type ExpenseShare struct {
	ShareID   string          `json:"shareID"` // Primary key (UUID)
	ExpenseID string          `json:"expenseID"`
	UserID    string          `json:"userID"`
	Amount    decimal.Decimal `json:"amount"`
	IsPaid    bool            `json:"isPaid"`
	PaidAt    *time.Time      `json:"paidAt,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}
