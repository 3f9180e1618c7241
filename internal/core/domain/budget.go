package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BudgetPeriod is the declared cadence of a budget window.
type BudgetPeriod string

const (
	PeriodMonthly BudgetPeriod = "monthly"
	PeriodYearly  BudgetPeriod = "yearly"
)

// Budget caps spending for one category of one family over a date window.
// Spent/remaining/percentage are derived from current expense rows on every
// read and are never persisted.
type Budget struct {
	BudgetID    string          `json:"budgetID"` // Primary key (UUID)
	FamilyID    string          `json:"familyID"`
	CategoryID  string          `json:"categoryID"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Period      BudgetPeriod    `json:"period"`
	StartDate   time.Time       `json:"startDate"`
	EndDate     time.Time       `json:"endDate"`
	IsActive    bool            `json:"isActive"`
	AuditFields
}

// BudgetUsage holds the derived consumption metrics for a budget.
type BudgetUsage struct {
	SpentAmount     decimal.Decimal `json:"spentAmount"`
	RemainingAmount decimal.Decimal `json:"remainingAmount"` // Negative when over budget
	SpentPercentage decimal.Decimal `json:"spentPercentage"` // Unbounded above 100
}

// ComputeUsage derives consumption metrics from the summed expense amount.
// A zero-amount budget reports zero percent rather than dividing by zero.
func (b *Budget) ComputeUsage(spent decimal.Decimal) BudgetUsage {
	usage := BudgetUsage{
		SpentAmount:     spent,
		RemainingAmount: b.Amount.Sub(spent),
	}
	if b.Amount.IsZero() {
		usage.SpentPercentage = decimal.Zero
		return usage
	}
	usage.SpentPercentage = spent.Div(b.Amount).Mul(decimal.NewFromInt(100))
	return usage
}
