package repositories

import (
	"context"
	"time"

	"github.com/fambudget/family_budget_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ExpenseListFilter narrows an expense listing. Zero values mean no filter.
type ExpenseListFilter struct {
	FamilyID      string
	CategoryID    string
	PaidByUserID  string
	PaymentMethod domain.PaymentMethod
	DateFrom      *time.Time
	DateTo        *time.Time
}

// ExpenseReader defines read operations for expense data
type ExpenseReader interface {
	// FindExpenseByID retrieves an expense by its ID.
	FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error)

	// ListExpenses retrieves expenses of the given families matching the filter,
	// ordered by (date, created_at) descending. The after cursor, when non-nil,
	// returns rows strictly older than (afterDate, afterCreatedAt). Returns up
	// to limit rows.
	ListExpenses(ctx context.Context, familyIDs []string, filter ExpenseListFilter, afterDate, afterCreatedAt *time.Time, limit int) ([]domain.Expense, error)

	// SumExpenses returns the summed amount of expenses for a (family, category)
	// pair within [from, to] inclusive. An empty set sums to zero.
	SumExpenses(ctx context.Context, familyID, categoryID string, from, to time.Time) (decimal.Decimal, error)
}

// ExpenseWriter defines write operations for expense data
type ExpenseWriter interface {
	// SaveExpense persists a new expense.
	SaveExpense(ctx context.Context, expense domain.Expense) error

	// UpdateExpense updates an expense's mutable fields.
	UpdateExpense(ctx context.Context, expense domain.Expense) error

	// DeleteExpense removes an expense; its shares cascade at the store level.
	DeleteExpense(ctx context.Context, expenseID string) error
}

// RecurringExpenseRepository defines operations for recurring-expense templates
type RecurringExpenseRepository interface {
	FindRecurringExpenseByID(ctx context.Context, recurringExpenseID string) (*domain.RecurringExpense, error)
	ListRecurringExpensesByFamily(ctx context.Context, familyID string) ([]domain.RecurringExpense, error)
	SaveRecurringExpense(ctx context.Context, recurring domain.RecurringExpense) error
	UpdateRecurringExpense(ctx context.Context, recurring domain.RecurringExpense) error
	DeleteRecurringExpense(ctx context.Context, recurringExpenseID string) error
}

// ExpenseShareRepository defines operations for expense shares
type ExpenseShareRepository interface {
	FindShareByID(ctx context.Context, shareID string) (*domain.ExpenseShare, error)
	ListSharesByExpense(ctx context.Context, expenseID string) ([]domain.ExpenseShare, error)

	// SaveShare inserts a new share. A duplicate (expense, user) pair yields a
	// Conflict error.
	SaveShare(ctx context.Context, share domain.ExpenseShare) error
	UpdateShare(ctx context.Context, share domain.ExpenseShare) error
	DeleteShare(ctx context.Context, shareID string) error
}

// ExpenseRepositoryFacade combines all expense-related repository interfaces.
type ExpenseRepositoryFacade interface {
	ExpenseReader
	ExpenseWriter
	RecurringExpenseRepository
	ExpenseShareRepository
}
