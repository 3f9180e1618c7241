package services

import (
	"context"

	"github.com/fambudget/family_budget_app/internal/core/domain"
	"github.com/fambudget/family_budget_app/internal/dto"
)

// ExpenseSvcFacade manages the expense ledger: expenses, recurring-expense
// templates, and shares. Mutations require an active membership (any role) in
// the owning family; reads of invisible records yield NotFound.
type ExpenseSvcFacade interface {
	CreateExpense(ctx context.Context, req dto.CreateExpenseRequest, payerUserID string) (*domain.Expense, error)
	GetExpense(ctx context.Context, requestingUserID, expenseID string) (*domain.Expense, error)

	// ListExpenses returns a page of expenses across the caller's families
	// (optionally narrowed by the filter) plus the cursor for the next page,
	// empty when exhausted.
	ListExpenses(ctx context.Context, requestingUserID string, params dto.ListExpensesParams) ([]domain.Expense, string, error)

	// ListRecentExpenses returns the newest expenses for the dashboard.
	ListRecentExpenses(ctx context.Context, requestingUserID string, params dto.RecentExpensesParams) ([]domain.Expense, error)

	UpdateExpense(ctx context.Context, requestingUserID, expenseID string, req dto.UpdateExpenseRequest) (*domain.Expense, error)
	DeleteExpense(ctx context.Context, requestingUserID, expenseID string) error

	CreateRecurringExpense(ctx context.Context, req dto.CreateRecurringExpenseRequest, payerUserID string) (*domain.RecurringExpense, error)
	GetRecurringExpense(ctx context.Context, requestingUserID, recurringExpenseID string) (*domain.RecurringExpense, error)
	ListRecurringExpenses(ctx context.Context, requestingUserID, familyID string) ([]domain.RecurringExpense, error)
	UpdateRecurringExpense(ctx context.Context, requestingUserID, recurringExpenseID string, req dto.UpdateRecurringExpenseRequest) (*domain.RecurringExpense, error)
	DeleteRecurringExpense(ctx context.Context, requestingUserID, recurringExpenseID string) error

	CreateExpenseShare(ctx context.Context, requestingUserID, expenseID string, req dto.CreateExpenseShareRequest) (*domain.ExpenseShare, error)
	ListExpenseShares(ctx context.Context, requestingUserID, expenseID string) ([]domain.ExpenseShare, error)
	UpdateExpenseShare(ctx context.Context, requestingUserID, shareID string, req dto.UpdateExpenseShareRequest) (*domain.ExpenseShare, error)
	DeleteExpenseShare(ctx context.Context, requestingUserID, shareID string) error
}
