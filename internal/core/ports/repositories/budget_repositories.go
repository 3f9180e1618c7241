package repositories

import (
	"context"
	"time"

	"github.com/fambudget/family_budget_app/internal/core/domain"
)

// BudgetReader defines read operations for budget data
type BudgetReader interface {
	// FindBudgetByID retrieves a budget by its ID.
	FindBudgetByID(ctx context.Context, budgetID string) (*domain.Budget, error)

	// ListBudgetsByFamily retrieves all budgets of a family, newest first.
	ListBudgetsByFamily(ctx context.Context, familyID string) ([]domain.Budget, error)

	// ListActiveBudgets retrieves is_active budgets of the given families whose
	// date window contains the given day.
	ListActiveBudgets(ctx context.Context, familyIDs []string, day time.Time) ([]domain.Budget, error)
}

// BudgetWriter defines write operations for budget data
type BudgetWriter interface {
	// SaveBudget persists a new budget.
	SaveBudget(ctx context.Context, budget domain.Budget) error

	// UpdateBudget updates a budget's mutable fields.
	UpdateBudget(ctx context.Context, budget domain.Budget) error

	// DeleteBudget removes a budget.
	DeleteBudget(ctx context.Context, budgetID string) error
}

// BudgetRepositoryFacade combines all budget-related repository interfaces.
type BudgetRepositoryFacade interface {
	BudgetReader
	BudgetWriter
}
