package services

import (
	"context"

	"github.com/fambudget/family_budget_app/internal/core/domain"
	"github.com/fambudget/family_budget_app/internal/dto"
)

// BudgetSvcFacade manages budgets and their derived consumption metrics.
// Usage is recomputed from current expense rows on every read; it is never
// cached or persisted.
type BudgetSvcFacade interface {
	CreateBudget(ctx context.Context, req dto.CreateBudgetRequest, creatorUserID string) (*domain.Budget, domain.BudgetUsage, error)
	GetBudget(ctx context.Context, requestingUserID, budgetID string) (*domain.Budget, domain.BudgetUsage, error)
	ListBudgets(ctx context.Context, requestingUserID, familyID string) ([]domain.Budget, []domain.BudgetUsage, error)

	// ListActiveBudgets returns is_active budgets across the caller's families
	// whose date window contains today.
	ListActiveBudgets(ctx context.Context, requestingUserID string) ([]domain.Budget, []domain.BudgetUsage, error)

	UpdateBudget(ctx context.Context, requestingUserID, budgetID string, req dto.UpdateBudgetRequest) (*domain.Budget, domain.BudgetUsage, error)
	DeleteBudget(ctx context.Context, requestingUserID, budgetID string) error
}
