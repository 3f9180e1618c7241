package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/fambudget/family_budget_app/internal/apperrors"
	"github.com/fambudget/family_budget_app/internal/core/domain"
	portsrepo "github.com/fambudget/family_budget_app/internal/core/ports/repositories"
	portssvc "github.com/fambudget/family_budget_app/internal/core/ports/services"
	"github.com/fambudget/family_budget_app/internal/dto"
	"github.com/google/uuid"
)

type budgetService struct {
	BaseService
	budgetRepo   portsrepo.BudgetRepositoryFacade
	categoryRepo portsrepo.CategoryRepositoryFacade
	expenseRepo  portsrepo.ExpenseReader
}

// NewBudgetService creates a new budget service. Consumption metrics are
// recomputed from the expense rows on every read, never persisted.
func NewBudgetService(
	budgetRepo portsrepo.BudgetRepositoryFacade,
	categoryRepo portsrepo.CategoryRepositoryFacade,
	expenseRepo portsrepo.ExpenseReader,
	authorizer portssvc.FamilyAuthorizerSvc,
) portssvc.BudgetSvcFacade {
	svc := &budgetService{
		budgetRepo:   budgetRepo,
		categoryRepo: categoryRepo,
		expenseRepo:  expenseRepo,
	}
	svc.FamilyAuthorizer = authorizer
	return svc
}

var _ portssvc.BudgetSvcFacade = (*budgetService)(nil)

// usageFor sums the budget's matching expenses and derives the metrics.
func (s *budgetService) usageFor(ctx context.Context, budget *domain.Budget) (domain.BudgetUsage, error) {
	spent, err := s.expenseRepo.SumExpenses(ctx, budget.FamilyID, budget.CategoryID, budget.StartDate, budget.EndDate)
	if err != nil {
		s.LogError(ctx, err, "Failed to sum expenses for budget", slog.String("budget_id", budget.BudgetID))
		return domain.BudgetUsage{}, err
	}
	return budget.ComputeUsage(spent), nil
}

func (s *budgetService) CreateBudget(ctx context.Context, req dto.CreateBudgetRequest, creatorUserID string) (*domain.Budget, domain.BudgetUsage, error) {
	if err := s.AuthorizeUser(ctx, creatorUserID, req.FamilyID, domain.RoleViewer); err != nil {
		return nil, domain.BudgetUsage{}, err
	}

	category, err := s.categoryRepo.FindCategoryByID(ctx, req.CategoryID)
	if err != nil || category.FamilyID != req.FamilyID {
		return nil, domain.BudgetUsage{}, apperrors.NewValidationFailedError("category does not belong to the given family")
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, domain.BudgetUsage{}, apperrors.NewValidationFailedError("startDate must use the YYYY-MM-DD form")
	}
	endDate, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return nil, domain.BudgetUsage{}, apperrors.NewValidationFailedError("endDate must use the YYYY-MM-DD form")
	}
	if endDate.Before(startDate) {
		return nil, domain.BudgetUsage{}, apperrors.NewValidationFailedError("endDate must not precede startDate")
	}
	if req.Amount.IsNegative() {
		return nil, domain.BudgetUsage{}, apperrors.NewValidationFailedError("amount must not be negative")
	}

	now := time.Now()
	budget := domain.Budget{
		BudgetID:    uuid.NewString(),
		FamilyID:    req.FamilyID,
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Description: req.Description,
		Amount:      req.Amount,
		Period:      domain.BudgetPeriod(req.Period),
		StartDate:   startDate,
		EndDate:     endDate,
		IsActive:    true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.budgetRepo.SaveBudget(ctx, budget); err != nil {
		s.LogError(ctx, err, "Failed to save budget", slog.String("family_id", req.FamilyID))
		return nil, domain.BudgetUsage{}, err
	}
	s.LogInfo(ctx, "Budget created",
		slog.String("budget_id", budget.BudgetID),
		slog.String("family_id", req.FamilyID))

	usage, err := s.usageFor(ctx, &budget)
	if err != nil {
		return nil, domain.BudgetUsage{}, err
	}
	return &budget, usage, nil
}

func (s *budgetService) getVisibleBudget(ctx context.Context, requestingUserID, budgetID string) (*domain.Budget, error) {
	budget, err := s.budgetRepo.FindBudgetByID(ctx, budgetID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("budget " + budgetID + " not found")
		}
		s.LogError(ctx, err, "Failed to fetch budget", slog.String("budget_id", budgetID))
		return nil, err
	}
	if err := s.AuthorizeUser(ctx, requestingUserID, budget.FamilyID, domain.RoleViewer); err != nil {
		return nil, apperrors.NewNotFoundError("budget " + budgetID + " not found")
	}
	return budget, nil
}

func (s *budgetService) GetBudget(ctx context.Context, requestingUserID, budgetID string) (*domain.Budget, domain.BudgetUsage, error) {
	budget, err := s.getVisibleBudget(ctx, requestingUserID, budgetID)
	if err != nil {
		return nil, domain.BudgetUsage{}, err
	}
	usage, err := s.usageFor(ctx, budget)
	if err != nil {
		return nil, domain.BudgetUsage{}, err
	}
	return budget, usage, nil
}

func (s *budgetService) ListBudgets(ctx context.Context, requestingUserID, familyID string) ([]domain.Budget, []domain.BudgetUsage, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, familyID, domain.RoleViewer); err != nil {
		return nil, nil, err
	}
	budgets, err := s.budgetRepo.ListBudgetsByFamily(ctx, familyID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list budgets", slog.String("family_id", familyID))
		return nil, nil, err
	}
	return s.withUsages(ctx, budgets)
}

func (s *budgetService) ListActiveBudgets(ctx context.Context, requestingUserID string) ([]domain.Budget, []domain.BudgetUsage, error) {
	familyIDs, err := s.FamilyAuthorizer.ActiveFamilyIDs(ctx, requestingUserID)
	if err != nil {
		return nil, nil, err
	}
	if len(familyIDs) == 0 {
		return []domain.Budget{}, []domain.BudgetUsage{}, nil
	}
	budgets, err := s.budgetRepo.ListActiveBudgets(ctx, familyIDs, time.Now())
	if err != nil {
		s.LogError(ctx, err, "Failed to list active budgets", slog.String("user_id", requestingUserID))
		return nil, nil, err
	}
	return s.withUsages(ctx, budgets)
}

func (s *budgetService) withUsages(ctx context.Context, budgets []domain.Budget) ([]domain.Budget, []domain.BudgetUsage, error) {
	usages := make([]domain.BudgetUsage, len(budgets))
	for i := range budgets {
		usage, err := s.usageFor(ctx, &budgets[i])
		if err != nil {
			return nil, nil, err
		}
		usages[i] = usage
	}
	return budgets, usages, nil
}

func (s *budgetService) UpdateBudget(ctx context.Context, requestingUserID, budgetID string, req dto.UpdateBudgetRequest) (*domain.Budget, domain.BudgetUsage, error) {
	budget, err := s.getVisibleBudget(ctx, requestingUserID, budgetID)
	if err != nil {
		return nil, domain.BudgetUsage{}, err
	}

	if req.Name != nil {
		budget.Name = *req.Name
	}
	if req.Description != nil {
		budget.Description = *req.Description
	}
	if req.Amount != nil {
		if req.Amount.IsNegative() {
			return nil, domain.BudgetUsage{}, apperrors.NewValidationFailedError("amount must not be negative")
		}
		budget.Amount = *req.Amount
	}
	if req.Period != nil {
		budget.Period = domain.BudgetPeriod(*req.Period)
	}
	if req.StartDate != nil {
		startDate, err := time.Parse("2006-01-02", *req.StartDate)
		if err != nil {
			return nil, domain.BudgetUsage{}, apperrors.NewValidationFailedError("startDate must use the YYYY-MM-DD form")
		}
		budget.StartDate = startDate
	}
	if req.EndDate != nil {
		endDate, err := time.Parse("2006-01-02", *req.EndDate)
		if err != nil {
			return nil, domain.BudgetUsage{}, apperrors.NewValidationFailedError("endDate must use the YYYY-MM-DD form")
		}
		budget.EndDate = endDate
	}
	if budget.EndDate.Before(budget.StartDate) {
		return nil, domain.BudgetUsage{}, apperrors.NewValidationFailedError("endDate must not precede startDate")
	}
	if req.IsActive != nil {
		budget.IsActive = *req.IsActive
	}
	budget.LastUpdatedAt = time.Now()
	budget.LastUpdatedBy = requestingUserID

	if err := s.budgetRepo.UpdateBudget(ctx, *budget); err != nil {
		s.LogError(ctx, err, "Failed to update budget", slog.String("budget_id", budgetID))
		return nil, domain.BudgetUsage{}, err
	}

	usage, err := s.usageFor(ctx, budget)
	if err != nil {
		return nil, domain.BudgetUsage{}, err
	}
	return budget, usage, nil
}

func (s *budgetService) DeleteBudget(ctx context.Context, requestingUserID, budgetID string) error {
	if _, err := s.getVisibleBudget(ctx, requestingUserID, budgetID); err != nil {
		return err
	}
	if err := s.budgetRepo.DeleteBudget(ctx, budgetID); err != nil {
		s.LogError(ctx, err, "Failed to delete budget", slog.String("budget_id", budgetID))
		return err
	}
	s.LogInfo(ctx, "Budget deleted",
		slog.String("budget_id", budgetID),
		slog.String("user_id", requestingUserID))
	return nil
}
