package services

import (
	portsrepo "github.com/fambudget/family_budget_app/internal/core/ports/repositories"
	portssvc "github.com/fambudget/family_budget_app/internal/core/ports/services"
	"github.com/fambudget/family_budget_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Family service first since the other services depend on its authorizer
	container.Family = NewFamilyService(repos.FamilyRepo, repos.UserRepo)
	authorizer := container.Family.(portssvc.FamilyAuthorizerSvc)

	container.User = NewUserService(repos.UserRepo)
	container.Category = NewCategoryService(repos.CategoryRepo, authorizer)
	container.Budget = NewBudgetService(repos.BudgetRepo, repos.CategoryRepo, repos.ExpenseRepo, authorizer)
	container.Expense = NewExpenseService(repos.ExpenseRepo, repos.CategoryRepo, authorizer)
	container.Statistics = NewStatisticsService(repos.StatisticsRepo, authorizer)

	container.Token = NewTokenService(cfg, repos.UserRepo)
	container.GoogleOAuth = NewGoogleOAuthService(cfg)

	return container
}
