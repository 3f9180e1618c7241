package pgsql

import (
	portsrepo "github.com/fambudget/family_budget_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires every pgsql repository over a shared pool.
func NewRepositoryProvider(pool *pgxpool.Pool) *portsrepo.RepositoryProvider {
	return &portsrepo.RepositoryProvider{
		UserRepo:       newPgxUserRepository(pool),
		FamilyRepo:     newPgxFamilyRepository(pool),
		CategoryRepo:   newPgxCategoryRepository(pool),
		BudgetRepo:     newPgxBudgetRepository(pool),
		ExpenseRepo:    newPgxExpenseRepository(pool),
		StatisticsRepo: newPgxStatisticsRepository(pool),
	}
}
