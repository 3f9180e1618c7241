package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/fambudget/family_budget_app/internal/apperrors"
	"github.com/fambudget/family_budget_app/internal/core/domain"
	portsrepo "github.com/fambudget/family_budget_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxBudgetRepository struct {
	BaseRepository
}

// newPgxBudgetRepository creates a new repository for budget data.
func newPgxBudgetRepository(pool *pgxpool.Pool) portsrepo.BudgetRepositoryFacade {
	return &PgxBudgetRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.BudgetRepositoryFacade = (*PgxBudgetRepository)(nil)

const budgetSelectQuery = `
SELECT b.budget_id, b.family_id, b.category_id, b.name, b.description,
	b.amount, b.period, b.start_date, b.end_date, b.is_active,
	b.created_at, b.created_by, b.last_updated_at, b.last_updated_by
FROM budgets b
`

func scanBudget(row pgx.Row) (*domain.Budget, error) {
	var b domain.Budget
	err := row.Scan(
		&b.BudgetID,
		&b.FamilyID,
		&b.CategoryID,
		&b.Name,
		&b.Description,
		&b.Amount,
		&b.Period,
		&b.StartDate,
		&b.EndDate,
		&b.IsActive,
		&b.CreatedAt,
		&b.CreatedBy,
		&b.LastUpdatedAt,
		&b.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to scan budget row", err)
	}
	return &b, nil
}

func collectBudgets(rows pgx.Rows) ([]domain.Budget, error) {
	defer rows.Close()
	budgets := []domain.Budget{}
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		budgets = append(budgets, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating budget rows", err)
	}
	return budgets, nil
}

func (r *PgxBudgetRepository) FindBudgetByID(ctx context.Context, budgetID string) (*domain.Budget, error) {
	query := budgetSelectQuery + `WHERE b.budget_id = $1`
	return scanBudget(r.Pool.QueryRow(ctx, query, budgetID))
}

func (r *PgxBudgetRepository) ListBudgetsByFamily(ctx context.Context, familyID string) ([]domain.Budget, error) {
	query := budgetSelectQuery + `WHERE b.family_id = $1 ORDER BY b.created_at DESC`
	rows, err := r.Pool.Query(ctx, query, familyID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query budgets of family "+familyID, err)
	}
	return collectBudgets(rows)
}

func (r *PgxBudgetRepository) ListActiveBudgets(ctx context.Context, familyIDs []string, day time.Time) ([]domain.Budget, error) {
	query := budgetSelectQuery + `
		WHERE b.family_id = ANY($1)
			AND b.is_active = TRUE
			AND b.start_date <= $2 AND b.end_date >= $2
		ORDER BY b.end_date ASC`
	rows, err := r.Pool.Query(ctx, query, familyIDs, day)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query active budgets", err)
	}
	return collectBudgets(rows)
}

func (r *PgxBudgetRepository) SaveBudget(ctx context.Context, budget domain.Budget) error {
	query := `
		INSERT INTO budgets (
			budget_id, family_id, category_id, name, description,
			amount, period, start_date, end_date, is_active,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := r.Pool.Exec(ctx, query,
		budget.BudgetID,
		budget.FamilyID,
		budget.CategoryID,
		budget.Name,
		budget.Description,
		budget.Amount,
		budget.Period,
		budget.StartDate,
		budget.EndDate,
		budget.IsActive,
		budget.CreatedAt,
		budget.CreatedBy,
		budget.LastUpdatedAt,
		budget.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to save budget "+budget.BudgetID, err)
	}
	return nil
}

func (r *PgxBudgetRepository) UpdateBudget(ctx context.Context, budget domain.Budget) error {
	query := `
		UPDATE budgets
		SET category_id = $1, name = $2, description = $3, amount = $4,
			period = $5, start_date = $6, end_date = $7, is_active = $8,
			last_updated_at = $9, last_updated_by = $10
		WHERE budget_id = $11;
	`
	result, err := r.Pool.Exec(ctx, query,
		budget.CategoryID,
		budget.Name,
		budget.Description,
		budget.Amount,
		budget.Period,
		budget.StartDate,
		budget.EndDate,
		budget.IsActive,
		budget.LastUpdatedAt,
		budget.LastUpdatedBy,
		budget.BudgetID,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update budget "+budget.BudgetID, err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("budget " + budget.BudgetID + " not found")
	}
	return nil
}

func (r *PgxBudgetRepository) DeleteBudget(ctx context.Context, budgetID string) error {
	result, err := r.Pool.Exec(ctx, `DELETE FROM budgets WHERE budget_id = $1`, budgetID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete budget "+budgetID, err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("budget " + budgetID + " not found")
	}
	return nil
}
