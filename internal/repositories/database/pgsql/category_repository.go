package pgsql

import (
	"context"
	"errors"

	"github.com/fambudget/family_budget_app/internal/apperrors"
	"github.com/fambudget/family_budget_app/internal/core/domain"
	portsrepo "github.com/fambudget/family_budget_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxCategoryRepository struct {
	BaseRepository
}

// newPgxCategoryRepository creates a new repository for category data.
func newPgxCategoryRepository(pool *pgxpool.Pool) portsrepo.CategoryRepositoryFacade {
	return &PgxCategoryRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.CategoryRepositoryFacade = (*PgxCategoryRepository)(nil)

const categorySelectQuery = `
SELECT c.category_id, c.family_id, c.name, c.description, c.color, c.icon,
	c.created_at, c.created_by, c.last_updated_at, c.last_updated_by
FROM categories c
`

func scanCategory(row pgx.Row) (*domain.Category, error) {
	var c domain.Category
	err := row.Scan(
		&c.CategoryID,
		&c.FamilyID,
		&c.Name,
		&c.Description,
		&c.Color,
		&c.Icon,
		&c.CreatedAt,
		&c.CreatedBy,
		&c.LastUpdatedAt,
		&c.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to scan category row", err)
	}
	return &c, nil
}

func (r *PgxCategoryRepository) FindCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error) {
	query := categorySelectQuery + `WHERE c.category_id = $1`
	return scanCategory(r.Pool.QueryRow(ctx, query, categoryID))
}

func (r *PgxCategoryRepository) ListCategoriesByFamily(ctx context.Context, familyID string) ([]domain.Category, error) {
	query := categorySelectQuery + `WHERE c.family_id = $1 ORDER BY c.name ASC`
	rows, err := r.Pool.Query(ctx, query, familyID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query categories of family "+familyID, err)
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating category rows", err)
	}
	return categories, nil
}

func (r *PgxCategoryRepository) SaveCategory(ctx context.Context, category domain.Category) error {
	query := `
		INSERT INTO categories (
			category_id, family_id, name, description, color, icon,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query,
		category.CategoryID,
		category.FamilyID,
		category.Name,
		category.Description,
		category.Color,
		category.Icon,
		category.CreatedAt,
		category.CreatedBy,
		category.LastUpdatedAt,
		category.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err, "uq_categories_family_name") {
			return apperrors.NewConflictError("category " + category.Name + " already exists in family " + category.FamilyID)
		}
		return apperrors.NewAppError(500, "failed to save category "+category.CategoryID, err)
	}
	return nil
}

func (r *PgxCategoryRepository) UpdateCategory(ctx context.Context, category domain.Category) error {
	query := `
		UPDATE categories
		SET name = $1, description = $2, color = $3, icon = $4,
			last_updated_at = $5, last_updated_by = $6
		WHERE category_id = $7;
	`
	result, err := r.Pool.Exec(ctx, query,
		category.Name,
		category.Description,
		category.Color,
		category.Icon,
		category.LastUpdatedAt,
		category.LastUpdatedBy,
		category.CategoryID,
	)
	if err != nil {
		if isUniqueViolation(err, "uq_categories_family_name") {
			return apperrors.NewConflictError("category " + category.Name + " already exists in family " + category.FamilyID)
		}
		return apperrors.NewAppError(500, "failed to update category "+category.CategoryID, err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("category " + category.CategoryID + " not found")
	}
	return nil
}

func (r *PgxCategoryRepository) DeleteCategory(ctx context.Context, categoryID string) error {
	result, err := r.Pool.Exec(ctx, `DELETE FROM categories WHERE category_id = $1`, categoryID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete category "+categoryID, err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("category " + categoryID + " not found")
	}
	return nil
}
