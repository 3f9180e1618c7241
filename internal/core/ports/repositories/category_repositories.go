package repositories

import (
	"context"

	"github.com/fambudget/family_budget_app/internal/core/domain"
)

// CategoryReader defines read operations for category data
type CategoryReader interface {
	// FindCategoryByID retrieves a category by its ID.
	FindCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error)

	// ListCategoriesByFamily retrieves all categories of a family ordered by name.
	ListCategoriesByFamily(ctx context.Context, familyID string) ([]domain.Category, error)
}

// CategoryWriter defines write operations for category data
type CategoryWriter interface {
	// SaveCategory persists a new category. A duplicate (family, name) pair
	// yields a Conflict error.
	SaveCategory(ctx context.Context, category domain.Category) error

	// UpdateCategory updates a category's mutable fields.
	UpdateCategory(ctx context.Context, category domain.Category) error

	// DeleteCategory removes a category; its expenses cascade at the store level.
	DeleteCategory(ctx context.Context, categoryID string) error
}

// CategoryRepositoryFacade combines all category-related repository interfaces.
type CategoryRepositoryFacade interface {
	CategoryReader
	CategoryWriter
}
