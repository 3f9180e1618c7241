package services

import (
	"context"

	"github.com/fambudget/family_budget_app/internal/core/domain"
	"github.com/fambudget/family_budget_app/internal/dto"
)

// CategorySvcFacade manages expense categories. All operations are gated on
// the caller's active membership in the owning family; reads of invisible
// categories yield NotFound.
type CategorySvcFacade interface {
	CreateCategory(ctx context.Context, req dto.CreateCategoryRequest, creatorUserID string) (*domain.Category, error)
	GetCategory(ctx context.Context, requestingUserID, categoryID string) (*domain.Category, error)
	ListCategories(ctx context.Context, requestingUserID, familyID string) ([]domain.Category, error)
	UpdateCategory(ctx context.Context, requestingUserID, categoryID string, req dto.UpdateCategoryRequest) (*domain.Category, error)
	DeleteCategory(ctx context.Context, requestingUserID, categoryID string) error
}
