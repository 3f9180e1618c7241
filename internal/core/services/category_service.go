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

type categoryService struct {
	BaseService
	categoryRepo portsrepo.CategoryRepositoryFacade
}

// NewCategoryService creates a new category service.
func NewCategoryService(categoryRepo portsrepo.CategoryRepositoryFacade, authorizer portssvc.FamilyAuthorizerSvc) portssvc.CategorySvcFacade {
	svc := &categoryService{
		categoryRepo: categoryRepo,
	}
	svc.FamilyAuthorizer = authorizer
	return svc
}

var _ portssvc.CategorySvcFacade = (*categoryService)(nil)

func (s *categoryService) CreateCategory(ctx context.Context, req dto.CreateCategoryRequest, creatorUserID string) (*domain.Category, error) {
	if err := s.AuthorizeUser(ctx, creatorUserID, req.FamilyID, domain.RoleViewer); err != nil {
		return nil, err
	}

	color := req.Color
	if color == "" {
		color = domain.DefaultCategoryColor
	}

	now := time.Now()
	category := domain.Category{
		CategoryID:  uuid.NewString(),
		FamilyID:    req.FamilyID,
		Name:        req.Name,
		Description: req.Description,
		Color:       color,
		Icon:        req.Icon,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.categoryRepo.SaveCategory(ctx, category); err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) {
			s.LogError(ctx, err, "Failed to save category", slog.String("family_id", req.FamilyID))
		}
		return nil, err
	}
	s.LogInfo(ctx, "Category created",
		slog.String("category_id", category.CategoryID),
		slog.String("family_id", req.FamilyID))
	return &category, nil
}

// getVisibleCategory resolves a category only when the caller actively belongs
// to its family; anything else reads as missing.
func (s *categoryService) getVisibleCategory(ctx context.Context, requestingUserID, categoryID string) (*domain.Category, error) {
	category, err := s.categoryRepo.FindCategoryByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("category " + categoryID + " not found")
		}
		s.LogError(ctx, err, "Failed to fetch category", slog.String("category_id", categoryID))
		return nil, err
	}
	if err := s.AuthorizeUser(ctx, requestingUserID, category.FamilyID, domain.RoleViewer); err != nil {
		return nil, apperrors.NewNotFoundError("category " + categoryID + " not found")
	}
	return category, nil
}

func (s *categoryService) GetCategory(ctx context.Context, requestingUserID, categoryID string) (*domain.Category, error) {
	return s.getVisibleCategory(ctx, requestingUserID, categoryID)
}

func (s *categoryService) ListCategories(ctx context.Context, requestingUserID, familyID string) ([]domain.Category, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, familyID, domain.RoleViewer); err != nil {
		return nil, err
	}
	categories, err := s.categoryRepo.ListCategoriesByFamily(ctx, familyID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list categories", slog.String("family_id", familyID))
		return nil, err
	}
	return categories, nil
}

func (s *categoryService) UpdateCategory(ctx context.Context, requestingUserID, categoryID string, req dto.UpdateCategoryRequest) (*domain.Category, error) {
	category, err := s.getVisibleCategory(ctx, requestingUserID, categoryID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		category.Name = *req.Name
	}
	if req.Description != nil {
		category.Description = *req.Description
	}
	if req.Color != nil {
		category.Color = *req.Color
	}
	if req.Icon != nil {
		category.Icon = *req.Icon
	}
	category.LastUpdatedAt = time.Now()
	category.LastUpdatedBy = requestingUserID

	if err := s.categoryRepo.UpdateCategory(ctx, *category); err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) {
			s.LogError(ctx, err, "Failed to update category", slog.String("category_id", categoryID))
		}
		return nil, err
	}
	return category, nil
}

func (s *categoryService) DeleteCategory(ctx context.Context, requestingUserID, categoryID string) error {
	if _, err := s.getVisibleCategory(ctx, requestingUserID, categoryID); err != nil {
		return err
	}
	if err := s.categoryRepo.DeleteCategory(ctx, categoryID); err != nil {
		s.LogError(ctx, err, "Failed to delete category", slog.String("category_id", categoryID))
		return err
	}
	s.LogInfo(ctx, "Category deleted",
		slog.String("category_id", categoryID),
		slog.String("user_id", requestingUserID))
	return nil
}
