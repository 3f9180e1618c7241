package dto

import (
	"time"

	"github.com/fambudget/family_budget_app/internal/core/domain"
)

// CreateCategoryRequest defines data for creating a category in a family.
type CreateCategoryRequest struct {
	FamilyID    string `json:"familyID" binding:"required"`
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description"`
	Color       string `json:"color" binding:"omitempty,hexcolor"`
	Icon        string `json:"icon" binding:"omitempty,max=50"`
}

// UpdateCategoryRequest defines data for updating a category.
type UpdateCategoryRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=100"`
	Description *string `json:"description"`
	Color       *string `json:"color" binding:"omitempty,hexcolor"`
	Icon        *string `json:"icon" binding:"omitempty,max=50"`
}

// CategoryResponse defines data returned for a category.
type CategoryResponse struct {
	CategoryID  string    `json:"categoryID"`
	FamilyID    string    `json:"familyID"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Color       string    `json:"color"`
	Icon        string    `json:"icon,omitempty"`
	CreatedBy   string    `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ToCategoryResponse converts domain.Category to DTO.
func ToCategoryResponse(c *domain.Category) CategoryResponse {
	return CategoryResponse{
		CategoryID:  c.CategoryID,
		FamilyID:    c.FamilyID,
		Name:        c.Name,
		Description: c.Description,
		Color:       c.Color,
		Icon:        c.Icon,
		CreatedBy:   c.CreatedBy,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.LastUpdatedAt,
	}
}

// ListCategoriesResponse wraps a list of categories.
type ListCategoriesResponse struct {
	Categories []CategoryResponse `json:"categories"`
}

// ToListCategoriesResponse converts a slice of domain.Category to DTO.
func ToListCategoriesResponse(cs []domain.Category) ListCategoriesResponse {
	list := make([]CategoryResponse, len(cs))
	for i := range cs {
		list[i] = ToCategoryResponse(&cs[i])
	}
	return ListCategoriesResponse{Categories: list}
}
