package dto

import (
	"time"

	"github.com/fambudget/family_budget_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateBudgetRequest defines data for creating a budget.
// Dates use the YYYY-MM-DD form.
type CreateBudgetRequest struct {
	FamilyID    string          `json:"familyID" binding:"required"`
	CategoryID  string          `json:"categoryID" binding:"required"`
	Name        string          `json:"name" binding:"required,max=100"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Period      string          `json:"period" binding:"required,oneof=monthly yearly"`
	StartDate   string          `json:"startDate" binding:"required,datetime=2006-01-02"`
	EndDate     string          `json:"endDate" binding:"required,datetime=2006-01-02"`
}

// UpdateBudgetRequest defines data for updating a budget.
type UpdateBudgetRequest struct {
	Name        *string          `json:"name" binding:"omitempty,max=100"`
	Description *string          `json:"description"`
	Amount      *decimal.Decimal `json:"amount"`
	Period      *string          `json:"period" binding:"omitempty,oneof=monthly yearly"`
	StartDate   *string          `json:"startDate" binding:"omitempty,datetime=2006-01-02"`
	EndDate     *string          `json:"endDate" binding:"omitempty,datetime=2006-01-02"`
	IsActive    *bool            `json:"isActive"`
}

// BudgetResponse defines data returned for a budget, including the derived
// consumption metrics computed at read time.
type BudgetResponse struct {
	BudgetID        string          `json:"budgetID"`
	FamilyID        string          `json:"familyID"`
	CategoryID      string          `json:"categoryID"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Amount          decimal.Decimal `json:"amount"`
	Period          string          `json:"period"`
	StartDate       string          `json:"startDate"`
	EndDate         string          `json:"endDate"`
	IsActive        bool            `json:"isActive"`
	SpentAmount     decimal.Decimal `json:"spentAmount"`
	RemainingAmount decimal.Decimal `json:"remainingAmount"`
	SpentPercentage decimal.Decimal `json:"spentPercentage"`
	CreatedBy       string          `json:"createdBy"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// ToBudgetResponse converts a budget and its derived usage to DTO.
func ToBudgetResponse(b *domain.Budget, usage domain.BudgetUsage) BudgetResponse {
	return BudgetResponse{
		BudgetID:        b.BudgetID,
		FamilyID:        b.FamilyID,
		CategoryID:      b.CategoryID,
		Name:            b.Name,
		Description:     b.Description,
		Amount:          b.Amount,
		Period:          string(b.Period),
		StartDate:       b.StartDate.Format("2006-01-02"),
		EndDate:         b.EndDate.Format("2006-01-02"),
		IsActive:        b.IsActive,
		SpentAmount:     usage.SpentAmount,
		RemainingAmount: usage.RemainingAmount,
		SpentPercentage: usage.SpentPercentage,
		CreatedBy:       b.CreatedBy,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.LastUpdatedAt,
	}
}

// ListBudgetsResponse wraps a list of budgets.
type ListBudgetsResponse struct {
	Budgets []BudgetResponse `json:"budgets"`
}
