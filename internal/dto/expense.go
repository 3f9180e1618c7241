package dto

import (
	"time"

	"github.com/fambudget/family_budget_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// --- Expense DTOs ---

// CreateExpenseRequest defines data for recording an expense.
type CreateExpenseRequest struct {
	FamilyID      string          `json:"familyID" binding:"required"`
	CategoryID    string          `json:"categoryID" binding:"required"`
	Title         string          `json:"title" binding:"required,max=200"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	Date          string          `json:"date" binding:"required,datetime=2006-01-02"`
	PaymentMethod string          `json:"paymentMethod" binding:"omitempty,oneof=cash credit_card debit_card bank_transfer digital_wallet other"`
	Tags          string          `json:"tags" binding:"omitempty,max=200"`
}

// UpdateExpenseRequest defines data for updating an expense.
type UpdateExpenseRequest struct {
	CategoryID    *string          `json:"categoryID"`
	Title         *string          `json:"title" binding:"omitempty,max=200"`
	Description   *string          `json:"description"`
	Amount        *decimal.Decimal `json:"amount"`
	Date          *string          `json:"date" binding:"omitempty,datetime=2006-01-02"`
	PaymentMethod *string          `json:"paymentMethod" binding:"omitempty,oneof=cash credit_card debit_card bank_transfer digital_wallet other"`
	Tags          *string          `json:"tags" binding:"omitempty,max=200"`
}

// ExpenseResponse defines data returned for an expense.
type ExpenseResponse struct {
	ExpenseID     string          `json:"expenseID"`
	FamilyID      string          `json:"familyID"`
	CategoryID    string          `json:"categoryID"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	PaidBy        string          `json:"paidBy"`
	Date          string          `json:"date"`
	PaymentMethod string          `json:"paymentMethod"`
	Tags          string          `json:"tags"`
	TagList       []string        `json:"tagList"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// ToExpenseResponse converts domain.Expense to DTO.
func ToExpenseResponse(e *domain.Expense) ExpenseResponse {
	return ExpenseResponse{
		ExpenseID:     e.ExpenseID,
		FamilyID:      e.FamilyID,
		CategoryID:    e.CategoryID,
		Title:         e.Title,
		Description:   e.Description,
		Amount:        e.Amount,
		PaidBy:        e.PaidByUserID,
		Date:          e.Date.Format("2006-01-02"),
		PaymentMethod: string(e.PaymentMethod),
		Tags:          e.Tags,
		TagList:       e.TagList(),
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.LastUpdatedAt,
	}
}

// ListExpensesParams defines query parameters for listing expenses.
type ListExpensesParams struct {
	FamilyID      string `form:"familyID"`
	CategoryID    string `form:"categoryID"`
	PaidBy        string `form:"paidBy"`
	PaymentMethod string `form:"paymentMethod" binding:"omitempty,oneof=cash credit_card debit_card bank_transfer digital_wallet other"`
	DateFrom      string `form:"dateFrom" binding:"omitempty,datetime=2006-01-02"`
	DateTo        string `form:"dateTo" binding:"omitempty,datetime=2006-01-02"`
	Limit         int    `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	NextToken     string `form:"nextToken"`
}

// ListExpensesResponse wraps a page of expenses with the cursor for the next page.
type ListExpensesResponse struct {
	Expenses  []ExpenseResponse `json:"expenses"`
	NextToken string            `json:"nextToken,omitempty"`
}

// RecentExpensesParams defines query parameters for the dashboard recent list.
type RecentExpensesParams struct {
	FamilyID string `form:"familyID"`
	Limit    int    `form:"limit,default=10" binding:"omitempty,min=1,max=50"`
}

// --- Recurring expense DTOs ---

// CreateRecurringExpenseRequest defines data for declaring a recurring template.
type CreateRecurringExpenseRequest struct {
	FamilyID      string          `json:"familyID" binding:"required"`
	CategoryID    string          `json:"categoryID" binding:"required"`
	Title         string          `json:"title" binding:"required,max=200"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	Frequency     string          `json:"frequency" binding:"required,oneof=daily weekly monthly yearly"`
	StartDate     string          `json:"startDate" binding:"required,datetime=2006-01-02"`
	EndDate       string          `json:"endDate" binding:"omitempty,datetime=2006-01-02"`
	PaymentMethod string          `json:"paymentMethod" binding:"omitempty,oneof=cash credit_card debit_card bank_transfer digital_wallet other"`
}

// UpdateRecurringExpenseRequest defines data for updating a recurring template.
type UpdateRecurringExpenseRequest struct {
	CategoryID    *string          `json:"categoryID"`
	Title         *string          `json:"title" binding:"omitempty,max=200"`
	Description   *string          `json:"description"`
	Amount        *decimal.Decimal `json:"amount"`
	Frequency     *string          `json:"frequency" binding:"omitempty,oneof=daily weekly monthly yearly"`
	StartDate     *string          `json:"startDate" binding:"omitempty,datetime=2006-01-02"`
	EndDate       *string          `json:"endDate" binding:"omitempty,datetime=2006-01-02"`
	PaymentMethod *string          `json:"paymentMethod" binding:"omitempty,oneof=cash credit_card debit_card bank_transfer digital_wallet other"`
	IsActive      *bool            `json:"isActive"`
}

// RecurringExpenseResponse defines data returned for a recurring template.
type RecurringExpenseResponse struct {
	RecurringExpenseID string          `json:"recurringExpenseID"`
	FamilyID           string          `json:"familyID"`
	CategoryID         string          `json:"categoryID"`
	Title              string          `json:"title"`
	Description        string          `json:"description"`
	Amount             decimal.Decimal `json:"amount"`
	PaidBy             string          `json:"paidBy"`
	Frequency          string          `json:"frequency"`
	StartDate          string          `json:"startDate"`
	EndDate            string          `json:"endDate,omitempty"`
	PaymentMethod      string          `json:"paymentMethod"`
	IsActive           bool            `json:"isActive"`
	CreatedAt          time.Time       `json:"createdAt"`
	UpdatedAt          time.Time       `json:"updatedAt"`
}

// ToRecurringExpenseResponse converts domain.RecurringExpense to DTO.
func ToRecurringExpenseResponse(r *domain.RecurringExpense) RecurringExpenseResponse {
	resp := RecurringExpenseResponse{
		RecurringExpenseID: r.RecurringExpenseID,
		FamilyID:           r.FamilyID,
		CategoryID:         r.CategoryID,
		Title:              r.Title,
		Description:        r.Description,
		Amount:             r.Amount,
		PaidBy:             r.PaidByUserID,
		Frequency:          string(r.Frequency),
		StartDate:          r.StartDate.Format("2006-01-02"),
		PaymentMethod:      string(r.PaymentMethod),
		IsActive:           r.IsActive,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.LastUpdatedAt,
	}
	if r.EndDate != nil {
		resp.EndDate = r.EndDate.Format("2006-01-02")
	}
	return resp
}

// ListRecurringExpensesResponse wraps a list of recurring templates.
type ListRecurringExpensesResponse struct {
	RecurringExpenses []RecurringExpenseResponse `json:"recurringExpenses"`
}

// --- Expense share DTOs ---

// CreateExpenseShareRequest assigns a portion of an expense to a user.
type CreateExpenseShareRequest struct {
	UserID string          `json:"userID" binding:"required"`
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// UpdateExpenseShareRequest marks a share paid or adjusts its amount.
type UpdateExpenseShareRequest struct {
	Amount *decimal.Decimal `json:"amount"`
	IsPaid *bool            `json:"isPaid"`
}

// ExpenseShareResponse defines data returned for a share.
type ExpenseShareResponse struct {
	ShareID   string          `json:"shareID"`
	ExpenseID string          `json:"expenseID"`
	UserID    string          `json:"userID"`
	Amount    decimal.Decimal `json:"amount"`
	IsPaid    bool            `json:"isPaid"`
	PaidAt    *time.Time      `json:"paidAt,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

// ToExpenseShareResponse converts domain.ExpenseShare to DTO.
func ToExpenseShareResponse(s *domain.ExpenseShare) ExpenseShareResponse {
	return ExpenseShareResponse{
		ShareID:   s.ShareID,
		ExpenseID: s.ExpenseID,
		UserID:    s.UserID,
		Amount:    s.Amount,
		IsPaid:    s.IsPaid,
		PaidAt:    s.PaidAt,
		CreatedAt: s.CreatedAt,
	}
}

// ListExpenseSharesResponse wraps the shares of an expense.
type ListExpenseSharesResponse struct {
	Shares []ExpenseShareResponse `json:"shares"`
}
