package dto

import (
	"github.com/fambudget/family_budget_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// StatsParams defines query parameters for the statistics endpoint.
type StatsParams struct {
	FamilyID string `form:"familyID"`
	Period   string `form:"period,default=month" binding:"omitempty,oneof=week month year"`
}

// CategoryTotalResponse is one by-category group row.
type CategoryTotalResponse struct {
	CategoryName string          `json:"categoryName"`
	Total        decimal.Decimal `json:"total"`
	Count        int64           `json:"count"`
}

// PaymentMethodTotalResponse is one by-payment-method group row.
type PaymentMethodTotalResponse struct {
	PaymentMethod string          `json:"paymentMethod"`
	Total         decimal.Decimal `json:"total"`
	Count         int64           `json:"count"`
}

// DailyTotalResponse is one per-day sum row.
type DailyTotalResponse struct {
	Day   string          `json:"day"`
	Total decimal.Decimal `json:"total"`
}

// StatsResponse is the dashboard statistics payload.
type StatsResponse struct {
	Period        string                       `json:"period"`
	StartDate     string                       `json:"startDate"`
	EndDate       string                       `json:"endDate"`
	TotalExpenses decimal.Decimal              `json:"totalExpenses"`
	ExpenseCount  int64                        `json:"expenseCount"`
	ByCategory    []CategoryTotalResponse      `json:"expensesByCategory"`
	ByPayment     []PaymentMethodTotalResponse `json:"expensesByPayment"`
	Daily         []DailyTotalResponse         `json:"dailyExpenses"`
}

// ToStatsResponse converts domain.StatsReport to DTO.
func ToStatsResponse(r *domain.StatsReport) StatsResponse {
	resp := StatsResponse{
		Period:        string(r.Period),
		StartDate:     r.StartDate.Format("2006-01-02"),
		EndDate:       r.EndDate.Format("2006-01-02"),
		TotalExpenses: r.TotalExpenses,
		ExpenseCount:  r.ExpenseCount,
		ByCategory:    make([]CategoryTotalResponse, len(r.ByCategory)),
		ByPayment:     make([]PaymentMethodTotalResponse, len(r.ByPayment)),
		Daily:         make([]DailyTotalResponse, len(r.Daily)),
	}
	for i, g := range r.ByCategory {
		resp.ByCategory[i] = CategoryTotalResponse{CategoryName: g.CategoryName, Total: g.Total, Count: g.Count}
	}
	for i, g := range r.ByPayment {
		resp.ByPayment[i] = PaymentMethodTotalResponse{PaymentMethod: string(g.PaymentMethod), Total: g.Total, Count: g.Count}
	}
	for i, d := range r.Daily {
		resp.Daily[i] = DailyTotalResponse{Day: d.Day.Format("2006-01-02"), Total: d.Total}
	}
	return resp
}
