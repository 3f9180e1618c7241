package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// StatsPeriod selects the trailing window for expense statistics.
// Windows are fixed day counts, not calendar months/years.
type StatsPeriod string

const (
	PeriodWeek  StatsPeriod = "week"  // trailing 7 days
	PeriodMonth StatsPeriod = "month" // trailing 30 days
	PeriodYear  StatsPeriod = "year"  // trailing 365 days
)

// Days returns the trailing window length for the period.
// Unknown values fall back to the month window.
func (p StatsPeriod) Days() int {
	switch p {
	case PeriodWeek:
		return 7
	case PeriodYear:
		return 365
	default:
		return 30
	}
}

// CategoryTotal is a grouped sum of expenses for one category name.
type CategoryTotal struct {
	CategoryName string          `json:"categoryName"`
	Total        decimal.Decimal `json:"total"`
	Count        int64           `json:"count"`
}

// PaymentMethodTotal is a grouped sum of expenses for one payment method.
type PaymentMethodTotal struct {
	PaymentMethod PaymentMethod   `json:"paymentMethod"`
	Total         decimal.Decimal `json:"total"`
	Count         int64           `json:"count"`
}

// DailyTotal is the summed expense amount for one day.
type DailyTotal struct {
	Day   time.Time       `json:"day"`
	Total decimal.Decimal `json:"total"`
}

// StatsReport aggregates a date-bounded, family-scoped expense slice for
// dashboard consumption. Group slices are always non-nil.
type StatsReport struct {
	Period        StatsPeriod          `json:"period"`
	StartDate     time.Time            `json:"startDate"`
	EndDate       time.Time            `json:"endDate"`
	TotalExpenses decimal.Decimal      `json:"totalExpenses"`
	ExpenseCount  int64                `json:"expenseCount"`
	ByCategory    []CategoryTotal      `json:"expensesByCategory"`
	ByPayment     []PaymentMethodTotal `json:"expensesByPayment"`
	Daily         []DailyTotal         `json:"dailyExpenses"`
}
