package repositories

import (
	"context"
	"time"

	"github.com/fambudget/family_budget_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// StatisticsRepository defines the grouped-aggregation queries backing the
// statistics report. All queries are scoped to the given families and the
// inclusive [from, to] date window.
type StatisticsRepository interface {
	// GetExpenseTotals returns the summed amount (zero for no rows) and row count.
	GetExpenseTotals(ctx context.Context, familyIDs []string, from, to time.Time) (decimal.Decimal, int64, error)

	// GetTotalsByCategory returns per-category-name sums and counts, largest first.
	GetTotalsByCategory(ctx context.Context, familyIDs []string, from, to time.Time) ([]domain.CategoryTotal, error)

	// GetTotalsByPaymentMethod returns per-payment-method sums and counts, largest first.
	GetTotalsByPaymentMethod(ctx context.Context, familyIDs []string, from, to time.Time) ([]domain.PaymentMethodTotal, error)

	// GetDailyTotals returns per-day sums ordered by day ascending.
	GetDailyTotals(ctx context.Context, familyIDs []string, from, to time.Time) ([]domain.DailyTotal, error)
}
