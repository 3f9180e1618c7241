package pgsql

import (
	"context"
	"time"

	"github.com/fambudget/family_budget_app/internal/apperrors"
	"github.com/fambudget/family_budget_app/internal/core/domain"
	portsrepo "github.com/fambudget/family_budget_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxStatisticsRepository struct {
	BaseRepository
}

// newPgxStatisticsRepository creates a new repository for the grouped
// aggregation queries behind the statistics report.
func newPgxStatisticsRepository(pool *pgxpool.Pool) portsrepo.StatisticsRepository {
	return &PgxStatisticsRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.StatisticsRepository = (*PgxStatisticsRepository)(nil)

func (r *PgxStatisticsRepository) GetExpenseTotals(ctx context.Context, familyIDs []string, from, to time.Time) (decimal.Decimal, int64, error) {
	query := `
		SELECT COALESCE(SUM(e.amount), 0), COUNT(*)
		FROM expenses e
		WHERE e.family_id = ANY($1) AND e.expense_date >= $2 AND e.expense_date <= $3;
	`
	var total decimal.Decimal
	var count int64
	if err := r.Pool.QueryRow(ctx, query, familyIDs, from, to).Scan(&total, &count); err != nil {
		return decimal.Zero, 0, apperrors.NewAppError(500, "failed to query expense totals", err)
	}
	return total, count, nil
}

func (r *PgxStatisticsRepository) GetTotalsByCategory(ctx context.Context, familyIDs []string, from, to time.Time) ([]domain.CategoryTotal, error) {
	query := `
		SELECT c.name, SUM(e.amount) AS total, COUNT(*)
		FROM expenses e
		JOIN categories c ON c.category_id = e.category_id
		WHERE e.family_id = ANY($1) AND e.expense_date >= $2 AND e.expense_date <= $3
		GROUP BY c.name
		ORDER BY total DESC;
	`
	rows, err := r.Pool.Query(ctx, query, familyIDs, from, to)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query totals by category", err)
	}
	defer rows.Close()

	totals := []domain.CategoryTotal{}
	for rows.Next() {
		var t domain.CategoryTotal
		if err := rows.Scan(&t.CategoryName, &t.Total, &t.Count); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan category total row", err)
		}
		totals = append(totals, t)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating category total rows", err)
	}
	return totals, nil
}

func (r *PgxStatisticsRepository) GetTotalsByPaymentMethod(ctx context.Context, familyIDs []string, from, to time.Time) ([]domain.PaymentMethodTotal, error) {
	query := `
		SELECT e.payment_method, SUM(e.amount) AS total, COUNT(*)
		FROM expenses e
		WHERE e.family_id = ANY($1) AND e.expense_date >= $2 AND e.expense_date <= $3
		GROUP BY e.payment_method
		ORDER BY total DESC;
	`
	rows, err := r.Pool.Query(ctx, query, familyIDs, from, to)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query totals by payment method", err)
	}
	defer rows.Close()

	totals := []domain.PaymentMethodTotal{}
	for rows.Next() {
		var t domain.PaymentMethodTotal
		if err := rows.Scan(&t.PaymentMethod, &t.Total, &t.Count); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan payment method total row", err)
		}
		totals = append(totals, t)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating payment method total rows", err)
	}
	return totals, nil
}

func (r *PgxStatisticsRepository) GetDailyTotals(ctx context.Context, familyIDs []string, from, to time.Time) ([]domain.DailyTotal, error) {
	query := `
		SELECT e.expense_date, SUM(e.amount) AS total
		FROM expenses e
		WHERE e.family_id = ANY($1) AND e.expense_date >= $2 AND e.expense_date <= $3
		GROUP BY e.expense_date
		ORDER BY e.expense_date ASC;
	`
	rows, err := r.Pool.Query(ctx, query, familyIDs, from, to)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query daily totals", err)
	}
	defer rows.Close()

	totals := []domain.DailyTotal{}
	for rows.Next() {
		var t domain.DailyTotal
		if err := rows.Scan(&t.Day, &t.Total); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan daily total row", err)
		}
		totals = append(totals, t)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating daily total rows", err)
	}
	return totals, nil
}
