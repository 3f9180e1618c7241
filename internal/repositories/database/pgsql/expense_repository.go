package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fambudget/family_budget_app/internal/apperrors"
	"github.com/fambudget/family_budget_app/internal/core/domain"
	portsrepo "github.com/fambudget/family_budget_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxExpenseRepository struct {
	BaseRepository
}

// newPgxExpenseRepository creates a new repository for expense, recurring
// template and share data.
func newPgxExpenseRepository(pool *pgxpool.Pool) portsrepo.ExpenseRepositoryFacade {
	return &PgxExpenseRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.ExpenseRepositoryFacade = (*PgxExpenseRepository)(nil)

const expenseSelectQuery = `
SELECT e.expense_id, e.family_id, e.category_id, e.title, e.description,
	e.amount, e.paid_by, e.expense_date, e.payment_method, e.tags,
	e.created_at, e.created_by, e.last_updated_at, e.last_updated_by
FROM expenses e
`

func scanExpense(row pgx.Row) (*domain.Expense, error) {
	var e domain.Expense
	err := row.Scan(
		&e.ExpenseID,
		&e.FamilyID,
		&e.CategoryID,
		&e.Title,
		&e.Description,
		&e.Amount,
		&e.PaidByUserID,
		&e.Date,
		&e.PaymentMethod,
		&e.Tags,
		&e.CreatedAt,
		&e.CreatedBy,
		&e.LastUpdatedAt,
		&e.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to scan expense row", err)
	}
	return &e, nil
}

func (r *PgxExpenseRepository) FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error) {
	query := expenseSelectQuery + `WHERE e.expense_id = $1`
	return scanExpense(r.Pool.QueryRow(ctx, query, expenseID))
}

func (r *PgxExpenseRepository) ListExpenses(ctx context.Context, familyIDs []string, filter portsrepo.ExpenseListFilter, afterDate, afterCreatedAt *time.Time, limit int) ([]domain.Expense, error) {
	query := expenseSelectQuery + `WHERE e.family_id = ANY($1)`
	args := []any{familyIDs}

	addArg := func(clause string, value any) {
		args = append(args, value)
		query += fmt.Sprintf(" AND "+clause, len(args))
	}

	if filter.FamilyID != "" {
		addArg("e.family_id = $%d", filter.FamilyID)
	}
	if filter.CategoryID != "" {
		addArg("e.category_id = $%d", filter.CategoryID)
	}
	if filter.PaidByUserID != "" {
		addArg("e.paid_by = $%d", filter.PaidByUserID)
	}
	if filter.PaymentMethod != "" {
		addArg("e.payment_method = $%d", filter.PaymentMethod)
	}
	if filter.DateFrom != nil {
		addArg("e.expense_date >= $%d", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		addArg("e.expense_date <= $%d", *filter.DateTo)
	}
	if afterDate != nil && afterCreatedAt != nil {
		args = append(args, *afterDate, *afterCreatedAt)
		query += fmt.Sprintf(" AND (e.expense_date, e.created_at) < ($%d, $%d)", len(args)-1, len(args))
	}

	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY e.expense_date DESC, e.created_at DESC LIMIT $%d", len(args))

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query expenses", err)
	}
	defer rows.Close()

	expenses := []domain.Expense{}
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating expense rows", err)
	}
	return expenses, nil
}

func (r *PgxExpenseRepository) SumExpenses(ctx context.Context, familyID, categoryID string, from, to time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(e.amount), 0)
		FROM expenses e
		WHERE e.family_id = $1 AND e.category_id = $2
			AND e.expense_date >= $3 AND e.expense_date <= $4;
	`
	var sum decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, familyID, categoryID, from, to).Scan(&sum); err != nil {
		return decimal.Zero, apperrors.NewAppError(500, "failed to sum expenses", err)
	}
	return sum, nil
}

func (r *PgxExpenseRepository) SaveExpense(ctx context.Context, expense domain.Expense) error {
	query := `
		INSERT INTO expenses (
			expense_id, family_id, category_id, title, description,
			amount, paid_by, expense_date, payment_method, tags,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := r.Pool.Exec(ctx, query,
		expense.ExpenseID,
		expense.FamilyID,
		expense.CategoryID,
		expense.Title,
		expense.Description,
		expense.Amount,
		expense.PaidByUserID,
		expense.Date,
		expense.PaymentMethod,
		expense.Tags,
		expense.CreatedAt,
		expense.CreatedBy,
		expense.LastUpdatedAt,
		expense.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to save expense "+expense.ExpenseID, err)
	}
	return nil
}

func (r *PgxExpenseRepository) UpdateExpense(ctx context.Context, expense domain.Expense) error {
	query := `
		UPDATE expenses
		SET category_id = $1, title = $2, description = $3, amount = $4,
			paid_by = $5, expense_date = $6, payment_method = $7, tags = $8,
			last_updated_at = $9, last_updated_by = $10
		WHERE expense_id = $11;
	`
	result, err := r.Pool.Exec(ctx, query,
		expense.CategoryID,
		expense.Title,
		expense.Description,
		expense.Amount,
		expense.PaidByUserID,
		expense.Date,
		expense.PaymentMethod,
		expense.Tags,
		expense.LastUpdatedAt,
		expense.LastUpdatedBy,
		expense.ExpenseID,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update expense "+expense.ExpenseID, err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("expense " + expense.ExpenseID + " not found")
	}
	return nil
}

func (r *PgxExpenseRepository) DeleteExpense(ctx context.Context, expenseID string) error {
	result, err := r.Pool.Exec(ctx, `DELETE FROM expenses WHERE expense_id = $1`, expenseID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete expense "+expenseID, err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("expense " + expenseID + " not found")
	}
	return nil
}

const recurringSelectQuery = `
SELECT r.recurring_expense_id, r.family_id, r.category_id, r.title, r.description,
	r.amount, r.paid_by, r.frequency, r.start_date, r.end_date,
	r.payment_method, r.is_active,
	r.created_at, r.created_by, r.last_updated_at, r.last_updated_by
FROM recurring_expenses r
`

func scanRecurringExpense(row pgx.Row) (*domain.RecurringExpense, error) {
	var re domain.RecurringExpense
	err := row.Scan(
		&re.RecurringExpenseID,
		&re.FamilyID,
		&re.CategoryID,
		&re.Title,
		&re.Description,
		&re.Amount,
		&re.PaidByUserID,
		&re.Frequency,
		&re.StartDate,
		&re.EndDate,
		&re.PaymentMethod,
		&re.IsActive,
		&re.CreatedAt,
		&re.CreatedBy,
		&re.LastUpdatedAt,
		&re.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to scan recurring expense row", err)
	}
	return &re, nil
}

func (r *PgxExpenseRepository) FindRecurringExpenseByID(ctx context.Context, recurringExpenseID string) (*domain.RecurringExpense, error) {
	query := recurringSelectQuery + `WHERE r.recurring_expense_id = $1`
	return scanRecurringExpense(r.Pool.QueryRow(ctx, query, recurringExpenseID))
}

func (r *PgxExpenseRepository) ListRecurringExpensesByFamily(ctx context.Context, familyID string) ([]domain.RecurringExpense, error) {
	query := recurringSelectQuery + `WHERE r.family_id = $1 ORDER BY r.created_at DESC`
	rows, err := r.Pool.Query(ctx, query, familyID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query recurring expenses of family "+familyID, err)
	}
	defer rows.Close()

	recurring := []domain.RecurringExpense{}
	for rows.Next() {
		re, err := scanRecurringExpense(rows)
		if err != nil {
			return nil, err
		}
		recurring = append(recurring, *re)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating recurring expense rows", err)
	}
	return recurring, nil
}

func (r *PgxExpenseRepository) SaveRecurringExpense(ctx context.Context, recurring domain.RecurringExpense) error {
	query := `
		INSERT INTO recurring_expenses (
			recurring_expense_id, family_id, category_id, title, description,
			amount, paid_by, frequency, start_date, end_date,
			payment_method, is_active,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
	`
	_, err := r.Pool.Exec(ctx, query,
		recurring.RecurringExpenseID,
		recurring.FamilyID,
		recurring.CategoryID,
		recurring.Title,
		recurring.Description,
		recurring.Amount,
		recurring.PaidByUserID,
		recurring.Frequency,
		recurring.StartDate,
		recurring.EndDate,
		recurring.PaymentMethod,
		recurring.IsActive,
		recurring.CreatedAt,
		recurring.CreatedBy,
		recurring.LastUpdatedAt,
		recurring.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to save recurring expense "+recurring.RecurringExpenseID, err)
	}
	return nil
}

func (r *PgxExpenseRepository) UpdateRecurringExpense(ctx context.Context, recurring domain.RecurringExpense) error {
	query := `
		UPDATE recurring_expenses
		SET category_id = $1, title = $2, description = $3, amount = $4,
			paid_by = $5, frequency = $6, start_date = $7, end_date = $8,
			payment_method = $9, is_active = $10,
			last_updated_at = $11, last_updated_by = $12
		WHERE recurring_expense_id = $13;
	`
	result, err := r.Pool.Exec(ctx, query,
		recurring.CategoryID,
		recurring.Title,
		recurring.Description,
		recurring.Amount,
		recurring.PaidByUserID,
		recurring.Frequency,
		recurring.StartDate,
		recurring.EndDate,
		recurring.PaymentMethod,
		recurring.IsActive,
		recurring.LastUpdatedAt,
		recurring.LastUpdatedBy,
		recurring.RecurringExpenseID,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update recurring expense "+recurring.RecurringExpenseID, err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("recurring expense " + recurring.RecurringExpenseID + " not found")
	}
	return nil
}

func (r *PgxExpenseRepository) DeleteRecurringExpense(ctx context.Context, recurringExpenseID string) error {
	result, err := r.Pool.Exec(ctx, `DELETE FROM recurring_expenses WHERE recurring_expense_id = $1`, recurringExpenseID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete recurring expense "+recurringExpenseID, err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("recurring expense " + recurringExpenseID + " not found")
	}
	return nil
}

const shareSelectQuery = `
SELECT s.share_id, s.expense_id, s.user_id, s.amount, s.is_paid, s.paid_at, s.created_at
FROM expense_shares s
`

func scanShare(row pgx.Row) (*domain.ExpenseShare, error) {
	var s domain.ExpenseShare
	err := row.Scan(
		&s.ShareID,
		&s.ExpenseID,
		&s.UserID,
		&s.Amount,
		&s.IsPaid,
		&s.PaidAt,
		&s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to scan expense share row", err)
	}
	return &s, nil
}

func (r *PgxExpenseRepository) FindShareByID(ctx context.Context, shareID string) (*domain.ExpenseShare, error) {
	query := shareSelectQuery + `WHERE s.share_id = $1`
	return scanShare(r.Pool.QueryRow(ctx, query, shareID))
}

func (r *PgxExpenseRepository) ListSharesByExpense(ctx context.Context, expenseID string) ([]domain.ExpenseShare, error) {
	query := shareSelectQuery + `WHERE s.expense_id = $1 ORDER BY s.created_at ASC`
	rows, err := r.Pool.Query(ctx, query, expenseID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query shares of expense "+expenseID, err)
	}
	defer rows.Close()

	shares := []domain.ExpenseShare{}
	for rows.Next() {
		s, err := scanShare(rows)
		if err != nil {
			return nil, err
		}
		shares = append(shares, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating expense share rows", err)
	}
	return shares, nil
}

func (r *PgxExpenseRepository) SaveShare(ctx context.Context, share domain.ExpenseShare) error {
	query := `
		INSERT INTO expense_shares (share_id, expense_id, user_id, amount, is_paid, paid_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.Pool.Exec(ctx, query,
		share.ShareID,
		share.ExpenseID,
		share.UserID,
		share.Amount,
		share.IsPaid,
		share.PaidAt,
		share.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "uq_expense_shares_expense_user") {
			return apperrors.NewConflictError("user " + share.UserID + " already has a share of expense " + share.ExpenseID)
		}
		return apperrors.NewAppError(500, "failed to save expense share "+share.ShareID, err)
	}
	return nil
}

func (r *PgxExpenseRepository) UpdateShare(ctx context.Context, share domain.ExpenseShare) error {
	query := `
		UPDATE expense_shares
		SET amount = $1, is_paid = $2, paid_at = $3
		WHERE share_id = $4;
	`
	result, err := r.Pool.Exec(ctx, query, share.Amount, share.IsPaid, share.PaidAt, share.ShareID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update expense share "+share.ShareID, err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("expense share " + share.ShareID + " not found")
	}
	return nil
}

func (r *PgxExpenseRepository) DeleteShare(ctx context.Context, shareID string) error {
	result, err := r.Pool.Exec(ctx, `DELETE FROM expense_shares WHERE share_id = $1`, shareID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete expense share "+shareID, err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("expense share " + shareID + " not found")
	}
	return nil
}
