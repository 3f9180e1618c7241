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
	"github.com/fambudget/family_budget_app/internal/utils/pagination"
	"github.com/google/uuid"
)

type expenseService struct {
	BaseService
	expenseRepo  portsrepo.ExpenseRepositoryFacade
	categoryRepo portsrepo.CategoryReader
}

// NewExpenseService creates the ledger service covering expenses, recurring
// templates and shares.
func NewExpenseService(
	expenseRepo portsrepo.ExpenseRepositoryFacade,
	categoryRepo portsrepo.CategoryReader,
	authorizer portssvc.FamilyAuthorizerSvc,
) portssvc.ExpenseSvcFacade {
	svc := &expenseService{
		expenseRepo:  expenseRepo,
		categoryRepo: categoryRepo,
	}
	svc.FamilyAuthorizer = authorizer
	return svc
}

var _ portssvc.ExpenseSvcFacade = (*expenseService)(nil)

// checkCategoryInFamily rejects expenses pointing at a category of a
// different family.
func (s *expenseService) checkCategoryInFamily(ctx context.Context, categoryID, familyID string) error {
	category, err := s.categoryRepo.FindCategoryByID(ctx, categoryID)
	if err != nil || category.FamilyID != familyID {
		return apperrors.NewValidationFailedError("category does not belong to the given family")
	}
	return nil
}

func (s *expenseService) CreateExpense(ctx context.Context, req dto.CreateExpenseRequest, payerUserID string) (*domain.Expense, error) {
	if err := s.AuthorizeUser(ctx, payerUserID, req.FamilyID, domain.RoleViewer); err != nil {
		return nil, err
	}
	if err := s.checkCategoryInFamily(ctx, req.CategoryID, req.FamilyID); err != nil {
		return nil, err
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, apperrors.NewValidationFailedError("date must use the YYYY-MM-DD form")
	}
	if !req.Amount.IsPositive() {
		return nil, apperrors.NewValidationFailedError("amount must be positive")
	}

	paymentMethod := domain.PaymentMethod(req.PaymentMethod)
	if paymentMethod == "" {
		paymentMethod = domain.PaymentOther
	}

	now := time.Now()
	expense := domain.Expense{
		ExpenseID:     uuid.NewString(),
		FamilyID:      req.FamilyID,
		CategoryID:    req.CategoryID,
		Title:         req.Title,
		Description:   req.Description,
		Amount:        req.Amount,
		PaidByUserID:  payerUserID,
		Date:          date,
		PaymentMethod: paymentMethod,
		Tags:          req.Tags,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     payerUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: payerUserID,
		},
	}

	if err := s.expenseRepo.SaveExpense(ctx, expense); err != nil {
		s.LogError(ctx, err, "Failed to save expense", slog.String("family_id", req.FamilyID))
		return nil, err
	}
	s.LogInfo(ctx, "Expense recorded",
		slog.String("expense_id", expense.ExpenseID),
		slog.String("family_id", req.FamilyID))
	return &expense, nil
}

func (s *expenseService) getVisibleExpense(ctx context.Context, requestingUserID, expenseID string) (*domain.Expense, error) {
	expense, err := s.expenseRepo.FindExpenseByID(ctx, expenseID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("expense " + expenseID + " not found")
		}
		s.LogError(ctx, err, "Failed to fetch expense", slog.String("expense_id", expenseID))
		return nil, err
	}
	if err := s.AuthorizeUser(ctx, requestingUserID, expense.FamilyID, domain.RoleViewer); err != nil {
		return nil, apperrors.NewNotFoundError("expense " + expenseID + " not found")
	}
	return expense, nil
}

func (s *expenseService) GetExpense(ctx context.Context, requestingUserID, expenseID string) (*domain.Expense, error) {
	return s.getVisibleExpense(ctx, requestingUserID, expenseID)
}

// scopeFamilies narrows the query to families the caller actively belongs to,
// or to the single requested family after an access check.
func (s *expenseService) scopeFamilies(ctx context.Context, requestingUserID, familyID string) ([]string, error) {
	if familyID != "" {
		if err := s.AuthorizeUser(ctx, requestingUserID, familyID, domain.RoleViewer); err != nil {
			return nil, err
		}
		return []string{familyID}, nil
	}
	return s.FamilyAuthorizer.ActiveFamilyIDs(ctx, requestingUserID)
}

func (s *expenseService) ListExpenses(ctx context.Context, requestingUserID string, params dto.ListExpensesParams) ([]domain.Expense, string, error) {
	familyIDs, err := s.scopeFamilies(ctx, requestingUserID, params.FamilyID)
	if err != nil {
		return nil, "", err
	}
	if len(familyIDs) == 0 {
		return []domain.Expense{}, "", nil
	}

	filter := portsrepo.ExpenseListFilter{
		CategoryID:    params.CategoryID,
		PaidByUserID:  params.PaidBy,
		PaymentMethod: domain.PaymentMethod(params.PaymentMethod),
	}
	if params.DateFrom != "" {
		from, err := time.Parse("2006-01-02", params.DateFrom)
		if err != nil {
			return nil, "", apperrors.NewValidationFailedError("dateFrom must use the YYYY-MM-DD form")
		}
		filter.DateFrom = &from
	}
	if params.DateTo != "" {
		to, err := time.Parse("2006-01-02", params.DateTo)
		if err != nil {
			return nil, "", apperrors.NewValidationFailedError("dateTo must use the YYYY-MM-DD form")
		}
		filter.DateTo = &to
	}

	var afterDate, afterCreatedAt *time.Time
	if params.NextToken != "" {
		date, createdAt, err := pagination.DecodeToken(params.NextToken)
		if err != nil {
			return nil, "", apperrors.NewValidationFailedError("invalid nextToken")
		}
		afterDate, afterCreatedAt = &date, &createdAt
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	// Fetch one extra row to decide whether another page exists.
	expenses, err := s.expenseRepo.ListExpenses(ctx, familyIDs, filter, afterDate, afterCreatedAt, limit+1)
	if err != nil {
		s.LogError(ctx, err, "Failed to list expenses", slog.String("user_id", requestingUserID))
		return nil, "", err
	}

	nextToken := ""
	if len(expenses) > limit {
		expenses = expenses[:limit]
		last := expenses[len(expenses)-1]
		nextToken = pagination.EncodeToken(last.Date, last.CreatedAt)
	}
	return expenses, nextToken, nil
}

func (s *expenseService) ListRecentExpenses(ctx context.Context, requestingUserID string, params dto.RecentExpensesParams) ([]domain.Expense, error) {
	familyIDs, err := s.scopeFamilies(ctx, requestingUserID, params.FamilyID)
	if err != nil {
		return nil, err
	}
	if len(familyIDs) == 0 {
		return []domain.Expense{}, nil
	}
	limit := params.Limit
	if limit <= 0 {
		limit = 10
	}
	expenses, err := s.expenseRepo.ListExpenses(ctx, familyIDs, portsrepo.ExpenseListFilter{}, nil, nil, limit)
	if err != nil {
		s.LogError(ctx, err, "Failed to list recent expenses", slog.String("user_id", requestingUserID))
		return nil, err
	}
	return expenses, nil
}

func (s *expenseService) UpdateExpense(ctx context.Context, requestingUserID, expenseID string, req dto.UpdateExpenseRequest) (*domain.Expense, error) {
	expense, err := s.getVisibleExpense(ctx, requestingUserID, expenseID)
	if err != nil {
		return nil, err
	}

	if req.CategoryID != nil {
		if err := s.checkCategoryInFamily(ctx, *req.CategoryID, expense.FamilyID); err != nil {
			return nil, err
		}
		expense.CategoryID = *req.CategoryID
	}
	if req.Title != nil {
		expense.Title = *req.Title
	}
	if req.Description != nil {
		expense.Description = *req.Description
	}
	if req.Amount != nil {
		if !req.Amount.IsPositive() {
			return nil, apperrors.NewValidationFailedError("amount must be positive")
		}
		expense.Amount = *req.Amount
	}
	if req.Date != nil {
		date, err := time.Parse("2006-01-02", *req.Date)
		if err != nil {
			return nil, apperrors.NewValidationFailedError("date must use the YYYY-MM-DD form")
		}
		expense.Date = date
	}
	if req.PaymentMethod != nil {
		expense.PaymentMethod = domain.PaymentMethod(*req.PaymentMethod)
	}
	if req.Tags != nil {
		expense.Tags = *req.Tags
	}
	expense.LastUpdatedAt = time.Now()
	expense.LastUpdatedBy = requestingUserID

	if err := s.expenseRepo.UpdateExpense(ctx, *expense); err != nil {
		s.LogError(ctx, err, "Failed to update expense", slog.String("expense_id", expenseID))
		return nil, err
	}
	return expense, nil
}

func (s *expenseService) DeleteExpense(ctx context.Context, requestingUserID, expenseID string) error {
	if _, err := s.getVisibleExpense(ctx, requestingUserID, expenseID); err != nil {
		return err
	}
	if err := s.expenseRepo.DeleteExpense(ctx, expenseID); err != nil {
		s.LogError(ctx, err, "Failed to delete expense", slog.String("expense_id", expenseID))
		return err
	}
	s.LogInfo(ctx, "Expense deleted",
		slog.String("expense_id", expenseID),
		slog.String("user_id", requestingUserID))
	return nil
}

func (s *expenseService) CreateRecurringExpense(ctx context.Context, req dto.CreateRecurringExpenseRequest, payerUserID string) (*domain.RecurringExpense, error) {
	if err := s.AuthorizeUser(ctx, payerUserID, req.FamilyID, domain.RoleViewer); err != nil {
		return nil, err
	}
	if err := s.checkCategoryInFamily(ctx, req.CategoryID, req.FamilyID); err != nil {
		return nil, err
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, apperrors.NewValidationFailedError("startDate must use the YYYY-MM-DD form")
	}
	var endDate *time.Time
	if req.EndDate != "" {
		parsed, err := time.Parse("2006-01-02", req.EndDate)
		if err != nil {
			return nil, apperrors.NewValidationFailedError("endDate must use the YYYY-MM-DD form")
		}
		if parsed.Before(startDate) {
			return nil, apperrors.NewValidationFailedError("endDate must not precede startDate")
		}
		endDate = &parsed
	}
	if !req.Amount.IsPositive() {
		return nil, apperrors.NewValidationFailedError("amount must be positive")
	}

	paymentMethod := domain.PaymentMethod(req.PaymentMethod)
	if paymentMethod == "" {
		paymentMethod = domain.PaymentOther
	}

	now := time.Now()
	recurring := domain.RecurringExpense{
		RecurringExpenseID: uuid.NewString(),
		FamilyID:           req.FamilyID,
		CategoryID:         req.CategoryID,
		Title:              req.Title,
		Description:        req.Description,
		Amount:             req.Amount,
		PaidByUserID:       payerUserID,
		Frequency:          domain.RecurrenceFrequency(req.Frequency),
		StartDate:          startDate,
		EndDate:            endDate,
		PaymentMethod:      paymentMethod,
		IsActive:           true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     payerUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: payerUserID,
		},
	}

	if err := s.expenseRepo.SaveRecurringExpense(ctx, recurring); err != nil {
		s.LogError(ctx, err, "Failed to save recurring expense", slog.String("family_id", req.FamilyID))
		return nil, err
	}
	s.LogInfo(ctx, "Recurring expense declared",
		slog.String("recurring_expense_id", recurring.RecurringExpenseID),
		slog.String("family_id", req.FamilyID))
	return &recurring, nil
}

func (s *expenseService) getVisibleRecurringExpense(ctx context.Context, requestingUserID, recurringExpenseID string) (*domain.RecurringExpense, error) {
	recurring, err := s.expenseRepo.FindRecurringExpenseByID(ctx, recurringExpenseID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("recurring expense " + recurringExpenseID + " not found")
		}
		s.LogError(ctx, err, "Failed to fetch recurring expense", slog.String("recurring_expense_id", recurringExpenseID))
		return nil, err
	}
	if err := s.AuthorizeUser(ctx, requestingUserID, recurring.FamilyID, domain.RoleViewer); err != nil {
		return nil, apperrors.NewNotFoundError("recurring expense " + recurringExpenseID + " not found")
	}
	return recurring, nil
}

func (s *expenseService) GetRecurringExpense(ctx context.Context, requestingUserID, recurringExpenseID string) (*domain.RecurringExpense, error) {
	return s.getVisibleRecurringExpense(ctx, requestingUserID, recurringExpenseID)
}

func (s *expenseService) ListRecurringExpenses(ctx context.Context, requestingUserID, familyID string) ([]domain.RecurringExpense, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, familyID, domain.RoleViewer); err != nil {
		return nil, err
	}
	recurring, err := s.expenseRepo.ListRecurringExpensesByFamily(ctx, familyID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list recurring expenses", slog.String("family_id", familyID))
		return nil, err
	}
	return recurring, nil
}

func (s *expenseService) UpdateRecurringExpense(ctx context.Context, requestingUserID, recurringExpenseID string, req dto.UpdateRecurringExpenseRequest) (*domain.RecurringExpense, error) {
	recurring, err := s.getVisibleRecurringExpense(ctx, requestingUserID, recurringExpenseID)
	if err != nil {
		return nil, err
	}

	if req.CategoryID != nil {
		if err := s.checkCategoryInFamily(ctx, *req.CategoryID, recurring.FamilyID); err != nil {
			return nil, err
		}
		recurring.CategoryID = *req.CategoryID
	}
	if req.Title != nil {
		recurring.Title = *req.Title
	}
	if req.Description != nil {
		recurring.Description = *req.Description
	}
	if req.Amount != nil {
		if !req.Amount.IsPositive() {
			return nil, apperrors.NewValidationFailedError("amount must be positive")
		}
		recurring.Amount = *req.Amount
	}
	if req.Frequency != nil {
		recurring.Frequency = domain.RecurrenceFrequency(*req.Frequency)
	}
	if req.StartDate != nil {
		startDate, err := time.Parse("2006-01-02", *req.StartDate)
		if err != nil {
			return nil, apperrors.NewValidationFailedError("startDate must use the YYYY-MM-DD form")
		}
		recurring.StartDate = startDate
	}
	if req.EndDate != nil {
		endDate, err := time.Parse("2006-01-02", *req.EndDate)
		if err != nil {
			return nil, apperrors.NewValidationFailedError("endDate must use the YYYY-MM-DD form")
		}
		recurring.EndDate = &endDate
	}
	if recurring.EndDate != nil && recurring.EndDate.Before(recurring.StartDate) {
		return nil, apperrors.NewValidationFailedError("endDate must not precede startDate")
	}
	if req.PaymentMethod != nil {
		recurring.PaymentMethod = domain.PaymentMethod(*req.PaymentMethod)
	}
	if req.IsActive != nil {
		recurring.IsActive = *req.IsActive
	}
	recurring.LastUpdatedAt = time.Now()
	recurring.LastUpdatedBy = requestingUserID

	if err := s.expenseRepo.UpdateRecurringExpense(ctx, *recurring); err != nil {
		s.LogError(ctx, err, "Failed to update recurring expense", slog.String("recurring_expense_id", recurringExpenseID))
		return nil, err
	}
	return recurring, nil
}

func (s *expenseService) DeleteRecurringExpense(ctx context.Context, requestingUserID, recurringExpenseID string) error {
	if _, err := s.getVisibleRecurringExpense(ctx, requestingUserID, recurringExpenseID); err != nil {
		return err
	}
	if err := s.expenseRepo.DeleteRecurringExpense(ctx, recurringExpenseID); err != nil {
		s.LogError(ctx, err, "Failed to delete recurring expense", slog.String("recurring_expense_id", recurringExpenseID))
		return err
	}
	return nil
}

// CreateExpenseShare assigns a portion of an expense to a user. The target's
// family membership is deliberately not checked, and share sums are not
// reconciled against the expense total.
func (s *expenseService) CreateExpenseShare(ctx context.Context, requestingUserID, expenseID string, req dto.CreateExpenseShareRequest) (*domain.ExpenseShare, error) {
	expense, err := s.getVisibleExpense(ctx, requestingUserID, expenseID)
	if err != nil {
		return nil, err
	}
	if !req.Amount.IsPositive() {
		return nil, apperrors.NewValidationFailedError("amount must be positive")
	}

	share := domain.ExpenseShare{
		ShareID:   uuid.NewString(),
		ExpenseID: expense.ExpenseID,
		UserID:    req.UserID,
		Amount:    req.Amount,
		IsPaid:    false,
		CreatedAt: time.Now(),
	}
	if err := s.expenseRepo.SaveShare(ctx, share); err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) {
			s.LogError(ctx, err, "Failed to save expense share", slog.String("expense_id", expenseID))
		}
		return nil, err
	}
	return &share, nil
}

func (s *expenseService) ListExpenseShares(ctx context.Context, requestingUserID, expenseID string) ([]domain.ExpenseShare, error) {
	if _, err := s.getVisibleExpense(ctx, requestingUserID, expenseID); err != nil {
		return nil, err
	}
	shares, err := s.expenseRepo.ListSharesByExpense(ctx, expenseID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list expense shares", slog.String("expense_id", expenseID))
		return nil, err
	}
	return shares, nil
}

func (s *expenseService) getVisibleShare(ctx context.Context, requestingUserID, shareID string) (*domain.ExpenseShare, error) {
	share, err := s.expenseRepo.FindShareByID(ctx, shareID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("expense share " + shareID + " not found")
		}
		s.LogError(ctx, err, "Failed to fetch expense share", slog.String("share_id", shareID))
		return nil, err
	}
	if _, err := s.getVisibleExpense(ctx, requestingUserID, share.ExpenseID); err != nil {
		return nil, apperrors.NewNotFoundError("expense share " + shareID + " not found")
	}
	return share, nil
}

func (s *expenseService) UpdateExpenseShare(ctx context.Context, requestingUserID, shareID string, req dto.UpdateExpenseShareRequest) (*domain.ExpenseShare, error) {
	share, err := s.getVisibleShare(ctx, requestingUserID, shareID)
	if err != nil {
		return nil, err
	}

	if req.Amount != nil {
		if !req.Amount.IsPositive() {
			return nil, apperrors.NewValidationFailedError("amount must be positive")
		}
		share.Amount = *req.Amount
	}
	if req.IsPaid != nil && *req.IsPaid != share.IsPaid {
		share.IsPaid = *req.IsPaid
		if share.IsPaid {
			now := time.Now()
			share.PaidAt = &now
		} else {
			share.PaidAt = nil
		}
	}

	if err := s.expenseRepo.UpdateShare(ctx, *share); err != nil {
		s.LogError(ctx, err, "Failed to update expense share", slog.String("share_id", shareID))
		return nil, err
	}
	return share, nil
}

func (s *expenseService) DeleteExpenseShare(ctx context.Context, requestingUserID, shareID string) error {
	if _, err := s.getVisibleShare(ctx, requestingUserID, shareID); err != nil {
		return err
	}
	if err := s.expenseRepo.DeleteShare(ctx, shareID); err != nil {
		s.LogError(ctx, err, "Failed to delete expense share", slog.String("share_id", shareID))
		return err
	}
	return nil
}
