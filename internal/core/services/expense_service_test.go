package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/fambudget/family_budget_app/internal/apperrors"
	"github.com/fambudget/family_budget_app/internal/core/domain"
	portsrepo "github.com/fambudget/family_budget_app/internal/core/ports/repositories"
	portssvc "github.com/fambudget/family_budget_app/internal/core/ports/services"
	"github.com/fambudget/family_budget_app/internal/core/services"
	"github.com/fambudget/family_budget_app/internal/dto"
	"github.com/fambudget/family_budget_app/internal/utils/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock ExpenseRepository ---
type MockExpenseRepository struct {
	mock.Mock
}

func (m *MockExpenseRepository) FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error) {
	args := m.Called(ctx, expenseID)
	var expense *domain.Expense
	if args.Get(0) != nil {
		expense = args.Get(0).(*domain.Expense)
	}
	return expense, args.Error(1)
}

func (m *MockExpenseRepository) ListExpenses(ctx context.Context, familyIDs []string, filter portsrepo.ExpenseListFilter, afterDate, afterCreatedAt *time.Time, limit int) ([]domain.Expense, error) {
	args := m.Called(ctx, familyIDs, filter, afterDate, afterCreatedAt, limit)
	var expenses []domain.Expense
	if args.Get(0) != nil {
		expenses = args.Get(0).([]domain.Expense)
	}
	return expenses, args.Error(1)
}

func (m *MockExpenseRepository) SumExpenses(ctx context.Context, familyID, categoryID string, from, to time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, familyID, categoryID, from, to)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockExpenseRepository) SaveExpense(ctx context.Context, expense domain.Expense) error {
	args := m.Called(ctx, expense)
	return args.Error(0)
}

func (m *MockExpenseRepository) UpdateExpense(ctx context.Context, expense domain.Expense) error {
	args := m.Called(ctx, expense)
	return args.Error(0)
}

func (m *MockExpenseRepository) DeleteExpense(ctx context.Context, expenseID string) error {
	args := m.Called(ctx, expenseID)
	return args.Error(0)
}

func (m *MockExpenseRepository) FindRecurringExpenseByID(ctx context.Context, recurringExpenseID string) (*domain.RecurringExpense, error) {
	args := m.Called(ctx, recurringExpenseID)
	var recurring *domain.RecurringExpense
	if args.Get(0) != nil {
		recurring = args.Get(0).(*domain.RecurringExpense)
	}
	return recurring, args.Error(1)
}

func (m *MockExpenseRepository) ListRecurringExpensesByFamily(ctx context.Context, familyID string) ([]domain.RecurringExpense, error) {
	args := m.Called(ctx, familyID)
	var recurring []domain.RecurringExpense
	if args.Get(0) != nil {
		recurring = args.Get(0).([]domain.RecurringExpense)
	}
	return recurring, args.Error(1)
}

func (m *MockExpenseRepository) SaveRecurringExpense(ctx context.Context, recurring domain.RecurringExpense) error {
	args := m.Called(ctx, recurring)
	return args.Error(0)
}

func (m *MockExpenseRepository) UpdateRecurringExpense(ctx context.Context, recurring domain.RecurringExpense) error {
	args := m.Called(ctx, recurring)
	return args.Error(0)
}

func (m *MockExpenseRepository) DeleteRecurringExpense(ctx context.Context, recurringExpenseID string) error {
	args := m.Called(ctx, recurringExpenseID)
	return args.Error(0)
}

func (m *MockExpenseRepository) FindShareByID(ctx context.Context, shareID string) (*domain.ExpenseShare, error) {
	args := m.Called(ctx, shareID)
	var share *domain.ExpenseShare
	if args.Get(0) != nil {
		share = args.Get(0).(*domain.ExpenseShare)
	}
	return share, args.Error(1)
}

func (m *MockExpenseRepository) ListSharesByExpense(ctx context.Context, expenseID string) ([]domain.ExpenseShare, error) {
	args := m.Called(ctx, expenseID)
	var shares []domain.ExpenseShare
	if args.Get(0) != nil {
		shares = args.Get(0).([]domain.ExpenseShare)
	}
	return shares, args.Error(1)
}

func (m *MockExpenseRepository) SaveShare(ctx context.Context, share domain.ExpenseShare) error {
	args := m.Called(ctx, share)
	return args.Error(0)
}

func (m *MockExpenseRepository) UpdateShare(ctx context.Context, share domain.ExpenseShare) error {
	args := m.Called(ctx, share)
	return args.Error(0)
}

func (m *MockExpenseRepository) DeleteShare(ctx context.Context, shareID string) error {
	args := m.Called(ctx, shareID)
	return args.Error(0)
}

// --- Test Suite ---
type ExpenseServiceTestSuite struct {
	suite.Suite
	mockExpenseRepo  *MockExpenseRepository
	mockCategoryRepo *MockCategoryRepository
	mockAuthorizer   *MockFamilyAuthorizer
	service          portssvc.ExpenseSvcFacade
}

func (suite *ExpenseServiceTestSuite) SetupTest() {
	suite.mockExpenseRepo = new(MockExpenseRepository)
	suite.mockCategoryRepo = new(MockCategoryRepository)
	suite.mockAuthorizer = new(MockFamilyAuthorizer)
	suite.service = services.NewExpenseService(suite.mockExpenseRepo, suite.mockCategoryRepo, suite.mockAuthorizer)
}

func (suite *ExpenseServiceTestSuite) allowAnyRole(ctx context.Context, userID, familyID string) {
	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, userID, familyID, mock.AnythingOfType("domain.FamilyRole")).Return(nil)
}

func sampleExpense(familyID string, date time.Time) domain.Expense {
	return domain.Expense{
		ExpenseID:     uuid.NewString(),
		FamilyID:      familyID,
		CategoryID:    uuid.NewString(),
		Title:         "Weekly shop",
		Amount:        mustDecimal("42.00"),
		PaidByUserID:  uuid.NewString(),
		Date:          date,
		PaymentMethod: domain.PaymentCash,
		AuditFields:   domain.AuditFields{CreatedAt: date.Add(10 * time.Hour)},
	}
}

// --- CreateExpense Tests ---

func (suite *ExpenseServiceTestSuite) TestCreateExpense_Success() {
	ctx := context.Background()
	userID := uuid.NewString()
	familyID := uuid.NewString()
	categoryID := uuid.NewString()

	suite.allowAnyRole(ctx, userID, familyID)
	suite.mockCategoryRepo.On("FindCategoryByID", ctx, categoryID).
		Return(&domain.Category{CategoryID: categoryID, FamilyID: familyID}, nil).Once()
	suite.mockExpenseRepo.On("SaveExpense", ctx, mock.MatchedBy(func(expense domain.Expense) bool {
		return expense.FamilyID == familyID && expense.PaidByUserID == userID && expense.PaymentMethod == domain.PaymentCash
	})).Return(nil).Once()

	req := dto.CreateExpenseRequest{
		FamilyID:      familyID,
		CategoryID:    categoryID,
		Title:         "Weekly shop",
		Amount:        mustDecimal("42.00"),
		Date:          "2024-01-15",
		PaymentMethod: "cash",
	}
	expense, err := suite.service.CreateExpense(ctx, req, userID)

	suite.Require().NoError(err)
	suite.NotEmpty(expense.ExpenseID)
	suite.Equal(userID, expense.PaidByUserID)
	suite.mockExpenseRepo.AssertExpectations(suite.T())
}

func (suite *ExpenseServiceTestSuite) TestCreateExpense_CategoryOfOtherFamily_ValidationError() {
	ctx := context.Background()
	userID := uuid.NewString()
	familyID := uuid.NewString()
	categoryID := uuid.NewString()

	suite.allowAnyRole(ctx, userID, familyID)
	suite.mockCategoryRepo.On("FindCategoryByID", ctx, categoryID).
		Return(&domain.Category{CategoryID: categoryID, FamilyID: uuid.NewString()}, nil).Once()

	req := dto.CreateExpenseRequest{
		FamilyID:   familyID,
		CategoryID: categoryID,
		Title:      "Weekly shop",
		Amount:     mustDecimal("42.00"),
		Date:       "2024-01-15",
	}
	expense, err := suite.service.CreateExpense(ctx, req, userID)

	suite.Require().Error(err)
	suite.Nil(expense)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockExpenseRepo.AssertNotCalled(suite.T(), "SaveExpense")
}

func (suite *ExpenseServiceTestSuite) TestCreateExpense_NonMember_Forbidden() {
	ctx := context.Background()
	userID := uuid.NewString()
	familyID := uuid.NewString()

	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, userID, familyID, domain.RoleViewer).
		Return(apperrors.NewForbiddenError("user does not have the required permissions in this family")).Once()

	req := dto.CreateExpenseRequest{
		FamilyID:   familyID,
		CategoryID: uuid.NewString(),
		Title:      "Weekly shop",
		Amount:     mustDecimal("42.00"),
		Date:       "2024-01-15",
	}
	_, err := suite.service.CreateExpense(ctx, req, userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

// --- ListExpenses pagination ---

func (suite *ExpenseServiceTestSuite) TestListExpenses_FullPage_ReturnsNextToken() {
	ctx := context.Background()
	userID := uuid.NewString()
	familyID := uuid.NewString()

	day := time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)
	rows := []domain.Expense{
		sampleExpense(familyID, day),
		sampleExpense(familyID, day.AddDate(0, 0, -1)),
		sampleExpense(familyID, day.AddDate(0, 0, -2)),
	}

	suite.mockAuthorizer.On("ActiveFamilyIDs", ctx, userID).Return([]string{familyID}, nil).Once()
	// The service asks for one row beyond the page to detect a next page.
	suite.mockExpenseRepo.On("ListExpenses", ctx, []string{familyID}, mock.AnythingOfType("repositories.ExpenseListFilter"), (*time.Time)(nil), (*time.Time)(nil), 3).
		Return(rows, nil).Once()

	expenses, nextToken, err := suite.service.ListExpenses(ctx, userID, dto.ListExpensesParams{Limit: 2})

	suite.Require().NoError(err)
	suite.Len(expenses, 2)
	suite.Require().NotEmpty(nextToken)

	date, createdAt, err := pagination.DecodeToken(nextToken)
	suite.Require().NoError(err)
	suite.True(date.Equal(rows[1].Date))
	suite.True(createdAt.Equal(rows[1].CreatedAt))
}

func (suite *ExpenseServiceTestSuite) TestListExpenses_PartialPage_NoNextToken() {
	ctx := context.Background()
	userID := uuid.NewString()
	familyID := uuid.NewString()

	rows := []domain.Expense{sampleExpense(familyID, time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC))}

	suite.mockAuthorizer.On("ActiveFamilyIDs", ctx, userID).Return([]string{familyID}, nil).Once()
	suite.mockExpenseRepo.On("ListExpenses", ctx, []string{familyID}, mock.AnythingOfType("repositories.ExpenseListFilter"), (*time.Time)(nil), (*time.Time)(nil), 21).
		Return(rows, nil).Once()

	expenses, nextToken, err := suite.service.ListExpenses(ctx, userID, dto.ListExpensesParams{})

	suite.Require().NoError(err)
	suite.Len(expenses, 1)
	suite.Empty(nextToken)
}

func (suite *ExpenseServiceTestSuite) TestListExpenses_BadToken_ValidationError() {
	ctx := context.Background()
	userID := uuid.NewString()
	familyID := uuid.NewString()

	suite.mockAuthorizer.On("ActiveFamilyIDs", ctx, userID).Return([]string{familyID}, nil).Once()

	_, _, err := suite.service.ListExpenses(ctx, userID, dto.ListExpensesParams{NextToken: "not-base64!"})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockExpenseRepo.AssertNotCalled(suite.T(), "ListExpenses")
}

func (suite *ExpenseServiceTestSuite) TestListExpenses_NoFamilies_EmptyPage() {
	ctx := context.Background()
	userID := uuid.NewString()

	suite.mockAuthorizer.On("ActiveFamilyIDs", ctx, userID).Return([]string{}, nil).Once()

	expenses, nextToken, err := suite.service.ListExpenses(ctx, userID, dto.ListExpensesParams{})

	suite.Require().NoError(err)
	suite.NotNil(expenses)
	suite.Empty(expenses)
	suite.Empty(nextToken)
}

// --- Recurring expense Tests ---

func (suite *ExpenseServiceTestSuite) TestCreateRecurringExpense_EndBeforeStart_ValidationError() {
	ctx := context.Background()
	userID := uuid.NewString()
	familyID := uuid.NewString()
	categoryID := uuid.NewString()

	suite.allowAnyRole(ctx, userID, familyID)
	suite.mockCategoryRepo.On("FindCategoryByID", ctx, categoryID).
		Return(&domain.Category{CategoryID: categoryID, FamilyID: familyID}, nil).Once()

	req := dto.CreateRecurringExpenseRequest{
		FamilyID:   familyID,
		CategoryID: categoryID,
		Title:      "Rent",
		Amount:     mustDecimal("900.00"),
		Frequency:  "monthly",
		StartDate:  "2024-02-01",
		EndDate:    "2024-01-01",
	}
	_, err := suite.service.CreateRecurringExpense(ctx, req, userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockExpenseRepo.AssertNotCalled(suite.T(), "SaveRecurringExpense")
}

func (suite *ExpenseServiceTestSuite) TestCreateRecurringExpense_TemplateOnly() {
	ctx := context.Background()
	userID := uuid.NewString()
	familyID := uuid.NewString()
	categoryID := uuid.NewString()

	suite.allowAnyRole(ctx, userID, familyID)
	suite.mockCategoryRepo.On("FindCategoryByID", ctx, categoryID).
		Return(&domain.Category{CategoryID: categoryID, FamilyID: familyID}, nil).Once()
	suite.mockExpenseRepo.On("SaveRecurringExpense", ctx, mock.MatchedBy(func(recurring domain.RecurringExpense) bool {
		return recurring.IsActive && recurring.Frequency == domain.FrequencyMonthly && recurring.EndDate == nil
	})).Return(nil).Once()

	req := dto.CreateRecurringExpenseRequest{
		FamilyID:   familyID,
		CategoryID: categoryID,
		Title:      "Rent",
		Amount:     mustDecimal("900.00"),
		Frequency:  "monthly",
		StartDate:  "2024-02-01",
	}
	recurring, err := suite.service.CreateRecurringExpense(ctx, req, userID)

	suite.Require().NoError(err)
	suite.NotEmpty(recurring.RecurringExpenseID)
	// Declaring a template never records an expense row.
	suite.mockExpenseRepo.AssertNotCalled(suite.T(), "SaveExpense")
}

// --- Expense share Tests ---

func (suite *ExpenseServiceTestSuite) TestCreateExpenseShare_DuplicateUser_Conflict() {
	ctx := context.Background()
	userID := uuid.NewString()
	familyID := uuid.NewString()
	expense := sampleExpense(familyID, time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC))

	suite.mockExpenseRepo.On("FindExpenseByID", ctx, expense.ExpenseID).Return(&expense, nil).Once()
	suite.allowAnyRole(ctx, userID, familyID)
	suite.mockExpenseRepo.On("SaveShare", ctx, mock.AnythingOfType("domain.ExpenseShare")).
		Return(apperrors.NewConflictError("user already has a share of this expense")).Once()

	req := dto.CreateExpenseShareRequest{UserID: uuid.NewString(), Amount: mustDecimal("10.00")}
	share, err := suite.service.CreateExpenseShare(ctx, userID, expense.ExpenseID, req)

	suite.Require().Error(err)
	suite.Nil(share)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *ExpenseServiceTestSuite) TestUpdateExpenseShare_MarkPaid_SetsPaidAt() {
	ctx := context.Background()
	userID := uuid.NewString()
	familyID := uuid.NewString()
	expense := sampleExpense(familyID, time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC))
	share := &domain.ExpenseShare{
		ShareID:   uuid.NewString(),
		ExpenseID: expense.ExpenseID,
		UserID:    uuid.NewString(),
		Amount:    mustDecimal("10.00"),
		IsPaid:    false,
		CreatedAt: time.Now(),
	}

	suite.mockExpenseRepo.On("FindShareByID", ctx, share.ShareID).Return(share, nil).Once()
	suite.mockExpenseRepo.On("FindExpenseByID", ctx, expense.ExpenseID).Return(&expense, nil).Once()
	suite.allowAnyRole(ctx, userID, familyID)
	suite.mockExpenseRepo.On("UpdateShare", ctx, mock.MatchedBy(func(updated domain.ExpenseShare) bool {
		return updated.IsPaid && updated.PaidAt != nil
	})).Return(nil).Once()

	paid := true
	updated, err := suite.service.UpdateExpenseShare(ctx, userID, share.ShareID, dto.UpdateExpenseShareRequest{IsPaid: &paid})

	suite.Require().NoError(err)
	suite.True(updated.IsPaid)
	suite.NotNil(updated.PaidAt)
}

func (suite *ExpenseServiceTestSuite) TestUpdateExpenseShare_MarkUnpaid_ClearsPaidAt() {
	ctx := context.Background()
	userID := uuid.NewString()
	familyID := uuid.NewString()
	expense := sampleExpense(familyID, time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC))
	paidAt := time.Now().Add(-time.Hour)
	share := &domain.ExpenseShare{
		ShareID:   uuid.NewString(),
		ExpenseID: expense.ExpenseID,
		UserID:    uuid.NewString(),
		Amount:    mustDecimal("10.00"),
		IsPaid:    true,
		PaidAt:    &paidAt,
		CreatedAt: time.Now(),
	}

	suite.mockExpenseRepo.On("FindShareByID", ctx, share.ShareID).Return(share, nil).Once()
	suite.mockExpenseRepo.On("FindExpenseByID", ctx, expense.ExpenseID).Return(&expense, nil).Once()
	suite.allowAnyRole(ctx, userID, familyID)
	suite.mockExpenseRepo.On("UpdateShare", ctx, mock.MatchedBy(func(updated domain.ExpenseShare) bool {
		return !updated.IsPaid && updated.PaidAt == nil
	})).Return(nil).Once()

	unpaid := false
	updated, err := suite.service.UpdateExpenseShare(ctx, userID, share.ShareID, dto.UpdateExpenseShareRequest{IsPaid: &unpaid})

	suite.Require().NoError(err)
	suite.False(updated.IsPaid)
	suite.Nil(updated.PaidAt)
}

func (suite *ExpenseServiceTestSuite) TestGetExpense_Invisible_NotFound() {
	ctx := context.Background()
	userID := uuid.NewString()
	familyID := uuid.NewString()
	expense := sampleExpense(familyID, time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC))

	suite.mockExpenseRepo.On("FindExpenseByID", ctx, expense.ExpenseID).Return(&expense, nil).Once()
	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, userID, familyID, domain.RoleViewer).
		Return(apperrors.NewForbiddenError("user does not have the required permissions in this family")).Once()

	got, err := suite.service.GetExpense(ctx, userID, expense.ExpenseID)

	suite.Require().Error(err)
	suite.Nil(got)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func TestExpenseServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ExpenseServiceTestSuite))
}
