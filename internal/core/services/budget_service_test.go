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
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock FamilyAuthorizer ---
type MockFamilyAuthorizer struct {
	mock.Mock
}

func (m *MockFamilyAuthorizer) AuthorizeUserAction(ctx context.Context, userID, familyID string, requiredRole domain.FamilyRole) error {
	args := m.Called(ctx, userID, familyID, requiredRole)
	return args.Error(0)
}

func (m *MockFamilyAuthorizer) ActiveFamilyIDs(ctx context.Context, userID string) ([]string, error) {
	args := m.Called(ctx, userID)
	var ids []string
	if args.Get(0) != nil {
		ids = args.Get(0).([]string)
	}
	return ids, args.Error(1)
}

// --- Mock BudgetRepository ---
type MockBudgetRepository struct {
	mock.Mock
}

func (m *MockBudgetRepository) FindBudgetByID(ctx context.Context, budgetID string) (*domain.Budget, error) {
	args := m.Called(ctx, budgetID)
	var budget *domain.Budget
	if args.Get(0) != nil {
		budget = args.Get(0).(*domain.Budget)
	}
	return budget, args.Error(1)
}

func (m *MockBudgetRepository) ListBudgetsByFamily(ctx context.Context, familyID string) ([]domain.Budget, error) {
	args := m.Called(ctx, familyID)
	var budgets []domain.Budget
	if args.Get(0) != nil {
		budgets = args.Get(0).([]domain.Budget)
	}
	return budgets, args.Error(1)
}

func (m *MockBudgetRepository) ListActiveBudgets(ctx context.Context, familyIDs []string, day time.Time) ([]domain.Budget, error) {
	args := m.Called(ctx, familyIDs, day)
	var budgets []domain.Budget
	if args.Get(0) != nil {
		budgets = args.Get(0).([]domain.Budget)
	}
	return budgets, args.Error(1)
}

func (m *MockBudgetRepository) SaveBudget(ctx context.Context, budget domain.Budget) error {
	args := m.Called(ctx, budget)
	return args.Error(0)
}

func (m *MockBudgetRepository) UpdateBudget(ctx context.Context, budget domain.Budget) error {
	args := m.Called(ctx, budget)
	return args.Error(0)
}

func (m *MockBudgetRepository) DeleteBudget(ctx context.Context, budgetID string) error {
	args := m.Called(ctx, budgetID)
	return args.Error(0)
}

// --- Mock CategoryRepository ---
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) FindCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error) {
	args := m.Called(ctx, categoryID)
	var category *domain.Category
	if args.Get(0) != nil {
		category = args.Get(0).(*domain.Category)
	}
	return category, args.Error(1)
}

func (m *MockCategoryRepository) ListCategoriesByFamily(ctx context.Context, familyID string) ([]domain.Category, error) {
	args := m.Called(ctx, familyID)
	var categories []domain.Category
	if args.Get(0) != nil {
		categories = args.Get(0).([]domain.Category)
	}
	return categories, args.Error(1)
}

func (m *MockCategoryRepository) SaveCategory(ctx context.Context, category domain.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) UpdateCategory(ctx context.Context, category domain.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) DeleteCategory(ctx context.Context, categoryID string) error {
	args := m.Called(ctx, categoryID)
	return args.Error(0)
}

// --- Mock ExpenseReader ---
type MockExpenseReader struct {
	mock.Mock
}

func (m *MockExpenseReader) FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error) {
	args := m.Called(ctx, expenseID)
	var expense *domain.Expense
	if args.Get(0) != nil {
		expense = args.Get(0).(*domain.Expense)
	}
	return expense, args.Error(1)
}

func (m *MockExpenseReader) ListExpenses(ctx context.Context, familyIDs []string, filter portsrepo.ExpenseListFilter, afterDate, afterCreatedAt *time.Time, limit int) ([]domain.Expense, error) {
	args := m.Called(ctx, familyIDs, filter, afterDate, afterCreatedAt, limit)
	var expenses []domain.Expense
	if args.Get(0) != nil {
		expenses = args.Get(0).([]domain.Expense)
	}
	return expenses, args.Error(1)
}

func (m *MockExpenseReader) SumExpenses(ctx context.Context, familyID, categoryID string, from, to time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, familyID, categoryID, from, to)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// --- Test Suite ---
type BudgetServiceTestSuite struct {
	suite.Suite
	mockBudgetRepo   *MockBudgetRepository
	mockCategoryRepo *MockCategoryRepository
	mockExpenseRepo  *MockExpenseReader
	mockAuthorizer   *MockFamilyAuthorizer
	service          portssvc.BudgetSvcFacade
}

func (suite *BudgetServiceTestSuite) SetupTest() {
	suite.mockBudgetRepo = new(MockBudgetRepository)
	suite.mockCategoryRepo = new(MockCategoryRepository)
	suite.mockExpenseRepo = new(MockExpenseReader)
	suite.mockAuthorizer = new(MockFamilyAuthorizer)
	suite.service = services.NewBudgetService(suite.mockBudgetRepo, suite.mockCategoryRepo, suite.mockExpenseRepo, suite.mockAuthorizer)
}

func (suite *BudgetServiceTestSuite) allowAnyRole(ctx context.Context, userID, familyID string) {
	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, userID, familyID, mock.AnythingOfType("domain.FamilyRole")).Return(nil)
}

func mustDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func groceriesBudget(familyID, categoryID string) *domain.Budget {
	return &domain.Budget{
		BudgetID:   uuid.NewString(),
		FamilyID:   familyID,
		CategoryID: categoryID,
		Name:       "Groceries January",
		Amount:     mustDecimal("500.00"),
		Period:     domain.PeriodMonthly,
		StartDate:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		IsActive:   true,
	}
}

// --- GetBudget / usage derivation ---

func (suite *BudgetServiceTestSuite) TestGetBudget_DerivesUsageFromExpenses() {
	ctx := context.Background()
	userID := uuid.NewString()
	familyID := uuid.NewString()
	budget := groceriesBudget(familyID, uuid.NewString())

	suite.mockBudgetRepo.On("FindBudgetByID", ctx, budget.BudgetID).Return(budget, nil).Once()
	suite.allowAnyRole(ctx, userID, familyID)
	// 120.50 + 80.00 recorded in the window.
	suite.mockExpenseRepo.On("SumExpenses", ctx, familyID, budget.CategoryID, budget.StartDate, budget.EndDate).
		Return(mustDecimal("200.50"), nil).Once()

	got, usage, err := suite.service.GetBudget(ctx, userID, budget.BudgetID)

	suite.Require().NoError(err)
	suite.Equal(budget.BudgetID, got.BudgetID)
	suite.True(usage.SpentAmount.Equal(mustDecimal("200.50")))
	suite.True(usage.RemainingAmount.Equal(mustDecimal("299.50")))
	suite.True(usage.SpentPercentage.Equal(mustDecimal("40.1")))
	suite.mockExpenseRepo.AssertExpectations(suite.T())
}

func (suite *BudgetServiceTestSuite) TestGetBudget_OverBudget_NegativeRemaining() {
	ctx := context.Background()
	userID := uuid.NewString()
	familyID := uuid.NewString()
	budget := groceriesBudget(familyID, uuid.NewString())

	suite.mockBudgetRepo.On("FindBudgetByID", ctx, budget.BudgetID).Return(budget, nil).Once()
	suite.allowAnyRole(ctx, userID, familyID)
	suite.mockExpenseRepo.On("SumExpenses", ctx, familyID, budget.CategoryID, budget.StartDate, budget.EndDate).
		Return(mustDecimal("600.00"), nil).Once()

	_, usage, err := suite.service.GetBudget(ctx, userID, budget.BudgetID)

	suite.Require().NoError(err)
	suite.True(usage.RemainingAmount.Equal(mustDecimal("-100.00")))
	suite.True(usage.SpentPercentage.Equal(mustDecimal("120")))
}

func (suite *BudgetServiceTestSuite) TestGetBudget_ZeroAmount_ZeroPercent() {
	ctx := context.Background()
	userID := uuid.NewString()
	familyID := uuid.NewString()
	budget := groceriesBudget(familyID, uuid.NewString())
	budget.Amount = decimal.Zero

	suite.mockBudgetRepo.On("FindBudgetByID", ctx, budget.BudgetID).Return(budget, nil).Once()
	suite.allowAnyRole(ctx, userID, familyID)
	suite.mockExpenseRepo.On("SumExpenses", ctx, familyID, budget.CategoryID, budget.StartDate, budget.EndDate).
		Return(mustDecimal("50.00"), nil).Once()

	_, usage, err := suite.service.GetBudget(ctx, userID, budget.BudgetID)

	suite.Require().NoError(err)
	suite.True(usage.SpentPercentage.IsZero())
	suite.True(usage.RemainingAmount.Equal(mustDecimal("-50.00")))
}

func (suite *BudgetServiceTestSuite) TestGetBudget_Invisible_NotFound() {
	ctx := context.Background()
	userID := uuid.NewString()
	familyID := uuid.NewString()
	budget := groceriesBudget(familyID, uuid.NewString())

	suite.mockBudgetRepo.On("FindBudgetByID", ctx, budget.BudgetID).Return(budget, nil).Once()
	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, userID, familyID, domain.RoleViewer).
		Return(apperrors.NewForbiddenError("user does not have the required permissions in this family")).Once()

	got, _, err := suite.service.GetBudget(ctx, userID, budget.BudgetID)

	suite.Require().Error(err)
	suite.Nil(got)
	// Budgets of other families read as missing, not forbidden.
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

// --- CreateBudget Tests ---

func (suite *BudgetServiceTestSuite) TestCreateBudget_CategoryOfOtherFamily_ValidationError() {
	ctx := context.Background()
	userID := uuid.NewString()
	familyID := uuid.NewString()
	categoryID := uuid.NewString()

	suite.allowAnyRole(ctx, userID, familyID)
	suite.mockCategoryRepo.On("FindCategoryByID", ctx, categoryID).
		Return(&domain.Category{CategoryID: categoryID, FamilyID: uuid.NewString()}, nil).Once()

	req := dto.CreateBudgetRequest{
		FamilyID:   familyID,
		CategoryID: categoryID,
		Name:       "Groceries January",
		Amount:     mustDecimal("500.00"),
		Period:     "monthly",
		StartDate:  "2024-01-01",
		EndDate:    "2024-01-31",
	}
	budget, _, err := suite.service.CreateBudget(ctx, req, userID)

	suite.Require().Error(err)
	suite.Nil(budget)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockBudgetRepo.AssertNotCalled(suite.T(), "SaveBudget")
}

func (suite *BudgetServiceTestSuite) TestCreateBudget_EndBeforeStart_ValidationError() {
	ctx := context.Background()
	userID := uuid.NewString()
	familyID := uuid.NewString()
	categoryID := uuid.NewString()

	suite.allowAnyRole(ctx, userID, familyID)
	suite.mockCategoryRepo.On("FindCategoryByID", ctx, categoryID).
		Return(&domain.Category{CategoryID: categoryID, FamilyID: familyID}, nil).Once()

	req := dto.CreateBudgetRequest{
		FamilyID:   familyID,
		CategoryID: categoryID,
		Name:       "Groceries January",
		Amount:     mustDecimal("500.00"),
		Period:     "monthly",
		StartDate:  "2024-01-31",
		EndDate:    "2024-01-01",
	}
	_, _, err := suite.service.CreateBudget(ctx, req, userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *BudgetServiceTestSuite) TestCreateBudget_Success() {
	ctx := context.Background()
	userID := uuid.NewString()
	familyID := uuid.NewString()
	categoryID := uuid.NewString()

	suite.allowAnyRole(ctx, userID, familyID)
	suite.mockCategoryRepo.On("FindCategoryByID", ctx, categoryID).
		Return(&domain.Category{CategoryID: categoryID, FamilyID: familyID}, nil).Once()
	suite.mockBudgetRepo.On("SaveBudget", ctx, mock.MatchedBy(func(budget domain.Budget) bool {
		return budget.FamilyID == familyID && budget.IsActive && budget.Period == domain.PeriodMonthly
	})).Return(nil).Once()
	suite.mockExpenseRepo.On("SumExpenses", ctx, familyID, categoryID, mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).
		Return(decimal.Zero, nil).Once()

	req := dto.CreateBudgetRequest{
		FamilyID:   familyID,
		CategoryID: categoryID,
		Name:       "Groceries January",
		Amount:     mustDecimal("500.00"),
		Period:     "monthly",
		StartDate:  "2024-01-01",
		EndDate:    "2024-01-31",
	}
	budget, usage, err := suite.service.CreateBudget(ctx, req, userID)

	suite.Require().NoError(err)
	suite.NotEmpty(budget.BudgetID)
	suite.True(usage.SpentAmount.IsZero())
	suite.True(usage.RemainingAmount.Equal(mustDecimal("500.00")))
	suite.mockBudgetRepo.AssertExpectations(suite.T())
}

// --- ListActiveBudgets Tests ---

func (suite *BudgetServiceTestSuite) TestListActiveBudgets_NoFamilies_EmptyResult() {
	ctx := context.Background()
	userID := uuid.NewString()

	suite.mockAuthorizer.On("ActiveFamilyIDs", ctx, userID).Return([]string{}, nil).Once()

	budgets, usages, err := suite.service.ListActiveBudgets(ctx, userID)

	suite.Require().NoError(err)
	suite.NotNil(budgets)
	suite.Empty(budgets)
	suite.Empty(usages)
	suite.mockBudgetRepo.AssertNotCalled(suite.T(), "ListActiveBudgets")
}

func (suite *BudgetServiceTestSuite) TestListActiveBudgets_UsagePerBudget() {
	ctx := context.Background()
	userID := uuid.NewString()
	familyID := uuid.NewString()
	first := groceriesBudget(familyID, uuid.NewString())
	second := groceriesBudget(familyID, uuid.NewString())
	second.Amount = mustDecimal("100.00")

	suite.mockAuthorizer.On("ActiveFamilyIDs", ctx, userID).Return([]string{familyID}, nil).Once()
	suite.mockBudgetRepo.On("ListActiveBudgets", ctx, []string{familyID}, mock.AnythingOfType("time.Time")).
		Return([]domain.Budget{*first, *second}, nil).Once()
	suite.mockExpenseRepo.On("SumExpenses", ctx, familyID, first.CategoryID, first.StartDate, first.EndDate).
		Return(mustDecimal("250.00"), nil).Once()
	suite.mockExpenseRepo.On("SumExpenses", ctx, familyID, second.CategoryID, second.StartDate, second.EndDate).
		Return(mustDecimal("25.00"), nil).Once()

	budgets, usages, err := suite.service.ListActiveBudgets(ctx, userID)

	suite.Require().NoError(err)
	suite.Require().Len(budgets, 2)
	suite.Require().Len(usages, 2)
	suite.True(usages[0].SpentPercentage.Equal(mustDecimal("50")))
	suite.True(usages[1].SpentPercentage.Equal(mustDecimal("25")))
}

func TestBudgetServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BudgetServiceTestSuite))
}
