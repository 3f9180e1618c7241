package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/fambudget/family_budget_app/internal/apperrors"
	"github.com/fambudget/family_budget_app/internal/core/domain"
	portssvc "github.com/fambudget/family_budget_app/internal/core/ports/services"
	"github.com/fambudget/family_budget_app/internal/core/services"
	"github.com/fambudget/family_budget_app/internal/dto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock FamilyRepository ---
type MockFamilyRepository struct {
	mock.Mock
}

func (m *MockFamilyRepository) FindFamilyByID(ctx context.Context, familyID string) (*domain.Family, error) {
	args := m.Called(ctx, familyID)
	var family *domain.Family
	if args.Get(0) != nil {
		family = args.Get(0).(*domain.Family)
	}
	return family, args.Error(1)
}

func (m *MockFamilyRepository) ListFamiliesByUserID(ctx context.Context, userID string) ([]domain.Family, error) {
	args := m.Called(ctx, userID)
	var families []domain.Family
	if args.Get(0) != nil {
		families = args.Get(0).([]domain.Family)
	}
	return families, args.Error(1)
}

func (m *MockFamilyRepository) CountActiveMembers(ctx context.Context, familyID string) (int64, error) {
	args := m.Called(ctx, familyID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockFamilyRepository) CreateFamilyWithOwner(ctx context.Context, family domain.Family, owner domain.FamilyMember) error {
	args := m.Called(ctx, family, owner)
	return args.Error(0)
}

func (m *MockFamilyRepository) UpdateFamily(ctx context.Context, family domain.Family) error {
	args := m.Called(ctx, family)
	return args.Error(0)
}

func (m *MockFamilyRepository) DeleteFamily(ctx context.Context, familyID string) error {
	args := m.Called(ctx, familyID)
	return args.Error(0)
}

func (m *MockFamilyRepository) FindMembership(ctx context.Context, familyID, userID string) (*domain.FamilyMember, error) {
	args := m.Called(ctx, familyID, userID)
	var member *domain.FamilyMember
	if args.Get(0) != nil {
		member = args.Get(0).(*domain.FamilyMember)
	}
	return member, args.Error(1)
}

func (m *MockFamilyRepository) ListMembers(ctx context.Context, familyID string) ([]domain.FamilyMember, error) {
	args := m.Called(ctx, familyID)
	var members []domain.FamilyMember
	if args.Get(0) != nil {
		members = args.Get(0).([]domain.FamilyMember)
	}
	return members, args.Error(1)
}

func (m *MockFamilyRepository) SaveMembership(ctx context.Context, member domain.FamilyMember) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MockFamilyRepository) UpdateMembership(ctx context.Context, member domain.FamilyMember) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

// --- Mock UserRepository ---
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) FindUserByProviderDetails(ctx context.Context, authProvider, providerUserID string) (*domain.User, error) {
	args := m.Called(ctx, authProvider, providerUserID)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) FindUsers(ctx context.Context, limit int, offset int) ([]domain.User, error) {
	args := m.Called(ctx, limit, offset)
	var users []domain.User
	if args.Get(0) != nil {
		users = args.Get(0).([]domain.User)
	}
	return users, args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, expiry time.Time) error {
	args := m.Called(ctx, userID, refreshTokenHash, expiry)
	return args.Error(0)
}

func (m *MockUserRepository) ClearRefreshToken(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// --- Test Suite ---
type FamilyServiceTestSuite struct {
	suite.Suite
	mockFamilyRepo *MockFamilyRepository
	mockUserRepo   *MockUserRepository
	service        portssvc.FamilySvcFacade
}

func (suite *FamilyServiceTestSuite) SetupTest() {
	suite.mockFamilyRepo = new(MockFamilyRepository)
	suite.mockUserRepo = new(MockUserRepository)
	suite.service = services.NewFamilyService(suite.mockFamilyRepo, suite.mockUserRepo)
}

func activeMember(familyID, userID string, role domain.FamilyRole) *domain.FamilyMember {
	return &domain.FamilyMember{
		MemberID: uuid.NewString(),
		FamilyID: familyID,
		UserID:   userID,
		Role:     role,
		IsActive: true,
		JoinedAt: time.Now(),
	}
}

// --- CreateFamily Tests ---

func (suite *FamilyServiceTestSuite) TestCreateFamily_BootstrapsAdminMembership() {
	ctx := context.Background()
	creatorID := uuid.NewString()

	suite.mockFamilyRepo.On("CreateFamilyWithOwner", ctx,
		mock.MatchedBy(func(family domain.Family) bool {
			return family.Name == "Smiths" && family.FamilyID != ""
		}),
		mock.MatchedBy(func(owner domain.FamilyMember) bool {
			return owner.UserID == creatorID && owner.Role == domain.RoleAdmin && owner.IsActive
		}),
	).Return(nil).Once()

	family, err := suite.service.CreateFamily(ctx, "Smiths", "our household", creatorID)

	suite.Require().NoError(err)
	suite.Require().NotNil(family)
	suite.Equal("Smiths", family.Name)
	suite.NotEmpty(family.FamilyID)
	suite.mockFamilyRepo.AssertExpectations(suite.T())
}

// --- AuthorizeUserAction Tests ---

func (suite *FamilyServiceTestSuite) TestAuthorizeUserAction_NoMembership_Forbidden() {
	ctx := context.Background()
	userID := uuid.NewString()
	familyID := uuid.NewString()

	suite.mockFamilyRepo.On("FindMembership", ctx, familyID, userID).Return(nil, apperrors.ErrNotFound).Once()

	err := suite.service.AuthorizeUserAction(ctx, userID, familyID, domain.RoleViewer)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *FamilyServiceTestSuite) TestAuthorizeUserAction_InactiveMembership_Forbidden() {
	ctx := context.Background()
	userID := uuid.NewString()
	familyID := uuid.NewString()

	member := activeMember(familyID, userID, domain.RoleAdmin)
	member.IsActive = false
	suite.mockFamilyRepo.On("FindMembership", ctx, familyID, userID).Return(member, nil).Once()

	err := suite.service.AuthorizeUserAction(ctx, userID, familyID, domain.RoleViewer)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *FamilyServiceTestSuite) TestAuthorizeUserAction_InsufficientRole_SameForbiddenError() {
	ctx := context.Background()
	userID := uuid.NewString()
	familyID := uuid.NewString()

	suite.mockFamilyRepo.On("FindMembership", ctx, familyID, userID).
		Return(activeMember(familyID, userID, domain.RoleMember), nil).Once()

	roleErr := suite.service.AuthorizeUserAction(ctx, userID, familyID, domain.RoleAdmin)
	suite.Require().Error(roleErr)
	suite.ErrorIs(roleErr, apperrors.ErrForbidden)

	// A missing membership must be indistinguishable from an insufficient role.
	otherFamilyID := uuid.NewString()
	suite.mockFamilyRepo.On("FindMembership", ctx, otherFamilyID, userID).Return(nil, apperrors.ErrNotFound).Once()
	missingErr := suite.service.AuthorizeUserAction(ctx, userID, otherFamilyID, domain.RoleAdmin)
	suite.Require().Error(missingErr)
	suite.Equal(roleErr.Error(), missingErr.Error())
}

func (suite *FamilyServiceTestSuite) TestAuthorizeUserAction_ViewerMayRead() {
	ctx := context.Background()
	userID := uuid.NewString()
	familyID := uuid.NewString()

	suite.mockFamilyRepo.On("FindMembership", ctx, familyID, userID).
		Return(activeMember(familyID, userID, domain.RoleViewer), nil).Once()

	suite.NoError(suite.service.AuthorizeUserAction(ctx, userID, familyID, domain.RoleViewer))
}

// --- GetFamily Tests ---

func (suite *FamilyServiceTestSuite) TestGetFamily_NonMember_NotFound() {
	ctx := context.Background()
	userID := uuid.NewString()
	familyID := uuid.NewString()

	suite.mockFamilyRepo.On("FindMembership", ctx, familyID, userID).Return(nil, apperrors.ErrNotFound).Once()

	family, _, err := suite.service.GetFamily(ctx, userID, familyID)

	suite.Require().Error(err)
	suite.Nil(family)
	// Invisible families read as missing, never as forbidden.
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *FamilyServiceTestSuite) TestGetFamily_Member_ReturnsCount() {
	ctx := context.Background()
	userID := uuid.NewString()
	familyID := uuid.NewString()
	expected := &domain.Family{FamilyID: familyID, Name: "Smiths"}

	suite.mockFamilyRepo.On("FindMembership", ctx, familyID, userID).
		Return(activeMember(familyID, userID, domain.RoleViewer), nil).Once()
	suite.mockFamilyRepo.On("FindFamilyByID", ctx, familyID).Return(expected, nil).Once()
	suite.mockFamilyRepo.On("CountActiveMembers", ctx, familyID).Return(int64(3), nil).Once()

	family, count, err := suite.service.GetFamily(ctx, userID, familyID)

	suite.Require().NoError(err)
	suite.Equal(expected, family)
	suite.Equal(int64(3), count)
	suite.mockFamilyRepo.AssertExpectations(suite.T())
}

// --- InviteMember Tests ---

func (suite *FamilyServiceTestSuite) inviteAsAdmin(ctx context.Context, familyID, adminID string) {
	suite.mockFamilyRepo.On("FindMembership", ctx, familyID, adminID).
		Return(activeMember(familyID, adminID, domain.RoleAdmin), nil).Once()
}

func (suite *FamilyServiceTestSuite) TestInviteMember_NewMembership_Added() {
	ctx := context.Background()
	adminID := uuid.NewString()
	familyID := uuid.NewString()
	target := &domain.User{UserID: uuid.NewString(), Email: "kim@example.com", Name: "Kim"}

	suite.inviteAsAdmin(ctx, familyID, adminID)
	suite.mockUserRepo.On("FindUserByEmail", ctx, "kim@example.com").Return(target, nil).Once()
	suite.mockFamilyRepo.On("FindMembership", ctx, familyID, target.UserID).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockFamilyRepo.On("SaveMembership", ctx, mock.MatchedBy(func(member domain.FamilyMember) bool {
		return member.UserID == target.UserID && member.Role == domain.RoleMember && member.IsActive
	})).Return(nil).Once()

	status, member, err := suite.service.InviteMember(ctx, adminID, familyID, "Kim@Example.com")

	suite.Require().NoError(err)
	suite.Equal(dto.InviteStatusAdded, status)
	suite.Equal(domain.RoleMember, member.Role)
	suite.mockFamilyRepo.AssertExpectations(suite.T())
}

func (suite *FamilyServiceTestSuite) TestInviteMember_ActiveMembership_Conflict() {
	ctx := context.Background()
	adminID := uuid.NewString()
	familyID := uuid.NewString()
	target := &domain.User{UserID: uuid.NewString(), Email: "kim@example.com", Name: "Kim"}

	suite.inviteAsAdmin(ctx, familyID, adminID)
	suite.mockUserRepo.On("FindUserByEmail", ctx, "kim@example.com").Return(target, nil).Once()
	suite.mockFamilyRepo.On("FindMembership", ctx, familyID, target.UserID).
		Return(activeMember(familyID, target.UserID, domain.RoleMember), nil).Once()

	status, member, err := suite.service.InviteMember(ctx, adminID, familyID, "kim@example.com")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.Empty(status)
	suite.Nil(member)
}

func (suite *FamilyServiceTestSuite) TestInviteMember_InactiveMembership_ReactivatedWithOldRole() {
	ctx := context.Background()
	adminID := uuid.NewString()
	familyID := uuid.NewString()
	target := &domain.User{UserID: uuid.NewString(), Email: "kim@example.com", Name: "Kim"}

	previous := activeMember(familyID, target.UserID, domain.RoleViewer)
	previous.IsActive = false

	suite.inviteAsAdmin(ctx, familyID, adminID)
	suite.mockUserRepo.On("FindUserByEmail", ctx, "kim@example.com").Return(target, nil).Once()
	suite.mockFamilyRepo.On("FindMembership", ctx, familyID, target.UserID).Return(previous, nil).Once()
	suite.mockFamilyRepo.On("UpdateMembership", ctx, mock.MatchedBy(func(member domain.FamilyMember) bool {
		return member.MemberID == previous.MemberID && member.IsActive && member.Role == domain.RoleViewer
	})).Return(nil).Once()

	status, member, err := suite.service.InviteMember(ctx, adminID, familyID, "kim@example.com")

	suite.Require().NoError(err)
	suite.Equal(dto.InviteStatusReactivated, status)
	// The pre-deactivation role survives the round trip.
	suite.Equal(domain.RoleViewer, member.Role)
	suite.True(member.IsActive)
	suite.mockFamilyRepo.AssertExpectations(suite.T())
}

func (suite *FamilyServiceTestSuite) TestInviteMember_UnknownEmail_NotFound() {
	ctx := context.Background()
	adminID := uuid.NewString()
	familyID := uuid.NewString()

	suite.inviteAsAdmin(ctx, familyID, adminID)
	suite.mockUserRepo.On("FindUserByEmail", ctx, "nobody@example.com").Return(nil, apperrors.ErrNotFound).Once()

	status, member, err := suite.service.InviteMember(ctx, adminID, familyID, "nobody@example.com")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Empty(status)
	suite.Nil(member)
}

func (suite *FamilyServiceTestSuite) TestInviteMember_NonAdmin_Forbidden() {
	ctx := context.Background()
	memberID := uuid.NewString()
	familyID := uuid.NewString()

	suite.mockFamilyRepo.On("FindMembership", ctx, familyID, memberID).
		Return(activeMember(familyID, memberID, domain.RoleMember), nil).Once()

	_, _, err := suite.service.InviteMember(ctx, memberID, familyID, "kim@example.com")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "FindUserByEmail")
}

// --- UpdateMemberRole Tests ---

func (suite *FamilyServiceTestSuite) TestUpdateMemberRole_UnknownRole_ValidationError() {
	ctx := context.Background()

	_, err := suite.service.UpdateMemberRole(ctx, uuid.NewString(), uuid.NewString(), uuid.NewString(), domain.FamilyRole("owner"))

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockFamilyRepo.AssertNotCalled(suite.T(), "FindMembership")
}

func (suite *FamilyServiceTestSuite) TestUpdateMemberRole_Success() {
	ctx := context.Background()
	adminID := uuid.NewString()
	familyID := uuid.NewString()
	targetID := uuid.NewString()
	target := activeMember(familyID, targetID, domain.RoleMember)

	suite.inviteAsAdmin(ctx, familyID, adminID)
	suite.mockFamilyRepo.On("FindMembership", ctx, familyID, targetID).Return(target, nil).Once()
	suite.mockFamilyRepo.On("UpdateMembership", ctx, mock.MatchedBy(func(member domain.FamilyMember) bool {
		return member.MemberID == target.MemberID && member.Role == domain.RoleAdmin
	})).Return(nil).Once()

	updated, err := suite.service.UpdateMemberRole(ctx, adminID, familyID, targetID, domain.RoleAdmin)

	suite.Require().NoError(err)
	suite.Equal(domain.RoleAdmin, updated.Role)
	suite.mockFamilyRepo.AssertExpectations(suite.T())
}

// --- RemoveMember Tests ---

func (suite *FamilyServiceTestSuite) TestRemoveMember_DeactivatesRow() {
	ctx := context.Background()
	adminID := uuid.NewString()
	familyID := uuid.NewString()
	targetID := uuid.NewString()
	target := activeMember(familyID, targetID, domain.RoleMember)

	suite.inviteAsAdmin(ctx, familyID, adminID)
	suite.mockFamilyRepo.On("FindMembership", ctx, familyID, targetID).Return(target, nil).Once()
	suite.mockFamilyRepo.On("UpdateMembership", ctx, mock.MatchedBy(func(member domain.FamilyMember) bool {
		return member.MemberID == target.MemberID && !member.IsActive
	})).Return(nil).Once()

	err := suite.service.RemoveMember(ctx, adminID, familyID, targetID)

	suite.Require().NoError(err)
	suite.mockFamilyRepo.AssertNotCalled(suite.T(), "DeleteFamily")
	suite.mockFamilyRepo.AssertExpectations(suite.T())
}

func (suite *FamilyServiceTestSuite) TestRemoveMember_AlreadyInactive_NotFound() {
	ctx := context.Background()
	adminID := uuid.NewString()
	familyID := uuid.NewString()
	targetID := uuid.NewString()
	target := activeMember(familyID, targetID, domain.RoleMember)
	target.IsActive = false

	suite.inviteAsAdmin(ctx, familyID, adminID)
	suite.mockFamilyRepo.On("FindMembership", ctx, familyID, targetID).Return(target, nil).Once()

	err := suite.service.RemoveMember(ctx, adminID, familyID, targetID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

// --- DeleteFamily Tests ---

func (suite *FamilyServiceTestSuite) TestDeleteFamily_AdminOnly() {
	ctx := context.Background()
	memberID := uuid.NewString()
	familyID := uuid.NewString()

	suite.mockFamilyRepo.On("FindMembership", ctx, familyID, memberID).
		Return(activeMember(familyID, memberID, domain.RoleMember), nil).Once()

	err := suite.service.DeleteFamily(ctx, memberID, familyID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockFamilyRepo.AssertNotCalled(suite.T(), "DeleteFamily")
}

func (suite *FamilyServiceTestSuite) TestUpdateFamily_Rename() {
	ctx := context.Background()
	adminID := uuid.NewString()
	familyID := uuid.NewString()
	newName := "Smith-Jones"

	suite.inviteAsAdmin(ctx, familyID, adminID)
	suite.mockFamilyRepo.On("FindFamilyByID", ctx, familyID).
		Return(&domain.Family{FamilyID: familyID, Name: "Smiths"}, nil).Once()
	suite.mockFamilyRepo.On("UpdateFamily", ctx, mock.MatchedBy(func(family domain.Family) bool {
		return family.Name == newName && family.LastUpdatedBy == adminID
	})).Return(nil).Once()

	family, err := suite.service.UpdateFamily(ctx, adminID, familyID, dto.UpdateFamilyRequest{Name: &newName})

	suite.Require().NoError(err)
	suite.Equal(newName, family.Name)
	suite.mockFamilyRepo.AssertExpectations(suite.T())
}

func TestFamilyServiceTestSuite(t *testing.T) {
	suite.Run(t, new(FamilyServiceTestSuite))
}
