package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/fambudget/family_budget_app/internal/apperrors"
	"github.com/fambudget/family_budget_app/internal/core/domain"
	portsrepo "github.com/fambudget/family_budget_app/internal/core/ports/repositories"
	portssvc "github.com/fambudget/family_budget_app/internal/core/ports/services"
	"github.com/fambudget/family_budget_app/internal/dto"
	"github.com/google/uuid"
)

type familyService struct {
	BaseService
	familyRepo portsrepo.FamilyRepositoryFacade
	userRepo   portsrepo.UserRepositoryFacade
}

// NewFamilyService creates a new family service. It is its own authorizer:
// every other service delegates family access checks here.
func NewFamilyService(familyRepo portsrepo.FamilyRepositoryFacade, userRepo portsrepo.UserRepositoryFacade) portssvc.FamilySvcFacade {
	svc := &familyService{
		familyRepo: familyRepo,
		userRepo:   userRepo,
	}
	svc.FamilyAuthorizer = svc
	return svc
}

var _ portssvc.FamilySvcFacade = (*familyService)(nil)

// AuthorizeUserAction checks that the user holds an active membership meeting
// requiredRole. Every failure mode returns the same Forbidden error so a
// caller cannot probe which families exist.
func (s *familyService) AuthorizeUserAction(ctx context.Context, userID, familyID string, requiredRole domain.FamilyRole) error {
	member, err := s.familyRepo.FindMembership(ctx, familyID, userID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to fetch membership for authorization",
				slog.String("user_id", userID), slog.String("family_id", familyID))
		}
		return apperrors.NewForbiddenError("user does not have the required permissions in this family")
	}
	if !member.IsActive || !member.Role.Meets(requiredRole) {
		return apperrors.NewForbiddenError("user does not have the required permissions in this family")
	}
	return nil
}

// ActiveFamilyIDs returns the ids of families where the user holds an active
// membership. Used for scoping cross-family list queries.
func (s *familyService) ActiveFamilyIDs(ctx context.Context, userID string) ([]string, error) {
	families, err := s.familyRepo.ListFamiliesByUserID(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list families for user", slog.String("user_id", userID))
		return nil, err
	}
	ids := make([]string, len(families))
	for i := range families {
		ids[i] = families[i].FamilyID
	}
	return ids, nil
}

// CreateFamily persists the family and the creator's admin membership in one
// transaction. A family without its bootstrap admin row is an invalid state.
func (s *familyService) CreateFamily(ctx context.Context, name, description, creatorUserID string) (*domain.Family, error) {
	now := time.Now()
	family := domain.Family{
		FamilyID:    uuid.NewString(),
		Name:        name,
		Description: description,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}
	owner := domain.FamilyMember{
		MemberID: uuid.NewString(),
		FamilyID: family.FamilyID,
		UserID:   creatorUserID,
		Role:     domain.RoleAdmin,
		IsActive: true,
		JoinedAt: now,
	}

	if err := s.familyRepo.CreateFamilyWithOwner(ctx, family, owner); err != nil {
		s.LogError(ctx, err, "Failed to create family", slog.String("user_id", creatorUserID))
		return nil, err
	}

	s.LogInfo(ctx, "Family created",
		slog.String("family_id", family.FamilyID),
		slog.String("user_id", creatorUserID))
	return &family, nil
}

func (s *familyService) GetFamily(ctx context.Context, requestingUserID, familyID string) (*domain.Family, int64, error) {
	member, err := s.familyRepo.FindMembership(ctx, familyID, requestingUserID)
	if err != nil || !member.IsActive {
		// Invisible families read as missing rather than forbidden.
		return nil, 0, apperrors.NewNotFoundError("family " + familyID + " not found")
	}

	family, err := s.familyRepo.FindFamilyByID(ctx, familyID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, 0, apperrors.NewNotFoundError("family " + familyID + " not found")
		}
		s.LogError(ctx, err, "Failed to fetch family", slog.String("family_id", familyID))
		return nil, 0, err
	}

	count, err := s.familyRepo.CountActiveMembers(ctx, familyID)
	if err != nil {
		s.LogError(ctx, err, "Failed to count family members", slog.String("family_id", familyID))
		return nil, 0, err
	}
	return family, count, nil
}

func (s *familyService) ListUserFamilies(ctx context.Context, userID string) ([]domain.Family, error) {
	families, err := s.familyRepo.ListFamiliesByUserID(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list families", slog.String("user_id", userID))
		return nil, err
	}
	return families, nil
}

func (s *familyService) ListFamilyMembers(ctx context.Context, requestingUserID, familyID string) ([]domain.FamilyMember, error) {
	if err := s.AuthorizeUserAction(ctx, requestingUserID, familyID, domain.RoleViewer); err != nil {
		return nil, err
	}
	members, err := s.familyRepo.ListMembers(ctx, familyID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list family members", slog.String("family_id", familyID))
		return nil, err
	}
	return members, nil
}

func (s *familyService) UpdateFamily(ctx context.Context, requestingUserID, familyID string, req dto.UpdateFamilyRequest) (*domain.Family, error) {
	if err := s.AuthorizeUserAction(ctx, requestingUserID, familyID, domain.RoleAdmin); err != nil {
		return nil, err
	}

	family, err := s.familyRepo.FindFamilyByID(ctx, familyID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("family " + familyID + " not found")
		}
		return nil, err
	}

	if req.Name != nil {
		family.Name = *req.Name
	}
	if req.Description != nil {
		family.Description = *req.Description
	}
	family.LastUpdatedAt = time.Now()
	family.LastUpdatedBy = requestingUserID

	if err := s.familyRepo.UpdateFamily(ctx, *family); err != nil {
		s.LogError(ctx, err, "Failed to update family", slog.String("family_id", familyID))
		return nil, err
	}
	return family, nil
}

func (s *familyService) DeleteFamily(ctx context.Context, requestingUserID, familyID string) error {
	if err := s.AuthorizeUserAction(ctx, requestingUserID, familyID, domain.RoleAdmin); err != nil {
		return err
	}
	if err := s.familyRepo.DeleteFamily(ctx, familyID); err != nil {
		s.LogError(ctx, err, "Failed to delete family", slog.String("family_id", familyID))
		return err
	}
	s.LogInfo(ctx, "Family deleted",
		slog.String("family_id", familyID),
		slog.String("user_id", requestingUserID))
	return nil
}

// InviteMember adds an existing user to the family by email. An inactive
// membership is reactivated in place so the (family, user) row stays unique.
func (s *familyService) InviteMember(ctx context.Context, requestingUserID, familyID, email string) (string, *domain.FamilyMember, error) {
	if err := s.AuthorizeUserAction(ctx, requestingUserID, familyID, domain.RoleAdmin); err != nil {
		return "", nil, err
	}

	target, err := s.userRepo.FindUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", nil, apperrors.NewNotFoundError("no user registered with email " + email)
		}
		s.LogError(ctx, err, "Failed to look up invitee", slog.String("family_id", familyID))
		return "", nil, err
	}

	existing, err := s.familyRepo.FindMembership(ctx, familyID, target.UserID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to check existing membership", slog.String("family_id", familyID))
		return "", nil, err
	}

	if existing != nil {
		if existing.IsActive {
			return "", nil, apperrors.NewConflictError("user is already a member of this family")
		}
		existing.IsActive = true
		if err := s.familyRepo.UpdateMembership(ctx, *existing); err != nil {
			s.LogError(ctx, err, "Failed to reactivate membership", slog.String("member_id", existing.MemberID))
			return "", nil, err
		}
		s.LogInfo(ctx, "Membership reactivated",
			slog.String("family_id", familyID),
			slog.String("user_id", target.UserID))
		return dto.InviteStatusReactivated, existing, nil
	}

	member := domain.FamilyMember{
		MemberID: uuid.NewString(),
		FamilyID: familyID,
		UserID:   target.UserID,
		UserName: target.Name,
		Role:     domain.RoleMember,
		IsActive: true,
		JoinedAt: time.Now(),
	}
	if err := s.familyRepo.SaveMembership(ctx, member); err != nil {
		s.LogError(ctx, err, "Failed to save membership", slog.String("family_id", familyID))
		return "", nil, err
	}
	s.LogInfo(ctx, "Member added",
		slog.String("family_id", familyID),
		slog.String("user_id", target.UserID))
	return dto.InviteStatusAdded, &member, nil
}

func (s *familyService) UpdateMemberRole(ctx context.Context, requestingUserID, familyID, targetUserID string, role domain.FamilyRole) (*domain.FamilyMember, error) {
	if !role.IsValid() {
		return nil, apperrors.NewValidationFailedError("unknown role " + string(role))
	}
	if err := s.AuthorizeUserAction(ctx, requestingUserID, familyID, domain.RoleAdmin); err != nil {
		return nil, err
	}

	member, err := s.familyRepo.FindMembership(ctx, familyID, targetUserID)
	if err != nil || !member.IsActive {
		return nil, apperrors.NewNotFoundError("membership not found in family " + familyID)
	}

	member.Role = role
	if err := s.familyRepo.UpdateMembership(ctx, *member); err != nil {
		s.LogError(ctx, err, "Failed to update member role", slog.String("member_id", member.MemberID))
		return nil, err
	}
	return member, nil
}

// RemoveMember deactivates the membership row. Keeping the row means a later
// invite reactivates it instead of violating the (family, user) uniqueness.
func (s *familyService) RemoveMember(ctx context.Context, requestingUserID, familyID, targetUserID string) error {
	if err := s.AuthorizeUserAction(ctx, requestingUserID, familyID, domain.RoleAdmin); err != nil {
		return err
	}

	member, err := s.familyRepo.FindMembership(ctx, familyID, targetUserID)
	if err != nil || !member.IsActive {
		return apperrors.NewNotFoundError("membership not found in family " + familyID)
	}

	member.IsActive = false
	if err := s.familyRepo.UpdateMembership(ctx, *member); err != nil {
		s.LogError(ctx, err, "Failed to deactivate membership", slog.String("member_id", member.MemberID))
		return err
	}
	s.LogInfo(ctx, "Member removed",
		slog.String("family_id", familyID),
		slog.String("user_id", targetUserID))
	return nil
}
