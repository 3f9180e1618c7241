package services

import (
	"context"

	"github.com/fambudget/family_budget_app/internal/core/domain"
	"github.com/fambudget/family_budget_app/internal/dto"
)

// FamilyReaderSvc defines read operations for family data
type FamilyReaderSvc interface {
	// GetFamily retrieves a family visible to the requesting user, with its
	// active member count. Non-members get NotFound.
	GetFamily(ctx context.Context, requestingUserID, familyID string) (*domain.Family, int64, error)

	// ListUserFamilies retrieves families where the user holds an active membership.
	ListUserFamilies(ctx context.Context, userID string) ([]domain.Family, error)

	// ListFamilyMembers retrieves the memberships of a family. Any active
	// member may read the list.
	ListFamilyMembers(ctx context.Context, requestingUserID, familyID string) ([]domain.FamilyMember, error)
}

// FamilyWriterSvc defines write operations for family data
type FamilyWriterSvc interface {
	// CreateFamily persists a family and, atomically, the creator's admin
	// membership.
	CreateFamily(ctx context.Context, name, description, creatorUserID string) (*domain.Family, error)

	// UpdateFamily renames a family. Admin only.
	UpdateFamily(ctx context.Context, requestingUserID, familyID string, req dto.UpdateFamilyRequest) (*domain.Family, error)

	// DeleteFamily removes a family and everything it owns. Admin only.
	DeleteFamily(ctx context.Context, requestingUserID, familyID string) error
}

// FamilyMembershipSvc defines operations for managing family membership
type FamilyMembershipSvc interface {
	// InviteMember adds an existing user (looked up by email) to the family as
	// a member, reactivating a previously deactivated membership in place.
	// The returned status is dto.InviteStatusAdded or dto.InviteStatusReactivated.
	InviteMember(ctx context.Context, requestingUserID, familyID, email string) (string, *domain.FamilyMember, error)

	// UpdateMemberRole changes a member's role. Admin only.
	UpdateMemberRole(ctx context.Context, requestingUserID, familyID, targetUserID string, role domain.FamilyRole) (*domain.FamilyMember, error)

	// RemoveMember deactivates a membership. Admin only. The row is kept so a
	// later invite reactivates it instead of inserting a duplicate.
	RemoveMember(ctx context.Context, requestingUserID, familyID, targetUserID string) error
}

// FamilyAuthorizerSvc is the single authority deciding whether a user may act
// on a family-scoped resource.
type FamilyAuthorizerSvc interface {
	// AuthorizeUserAction checks that the user holds an active membership in
	// the family meeting requiredRole. Every failure mode (family missing,
	// membership missing or inactive, insufficient role) comes back as the
	// same Forbidden error.
	AuthorizeUserAction(ctx context.Context, userID, familyID string, requiredRole domain.FamilyRole) error

	// ActiveFamilyIDs returns the ids of families where the user holds an
	// active membership, for scoping list queries.
	ActiveFamilyIDs(ctx context.Context, userID string) ([]string, error)
}

// FamilySvcFacade combines all family-related service interfaces.
type FamilySvcFacade interface {
	FamilyReaderSvc
	FamilyWriterSvc
	FamilyMembershipSvc
	FamilyAuthorizerSvc
}
