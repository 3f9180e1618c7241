package repositories

import (
	"context"

	"github.com/fambudget/family_budget_app/internal/core/domain"
)

// FamilyReader defines read operations for family data
type FamilyReader interface {
	// FindFamilyByID retrieves a family by its ID regardless of caller visibility.
	FindFamilyByID(ctx context.Context, familyID string) (*domain.Family, error)

	// ListFamiliesByUserID retrieves families where the user has an active membership.
	ListFamiliesByUserID(ctx context.Context, userID string) ([]domain.Family, error)

	// CountActiveMembers returns the number of active memberships of a family.
	CountActiveMembers(ctx context.Context, familyID string) (int64, error)
}

// FamilyWriter defines write operations for family data
type FamilyWriter interface {
	// CreateFamilyWithOwner atomically persists a family together with the
	// creator's admin membership. Neither row persists if either insert fails.
	CreateFamilyWithOwner(ctx context.Context, family domain.Family, owner domain.FamilyMember) error

	// UpdateFamily updates a family's name and description.
	UpdateFamily(ctx context.Context, family domain.Family) error

	// DeleteFamily removes a family; owned records cascade at the store level.
	DeleteFamily(ctx context.Context, familyID string) error
}

// MembershipReader defines read operations for family memberships
type MembershipReader interface {
	// FindMembership retrieves the single membership row for (family, user),
	// active or not.
	FindMembership(ctx context.Context, familyID, userID string) (*domain.FamilyMember, error)

	// ListMembers retrieves the memberships of a family, joined with user names.
	ListMembers(ctx context.Context, familyID string) ([]domain.FamilyMember, error)
}

// MembershipWriter defines write operations for family memberships
type MembershipWriter interface {
	// SaveMembership inserts a new membership row. A racing duplicate insert
	// for the same (family, user) yields a Conflict error.
	SaveMembership(ctx context.Context, member domain.FamilyMember) error

	// UpdateMembership updates the role and active flag of an existing row.
	UpdateMembership(ctx context.Context, member domain.FamilyMember) error
}

// FamilyRepositoryFacade combines all family-related repository interfaces.
type FamilyRepositoryFacade interface {
	FamilyReader
	FamilyWriter
	MembershipReader
	MembershipWriter
}
