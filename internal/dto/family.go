package dto

import (
	"time"

	"github.com/fambudget/family_budget_app/internal/core/domain"
)

// --- Family DTOs ---

// CreateFamilyRequest defines data for creating a new family.
type CreateFamilyRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description"`
}

// UpdateFamilyRequest defines data for renaming a family.
type UpdateFamilyRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=100"`
	Description *string `json:"description"`
}

// FamilyResponse defines data returned for a family.
type FamilyResponse struct {
	FamilyID    string    `json:"familyID"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedBy   string    `json:"createdBy"` // UserID
	MemberCount int64     `json:"memberCount"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ToFamilyResponse converts domain.Family to DTO.
func ToFamilyResponse(f *domain.Family, memberCount int64) FamilyResponse {
	return FamilyResponse{
		FamilyID:    f.FamilyID,
		Name:        f.Name,
		Description: f.Description,
		CreatedBy:   f.CreatedBy,
		MemberCount: memberCount,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.LastUpdatedAt,
	}
}

// ListFamiliesResponse wraps a list of families.
type ListFamiliesResponse struct {
	Families []FamilyResponse `json:"families"`
}

// --- Membership DTOs ---

// InviteMemberRequest invites an existing user into a family by email.
type InviteMemberRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// Invite outcome values. Reactivation of a previously deactivated membership
// is reported distinctly from a fresh add.
const (
	InviteStatusAdded       = "added"
	InviteStatusReactivated = "reactivated"
)

// FamilyMemberResponse defines data returned about a membership.
type FamilyMemberResponse struct {
	MemberID string            `json:"memberID"`
	FamilyID string            `json:"familyID"`
	UserID   string            `json:"userID"`
	UserName string            `json:"userName,omitempty"`
	Role     domain.FamilyRole `json:"role"`
	IsActive bool              `json:"isActive"`
	JoinedAt time.Time         `json:"joinedAt"`
}

// ToFamilyMemberResponse converts domain.FamilyMember to DTO.
func ToFamilyMemberResponse(m *domain.FamilyMember) FamilyMemberResponse {
	return FamilyMemberResponse{
		MemberID: m.MemberID,
		FamilyID: m.FamilyID,
		UserID:   m.UserID,
		UserName: m.UserName,
		Role:     m.Role,
		IsActive: m.IsActive,
		JoinedAt: m.JoinedAt,
	}
}

// InviteMemberResponse reports the invite outcome and resulting membership.
type InviteMemberResponse struct {
	Status string               `json:"status"` // added | reactivated
	Member FamilyMemberResponse `json:"member"`
}

// ListFamilyMembersResponse wraps the member list of a family.
type ListFamilyMembersResponse struct {
	Members []FamilyMemberResponse `json:"members"`
}

// UpdateMemberRoleRequest changes a member's role within a family.
type UpdateMemberRoleRequest struct {
	Role domain.FamilyRole `json:"role" binding:"required,oneof=admin member viewer"`
}
