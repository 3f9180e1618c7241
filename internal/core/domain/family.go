package domain

import "time"

// Family is the tenant scope: members share its categories, budgets and
// expenses. Deleting a family cascades to everything it owns.
type Family struct {
	FamilyID    string `json:"familyID"` // Primary key (UUID)
	Name        string `json:"name"`
	Description string `json:"description"`
	AuditFields
}

// FamilyRole defines the possible roles a user can have within a family.
// Role gates family management only; ledger records accept writes from any
// active member regardless of role.
type FamilyRole string

const (
	RoleAdmin  FamilyRole = "admin"
	RoleMember FamilyRole = "member"
	RoleViewer FamilyRole = "viewer"
)

// roleRank orders roles for authorization checks.
var roleRank = map[FamilyRole]int{
	RoleViewer: 1,
	RoleMember: 2,
	RoleAdmin:  3,
}

// Meets reports whether the role satisfies the required role.
func (r FamilyRole) Meets(required FamilyRole) bool {
	have, ok := roleRank[r]
	if !ok {
		return false
	}
	want, ok := roleRank[required]
	if !ok {
		return false
	}
	return have >= want
}

// IsValid reports whether the role is one of the known values.
func (r FamilyRole) IsValid() bool {
	_, ok := roleRank[r]
	return ok
}

// FamilyMember is the membership of a User in a Family. At most one row
// exists per (family, user) pair; leaving and rejoining toggles IsActive
// rather than inserting a second row.
type FamilyMember struct {
	MemberID string     `json:"memberID"` // Primary key (UUID)
	FamilyID string     `json:"familyID"`
	UserID   string     `json:"userID"`
	UserName string     `json:"userName,omitempty"` // Joined from users for listings
	Role     FamilyRole `json:"role"`
	IsActive bool       `json:"isActive"`
	JoinedAt time.Time  `json:"joinedAt"`
}
