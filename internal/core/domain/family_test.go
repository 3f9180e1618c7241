package domain_test

import (
	"testing"

	"github.com/fambudget/family_budget_app/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestFamilyRole_Meets(t *testing.T) {
	tests := []struct {
		name     string
		role     domain.FamilyRole
		required domain.FamilyRole
		want     bool
	}{
		{name: "admin meets admin", role: domain.RoleAdmin, required: domain.RoleAdmin, want: true},
		{name: "admin meets viewer", role: domain.RoleAdmin, required: domain.RoleViewer, want: true},
		{name: "member meets viewer", role: domain.RoleMember, required: domain.RoleViewer, want: true},
		{name: "member does not meet admin", role: domain.RoleMember, required: domain.RoleAdmin, want: false},
		{name: "viewer does not meet member", role: domain.RoleViewer, required: domain.RoleMember, want: false},
		{name: "viewer meets viewer", role: domain.RoleViewer, required: domain.RoleViewer, want: true},
		{name: "unknown role meets nothing", role: domain.FamilyRole("owner"), required: domain.RoleViewer, want: false},
		{name: "unknown requirement never met", role: domain.RoleAdmin, required: domain.FamilyRole("owner"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.role.Meets(tt.required))
		})
	}
}

func TestFamilyRole_IsValid(t *testing.T) {
	assert.True(t, domain.RoleAdmin.IsValid())
	assert.True(t, domain.RoleMember.IsValid())
	assert.True(t, domain.RoleViewer.IsValid())
	assert.False(t, domain.FamilyRole("owner").IsValid())
	assert.False(t, domain.FamilyRole("").IsValid())
}
