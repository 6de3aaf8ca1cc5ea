package gatekeeper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleAuthorities(t *testing.T) {
	tests := []struct {
		role Role
		want []string
	}{
		{RoleUser, []string{AuthorityUserRead}},
		{RoleHR, []string{AuthorityUserRead, AuthorityUserUpdate}},
		{RoleManager, []string{AuthorityUserRead, AuthorityUserUpdate}},
		{RoleAdmin, []string{AuthorityUserRead, AuthorityUserCreate, AuthorityUserUpdate}},
		{RoleSuperAdmin, []string{AuthorityUserRead, AuthorityUserCreate, AuthorityUserUpdate, AuthorityUserDelete}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.role.Authorities(), "role %s", tt.role)
	}
}

func TestRoleAuthoritiesReturnsCopy(t *testing.T) {
	tags := RoleUser.Authorities()
	tags[0] = "mutated"
	assert.Equal(t, []string{AuthorityUserRead}, RoleUser.Authorities())
}

func TestUnknownRoleGrantsNothing(t *testing.T) {
	role := Role("ROLE_INTRUDER")
	assert.False(t, role.IsValid())
	assert.Nil(t, role.Authorities())
	assert.False(t, role.HasAuthority(AuthorityUserRead))
}

func TestRoleHasAuthority(t *testing.T) {
	assert.True(t, RoleAdmin.HasAuthority(AuthorityUserCreate))
	assert.False(t, RoleAdmin.HasAuthority(AuthorityUserDelete))
	assert.True(t, RoleSuperAdmin.HasAuthority(AuthorityUserDelete))
}

func TestParseRole(t *testing.T) {
	role, ok := ParseRole("ROLE_MANAGER")
	assert.True(t, ok)
	assert.Equal(t, RoleManager, role)

	_, ok = ParseRole("manager")
	assert.False(t, ok)
}

func TestGetAllRoles(t *testing.T) {
	roles := GetAllRoles()
	assert.Len(t, roles, 5)
	for _, role := range roles {
		assert.True(t, role.IsValid())
	}
}
