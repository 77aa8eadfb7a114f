package entity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func permission(code string) Permission {
	return Permission{ID: uuid.New(), Code: code, Name: code}
}

func TestUser_HasPermission(t *testing.T) {
	user := &User{
		Roles: []Role{
			{
				Code:           "editor",
				HierarchyLevel: 10,
				Permissions:    []Permission{permission("news.view"), permission("news.edit")},
			},
			{
				Code:           "viewer",
				HierarchyLevel: 1,
				Permissions:    []Permission{permission("users.view")},
			},
		},
	}

	assert.True(t, user.HasPermission("news.edit"))
	assert.True(t, user.HasPermission("users.view"))
	assert.False(t, user.HasPermission("users.delete"))
	assert.False(t, user.HasPermission("news"))
}

func TestUser_HasPermission_SuperAdminBypassesExplicitSet(t *testing.T) {
	// The super admin role grants everything even with an empty permission set.
	user := &User{
		Roles: []Role{
			{Code: SuperAdminCode, Permissions: nil},
		},
	}

	assert.True(t, user.HasPermission("users.delete"))
	assert.True(t, user.HasPermission("anything.at.all"))
}

func TestUser_HasPermission_InactiveRoleStillGrants(t *testing.T) {
	// Role.Active is deliberately not consulted by the permission model.
	user := &User{
		Roles: []Role{
			{Code: "editor", Active: false, Permissions: []Permission{permission("news.edit")}},
		},
	}

	assert.True(t, user.HasPermission("news.edit"))
}

func TestUser_HasPermission_NoRoles(t *testing.T) {
	user := &User{}

	assert.False(t, user.HasPermission("users.view"))
}

func TestUser_HasRole(t *testing.T) {
	user := &User{
		Roles: []Role{{Code: "editor"}, {Code: "viewer"}},
	}

	assert.True(t, user.HasRole("editor"))
	assert.False(t, user.HasRole(SuperAdminCode))
}

func TestUser_HighestRoleLevel(t *testing.T) {
	tests := []struct {
		name  string
		roles []Role
		want  int
	}{
		{name: "no roles", roles: nil, want: 0},
		{name: "single role", roles: []Role{{HierarchyLevel: 5}}, want: 5},
		{name: "takes the maximum", roles: []Role{{HierarchyLevel: 5}, {HierarchyLevel: 80}, {HierarchyLevel: 20}}, want: 80},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := &User{Roles: tt.roles}
			assert.Equal(t, tt.want, user.HighestRoleLevel())
		})
	}
}

func TestUser_PermissionCodes_Deduplicates(t *testing.T) {
	shared := permission("users.view")
	user := &User{
		Roles: []Role{
			{Code: "a", Permissions: []Permission{shared, permission("users.edit")}},
			{Code: "b", Permissions: []Permission{shared}},
		},
	}

	codes := user.PermissionCodes()
	assert.ElementsMatch(t, []string{"users.view", "users.edit"}, codes)
}

func TestUser_FullNameAndPassword(t *testing.T) {
	user := &User{FirstName: "Awa", LastName: "Diop"}

	assert.Equal(t, "Awa Diop", user.FullName())
	assert.False(t, user.HasPassword())

	user.PasswordHash = "$2a$10$abcdefghijklmnopqrstuv"
	assert.True(t, user.HasPassword())
}
