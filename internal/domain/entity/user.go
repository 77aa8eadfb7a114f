// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the central identity record of the administration backend.
// The aggregate is always loaded with its roles and each role's permissions
// so that the permission model below never has to touch the database.
type User struct {
	ID            uuid.UUID  // The unique identifier for the user.
	Email         string     // Unique login identifier.
	PasswordHash  string     // bcrypt digest; empty means the account is not configured for password login.
	LastName      string     // Family name.
	FirstName     string     // Given name.
	Phone         string     // Optional contact phone number.
	City          string     // Optional city of residence.
	Active        bool       // Inactive accounts are rejected at authentication time.
	EmailVerified bool       // Set by an administrator once the account is vetted.
	LastLoginAt   *time.Time // Timestamp of the last successful login, nil until the first one.
	Roles         []Role     // Roles held by the user, with permissions materialized.
	CreatedAt     time.Time  // Timestamp of when this account was created.
	UpdatedAt     time.Time  // Timestamp of the last modification to this account.
}

// FullName returns the user's display name.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// HasPassword reports whether the account is configured for password login.
func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}

// HasPermission reports whether the user holds the given permission code
// through any of their roles. A role with the super admin code grants every
// permission regardless of its explicit permission set.
//
// Role.Active is intentionally not consulted here; the source system only
// filters inactive roles in administrative listings.
func (u *User) HasPermission(code string) bool {
	for _, role := range u.Roles {
		if role.Code == SuperAdminCode {
			return true
		}
		for _, perm := range role.Permissions {
			if perm.Code == code {
				return true
			}
		}
	}

	return false
}

// HasRole reports whether the user holds a role with the given code.
func (u *User) HasRole(code string) bool {
	for _, role := range u.Roles {
		if role.Code == code {
			return true
		}
	}

	return false
}

// HighestRoleLevel returns the maximum hierarchy level among the user's
// roles, or 0 when the user holds none.
func (u *User) HighestRoleLevel() int {
	level := 0
	for _, role := range u.Roles {
		if role.HierarchyLevel > level {
			level = role.HierarchyLevel
		}
	}

	return level
}

// PermissionCodes flattens the effective permission set into an unordered,
// de-duplicated list of codes. Super admins report the codes they hold
// explicitly; the bypass itself lives in HasPermission.
func (u *User) PermissionCodes() []string {
	seen := make(map[string]struct{})
	codes := make([]string, 0)
	for _, role := range u.Roles {
		for _, perm := range role.Permissions {
			if _, ok := seen[perm.Code]; ok {
				continue
			}
			seen[perm.Code] = struct{}{}
			codes = append(codes, perm.Code)
		}
	}

	return codes
}
