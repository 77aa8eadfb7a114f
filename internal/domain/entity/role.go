// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// SuperAdminCode is the sentinel role code that bypasses explicit
// permission checks entirely.
const SuperAdminCode = "super_admin"

// Role is a named bundle of permissions assignable to users.
// HierarchyLevel orders roles by seniority; higher means more senior.
type Role struct {
	ID             uuid.UUID    // The unique identifier for the role.
	Code           string       // Unique machine-readable code, e.g. "campus_manager".
	Name           string       // Human-readable display name.
	Description    string       // Optional free-form description.
	HierarchyLevel int          // Seniority of the role; higher values outrank lower ones.
	Active         bool         // Inactive roles are hidden from administrative listings.
	Permissions    []Permission // Permissions granted by this role.
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsSuperAdmin reports whether this role is the sentinel super admin role.
func (r *Role) IsSuperAdmin() bool {
	return r.Code == SuperAdminCode
}

// HasPermission reports whether the role explicitly grants the given code.
// The super admin bypass is applied on the user aggregate, not here.
func (r *Role) HasPermission(code string) bool {
	for _, perm := range r.Permissions {
		if perm.Code == code {
			return true
		}
	}

	return false
}

// Permission is an atomic capability identified by an opaque dotted code
// such as "users.view". Codes are flat strings; no hierarchy or wildcard
// matching exists.
type Permission struct {
	ID          uuid.UUID // The unique identifier for the permission.
	Code        string    // Unique opaque code, e.g. "users.view".
	Name        string    // Human-readable display name.
	Description string    // Optional free-form description.
	Category    string    // Optional grouping tag used by the admin UI.
	CreatedAt   time.Time
}
