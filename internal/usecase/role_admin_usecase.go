package usecase

import (
	"context"

	"senghor/internal/domain/entity"

	"github.com/google/uuid"
)

// ListRolesInput narrows and paginates the administrative role listing.
type ListRolesInput struct {
	Search string
	Active *bool
	Page   int
	Size   int
}

// ListRolesOutput is one page of roles plus the total match count.
type ListRolesOutput struct {
	Roles []*entity.Role
	Total int64
	Page  int
	Size  int
}

// CreateRoleInput defines the data required to create a role.
type CreateRoleInput struct {
	Code           string
	Name           string
	Description    string
	HierarchyLevel int
	Active         *bool
	PermissionIDs  []uuid.UUID
}

// UpdateRoleInput carries a partial role update; nil fields are left untouched.
type UpdateRoleInput struct {
	Code           *string
	Name           *string
	Description    *string
	HierarchyLevel *int
	Active         *bool
}

// DuplicateRoleInput names the new role created as a copy.
type DuplicateRoleInput struct {
	Code string
	Name string
}

// RoleAdminUsecase defines the administrative operations on roles.
type RoleAdminUsecase interface {
	// ListRoles returns a page of roles matching the filter.
	ListRoles(ctx context.Context, input ListRolesInput) (*ListRolesOutput, error)

	// GetRole returns a single role with its permissions loaded.
	GetRole(ctx context.Context, id uuid.UUID) (*entity.Role, error)

	// CreateRole creates a role and its initial permission set.
	CreateRole(ctx context.Context, input CreateRoleInput) (*entity.Role, error)

	// UpdateRole applies a partial update and returns the refreshed role.
	UpdateRole(ctx context.Context, id uuid.UUID, input UpdateRoleInput) (*entity.Role, error)

	// DeleteRole removes the role; holders simply lose it.
	DeleteRole(ctx context.Context, id uuid.UUID) error

	// ToggleActive flips the role's active flag and returns the refreshed role.
	ToggleActive(ctx context.Context, id uuid.UUID) (*entity.Role, error)

	// SetPermissions replaces the role's permission set and returns the
	// refreshed role.
	SetPermissions(ctx context.Context, roleID uuid.UUID, permissionIDs []uuid.UUID) (*entity.Role, error)

	// DuplicateRole copies a role and its permission set under a new code
	// and name; the copy starts active.
	DuplicateRole(ctx context.Context, sourceID uuid.UUID, input DuplicateRoleInput) (*entity.Role, error)

	// CompareRoles loads the requested roles with their permissions for a
	// side-by-side comparison; unknown IDs are silently skipped.
	CompareRoles(ctx context.Context, ids []uuid.UUID) ([]*entity.Role, error)

	// ListRoleUsers returns the users currently holding the role.
	ListRoleUsers(ctx context.Context, roleID uuid.UUID) ([]*entity.User, error)
}
