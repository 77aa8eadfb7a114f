package repository

import (
	"context"
	"errors"

	"senghor/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrRoleNotFound is a domain-specific error returned when a role is not found.
var ErrRoleNotFound = errors.New("role not found")

// RoleFilter narrows and paginates role listings.
type RoleFilter struct {
	Search string // Matches code or name.
	Active *bool
	Page   int
	Size   int
}

// RolePatch carries a partial role update; only non-nil fields are written.
type RolePatch struct {
	Code           *string
	Name           *string
	Description    *string
	HierarchyLevel *int
	Active         *bool
}

// RoleRepository defines the standard operations for role persistence.
type RoleRepository interface {
	// FindByID retrieves a role with its permissions loaded.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Role, error)

	// FindByCode retrieves a role by its unique code with permissions loaded.
	FindByCode(ctx context.Context, code string) (*entity.Role, error)

	// List returns a page of roles matching the filter plus the total count.
	List(ctx context.Context, filter RoleFilter) ([]*entity.Role, int64, error)

	// Create persists a new role, including any permission associations.
	Create(ctx context.Context, role *entity.Role) error

	// Update applies the non-nil fields of the patch.
	Update(ctx context.Context, id uuid.UUID, patch *RolePatch) error

	// Delete removes the role; user and permission associations cascade.
	Delete(ctx context.Context, id uuid.UUID) error

	// SetPermissions replaces the role's permission set.
	SetPermissions(ctx context.Context, roleID uuid.UUID, permissionIDs []uuid.UUID) error

	// FindUsers returns the users holding the role.
	FindUsers(ctx context.Context, roleID uuid.UUID) ([]*entity.User, error)
}
