package repository

import (
	"context"
	"errors"

	"senghor/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrPermissionNotFound is a domain-specific error returned when a permission is not found.
var ErrPermissionNotFound = errors.New("permission not found")

// PermissionFilter narrows and paginates permission listings.
type PermissionFilter struct {
	Search   string // Matches code or name.
	Category string // Exact category match when non-empty.
	Page     int
	Size     int
}

// PermissionPatch carries a partial permission update; only non-nil fields are written.
type PermissionPatch struct {
	Code        *string
	Name        *string
	Description *string
	Category    *string
}

// PermissionRepository defines the standard operations for permission persistence.
type PermissionRepository interface {
	// FindByID retrieves a single permission.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Permission, error)

	// List returns a page of permissions matching the filter plus the total count.
	List(ctx context.Context, filter PermissionFilter) ([]*entity.Permission, int64, error)

	// ListAll returns every permission, for matrix construction.
	ListAll(ctx context.Context) ([]*entity.Permission, error)

	// Create persists a new permission.
	Create(ctx context.Context, permission *entity.Permission) error

	// Update applies the non-nil fields of the patch.
	Update(ctx context.Context, id uuid.UUID, patch *PermissionPatch) error

	// FindRoles returns the roles currently granting the permission.
	FindRoles(ctx context.Context, permissionID uuid.UUID) ([]*entity.Role, error)

	// Grant adds the permission to a role; granting twice is a no-op.
	Grant(ctx context.Context, roleID, permissionID uuid.UUID) error

	// Revoke removes the permission from a role; revoking an absent link is a no-op.
	Revoke(ctx context.Context, roleID, permissionID uuid.UUID) error
}
