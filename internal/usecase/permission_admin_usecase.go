package usecase

import (
	"context"

	"senghor/internal/domain/entity"

	"github.com/google/uuid"
)

// ListPermissionsInput narrows and paginates the permission listing.
type ListPermissionsInput struct {
	Search   string
	Category string
	Page     int
	Size     int
}

// ListPermissionsOutput is one page of permissions plus the total match count.
type ListPermissionsOutput struct {
	Permissions []*entity.Permission
	Total       int64
	Page        int
	Size        int
}

// CreatePermissionInput defines the data required to create a permission.
type CreatePermissionInput struct {
	Code        string
	Name        string
	Description string
	Category    string
}

// UpdatePermissionInput carries a partial permission update; nil fields are
// left untouched.
type UpdatePermissionInput struct {
	Code        *string
	Name        *string
	Description *string
	Category    *string
}

// MatrixRow is one role's granted permission set within the matrix.
type MatrixRow struct {
	Role          *entity.Role
	PermissionIDs []uuid.UUID
}

// MatrixOutput is the full role/permission grid used by the admin UI.
type MatrixOutput struct {
	Permissions []*entity.Permission
	Rows        []MatrixRow
}

// MatrixEntry toggles one role/permission cell.
type MatrixEntry struct {
	RoleID       uuid.UUID
	PermissionID uuid.UUID
	Granted      bool
}

// PermissionAdminUsecase defines the administrative operations on permissions
// and the role/permission matrix.
type PermissionAdminUsecase interface {
	// ListPermissions returns a page of permissions matching the filter.
	ListPermissions(ctx context.Context, input ListPermissionsInput) (*ListPermissionsOutput, error)

	// GetPermission returns a single permission.
	GetPermission(ctx context.Context, id uuid.UUID) (*entity.Permission, error)

	// CreatePermission creates a permission.
	CreatePermission(ctx context.Context, input CreatePermissionInput) (*entity.Permission, error)

	// UpdatePermission applies a partial update and returns the refreshed permission.
	UpdatePermission(ctx context.Context, id uuid.UUID, input UpdatePermissionInput) (*entity.Permission, error)

	// ListPermissionRoles returns the roles currently granting the permission.
	ListPermissionRoles(ctx context.Context, id uuid.UUID) ([]*entity.Role, error)

	// GetMatrix returns all permissions crossed with all roles.
	GetMatrix(ctx context.Context) (*MatrixOutput, error)

	// UpdateMatrix applies a batch of grant/revoke toggles atomically.
	UpdateMatrix(ctx context.Context, entries []MatrixEntry) (*MatrixOutput, error)
}
