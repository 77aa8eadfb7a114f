package impl

import (
	"context"
	"log/slog"

	deliverycontext "senghor/internal/delivery/context"
	"senghor/internal/domain/entity"
	domainerrors "senghor/internal/domain/errors"
	"senghor/internal/domain/repository"
	"senghor/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// permissionAdminService implements the PermissionAdminUsecase interface.
type permissionAdminService struct {
	txManager repository.TransactionManager
	permRepo  repository.PermissionRepository
	roleRepo  repository.RoleRepository
	logger    *slog.Logger
}

// PermissionAdminServiceParams holds dependencies for permissionAdminService, injected by Fx.
type PermissionAdminServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	PermRepo  repository.PermissionRepository
	RoleRepo  repository.RoleRepository
	Logger    *slog.Logger
}

// NewPermissionAdminService is the constructor for permissionAdminService.
func NewPermissionAdminService(params PermissionAdminServiceParams) usecase.PermissionAdminUsecase {
	return &permissionAdminService{
		txManager: params.TxManager,
		permRepo:  params.PermRepo,
		roleRepo:  params.RoleRepo,
		logger:    params.Logger,
	}
}

func (srv *permissionAdminService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// ListPermissions returns a page of permissions matching the filter.
func (srv *permissionAdminService) ListPermissions(ctx context.Context, input usecase.ListPermissionsInput) (*usecase.ListPermissionsOutput, error) {
	permissions, total, err := srv.permRepo.List(ctx, repository.PermissionFilter{
		Search:   input.Search,
		Category: input.Category,
		Page:     input.Page,
		Size:     input.Size,
	})
	if err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list permissions")
	}

	return &usecase.ListPermissionsOutput{
		Permissions: permissions,
		Total:       total,
		Page:        input.Page,
		Size:        input.Size,
	}, nil
}

// GetPermission returns a single permission.
func (srv *permissionAdminService) GetPermission(ctx context.Context, id uuid.UUID) (*entity.Permission, error) {
	permission, err := srv.permRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrPermissionNotFound) {
			return nil, domainerrors.ErrPermissionNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to load permission")
	}

	return permission, nil
}

// CreatePermission creates a permission.
func (srv *permissionAdminService) CreatePermission(ctx context.Context, input usecase.CreatePermissionInput) (*entity.Permission, error) {
	permission := &entity.Permission{
		Code:        input.Code,
		Name:        input.Name,
		Description: input.Description,
		Category:    input.Category,
	}

	if err := srv.permRepo.Create(ctx, permission); err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Permission created",
		slog.Any("permissionID", permission.ID), slog.String("code", permission.Code))

	return permission, nil
}

// UpdatePermission applies a partial update and returns the refreshed permission.
func (srv *permissionAdminService) UpdatePermission(ctx context.Context, id uuid.UUID, input usecase.UpdatePermissionInput) (*entity.Permission, error) {
	patch := &repository.PermissionPatch{
		Code:        input.Code,
		Name:        input.Name,
		Description: input.Description,
		Category:    input.Category,
	}

	if err := srv.permRepo.Update(ctx, id, patch); err != nil {
		if errors.Is(err, repository.ErrPermissionNotFound) {
			return nil, domainerrors.ErrPermissionNotFound
		}

		return nil, err
	}

	return srv.GetPermission(ctx, id)
}

// ListPermissionRoles returns the roles currently granting the permission.
func (srv *permissionAdminService) ListPermissionRoles(ctx context.Context, id uuid.UUID) ([]*entity.Role, error) {
	if _, err := srv.GetPermission(ctx, id); err != nil {
		return nil, err
	}

	roles, err := srv.permRepo.FindRoles(ctx, id)
	if err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list permission roles")
	}

	return roles, nil
}

// GetMatrix returns all permissions crossed with all roles.
func (srv *permissionAdminService) GetMatrix(ctx context.Context) (*usecase.MatrixOutput, error) {
	permissions, err := srv.permRepo.ListAll(ctx)
	if err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to load permissions for matrix")
	}

	// All roles, inactive included: the matrix is an administrative view.
	roles, _, err := srv.roleRepo.List(ctx, repository.RoleFilter{Size: maxMatrixRoles})
	if err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to load roles for matrix")
	}

	rows := make([]usecase.MatrixRow, 0, len(roles))
	for _, role := range roles {
		ids := make([]uuid.UUID, 0, len(role.Permissions))
		for _, perm := range role.Permissions {
			ids = append(ids, perm.ID)
		}
		rows = append(rows, usecase.MatrixRow{
			Role:          role,
			PermissionIDs: ids,
		})
	}

	return &usecase.MatrixOutput{
		Permissions: permissions,
		Rows:        rows,
	}, nil
}

// maxMatrixRoles caps the matrix view; role counts live in the dozens.
const maxMatrixRoles = 100

// UpdateMatrix applies a batch of grant/revoke toggles inside one
// transaction, then returns the refreshed matrix.
func (srv *permissionAdminService) UpdateMatrix(ctx context.Context, entries []usecase.MatrixEntry) (*usecase.MatrixOutput, error) {
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		permRepo := repoFactory.PermissionRepo()

		for _, entry := range entries {
			var err error
			if entry.Granted {
				err = permRepo.Grant(ctx, entry.RoleID, entry.PermissionID)
			} else {
				err = permRepo.Revoke(ctx, entry.RoleID, entry.PermissionID)
			}
			if err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrPermissionNotFound) {
			return nil, domainerrors.ErrPermissionNotFound
		}

		return nil, err
	}

	srv.log(ctx).Info("Permission matrix updated", slog.Int("entries", len(entries)))

	return srv.GetMatrix(ctx)
}
