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

// roleAdminService implements the RoleAdminUsecase interface.
type roleAdminService struct {
	txManager repository.TransactionManager
	roleRepo  repository.RoleRepository
	logger    *slog.Logger
}

// RoleAdminServiceParams holds dependencies for roleAdminService, injected by Fx.
type RoleAdminServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	RoleRepo  repository.RoleRepository
	Logger    *slog.Logger
}

// NewRoleAdminService is the constructor for roleAdminService.
func NewRoleAdminService(params RoleAdminServiceParams) usecase.RoleAdminUsecase {
	return &roleAdminService{
		txManager: params.TxManager,
		roleRepo:  params.RoleRepo,
		logger:    params.Logger,
	}
}

func (srv *roleAdminService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// ListRoles returns a page of roles matching the filter.
func (srv *roleAdminService) ListRoles(ctx context.Context, input usecase.ListRolesInput) (*usecase.ListRolesOutput, error) {
	roles, total, err := srv.roleRepo.List(ctx, repository.RoleFilter{
		Search: input.Search,
		Active: input.Active,
		Page:   input.Page,
		Size:   input.Size,
	})
	if err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list roles")
	}

	return &usecase.ListRolesOutput{
		Roles: roles,
		Total: total,
		Page:  input.Page,
		Size:  input.Size,
	}, nil
}

// GetRole returns a single role with its permissions loaded.
func (srv *roleAdminService) GetRole(ctx context.Context, id uuid.UUID) (*entity.Role, error) {
	role, err := srv.roleRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRoleNotFound) {
			return nil, domainerrors.ErrRoleNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to load role")
	}

	return role, nil
}

// CreateRole creates a role and its initial permission set atomically.
func (srv *roleAdminService) CreateRole(ctx context.Context, input usecase.CreateRoleInput) (*entity.Role, error) {
	active := true
	if input.Active != nil {
		active = *input.Active
	}

	role := &entity.Role{
		Code:           input.Code,
		Name:           input.Name,
		Description:    input.Description,
		HierarchyLevel: input.HierarchyLevel,
		Active:         active,
	}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		roleRepo := repoFactory.RoleRepo()

		if err := roleRepo.Create(ctx, role); err != nil {
			return err
		}

		if len(input.PermissionIDs) > 0 {
			if err := roleRepo.SetPermissions(ctx, role.ID, input.PermissionIDs); err != nil {
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

	srv.log(ctx).Info("Role created", slog.Any("roleID", role.ID), slog.String("code", role.Code))

	return srv.GetRole(ctx, role.ID)
}

// UpdateRole applies a partial update and returns the refreshed role.
func (srv *roleAdminService) UpdateRole(ctx context.Context, id uuid.UUID, input usecase.UpdateRoleInput) (*entity.Role, error) {
	patch := &repository.RolePatch{
		Code:           input.Code,
		Name:           input.Name,
		Description:    input.Description,
		HierarchyLevel: input.HierarchyLevel,
		Active:         input.Active,
	}

	if err := srv.roleRepo.Update(ctx, id, patch); err != nil {
		if errors.Is(err, repository.ErrRoleNotFound) {
			return nil, domainerrors.ErrRoleNotFound
		}

		return nil, err
	}

	return srv.GetRole(ctx, id)
}

// DeleteRole removes the role; holders simply lose it.
func (srv *roleAdminService) DeleteRole(ctx context.Context, id uuid.UUID) error {
	if err := srv.roleRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrRoleNotFound) {
			return domainerrors.ErrRoleNotFound
		}

		return err
	}

	srv.log(ctx).Info("Role deleted", slog.Any("roleID", id))

	return nil
}

// ToggleActive flips the role's active flag.
func (srv *roleAdminService) ToggleActive(ctx context.Context, id uuid.UUID) (*entity.Role, error) {
	role, err := srv.GetRole(ctx, id)
	if err != nil {
		return nil, err
	}

	active := !role.Active
	if err := srv.roleRepo.Update(ctx, id, &repository.RolePatch{Active: &active}); err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Role active flag toggled",
		slog.Any("roleID", id), slog.Bool("active", active))

	return srv.GetRole(ctx, id)
}

// SetPermissions replaces the role's permission set and returns the
// refreshed role.
func (srv *roleAdminService) SetPermissions(ctx context.Context, roleID uuid.UUID, permissionIDs []uuid.UUID) (*entity.Role, error) {
	if _, err := srv.GetRole(ctx, roleID); err != nil {
		return nil, err
	}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		return repoFactory.RoleRepo().SetPermissions(ctx, roleID, permissionIDs)
	})
	if err != nil {
		if errors.Is(err, repository.ErrPermissionNotFound) {
			return nil, domainerrors.ErrPermissionNotFound
		}

		return nil, err
	}

	srv.log(ctx).Info("Role permissions replaced",
		slog.Any("roleID", roleID), slog.Int("count", len(permissionIDs)))

	return srv.GetRole(ctx, roleID)
}

// DuplicateRole copies a role and its permission set under a new code and
// name. The copy starts active regardless of the source's flag.
func (srv *roleAdminService) DuplicateRole(ctx context.Context, sourceID uuid.UUID, input usecase.DuplicateRoleInput) (*entity.Role, error) {
	source, err := srv.GetRole(ctx, sourceID)
	if err != nil {
		return nil, err
	}

	permissionIDs := make([]uuid.UUID, 0, len(source.Permissions))
	for _, perm := range source.Permissions {
		permissionIDs = append(permissionIDs, perm.ID)
	}

	duplicate := &entity.Role{
		Code:           input.Code,
		Name:           input.Name,
		Description:    source.Description,
		HierarchyLevel: source.HierarchyLevel,
		Active:         true,
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		roleRepo := repoFactory.RoleRepo()

		if err := roleRepo.Create(ctx, duplicate); err != nil {
			return err
		}

		if len(permissionIDs) > 0 {
			return roleRepo.SetPermissions(ctx, duplicate.ID, permissionIDs)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Role duplicated",
		slog.Any("sourceID", sourceID), slog.Any("roleID", duplicate.ID), slog.String("code", duplicate.Code))

	return srv.GetRole(ctx, duplicate.ID)
}

// CompareRoles loads the requested roles with their permissions; IDs that no
// longer resolve are skipped rather than failing the comparison.
func (srv *roleAdminService) CompareRoles(ctx context.Context, ids []uuid.UUID) ([]*entity.Role, error) {
	roles := make([]*entity.Role, 0, len(ids))
	for _, id := range ids {
		role, err := srv.roleRepo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrRoleNotFound) {
				continue
			}

			return nil, domainerrors.NewDatabaseExecuteError(err, "failed to load role for comparison")
		}
		roles = append(roles, role)
	}

	return roles, nil
}

// ListRoleUsers returns the users currently holding the role.
func (srv *roleAdminService) ListRoleUsers(ctx context.Context, roleID uuid.UUID) ([]*entity.User, error) {
	if _, err := srv.GetRole(ctx, roleID); err != nil {
		return nil, err
	}

	users, err := srv.roleRepo.FindUsers(ctx, roleID)
	if err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list role users")
	}

	return users, nil
}
