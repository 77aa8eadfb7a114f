package postgres

import (
	"context"
	"time"

	"senghor/internal/domain/entity"
	domainerrors "senghor/internal/domain/errors"
	"senghor/internal/domain/repository"
	"senghor/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// roleRepository implements the domain.RoleRepository interface using GORM.
type roleRepository struct {
	db *gorm.DB
}

// NewRoleRepository is the constructor for roleRepository.
func NewRoleRepository(db *gorm.DB) repository.RoleRepository {
	return &roleRepository{db: db}
}

// FindByID retrieves a role by its unique ID with permissions preloaded.
func (repo *roleRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Role, error) {
	var roleM model.RoleModel
	err := repo.db.WithContext(ctx).
		Preload("Permissions").
		First(&roleM, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrRoleNotFound
		}

		return nil, errors.Wrap(err, "failed to find role by id")
	}

	return toRoleDomain(&roleM), nil
}

// FindByCode retrieves a role by its unique code with permissions preloaded.
func (repo *roleRepository) FindByCode(ctx context.Context, code string) (*entity.Role, error) {
	var roleM model.RoleModel
	err := repo.db.WithContext(ctx).
		Preload("Permissions").
		First(&roleM, "code = ?", code).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrRoleNotFound
		}

		return nil, errors.Wrap(err, "failed to find role by code")
	}

	return toRoleDomain(&roleM), nil
}

// List returns a page of roles matching the filter plus the total count,
// ordered by descending hierarchy level.
func (repo *roleRepository) List(ctx context.Context, filter repository.RoleFilter) ([]*entity.Role, int64, error) {
	query := repo.db.WithContext(ctx).Model(&model.RoleModel{})

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("code ILIKE ? OR name ILIKE ?", pattern, pattern)
	}
	if filter.Active != nil {
		query = query.Where("active = ?", *filter.Active)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to count roles")
	}

	var roleMs []model.RoleModel
	err := query.
		Preload("Permissions").
		Order("hierarchy_level DESC, code").
		Offset(pageOffset(filter.Page, filter.Size)).
		Limit(pageLimit(filter.Size)).
		Find(&roleMs).Error
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to list roles")
	}

	roles := make([]*entity.Role, 0, len(roleMs))
	for i := range roleMs {
		roles = append(roles, toRoleDomain(&roleMs[i]))
	}

	return roles, total, nil
}

// Create persists a new role, including any permission associations.
func (repo *roleRepository) Create(ctx context.Context, role *entity.Role) error {
	roleM := fromRoleDomain(role)

	if err := repo.db.WithContext(ctx).Omit("Users").Create(roleM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrCodeAlreadyExists
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WithDetails("missing required role information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create role")
	}

	role.ID = roleM.ID
	role.CreatedAt = roleM.CreatedAt
	role.UpdatedAt = roleM.UpdatedAt

	return nil
}

// Update applies the non-nil fields of the patch with a single UPDATE statement.
func (repo *roleRepository) Update(ctx context.Context, id uuid.UUID, patch *repository.RolePatch) error {
	values := map[string]any{}
	if patch.Code != nil {
		values["code"] = *patch.Code
	}
	if patch.Name != nil {
		values["name"] = *patch.Name
	}
	if patch.Description != nil {
		values["description"] = *patch.Description
	}
	if patch.HierarchyLevel != nil {
		values["hierarchy_level"] = *patch.HierarchyLevel
	}
	if patch.Active != nil {
		values["active"] = *patch.Active
	}
	if len(values) == 0 {
		return nil
	}
	values["updated_at"] = time.Now()

	result := repo.db.WithContext(ctx).Model(&model.RoleModel{}).Where("id = ?", id).Updates(values)
	if result.Error != nil {
		if isUniqueConstraintViolation(result.Error) {
			return domainerrors.ErrCodeAlreadyExists
		}

		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update role")
	}
	if result.RowsAffected == 0 {
		return repository.ErrRoleNotFound
	}

	return nil
}

// Delete removes the role; junction rows cascade at the database level.
func (repo *roleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).Delete(&model.RoleModel{}, "id = ?", id)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete role")
	}
	if result.RowsAffected == 0 {
		return repository.ErrRoleNotFound
	}

	return nil
}

// SetPermissions replaces the role's permission set.
func (repo *roleRepository) SetPermissions(ctx context.Context, roleID uuid.UUID, permissionIDs []uuid.UUID) error {
	db := repo.db.WithContext(ctx)

	if err := db.Delete(&model.RolePermissionModel{}, "role_id = ?", roleID).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to clear role permissions")
	}

	if len(permissionIDs) == 0 {
		return nil
	}

	links := make([]model.RolePermissionModel, 0, len(permissionIDs))
	for _, permissionID := range permissionIDs {
		links = append(links, model.RolePermissionModel{
			RoleID:       roleID,
			PermissionID: permissionID,
		})
	}

	if err := db.Create(&links).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrPermissionNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to assign role permissions")
	}

	return nil
}

// FindUsers returns the users holding the role, with their full role graph loaded.
func (repo *roleRepository) FindUsers(ctx context.Context, roleID uuid.UUID) ([]*entity.User, error) {
	var userMs []model.UserModel
	err := repo.db.WithContext(ctx).
		Preload("Roles.Permissions").
		Where("id IN (SELECT user_id FROM user_roles WHERE role_id = ?)", roleID).
		Order("last_name, first_name").
		Find(&userMs).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to find users by role")
	}

	users := make([]*entity.User, 0, len(userMs))
	for i := range userMs {
		users = append(users, toUserDomain(&userMs[i]))
	}

	return users, nil
}
