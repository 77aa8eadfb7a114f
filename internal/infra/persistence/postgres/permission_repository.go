package postgres

import (
	"context"

	"senghor/internal/domain/entity"
	domainerrors "senghor/internal/domain/errors"
	"senghor/internal/domain/repository"
	"senghor/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// permissionRepository implements the domain.PermissionRepository interface using GORM.
type permissionRepository struct {
	db *gorm.DB
}

// NewPermissionRepository is the constructor for permissionRepository.
func NewPermissionRepository(db *gorm.DB) repository.PermissionRepository {
	return &permissionRepository{db: db}
}

// FindByID retrieves a single permission by its unique ID.
func (repo *permissionRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Permission, error) {
	var permM model.PermissionModel
	err := repo.db.WithContext(ctx).First(&permM, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrPermissionNotFound
		}

		return nil, errors.Wrap(err, "failed to find permission by id")
	}

	return toPermissionDomain(&permM), nil
}

// List returns a page of permissions matching the filter plus the total count.
func (repo *permissionRepository) List(ctx context.Context, filter repository.PermissionFilter) ([]*entity.Permission, int64, error) {
	query := repo.db.WithContext(ctx).Model(&model.PermissionModel{})

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("code ILIKE ? OR name ILIKE ?", pattern, pattern)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to count permissions")
	}

	var permMs []model.PermissionModel
	err := query.
		Order("category, code").
		Offset(pageOffset(filter.Page, filter.Size)).
		Limit(pageLimit(filter.Size)).
		Find(&permMs).Error
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to list permissions")
	}

	permissions := make([]*entity.Permission, 0, len(permMs))
	for i := range permMs {
		permissions = append(permissions, toPermissionDomain(&permMs[i]))
	}

	return permissions, total, nil
}

// ListAll returns every permission ordered by category then code, for
// building the role/permission matrix.
func (repo *permissionRepository) ListAll(ctx context.Context) ([]*entity.Permission, error) {
	var permMs []model.PermissionModel
	err := repo.db.WithContext(ctx).Order("category, code").Find(&permMs).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list all permissions")
	}

	permissions := make([]*entity.Permission, 0, len(permMs))
	for i := range permMs {
		permissions = append(permissions, toPermissionDomain(&permMs[i]))
	}

	return permissions, nil
}

// Create persists a new permission.
func (repo *permissionRepository) Create(ctx context.Context, permission *entity.Permission) error {
	permM := fromPermissionDomain(permission)

	if err := repo.db.WithContext(ctx).Create(permM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrCodeAlreadyExists
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WithDetails("missing required permission information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create permission")
	}

	permission.ID = permM.ID
	permission.CreatedAt = permM.CreatedAt

	return nil
}

// Update applies the non-nil fields of the patch with a single UPDATE statement.
func (repo *permissionRepository) Update(ctx context.Context, id uuid.UUID, patch *repository.PermissionPatch) error {
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
	if patch.Category != nil {
		values["category"] = *patch.Category
	}
	if len(values) == 0 {
		return nil
	}

	result := repo.db.WithContext(ctx).Model(&model.PermissionModel{}).Where("id = ?", id).Updates(values)
	if result.Error != nil {
		if isUniqueConstraintViolation(result.Error) {
			return domainerrors.ErrCodeAlreadyExists
		}

		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update permission")
	}
	if result.RowsAffected == 0 {
		return repository.ErrPermissionNotFound
	}

	return nil
}

// FindRoles returns the roles currently granting the permission, highest
// hierarchy first.
func (repo *permissionRepository) FindRoles(ctx context.Context, permissionID uuid.UUID) ([]*entity.Role, error) {
	var roleMs []model.RoleModel
	err := repo.db.WithContext(ctx).
		Preload("Permissions").
		Where("id IN (SELECT role_id FROM role_permissions WHERE permission_id = ?)", permissionID).
		Order("hierarchy_level DESC").
		Find(&roleMs).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to find roles by permission")
	}

	roles := make([]*entity.Role, 0, len(roleMs))
	for i := range roleMs {
		roles = append(roles, toRoleDomain(&roleMs[i]))
	}

	return roles, nil
}

// Grant adds the permission to a role. Granting an already-granted
// permission is a no-op thanks to the conflict clause.
func (repo *permissionRepository) Grant(ctx context.Context, roleID, permissionID uuid.UUID) error {
	link := model.RolePermissionModel{
		RoleID:       roleID,
		PermissionID: permissionID,
	}

	err := repo.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error
	if err != nil {
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrPermissionNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to grant permission")
	}

	return nil
}

// Revoke removes the permission from a role; revoking an absent link is a no-op.
func (repo *permissionRepository) Revoke(ctx context.Context, roleID, permissionID uuid.UUID) error {
	err := repo.db.WithContext(ctx).
		Delete(&model.RolePermissionModel{}, "role_id = ? AND permission_id = ?", roleID, permissionID).Error
	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to revoke permission")
	}

	return nil
}
