package postgres

import (
	"senghor/internal/domain/entity"
	"senghor/internal/infra/persistence/model"
)

// Mapper functions converting between domain entities and persistence models.
// PasswordHash is nullable in the schema; the entity uses the empty string to
// mean "not configured for password login".

func toUserDomain(data *model.UserModel) *entity.User {
	if data == nil {
		return nil
	}

	passwordHash := ""
	if data.PasswordHash != nil {
		passwordHash = *data.PasswordHash
	}

	roles := make([]entity.Role, 0, len(data.Roles))
	for i := range data.Roles {
		roles = append(roles, *toRoleDomain(&data.Roles[i]))
	}

	return &entity.User{
		ID:            data.ID,
		Email:         data.Email,
		PasswordHash:  passwordHash,
		LastName:      data.LastName,
		FirstName:     data.FirstName,
		Phone:         data.Phone,
		City:          data.City,
		Active:        data.Active,
		EmailVerified: data.EmailVerified,
		LastLoginAt:   data.LastLoginAt,
		Roles:         roles,
		CreatedAt:     data.CreatedAt,
		UpdatedAt:     data.UpdatedAt,
	}
}

func fromUserDomain(data *entity.User) *model.UserModel {
	if data == nil {
		return nil
	}

	var passwordHash *string
	if data.PasswordHash != "" {
		hash := data.PasswordHash
		passwordHash = &hash
	}

	return &model.UserModel{
		ID:            data.ID,
		Email:         data.Email,
		PasswordHash:  passwordHash,
		LastName:      data.LastName,
		FirstName:     data.FirstName,
		Phone:         data.Phone,
		City:          data.City,
		Active:        data.Active,
		EmailVerified: data.EmailVerified,
		LastLoginAt:   data.LastLoginAt,
	}
}

func toRoleDomain(data *model.RoleModel) *entity.Role {
	if data == nil {
		return nil
	}

	permissions := make([]entity.Permission, 0, len(data.Permissions))
	for i := range data.Permissions {
		permissions = append(permissions, *toPermissionDomain(&data.Permissions[i]))
	}

	return &entity.Role{
		ID:             data.ID,
		Code:           data.Code,
		Name:           data.Name,
		Description:    data.Description,
		HierarchyLevel: data.HierarchyLevel,
		Active:         data.Active,
		Permissions:    permissions,
		CreatedAt:      data.CreatedAt,
		UpdatedAt:      data.UpdatedAt,
	}
}

func fromRoleDomain(data *entity.Role) *model.RoleModel {
	if data == nil {
		return nil
	}

	permissions := make([]model.PermissionModel, 0, len(data.Permissions))
	for i := range data.Permissions {
		permissions = append(permissions, *fromPermissionDomain(&data.Permissions[i]))
	}

	return &model.RoleModel{
		ID:             data.ID,
		Code:           data.Code,
		Name:           data.Name,
		Description:    data.Description,
		HierarchyLevel: data.HierarchyLevel,
		Active:         data.Active,
		Permissions:    permissions,
	}
}

func toPermissionDomain(data *model.PermissionModel) *entity.Permission {
	if data == nil {
		return nil
	}

	return &entity.Permission{
		ID:          data.ID,
		Code:        data.Code,
		Name:        data.Name,
		Description: data.Description,
		Category:    data.Category,
		CreatedAt:   data.CreatedAt,
	}
}

func fromPermissionDomain(data *entity.Permission) *model.PermissionModel {
	if data == nil {
		return nil
	}

	return &model.PermissionModel{
		ID:          data.ID,
		Code:        data.Code,
		Name:        data.Name,
		Description: data.Description,
		Category:    data.Category,
	}
}
