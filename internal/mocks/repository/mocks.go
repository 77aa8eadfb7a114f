// Package repository provides testify mocks for the domain repository
// interfaces, used by usecase and delivery tests.
package repository

import (
	"context"
	"time"

	"senghor/internal/domain/entity"
	"senghor/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockUserRepository mocks repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	args := m.Called(ctx, id)
	if user, ok := args.Get(0).(*entity.User); ok {
		return user, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	if user, ok := args.Get(0).(*entity.User); ok {
		return user, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, filter repository.UserFilter) ([]*entity.User, int64, error) {
	args := m.Called(ctx, filter)
	users, _ := args.Get(0).([]*entity.User)

	return users, args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) Create(ctx context.Context, user *entity.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, id uuid.UUID, patch *repository.UserPatch) error {
	return m.Called(ctx, id, patch).Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockUserRepository) SetRoles(ctx context.Context, userID uuid.UUID, roleIDs []uuid.UUID, assignedBy uuid.UUID) error {
	return m.Called(ctx, userID, roleIDs, assignedBy).Error(0)
}

func (m *MockUserRepository) RecordLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return m.Called(ctx, id, at).Error(0)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	return m.Called(ctx, id, hash).Error(0)
}

func (m *MockUserRepository) Anonymize(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// MockRoleRepository mocks repository.RoleRepository.
type MockRoleRepository struct {
	mock.Mock
}

func (m *MockRoleRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Role, error) {
	args := m.Called(ctx, id)
	if role, ok := args.Get(0).(*entity.Role); ok {
		return role, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockRoleRepository) FindByCode(ctx context.Context, code string) (*entity.Role, error) {
	args := m.Called(ctx, code)
	if role, ok := args.Get(0).(*entity.Role); ok {
		return role, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockRoleRepository) List(ctx context.Context, filter repository.RoleFilter) ([]*entity.Role, int64, error) {
	args := m.Called(ctx, filter)
	roles, _ := args.Get(0).([]*entity.Role)

	return roles, args.Get(1).(int64), args.Error(2)
}

func (m *MockRoleRepository) Create(ctx context.Context, role *entity.Role) error {
	return m.Called(ctx, role).Error(0)
}

func (m *MockRoleRepository) Update(ctx context.Context, id uuid.UUID, patch *repository.RolePatch) error {
	return m.Called(ctx, id, patch).Error(0)
}

func (m *MockRoleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockRoleRepository) SetPermissions(ctx context.Context, roleID uuid.UUID, permissionIDs []uuid.UUID) error {
	return m.Called(ctx, roleID, permissionIDs).Error(0)
}

func (m *MockRoleRepository) FindUsers(ctx context.Context, roleID uuid.UUID) ([]*entity.User, error) {
	args := m.Called(ctx, roleID)
	users, _ := args.Get(0).([]*entity.User)

	return users, args.Error(1)
}

// MockPermissionRepository mocks repository.PermissionRepository.
type MockPermissionRepository struct {
	mock.Mock
}

func (m *MockPermissionRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Permission, error) {
	args := m.Called(ctx, id)
	if perm, ok := args.Get(0).(*entity.Permission); ok {
		return perm, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockPermissionRepository) List(ctx context.Context, filter repository.PermissionFilter) ([]*entity.Permission, int64, error) {
	args := m.Called(ctx, filter)
	perms, _ := args.Get(0).([]*entity.Permission)

	return perms, args.Get(1).(int64), args.Error(2)
}

func (m *MockPermissionRepository) ListAll(ctx context.Context) ([]*entity.Permission, error) {
	args := m.Called(ctx)
	perms, _ := args.Get(0).([]*entity.Permission)

	return perms, args.Error(1)
}

func (m *MockPermissionRepository) FindRoles(ctx context.Context, permissionID uuid.UUID) ([]*entity.Role, error) {
	args := m.Called(ctx, permissionID)
	roles, _ := args.Get(0).([]*entity.Role)

	return roles, args.Error(1)
}

func (m *MockPermissionRepository) Create(ctx context.Context, permission *entity.Permission) error {
	return m.Called(ctx, permission).Error(0)
}

func (m *MockPermissionRepository) Update(ctx context.Context, id uuid.UUID, patch *repository.PermissionPatch) error {
	return m.Called(ctx, id, patch).Error(0)
}

func (m *MockPermissionRepository) Grant(ctx context.Context, roleID, permissionID uuid.UUID) error {
	return m.Called(ctx, roleID, permissionID).Error(0)
}

func (m *MockPermissionRepository) Revoke(ctx context.Context, roleID, permissionID uuid.UUID) error {
	return m.Called(ctx, roleID, permissionID).Error(0)
}

// MockRepositoryFactory mocks repository.RepositoryFactory.
type MockRepositoryFactory struct {
	mock.Mock
}

func (m *MockRepositoryFactory) UserRepo() repository.UserRepository {
	return m.Called().Get(0).(repository.UserRepository)
}

func (m *MockRepositoryFactory) RoleRepo() repository.RoleRepository {
	return m.Called().Get(0).(repository.RoleRepository)
}

func (m *MockRepositoryFactory) PermissionRepo() repository.PermissionRepository {
	return m.Called().Get(0).(repository.PermissionRepository)
}

// MockTransactionManager mocks repository.TransactionManager. The Execute
// callback runs against the configured factory so test expectations on the
// transactional repositories are exercised.
type MockTransactionManager struct {
	mock.Mock

	Factory repository.RepositoryFactory
}

func (m *MockTransactionManager) Execute(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
	args := m.Called(ctx, fn)
	if m.Factory != nil {
		if err := fn(m.Factory); err != nil {
			return err
		}
	}

	return args.Error(0)
}
