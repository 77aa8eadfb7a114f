package impl

import (
	"context"
	"testing"

	"senghor/internal/domain/entity"
	domainerrors "senghor/internal/domain/errors"
	"senghor/internal/domain/repository"
	mockRepo "senghor/internal/mocks/repository"
	"senghor/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type permissionAdminFixtures struct {
	service   usecase.PermissionAdminUsecase
	txManager *mockRepo.MockTransactionManager
	permRepo  *mockRepo.MockPermissionRepository
	txPerm    *mockRepo.MockPermissionRepository
	roleRepo  *mockRepo.MockRoleRepository
}

func createTestPermissionAdminService(t *testing.T) permissionAdminFixtures {
	t.Helper()

	permRepo := &mockRepo.MockPermissionRepository{}
	txPerm := &mockRepo.MockPermissionRepository{}
	roleRepo := &mockRepo.MockRoleRepository{}

	factory := &mockRepo.MockRepositoryFactory{}
	factory.On("PermissionRepo").Return(txPerm).Maybe()

	txManager := &mockRepo.MockTransactionManager{Factory: factory}

	svc := NewPermissionAdminService(PermissionAdminServiceParams{
		TxManager: txManager,
		PermRepo:  permRepo,
		RoleRepo:  roleRepo,
		Logger:    newDiscardLogger(),
	})

	return permissionAdminFixtures{
		service:   svc,
		txManager: txManager,
		permRepo:  permRepo,
		txPerm:    txPerm,
		roleRepo:  roleRepo,
	}
}

func TestPermissionAdminService_GetMatrix(t *testing.T) {
	fx := createTestPermissionAdminService(t)
	ctx := context.Background()

	permView := &entity.Permission{ID: uuid.New(), Code: "users.view"}
	permEdit := &entity.Permission{ID: uuid.New(), Code: "users.edit"}
	role := &entity.Role{
		ID:          uuid.New(),
		Code:        "admin",
		Permissions: []entity.Permission{*permView},
	}

	fx.permRepo.On("ListAll", ctx).Return([]*entity.Permission{permView, permEdit}, nil)
	fx.roleRepo.On("List", ctx, mock.AnythingOfType("repository.RoleFilter")).
		Return([]*entity.Role{role}, int64(1), nil)

	matrix, err := fx.service.GetMatrix(ctx)

	require.NoError(t, err)
	assert.Len(t, matrix.Permissions, 2)
	require.Len(t, matrix.Rows, 1)
	assert.Equal(t, "admin", matrix.Rows[0].Role.Code)
	assert.Equal(t, []uuid.UUID{permView.ID}, matrix.Rows[0].PermissionIDs)
}

func TestPermissionAdminService_UpdateMatrix_GrantsAndRevokes(t *testing.T) {
	fx := createTestPermissionAdminService(t)
	ctx := context.Background()

	roleID := uuid.New()
	grantID := uuid.New()
	revokeID := uuid.New()

	fx.txManager.On("Execute", ctx, mock.Anything).Return(nil)
	fx.txPerm.On("Grant", ctx, roleID, grantID).Return(nil)
	fx.txPerm.On("Revoke", ctx, roleID, revokeID).Return(nil)
	fx.permRepo.On("ListAll", ctx).Return([]*entity.Permission{}, nil)
	fx.roleRepo.On("List", ctx, mock.AnythingOfType("repository.RoleFilter")).
		Return([]*entity.Role{}, int64(0), nil)

	_, err := fx.service.UpdateMatrix(ctx, []usecase.MatrixEntry{
		{RoleID: roleID, PermissionID: grantID, Granted: true},
		{RoleID: roleID, PermissionID: revokeID, Granted: false},
	})

	require.NoError(t, err)
	fx.txPerm.AssertExpectations(t)
}

func TestPermissionAdminService_UpdateMatrix_UnknownPermission(t *testing.T) {
	fx := createTestPermissionAdminService(t)
	ctx := context.Background()

	roleID := uuid.New()
	permID := uuid.New()

	fx.txManager.On("Execute", ctx, mock.Anything).Return(nil)
	fx.txPerm.On("Grant", ctx, roleID, permID).Return(repository.ErrPermissionNotFound)

	matrix, err := fx.service.UpdateMatrix(ctx, []usecase.MatrixEntry{
		{RoleID: roleID, PermissionID: permID, Granted: true},
	})

	assert.Nil(t, matrix)
	assert.ErrorIs(t, err, domainerrors.ErrPermissionNotFound)
}

func TestPermissionAdminService_ListPermissionRoles(t *testing.T) {
	fx := createTestPermissionAdminService(t)
	ctx := context.Background()

	permID := uuid.New()
	fx.permRepo.On("FindByID", ctx, permID).Return(&entity.Permission{ID: permID, Code: "users.view"}, nil)
	fx.permRepo.On("FindRoles", ctx, permID).
		Return([]*entity.Role{{ID: uuid.New(), Code: "admin"}}, nil)

	roles, err := fx.service.ListPermissionRoles(ctx, permID)

	require.NoError(t, err)
	require.Len(t, roles, 1)
	assert.Equal(t, "admin", roles[0].Code)
}

func TestPermissionAdminService_ListPermissionRoles_UnknownPermission(t *testing.T) {
	fx := createTestPermissionAdminService(t)
	ctx := context.Background()

	permID := uuid.New()
	fx.permRepo.On("FindByID", ctx, permID).Return(nil, repository.ErrPermissionNotFound)

	roles, err := fx.service.ListPermissionRoles(ctx, permID)

	assert.Nil(t, roles)
	assert.ErrorIs(t, err, domainerrors.ErrPermissionNotFound)
	fx.permRepo.AssertNotCalled(t, "FindRoles", ctx, permID)
}

func TestPermissionAdminService_CreatePermission_DuplicateCode(t *testing.T) {
	fx := createTestPermissionAdminService(t)
	ctx := context.Background()

	fx.permRepo.On("Create", ctx, mock.AnythingOfType("*entity.Permission")).
		Return(domainerrors.ErrCodeAlreadyExists)

	permission, err := fx.service.CreatePermission(ctx, usecase.CreatePermissionInput{Code: "users.view"})

	assert.Nil(t, permission)
	assert.ErrorIs(t, err, domainerrors.ErrCodeAlreadyExists)
}
