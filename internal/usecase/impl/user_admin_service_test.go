package impl

import (
	"context"
	"testing"

	"senghor/internal/domain/entity"
	domainerrors "senghor/internal/domain/errors"
	"senghor/internal/domain/repository"
	mockRepo "senghor/internal/mocks/repository"
	mockSvc "senghor/internal/mocks/service"
	"senghor/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type userAdminFixtures struct {
	service   usecase.UserAdminUsecase
	txManager *mockRepo.MockTransactionManager
	userRepo  *mockRepo.MockUserRepository
	txRepo    *mockRepo.MockUserRepository
	hasher    *mockSvc.MockPasswordHasher
}

func createTestUserAdminService(t *testing.T) userAdminFixtures {
	t.Helper()

	userRepo := &mockRepo.MockUserRepository{}
	txRepo := &mockRepo.MockUserRepository{}
	hasher := &mockSvc.MockPasswordHasher{}

	factory := &mockRepo.MockRepositoryFactory{}
	factory.On("UserRepo").Return(txRepo).Maybe()

	txManager := &mockRepo.MockTransactionManager{Factory: factory}

	svc := NewUserAdminService(UserAdminServiceParams{
		TxManager: txManager,
		UserRepo:  userRepo,
		Hasher:    hasher,
		Logger:    newDiscardLogger(),
	})

	return userAdminFixtures{
		service:   svc,
		txManager: txManager,
		userRepo:  userRepo,
		txRepo:    txRepo,
		hasher:    hasher,
	}
}

func TestUserAdminService_CreateUser_AssignsRolesInTransaction(t *testing.T) {
	fx := createTestUserAdminService(t)
	ctx := context.Background()
	actorID := uuid.New()
	roleID := uuid.New()
	createdID := uuid.New()

	fx.hasher.On("Hash", "secret123").Return("hashed", nil)
	fx.txManager.On("Execute", ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).Return(nil)
	fx.txRepo.On("Create", ctx, mock.AnythingOfType("*entity.User")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*entity.User).ID = createdID
		}).
		Return(nil)
	fx.txRepo.On("SetRoles", ctx, createdID, []uuid.UUID{roleID}, actorID).Return(nil)
	fx.userRepo.On("FindByID", ctx, createdID).Return(&entity.User{ID: createdID, Email: "new@example.sn"}, nil)

	user, err := fx.service.CreateUser(ctx, usecase.CreateUserInput{
		Email:     "new@example.sn",
		Password:  "secret123",
		LastName:  "Ndiaye",
		FirstName: "Ousmane",
		RoleIDs:   []uuid.UUID{roleID},
	}, actorID)

	require.NoError(t, err)
	assert.Equal(t, createdID, user.ID)
	fx.txRepo.AssertExpectations(t)
}

func TestUserAdminService_CreateUser_WithoutPasswordSkipsHashing(t *testing.T) {
	fx := createTestUserAdminService(t)
	ctx := context.Background()
	createdID := uuid.New()

	fx.txManager.On("Execute", ctx, mock.Anything).Return(nil)
	fx.txRepo.On("Create", ctx, mock.AnythingOfType("*entity.User")).
		Run(func(args mock.Arguments) {
			user := args.Get(1).(*entity.User)
			assert.False(t, user.HasPassword())
			user.ID = createdID
		}).
		Return(nil)
	fx.userRepo.On("FindByID", ctx, createdID).Return(&entity.User{ID: createdID}, nil)

	_, err := fx.service.CreateUser(ctx, usecase.CreateUserInput{
		Email:     "invite@example.sn",
		LastName:  "Sow",
		FirstName: "Fatou",
	}, uuid.New())

	require.NoError(t, err)
	fx.hasher.AssertNotCalled(t, "Hash", mock.Anything)
}

func TestUserAdminService_ResetPassword_ReturnsTemporaryPassword(t *testing.T) {
	fx := createTestUserAdminService(t)
	ctx := context.Background()
	id := uuid.New()

	fx.userRepo.On("FindByID", ctx, id).Return(&entity.User{ID: id}, nil)
	fx.hasher.On("Hash", mock.AnythingOfType("string")).Return("temp-hash", nil)
	fx.userRepo.On("UpdatePassword", ctx, id, "temp-hash").Return(nil)

	output, err := fx.service.ResetPassword(ctx, id)

	require.NoError(t, err)
	assert.Len(t, output.TemporaryPassword, tempPasswordLength)
	for _, r := range output.TemporaryPassword {
		assert.Contains(t, tempPasswordAlphabet, string(r))
	}
}

func TestUserAdminService_ResetPassword_UnknownUser(t *testing.T) {
	fx := createTestUserAdminService(t)
	ctx := context.Background()
	id := uuid.New()

	fx.userRepo.On("FindByID", ctx, id).Return(nil, repository.ErrUserNotFound)

	output, err := fx.service.ResetPassword(ctx, id)

	assert.Nil(t, output)
	assert.ErrorIs(t, err, domainerrors.ErrUserNotFound)
	fx.userRepo.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
}

func TestUserAdminService_SetRoles_UnknownRole(t *testing.T) {
	fx := createTestUserAdminService(t)
	ctx := context.Background()
	userID := uuid.New()
	actorID := uuid.New()
	roleIDs := []uuid.UUID{uuid.New()}

	fx.userRepo.On("FindByID", ctx, userID).Return(&entity.User{ID: userID}, nil)
	fx.txManager.On("Execute", ctx, mock.Anything).Return(nil)
	fx.txRepo.On("SetRoles", ctx, userID, roleIDs, actorID).Return(repository.ErrRoleNotFound)

	user, err := fx.service.SetRoles(ctx, userID, roleIDs, actorID)

	assert.Nil(t, user)
	assert.ErrorIs(t, err, domainerrors.ErrRoleNotFound)
}

func TestUserAdminService_Anonymize_NotFound(t *testing.T) {
	fx := createTestUserAdminService(t)
	ctx := context.Background()
	id := uuid.New()

	fx.userRepo.On("Anonymize", ctx, id).Return(repository.ErrUserNotFound)

	err := fx.service.Anonymize(ctx, id)

	assert.ErrorIs(t, err, domainerrors.ErrUserNotFound)
}

func TestUserAdminService_VerifyEmail(t *testing.T) {
	fx := createTestUserAdminService(t)
	ctx := context.Background()
	id := uuid.New()

	fx.userRepo.On("Update", ctx, id, mock.MatchedBy(func(patch *repository.UserPatch) bool {
		return patch.EmailVerified != nil && *patch.EmailVerified
	})).Return(nil)

	require.NoError(t, fx.service.VerifyEmail(ctx, id))
	fx.userRepo.AssertExpectations(t)
}

func TestUserAdminService_BulkAction_DeactivateSkipsAlreadyInactive(t *testing.T) {
	fx := createTestUserAdminService(t)
	ctx := context.Background()

	activeID := uuid.New()
	inactiveID := uuid.New()
	missingID := uuid.New()

	fx.userRepo.On("FindByID", ctx, activeID).Return(&entity.User{ID: activeID, Active: true}, nil)
	fx.userRepo.On("FindByID", ctx, inactiveID).Return(&entity.User{ID: inactiveID, Active: false}, nil)
	fx.userRepo.On("FindByID", ctx, missingID).Return(nil, repository.ErrUserNotFound)
	fx.userRepo.On("Update", ctx, activeID, mock.MatchedBy(func(patch *repository.UserPatch) bool {
		return patch.Active != nil && !*patch.Active
	})).Return(nil)

	count, err := fx.service.BulkAction(ctx, usecase.BulkUserActionInput{
		UserIDs: []uuid.UUID{activeID, inactiveID, missingID},
		Action:  usecase.BulkActionDeactivate,
	})

	require.NoError(t, err)
	assert.Equal(t, 1, count)
	fx.userRepo.AssertNumberOfCalls(t, "Update", 1)
}

func TestUserAdminService_BulkAction_DeleteCountsEachRemoval(t *testing.T) {
	fx := createTestUserAdminService(t)
	ctx := context.Background()

	firstID := uuid.New()
	secondID := uuid.New()

	fx.userRepo.On("Delete", ctx, firstID).Return(nil)
	fx.userRepo.On("Delete", ctx, secondID).Return(repository.ErrUserNotFound)

	count, err := fx.service.BulkAction(ctx, usecase.BulkUserActionInput{
		UserIDs: []uuid.UUID{firstID, secondID},
		Action:  usecase.BulkActionDelete,
	})

	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestUserAdminService_BulkAction_UnknownAction(t *testing.T) {
	fx := createTestUserAdminService(t)
	ctx := context.Background()

	_, err := fx.service.BulkAction(ctx, usecase.BulkUserActionInput{
		UserIDs: []uuid.UUID{uuid.New()},
		Action:  "purge",
	})

	assert.Error(t, err)
	fx.userRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
