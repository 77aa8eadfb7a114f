package impl

import (
	"context"
	"crypto/rand"
	"log/slog"
	"math/big"

	deliverycontext "senghor/internal/delivery/context"
	"senghor/internal/domain/entity"
	domainerrors "senghor/internal/domain/errors"
	"senghor/internal/domain/repository"
	"senghor/internal/domain/service"
	"senghor/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const tempPasswordLength = 12

// tempPasswordAlphabet omits easily confused characters (0/O, 1/l/I).
const tempPasswordAlphabet = "abcdefghijkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// userAdminService implements the UserAdminUsecase interface.
type userAdminService struct {
	txManager repository.TransactionManager
	userRepo  repository.UserRepository
	hasher    service.PasswordHasher
	logger    *slog.Logger
}

// UserAdminServiceParams holds dependencies for userAdminService, injected by Fx.
type UserAdminServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	UserRepo  repository.UserRepository
	Hasher    service.PasswordHasher
	Logger    *slog.Logger
}

// NewUserAdminService is the constructor for userAdminService.
func NewUserAdminService(params UserAdminServiceParams) usecase.UserAdminUsecase {
	return &userAdminService{
		txManager: params.TxManager,
		userRepo:  params.UserRepo,
		hasher:    params.Hasher,
		logger:    params.Logger,
	}
}

func (srv *userAdminService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// ListUsers returns a page of users matching the filter.
func (srv *userAdminService) ListUsers(ctx context.Context, input usecase.ListUsersInput) (*usecase.ListUsersOutput, error) {
	users, total, err := srv.userRepo.List(ctx, repository.UserFilter{
		Search: input.Search,
		Active: input.Active,
		RoleID: input.RoleID,
		Page:   input.Page,
		Size:   input.Size,
	})
	if err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list users")
	}

	return &usecase.ListUsersOutput{
		Users: users,
		Total: total,
		Page:  input.Page,
		Size:  input.Size,
	}, nil
}

// GetUser returns a single user with roles and permissions loaded.
func (srv *userAdminService) GetUser(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	user, err := srv.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to load user")
	}

	return user, nil
}

// CreateUser creates an account and assigns its initial roles within one
// transaction, so a failed role assignment leaves no orphan account.
func (srv *userAdminService) CreateUser(ctx context.Context, input usecase.CreateUserInput, actorID uuid.UUID) (*entity.User, error) {
	hash := ""
	if input.Password != "" {
		var err error
		hash, err = srv.hasher.Hash(input.Password)
		if err != nil {
			srv.log(ctx).Error("Failed to hash password during user creation", slog.Any("error", err))

			return nil, domainerrors.ErrPasswordHashFailed
		}
	}

	active := true
	if input.Active != nil {
		active = *input.Active
	}
	verified := false
	if input.EmailVerified != nil {
		verified = *input.EmailVerified
	}

	user := &entity.User{
		Email:         input.Email,
		PasswordHash:  hash,
		LastName:      input.LastName,
		FirstName:     input.FirstName,
		Phone:         input.Phone,
		City:          input.City,
		Active:        active,
		EmailVerified: verified,
	}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		if err := userRepo.Create(ctx, user); err != nil {
			return err
		}

		if len(input.RoleIDs) > 0 {
			if err := userRepo.SetRoles(ctx, user.ID, input.RoleIDs, actorID); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("User created by administrator",
		slog.Any("userID", user.ID), slog.Any("actorID", actorID))

	return srv.GetUser(ctx, user.ID)
}

// UpdateUser applies a partial administrative update.
func (srv *userAdminService) UpdateUser(ctx context.Context, id uuid.UUID, input usecase.UpdateUserInput) (*entity.User, error) {
	patch := &repository.UserPatch{
		Email:         input.Email,
		LastName:      input.LastName,
		FirstName:     input.FirstName,
		Phone:         input.Phone,
		City:          input.City,
		Active:        input.Active,
		EmailVerified: input.EmailVerified,
	}

	if err := srv.userRepo.Update(ctx, id, patch); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound
		}

		return nil, err
	}

	return srv.GetUser(ctx, id)
}

// DeleteUser removes the account permanently.
func (srv *userAdminService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if err := srv.userRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domainerrors.ErrUserNotFound
		}

		return err
	}

	srv.log(ctx).Info("User deleted", slog.Any("userID", id))

	return nil
}

// BulkAction applies one action to many accounts. Accounts that no longer
// exist or are already in the target state are skipped, not reported.
func (srv *userAdminService) BulkAction(ctx context.Context, input usecase.BulkUserActionInput) (int, error) {
	count := 0
	for _, id := range input.UserIDs {
		switch input.Action {
		case usecase.BulkActionActivate:
			if srv.bulkSetActive(ctx, id, true) {
				count++
			}
		case usecase.BulkActionDeactivate:
			if srv.bulkSetActive(ctx, id, false) {
				count++
			}
		case usecase.BulkActionDelete:
			if err := srv.userRepo.Delete(ctx, id); err == nil {
				count++
			}
		default:
			return 0, domainerrors.ErrValidationFailed.WithDetails("unknown bulk action: " + input.Action)
		}
	}

	srv.log(ctx).Info("Bulk user action applied",
		slog.String("action", input.Action),
		slog.Int("requested", len(input.UserIDs)), slog.Int("affected", count))

	return count, nil
}

func (srv *userAdminService) bulkSetActive(ctx context.Context, id uuid.UUID, active bool) bool {
	user, err := srv.userRepo.FindByID(ctx, id)
	if err != nil || user.Active == active {
		return false
	}

	return srv.userRepo.Update(ctx, id, &repository.UserPatch{Active: &active}) == nil
}

// ToggleActive flips the account's active flag.
func (srv *userAdminService) ToggleActive(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	user, err := srv.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	active := !user.Active
	if err := srv.userRepo.Update(ctx, id, &repository.UserPatch{Active: &active}); err != nil {
		return nil, err
	}

	srv.log(ctx).Info("User active flag toggled",
		slog.Any("userID", id), slog.Bool("active", active))

	return srv.GetUser(ctx, id)
}

// SetRoles replaces the user's role set, recording the acting administrator.
func (srv *userAdminService) SetRoles(ctx context.Context, userID uuid.UUID, roleIDs []uuid.UUID, actorID uuid.UUID) (*entity.User, error) {
	if _, err := srv.GetUser(ctx, userID); err != nil {
		return nil, err
	}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		return repoFactory.UserRepo().SetRoles(ctx, userID, roleIDs, actorID)
	})
	if err != nil {
		if errors.Is(err, repository.ErrRoleNotFound) {
			return nil, domainerrors.ErrRoleNotFound
		}

		return nil, err
	}

	srv.log(ctx).Info("User roles replaced",
		slog.Any("userID", userID), slog.Any("actorID", actorID), slog.Int("count", len(roleIDs)))

	return srv.GetUser(ctx, userID)
}

// ResetPassword generates a temporary password, stores its hash and returns
// the plaintext once for the administrator to transmit out of band.
func (srv *userAdminService) ResetPassword(ctx context.Context, id uuid.UUID) (*usecase.ResetPasswordOutput, error) {
	if _, err := srv.GetUser(ctx, id); err != nil {
		return nil, err
	}

	tempPassword, err := generateTempPassword(tempPasswordLength)
	if err != nil {
		srv.log(ctx).Error("Failed to generate temporary password", slog.Any("error", err))

		return nil, domainerrors.ErrInternalError
	}

	hash, err := srv.hasher.Hash(tempPassword)
	if err != nil {
		return nil, domainerrors.ErrPasswordHashFailed
	}

	if err := srv.userRepo.UpdatePassword(ctx, id, hash); err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Password reset by administrator", slog.Any("userID", id))

	return &usecase.ResetPasswordOutput{TemporaryPassword: tempPassword}, nil
}

// VerifyEmail marks the account's email as verified.
func (srv *userAdminService) VerifyEmail(ctx context.Context, id uuid.UUID) error {
	verified := true
	err := srv.userRepo.Update(ctx, id, &repository.UserPatch{EmailVerified: &verified})
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domainerrors.ErrUserNotFound
		}

		return err
	}

	return nil
}

// Anonymize blanks personal data and deactivates the account.
func (srv *userAdminService) Anonymize(ctx context.Context, id uuid.UUID) error {
	if err := srv.userRepo.Anonymize(ctx, id); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domainerrors.ErrUserNotFound
		}

		return err
	}

	srv.log(ctx).Info("User anonymized", slog.Any("userID", id))

	return nil
}

// generateTempPassword draws length characters from the alphabet using
// crypto/rand.
func generateTempPassword(length int) (string, error) {
	alphabetSize := big.NewInt(int64(len(tempPasswordAlphabet)))
	buf := make([]byte, length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, alphabetSize)
		if err != nil {
			return "", errors.Wrap(err, "failed to draw random character")
		}
		buf[i] = tempPasswordAlphabet[n.Int64()]
	}

	return string(buf), nil
}
