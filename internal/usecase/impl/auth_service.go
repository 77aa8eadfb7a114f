// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"time"

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

// authService implements the AuthUsecase interface.
type authService struct {
	userRepo     repository.UserRepository
	hasher       service.PasswordHasher
	tokenService service.TokenService
	logger       *slog.Logger
}

// AuthServiceParams holds dependencies for authService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	UserRepo     repository.UserRepository
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Logger       *slog.Logger
}

// NewAuthService is the constructor for authService. It receives all dependencies as interfaces.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	return &authService{
		userRepo:     params.UserRepo,
		hasher:       params.Hasher,
		tokenService: params.TokenService,
		logger:       params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Login authenticates an email/password pair and issues a token pair.
// The checks run in a fixed order: account lookup, hash presence, password
// verification, then the active flag. Every failure before the active check
// maps to the same credentials error.
func (srv *authService) Login(ctx context.Context, input usecase.LoginInput) (*usecase.LoginOutput, error) {
	user, err := srv.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			srv.log(ctx).Warn("Login attempt for unknown email", slog.String("email", input.Email))

			return nil, domainerrors.ErrInvalidCredentials
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to load user for login")
	}

	if !user.HasPassword() {
		srv.log(ctx).Warn("Login attempt on account without password", slog.Any("userID", user.ID))

		return nil, domainerrors.ErrAccountNotConfigured
	}

	if !srv.hasher.Check(input.Password, user.PasswordHash) {
		srv.log(ctx).Warn("Login attempt with wrong password", slog.Any("userID", user.ID))

		return nil, domainerrors.ErrInvalidCredentials
	}

	if !user.Active {
		srv.log(ctx).Warn("Login attempt on disabled account", slog.Any("userID", user.ID))

		return nil, domainerrors.ErrAccountDisabled
	}

	accessToken, refreshToken, err := srv.tokenService.GeneratePair(user.ID)
	if err != nil {
		srv.log(ctx).Error("Failed to generate token pair", slog.Any("userID", user.ID), slog.Any("error", err))

		return nil, domainerrors.ErrInternalError
	}

	now := time.Now()
	if err := srv.userRepo.RecordLogin(ctx, user.ID, now); err != nil {
		// The login itself succeeded; losing the timestamp is not worth a 500.
		srv.log(ctx).Error("Failed to record login timestamp", slog.Any("userID", user.ID), slog.Any("error", err))
	} else {
		user.LastLoginAt = &now
	}

	srv.log(ctx).Info("User logged in", slog.Any("userID", user.ID))

	return &usecase.LoginOutput{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}

// Refresh validates a refresh token and rotates it into a new pair.
func (srv *authService) Refresh(ctx context.Context, input usecase.RefreshInput) (*usecase.TokenPairOutput, error) {
	claims, err := srv.tokenService.Decode(input.RefreshToken)
	if err != nil {
		return nil, domainerrors.ErrTokenInvalid
	}

	if claims.Kind != service.TokenKindRefresh {
		return nil, domainerrors.ErrTokenWrongType
	}

	user, err := srv.userRepo.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrTokenInvalid
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to load user for refresh")
	}

	if !user.Active {
		return nil, domainerrors.ErrAccountDisabled
	}

	accessToken, refreshToken, err := srv.tokenService.GeneratePair(user.ID)
	if err != nil {
		srv.log(ctx).Error("Failed to rotate token pair", slog.Any("userID", user.ID), slog.Any("error", err))

		return nil, domainerrors.ErrInternalError
	}

	return &usecase.TokenPairOutput{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Register creates a new account from a public self-registration.
// The account starts active, unverified and without roles; an administrator
// grants roles later.
func (srv *authService) Register(ctx context.Context, input usecase.RegisterInput) (*entity.User, error) {
	hash, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during registration", slog.Any("error", err))

		return nil, domainerrors.ErrPasswordHashFailed
	}

	user := &entity.User{
		Email:        input.Email,
		PasswordHash: hash,
		LastName:     input.LastName,
		FirstName:    input.FirstName,
		Phone:        input.Phone,
		City:         input.City,
		Active:       true,
	}

	if err := srv.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	srv.log(ctx).Info("User registered", slog.Any("userID", user.ID), slog.String("email", user.Email))

	return user, nil
}

// UpdateProfile applies a partial self-service profile update.
func (srv *authService) UpdateProfile(ctx context.Context, userID uuid.UUID, input usecase.UpdateProfileInput) (*entity.User, error) {
	patch := &repository.UserPatch{
		LastName:  input.LastName,
		FirstName: input.FirstName,
		Phone:     input.Phone,
		City:      input.City,
	}

	if err := srv.userRepo.Update(ctx, userID, patch); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound
		}

		return nil, err
	}

	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to reload user after profile update")
	}

	return user, nil
}

// ChangePassword verifies the current password and replaces the stored hash.
// An account without a stored hash has nothing to verify against and is
// rejected as unconfigured before the password check.
func (srv *authService) ChangePassword(ctx context.Context, user *entity.User, input usecase.ChangePasswordInput) error {
	if !user.HasPassword() {
		srv.log(ctx).Warn("Password change on unconfigured account", slog.Any("userID", user.ID))

		return domainerrors.ErrAccountNotConfigured
	}

	if !srv.hasher.Check(input.CurrentPassword, user.PasswordHash) {
		srv.log(ctx).Warn("Password change with wrong current password", slog.Any("userID", user.ID))

		return domainerrors.ErrCurrentPasswordIncorrect
	}

	hash, err := srv.hasher.Hash(input.NewPassword)
	if err != nil {
		srv.log(ctx).Error("Failed to hash new password", slog.Any("userID", user.ID), slog.Any("error", err))

		return domainerrors.ErrPasswordHashFailed
	}

	if err := srv.userRepo.UpdatePassword(ctx, user.ID, hash); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domainerrors.ErrUserNotFound
		}

		return err
	}

	srv.log(ctx).Info("Password changed", slog.Any("userID", user.ID))

	return nil
}
