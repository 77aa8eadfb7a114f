// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"senghor/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// LoginInput defines the data required for a user to log in.
type LoginInput struct {
	Email    string
	Password string
}

// RefreshInput carries the refresh token presented for rotation.
type RefreshInput struct {
	RefreshToken string
}

// RegisterInput defines the data required to self-register an account.
type RegisterInput struct {
	Email     string
	Password  string
	LastName  string
	FirstName string
	Phone     string
	City      string
}

// UpdateProfileInput carries the self-service profile fields; nil fields are
// left untouched. Email, active and verification flags are administrative
// and cannot be changed here.
type UpdateProfileInput struct {
	LastName  *string
	FirstName *string
	Phone     *string
	City      *string
}

// ChangePasswordInput carries a password change request. The current
// password must verify against the stored hash before the new one is set.
type ChangePasswordInput struct {
	CurrentPassword string
	NewPassword     string
}

// --- Output DTOs ---

// TokenPairOutput returns a freshly issued access/refresh token pair.
type TokenPairOutput struct {
	AccessToken  string
	RefreshToken string
}

// LoginOutput returns the generated tokens and the authenticated user.
type LoginOutput struct {
	AccessToken  string
	RefreshToken string
	User         *entity.User
}

// AuthUsecase defines the interface for authentication business operations.
// This is the contract that the delivery layer depends on.
type AuthUsecase interface {
	// Login authenticates an email/password pair and issues a token pair.
	// All credential failures surface as the same 401-class error so the
	// caller cannot tell which check failed.
	Login(ctx context.Context, input LoginInput) (*LoginOutput, error)

	// Refresh validates a refresh token and rotates it into a new pair.
	Refresh(ctx context.Context, input RefreshInput) (*TokenPairOutput, error)

	// Register creates a new account from a public self-registration.
	Register(ctx context.Context, input RegisterInput) (*entity.User, error)

	// UpdateProfile applies a partial self-service profile update and
	// returns the refreshed user.
	UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*entity.User, error)

	// ChangePassword verifies the current password and replaces the hash.
	ChangePassword(ctx context.Context, user *entity.User, input ChangePasswordInput) error
}
