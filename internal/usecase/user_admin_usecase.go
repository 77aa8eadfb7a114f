package usecase

import (
	"context"

	"senghor/internal/domain/entity"

	"github.com/google/uuid"
)

// ListUsersInput narrows and paginates the administrative user listing.
type ListUsersInput struct {
	Search string
	Active *bool
	RoleID *uuid.UUID
	Page   int
	Size   int
}

// ListUsersOutput is one page of users plus the total match count.
type ListUsersOutput struct {
	Users []*entity.User
	Total int64
	Page  int
	Size  int
}

// CreateUserInput defines the data an administrator provides to create an
// account. Password is optional; without one the account cannot log in
// until a password is set.
type CreateUserInput struct {
	Email         string
	Password      string
	LastName      string
	FirstName     string
	Phone         string
	City          string
	Active        *bool
	EmailVerified *bool
	RoleIDs       []uuid.UUID
}

// UpdateUserInput carries an administrative partial update; nil fields are
// left untouched.
type UpdateUserInput struct {
	Email         *string
	LastName      *string
	FirstName     *string
	Phone         *string
	City          *string
	Active        *bool
	EmailVerified *bool
}

// Bulk actions applicable to a set of accounts.
const (
	BulkActionActivate   = "activate"
	BulkActionDeactivate = "deactivate"
	BulkActionDelete     = "delete"
)

// BulkUserActionInput names one action and the accounts it applies to.
type BulkUserActionInput struct {
	UserIDs []uuid.UUID
	Action  string
}

// ResetPasswordOutput returns the generated temporary password, shown to the
// administrator exactly once.
type ResetPasswordOutput struct {
	TemporaryPassword string
}

// UserAdminUsecase defines the administrative operations on user accounts.
type UserAdminUsecase interface {
	// ListUsers returns a page of users matching the filter.
	ListUsers(ctx context.Context, input ListUsersInput) (*ListUsersOutput, error)

	// GetUser returns a single user with roles and permissions loaded.
	GetUser(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// CreateUser creates an account and assigns its initial roles atomically.
	CreateUser(ctx context.Context, input CreateUserInput, actorID uuid.UUID) (*entity.User, error)

	// UpdateUser applies a partial update and returns the refreshed user.
	UpdateUser(ctx context.Context, id uuid.UUID, input UpdateUserInput) (*entity.User, error)

	// DeleteUser removes the account permanently.
	DeleteUser(ctx context.Context, id uuid.UUID) error

	// ToggleActive flips the account's active flag and returns the
	// refreshed user.
	ToggleActive(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// BulkAction applies one action to many accounts, skipping the ones it
	// cannot process, and returns the number of accounts affected.
	BulkAction(ctx context.Context, input BulkUserActionInput) (int, error)

	// SetRoles replaces the user's role set, auditing who assigned them.
	SetRoles(ctx context.Context, userID uuid.UUID, roleIDs []uuid.UUID, actorID uuid.UUID) (*entity.User, error)

	// ResetPassword generates a temporary password and stores its hash.
	ResetPassword(ctx context.Context, id uuid.UUID) (*ResetPasswordOutput, error)

	// VerifyEmail marks the account's email as verified.
	VerifyEmail(ctx context.Context, id uuid.UUID) error

	// Anonymize blanks personal data and deactivates the account while
	// keeping the row for referential integrity.
	Anonymize(ctx context.Context, id uuid.UUID) error
}
