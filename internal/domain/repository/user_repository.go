// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"
	"time"

	"senghor/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrUserNotFound is a domain-specific error returned when a user is not found.
var ErrUserNotFound = errors.New("user not found")

// UserFilter narrows and paginates user listings.
type UserFilter struct {
	Search string     // Matches email, first name or last name (case-insensitive substring).
	Active *bool      // Filter by active flag when non-nil.
	RoleID *uuid.UUID // Only users holding this role when non-nil.
	Page   int        // 1-based page number.
	Size   int        // Page size.
}

// UserPatch carries a partial update; only non-nil fields are written.
type UserPatch struct {
	Email         *string
	LastName      *string
	FirstName     *string
	Phone         *string
	City          *string
	Active        *bool
	EmailVerified *bool
}

// UserRepository defines the standard operations for user persistence.
// Find methods materialize the full permission-evaluation graph (roles and
// their permissions) in a constant number of queries, so the entity's
// permission checks never trigger follow-up queries.
type UserRepository interface {
	// FindByID retrieves a single user by ID with roles and permissions loaded.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// FindByEmail retrieves a single user by email with roles and permissions loaded.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// List returns a page of users matching the filter plus the total count.
	List(ctx context.Context, filter UserFilter) ([]*entity.User, int64, error)

	// Create persists a new user entity.
	Create(ctx context.Context, user *entity.User) error

	// Update applies the non-nil fields of the patch with a single UPDATE statement.
	Update(ctx context.Context, id uuid.UUID, patch *UserPatch) error

	// Delete removes the user; role associations cascade.
	Delete(ctx context.Context, id uuid.UUID) error

	// SetRoles replaces the user's role set, recording who assigned them.
	SetRoles(ctx context.Context, userID uuid.UUID, roleIDs []uuid.UUID, assignedBy uuid.UUID) error

	// RecordLogin stamps last_login_at.
	RecordLogin(ctx context.Context, id uuid.UUID, at time.Time) error

	// UpdatePassword stores a new password hash; an empty hash clears it.
	UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error

	// Anonymize blanks personal data, clears the password hash and
	// deactivates the account, keeping the row for referential integrity.
	Anonymize(ctx context.Context, id uuid.UUID) error
}
