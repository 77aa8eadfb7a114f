// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"
	"time"

	"senghor/internal/domain/entity"
	domainerrors "senghor/internal/domain/errors"
	"senghor/internal/domain/repository"
	"senghor/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// userRepository implements the domain.UserRepository interface using GORM.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository is the constructor for userRepository.
// It returns the repository as a domain.UserRepository interface, adhering to dependency inversion.
func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepository{db: db}
}

// FindByID retrieves a single user by their unique ID.
// Roles and their permissions are preloaded so authorization checks on the
// returned entity never go back to the database.
func (repo *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var userM model.UserModel
	err := repo.db.WithContext(ctx).
		Preload("Roles.Permissions").
		First(&userM, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user by id")
	}

	return toUserDomain(&userM), nil
}

// FindByEmail retrieves a single user by their email address, preloading roles and permissions.
func (repo *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var userM model.UserModel
	err := repo.db.WithContext(ctx).
		Preload("Roles.Permissions").
		First(&userM, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user by email")
	}

	return toUserDomain(&userM), nil
}

// List returns a page of users matching the filter plus the total count before pagination.
func (repo *userRepository) List(ctx context.Context, filter repository.UserFilter) ([]*entity.User, int64, error) {
	query := repo.db.WithContext(ctx).Model(&model.UserModel{})

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("email ILIKE ? OR first_name ILIKE ? OR last_name ILIKE ?", pattern, pattern, pattern)
	}
	if filter.Active != nil {
		query = query.Where("active = ?", *filter.Active)
	}
	if filter.RoleID != nil {
		query = query.Where("id IN (SELECT user_id FROM user_roles WHERE role_id = ?)", *filter.RoleID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to count users")
	}

	var userMs []model.UserModel
	err := query.
		Preload("Roles.Permissions").
		Order("last_name, first_name").
		Offset(pageOffset(filter.Page, filter.Size)).
		Limit(pageLimit(filter.Size)).
		Find(&userMs).Error
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to list users")
	}

	users := make([]*entity.User, 0, len(userMs))
	for i := range userMs {
		users = append(users, toUserDomain(&userMs[i]))
	}

	return users, total, nil
}

// Create persists a new user entity. The database fills the ID and
// timestamps, which are written back onto the entity.
func (repo *userRepository) Create(ctx context.Context, user *entity.User) error {
	userM := fromUserDomain(user)

	// Role links are managed explicitly through SetRoles; association writes
	// here would bypass the assigned_by audit column.
	if err := repo.db.WithContext(ctx).Omit("Roles").Create(userM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrEmailAlreadyExists
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WithDetails("missing required user information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create user")
	}

	user.ID = userM.ID
	user.CreatedAt = userM.CreatedAt
	user.UpdatedAt = userM.UpdatedAt

	return nil
}

// Update applies the non-nil fields of the patch with a single UPDATE statement.
func (repo *userRepository) Update(ctx context.Context, id uuid.UUID, patch *repository.UserPatch) error {
	values := map[string]any{}
	if patch.Email != nil {
		values["email"] = *patch.Email
	}
	if patch.LastName != nil {
		values["last_name"] = *patch.LastName
	}
	if patch.FirstName != nil {
		values["first_name"] = *patch.FirstName
	}
	if patch.Phone != nil {
		values["phone"] = *patch.Phone
	}
	if patch.City != nil {
		values["city"] = *patch.City
	}
	if patch.Active != nil {
		values["active"] = *patch.Active
	}
	if patch.EmailVerified != nil {
		values["email_verified"] = *patch.EmailVerified
	}
	if len(values) == 0 {
		return nil
	}
	values["updated_at"] = time.Now()

	result := repo.db.WithContext(ctx).Model(&model.UserModel{}).Where("id = ?", id).Updates(values)
	if result.Error != nil {
		if isUniqueConstraintViolation(result.Error) {
			return domainerrors.ErrEmailAlreadyExists
		}

		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update user")
	}
	if result.RowsAffected == 0 {
		return repository.ErrUserNotFound
	}

	return nil
}

// Delete removes the user row; junction rows cascade at the database level.
func (repo *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).Delete(&model.UserModel{}, "id = ?", id)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete user")
	}
	if result.RowsAffected == 0 {
		return repository.ErrUserNotFound
	}

	return nil
}

// SetRoles replaces the user's role set, stamping each link with the
// administrator who performed the assignment.
func (repo *userRepository) SetRoles(ctx context.Context, userID uuid.UUID, roleIDs []uuid.UUID, assignedBy uuid.UUID) error {
	db := repo.db.WithContext(ctx)

	if err := db.Delete(&model.UserRoleModel{}, "user_id = ?", userID).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to clear user roles")
	}

	if len(roleIDs) == 0 {
		return nil
	}

	now := time.Now()
	links := make([]model.UserRoleModel, 0, len(roleIDs))
	for _, roleID := range roleIDs {
		links = append(links, model.UserRoleModel{
			UserID:     userID,
			RoleID:     roleID,
			AssignedAt: now,
			AssignedBy: &assignedBy,
		})
	}

	if err := db.Create(&links).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrRoleNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to assign user roles")
	}

	return nil
}

// RecordLogin stamps last_login_at after a successful authentication.
func (repo *userRepository) RecordLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	err := repo.db.WithContext(ctx).
		Model(&model.UserModel{}).
		Where("id = ?", id).
		Update("last_login_at", at).Error
	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to record login")
	}

	return nil
}

// UpdatePassword stores a new password hash; an empty hash clears it,
// leaving the account unable to log in until reconfigured.
func (repo *userRepository) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	var value *string
	if hash != "" {
		value = &hash
	}

	result := repo.db.WithContext(ctx).
		Model(&model.UserModel{}).
		Where("id = ?", id).
		Update("password_hash", value)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update password")
	}
	if result.RowsAffected == 0 {
		return repository.ErrUserNotFound
	}

	return nil
}

// Anonymize blanks personal data and deactivates the account while keeping
// the row so foreign references stay intact.
func (repo *userRepository) Anonymize(ctx context.Context, id uuid.UUID) error {
	values := map[string]any{
		"email":          "anonyme-" + id.String() + "@invalid.local",
		"password_hash":  nil,
		"last_name":      "Anonyme",
		"first_name":     "Compte",
		"phone":          "",
		"city":           "",
		"active":         false,
		"email_verified": false,
		"updated_at":     time.Now(),
	}

	result := repo.db.WithContext(ctx).Model(&model.UserModel{}).Where("id = ?", id).Updates(values)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to anonymize user")
	}
	if result.RowsAffected == 0 {
		return repository.ErrUserNotFound
	}

	return nil
}
