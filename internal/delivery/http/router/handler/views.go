// Package handler contains the HTTP handlers for the application.
package handler

import (
	"time"

	"senghor/internal/domain/entity"

	"github.com/google/uuid"
)

// View DTOs decouple the wire format from the domain entities and keep the
// password hash out of every payload.

// TokenView is the token pair returned by login and refresh.
type TokenView struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// PermissionView is the wire form of a permission.
type PermissionView struct {
	ID          uuid.UUID `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category,omitempty"`
}

// RoleView is the wire form of a role.
type RoleView struct {
	ID             uuid.UUID        `json:"id"`
	Code           string           `json:"code"`
	Name           string           `json:"name"`
	Description    string           `json:"description,omitempty"`
	HierarchyLevel int              `json:"hierarchy_level"`
	Active         bool             `json:"active"`
	Permissions    []PermissionView `json:"permissions"`
}

// UserView is the wire form of a user, flattening the effective permission
// codes for frontend convenience.
type UserView struct {
	ID            uuid.UUID  `json:"id"`
	Email         string     `json:"email"`
	LastName      string     `json:"last_name"`
	FirstName     string     `json:"first_name"`
	FullName      string     `json:"full_name"`
	Phone         string     `json:"phone,omitempty"`
	City          string     `json:"city,omitempty"`
	Active        bool       `json:"active"`
	EmailVerified bool       `json:"email_verified"`
	LastLoginAt   *time.Time `json:"last_login_at,omitempty"`
	Roles         []RoleView `json:"roles"`
	Permissions   []string   `json:"permissions"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func newTokenView(accessToken, refreshToken string) TokenView {
	return TokenView{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
	}
}

func newPermissionView(perm *entity.Permission) PermissionView {
	return PermissionView{
		ID:          perm.ID,
		Code:        perm.Code,
		Name:        perm.Name,
		Description: perm.Description,
		Category:    perm.Category,
	}
}

func newRoleView(role *entity.Role) RoleView {
	permissions := make([]PermissionView, 0, len(role.Permissions))
	for i := range role.Permissions {
		permissions = append(permissions, newPermissionView(&role.Permissions[i]))
	}

	return RoleView{
		ID:             role.ID,
		Code:           role.Code,
		Name:           role.Name,
		Description:    role.Description,
		HierarchyLevel: role.HierarchyLevel,
		Active:         role.Active,
		Permissions:    permissions,
	}
}

func newUserView(user *entity.User) UserView {
	roles := make([]RoleView, 0, len(user.Roles))
	for i := range user.Roles {
		roles = append(roles, newRoleView(&user.Roles[i]))
	}

	return UserView{
		ID:            user.ID,
		Email:         user.Email,
		LastName:      user.LastName,
		FirstName:     user.FirstName,
		FullName:      user.FullName(),
		Phone:         user.Phone,
		City:          user.City,
		Active:        user.Active,
		EmailVerified: user.EmailVerified,
		LastLoginAt:   user.LastLoginAt,
		Roles:         roles,
		Permissions:   user.PermissionCodes(),
		CreatedAt:     user.CreatedAt,
		UpdatedAt:     user.UpdatedAt,
	}
}

func newUserViews(users []*entity.User) []UserView {
	views := make([]UserView, 0, len(users))
	for _, user := range users {
		views = append(views, newUserView(user))
	}

	return views
}

func newRoleViews(roles []*entity.Role) []RoleView {
	views := make([]RoleView, 0, len(roles))
	for _, role := range roles {
		views = append(views, newRoleView(role))
	}

	return views
}

func newPermissionViews(permissions []*entity.Permission) []PermissionView {
	views := make([]PermissionView, 0, len(permissions))
	for _, perm := range permissions {
		views = append(views, newPermissionView(perm))
	}

	return views
}
