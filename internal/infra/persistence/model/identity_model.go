// Package model contains the GORM persistence models mirroring the database schema.
package model

import (
	"time"

	"github.com/google/uuid"
)

// UserModel mirrors the 'users' table. PostgreSQL generates UUIDs via gen_random_uuid().
type UserModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Email         string    `gorm:"type:varchar(255);unique;not null"`
	PasswordHash  *string   `gorm:"type:varchar(255)"`
	LastName      string    `gorm:"type:varchar(100);not null"`
	FirstName     string    `gorm:"type:varchar(100);not null"`
	Phone         string    `gorm:"type:varchar(30)"`
	City          string    `gorm:"type:varchar(100)"`
	Active        bool      `gorm:"not null;default:true"`
	EmailVerified bool      `gorm:"not null;default:false"`
	LastLoginAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Roles []RoleModel `gorm:"many2many:user_roles;joinForeignKey:UserID;joinReferences:RoleID"`
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}

// RoleModel mirrors the 'roles' table.
type RoleModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Code           string    `gorm:"type:varchar(50);unique;not null"`
	Name           string    `gorm:"type:varchar(100);not null"`
	Description    string    `gorm:"type:text"`
	HierarchyLevel int       `gorm:"not null;default:0"`
	Active         bool      `gorm:"not null;default:true"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Permissions []PermissionModel `gorm:"many2many:role_permissions;joinForeignKey:RoleID;joinReferences:PermissionID"`
	Users       []UserModel       `gorm:"many2many:user_roles;joinForeignKey:RoleID;joinReferences:UserID"`
}

// TableName explicitly sets the table name for GORM.
func (RoleModel) TableName() string {
	return "roles"
}

// PermissionModel mirrors the 'permissions' table.
type PermissionModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Code        string    `gorm:"type:varchar(50);unique;not null"`
	Name        string    `gorm:"type:varchar(100);not null"`
	Description string    `gorm:"type:text"`
	Category    string    `gorm:"type:varchar(50)"`
	CreatedAt   time.Time
}

// TableName explicitly sets the table name for GORM.
func (PermissionModel) TableName() string {
	return "permissions"
}

// UserRoleModel mirrors the 'user_roles' junction table. AssignedAt and
// AssignedBy are auditing metadata only; authorization never consults them.
type UserRoleModel struct {
	UserID     uuid.UUID  `gorm:"type:uuid;primaryKey"`
	RoleID     uuid.UUID  `gorm:"type:uuid;primaryKey"`
	AssignedAt time.Time  `gorm:"not null;default:now()"`
	AssignedBy *uuid.UUID `gorm:"type:uuid"`
}

// TableName explicitly sets the table name for GORM.
func (UserRoleModel) TableName() string {
	return "user_roles"
}

// RolePermissionModel mirrors the 'role_permissions' junction table.
type RolePermissionModel struct {
	RoleID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	PermissionID uuid.UUID `gorm:"type:uuid;primaryKey"`
}

// TableName explicitly sets the table name for GORM.
func (RolePermissionModel) TableName() string {
	return "role_permissions"
}
