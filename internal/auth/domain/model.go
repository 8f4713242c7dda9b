// Package domain contains core types for the auth service.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Role distinguishes administrative accounts from regular users.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// User represents a registered account.
type User struct {
	ID                      snowflake.ID      `gorm:"primaryKey"`
	FullName                string            `gorm:"column:full_name;type:text;not null"`
	Email                   string            `gorm:"column:email;type:text;not null;uniqueIndex"`
	PasswordHash            string            `gorm:"column:password_hash;type:text;not null"`
	Role                    Role              `gorm:"column:role;type:text;not null;default:'USER'"`
	ForgotPasswordTokenHash *string           `gorm:"column:forgot_password_token_hash;type:text"`
	ForgotPasswordExpiry    *time.Time        `gorm:"column:forgot_password_expiry"`
	Metadata                datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'"`
	CreatedAt               time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt               time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (User) TableName() string { return "users" }

// IsAdmin reports whether the account has the administrative role.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }
