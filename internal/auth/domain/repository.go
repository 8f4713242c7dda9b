package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	CreateUser(ctx context.Context, db *gorm.DB, user *User) error
	FindUserByEmail(ctx context.Context, db *gorm.DB, email string) (*User, error)
	FindUserByID(ctx context.Context, db *gorm.DB, id string) (*User, error)
	FindUserByResetTokenHash(ctx context.Context, db *gorm.DB, tokenHash string) (*User, error)
	UpdateUser(ctx context.Context, db *gorm.DB, user *User) error
}
