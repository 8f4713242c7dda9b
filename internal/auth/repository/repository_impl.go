package repository

import (
	"context"
	"errors"

	"github.com/shresthgour/indiamun-backend/internal/auth/domain"
	"gorm.io/gorm"
)

type repository struct{}

// New returns a gorm-backed auth repository.
func New() domain.Repository {
	return &repository{}
}

func (r *repository) CreateUser(ctx context.Context, db *gorm.DB, user *domain.User) error {
	return db.WithContext(ctx).Create(user).Error
}

func (r *repository) FindUserByEmail(ctx context.Context, db *gorm.DB, email string) (*domain.User, error) {
	var user domain.User
	err := db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *repository) FindUserByID(ctx context.Context, db *gorm.DB, id string) (*domain.User, error) {
	var user domain.User
	err := db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *repository) FindUserByResetTokenHash(ctx context.Context, db *gorm.DB, tokenHash string) (*domain.User, error) {
	var user domain.User
	err := db.WithContext(ctx).
		Where("forgot_password_token_hash = ? AND forgot_password_expiry > CURRENT_TIMESTAMP", tokenHash).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrInvalidResetToken
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *repository) UpdateUser(ctx context.Context, db *gorm.DB, user *domain.User) error {
	return db.WithContext(ctx).Save(user).Error
}
