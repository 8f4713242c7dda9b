package repository

import (
	"context"

	"github.com/shresthgour/indiamun-backend/internal/enrollment/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, record *domain.Record) (bool, error) {
	res := db.WithContext(ctx).Exec(
		`INSERT INTO enrollments (id, email, product_id, created_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (email, product_id) DO NOTHING`,
		record.ID,
		record.Email,
		record.ProductID,
		record.CreatedAt,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repo) Exists(ctx context.Context, db *gorm.DB, email, productID string) (bool, error) {
	var count int64
	err := db.WithContext(ctx).Raw(
		`SELECT COUNT(1) FROM enrollments WHERE email = ? AND product_id = ?`,
		email,
		productID,
	).Scan(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repo) ListByEmail(ctx context.Context, db *gorm.DB, email string) ([]domain.Record, error) {
	var records []domain.Record
	err := db.WithContext(ctx).Raw(
		`SELECT id, email, product_id, created_at
		 FROM enrollments WHERE email = ? ORDER BY created_at`,
		email,
	).Scan(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}
