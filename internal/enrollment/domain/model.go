// Package domain contains core types for course enrollment.
package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Record marks an email as enrolled in a product. The (email,
// product_id) pair is unique, so repeated enrollment is a no-op.
type Record struct {
	ID        snowflake.ID `gorm:"primaryKey"`
	Email     string       `gorm:"column:email;type:text;not null;uniqueIndex:ux_enrollments_email_product"`
	ProductID string       `gorm:"column:product_id;type:text;not null;uniqueIndex:ux_enrollments_email_product"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Record) TableName() string { return "enrollments" }

type Service interface {
	// Enroll records the email for the product. Enrolling twice is not
	// an error.
	Enroll(ctx context.Context, email, productID string) error
	IsEnrolled(ctx context.Context, email, productID string) (bool, error)
	// Enrollments lists every product the email is enrolled in, oldest
	// first.
	Enrollments(ctx context.Context, email string) ([]Record, error)
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, record *Record) (bool, error)
	Exists(ctx context.Context, db *gorm.DB, email, productID string) (bool, error)
	ListByEmail(ctx context.Context, db *gorm.DB, email string) ([]Record, error)
}
