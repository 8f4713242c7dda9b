// Package domain contains core types for the payment service.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// OrderState is the lifecycle state of a provider order.
type OrderState string

const (
	OrderStateCreated  OrderState = "created"
	OrderStateVerified OrderState = "verified"
	OrderStateFailed   OrderState = "failed"
)

// Order is the local record of a provider checkout order. It starts in
// "created" and moves exactly once to "verified" or "failed".
type Order struct {
	ID            snowflake.ID `gorm:"primaryKey"`
	OrderID       string       `gorm:"column:order_id;type:text;not null;uniqueIndex"`
	ReceiptID     string       `gorm:"column:receipt_id;type:text;not null"`
	UserID        snowflake.ID `gorm:"column:user_id;not null;index"`
	ProductID     string       `gorm:"column:product_id;type:text;not null"`
	Amount        int64        `gorm:"column:amount;not null"`
	Currency      string       `gorm:"column:currency;type:text;not null"`
	State         OrderState   `gorm:"column:state;type:text;not null;default:'created'"`
	FailureReason *string      `gorm:"column:failure_reason;type:text"`
	CreatedAt     time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt     time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Order) TableName() string { return "orders" }

// Payment records a verified capture, either against an order or a
// subscription cycle.
type Payment struct {
	ID             snowflake.ID `gorm:"primaryKey"`
	PaymentID      string       `gorm:"column:payment_id;type:text;not null;uniqueIndex"`
	OrderID        *string      `gorm:"column:order_id;type:text"`
	SubscriptionID *string      `gorm:"column:subscription_id;type:text"`
	UserID         snowflake.ID `gorm:"column:user_id;not null;index"`
	Amount         int64        `gorm:"column:amount;not null"`
	Currency       string       `gorm:"column:currency;type:text;not null"`
	VerifiedAt     time.Time    `gorm:"column:verified_at;not null"`
	CreatedAt      time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Payment) TableName() string { return "payments" }

// SubscriptionStatus tracks a recurring mandate.
type SubscriptionStatus string

const (
	SubscriptionCreated   SubscriptionStatus = "created"
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
)

// Subscription is the local record of a provider subscription. A user
// holds at most one.
type Subscription struct {
	ID             snowflake.ID       `gorm:"primaryKey"`
	SubscriptionID string             `gorm:"column:subscription_id;type:text;not null;uniqueIndex"`
	UserID         snowflake.ID       `gorm:"column:user_id;not null;uniqueIndex"`
	PlanID         string             `gorm:"column:plan_id;type:text;not null"`
	Status         SubscriptionStatus `gorm:"column:status;type:text;not null;default:'created'"`
	CreatedAt      time.Time          `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt      time.Time          `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Subscription) TableName() string { return "subscriptions" }
