package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	InsertOrder(ctx context.Context, db *gorm.DB, order *Order) error
	FindOrderByOrderID(ctx context.Context, db *gorm.DB, orderID string) (*Order, error)
	// MarkOrderVerified moves the order from "created" to "verified" and
	// reports whether this call performed the transition.
	MarkOrderVerified(ctx context.Context, db *gorm.DB, orderID string) (bool, error)
	MarkOrderFailed(ctx context.Context, db *gorm.DB, orderID, reason string) (bool, error)

	// InsertPayment reports whether a new row was written; a duplicate
	// payment_id is absorbed and reported as false.
	InsertPayment(ctx context.Context, db *gorm.DB, payment *Payment) (bool, error)
	FindPaymentByPaymentID(ctx context.Context, db *gorm.DB, paymentID string) (*Payment, error)
	FindPaymentBySubscriptionID(ctx context.Context, db *gorm.DB, subscriptionID string) (*Payment, error)
	DeletePayment(ctx context.Context, db *gorm.DB, paymentID string) error

	UpsertSubscription(ctx context.Context, db *gorm.DB, sub *Subscription) error
	FindSubscriptionByUserID(ctx context.Context, db *gorm.DB, userID snowflake.ID) (*Subscription, error)
	UpdateSubscriptionStatus(ctx context.Context, db *gorm.DB, subscriptionID string, status SubscriptionStatus) error
	DeleteSubscription(ctx context.Context, db *gorm.DB, subscriptionID string) error
}
