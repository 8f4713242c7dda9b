package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shresthgour/indiamun-backend/internal/payment/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) InsertOrder(ctx context.Context, db *gorm.DB, order *domain.Order) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO orders (
			id, order_id, receipt_id, user_id, product_id,
			amount, currency, state, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		order.ID,
		order.OrderID,
		order.ReceiptID,
		order.UserID,
		order.ProductID,
		order.Amount,
		order.Currency,
		order.State,
		order.CreatedAt,
		order.UpdatedAt,
	).Error
}

func (r *repo) FindOrderByOrderID(ctx context.Context, db *gorm.DB, orderID string) (*domain.Order, error) {
	var item domain.Order
	err := db.WithContext(ctx).Raw(
		`SELECT id, order_id, receipt_id, user_id, product_id,
			amount, currency, state, failure_reason, created_at, updated_at
		 FROM orders
		 WHERE order_id = ?
		 LIMIT 1`,
		orderID,
	).Scan(&item).Error
	if err != nil {
		return nil, err
	}
	if item.ID == 0 {
		return nil, domain.ErrOrderNotFound
	}
	return &item, nil
}

func (r *repo) MarkOrderVerified(ctx context.Context, db *gorm.DB, orderID string) (bool, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE orders
		 SET state = ?, updated_at = ?
		 WHERE order_id = ? AND state = ?`,
		domain.OrderStateVerified,
		time.Now().UTC(),
		orderID,
		domain.OrderStateCreated,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repo) MarkOrderFailed(ctx context.Context, db *gorm.DB, orderID, reason string) (bool, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE orders
		 SET state = ?, failure_reason = ?, updated_at = ?
		 WHERE order_id = ? AND state = ?`,
		domain.OrderStateFailed,
		reason,
		time.Now().UTC(),
		orderID,
		domain.OrderStateCreated,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repo) InsertPayment(ctx context.Context, db *gorm.DB, payment *domain.Payment) (bool, error) {
	res := db.WithContext(ctx).Exec(
		`INSERT INTO payments (
			id, payment_id, order_id, subscription_id, user_id,
			amount, currency, verified_at, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (payment_id) DO NOTHING`,
		payment.ID,
		payment.PaymentID,
		payment.OrderID,
		payment.SubscriptionID,
		payment.UserID,
		payment.Amount,
		payment.Currency,
		payment.VerifiedAt,
		payment.CreatedAt,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repo) FindPaymentByPaymentID(ctx context.Context, db *gorm.DB, paymentID string) (*domain.Payment, error) {
	return r.findPayment(ctx, db, "payment_id = ?", paymentID)
}

func (r *repo) FindPaymentBySubscriptionID(ctx context.Context, db *gorm.DB, subscriptionID string) (*domain.Payment, error) {
	return r.findPayment(ctx, db, "subscription_id = ?", subscriptionID)
}

func (r *repo) findPayment(ctx context.Context, db *gorm.DB, cond string, arg any) (*domain.Payment, error) {
	var item domain.Payment
	err := db.WithContext(ctx).Raw(
		`SELECT id, payment_id, order_id, subscription_id, user_id,
			amount, currency, verified_at, created_at
		 FROM payments
		 WHERE `+cond+`
		 ORDER BY verified_at DESC
		 LIMIT 1`,
		arg,
	).Scan(&item).Error
	if err != nil {
		return nil, err
	}
	if item.ID == 0 {
		return nil, domain.ErrPaymentNotFound
	}
	return &item, nil
}

func (r *repo) DeletePayment(ctx context.Context, db *gorm.DB, paymentID string) error {
	return db.WithContext(ctx).Exec(
		`DELETE FROM payments WHERE payment_id = ?`,
		paymentID,
	).Error
}

func (r *repo) UpsertSubscription(ctx context.Context, db *gorm.DB, sub *domain.Subscription) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO subscriptions (
			id, subscription_id, user_id, plan_id, status, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			subscription_id = excluded.subscription_id,
			plan_id = excluded.plan_id,
			status = excluded.status,
			updated_at = excluded.updated_at`,
		sub.ID,
		sub.SubscriptionID,
		sub.UserID,
		sub.PlanID,
		sub.Status,
		sub.CreatedAt,
		sub.UpdatedAt,
	).Error
}

func (r *repo) FindSubscriptionByUserID(ctx context.Context, db *gorm.DB, userID snowflake.ID) (*domain.Subscription, error) {
	var item domain.Subscription
	err := db.WithContext(ctx).Raw(
		`SELECT id, subscription_id, user_id, plan_id, status, created_at, updated_at
		 FROM subscriptions
		 WHERE user_id = ?
		 LIMIT 1`,
		userID,
	).Scan(&item).Error
	if err != nil {
		return nil, err
	}
	if item.ID == 0 {
		return nil, domain.ErrSubscriptionNotFound
	}
	return &item, nil
}

func (r *repo) UpdateSubscriptionStatus(ctx context.Context, db *gorm.DB, subscriptionID string, status domain.SubscriptionStatus) error {
	return db.WithContext(ctx).Exec(
		`UPDATE subscriptions
		 SET status = ?, updated_at = ?
		 WHERE subscription_id = ?`,
		status,
		time.Now().UTC(),
		subscriptionID,
	).Error
}

func (r *repo) DeleteSubscription(ctx context.Context, db *gorm.DB, subscriptionID string) error {
	return db.WithContext(ctx).Exec(
		`DELETE FROM subscriptions WHERE subscription_id = ?`,
		subscriptionID,
	).Error
}
