package domain

import (
	"context"
	"time"
)

// ProviderOrder is an order created on the payment provider.
type ProviderOrder struct {
	OrderID  string
	Amount   int64
	Currency string
	Receipt  string
	Status   string
}

// ProviderSubscription is a subscription created on the payment provider.
type ProviderSubscription struct {
	SubscriptionID string
	PlanID         string
	Status         string
	ShortURL       string
	StartAt        time.Time
}

// Refund is the provider's acknowledgement of a refund request.
type Refund struct {
	RefundID  string
	PaymentID string
	Amount    int64
	Status    string
}

// Client talks to the payment provider's REST API.
type Client interface {
	CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*ProviderOrder, error)
	CreateSubscription(ctx context.Context, planID string, totalCount int) (*ProviderSubscription, error)
	CancelSubscription(ctx context.Context, subscriptionID string) error
	Refund(ctx context.Context, paymentID string, speed string) (*Refund, error)
	ListSubscriptions(ctx context.Context, count, skip int) ([]ProviderSubscription, error)
	KeyID() string
}
