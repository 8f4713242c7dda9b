package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	// Initiate creates a provider order for the product and records it
	// locally in the "created" state.
	Initiate(ctx context.Context, req InitiateRequest) (*CheckoutSession, error)
	// HandleCallback verifies the checkout callback signature and moves
	// the order to its terminal state. Replays of an already verified
	// callback succeed without side effects.
	HandleCallback(ctx context.Context, req CallbackRequest) (*Order, error)
	Subscribe(ctx context.Context, req SubscribeRequest) (*SubscribeResult, error)
	VerifySubscription(ctx context.Context, req SubscriptionCallbackRequest) (*Subscription, error)
	// Cancel cancels the requester's subscription and refunds the last
	// cycle when it is under two weeks old.
	Cancel(ctx context.Context, req CancelRequest) (*CancelResult, error)
	ActiveSubscription(ctx context.Context, userID snowflake.ID) (*Subscription, error)
	MonthlyReport(ctx context.Context) (*MonthlyReport, error)
	CheckoutKeyID() string
}

type InitiateRequest struct {
	UserID    snowflake.ID
	IsAdmin   bool
	ProductID string
}

// CheckoutSession carries everything the frontend needs to open the
// provider's checkout widget.
type CheckoutSession struct {
	Order       *Order
	KeyID       string
	ProductName string
}

type CallbackRequest struct {
	OrderID   string
	PaymentID string
	Signature string
}

type SubscribeRequest struct {
	UserID  snowflake.ID
	IsAdmin bool
}

type SubscribeResult struct {
	Subscription *Subscription
	KeyID        string
	ShortURL     string
}

// SubscriptionCallbackRequest carries the provider callback for a
// recurring charge. The amount recorded against it comes from the
// configured plan price, never from the caller.
type SubscriptionCallbackRequest struct {
	UserID         snowflake.ID
	PaymentID      string
	SubscriptionID string
	Signature      string
}

type CancelRequest struct {
	UserID  snowflake.ID
	IsAdmin bool
}

type CancelResult struct {
	Refunded bool
	RefundID string
}

// MonthlyCount is the number of subscriptions started in a month.
type MonthlyCount struct {
	Month string `json:"month"` // YYYY-MM
	Count int    `json:"count"`
}

type MonthlyReport struct {
	Total  int            `json:"total"`
	Months []MonthlyCount `json:"months"`
}
