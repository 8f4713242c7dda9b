package domain

import (
	"errors"
	"fmt"
)

var (
	ErrOrderNotFound        = errors.New("order not found")
	ErrOrderClosed          = errors.New("order already closed")
	ErrPaymentNotFound      = errors.New("payment not found")
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrNoActiveSubscription = errors.New("no active subscription")
	ErrVerificationFailed   = errors.New("signature verification failed")
	ErrAdminNotAllowed      = errors.New("admin accounts cannot purchase")
	ErrRefundWindowExpired  = errors.New("refund window expired")
	ErrPricingNotConfigured = errors.New("pricing not configured for product")

	// ErrProviderTimeout marks a provider call that never completed, so
	// the remote state is unknown.
	ErrProviderTimeout = errors.New("payment provider timeout")
)

// ProviderError is a definitive rejection from the payment provider.
type ProviderError struct {
	StatusCode  int
	Code        string
	Description string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider error %d (%s): %s", e.StatusCode, e.Code, e.Description)
}
