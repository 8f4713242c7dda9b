// Package signature implements the HMAC-SHA256 callback signatures used
// by the payment provider.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// OrderMessage is the signing payload for a one-off checkout callback.
func OrderMessage(orderID, paymentID string) string {
	return orderID + "|" + paymentID
}

// SubscriptionMessage is the signing payload for a subscription cycle
// callback.
func SubscriptionMessage(paymentID, subscriptionID string) string {
	return paymentID + "|" + subscriptionID
}

// Sign returns the hex-encoded HMAC-SHA256 of message under secret.
func Sign(secret, message string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(message))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify checks a provided signature against the expected one in
// constant time.
func Verify(secret, message, provided string) bool {
	expected := Sign(secret, message)
	return hmac.Equal([]byte(expected), []byte(provided))
}
