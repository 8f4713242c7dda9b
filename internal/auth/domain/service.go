package domain

import (
	"context"
	"time"
)

type Service interface {
	// Register stages a pending registration and sends a one-time code
	// to the given address. The account is not created until VerifyOTP.
	Register(ctx context.Context, req RegisterRequest) error
	VerifyOTP(ctx context.Context, req VerifyOTPRequest) (*AuthResult, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResult, error)
	CurrentUser(ctx context.Context, userID string) (*User, error)
	// UpdateProfile changes the display name on the account and returns
	// the updated user.
	UpdateProfile(ctx context.Context, userID, fullName string) (*User, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, rawToken, newPassword string) error
	ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error
}

type RegisterRequest struct {
	FullName string
	Email    string
	Password string
}

type VerifyOTPRequest struct {
	Email string
	Code  string
}

type LoginRequest struct {
	Email    string
	Password string
}

// AuthResult is returned after a successful login or OTP verification.
type AuthResult struct {
	User      *User
	Token     string
	ExpiresAt time.Time
}
