package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	authdomain "github.com/shresthgour/indiamun-backend/internal/auth/domain"
	paymentdomain "github.com/shresthgour/indiamun-backend/internal/payment/domain"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

// ErrorHandlingMiddleware translates errors pushed onto the gin context
// into a JSON error envelope.
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	var provErr *paymentdomain.ProviderError
	if errors.As(err, &provErr) {
		return http.StatusBadGateway, errorPayload{
			Type:    "provider_error",
			Message: provErr.Description,
		}
	}

	switch {
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, authdomain.ErrInvalidCredentials),
		errors.Is(err, authdomain.ErrInvalidToken):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "unauthorized",
		}
	case errors.Is(err, ErrForbidden),
		errors.Is(err, paymentdomain.ErrAdminNotAllowed):
		return http.StatusForbidden, errorPayload{
			Type:    "forbidden",
			Message: "forbidden",
		}
	case errors.Is(err, authdomain.ErrUserExists):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "user already exists",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case errors.Is(err, authdomain.ErrInvalidOTP):
		return http.StatusBadRequest, errorPayload{
			Type:    "invalid_otp",
			Message: "invalid or expired otp",
		}
	case errors.Is(err, authdomain.ErrInvalidResetToken):
		return http.StatusBadRequest, errorPayload{
			Type:    "invalid_reset_token",
			Message: "invalid or expired reset token",
		}
	case errors.Is(err, paymentdomain.ErrVerificationFailed):
		return http.StatusBadRequest, errorPayload{
			Type:    "verification_failed",
			Message: "signature verification failed",
		}
	case errors.Is(err, paymentdomain.ErrOrderClosed):
		return http.StatusBadRequest, errorPayload{
			Type:    "order_closed",
			Message: "order already closed",
		}
	case errors.Is(err, paymentdomain.ErrRefundWindowExpired):
		return http.StatusBadRequest, errorPayload{
			Type:    "refund_window_expired",
			Message: "refund window expired",
		}
	case errors.Is(err, paymentdomain.ErrNoActiveSubscription):
		return http.StatusBadRequest, errorPayload{
			Type:    "no_active_subscription",
			Message: "no active subscription",
		}
	case errors.Is(err, paymentdomain.ErrPricingNotConfigured):
		return http.StatusBadRequest, errorPayload{
			Type:    "pricing_not_configured",
			Message: "pricing not configured for product",
		}
	case errors.Is(err, paymentdomain.ErrProviderTimeout):
		return http.StatusGatewayTimeout, errorPayload{
			Type:    "provider_timeout",
			Message: "payment provider timeout",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, authdomain.ErrUserNotFound),
		errors.Is(err, paymentdomain.ErrOrderNotFound),
		errors.Is(err, paymentdomain.ErrPaymentNotFound),
		errors.Is(err, paymentdomain.ErrSubscriptionNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}
