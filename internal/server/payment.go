package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	paymentdomain "github.com/shresthgour/indiamun-backend/internal/payment/domain"
)

// CheckoutKey exposes the provider's public key for the checkout
// widget.
func (s *Server) CheckoutKey(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"key": s.paymentSvc.CheckoutKeyID()})
}

type createOrderRequest struct {
	ProductID string `json:"product_id" binding:"required"`
}

func (s *Server) CreateOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	userID, err := currentUserID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	session, err := s.paymentSvc.Initiate(c.Request.Context(), paymentdomain.InitiateRequest{
		UserID:    userID,
		IsAdmin:   isAdmin(c),
		ProductID: req.ProductID,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"key":      session.KeyID,
		"product":  session.ProductName,
		"order_id": session.Order.OrderID,
		"amount":   session.Order.Amount,
		"currency": session.Order.Currency,
		"receipt":  session.Order.ReceiptID,
	})
}

type callbackRequest struct {
	OrderID   string `json:"razorpay_order_id" binding:"required"`
	PaymentID string `json:"razorpay_payment_id" binding:"required"`
	Signature string `json:"razorpay_signature" binding:"required"`
}

func (s *Server) Callback(c *gin.Context) {
	var req callbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	order, err := s.paymentSvc.HandleCallback(c.Request.Context(), paymentdomain.CallbackRequest{
		OrderID:   req.OrderID,
		PaymentID: req.PaymentID,
		Signature: req.Signature,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order_id": order.OrderID,
		"state":    order.State,
	})
}

func (s *Server) Subscribe(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	result, err := s.paymentSvc.Subscribe(c.Request.Context(), paymentdomain.SubscribeRequest{
		UserID:  userID,
		IsAdmin: isAdmin(c),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"key":             result.KeyID,
		"subscription_id": result.Subscription.SubscriptionID,
		"status":          result.Subscription.Status,
		"short_url":       result.ShortURL,
	})
}

type verifySubscriptionRequest struct {
	PaymentID      string `json:"razorpay_payment_id" binding:"required"`
	SubscriptionID string `json:"razorpay_subscription_id" binding:"required"`
	Signature      string `json:"razorpay_signature" binding:"required"`
}

func (s *Server) VerifySubscription(c *gin.Context) {
	var req verifySubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	userID, err := currentUserID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	sub, err := s.paymentSvc.VerifySubscription(c.Request.Context(), paymentdomain.SubscriptionCallbackRequest{
		UserID:         userID,
		PaymentID:      req.PaymentID,
		SubscriptionID: req.SubscriptionID,
		Signature:      req.Signature,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"subscription_id": sub.SubscriptionID,
		"status":          sub.Status,
	})
}

func (s *Server) Cancel(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	result, err := s.paymentSvc.Cancel(c.Request.Context(), paymentdomain.CancelRequest{
		UserID:  userID,
		IsAdmin: isAdmin(c),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cancelled": true,
		"refunded":  result.Refunded,
		"refund_id": result.RefundID,
	})
}

// EnrollmentStatus reports whether the caller is enrolled in a product.
func (s *Server) EnrollmentStatus(c *gin.Context) {
	productID := c.Param("product_id")

	user, err := s.authSvc.CurrentUser(c.Request.Context(), c.GetString(ctxUserID))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	enrolled, err := s.enrollmentSvc.IsEnrolled(c.Request.Context(), user.Email, productID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product_id": productID,
		"enrolled":   enrolled,
	})
}

func (s *Server) MonthlyReport(c *gin.Context) {
	report, err := s.paymentSvc.MonthlyReport(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}
