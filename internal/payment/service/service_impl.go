package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/shresthgour/indiamun-backend/internal/auth/domain"
	"github.com/shresthgour/indiamun-backend/internal/config"
	enrolldomain "github.com/shresthgour/indiamun-backend/internal/enrollment/domain"
	"github.com/shresthgour/indiamun-backend/internal/notification"
	obsmetrics "github.com/shresthgour/indiamun-backend/internal/observability/metrics"
	paymentdomain "github.com/shresthgour/indiamun-backend/internal/payment/domain"
	"github.com/shresthgour/indiamun-backend/internal/payment/signature"
	"github.com/shresthgour/indiamun-backend/internal/providers/pdf"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	receiptIDMaxLen    = 40
	refundWindow       = 14 * 24 * time.Hour
	refundSpeed        = "optimum"
	subscriptionCycles = 12
	listPageSize       = 100
)

type Params struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	Config       config.Config
	Pricing      *config.PricingHolder
	GenID        *snowflake.Node
	Repo         paymentdomain.Repository
	Users        authdomain.Repository
	Provider     paymentdomain.Client
	Enrollment   enrolldomain.Service
	Notification notification.Dispatcher
	ObsMetrics   *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	cfg          config.Config
	pricing      *config.PricingHolder
	genID        *snowflake.Node
	repo         paymentdomain.Repository
	users        authdomain.Repository
	provider     paymentdomain.Client
	enrollment   enrolldomain.Service
	notification notification.Dispatcher
	obsMetrics   *obsmetrics.Metrics
}

func NewService(p Params) paymentdomain.Service {
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("payment.service"),
		cfg:          p.Config,
		pricing:      p.Pricing,
		genID:        p.GenID,
		repo:         p.Repo,
		users:        p.Users,
		provider:     p.Provider,
		enrollment:   p.Enrollment,
		notification: p.Notification,
		obsMetrics:   p.ObsMetrics,
	}
}

func (s *Service) CheckoutKeyID() string { return s.provider.KeyID() }

func (s *Service) Initiate(ctx context.Context, req paymentdomain.InitiateRequest) (*paymentdomain.CheckoutSession, error) {
	if req.IsAdmin {
		return nil, paymentdomain.ErrAdminNotAllowed
	}

	product, ok := s.pricing.Product(req.ProductID)
	if !ok {
		return nil, paymentdomain.ErrPricingNotConfigured
	}

	receipt := receiptID(req.UserID, time.Now())
	providerOrder, err := s.provider.CreateOrder(ctx, product.Amount, product.Currency, receipt)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	order := &paymentdomain.Order{
		ID:        s.genID.Generate(),
		OrderID:   providerOrder.OrderID,
		ReceiptID: receipt,
		UserID:    req.UserID,
		ProductID: req.ProductID,
		Amount:    product.Amount,
		Currency:  product.Currency,
		State:     paymentdomain.OrderStateCreated,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.InsertOrder(ctx, s.db, order); err != nil {
		return nil, err
	}

	s.log.Info("order created",
		zap.String("order_id", order.OrderID),
		zap.String("user_id", order.UserID.String()),
		zap.String("product_id", order.ProductID),
		zap.Int64("amount", order.Amount),
	)
	return &paymentdomain.CheckoutSession{
		Order:       order,
		KeyID:       s.provider.KeyID(),
		ProductName: product.Name,
	}, nil
}

func (s *Service) HandleCallback(ctx context.Context, req paymentdomain.CallbackRequest) (*paymentdomain.Order, error) {
	order, err := s.repo.FindOrderByOrderID(ctx, s.db, req.OrderID)
	if err != nil {
		return nil, err
	}

	message := signature.OrderMessage(req.OrderID, req.PaymentID)
	valid := signature.Verify(s.cfg.RazorpayKeySecret, message, req.Signature)

	switch order.State {
	case paymentdomain.OrderStateVerified:
		// Replay of a callback already settled. A matching signature is
		// acknowledged, anything else is rejected.
		if valid {
			s.obsMetrics.RecordPayment("replayed")
			return order, nil
		}
		return nil, paymentdomain.ErrVerificationFailed

	case paymentdomain.OrderStateFailed:
		return nil, paymentdomain.ErrOrderClosed
	}

	if !valid {
		if _, err := s.repo.MarkOrderFailed(ctx, s.db, order.OrderID, "signature mismatch"); err != nil {
			return nil, err
		}
		s.log.Warn("callback signature mismatch",
			zap.String("order_id", order.OrderID),
			zap.String("payment_id", req.PaymentID),
		)
		s.obsMetrics.RecordPayment("failed")
		return nil, paymentdomain.ErrVerificationFailed
	}

	now := time.Now().UTC()
	replayed := false
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		moved, err := s.repo.MarkOrderVerified(ctx, tx, order.OrderID)
		if err != nil {
			return err
		}
		if !moved {
			// Lost the race to a concurrent callback. The winner already
			// recorded the payment and ran the side effects.
			current, err := s.repo.FindOrderByOrderID(ctx, tx, order.OrderID)
			if err != nil {
				return err
			}
			if current.State == paymentdomain.OrderStateVerified {
				replayed = true
				return nil
			}
			return paymentdomain.ErrOrderClosed
		}

		orderRef := order.OrderID
		payment := &paymentdomain.Payment{
			ID:         s.genID.Generate(),
			PaymentID:  req.PaymentID,
			OrderID:    &orderRef,
			UserID:     order.UserID,
			Amount:     order.Amount,
			Currency:   order.Currency,
			VerifiedAt: now,
			CreatedAt:  now,
		}
		if _, err := s.repo.InsertPayment(ctx, tx, payment); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	order.State = paymentdomain.OrderStateVerified
	order.UpdatedAt = now
	if replayed {
		s.obsMetrics.RecordPayment("replayed")
		return order, nil
	}
	s.obsMetrics.RecordPayment("verified")
	s.log.Info("order verified",
		zap.String("order_id", order.OrderID),
		zap.String("payment_id", req.PaymentID),
	)

	s.settle(ctx, order, req.PaymentID)
	return order, nil
}

// settle runs the post-verification side effects. They never fail the
// callback: the payment is already captured.
func (s *Service) settle(ctx context.Context, order *paymentdomain.Order, paymentID string) {
	user, err := s.users.FindUserByID(ctx, s.db, order.UserID.String())
	if err != nil {
		s.log.Error("settle: lookup user",
			zap.String("order_id", order.OrderID),
			zap.Error(err),
		)
		return
	}

	if err := s.enrollment.Enroll(ctx, user.Email, order.ProductID); err != nil {
		s.log.Error("settle: enroll",
			zap.String("order_id", order.OrderID),
			zap.String("email", user.Email),
			zap.Error(err),
		)
	}

	productName := order.ProductID
	if product, ok := s.pricing.Product(order.ProductID); ok {
		productName = product.Name
	}
	s.notification.SendReceipt(pdf.ReceiptData{
		ReceiptID:   order.ReceiptID,
		OrderID:     order.OrderID,
		PaymentID:   paymentID,
		CustomerID:  user.ID.String(),
		Email:       user.Email,
		ProductName: productName,
		Amount:      order.Amount,
		Currency:    order.Currency,
		PaidAt:      time.Now().UTC().Format("2006-01-02"),
	})
}

func (s *Service) Subscribe(ctx context.Context, req paymentdomain.SubscribeRequest) (*paymentdomain.SubscribeResult, error) {
	if req.IsAdmin {
		return nil, paymentdomain.ErrAdminNotAllowed
	}

	if existing, err := s.repo.FindSubscriptionByUserID(ctx, s.db, req.UserID); err == nil {
		if existing.Status == paymentdomain.SubscriptionActive {
			return &paymentdomain.SubscribeResult{
				Subscription: existing,
				KeyID:        s.provider.KeyID(),
			}, nil
		}
	} else if !errors.Is(err, paymentdomain.ErrSubscriptionNotFound) {
		return nil, err
	}

	providerSub, err := s.provider.CreateSubscription(ctx, s.cfg.RazorpayPlanID, subscriptionCycles)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	sub := &paymentdomain.Subscription{
		ID:             s.genID.Generate(),
		SubscriptionID: providerSub.SubscriptionID,
		UserID:         req.UserID,
		PlanID:         providerSub.PlanID,
		Status:         paymentdomain.SubscriptionCreated,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.UpsertSubscription(ctx, s.db, sub); err != nil {
		return nil, err
	}

	s.log.Info("subscription created",
		zap.String("subscription_id", sub.SubscriptionID),
		zap.String("user_id", sub.UserID.String()),
	)
	return &paymentdomain.SubscribeResult{
		Subscription: sub,
		KeyID:        s.provider.KeyID(),
		ShortURL:     providerSub.ShortURL,
	}, nil
}

func (s *Service) VerifySubscription(ctx context.Context, req paymentdomain.SubscriptionCallbackRequest) (*paymentdomain.Subscription, error) {
	message := signature.SubscriptionMessage(req.PaymentID, req.SubscriptionID)
	if !signature.Verify(s.cfg.RazorpayKeySecret, message, req.Signature) {
		return nil, paymentdomain.ErrVerificationFailed
	}

	sub, err := s.repo.FindSubscriptionByUserID(ctx, s.db, req.UserID)
	if err != nil {
		return nil, err
	}
	if sub.SubscriptionID != req.SubscriptionID {
		return nil, paymentdomain.ErrSubscriptionNotFound
	}

	// The callback payload is not trusted for money fields; the plan
	// price is what was actually charged.
	plan, ok := s.pricing.SubscriptionPlan()
	if !ok {
		return nil, paymentdomain.ErrPricingNotConfigured
	}

	now := time.Now().UTC()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		subRef := sub.SubscriptionID
		payment := &paymentdomain.Payment{
			ID:             s.genID.Generate(),
			PaymentID:      req.PaymentID,
			SubscriptionID: &subRef,
			UserID:         req.UserID,
			Amount:         plan.Amount,
			Currency:       plan.Currency,
			VerifiedAt:     now,
			CreatedAt:      now,
		}
		if _, err := s.repo.InsertPayment(ctx, tx, payment); err != nil {
			return err
		}
		return s.repo.UpdateSubscriptionStatus(ctx, tx, sub.SubscriptionID, paymentdomain.SubscriptionActive)
	})
	if err != nil {
		return nil, err
	}

	sub.Status = paymentdomain.SubscriptionActive
	sub.UpdatedAt = now
	s.log.Info("subscription activated",
		zap.String("subscription_id", sub.SubscriptionID),
		zap.String("payment_id", req.PaymentID),
	)
	return sub, nil
}

func (s *Service) Cancel(ctx context.Context, req paymentdomain.CancelRequest) (*paymentdomain.CancelResult, error) {
	if req.IsAdmin {
		return nil, paymentdomain.ErrAdminNotAllowed
	}

	sub, err := s.repo.FindSubscriptionByUserID(ctx, s.db, req.UserID)
	if errors.Is(err, paymentdomain.ErrSubscriptionNotFound) {
		return nil, paymentdomain.ErrNoActiveSubscription
	}
	if err != nil {
		return nil, err
	}
	if sub.Status != paymentdomain.SubscriptionActive {
		return nil, paymentdomain.ErrNoActiveSubscription
	}

	if err := s.provider.CancelSubscription(ctx, sub.SubscriptionID); err != nil {
		return nil, err
	}

	payment, err := s.repo.FindPaymentBySubscriptionID(ctx, s.db, sub.SubscriptionID)
	if errors.Is(err, paymentdomain.ErrPaymentNotFound) {
		if err := s.repo.UpdateSubscriptionStatus(ctx, s.db, sub.SubscriptionID, paymentdomain.SubscriptionCancelled); err != nil {
			return nil, err
		}
		return &paymentdomain.CancelResult{Refunded: false}, nil
	}
	if err != nil {
		return nil, err
	}

	if time.Since(payment.VerifiedAt) >= refundWindow {
		if err := s.repo.UpdateSubscriptionStatus(ctx, s.db, sub.SubscriptionID, paymentdomain.SubscriptionCancelled); err != nil {
			return nil, err
		}
		return nil, paymentdomain.ErrRefundWindowExpired
	}

	refund, err := s.provider.Refund(ctx, payment.PaymentID, refundSpeed)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.DeletePayment(ctx, tx, payment.PaymentID); err != nil {
			return err
		}
		return s.repo.DeleteSubscription(ctx, tx, sub.SubscriptionID)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("subscription cancelled and refunded",
		zap.String("subscription_id", sub.SubscriptionID),
		zap.String("refund_id", refund.RefundID),
	)
	return &paymentdomain.CancelResult{Refunded: true, RefundID: refund.RefundID}, nil
}

func (s *Service) ActiveSubscription(ctx context.Context, userID snowflake.ID) (*paymentdomain.Subscription, error) {
	sub, err := s.repo.FindSubscriptionByUserID(ctx, s.db, userID)
	if errors.Is(err, paymentdomain.ErrSubscriptionNotFound) {
		return nil, paymentdomain.ErrNoActiveSubscription
	}
	if err != nil {
		return nil, err
	}
	if sub.Status != paymentdomain.SubscriptionActive {
		return nil, paymentdomain.ErrNoActiveSubscription
	}
	return sub, nil
}

func (s *Service) MonthlyReport(ctx context.Context) (*paymentdomain.MonthlyReport, error) {
	counts := map[string]int{}
	total := 0

	for skip := 0; ; skip += listPageSize {
		batch, err := s.provider.ListSubscriptions(ctx, listPageSize, skip)
		if err != nil {
			return nil, err
		}
		for _, sub := range batch {
			if sub.StartAt.IsZero() {
				continue
			}
			counts[sub.StartAt.Format("2006-01")]++
			total++
		}
		if len(batch) < listPageSize {
			break
		}
	}

	months := make([]paymentdomain.MonthlyCount, 0, len(counts))
	for month, count := range counts {
		months = append(months, paymentdomain.MonthlyCount{Month: month, Count: count})
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Month < months[j].Month })

	return &paymentdomain.MonthlyReport{Total: total, Months: months}, nil
}

// receiptID builds a provider receipt reference. The provider caps
// receipts at 40 characters.
func receiptID(userID snowflake.ID, now time.Time) string {
	receipt := fmt.Sprintf("order_%s_%d", userID.String(), now.UnixMilli())
	if len(receipt) > receiptIDMaxLen {
		receipt = receipt[:receiptIDMaxLen]
	}
	return receipt
}
