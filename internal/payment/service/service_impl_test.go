package service_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	authdomain "github.com/shresthgour/indiamun-backend/internal/auth/domain"
	authrepo "github.com/shresthgour/indiamun-backend/internal/auth/repository"
	"github.com/shresthgour/indiamun-backend/internal/config"
	enrolldomain "github.com/shresthgour/indiamun-backend/internal/enrollment/domain"
	enrollrepo "github.com/shresthgour/indiamun-backend/internal/enrollment/repository"
	enrollservice "github.com/shresthgour/indiamun-backend/internal/enrollment/service"
	paymentdomain "github.com/shresthgour/indiamun-backend/internal/payment/domain"
	paymentrepo "github.com/shresthgour/indiamun-backend/internal/payment/repository"
	paymentservice "github.com/shresthgour/indiamun-backend/internal/payment/service"
	"github.com/shresthgour/indiamun-backend/internal/payment/signature"
	"github.com/shresthgour/indiamun-backend/internal/providers/pdf"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const testSecret = "rzp_test_secret"

type fakeProvider struct {
	mu            sync.Mutex
	orderSeq      int
	subSeq        int
	cancelled     []string
	refunded      []string
	subscriptions []paymentdomain.ProviderSubscription
	orderErr      error
}

func (f *fakeProvider) CreateOrder(_ context.Context, amount int64, currency, receipt string) (*paymentdomain.ProviderOrder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.orderErr != nil {
		return nil, f.orderErr
	}
	f.orderSeq++
	return &paymentdomain.ProviderOrder{
		OrderID:  fmt.Sprintf("order_FAKE%03d", f.orderSeq),
		Amount:   amount,
		Currency: currency,
		Receipt:  receipt,
		Status:   "created",
	}, nil
}

func (f *fakeProvider) CreateSubscription(_ context.Context, planID string, totalCount int) (*paymentdomain.ProviderSubscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subSeq++
	return &paymentdomain.ProviderSubscription{
		SubscriptionID: fmt.Sprintf("sub_FAKE%03d", f.subSeq),
		PlanID:         planID,
		Status:         "created",
		ShortURL:       "https://rzp.io/i/fake",
	}, nil
}

func (f *fakeProvider) CancelSubscription(_ context.Context, subscriptionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancelled = append(f.cancelled, subscriptionID)
	return nil
}

func (f *fakeProvider) Refund(_ context.Context, paymentID string, speed string) (*paymentdomain.Refund, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if speed != "optimum" {
		return nil, fmt.Errorf("unexpected refund speed %s", speed)
	}
	f.refunded = append(f.refunded, paymentID)
	return &paymentdomain.Refund{RefundID: "rfnd_FAKE1", PaymentID: paymentID, Status: "processed"}, nil
}

func (f *fakeProvider) ListSubscriptions(_ context.Context, count, skip int) ([]paymentdomain.ProviderSubscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if skip >= len(f.subscriptions) {
		return nil, nil
	}
	end := skip + count
	if end > len(f.subscriptions) {
		end = len(f.subscriptions)
	}
	return f.subscriptions[skip:end], nil
}

func (f *fakeProvider) KeyID() string { return "rzp_test_key" }

type recordDispatcher struct {
	mu       sync.Mutex
	receipts []pdf.ReceiptData
}

func (r *recordDispatcher) SendReceipt(data pdf.ReceiptData) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.receipts = append(r.receipts, data)
}

func (r *recordDispatcher) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.receipts)
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:memdb_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	err = db.AutoMigrate(
		&authdomain.User{},
		&paymentdomain.Order{},
		&paymentdomain.Payment{},
		&paymentdomain.Subscription{},
		&enrolldomain.Record{},
	)
	if err != nil {
		t.Fatalf("migrate schema: %v", err)
	}
	return db
}

type fixture struct {
	db       *gorm.DB
	svc      paymentdomain.Service
	repo     paymentdomain.Repository
	provider *fakeProvider
	dispatch *recordDispatcher
	user     *authdomain.User
	node     *snowflake.Node
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := setupTestDB(t)
	node, err := snowflake.NewNode(9)
	if err != nil {
		t.Fatalf("new node: %v", err)
	}

	users := authrepo.New()
	user := &authdomain.User{
		ID:           node.Generate(),
		FullName:     "Asha Rao",
		Email:        "asha@example.com",
		PasswordHash: "x",
		Role:         authdomain.RoleUser,
	}
	if err := users.CreateUser(context.Background(), db, user); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	enrollSvc := enrollservice.NewService(enrollservice.Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  enrollrepo.Provide(),
	})

	provider := &fakeProvider{}
	dispatch := &recordDispatcher{}
	repo := paymentrepo.Provide()
	svc := paymentservice.NewService(paymentservice.Params{
		DB:           db,
		Log:          zap.NewNop(),
		Config:       config.Config{RazorpayKeySecret: testSecret, RazorpayPlanID: "plan_TEST"},
		Pricing:      config.NewStaticPricingHolder(config.DefaultPricingConfig()),
		GenID:        node,
		Repo:         repo,
		Users:        users,
		Provider:     provider,
		Enrollment:   enrollSvc,
		Notification: dispatch,
	})

	return &fixture{
		db:       db,
		svc:      svc,
		repo:     repo,
		provider: provider,
		dispatch: dispatch,
		user:     user,
		node:     node,
	}
}

func (f *fixture) initiate(t *testing.T, productID string) *paymentdomain.Order {
	t.Helper()
	session, err := f.svc.Initiate(context.Background(), paymentdomain.InitiateRequest{
		UserID:    f.user.ID,
		ProductID: productID,
	})
	if err != nil {
		t.Fatalf("initiate: %v", err)
	}
	return session.Order
}

func signCallback(orderID, paymentID string) string {
	return signature.Sign(testSecret, signature.OrderMessage(orderID, paymentID))
}

func TestInitiateCreatesOrder(t *testing.T) {
	f := newFixture(t)

	session, err := f.svc.Initiate(context.Background(), paymentdomain.InitiateRequest{
		UserID:    f.user.ID,
		ProductID: "ylp",
	})
	if err != nil {
		t.Fatalf("initiate: %v", err)
	}

	if session.KeyID != "rzp_test_key" {
		t.Fatalf("key id = %s", session.KeyID)
	}
	if session.Order.State != paymentdomain.OrderStateCreated {
		t.Fatalf("state = %s, want created", session.Order.State)
	}
	if !strings.HasPrefix(session.Order.ReceiptID, "order_") {
		t.Fatalf("receipt = %s", session.Order.ReceiptID)
	}
	if len(session.Order.ReceiptID) > 40 {
		t.Fatalf("receipt longer than 40 chars: %s", session.Order.ReceiptID)
	}

	stored, err := f.repo.FindOrderByOrderID(context.Background(), f.db, session.Order.OrderID)
	if err != nil {
		t.Fatalf("find order: %v", err)
	}
	if stored.Amount != 250000 || stored.Currency != "INR" {
		t.Fatalf("stored order %+v", stored)
	}
}

func TestInitiateRejectsAdmin(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Initiate(context.Background(), paymentdomain.InitiateRequest{
		UserID:    f.user.ID,
		IsAdmin:   true,
		ProductID: "ylp",
	})
	if !errors.Is(err, paymentdomain.ErrAdminNotAllowed) {
		t.Fatalf("err = %v, want ErrAdminNotAllowed", err)
	}
}

func TestInitiateUnknownProduct(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Initiate(context.Background(), paymentdomain.InitiateRequest{
		UserID:    f.user.ID,
		ProductID: "nope",
	})
	if !errors.Is(err, paymentdomain.ErrPricingNotConfigured) {
		t.Fatalf("err = %v, want ErrPricingNotConfigured", err)
	}
}

func TestHandleCallbackVerifiesOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	order := f.initiate(t, "ylp")

	result, err := f.svc.HandleCallback(ctx, paymentdomain.CallbackRequest{
		OrderID:   order.OrderID,
		PaymentID: "pay_001",
		Signature: signCallback(order.OrderID, "pay_001"),
	})
	if err != nil {
		t.Fatalf("handle callback: %v", err)
	}
	if result.State != paymentdomain.OrderStateVerified {
		t.Fatalf("state = %s, want verified", result.State)
	}

	payment, err := f.repo.FindPaymentByPaymentID(ctx, f.db, "pay_001")
	if err != nil {
		t.Fatalf("find payment: %v", err)
	}
	if payment.OrderID == nil || *payment.OrderID != order.OrderID {
		t.Fatalf("payment order ref %+v", payment)
	}

	var enrolled int64
	if err := f.db.Table("enrollments").Where("email = ? AND product_id = ?", "asha@example.com", "ylp").Count(&enrolled).Error; err != nil {
		t.Fatalf("count enrollments: %v", err)
	}
	if enrolled != 1 {
		t.Fatalf("enrollments = %d, want 1", enrolled)
	}
	if f.dispatch.count() != 1 {
		t.Fatalf("receipts sent = %d, want 1", f.dispatch.count())
	}
}

func TestHandleCallbackReplayIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	order := f.initiate(t, "ylp")

	req := paymentdomain.CallbackRequest{
		OrderID:   order.OrderID,
		PaymentID: "pay_002",
		Signature: signCallback(order.OrderID, "pay_002"),
	}
	if _, err := f.svc.HandleCallback(ctx, req); err != nil {
		t.Fatalf("first callback: %v", err)
	}
	if _, err := f.svc.HandleCallback(ctx, req); err != nil {
		t.Fatalf("replayed callback: %v", err)
	}

	var payments int64
	if err := f.db.Table("payments").Count(&payments).Error; err != nil {
		t.Fatalf("count payments: %v", err)
	}
	if payments != 1 {
		t.Fatalf("payments = %d, want 1", payments)
	}
	if f.dispatch.count() != 1 {
		t.Fatalf("receipts sent = %d, want 1 despite replay", f.dispatch.count())
	}
}

// staleOrderRepo serves one out-of-date created-state read before
// delegating, mimicking a callback that read the order just before a
// concurrent callback verified it.
type staleOrderRepo struct {
	paymentdomain.Repository
	mu    sync.Mutex
	spent bool
}

func (r *staleOrderRepo) FindOrderByOrderID(ctx context.Context, db *gorm.DB, orderID string) (*paymentdomain.Order, error) {
	order, err := r.Repository.FindOrderByOrderID(ctx, db, orderID)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.spent {
		r.spent = true
		stale := *order
		stale.State = paymentdomain.OrderStateCreated
		return &stale, nil
	}
	return order, nil
}

func TestHandleCallbackLostRaceSettlesOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	order := f.initiate(t, "ylp")

	req := paymentdomain.CallbackRequest{
		OrderID:   order.OrderID,
		PaymentID: "pay_race",
		Signature: signCallback(order.OrderID, "pay_race"),
	}
	if _, err := f.svc.HandleCallback(ctx, req); err != nil {
		t.Fatalf("winning callback: %v", err)
	}

	enrollSvc := enrollservice.NewService(enrollservice.Params{
		DB:    f.db,
		Log:   zap.NewNop(),
		GenID: f.node,
		Repo:  enrollrepo.Provide(),
	})
	loser := paymentservice.NewService(paymentservice.Params{
		DB:           f.db,
		Log:          zap.NewNop(),
		Config:       config.Config{RazorpayKeySecret: testSecret, RazorpayPlanID: "plan_TEST"},
		Pricing:      config.NewStaticPricingHolder(config.DefaultPricingConfig()),
		GenID:        f.node,
		Repo:         &staleOrderRepo{Repository: f.repo},
		Users:        authrepo.New(),
		Provider:     f.provider,
		Enrollment:   enrollSvc,
		Notification: f.dispatch,
	})

	result, err := loser.HandleCallback(ctx, req)
	if err != nil {
		t.Fatalf("losing callback: %v", err)
	}
	if result.State != paymentdomain.OrderStateVerified {
		t.Fatalf("state = %s, want verified", result.State)
	}

	var payments int64
	if err := f.db.Table("payments").Count(&payments).Error; err != nil {
		t.Fatalf("count payments: %v", err)
	}
	if payments != 1 {
		t.Fatalf("payments = %d, want 1", payments)
	}
	if f.dispatch.count() != 1 {
		t.Fatalf("receipts sent = %d, want 1 after lost race", f.dispatch.count())
	}
}

func TestHandleCallbackBadSignature(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	order := f.initiate(t, "ylp")

	_, err := f.svc.HandleCallback(ctx, paymentdomain.CallbackRequest{
		OrderID:   order.OrderID,
		PaymentID: "pay_003",
		Signature: "0000000000000000000000000000000000000000000000000000000000000000",
	})
	if !errors.Is(err, paymentdomain.ErrVerificationFailed) {
		t.Fatalf("err = %v, want ErrVerificationFailed", err)
	}

	stored, err := f.repo.FindOrderByOrderID(ctx, f.db, order.OrderID)
	if err != nil {
		t.Fatalf("find order: %v", err)
	}
	if stored.State != paymentdomain.OrderStateFailed {
		t.Fatalf("state = %s, want failed", stored.State)
	}

	var payments int64
	if err := f.db.Table("payments").Count(&payments).Error; err != nil {
		t.Fatalf("count payments: %v", err)
	}
	if payments != 0 {
		t.Fatalf("payments = %d, want 0", payments)
	}
	if f.dispatch.count() != 0 {
		t.Fatalf("receipts sent = %d, want 0", f.dispatch.count())
	}

	// A failed order never reopens, even with a now-valid signature.
	_, err = f.svc.HandleCallback(ctx, paymentdomain.CallbackRequest{
		OrderID:   order.OrderID,
		PaymentID: "pay_003",
		Signature: signCallback(order.OrderID, "pay_003"),
	})
	if !errors.Is(err, paymentdomain.ErrOrderClosed) {
		t.Fatalf("err = %v, want ErrOrderClosed", err)
	}
}

func TestHandleCallbackVerifiedReplayWithBadSignature(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	order := f.initiate(t, "ylp")

	valid := paymentdomain.CallbackRequest{
		OrderID:   order.OrderID,
		PaymentID: "pay_004",
		Signature: signCallback(order.OrderID, "pay_004"),
	}
	if _, err := f.svc.HandleCallback(ctx, valid); err != nil {
		t.Fatalf("first callback: %v", err)
	}

	_, err := f.svc.HandleCallback(ctx, paymentdomain.CallbackRequest{
		OrderID:   order.OrderID,
		PaymentID: "pay_004",
		Signature: "bad",
	})
	if !errors.Is(err, paymentdomain.ErrVerificationFailed) {
		t.Fatalf("err = %v, want ErrVerificationFailed", err)
	}

	stored, err := f.repo.FindOrderByOrderID(ctx, f.db, order.OrderID)
	if err != nil {
		t.Fatalf("find order: %v", err)
	}
	if stored.State != paymentdomain.OrderStateVerified {
		t.Fatalf("state = %s, verified order must stay verified", stored.State)
	}
}

func TestHandleCallbackUnknownOrder(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.HandleCallback(context.Background(), paymentdomain.CallbackRequest{
		OrderID:   "order_MISSING",
		PaymentID: "pay_005",
		Signature: signCallback("order_MISSING", "pay_005"),
	})
	if !errors.Is(err, paymentdomain.ErrOrderNotFound) {
		t.Fatalf("err = %v, want ErrOrderNotFound", err)
	}
}

func TestSubscribeAndVerify(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	result, err := f.svc.Subscribe(ctx, paymentdomain.SubscribeRequest{UserID: f.user.ID})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if result.Subscription.Status != paymentdomain.SubscriptionCreated {
		t.Fatalf("status = %s, want created", result.Subscription.Status)
	}
	if result.Subscription.PlanID != "plan_TEST" {
		t.Fatalf("plan = %s", result.Subscription.PlanID)
	}

	subID := result.Subscription.SubscriptionID
	sig := signature.Sign(testSecret, signature.SubscriptionMessage("pay_sub_1", subID))
	sub, err := f.svc.VerifySubscription(ctx, paymentdomain.SubscriptionCallbackRequest{
		UserID:         f.user.ID,
		PaymentID:      "pay_sub_1",
		SubscriptionID: subID,
		Signature:      sig,
	})
	if err != nil {
		t.Fatalf("verify subscription: %v", err)
	}
	if sub.Status != paymentdomain.SubscriptionActive {
		t.Fatalf("status = %s, want active", sub.Status)
	}

	// The recorded charge carries the configured plan price, not
	// anything the caller sent.
	payment, err := f.repo.FindPaymentByPaymentID(ctx, f.db, "pay_sub_1")
	if err != nil {
		t.Fatalf("find payment: %v", err)
	}
	if payment.Amount != 250000 || payment.Currency != "INR" {
		t.Fatalf("payment = %d %s, want plan price 250000 INR", payment.Amount, payment.Currency)
	}

	active, err := f.svc.ActiveSubscription(ctx, f.user.ID)
	if err != nil {
		t.Fatalf("active subscription: %v", err)
	}
	if active.SubscriptionID != subID {
		t.Fatalf("subscription id = %s", active.SubscriptionID)
	}
}

func TestVerifySubscriptionBadSignature(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	result, err := f.svc.Subscribe(ctx, paymentdomain.SubscribeRequest{UserID: f.user.ID})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	_, err = f.svc.VerifySubscription(ctx, paymentdomain.SubscriptionCallbackRequest{
		UserID:         f.user.ID,
		PaymentID:      "pay_sub_2",
		SubscriptionID: result.Subscription.SubscriptionID,
		Signature:      "bad",
	})
	if !errors.Is(err, paymentdomain.ErrVerificationFailed) {
		t.Fatalf("err = %v, want ErrVerificationFailed", err)
	}

	if _, err := f.svc.ActiveSubscription(ctx, f.user.ID); !errors.Is(err, paymentdomain.ErrNoActiveSubscription) {
		t.Fatalf("err = %v, want ErrNoActiveSubscription", err)
	}
}

func (f *fixture) activateSubscription(t *testing.T, verifiedAt time.Time) string {
	t.Helper()
	ctx := context.Background()

	result, err := f.svc.Subscribe(ctx, paymentdomain.SubscribeRequest{UserID: f.user.ID})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	subID := result.Subscription.SubscriptionID

	sig := signature.Sign(testSecret, signature.SubscriptionMessage("pay_cycle_1", subID))
	if _, err := f.svc.VerifySubscription(ctx, paymentdomain.SubscriptionCallbackRequest{
		UserID:         f.user.ID,
		PaymentID:      "pay_cycle_1",
		SubscriptionID: subID,
		Signature:      sig,
	}); err != nil {
		t.Fatalf("verify subscription: %v", err)
	}

	if err := f.db.Exec(
		`UPDATE payments SET verified_at = ? WHERE payment_id = ?`,
		verifiedAt.UTC(), "pay_cycle_1",
	).Error; err != nil {
		t.Fatalf("backdate payment: %v", err)
	}
	return subID
}

func TestCancelWithinRefundWindow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	subID := f.activateSubscription(t, time.Now().Add(-13*24*time.Hour))

	result, err := f.svc.Cancel(ctx, paymentdomain.CancelRequest{UserID: f.user.ID})
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if !result.Refunded {
		t.Fatal("expected refund inside the window")
	}
	if len(f.provider.cancelled) != 1 || f.provider.cancelled[0] != subID {
		t.Fatalf("cancelled = %v", f.provider.cancelled)
	}
	if len(f.provider.refunded) != 1 || f.provider.refunded[0] != "pay_cycle_1" {
		t.Fatalf("refunded = %v", f.provider.refunded)
	}

	var subs, payments int64
	if err := f.db.Table("subscriptions").Count(&subs).Error; err != nil {
		t.Fatalf("count subscriptions: %v", err)
	}
	if err := f.db.Table("payments").Count(&payments).Error; err != nil {
		t.Fatalf("count payments: %v", err)
	}
	if subs != 0 || payments != 0 {
		t.Fatalf("subs = %d payments = %d after refund, want 0/0", subs, payments)
	}
}

func TestCancelAfterRefundWindow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	subID := f.activateSubscription(t, time.Now().Add(-15*24*time.Hour))

	_, err := f.svc.Cancel(ctx, paymentdomain.CancelRequest{UserID: f.user.ID})
	if !errors.Is(err, paymentdomain.ErrRefundWindowExpired) {
		t.Fatalf("err = %v, want ErrRefundWindowExpired", err)
	}
	if len(f.provider.refunded) != 0 {
		t.Fatalf("refunded = %v, want none", f.provider.refunded)
	}

	// The provider mandate is cancelled either way.
	if len(f.provider.cancelled) != 1 || f.provider.cancelled[0] != subID {
		t.Fatalf("cancelled = %v", f.provider.cancelled)
	}
	sub, err := f.repo.FindSubscriptionByUserID(ctx, f.db, f.user.ID)
	if err != nil {
		t.Fatalf("find subscription: %v", err)
	}
	if sub.Status != paymentdomain.SubscriptionCancelled {
		t.Fatalf("status = %s, want cancelled", sub.Status)
	}
}

func TestCancelWithoutSubscription(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Cancel(context.Background(), paymentdomain.CancelRequest{UserID: f.user.ID})
	if !errors.Is(err, paymentdomain.ErrNoActiveSubscription) {
		t.Fatalf("err = %v, want ErrNoActiveSubscription", err)
	}
}

func TestCancelRejectsAdmin(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Cancel(context.Background(), paymentdomain.CancelRequest{UserID: f.user.ID, IsAdmin: true})
	if !errors.Is(err, paymentdomain.ErrAdminNotAllowed) {
		t.Fatalf("err = %v, want ErrAdminNotAllowed", err)
	}
}

func TestMonthlyReport(t *testing.T) {
	f := newFixture(t)

	jan := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
	f.provider.subscriptions = []paymentdomain.ProviderSubscription{
		{SubscriptionID: "sub_1", StartAt: jan},
		{SubscriptionID: "sub_2", StartAt: jan},
		{SubscriptionID: "sub_3", StartAt: feb},
	}

	report, err := f.svc.MonthlyReport(context.Background())
	if err != nil {
		t.Fatalf("monthly report: %v", err)
	}
	if report.Total != 3 {
		t.Fatalf("total = %d, want 3", report.Total)
	}
	want := []paymentdomain.MonthlyCount{
		{Month: "2026-01", Count: 2},
		{Month: "2026-02", Count: 1},
	}
	if len(report.Months) != len(want) {
		t.Fatalf("months = %+v", report.Months)
	}
	for i := range want {
		if report.Months[i] != want[i] {
			t.Fatalf("months[%d] = %+v, want %+v", i, report.Months[i], want[i])
		}
	}
}
