// Package razorpay is a minimal REST client for the Razorpay API.
package razorpay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shresthgour/indiamun-backend/internal/config"
	"github.com/shresthgour/indiamun-backend/internal/payment/domain"
)

type Client struct {
	baseURL    string
	keyID      string
	keySecret  string
	httpClient *http.Client
}

func New(cfg config.Config) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.RazorpayBaseURL, "/"),
		keyID:      cfg.RazorpayKeyID,
		keySecret:  cfg.RazorpayKeySecret,
		httpClient: &http.Client{Timeout: cfg.RazorpayTimeout},
	}
}

func (c *Client) KeyID() string { return c.keyID }

type orderResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

func (c *Client) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*domain.ProviderOrder, error) {
	body := map[string]any{
		"amount":   amount,
		"currency": currency,
		"receipt":  receipt,
	}

	var resp orderResponse
	if err := c.do(ctx, http.MethodPost, "/orders", body, &resp); err != nil {
		return nil, err
	}
	return &domain.ProviderOrder{
		OrderID:  resp.ID,
		Amount:   resp.Amount,
		Currency: resp.Currency,
		Receipt:  resp.Receipt,
		Status:   resp.Status,
	}, nil
}

type subscriptionResponse struct {
	ID       string `json:"id"`
	PlanID   string `json:"plan_id"`
	Status   string `json:"status"`
	ShortURL string `json:"short_url"`
	StartAt  int64  `json:"start_at"`
}

func (c *Client) CreateSubscription(ctx context.Context, planID string, totalCount int) (*domain.ProviderSubscription, error) {
	body := map[string]any{
		"plan_id":         planID,
		"total_count":     totalCount,
		"customer_notify": 1,
	}

	var resp subscriptionResponse
	if err := c.do(ctx, http.MethodPost, "/subscriptions", body, &resp); err != nil {
		return nil, err
	}
	return providerSubscription(resp), nil
}

func (c *Client) CancelSubscription(ctx context.Context, subscriptionID string) error {
	path := fmt.Sprintf("/subscriptions/%s/cancel", url.PathEscape(subscriptionID))
	return c.do(ctx, http.MethodPost, path, map[string]any{}, nil)
}

type refundResponse struct {
	ID        string `json:"id"`
	PaymentID string `json:"payment_id"`
	Amount    int64  `json:"amount"`
	Status    string `json:"status"`
}

func (c *Client) Refund(ctx context.Context, paymentID string, speed string) (*domain.Refund, error) {
	path := fmt.Sprintf("/payments/%s/refund", url.PathEscape(paymentID))
	body := map[string]any{"speed": speed}

	var resp refundResponse
	if err := c.do(ctx, http.MethodPost, path, body, &resp); err != nil {
		return nil, err
	}
	return &domain.Refund{
		RefundID:  resp.ID,
		PaymentID: resp.PaymentID,
		Amount:    resp.Amount,
		Status:    resp.Status,
	}, nil
}

type subscriptionListResponse struct {
	Count int                    `json:"count"`
	Items []subscriptionResponse `json:"items"`
}

func (c *Client) ListSubscriptions(ctx context.Context, count, skip int) ([]domain.ProviderSubscription, error) {
	path := fmt.Sprintf("/subscriptions?count=%d&skip=%d", count, skip)

	var resp subscriptionListResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}

	items := make([]domain.ProviderSubscription, 0, len(resp.Items))
	for _, item := range resp.Items {
		items = append(items, *providerSubscription(item))
	}
	return items, nil
}

func providerSubscription(resp subscriptionResponse) *domain.ProviderSubscription {
	sub := &domain.ProviderSubscription{
		SubscriptionID: resp.ID,
		PlanID:         resp.PlanID,
		Status:         resp.Status,
		ShortURL:       resp.ShortURL,
	}
	if resp.StartAt > 0 {
		sub.StartAt = time.Unix(resp.StartAt, 0).UTC()
	}
	return sub
}

type errorResponse struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var payload *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		payload = bytes.NewReader(raw)
	} else {
		payload = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.SetBasicAuth(c.keyID, c.keySecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return domain.ErrProviderTimeout
		}
		return fmt.Errorf("provider request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr errorResponse
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return &domain.ProviderError{
			StatusCode:  resp.StatusCode,
			Code:        apiErr.Error.Code,
			Description: apiErr.Error.Description,
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
