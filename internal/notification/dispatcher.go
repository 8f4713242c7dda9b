// Package notification delivers post-payment emails off the request
// path.
package notification

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shresthgour/indiamun-backend/internal/providers/email"
	"github.com/shresthgour/indiamun-backend/internal/providers/pdf"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const deliverTimeout = 30 * time.Second

// Dispatcher sends receipts asynchronously. Delivery failures are
// logged, never surfaced to the payment flow.
type Dispatcher interface {
	SendReceipt(data pdf.ReceiptData)
}

type Params struct {
	fx.In

	Log   *zap.Logger
	Email email.Provider
	PDF   pdf.Provider
}

type dispatcher struct {
	log   *zap.Logger
	email email.Provider
	pdf   pdf.Provider
	wg    sync.WaitGroup
}

func NewDispatcher(p Params) Dispatcher {
	return &dispatcher{
		log:   p.Log.Named("notification"),
		email: p.Email,
		pdf:   p.PDF,
	}
}

func (d *dispatcher) SendReceipt(data pdf.ReceiptData) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), deliverTimeout)
		defer cancel()

		if err := d.deliver(ctx, data); err != nil {
			d.log.Error("receipt delivery failed",
				zap.String("payment_id", data.PaymentID),
				zap.String("email", data.Email),
				zap.Error(err),
			)
			return
		}
		d.log.Info("receipt delivered",
			zap.String("payment_id", data.PaymentID),
			zap.String("email", data.Email),
		)
	}()
}

func (d *dispatcher) deliver(ctx context.Context, data pdf.ReceiptData) error {
	artifact, err := d.pdf.GenerateReceipt(ctx, data)
	if err != nil {
		return fmt.Errorf("generate receipt: %w", err)
	}

	body, err := email.Render("receipt.html", email.ReceiptBody{
		ProductName: data.ProductName,
		ReceiptID:   data.ReceiptID,
	})
	if err != nil {
		return fmt.Errorf("render receipt mail: %w", err)
	}
	attachments := []email.Attachment{{
		Filename:    artifact.Filename,
		ContentType: artifact.ContentType,
		Content:     artifact.Content,
	}}
	if err := d.email.SendWithAttachments(ctx, []string{data.Email}, "Your payment receipt", body, attachments); err != nil {
		return fmt.Errorf("send receipt mail: %w", err)
	}
	return nil
}

// flush waits for in-flight deliveries, used on shutdown.
func (d *dispatcher) flush() { d.wg.Wait() }

var Module = fx.Module("notification",
	fx.Provide(NewDispatcher),
	fx.Invoke(registerHooks),
)

func registerHooks(lc fx.Lifecycle, dispatch Dispatcher) {
	impl, ok := dispatch.(*dispatcher)
	if !ok {
		return
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			impl.flush()
			return nil
		},
	})
}
