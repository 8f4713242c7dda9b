package pdf

import "context"

// ReceiptData is everything printed on a payment receipt.
type ReceiptData struct {
	ReceiptID   string
	OrderID     string
	PaymentID   string
	CustomerID  string
	Email       string
	ProductName string
	Amount      int64 // minor units
	Currency    string
	PaidAt      string
}

// Artifact is a rendered document ready to attach to an email.
type Artifact struct {
	Filename    string
	ContentType string
	Content     []byte
}

type Provider interface {
	GenerateReceipt(ctx context.Context, data ReceiptData) (*Artifact, error)
}

type NoOpProvider struct{}

func (p *NoOpProvider) GenerateReceipt(ctx context.Context, data ReceiptData) (*Artifact, error) {
	return &Artifact{Filename: "receipt.pdf", ContentType: "application/pdf"}, nil
}
