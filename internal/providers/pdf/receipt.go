package pdf

import (
	"context"
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

type MarotoProvider struct {
	orgName  string
	orgEmail string
}

func NewMaroto(orgName, orgEmail string) *MarotoProvider {
	return &MarotoProvider{orgName: orgName, orgEmail: orgEmail}
}

func (p *MarotoProvider) GenerateReceipt(ctx context.Context, data ReceiptData) (*Artifact, error) {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(30,
		text.NewCol(12, "Payment Receipt", props.Text{
			Size:  20,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
	)

	m.AddRow(25,
		col.New(6).Add(
			text.New("Receipt: "+data.ReceiptID, props.Text{Top: 0}),
			text.New("Order: "+data.OrderID, props.Text{Top: 5}),
			text.New("Payment: "+data.PaymentID, props.Text{Top: 10}),
		),
		col.New(6).Add(
			text.New(p.orgName, props.Text{Style: fontstyle.Bold}),
			text.New(p.orgEmail, props.Text{Top: 5}),
		),
	)

	m.AddRow(20,
		col.New(6).Add(
			text.New("Billed to", props.Text{Style: fontstyle.Bold}),
			text.New(data.Email, props.Text{Top: 5}),
		),
		col.New(6).Add(
			text.New("Date paid", props.Text{Style: fontstyle.Bold}),
			text.New(data.PaidAt, props.Text{Top: 5}),
		),
	)

	total := formatAmount(data.Amount, data.Currency)

	m.AddRow(15,
		text.NewCol(12, total+" paid on "+data.PaidAt, props.Text{
			Size:  14,
			Style: fontstyle.Bold,
			Top:   5,
		}),
	)

	m.AddRow(10,
		text.NewCol(8, "Description", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(4, "Amount", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)
	m.AddRow(12,
		text.NewCol(8, data.ProductName, props.Text{Size: 9}),
		text.NewCol(4, total, props.Text{Size: 9, Align: align.Right}),
	)

	m.AddRow(10,
		col.New(8),
		text.NewCol(2, "Total", props.Text{Size: 9}),
		text.NewCol(2, total, props.Text{Size: 9, Align: align.Right}),
	)

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}

	return &Artifact{
		Filename:    fmt.Sprintf("receipt_%s.pdf", data.PaymentID),
		ContentType: "application/pdf",
		Content:     doc.GetBytes(),
	}, nil
}

// formatAmount renders minor units as a currency string, e.g. 250000
// INR as "INR 2500.00".
func formatAmount(amount int64, currency string) string {
	return fmt.Sprintf("%s %d.%02d", currency, amount/100, amount%100)
}
