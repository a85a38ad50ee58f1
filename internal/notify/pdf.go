package notify

import (
	"fmt"
	"strconv"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/Skotchmaster/cart_shop/internal/models"
)

var headerColor = &props.Color{Red: 40, Green: 40, Blue: 40}

// DailySalesPDF renders the same table as the report email.
func DailySalesPDF(date string, sales []models.DailySale) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(15).WithRightMargin(15).
		WithTopMargin(15).WithBottomMargin(15).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 10}).
		WithTitle("Daily Sales Report "+date, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(row.New(12).Add(
		col.New(8).Add(text.New("Daily Sales Report", props.Text{Style: fontstyle.Bold, Size: 14})),
		col.New(4).Add(text.New(date, props.Text{Align: align.Right, Size: 10, Top: 2})),
	))
	m.AddRows(line.NewRow(2, props.Line{Color: headerColor, Thickness: 0.4}))

	if len(sales) == 0 {
		m.AddRows(row.New(10).Add(col.New(12).Add(text.New("No sales today.", props.Text{Top: 3}))))
	} else {
		m.AddRows(salesRow("Product", "Quantity Sold", "Total Amount", fontstyle.Bold))
		for _, s := range sales {
			m.AddRows(salesRow(s.Name, strconv.FormatInt(s.TotalQuantity, 10), Money(s.TotalAmount), fontstyle.Normal))
		}
		m.AddRows(line.NewRow(2, props.Line{Color: headerColor, Thickness: 0.2}))
		m.AddRows(salesRow("Total", "", Money(salesTotal(sales)), fontstyle.Bold))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generate report: %w", err)
	}
	return doc.GetBytes(), nil
}

func salesRow(name, qty, amount string, style fontstyle.Type) core.Row {
	return row.New(7).Add(
		col.New(6).Add(text.New(name, props.Text{Style: style, Top: 1})),
		col.New(3).Add(text.New(qty, props.Text{Style: style, Align: align.Right, Top: 1})),
		col.New(3).Add(text.New(amount, props.Text{Style: style, Align: align.Right, Top: 1})),
	)
}
