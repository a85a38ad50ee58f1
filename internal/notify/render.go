package notify

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/cart_shop/internal/jobs"
	"github.com/Skotchmaster/cart_shop/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(
	template.New("mail").
		Funcs(template.FuncMap{"money": Money}).
		ParseFS(templateFS, "templates/*.html"),
)

func Money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

type dailySalesView struct {
	Date  string
	Sales []models.DailySale
	Total decimal.Decimal
}

func renderLowStock(p jobs.LowStockPayload) (string, error) {
	return render("low_stock.html", p)
}

func renderDailySales(date string, sales []models.DailySale) (string, error) {
	return render("daily_sales.html", dailySalesView{
		Date:  date,
		Sales: sales,
		Total: salesTotal(sales),
	})
}

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

func salesTotal(sales []models.DailySale) decimal.Decimal {
	total := decimal.Zero
	for _, s := range sales {
		total = total.Add(s.TotalAmount)
	}
	return total
}
