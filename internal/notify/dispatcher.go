package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/Skotchmaster/cart_shop/internal/jobs"
	"github.com/Skotchmaster/cart_shop/internal/models"
	"github.com/Skotchmaster/cart_shop/pkg/logging"
)

const (
	SubjectLowStock   = "Low Stock Alert"
	SubjectDailySales = "Daily Sales Report"
)

type SalesRepo interface {
	DailySales(ctx context.Context, from, to time.Time) ([]models.DailySale, error)
}

// Dispatcher handles notification jobs. Every email goes to AdminEmail.
type Dispatcher struct {
	Mailer     Mailer
	Sales      SalesRepo
	AdminEmail string
}

func NewDispatcher(mailer Mailer, sales SalesRepo, adminEmail string) *Dispatcher {
	return &Dispatcher{Mailer: mailer, Sales: sales, AdminEmail: adminEmail}
}

func (d *Dispatcher) Handlers() map[string]jobs.HandlerFunc {
	return map[string]jobs.HandlerFunc{
		jobs.TypeLowStock:         d.HandleLowStock,
		jobs.TypeDailySalesReport: d.HandleDailySalesReport,
	}
}

func (d *Dispatcher) HandleLowStock(ctx context.Context, job jobs.Job) error {
	var p jobs.LowStockPayload
	if err := job.Decode(&p); err != nil {
		return err
	}

	body, err := renderLowStock(p)
	if err != nil {
		return err
	}

	if err := d.Mailer.Send(ctx, Message{
		To:      d.AdminEmail,
		Subject: SubjectLowStock,
		HTML:    body,
	}); err != nil {
		return fmt.Errorf("low stock mail for product %d: %w", p.ProductID, err)
	}

	logging.FromContext(ctx).Info("low_stock_mail_sent", "product_id", p.ProductID, "stock_quantity", p.StockQuantity)
	return nil
}

func (d *Dispatcher) HandleDailySalesReport(ctx context.Context, job jobs.Job) error {
	var p jobs.DailySalesReportPayload
	if err := job.Decode(&p); err != nil {
		return err
	}

	day, err := time.ParseInLocation(jobs.DateLayout, p.Date, time.UTC)
	if err != nil {
		return fmt.Errorf("daily report date %q: %w", p.Date, err)
	}

	sales, err := d.Sales.DailySales(ctx, day, day.AddDate(0, 0, 1))
	if err != nil {
		return fmt.Errorf("daily sales query: %w", err)
	}

	body, err := renderDailySales(p.Date, sales)
	if err != nil {
		return err
	}
	pdf, err := DailySalesPDF(p.Date, sales)
	if err != nil {
		return err
	}

	if err := d.Mailer.Send(ctx, Message{
		To:      d.AdminEmail,
		Subject: SubjectDailySales + " " + p.Date,
		HTML:    body,
		Attachments: []Attachment{{
			Name:        "daily-sales-" + p.Date + ".pdf",
			ContentType: "application/pdf",
			Data:        pdf,
		}},
	}); err != nil {
		return fmt.Errorf("daily report mail: %w", err)
	}

	logging.FromContext(ctx).Info("daily_report_mail_sent", "date", p.Date, "products", len(sales))
	return nil
}
