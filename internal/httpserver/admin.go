package httpserver

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/cart_shop/internal/jobs"
	"github.com/Skotchmaster/cart_shop/internal/service"
	"github.com/Skotchmaster/cart_shop/internal/transport"
	"github.com/Skotchmaster/cart_shop/pkg/logging"
)

type AdminHTTP struct {
	Catalog *service.CatalogService
	Queue   jobs.Queue
	// Now defaults to time.Now.
	Now func() time.Time
}

func (h *AdminHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.create.product")

	var req transport.CreateProductRequest
	if handled, err := bindAndValidate(c, l, "create_product_error", &req); handled {
		return err
	}

	p, err := h.Catalog.CreateProduct(ctx, service.NewProduct{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		StockQuantity: req.StockQuantity,
	})
	if err != nil {
		return fail(c, l, "create_product_error", "name", err)
	}

	l.Info("product_created", "product_id", p.ID)
	return c.JSON(http.StatusCreated, p)
}

func (h *AdminHTTP) DecrementStock(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.decrement.stock")

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		l.Warn("decrement_stock_error", "status", http.StatusBadRequest, "reason", "bad_id")
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	var req transport.DecrementStockRequest
	if handled, err := bindAndValidate(c, l, "decrement_stock_error", &req); handled {
		return err
	}

	p, err := h.Catalog.DecrementStock(ctx, uint(id), req.Quantity)
	if err != nil {
		return fail(c, l, "decrement_stock_error", "quantity", err)
	}

	l.Info("stock_decremented", "product_id", p.ID, "stock_quantity", p.StockQuantity)
	return c.JSON(http.StatusOK, p)
}

// EnqueueDailyReport queues the sales report for the current UTC day without
// waiting for the scheduler.
func (h *AdminHTTP) EnqueueDailyReport(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.daily.report")

	now := time.Now
	if h.Now != nil {
		now = h.Now
	}
	job, err := jobs.NewDailySalesReport(now())
	if err != nil {
		l.Error("daily_report_error", "status", http.StatusInternalServerError, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	ectx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := h.Queue.Enqueue(ectx, job); err != nil {
		l.Error("daily_report_error", "status", http.StatusServiceUnavailable, "error", err)
		return echo.NewHTTPError(http.StatusServiceUnavailable, "job queue unavailable")
	}

	l.Info("daily_report_enqueued", "job_id", job.ID.String())
	return c.JSON(http.StatusAccepted, map[string]string{"job_id": job.ID.String()})
}
