// Package stock owns stock_quantity: decrements that never cross zero and the
// low-stock alert that follows them.
package stock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/cart_shop/internal/domain"
	"github.com/Skotchmaster/cart_shop/internal/jobs"
	"github.com/Skotchmaster/cart_shop/internal/models"
	"github.com/Skotchmaster/cart_shop/pkg/logging"
)

// LowStockThreshold is the highest stock level that still triggers an alert.
const LowStockThreshold = 5

const enqueueTimeout = 5 * time.Second

func LowStock(quantity int) bool {
	return quantity <= LowStockThreshold
}

type Repo interface {
	DecrementStock(ctx context.Context, productID uint, quantity int) (*models.Product, bool, error)
}

type Ledger struct {
	Repo  Repo
	Queue jobs.Queue
}

func NewLedger(repo Repo, queue jobs.Queue) *Ledger {
	return &Ledger{Repo: repo, Queue: queue}
}

// Decrement takes quantity units of the product out of stock and returns the
// product as this decrement left it.
func (l *Ledger) Decrement(ctx context.Context, productID uint, quantity int) (*models.Product, error) {
	if quantity < 1 {
		return nil, domain.Invalid("quantity", "must be at least 1")
	}

	product, ok, err := l.Repo.DecrementStock(ctx, productID, quantity)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %d: %w", productID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("decrement stock: %w", err)
	}

	if !ok {
		return nil, &domain.InsufficientStockError{
			ProductID: productID,
			Requested: quantity,
			Available: product.StockQuantity,
		}
	}

	if LowStock(product.StockQuantity) {
		l.alert(ctx, product)
	}
	return product, nil
}

func (l *Ledger) alert(ctx context.Context, product *models.Product) {
	log := logging.FromContext(ctx).With("component", "stock_ledger", "product_id", product.ID)
	if l.Queue == nil {
		log.Warn("low_stock_no_queue", "stock_quantity", product.StockQuantity)
		return
	}

	job, err := jobs.NewJob(jobs.TypeLowStock, jobs.LowStockPayload{
		ProductID:     product.ID,
		Name:          product.Name,
		StockQuantity: product.StockQuantity,
	})
	if err != nil {
		log.Error("low_stock_job_build_failed", "error", err)
		return
	}

	// the alert must survive a client that hangs up right after the write
	ectx, cancel := context.WithTimeout(context.WithoutCancel(ctx), enqueueTimeout)
	defer cancel()
	if err := l.Queue.Enqueue(ectx, job); err != nil {
		log.Error("low_stock_enqueue_failed", "error", err, "job_id", job.ID.String())
		return
	}
	log.Info("low_stock_enqueued", "stock_quantity", product.StockQuantity, "job_id", job.ID.String())
}
