// Package jobs carries background work from the request path to the worker pool.
package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	TypeLowStock         = "low_stock"
	TypeDailySalesReport = "daily_sales_report"
)

type Job struct {
	ID         uuid.UUID       `json:"id"`
	Type       string          `json:"type"`
	Payload    json.RawMessage `json:"payload"`
	EnqueuedAt time.Time       `json:"enqueued_at"`
}

type LowStockPayload struct {
	ProductID     uint   `json:"product_id"`
	Name          string `json:"name"`
	StockQuantity int    `json:"stock_quantity"`
}

// DailySalesReportPayload names the UTC day to report on, formatted YYYY-MM-DD.
type DailySalesReportPayload struct {
	Date string `json:"date"`
}

const DateLayout = "2006-01-02"

func NewJob(jobType string, payload any) (Job, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Job{}, fmt.Errorf("jobs: marshal %s payload: %w", jobType, err)
	}
	return Job{
		ID:         uuid.New(),
		Type:       jobType,
		Payload:    raw,
		EnqueuedAt: time.Now().UTC(),
	}, nil
}

// NewDailySalesReport builds the report job for the UTC day containing day.
func NewDailySalesReport(day time.Time) (Job, error) {
	return NewJob(TypeDailySalesReport, DailySalesReportPayload{
		Date: day.UTC().Format(DateLayout),
	})
}

func (j Job) Decode(v any) error {
	if err := json.Unmarshal(j.Payload, v); err != nil {
		return fmt.Errorf("jobs: decode %s payload: %w", j.Type, err)
	}
	return nil
}

type Queue interface {
	Enqueue(ctx context.Context, job Job) error
}

// Delivery is a received job. Ack must be called once the job is handled;
// transports that persist jobs only forget them after the ack.
type Delivery struct {
	Job Job
	Ack func(ctx context.Context) error
}

type Source interface {
	Receive(ctx context.Context) (Delivery, error)
}
