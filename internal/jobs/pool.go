package jobs

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

type HandlerFunc func(ctx context.Context, job Job) error

const ackTimeout = 5 * time.Second

// Pool runs Workers goroutines that pull jobs from a Source and dispatch them
// by type. Handler failures are logged and the job is acked anyway.
type Pool struct {
	Workers  int
	Handlers map[string]HandlerFunc
	Logger   *slog.Logger
}

func (p *Pool) Run(ctx context.Context, src Source) error {
	workers := p.Workers
	if workers < 1 {
		workers = 1
	}
	log := p.Logger
	if log == nil {
		log = slog.Default()
	}
	log = log.With("component", "worker_pool")

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < workers; i++ {
		wlog := log.With("worker", i)
		g.Go(func() error {
			return p.work(ctx, src, wlog)
		})
	}

	log.Info("workers_started", "workers", workers)
	err := g.Wait()
	log.Info("workers_stopped")
	return err
}

func (p *Pool) work(ctx context.Context, src Source, log *slog.Logger) error {
	for {
		d, err := src.Receive(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, ErrQueueClosed) {
				return nil
			}
			log.Error("receive_failed", "error", err)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(time.Second):
			}
			continue
		}
		p.handle(ctx, d, log)
	}
}

func (p *Pool) handle(ctx context.Context, d Delivery, log *slog.Logger) {
	jlog := log.With("job_id", d.Job.ID.String(), "job_type", d.Job.Type)

	h, ok := p.Handlers[d.Job.Type]
	if !ok {
		jlog.Warn("job_unknown_type")
	} else {
		start := time.Now()
		if err := h(ctx, d.Job); err != nil {
			jlog.Error("job_failed", "error", err, "duration", time.Since(start))
		} else {
			jlog.Info("job_done", "duration", time.Since(start))
		}
	}

	if d.Ack == nil {
		return
	}
	ackCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ackTimeout)
	defer cancel()
	if err := d.Ack(ackCtx); err != nil {
		jlog.Error("job_ack_failed", "error", err)
	}
}
