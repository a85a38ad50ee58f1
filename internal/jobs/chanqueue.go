package jobs

import (
	"context"
	"errors"
	"sync"
)

var ErrQueueClosed = errors.New("jobs: queue closed")

// ChanQueue is an in-process Queue and Source backed by a buffered channel.
// Jobs are lost when the process exits.
type ChanQueue struct {
	ch     chan Job
	done   chan struct{}
	closer sync.Once
}

func NewChanQueue(buffer int) *ChanQueue {
	if buffer < 1 {
		buffer = 1
	}
	return &ChanQueue{
		ch:   make(chan Job, buffer),
		done: make(chan struct{}),
	}
}

func (q *ChanQueue) Enqueue(ctx context.Context, job Job) error {
	select {
	case <-q.done:
		return ErrQueueClosed
	default:
	}

	select {
	case q.ch <- job:
		return nil
	case <-q.done:
		return ErrQueueClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *ChanQueue) Receive(ctx context.Context) (Delivery, error) {
	select {
	case job := <-q.ch:
		return Delivery{Job: job, Ack: noAck}, nil
	case <-q.done:
		return Delivery{}, ErrQueueClosed
	case <-ctx.Done():
		return Delivery{}, ctx.Err()
	}
}

// Len reports how many jobs are waiting.
func (q *ChanQueue) Len() int {
	return len(q.ch)
}

func (q *ChanQueue) Close() {
	q.closer.Do(func() { close(q.done) })
}

func noAck(context.Context) error { return nil }
