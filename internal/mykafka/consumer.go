package mykafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/segmentio/kafka-go"

	"github.com/Skotchmaster/cart_shop/internal/jobs"
)

// Consumer reads jobs as part of a consumer group. Offsets are committed on
// Ack, so a job whose worker dies before acking is delivered again.
type Consumer struct {
	reader *kafka.Reader
	log    *slog.Logger
}

func NewConsumer(brokers []string, topic, groupID string, log *slog.Logger) *Consumer {
	if log == nil {
		log = slog.Default()
	}
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:  brokers,
			Topic:    topic,
			GroupID:  groupID,
			MinBytes: 1,
			MaxBytes: 10e6,
		}),
		log: log.With("component", "kafka_consumer", "topic", topic),
	}
}

func (c *Consumer) Receive(ctx context.Context) (jobs.Delivery, error) {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			return jobs.Delivery{}, fmt.Errorf("kafka: fetch failed: %w", err)
		}

		job, err := decode(msg)
		if err != nil {
			// a poison message would block the partition forever
			c.log.Error("job_decode_failed", "error", err, "partition", msg.Partition, "offset", msg.Offset)
			if cerr := c.reader.CommitMessages(ctx, msg); cerr != nil {
				return jobs.Delivery{}, fmt.Errorf("kafka: commit failed: %w", cerr)
			}
			continue
		}

		return jobs.Delivery{
			Job: job,
			Ack: func(ctx context.Context) error {
				return c.reader.CommitMessages(ctx, msg)
			},
		}, nil
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}

func decode(msg kafka.Message) (jobs.Job, error) {
	var job jobs.Job
	if err := json.Unmarshal(msg.Value, &job); err != nil {
		return jobs.Job{}, fmt.Errorf("kafka: json.Unmarshal failed: %w", err)
	}
	if job.Type == "" {
		job.Type = string(msg.Key)
	}
	return job, nil
}
