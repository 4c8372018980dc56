// Package worker runs the outbox relay that ships committed audit events to
// Kafka.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/twmb/franz-go/pkg/kgo"

	"consentgate/pkg/platform/audit/store/postgres"
	"consentgate/pkg/platform/tx"
)

// OutboxStore is the outbox surface the relay drives.
type OutboxStore interface {
	FetchUnpublished(ctx context.Context, limit int) ([]postgres.OutboxEntry, error)
	MarkPublished(ctx context.Context, ids []uuid.UUID) error
}

// Producer is satisfied by *kgo.Client.
type Producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
}

// Relay polls the outbox and publishes rows in order. A batch is marked
// published only after every record in it was acknowledged; a failed batch
// stays locked-then-released and is retried on the next tick.
type Relay struct {
	store     OutboxStore
	producer  Producer
	runner    tx.Runner
	topic     string
	batchSize int
	interval  time.Duration
	logger    *slog.Logger
}

// Option configures the Relay.
type Option func(*Relay)

func WithBatchSize(n int) Option {
	return func(r *Relay) {
		if n > 0 {
			r.batchSize = n
		}
	}
}

func WithInterval(d time.Duration) Option {
	return func(r *Relay) {
		if d > 0 {
			r.interval = d
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(r *Relay) {
		r.logger = logger
	}
}

func NewRelay(store OutboxStore, producer Producer, runner tx.Runner, topic string, opts ...Option) *Relay {
	r := &Relay{
		store:     store,
		producer:  producer,
		runner:    runner,
		topic:     topic,
		batchSize: 100,
		interval:  time.Second,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run relays until ctx is cancelled.
func (r *Relay) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		n, err := r.RelayOnce(ctx)
		if err != nil {
			r.logger.ErrorContext(ctx, "outbox relay failed", "error", err)
		}
		// Drain backlog without waiting for the next tick.
		if err == nil && n == r.batchSize {
			continue
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// RelayOnce publishes at most one batch and returns how many rows it shipped.
func (r *Relay) RelayOnce(ctx context.Context) (int, error) {
	var shipped int
	err := r.runner.RunInTx(ctx, func(ctx context.Context) error {
		entries, err := r.store.FetchUnpublished(ctx, r.batchSize)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			return nil
		}

		records := make([]*kgo.Record, len(entries))
		ids := make([]uuid.UUID, len(entries))
		for i, e := range entries {
			records[i] = &kgo.Record{
				Topic: r.topic,
				Key:   []byte(e.AggregateID),
				Value: e.Payload,
				Headers: []kgo.RecordHeader{
					{Key: "event_id", Value: []byte(e.ID.String())},
					{Key: "event_type", Value: []byte(e.EventType)},
				},
			}
			ids[i] = e.ID
		}

		if err := r.producer.ProduceSync(ctx, records...).FirstErr(); err != nil {
			return fmt.Errorf("produce audit batch: %w", err)
		}
		if err := r.store.MarkPublished(ctx, ids); err != nil {
			return err
		}
		shipped = len(entries)
		return nil
	})
	if err != nil {
		return 0, err
	}
	if shipped > 0 {
		r.logger.DebugContext(ctx, "relayed outbox batch", "count", shipped, "topic", r.topic)
	}
	return shipped, nil
}
