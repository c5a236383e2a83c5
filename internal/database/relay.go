package database

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClient is the slice of the Redis API the relay uses. Kept small so
// tests can substitute a fake.
type RedisClient interface {
	XAdd(ctx context.Context, args *redis.XAddArgs) *redis.StringCmd
}

// Relay ships staged outbox events to Redis streams. Delivery is at
// least once; consumers must dedupe on event id.
type Relay struct {
	outbox    *OutboxRepository
	redis     RedisClient
	logger    *slog.Logger
	interval  time.Duration
	batchSize int
}

type RelayConfig struct {
	PollInterval time.Duration
	BatchSize    int
}

func NewRelay(db *DB, redisClient RedisClient, logger *slog.Logger, cfg RelayConfig) *Relay {
	if cfg.PollInterval == 0 {
		cfg.PollInterval = 5 * time.Second
	}
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 100
	}
	return &Relay{
		outbox:    NewOutboxRepository(db),
		redis:     redisClient,
		logger:    logger.With("component", "relay"),
		interval:  cfg.PollInterval,
		batchSize: cfg.BatchSize,
	}
}

// Start polls the outbox until ctx is cancelled.
func (r *Relay) Start(ctx context.Context) error {
	r.logger.Info("relay started", "interval", r.interval, "batch_size", r.batchSize)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("relay stopping")
			return ctx.Err()
		case <-ticker.C:
			if err := r.processBatch(ctx); err != nil {
				r.logger.Error("relay batch failed", "error", err)
			}
		}
	}
}

func (r *Relay) processBatch(ctx context.Context) error {
	events, err := r.outbox.GetPending(ctx, r.batchSize)
	if err != nil {
		return err
	}

	for _, event := range events {
		err := r.redis.XAdd(ctx, &redis.XAddArgs{
			Stream: event.TargetStream,
			Values: map[string]interface{}{
				"event_id":   event.ID.String(),
				"event_type": event.EventType,
				"payload":    string(event.Payload),
			},
		}).Err()

		if err != nil {
			r.logger.Error("failed to ship event", "id", event.ID, "error", err)
			if markErr := r.outbox.MarkFailed(ctx, event.ID, err); markErr != nil {
				r.logger.Error("failed to record relay failure", "id", event.ID, "error", markErr)
			}
			continue
		}
		if err := r.outbox.MarkProcessed(ctx, event.ID); err != nil {
			r.logger.Error("failed to mark event processed", "id", event.ID, "error", err)
		}
	}
	return nil
}

// PendingCount reports how many events still wait for relay.
func (r *Relay) PendingCount(ctx context.Context) (int, error) {
	return r.outbox.CountByStatus(ctx, OutboxStatusPending)
}

// DeadLetterCount reports how many events exhausted their retries.
func (r *Relay) DeadLetterCount(ctx context.Context) (int, error) {
	return r.outbox.CountByStatus(ctx, OutboxStatusDeadLetter)
}
