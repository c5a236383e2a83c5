package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	OutboxStatusPending    = "pending"
	OutboxStatusProcessed  = "processed"
	OutboxStatusFailed     = "failed"
	OutboxStatusDeadLetter = "dead_letter"

	// MaxRetryCount is the number of relay attempts before an event moves
	// to the dead letter status.
	MaxRetryCount = 5
)

// OutboxEvent is a catalog event staged in the transactional outbox. It
// is written in the same transaction as the state change it describes
// and shipped to Redis by the relay.
type OutboxEvent struct {
	ID           uuid.UUID
	AggregateID  string
	EventType    string
	Payload      json.RawMessage
	TargetStream string
	Status       string
	RetryCount   int
	ErrorMessage *string
	CreatedAt    time.Time
	ProcessedAt  *time.Time
}

type OutboxRepository struct {
	db *DB
}

func NewOutboxRepository(db *DB) *OutboxRepository {
	return &OutboxRepository{db: db}
}

// InsertWithTx stages an event inside the caller's transaction.
func (r *OutboxRepository) InsertWithTx(ctx context.Context, tx pgx.Tx, event *OutboxEvent) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.Status == "" {
		event.Status = OutboxStatusPending
	}
	if event.TargetStream == "" {
		event.TargetStream = "stream:catalog_sync"
	}
	event.CreatedAt = time.Now()

	_, err := tx.Exec(ctx, `
		INSERT INTO outbox_event (id, aggregate_id, event_type, payload, target_stream, status, retry_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		event.ID, event.AggregateID, event.EventType, event.Payload,
		event.TargetStream, event.Status, event.RetryCount, event.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert outbox event: %w", err)
	}
	return nil
}

// GetPending returns events ready for relay, oldest first.
func (r *OutboxRepository) GetPending(ctx context.Context, limit int) ([]*OutboxEvent, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, aggregate_id, event_type, payload, target_stream, status, retry_count, created_at
		FROM outbox_event
		WHERE status IN ($1, $2)
		ORDER BY created_at
		LIMIT $3`,
		OutboxStatusPending, OutboxStatusFailed, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending events: %w", err)
	}
	defer rows.Close()

	var events []*OutboxEvent
	for rows.Next() {
		e := &OutboxEvent{}
		if err := rows.Scan(&e.ID, &e.AggregateID, &e.EventType, &e.Payload,
			&e.TargetStream, &e.Status, &e.RetryCount, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan outbox event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *OutboxRepository) MarkProcessed(ctx context.Context, id uuid.UUID) error {
	err := r.db.Exec(ctx, `
		UPDATE outbox_event
		SET status = $2, processed_at = NOW()
		WHERE id = $1`,
		id, OutboxStatusProcessed)
	if err != nil {
		return fmt.Errorf("failed to mark event processed: %w", err)
	}
	return nil
}

// MarkFailed records a relay failure and moves the event to dead letter
// once the retry budget is spent.
func (r *OutboxRepository) MarkFailed(ctx context.Context, id uuid.UUID, cause error) error {
	msg := cause.Error()
	err := r.db.Exec(ctx, `
		UPDATE outbox_event
		SET status = CASE WHEN retry_count + 1 >= $3 THEN $4 ELSE $2 END,
		    retry_count = retry_count + 1,
		    error_message = $5
		WHERE id = $1`,
		id, OutboxStatusFailed, MaxRetryCount, OutboxStatusDeadLetter, msg)
	if err != nil {
		return fmt.Errorf("failed to mark event failed: %w", err)
	}
	return nil
}

func (r *OutboxRepository) CountByStatus(ctx context.Context, status string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM outbox_event WHERE status = $1`, status).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count outbox events: %w", err)
	}
	return count, nil
}
