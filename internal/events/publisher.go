package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Lumby98/web-bot/internal/database"
	"github.com/Lumby98/web-bot/internal/models"
)

type EventType string

const (
	// EventTypeCatalogReconciled is published after a crawl run committed
	// its reconciliation batch.
	EventTypeCatalogReconciled EventType = "CATALOG_RECONCILED"
)

// CatalogReconciledPayload describes one committed reconciliation batch.
type CatalogReconciledPayload struct {
	EventID    string       `json:"event_id"`
	EventType  string       `json:"event_type"`
	Timestamp  time.Time    `json:"timestamp"`
	SupplierID string       `json:"supplier_id"`
	Created    int          `json:"created"`
	Updated    int          `json:"updated"`
	Products   []ProductRef `json:"products"`
}

type ProductRef struct {
	ID            string `json:"id"`
	Brand         string `json:"brand,omitempty"`
	ArticleName   string `json:"article_name"`
	ArticleNumber string `json:"article_number"`
	Op            string `json:"op"`
}

// Publisher stages catalog events in the transactional outbox; the relay
// ships them to Redis asynchronously.
type Publisher struct {
	db     *database.DB
	outbox *database.OutboxRepository
	logger *slog.Logger
}

func NewPublisher(db *database.DB, logger *slog.Logger) *Publisher {
	return &Publisher{
		db:     db,
		outbox: database.NewOutboxRepository(db),
		logger: logger.With("component", "event_publisher"),
	}
}

// PublishCatalogReconciled stages one CATALOG_RECONCILED event for the
// given run result.
func (p *Publisher) PublishCatalogReconciled(ctx context.Context, supplierID string, reconciled []models.ReconciledProduct) error {
	payload := &CatalogReconciledPayload{
		EventID:    uuid.New().String(),
		EventType:  string(EventTypeCatalogReconciled),
		Timestamp:  time.Now(),
		SupplierID: supplierID,
	}
	for _, rec := range reconciled {
		switch rec.Op {
		case models.OpCreated:
			payload.Created++
		case models.OpUpdated:
			payload.Updated++
		}
		payload.Products = append(payload.Products, ProductRef{
			ID:            rec.ID.String(),
			Brand:         rec.Brand,
			ArticleName:   rec.ArticleName,
			ArticleNumber: rec.ArticleNumber,
			Op:            string(rec.Op),
		})
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = p.db.WithTx(ctx, func(tx pgx.Tx) error {
		return p.outbox.InsertWithTx(ctx, tx, &database.OutboxEvent{
			AggregateID: supplierID,
			EventType:   string(EventTypeCatalogReconciled),
			Payload:     data,
		})
	})
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	p.logger.Info("event staged", "type", payload.EventType,
		"supplier", supplierID, "created", payload.Created, "updated", payload.Updated)
	return nil
}
