// Package reconcile merges freshly extracted product sets into persisted
// catalog state, atomically.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Lumby98/web-bot/internal/models"
)

// ErrDuplicateKey is returned when two records of one batch collide on
// their natural key. The whole batch is aborted.
var ErrDuplicateKey = errors.New("duplicate natural key in batch")

// Tx is the transactional view of the catalog store. Lookups run inside
// the same transaction as the writes so a concurrent writer cannot slip
// between lookup and apply.
type Tx interface {
	FindByNaturalKey(ctx context.Context, key models.NaturalKey) (*models.CatalogProduct, error)
	CreateBatch(ctx context.Context, products []*models.CatalogProduct) error
	UpdateBatch(ctx context.Context, products []*models.CatalogProduct) error
}

// Store opens one transaction per reconciliation batch. The transaction
// is committed iff fn returns nil and rolled back otherwise; either way
// it is finalized exactly once.
type Store interface {
	WithTx(ctx context.Context, fn func(tx Tx) error) error
}

type Reconciler struct {
	store  Store
	logger *slog.Logger
}

func NewReconciler(store Store, logger *slog.Logger) *Reconciler {
	return &Reconciler{
		store:  store,
		logger: logger.With("component", "reconciler"),
	}
}

// Reconcile diffs the extracted set against current catalog state and
// applies one atomic create/update batch. A record whose natural key is
// unknown is created with active defaulted to 1; a known key gets a
// full-field overwrite. No partial writes are ever visible: any staging
// or apply failure rolls back the entire transaction.
func (r *Reconciler) Reconcile(ctx context.Context, extracted []*models.ExtractedProduct) ([]models.ReconciledProduct, error) {
	var result []models.ReconciledProduct

	err := r.store.WithTx(ctx, func(tx Tx) error {
		staged := make(map[models.NaturalKey]struct{}, len(extracted))
		var creates, updates []*models.CatalogProduct

		for _, e := range extracted {
			key := e.Key()
			if _, dup := staged[key]; dup {
				return fmt.Errorf("%w: brand=%q article=%q", ErrDuplicateKey, key.Brand, key.ArticleName)
			}
			staged[key] = struct{}{}

			existing, err := tx.FindByNaturalKey(ctx, key)
			if err != nil {
				return fmt.Errorf("lookup %q failed: %w", key.ArticleName, err)
			}

			if existing == nil {
				created := &models.CatalogProduct{
					ID:            uuid.New(),
					Brand:         e.Brand,
					ArticleName:   e.ArticleName,
					ArticleNumber: e.ArticleNumber,
					Active:        1,
				}
				creates = append(creates, created)
				result = append(result, models.ReconciledProduct{CatalogProduct: *created, Op: models.OpCreated})
				continue
			}

			existing.Brand = e.Brand
			existing.ArticleName = e.ArticleName
			existing.ArticleNumber = e.ArticleNumber
			updates = append(updates, existing)
			result = append(result, models.ReconciledProduct{CatalogProduct: *existing, Op: models.OpUpdated})
		}

		if len(creates) > 0 {
			if err := tx.CreateBatch(ctx, creates); err != nil {
				return fmt.Errorf("create batch failed: %w", err)
			}
		}
		if len(updates) > 0 {
			if err := tx.UpdateBatch(ctx, updates); err != nil {
				return fmt.Errorf("update batch failed: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.logger.Info("reconciled batch", "records", len(result))
	return result, nil
}
