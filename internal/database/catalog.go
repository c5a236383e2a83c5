package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Lumby98/web-bot/internal/models"
	"github.com/Lumby98/web-bot/internal/reconcile"
)

// CatalogStore is the pgx-backed catalog store consumed by the
// reconciler. All reads and writes of one reconciliation batch run in a
// single transaction; the (brand, article_name) unique constraint is
// enforced by the database and fails the whole batch on violation.
type CatalogStore struct {
	db *DB
}

func NewCatalogStore(db *DB) *CatalogStore {
	return &CatalogStore{db: db}
}

func (s *CatalogStore) WithTx(ctx context.Context, fn func(tx reconcile.Tx) error) error {
	return s.db.WithTx(ctx, func(tx pgx.Tx) error {
		return fn(&catalogTx{tx: tx})
	})
}

// ListProducts returns current catalog state, outside any reconciliation
// transaction.
func (s *CatalogStore) ListProducts(ctx context.Context) ([]*models.CatalogProduct, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, brand, article_name, article_number, active, created_at, updated_at
		FROM products
		ORDER BY brand, article_name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var products []*models.CatalogProduct
	for rows.Next() {
		p := &models.CatalogProduct{}
		if err := rows.Scan(&p.ID, &p.Brand, &p.ArticleName, &p.ArticleNumber,
			&p.Active, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

type catalogTx struct {
	tx pgx.Tx
}

func (t *catalogTx) FindByNaturalKey(ctx context.Context, key models.NaturalKey) (*models.CatalogProduct, error) {
	p := &models.CatalogProduct{}
	err := t.tx.QueryRow(ctx, `
		SELECT id, brand, article_name, article_number, active, created_at, updated_at
		FROM products
		WHERE brand = $1 AND article_name = $2`,
		key.Brand, key.ArticleName,
	).Scan(&p.ID, &p.Brand, &p.ArticleName, &p.ArticleNumber,
		&p.Active, &p.CreatedAt, &p.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	return p, nil
}

func (t *catalogTx) CreateBatch(ctx context.Context, products []*models.CatalogProduct) error {
	batch := &pgx.Batch{}
	for _, p := range products {
		batch.Queue(`
			INSERT INTO products (id, brand, article_name, article_number, active)
			VALUES ($1, $2, $3, $4, $5)`,
			p.ID, p.Brand, p.ArticleName, p.ArticleNumber, p.Active)
	}
	return t.sendBatch(ctx, batch, len(products), "insert")
}

func (t *catalogTx) UpdateBatch(ctx context.Context, products []*models.CatalogProduct) error {
	batch := &pgx.Batch{}
	for _, p := range products {
		batch.Queue(`
			UPDATE products
			SET brand = $2, article_name = $3, article_number = $4, active = $5,
			    updated_at = NOW()
			WHERE id = $1`,
			p.ID, p.Brand, p.ArticleName, p.ArticleNumber, p.Active)
	}
	return t.sendBatch(ctx, batch, len(products), "update")
}

func (t *catalogTx) sendBatch(ctx context.Context, batch *pgx.Batch, n int, op string) error {
	results := t.tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < n; i++ {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("%s %d/%d failed: %w", op, i+1, n, err)
		}
	}
	return results.Close()
}
