package models

import (
	"time"

	"github.com/google/uuid"
)

type SizeStatus string

const (
	StatusInStock    SizeStatus = "in_stock"
	StatusOutOfStock SizeStatus = "out_of_stock"
)

// RestockDiscontinued is the restock-date sentinel for sizes the supplier
// will not restock.
const RestockDiscontinued = "out"

// ExtractedSize is the availability of one size number as observed on a
// supplier detail page. RestockDate is empty when unknown or in stock.
type ExtractedSize struct {
	Size        int        `json:"size"`
	Status      SizeStatus `json:"status"`
	RestockDate string     `json:"restock_date"`
}

// ExtractedProduct is the in-memory result of scraping one detail page.
// It lives only for the duration of a single crawl run.
type ExtractedProduct struct {
	Brand         string          `json:"brand,omitempty"`
	ArticleName   string          `json:"article_name"`
	ArticleNumber string          `json:"article_number"`
	Sizes         []ExtractedSize `json:"sizes,omitempty"`
}

// NaturalKey identifies the same product across crawl runs. Brand is empty
// for suppliers whose pages do not expose one.
type NaturalKey struct {
	Brand       string
	ArticleName string
}

func (p *ExtractedProduct) Key() NaturalKey {
	return NaturalKey{Brand: p.Brand, ArticleName: p.ArticleName}
}

// CatalogProduct is the persisted catalog row. It is created on first
// observation of a natural key and overwritten in place afterwards; this
// service never deletes catalog rows.
type CatalogProduct struct {
	ID            uuid.UUID `json:"id"`
	Brand         string    `json:"brand,omitempty"`
	ArticleName   string    `json:"article_name"`
	ArticleNumber string    `json:"article_number"`
	Active        int       `json:"active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (p *CatalogProduct) Key() NaturalKey {
	return NaturalKey{Brand: p.Brand, ArticleName: p.ArticleName}
}

type ReconcileOp string

const (
	OpCreated ReconcileOp = "created"
	OpUpdated ReconcileOp = "updated"
)

// ReconciledProduct is a catalog row together with the operation the
// reconciler applied to it.
type ReconciledProduct struct {
	CatalogProduct
	Op ReconcileOp `json:"op"`
}
