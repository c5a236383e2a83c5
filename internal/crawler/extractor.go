package crawler

import (
	"context"
	"log/slog"
	"strings"

	"github.com/Lumby98/web-bot/internal/adapter"
	"github.com/Lumby98/web-bot/internal/models"
	"github.com/Lumby98/web-bot/internal/parser"
)

// Extractor reads structured product data off detail pages and brand
// listings. It is called strictly sequentially: the session is
// single-flight.
type Extractor struct {
	retry  RetryPolicy
	logger *slog.Logger
}

func NewExtractor(retry RetryPolicy, logger *slog.Logger) *Extractor {
	return &Extractor{
		retry:  retry,
		logger: logger.With("component", "extractor"),
	}
}

// ExtractProduct navigates to one detail link and parses product identity
// plus the full size/availability matrix. Every size of the adapter's
// size domain appears exactly once in the result; sizes absent from the
// page default to out of stock with no restock date.
func (e *Extractor) ExtractProduct(ctx context.Context, page Page, site *adapter.Adapter, link string) (*models.ExtractedProduct, error) {
	err := e.retry.Do(ctx, func() error {
		return page.Goto(ctx, link)
	})
	if err != nil {
		return nil, classified(FailureSelectorNotFound, "detail page navigation", err)
	}

	if err := page.WaitFor(ctx, site.Selectors.ArticleName); err != nil {
		return nil, classified(FailureSelectorNotFound, "article name", err)
	}
	name, err := page.Text(site.Selectors.ArticleName)
	if err != nil {
		return nil, classified(FailureSelectorNotFound, "article name", err)
	}
	number, err := page.Text(site.Selectors.ArticleNumber)
	if err != nil {
		return nil, classified(FailureSelectorNotFound, "article number", err)
	}

	if err := page.Click(site.Selectors.MatrixOpen); err != nil {
		return nil, classified(FailureSelectorNotFound, "size matrix control", err)
	}
	if err := page.WaitFor(ctx, site.Selectors.MatrixTable); err != nil {
		return nil, classified(FailureSelectorNotFound, "size matrix table", err)
	}

	html, err := page.Content()
	if err != nil {
		return nil, classified(FailureSelectorNotFound, "detail page content", err)
	}

	raw, err := parser.ParseSizeMatrix(html, parser.MatrixSelectors{
		Table:   site.Selectors.MatrixTable,
		Headers: site.Selectors.MatrixHeaders,
		Cells:   site.Selectors.MatrixCells,
	})
	if err != nil {
		return nil, classified(FailureSelectorNotFound, "size matrix parse", err)
	}

	product := &models.ExtractedProduct{
		ArticleName:   strings.TrimSpace(name),
		ArticleNumber: strings.TrimSpace(number),
		Sizes: parser.ResolveSizes(raw, site.SizeDomain,
			site.OutOfStockMarker, site.DiscontinuedMarker, site.RestockDelimiter),
	}
	e.logger.Debug("extracted product", "supplier", site.ID,
		"article", product.ArticleName, "sizes", len(product.Sizes))
	return product, nil
}

// ExtractBrandCatalog iterates every brand of the dropdown and reads the
// product rows rendered per brand. Name and article number are read from
// the same row element rather than two document-wide queries, so the
// pairs cannot misalign.
func (e *Extractor) ExtractBrandCatalog(ctx context.Context, page Page, site *adapter.Adapter) ([]*models.ExtractedProduct, error) {
	brands, err := page.OptionValues(site.Selectors.BrandDropdown)
	if err != nil {
		return nil, classified(FailureSelectorNotFound, "brand dropdown", err)
	}
	if len(brands) == 0 {
		return nil, classified(FailureSelectorNotFound, "brand dropdown", parser.ErrNoBrandRows)
	}

	var products []*models.ExtractedProduct
	for _, brand := range brands {
		if err := page.SelectOption(ctx, site.Selectors.BrandDropdown, brand); err != nil {
			return nil, classified(FailureSelectorNotFound, "brand selection", err)
		}
		if err := page.WaitFor(ctx, site.Selectors.BrandRows); err != nil {
			return nil, classified(FailureSelectorNotFound, "brand listing", err)
		}

		html, err := page.Content()
		if err != nil {
			return nil, classified(FailureSelectorNotFound, "brand listing content", err)
		}
		rows, err := parser.ParseBrandRows(html, parser.BrandRowSelectors{
			Rows:   site.Selectors.BrandRows,
			Name:   site.Selectors.BrandName,
			Number: site.Selectors.BrandNumber,
		})
		if err != nil {
			return nil, classified(FailureSelectorNotFound, "brand listing parse", err)
		}

		for _, row := range rows {
			products = append(products, &models.ExtractedProduct{
				Brand:         brand,
				ArticleName:   row.Name,
				ArticleNumber: row.Number,
			})
		}
		e.logger.Info("extracted brand listing", "supplier", site.ID, "brand", brand, "products", len(rows))
	}
	return products, nil
}
