package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var ErrNoBrandRows = errors.New("no product rows found for brand")

// BrandRowSelectors locates the per-brand product listing.
type BrandRowSelectors struct {
	Rows   string
	Name   string
	Number string
}

// BrandRow is one product entry of a brand listing.
type BrandRow struct {
	Name   string
	Number string
}

// ParseBrandRows reads the product rows rendered for the currently
// selected brand. Name and number are read from the same row element, so
// the two fields cannot silently misalign the way two independent
// document-wide queries could.
func ParseBrandRows(html string, sel BrandRowSelectors) ([]BrandRow, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse brand listing: %w", err)
	}

	var rows []BrandRow
	doc.Find(sel.Rows).Each(func(_ int, s *goquery.Selection) {
		name := strings.TrimSpace(s.Find(sel.Name).First().Text())
		number := strings.TrimSpace(s.Find(sel.Number).First().Text())
		if name == "" {
			return
		}
		rows = append(rows, BrandRow{Name: name, Number: number})
	})
	if len(rows) == 0 {
		return nil, ErrNoBrandRows
	}
	return rows, nil
}
