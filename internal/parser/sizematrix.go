// Package parser turns rendered supplier markup into extraction records.
// It is pure: callers hand it HTML captured from the browser session.
package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Lumby98/web-bot/internal/models"
)

var (
	ErrMatrixNotFound = errors.New("size matrix not found")
	ErrNoSizeHeaders  = errors.New("size matrix has no size headers")
)

// MatrixSelectors locates the size matrix inside a detail page.
type MatrixSelectors struct {
	Table   string
	Headers string
	Cells   string
}

// RawSize is one positional tuple read from the size matrix: the header
// label, the availability class token of the cell, and its tooltip.
type RawSize struct {
	Label string
	Class string
	Title string
}

// ParseSizeMatrix reads the three index-aligned arrays of the size matrix
// from rendered HTML: size numbers from the header row (the first cell is
// a non-data artifact and is dropped), one availability class token per
// cell, and one optional tooltip per cell. The arrays are zipped
// positionally.
func ParseSizeMatrix(html string, sel MatrixSelectors) ([]RawSize, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse detail page: %w", err)
	}

	table := doc.Find(sel.Table).First()
	if table.Length() == 0 {
		return nil, ErrMatrixNotFound
	}

	var labels []string
	table.Find(sel.Headers).Each(func(_ int, s *goquery.Selection) {
		labels = append(labels, strings.TrimSpace(s.Text()))
	})
	if len(labels) < 2 {
		return nil, ErrNoSizeHeaders
	}
	// first header cell is the row caption, not a size
	labels = labels[1:]

	var classes, titles []string
	table.Find(sel.Cells).Each(func(_ int, s *goquery.Selection) {
		classes = append(classes, s.AttrOr("class", ""))
		titles = append(titles, s.AttrOr("title", ""))
	})

	n := len(labels)
	if len(classes) < n {
		n = len(classes)
	}

	raw := make([]RawSize, 0, n)
	for i := 0; i < n; i++ {
		rs := RawSize{Label: labels[i], Class: classes[i]}
		if i < len(titles) {
			rs.Title = titles[i]
		}
		raw = append(raw, rs)
	}
	return raw, nil
}

// ResolveSizes merges raw matrix tuples onto the adapter's size domain
// template. Every domain size appears exactly once in the result; sizes
// never observed on the page keep the OutOfStock/"" default. Raw tuples
// whose label is not a domain size are ignored.
func ResolveSizes(raw []RawSize, domain []int, oosMarker, discMarker, delimiter string) []models.ExtractedSize {
	out := make([]models.ExtractedSize, len(domain))
	index := make(map[int]int, len(domain))
	for i, size := range domain {
		out[i] = models.ExtractedSize{Size: size, Status: models.StatusOutOfStock}
		index[size] = i
	}

	for _, rs := range raw {
		size, err := strconv.Atoi(strings.TrimSpace(rs.Label))
		if err != nil {
			continue
		}
		i, ok := index[size]
		if !ok {
			continue
		}

		status := models.StatusInStock
		if strings.Contains(rs.Class, oosMarker) {
			status = models.StatusOutOfStock
		}

		out[i] = models.ExtractedSize{
			Size:        size,
			Status:      status,
			RestockDate: resolveRestockDate(rs.Title, discMarker, delimiter),
		}
	}
	return out
}

// resolveRestockDate disambiguates the tooltip encodings, in priority
// order: no tooltip means no restock information; a discontinued marker
// means the size is gone for good; anything else is a labeled string with
// the date after the delimiter.
func resolveRestockDate(title, discMarker, delimiter string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return ""
	}
	if strings.Contains(title, discMarker) {
		return models.RestockDiscontinued
	}
	parts := strings.Split(title, delimiter)
	return strings.TrimSpace(parts[len(parts)-1])
}
