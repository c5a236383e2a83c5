package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var brandSelectors = BrandRowSelectors{
	Rows:   "ul.product-list li.product-row",
	Name:   ".product-name",
	Number: ".product-number",
}

func TestParseBrandRows(t *testing.T) {
	html := `
		<ul class="product-list">
			<li class="product-row">
				<span class="product-name"> Jalas 1718 </span>
				<span class="product-number">1718-36</span>
			</li>
			<li class="product-row">
				<span class="product-name">Jalas 3020</span>
				<span class="product-number"> 3020-42 </span>
			</li>
		</ul>`

	rows, err := ParseBrandRows(html, brandSelectors)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, BrandRow{Name: "Jalas 1718", Number: "1718-36"}, rows[0])
	assert.Equal(t, BrandRow{Name: "Jalas 3020", Number: "3020-42"}, rows[1])
}

func TestParseBrandRows_SkipsRowsWithoutName(t *testing.T) {
	html := `
		<ul class="product-list">
			<li class="product-row"><span class="product-number">orphan</span></li>
			<li class="product-row">
				<span class="product-name">Jalas 1718</span>
				<span class="product-number">1718-36</span>
			</li>
		</ul>`

	rows, err := ParseBrandRows(html, brandSelectors)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Jalas 1718", rows[0].Name)
}

func TestParseBrandRows_NoRows(t *testing.T) {
	_, err := ParseBrandRows(`<div>empty catalog</div>`, brandSelectors)
	assert.ErrorIs(t, err, ErrNoBrandRows)
}
