package crawler

import (
	"context"
	"fmt"
	"sync"

	"github.com/Lumby98/web-bot/internal/adapter"
)

// fakeDoc scripts what a fakePage serves while "on" one URL.
type fakeDoc struct {
	html     string
	texts    map[string]string
	hrefs    map[string][]string
	attrs    map[string]string // selector + "|" + attribute name
	present  map[string]bool
	options  map[string][]string
	missing  map[string]bool   // WaitFor / Fill / Click time out on these
	clickNav map[string]string // clicking navigates to this URL
}

type fakePage struct {
	mu        sync.Mutex
	docs      map[string]*fakeDoc
	cur       string
	gotoFails map[string]int // transient failures remaining per URL
	gotoErr   map[string]error
	selectNav map[string]string // option value -> URL
	filled    map[string]string
	closes    int
}

func newFakePage(start string, docs map[string]*fakeDoc) *fakePage {
	return &fakePage{
		docs:      docs,
		cur:       start,
		gotoFails: map[string]int{},
		gotoErr:   map[string]error{},
		selectNav: map[string]string{},
		filled:    map[string]string{},
	}
}

func (p *fakePage) doc() *fakeDoc {
	d, ok := p.docs[p.cur]
	if !ok {
		return &fakeDoc{}
	}
	return d
}

func (p *fakePage) Goto(_ context.Context, url string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if n := p.gotoFails[url]; n > 0 {
		p.gotoFails[url] = n - 1
		return fmt.Errorf("transient load failure for %s", url)
	}
	if err := p.gotoErr[url]; err != nil {
		return err
	}
	if _, ok := p.docs[url]; !ok {
		return fmt.Errorf("no document for %s", url)
	}
	p.cur = url
	return nil
}

func (p *fakePage) WaitFor(_ context.Context, selector string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.doc().missing[selector] {
		return fmt.Errorf("timed out waiting for %q", selector)
	}
	return nil
}

func (p *fakePage) Exists(selector string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.doc().present[selector], nil
}

func (p *fakePage) Click(selector string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	d := p.doc()
	if d.missing[selector] {
		return fmt.Errorf("cannot click %q", selector)
	}
	if target, ok := d.clickNav[selector]; ok {
		p.cur = target
	}
	return nil
}

func (p *fakePage) Fill(selector, value string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.doc().missing[selector] {
		return fmt.Errorf("cannot fill %q", selector)
	}
	p.filled[selector] = value
	return nil
}

func (p *fakePage) Text(selector string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	text, ok := p.doc().texts[selector]
	if !ok {
		return "", fmt.Errorf("no text for %q", selector)
	}
	return text, nil
}

func (p *fakePage) Attr(selector, name string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.doc().attrs[selector+"|"+name], nil
}

func (p *fakePage) Hrefs(selector string) ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.doc().hrefs[selector], nil
}

func (p *fakePage) OptionValues(selector string) ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.doc().options[selector], nil
}

func (p *fakePage) SelectOption(_ context.Context, _, value string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if target, ok := p.selectNav[value]; ok {
		p.cur = target
	}
	return nil
}

func (p *fakePage) Content() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.doc().html, nil
}

func (p *fakePage) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closes++
	return nil
}

func testMatrixAdapter() *adapter.Adapter {
	return &adapter.Adapter{
		ID:      "testshoes",
		BaseURL: "https://portal.test/",
		Mode:    adapter.ModeSizeMatrix,
		Login: adapter.LoginFields{
			Username: "#user",
			Password: "#pass",
			Submit:   "#submit",
		},
		Selectors: adapter.Selectors{
			CookieDismiss:   "#cookie",
			PostLoginMarker: "#dash",
			ProductLinks:    "a.product",
			NextPage:        "a.next",
			ArticleName:     "h1.name",
			ArticleNumber:   ".number",
			MatrixOpen:      "a.sizes",
			MatrixTable:     ".size-matrix table",
			MatrixHeaders:   "thead tr th",
			MatrixCells:     "tbody tr.availability td button",
		},
		SizeDomain:         []int{35, 36, 37},
		OutOfStockMarker:   "noQtyAvailable",
		DiscontinuedMarker: "Udgået",
		RestockDelimiter:   ":",
	}
}

func testBrandAdapter() *adapter.Adapter {
	return &adapter.Adapter{
		ID:      "testbrands",
		BaseURL: "https://brands.test/",
		Mode:    adapter.ModeBrandList,
		Login: adapter.LoginFields{
			Username: "#user",
			Password: "#pass",
			Submit:   "#submit",
		},
		Selectors: adapter.Selectors{
			PostLoginMarker: "#catalog",
			BrandDropdown:   "select#brand",
			BrandRows:       "ul.product-list li.product-row",
			BrandName:       ".product-name",
			BrandNumber:     ".product-number",
		},
	}
}

func matrixHTML(cells string) string {
	return `<div class="size-matrix"><table>
		<thead><tr><th>Str.</th><th>35</th><th>37</th></tr></thead>
		<tbody><tr class="availability">` + cells + `</tr></tbody>
	</table></div>`
}
