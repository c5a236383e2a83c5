package adapter

// DefaultRegistry returns a registry with the two supported supplier
// portals. Adding a supplier means registering another Adapter here or
// at startup, not writing new control-flow code.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, a := range []*Adapter{Neskrid(), Hultafors()} {
		if err := r.Register(a); err != nil {
			// built-in adapters are validated by tests, a failure here is a
			// programming error
			panic(err)
		}
	}
	return r
}

// Neskrid crawls the authenticated Neskrid dealer portal. Every product
// reports against EU shoe sizes 35 through 53.
func Neskrid() *Adapter {
	return &Adapter{
		ID:      "neskrid",
		BaseURL: "https://www.neskrid.com/",
		Mode:    ModeSizeMatrix,
		Login: LoginFields{
			Username: "#login-form input[name=\"username\"]",
			Password: "#login-form input[name=\"password\"]",
			Submit:   "#login-form button[type=\"submit\"]",
		},
		Selectors: Selectors{
			CookieDismiss:   ".cookie-consent .btn-accept",
			PostLoginMarker: ".dealer-dashboard",
			ProductLinks:    ".product-list .product-card a.product-link",
			NextPage:        ".pagination a.next",
			ArticleName:     ".product-detail h1.article-name",
			ArticleNumber:   ".product-detail .article-number",
			MatrixOpen:      ".product-detail a.show-sizes",
			MatrixTable:     ".size-matrix table",
			MatrixHeaders:   "thead tr th",
			MatrixCells:     "tbody tr.availability td button",
		},
		SizeDomain:         sizeRange(35, 53),
		OutOfStockMarker:   "noQtyAvailable",
		DiscontinuedMarker: "Udgået",
		RestockDelimiter:   ":",
	}
}

// Hultafors lists its catalog per brand behind a dropdown and exposes no
// size matrix.
func Hultafors() *Adapter {
	return &Adapter{
		ID:      "hultafors",
		BaseURL: "https://partnerportal.hultaforsgroup.dk/",
		Mode:    ModeBrandList,
		Login: LoginFields{
			Username: "form#loginForm input#UserName",
			Password: "form#loginForm input#Password",
			Submit:   "form#loginForm input[type=\"submit\"]",
		},
		Selectors: Selectors{
			PostLoginMarker: "#catalog-root",
			BrandDropdown:   "select#brand-select",
			BrandRows:       "#catalog-root ul.product-list li.product-row",
			BrandName:       ".product-name",
			BrandNumber:     ".product-number",
		},
	}
}

func sizeRange(from, to int) []int {
	sizes := make([]int, 0, to-from+1)
	for s := from; s <= to; s++ {
		sizes = append(sizes, s)
	}
	return sizes
}
