package adapter

import (
	"errors"
	"fmt"
	"sync"
)

var ErrUnknownSupplier = errors.New("unknown supplier")

// Mode selects which extraction flow a supplier portal needs.
type Mode string

const (
	// ModeSizeMatrix crawls listing pages and reads a per-product
	// size/availability matrix from each detail page.
	ModeSizeMatrix Mode = "size_matrix"
	// ModeBrandList iterates a brand dropdown and reads product rows
	// rendered per brand. No size matrix exists on these portals.
	ModeBrandList Mode = "brand_list"
)

// LoginFields maps the login form inputs of a supplier portal.
type LoginFields struct {
	Username string
	Password string
	Submit   string
}

// Selectors is the per-supplier element selector table. Only the fields
// relevant to the adapter's Mode need to be set.
type Selectors struct {
	CookieDismiss   string // optional interstitial, skipped when absent
	PostLoginMarker string

	ProductLinks string // listing-page anchors, href carries the detail URL
	NextPage     string

	ArticleName   string
	ArticleNumber string
	MatrixOpen    string
	MatrixTable   string
	MatrixHeaders string // size numbers, first cell is a non-data artifact
	MatrixCells   string // class carries availability, title the tooltip

	BrandDropdown string
	BrandRows     string // one element per product, queried as a unit
	BrandName     string
	BrandNumber   string
}

// Adapter is the immutable per-supplier configuration. Instances are
// registered once at startup and never mutated afterwards.
type Adapter struct {
	ID      string
	BaseURL string
	Mode    Mode

	Login     LoginFields
	Selectors Selectors

	// SizeDomain is the fixed, ordered set of size numbers every product
	// of this supplier reports against.
	SizeDomain []int

	// OutOfStockMarker is the class token substring marking a sold-out cell.
	OutOfStockMarker string
	// DiscontinuedMarker is the tooltip token marking a permanently
	// discontinued size.
	DiscontinuedMarker string
	// RestockDelimiter separates the tooltip label from the restock date.
	RestockDelimiter string
}

func (a *Adapter) Validate() error {
	if a.ID == "" {
		return errors.New("adapter id is required")
	}
	if a.BaseURL == "" {
		return fmt.Errorf("adapter %s: base url is required", a.ID)
	}
	if a.Login.Username == "" || a.Login.Password == "" || a.Login.Submit == "" {
		return fmt.Errorf("adapter %s: login field mapping is incomplete", a.ID)
	}
	if a.Selectors.PostLoginMarker == "" {
		return fmt.Errorf("adapter %s: post-login marker is required", a.ID)
	}
	switch a.Mode {
	case ModeSizeMatrix:
		if len(a.SizeDomain) == 0 {
			return fmt.Errorf("adapter %s: size domain is required", a.ID)
		}
	case ModeBrandList:
		if a.Selectors.BrandDropdown == "" {
			return fmt.Errorf("adapter %s: brand dropdown selector is required", a.ID)
		}
	default:
		return fmt.Errorf("adapter %s: unknown mode %q", a.ID, a.Mode)
	}
	return nil
}

// Registry maps supplier ids to their adapters.
type Registry struct {
	mu       sync.RWMutex
	adapters map[string]*Adapter
}

func NewRegistry() *Registry {
	return &Registry{adapters: make(map[string]*Adapter)}
}

func (r *Registry) Register(a *Adapter) error {
	if err := a.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.adapters[a.ID]; exists {
		return fmt.Errorf("adapter %s already registered", a.ID)
	}
	r.adapters[a.ID] = a
	return nil
}

func (r *Registry) Get(supplierID string) (*Adapter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.adapters[supplierID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSupplier, supplierID)
	}
	return a, nil
}

func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.adapters))
	for id := range r.adapters {
		ids = append(ids, id)
	}
	return ids
}
