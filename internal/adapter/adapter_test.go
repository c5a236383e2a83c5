package adapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validMatrixAdapter() *Adapter {
	return &Adapter{
		ID:      "acme",
		BaseURL: "https://portal.acme.test/",
		Mode:    ModeSizeMatrix,
		Login: LoginFields{
			Username: "#user",
			Password: "#pass",
			Submit:   "#submit",
		},
		Selectors:  Selectors{PostLoginMarker: "#home"},
		SizeDomain: []int{40, 41},
	}
}

func TestAdapterValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(a *Adapter)
		wantErr string
	}{
		{name: "valid", mutate: func(*Adapter) {}},
		{
			name:    "missing id",
			mutate:  func(a *Adapter) { a.ID = "" },
			wantErr: "id is required",
		},
		{
			name:    "missing base url",
			mutate:  func(a *Adapter) { a.BaseURL = "" },
			wantErr: "base url is required",
		},
		{
			name:    "incomplete login mapping",
			mutate:  func(a *Adapter) { a.Login.Submit = "" },
			wantErr: "login field mapping is incomplete",
		},
		{
			name:    "missing post-login marker",
			mutate:  func(a *Adapter) { a.Selectors.PostLoginMarker = "" },
			wantErr: "post-login marker is required",
		},
		{
			name:    "matrix mode without size domain",
			mutate:  func(a *Adapter) { a.SizeDomain = nil },
			wantErr: "size domain is required",
		},
		{
			name: "brand mode without dropdown",
			mutate: func(a *Adapter) {
				a.Mode = ModeBrandList
			},
			wantErr: "brand dropdown selector is required",
		},
		{
			name:    "unknown mode",
			mutate:  func(a *Adapter) { a.Mode = "carousel" },
			wantErr: "unknown mode",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := validMatrixAdapter()
			tt.mutate(a)
			err := a.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(validMatrixAdapter()))

	got, err := r.Get("acme")
	require.NoError(t, err)
	assert.Equal(t, "acme", got.ID)

	assert.ElementsMatch(t, []string{"acme"}, r.IDs())
}

func TestRegistry_UnknownSupplier(t *testing.T) {
	r := NewRegistry()
	_, err := r.Get("nosuch")
	assert.ErrorIs(t, err, ErrUnknownSupplier)
}

func TestRegistry_RejectsDuplicateRegistration(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(validMatrixAdapter()))
	err := r.Register(validMatrixAdapter())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

func TestRegistry_RejectsInvalidAdapter(t *testing.T) {
	r := NewRegistry()
	a := validMatrixAdapter()
	a.BaseURL = ""
	assert.Error(t, r.Register(a))
	assert.Empty(t, r.IDs())
}

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()
	assert.ElementsMatch(t, []string{"neskrid", "hultafors"}, r.IDs())
}

func TestNeskridAdapter(t *testing.T) {
	a := Neskrid()
	require.NoError(t, a.Validate())
	assert.Equal(t, ModeSizeMatrix, a.Mode)

	// EU sizes 35 through 53, contiguous
	require.Len(t, a.SizeDomain, 19)
	assert.Equal(t, 35, a.SizeDomain[0])
	assert.Equal(t, 53, a.SizeDomain[18])
	for i := 1; i < len(a.SizeDomain); i++ {
		assert.Equal(t, a.SizeDomain[i-1]+1, a.SizeDomain[i])
	}

	assert.Equal(t, "noQtyAvailable", a.OutOfStockMarker)
	assert.Equal(t, "Udgået", a.DiscontinuedMarker)
	assert.Equal(t, ":", a.RestockDelimiter)
}

func TestHultaforsAdapter(t *testing.T) {
	a := Hultafors()
	require.NoError(t, a.Validate())
	assert.Equal(t, ModeBrandList, a.Mode)
	assert.Empty(t, a.SizeDomain)
	assert.NotEmpty(t, a.Selectors.BrandDropdown)
	assert.NotEmpty(t, a.Selectors.BrandRows)
}
