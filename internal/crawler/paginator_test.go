package crawler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaginatorCollectLinks_DeduplicatesAcrossPages(t *testing.T) {
	site := testMatrixAdapter()
	docs := map[string]*fakeDoc{
		"https://portal.test/list?p=1": {
			hrefs:    map[string][]string{"a.product": {"/p/100", "/p/200", ""}},
			present:  map[string]bool{"a.next": true},
			clickNav: map[string]string{"a.next": "https://portal.test/list?p=2"},
		},
		"https://portal.test/list?p=2": {
			// /p/200 repeats on the second page
			hrefs: map[string][]string{"a.product": {"/p/200", "/p/300"}},
		},
	}
	page := newFakePage("https://portal.test/list?p=1", docs)

	pag := NewPaginator(fastRetry, testLogger())
	links, err := pag.CollectLinks(context.Background(), page, site)
	require.NoError(t, err)
	assert.Equal(t, []string{"/p/100", "/p/200", "/p/300"}, links)
}

func TestPaginatorCollectLinks_SinglePage(t *testing.T) {
	site := testMatrixAdapter()
	docs := map[string]*fakeDoc{
		"https://portal.test/list": {
			hrefs: map[string][]string{"a.product": {"/p/1"}},
		},
	}
	page := newFakePage("https://portal.test/list", docs)

	pag := NewPaginator(fastRetry, testLogger())
	links, err := pag.CollectLinks(context.Background(), page, site)
	require.NoError(t, err)
	assert.Equal(t, []string{"/p/1"}, links)
}

func TestPaginatorCollectLinks_StopsOnDisabledNextControl(t *testing.T) {
	site := testMatrixAdapter()
	docs := map[string]*fakeDoc{
		"https://portal.test/list": {
			hrefs:   map[string][]string{"a.product": {"/p/1", "/p/2"}},
			present: map[string]bool{"a.next": true},
			attrs:   map[string]string{"a.next|aria-disabled": "true"},
			// clicking would loop back onto the same page forever
			clickNav: map[string]string{"a.next": "https://portal.test/list"},
		},
	}
	page := newFakePage("https://portal.test/list", docs)

	pag := NewPaginator(fastRetry, testLogger())
	links, err := pag.CollectLinks(context.Background(), page, site)
	require.NoError(t, err)
	assert.Equal(t, []string{"/p/1", "/p/2"}, links)
}

func TestPaginatorCollectLinks_MissingListing(t *testing.T) {
	site := testMatrixAdapter()
	docs := map[string]*fakeDoc{
		"https://portal.test/list": {
			missing: map[string]bool{"a.product": true},
		},
	}
	page := newFakePage("https://portal.test/list", docs)

	pag := NewPaginator(fastRetry, testLogger())
	_, err := pag.CollectLinks(context.Background(), page, site)
	require.Error(t, err)
	assert.Equal(t, FailureSelectorNotFound, KindOf(err))
}
