package crawler

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var fastRetry = RetryPolicy{Attempts: 2, Backoff: 0}

func loginDocs() map[string]*fakeDoc {
	return map[string]*fakeDoc{
		"https://portal.test/": {
			clickNav: map[string]string{"#submit": "https://portal.test/home"},
		},
		"https://portal.test/home": {},
	}
}

func TestNavigatorAuthenticate(t *testing.T) {
	site := testMatrixAdapter()
	page := newFakePage("about:blank", loginDocs())
	nav := NewNavigator(fastRetry, testLogger())

	err := nav.Authenticate(context.Background(), page, site, "alice", "s3cret")
	require.NoError(t, err)

	assert.Equal(t, "alice", page.filled["#user"])
	assert.Equal(t, "s3cret", page.filled["#pass"])
	assert.Equal(t, "https://portal.test/home", page.cur)
}

func TestNavigatorAuthenticate_RetriesTransientLoadFailure(t *testing.T) {
	site := testMatrixAdapter()
	page := newFakePage("about:blank", loginDocs())
	page.gotoFails[site.BaseURL] = 1

	nav := NewNavigator(fastRetry, testLogger())
	err := nav.Authenticate(context.Background(), page, site, "alice", "s3cret")
	require.NoError(t, err)
}

func TestNavigatorAuthenticate_PortalUnreachable(t *testing.T) {
	site := testMatrixAdapter()
	// no document registered for the portal URL, every load fails
	page := newFakePage("about:blank", map[string]*fakeDoc{})

	nav := NewNavigator(fastRetry, testLogger())
	err := nav.Authenticate(context.Background(), page, site, "alice", "s3cret")
	require.Error(t, err)
	assert.Equal(t, FailureUnreachable, KindOf(err))
}

func TestNavigatorAuthenticate_MissingLoginForm(t *testing.T) {
	site := testMatrixAdapter()
	docs := loginDocs()
	docs[site.BaseURL].missing = map[string]bool{"#user": true}
	page := newFakePage("about:blank", docs)

	nav := NewNavigator(fastRetry, testLogger())
	err := nav.Authenticate(context.Background(), page, site, "alice", "s3cret")
	require.Error(t, err)
	assert.Equal(t, FailureSelectorNotFound, KindOf(err))
}

func TestNavigatorAuthenticate_MarkerTimeoutIsAuthFailure(t *testing.T) {
	site := testMatrixAdapter()
	docs := loginDocs()
	// login submits fine but the dashboard marker never shows up; wrong
	// credentials and changed post-login markup look identical here
	docs["https://portal.test/home"].missing = map[string]bool{"#dash": true}
	page := newFakePage("about:blank", docs)

	nav := NewNavigator(fastRetry, testLogger())
	err := nav.Authenticate(context.Background(), page, site, "alice", "wrong")
	require.Error(t, err)
	assert.Equal(t, FailureAuthentication, KindOf(err))
}

func TestNavigatorAuthenticate_DismissesInterstitial(t *testing.T) {
	site := testMatrixAdapter()
	docs := loginDocs()
	docs[site.BaseURL].present = map[string]bool{"#cookie": true}
	docs[site.BaseURL].clickNav["#cookie"] = site.BaseURL
	page := newFakePage("about:blank", docs)

	nav := NewNavigator(fastRetry, testLogger())
	err := nav.Authenticate(context.Background(), page, site, "alice", "s3cret")
	require.NoError(t, err)
}
