package crawler

import (
	"context"
	"log/slog"

	"github.com/Lumby98/web-bot/internal/adapter"
)

// Navigator brings a fresh session to an authenticated, catalog-ready
// page.
type Navigator struct {
	retry  RetryPolicy
	logger *slog.Logger
}

func NewNavigator(retry RetryPolicy, logger *slog.Logger) *Navigator {
	return &Navigator{
		retry:  retry,
		logger: logger.With("component", "navigator"),
	}
}

// Authenticate loads the supplier portal, dismisses any interstitial,
// submits the login form and waits for the post-login marker. A marker
// timeout is classified as an authentication failure: wrong credentials
// and changed post-login markup are indistinguishable from out here.
func (n *Navigator) Authenticate(ctx context.Context, page Page, site *adapter.Adapter, username, password string) error {
	n.logger.Info("loading portal", "supplier", site.ID, "url", site.BaseURL)

	err := n.retry.Do(ctx, func() error {
		return page.Goto(ctx, site.BaseURL)
	})
	if err != nil {
		return classified(FailureUnreachable, "load portal", err)
	}

	if site.Selectors.CookieDismiss != "" {
		present, err := page.Exists(site.Selectors.CookieDismiss)
		if err == nil && present {
			if err := page.Click(site.Selectors.CookieDismiss); err != nil {
				n.logger.Warn("failed to dismiss interstitial", "supplier", site.ID, "error", err)
			}
		}
	}

	if err := page.Fill(site.Login.Username, username); err != nil {
		return classified(FailureSelectorNotFound, "login form username", err)
	}
	if err := page.Fill(site.Login.Password, password); err != nil {
		return classified(FailureSelectorNotFound, "login form password", err)
	}
	if err := page.Click(site.Login.Submit); err != nil {
		return classified(FailureSelectorNotFound, "login form submit", err)
	}

	if err := page.WaitFor(ctx, site.Selectors.PostLoginMarker); err != nil {
		return classified(FailureAuthentication, "post-login marker", err)
	}

	n.logger.Info("authenticated", "supplier", site.ID)
	return nil
}
