package browser

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"
)

// Browser owns the playwright runtime and browser context that crawl
// sessions are opened from.
type Browser struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	timeout time.Duration
	logger  *slog.Logger

	mu     sync.Mutex
	closed bool
}

type Options struct {
	Headless       bool
	Timeout        time.Duration
	UserAgent      string
	ViewportWidth  int
	ViewportHeight int
	Locale         string
	TimezoneID     string
}

func DefaultOptions() *Options {
	return &Options{
		Headless:       true,
		Timeout:        30 * time.Second,
		UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		ViewportWidth:  1920,
		ViewportHeight: 1080,
		Locale:         "da-DK",
		TimezoneID:     "Europe/Copenhagen",
	}
}

func New(opts *Options) (*Browser, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	b, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: &opts.Headless,
		Args: []string{
			"--disable-blink-features=AutomationControlled",
			"--disable-dev-shm-usage",
			"--no-sandbox",
		},
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	bctx, err := b.NewContext(playwright.BrowserNewContextOptions{
		UserAgent:  &opts.UserAgent,
		Locale:     &opts.Locale,
		TimezoneId: &opts.TimezoneID,
		Viewport: &playwright.Size{
			Width:  opts.ViewportWidth,
			Height: opts.ViewportHeight,
		},
	})
	if err != nil {
		b.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to create browser context: %w", err)
	}

	return &Browser{
		pw:      pw,
		browser: b,
		context: bctx,
		timeout: opts.Timeout,
		logger:  slog.Default().With("component", "browser"),
	}, nil
}

// NewSession opens a fresh page scoped to one crawl run.
func (b *Browser) NewSession(ctx context.Context) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	page, err := b.context.NewPage()
	if err != nil {
		return nil, fmt.Errorf("failed to open page: %w", err)
	}
	page.SetDefaultTimeout(float64(b.timeout.Milliseconds()))

	return &Session{
		page:    page,
		timeout: b.timeout,
		logger:  b.logger,
	}, nil
}

// Close stops the whole playwright stack. It is a no-op when called more
// than once.
func (b *Browser) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true

	var errs []error
	if err := b.context.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close context: %w", err))
	}
	if err := b.browser.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close browser: %w", err))
	}
	if err := b.pw.Stop(); err != nil {
		errs = append(errs, fmt.Errorf("failed to stop playwright: %w", err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("errors during close: %v", errs)
	}
	return nil
}

// Session is a single controllable navigation context. It implements the
// crawler's Page contract; closing an already-closed session is a no-op.
type Session struct {
	page    playwright.Page
	timeout time.Duration
	logger  *slog.Logger

	mu     sync.Mutex
	closed bool
}

func (s *Session) Goto(ctx context.Context, rawURL string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := s.page.Goto(rawURL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(float64(s.timeout.Milliseconds())),
	})
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", rawURL, err)
	}
	return nil
}

func (s *Session) WaitFor(ctx context.Context, selector string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := s.page.WaitForSelector(selector, playwright.PageWaitForSelectorOptions{
		Timeout: playwright.Float(float64(s.timeout.Milliseconds())),
	})
	if err != nil {
		return fmt.Errorf("timed out waiting for %q: %w", selector, err)
	}
	return nil
}

func (s *Session) Exists(selector string) (bool, error) {
	count, err := s.page.Locator(selector).Count()
	if err != nil {
		return false, fmt.Errorf("failed to count %q: %w", selector, err)
	}
	return count > 0, nil
}

func (s *Session) Click(selector string) error {
	if err := s.page.Locator(selector).First().Click(); err != nil {
		return fmt.Errorf("failed to click %q: %w", selector, err)
	}
	return nil
}

func (s *Session) Fill(selector, value string) error {
	if err := s.page.Locator(selector).First().Fill(value); err != nil {
		return fmt.Errorf("failed to fill %q: %w", selector, err)
	}
	return nil
}

func (s *Session) Text(selector string) (string, error) {
	text, err := s.page.Locator(selector).First().TextContent()
	if err != nil {
		return "", fmt.Errorf("failed to read text of %q: %w", selector, err)
	}
	return text, nil
}

func (s *Session) Attr(selector, name string) (string, error) {
	value, err := s.page.Locator(selector).First().GetAttribute(name)
	if err != nil {
		return "", fmt.Errorf("failed to read %s of %q: %w", name, selector, err)
	}
	return value, nil
}

// Hrefs returns the href of every element matching selector, resolved
// against the current page URL.
func (s *Session) Hrefs(selector string) ([]string, error) {
	locator := s.page.Locator(selector)
	count, err := locator.Count()
	if err != nil {
		return nil, fmt.Errorf("failed to count %q: %w", selector, err)
	}

	base, err := url.Parse(s.page.URL())
	if err != nil {
		return nil, fmt.Errorf("failed to parse page url: %w", err)
	}

	hrefs := make([]string, 0, count)
	for i := 0; i < count; i++ {
		href, err := locator.Nth(i).GetAttribute("href")
		if err != nil || href == "" {
			continue
		}
		ref, err := url.Parse(href)
		if err != nil {
			continue
		}
		hrefs = append(hrefs, base.ResolveReference(ref).String())
	}
	return hrefs, nil
}

func (s *Session) OptionValues(selector string) ([]string, error) {
	options := s.page.Locator(selector).Locator("option")
	count, err := options.Count()
	if err != nil {
		return nil, fmt.Errorf("failed to count options of %q: %w", selector, err)
	}

	values := make([]string, 0, count)
	for i := 0; i < count; i++ {
		value, err := options.Nth(i).GetAttribute("value")
		if err != nil || value == "" {
			continue
		}
		values = append(values, value)
	}
	return values, nil
}

func (s *Session) SelectOption(ctx context.Context, selector, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := s.page.Locator(selector).SelectOption(playwright.SelectOptionValues{
		Values: &[]string{value},
	})
	if err != nil {
		return fmt.Errorf("failed to select %q on %q: %w", value, selector, err)
	}
	return nil
}

func (s *Session) Content() (string, error) {
	html, err := s.page.Content()
	if err != nil {
		return "", fmt.Errorf("failed to read page content: %w", err)
	}
	return html, nil
}

func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if err := s.page.Close(); err != nil {
		return fmt.Errorf("failed to close page: %w", err)
	}
	return nil
}
