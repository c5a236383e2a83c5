package crawler

import "context"

// Page is the controllable browser session a crawl run drives. It
// represents one mutable navigation context and must not be shared
// across concurrent operations; every method call is a suspension point
// that completes or times out before the next step runs.
//
// Close must be tolerant of double release: closing an already-closed
// session is a no-op.
type Page interface {
	Goto(ctx context.Context, url string) error
	WaitFor(ctx context.Context, selector string) error
	Exists(selector string) (bool, error)
	Click(selector string) error
	Fill(selector, value string) error
	Text(selector string) (string, error)
	Attr(selector, name string) (string, error)
	Hrefs(selector string) ([]string, error)
	OptionValues(selector string) ([]string, error)
	SelectOption(ctx context.Context, selector, value string) error
	Content() (string, error)
	Close() error
}

// SessionFactory opens a fresh Page for a crawl run. Each run owns
// exactly one session.
type SessionFactory func(ctx context.Context) (Page, error)
