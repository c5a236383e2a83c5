package crawler

import (
	"context"
	"log/slog"

	"github.com/Lumby98/web-bot/internal/adapter"
)

// Paginator walks the listing pages of an authenticated portal and
// collects detail-page links.
type Paginator struct {
	retry  RetryPolicy
	logger *slog.Logger
}

func NewPaginator(retry RetryPolicy, logger *slog.Logger) *Paginator {
	return &Paginator{
		retry:  retry,
		logger: logger.With("component", "paginator"),
	}
}

// CollectLinks gathers detail-page URLs across all listing pages into a
// deduplicated set. Traversal is strictly sequential: each page fully
// renders before the next-page control is clicked. The returned order is
// discovery order but carries no meaning.
func (p *Paginator) CollectLinks(ctx context.Context, page Page, site *adapter.Adapter) ([]string, error) {
	seen := make(map[string]struct{})
	var links []string

	for pageNum := 1; ; pageNum++ {
		err := p.retry.Do(ctx, func() error {
			return page.WaitFor(ctx, site.Selectors.ProductLinks)
		})
		if err != nil {
			return nil, classified(FailureSelectorNotFound, "listing page links", err)
		}

		hrefs, err := page.Hrefs(site.Selectors.ProductLinks)
		if err != nil {
			return nil, classified(FailureSelectorNotFound, "listing page links", err)
		}

		added := 0
		for _, href := range hrefs {
			if href == "" {
				continue
			}
			if _, dup := seen[href]; dup {
				continue
			}
			seen[href] = struct{}{}
			links = append(links, href)
			added++
		}
		p.logger.Info("collected listing page", "supplier", site.ID, "page", pageNum, "links", added)

		more, err := p.nextPage(page, site)
		if err != nil {
			return nil, err
		}
		if !more {
			break
		}
	}

	p.logger.Info("link collection done", "supplier", site.ID, "total", len(links))
	return links, nil
}

func (p *Paginator) nextPage(page Page, site *adapter.Adapter) (bool, error) {
	present, err := page.Exists(site.Selectors.NextPage)
	if err != nil {
		return false, classified(FailureSelectorNotFound, "next page control", err)
	}
	if !present {
		return false, nil
	}

	disabled, err := page.Attr(site.Selectors.NextPage, "aria-disabled")
	if err == nil && disabled == "true" {
		return false, nil
	}

	if err := page.Click(site.Selectors.NextPage); err != nil {
		return false, classified(FailureSelectorNotFound, "next page control", err)
	}
	return true, nil
}
