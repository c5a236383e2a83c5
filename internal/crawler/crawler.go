// Package crawler implements the crawl–extract–reconcile pipeline that
// signs into supplier portals and syncs their product catalogs.
package crawler

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/Lumby98/web-bot/internal/adapter"
	"github.com/Lumby98/web-bot/internal/models"
	"github.com/Lumby98/web-bot/internal/reconcile"
)

// State names the phases of one crawl run.
type State string

const (
	StateInit             State = "init"
	StateLoggingIn        State = "logging_in"
	StateAuthenticated    State = "authenticated"
	StateCollectingLinks  State = "collecting_links"
	StateExtractingDetail State = "extracting_detail"
	StateReconciling      State = "reconciling"
	StateDone             State = "done"
	StateFailed           State = "failed"
)

// Limiter paces detail-page navigations.
type Limiter interface {
	Wait(ctx context.Context) error
}

// Service runs crawl runs end to end. A run is a single sequential
// control flow; runs against the same supplier are serialized so two
// sessions never race on one portal account.
type Service struct {
	sessions   SessionFactory
	registry   *adapter.Registry
	reconciler *reconcile.Reconciler
	limiter    Limiter
	navigator  *Navigator
	paginator  *Paginator
	extractor  *Extractor
	logger     *slog.Logger

	mu       sync.Mutex
	perSite  map[string]*sync.Mutex
}

func NewService(sessions SessionFactory, registry *adapter.Registry, reconciler *reconcile.Reconciler, limiter Limiter, retry RetryPolicy, logger *slog.Logger) *Service {
	return &Service{
		sessions:   sessions,
		registry:   registry,
		reconciler: reconciler,
		limiter:    limiter,
		navigator:  NewNavigator(retry, logger),
		paginator:  NewPaginator(retry, logger),
		extractor:  NewExtractor(retry, logger),
		logger:     logger.With("component", "crawler"),
		perSite:    make(map[string]*sync.Mutex),
	}
}

// Run crawls one supplier portal with the given credentials and
// reconciles the extracted catalog. On failure it returns exactly one
// classified *CrawlError; partial extraction results are discarded, never
// partially reconciled. The browser session is released on every exit
// path.
func (s *Service) Run(ctx context.Context, supplierID, username, password string) ([]models.ReconciledProduct, error) {
	site, err := s.registry.Get(supplierID)
	if err != nil {
		return nil, err
	}

	lock := s.supplierLock(supplierID)
	lock.Lock()
	defer lock.Unlock()

	run := &runState{supplier: supplierID, state: StateInit, logger: s.logger}

	page, err := s.sessions(ctx)
	if err != nil {
		run.fail()
		return nil, classified(FailureUnreachable, "open session", err)
	}
	defer func() {
		if err := page.Close(); err != nil {
			s.logger.Warn("failed to close session", "supplier", supplierID, "error", err)
		}
	}()

	run.to(StateLoggingIn)
	if err := s.navigator.Authenticate(ctx, page, site, username, password); err != nil {
		run.fail()
		return nil, err
	}
	run.to(StateAuthenticated)

	extracted, err := s.extract(ctx, run, page, site)
	if err != nil {
		run.fail()
		return nil, err
	}

	run.to(StateReconciling)
	reconciled, err := s.reconciler.Reconcile(ctx, extracted)
	if err != nil {
		run.fail()
		if errors.Is(err, reconcile.ErrDuplicateKey) {
			return nil, classified(FailureDuplicateEntity, "reconcile staging", err)
		}
		return nil, Classify(err, FailureTransaction, "reconcile apply")
	}

	run.to(StateDone)
	s.logger.Info("crawl run finished", "supplier", supplierID,
		"extracted", len(extracted), "reconciled", len(reconciled))
	return reconciled, nil
}

func (s *Service) extract(ctx context.Context, run *runState, page Page, site *adapter.Adapter) ([]*models.ExtractedProduct, error) {
	if site.Mode == adapter.ModeBrandList {
		run.to(StateExtractingDetail)
		return s.extractor.ExtractBrandCatalog(ctx, page, site)
	}

	run.to(StateCollectingLinks)
	links, err := s.paginator.CollectLinks(ctx, page, site)
	if err != nil {
		return nil, err
	}

	run.to(StateExtractingDetail)
	products := make([]*models.ExtractedProduct, 0, len(links))
	for _, link := range links {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, classified(FailureUnreachable, "detail page pacing", err)
		}
		// one failed detail page aborts the whole run: reconciliation only
		// ever sees a complete set
		product, err := s.extractor.ExtractProduct(ctx, page, site, link)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, nil
}

func (s *Service) supplierLock(supplierID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.perSite[supplierID]
	if !ok {
		lock = &sync.Mutex{}
		s.perSite[supplierID] = lock
	}
	return lock
}

type runState struct {
	supplier string
	state    State
	logger   *slog.Logger
}

func (r *runState) to(next State) {
	r.logger.Debug("state transition", "supplier", r.supplier, "from", r.state, "to", next)
	r.state = next
}

func (r *runState) fail() {
	r.to(StateFailed)
}
