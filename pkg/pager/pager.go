// Package pager drives a pagination controller with a watch source: it builds
// page requests from the controller's current page, feeds every result back
// to the controller and serialises access to it.
package pager

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Sternrassler/relay-pagination/pkg/graphql"
	"github.com/Sternrassler/relay-pagination/pkg/pagination"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	// ErrLoadInProgress is returned when a fetch is started while another
	// one is still running.
	ErrLoadInProgress = errors.New("load in progress")

	// ErrMissingInitialPage is returned by FetchNext before the first page
	// has been fetched.
	ErrMissingInitialPage = errors.New("initial page not fetched")

	// ErrNoProgress is returned by FetchAll when a fetch did not move the
	// current page, usually because it failed and the failure went to the
	// result handler.
	ErrNoProgress = errors.New("page fetch did not advance the current page")
)

var fetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "relay_pager_fetch_duration_seconds",
	Help:    "Duration of page fetches including cached results",
	Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10},
}, []string{"pager"})

// Watcher starts a fetch for req. The channel yields one or more results
// and is closed when the fetch is complete.
type Watcher[D any] interface {
	Watch(ctx context.Context, req graphql.Request) <-chan pagination.Result[D]
}

// Config holds pager configuration.
type Config struct {
	// Name labels the pager and its controller in logs and metrics.
	Name string

	// MaxPages bounds FetchAll (0 means no limit).
	MaxPages int
}

// DefaultConfig returns a default pager configuration.
func DefaultConfig() Config {
	return Config{Name: "default"}
}

// Pager fetches the pages of one query. It is safe for concurrent use; only
// one fetch runs at a time.
type Pager[D, O any] struct {
	mu         sync.Mutex
	controller *pagination.Controller[D, O]
	fetching   bool

	watcher Watcher[D]
	next    pagination.NextPageBuilder
	config  Config
	logger  zerolog.Logger
}

// New creates a pager. handler receives every merged output and transport
// failure reported by the controller. It runs with the pager locked and must
// not call back into the pager.
func New[D, O any](
	watcher Watcher[D],
	next pagination.NextPageBuilder,
	strategy pagination.Strategy[D, O],
	handler pagination.ResultHandler[O],
	cfg Config,
) (*Pager[D, O], error) {
	if watcher == nil {
		return nil, fmt.Errorf("watcher is required")
	}
	if next == nil {
		return nil, fmt.Errorf("next page builder is required")
	}
	if cfg.Name == "" {
		cfg.Name = DefaultConfig().Name
	}
	if cfg.MaxPages < 0 {
		return nil, fmt.Errorf("max_pages must be >= 0 (got %d)", cfg.MaxPages)
	}

	logger := log.With().Str("component", "pager").Str("pager", cfg.Name).Logger()

	controller, err := pagination.NewController(strategy, handler, pagination.Config{
		Name:   cfg.Name,
		Logger: &logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create controller: %w", err)
	}

	return &Pager[D, O]{
		controller: controller,
		watcher:    watcher,
		next:       next,
		config:     cfg,
		logger:     logger,
	}, nil
}

// Fetch fetches the first page.
func (p *Pager[D, O]) Fetch(ctx context.Context) error {
	return p.fetch(ctx, func() (pagination.Slot, error) {
		return pagination.NoPage, nil
	})
}

// FetchNext fetches the page after the current page.
func (p *Pager[D, O]) FetchNext(ctx context.Context) error {
	return p.fetch(ctx, func() (pagination.Slot, error) {
		if p.controller.State() == pagination.StateIdle {
			return pagination.NoPage, ErrMissingInitialPage
		}
		if !p.controller.CanFetchNextPage() {
			return pagination.NoPage, pagination.ErrNoNextPage
		}
		return p.controller.CurrentPage(), nil
	})
}

// Refetch discards all pages and fetches the first page again.
func (p *Pager[D, O]) Refetch(ctx context.Context) error {
	return p.fetch(ctx, func() (pagination.Slot, error) {
		p.controller.Reset()
		return pagination.NoPage, nil
	})
}

// FetchAll fetches the first page and then every next page until the
// connection is exhausted or Config.MaxPages pages were fetched. It stops
// with ErrNoProgress when a next page fetch yields no new page.
func (p *Pager[D, O]) FetchAll(ctx context.Context) error {
	if err := p.Fetch(ctx); err != nil {
		return err
	}

	for fetched := 1; p.CanFetchNextPage(); fetched++ {
		if p.config.MaxPages > 0 && fetched >= p.config.MaxPages {
			p.logger.Info().Int("max_pages", p.config.MaxPages).Msg("Page limit reached")
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		before := p.CurrentPage()
		if err := p.FetchNext(ctx); err != nil {
			return err
		}
		if p.CurrentPage() == before {
			return ErrNoProgress
		}
	}
	return nil
}

// fetch runs one fetch for the slot chosen by from. from runs with the
// pager locked.
func (p *Pager[D, O]) fetch(ctx context.Context, from func() (pagination.Slot, error)) error {
	p.mu.Lock()
	if p.fetching {
		p.mu.Unlock()
		return ErrLoadInProgress
	}
	slot, err := from()
	if err != nil {
		p.mu.Unlock()
		return err
	}
	req, err := p.next.NextPage(slot)
	if err != nil {
		p.mu.Unlock()
		return fmt.Errorf("build page request: %w", err)
	}
	p.fetching = true
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.fetching = false
		p.mu.Unlock()
	}()

	start := time.Now()
	var fetchErr error
	results := 0
	for result := range p.watcher.Watch(ctx, req) {
		results++
		p.mu.Lock()
		err := p.controller.OnFetchResult(result)
		p.mu.Unlock()
		if err != nil && fetchErr == nil {
			fetchErr = err
		}
	}
	fetchDuration.WithLabelValues(p.config.Name).Observe(time.Since(start).Seconds())

	if fetchErr != nil {
		p.logger.Warn().Err(fetchErr).Stringer("after", slot).Msg("Page could not be recorded")
		return fetchErr
	}

	p.logger.Info().
		Stringer("after", slot).
		Int("results", results).
		Dur("duration", time.Since(start)).
		Msg("Page fetched")
	return nil
}

// CanFetchNextPage reports whether another page is available.
func (p *Pager[D, O]) CanFetchNextPage() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.controller.CanFetchNextPage()
}

// Reset discards all pages.
func (p *Pager[D, O]) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.controller.Reset()
}

// Pages returns the known pages, starting with pagination.NoPage.
func (p *Pager[D, O]) Pages() []pagination.Slot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.controller.Pages()
}

// CurrentPage returns the most recently discovered page.
func (p *Pager[D, O]) CurrentPage() pagination.Slot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.controller.CurrentPage()
}
