package pagination

import (
	"errors"
	"reflect"

	"github.com/Sternrassler/relay-pagination/pkg/graphql"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// State is the lifecycle state of a Controller.
type State int

const (
	// StateIdle means no page has been recorded since construction or Reset.
	StateIdle State = iota

	// StateActive means at least one page has been recorded.
	StateActive
)

// String implements fmt.Stringer.
func (s State) String() string {
	if s == StateActive {
		return "active"
	}
	return "idle"
}

// Result is one asynchronous outcome of a page fetch.
// Exactly one of Response and Err is meaningful; Err wins when set.
type Result[D any] struct {
	Response *graphql.Response[D]
	Err      error
}

// Output is a merged result delivered to the consumer.
type Output[O any] struct {
	Value  O
	Errors []graphql.Error
	Source graphql.Source
}

// ResultHandler receives merged outputs or transport failures.
// For failures the Output is the zero value.
type ResultHandler[O any] func(out Output[O], err error)

// Strategy bundles the collaborators a Controller drives.
type Strategy[D, O any] struct {
	Extractor   PageExtractor[D]
	Transformer OutputTransformer[D, O]
	Merge       MergeStrategy[O]

	// Equal reports whether two merged outputs are the same.
	// Defaults to reflect.DeepEqual.
	Equal func(a, b O) bool
}

// Config holds controller configuration.
type Config struct {
	// Name labels the controller in logs and metrics.
	Name string

	// Logger is used for debug output (default: global logger with
	// component=pagination).
	Logger *zerolog.Logger
}

// DefaultConfig returns a default controller configuration.
func DefaultConfig() Config {
	return Config{Name: "default"}
}

// Controller accumulates fetched pages into one merged output and reports
// changes to a ResultHandler.
//
// A Controller is not safe for concurrent use. OnFetchResult and Reset must
// not run concurrently with each other or themselves.
type Controller[D, O any] struct {
	strategy Strategy[D, O]
	handler  ResultHandler[O]
	name     string
	logger   zerolog.Logger

	ledger        *Ledger[O]
	lastDelivered O
	hasDelivered  bool
}

// NewController creates a controller in the idle state.
func NewController[D, O any](strategy Strategy[D, O], handler ResultHandler[O], cfg Config) (*Controller[D, O], error) {
	if strategy.Extractor == nil {
		return nil, errors.New("page extractor is required")
	}
	if strategy.Transformer == nil {
		return nil, errors.New("output transformer is required")
	}
	if strategy.Merge == nil {
		return nil, errors.New("merge strategy is required")
	}
	if handler == nil {
		return nil, errors.New("result handler is required")
	}
	if strategy.Equal == nil {
		strategy.Equal = func(a, b O) bool { return reflect.DeepEqual(a, b) }
	}
	if cfg.Name == "" {
		cfg.Name = DefaultConfig().Name
	}

	logger := log.With().Str("component", "pagination").Logger()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	c := &Controller[D, O]{
		strategy: strategy,
		handler:  handler,
		name:     cfg.Name,
		logger:   logger.With().Str("controller", cfg.Name).Logger(),
		ledger:   NewLedger[O](),
	}
	pagesKnown.WithLabelValues(c.name).Set(0)
	return c, nil
}

// OnFetchResult handles one fetch result.
//
// Cancellations and responses without usable data are dropped silently.
// Other failures are passed to the handler unchanged. Successful pages are
// recorded and merged; the handler only sees the merged output when it
// differs from the previously delivered one.
//
// The returned error is non-nil only when the page extractor fails, in
// which case no state has changed.
func (c *Controller[D, O]) OnFetchResult(result Result[D]) error {
	if result.Err != nil {
		if IsCancelled(result.Err) {
			resultsTotal.WithLabelValues(c.name, outcomeCancelled).Inc()
			c.logger.Debug().Err(result.Err).Msg("Dropping cancelled fetch")
			return nil
		}
		resultsTotal.WithLabelValues(c.name, outcomeFailed).Inc()
		c.logger.Warn().Err(result.Err).Msg("Fetch failed")
		c.handler(Output[O]{}, result.Err)
		return nil
	}

	resp := result.Response
	if resp == nil || resp.Data == nil {
		resultsTotal.WithLabelValues(c.name, outcomeDropped).Inc()
		c.logger.Debug().Msg("Dropping response without data")
		return nil
	}

	output, ok := c.strategy.Transformer.Transform(*resp.Data)
	if !ok {
		resultsTotal.WithLabelValues(c.name, outcomeDropped).Inc()
		c.logger.Debug().Msg("Dropping response without usable output")
		return nil
	}

	page, err := c.strategy.Extractor.ExtractPage(*resp.Data)
	if err != nil {
		resultsTotal.WithLabelValues(c.name, outcomeMalformed).Inc()
		return err
	}

	slot, added := c.ledger.Record(page, output)
	pagesKnown.WithLabelValues(c.name).Set(float64(c.ledger.Len() - 1))
	c.logger.Debug().
		Stringer("page", slot).
		Bool("new_page", added).
		Str("source", string(resp.Source)).
		Msg("Recorded page")

	merged := c.strategy.Merge.Merge(MergeInput[O]{
		All:        c.ledger.Outputs(),
		MostRecent: output,
		Source:     resp.Source,
	})

	if c.hasDelivered && c.strategy.Equal(merged, c.lastDelivered) {
		resultsTotal.WithLabelValues(c.name, outcomeSuppressed).Inc()
		c.logger.Debug().Stringer("page", slot).Msg("Merged output unchanged")
		return nil
	}

	c.handler(Output[O]{
		Value:  merged,
		Errors: resp.Errors,
		Source: resp.Source,
	}, nil)
	c.lastDelivered = merged
	c.hasDelivered = true
	resultsTotal.WithLabelValues(c.name, outcomeDelivered).Inc()
	return nil
}

// CanFetchNextPage reports whether the current page has a next page.
func (c *Controller[D, O]) CanFetchNextPage() bool {
	page, ok := c.ledger.Current().Get()
	return ok && page.HasNextPage
}

// Reset discards all pages and outputs. The handler is not called.
func (c *Controller[D, O]) Reset() {
	c.ledger.Reset()
	var zero O
	c.lastDelivered = zero
	c.hasDelivered = false
	pagesKnown.WithLabelValues(c.name).Set(0)
	resetsTotal.WithLabelValues(c.name).Inc()
	c.logger.Debug().Msg("Pagination state reset")
}

// Pages returns the known pages in fetch order, starting with NoPage.
func (c *Controller[D, O]) Pages() []Slot {
	return c.ledger.Pages()
}

// CurrentPage returns the most recently discovered page, or NoPage.
func (c *Controller[D, O]) CurrentPage() Slot {
	return c.ledger.Current()
}

// State returns the lifecycle state.
func (c *Controller[D, O]) State() State {
	if c.ledger.Len() > 1 {
		return StateActive
	}
	return StateIdle
}

// Name returns the controller's name.
func (c *Controller[D, O]) Name() string {
	return c.name
}
