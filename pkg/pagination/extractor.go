package pagination

import "fmt"

// PageExtractor maps response data to the page it represents.
type PageExtractor[D any] interface {
	ExtractPage(data D) (Page, error)
}

// ExtractorFunc adapts a function to PageExtractor.
type ExtractorFunc[D any] func(data D) (Page, error)

// ExtractPage implements PageExtractor.
func (f ExtractorFunc[D]) ExtractPage(data D) (Page, error) {
	return f(data)
}

// RelayPageExtractor extracts the page from a Relay connection's pageInfo.
type RelayPageExtractor[D any] struct {
	pageInfo func(D) *PageInfo
}

// NewRelayPageExtractor creates an extractor that locates the connection's
// pageInfo with the given accessor.
func NewRelayPageExtractor[D any](pageInfo func(D) *PageInfo) *RelayPageExtractor[D] {
	return &RelayPageExtractor[D]{pageInfo: pageInfo}
}

// ExtractPage implements PageExtractor.
func (e *RelayPageExtractor[D]) ExtractPage(data D) (Page, error) {
	info := e.pageInfo(data)
	if info == nil {
		return Page{}, fmt.Errorf("%w: pageInfo missing", ErrMalformedResponse)
	}
	if info.HasNextPage && (info.EndCursor == nil || *info.EndCursor == "") {
		return Page{}, fmt.Errorf("%w: hasNextPage without endCursor", ErrMalformedResponse)
	}
	if info.HasPreviousPage && (info.StartCursor == nil || *info.StartCursor == "") {
		return Page{}, fmt.Errorf("%w: hasPreviousPage without startCursor", ErrMalformedResponse)
	}
	return info.Page(), nil
}
