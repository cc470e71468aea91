package pagination

import (
	"context"
	"errors"

	"github.com/Sternrassler/relay-pagination/pkg/graphql"
)

var (
	// ErrMalformedResponse is returned by extractors when required cursor
	// fields are missing from a response.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrNoNextPage is returned when a next page is requested but the
	// current page reports none.
	ErrNoNextPage = errors.New("no next page")
)

// IsCancelled reports whether err is the result of an intentionally
// cancelled request. Cancellation codes are found at any wrapping depth,
// including inside a graphql.NetworkError.
func IsCancelled(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return true
	}

	var transportErr *graphql.TransportError
	return errors.As(err, &transportErr) && transportErr.Code == graphql.CodeCancelled
}
