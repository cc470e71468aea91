package pagination

import (
	"fmt"

	"github.com/Sternrassler/relay-pagination/pkg/graphql"
)

// DefaultCursorVariable is the variable name used for forward pagination.
const DefaultCursorVariable = "after"

// NextPageBuilder builds the request for the page after current.
type NextPageBuilder interface {
	NextPage(current Slot) (graphql.Request, error)
}

// NextPageFunc adapts a function to NextPageBuilder.
type NextPageFunc func(current Slot) (graphql.Request, error)

// NextPage implements NextPageBuilder.
func (f NextPageFunc) NextPage(current Slot) (graphql.Request, error) {
	return f(current)
}

// ForwardVariables builds next-page requests by setting the cursor variable
// of an initial request to the current page's end cursor.
type ForwardVariables struct {
	Initial graphql.Request

	// Variable defaults to DefaultCursorVariable.
	Variable string
}

// NextPage implements NextPageBuilder.
// NoPage yields the initial request unchanged.
func (f ForwardVariables) NextPage(current Slot) (graphql.Request, error) {
	page, ok := current.Get()
	if !ok {
		return f.Initial, nil
	}
	if !page.HasNextPage {
		return graphql.Request{}, fmt.Errorf("%w after cursor %q", ErrNoNextPage, page.EndCursor)
	}

	name := f.Variable
	if name == "" {
		name = DefaultCursorVariable
	}
	return f.Initial.WithVariable(name, page.EndCursor), nil
}
