package pagination

import "github.com/Sternrassler/relay-pagination/pkg/graphql"

// MergeInput carries everything a merge strategy needs.
type MergeInput[O any] struct {
	// All holds every known page output in page order.
	All []O

	// MostRecent is the output of the page that triggered this merge.
	MostRecent O

	// Source is the provenance of the most recent response.
	Source graphql.Source
}

// MergeStrategy combines per-page outputs into a single output.
// Implementations must be pure.
type MergeStrategy[O any] interface {
	Merge(in MergeInput[O]) O
}

// MergeFunc adapts a function to MergeStrategy.
type MergeFunc[O any] func(in MergeInput[O]) O

// Merge implements MergeStrategy.
func (f MergeFunc[O]) Merge(in MergeInput[O]) O {
	return f(in)
}

// ConcatStrategy concatenates slice outputs in page order.
type ConcatStrategy[T any] struct{}

// Merge implements MergeStrategy.
func (ConcatStrategy[T]) Merge(in MergeInput[[]T]) []T {
	n := 0
	for _, o := range in.All {
		n += len(o)
	}
	merged := make([]T, 0, n)
	for _, o := range in.All {
		merged = append(merged, o...)
	}
	return merged
}

// MostRecentStrategy discards earlier pages and keeps the newest output.
type MostRecentStrategy[O any] struct{}

// Merge implements MergeStrategy.
func (MostRecentStrategy[O]) Merge(in MergeInput[O]) O {
	return in.MostRecent
}
