// Package pagination implements Relay-style cursor pagination state.
//
// A Controller receives page fetch results from a transport, records each
// page in a Ledger, merges all page outputs with a MergeStrategy and hands
// the merged output to a ResultHandler whenever it changes.
//
// Example usage:
//
//	strategy := pagination.Strategy[Data, []Edge]{
//		Extractor:   pagination.NewRelayPageExtractor(func(d Data) *pagination.PageInfo { return d.Items.PageInfo }),
//		Transformer: pagination.TransformerFunc[Data, []Edge](func(d Data) ([]Edge, bool) { return d.Items.Edges, true }),
//		Merge:       pagination.ConcatStrategy[Edge]{},
//	}
//	ctrl, err := pagination.NewController(strategy, handler, pagination.DefaultConfig())
//
// Page identity:
//   - Pages are compared by value; a refetched page replaces its earlier slot
//   - Only pages not seen before advance CurrentPage
//   - The NoPage sentinel always occupies the first slot
//
// Result handling:
//   - Cancelled fetches are dropped (see IsCancelled)
//   - Responses without data or without usable output are dropped
//   - Other failures are passed to the handler unchanged
//   - Merged outputs equal to the last delivered one are suppressed
package pagination
