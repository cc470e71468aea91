package pagination

import (
	"testing"

	"github.com/Sternrassler/relay-pagination/pkg/graphql"
)

// testData mimics a query result holding a single connection.
type testData struct {
	PageInfo *PageInfo
	Items    []string
}

func strPtr(s string) *string {
	return &s
}

func pageInfo(end string, hasNext bool) *PageInfo {
	return &PageInfo{EndCursor: strPtr(end), HasNextPage: hasNext}
}

func response(items []string, info *PageInfo, source graphql.Source) Result[testData] {
	return Result[testData]{
		Response: &graphql.Response[testData]{
			Data:   &testData{PageInfo: info, Items: items},
			Source: source,
		},
	}
}

type handlerCall struct {
	out Output[[]string]
	err error
}

type recorder struct {
	calls []handlerCall
}

func (r *recorder) handle(out Output[[]string], err error) {
	r.calls = append(r.calls, handlerCall{out: out, err: err})
}

func testStrategy() Strategy[testData, []string] {
	return Strategy[testData, []string]{
		Extractor: NewRelayPageExtractor(func(d testData) *PageInfo { return d.PageInfo }),
		Transformer: TransformerFunc[testData, []string](func(d testData) ([]string, bool) {
			return d.Items, d.Items != nil
		}),
		Merge: ConcatStrategy[string]{},
	}
}

func newTestController(t *testing.T) (*Controller[testData, []string], *recorder) {
	t.Helper()
	rec := &recorder{}
	ctrl, err := NewController(testStrategy(), rec.handle, Config{Name: "test"})
	if err != nil {
		t.Fatalf("NewController() error = %v", err)
	}
	return ctrl, rec
}
