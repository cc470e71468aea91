package pagination

// OutputTransformer maps response data to a domain output.
// ok is false when the data carries nothing usable.
type OutputTransformer[D, O any] interface {
	Transform(data D) (output O, ok bool)
}

// TransformerFunc adapts a function to OutputTransformer.
type TransformerFunc[D, O any] func(data D) (O, bool)

// Transform implements OutputTransformer.
func (f TransformerFunc[D, O]) Transform(data D) (O, bool) {
	return f(data)
}

// PassthroughTransformer uses the response data as the output.
type PassthroughTransformer[D any] struct{}

// Transform implements OutputTransformer.
func (PassthroughTransformer[D]) Transform(data D) (D, bool) {
	return data, true
}
