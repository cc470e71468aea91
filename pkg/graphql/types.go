// Package graphql defines the query/response protocol types shared by the
// pagination core, the HTTP transport and the response cache.
package graphql

import (
	"encoding/json"
	"maps"
)

// Source identifies where a response originated.
type Source string

const (
	// SourceNetwork marks a response fetched from the server.
	SourceNetwork Source = "network"

	// SourceCache marks a response served from the local response store.
	SourceCache Source = "cache"
)

// Request is a GraphQL operation with its variables.
type Request struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName,omitempty"`
	Variables     map[string]any `json:"variables,omitempty"`
}

// WithVariable returns a copy of the request with name set to value.
// The receiver's variables map is never modified.
func (r Request) WithVariable(name string, value any) Request {
	vars := make(map[string]any, len(r.Variables)+1)
	maps.Copy(vars, r.Variables)
	vars[name] = value
	r.Variables = vars
	return r
}

// Location is a position in the query document referenced by an Error.
type Location struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Error is a protocol-level error returned alongside (partial) data.
type Error struct {
	Message    string         `json:"message"`
	Locations  []Location     `json:"locations,omitempty"`
	Path       []any          `json:"path,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

// Error implements the error interface.
func (e Error) Error() string {
	return e.Message
}

// RawResponse is a response envelope whose data has not been decoded yet.
type RawResponse struct {
	Data   json.RawMessage `json:"data,omitempty"`
	Errors []Error         `json:"errors,omitempty"`
}

// HasData reports whether the envelope carries a non-null data member.
func (r *RawResponse) HasData() bool {
	return r != nil && len(r.Data) > 0 && string(r.Data) != "null"
}

// Response is a decoded response for data type D.
// Data is nil when the server returned no data (e.g. only errors).
type Response[D any] struct {
	Data   *D
	Errors []Error
	Source Source
}

// Decode converts a raw envelope into a typed Response.
func Decode[D any](raw *RawResponse, source Source) (*Response[D], error) {
	resp := &Response[D]{
		Errors: raw.Errors,
		Source: source,
	}
	if !raw.HasData() {
		return resp, nil
	}

	var data D
	if err := json.Unmarshal(raw.Data, &data); err != nil {
		return nil, &TransportError{Code: CodeBadResponse, Message: "decode data", Err: err}
	}
	resp.Data = &data
	return resp, nil
}
