package graphql

import (
	"fmt"
)

// Transport error codes.
const (
	// CodeCancelled marks a request that was cancelled while in flight.
	CodeCancelled = -999

	// CodeTimedOut marks a request that exceeded its deadline.
	CodeTimedOut = -1001

	// CodeBadResponse marks a response body that could not be decoded.
	CodeBadResponse = -1011

	// CodeUnknown is used for transport failures without a finer code.
	CodeUnknown = -1
)

// TransportError is a transport-specific failure identified by a code.
type TransportError struct {
	Code    int
	Message string
	Err     error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transport error %d: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("transport error %d: %s", e.Code, e.Message)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// NetworkError wraps a failure that happened while talking to the server.
// StatusCode is 0 when no HTTP response was received.
type NetworkError struct {
	StatusCode int
	Body       []byte
	Err        error
}

// Error implements the error interface.
func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("network error (status %d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("network error: %v", e.Err)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *NetworkError) Unwrap() error {
	return e.Err
}
