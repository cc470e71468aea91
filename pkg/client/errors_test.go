package client

import (
	"errors"
	"testing"
)

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		expected   ErrorClass
	}{
		{
			name:       "bad request is a client error",
			statusCode: 400,
			expected:   ErrorClassClient,
		},
		{
			name:       "too many requests is a client error",
			statusCode: 429,
			expected:   ErrorClassClient,
		},
		{
			name:       "bad gateway is a server error",
			statusCode: 502,
			expected:   ErrorClassServer,
		},
		{
			name:       "ok is not an error",
			statusCode: 200,
			expected:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyStatus(tt.statusCode); got != tt.expected {
				t.Errorf("classifyStatus(%d) = %q, want %q", tt.statusCode, got, tt.expected)
			}
		})
	}
}

func TestRequestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *RequestError
		expected string
	}{
		{
			name: "error with wrapped error",
			err: &RequestError{
				StatusCode: 500,
				ErrorClass: ErrorClassServer,
				Message:    "500 Internal Server Error",
				Err:        errors.New("upstream down"),
			},
			expected: "graphql server error (status 500): 500 Internal Server Error: upstream down",
		},
		{
			name: "error without wrapped error",
			err: &RequestError{
				StatusCode: 404,
				ErrorClass: ErrorClassClient,
				Message:    "404 Not Found",
			},
			expected: "graphql client error (status 404): 404 Not Found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestRequestError_Unwrap(t *testing.T) {
	inner := errors.New("inner")
	err := &RequestError{Err: inner}

	if !errors.Is(err, inner) {
		t.Error("errors.Is should find the wrapped error")
	}
}
