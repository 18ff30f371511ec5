package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jonathan/resume-analyzer/internal/types"
)

// GenericFailureDetail is the detail used when an error body cannot be decoded.
const GenericFailureDetail = "Request failed"

// HTTPError is a non-2xx backend response.
type HTTPError struct {
	URL        string
	StatusCode int
	Payload    map[string]any // Decoded error body, or {"detail": GenericFailureDetail}
	Detail     string         // Server-provided detail string, or GenericFailureDetail
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("backend error for %s: HTTP status %d: %s", e.URL, e.StatusCode, e.Detail)
}

func newHTTPError(urlStr string, status int, body []byte) *HTTPError {
	e := &HTTPError{URL: urlStr, StatusCode: status}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil || payload == nil {
		e.Payload = map[string]any{"detail": GenericFailureDetail}
		e.Detail = GenericFailureDetail
		return e
	}
	e.Payload = payload

	// FastAPI validation errors carry a list under detail; only a string is shown verbatim.
	if detail, ok := payload["detail"].(string); ok && detail != "" {
		e.Detail = detail
	} else {
		e.Detail = GenericFailureDetail
	}

	return e
}

// HasServerDetail reports whether the backend supplied its own detail string.
func (e *HTTPError) HasServerDetail() bool {
	return e.Detail != "" && e.Detail != GenericFailureDetail
}

// NetworkError is a failure before any HTTP status was received: no connection,
// timeout, cancelled context, or a request that could not be built. It carries no
// server payload.
type NetworkError struct {
	URL     string
	Message string
	Cause   error
}

func (e *NetworkError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("network error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("network error for %s: %s", e.URL, e.Message)
}

func (e *NetworkError) Unwrap() error {
	return e.Cause
}

// DecodeError is a successful response whose body does not have the expected shape.
// Callers treat it like a transport failure.
type DecodeError struct {
	Endpoint string
	Message  string
	Cause    error
}

func (e *DecodeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("unexpected response from %s: %s: %v", e.Endpoint, e.Message, e.Cause)
	}
	return fmt.Sprintf("unexpected response from %s: %s", e.Endpoint, e.Message)
}

func (e *DecodeError) Unwrap() error {
	return e.Cause
}

// UserMessage resolves the text shown to a user for err. Local validation failures
// show their own message, backend errors show the server detail when one was sent,
// and everything else shows fallback.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}

	var ve *types.ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}

	var he *HTTPError
	if errors.As(err, &he) && he.HasServerDetail() {
		return he.Detail
	}

	return fallback
}
