package api

import (
	"errors"
	"fmt"
)

var (
	// ErrUnavailable marks transport-level failures (no response at all).
	ErrUnavailable = errors.New("server unavailable")

	// ErrUnauthorized marks authorization lapses (401/403).
	ErrUnauthorized = errors.New("unauthorized")
)

// APIError is a request the server received and rejected. Message is the
// human-readable text from the response body, surfaced verbatim to the
// user. FieldErrors carries per-field validation messages when the backend
// supplies them.
type APIError struct {
	StatusCode  int
	Message     string
	FieldErrors map[string]string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request rejected (status %d)", e.StatusCode)
}

// Unwrap lets 401/403 rejections match ErrUnauthorized via errors.Is.
func (e *APIError) Unwrap() error {
	if e.StatusCode == 401 || e.StatusCode == 403 {
		return ErrUnauthorized
	}
	return nil
}

// UserMessage extracts the message to show for err, falling back to a
// generic text for transport failures and anything unrecognized.
func UserMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
