package agent

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when the vendor reports a resource gone.
	// Adapters synthesize it from vendor-specific signals (Vultr uses
	// HTTP 412 as its not-found) so callers never branch on raw codes.
	ErrNotFound = errors.New("not found")

	// ErrNotImplemented is returned when a provider capability or named
	// component the vendor does not support is requested. Always a
	// programming error; never retried.
	ErrNotImplemented = errors.New("not implemented")

	// ErrPending signals that a vendor-side asynchronous job was
	// accepted but has not completed; the outcome is observable only
	// later (often via vendor email). Not a failure.
	ErrPending = errors.New("operation pending")
)

// APIError is any other non-2xx or in-body vendor error. Adapters
// publish it to the notification channel and still return it, so the
// caller keeps local control flow while the user sees the message.
type APIError struct {
	Provider   string `json:"provider"`
	StatusCode int    `json:"status_code,omitempty"`
	Message    string `json:"message"`
	// Info carries any vendor-supplied additional error detail.
	Info string `json:"info,omitempty"`
}

func (e *APIError) Error() string {
	if e.Info != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Provider, e.Message, e.Info)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

// AsAPIError unwraps err into an *APIError if one is in the chain.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
