package agent

import (
	"net/http"
	"time"
)

// Notifier is the user-visible notification channel adapters publish
// vendor errors to. The error is still returned to the caller; the
// channel only adds global visibility.
type Notifier interface {
	Publish(provider, message, info string)
}

// NopNotifier discards everything. Useful default for tests and for
// library use without a notification surface.
type NopNotifier struct{}

func (NopNotifier) Publish(provider, message, info string) {}

// Middleware wraps an http.RoundTripper. The pipeline is composed once
// at agent construction: auth injection, then the vendor call, then
// metrics on the way out. Per-call ad hoc client construction is not a
// thing here.
type Middleware func(http.RoundTripper) http.RoundTripper

// NewHTTPClient builds the shared client for one agent. Middlewares
// apply in order: the first wraps closest to the caller. No timeout is
// set; the agent layer enforces none and callers cancel via context.
func NewHTTPClient(base http.RoundTripper, mws ...Middleware) *http.Client {
	if base == nil {
		base = http.DefaultTransport
	}
	rt := base
	for i := len(mws) - 1; i >= 0; i-- {
		rt = mws[i](rt)
	}
	return &http.Client{Transport: rt}
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// WithHeader injects a static header on every request (API-Key,
// Authorization bearer, and the like).
func WithHeader(name, value string) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return roundTripFunc(func(req *http.Request) (*http.Response, error) {
			req = req.Clone(req.Context())
			req.Header.Set(name, value)
			return next.RoundTrip(req)
		})
	}
}

// WithQuery injects static query parameters on every request.
// Bandwagon authenticates with veid/api_key in the query string.
func WithQuery(params map[string]string) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return roundTripFunc(func(req *http.Request) (*http.Response, error) {
			req = req.Clone(req.Context())
			q := req.URL.Query()
			for k, v := range params {
				q.Set(k, v)
			}
			req.URL.RawQuery = q.Encode()
			return next.RoundTrip(req)
		})
	}
}

// WithMetrics records request count and duration per provider and
// endpoint. A nil Metrics is a no-op so agents work without telemetry.
func WithMetrics(m *Metrics, provider string) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return roundTripFunc(func(req *http.Request) (*http.Response, error) {
			if m == nil {
				return next.RoundTrip(req)
			}
			start := time.Now()
			resp, err := next.RoundTrip(req)
			status := 0
			if resp != nil {
				status = resp.StatusCode
			}
			m.record(req.Context(), provider, req.URL.Path, status, time.Since(start), err)
			return resp, err
		})
	}
}
