// Package vultr adapts the Vultr v1 API to the agent contract.
//
// The v1 surface has several quirks the rest of the system must never
// see: form-urlencoded POST bodies, list responses shaped as objects
// keyed by numeric-string SUBIDs instead of arrays, numerics encoded as
// strings, and HTTP 412 standing in for "not found".
package vultr

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/vpsdeck/vpsdeck/lib/agent"
)

const (
	// ProviderId is the vendor id accounts reference.
	ProviderId = "vultr"

	defaultBaseURL = "https://api.vultr.com/v1"
)

// Client is the authenticated HTTP session for one Vultr account. The
// underlying http.Client (auth header, connection reuse) is shared by
// every call; no other state lives between calls.
type Client struct {
	baseURL   string
	apiKey    string
	accountId string

	http     *http.Client
	notifier agent.Notifier
	metrics  *agent.Metrics
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint. Tests point this at a stub.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithNotifier routes vendor errors to a notification channel.
func WithNotifier(n agent.Notifier) Option {
	return func(c *Client) { c.notifier = n }
}

// WithMetrics instruments every vendor call.
func WithMetrics(m *agent.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// NewClient builds the session for a credential. The account id is a
// stable hash of the key; constructing twice from the same credential
// yields the same id.
func NewClient(cred agent.Credential, opts ...Option) *Client {
	c := &Client{
		baseURL:   defaultBaseURL,
		apiKey:    cred.Key,
		accountId: agent.AccountId(ProviderId, cred.Key),
		notifier:  agent.NopNotifier{},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.http = agent.NewHTTPClient(nil,
		agent.WithHeader("API-Key", c.apiKey),
		agent.WithMetrics(c.metrics, ProviderId),
	)
	return c
}

// AccountId returns the derived account id for this session.
func (c *Client) AccountId() string { return c.accountId }

// get issues a GET and decodes the JSON body into out (out may be nil).
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

// post issues a form-urlencoded POST and decodes the JSON body into
// out (out may be nil; most v1 actions answer with an empty body).
func (c *Client) post(ctx context.Context, path string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path,
		strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		// Network errors propagate untouched; only vendor-level errors
		// get normalized or surfaced.
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusPreconditionFailed:
		// Vultr's non-standard "doesn't exist" signal.
		return fmt.Errorf("%s: %w", strings.TrimSpace(string(body)), agent.ErrNotFound)
	case resp.StatusCode >= 400:
		return c.fail(&agent.APIError{
			Provider:   ProviderId,
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(body)),
		})
	}

	// The v1 API can answer 200 with an error marker in the body.
	if apiErr := inBodyError(body); apiErr != nil {
		apiErr.StatusCode = resp.StatusCode
		return c.fail(apiErr)
	}

	if out == nil || len(body) == 0 {
		return nil
	}
	// Empty list endpoints answer with [] or {} interchangeably; let
	// map targets swallow the array form.
	if string(body) == "[]" {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// fail publishes the vendor error to the notification channel and
// still returns it. Dual reporting is intentional: global visibility
// plus local control flow.
func (c *Client) fail(apiErr *agent.APIError) error {
	c.notifier.Publish(apiErr.Provider, apiErr.Message, apiErr.Info)
	return apiErr
}

func inBodyError(body []byte) *agent.APIError {
	var envelope struct {
		Error               any    `json:"error"`
		Message             string `json:"message"`
		AdditionalErrorInfo string `json:"additionalErrorInfo"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil
	}
	switch v := envelope.Error.(type) {
	case bool:
		if !v {
			return nil
		}
	case string:
		if v == "" {
			return nil
		}
		if envelope.Message == "" {
			envelope.Message = v
		}
	default:
		return nil
	}
	if envelope.Message == "" {
		envelope.Message = "vendor reported an error"
	}
	return &agent.APIError{
		Provider: ProviderId,
		Message:  envelope.Message,
		Info:     envelope.AdditionalErrorInfo,
	}
}
