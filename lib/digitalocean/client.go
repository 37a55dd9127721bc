// Package digitalocean adapts the DigitalOcean v2 API to the agent
// contract. Plain JSON REST with Bearer auth and page-based
// pagination; the straightest wire of the supported vendors.
package digitalocean

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/vpsdeck/vpsdeck/lib/agent"
)

const (
	// ProviderId is the vendor id accounts reference.
	ProviderId = "digitalocean"

	defaultBaseURL = "https://api.digitalocean.com/v2"

	// perPage is the page size for list endpoints; pages are walked
	// until the vendor stops reporting a next link.
	perPage = 200
)

// Client is the authenticated session for one DigitalOcean account.
type Client struct {
	baseURL   string
	token     string
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

// NewClient builds the session for a token credential.
func NewClient(cred agent.Credential, opts ...Option) *Client {
	c := &Client{
		baseURL:   defaultBaseURL,
		token:     cred.Key,
		accountId: agent.AccountId(ProviderId, cred.Key),
		notifier:  agent.NopNotifier{},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.http = agent.NewHTTPClient(nil,
		agent.WithHeader("Authorization", "Bearer "+c.token),
		agent.WithMetrics(c.metrics, ProviderId),
	)
	return c
}

// AccountId returns the derived account id for this session.
func (c *Client) AccountId() string { return c.accountId }

// Token returns the raw credential so callers can reconstruct the agent.
func (c *Client) Token() string { return c.token }

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	return c.do(ctx, http.MethodPost, path, payload, out)
}

func (c *Client) put(ctx context.Context, path string, payload, out any) error {
	return c.do(ctx, http.MethodPut, path, payload, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s: %w", vendorMessage(raw), agent.ErrNotFound)
	case resp.StatusCode >= 400:
		apiErr := &agent.APIError{
			Provider:   ProviderId,
			StatusCode: resp.StatusCode,
			Message:    vendorMessage(raw),
		}
		c.notifier.Publish(apiErr.Provider, apiErr.Message, apiErr.Info)
		return apiErr
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// vendorMessage pulls the message out of the vendor's {"id","message"}
// error envelope, falling back to the raw body.
func vendorMessage(raw []byte) string {
	var envelope struct {
		Id      string `json:"id"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Message != "" {
		return envelope.Message
	}
	return strings.TrimSpace(string(raw))
}
