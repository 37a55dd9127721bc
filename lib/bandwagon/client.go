// Package bandwagon adapts the BandwagonHost KiwiVM API to the agent
// contract.
//
// KiwiVM authenticates with veid/api_key query parameters, scopes one
// VPS per credential, and answers every call with an {"error": 0}
// envelope; a non-zero error code plus message means failure even on
// HTTP 200. Several operations (snapshot creation, backup-to-snapshot
// copies) are accepted asynchronously and confirmed by email.
package bandwagon

import (
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
	ProviderId = "bandwagon"

	defaultBaseURL = "https://api.64clouds.com/v1"
)

// Client is the authenticated session for one KiwiVM service (VEID).
type Client struct {
	baseURL   string
	veid      string
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

// NewClient builds the session for a credential. The VEID rides in
// Credential.Extra; a bare "veid:key" in Key is accepted too.
func NewClient(cred agent.Credential, opts ...Option) (*Client, error) {
	veid, key := cred.Extra, cred.Key
	if veid == "" {
		if i := strings.IndexByte(key, ':'); i > 0 {
			veid, key = key[:i], key[i+1:]
		}
	}
	if veid == "" || key == "" {
		return nil, fmt.Errorf("bandwagon: credential must carry veid and api key")
	}

	c := &Client{
		baseURL:   defaultBaseURL,
		veid:      veid,
		apiKey:    key,
		accountId: agent.AccountId(ProviderId, veid+":"+key),
		notifier:  agent.NopNotifier{},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.http = agent.NewHTTPClient(nil,
		agent.WithQuery(map[string]string{"veid": c.veid, "api_key": c.apiKey}),
		agent.WithMetrics(c.metrics, ProviderId),
	)
	return c, nil
}

// AccountId returns the derived account id for this session.
func (c *Client) AccountId() string { return c.accountId }

// Veid returns the service id this session is scoped to.
func (c *Client) Veid() string { return c.veid }

// call issues one KiwiVM API call. params are merged into the query
// string next to the credentials; out may be nil.
func (c *Client) call(ctx context.Context, name string, params map[string]string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+name, nil)
	if err != nil {
		return err
	}
	if len(params) > 0 {
		q := req.URL.Query()
		for k, v := range params {
			q.Set(k, v)
		}
		req.URL.RawQuery = q.Encode()
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return c.fail(&agent.APIError{
			Provider:   ProviderId,
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(body)),
		})
	}

	var envelope struct {
		Error   int    `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if envelope.Error != 0 {
		if envelope.Message == "" {
			envelope.Message = "vendor reported an error"
		}
		return c.fail(&agent.APIError{
			Provider:   ProviderId,
			StatusCode: resp.StatusCode,
			Message:    envelope.Message,
			Info:       fmt.Sprintf("error code %d", envelope.Error),
		})
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) fail(apiErr *agent.APIError) error {
	c.notifier.Publish(apiErr.Provider, apiErr.Message, apiErr.Info)
	return apiErr
}
