// Package billing is the API client for the subscription and billing
// service. It covers the checkout flow end to end: starting a session,
// confirming it after the processor redirect, and polling until the
// reconciled subscription becomes visible.
package billing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Client is the billing API client.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Option is a function that configures the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(client *Client) {
		client.httpClient = c
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(client *Client) {
		client.httpClient.Timeout = d
	}
}

// NewClient creates a new billing API client.
//
// Parameters:
//   - baseURL: The API base URL (e.g., "https://api.example.com")
//   - token: The caller's access token
func NewClient(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// StartCheckout creates a hosted checkout session for a plan and returns
// the redirect URL.
func (c *Client) StartCheckout(ctx context.Context, plan string) (string, error) {
	requestURL := fmt.Sprintf("%s/billing/checkout", c.baseURL)

	var resp struct {
		URL string `json:"url"`
	}
	if err := c.doRequest(ctx, http.MethodPost, requestURL, map[string]any{"plan": plan}, &resp); err != nil {
		return "", fmt.Errorf("start checkout: %w", err)
	}
	return resp.URL, nil
}

// ConfirmCheckout asks the service to reconcile a completed checkout
// session.
func (c *Client) ConfirmCheckout(ctx context.Context, sessionID string) error {
	requestURL := fmt.Sprintf("%s/billing/confirm?session_id=%s", c.baseURL, url.QueryEscape(sessionID))

	if err := c.doRequest(ctx, http.MethodGet, requestURL, nil, nil); err != nil {
		return fmt.Errorf("confirm checkout: %w", err)
	}
	return nil
}

// GetCurrentSubscription retrieves the caller's current subscription.
func (c *Client) GetCurrentSubscription(ctx context.Context) (*Subscription, error) {
	requestURL := fmt.Sprintf("%s/subscriptions/me", c.baseURL)

	var sub Subscription
	if err := c.doRequest(ctx, http.MethodGet, requestURL, nil, &sub); err != nil {
		return nil, fmt.Errorf("get current subscription: %w", err)
	}
	return &sub, nil
}

// CreatePortalSession returns a billing portal URL for the caller.
func (c *Client) CreatePortalSession(ctx context.Context) (string, error) {
	requestURL := fmt.Sprintf("%s/billing/portal", c.baseURL)

	var resp struct {
		URL string `json:"url"`
	}
	if err := c.doRequest(ctx, http.MethodPost, requestURL, nil, &resp); err != nil {
		return "", fmt.Errorf("create portal session: %w", err)
	}
	return resp.URL, nil
}

// doRequest performs an HTTP request and decodes the response envelope.
func (c *Client) doRequest(ctx context.Context, method, url string, body any, result any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("unauthorized: invalid access token")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("api error: status=%d body=%s", resp.StatusCode, string(respBody))
	}

	if result == nil {
		return nil
	}

	var apiResp apiResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}

	if !apiResp.Success {
		return fmt.Errorf("api error: %s", apiResp.Message)
	}

	if apiResp.Data == nil {
		return nil
	}

	dataBytes, err := json.Marshal(apiResp.Data)
	if err != nil {
		return fmt.Errorf("marshal data: %w", err)
	}

	if err := json.Unmarshal(dataBytes, result); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}

	return nil
}
