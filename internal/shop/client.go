// Package shop is the HTTP client for the storefront's public domain API:
// catalog search, FAQ answers, order status, and order/tracking summaries.
// Every call is a single GET with a hard timeout; the caller decides how to
// degrade when a fetch fails.
package shop

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const fetchTimeout = 10 * time.Second

// Client communicates with the storefront domain API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a Client targeting the given domain-API base URL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: fetchTimeout,
		},
	}
}

// BaseURL returns the configured domain-API base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// getJSON performs one authenticated GET against path with the given query
// and decodes the response body into out. Non-2xx statuses are errors.
func (c *Client) getJSON(ctx context.Context, path, query, bearer string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	u := c.baseURL + path
	if query != "" {
		u += "?q=" + url.QueryEscape(query)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("requesting %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s: unexpected status %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}
	return nil
}

// itemsEnvelope decodes the legacy response shapes the domain API may use
// for list results: a bare array, {"results": [...]}, or {"data": [...]}.
// The shapes are tried in that order; the first match wins.
func itemsEnvelope(raw json.RawMessage) []json.RawMessage {
	var arr []json.RawMessage
	if err := json.Unmarshal(raw, &arr); err == nil {
		return arr
	}
	var wrapped struct {
		Results []json.RawMessage `json:"results"`
		Data    []json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil
	}
	if wrapped.Results != nil {
		return wrapped.Results
	}
	return wrapped.Data
}
