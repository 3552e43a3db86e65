// Package dexscreener fetches newly listed DEX pairs from the
// market-data API over HTTP.
package dexscreener

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/audvakr/token-monitor-system/internal/domain"
	"github.com/audvakr/token-monitor-system/internal/observability"
	"github.com/audvakr/token-monitor-system/internal/ratelimit"
	"github.com/audvakr/token-monitor-system/internal/retry"
)

// DefaultTimeout bounds a single HTTP request.
const DefaultTimeout = 15 * time.Second

// Client fetches trading pairs. Every request passes through the rate
// limiter before flight and the retry policy around the call.
type Client struct {
	baseURL string
	client  *http.Client
	limiter *ratelimit.Limiter
	policy  retry.Policy
}

// ClientOption configures Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom http.Client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.client = hc }
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.client.Timeout = d }
}

// NewClient creates a pair-fetch client.
func NewClient(baseURL string, limiter *ratelimit.Limiter, policy retry.Policy, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: DefaultTimeout},
		limiter: limiter,
		policy:  policy,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchPairs returns the latest pairs for the given chain. An empty
// result is not an error; only transport and server failures are.
func (c *Client) FetchPairs(ctx context.Context, chainID string) ([]domain.TradingPair, error) {
	url := fmt.Sprintf("%s/latest/dex/pairs/%s", c.baseURL, chainID)

	if err := c.limiter.Acquire(ctx); err != nil {
		return nil, fmt.Errorf("rate limit acquire: %w", err)
	}

	var payload pairsResponse
	start := time.Now()
	err := c.policy.Do(ctx, func(ctx context.Context) error {
		return c.get(ctx, url, &payload)
	})
	observability.RecordUpstreamRequest("dexscreener", time.Since(start).Seconds(), err)
	if err != nil {
		return nil, fmt.Errorf("fetch pairs for %s: %w", chainID, err)
	}

	pairs := make([]domain.TradingPair, 0, len(payload.Pairs))
	for i := range payload.Pairs {
		pairs = append(pairs, payload.Pairs[i].toDomain())
	}
	return pairs, nil
}

// get performs one HTTP GET and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("http get: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
