// Package riskcheck queries the external reputation service and
// normalizes its responses into risk records.
package riskcheck

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/audvakr/token-monitor-system/internal/observability"
	"github.com/audvakr/token-monitor-system/internal/ratelimit"
	"github.com/audvakr/token-monitor-system/internal/retry"
)

// DefaultTimeout bounds a single HTTP request.
const DefaultTimeout = 15 * time.Second

// ReportFetcher fetches raw reputation reports. May fail; the Assessor
// absorbs failures into a degraded default.
type ReportFetcher interface {
	FetchReport(ctx context.Context, mint string) (*Report, error)
}

// Client implements ReportFetcher against the reputation HTTP API.
// Every request passes through the rate limiter before flight and the
// retry policy around the call.
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

// NewClient creates a reputation API client.
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

// Compile-time interface check.
var _ ReportFetcher = (*Client)(nil)

// FetchReport retrieves the reputation report for a mint.
func (c *Client) FetchReport(ctx context.Context, mint string) (*Report, error) {
	url := fmt.Sprintf("%s/v1/tokens/%s/report", c.baseURL, mint)

	if err := c.limiter.Acquire(ctx); err != nil {
		return nil, fmt.Errorf("rate limit acquire: %w", err)
	}

	var report Report
	start := time.Now()
	err := c.policy.Do(ctx, func(ctx context.Context) error {
		return c.get(ctx, url, &report)
	})
	observability.RecordUpstreamRequest("riskcheck", time.Since(start).Seconds(), err)
	if err != nil {
		return nil, fmt.Errorf("fetch report for %s: %w", mint, err)
	}

	return &report, nil
}

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
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
