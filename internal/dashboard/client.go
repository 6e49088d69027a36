// Package dashboard renders the API payloads as charts for a browser.
package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/okian/ukestate/internal/domain/types"
	"github.com/okian/ukestate/pkg/logger"
	"github.com/okian/ukestate/pkg/metrics"
)

// API paths and metric labels.
const (
	pathSalesPerMonth    = "/sales-per-month"
	pathTopNeighborhoods = "/top-expensive-neighborhoods"

	endpointSales         = "sales_per_month"
	endpointNeighborhoods = "top_expensive_neighborhoods"

	outcomeOK    = "ok"
	outcomeError = "error"

	defaultTimeout = 30 * time.Second
	maxBodyBytes   = 1 << 20
)

// Client fetches the two analytical payloads from the API.
type Client struct {
	baseURL string
	http    *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithTimeout bounds every request. Non-positive values are ignored.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// NewClient creates a client for the API rooted at baseURL.
func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, ErrEmptyURL
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("parse api url: %w", err)
	}
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// MonthlySales fetches GET /sales-per-month.
func (c *Client) MonthlySales(ctx context.Context) ([]types.MonthlySalesPoint, error) {
	var out []types.MonthlySalesPoint
	if err := c.getJSON(ctx, endpointSales, pathSalesPerMonth, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// TopNeighborhoods fetches GET /top-expensive-neighborhoods?date=year.
func (c *Client) TopNeighborhoods(ctx context.Context, year types.Year) ([]types.NeighborhoodPriceSummary, error) {
	var out []types.NeighborhoodPriceSummary
	q := url.Values{"date": []string{year.String()}}
	if err := c.getJSON(ctx, endpointNeighborhoods, pathTopNeighborhoods, q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// getJSON issues one GET and decodes a 200 body into v. Any other status
// is reported as ErrFetch; there is no retry.
func (c *Client) getJSON(ctx context.Context, endpoint, path string, query url.Values, v any) (err error) {
	defer func() {
		outcome := outcomeOK
		if err != nil {
			outcome = outcomeError
			logger.Get().Warn(ctx, "api fetch failed",
				logger.String("endpoint", endpoint),
				logger.Error(err),
			)
		}
		metrics.RecordDashboardFetch(endpoint, outcome)
	}()

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFetch, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return fmt.Errorf("%w: %s returned %d", ErrFetch, path, resp.StatusCode)
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(v); err != nil {
		return fmt.Errorf("%w: %w: %v", ErrFetch, ErrBadPayload, err)
	}
	return nil
}
