// Package oilprice fetches latest and historical commodity prices from OilPriceAPI.
package oilprice

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"slices"
	"time"

	"resty.dev/v3"

	"oilpricefetcher/internal/fetcher"
	"oilpricefetcher/internal/ratelimit"
)

// DefaultBaseURL is the production OilPriceAPI endpoint
const DefaultBaseURL = "https://api.oilpriceapi.com/v1"

// Client talks to OilPriceAPI. It holds no per-call state and is safe for
// concurrent use.
type Client struct {
	apiKey  string
	baseURL string
	timeout time.Duration
	retry   fetcher.RetryPolicy
	limiter *ratelimit.Limiter
	now     func() time.Time
	client  *resty.Client
}

// Option configures a Client
type Option func(*Client)

// WithRetryPolicy overrides the rate-limit retry policy
func WithRetryPolicy(p fetcher.RetryPolicy) Option {
	return func(c *Client) {
		c.retry = p
	}
}

// WithTimeout sets the per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithLimiter replaces the process-wide rate limiter
func WithLimiter(l *ratelimit.Limiter) Option {
	return func(c *Client) {
		c.limiter = l
	}
}

// NewClient creates a new OilPriceAPI client. An empty baseURL selects
// DefaultBaseURL.
func NewClient(apiKey, baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	c := &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		retry:   fetcher.DefaultRetryPolicy(),
		limiter: ratelimit.GetLimiter(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.client = fetcher.NewHTTPClient(c.baseURL, c.timeout)

	return c
}

// FetchLatest returns the latest quote for symbol, or for every supported
// commodity when symbol is empty.
func (c *Client) FetchLatest(ctx context.Context, symbol string) ([]PriceQuote, error) {
	if symbol == "" {
		return c.fetchAllLatest(ctx)
	}

	sym, err := ParseSymbol(symbol)
	if err != nil {
		return nil, err
	}
	if err := c.checkCredentials(); err != nil {
		return nil, err
	}

	comm := sym.Commodity()
	prices, err := c.get(ctx, "/prices/latest", map[string]string{"by_code": comm.Code}, string(sym))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch latest price for %s: %w", sym, err)
	}

	for _, p := range prices {
		if code := p.code(); code != "" && code != comm.Code {
			continue
		}
		q, err := toQuote(comm, p, c.now())
		if err != nil {
			return nil, err
		}
		return []PriceQuote{q}, nil
	}

	return nil, fetcher.NewValidationError(fmt.Sprintf("price not found in response for %s", sym))
}

func (c *Client) fetchAllLatest(ctx context.Context) ([]PriceQuote, error) {
	if err := c.checkCredentials(); err != nil {
		return nil, err
	}

	prices, err := c.get(ctx, "/prices/latest", nil, "latest prices")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch latest prices: %w", err)
	}

	now := c.now()
	found := make(map[Symbol]PriceQuote, len(prices))
	for _, p := range prices {
		comm, ok := lookupCode(p.code())
		if !ok {
			slog.Debug("skipping unsupported commodity", "code", p.code())
			continue
		}
		if _, dup := found[comm.Symbol]; dup {
			continue
		}
		q, err := toQuote(comm, p, now)
		if err != nil {
			return nil, err
		}
		found[comm.Symbol] = q
	}

	if len(found) == 0 {
		return nil, fetcher.NewValidationError("no supported commodities in response")
	}

	quotes := make([]PriceQuote, 0, len(found))
	for _, comm := range commodities {
		if q, ok := found[comm.Symbol]; ok {
			quotes = append(quotes, q)
		}
	}
	return quotes, nil
}

// FetchHistorical returns the price series for symbol over period, oldest first.
func (c *Client) FetchHistorical(ctx context.Context, symbol, period string) ([]HistoricalPoint, error) {
	sym, err := ParseSymbol(symbol)
	if err != nil {
		return nil, err
	}
	per, err := ParsePeriod(period)
	if err != nil {
		return nil, err
	}
	if err := c.checkCredentials(); err != nil {
		return nil, err
	}

	comm := sym.Commodity()
	prices, err := c.get(ctx, "/prices/"+string(per), map[string]string{"by_code": comm.Code}, string(sym))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s prices for %s: %w", per, sym, err)
	}

	points := make([]HistoricalPoint, 0, len(prices))
	for _, p := range prices {
		if code := p.code(); code != "" && code != comm.Code {
			return nil, fetcher.NewValidationError(fmt.Sprintf("unexpected commodity %s in %s history", code, sym))
		}
		pt, err := toPoint(comm, p)
		if err != nil {
			return nil, err
		}
		points = append(points, pt)
	}

	if len(points) == 0 {
		return nil, fetcher.NewValidationError(fmt.Sprintf("no historical prices returned for %s (%s)", sym, per))
	}

	slices.SortStableFunc(points, func(a, b HistoricalPoint) int {
		return a.Date.Compare(b.Date)
	})

	slog.Debug("fetched historical prices",
		"symbol", sym,
		"period", per,
		"granularity", per.Granularity(),
		"points", len(points))

	return points, nil
}

func (c *Client) checkCredentials() error {
	if c.apiKey == "" {
		return fetcher.NewAuthenticationError(0, "OilPriceAPI API key is required")
	}
	return nil
}

// get issues a GET against path, retrying rate-limited attempts, and
// returns the decoded price objects.
func (c *Client) get(ctx context.Context, path string, query map[string]string, subject string) ([]apiPrice, error) {
	return fetcher.Retry(ctx, c.retry, func() ([]apiPrice, error) {
		if err := c.limiter.Wait(ctx, ratelimit.APIOilPriceAPI); err != nil {
			return nil, fetcher.NewTimeoutError(err)
		}
		return c.do(ctx, path, query, subject)
	})
}

// do performs a single attempt
func (c *Client) do(ctx context.Context, path string, query map[string]string, subject string) ([]apiPrice, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Token "+c.apiKey).
		SetQueryParams(query).
		SetDoNotParseResponse(true).
		Get(path)
	defer closeBody(resp)

	if err != nil {
		var netErr net.Error
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
			return nil, fetcher.NewTimeoutError(err)
		}
		return nil, fetcher.NewNetworkError(err)
	}

	if !resp.IsSuccess() {
		fe := fetcher.ClassifyHTTPError(resp.StatusCode())
		switch fe.Type {
		case fetcher.ErrorTypeAuthentication:
			fe.Message = "invalid API key; check your OilPriceAPI credentials"
		case fetcher.ErrorTypeNotFound:
			fe.Message = fmt.Sprintf("commodity not found: %s", subject)
		}
		return nil, fe
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fetcher.NewNetworkError(err)
	}

	return decodePrices(body)
}

func closeBody(resp *resty.Response) {
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
}
