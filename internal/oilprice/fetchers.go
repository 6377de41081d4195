package oilprice

import (
	"context"
	"fmt"
	"strings"

	"oilpricefetcher/internal/fetcher"
)

// LatestFetcher adapts Client.FetchLatest to the fetcher.Fetcher interface
type LatestFetcher struct {
	client *Client
	symbol string
}

// NewLatestFetcher creates a fetcher for one symbol, or all symbols when
// symbol is empty
func NewLatestFetcher(client *Client, symbol string) *LatestFetcher {
	return &LatestFetcher{
		client: client,
		symbol: strings.ToUpper(strings.TrimSpace(symbol)),
	}
}

// Fetch retrieves the latest quotes
func (f *LatestFetcher) Fetch(ctx context.Context) ([]fetcher.Record, error) {
	quotes, err := f.client.FetchLatest(ctx, f.symbol)
	if err != nil {
		return nil, err
	}
	records := make([]fetcher.Record, len(quotes))
	for i, q := range quotes {
		records[i] = q
	}
	return records, nil
}

// Key returns the Redis key for this fetcher
func (f *LatestFetcher) Key() string {
	if f.symbol == "" {
		return "fetcher:oilpriceapi:latest:all"
	}
	return fmt.Sprintf("fetcher:oilpriceapi:latest:%s", f.symbol)
}

// HistoricalFetcher adapts Client.FetchHistorical to the fetcher.Fetcher interface
type HistoricalFetcher struct {
	client *Client
	symbol string
	period string
}

// NewHistoricalFetcher creates a fetcher for symbol over period.
// An empty period selects DefaultPeriod.
func NewHistoricalFetcher(client *Client, symbol, period string) *HistoricalFetcher {
	if period == "" {
		period = string(DefaultPeriod)
	}
	return &HistoricalFetcher{
		client: client,
		symbol: strings.ToUpper(strings.TrimSpace(symbol)),
		period: strings.ToLower(strings.TrimSpace(period)),
	}
}

// Fetch retrieves the historical series
func (f *HistoricalFetcher) Fetch(ctx context.Context) ([]fetcher.Record, error) {
	points, err := f.client.FetchHistorical(ctx, f.symbol, f.period)
	if err != nil {
		return nil, err
	}
	records := make([]fetcher.Record, len(points))
	for i, p := range points {
		records[i] = p
	}
	return records, nil
}

// Key returns the Redis key for this fetcher
func (f *HistoricalFetcher) Key() string {
	return fmt.Sprintf("fetcher:oilpriceapi:%s:%s", f.period, f.symbol)
}
