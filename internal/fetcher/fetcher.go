package fetcher

import "context"

// Record is a single normalized data point produced by a fetcher.
// String renders it for the coordinator's output.
type Record interface {
	String() string
}

//go:generate mockgen -package=testutil -destination=../testutil/mock_fetcher.go -source=fetcher.go Fetcher

// Fetcher is the core interface that all data fetchers must implement.
// Each fetcher knows how to retrieve one query against an upstream API
// and provides a Redis-compatible key identifying that query.
type Fetcher interface {
	// Fetch retrieves the data and returns the normalized records.
	// Either all records are returned or an error, never both.
	Fetch(ctx context.Context) ([]Record, error)

	// Key returns a Redis-compatible hierarchical key for this fetcher.
	// Format: fetcher:{source}:{operation}:{identifier}
	// Examples:
	//   - fetcher:oilpriceapi:latest:WTI
	//   - fetcher:oilpriceapi:latest:all
	//   - fetcher:oilpriceapi:past_week:BRENT
	Key() string
}
