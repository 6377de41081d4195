package fetcher

// Result represents the outcome of a fetch operation.
// It's designed to be sent through channels from worker goroutines
// to a coordinator that processes the results.
type Result struct {
	// Key is the Redis-compatible hierarchical key for this fetch
	Key string

	// Records holds the normalized data points in upstream order
	Records []Record

	// Error contains any error that occurred during the fetch operation.
	// If Error is not nil, Records is empty.
	Error error
}
