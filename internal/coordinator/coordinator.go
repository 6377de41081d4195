package coordinator

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/sourcegraph/conc/pool"

	"oilpricefetcher/internal/fetcher"
)

const defaultConcurrency = 4

// Coordinator manages concurrent fetchers and aggregates results
type Coordinator struct {
	fetchers    []fetcher.Fetcher
	concurrency int
	out         io.Writer
}

// Option configures a Coordinator
type Option func(*Coordinator)

// WithConcurrency bounds the number of fetchers running at once
func WithConcurrency(n int) Option {
	return func(c *Coordinator) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// WithOutput redirects result lines, which go to stdout by default
func WithOutput(w io.Writer) Option {
	return func(c *Coordinator) {
		c.out = w
	}
}

// New creates a new Coordinator with the given fetchers
func New(fetchers []fetcher.Fetcher, opts ...Option) *Coordinator {
	c := &Coordinator{
		fetchers:    fetchers,
		concurrency: defaultConcurrency,
		out:         os.Stdout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run executes all fetchers concurrently and prints results as they arrive.
// Each fetcher runs on a bounded worker pool and sends its result to a shared
// channel. Output format:
//   - Success: "KEY: RECORD" for every record
//   - Error: "KEY: ERROR - error message"
func (c *Coordinator) Run(ctx context.Context) error {
	if len(c.fetchers) == 0 {
		return fmt.Errorf("no fetchers configured")
	}

	resultChan := make(chan fetcher.Result, len(c.fetchers))

	p := pool.New().WithMaxGoroutines(c.concurrency)
	for _, f := range c.fetchers {
		p.Go(func() {
			records, err := f.Fetch(ctx)
			resultChan <- fetcher.Result{
				Key:     f.Key(),
				Records: records,
				Error:   err,
			}
		})
	}

	// Close the result channel when all workers are done
	go func() {
		p.Wait()
		close(resultChan)
	}()

	for result := range resultChan {
		c.print(result)
	}

	return nil
}

func (c *Coordinator) print(result fetcher.Result) {
	if result.Error != nil {
		fmt.Fprintf(c.out, "%s: ERROR - %v\n", result.Key, result.Error)
		return
	}
	if len(result.Records) == 0 {
		fmt.Fprintf(c.out, "%s: no data\n", result.Key)
		return
	}
	for _, r := range result.Records {
		fmt.Fprintf(c.out, "%s: %s\n", result.Key, r)
	}
}
