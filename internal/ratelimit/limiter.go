package ratelimit

import (
	"context"
	"os"
	"strings"
	"sync"

	"golang.org/x/time/rate"
)

// API represents the different external APIs we interact with
type API string

const (
	// APIOilPriceAPI represents the OilPriceAPI REST service
	APIOilPriceAPI API = "oilpriceapi"
)

// defaultRequestsPerSecond is a conservative pace for the OilPriceAPI free tier
const defaultRequestsPerSecond = 2

// Limiter manages rate limits for different APIs
type Limiter struct {
	limiters map[API]*rate.Limiter
	mu       sync.RWMutex
}

var (
	instance *Limiter
	once     sync.Once
)

// GetLimiter returns the singleton rate limiter instance
func GetLimiter() *Limiter {
	once.Do(func() {
		instance = New()
	})
	return instance
}

// New creates a limiter with the default per-API limits
func New() *Limiter {
	l := &Limiter{
		limiters: make(map[API]*rate.Limiter),
	}
	l.initLimiters()
	return l
}

// initLimiters initializes rate limiters for each API with conservative defaults
func (l *Limiter) initLimiters() {
	// Tests hit local servers, so pacing only slows them down
	if os.Getenv("GO_TESTING") == "1" || isTestMode() {
		l.limiters[APIOilPriceAPI] = rate.NewLimiter(rate.Inf, 1)
		return
	}

	l.limiters[APIOilPriceAPI] = rate.NewLimiter(rate.Limit(defaultRequestsPerSecond), 1)
}

// isTestMode checks if we're running in test mode
func isTestMode() bool {
	for _, arg := range os.Args {
		if strings.HasPrefix(arg, "-test.") {
			return true
		}
	}
	return false
}

// Configure replaces the limit for api. A non-positive rate removes pacing.
func (l *Limiter) Configure(api API, requestsPerSecond float64, burst int) {
	limit := rate.Limit(requestsPerSecond)
	if requestsPerSecond <= 0 {
		limit = rate.Inf
	}
	if burst < 1 {
		burst = 1
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.limiters[api] = rate.NewLimiter(limit, burst)
}

// Wait blocks until the rate limiter permits an event for the given API
// It returns an error if the context is canceled before the event can proceed
func (l *Limiter) Wait(ctx context.Context, api API) error {
	l.mu.RLock()
	limiter, exists := l.limiters[api]
	l.mu.RUnlock()

	if !exists {
		// If no limiter exists for this API, allow the request without limiting
		return nil
	}

	return limiter.Wait(ctx)
}

// Allow reports whether an event for the given API may happen now
func (l *Limiter) Allow(api API) bool {
	l.mu.RLock()
	limiter, exists := l.limiters[api]
	l.mu.RUnlock()

	if !exists {
		return true
	}

	return limiter.Allow()
}
