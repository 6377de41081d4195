package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"oilpricefetcher/internal/config"
	"oilpricefetcher/internal/coordinator"
	"oilpricefetcher/internal/fetcher"
	"oilpricefetcher/internal/oilprice"
	"oilpricefetcher/internal/ratelimit"
)

const usage = `Usage:
  oilpricefetcher [flags]                       fetch the configured watch list
  oilpricefetcher [flags] latest [SYMBOL]       latest price for SYMBOL, or all commodities
  oilpricefetcher [flags] historical SYMBOL     price history for SYMBOL

Symbols: %s

Flags:
`

func main() {
	flags := pflag.NewFlagSet("oilpricefetcher", pflag.ExitOnError)
	apiKey := flags.String("api-key", "", "OilPriceAPI key (overrides OILPRICEAPI_API_KEY)")
	baseURL := flags.String("base-url", "", "OilPriceAPI base URL")
	period := flags.String("period", string(oilprice.DefaultPeriod), "historical period: past_day, past_week or past_month")
	configFile := flags.String("config", "", "path to a config file")
	logLevel := flags.String("log-level", "", "log level: debug, info, warn, error")
	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, usage, joinSymbols())
		flags.PrintDefaults()
	}
	flags.Parse(os.Args[1:])

	// Load configuration
	var opts []config.Option
	if *apiKey != "" {
		opts = append(opts, config.WithAPIKey(*apiKey))
	}
	if *baseURL != "" {
		opts = append(opts, config.WithOverride("oilpriceapi_base_url", *baseURL))
	}
	if *logLevel != "" {
		opts = append(opts, config.WithOverride("log_level", *logLevel))
	}
	if *configFile != "" {
		opts = append(opts, config.WithConfigFile(*configFile))
	}
	cfg, err := config.Load(opts...)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLevel(cfg.LogLevel),
	})))

	fetchers, err := buildFetchers(cfg, flags.Args(), *period)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		flags.Usage()
		os.Exit(2)
	}

	// Create context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nReceived interrupt signal, shutting down...")
		cancel()
	}()

	coord := coordinator.New(fetchers, coordinator.WithConcurrency(cfg.Concurrency))

	// Add timeout to prevent hanging indefinitely
	fetchCtx, fetchCancel := context.WithTimeout(ctx, 30*time.Second)
	defer fetchCancel()

	fmt.Println("Fetching commodity prices from OilPriceAPI...")
	fmt.Println("================================================")
	if err := coord.Run(fetchCtx); err != nil {
		log.Fatalf("Coordinator failed: %v", err)
	}

	fmt.Println("================================================")
	fmt.Println("All fetches completed!")
}

// newClient wires the configured retry, timeout and pacing into a client
func newClient(cfg *config.Config) *oilprice.Client {
	limiter := ratelimit.GetLimiter()
	limiter.Configure(ratelimit.APIOilPriceAPI, cfg.RequestsPerSecond, 1)

	policy := fetcher.DefaultRetryPolicy()
	policy.MaxAttempts = cfg.RetryMaxAttempts
	policy.InitialInterval = cfg.RetryInitialInterval
	policy.MaxInterval = cfg.RetryMaxInterval
	policy.Multiplier = cfg.RetryMultiplier

	return oilprice.NewClient(cfg.APIKey, cfg.BaseURL,
		oilprice.WithTimeout(cfg.RequestTimeout),
		oilprice.WithRetryPolicy(policy),
		oilprice.WithLimiter(limiter),
	)
}

// buildFetchers turns the command line, or the configured watch list when
// no command is given, into fetchers.
func buildFetchers(cfg *config.Config, args []string, period string) ([]fetcher.Fetcher, error) {
	client := newClient(cfg)

	if len(args) == 0 {
		return watchList(client, cfg), nil
	}

	switch args[0] {
	case "latest":
		if len(args) > 2 {
			return nil, fmt.Errorf("latest takes at most one symbol")
		}
		symbol := ""
		if len(args) == 2 {
			symbol = args[1]
		}
		return []fetcher.Fetcher{oilprice.NewLatestFetcher(client, symbol)}, nil
	case "historical":
		if len(args) != 2 {
			return nil, fmt.Errorf("historical takes exactly one symbol")
		}
		return []fetcher.Fetcher{oilprice.NewHistoricalFetcher(client, args[1], period)}, nil
	default:
		return nil, fmt.Errorf("unknown command %q", args[0])
	}
}

func watchList(client *oilprice.Client, cfg *config.Config) []fetcher.Fetcher {
	var fetchers []fetcher.Fetcher

	if len(cfg.Symbols) == 0 {
		fetchers = append(fetchers, oilprice.NewLatestFetcher(client, ""))
	}
	for _, symbol := range cfg.Symbols {
		fetchers = append(fetchers, oilprice.NewLatestFetcher(client, symbol))
	}

	for _, h := range cfg.Historical {
		fetchers = append(fetchers, oilprice.NewHistoricalFetcher(client, h.Symbol, h.Period))
	}

	return fetchers
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func joinSymbols() string {
	symbols := oilprice.AllSymbols()
	names := make([]string, len(symbols))
	for i, s := range symbols {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}
