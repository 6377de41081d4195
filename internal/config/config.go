package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// HistoricalConfig holds one historical series to fetch.
type HistoricalConfig struct {
	Symbol string `mapstructure:"symbol"`
	Period string `mapstructure:"period"`
}

// Config holds all configuration for the oil price fetcher application.
type Config struct {
	// API key and endpoint
	APIKey  string `mapstructure:"oilpriceapi_api_key"`
	BaseURL string `mapstructure:"oilpriceapi_base_url"`

	// HTTP behavior
	RequestTimeout       time.Duration `mapstructure:"request_timeout"`
	RetryMaxAttempts     uint          `mapstructure:"retry_max_attempts"`
	RetryInitialInterval time.Duration `mapstructure:"retry_initial_interval"`
	RetryMaxInterval     time.Duration `mapstructure:"retry_max_interval"`
	RetryMultiplier      float64       `mapstructure:"retry_multiplier"`
	RequestsPerSecond    float64       `mapstructure:"requests_per_second"`

	// Runtime
	Concurrency int    `mapstructure:"concurrency"`
	LogLevel    string `mapstructure:"log_level"`

	// Items to fetch. An empty Symbols list means every supported commodity.
	Symbols    []string           `mapstructure:"symbols"`
	Historical []HistoricalConfig `mapstructure:"historical"`
}

type loadOptions struct {
	configFile string
	dotenv     []string
	overrides  map[string]any
}

// Option customizes Load
type Option func(*loadOptions)

// WithConfigFile reads the given file instead of searching for config.yaml
func WithConfigFile(path string) Option {
	return func(o *loadOptions) {
		o.configFile = path
	}
}

// WithDotenv loads the given .env files instead of ./.env
func WithDotenv(files ...string) Option {
	return func(o *loadOptions) {
		o.dotenv = files
	}
}

// WithAPIKey sets the API key in-process; it beats env and file values.
func WithAPIKey(key string) Option {
	return WithOverride("oilpriceapi_api_key", key)
}

// WithOverride sets any key in-process; it beats env and file values.
func WithOverride(key string, value any) Option {
	return func(o *loadOptions) {
		if o.overrides == nil {
			o.overrides = make(map[string]any)
		}
		o.overrides[key] = value
	}
}

// Load reads configuration from in-process overrides, environment variables
// (optionally seeded from a .env file) and an optional config file.
// Precedence: overrides, then environment, then config file, then defaults.
//
// Expected environment variables:
//   - OILPRICEAPI_API_KEY
//   - OILPRICEAPI_BASE_URL (optional, defaults to production)
//   - OILPRICE_REQUEST_TIMEOUT, OILPRICE_RETRY_MAX_ATTEMPTS,
//     OILPRICE_RETRY_INITIAL_INTERVAL, OILPRICE_RETRY_MAX_INTERVAL,
//     OILPRICE_RETRY_MULTIPLIER, OILPRICE_REQUESTS_PER_SECOND,
//     OILPRICE_CONCURRENCY, OILPRICE_LOG_LEVEL (optional)
//   - OILPRICE_SYMBOLS (optional, comma separated)
func Load(opts ...Option) (*Config, error) {
	o := &loadOptions{}
	for _, opt := range opts {
		opt(o)
	}

	// .env never overrides variables that are already set; a missing file is fine
	_ = godotenv.Load(o.dotenv...)

	v := viper.New()

	v.SetDefault("oilpriceapi_base_url", "https://api.oilpriceapi.com/v1")
	v.SetDefault("request_timeout", 30*time.Second)
	v.SetDefault("retry_max_attempts", 3)
	v.SetDefault("retry_initial_interval", time.Second)
	v.SetDefault("retry_max_interval", 10*time.Second)
	v.SetDefault("retry_multiplier", 2.0)
	v.SetDefault("requests_per_second", 2.0)
	v.SetDefault("concurrency", 4)
	v.SetDefault("log_level", "info")

	if o.configFile != "" {
		v.SetConfigFile(o.configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", o.configFile, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.oilpricefetcher")

		// Read config file (ignore if not found)
		_ = v.ReadInConfig()
	}

	v.BindEnv("oilpriceapi_api_key", "OILPRICEAPI_API_KEY")
	v.BindEnv("oilpriceapi_base_url", "OILPRICEAPI_BASE_URL")
	v.BindEnv("request_timeout", "OILPRICE_REQUEST_TIMEOUT")
	v.BindEnv("retry_max_attempts", "OILPRICE_RETRY_MAX_ATTEMPTS")
	v.BindEnv("retry_initial_interval", "OILPRICE_RETRY_INITIAL_INTERVAL")
	v.BindEnv("retry_max_interval", "OILPRICE_RETRY_MAX_INTERVAL")
	v.BindEnv("retry_multiplier", "OILPRICE_RETRY_MULTIPLIER")
	v.BindEnv("requests_per_second", "OILPRICE_REQUESTS_PER_SECOND")
	v.BindEnv("concurrency", "OILPRICE_CONCURRENCY")
	v.BindEnv("log_level", "OILPRICE_LOG_LEVEL")
	v.BindEnv("symbols", "OILPRICE_SYMBOLS")

	for key, value := range o.overrides {
		v.Set(key, value)
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	config.Symbols = splitSymbols(config.Symbols)

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) validate() error {
	var problems []string
	if c.APIKey == "" {
		problems = append(problems, "missing required configuration: OILPRICEAPI_API_KEY")
	}
	if c.RetryMaxAttempts < 1 {
		problems = append(problems, "retry_max_attempts must be at least 1")
	}
	if c.Concurrency < 1 {
		problems = append(problems, "concurrency must be at least 1")
	}
	for i, h := range c.Historical {
		if h.Symbol == "" {
			problems = append(problems, fmt.Sprintf("historical[%d]: symbol is required", i))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// splitSymbols accepts both a YAML list and a comma separated env value
func splitSymbols(in []string) []string {
	var out []string
	for _, s := range in {
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
