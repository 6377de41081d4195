package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envVars = []string{
	"OILPRICEAPI_API_KEY",
	"OILPRICEAPI_BASE_URL",
	"OILPRICE_REQUEST_TIMEOUT",
	"OILPRICE_RETRY_MAX_ATTEMPTS",
	"OILPRICE_RETRY_INITIAL_INTERVAL",
	"OILPRICE_RETRY_MAX_INTERVAL",
	"OILPRICE_RETRY_MULTIPLIER",
	"OILPRICE_REQUESTS_PER_SECOND",
	"OILPRICE_CONCURRENCY",
	"OILPRICE_LOG_LEVEL",
	"OILPRICE_SYMBOLS",
}

// isolate clears the environment and runs the test from an empty directory
// so no stray config.yaml or .env is picked up
func isolate(t *testing.T) string {
	t.Helper()
	for _, key := range envVars {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestLoad_Success(t *testing.T) {
	isolate(t)
	t.Setenv("OILPRICEAPI_API_KEY", "test_key")
	t.Setenv("OILPRICEAPI_BASE_URL", "https://test.oilpriceapi.com/v1")
	t.Setenv("OILPRICE_REQUEST_TIMEOUT", "5s")
	t.Setenv("OILPRICE_RETRY_MAX_ATTEMPTS", "5")
	t.Setenv("OILPRICE_RETRY_INITIAL_INTERVAL", "250ms")
	t.Setenv("OILPRICE_CONCURRENCY", "8")
	t.Setenv("OILPRICE_SYMBOLS", "WTI, BRENT")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "test_key", cfg.APIKey)
	assert.Equal(t, "https://test.oilpriceapi.com/v1", cfg.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.EqualValues(t, 5, cfg.RetryMaxAttempts)
	assert.Equal(t, 250*time.Millisecond, cfg.RetryInitialInterval)
	assert.Equal(t, 8, cfg.Concurrency)
	assert.Equal(t, []string{"WTI", "BRENT"}, cfg.Symbols)
}

func TestLoad_WithDefaults(t *testing.T) {
	isolate(t)
	t.Setenv("OILPRICEAPI_API_KEY", "test_key")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.oilpriceapi.com/v1", cfg.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.EqualValues(t, 3, cfg.RetryMaxAttempts)
	assert.Equal(t, time.Second, cfg.RetryInitialInterval)
	assert.Equal(t, 10*time.Second, cfg.RetryMaxInterval)
	assert.Equal(t, 2.0, cfg.RetryMultiplier)
	assert.Equal(t, 2.0, cfg.RequestsPerSecond)
	assert.Equal(t, 4, cfg.Concurrency)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.Symbols)
	assert.Empty(t, cfg.Historical)
}

func TestLoad_MissingAPIKey(t *testing.T) {
	isolate(t)

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OILPRICEAPI_API_KEY")
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name        string
		key         string
		value       string
		wantErrText string
	}{
		{"zero attempts", "OILPRICE_RETRY_MAX_ATTEMPTS", "0", "retry_max_attempts"},
		{"zero concurrency", "OILPRICE_CONCURRENCY", "0", "concurrency"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			t.Setenv("OILPRICEAPI_API_KEY", "test_key")
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErrText)
		})
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := isolate(t)
	yaml := `oilpriceapi_api_key: file_key
symbols:
  - WTI
  - NG
historical:
  - symbol: BRENT
    period: past_month
  - symbol: WTI
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "file_key", cfg.APIKey)
	assert.Equal(t, []string{"WTI", "NG"}, cfg.Symbols)
	require.Len(t, cfg.Historical, 2)
	assert.Equal(t, HistoricalConfig{Symbol: "BRENT", Period: "past_month"}, cfg.Historical[0])
	assert.Equal(t, HistoricalConfig{Symbol: "WTI"}, cfg.Historical[1])
}

func TestLoad_ExplicitConfigFileMissing(t *testing.T) {
	dir := isolate(t)
	t.Setenv("OILPRICEAPI_API_KEY", "test_key")

	_, err := Load(WithConfigFile(filepath.Join(dir, "nope.yaml")))
	require.Error(t, err)
}

func TestLoad_Precedence(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("oilpriceapi_api_key: file_key\n"), 0o600))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "file_key", cfg.APIKey)

	t.Setenv("OILPRICEAPI_API_KEY", "env_key")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, "env_key", cfg.APIKey, "environment beats config file")

	cfg, err = Load(WithAPIKey("inproc_key"))
	require.NoError(t, err)
	assert.Equal(t, "inproc_key", cfg.APIKey, "in-process setting beats environment")
}

func TestLoad_Dotenv(t *testing.T) {
	dir := isolate(t)
	envFile := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("OILPRICEAPI_API_KEY=dotenv_key\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("OILPRICEAPI_API_KEY") })

	cfg, err := Load(WithDotenv(envFile))
	require.NoError(t, err)
	assert.Equal(t, "dotenv_key", cfg.APIKey)
}
