package oilprice

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oilpricefetcher/internal/fetcher"
)

var (
	_ fetcher.Fetcher = (*LatestFetcher)(nil)
	_ fetcher.Fetcher = (*HistoricalFetcher)(nil)
	_ fetcher.Record  = PriceQuote{}
	_ fetcher.Record  = HistoricalPoint{}
)

func TestLatestFetcher_Key(t *testing.T) {
	client := NewClient("test_key", "http://localhost")

	tests := []struct {
		symbol      string
		expectedKey string
	}{
		{"WTI", "fetcher:oilpriceapi:latest:WTI"},
		{"brent", "fetcher:oilpriceapi:latest:BRENT"},
		{"", "fetcher:oilpriceapi:latest:all"},
	}

	for _, tt := range tests {
		t.Run(tt.expectedKey, func(t *testing.T) {
			assert.Equal(t, tt.expectedKey, NewLatestFetcher(client, tt.symbol).Key())
		})
	}
}

func TestHistoricalFetcher_Key(t *testing.T) {
	client := NewClient("test_key", "http://localhost")

	assert.Equal(t, "fetcher:oilpriceapi:past_month:NG", NewHistoricalFetcher(client, "ng", "PAST_MONTH").Key())
	assert.Equal(t, "fetcher:oilpriceapi:past_week:WTI", NewHistoricalFetcher(client, "WTI", "").Key(), "defaults to past_week")
}

func TestLatestFetcher_Fetch(t *testing.T) {
	client, _ := newTestClient(t, "test_key", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, singlePriceBody(Coal.Commodity(), "110.00"))
	})

	records, err := NewLatestFetcher(client, "coal").Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Coal 110.00 USD/ton (+0.50, +0.69%)", records[0].String())
}

func TestHistoricalFetcher_Fetch(t *testing.T) {
	client, _ := newTestClient(t, "test_key", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, historyBody)
	})

	records, err := NewHistoricalFetcher(client, "WTI", "past_week").Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "2025-12-20T12:00:00Z WTI 70.00 USD/barrel", records[0].String())
}

func TestHistoricalFetcher_FetchError(t *testing.T) {
	client, _ := newTestClient(t, "test_key", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, `{}`)
	})

	records, err := NewHistoricalFetcher(client, "WTI", "past_week").Fetch(context.Background())
	require.Error(t, err)
	assert.Nil(t, records)
	assert.Equal(t, fetcher.ErrorTypeAuthentication, fetcher.TypeOf(err))
}
