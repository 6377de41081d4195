package oilprice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oilpricefetcher/internal/fetcher"
)

func TestAllSymbols(t *testing.T) {
	symbols := AllSymbols()
	require.Len(t, symbols, 10)
	assert.Equal(t, WTI, symbols[0])

	seen := make(map[Symbol]bool)
	codes := make(map[string]bool)
	for _, s := range symbols {
		assert.False(t, seen[s], "duplicate symbol %s", s)
		seen[s] = true

		c := s.Commodity()
		assert.Equal(t, s, c.Symbol)
		assert.NotEmpty(t, c.Code)
		assert.False(t, codes[c.Code], "duplicate code %s", c.Code)
		codes[c.Code] = true

		back, ok := lookupCode(c.Code)
		require.True(t, ok)
		assert.Equal(t, s, back.Symbol)
	}
}

func TestSymbolMapping(t *testing.T) {
	tests := map[Symbol]string{
		WTI:   "WTI_USD",
		Brent: "BRENT_CRUDE_USD",
		Urals: "URALS_USD",
		NG:    "NATURAL_GAS_USD",
		Coal:  "COAL_USD",
	}
	for sym, code := range tests {
		assert.Equal(t, code, sym.Commodity().Code)
	}
}

func TestParseSymbol(t *testing.T) {
	tests := []struct {
		in   string
		want Symbol
	}{
		{"WTI", WTI},
		{"wti", WTI},
		{" brent ", Brent},
		{"ng_uk", NGUK},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSymbol(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSymbol_Unsupported(t *testing.T) {
	for _, in := range []string{"INVALID_COMMODITY_XYZ", "WTI_USD", "GOLD", ""} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseSymbol(in)
			require.Error(t, err)
			assert.Equal(t, fetcher.ErrorTypeNotFound, fetcher.TypeOf(err))
		})
	}
}

func TestParsePeriod(t *testing.T) {
	for _, p := range []Period{PastDay, PastWeek, PastMonth} {
		got, err := ParsePeriod(string(p))
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}

	got, err := ParsePeriod("PAST_DAY")
	require.NoError(t, err)
	assert.Equal(t, PastDay, got)
}

func TestParsePeriod_Invalid(t *testing.T) {
	for _, in := range []string{"past_year", "", "week", "past-week"} {
		t.Run(in, func(t *testing.T) {
			_, err := ParsePeriod(in)
			require.Error(t, err)
			assert.Equal(t, fetcher.ErrorTypeInvalidArgument, fetcher.TypeOf(err))
		})
	}
}

func TestPeriod_Granularity(t *testing.T) {
	assert.Equal(t, "hourly", PastDay.Granularity())
	assert.Equal(t, "daily", PastWeek.Granularity())
	assert.Equal(t, "daily", PastMonth.Granularity())
}
