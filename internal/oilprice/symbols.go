package oilprice

import (
	"fmt"
	"strings"

	"oilpricefetcher/internal/fetcher"
)

// Symbol is a supported commodity code
type Symbol string

const (
	WTI      Symbol = "WTI"
	Brent    Symbol = "BRENT"
	Urals    Symbol = "URALS"
	Dubai    Symbol = "DUBAI"
	NG       Symbol = "NG"
	NGUK     Symbol = "NG_UK"
	TTF      Symbol = "TTF"
	Coal     Symbol = "COAL"
	Gasoline Symbol = "GASOLINE"
	Diesel   Symbol = "DIESEL"
)

// Commodity describes how a symbol is priced upstream
type Commodity struct {
	Symbol   Symbol
	Code     string // upstream by_code value
	Name     string
	Currency string
	Unit     string
}

// commodities is ordered; AllSymbols and FetchLatest follow this order.
var commodities = []Commodity{
	{WTI, "WTI_USD", "WTI Crude Oil", "USD", "barrel"},
	{Brent, "BRENT_CRUDE_USD", "Brent Crude Oil", "USD", "barrel"},
	{Urals, "URALS_USD", "Urals Crude Oil", "USD", "barrel"},
	{Dubai, "DUBAI_CRUDE_USD", "Dubai Crude Oil", "USD", "barrel"},
	{NG, "NATURAL_GAS_USD", "Natural Gas (Henry Hub)", "USD", "mmBtu"},
	{NGUK, "NATURAL_GAS_GBP", "UK Natural Gas", "GBP", "therm"},
	{TTF, "DUTCH_TTF_EUR", "Dutch TTF Natural Gas", "EUR", "MWh"},
	{Coal, "COAL_USD", "Coal", "USD", "ton"},
	{Gasoline, "GASOLINE_USD", "Gasoline (RBOB)", "USD", "gallon"},
	{Diesel, "DIESEL_USD", "Diesel", "USD", "gallon"},
}

var (
	bySymbol = make(map[Symbol]Commodity, len(commodities))
	byCode   = make(map[string]Commodity, len(commodities))
)

func init() {
	for _, c := range commodities {
		bySymbol[c.Symbol] = c
		byCode[c.Code] = c
	}
}

// AllSymbols returns the supported symbols in display order
func AllSymbols() []Symbol {
	out := make([]Symbol, len(commodities))
	for i, c := range commodities {
		out[i] = c.Symbol
	}
	return out
}

// ParseSymbol validates s case-insensitively.
// Unsupported symbols fail with a not_found FetchError.
func ParseSymbol(s string) (Symbol, error) {
	sym := Symbol(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := bySymbol[sym]; !ok {
		return "", fetcher.NewNotFoundError(0, fmt.Sprintf("unsupported symbol %q; available symbols: %s", s, symbolList()))
	}
	return sym, nil
}

// Commodity returns the table entry for s
func (s Symbol) Commodity() Commodity {
	return bySymbol[s]
}

// lookupCode maps an upstream code back to its commodity
func lookupCode(code string) (Commodity, bool) {
	c, ok := byCode[code]
	return c, ok
}

func symbolList() string {
	names := make([]string, len(commodities))
	for i, c := range commodities {
		names[i] = string(c.Symbol)
	}
	return strings.Join(names, ", ")
}

// Period is a historical time window
type Period string

const (
	PastDay   Period = "past_day"
	PastWeek  Period = "past_week"
	PastMonth Period = "past_month"
)

// DefaultPeriod is used when a caller does not pick one
const DefaultPeriod = PastWeek

// ParsePeriod validates p. Anything but the three known windows fails
// with an invalid_argument FetchError.
func ParsePeriod(p string) (Period, error) {
	switch period := Period(strings.ToLower(strings.TrimSpace(p))); period {
	case PastDay, PastWeek, PastMonth:
		return period, nil
	default:
		return "", fetcher.NewInvalidArgumentError(fmt.Sprintf("invalid period %q; expected past_day, past_week or past_month", p))
	}
}

// Granularity describes the spacing of points upstream returns for the period
func (p Period) Granularity() string {
	if p == PastDay {
		return "hourly"
	}
	return "daily"
}
