package oilprice

import (
	"fmt"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"

	"oilpricefetcher/internal/fetcher"
)

// PriceQuote is a commodity's latest price snapshot
type PriceQuote struct {
	Symbol        Symbol              `json:"symbol"`
	Name          string              `json:"name"`
	Price         decimal.Decimal     `json:"price"`
	Currency      string              `json:"currency"`
	Unit          string              `json:"unit"`
	UpdatedAt     time.Time           `json:"updated_at"`
	Change        decimal.NullDecimal `json:"change"`
	ChangePercent decimal.NullDecimal `json:"change_percent"`
}

// String implements fetcher.Record
func (q PriceQuote) String() string {
	s := fmt.Sprintf("%s %s %s/%s", q.Name, q.Price.StringFixed(2), q.Currency, q.Unit)
	if q.Change.Valid && q.ChangePercent.Valid {
		s += fmt.Sprintf(" (%s, %s%%)", signed(q.Change.Decimal), signed(q.ChangePercent.Decimal))
	}
	return s
}

// HistoricalPoint is one price observation in a historical series
type HistoricalPoint struct {
	Date     time.Time       `json:"date"`
	Symbol   Symbol          `json:"symbol"`
	Price    decimal.Decimal `json:"price"`
	Currency string          `json:"currency"`
	Unit     string          `json:"unit"`
}

// String implements fetcher.Record
func (p HistoricalPoint) String() string {
	return fmt.Sprintf("%s %s %s %s/%s", p.Date.UTC().Format(time.RFC3339), p.Symbol, p.Price.StringFixed(2), p.Currency, p.Unit)
}

func signed(d decimal.Decimal) string {
	if d.IsPositive() {
		return "+" + d.StringFixed(2)
	}
	return d.StringFixed(2)
}

// envelope is the top-level shape of every OilPriceAPI response
type envelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
}

type priceList struct {
	Prices json.RawMessage `json:"prices"`
}

// apiPrice is a single upstream price object
type apiPrice struct {
	Code          string              `json:"code"`
	Symbol        string              `json:"symbol"`
	Name          string              `json:"name"`
	Price         decimal.NullDecimal `json:"price"`
	Currency      string              `json:"currency"`
	Unit          string              `json:"unit"`
	CreatedAt     string              `json:"created_at"`
	UpdatedAt     string              `json:"updated_at"`
	Change        decimal.NullDecimal `json:"change"`
	ChangePercent decimal.NullDecimal `json:"change_percent"`
}

func (p apiPrice) code() string {
	if p.Code != "" {
		return p.Code
	}
	return p.Symbol
}

func (p apiPrice) timestamp() string {
	if p.CreatedAt != "" {
		return p.CreatedAt
	}
	return p.UpdatedAt
}

// decodePrices extracts the price objects from a response body. Both the
// list form {"data":{"prices":[...]}} and the single form {"data":{...}}
// are accepted.
func decodePrices(body []byte) ([]apiPrice, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fetcher.NewParseError("failed to decode response", err)
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil, fetcher.NewValidationError("response has no data")
	}

	var list priceList
	if err := json.Unmarshal(env.Data, &list); err != nil {
		return nil, fetcher.NewParseError("failed to decode response data", err)
	}

	if len(list.Prices) > 0 {
		var prices []apiPrice
		if err := json.Unmarshal(list.Prices, &prices); err != nil {
			return nil, fetcher.NewParseError("failed to decode prices", err)
		}
		return prices, nil
	}

	var single apiPrice
	if err := json.Unmarshal(env.Data, &single); err != nil {
		return nil, fetcher.NewParseError("failed to decode price", err)
	}
	return []apiPrice{single}, nil
}

// cleanUnit turns "per barrel" into "barrel"
func cleanUnit(unit string) string {
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(unit), "per "))
}

func parseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fetcher.NewParseError(fmt.Sprintf("invalid timestamp %q", s), err)
	}
	return t, nil
}

// toQuote normalizes an upstream price into a quote for commodity c.
// now stands in for a missing timestamp.
func toQuote(c Commodity, p apiPrice, now time.Time) (PriceQuote, error) {
	if !p.Price.Valid {
		return PriceQuote{}, fetcher.NewValidationError(fmt.Sprintf("price not found in response for %s", c.Symbol))
	}

	updatedAt := now
	if ts := p.timestamp(); ts != "" {
		t, err := parseTimestamp(ts)
		if err != nil {
			return PriceQuote{}, err
		}
		updatedAt = t
	}

	return PriceQuote{
		Symbol:        c.Symbol,
		Name:          orDefault(p.Name, c.Name),
		Price:         p.Price.Decimal,
		Currency:      orDefault(p.Currency, c.Currency),
		Unit:          orDefault(cleanUnit(p.Unit), c.Unit),
		UpdatedAt:     updatedAt,
		Change:        p.Change,
		ChangePercent: p.ChangePercent,
	}, nil
}

// toPoint normalizes an upstream price into a historical point for c
func toPoint(c Commodity, p apiPrice) (HistoricalPoint, error) {
	if !p.Price.Valid {
		return HistoricalPoint{}, fetcher.NewValidationError(fmt.Sprintf("price not found in historical entry for %s", c.Symbol))
	}
	ts := p.timestamp()
	if ts == "" {
		return HistoricalPoint{}, fetcher.NewValidationError(fmt.Sprintf("date not found in historical entry for %s", c.Symbol))
	}
	date, err := parseTimestamp(ts)
	if err != nil {
		return HistoricalPoint{}, err
	}

	return HistoricalPoint{
		Date:     date,
		Symbol:   c.Symbol,
		Price:    p.Price.Decimal,
		Currency: orDefault(p.Currency, c.Currency),
		Unit:     orDefault(cleanUnit(p.Unit), c.Unit),
	}, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
