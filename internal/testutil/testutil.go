package testutil

import (
	"go.uber.org/mock/gomock"

	"oilpricefetcher/internal/fetcher"
)

// TextRecord is a fetcher.Record that prints as itself
type TextRecord string

// String implements fetcher.Record
func (r TextRecord) String() string { return string(r) }

// Records converts values into records
func Records(values ...string) []fetcher.Record {
	out := make([]fetcher.Record, len(values))
	for i, v := range values {
		out[i] = TextRecord(v)
	}
	return out
}

// NewStubFetcher creates a mock fetcher that is fetched exactly once and
// returns the predefined records and error
func NewStubFetcher(ctrl *gomock.Controller, key string, records []fetcher.Record, err error) *MockFetcher {
	m := NewMockFetcher(ctrl)
	m.EXPECT().Key().Return(key).AnyTimes()
	m.EXPECT().Fetch(gomock.Any()).Return(records, err).Times(1)
	return m
}
