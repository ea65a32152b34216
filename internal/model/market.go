package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// SeriesEquity is the series tag of regular equity trades in the daily report.
const SeriesEquity = "EQ"

// SessionRecord is one symbol's row in a single session's daily report.
type SessionRecord struct {
	Symbol      string
	Series      string
	Open        float64
	High        float64
	Low         float64
	Close       float64
	Volume      float64
	TradedValue decimal.Decimal
}

// Session holds the regular-equity rows of one trading day, keyed by symbol.
type Session struct {
	Date    time.Time
	Records map[string]SessionRecord
}

// Len returns the number of symbols in the session.
func (s *Session) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Records)
}
