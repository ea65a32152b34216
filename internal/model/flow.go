package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// SymbolAccumulator folds one symbol's money flow across sessions of a run.
type SymbolAccumulator struct {
	Symbol         string
	SumVolume      float64
	SumTradedValue decimal.Decimal
	SumMFVolume    float64
	Days           int
	FirstClose     *float64
	LastClose      *float64
}

// RankedResult is one output row of a scan.
type RankedResult struct {
	Symbol               string          `json:"symbol"`
	CMF                  float64         `json:"cmf"`
	Score                float64         `json:"score"`
	TotalTradedValue     decimal.Decimal `json:"totalTradedValue"`
	TotalVolume          float64         `json:"totalVolume"`
	Days                 int             `json:"days"`
	PriceChange5dPercent float64         `json:"priceChange5dPercent"`
}

// ScanResult is the outcome of one successful pipeline run.
type ScanResult struct {
	RunID        string         `json:"runId"`
	DaysAnalyzed int            `json:"daysAnalyzed"`
	SessionDates []string       `json:"sessionDates"`
	TopStocks    []RankedResult `json:"topStocks"`
	GeneratedAt  time.Time      `json:"generatedAt"`
}
