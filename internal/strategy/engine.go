package strategy

import (
	"sort"

	"StealthRadar/internal/model"
)

// Options tunes the ranking.
type Options struct {
	Window  int // target session count; caps the coverage floor
	MinDays int // lower bound of the coverage floor
	TopN    int
}

// DefaultOptions matches the 5-session scan.
var DefaultOptions = Options{Window: 5, MinDays: 3, TopN: 10}

// Rank filters accumulators by session coverage, scores them and returns
// the best TopN, highest score first. Equal scores are ordered by symbol.
func Rank(accs []*model.SymbolAccumulator, sessionsFetched int, opts Options) []model.RankedResult {
	floor := CoverageFloor(sessionsFetched, opts.Window, opts.MinDays)

	results := make([]model.RankedResult, 0, len(accs))
	for _, acc := range accs {
		if acc.Days < floor {
			continue
		}
		cmf := CMF(acc)
		tv := acc.SumTradedValue.InexactFloat64()
		results = append(results, model.RankedResult{
			Symbol:               acc.Symbol,
			CMF:                  cmf,
			Score:                Score(cmf, tv),
			TotalTradedValue:     acc.SumTradedValue,
			TotalVolume:          acc.SumVolume,
			Days:                 acc.Days,
			PriceChange5dPercent: PriceChangePercent(acc),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Symbol < results[j].Symbol
	})

	if opts.TopN > 0 && len(results) > opts.TopN {
		results = results[:opts.TopN]
	}
	return results
}
