package calculator

import (
	"sort"
	"time"

	"StealthRadar/internal/model"
)

// Aggregator folds sessions into per-symbol money-flow accumulators.
// It belongs to a single run and must not be shared.
type Aggregator struct {
	accs   map[string]*model.SymbolAccumulator
	folded int
}

// NewAggregator creates an empty Aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{accs: make(map[string]*model.SymbolAccumulator)}
}

// Fold adds one session. Sessions must be folded oldest first.
// It reports whether any row of the session contributed.
func (a *Aggregator) Fold(s *model.Session) bool {
	if s == nil {
		return false
	}
	// Iterate in symbol order so float sums are reproducible across runs.
	symbols := make([]string, 0, len(s.Records))
	for sym := range s.Records {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)

	contributed := false
	for _, sym := range symbols {
		if a.foldRecord(s.Records[sym]) {
			contributed = true
		}
	}
	if contributed {
		a.folded++
	}
	return contributed
}

func (a *Aggregator) foldRecord(r model.SessionRecord) bool {
	if r.Volume <= 0 || r.High <= 0 || r.Low <= 0 {
		return false
	}

	mfv := MoneyFlowMultiplier(r.High, r.Low, r.Close) * r.Volume

	acc, ok := a.accs[r.Symbol]
	if !ok {
		acc = &model.SymbolAccumulator{Symbol: r.Symbol}
		a.accs[r.Symbol] = acc
	}
	acc.SumVolume += r.Volume
	acc.SumTradedValue = acc.SumTradedValue.Add(r.TradedValue)
	acc.SumMFVolume += mfv
	acc.Days++

	closePrice := r.Close
	if acc.FirstClose == nil {
		first := closePrice
		acc.FirstClose = &first
	}
	acc.LastClose = &closePrice
	return true
}

// FoldAll folds sessions in chronological order regardless of input order
// and returns the dates of the sessions that contributed, oldest first.
// The locator yields most-recent-first, so input is copied and sorted.
func (a *Aggregator) FoldAll(sessions []model.Session) []time.Time {
	ordered := make([]model.Session, len(sessions))
	copy(ordered, sessions)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date.Before(ordered[j].Date)
	})
	var dates []time.Time
	for i := range ordered {
		if a.Fold(&ordered[i]) {
			dates = append(dates, ordered[i].Date)
		}
	}
	return dates
}

// SessionsFolded counts sessions that contributed at least one row.
func (a *Aggregator) SessionsFolded() int { return a.folded }

// Accumulators returns the accumulators sorted by symbol.
func (a *Aggregator) Accumulators() []*model.SymbolAccumulator {
	out := make([]*model.SymbolAccumulator, 0, len(a.accs))
	for _, acc := range a.accs {
		out = append(out, acc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}

// Get returns the accumulator for symbol, if any.
func (a *Aggregator) Get(symbol string) (*model.SymbolAccumulator, bool) {
	acc, ok := a.accs[symbol]
	return acc, ok
}
