package strategy

import (
	"math"

	"StealthRadar/internal/model"
)

// LiquidityWeight scales the log10 traded-value bonus applied to CMF.
const LiquidityWeight = 0.15

// CMF returns the Chaikin Money Flow of an accumulator, 0 when no volume.
func CMF(acc *model.SymbolAccumulator) float64 {
	if acc.SumVolume == 0 {
		return 0
	}
	return acc.SumMFVolume / acc.SumVolume
}

// PriceChangePercent returns the close-to-close change over the window.
// It is 0 when either close is missing or the first close is not positive.
func PriceChangePercent(acc *model.SymbolAccumulator) float64 {
	if acc.FirstClose == nil || acc.LastClose == nil || *acc.FirstClose <= 0 {
		return 0
	}
	return (*acc.LastClose - *acc.FirstClose) / *acc.FirstClose * 100
}

// Score weights CMF by liquidity: cmf * (1 + 0.15*log10(1 + tradedValue)).
// Liquidity only amplifies the sign and size of CMF; it never flips it.
func Score(cmf, tradedValue float64) float64 {
	if tradedValue < 0 {
		tradedValue = 0
	}
	return cmf * (1 + LiquidityWeight*math.Log10(1+tradedValue))
}

// CoverageFloor is the minimum number of sessions a symbol must appear in:
// max(minDays, min(window, sessionsFetched)).
func CoverageFloor(sessionsFetched, window, minDays int) int {
	floor := sessionsFetched
	if window < floor {
		floor = window
	}
	if minDays > floor {
		floor = minDays
	}
	return floor
}
