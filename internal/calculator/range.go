package calculator

// IntradayRange returns high - low for a single session.
func IntradayRange(high, low float64) float64 {
	return high - low
}

// MoneyFlowMultiplier places the close within the day's range, from -1 (close
// at the low) to +1 (close at the high). A flat session yields exactly 0.
func MoneyFlowMultiplier(high, low, close float64) float64 {
	rng := IntradayRange(high, low)
	if rng == 0 {
		return 0
	}
	mfm := ((close - low) - (high - close)) / rng
	// Closes reported outside [low, high] would escape the bound.
	if mfm > 1 {
		return 1
	}
	if mfm < -1 {
		return -1
	}
	return mfm
}
