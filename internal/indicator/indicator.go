// Package indicator derives per-date columns from a price series.
// All functions are pure: missing (NaN) inputs propagate to missing
// outputs instead of raising errors.
package indicator

import "math"

// DailyReturns computes (close[t] - close[t-1]) / close[t-1].
// The first element is always missing.
func DailyReturns(closes []float64) []float64 {
	out := make([]float64, len(closes))
	if len(out) == 0 {
		return out
	}
	out[0] = math.NaN()
	for t := 1; t < len(closes); t++ {
		prev, cur := closes[t-1], closes[t]
		if math.IsNaN(prev) || math.IsNaN(cur) || prev == 0 {
			out[t] = math.NaN()
			continue
		}
		out[t] = (cur - prev) / prev
	}
	return out
}

// CumulativeReturns computes the running product of (1 + dailyReturn),
// seeded at 1. Missing returns stay missing in the output but do not
// poison later entries.
func CumulativeReturns(returns []float64) []float64 {
	out := make([]float64, len(returns))
	prod := 1.0
	for t, r := range returns {
		if math.IsNaN(r) {
			out[t] = math.NaN()
			continue
		}
		prod *= 1 + r
		out[t] = prod
	}
	return out
}

// SMA computes the trailing arithmetic mean over the last period values.
// Entries are missing until period values exist, or when the window
// contains a missing value.
func SMA(values []float64, period int) []float64 {
	out := make([]float64, len(values))
	for t := range out {
		if t < period-1 {
			out[t] = math.NaN()
			continue
		}
		sum := 0.0
		valid := true
		for i := t - period + 1; i <= t; i++ {
			if math.IsNaN(values[i]) {
				valid = false
				break
			}
			sum += values[i]
		}
		if !valid {
			out[t] = math.NaN()
			continue
		}
		out[t] = sum / float64(period)
	}
	return out
}

// RSI computes the Relative Strength Index over trailing simple means of
// gains and losses, matching the rolling-mean reference formulation.
//
// Zero-division policy: when the trailing average loss is zero, RSI
// saturates at 100 if there were gains, and reads 50 for a flat window.
// Values are always within [0, 100] where defined.
func RSI(closes []float64, period int) []float64 {
	out := make([]float64, len(closes))
	gains := make([]float64, len(closes))
	losses := make([]float64, len(closes))

	for t := range closes {
		if t == 0 {
			gains[t], losses[t] = math.NaN(), math.NaN()
			continue
		}
		delta := closes[t] - closes[t-1]
		if math.IsNaN(delta) {
			gains[t], losses[t] = math.NaN(), math.NaN()
			continue
		}
		gains[t] = math.Max(delta, 0)
		losses[t] = math.Max(-delta, 0)
	}

	avgGain := SMA(gains, period)
	avgLoss := SMA(losses, period)

	for t := range out {
		g, l := avgGain[t], avgLoss[t]
		switch {
		case math.IsNaN(g) || math.IsNaN(l):
			out[t] = math.NaN()
		case l == 0 && g == 0:
			out[t] = 50
		case l == 0:
			out[t] = 100
		default:
			rs := g / l
			out[t] = 100 - 100/(1+rs)
		}
	}
	return out
}

// RollingVolatility computes the trailing sample standard deviation of
// daily returns over the window, annualized by sqrt(tradingDays).
func RollingVolatility(returns []float64, window, tradingDays int) []float64 {
	out := make([]float64, len(returns))
	factor := math.Sqrt(float64(tradingDays))
	for t := range out {
		if t < window-1 {
			out[t] = math.NaN()
			continue
		}
		win := returns[t-window+1 : t+1]
		sd := StdDev(win)
		if math.IsNaN(sd) || hasMissing(win) {
			out[t] = math.NaN()
			continue
		}
		out[t] = sd * factor
	}
	return out
}

// RunningMax computes the expanding maximum, skipping missing values.
// Entries are missing until the first valid value appears.
func RunningMax(values []float64) []float64 {
	out := make([]float64, len(values))
	max := math.NaN()
	for t, v := range values {
		if !math.IsNaN(v) && (math.IsNaN(max) || v > max) {
			max = v
		}
		out[t] = max
	}
	return out
}

// Drawdown computes (cumulative - runningMax) / runningMax. Defined
// entries are always <= 0.
func Drawdown(cumulative []float64) []float64 {
	runMax := RunningMax(cumulative)
	out := make([]float64, len(cumulative))
	for t := range out {
		c, m := cumulative[t], runMax[t]
		if math.IsNaN(c) || math.IsNaN(m) || m == 0 {
			out[t] = math.NaN()
			continue
		}
		out[t] = (c - m) / m
	}
	return out
}

// hasMissing reports whether the slice contains a missing value
func hasMissing(values []float64) bool {
	for _, v := range values {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}
