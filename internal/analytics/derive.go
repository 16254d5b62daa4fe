package analytics

import (
	"math"

	"marketlens/internal/config"
	"marketlens/internal/dataset"
	"marketlens/internal/indicator"
)

// Derived holds every per-date column the aggregators read. It is
// computed once per series and treated as read-only afterwards.
type Derived struct {
	Series *dataset.PriceSeries

	Returns      []float64
	Cumulative   []float64
	SMAShort     []float64
	SMAMedium    []float64
	SMALong      []float64
	RSI          []float64
	Volatility   []float64
	Drawdown     []float64
	VolumeChange []float64
}

// Derive computes the full column bundle for a series using the
// configured indicator periods.
func Derive(series *dataset.PriceSeries, cfg config.AnalyticsConfig) *Derived {
	closes := series.Closes()
	volumes := series.Volumes()

	returns := indicator.DailyReturns(closes)
	cumulative := indicator.CumulativeReturns(returns)

	return &Derived{
		Series:       series,
		Returns:      returns,
		Cumulative:   cumulative,
		SMAShort:     indicator.SMA(closes, cfg.SMAShortPeriod),
		SMAMedium:    indicator.SMA(closes, cfg.SMAMediumPeriod),
		SMALong:      indicator.SMA(closes, cfg.SMALongPeriod),
		RSI:          indicator.RSI(closes, cfg.RSIPeriod),
		Volatility:   indicator.RollingVolatility(returns, cfg.VolatilityWindow, cfg.TradingDaysPerYear),
		Drawdown:     indicator.Drawdown(cumulative),
		VolumeChange: indicator.DailyReturns(volumes),
	}
}

// lastValid returns the last non-missing value, or NaN when none exists.
func lastValid(values []float64) float64 {
	for i := len(values) - 1; i >= 0; i-- {
		if !math.IsNaN(values[i]) {
			return values[i]
		}
	}
	return math.NaN()
}

// at returns values[i], or NaN when the index is out of range.
func at(values []float64, i int) float64 {
	if i < 0 || i >= len(values) {
		return math.NaN()
	}
	return values[i]
}
