package indicator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDailyReturns(t *testing.T) {
	closes := []float64{100, 102, 101, 105}
	got := DailyReturns(closes)

	require.Len(t, got, 4)
	assert.True(t, math.IsNaN(got[0]), "first return must be missing")
	assert.InDelta(t, 0.02, got[1], 1e-12)
	assert.InDelta(t, -1.0/102, got[2], 1e-12)
	assert.InDelta(t, 4.0/101, got[3], 1e-12)
}

func TestDailyReturnsMissingAndZero(t *testing.T) {
	closes := []float64{100, math.NaN(), 110, 0, 50}
	got := DailyReturns(closes)

	assert.True(t, math.IsNaN(got[1]))
	assert.True(t, math.IsNaN(got[2]), "return after a missing close is missing")
	assert.True(t, math.IsNaN(got[4]), "division by zero prior close is missing")
}

func TestCumulativeReturns(t *testing.T) {
	returns := DailyReturns([]float64{100, 102, 101, 105})
	got := CumulativeReturns(returns)

	assert.True(t, math.IsNaN(got[0]))
	assert.InDelta(t, 1.02, got[1], 1e-12)
	assert.InDelta(t, 1.01, got[2], 1e-12)
	assert.InDelta(t, 1.05, got[3], 1e-12)
}

func TestCumulativeReturnsSkipsMissing(t *testing.T) {
	returns := []float64{math.NaN(), 0.10, math.NaN(), 0.10}
	got := CumulativeReturns(returns)

	assert.True(t, math.IsNaN(got[0]))
	assert.InDelta(t, 1.10, got[1], 1e-12)
	assert.True(t, math.IsNaN(got[2]))
	assert.InDelta(t, 1.21, got[3], 1e-12, "product continues past missing entries")
}

func TestSMA(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}
	got := SMA(values, 3)

	assert.True(t, math.IsNaN(got[0]))
	assert.True(t, math.IsNaN(got[1]))
	assert.InDelta(t, 2, got[2], 1e-12)
	assert.InDelta(t, 3, got[3], 1e-12)
	assert.InDelta(t, 4, got[4], 1e-12)
}

func TestSMAConstantSeries(t *testing.T) {
	values := []float64{7, 7, 7, 7, 7, 7}
	got := SMA(values, 4)
	for t2 := 3; t2 < len(got); t2++ {
		assert.InDelta(t, 7, got[t2], 1e-12)
	}
}

func TestSMAWindowWithMissing(t *testing.T) {
	values := []float64{1, math.NaN(), 3, 4, 5}
	got := SMA(values, 3)

	assert.True(t, math.IsNaN(got[2]))
	assert.True(t, math.IsNaN(got[3]))
	assert.InDelta(t, 4, got[4], 1e-12)
}

func TestRSIBounds(t *testing.T) {
	closes := []float64{
		100, 103, 99, 104, 101, 107, 105, 110, 108, 112,
		109, 115, 113, 118, 116, 120, 117, 121, 119, 124,
	}
	got := RSI(closes, 14)

	for i := 0; i < 14; i++ {
		assert.True(t, math.IsNaN(got[i]), "index %d should be undefined", i)
	}
	for i := 14; i < len(got); i++ {
		require.False(t, math.IsNaN(got[i]), "index %d should be defined", i)
		assert.GreaterOrEqual(t, got[i], 0.0)
		assert.LessOrEqual(t, got[i], 100.0)
	}
}

func TestRSIMonotonicUp(t *testing.T) {
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	got := RSI(closes, 14)
	assert.InDelta(t, 100, got[len(got)-1], 1e-12, "no losses saturates at 100")
}

func TestRSIFlatSeries(t *testing.T) {
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 50
	}
	got := RSI(closes, 14)
	assert.InDelta(t, 50, got[len(got)-1], 1e-12, "flat window reads neutral")
}

func TestRollingVolatility(t *testing.T) {
	returns := []float64{math.NaN(), 0.01, -0.01, 0.02, -0.02, 0.01}
	got := RollingVolatility(returns, 3, 252)

	for i := 0; i < 3; i++ {
		assert.True(t, math.IsNaN(got[i]))
	}
	want := StdDev([]float64{0.01, -0.01, 0.02}) * math.Sqrt(252)
	assert.InDelta(t, want, got[3], 1e-12)
}

func TestDrawdown(t *testing.T) {
	cumulative := []float64{1.0, 1.1, 1.05, 1.2, 0.9}
	got := Drawdown(cumulative)

	assert.InDelta(t, 0, got[0], 1e-12)
	assert.InDelta(t, 0, got[1], 1e-12)
	assert.InDelta(t, (1.05-1.1)/1.1, got[2], 1e-12)
	assert.InDelta(t, 0, got[3], 1e-12)
	assert.InDelta(t, (0.9-1.2)/1.2, got[4], 1e-12)

	for i, v := range got {
		if !math.IsNaN(v) {
			assert.LessOrEqual(t, v, 0.0, "drawdown at %d must not be positive", i)
		}
	}
}

func TestRunningMaxSkipsMissing(t *testing.T) {
	values := []float64{math.NaN(), 1, 3, math.NaN(), 2}
	got := RunningMax(values)

	assert.True(t, math.IsNaN(got[0]))
	assert.InDelta(t, 1, got[1], 1e-12)
	assert.InDelta(t, 3, got[2], 1e-12)
	assert.InDelta(t, 3, got[3], 1e-12)
	assert.InDelta(t, 3, got[4], 1e-12)
}

func TestStatsHelpers(t *testing.T) {
	values := []float64{1, 2, math.NaN(), 3, 4}

	assert.InDelta(t, 2.5, Mean(values), 1e-12)
	assert.InDelta(t, 10, Sum(values), 1e-12)
	assert.InDelta(t, 1, Min(values), 1e-12)
	assert.InDelta(t, 4, Max(values), 1e-12)
	assert.InDelta(t, 2.5, Median(values), 1e-12)

	// sample stddev of {1,2,3,4}
	assert.InDelta(t, math.Sqrt(5.0/3.0), StdDev(values), 1e-12)
}

func TestPercentileLinearInterpolation(t *testing.T) {
	values := []float64{1, 2, 3, 4}
	assert.InDelta(t, 1.15, Percentile(values, 5), 1e-12)
	assert.InDelta(t, 3.85, Percentile(values, 95), 1e-12)
}

func TestCorrelation(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	y := []float64{2, 4, 6, 8, 10}
	assert.InDelta(t, 1, Correlation(x, y), 1e-12)

	inv := []float64{10, 8, 6, 4, 2}
	assert.InDelta(t, -1, Correlation(x, inv), 1e-12)

	assert.True(t, math.IsNaN(Correlation([]float64{1}, []float64{2})))
}

func TestAutoCorrelation(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5, 6}
	assert.InDelta(t, 1, AutoCorrelation(x, 1), 1e-12)
	assert.True(t, math.IsNaN(AutoCorrelation(x, 0)))
	assert.True(t, math.IsNaN(AutoCorrelation(x, 6)))
}
