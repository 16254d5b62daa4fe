package indicator

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// DropMissing returns a copy of values with missing entries removed.
func DropMissing(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// Mean computes the arithmetic mean of the non-missing values.
func Mean(values []float64) float64 {
	clean := DropMissing(values)
	if len(clean) == 0 {
		return math.NaN()
	}
	return stat.Mean(clean, nil)
}

// StdDev computes the sample standard deviation (n-1 denominator) of
// the non-missing values. At least two values are required.
func StdDev(values []float64) float64 {
	clean := DropMissing(values)
	if len(clean) < 2 {
		return math.NaN()
	}
	return stat.StdDev(clean, nil)
}

// Min returns the smallest non-missing value.
func Min(values []float64) float64 {
	out := math.NaN()
	for _, v := range values {
		if !math.IsNaN(v) && (math.IsNaN(out) || v < out) {
			out = v
		}
	}
	return out
}

// Max returns the largest non-missing value.
func Max(values []float64) float64 {
	out := math.NaN()
	for _, v := range values {
		if !math.IsNaN(v) && (math.IsNaN(out) || v > out) {
			out = v
		}
	}
	return out
}

// Sum adds the non-missing values.
func Sum(values []float64) float64 {
	clean := DropMissing(values)
	if len(clean) == 0 {
		return math.NaN()
	}
	total := 0.0
	for _, v := range clean {
		total += v
	}
	return total
}

// Percentile computes the p-th percentile (0..100) of the non-missing
// values using linear interpolation between order statistics, the R-7
// convention.
func Percentile(values []float64, p float64) float64 {
	clean := DropMissing(values)
	if len(clean) == 0 {
		return math.NaN()
	}
	sort.Float64s(clean)
	if len(clean) == 1 {
		return clean[0]
	}
	h := p / 100 * float64(len(clean)-1)
	lo := int(math.Floor(h))
	hi := lo + 1
	if lo < 0 {
		return clean[0]
	}
	if hi > len(clean)-1 {
		return clean[len(clean)-1]
	}
	return clean[lo] + (h-float64(lo))*(clean[hi]-clean[lo])
}

// Median is the 50th percentile of the non-missing values.
func Median(values []float64) float64 {
	return Percentile(values, 50)
}

// Correlation computes the Pearson correlation of x and y over the
// positions where both are non-missing.
func Correlation(x, y []float64) float64 {
	n := len(x)
	if len(y) < n {
		n = len(y)
	}
	cx := make([]float64, 0, n)
	cy := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		cx = append(cx, x[i])
		cy = append(cy, y[i])
	}
	if len(cx) < 2 {
		return math.NaN()
	}
	return stat.Correlation(cx, cy, nil)
}

// AutoCorrelation computes the Pearson correlation of the series with a
// lagged copy of itself.
func AutoCorrelation(values []float64, lag int) float64 {
	if lag <= 0 || lag >= len(values) {
		return math.NaN()
	}
	return Correlation(values[:len(values)-lag], values[lag:])
}

// Skewness computes the sample skewness of the non-missing values.
func Skewness(values []float64) float64 {
	clean := DropMissing(values)
	if len(clean) < 3 {
		return math.NaN()
	}
	return stat.Skew(clean, nil)
}

// Kurtosis computes the excess kurtosis of the non-missing values.
func Kurtosis(values []float64) float64 {
	clean := DropMissing(values)
	if len(clean) < 4 {
		return math.NaN()
	}
	return stat.ExKurtosis(clean, nil)
}
