package analytics

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketlens/internal/config"
	"marketlens/internal/dataset"
)

func testConfig() config.AnalyticsConfig {
	return config.AnalyticsConfig{
		RiskFreeRate:        0.02,
		TradingDaysPerYear:  252,
		SMAShortPeriod:      2,
		SMAMediumPeriod:     3,
		SMALongPeriod:       4,
		RSIPeriod:           3,
		VolatilityWindow:    3,
		BenchmarkReturn:     0.08,
		BenchmarkVolatility: 0.15,
	}
}

func seriesFromCloses(t *testing.T, closes []float64) *dataset.PriceSeries {
	t.Helper()
	start := time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC)
	records := make([]dataset.PriceRecord, len(closes))
	for i, c := range closes {
		records[i] = dataset.PriceRecord{
			Date:     start.AddDate(0, 0, i),
			Open:     c,
			High:     c + 1,
			Low:      c - 1,
			Close:    c,
			AdjClose: c,
			Volume:   1000 + float64(i)*100,
		}
	}
	return &dataset.PriceSeries{Records: records}
}

func TestAnalyzeProducesAllCategories(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 100 + float64(i)*0.5
	}
	series := seriesFromCloses(t, closes)

	a := New(testConfig())
	report := a.Analyze(Derive(series, testConfig()))

	all := report.All()
	require.Len(t, all, len(Categories))
	for i, g := range all {
		assert.Equal(t, Categories[i], g.Name)
		assert.NotEmpty(t, g.Metrics, "category %s must not be empty", g.Name)
		assert.NotEmpty(t, g.Title)
	}
}

func TestDescriptive(t *testing.T) {
	series := seriesFromCloses(t, []float64{100, 102, 101, 105})
	a := New(testConfig())

	g := a.Descriptive(Derive(series, testConfig()))

	period, ok := g.Get("data_period")
	require.True(t, ok)
	assert.Equal(t, "2024-01-02 to 2024-01-05", period)

	days, _ := g.Get("total_trading_days")
	assert.Equal(t, "4", days)

	current, _ := g.Get("current_price")
	assert.Equal(t, "$105.00", current)

	priceRange, _ := g.Get("price_range")
	assert.Equal(t, "$99.00 - $106.00", priceRange)
}

func TestPerformanceTotalReturn(t *testing.T) {
	series := seriesFromCloses(t, []float64{100, 102, 101, 105})
	a := New(testConfig())

	g := a.Performance(Derive(series, testConfig()))

	total, ok := g.Get("total_return")
	require.True(t, ok)
	assert.Equal(t, "5.00%", total)
}

func TestTechnicalSignal(t *testing.T) {
	up := seriesFromCloses(t, []float64{100, 101, 102, 103, 110})
	a := New(testConfig())

	g := a.Technical(Derive(up, testConfig()))
	signal, _ := g.Get("signal")
	assert.Equal(t, "BULLISH", signal)
	color, _ := g.Get("signal_color")
	assert.Equal(t, "green", color)

	down := seriesFromCloses(t, []float64{110, 108, 106, 104, 95})
	g = a.Technical(Derive(down, testConfig()))
	signal, _ = g.Get("signal")
	assert.Equal(t, "BEARISH", signal)
	color, _ = g.Get("signal_color")
	assert.Equal(t, "red", color)
}

func TestPredictiveGoldenCross(t *testing.T) {
	series := seriesFromCloses(t, []float64{10, 10, 10, 9, 14})
	a := New(testConfig())

	g := a.Predictive(Derive(series, testConfig()))
	prediction, _ := g.Get("prediction")
	assert.Equal(t, "GOLDEN CROSS - Bullish signal", prediction)
}

func TestPredictiveDeathCross(t *testing.T) {
	series := seriesFromCloses(t, []float64{10, 10, 10, 11, 6})
	a := New(testConfig())

	g := a.Predictive(Derive(series, testConfig()))
	prediction, _ := g.Get("prediction")
	assert.Equal(t, "DEATH CROSS - Bearish signal", prediction)
}

func TestPredictiveTrendContinuation(t *testing.T) {
	series := seriesFromCloses(t, []float64{10, 11, 12, 13, 14})
	a := New(testConfig())

	g := a.Predictive(Derive(series, testConfig()))
	prediction, _ := g.Get("prediction")
	assert.Equal(t, "Bullish trend continuation", prediction)
}

func TestRiskLevels(t *testing.T) {
	// steep crash produces a deep drawdown
	series := seriesFromCloses(t, []float64{100, 100, 100, 100, 40})
	a := New(testConfig())

	g := a.Risk(Derive(series, testConfig()))
	level, _ := g.Get("risk_level")
	assert.Equal(t, "High", level)

	calm := seriesFromCloses(t, []float64{100, 101, 100, 101, 100})
	g = a.Risk(Derive(calm, testConfig()))
	level, _ = g.Get("risk_level")
	assert.Equal(t, "Low", level)
}

func TestRegimeSplit(t *testing.T) {
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	series := seriesFromCloses(t, closes)
	a := New(testConfig())

	g := a.Regime(Derive(series, testConfig()))
	regime, _ := g.Get("regime")
	assert.Equal(t, "BULL MARKET", regime)

	bull, _ := g.Get("bull_market_days")
	assert.Equal(t, "100.0%", bull)
	bear, _ := g.Get("bear_market_days")
	assert.Equal(t, "0.0%", bear)
}

func TestBenchmarkDeterministic(t *testing.T) {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	series := seriesFromCloses(t, closes)
	a := New(testConfig())

	first := a.Benchmark(Derive(series, testConfig()))
	second := a.Benchmark(Derive(series, testConfig()))
	assert.Equal(t, first, second, "benchmark metrics must not vary between runs")

	bench, _ := first.Get("benchmark_return")
	assert.Equal(t, "8.00%", bench)
}

func TestSingleRecordSeriesDoesNotPanic(t *testing.T) {
	series := seriesFromCloses(t, []float64{100})
	a := New(testConfig())

	report := a.Analyze(Derive(series, testConfig()))
	for _, g := range report.All() {
		assert.NotEmpty(t, g.Metrics)
	}

	total, _ := report.Performance.Get("total_return")
	assert.Equal(t, "n/a", total)
}

func TestGroupMarshalJSONPreservesOrder(t *testing.T) {
	g := Group{
		Name:  "sample",
		Title: "Sample",
		Metrics: []Metric{
			{"zeta", "1"},
			{"alpha", "2"},
		},
	}

	data, err := json.Marshal(g)
	require.NoError(t, err)
	assert.Equal(t, `{"zeta":"1","alpha":"2"}`, string(data))
}

func TestSentimentBullish(t *testing.T) {
	// rising closes with rising volume concentrates volume on up days
	closes := []float64{100, 102, 104, 106, 108, 110}
	series := seriesFromCloses(t, closes)
	a := New(testConfig())

	g := a.Sentiment(Derive(series, testConfig()))
	sentiment, _ := g.Get("sentiment")
	assert.Equal(t, "BULLISH", sentiment)

	ratio, _ := g.Get("up_down_volume_ratio")
	assert.Equal(t, "inf", ratio, "no down days means an infinite ratio")
}

func TestTimeSeriesSeasonality(t *testing.T) {
	// two years of month-end closes: April always rallies, September slumps
	var records []dataset.PriceRecord
	price := 100.0
	for year := 2022; year <= 2023; year++ {
		for m := time.January; m <= time.December; m++ {
			switch m {
			case time.April:
				price *= 1.10
			case time.September:
				price *= 0.90
			default:
				price *= 1.01
			}
			records = append(records, dataset.PriceRecord{
				Date:   time.Date(year, m, 28, 0, 0, 0, 0, time.UTC),
				Open:   price,
				High:   price,
				Low:    price,
				Close:  price,
				Volume: 1000,
			})
		}
	}
	series := &dataset.PriceSeries{Records: records}
	a := New(testConfig())

	g := a.TimeSeries(Derive(series, testConfig()))
	best, _ := g.Get("best_month")
	assert.Contains(t, best, "April")
	worst, _ := g.Get("worst_month")
	assert.Contains(t, worst, "September")
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "12.34%", Percent(0.1234))
	assert.Equal(t, "-5.00%", Percent(-0.05))
	assert.Equal(t, "n/a", Percent(math.NaN()))
	assert.Equal(t, "$99.90", Currency(99.9))
	assert.Equal(t, "n/a", Currency(math.NaN()))
	assert.Equal(t, "1.50", Ratio(1.5))
	assert.Equal(t, "inf", Ratio(math.Inf(1)))
	assert.Equal(t, "1,234,567", Count(1234567))
	assert.Equal(t, "987", Count(987))
	assert.Equal(t, "-1,000", WholeNumber(-1000.2))
	assert.Equal(t, "0.123", Decimal(0.1234, 3))
}
