package analytics

import (
	"fmt"
	"math"
	"time"

	"marketlens/internal/config"
	"marketlens/internal/indicator"
)

// Analyzer turns a derived series into formatted metric groups.
type Analyzer struct {
	cfg config.AnalyticsConfig
}

// New creates an Analyzer with the given parameters.
func New(cfg config.AnalyticsConfig) *Analyzer {
	return &Analyzer{cfg: cfg}
}

// Analyze produces every category for the derived series.
func (a *Analyzer) Analyze(d *Derived) *Report {
	return &Report{
		Descriptive: a.Descriptive(d),
		Performance: a.Performance(d),
		Technical:   a.Technical(d),
		Risk:        a.Risk(d),
		TimeSeries:  a.TimeSeries(d),
		Volatility:  a.Volatility(d),
		Predictive:  a.Predictive(d),
		Strategy:    a.Strategy(d),
		Sentiment:   a.Sentiment(d),
		Regime:      a.Regime(d),
		Correlation: a.Correlation(d),
		Benchmark:   a.Benchmark(d),
	}
}

// Descriptive summarizes the raw series: period, row count, volume and
// price levels.
func (a *Analyzer) Descriptive(d *Derived) Group {
	s := d.Series
	period := notAvailable
	if s.Len() > 0 {
		period = fmt.Sprintf("%s to %s",
			s.First().Date.Format("2006-01-02"),
			s.Last().Date.Format("2006-01-02"))
	}

	lo := indicator.Min(s.Lows())
	hi := indicator.Max(s.Highs())
	priceRange := notAvailable
	if !math.IsNaN(lo) && !math.IsNaN(hi) {
		priceRange = fmt.Sprintf("$%.2f - $%.2f", lo, hi)
	}

	return Group{
		Name:  CategoryDescriptive,
		Title: "Descriptive Analytics",
		Metrics: []Metric{
			{"data_period", period},
			{"total_trading_days", Count(s.Len())},
			{"average_daily_volume", WholeNumber(indicator.Mean(s.Volumes()))},
			{"price_range", priceRange},
			{"average_closing_price", Currency(indicator.Mean(s.Closes()))},
			{"current_price", Currency(lastValid(s.Closes()))},
		},
	}
}

// Performance reports total and annualized return plus annualized
// volatility.
func (a *Analyzer) Performance(d *Derived) Group {
	cumLast := lastValid(d.Cumulative)
	totalReturn := cumLast - 1
	annualReturn := a.annualize(cumLast, d.Series.Len())
	volatility := a.annualVolatility(d.Returns)

	return Group{
		Name:  CategoryPerformance,
		Title: "Performance Analytics",
		Metrics: []Metric{
			{"total_return", Percent(totalReturn)},
			{"annualized_return", Percent(annualReturn)},
			{"annualized_volatility", Percent(volatility)},
		},
	}
}

// Technical reports the current price against the moving averages and
// the latest RSI reading, with a BULLISH/BEARISH signal.
func (a *Analyzer) Technical(d *Derived) Group {
	price := lastValid(d.Series.Closes())
	smaShort := lastValid(d.SMAShort)
	smaMedium := lastValid(d.SMAMedium)
	rsi := lastValid(d.RSI)

	signal := notAvailable
	signalColor := notAvailable
	if !math.IsNaN(price) && !math.IsNaN(smaMedium) {
		if price > smaMedium {
			signal = "BULLISH"
			signalColor = "green"
		} else {
			signal = "BEARISH"
			signalColor = "red"
		}
	}

	return Group{
		Name:  CategoryTechnical,
		Title: "Technical Analytics",
		Metrics: []Metric{
			{"current_price", Currency(price)},
			{fmt.Sprintf("sma_%d", a.cfg.SMAShortPeriod), Currency(smaShort)},
			{fmt.Sprintf("sma_%d", a.cfg.SMAMediumPeriod), Currency(smaMedium)},
			{"rsi", Decimal(rsi, 1)},
			{"signal", signal},
			{"signal_color", signalColor},
		},
	}
}

// Risk reports daily 95% VaR, maximum drawdown, the Sharpe ratio, and a
// coarse risk level from drawdown depth.
func (a *Analyzer) Risk(d *Derived) Group {
	var95 := indicator.Percentile(d.Returns, 5)
	maxDrawdown := indicator.Min(d.Drawdown)
	sharpe := a.sharpeRatio(d.Returns)

	level := notAvailable
	if !math.IsNaN(maxDrawdown) {
		switch depth := math.Abs(maxDrawdown); {
		case depth > 0.5:
			level = "High"
		case depth > 0.2:
			level = "Medium"
		default:
			level = "Low"
		}
	}

	return Group{
		Name:  CategoryRisk,
		Title: "Risk Analytics",
		Metrics: []Metric{
			{"var_95", Percent(var95)},
			{"max_drawdown", Percent(maxDrawdown)},
			{"sharpe_ratio", Ratio(sharpe)},
			{"risk_level", level},
		},
	}
}

// TimeSeries reports calendar-month seasonality and the recent yearly
// trend of average closes.
func (a *Analyzer) TimeSeries(d *Derived) Group {
	bestMonth, bestReturn, worstMonth, worstReturn := monthlySeasonality(d)

	best, worst := notAvailable, notAvailable
	if bestMonth != 0 {
		best = fmt.Sprintf("%s (%s)", bestMonth, Percent(bestReturn))
		worst = fmt.Sprintf("%s (%s)", worstMonth, Percent(worstReturn))
	}

	trend := recentYearlyTrend(d, 5)
	trendValue := notAvailable
	if !math.IsNaN(trend) {
		trendValue = fmt.Sprintf("%s per year", Percent(trend))
	}

	return Group{
		Name:  CategoryTimeSeries,
		Title: "Time Series Analytics",
		Metrics: []Metric{
			{"best_month", best},
			{"worst_month", worst},
			{"recent_trend", trendValue},
		},
	}
}

// Volatility compares the latest rolling volatility against its history.
func (a *Analyzer) Volatility(d *Derived) Group {
	current := lastValid(d.Volatility)
	average := indicator.Mean(d.Volatility)
	threshold := indicator.Percentile(d.Volatility, 80)

	condition := notAvailable
	if !math.IsNaN(current) && !math.IsNaN(threshold) {
		if current > threshold {
			condition = "HIGH VOLATILITY"
		} else {
			condition = "NORMAL VOLATILITY"
		}
	}

	return Group{
		Name:  CategoryVolatility,
		Title: "Volatility Analytics",
		Metrics: []Metric{
			{"current_volatility", Percent(current)},
			{"average_volatility", Percent(average)},
			{"high_volatility_threshold", Percent(threshold)},
			{"market_condition", condition},
		},
	}
}

// Predictive detects a golden or death cross between the short and
// medium moving averages on the last two records, falling back to trend
// continuation.
func (a *Analyzer) Predictive(d *Derived) Group {
	n := d.Series.Len()
	smaShort := at(d.SMAShort, n-1)
	smaMedium := at(d.SMAMedium, n-1)
	prevShort := at(d.SMAShort, n-2)
	prevMedium := at(d.SMAMedium, n-2)

	prediction := notAvailable
	switch {
	case math.IsNaN(smaShort) || math.IsNaN(smaMedium):
		// leave n/a
	case smaShort > smaMedium && !math.IsNaN(prevShort) && !math.IsNaN(prevMedium) && prevShort <= prevMedium:
		prediction = "GOLDEN CROSS - Bullish signal"
	case smaShort < smaMedium && !math.IsNaN(prevShort) && !math.IsNaN(prevMedium) && prevShort >= prevMedium:
		prediction = "DEATH CROSS - Bearish signal"
	case smaShort > smaMedium:
		prediction = "Bullish trend continuation"
	default:
		prediction = "Bearish trend continuation"
	}

	return Group{
		Name:  CategoryPredictive,
		Title: "Predictive Analytics",
		Metrics: []Metric{
			{fmt.Sprintf("sma_%d", a.cfg.SMAShortPeriod), Currency(smaShort)},
			{fmt.Sprintf("sma_%d", a.cfg.SMAMediumPeriod), Currency(smaMedium)},
			{"prediction", prediction},
		},
	}
}

// Strategy backtests holding long above the short moving average and
// short below it, against buy-and-hold.
func (a *Analyzer) Strategy(d *Derived) Group {
	closes := d.Series.Closes()

	// Position held during day t is decided on day t-1. An undefined
	// moving average counts as "below", like the reference backtest.
	strategyReturns := make([]float64, len(closes))
	for t := range strategyReturns {
		r := at(d.Returns, t)
		if t == 0 || math.IsNaN(r) {
			strategyReturns[t] = math.NaN()
			continue
		}
		signal := -1.0
		if !math.IsNaN(closes[t-1]) && !math.IsNaN(d.SMAShort[t-1]) && closes[t-1] > d.SMAShort[t-1] {
			signal = 1.0
		}
		strategyReturns[t] = signal * r
	}

	strategyReturn := lastValid(indicator.CumulativeReturns(strategyReturns)) - 1
	buyHoldReturn := lastValid(d.Cumulative) - 1

	result := notAvailable
	if !math.IsNaN(strategyReturn) && !math.IsNaN(buyHoldReturn) {
		if strategyReturn > buyHoldReturn {
			result = "Strategy BEATS Buy & Hold"
		} else {
			result = "Buy & Hold BEATS Strategy"
		}
	}

	return Group{
		Name:  CategoryStrategy,
		Title: "Trading Strategy Analytics",
		Metrics: []Metric{
			{"strategy_return", Percent(strategyReturn)},
			{"buy_hold_return", Percent(buyHoldReturn)},
			{"outperformance", Percent(strategyReturn - buyHoldReturn)},
			{"result", result},
		},
	}
}

// Sentiment studies the volume-price relationship: current volume
// against the average, returns on high-volume days, and the up/down
// volume split.
func (a *Analyzer) Sentiment(d *Derived) Group {
	volumes := d.Series.Volumes()

	avgVolume := indicator.Mean(volumes)
	currentVolume := lastValid(volumes)
	volumeRatio := math.NaN()
	if !math.IsNaN(avgVolume) && avgVolume != 0 {
		volumeRatio = currentVolume / avgVolume
	}

	highThreshold := indicator.Percentile(volumes, 80)
	var highVolReturns []float64
	for t, v := range volumes {
		if !math.IsNaN(v) && !math.IsNaN(highThreshold) && v > highThreshold {
			highVolReturns = append(highVolReturns, at(d.Returns, t))
		}
	}
	avgHighVolReturn := indicator.Mean(highVolReturns)

	var upVolume, downVolume float64
	for t, v := range volumes {
		r := at(d.Returns, t)
		if math.IsNaN(r) || math.IsNaN(v) {
			continue
		}
		if r > 0 {
			upVolume += v
		} else if r < 0 {
			downVolume += v
		}
	}
	upDownRatio := math.Inf(1)
	if downVolume > 0 {
		upDownRatio = upVolume / downVolume
	}

	sentiment := "NEUTRAL"
	switch {
	case upDownRatio > 1.2:
		sentiment = "BULLISH"
	case upDownRatio < 0.8:
		sentiment = "BEARISH"
	}

	return Group{
		Name:  CategorySentiment,
		Title: "Market Sentiment Analytics",
		Metrics: []Metric{
			{"volume_ratio", Ratio(volumeRatio)},
			{"high_volume_day_return", Percent(avgHighVolReturn)},
			{"up_down_volume_ratio", Ratio(upDownRatio)},
			{"sentiment", sentiment},
		},
	}
}

// Regime classifies the market as bull or bear by the long moving
// average and reports the historical split.
func (a *Analyzer) Regime(d *Derived) Group {
	closes := d.Series.Closes()

	price := lastValid(closes)
	smaLong := lastValid(d.SMALong)

	regime := notAvailable
	if !math.IsNaN(price) && !math.IsNaN(smaLong) {
		if price > smaLong {
			regime = "BULL MARKET"
		} else {
			regime = "BEAR MARKET"
		}
	}

	var bullDays, definedDays int
	for t := range closes {
		if math.IsNaN(closes[t]) || math.IsNaN(at(d.SMALong, t)) {
			continue
		}
		definedDays++
		if closes[t] > d.SMALong[t] {
			bullDays++
		}
	}
	bullPct, bearPct := math.NaN(), math.NaN()
	if definedDays > 0 {
		bullPct = float64(bullDays) / float64(definedDays)
		bearPct = 1 - bullPct
	}

	return Group{
		Name:  CategoryRegime,
		Title: "Market Regime Analytics",
		Metrics: []Metric{
			{"current_price", Currency(price)},
			{fmt.Sprintf("sma_%d", a.cfg.SMALongPeriod), Currency(smaLong)},
			{"regime", regime},
			{"bull_market_days", PercentPrec(bullPct, 1)},
			{"bear_market_days", PercentPrec(bearPct, 1)},
		},
	}
}

// Correlation reports price-volume correlations and one-day
// autocorrelations.
func (a *Analyzer) Correlation(d *Derived) Group {
	returnVolumeCorr := indicator.Correlation(d.Returns, d.VolumeChange)
	priceVolumeCorr := indicator.Correlation(d.Returns, d.Series.Volumes())

	relationship := notAvailable
	if !math.IsNaN(returnVolumeCorr) {
		if math.Abs(returnVolumeCorr) > 0.3 {
			relationship = "Strong price-volume relationship"
		} else {
			relationship = "Weak price-volume relationship"
		}
	}

	return Group{
		Name:  CategoryCorrelation,
		Title: "Correlation Analytics",
		Metrics: []Metric{
			{"return_volume_change_correlation", Decimal(returnVolumeCorr, 3)},
			{"return_volume_correlation", Decimal(priceVolumeCorr, 3)},
			{"return_autocorrelation", Decimal(indicator.AutoCorrelation(d.Returns, 1), 3)},
			{"volume_change_autocorrelation", Decimal(indicator.AutoCorrelation(d.VolumeChange, 1), 3)},
			{"relationship", relationship},
		},
	}
}

// Benchmark compares annualized performance against the configured
// market benchmark. The tracking error is the volatility of the return
// spread assuming an independent benchmark, so the result is
// deterministic for a given series.
func (a *Analyzer) Benchmark(d *Derived) Group {
	annualReturn := a.annualize(lastValid(d.Cumulative), d.Series.Len())
	volatility := a.annualVolatility(d.Returns)

	trackingError := math.NaN()
	if !math.IsNaN(volatility) {
		trackingError = math.Sqrt(volatility*volatility + a.cfg.BenchmarkVolatility*a.cfg.BenchmarkVolatility)
	}

	excessReturn := annualReturn - a.cfg.BenchmarkReturn
	informationRatio := 0.0
	if !math.IsNaN(excessReturn) && !math.IsNaN(trackingError) && trackingError > 0 {
		informationRatio = excessReturn / trackingError
	}

	performance := notAvailable
	if !math.IsNaN(annualReturn) {
		if annualReturn > a.cfg.BenchmarkReturn {
			performance = "OUTPERFORMING market"
		} else {
			performance = "UNDERPERFORMING market"
		}
	}

	return Group{
		Name:  CategoryBenchmark,
		Title: "Performance Benchmarking Analytics",
		Metrics: []Metric{
			{"annual_return", Percent(annualReturn)},
			{"benchmark_return", Percent(a.cfg.BenchmarkReturn)},
			{"excess_return", Percent(excessReturn)},
			{"tracking_error", Percent(trackingError)},
			{"information_ratio", Ratio(informationRatio)},
			{"performance", performance},
		},
	}
}

// annualize converts a final cumulative growth factor over n trading
// days into a yearly rate.
func (a *Analyzer) annualize(cumulative float64, n int) float64 {
	if math.IsNaN(cumulative) || cumulative <= 0 || n == 0 {
		return math.NaN()
	}
	return math.Pow(cumulative, float64(a.cfg.TradingDaysPerYear)/float64(n)) - 1
}

func (a *Analyzer) annualVolatility(returns []float64) float64 {
	sd := indicator.StdDev(returns)
	if math.IsNaN(sd) {
		return math.NaN()
	}
	return sd * math.Sqrt(float64(a.cfg.TradingDaysPerYear))
}

// sharpeRatio computes sqrt(252) * mean(r - rf/252) / stddev(r).
func (a *Analyzer) sharpeRatio(returns []float64) float64 {
	dailyRF := a.cfg.RiskFreeRate / float64(a.cfg.TradingDaysPerYear)
	excess := make([]float64, 0, len(returns))
	for _, r := range returns {
		if !math.IsNaN(r) {
			excess = append(excess, r-dailyRF)
		}
	}
	sd := indicator.StdDev(returns)
	if len(excess) == 0 || math.IsNaN(sd) || sd == 0 {
		return math.NaN()
	}
	return math.Sqrt(float64(a.cfg.TradingDaysPerYear)) * indicator.Mean(excess) / sd
}

// monthlySeasonality computes the mean month-over-month return per
// calendar month from month-end closes, returning the best and worst
// months. A zero month means there was not enough history.
func monthlySeasonality(d *Derived) (best time.Month, bestReturn float64, worst time.Month, worstReturn float64) {
	type monthEnd struct {
		month time.Month
		close float64
	}
	var ends []monthEnd
	var curYear int
	var curMonth time.Month
	for _, rec := range d.Series.Records {
		if math.IsNaN(rec.Close) {
			continue
		}
		y, m := rec.Date.Year(), rec.Date.Month()
		if len(ends) > 0 && y == curYear && m == curMonth {
			ends[len(ends)-1].close = rec.Close
			continue
		}
		ends = append(ends, monthEnd{month: m, close: rec.Close})
		curYear, curMonth = y, m
	}

	var sums, counts [13]float64
	for i := 1; i < len(ends); i++ {
		prev := ends[i-1].close
		if prev == 0 {
			continue
		}
		m := ends[i].month
		sums[m] += (ends[i].close - prev) / prev
		counts[m]++
	}

	bestReturn, worstReturn = math.Inf(-1), math.Inf(1)
	for m := time.January; m <= time.December; m++ {
		if counts[m] == 0 {
			continue
		}
		mean := sums[m] / counts[m]
		if mean > bestReturn {
			best, bestReturn = m, mean
		}
		if mean < worstReturn {
			worst, worstReturn = m, mean
		}
	}
	if best == 0 {
		return 0, math.NaN(), 0, math.NaN()
	}
	return best, bestReturn, worst, worstReturn
}

// recentYearlyTrend averages the year-over-year change of mean closing
// prices across the most recent years.
func recentYearlyTrend(d *Derived, years int) float64 {
	type yearAgg struct {
		sum   float64
		count int
	}
	var order []int
	byYear := map[int]*yearAgg{}
	for _, rec := range d.Series.Records {
		if math.IsNaN(rec.Close) {
			continue
		}
		y := rec.Date.Year()
		agg, ok := byYear[y]
		if !ok {
			agg = &yearAgg{}
			byYear[y] = agg
			order = append(order, y)
		}
		agg.sum += rec.Close
		agg.count++
	}

	means := make([]float64, 0, len(order))
	for _, y := range order {
		agg := byYear[y]
		means = append(means, agg.sum/float64(agg.count))
	}
	if len(means) > years {
		means = means[len(means)-years:]
	}
	if len(means) < 2 {
		return math.NaN()
	}

	var total float64
	var n int
	for i := 1; i < len(means); i++ {
		if means[i-1] == 0 {
			continue
		}
		total += (means[i] - means[i-1]) / means[i-1]
		n++
	}
	if n == 0 {
		return math.NaN()
	}
	return total / float64(n)
}
