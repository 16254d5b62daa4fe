// Package analytics aggregates derived price series into named metric
// groups ready for rendering as JSON, text reports, or workbooks.
package analytics

import (
	"bytes"
	"encoding/json"
)

// Metric is a single formatted value within a group. Values are always
// display-ready strings; missing inputs render as the n/a placeholder.
type Metric struct {
	Key   string
	Value string
}

// Group is an ordered collection of metrics for one analytics category.
type Group struct {
	Name    string
	Title   string
	Metrics []Metric
}

// Get returns the value for key, if present.
func (g Group) Get(key string) (string, bool) {
	for _, m := range g.Metrics {
		if m.Key == key {
			return m.Value, true
		}
	}
	return "", false
}

// MarshalJSON renders the group as a flat object, preserving metric order.
func (g Group) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, m := range g.Metrics {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(m.Key)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(m.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Category names, in report order.
const (
	CategoryDescriptive = "descriptive"
	CategoryPerformance = "performance"
	CategoryTechnical   = "technical"
	CategoryRisk        = "risk"
	CategoryTimeSeries  = "timeseries"
	CategoryVolatility  = "volatility"
	CategoryPredictive  = "predictive"
	CategoryStrategy    = "strategy"
	CategorySentiment   = "sentiment"
	CategoryRegime      = "regime"
	CategoryCorrelation = "correlation"
	CategoryBenchmark   = "benchmark"
)

// Categories lists every category in its canonical report order.
var Categories = []string{
	CategoryDescriptive,
	CategoryPerformance,
	CategoryTechnical,
	CategoryRisk,
	CategoryTimeSeries,
	CategoryVolatility,
	CategoryPredictive,
	CategoryStrategy,
	CategorySentiment,
	CategoryRegime,
	CategoryCorrelation,
	CategoryBenchmark,
}

// Report bundles every metric group for one price series.
type Report struct {
	Descriptive Group
	Performance Group
	Technical   Group
	Risk        Group
	TimeSeries  Group
	Volatility  Group
	Predictive  Group
	Strategy    Group
	Sentiment   Group
	Regime      Group
	Correlation Group
	Benchmark   Group
}

// Core returns the four groups served at the top level of the API.
func (r *Report) Core() []Group {
	return []Group{r.Descriptive, r.Performance, r.Technical, r.Risk}
}

// Extended returns the remaining groups, in report order.
func (r *Report) Extended() []Group {
	return []Group{
		r.TimeSeries, r.Volatility, r.Predictive, r.Strategy,
		r.Sentiment, r.Regime, r.Correlation, r.Benchmark,
	}
}

// All returns every group in report order.
func (r *Report) All() []Group {
	return append(r.Core(), r.Extended()...)
}

// Group returns the group for the named category.
func (r *Report) Group(name string) (Group, bool) {
	for _, g := range r.All() {
		if g.Name == name {
			return g, true
		}
	}
	return Group{}, false
}
