// Package dataset loads and models the daily OHLCV price series.
package dataset

import (
	"math"
	"time"
)

// PriceRecord is one trading day. Missing numeric fields are NaN and
// propagate through derived calculations rather than raising errors.
type PriceRecord struct {
	Date     time.Time
	Open     float64
	High     float64
	Low      float64
	Close    float64
	AdjClose float64
	Volume   float64
}

// PriceSeries is an ordered sequence of daily records, dates strictly
// increasing. It is immutable after loading.
type PriceSeries struct {
	Records []PriceRecord
}

// Len returns the number of records in the series
func (s *PriceSeries) Len() int {
	return len(s.Records)
}

// First returns the earliest record. Only valid when Len() > 0.
func (s *PriceSeries) First() PriceRecord {
	return s.Records[0]
}

// Last returns the most recent record. Only valid when Len() > 0.
func (s *PriceSeries) Last() PriceRecord {
	return s.Records[len(s.Records)-1]
}

// Closes returns the close column as a slice
func (s *PriceSeries) Closes() []float64 {
	out := make([]float64, len(s.Records))
	for i, r := range s.Records {
		out[i] = r.Close
	}
	return out
}

// Volumes returns the volume column as a slice
func (s *PriceSeries) Volumes() []float64 {
	out := make([]float64, len(s.Records))
	for i, r := range s.Records {
		out[i] = r.Volume
	}
	return out
}

// Highs returns the high column as a slice
func (s *PriceSeries) Highs() []float64 {
	out := make([]float64, len(s.Records))
	for i, r := range s.Records {
		out[i] = r.High
	}
	return out
}

// Lows returns the low column as a slice
func (s *PriceSeries) Lows() []float64 {
	out := make([]float64, len(s.Records))
	for i, r := range s.Records {
		out[i] = r.Low
	}
	return out
}

// Dates returns the date column as a slice
func (s *PriceSeries) Dates() []time.Time {
	out := make([]time.Time, len(s.Records))
	for i, r := range s.Records {
		out[i] = r.Date
	}
	return out
}

// IsMissing reports whether a value is the missing-value marker
func IsMissing(v float64) bool {
	return math.IsNaN(v)
}

// Missing is the marker used for unparseable numeric cells
func Missing() float64 {
	return math.NaN()
}
