package chart

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketlens/internal/analytics"
	"marketlens/internal/config"
	"marketlens/internal/dataset"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func testDerived(t *testing.T) *analytics.Derived {
	t.Helper()
	start := time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC)
	records := make([]dataset.PriceRecord, 60)
	for i := range records {
		c := 100 + float64(i%7) + float64(i)*0.2
		records[i] = dataset.PriceRecord{
			Date:   start.AddDate(0, 0, i),
			Open:   c,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: 1000 + float64(i)*10,
		}
	}
	cfg := config.AnalyticsConfig{
		RiskFreeRate:       0.02,
		TradingDaysPerYear: 252,
		SMAShortPeriod:     5,
		SMAMediumPeriod:    10,
		SMALongPeriod:      20,
		RSIPeriod:          14,
		VolatilityWindow:   10,
	}
	return analytics.Derive(&dataset.PriceSeries{Records: records}, cfg)
}

func TestRenderAllKinds(t *testing.T) {
	r := NewRenderer(800, 400)
	d := testDerived(t)

	for _, kind := range Kinds() {
		data, err := r.Render(kind, d)
		require.NoError(t, err, "kind %s", kind)
		require.Greater(t, len(data), len(pngMagic), "kind %s", kind)
		assert.Equal(t, pngMagic, data[:len(pngMagic)], "kind %s must be a PNG", kind)
	}
}

func TestRenderUnknownKind(t *testing.T) {
	r := NewRenderer(800, 400)
	d := testDerived(t)

	_, err := r.Render(Kind("candlestick"), d)
	require.Error(t, err)

	var unknownErr *UnknownKindError
	require.True(t, errors.As(err, &unknownErr))
	assert.Equal(t, "candlestick", unknownErr.Kind)
}
