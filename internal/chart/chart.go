// Package chart renders PNG charts from a derived price series.
package chart

import (
	"bytes"
	"fmt"
	"image/color"
	"math"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"marketlens/internal/analytics"
)

// Kind identifies a chart type.
type Kind string

const (
	KindPrice   Kind = "price"
	KindVolume  Kind = "volume"
	KindReturns Kind = "returns"
	KindRisk    Kind = "risk"
)

// Kinds lists every supported chart kind.
func Kinds() []Kind {
	return []Kind{KindPrice, KindVolume, KindReturns, KindRisk}
}

// UnknownKindError reports a request for a chart type that does not exist.
type UnknownKindError struct {
	Kind string
}

func (e *UnknownKindError) Error() string {
	return fmt.Sprintf("unknown chart kind %q", e.Kind)
}

var (
	colorClose    = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	colorSMA      = color.RGBA{R: 214, G: 39, B: 40, A: 255}
	colorVolume   = color.RGBA{R: 255, G: 165, B: 0, A: 255}
	colorReturns  = color.RGBA{R: 44, G: 160, B: 44, A: 255}
	colorDrawdown = color.RGBA{R: 139, G: 0, B: 0, A: 255}
	colorFill     = color.RGBA{R: 214, G: 39, B: 40, A: 60}
)

// Renderer draws charts at a fixed resolution.
type Renderer struct {
	width  vg.Length
	height vg.Length
}

// NewRenderer creates a Renderer. Width and height are in points.
func NewRenderer(width, height int) *Renderer {
	return &Renderer{
		width:  vg.Points(float64(width)),
		height: vg.Points(float64(height)),
	}
}

// Render draws the requested chart kind as PNG bytes.
func (r *Renderer) Render(kind Kind, d *analytics.Derived) ([]byte, error) {
	switch kind {
	case KindPrice:
		return r.price(d)
	case KindVolume:
		return r.volume(d)
	case KindReturns:
		return r.returns(d)
	case KindRisk:
		return r.risk(d)
	default:
		return nil, &UnknownKindError{Kind: string(kind)}
	}
}

// price plots the closing price with the medium moving average overlaid.
func (r *Renderer) price(d *analytics.Derived) ([]byte, error) {
	p := plot.New()
	p.Title.Text = "Price History"
	p.X.Label.Text = "Date"
	p.Y.Label.Text = "Price ($)"
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01"}
	p.Add(plotter.NewGrid())

	dates := d.Series.Dates()

	closeLine, err := plotter.NewLine(timeXYs(dates, d.Series.Closes()))
	if err != nil {
		return nil, fmt.Errorf("price line: %w", err)
	}
	closeLine.Color = colorClose
	closeLine.Width = vg.Points(1.5)

	smaLine, err := plotter.NewLine(timeXYs(dates, d.SMAMedium))
	if err != nil {
		return nil, fmt.Errorf("sma line: %w", err)
	}
	smaLine.Color = colorSMA
	smaLine.Width = vg.Points(1.5)

	p.Add(closeLine, smaLine)
	p.Legend.Add("Close", closeLine)
	p.Legend.Add("SMA", smaLine)
	p.Legend.Top = true

	return r.encode(p)
}

// volume plots traded volume as bars over the record index, with date
// labels on the axis.
func (r *Renderer) volume(d *analytics.Derived) ([]byte, error) {
	p := plot.New()
	p.Title.Text = "Trading Volume History"
	p.X.Label.Text = "Date"
	p.Y.Label.Text = "Volume"
	p.X.Tick.Marker = indexDateTicks{dates: d.Series.Dates()}
	p.Add(plotter.NewGrid())

	values := make(plotter.Values, 0, d.Series.Len())
	for _, v := range d.Series.Volumes() {
		if math.IsNaN(v) {
			v = 0
		}
		values = append(values, v)
	}

	bars, err := plotter.NewBarChart(values, vg.Points(1))
	if err != nil {
		return nil, fmt.Errorf("volume bars: %w", err)
	}
	bars.Color = colorVolume
	bars.LineStyle.Width = 0

	p.Add(bars)
	return r.encode(p)
}

// returns plots the cumulative return over time.
func (r *Renderer) returns(d *analytics.Derived) ([]byte, error) {
	p := plot.New()
	p.Title.Text = "Cumulative Returns"
	p.X.Label.Text = "Date"
	p.Y.Label.Text = "Growth of $1"
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01"}
	p.Add(plotter.NewGrid())

	line, err := plotter.NewLine(timeXYs(d.Series.Dates(), d.Cumulative))
	if err != nil {
		return nil, fmt.Errorf("returns line: %w", err)
	}
	line.Color = colorReturns
	line.Width = vg.Points(1.5)

	p.Add(line)
	return r.encode(p)
}

// risk plots the drawdown curve, shaded down from zero.
func (r *Renderer) risk(d *analytics.Derived) ([]byte, error) {
	p := plot.New()
	p.Title.Text = "Maximum Drawdown Analysis"
	p.X.Label.Text = "Date"
	p.Y.Label.Text = "Drawdown"
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01"}
	p.Add(plotter.NewGrid())

	line, err := plotter.NewLine(timeXYs(d.Series.Dates(), d.Drawdown))
	if err != nil {
		return nil, fmt.Errorf("risk line: %w", err)
	}
	line.Color = colorDrawdown
	line.Width = vg.Points(1.5)
	line.FillColor = colorFill

	p.Add(line)
	p.Legend.Add("Drawdown", line)

	return r.encode(p)
}

func (r *Renderer) encode(p *plot.Plot) ([]byte, error) {
	wt, err := p.WriterTo(r.width, r.height, "png")
	if err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("encode chart: %w", err)
	}
	return buf.Bytes(), nil
}

// timeXYs pairs dates with values, dropping missing points so lines do
// not spike to zero.
func timeXYs(dates []time.Time, values []float64) plotter.XYs {
	n := len(dates)
	if len(values) < n {
		n = len(values)
	}
	xys := make(plotter.XYs, 0, n)
	for i := 0; i < n; i++ {
		if math.IsNaN(values[i]) {
			continue
		}
		xys = append(xys, plotter.XY{X: float64(dates[i].Unix()), Y: values[i]})
	}
	return xys
}

// indexDateTicks labels an index-based axis with the dates at those
// positions.
type indexDateTicks struct {
	dates []time.Time
}

func (t indexDateTicks) Ticks(min, max float64) []plot.Tick {
	if len(t.dates) == 0 || max <= min {
		return nil
	}
	const count = 6
	ticks := make([]plot.Tick, 0, count)
	for i := 0; i < count; i++ {
		pos := min + (max-min)*float64(i)/float64(count-1)
		idx := int(math.Round(pos))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(t.dates) {
			idx = len(t.dates) - 1
		}
		ticks = append(ticks, plot.Tick{
			Value: pos,
			Label: t.dates[idx].Format("2006-01-02"),
		})
	}
	return ticks
}
