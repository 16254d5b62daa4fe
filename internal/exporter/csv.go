package exporter

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"marketlens/internal/analytics"
)

// CSVWriter provides CSV export functionality rooted at the reports
// directory.
type CSVWriter struct {
	dir string
}

// NewCSVWriter creates a new CSV writer instance.
func NewCSVWriter(dir string) *CSVWriter {
	return &CSVWriter{dir: dir}
}

// WriteOptions configures CSV writing behavior.
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	Append    bool
	BOMPrefix bool // UTF-8 BOM for Excel compatibility
}

// WriteCSV writes data to a CSV file with the given options.
func (w *CSVWriter) WriteCSV(fileName string, options WriteOptions) error {
	fullPath := w.resolvePath(fileName)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	flags := os.O_CREATE | os.O_WRONLY
	if options.Append {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}

	file, err := os.OpenFile(fullPath, flags, 0644)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	if options.BOMPrefix && !options.Append {
		if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if !options.Append && len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}

	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	return writer.Error()
}

// WriteDerivedSeries exports the full derived column set, one row per
// trading day, and returns the artifact path. Missing values export as
// empty cells.
func (w *CSVWriter) WriteDerivedSeries(fileName string, d *analytics.Derived) (string, error) {
	headers := []string{
		"date", "open", "high", "low", "close", "volume",
		"daily_return", "cumulative_return",
		"sma_short", "sma_medium", "sma_long",
		"rsi", "volatility", "drawdown",
	}

	records := make([][]string, 0, d.Series.Len())
	for i, rec := range d.Series.Records {
		records = append(records, []string{
			rec.Date.Format("2006-01-02"),
			formatPrice(rec.Open),
			formatPrice(rec.High),
			formatPrice(rec.Low),
			formatPrice(rec.Close),
			formatWhole(rec.Volume),
			formatRatio(at(d.Returns, i)),
			formatRatio(at(d.Cumulative, i)),
			formatPrice(at(d.SMAShort, i)),
			formatPrice(at(d.SMAMedium, i)),
			formatPrice(at(d.SMALong, i)),
			formatPrice(at(d.RSI, i)),
			formatRatio(at(d.Volatility, i)),
			formatRatio(at(d.Drawdown, i)),
		})
	}

	err := w.WriteCSV(fileName, WriteOptions{
		Headers:   headers,
		Records:   records,
		BOMPrefix: true,
	})
	if err != nil {
		return "", err
	}
	return w.resolvePath(fileName), nil
}

func at(values []float64, i int) float64 {
	if i < 0 || i >= len(values) {
		return nan
	}
	return values[i]
}

func (w *CSVWriter) resolvePath(fileName string) string {
	if filepath.IsAbs(fileName) {
		return fileName
	}
	return filepath.Join(w.dir, fileName)
}
