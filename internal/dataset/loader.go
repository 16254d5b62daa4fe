package dataset

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// ErrDataSource marks a source file that is missing, unreadable, or empty.
// Callers match it with errors.Is.
var ErrDataSource = errors.New("data source error")

// dateLayouts are tried in order when parsing the date field
var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"2006/01/02",
	time.RFC3339,
}

// Loader reads a delimited OHLCV source into a PriceSeries.
// The source is an .xlsx workbook whose first sheet holds one cell per row
// encoding "date,open,high,low,close,adjClose,volume", or a plain .csv file
// with the same rows.
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a loader with the given logger
func NewLoader(logger *slog.Logger) *Loader {
	return &Loader{logger: logger.With(slog.String("component", "loader"))}
}

// Load reads the source file and produces a date-ascending PriceSeries.
// Individual malformed rows do not fail the load: unparseable numeric cells
// become missing values, and rows without a parseable date are skipped
// because they cannot be keyed. Duplicate dates collapse to the last record.
func (l *Loader) Load(path string) (*PriceSeries, error) {
	lines, err := l.readLines(path)
	if err != nil {
		return nil, err
	}

	records := make([]PriceRecord, 0, len(lines))
	skipped := 0
	for _, line := range lines {
		rec, ok := parseRecord(line)
		if !ok {
			skipped++
			continue
		}
		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no parseable rows in %s", ErrDataSource, path)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Date.Before(records[j].Date)
	})

	// Collapse duplicate dates, keeping the last occurrence
	deduped := records[:0]
	for _, rec := range records {
		if n := len(deduped); n > 0 && deduped[n-1].Date.Equal(rec.Date) {
			deduped[n-1] = rec
			continue
		}
		deduped = append(deduped, rec)
	}

	l.logger.Info("price series loaded",
		slog.String("path", path),
		slog.Int("records", len(deduped)),
		slog.Int("skipped_rows", skipped))

	return &PriceSeries{Records: deduped}, nil
}

// readLines extracts the raw comma-joined rows from the source file
func (l *Loader) readLines(path string) ([]string, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataSource, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return l.readExcel(path)
	default:
		return l.readText(path)
	}
}

// readExcel reads the first sheet of an Excel workbook. Each row's cells are
// rejoined with commas so that both single-cell and pre-split layouts work.
func (l *Loader) readExcel(path string) ([]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open workbook: %v", ErrDataSource, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrDataSource)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read sheet %q: %v", ErrDataSource, sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: sheet %q is empty", ErrDataSource, sheets[0])
	}

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, strings.Join(row, ","))
	}
	return lines, nil
}

// readText reads a plain CSV-style file line by line
func (l *Loader) readText(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataSource, err)
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataSource, err)
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: file %s is empty", ErrDataSource, path)
	}
	return lines, nil
}

// parseRecord splits one comma-joined row into a typed record. Returns
// ok=false when the date cannot be parsed (header rows included).
func parseRecord(line string) (PriceRecord, bool) {
	line = strings.TrimPrefix(line, "\ufeff")
	fields := strings.Split(line, ",")
	if len(fields) < 7 {
		return PriceRecord{}, false
	}

	date, ok := parseDate(strings.TrimSpace(fields[0]))
	if !ok {
		return PriceRecord{}, false
	}

	return PriceRecord{
		Date:     date,
		Open:     coerceNumeric(fields[1]),
		High:     coerceNumeric(fields[2]),
		Low:      coerceNumeric(fields[3]),
		Close:    coerceNumeric(fields[4]),
		AdjClose: coerceNumeric(fields[5]),
		Volume:   coerceNumeric(fields[6]),
	}, true
}

// parseDate tries the known layouts in order
func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// coerceNumeric parses a numeric cell; invalid values become missing
func coerceNumeric(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return Missing()
	}
	return v
}
