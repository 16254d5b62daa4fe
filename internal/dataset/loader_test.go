package dataset

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeCSV(t *testing.T, lines string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prices.csv")
	require.NoError(t, os.WriteFile(path, []byte(lines), 0644))
	return path
}

func TestLoadCSV(t *testing.T) {
	path := writeCSV(t, `Date,Open,High,Low,Close,Adj Close,Volume
2024-01-02,100,101,99,100.5,100.5,10000
2024-01-03,100.5,103,100,102,102,12000
2024-01-04,102,102.5,100.5,101,101,9000
`)

	series, err := NewLoader(testLogger()).Load(path)
	require.NoError(t, err)

	require.Equal(t, 3, series.Len())
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), series.First().Date)
	assert.Equal(t, 101.0, series.Last().Close)
	assert.Equal(t, []float64{100.5, 102, 101}, series.Closes())
}

func TestLoadSortsAscending(t *testing.T) {
	path := writeCSV(t, `2024-01-04,102,102.5,100.5,101,101,9000
2024-01-02,100,101,99,100.5,100.5,10000
2024-01-03,100.5,103,100,102,102,12000
`)

	series, err := NewLoader(testLogger()).Load(path)
	require.NoError(t, err)

	dates := series.Dates()
	for i := 1; i < len(dates); i++ {
		assert.True(t, dates[i].After(dates[i-1]), "dates must be strictly increasing")
	}
}

func TestLoadDuplicateDatesKeepLast(t *testing.T) {
	path := writeCSV(t, `2024-01-02,100,101,99,100.5,100.5,10000
2024-01-02,100,101,99,105,105,11000
`)

	series, err := NewLoader(testLogger()).Load(path)
	require.NoError(t, err)

	require.Equal(t, 1, series.Len())
	assert.Equal(t, 105.0, series.Last().Close)
}

func TestLoadMalformedNumericBecomesMissing(t *testing.T) {
	path := writeCSV(t, `2024-01-02,100,101,99,not-a-number,100.5,10000
2024-01-03,100.5,103,100,102,102,12000
`)

	series, err := NewLoader(testLogger()).Load(path)
	require.NoError(t, err)

	require.Equal(t, 2, series.Len())
	assert.True(t, IsMissing(series.Records[0].Close))
	assert.Equal(t, 102.0, series.Records[1].Close)
}

func TestLoadSkipsRowsWithoutDate(t *testing.T) {
	path := writeCSV(t, `garbage line
2024-01-02,100,101,99,100.5,100.5,10000
,1,2,3,4,5,6
`)

	series, err := NewLoader(testLogger()).Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, series.Len())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := NewLoader(testLogger()).Load(filepath.Join(t.TempDir(), "nope.csv"))
	assert.ErrorIs(t, err, ErrDataSource)
}

func TestLoadEmptyFile(t *testing.T) {
	path := writeCSV(t, "")
	_, err := NewLoader(testLogger()).Load(path)
	assert.ErrorIs(t, err, ErrDataSource)
}

func TestLoadHeaderOnlyFile(t *testing.T) {
	path := writeCSV(t, "Date,Open,High,Low,Close,Adj Close,Volume\n")
	_, err := NewLoader(testLogger()).Load(path)
	assert.ErrorIs(t, err, ErrDataSource)
}

func TestLoadExcelSingleColumn(t *testing.T) {
	// The reference source stores each row as one comma-joined cell
	path := filepath.Join(t.TempDir(), "prices.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := []string{
		"Date,Open,High,Low,Close,Adj Close,Volume",
		"2024-01-02,100,101,99,100.5,100.5,10000",
		"2024-01-03,100.5,103,100,102,102,12000",
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetCellValue(sheet, cell, row))
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	series, err := NewLoader(testLogger()).Load(path)
	require.NoError(t, err)

	require.Equal(t, 2, series.Len())
	assert.Equal(t, 102.0, series.Last().Close)
	assert.Equal(t, 12000.0, series.Last().Volume)
}
