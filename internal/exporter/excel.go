package exporter

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"marketlens/internal/analytics"
	"marketlens/internal/config"
)

// ExcelExporter writes one styled workbook per analytics category.
type ExcelExporter struct {
	dir   string
	style config.ExcelStyleConfig
}

// NewExcelExporter creates an Excel exporter rooted at dir.
func NewExcelExporter(dir string, style config.ExcelStyleConfig) *ExcelExporter {
	return &ExcelExporter{dir: dir, style: style}
}

const sheetName = "Metrics"

// ExportGroup writes the workbook for a single category and returns its
// path.
func (e *ExcelExporter) ExportGroup(index int, g analytics.Group) (string, error) {
	if err := os.MkdirAll(e.dir, 0755); err != nil {
		return "", fmt.Errorf("create reports directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return "", fmt.Errorf("rename sheet: %w", err)
	}

	styles, err := e.newStyles(f)
	if err != nil {
		return "", err
	}

	// Title row spans both columns.
	if err := f.MergeCell(sheetName, "A1", "B1"); err != nil {
		return "", fmt.Errorf("merge title cells: %w", err)
	}
	f.SetCellValue(sheetName, "A1", fmt.Sprintf("%d. %s", index+1, g.Title))
	f.SetCellStyle(sheetName, "A1", "B1", styles.title)

	f.SetCellValue(sheetName, "A2", "Metric")
	f.SetCellValue(sheetName, "B2", "Value")
	f.SetCellStyle(sheetName, "A2", "B2", styles.header)

	for i, m := range g.Metrics {
		row := i + 3
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), m.Key)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), m.Value)

		f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), styles.data)
		valueStyle := styles.neutral
		switch classifyValue(m.Value) {
		case valuePositive:
			valueStyle = styles.positive
		case valueNegative:
			valueStyle = styles.negative
		}
		f.SetCellStyle(sheetName, fmt.Sprintf("B%d", row), fmt.Sprintf("B%d", row), valueStyle)
	}

	f.SetColWidth(sheetName, "A", "A", 34)
	f.SetColWidth(sheetName, "B", "B", 28)

	path := filepath.Join(e.dir, GroupFileName(index, g.Name, "xlsx"))
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("save workbook %s: %w", path, err)
	}
	return path, nil
}

// Export writes every category workbook and returns the paths in order.
func (e *ExcelExporter) Export(report *analytics.Report) ([]string, error) {
	groups := report.All()
	paths := make([]string, 0, len(groups))
	for i, g := range groups {
		path, err := e.ExportGroup(i, g)
		if err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

type workbookStyles struct {
	title    int
	header   int
	data     int
	positive int
	negative int
	neutral  int
}

func (e *ExcelExporter) newStyles(f *excelize.File) (workbookStyles, error) {
	var s workbookStyles
	var err error

	border := []excelize.Border{
		{Type: "left", Color: "D9D9D9", Style: 1},
		{Type: "right", Color: "D9D9D9", Style: 1},
		{Type: "top", Color: "D9D9D9", Style: 1},
		{Type: "bottom", Color: "D9D9D9", Style: 1},
	}

	s.title, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 13},
		Fill: excelize.Fill{Type: "pattern", Color: []string{e.style.TitleColor}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return s, fmt.Errorf("title style: %w", err)
	}

	s.header, err = f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{e.style.HeaderColor}, Pattern: 1},
		Border: border,
	})
	if err != nil {
		return s, fmt.Errorf("header style: %w", err)
	}

	s.data, err = f.NewStyle(&excelize.Style{Border: border})
	if err != nil {
		return s, fmt.Errorf("data style: %w", err)
	}

	fillStyle := func(color string) (int, error) {
		return f.NewStyle(&excelize.Style{
			Fill:   excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
			Border: border,
		})
	}
	if s.positive, err = fillStyle(e.style.PositiveColor); err != nil {
		return s, fmt.Errorf("positive style: %w", err)
	}
	if s.negative, err = fillStyle(e.style.NegativeColor); err != nil {
		return s, fmt.Errorf("negative style: %w", err)
	}
	if s.neutral, err = fillStyle(e.style.NeutralColor); err != nil {
		return s, fmt.Errorf("neutral style: %w", err)
	}

	return s, nil
}

type valueClass int

const (
	valueNeutral valueClass = iota
	valuePositive
	valueNegative
)

// classifyValue maps a formatted metric value onto a fill class. Only
// clearly numeric values get a sign color; labels and placeholders stay
// neutral.
func classifyValue(value string) valueClass {
	v := strings.TrimSpace(value)
	v = strings.TrimSuffix(v, "%")
	v = strings.TrimPrefix(v, "$")
	v = strings.ReplaceAll(v, ",", "")

	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return valueNeutral
	}
	switch {
	case n > 0:
		return valuePositive
	case n < 0:
		return valueNegative
	default:
		return valueNeutral
	}
}
