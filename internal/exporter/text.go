// Package exporter writes analytics reports to disk as text files,
// styled Excel workbooks, and CSV exports.
package exporter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"marketlens/internal/analytics"
)

// TextExporter writes one plain-text report per analytics category.
type TextExporter struct {
	dir string
}

// NewTextExporter creates a text exporter rooted at dir.
func NewTextExporter(dir string) *TextExporter {
	return &TextExporter{dir: dir}
}

// GroupFileName returns the artifact name for the index-th category,
// e.g. "03_technical.txt".
func GroupFileName(index int, name, ext string) string {
	return fmt.Sprintf("%02d_%s.%s", index+1, name, ext)
}

// ExportGroup writes a single category report and returns its path.
func (e *TextExporter) ExportGroup(index int, g analytics.Group) (string, error) {
	if err := os.MkdirAll(e.dir, 0755); err != nil {
		return "", fmt.Errorf("create reports directory: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "=== %d. %s ===\n", index+1, strings.ToUpper(g.Title))
	fmt.Fprintf(&b, "Generated: %s\n\n", time.Now().UTC().Format(time.RFC3339))
	for _, m := range g.Metrics {
		fmt.Fprintf(&b, "%s: %s\n", m.Key, m.Value)
	}

	path := filepath.Join(e.dir, GroupFileName(index, g.Name, "txt"))
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return "", fmt.Errorf("write text report %s: %w", path, err)
	}
	return path, nil
}

// Export writes every category and returns the artifact paths in order.
func (e *TextExporter) Export(report *analytics.Report) ([]string, error) {
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
