package exporter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// SummaryFileName is the artifact listing every file a sweep produced.
const SummaryFileName = "generation_summary.txt"

// WriteSummary writes the generation summary into dir and returns its
// path. Artifact paths are listed relative to dir where possible.
func WriteSummary(dir string, artifacts []string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create reports directory: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Report generation summary\n")
	fmt.Fprintf(&b, "Generated: %s\n", time.Now().UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "Artifacts: %d\n\n", len(artifacts))
	for _, artifact := range artifacts {
		if rel, err := filepath.Rel(dir, artifact); err == nil && !strings.HasPrefix(rel, "..") {
			artifact = rel
		}
		fmt.Fprintf(&b, "  %s\n", artifact)
	}

	path := filepath.Join(dir, SummaryFileName)
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return "", fmt.Errorf("write summary: %w", err)
	}
	return path, nil
}
