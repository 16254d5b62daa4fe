package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"marketlens/internal/analytics"
	"marketlens/internal/config"
	"marketlens/internal/dataset"
	"marketlens/internal/infrastructure"
)

// Prints the full analytics sweep to stdout, one banner per category.
func main() {
	dataFile := flag.String("data", "", "price data file (overrides configuration)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	if *dataFile != "" {
		cfg.Data.File = *dataFile
	}

	logger, err := infrastructure.NewLogger(cfg.Logging)
	if err != nil {
		slog.Error("failed to initialize logger", "error", err)
		os.Exit(1)
	}

	series, err := dataset.NewLoader(logger).Load(cfg.Data.File)
	if err != nil {
		logger.Error("failed to load price data",
			slog.String("file", cfg.Data.File),
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	derived := analytics.Derive(series, cfg.Analytics)
	report := analytics.New(cfg.Analytics).Analyze(derived)

	fmt.Printf("COMPREHENSIVE MARKET ANALYTICS (%d records)\n", series.Len())
	for i, g := range report.All() {
		fmt.Printf("\n=== %d. %s ===\n", i+1, strings.ToUpper(g.Title))
		for _, m := range g.Metrics {
			fmt.Printf("%s: %s\n", m.Key, m.Value)
		}
	}
}
