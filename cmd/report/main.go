package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"marketlens/internal/analytics"
	"marketlens/internal/chart"
	"marketlens/internal/config"
	"marketlens/internal/dataset"
	"marketlens/internal/exporter"
	"marketlens/internal/infrastructure"
)

func main() {
	dataFile := flag.String("data", "", "price data file (overrides configuration)")
	outputDir := flag.String("out", "", "report output directory (overrides configuration)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	if *dataFile != "" {
		cfg.Data.File = *dataFile
	}
	if *outputDir != "" {
		cfg.Data.ReportsDir = *outputDir
		cfg.Data.ChartsDir = filepath.Join(*outputDir, "charts")
	}

	logger, err := infrastructure.NewLogger(cfg.Logging)
	if err != nil {
		slog.Error("failed to initialize logger", "error", err)
		os.Exit(1)
	}

	if err := run(context.Background(), cfg, logger); err != nil {
		logger.Error("report generation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	started := time.Now()

	if err := cfg.EnsureDirectories(); err != nil {
		return fmt.Errorf("prepare output directories: %w", err)
	}

	loader := dataset.NewLoader(logger)
	series, err := loader.Load(cfg.Data.File)
	if err != nil {
		return fmt.Errorf("load price data from %s: %w", cfg.Data.File, err)
	}
	logger.Info("loaded price data",
		slog.String("file", cfg.Data.File),
		slog.Int("records", series.Len()))

	derived := analytics.Derive(series, cfg.Analytics)
	report := analytics.New(cfg.Analytics).Analyze(derived)

	var (
		textPaths  = make([]string, len(analytics.Categories))
		excelPaths = make([]string, len(analytics.Categories))
	)

	g, ctx := errgroup.WithContext(ctx)

	if cfg.Report.GenerateText || cfg.Report.GenerateExcel {
		text := exporter.NewTextExporter(cfg.Data.ReportsDir)
		excel := exporter.NewExcelExporter(cfg.Data.ReportsDir, cfg.Report.Excel)

		for i, name := range analytics.Categories {
			group, ok := report.Group(name)
			if !ok {
				continue
			}

			i := i
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				if cfg.Report.GenerateText {
					path, err := text.ExportGroup(i, group)
					if err != nil {
						return fmt.Errorf("text export %s: %w", group.Name, err)
					}
					textPaths[i] = path
				}
				if cfg.Report.GenerateExcel {
					path, err := excel.ExportGroup(i, group)
					if err != nil {
						return fmt.Errorf("excel export %s: %w", group.Name, err)
					}
					excelPaths[i] = path
				}
				return nil
			})
		}
	}

	var chartPaths []string
	if cfg.Report.GenerateCharts {
		g.Go(func() error {
			paths, err := renderCharts(cfg, derived)
			if err != nil {
				return err
			}
			chartPaths = paths
			return nil
		})
	}

	var csvPath string
	if cfg.Report.GenerateCSV {
		g.Go(func() error {
			writer := exporter.NewCSVWriter(cfg.Data.ReportsDir)
			path, err := writer.WriteDerivedSeries("derived_series.csv", derived)
			if err != nil {
				return fmt.Errorf("csv export: %w", err)
			}
			csvPath = path
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	var artifacts []string
	for _, p := range textPaths {
		if p != "" {
			artifacts = append(artifacts, p)
		}
	}
	for _, p := range excelPaths {
		if p != "" {
			artifacts = append(artifacts, p)
		}
	}
	artifacts = append(artifacts, chartPaths...)
	if csvPath != "" {
		artifacts = append(artifacts, csvPath)
	}

	summaryPath, err := exporter.WriteSummary(cfg.Data.ReportsDir, artifacts)
	if err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	artifacts = append(artifacts, summaryPath)

	logger.Info("report generation complete",
		slog.Int("artifacts", len(artifacts)),
		slog.String("output_dir", cfg.Data.ReportsDir),
		slog.Duration("elapsed", time.Since(started)))
	return nil
}

func renderCharts(cfg *config.Config, d *analytics.Derived) ([]string, error) {
	renderer := chart.NewRenderer(cfg.Report.ChartWidth, cfg.Report.ChartHeight)

	paths := make([]string, 0, len(chart.Kinds()))
	for _, kind := range chart.Kinds() {
		png, err := renderer.Render(kind, d)
		if err != nil {
			return nil, fmt.Errorf("render %s chart: %w", kind, err)
		}
		path := cfg.ChartPath(string(kind) + ".png")
		if err := os.WriteFile(path, png, 0644); err != nil {
			return nil, fmt.Errorf("write %s chart: %w", kind, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
