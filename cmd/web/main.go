package main

import (
	"embed"
	"io/fs"
	"log/slog"
	"os"

	"marketlens/internal/app"
)

//go:embed templates/*.html
var templateFiles embed.FS

func main() {
	templateFS, err := fs.Sub(templateFiles, "templates")
	if err != nil {
		slog.Error("failed to load embedded templates", "error", err)
		os.Exit(1)
	}

	application, err := app.NewApplication(templateFS)
	if err != nil {
		slog.Error("failed to initialize application", "error", err)
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}
