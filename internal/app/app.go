package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/dpsweep/internal/ctxlog"
	"github.com/vk/dpsweep/internal/manifest"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle for one command invocation.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	manifest *manifest.Manifest
}

// NewApp is the constructor for the main application. It configures an
// isolated logger (writing to logW, keeping outW clean for command
// output) and loads the experiment manifest.
func NewApp(outW, logW io.Writer, cfg *Config) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	m, err := manifest.Load(ctx, cfg.ManifestPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load manifest: %w", err)
	}

	return &App{
		outW:     outW,
		logger:   logger,
		manifest: m,
	}, nil
}

// Manifest returns the loaded experiment manifest. This is primarily for
// testing.
func (a *App) Manifest() *manifest.Manifest { return a.manifest }
