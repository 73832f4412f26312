// Package app wires configuration, providers and sinks into processors for
// the binaries under cmd/.
package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/nguyentantai21042004/voice-notes/internal/analyzer"
	"github.com/nguyentantai21042004/voice-notes/internal/config"
	"github.com/nguyentantai21042004/voice-notes/internal/exporter"
	"github.com/nguyentantai21042004/voice-notes/internal/gemini"
	"github.com/nguyentantai21042004/voice-notes/internal/logger"
	"github.com/nguyentantai21042004/voice-notes/internal/notion"
	"github.com/nguyentantai21042004/voice-notes/internal/processor"
	"github.com/nguyentantai21042004/voice-notes/internal/transcriber"
	"github.com/nguyentantai21042004/voice-notes/pkg/executor"
)

// App holds the shared dependencies of a binary.
type App struct {
	Config      *config.Config
	Logger      logger.Logger
	Analyzer    analyzer.Analyzer
	Transcriber transcriber.Transcriber
	HTTPClient  *http.Client

	limiter *processor.Limiter
}

// Load reads .env (when present) and the config file, and builds the
// logger.
func Load(configPath string) (*config.Config, logger.Logger, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, nil, fmt.Errorf("load .env: %w", err)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	return cfg, logger.New(cfg.Logging.Level, cfg.Logging.Format), nil
}

// New builds the providers selected by cfg.
func New(cfg *config.Config, log logger.Logger) (*App, error) {
	gc := gemini.New(cfg.Gemini.APIKeys, cfg.Gemini.Model, log)

	tr, err := transcriber.New(cfg, executor.New(), gc, log)
	if err != nil {
		return nil, err
	}

	return &App{
		Config:      cfg,
		Logger:      log,
		Analyzer:    analyzer.New(gc, cfg.Analysis.Language, log),
		Transcriber: tr,
		HTTPClient:  &http.Client{},
		limiter:     processor.NewLimiter(cfg.Performance.MaxConcurrent),
	}, nil
}

// Processor builds a processor over the app's providers. Every processor
// of an App draws from the same limiter of performance.max_concurrent runs.
func (a *App) Processor(sinks []processor.Sink, opts ...processor.Option) processor.Processor {
	opts = append([]processor.Option{
		processor.WithSinks(sinks...),
		processor.WithLimiter(a.limiter),
	}, opts...)
	return processor.New(a.Config, a.Transcriber, a.Analyzer, a.Logger, opts...)
}

// Notion returns the Notion sink.
func (a *App) Notion() *notion.Client {
	return notion.New(a.Config.Notion, a.HTTPClient, a.Logger)
}

// InboxSinks returns the sinks of the inbox daemon: Notion when it is
// configured, the docx note unless disabled, and the xlsx index. Notion
// goes first: a failed run leaves the recording in the inbox to be retried,
// and local notes written before a remote failure would be duplicated by
// that retry.
func (a *App) InboxSinks(ctx context.Context) []processor.Sink {
	var sinks []processor.Sink
	if n := a.Notion(); n.Configured() {
		sinks = append(sinks, n)
	} else {
		a.Logger.Info(ctx, "Notion is not configured; notes stay local")
	}

	if !a.Config.Export.DisableDocx {
		sinks = append(sinks, exporter.NewDocx(a.Config.Paths.Output, a.Config.Notion.Headings, a.Logger))
	}

	index := a.Config.Export.IndexFile
	if !filepath.IsAbs(index) {
		index = filepath.Join(a.Config.Paths.Output, index)
	}
	return append(sinks, exporter.NewIndex(index, a.Logger))
}

// EnsureDirectories creates the working directories.
func (a *App) EnsureDirectories() error {
	dirs := []string{
		a.Config.Paths.Input,
		a.Config.Paths.Archived,
		a.Config.Paths.Uploads,
		a.Config.Paths.Output,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return nil
}
