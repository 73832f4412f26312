package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/nguyentantai21042004/voice-notes/internal/app"
	"github.com/nguyentantai21042004/voice-notes/internal/service"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	ctx := context.Background()

	cfg, log, err := app.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log.Info(ctx, "========================================")
	log.Info(ctx, "Voice Notes Inbox Pipeline")
	log.Info(ctx, "========================================")
	log.Info(ctx, "System: %s/%s, CPU cores: %d", runtime.GOOS, runtime.GOARCH, runtime.NumCPU())
	log.Info(ctx, "Max concurrent processing: %d", cfg.Performance.MaxConcurrent)

	a, err := app.New(cfg, log)
	if err != nil {
		log.Error(ctx, "Failed to build providers: %v", err)
		os.Exit(1)
	}
	if err := a.EnsureDirectories(); err != nil {
		log.Error(ctx, "Failed to create directories: %v", err)
		os.Exit(1)
	}

	inbox, w, err := a.Inbox(ctx)
	if err != nil {
		log.Error(ctx, "Failed to create watcher: %v", err)
		os.Exit(1)
	}
	defer w.Stop()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info(ctx, "Monitoring: %s", cfg.Paths.Input)
	log.Info(ctx, "Notes: %s, archive: %s", cfg.Paths.Output, cfg.Paths.Archived)
	log.Info(ctx, "Transcription: %s, mode: %s", cfg.Transcription.Backend, cfg.Pipeline.Mode)
	log.Info(ctx, "Press Ctrl+C to stop")

	if err := (service.Group{inbox}).Run(ctx); err != nil {
		log.Error(ctx, "Pipeline stopped: %v", err)
		os.Exit(1)
	}
	log.Info(ctx, "Pipeline stopped")
}
