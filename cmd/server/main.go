package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/nguyentantai21042004/voice-notes/internal/api"
	"github.com/nguyentantai21042004/voice-notes/internal/app"
	"github.com/nguyentantai21042004/voice-notes/internal/processor"
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

	a, err := app.New(cfg, log)
	if err != nil {
		log.Error(ctx, "Failed to build providers: %v", err)
		os.Exit(1)
	}
	if err := a.EnsureDirectories(); err != nil {
		log.Error(ctx, "Failed to create directories: %v", err)
		os.Exit(1)
	}

	notion := a.Notion()
	if !notion.Configured() {
		log.Warn(ctx, "Notion API key or database id missing; uploads will fail at persistence")
	}

	proc := a.Processor([]processor.Sink{notion})
	handler := api.NewHandler(proc, cfg.Server.MaxUploadMB<<20, log)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler.Routes(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	group := service.Group{service.HTTP{Server: srv}}

	if cfg.Server.WatchInbox {
		inbox, w, err := a.Inbox(ctx)
		if err != nil {
			log.Error(ctx, "Failed to create inbox watcher: %v", err)
			os.Exit(1)
		}
		defer w.Stop()
		group = append(group, inbox)
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info(ctx, "Listening on %s (transcription: %s, mode: %s)", srv.Addr, cfg.Transcription.Backend, cfg.Pipeline.Mode)
	if cfg.Server.WatchInbox {
		log.Info(ctx, "Watching inbox: %s", cfg.Paths.Input)
	}

	if err := group.Run(ctx); err != nil {
		log.Error(ctx, "Server stopped: %v", err)
		os.Exit(1)
	}
	log.Info(ctx, "Server stopped")
}
