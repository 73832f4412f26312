package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"

	"github.com/nguyentantai21042004/voice-notes/internal/app"
	"github.com/nguyentantai21042004/voice-notes/internal/config"
	"github.com/nguyentantai21042004/voice-notes/internal/domain"
	"github.com/nguyentantai21042004/voice-notes/internal/logger"
	"github.com/nguyentantai21042004/voice-notes/internal/processor"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [-config file] <audio file>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	audioPath := flag.Arg(0)

	if _, err := os.Stat(audioPath); errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "File not found: %s\n", audioPath)
		os.Exit(1)
	}

	cfg, _, err := app.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	log := logger.NewWithWriter(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)

	a, err := app.New(cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build providers: %v\n", err)
		os.Exit(1)
	}

	proc := a.Processor(nil, processor.WithMode(config.ModeCombined))
	report, err := proc.Process(context.Background(), domain.AudioJob{Path: audioPath})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Analysis failed: %v\n", err)
		os.Exit(1)
	}

	printReport(os.Stdout, report)
}
