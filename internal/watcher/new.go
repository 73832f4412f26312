package watcher

import (
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/nguyentantai21042004/voice-notes/internal/logger"
)

const (
	defaultPollInterval = 500 * time.Millisecond
	defaultStableWait   = 2 * time.Minute
)

// New creates a Watcher on inputDir. Handlers run in their own goroutines;
// bounding the work they start is up to the handler.
func New(inputDir string, handler EventHandler, log logger.Logger) (Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := watcher.Add(inputDir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	return &implWatcher{
		inputDir:     inputDir,
		handler:      handler,
		logger:       log,
		watcher:      watcher,
		pollInterval: defaultPollInterval,
		stableWait:   defaultStableWait,
		inFlight:     make(map[string]struct{}),
	}, nil
}
