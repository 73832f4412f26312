package watcher

import "context"

// Watcher feeds new audio files from a directory to a handler.
type Watcher interface {
	// Start blocks until ctx is done, then waits for running handlers.
	Start(ctx context.Context) error
	Stop() error
}

// EventHandler processes one audio file that finished arriving.
type EventHandler func(ctx context.Context, filePath string) error
