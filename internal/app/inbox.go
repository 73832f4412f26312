package app

import (
	"context"

	"github.com/nguyentantai21042004/voice-notes/internal/domain"
	"github.com/nguyentantai21042004/voice-notes/internal/processor"
	"github.com/nguyentantai21042004/voice-notes/internal/service"
	"github.com/nguyentantai21042004/voice-notes/internal/watcher"
)

// InboxHandler runs a recording from the inbox through proc and moves it
// to the archive on success. Failed recordings stay in the inbox.
func (a *App) InboxHandler(proc processor.Processor) watcher.EventHandler {
	return func(ctx context.Context, path string) error {
		report, err := proc.Process(ctx, domain.AudioJob{Path: path})
		if err != nil {
			return err
		}

		archived, err := processor.Archive(path, a.Config.Paths.Archived)
		if err != nil {
			a.Logger.Warn(ctx, "Failed to archive %s: %v", path, err)
			return nil
		}
		a.Logger.Info(ctx, "Job %s archived %s", report.JobID, archived)
		return nil
	}
}

// Inbox builds the watcher service over the input directory. The caller
// stops the returned watcher.
func (a *App) Inbox(ctx context.Context) (service.Service, watcher.Watcher, error) {
	proc := a.Processor(a.InboxSinks(ctx))

	w, err := watcher.New(a.Config.Paths.Input, a.InboxHandler(proc), a.Logger)
	if err != nil {
		return nil, nil, err
	}

	svc := service.Func{ServiceName: "inbox " + a.Config.Paths.Input, RunFunc: w.Start}
	return svc, w, nil
}
