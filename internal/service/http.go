package service

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// HTTP serves srv until ctx is done, then shuts it down gracefully.
type HTTP struct {
	Server          *http.Server
	ShutdownTimeout time.Duration
}

func (h HTTP) Name() string { return "http " + h.Server.Addr }

func (h HTTP) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := h.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	timeout := h.ShutdownTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()
	return h.Server.Shutdown(shutdownCtx)
}
