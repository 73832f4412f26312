package processor

import "context"

// Limiter bounds the number of runs in flight. Processors built with the
// same Limiter (WithLimiter) share one bound, so HTTP uploads and inbox
// files together never exceed it.
type Limiter struct {
	ch chan struct{}
}

// NewLimiter creates a Limiter with capacity slots; capacity below one
// means one.
func NewLimiter(capacity int) *Limiter {
	if capacity < 1 {
		capacity = 1
	}
	return &Limiter{
		ch: make(chan struct{}, capacity),
	}
}

// acquire blocks until a slot is free or ctx is done.
func (l *Limiter) acquire(ctx context.Context) error {
	select {
	case l.ch <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *Limiter) release() {
	<-l.ch
}
