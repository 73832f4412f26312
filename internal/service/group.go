package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/hashicorp/go-multierror"
)

// Service is a long-running part of a binary.
type Service interface {
	Name() string
	Run(context.Context) error
}

// Group runs services side by side. The first failure cancels the others;
// a service stopping because the group was cancelled is not a failure.
type Group []Service

func (g Group) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	runCtx, cancelFn := context.WithCancel(ctx)
	defer cancelFn()

	var wg sync.WaitGroup
	errCh := make(chan error, len(g))
	wg.Add(len(g))
	for _, s := range g {
		go func(s Service) {
			defer wg.Done()
			err := s.Run(runCtx)
			if err == nil || (errors.Is(err, context.Canceled) && runCtx.Err() != nil) {
				return
			}
			errCh <- fmt.Errorf("%s: %w", s.Name(), err)
			cancelFn()
		}(s)
	}

	<-runCtx.Done()
	wg.Wait()

	var err error
	close(errCh)
	for srvErr := range errCh {
		err = multierror.Append(err, srvErr)
	}
	return err
}

// Func adapts a function to Service.
type Func struct {
	ServiceName string
	RunFunc     func(context.Context) error
}

func (f Func) Name() string { return f.ServiceName }

func (f Func) Run(ctx context.Context) error { return f.RunFunc(ctx) }
