package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/harunnryd/planboard/internal/concurrency"
)

// SignalHandler cancels its context on SIGINT or SIGTERM.
type SignalHandler struct {
	ctx      context.Context
	cancel   context.CancelFunc
	sigChan  chan os.Signal
	routines concurrency.Group
}

func NewSignalHandler(ctx context.Context) *SignalHandler {
	ctx, cancel := context.WithCancel(ctx)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	return &SignalHandler{
		ctx:     ctx,
		cancel:  cancel,
		sigChan: sigChan,
	}
}

func (s *SignalHandler) Context() context.Context {
	return s.ctx
}

func (s *SignalHandler) Start() {
	s.routines.Go("signal-handler", func() {
		select {
		case <-s.sigChan:
			s.cancel()
		case <-s.ctx.Done():
		}
	})
}

func (s *SignalHandler) Stop() {
	signal.Stop(s.sigChan)
	s.cancel()
	s.routines.Wait()
}
