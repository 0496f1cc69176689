/*
Copyright 2026 Alexandre Mahdhaoui

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package gracefulshutdown

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// GracefulShutdown ties the lifetime of long-running workers to a signal-aware context.
//
// The context is cancelled on SIGTERM, SIGINT, an explicit Shutdown call, or when any worker returns. Wait blocks
// until every worker has returned and reports the exit code of the process.
type GracefulShutdown struct {
	ctx    context.Context
	cancel context.CancelFunc
	name   string

	wg sync.WaitGroup

	mu       sync.Mutex
	exitCode int
}

// New returns a GracefulShutdown whose context is derived from parent and cancelled on SIGTERM or SIGINT.
func New(parent context.Context, name string) *GracefulShutdown {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGTERM, os.Interrupt)

	return &GracefulShutdown{
		ctx:    ctx,
		cancel: stop,
		name:   name,
	}
}

// Context returns the context shared by every worker.
func (s *GracefulShutdown) Context() context.Context {
	return s.ctx
}

// Go runs fn in a tracked goroutine.
//
// A worker returning a non-nil error other than context.Canceled sets the exit code to 1. Any returning worker
// initiates the shutdown of the others.
func (s *GracefulShutdown) Go(worker string, fn func(ctx context.Context) error) {
	s.wg.Add(1)

	go func() {
		defer s.wg.Done()

		err := fn(s.ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			slog.ErrorContext(s.ctx, "worker failed", "name", s.name, "worker", worker, "error", err.Error())
			s.Shutdown(1)

			return
		}

		s.Shutdown(0)
	}()
}

// Shutdown cancels the shared context. The highest exit code requested wins.
func (s *GracefulShutdown) Shutdown(exitCode int) {
	s.mu.Lock()
	if exitCode > s.exitCode {
		s.exitCode = exitCode
	}
	s.mu.Unlock()

	s.cancel()
}

// Wait blocks until the context is cancelled and every worker has returned, then returns the exit code.
func (s *GracefulShutdown) Wait() int {
	<-s.ctx.Done()

	slog.Info("gracefully shutting down", "name", s.name)

	s.wg.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.exitCode
}
