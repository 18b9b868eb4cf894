// Package eventloop provides a single-threaded callback queue. Everything
// touching view state is posted here so it runs serially.
package eventloop

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

// ErrClosed is returned by Post once the loop has stopped.
var ErrClosed = errors.New("event loop closed")

// Loop executes posted callbacks one at a time in submission order.
type Loop struct {
	queue  chan func()
	done   chan struct{}
	logger *zap.Logger

	mu     sync.RWMutex
	closed bool
}

// New returns a loop whose queue holds up to buffer pending callbacks.
func New(buffer int, logger *zap.Logger) *Loop {
	if buffer <= 0 {
		buffer = 64
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loop{
		queue:  make(chan func(), buffer),
		done:   make(chan struct{}),
		logger: logger,
	}
}

// Post enqueues fn. It blocks while the queue is full.
func (l *Loop) Post(fn func()) error {
	if fn == nil {
		return nil
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.closed {
		return ErrClosed
	}
	select {
	case l.queue <- fn:
		return nil
	case <-l.done:
		return ErrClosed
	}
}

// Run drains the queue until ctx is cancelled. Callbacks still queued at
// that point are executed before Run returns.
func (l *Loop) Run(ctx context.Context) {
	defer l.shutdown()
	for {
		select {
		case fn := <-l.queue:
			l.invoke(fn)
		case <-ctx.Done():
			l.drain()
			return
		}
	}
}

// Sync posts fn and waits for it to finish.
func (l *Loop) Sync(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	if err := l.Post(func() {
		defer close(finished)
		fn()
	}); err != nil {
		return err
	}
	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done is closed once Run has returned.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

func (l *Loop) drain() {
	for {
		select {
		case fn := <-l.queue:
			l.invoke(fn)
		default:
			return
		}
	}
}

func (l *Loop) shutdown() {
	close(l.done)
	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()
	l.drain()
}

func (l *Loop) invoke(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("event loop callback panicked", zap.Any("panic", r))
		}
	}()
	fn()
}
