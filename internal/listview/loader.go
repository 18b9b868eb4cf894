package listview

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/noah-isme/intranet-portal-client/internal/models"
	"github.com/noah-isme/intranet-portal-client/internal/telemetry"
	"github.com/noah-isme/intranet-portal-client/pkg/eventloop"
	"github.com/noah-isme/intranet-portal-client/pkg/workers"
)

// FetchFunc loads a full dataset. It runs on a worker, never on the loop.
type FetchFunc[T models.Record] func(ctx context.Context) ([]T, error)

// Loader feeds a Controller from the network. Each Load bumps a generation
// counter; responses from older generations are dropped, so the last
// issued request wins.
type Loader[T models.Record] struct {
	name    string
	ctrl    *Controller[T]
	pool    *workers.Pool
	loop    *eventloop.Loop
	metrics *telemetry.Metrics
	logger  *zap.Logger

	// loop-owned
	generation uint64
	cancel     context.CancelFunc
	lastFetch  FetchFunc[T]
	loading    bool
	onFailed   []func(error)
	onLoaded   []func(int)
}

// NewLoader binds ctrl to a worker pool and the event loop. name labels
// metrics and log lines.
func NewLoader[T models.Record](name string, ctrl *Controller[T], pool *workers.Pool, loop *eventloop.Loop, metrics *telemetry.Metrics, logger *zap.Logger) *Loader[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader[T]{
		name:    name,
		ctrl:    ctrl,
		pool:    pool,
		loop:    loop,
		metrics: metrics,
		logger:  logger.With(zap.String("view", name)),
	}
}

// Controller returns the controller being fed.
func (l *Loader[T]) Controller() *Controller[T] { return l.ctrl }

// OnLoadFailed registers a listener run on the loop after a failed load.
// Must be called from the loop.
func (l *Loader[T]) OnLoadFailed(fn func(error)) {
	l.onFailed = append(l.onFailed, fn)
}

// OnLoaded registers a listener run on the loop after a successful load
// with the number of records received. Must be called from the loop.
func (l *Loader[T]) OnLoaded(fn func(int)) {
	l.onLoaded = append(l.onLoaded, fn)
}

// Loading reports whether the latest generation is still outstanding.
// Must be called from the loop.
func (l *Loader[T]) Loading() bool { return l.loading }

// Load supersedes any outstanding request and starts fetch on the pool.
// Safe to call from any goroutine.
func (l *Loader[T]) Load(ctx context.Context, fetch FetchFunc[T]) error {
	return l.loop.Post(func() { l.start(ctx, fetch) })
}

// Reload repeats the most recent fetch.
func (l *Loader[T]) Reload(ctx context.Context) error {
	return l.loop.Post(func() {
		if l.lastFetch != nil {
			l.start(ctx, l.lastFetch)
		}
	})
}

// Cancel abandons the outstanding request, if any.
func (l *Loader[T]) Cancel() error {
	return l.loop.Post(func() {
		if l.cancel != nil {
			l.cancel()
			l.cancel = nil
		}
		l.generation++
		l.loading = false
	})
}

func (l *Loader[T]) start(ctx context.Context, fetch FetchFunc[T]) {
	if l.cancel != nil {
		l.cancel()
	}
	l.generation++
	gen := l.generation
	l.lastFetch = fetch
	l.loading = true

	loadCtx, cancel := context.WithCancel(ctx)
	l.cancel = cancel

	task := func(context.Context) {
		records, err := fetch(loadCtx)
		l.post(func() { l.finish(gen, records, err) })
	}

	// start runs on the loop and workers block posting back to it, so a
	// full pool buffer must never be waited on here.
	err := l.pool.TrySubmit(task)
	if errors.Is(err, workers.ErrPoolFull) {
		go func() {
			if err := l.pool.Submit(task); err != nil {
				l.post(func() { l.finish(gen, nil, err) })
			}
		}()
		return
	}
	if err != nil {
		l.finish(gen, nil, err)
	}
}

func (l *Loader[T]) post(fn func()) {
	if err := l.loop.Post(fn); err != nil {
		l.logger.Debug("dropping load result", zap.Error(err))
	}
}

func (l *Loader[T]) finish(gen uint64, records []T, err error) {
	if gen != l.generation {
		l.metrics.RecordStaleDiscard(l.name)
		l.logger.Debug("discarded stale response", zap.Uint64("generation", gen), zap.Uint64("current", l.generation))
		return
	}
	l.loading = false
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}

	if err != nil {
		l.logger.Warn("list load failed", zap.Error(err))
		l.ctrl.SetDataset(nil)
		for _, fn := range l.onFailed {
			fn(err)
		}
		return
	}

	l.ctrl.SetDataset(records)
	for _, fn := range l.onLoaded {
		fn(len(records))
	}
}
