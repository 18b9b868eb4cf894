package listview

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/intranet-portal-client/internal/models"
	"github.com/noah-isme/intranet-portal-client/internal/telemetry"
	appErrors "github.com/noah-isme/intranet-portal-client/pkg/errors"
	"github.com/noah-isme/intranet-portal-client/pkg/eventloop"
	"github.com/noah-isme/intranet-portal-client/pkg/workers"
)

type harness struct {
	loop    *eventloop.Loop
	pool    *workers.Pool
	metrics *telemetry.Metrics
	loader  *Loader[models.Notice]
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	loop := eventloop.New(16, nil)
	go loop.Run(ctx)
	pool := workers.NewPool("test", workers.PoolConfig{Workers: 2})
	pool.Start(ctx)
	t.Cleanup(func() {
		pool.Stop()
		cancel()
		<-loop.Done()
	})

	metrics := telemetry.New()
	ctrl := NewController[models.Notice](WithPageSize(5))
	return &harness{
		loop:    loop,
		pool:    pool,
		metrics: metrics,
		loader:  NewLoader("notices", ctrl, pool, loop, metrics, nil),
	}
}

// onLoop reads controller state from the loop goroutine.
func (h *harness) onLoop(t *testing.T, fn func()) {
	t.Helper()
	require.NoError(t, h.loop.Sync(context.Background(), fn))
}

func (h *harness) waitIdle(t *testing.T) {
	t.Helper()
	require.Eventually(t, func() bool {
		loading := true
		h.onLoop(t, func() { loading = h.loader.Loading() })
		return !loading
	}, 2*time.Second, 5*time.Millisecond)
}

func TestLoaderSetsDataset(t *testing.T) {
	h := newHarness(t)
	loaded := make(chan int, 1)
	h.onLoop(t, func() { h.loader.OnLoaded(func(n int) { loaded <- n }) })

	require.NoError(t, h.loader.Load(context.Background(), func(ctx context.Context) ([]models.Notice, error) {
		return notices(12), nil
	}))

	select {
	case n := <-loaded:
		assert.Equal(t, 12, n)
	case <-time.After(2 * time.Second):
		t.Fatal("load did not complete")
	}
	h.onLoop(t, func() {
		assert.Equal(t, 12, h.loader.Controller().Len())
		assert.Equal(t, 3, h.loader.Controller().PageCount())
	})
}

func TestLoaderFailureFallsBackToEmptyDataset(t *testing.T) {
	h := newHarness(t)
	failed := make(chan error, 1)
	h.onLoop(t, func() {
		h.loader.Controller().SetDataset(notices(4))
		h.loader.OnLoadFailed(func(err error) { failed <- err })
	})

	require.NoError(t, h.loader.Load(context.Background(), func(ctx context.Context) ([]models.Notice, error) {
		return nil, appErrors.ErrMalformedResponse
	}))

	select {
	case err := <-failed:
		assert.True(t, errors.Is(err, appErrors.ErrMalformedResponse))
	case <-time.After(2 * time.Second):
		t.Fatal("failure listener not called")
	}
	h.onLoop(t, func() {
		assert.Zero(t, h.loader.Controller().Len())
		assert.Equal(t, 1, h.loader.Controller().PageCount())
	})
}

func TestLoaderDiscardsStaleResponse(t *testing.T) {
	h := newHarness(t)
	release := make(chan struct{})
	firstCancelled := make(chan struct{})

	require.NoError(t, h.loader.Load(context.Background(), func(ctx context.Context) ([]models.Notice, error) {
		<-ctx.Done()
		close(firstCancelled)
		<-release
		return notices(30), nil
	}))
	require.NoError(t, h.loader.Load(context.Background(), func(ctx context.Context) ([]models.Notice, error) {
		return notices(2), nil
	}))

	select {
	case <-firstCancelled:
	case <-time.After(2 * time.Second):
		t.Fatal("superseded load was not cancelled")
	}
	h.waitIdle(t)
	close(release)

	require.Eventually(t, func() bool {
		return h.metrics.Snapshot().StaleDiscards == 1
	}, 2*time.Second, 5*time.Millisecond)
	h.onLoop(t, func() {
		assert.Equal(t, 2, h.loader.Controller().Len())
	})
}

func TestLoaderReloadRepeatsLastFetch(t *testing.T) {
	h := newHarness(t)
	calls := make(chan struct{}, 2)
	fetch := func(ctx context.Context) ([]models.Notice, error) {
		calls <- struct{}{}
		return notices(1), nil
	}
	require.NoError(t, h.loader.Load(context.Background(), fetch))
	<-calls
	h.waitIdle(t)

	require.NoError(t, h.loader.Reload(context.Background()))
	select {
	case <-calls:
	case <-time.After(2 * time.Second):
		t.Fatal("reload did not fetch")
	}
}

func TestLoaderCancelDropsResult(t *testing.T) {
	h := newHarness(t)
	release := make(chan struct{})
	require.NoError(t, h.loader.Load(context.Background(), func(ctx context.Context) ([]models.Notice, error) {
		<-release
		return notices(3), nil
	}))
	require.NoError(t, h.loader.Cancel())
	close(release)

	require.Eventually(t, func() bool {
		return h.metrics.Snapshot().StaleDiscards == 1
	}, 2*time.Second, 5*time.Millisecond)
	h.onLoop(t, func() { assert.Zero(t, h.loader.Controller().Len()) })
}

func TestLoaderBurstDoesNotStallLoop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	loop := eventloop.New(4, nil)
	go loop.Run(ctx)
	pool := workers.NewPool("burst", workers.PoolConfig{Workers: 1, BufferSize: 1})
	pool.Start(ctx)
	t.Cleanup(func() {
		pool.Stop()
		cancel()
		<-loop.Done()
	})

	metrics := telemetry.New()
	loaders := make([]*Loader[models.Notice], 500)
	for i := range loaders {
		loaders[i] = NewLoader("notices", NewController[models.Notice](), pool, loop, metrics, nil)
	}

	issued := make(chan struct{})
	go func() {
		defer close(issued)
		for _, l := range loaders {
			_ = l.Load(ctx, func(context.Context) ([]models.Notice, error) {
				time.Sleep(time.Millisecond)
				return notices(1), nil
			})
		}
	}()
	select {
	case <-issued:
	case <-time.After(5 * time.Second):
		t.Fatal("loop stopped accepting loads")
	}

	require.Eventually(t, func() bool {
		settled := true
		syncCtx, stop := context.WithTimeout(ctx, time.Second)
		defer stop()
		err := loop.Sync(syncCtx, func() {
			for _, l := range loaders {
				if l.Loading() || l.Controller().Len() != 1 {
					settled = false
					return
				}
			}
		})
		return err == nil && settled
	}, 10*time.Second, 20*time.Millisecond)
}
