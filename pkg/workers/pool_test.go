package workers

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitBeforeStartFails(t *testing.T) {
	p := NewPool("test", PoolConfig{Workers: 1})
	assert.Error(t, p.Submit(func(context.Context) {}))
}

func TestPoolRunsTasks(t *testing.T) {
	p := NewPool("test", PoolConfig{Workers: 3})
	p.Start(context.Background())
	defer p.Stop()

	var ran int32
	done := make(chan struct{}, 10)
	for i := 0; i < 10; i++ {
		require.NoError(t, p.Submit(func(context.Context) {
			atomic.AddInt32(&ran, 1)
			done <- struct{}{}
		}))
	}
	for i := 0; i < 10; i++ {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("task did not run")
		}
	}
	assert.Equal(t, int32(10), atomic.LoadInt32(&ran))
}

func TestPanickingTaskDoesNotKillWorker(t *testing.T) {
	p := NewPool("test", PoolConfig{Workers: 1})
	p.Start(context.Background())
	defer p.Stop()

	require.NoError(t, p.Submit(func(context.Context) { panic("boom") }))
	done := make(chan struct{})
	require.NoError(t, p.Submit(func(context.Context) { close(done) }))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker died after panic")
	}
}

func TestSubmitAfterStopFails(t *testing.T) {
	p := NewPool("test", PoolConfig{Workers: 1})
	p.Start(context.Background())
	p.Stop()
	assert.Error(t, p.Submit(func(context.Context) {}))
}

func TestTrySubmitReportsFullBuffer(t *testing.T) {
	p := NewPool("test", PoolConfig{Workers: 1, BufferSize: 1})
	p.Start(context.Background())
	defer p.Stop()

	running := make(chan struct{})
	release := make(chan struct{})
	require.NoError(t, p.TrySubmit(func(context.Context) {
		close(running)
		<-release
	}))
	<-running
	require.NoError(t, p.TrySubmit(func(context.Context) {}))

	assert.ErrorIs(t, p.TrySubmit(func(context.Context) {}), ErrPoolFull)
	close(release)
}

func TestTrySubmitBeforeStartFails(t *testing.T) {
	p := NewPool("test", PoolConfig{Workers: 1})
	err := p.TrySubmit(func(context.Context) {})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrPoolFull)
}
