package eventloop

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallbacksRunInOrder(t *testing.T) {
	loop := New(16, nil)
	ctx, cancel := context.WithCancel(context.Background())
	go loop.Run(ctx)
	defer cancel()

	var got []int
	for i := 0; i < 5; i++ {
		i := i
		require.NoError(t, loop.Post(func() { got = append(got, i) }))
	}
	require.NoError(t, loop.Sync(context.Background(), func() {}))
	assert.Equal(t, []int{0, 1, 2, 3, 4}, got)
}

func TestPostFromManyGoroutinesIsSerial(t *testing.T) {
	loop := New(4, nil)
	ctx, cancel := context.WithCancel(context.Background())
	go loop.Run(ctx)
	defer cancel()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = loop.Post(func() { counter++ })
		}()
	}
	wg.Wait()
	require.NoError(t, loop.Sync(context.Background(), func() {}))
	assert.Equal(t, 50, counter)
}

func TestPostAfterStop(t *testing.T) {
	loop := New(1, nil)
	ctx, cancel := context.WithCancel(context.Background())
	go loop.Run(ctx)
	cancel()

	select {
	case <-loop.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop")
	}
	assert.ErrorIs(t, loop.Post(func() {}), ErrClosed)
}

func TestPanicDoesNotStopLoop(t *testing.T) {
	loop := New(4, nil)
	ctx, cancel := context.WithCancel(context.Background())
	go loop.Run(ctx)
	defer cancel()

	require.NoError(t, loop.Post(func() { panic("boom") }))
	ran := false
	require.NoError(t, loop.Sync(context.Background(), func() { ran = true }))
	assert.True(t, ran)
}
