package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPoolRunsAllSubmittedTasks(t *testing.T) {
	pool := New(3)

	var counter atomic.Int64
	for i := 0; i < 50; i++ {
		pool.Submit(func() {
			counter.Add(1)
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, pool.Close(ctx))
	require.Equal(t, int64(50), counter.Load())
}

func TestPoolRunsInlineWhenSaturated(t *testing.T) {
	pool := New(1)

	block := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	pool.Submit(func() {
		defer wg.Done()
		<-block
	})

	// The single slot is held, so this submission must run on the caller.
	ran := false
	pool.Submit(func() { ran = true })
	require.True(t, ran)

	close(block)
	wg.Wait()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, pool.Close(ctx))
}

func TestPoolCloseHonorsContext(t *testing.T) {
	pool := New(1)

	release := make(chan struct{})
	pool.Submit(func() { <-release })

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	require.Error(t, pool.Close(ctx))

	close(release)
}

func TestPoolDefaultSize(t *testing.T) {
	pool := New(0)

	done := make(chan struct{})
	pool.Submit(func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("task did not run")
	}
}
