package rod_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pagesift/pagesift"
	"github.com/pagesift/pagesift/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool_Acquire(t *testing.T) {
	t.Parallel()

	t.Run("grants slots up to capacity", func(t *testing.T) {
		t.Parallel()

		pool := rod.NewPool(2, rod.WithAcquireTimeout(50*time.Millisecond))

		require.NoError(t, pool.Acquire(context.Background()))
		require.NoError(t, pool.Acquire(context.Background()))
	})

	t.Run("reports pool exhaustion when no slot frees in time", func(t *testing.T) {
		t.Parallel()

		pool := rod.NewPool(1, rod.WithAcquireTimeout(50*time.Millisecond))
		require.NoError(t, pool.Acquire(context.Background()))

		err := pool.Acquire(context.Background())

		require.Error(t, err)
		assert.Equal(t, pagesift.EPOOLEXHAUSTED, pagesift.ErrorCode(err))
	})

	t.Run("released slots unblock waiting acquirers", func(t *testing.T) {
		t.Parallel()

		pool := rod.NewPool(1, rod.WithAcquireTimeout(5*time.Second))
		require.NoError(t, pool.Acquire(context.Background()))

		var wg sync.WaitGroup
		var acquireErr error
		wg.Add(1)
		go func() {
			defer wg.Done()
			acquireErr = pool.Acquire(context.Background())
		}()

		time.Sleep(20 * time.Millisecond)
		pool.Release()
		wg.Wait()

		require.NoError(t, acquireErr)
	})

	t.Run("caller cancellation is not reported as exhaustion", func(t *testing.T) {
		t.Parallel()

		pool := rod.NewPool(1, rod.WithAcquireTimeout(5*time.Second))
		require.NoError(t, pool.Acquire(context.Background()))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := pool.Acquire(ctx)

		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
		assert.NotEqual(t, pagesift.EPOOLEXHAUSTED, pagesift.ErrorCode(err))
	})

	t.Run("falls back to the default size for invalid sizes", func(t *testing.T) {
		t.Parallel()

		pool := rod.NewPool(0, rod.WithAcquireTimeout(50*time.Millisecond))

		for range rod.DefaultPoolSize {
			require.NoError(t, pool.Acquire(context.Background()))
		}
		err := pool.Acquire(context.Background())
		assert.Equal(t, pagesift.EPOOLEXHAUSTED, pagesift.ErrorCode(err))
	})
}
