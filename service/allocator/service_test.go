package allocator

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/foamcase/model/types"
	"golang.org/x/sync/errgroup"
)

func TestPool_Acquire(t *testing.T) {
	ctx := context.Background()
	pool := New(WithCapacity(4))
	assert.Equal(t, 4, pool.Capacity())

	lease, err := pool.Acquire(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, pool.InUse())
	assert.NotEmpty(t, lease.ID)

	lease.Release()
	lease.Release()
	assert.Equal(t, 0, pool.InUse())
}

func TestPool_ZeroIsNoop(t *testing.T) {
	pool := New(WithCapacity(1))
	held, err := pool.Acquire(context.Background(), 1)
	require.NoError(t, err)
	defer held.Release()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	lease, err := pool.Acquire(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, lease.CPUs)
	lease.Release()
	assert.Equal(t, 1, pool.InUse())
}

func TestPool_NeverSatisfiable(t *testing.T) {
	pool := New(WithCapacity(2))
	started := time.Now()
	_, err := pool.Acquire(context.Background(), 3)
	assert.True(t, errors.Is(err, types.ErrNeverSatisfiable))
	assert.Less(t, time.Since(started), time.Second)

	_, err = pool.Acquire(context.Background(), -1)
	assert.Error(t, err)
}

func TestPool_CancelledWaitLeaksNothing(t *testing.T) {
	pool := New(WithCapacity(2))
	held, err := pool.Acquire(context.Background(), 2)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = pool.Acquire(ctx, 1)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 2, pool.InUse())

	held.Release()
	lease, err := pool.Acquire(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 2, pool.InUse())
	lease.Release()
}

func TestPool_WaitsForRelease(t *testing.T) {
	pool := New(WithCapacity(2))
	held, err := pool.Acquire(context.Background(), 2)
	require.NoError(t, err)

	granted := make(chan *Lease)
	go func() {
		lease, err := pool.Acquire(context.Background(), 1)
		if err == nil {
			granted <- lease
		}
	}()

	select {
	case <-granted:
		t.Fatal("lease granted while pool exhausted")
	case <-time.After(30 * time.Millisecond):
	}
	held.Release()
	select {
	case lease := <-granted:
		assert.Equal(t, 1, pool.InUse())
		lease.Release()
	case <-time.After(time.Second):
		t.Fatal("lease not granted after release")
	}
}

func TestPool_CapacityNeverExceeded(t *testing.T) {
	const capacity = 4
	pool := New(WithCapacity(capacity))
	var current, peak atomic.Int64
	var mux sync.Mutex

	group, ctx := errgroup.WithContext(context.Background())
	for i := 0; i < 40; i++ {
		n := i%capacity + 1
		group.Go(func() error {
			return pool.With(ctx, n, func(ctx context.Context, lease *Lease) error {
				value := current.Add(int64(lease.CPUs))
				mux.Lock()
				if value > peak.Load() {
					peak.Store(value)
				}
				mux.Unlock()
				time.Sleep(time.Millisecond)
				current.Add(-int64(lease.CPUs))
				return nil
			})
		})
	}
	require.NoError(t, group.Wait())
	assert.LessOrEqual(t, peak.Load(), int64(capacity))
	assert.Equal(t, 0, pool.InUse())
}

func TestPool_WithReleasesOnError(t *testing.T) {
	pool := New(WithCapacity(2))
	expected := errors.New("solver crashed")
	err := pool.With(context.Background(), 2, func(ctx context.Context, lease *Lease) error {
		assert.Equal(t, 2, pool.InUse())
		return expected
	})
	assert.ErrorIs(t, err, expected)
	assert.Equal(t, 0, pool.InUse())

	assert.Panics(t, func() {
		_ = pool.With(context.Background(), 1, func(ctx context.Context, lease *Lease) error {
			panic("boom")
		})
	})
	assert.Equal(t, 0, pool.InUse())
}

func TestNewFromConfig(t *testing.T) {
	assert.Equal(t, 3, NewFromConfig(Config{Capacity: 3}).Capacity())
	assert.Equal(t, DefaultConfig().Capacity, NewFromConfig(Config{}).Capacity())
	assert.Same(t, Default(), Default())
}
