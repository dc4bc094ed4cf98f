package translator

import (
	"context"
	"errors"
	"math/rand"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBatcherMinimumSize(t *testing.T) {
	assert.Equal(t, 1, NewBatcher(0).Size())
	assert.Equal(t, 1, NewBatcher(-3).Size())
	assert.Equal(t, 8, NewBatcher(8).Size())
}

func TestBatcherAcquireRespectsContext(t *testing.T) {
	b := NewBatcher(1)
	require.NoError(t, b.Acquire(context.Background()))
	assert.Equal(t, 1, b.InFlight())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, b.Acquire(ctx), context.DeadlineExceeded)

	b.Release()
	assert.Equal(t, 0, b.InFlight())
}

func TestRunKeepsInputOrder(t *testing.T) {
	items := make([]int, 50)
	for i := range items {
		items[i] = i
	}
	delays := rand.New(rand.NewSource(1))
	sleeps := make([]time.Duration, len(items))
	for i := range sleeps {
		sleeps[i] = time.Duration(delays.Intn(5)) * time.Millisecond
	}

	results, err := Run(context.Background(), NewBatcher(8), items, func(_ context.Context, i, item int) (int, error) {
		time.Sleep(sleeps[i])
		return item * 10, nil
	})
	require.NoError(t, err)
	for i, r := range results {
		assert.Equal(t, i*10, r)
	}
}

func TestRunBoundsConcurrency(t *testing.T) {
	for _, size := range []int{1, 3} {
		b := NewBatcher(size)
		var current, peak atomic.Int32

		_, err := Run(context.Background(), b, make([]struct{}, 20), func(context.Context, int, struct{}) (struct{}, error) {
			n := current.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(2 * time.Millisecond)
			current.Add(-1)
			return struct{}{}, nil
		})
		require.NoError(t, err)
		assert.LessOrEqual(t, int(peak.Load()), size)
		assert.Equal(t, 0, b.InFlight(), "所有许可都应归还")
	}
}

func TestRunFailFast(t *testing.T) {
	boom := errors.New("boom")
	var started atomic.Int32

	b := NewBatcher(1)
	_, err := Run(context.Background(), b, make([]int, 10), func(_ context.Context, i, _ int) (int, error) {
		started.Add(1)
		if i == 2 {
			return 0, boom
		}
		time.Sleep(50 * time.Millisecond)
		return i, nil
	})
	require.ErrorIs(t, err, boom)
	assert.Less(t, int(started.Load()), 10, "失败后不应继续派发全部任务")

	// 已开始的任务结束后许可应全部归还
	assert.Eventually(t, func() bool { return b.InFlight() == 0 }, time.Second, 10*time.Millisecond)
}

func TestRunCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b := NewBatcher(1)
	require.NoError(t, b.Acquire(context.Background()))
	defer b.Release()

	_, err := Run(ctx, b, []int{1, 2}, func(context.Context, int, int) (int, error) {
		return 0, nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunEmpty(t *testing.T) {
	results, err := Run(context.Background(), NewBatcher(2), []string(nil), func(context.Context, int, string) (string, error) {
		t.Fatal("不应被调用")
		return "", nil
	})
	require.NoError(t, err)
	assert.Empty(t, results)
}
