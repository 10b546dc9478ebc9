package pipeline

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeInts(n int) []int {
	items := make([]int, n)
	for i := 0; i < n; i++ {
		items[i] = i
	}
	return items
}

func TestGather_OrderPreservation(t *testing.T) {
	items := makeInts(200)

	got, err := Gather(context.Background(), items, 0, func(_ context.Context, i int) (string, error) {
		time.Sleep(time.Duration(rand.Intn(3)) * time.Millisecond)
		return fmt.Sprintf("item-%d", i), nil
	})
	require.NoError(t, err)

	require.Len(t, got, 200)
	for i, s := range got {
		assert.Equal(t, fmt.Sprintf("item-%d", i), s, "result %d out of order", i)
	}
}

func TestGather_ReverseCompletion(t *testing.T) {
	items := makeInts(5)

	got, err := Gather(context.Background(), items, 0, func(_ context.Context, i int) (int, error) {
		// Later items finish first.
		time.Sleep(time.Duration(5-i) * 10 * time.Millisecond)
		return i * i, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 4, 9, 16}, got)
}

func TestGather_WorkerLimit(t *testing.T) {
	var running, peak atomic.Int32

	got, err := Gather(context.Background(), makeInts(40), 3, func(_ context.Context, i int) (int, error) {
		n := running.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(2 * time.Millisecond)
		running.Add(-1)
		return i, nil
	})
	require.NoError(t, err)
	assert.Equal(t, makeInts(40), got)
	assert.LessOrEqual(t, peak.Load(), int32(3))
}

func TestGather_SingleWorker(t *testing.T) {
	got, err := Gather(context.Background(), makeInts(50), 1, func(_ context.Context, i int) (int, error) {
		return i, nil
	})
	require.NoError(t, err)
	assert.Equal(t, makeInts(50), got)
}

func TestGather_Empty(t *testing.T) {
	called := false
	got, err := Gather(context.Background(), []int{}, 4, func(_ context.Context, i int) (int, error) {
		called = true
		return i, nil
	})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.False(t, called)
}

func TestGather_FirstErrorCancelsRest(t *testing.T) {
	boom := errors.New("boom")
	var canceled atomic.Int32

	start := time.Now()
	got, err := Gather(context.Background(), makeInts(10), 0, func(ctx context.Context, i int) (int, error) {
		if i == 3 {
			return 0, boom
		}
		select {
		case <-ctx.Done():
			canceled.Add(1)
			return 0, ctx.Err()
		case <-time.After(5 * time.Second):
			return i, nil
		}
	})
	require.ErrorIs(t, err, boom)
	assert.Nil(t, got)
	// Calls launched before the failure observe the cancellation; later ones never start.
	assert.LessOrEqual(t, canceled.Load(), int32(9))
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestGather_ParentCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got, err := Gather(ctx, makeInts(3), 0, func(_ context.Context, i int) (int, error) {
		return i, nil
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, got)
}
