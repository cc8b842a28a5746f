package growth

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue_FIFOOrder(t *testing.T) {
	q := NewQueue()
	p1 := &Plan{ID: "1"}
	p2 := &Plan{ID: "2"}
	q.Push(p1)
	q.Push(p2)

	first, ok := q.Pop()
	require.True(t, ok)
	assert.Equal(t, "1", first.ID)

	second, ok := q.Pop()
	require.True(t, ok)
	assert.Equal(t, "2", second.ID)

	_, ok = q.Pop()
	assert.False(t, ok)
}

func TestQueue_Len(t *testing.T) {
	q := NewQueue()
	assert.Equal(t, 0, q.Len())
	q.Push(&Plan{ID: "1"})
	assert.Equal(t, 1, q.Len())
}

func TestWorkerPool_DrainsAllPushedPlans(t *testing.T) {
	q := NewQueue()
	var processed int64

	var mu sync.Mutex
	seen := make(map[string]bool)

	pool := NewWorkerPool(q, 4, func(ctx context.Context, p *Plan) {
		atomic.AddInt64(&processed, 1)
		mu.Lock()
		seen[p.ID] = true
		mu.Unlock()
	}, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	pool.Start(ctx)

	for i := 0; i < 20; i++ {
		q.Push(&Plan{ID: string(rune('a' + i))})
	}

	require.Eventually(t, func() bool {
		return atomic.LoadInt64(&processed) == 20
	}, time.Second, 5*time.Millisecond)

	pool.Stop()
	assert.Len(t, seen, 20)
}

func TestWorkerPool_Stop_HaltsWorkers(t *testing.T) {
	q := NewQueue()
	pool := NewWorkerPool(q, 2, func(ctx context.Context, p *Plan) {}, 5*time.Millisecond)

	ctx := context.Background()
	pool.Start(ctx)
	pool.Stop() // must return without hanging
}
