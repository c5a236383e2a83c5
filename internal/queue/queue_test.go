package queue

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryQueue_FIFO(t *testing.T) {
	q := NewInMemoryQueue(4)
	require.NoError(t, q.Push(&Task{ID: "a"}))
	require.NoError(t, q.Push(&Task{ID: "b"}))
	assert.Equal(t, 2, q.Size())

	ctx := context.Background()
	first, err := q.Pop(ctx)
	require.NoError(t, err)
	second, err := q.Pop(ctx)
	require.NoError(t, err)

	assert.Equal(t, "a", first.ID)
	assert.Equal(t, "b", second.ID)
	assert.Equal(t, 0, q.Size())
}

func TestInMemoryQueue_FullRejectsPush(t *testing.T) {
	q := NewInMemoryQueue(1)
	require.NoError(t, q.Push(&Task{ID: "a"}))
	assert.ErrorIs(t, q.Push(&Task{ID: "b"}), ErrQueueFull)
}

func TestInMemoryQueue_PopRespectsContext(t *testing.T) {
	q := NewInMemoryQueue(1)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := q.Pop(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestInMemoryQueue_PopUnblocksOnPush(t *testing.T) {
	q := NewInMemoryQueue(1)
	done := make(chan *Task, 1)
	go func() {
		task, err := q.Pop(context.Background())
		assert.NoError(t, err)
		done <- task
	}()

	time.Sleep(5 * time.Millisecond)
	require.NoError(t, q.Push(&Task{ID: "late"}))

	select {
	case task := <-done:
		assert.Equal(t, "late", task.ID)
	case <-time.After(time.Second):
		t.Fatal("Pop never unblocked")
	}
}

func TestInMemoryQueue_Close(t *testing.T) {
	q := NewInMemoryQueue(2)
	require.NoError(t, q.Push(&Task{ID: "queued"}))
	require.NoError(t, q.Close())
	require.NoError(t, q.Close(), "closing twice is harmless")

	assert.ErrorIs(t, q.Push(&Task{ID: "rejected"}), ErrQueueClosed)

	// queued tasks drain before the closed error surfaces
	task, err := q.Pop(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "queued", task.ID)

	_, err = q.Pop(context.Background())
	assert.ErrorIs(t, err, ErrQueueClosed)
}
