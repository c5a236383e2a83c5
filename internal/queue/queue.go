// Package queue holds crawl tasks between the API accepting them and the
// worker executing them. Credentials live only in the in-memory task,
// never in a persisted row.
package queue

import (
	"context"
	"errors"
	"sync"
	"time"
)

var (
	ErrQueueFull   = errors.New("queue is full")
	ErrQueueClosed = errors.New("queue is closed")
)

// Task is one requested crawl run.
type Task struct {
	ID         string
	SupplierID string
	Username   string
	Password   string
	CreatedAt  time.Time
}

type Queue interface {
	Push(task *Task) error
	Pop(ctx context.Context) (*Task, error)
	Size() int
	Close() error
}

// InMemoryQueue is a bounded FIFO queue with blocking Pop.
type InMemoryQueue struct {
	tasks chan *Task

	mu     sync.Mutex
	closed bool
}

func NewInMemoryQueue(capacity int) *InMemoryQueue {
	if capacity < 1 {
		capacity = 64
	}
	return &InMemoryQueue{tasks: make(chan *Task, capacity)}
}

func (q *InMemoryQueue) Push(task *Task) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrQueueClosed
	}
	select {
	case q.tasks <- task:
		return nil
	default:
		return ErrQueueFull
	}
}

// Pop blocks until a task is available, the queue closes, or ctx is
// cancelled.
func (q *InMemoryQueue) Pop(ctx context.Context) (*Task, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case task, ok := <-q.tasks:
		if !ok {
			return nil, ErrQueueClosed
		}
		return task, nil
	}
}

func (q *InMemoryQueue) Size() int {
	return len(q.tasks)
}

// Close rejects further pushes; queued tasks remain poppable until the
// channel drains.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.closed {
		q.closed = true
		close(q.tasks)
	}
	return nil
}
