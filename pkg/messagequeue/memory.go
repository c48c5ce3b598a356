package messagequeue

import (
	"context"
	"sync"
)

const memoryQueueBuffer = 128

// MemoryQueue is an in-process MessageQueue used when no broker is configured.
// Messages are lost on restart.
type MemoryQueue struct {
	mu     sync.Mutex
	queues map[string]chan []byte
	done   chan struct{}
	closed bool
}

// NewMemoryQueue creates an empty MemoryQueue.
func NewMemoryQueue() *MemoryQueue {
	return &MemoryQueue{queues: make(map[string]chan []byte), done: make(chan struct{})}
}

func (q *MemoryQueue) queue(name string) (chan []byte, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return nil, ErrClosed
	}
	ch, ok := q.queues[name]
	if !ok {
		ch = make(chan []byte, memoryQueueBuffer)
		q.queues[name] = ch
	}
	return ch, nil
}

// Publish enqueues a copy of body. It blocks while the queue is full.
func (q *MemoryQueue) Publish(ctx context.Context, queueName string, body []byte) error {
	ch, err := q.queue(queueName)
	if err != nil {
		return err
	}
	msg := append([]byte(nil), body...)
	select {
	case ch <- msg:
		return nil
	case <-q.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Consume delivers messages to handler until ctx is cancelled or Close is called.
func (q *MemoryQueue) Consume(ctx context.Context, queueName string, handler Handler) error {
	ch, err := q.queue(queueName)
	if err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-q.done:
			return ErrClosed
		case msg := <-ch:
			_ = handler(ctx, msg)
		}
	}
}

// Close stops all consumers.
func (q *MemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.closed {
		q.closed = true
		close(q.done)
	}
	return nil
}
