package messagequeue

import (
	"context"
	"errors"
)

// ErrClosed is returned when the queue has been closed.
var ErrClosed = errors.New("message queue closed")

// Handler processes one message body. A returned error rejects the message.
type Handler func(ctx context.Context, body []byte) error

// MessageQueue defines the interface for message queue services.
type MessageQueue interface {
	Publish(ctx context.Context, queueName string, body []byte) error
	// Consume delivers messages to handler until ctx is cancelled or the
	// queue is closed.
	Consume(ctx context.Context, queueName string, handler Handler) error
	Close() error
}
