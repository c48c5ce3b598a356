package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/example/storefront/pkg/messagequeue"
)

// Publisher serializes events onto their queues.
type Publisher struct {
	queue messagequeue.MessageQueue
}

// NewPublisher creates a Publisher writing to queue.
func NewPublisher(queue messagequeue.MessageQueue) *Publisher {
	return &Publisher{queue: queue}
}

// PasswordReset publishes ev on QueuePasswordReset.
func (p *Publisher) PasswordReset(ctx context.Context, ev PasswordResetEvent) error {
	return p.publish(ctx, QueuePasswordReset, ev)
}

// CartPaid publishes ev on QueueCartPaid.
func (p *Publisher) CartPaid(ctx context.Context, ev CartPaidEvent) error {
	return p.publish(ctx, QueueCartPaid, ev)
}

func (p *Publisher) publish(ctx context.Context, queueName string, ev interface{}) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", queueName, err)
	}
	if err := p.queue.Publish(ctx, queueName, body); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", queueName, err)
	}
	return nil
}
