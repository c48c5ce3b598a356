package notify

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/example/storefront/pkg/mailer"
	"github.com/example/storefront/pkg/messagequeue"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Worker consumes notification events and sends the matching emails.
type Worker struct {
	queue  messagequeue.MessageQueue
	mailer mailer.Mailer
	logger *zap.Logger
}

// NewWorker creates a Worker.
func NewWorker(queue messagequeue.MessageQueue, m mailer.Mailer, logger *zap.Logger) *Worker {
	return &Worker{queue: queue, mailer: m, logger: logger}
}

// Run consumes all notification queues until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return w.queue.Consume(ctx, QueuePasswordReset, w.logged(QueuePasswordReset, w.handlePasswordReset))
	})
	g.Go(func() error {
		return w.queue.Consume(ctx, QueueCartPaid, w.logged(QueueCartPaid, w.handleCartPaid))
	})
	return g.Wait()
}

// logged reports handler failures; the queue decides about redelivery.
func (w *Worker) logged(queueName string, h messagequeue.Handler) messagequeue.Handler {
	return func(ctx context.Context, body []byte) error {
		if err := h(ctx, body); err != nil {
			w.logger.Error("Failed to handle notification", zap.String("queue", queueName), zap.Error(err))
			return err
		}
		return nil
	}
}

func resetSubject(ev PasswordResetEvent) string {
	if ev.ValidMinutes <= 0 {
		return "Your password reset token"
	}
	return fmt.Sprintf("Your password reset token (valid for %d min)", ev.ValidMinutes)
}

func (w *Worker) handlePasswordReset(ctx context.Context, body []byte) error {
	var ev PasswordResetEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("invalid password reset event: %w", err)
	}

	html, err := render("password_reset.html", ev)
	if err != nil {
		return err
	}
	err = w.mailer.Send(ctx, mailer.Message{
		To:      ev.Email,
		Subject: resetSubject(ev),
		HTML:    html,
		Text:    "Forgot your password? Reset it here: " + ev.ResetURL,
	})
	if err != nil {
		return fmt.Errorf("failed to send password reset email: %w", err)
	}
	w.logger.Info("Password reset email sent", zap.String("to", ev.Email))
	return nil
}

func (w *Worker) handleCartPaid(ctx context.Context, body []byte) error {
	var ev CartPaidEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("invalid cart paid event: %w", err)
	}

	html, err := render("cart_paid.html", ev)
	if err != nil {
		return err
	}
	err = w.mailer.Send(ctx, mailer.Message{
		To:      ev.Email,
		Subject: "Thank you for your order",
		HTML:    html,
	})
	if err != nil {
		return fmt.Errorf("failed to send receipt for cart %s: %w", ev.CartID, err)
	}
	w.logger.Info("Receipt email sent", zap.String("to", ev.Email), zap.String("cartId", ev.CartID))
	return nil
}

func render(name string, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}
	return buf.String(), nil
}
