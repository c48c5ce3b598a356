package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/example/storefront/pkg/mailer"
	"github.com/example/storefront/pkg/messagequeue"
)

type recordingMailer struct {
	mu   sync.Mutex
	sent []mailer.Message
	err  error
}

func (m *recordingMailer) Send(_ context.Context, msg mailer.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *recordingMailer) messages() []mailer.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]mailer.Message(nil), m.sent...)
}

func TestWorker_DeliversPublishedEvents(t *testing.T) {
	queue := messagequeue.NewMemoryQueue()
	defer queue.Close()
	m := &recordingMailer{}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = NewWorker(queue, m, zap.NewNop()).Run(ctx) }()

	pub := NewPublisher(queue)
	require.NoError(t, pub.PasswordReset(ctx, PasswordResetEvent{
		Email:        "jane@example.com",
		Name:         "Jane",
		ResetURL:     "http://localhost:3000/reset-password/abc",
		ExpiresAt:    time.Now().Add(30 * time.Minute),
		ValidMinutes: 30,
	}))
	require.NoError(t, pub.CartPaid(ctx, CartPaidEvent{
		Email:  "jane@example.com",
		Name:   "Jane",
		CartID: "c1",
		Items:  []CartPaidLine{{Product: "Sneaker", Quantity: 2, UnitPrice: "45.00", LineTotal: "90.00"}},
		Total:  "90.00",
	}))

	require.Eventually(t, func() bool { return len(m.messages()) == 2 }, time.Second, 10*time.Millisecond)

	bySubject := map[string]mailer.Message{}
	for _, msg := range m.messages() {
		bySubject[msg.Subject] = msg
	}

	reset := bySubject["Your password reset token (valid for 30 min)"]
	assert.Equal(t, "jane@example.com", reset.To)
	assert.Contains(t, reset.HTML, "http://localhost:3000/reset-password/abc")

	receipt := bySubject["Thank you for your order"]
	assert.Contains(t, receipt.HTML, "Sneaker")
	assert.Contains(t, receipt.HTML, "90.00")
}

func TestWorker_HandlerErrors(t *testing.T) {
	w := NewWorker(messagequeue.NewMemoryQueue(), &recordingMailer{err: errors.New("smtp down")}, zap.NewNop())

	assert.Error(t, w.handlePasswordReset(context.Background(), []byte("{not json")))
	assert.ErrorContains(t, w.handleCartPaid(context.Background(), []byte(`{"email":"a@b.c","cartId":"c1"}`)), "smtp down")
}

func TestResetSubject_FollowsTokenLifetime(t *testing.T) {
	assert.Equal(t, "Your password reset token (valid for 45 min)", resetSubject(PasswordResetEvent{ValidMinutes: 45}))
	assert.Equal(t, "Your password reset token", resetSubject(PasswordResetEvent{}))
}

func TestRender_EscapesHTML(t *testing.T) {
	out, err := render("cart_paid.html", CartPaidEvent{Name: "<script>x</script>"})
	require.NoError(t, err)
	assert.NotContains(t, out, "<script>")
}
