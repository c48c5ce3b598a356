package mailer

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

const senderName = "Storefront"

// SendGridMailer sends emails through the SendGrid v3 API.
type SendGridMailer struct {
	apiKey string
	from   string
	logger *zap.Logger
}

// NewSendGridMailer creates a SendGridMailer.
func NewSendGridMailer(apiKey, from string, logger *zap.Logger) *SendGridMailer {
	return &SendGridMailer{apiKey: apiKey, from: from, logger: logger}
}

// Send delivers msg.
func (c *SendGridMailer) Send(ctx context.Context, msg Message) error {
	if c.apiKey == "" {
		return fmt.Errorf("sendgrid api key is empty")
	}
	if c.from == "" {
		return fmt.Errorf("from address is empty")
	}
	if err := msg.validate(); err != nil {
		return err
	}

	message := mail.NewSingleEmail(
		mail.NewEmail(senderName, c.from),
		msg.Subject,
		mail.NewEmail("", msg.To),
		msg.Text,
		msg.HTML,
	)

	response, err := sendgrid.NewSendClient(c.apiKey).SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send error: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid send failed: status=%d, body=%s", response.StatusCode, response.Body)
	}

	c.logger.Info("Mail sent via SendGrid",
		zap.Int("status", response.StatusCode),
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
	)
	return nil
}
