// Package mailer sends transactional emails through SMTP, SendGrid or the
// application log.
package mailer

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Message is one outgoing email. HTML takes precedence over Text when both
// are set and the provider supports only one body.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

func (m Message) validate() error {
	if m.To == "" {
		return fmt.Errorf("recipient email address cannot be empty")
	}
	if m.Subject == "" {
		return fmt.Errorf("email subject cannot be empty")
	}
	if m.HTML == "" && m.Text == "" {
		return fmt.Errorf("email body cannot be empty")
	}
	return nil
}

// Mailer sends emails.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// Config selects and configures a Mailer.
type Config struct {
	Provider       string // smtp, sendgrid or log
	From           string
	SMTPHost       string
	SMTPPort       string
	SMTPUser       string
	SMTPPass       string
	SendGridAPIKey string
}

// New returns the Mailer for cfg.Provider.
func New(cfg Config, logger *zap.Logger) (Mailer, error) {
	switch strings.ToLower(cfg.Provider) {
	case "smtp":
		return NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.From), nil
	case "sendgrid":
		return NewSendGridMailer(cfg.SendGridAPIKey, cfg.From, logger), nil
	case "log", "":
		return NewLogMailer(logger), nil
	default:
		return nil, fmt.Errorf("unknown mail provider %q", cfg.Provider)
	}
}

// LogMailer writes emails to the log instead of delivering them.
type LogMailer struct {
	logger *zap.Logger
}

// NewLogMailer creates a LogMailer.
func NewLogMailer(logger *zap.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

// Send logs msg.
func (l *LogMailer) Send(_ context.Context, msg Message) error {
	if err := msg.validate(); err != nil {
		return err
	}
	body := msg.Text
	if body == "" {
		body = msg.HTML
	}
	l.logger.Info("Email not delivered, MAIL_PROVIDER=log",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("body", body),
	)
	return nil
}
