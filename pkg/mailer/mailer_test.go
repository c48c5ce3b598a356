package mailer

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestSMTPMailer_Send(t *testing.T) {
	m := NewSMTPMailer("smtp.mailtrap.io", "2525", "user", "pass", "shop@example.com")

	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte
	m.sendMail = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		return nil
	}

	err := m.Send(context.Background(), Message{To: "jane@example.com", Subject: "Hi", HTML: "<p>Hello</p>"})
	require.NoError(t, err)

	assert.Equal(t, "smtp.mailtrap.io:2525", gotAddr)
	assert.Equal(t, "shop@example.com", gotFrom)
	assert.Equal(t, []string{"jane@example.com"}, gotTo)
	assert.Contains(t, string(gotMsg), "Subject: Hi\r\n")
	assert.Contains(t, string(gotMsg), "Content-Type: text/html; charset=UTF-8")
	assert.True(t, strings.HasSuffix(string(gotMsg), "<p>Hello</p>\r\n"))
}

func TestSMTPMailer_Errors(t *testing.T) {
	ctx := context.Background()
	msg := Message{To: "jane@example.com", Subject: "Hi", Text: "Hello"}

	noCreds := NewSMTPMailer("localhost", "25", "", "", "shop@example.com")
	assert.Error(t, noCreds.Send(ctx, msg))

	failing := NewSMTPMailer("localhost", "25", "user", "pass", "shop@example.com")
	failing.sendMail = func(string, smtp.Auth, string, []string, []byte) error { return errors.New("dial failed") }
	assert.ErrorContains(t, failing.Send(ctx, msg), "dial failed")

	assert.Error(t, failing.Send(ctx, Message{Subject: "Hi", Text: "x"}))
}

func TestBuildMessage_PlainText(t *testing.T) {
	out := string(buildMessage("a@example.com", Message{To: "b@example.com", Subject: "S", Text: "plain"}))
	assert.Contains(t, out, "Content-Type: text/plain; charset=UTF-8")
	assert.Contains(t, out, "\r\n\r\nplain\r\n")
}

func TestLogMailer(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	m := NewLogMailer(zap.New(core))

	require.NoError(t, m.Send(context.Background(), Message{To: "jane@example.com", Subject: "Reset", Text: "link"}))
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "jane@example.com", entry.ContextMap()["to"])
	assert.Equal(t, "link", entry.ContextMap()["body"])
}

func TestNew(t *testing.T) {
	logger := zap.NewNop()

	m, err := New(Config{Provider: "smtp", SMTPHost: "h"}, logger)
	require.NoError(t, err)
	assert.IsType(t, &SMTPMailer{}, m)

	m, err = New(Config{Provider: "sendgrid", SendGridAPIKey: "k"}, logger)
	require.NoError(t, err)
	assert.IsType(t, &SendGridMailer{}, m)

	m, err = New(Config{Provider: "log"}, logger)
	require.NoError(t, err)
	assert.IsType(t, &LogMailer{}, m)

	_, err = New(Config{Provider: "carrier-pigeon"}, logger)
	assert.Error(t, err)
}
