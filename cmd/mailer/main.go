package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/example/storefront/internal/config"
	"github.com/example/storefront/internal/notify"
	"github.com/example/storefront/pkg/mailer"
	"github.com/example/storefront/pkg/messagequeue"
)

// The mailer consumes notification events from RabbitMQ and sends the
// corresponding emails.
func main() {
	if os.Getenv("GIN_MODE") != "release" {
		if err := godotenv.Load(); err != nil {
			log.Println("Warning: Error loading .env file:", err)
		}
	}

	appConfig, err := config.LoadWorkerConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	var logger *zap.Logger
	if appConfig.IsRelease() {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("Failed to initialize zap logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	queue, err := messagequeue.NewRabbitMQService(messagequeue.NewRabbitMQServiceConfig{URL: appConfig.RabbitMQURL}, logger)
	if err != nil {
		logger.Fatal("Failed to connect to RabbitMQ", zap.Error(err))
	}
	defer queue.Close()

	m, err := mailer.New(mailer.Config{
		Provider:       appConfig.MailProvider,
		From:           appConfig.MailFrom,
		SMTPHost:       appConfig.SMTPHost,
		SMTPPort:       appConfig.SMTPPort,
		SMTPUser:       appConfig.SMTPUser,
		SMTPPass:       appConfig.SMTPPass,
		SendGridAPIKey: appConfig.SendGridAPIKey,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to create mailer", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Mailer worker started", zap.String("provider", appConfig.MailProvider))
	if err := notify.NewWorker(queue, m, logger).Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Mailer worker stopped", zap.Error(err))
		return
	}
	logger.Info("Mailer worker exiting")
}
