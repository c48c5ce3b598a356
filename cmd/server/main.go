package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/example/storefront/internal/api"
	"github.com/example/storefront/internal/config"
	"github.com/example/storefront/internal/core"
	"github.com/example/storefront/internal/crypto"
	"github.com/example/storefront/internal/db"
	"github.com/example/storefront/internal/middleware"
	"github.com/example/storefront/internal/notify"
	"github.com/example/storefront/pkg/cache"
	"github.com/example/storefront/pkg/mailer"
	"github.com/example/storefront/pkg/messagequeue"
)

func main() {
	if os.Getenv("GIN_MODE") != "release" {
		if err := godotenv.Load(); err != nil {
			log.Println("Warning: Error loading .env file:", err)
		}
	}

	appConfig, err := config.LoadConfig()
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

	initCtx, cancelInit := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelInit()

	repos, err := db.Open(initCtx, appConfig, logger)
	if err != nil {
		logger.Fatal("Failed to open database", zap.String("driver", appConfig.DBDriver), zap.Error(err))
	}

	var c cache.Cache = cache.NopCache{}
	if appConfig.RedisAddr != "" {
		client, err := cache.NewRedisClient(initCtx, cache.NewRedisCacheConfig{
			Address:  appConfig.RedisAddr,
			Password: appConfig.RedisPassword,
			DB:       appConfig.RedisDB,
		})
		if err != nil {
			logger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer client.Close()
		c = cache.NewRedisCache(client, time.Minute)
		logger.Info("Redis cache enabled", zap.String("addr", appConfig.RedisAddr))
	} else {
		logger.Warn("REDIS_ADDR not set, catalog caching and logout revocation are disabled")
	}

	// Without a broker, notifications are delivered by a worker in this process.
	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()
	var queue messagequeue.MessageQueue
	if appConfig.RabbitMQURL != "" {
		rabbit, err := messagequeue.NewRabbitMQService(messagequeue.NewRabbitMQServiceConfig{URL: appConfig.RabbitMQURL}, logger)
		if err != nil {
			logger.Fatal("Failed to connect to RabbitMQ", zap.Error(err))
		}
		queue = rabbit
	} else {
		memQueue := messagequeue.NewMemoryQueue()
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
		worker := notify.NewWorker(memQueue, m, logger)
		go func() {
			if err := worker.Run(workerCtx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("Notification worker stopped", zap.Error(err))
			}
		}()
		logger.Info("RABBITMQ_URL not set, running notification worker in process")
		queue = memQueue
	}
	defer queue.Close()

	tokens := crypto.NewTokenManager(appConfig.JWTSecret, appConfig.JWTExpiresIn)
	notifier := notify.NewPublisher(queue)
	reads := core.NewReadThrough(c, core.CatalogCacheTTL, logger)
	products := core.NewProductService(repos, reads, logger)
	services := api.Services{
		Users: core.NewUserService(repos.Users, tokens, c, notifier, core.UserServiceConfig{
			ClientURL: appConfig.ClientURL,
			ResetTTL:  appConfig.PasswordResetTTL,
		}, logger),
		Carts:      core.NewCartService(repos.Users, products, notifier, logger),
		Categories: core.NewCategoryService(repos.Categories, reads),
		Variants:   core.NewVariantService(repos.Variants, reads),
		Sizes:      core.NewSizeService(repos.Sizes, reads),
		Products:   products,
	}

	if appConfig.IsRelease() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	router := gin.New()
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.CORSMiddleware(appConfig))

	api.SetupRoutes(router, services, api.CookieConfig{
		MaxAgeSeconds: int(appConfig.JWTCookieExpiresIn / time.Second),
		Secure:        appConfig.IsRelease(),
	}, logger)

	serverAddr := fmt.Sprintf(":%s", appConfig.Port)
	httpServer := &http.Server{
		Addr:              serverAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("address", serverAddr), zap.String("ginMode", gin.Mode()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	logger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
	stopWorker()
	if err := repos.Close(shutdownCtx); err != nil {
		logger.Error("Failed to close database", zap.Error(err))
	}
	logger.Info("Server exiting gracefully")
}
