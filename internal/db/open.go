package db

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/example/storefront/internal/config"
)

// Open connects to the backend selected by cfg.DBDriver and returns its
// repositories. For MongoDB the unique indexes are ensured on startup.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Repositories, error) {
	switch strings.ToLower(cfg.DBDriver) {
	case config.DriverMongo:
		database, err := ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		if err := CreateIndexes(ctx, database); err != nil {
			_ = database.Client().Disconnect(ctx)
			return nil, err
		}
		logger.Info("Connected to MongoDB", zap.String("database", cfg.MongoDatabase))
		return NewMongoRepositories(database), nil
	case config.DriverFirestore:
		client, err := InitFirestore(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		return NewFirestoreRepositories(client), nil
	case config.DriverMemory:
		logger.Warn("Using in-memory storage, data is lost on restart")
		return NewMemoryRepositories(), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}
