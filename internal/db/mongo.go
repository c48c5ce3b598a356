package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/example/storefront/internal/models"
)

const (
	usersCollection      = "users"
	categoriesCollection = "categories"
	variantsCollection   = "variants"
	sizesCollection      = "sizes"
	productsCollection   = "products"
)

// ConnectMongoDB opens a client and returns the named database.
func ConnectMongoDB(ctx context.Context, uri, database string) (*mongo.Database, error) {
	clientOpts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(100).
		SetMinPoolSize(10)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return client.Database(database), nil
}

// NewMongoRepositories builds all repositories on top of database.
func NewMongoRepositories(database *mongo.Database) *Repositories {
	return &Repositories{
		Users:      &mongoUserRepository{col: newMongoCollection[models.User](database.Collection(usersCollection), "user")},
		Categories: &mongoCategoryRepository{col: newMongoCollection[models.Category](database.Collection(categoriesCollection), "category")},
		Variants:   &mongoVariantRepository{col: newMongoCollection[models.Variant](database.Collection(variantsCollection), "variant")},
		Sizes:      &mongoSizeRepository{col: newMongoCollection[models.Size](database.Collection(sizesCollection), "size")},
		Products:   &mongoProductRepository{col: newMongoCollection[models.Product](database.Collection(productsCollection), "product")},
		close: func(ctx context.Context) error {
			return database.Client().Disconnect(ctx)
		},
	}
}

// CreateIndexes creates the unique indexes the services rely on.
func CreateIndexes(ctx context.Context, database *mongo.Database) error {
	unique := func(field string) mongo.IndexModel {
		return mongo.IndexModel{
			Keys:    bson.D{{Key: field, Value: 1}},
			Options: options.Index().SetUnique(true),
		}
	}

	indexes := map[string][]mongo.IndexModel{
		usersCollection: {
			unique("email"),
			{Keys: bson.D{{Key: "passwordResetToken", Value: 1}}},
		},
		categoriesCollection: {unique("name")},
		variantsCollection:   {unique("name")},
		sizesCollection:      {unique("name")},
		productsCollection: {
			{Keys: bson.D{{Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "category", Value: 1}}},
		},
	}

	for collection, idx := range indexes {
		if _, err := database.Collection(collection).Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", collection, err)
		}
	}
	return nil
}
