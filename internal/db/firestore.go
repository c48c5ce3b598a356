package db

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/example/storefront/internal/config"
	"github.com/example/storefront/internal/models"
)

// InitFirestore initializes the Firebase Admin SDK and returns a Firestore client.
// Credentials come from a file path, a base64 encoded service account or
// Application Default Credentials, in that order.
func InitFirestore(ctx context.Context, appConfig *config.Config, logger *zap.Logger) (*firestore.Client, error) {
	if appConfig == nil {
		return nil, fmt.Errorf("InitFirestore: appConfig cannot be nil")
	}

	var opts []option.ClientOption
	switch {
	case appConfig.GoogleApplicationCredentials != "":
		logger.Info("Initializing Firebase with credentials file", zap.String("path", appConfig.GoogleApplicationCredentials))
		if _, err := os.Stat(appConfig.GoogleApplicationCredentials); os.IsNotExist(err) {
			logger.Warn("Credentials file does not exist", zap.String("path", appConfig.GoogleApplicationCredentials))
		}
		opts = append(opts, option.WithCredentialsFile(appConfig.GoogleApplicationCredentials))
	case appConfig.FirebaseServiceAccountJSONBase64 != "":
		logger.Info("Initializing Firebase with Base64 encoded service account JSON")
		decodedJSON, err := base64.StdEncoding.DecodeString(appConfig.FirebaseServiceAccountJSONBase64)
		if err != nil {
			return nil, fmt.Errorf("failed to decode FirebaseServiceAccountJSONBase64: %w", err)
		}
		opts = append(opts, option.WithCredentialsJSON(decodedJSON))
	default:
		logger.Info("Initializing Firebase using Application Default Credentials")
	}

	var firebaseAppConfig *firebase.Config
	if appConfig.FirebaseProjectID != "" {
		firebaseAppConfig = &firebase.Config{ProjectID: appConfig.FirebaseProjectID}
	}

	app, err := firebase.NewApp(ctx, firebaseAppConfig, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase.NewApp: %w", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("app.Firestore: %w", err)
	}
	logger.Info("Firestore client initialized successfully")
	return client, nil
}

// NewFirestoreRepositories builds all repositories on top of client.
func NewFirestoreRepositories(client *firestore.Client) *Repositories {
	return &Repositories{
		Users: &firestoreUserRepository{col: newFirestoreCollection(client, usersCollection, "user",
			func(u *models.User, id string) { u.ID = id })},
		Categories: &firestoreCategoryRepository{col: newFirestoreCollection(client, categoriesCollection, "category",
			func(c *models.Category, id string) { c.ID = id })},
		Variants: &firestoreVariantRepository{col: newFirestoreCollection(client, variantsCollection, "variant",
			func(v *models.Variant, id string) { v.ID = id })},
		Sizes: &firestoreSizeRepository{col: newFirestoreCollection(client, sizesCollection, "size",
			func(s *models.Size, id string) { s.ID = id })},
		Products: &firestoreProductRepository{col: newFirestoreCollection(client, productsCollection, "product",
			func(p *models.Product, id string) { p.ID = id })},
		close: func(context.Context) error {
			return client.Close()
		},
	}
}
