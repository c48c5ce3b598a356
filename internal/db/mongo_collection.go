package db

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongoCollection holds the CRUD plumbing shared by the typed repositories.
// Documents use their string id as _id.
type mongoCollection[T any] struct {
	collection *mongo.Collection
	kind       string
}

func newMongoCollection[T any](collection *mongo.Collection, kind string) mongoCollection[T] {
	return mongoCollection[T]{collection: collection, kind: kind}
}

func (m mongoCollection[T]) insert(ctx context.Context, id string, doc *T) error {
	if id == "" {
		return fmt.Errorf("%s ID cannot be empty for Create operation", m.kind)
	}
	if _, err := m.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%s '%s': %w", m.kind, id, ErrDuplicate)
		}
		return fmt.Errorf("failed to create %s '%s': %w", m.kind, id, err)
	}
	return nil
}

func (m mongoCollection[T]) findOne(ctx context.Context, filter bson.M) (*T, error) {
	var doc T
	if err := m.collection.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%s matching %v: %w", m.kind, filter, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get %s: %w", m.kind, err)
	}
	return &doc, nil
}

func (m mongoCollection[T]) findByID(ctx context.Context, id string) (*T, error) {
	if id == "" {
		return nil, fmt.Errorf("%s ID cannot be empty for GetByID operation", m.kind)
	}
	return m.findOne(ctx, bson.M{"_id": id})
}

func (m mongoCollection[T]) find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]*T, error) {
	cursor, err := m.collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s documents: %w", m.kind, err)
	}
	defer cursor.Close(ctx)

	var docs []T
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode %s documents: %w", m.kind, err)
	}

	result := make([]*T, 0, len(docs))
	for i := range docs {
		result = append(result, &docs[i])
	}
	return result, nil
}

func (m mongoCollection[T]) replace(ctx context.Context, id string, doc *T) error {
	if id == "" {
		return fmt.Errorf("%s ID cannot be empty for Update operation", m.kind)
	}
	result, err := m.collection.ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%s '%s': %w", m.kind, id, ErrDuplicate)
		}
		return fmt.Errorf("failed to update %s '%s': %w", m.kind, id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%s '%s': %w", m.kind, id, ErrNotFound)
	}
	return nil
}

func (m mongoCollection[T]) delete(ctx context.Context, id string) error {
	result, err := m.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete %s '%s': %w", m.kind, id, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%s '%s': %w", m.kind, id, ErrNotFound)
	}
	return nil
}

func (m mongoCollection[T]) count(ctx context.Context, filter bson.M) (int64, error) {
	n, err := m.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count %s documents: %w", m.kind, err)
	}
	return n, nil
}
