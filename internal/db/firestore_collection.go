package db

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// firestoreCollection holds the document plumbing shared by the Firestore
// repositories. Ids live in the document name, so setID restores them after
// decoding.
type firestoreCollection[T any] struct {
	client *firestore.Client
	name   string
	kind   string
	setID  func(doc *T, id string)
}

func newFirestoreCollection[T any](client *firestore.Client, name, kind string, setID func(*T, string)) firestoreCollection[T] {
	return firestoreCollection[T]{client: client, name: name, kind: kind, setID: setID}
}

func (f firestoreCollection[T]) ref() *firestore.CollectionRef {
	return f.client.Collection(f.name)
}

func (f firestoreCollection[T]) create(ctx context.Context, id string, doc *T) error {
	if id == "" {
		return fmt.Errorf("%s ID cannot be empty for Create operation", f.kind)
	}
	if _, err := f.ref().Doc(id).Create(ctx, doc); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return fmt.Errorf("%s '%s': %w", f.kind, id, ErrDuplicate)
		}
		return fmt.Errorf("failed to create %s '%s': %w", f.kind, id, err)
	}
	return nil
}

func (f firestoreCollection[T]) get(ctx context.Context, id string) (*T, error) {
	if id == "" {
		return nil, fmt.Errorf("%s ID cannot be empty for GetByID operation", f.kind)
	}
	snap, err := f.ref().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("%s with ID '%s' not found: %w", f.kind, id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get %s with ID '%s': %w", f.kind, id, err)
	}
	return f.decode(snap)
}

// first returns the first document matching field == value.
func (f firestoreCollection[T]) first(ctx context.Context, field string, value interface{}) (*T, error) {
	docs, err := f.all(ctx, f.ref().Where(field, "==", value).Limit(1))
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("%s with %s '%v' not found: %w", f.kind, field, value, ErrNotFound)
	}
	return docs[0], nil
}

func (f firestoreCollection[T]) all(ctx context.Context, query firestore.Query) ([]*T, error) {
	iter := query.Documents(ctx)
	defer iter.Stop()

	result := make([]*T, 0)
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate %s documents: %w", f.kind, err)
		}
		doc, err := f.decode(snap)
		if err != nil {
			return nil, err
		}
		result = append(result, doc)
	}
	return result, nil
}

func (f firestoreCollection[T]) count(ctx context.Context, query firestore.Query) (int64, error) {
	iter := query.Documents(ctx)
	defer iter.Stop()

	var n int64
	for {
		_, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("failed to iterate %s documents for counting: %w", f.kind, err)
		}
		n++
	}
	return n, nil
}

// set overwrites an existing document. Missing documents are reported as
// ErrNotFound instead of being created.
func (f firestoreCollection[T]) set(ctx context.Context, id string, doc *T) error {
	if id == "" {
		return fmt.Errorf("%s ID cannot be empty for Update operation", f.kind)
	}
	docRef := f.ref().Doc(id)
	err := f.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(docRef); err != nil {
			return err
		}
		return tx.Set(docRef, doc)
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("%s with ID '%s' not found: %w", f.kind, id, ErrNotFound)
		}
		return fmt.Errorf("failed to update %s with ID '%s': %w", f.kind, id, err)
	}
	return nil
}

func (f firestoreCollection[T]) delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%s ID cannot be empty for Delete operation", f.kind)
	}
	_, err := f.ref().Doc(id).Delete(ctx, firestore.Exists)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("%s with ID '%s' not found for deletion: %w", f.kind, id, ErrNotFound)
		}
		return fmt.Errorf("failed to delete %s with ID '%s': %w", f.kind, id, err)
	}
	return nil
}

func (f firestoreCollection[T]) decode(snap *firestore.DocumentSnapshot) (*T, error) {
	var doc T
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode %s data for ID '%s': %w", f.kind, snap.Ref.ID, err)
	}
	f.setID(&doc, snap.Ref.ID)
	return &doc, nil
}
