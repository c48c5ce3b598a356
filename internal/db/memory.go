package db

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/example/storefront/internal/models"
)

// memoryCollection stores documents in process. Documents are copied through
// BSON on every read and write so callers never share state with the store.
type memoryCollection[T any] struct {
	mu     sync.RWMutex
	kind   string
	docs   map[string][]byte
	order  []string
	idOf   func(*T) string
	unique func(*T) string
}

func newMemoryCollection[T any](kind string, idOf, unique func(*T) string) *memoryCollection[T] {
	return &memoryCollection[T]{kind: kind, docs: make(map[string][]byte), idOf: idOf, unique: unique}
}

func (m *memoryCollection[T]) decode(raw []byte) (*T, error) {
	var doc T
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", m.kind, err)
	}
	return &doc, nil
}

// conflict reports whether another document holds the unique value of doc.
// Callers must hold the lock.
func (m *memoryCollection[T]) conflict(doc *T) (bool, error) {
	if m.unique == nil {
		return false, nil
	}
	id, value := m.idOf(doc), m.unique(doc)
	for otherID, raw := range m.docs {
		if otherID == id {
			continue
		}
		other, err := m.decode(raw)
		if err != nil {
			return false, err
		}
		if m.unique(other) == value {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryCollection[T]) insert(_ context.Context, doc *T) error {
	id := m.idOf(doc)
	if id == "" {
		return fmt.Errorf("%s ID cannot be empty for Create operation", m.kind)
	}
	raw, err := bson.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", m.kind, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[id]; ok {
		return fmt.Errorf("%s '%s': %w", m.kind, id, ErrDuplicate)
	}
	if dup, err := m.conflict(doc); err != nil {
		return err
	} else if dup {
		return fmt.Errorf("%s '%s': %w", m.kind, id, ErrDuplicate)
	}
	m.docs[id] = raw
	m.order = append(m.order, id)
	return nil
}

func (m *memoryCollection[T]) get(_ context.Context, id string) (*T, error) {
	m.mu.RLock()
	raw, ok := m.docs[id]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%s with ID '%s' not found: %w", m.kind, id, ErrNotFound)
	}
	return m.decode(raw)
}

func (m *memoryCollection[T]) all(_ context.Context) ([]*T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*T, 0, len(m.order))
	for _, id := range m.order {
		doc, err := m.decode(m.docs[id])
		if err != nil {
			return nil, err
		}
		result = append(result, doc)
	}
	return result, nil
}

func (m *memoryCollection[T]) first(ctx context.Context, match func(*T) bool) (*T, error) {
	docs, err := m.all(ctx)
	if err != nil {
		return nil, err
	}
	for _, doc := range docs {
		if match(doc) {
			return doc, nil
		}
	}
	return nil, fmt.Errorf("%s: %w", m.kind, ErrNotFound)
}

func (m *memoryCollection[T]) replace(_ context.Context, doc *T) error {
	id := m.idOf(doc)
	raw, err := bson.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", m.kind, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[id]; !ok {
		return fmt.Errorf("%s '%s': %w", m.kind, id, ErrNotFound)
	}
	if dup, err := m.conflict(doc); err != nil {
		return err
	} else if dup {
		return fmt.Errorf("%s '%s': %w", m.kind, id, ErrDuplicate)
	}
	m.docs[id] = raw
	return nil
}

func (m *memoryCollection[T]) delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[id]; !ok {
		return fmt.Errorf("%s '%s': %w", m.kind, id, ErrNotFound)
	}
	delete(m.docs, id)
	for i, other := range m.order {
		if other == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

// NewMemoryRepositories returns repositories kept in process memory. Data is
// lost on exit; used for local development and tests.
func NewMemoryRepositories() *Repositories {
	return &Repositories{
		Users: &memoryUserRepository{col: newMemoryCollection[models.User]("user",
			func(u *models.User) string { return u.ID },
			func(u *models.User) string { return u.Email })},
		Categories: &memoryNamedRepository[models.Category]{col: newMemoryCollection[models.Category]("category",
			func(c *models.Category) string { return c.ID },
			func(c *models.Category) string { return c.Name }),
			nameOf: func(c *models.Category) string { return c.Name }},
		Variants: &memoryNamedRepository[models.Variant]{col: newMemoryCollection[models.Variant]("variant",
			func(v *models.Variant) string { return v.ID },
			func(v *models.Variant) string { return v.Name }),
			nameOf: func(v *models.Variant) string { return v.Name }},
		Sizes: &memoryNamedRepository[models.Size]{col: newMemoryCollection[models.Size]("size",
			func(s *models.Size) string { return s.ID },
			func(s *models.Size) string { return s.Name }),
			nameOf: func(s *models.Size) string { return s.Name }},
		Products: &memoryProductRepository{col: newMemoryCollection[models.Product]("product",
			func(p *models.Product) string { return p.ID }, nil)},
	}
}

type memoryUserRepository struct {
	col *memoryCollection[models.User]
}

func (r *memoryUserRepository) Create(ctx context.Context, user *models.User) error {
	return r.col.insert(ctx, user)
}

func (r *memoryUserRepository) GetByID(ctx context.Context, userID string) (*models.User, error) {
	return r.col.get(ctx, userID)
}

func (r *memoryUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.col.first(ctx, func(u *models.User) bool { return u.Email == email })
}

func (r *memoryUserRepository) GetByResetToken(ctx context.Context, tokenHash string) (*models.User, error) {
	return r.col.first(ctx, func(u *models.User) bool {
		return tokenHash != "" && u.PasswordResetToken == tokenHash
	})
}

func (r *memoryUserRepository) List(ctx context.Context) ([]*models.User, error) {
	return r.col.all(ctx)
}

func (r *memoryUserRepository) Update(ctx context.Context, user *models.User) error {
	return r.col.replace(ctx, user)
}

func (r *memoryUserRepository) Delete(ctx context.Context, userID string) error {
	return r.col.delete(ctx, userID)
}

// memoryNamedRepository serves categories, variants and sizes.
type memoryNamedRepository[T any] struct {
	col    *memoryCollection[T]
	nameOf func(*T) string
}

func (r *memoryNamedRepository[T]) Create(ctx context.Context, item *T) error {
	return r.col.insert(ctx, item)
}

func (r *memoryNamedRepository[T]) GetByID(ctx context.Context, id string) (*T, error) {
	return r.col.get(ctx, id)
}

func (r *memoryNamedRepository[T]) GetByName(ctx context.Context, name string) (*T, error) {
	return r.col.first(ctx, func(item *T) bool { return r.nameOf(item) == name })
}

func (r *memoryNamedRepository[T]) List(ctx context.Context) ([]*T, error) {
	items, err := r.col.all(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool { return r.nameOf(items[i]) < r.nameOf(items[j]) })
	return items, nil
}

func (r *memoryNamedRepository[T]) Update(ctx context.Context, item *T) error {
	return r.col.replace(ctx, item)
}

func (r *memoryNamedRepository[T]) Delete(ctx context.Context, id string) error {
	return r.col.delete(ctx, id)
}

type memoryProductRepository struct {
	col *memoryCollection[models.Product]
}

func (r *memoryProductRepository) Create(ctx context.Context, product *models.Product) error {
	return r.col.insert(ctx, product)
}

func (r *memoryProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	return r.col.get(ctx, id)
}

func (r *memoryProductRepository) List(ctx context.Context, skip, limit int) ([]*models.Product, error) {
	products, err := r.col.all(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(products, func(i, j int) bool { return products[i].CreatedAt.After(products[j].CreatedAt) })
	if skip >= len(products) {
		return []*models.Product{}, nil
	}
	end := skip + limit
	if limit <= 0 || end > len(products) {
		end = len(products)
	}
	return products[skip:end], nil
}

func (r *memoryProductRepository) Count(ctx context.Context) (int64, error) {
	products, err := r.col.all(ctx)
	if err != nil {
		return 0, err
	}
	return int64(len(products)), nil
}

func (r *memoryProductRepository) Update(ctx context.Context, product *models.Product) error {
	return r.col.replace(ctx, product)
}

func (r *memoryProductRepository) Delete(ctx context.Context, id string) error {
	return r.col.delete(ctx, id)
}
