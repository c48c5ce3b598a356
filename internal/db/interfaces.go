package db

import (
	"context"

	"github.com/example/storefront/internal/models"
)

// UserRepository defines the interface for user data storage operations.
// Carts are embedded in the user document and persisted by Update.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, userID string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByResetToken(ctx context.Context, tokenHash string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, userID string) error
}

// CategoryRepository defines the interface for category storage operations.
type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id string) (*models.Category, error)
	GetByName(ctx context.Context, name string) (*models.Category, error)
	List(ctx context.Context) ([]*models.Category, error)
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id string) error
}

// VariantRepository defines the interface for variant storage operations.
type VariantRepository interface {
	Create(ctx context.Context, variant *models.Variant) error
	GetByID(ctx context.Context, id string) (*models.Variant, error)
	GetByName(ctx context.Context, name string) (*models.Variant, error)
	List(ctx context.Context) ([]*models.Variant, error)
	Update(ctx context.Context, variant *models.Variant) error
	Delete(ctx context.Context, id string) error
}

// SizeRepository defines the interface for size storage operations.
type SizeRepository interface {
	Create(ctx context.Context, size *models.Size) error
	GetByID(ctx context.Context, id string) (*models.Size, error)
	GetByName(ctx context.Context, name string) (*models.Size, error)
	List(ctx context.Context) ([]*models.Size, error)
	Update(ctx context.Context, size *models.Size) error
	Delete(ctx context.Context, id string) error
}

// ProductRepository defines the interface for product storage operations.
type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id string) (*models.Product, error)
	// List returns products newest first.
	List(ctx context.Context, skip, limit int) ([]*models.Product, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id string) error
}

// Repositories bundles the repositories of one storage backend.
type Repositories struct {
	Users      UserRepository
	Categories CategoryRepository
	Variants   VariantRepository
	Sizes      SizeRepository
	Products   ProductRepository

	close func(ctx context.Context) error
}

// Close releases the underlying database client.
func (r *Repositories) Close(ctx context.Context) error {
	if r.close == nil {
		return nil
	}
	return r.close(ctx)
}
