package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/example/storefront/internal/db"
	"github.com/example/storefront/internal/models"
)

// namedRepository is the storage contract shared by categories, variants and
// sizes.
type namedRepository[T any] interface {
	Create(ctx context.Context, item *T) error
	GetByID(ctx context.Context, id string) (*T, error)
	GetByName(ctx context.Context, name string) (*T, error)
	List(ctx context.Context) ([]*T, error)
	Update(ctx context.Context, item *T) error
	Delete(ctx context.Context, id string) error
}

const maxCatalogNameLength = 50

// namedCatalog holds the rules common to catalog entities with a unique
// name: id checks, name bounds and conflicts, and list caching. Names are
// expected to be trimmed already.
type namedCatalog[T any] struct {
	repo     namedRepository[T]
	reads    *ReadThrough
	kind     string
	minName  int
	notFound error
	idOf     func(*T) string
}

func (c *namedCatalog[T]) listKey() string {
	return "catalog:" + c.kind + ":all"
}

func (c *namedCatalog[T]) label() string {
	return strings.ToUpper(c.kind[:1]) + c.kind[1:]
}

func (c *namedCatalog[T]) nameTaken() error {
	return newFieldError(c.label()+" validation failed", "name", c.label()+" name is already taken")
}

func (c *namedCatalog[T]) checkNameLength(name string) error {
	fields := fieldErrors{}
	fields.length("name", name, c.minName, maxCatalogNameLength)
	return fields.err(c.label() + " validation failed")
}

func (c *namedCatalog[T]) list(ctx context.Context) ([]*T, error) {
	return fetch(ctx, c.reads, c.listKey(), func(ctx context.Context) ([]*T, error) {
		items, err := c.repo.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list %ss: %w", c.kind, err)
		}
		return items, nil
	})
}

func (c *namedCatalog[T]) get(ctx context.Context, id string) (*T, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	item, err := c.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: '%s'", c.notFound, id)
		}
		return nil, fmt.Errorf("failed to get %s '%s': %w", c.kind, id, err)
	}
	return item, nil
}

// checkName fails when name belongs to an entity other than exceptID.
func (c *namedCatalog[T]) checkName(ctx context.Context, name, exceptID string) error {
	existing, err := c.repo.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to look up %s name: %w", c.kind, err)
	}
	if c.idOf(existing) != exceptID {
		return c.nameTaken()
	}
	return nil
}

func (c *namedCatalog[T]) create(ctx context.Context, item *T, name string) error {
	if err := c.checkNameLength(name); err != nil {
		return err
	}
	if err := c.checkName(ctx, name, ""); err != nil {
		return err
	}
	if err := c.repo.Create(ctx, item); err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			return c.nameTaken()
		}
		return fmt.Errorf("failed to create %s: %w", c.kind, err)
	}
	c.reads.invalidate(ctx, c.listKey())
	return nil
}

func (c *namedCatalog[T]) update(ctx context.Context, id string, name string, apply func(*T)) (*T, error) {
	if err := c.checkNameLength(name); err != nil {
		return nil, err
	}
	item, err := c.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := c.checkName(ctx, name, id); err != nil {
		return nil, err
	}
	apply(item)
	if err := c.repo.Update(ctx, item); err != nil {
		switch {
		case errors.Is(err, db.ErrNotFound):
			return nil, fmt.Errorf("%w: '%s'", c.notFound, id)
		case errors.Is(err, db.ErrDuplicate):
			return nil, c.nameTaken()
		}
		return nil, fmt.Errorf("failed to update %s '%s': %w", c.kind, id, err)
	}
	c.reads.invalidate(ctx, c.listKey())
	return item, nil
}

func (c *namedCatalog[T]) delete(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	if err := c.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return fmt.Errorf("%w: '%s'", c.notFound, id)
		}
		return fmt.Errorf("failed to delete %s '%s': %w", c.kind, id, err)
	}
	c.reads.invalidate(ctx, c.listKey())
	return nil
}

// exists reports whether id refers to a stored entity. Malformed ids report
// ErrInvalidID.
func (c *namedCatalog[T]) exists(ctx context.Context, id string) (bool, error) {
	_, err := c.get(ctx, id)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, c.notFound):
		return false, nil
	default:
		return false, err
	}
}

func newCategoryCatalog(repo db.CategoryRepository, reads *ReadThrough) *namedCatalog[models.Category] {
	return &namedCatalog[models.Category]{
		repo:     repo,
		reads:    reads,
		kind:     "category",
		minName:  3,
		notFound: ErrCategoryNotFound,
		idOf:     func(c *models.Category) string { return c.ID },
	}
}

func newVariantCatalog(repo db.VariantRepository, reads *ReadThrough) *namedCatalog[models.Variant] {
	return &namedCatalog[models.Variant]{
		repo:     repo,
		reads:    reads,
		kind:     "variant",
		minName:  3,
		notFound: ErrVariantNotFound,
		idOf:     func(v *models.Variant) string { return v.ID },
	}
}

func newSizeCatalog(repo db.SizeRepository, reads *ReadThrough) *namedCatalog[models.Size] {
	return &namedCatalog[models.Size]{
		repo:     repo,
		reads:    reads,
		kind:     "size",
		minName:  1,
		notFound: ErrSizeNotFound,
		idOf:     func(s *models.Size) string { return s.ID },
	}
}
