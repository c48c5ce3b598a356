package core

import (
	"context"
	"strings"

	"github.com/example/storefront/internal/db"
	"github.com/example/storefront/internal/models"
)

type categoryService struct {
	catalog *namedCatalog[models.Category]
}

// NewCategoryService creates a new CategoryService instance.
func NewCategoryService(repo db.CategoryRepository, reads *ReadThrough) CategoryService {
	return &categoryService{catalog: newCategoryCatalog(repo, reads)}
}

func (s *categoryService) List(ctx context.Context) ([]*models.Category, error) {
	return s.catalog.list(ctx)
}

func (s *categoryService) Create(ctx context.Context, req models.CategoryRequest) (*models.Category, error) {
	category := &models.Category{ID: NewID(), Name: strings.TrimSpace(req.Name)}
	if err := s.catalog.create(ctx, category, category.Name); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *categoryService) Update(ctx context.Context, id string, req models.CategoryRequest) (*models.Category, error) {
	name := strings.TrimSpace(req.Name)
	return s.catalog.update(ctx, id, name, func(c *models.Category) {
		c.Name = name
	})
}

func (s *categoryService) Delete(ctx context.Context, id string) error {
	return s.catalog.delete(ctx, id)
}
