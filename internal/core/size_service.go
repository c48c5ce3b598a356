package core

import (
	"context"
	"strings"

	"github.com/example/storefront/internal/db"
	"github.com/example/storefront/internal/models"
)

type sizeService struct {
	catalog *namedCatalog[models.Size]
}

// NewSizeService creates a new SizeService instance.
func NewSizeService(repo db.SizeRepository, reads *ReadThrough) SizeService {
	return &sizeService{catalog: newSizeCatalog(repo, reads)}
}

func (s *sizeService) List(ctx context.Context) ([]*models.Size, error) {
	return s.catalog.list(ctx)
}

func (s *sizeService) Create(ctx context.Context, req models.SizeRequest) (*models.Size, error) {
	size := &models.Size{ID: NewID(), Name: strings.TrimSpace(req.Name)}
	if err := s.catalog.create(ctx, size, size.Name); err != nil {
		return nil, err
	}
	return size, nil
}

func (s *sizeService) Update(ctx context.Context, id string, req models.SizeRequest) (*models.Size, error) {
	name := strings.TrimSpace(req.Name)
	return s.catalog.update(ctx, id, name, func(sz *models.Size) {
		sz.Name = name
	})
}

func (s *sizeService) Delete(ctx context.Context, id string) error {
	return s.catalog.delete(ctx, id)
}
