package core

import (
	"context"
	"strings"

	"github.com/example/storefront/internal/db"
	"github.com/example/storefront/internal/models"
)

type variantService struct {
	catalog *namedCatalog[models.Variant]
}

// NewVariantService creates a new VariantService instance.
func NewVariantService(repo db.VariantRepository, reads *ReadThrough) VariantService {
	return &variantService{catalog: newVariantCatalog(repo, reads)}
}

func (s *variantService) List(ctx context.Context) ([]*models.Variant, error) {
	return s.catalog.list(ctx)
}

func (s *variantService) Create(ctx context.Context, req models.VariantRequest) (*models.Variant, error) {
	variant := &models.Variant{
		ID:       NewID(),
		Name:     strings.TrimSpace(req.Name),
		ColorHex: strings.ToLower(req.ColorHex),
	}
	if err := s.catalog.create(ctx, variant, variant.Name); err != nil {
		return nil, err
	}
	return variant, nil
}

func (s *variantService) Update(ctx context.Context, id string, req models.VariantRequest) (*models.Variant, error) {
	name := strings.TrimSpace(req.Name)
	return s.catalog.update(ctx, id, name, func(v *models.Variant) {
		v.Name = name
		v.ColorHex = strings.ToLower(req.ColorHex)
	})
}

func (s *variantService) Delete(ctx context.Context, id string) error {
	return s.catalog.delete(ctx, id)
}
