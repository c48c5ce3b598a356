package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/example/storefront/internal/db"
	"github.com/example/storefront/internal/models"
)

// Product listing bounds.
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Product text bounds, checked after trimming.
const (
	minProductText        = 3
	maxProductName        = 200
	maxProductDescription = 1000
)

type productService struct {
	products   db.ProductRepository
	users      db.UserRepository
	categories *namedCatalog[models.Category]
	variants   *namedCatalog[models.Variant]
	sizes      *namedCatalog[models.Size]
	reads      *ReadThrough
	logger     *zap.Logger
	now        func() time.Time
}

// NewProductService creates a new ProductService instance. Category, variant
// and size lists are read through the same cache as their own services.
func NewProductService(repos *db.Repositories, reads *ReadThrough, logger *zap.Logger) ProductService {
	return &productService{
		products:   repos.Products,
		users:      repos.Users,
		categories: newCategoryCatalog(repos.Categories, reads),
		variants:   newVariantCatalog(repos.Variants, reads),
		sizes:      newSizeCatalog(repos.Sizes, reads),
		reads:      reads,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func productKey(id string) string {
	return "catalog:product:" + id
}

func (s *productService) List(ctx context.Context, page, limit int) (*models.ProductPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	items, err := s.products.List(ctx, (page-1)*limit, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	total, err := s.products.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}
	return &models.ProductPage{Items: items, Total: total, Page: page, Limit: limit}, nil
}

func (s *productService) load(ctx context.Context, id string) (*models.Product, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	return fetch(ctx, s.reads, productKey(id), func(ctx context.Context) (*models.Product, error) {
		product, err := s.products.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				return nil, fmt.Errorf("%w: '%s'", ErrProductNotFound, id)
			}
			return nil, fmt.Errorf("failed to get product '%s': %w", id, err)
		}
		return product, nil
	})
}

func (s *productService) Get(ctx context.Context, id string) (*models.ProductView, error) {
	product, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.populate(ctx, product)
}

// populate resolves the references of product. References that no longer
// resolve are left out.
func (s *productService) populate(ctx context.Context, product *models.Product) (*models.ProductView, error) {
	categories, err := s.categories.list(ctx)
	if err != nil {
		return nil, err
	}
	variants, err := s.variants.list(ctx)
	if err != nil {
		return nil, err
	}
	sizes, err := s.sizes.list(ctx)
	if err != nil {
		return nil, err
	}

	view := &models.ProductView{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Discount:    product.Discount,
		Images:      product.Images,
		Variants:    []models.Variant{},
		Sizes:       []models.Size{},
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
	for _, c := range categories {
		if c.ID == product.Category {
			category := *c
			view.Category = &category
			break
		}
	}
	variantByID := make(map[string]*models.Variant, len(variants))
	for _, v := range variants {
		variantByID[v.ID] = v
	}
	for _, id := range product.Variants {
		if v, ok := variantByID[id]; ok {
			view.Variants = append(view.Variants, *v)
		}
	}
	sizeByID := make(map[string]*models.Size, len(sizes))
	for _, sz := range sizes {
		sizeByID[sz.ID] = sz
	}
	for _, id := range product.Sizes {
		if sz, ok := sizeByID[id]; ok {
			view.Sizes = append(view.Sizes, *sz)
		}
	}

	if product.User != "" {
		owner, err := s.users.GetByID(ctx, product.User)
		switch {
		case err == nil:
			view.User = &models.ProductOwner{ID: owner.ID, Name: owner.Name, Email: owner.Email, Image: owner.Image}
		case !errors.Is(err, db.ErrNotFound):
			return nil, fmt.Errorf("failed to get owner of product '%s': %w", product.ID, err)
		}
	}
	return view, nil
}

// checkReferences validates category, variant and size ids, adding every
// failure to fields. A nil slice or nil category means the field is not
// checked.
func (s *productService) checkReferences(ctx context.Context, fields fieldErrors, category *string, variants, sizes []string) error {

	if category != nil {
		if err := checkReference(ctx, s.categories, *category, "category", fields); err != nil {
			return err
		}
	}
	for i, id := range variants {
		if err := checkReference(ctx, s.variants, id, fmt.Sprintf("variants[%d]", i), fields); err != nil {
			return err
		}
	}
	for i, id := range sizes {
		if err := checkReference(ctx, s.sizes, id, fmt.Sprintf("sizes[%d]", i), fields); err != nil {
			return err
		}
	}
	return fields.err("Product validation failed")
}

// checkReference records a field error for a malformed or unknown id and
// returns only storage failures.
func checkReference[T any](ctx context.Context, c *namedCatalog[T], id, field string, fields fieldErrors) error {
	if !ValidID(id) {
		fields.add(field, fmt.Sprintf("Invalid %s id", c.kind))
		return nil
	}
	ok, err := c.exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		fields.add(field, fmt.Sprintf("Not found the %s with the ID", c.kind))
	}
	return nil
}

func (s *productService) Create(ctx context.Context, userID string, req models.CreateProductRequest) (*models.Product, error) {
	name := strings.TrimSpace(req.Name)
	description := strings.TrimSpace(req.Description)
	fields := fieldErrors{}
	fields.length("name", name, minProductText, maxProductName)
	fields.length("description", description, minProductText, maxProductDescription)
	if err := s.checkReferences(ctx, fields, &req.Category, req.Variants, req.Sizes); err != nil {
		return nil, err
	}

	now := s.now()
	images := req.Images
	if images == nil {
		images = []string{}
	}
	product := &models.Product{
		ID:          NewID(),
		Name:        name,
		Description: description,
		Price:       req.Price,
		Discount:    req.Discount,
		Images:      images,
		Category:    req.Category,
		User:        userID,
		Variants:    req.Variants,
		Sizes:       req.Sizes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return product, nil
}

func (s *productService) Update(ctx context.Context, id string, req models.UpdateProductRequest) (*models.Product, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: '%s'", ErrProductNotFound, id)
		}
		return nil, fmt.Errorf("failed to get product '%s': %w", id, err)
	}

	var variants, sizes []string
	if req.Variants != nil {
		variants = *req.Variants
	}
	if req.Sizes != nil {
		sizes = *req.Sizes
	}
	fields := fieldErrors{}
	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		req.Name = &trimmed
		fields.length("name", trimmed, minProductText, maxProductName)
	}
	if req.Description != nil {
		trimmed := strings.TrimSpace(*req.Description)
		req.Description = &trimmed
		fields.length("description", trimmed, minProductText, maxProductDescription)
	}
	if err := s.checkReferences(ctx, fields, req.Category, variants, sizes); err != nil {
		return nil, err
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Discount != nil {
		product.Discount = *req.Discount
	}
	if req.Images != nil {
		product.Images = *req.Images
	}
	if req.Category != nil {
		product.Category = *req.Category
	}
	if req.Variants != nil {
		product.Variants = variants
	}
	if req.Sizes != nil {
		product.Sizes = sizes
	}
	product.UpdatedAt = s.now()

	if err := s.products.Update(ctx, product); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: '%s'", ErrProductNotFound, id)
		}
		return nil, fmt.Errorf("failed to update product '%s': %w", id, err)
	}
	s.reads.invalidate(ctx, productKey(id))
	return product, nil
}

func (s *productService) Delete(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	if err := s.products.Delete(ctx, id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return fmt.Errorf("%w: '%s'", ErrProductNotFound, id)
		}
		return fmt.Errorf("failed to delete product '%s': %w", id, err)
	}
	s.reads.invalidate(ctx, productKey(id))
	return nil
}
