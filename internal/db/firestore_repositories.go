package db

import (
	"context"

	"cloud.google.com/go/firestore"

	"github.com/example/storefront/internal/models"
)

type firestoreUserRepository struct {
	col firestoreCollection[models.User]
}

func (r *firestoreUserRepository) Create(ctx context.Context, user *models.User) error {
	return r.col.create(ctx, user.ID, user)
}

func (r *firestoreUserRepository) GetByID(ctx context.Context, userID string) (*models.User, error) {
	return r.col.get(ctx, userID)
}

func (r *firestoreUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.col.first(ctx, "email", email)
}

func (r *firestoreUserRepository) GetByResetToken(ctx context.Context, tokenHash string) (*models.User, error) {
	return r.col.first(ctx, "passwordResetToken", tokenHash)
}

func (r *firestoreUserRepository) List(ctx context.Context) ([]*models.User, error) {
	return r.col.all(ctx, r.col.ref().OrderBy("createdAt", firestore.Asc))
}

func (r *firestoreUserRepository) Update(ctx context.Context, user *models.User) error {
	return r.col.set(ctx, user.ID, user)
}

func (r *firestoreUserRepository) Delete(ctx context.Context, userID string) error {
	return r.col.delete(ctx, userID)
}

type firestoreCategoryRepository struct {
	col firestoreCollection[models.Category]
}

func (r *firestoreCategoryRepository) Create(ctx context.Context, category *models.Category) error {
	return r.col.create(ctx, category.ID, category)
}

func (r *firestoreCategoryRepository) GetByID(ctx context.Context, id string) (*models.Category, error) {
	return r.col.get(ctx, id)
}

func (r *firestoreCategoryRepository) GetByName(ctx context.Context, name string) (*models.Category, error) {
	return r.col.first(ctx, "name", name)
}

func (r *firestoreCategoryRepository) List(ctx context.Context) ([]*models.Category, error) {
	return r.col.all(ctx, r.col.ref().OrderBy("name", firestore.Asc))
}

func (r *firestoreCategoryRepository) Update(ctx context.Context, category *models.Category) error {
	return r.col.set(ctx, category.ID, category)
}

func (r *firestoreCategoryRepository) Delete(ctx context.Context, id string) error {
	return r.col.delete(ctx, id)
}

type firestoreVariantRepository struct {
	col firestoreCollection[models.Variant]
}

func (r *firestoreVariantRepository) Create(ctx context.Context, variant *models.Variant) error {
	return r.col.create(ctx, variant.ID, variant)
}

func (r *firestoreVariantRepository) GetByID(ctx context.Context, id string) (*models.Variant, error) {
	return r.col.get(ctx, id)
}

func (r *firestoreVariantRepository) GetByName(ctx context.Context, name string) (*models.Variant, error) {
	return r.col.first(ctx, "name", name)
}

func (r *firestoreVariantRepository) List(ctx context.Context) ([]*models.Variant, error) {
	return r.col.all(ctx, r.col.ref().OrderBy("name", firestore.Asc))
}

func (r *firestoreVariantRepository) Update(ctx context.Context, variant *models.Variant) error {
	return r.col.set(ctx, variant.ID, variant)
}

func (r *firestoreVariantRepository) Delete(ctx context.Context, id string) error {
	return r.col.delete(ctx, id)
}

type firestoreSizeRepository struct {
	col firestoreCollection[models.Size]
}

func (r *firestoreSizeRepository) Create(ctx context.Context, size *models.Size) error {
	return r.col.create(ctx, size.ID, size)
}

func (r *firestoreSizeRepository) GetByID(ctx context.Context, id string) (*models.Size, error) {
	return r.col.get(ctx, id)
}

func (r *firestoreSizeRepository) GetByName(ctx context.Context, name string) (*models.Size, error) {
	return r.col.first(ctx, "name", name)
}

func (r *firestoreSizeRepository) List(ctx context.Context) ([]*models.Size, error) {
	return r.col.all(ctx, r.col.ref().OrderBy("name", firestore.Asc))
}

func (r *firestoreSizeRepository) Update(ctx context.Context, size *models.Size) error {
	return r.col.set(ctx, size.ID, size)
}

func (r *firestoreSizeRepository) Delete(ctx context.Context, id string) error {
	return r.col.delete(ctx, id)
}

type firestoreProductRepository struct {
	col firestoreCollection[models.Product]
}

func (r *firestoreProductRepository) Create(ctx context.Context, product *models.Product) error {
	return r.col.create(ctx, product.ID, product)
}

func (r *firestoreProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	return r.col.get(ctx, id)
}

func (r *firestoreProductRepository) List(ctx context.Context, skip, limit int) ([]*models.Product, error) {
	query := r.col.ref().OrderBy("createdAt", firestore.Desc).Offset(skip).Limit(limit)
	return r.col.all(ctx, query)
}

// Count iterates the collection; the aggregation API is not used so the
// emulator and older projects behave the same.
func (r *firestoreProductRepository) Count(ctx context.Context) (int64, error) {
	return r.col.count(ctx, r.col.ref().Query)
}

func (r *firestoreProductRepository) Update(ctx context.Context, product *models.Product) error {
	return r.col.set(ctx, product.ID, product)
}

func (r *firestoreProductRepository) Delete(ctx context.Context, id string) error {
	return r.col.delete(ctx, id)
}
