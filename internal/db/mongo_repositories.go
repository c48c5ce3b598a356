package db

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/example/storefront/internal/models"
)

var byName = options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

type mongoUserRepository struct {
	col mongoCollection[models.User]
}

func (r *mongoUserRepository) Create(ctx context.Context, user *models.User) error {
	return r.col.insert(ctx, user.ID, user)
}

func (r *mongoUserRepository) GetByID(ctx context.Context, userID string) (*models.User, error) {
	return r.col.findByID(ctx, userID)
}

func (r *mongoUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.col.findOne(ctx, bson.M{"email": email})
}

func (r *mongoUserRepository) GetByResetToken(ctx context.Context, tokenHash string) (*models.User, error) {
	return r.col.findOne(ctx, bson.M{"passwordResetToken": tokenHash})
}

func (r *mongoUserRepository) List(ctx context.Context) ([]*models.User, error) {
	return r.col.find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
}

func (r *mongoUserRepository) Update(ctx context.Context, user *models.User) error {
	return r.col.replace(ctx, user.ID, user)
}

func (r *mongoUserRepository) Delete(ctx context.Context, userID string) error {
	return r.col.delete(ctx, userID)
}

type mongoCategoryRepository struct {
	col mongoCollection[models.Category]
}

func (r *mongoCategoryRepository) Create(ctx context.Context, category *models.Category) error {
	return r.col.insert(ctx, category.ID, category)
}

func (r *mongoCategoryRepository) GetByID(ctx context.Context, id string) (*models.Category, error) {
	return r.col.findByID(ctx, id)
}

func (r *mongoCategoryRepository) GetByName(ctx context.Context, name string) (*models.Category, error) {
	return r.col.findOne(ctx, bson.M{"name": name})
}

func (r *mongoCategoryRepository) List(ctx context.Context) ([]*models.Category, error) {
	return r.col.find(ctx, bson.M{}, byName)
}

func (r *mongoCategoryRepository) Update(ctx context.Context, category *models.Category) error {
	return r.col.replace(ctx, category.ID, category)
}

func (r *mongoCategoryRepository) Delete(ctx context.Context, id string) error {
	return r.col.delete(ctx, id)
}

type mongoVariantRepository struct {
	col mongoCollection[models.Variant]
}

func (r *mongoVariantRepository) Create(ctx context.Context, variant *models.Variant) error {
	return r.col.insert(ctx, variant.ID, variant)
}

func (r *mongoVariantRepository) GetByID(ctx context.Context, id string) (*models.Variant, error) {
	return r.col.findByID(ctx, id)
}

func (r *mongoVariantRepository) GetByName(ctx context.Context, name string) (*models.Variant, error) {
	return r.col.findOne(ctx, bson.M{"name": name})
}

func (r *mongoVariantRepository) List(ctx context.Context) ([]*models.Variant, error) {
	return r.col.find(ctx, bson.M{}, byName)
}

func (r *mongoVariantRepository) Update(ctx context.Context, variant *models.Variant) error {
	return r.col.replace(ctx, variant.ID, variant)
}

func (r *mongoVariantRepository) Delete(ctx context.Context, id string) error {
	return r.col.delete(ctx, id)
}

type mongoSizeRepository struct {
	col mongoCollection[models.Size]
}

func (r *mongoSizeRepository) Create(ctx context.Context, size *models.Size) error {
	return r.col.insert(ctx, size.ID, size)
}

func (r *mongoSizeRepository) GetByID(ctx context.Context, id string) (*models.Size, error) {
	return r.col.findByID(ctx, id)
}

func (r *mongoSizeRepository) GetByName(ctx context.Context, name string) (*models.Size, error) {
	return r.col.findOne(ctx, bson.M{"name": name})
}

func (r *mongoSizeRepository) List(ctx context.Context) ([]*models.Size, error) {
	return r.col.find(ctx, bson.M{}, byName)
}

func (r *mongoSizeRepository) Update(ctx context.Context, size *models.Size) error {
	return r.col.replace(ctx, size.ID, size)
}

func (r *mongoSizeRepository) Delete(ctx context.Context, id string) error {
	return r.col.delete(ctx, id)
}

type mongoProductRepository struct {
	col mongoCollection[models.Product]
}

func (r *mongoProductRepository) Create(ctx context.Context, product *models.Product) error {
	return r.col.insert(ctx, product.ID, product)
}

func (r *mongoProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	return r.col.findByID(ctx, id)
}

func (r *mongoProductRepository) List(ctx context.Context, skip, limit int) ([]*models.Product, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64(skip)).
		SetLimit(int64(limit))
	return r.col.find(ctx, bson.M{}, opts)
}

func (r *mongoProductRepository) Count(ctx context.Context) (int64, error) {
	return r.col.count(ctx, bson.M{})
}

func (r *mongoProductRepository) Update(ctx context.Context, product *models.Product) error {
	return r.col.replace(ctx, product.ID, product)
}

func (r *mongoProductRepository) Delete(ctx context.Context, id string) error {
	return r.col.delete(ctx, id)
}
