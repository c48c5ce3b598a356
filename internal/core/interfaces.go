package core

import (
	"context"

	"github.com/example/storefront/internal/crypto"
	"github.com/example/storefront/internal/models"
	"github.com/example/storefront/internal/notify"
)

// Notifier publishes domain events for asynchronous delivery.
type Notifier interface {
	PasswordReset(ctx context.Context, ev notify.PasswordResetEvent) error
	CartPaid(ctx context.Context, ev notify.CartPaidEvent) error
}

// UserService defines account, authentication and administration operations.
type UserService interface {
	Signup(ctx context.Context, req models.SignupRequest) (*models.AuthUser, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthUser, error)
	// Authenticate resolves an access token to an active user.
	Authenticate(ctx context.Context, token string) (*models.User, *crypto.Claims, error)
	Logout(ctx context.Context, claims *crypto.Claims) error
	ForgotPassword(ctx context.Context, req models.ForgotPasswordRequest) error
	ResetPassword(ctx context.Context, token string, req models.ResetPasswordRequest) (*models.AuthUser, error)
	UpdateMe(ctx context.Context, userID string, req models.UpdateUserRequest) (*models.AuthUser, error)
	ChangePassword(ctx context.Context, userID string, req models.ChangePasswordRequest) (*models.AuthUser, error)
	GetMe(ctx context.Context, userID string) (*models.User, error)
	List(ctx context.Context) ([]models.PublicUser, error)
	Delete(ctx context.Context, actorID, userID string) error
	ToggleBanned(ctx context.Context, actorID, userID string) (*models.PublicUser, error)
}

// CartService defines the cart lifecycle of a user.
type CartService interface {
	AddToCart(ctx context.Context, userID string, req models.AddToCartRequest) (*models.CartView, error)
	ClearCart(ctx context.Context, userID string) error
	PayCart(ctx context.Context, userID, cartID string) ([]models.Cart, error)
	GetCarts(ctx context.Context, userID string) ([]models.Cart, error)
	// GetActiveCart returns nil when the user has no unpaid cart.
	GetActiveCart(ctx context.Context, userID string) (*models.CartView, error)
}

// CategoryService manages product categories.
type CategoryService interface {
	List(ctx context.Context) ([]*models.Category, error)
	Create(ctx context.Context, req models.CategoryRequest) (*models.Category, error)
	Update(ctx context.Context, id string, req models.CategoryRequest) (*models.Category, error)
	Delete(ctx context.Context, id string) error
}

// VariantService manages product variants.
type VariantService interface {
	List(ctx context.Context) ([]*models.Variant, error)
	Create(ctx context.Context, req models.VariantRequest) (*models.Variant, error)
	Update(ctx context.Context, id string, req models.VariantRequest) (*models.Variant, error)
	Delete(ctx context.Context, id string) error
}

// SizeService manages product sizes.
type SizeService interface {
	List(ctx context.Context) ([]*models.Size, error)
	Create(ctx context.Context, req models.SizeRequest) (*models.Size, error)
	Update(ctx context.Context, id string, req models.SizeRequest) (*models.Size, error)
	Delete(ctx context.Context, id string) error
}

// ProductService manages the product catalog.
type ProductService interface {
	List(ctx context.Context, page, limit int) (*models.ProductPage, error)
	// Get returns the product with its references populated.
	Get(ctx context.Context, id string) (*models.ProductView, error)
	Create(ctx context.Context, userID string, req models.CreateProductRequest) (*models.Product, error)
	Update(ctx context.Context, id string, req models.UpdateProductRequest) (*models.Product, error)
	Delete(ctx context.Context, id string) error
}
