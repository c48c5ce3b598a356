package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/example/storefront/internal/db"
	"github.com/example/storefront/internal/models"
	"github.com/example/storefront/internal/notify"
)

const quantityMessage = "Quantity must be an integer greater than 0"

// cartService implements the CartService interface. Every operation is one
// read-modify-write of the user record without locking; concurrent requests
// of the same user may overwrite each other.
type cartService struct {
	users    db.UserRepository
	products ProductService
	notifier Notifier
	logger   *zap.Logger
	now      func() time.Time
}

// NewCartService creates a new CartService instance.
func NewCartService(users db.UserRepository, products ProductService, notifier Notifier, logger *zap.Logger) CartService {
	return &cartService{
		users:    users,
		products: products,
		notifier: notifier,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *cartService) getUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: '%s'", ErrUserNotFound, userID)
		}
		return nil, fmt.Errorf("failed to get user '%s': %w", userID, err)
	}
	return user, nil
}

// validateItems checks every line and collects all failures. Products are
// resolved so the caller can price the cart without a second lookup.
func (s *cartService) validateItems(ctx context.Context, req models.AddToCartRequest) ([]models.LineItem, map[string]*models.ProductView, error) {
	fields := fieldErrors{}
	if len(req.Items) == 0 {
		fields.add("items", "Cart must contain at least one item")
	}

	items := make([]models.LineItem, 0, len(req.Items))
	products := make(map[string]*models.ProductView, len(req.Items))
	for i, it := range req.Items {
		prefix := fmt.Sprintf("items[%d]", i)

		qty, ok := it.Quantity.Int()
		if !ok {
			fields.add(prefix+".quantity", quantityMessage)
		}

		switch {
		case !ValidID(it.Product):
			fields.add(prefix+".product", "Invalid product id")
		case products[it.Product] == nil:
			product, err := s.products.Get(ctx, it.Product)
			if err != nil {
				if !errors.Is(err, ErrProductNotFound) {
					return nil, nil, err
				}
				fields.add(prefix+".product", "Not found the product with the ID")
				break
			}
			products[it.Product] = product
		}

		items = append(items, models.LineItem{ProductID: it.Product, Quantity: qty})
	}

	if err := fields.err("Cart validation failed"); err != nil {
		return nil, nil, err
	}
	return items, products, nil
}

func (s *cartService) AddToCart(ctx context.Context, userID string, req models.AddToCartRequest) (*models.CartView, error) {
	items, products, err := s.validateItems(ctx, req)
	if err != nil {
		return nil, err
	}

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	cart := &models.Cart{
		ID:        NewID(),
		Paid:      false,
		Items:     items,
		CreatedAt: now,
		UpdatedAt: now,
	}
	user.ActiveCart = cart
	user.UpdatedAt = now
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to save cart for user '%s': %w", userID, err)
	}
	return priceCart(cart, products), nil
}

func (s *cartService) ClearCart(ctx context.Context, userID string) error {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}
	if user.ActiveCart == nil {
		return nil
	}

	user.ActiveCart = nil
	user.UpdatedAt = s.now()
	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to clear cart for user '%s': %w", userID, err)
	}
	return nil
}

func (s *cartService) PayCart(ctx context.Context, userID, cartID string) ([]models.Cart, error) {
	if err := checkID(cartID); err != nil {
		return nil, err
	}
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if user.ActiveCart == nil || user.ActiveCart.ID != cartID {
		for _, paid := range user.CartHistory {
			if paid.ID == cartID {
				return user.Carts(), nil
			}
		}
		return nil, fmt.Errorf("%w: '%s'", ErrCartNotFound, cartID)
	}

	now := s.now()
	cart := *user.ActiveCart
	cart.Paid = true
	cart.UpdatedAt = now
	user.CartHistory = append(user.CartHistory, cart)
	user.ActiveCart = nil
	user.UpdatedAt = now
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to pay cart '%s': %w", cartID, err)
	}

	s.publishPaid(ctx, user, &cart)
	return user.Carts(), nil
}

// publishPaid queues the receipt email. The payment is already stored, so
// failures are only logged.
func (s *cartService) publishPaid(ctx context.Context, user *models.User, cart *models.Cart) {
	view, err := s.view(ctx, cart)
	if err != nil {
		s.logger.Warn("Failed to price paid cart", zap.String("cartId", cart.ID), zap.Error(err))
		return
	}

	ev := notify.CartPaidEvent{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
		CartID: cart.ID,
		Items:  make([]notify.CartPaidLine, 0, len(view.Items)),
		Total:  view.Total,
		PaidAt: cart.UpdatedAt,
	}
	for _, line := range view.Items {
		name := line.ProductID
		if line.Product != nil {
			name = line.Product.Name
		}
		ev.Items = append(ev.Items, notify.CartPaidLine{
			Product:   name,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			LineTotal: line.LineTotal,
		})
	}
	if err := s.notifier.CartPaid(ctx, ev); err != nil {
		s.logger.Warn("Failed to publish cart paid event", zap.String("cartId", cart.ID), zap.Error(err))
	}
}

func (s *cartService) GetCarts(ctx context.Context, userID string) ([]models.Cart, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.Carts(), nil
}

func (s *cartService) GetActiveCart(ctx context.Context, userID string) (*models.CartView, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.ActiveCart == nil {
		return nil, nil
	}
	return s.view(ctx, user.ActiveCart)
}

// view prices cart with its products populated. Products deleted since the
// cart was created are shown as null.
func (s *cartService) view(ctx context.Context, cart *models.Cart) (*models.CartView, error) {
	products := make(map[string]*models.ProductView, len(cart.Items))
	for _, item := range cart.Items {
		if _, seen := products[item.ProductID]; seen {
			continue
		}
		product, err := s.products.Get(ctx, item.ProductID)
		switch {
		case err == nil:
			products[item.ProductID] = product
		case errors.Is(err, ErrProductNotFound), errors.Is(err, ErrInvalidID):
			products[item.ProductID] = nil
		default:
			return nil, err
		}
	}
	return priceCart(cart, products), nil
}
