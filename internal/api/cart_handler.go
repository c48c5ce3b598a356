package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/example/storefront/internal/core"
	"github.com/example/storefront/internal/middleware"
	"github.com/example/storefront/internal/models"
	"github.com/example/storefront/pkg/api"
)

// CartHandler handles the cart endpoints of the authenticated user.
type CartHandler struct {
	carts  core.CartService
	logger *zap.Logger
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(carts core.CartService, logger *zap.Logger) *CartHandler {
	return &CartHandler{carts: carts, logger: logger}
}

// AddToCart handles POST /carts. The request replaces the unpaid cart.
func (h *CartHandler) AddToCart(c *gin.Context) {
	var req models.AddToCartRequest
	if !bindJSON(c, &req) {
		return
	}
	cart, err := h.carts.AddToCart(c.Request.Context(), middleware.CurrentUser(c).ID, req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	api.Success(c, http.StatusOK, cart)
}

// ClearCart handles GET /carts/clear.
func (h *CartHandler) ClearCart(c *gin.Context) {
	if err := h.carts.ClearCart(c.Request.Context(), middleware.CurrentUser(c).ID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	api.Success(c, http.StatusOK, nil)
}

// PayCart handles GET /carts/payment/:id.
func (h *CartHandler) PayCart(c *gin.Context) {
	carts, err := h.carts.PayCart(c.Request.Context(), middleware.CurrentUser(c).ID, c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	api.Success(c, http.StatusOK, carts)
}

// GetCarts handles GET /carts.
func (h *CartHandler) GetCarts(c *gin.Context) {
	carts, err := h.carts.GetCarts(c.Request.Context(), middleware.CurrentUser(c).ID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	api.Success(c, http.StatusOK, carts)
}

// GetActiveCart handles GET /carts/active. The data is null without an
// unpaid cart.
func (h *CartHandler) GetActiveCart(c *gin.Context) {
	cart, err := h.carts.GetActiveCart(c.Request.Context(), middleware.CurrentUser(c).ID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if cart == nil {
		api.Success(c, http.StatusOK, nil)
		return
	}
	api.Success(c, http.StatusOK, cart)
}
