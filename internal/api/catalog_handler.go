package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/example/storefront/pkg/api"
)

// namedService is the shape shared by the category, variant and size
// services.
type namedService[Req any, T any] interface {
	List(ctx context.Context) ([]*T, error)
	Create(ctx context.Context, req Req) (*T, error)
	Update(ctx context.Context, id string, req Req) (*T, error)
	Delete(ctx context.Context, id string) error
}

// CatalogHandler serves the CRUD endpoints of one named catalog entity.
type CatalogHandler[Req any, T any] struct {
	service namedService[Req, T]
	logger  *zap.Logger
}

// NewCatalogHandler creates a handler for categories, variants or sizes.
func NewCatalogHandler[Req any, T any](service namedService[Req, T], logger *zap.Logger) *CatalogHandler[Req, T] {
	return &CatalogHandler[Req, T]{service: service, logger: logger}
}

func (h *CatalogHandler[Req, T]) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	api.Success(c, http.StatusOK, items)
}

func (h *CatalogHandler[Req, T]) Create(c *gin.Context) {
	var req Req
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	api.Success(c, http.StatusCreated, item)
}

func (h *CatalogHandler[Req, T]) Update(c *gin.Context) {
	var req Req
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	api.Success(c, http.StatusOK, item)
}

func (h *CatalogHandler[Req, T]) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	api.Success(c, http.StatusOK, nil)
}

// register mounts the handler on group; writes require an admin.
func (h *CatalogHandler[Req, T]) register(group *gin.RouterGroup, admin ...gin.HandlerFunc) {
	group.GET("", h.List)
	group.POST("", append(admin, h.Create)...)
	group.PATCH("/:id", append(admin, h.Update)...)
	group.DELETE("/:id", append(admin, h.Delete)...)
}
