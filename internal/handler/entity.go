package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/shop-backend/internal/model"
	"github.com/iliyamo/shop-backend/internal/service"
)

// EntityService is what the client, product and order services share.
type EntityService[R, D any] interface {
	Create(ctx context.Context, req R) (D, error)
	Find(ctx context.Context, id uint64) (D, error)
	FindMany(ctx context.Context, ids []uint64) ([]D, error)
	Remove(ctx context.Context, id uint64) error
	RemoveMany(ctx context.Context, ids []uint64) error
}

// EntityHandler maps the create/read/delete endpoints of one resource onto
// an EntityService. R is the create payload, D the returned shape.
type EntityHandler[R, D any] struct {
	svc EntityService[R, D]
}

// NewEntityHandler wraps svc.
func NewEntityHandler[R, D any](svc EntityService[R, D]) *EntityHandler[R, D] {
	return &EntityHandler[R, D]{svc: svc}
}

type (
	ClientHandler  = EntityHandler[model.ClientRequest, model.Client]
	ProductHandler = EntityHandler[model.ProductRequest, model.Product]
	OrderHandler   = EntityHandler[model.OrderRequest, model.OrderView]
)

// NewClientHandler serves /clients.
func NewClientHandler(svc *service.ClientService) *ClientHandler {
	return NewEntityHandler[model.ClientRequest, model.Client](svc)
}

// NewProductHandler serves /products.
func NewProductHandler(svc *service.ProductService) *ProductHandler {
	return NewEntityHandler[model.ProductRequest, model.Product](svc)
}

// NewOrderHandler serves /orders; orders are returned with both ends resolved.
func NewOrderHandler(svc *service.OrderService) *OrderHandler {
	return NewEntityHandler[model.OrderRequest, model.OrderView](svc)
}

var (
	_ EntityService[model.ClientRequest, model.Client]   = (*service.ClientService)(nil)
	_ EntityService[model.ProductRequest, model.Product] = (*service.ProductService)(nil)
	_ EntityService[model.OrderRequest, model.OrderView] = (*service.OrderService)(nil)
)

// Create handles POST on the resource root and answers 201 with the stored
// entity.
func (h *EntityHandler[R, D]) Create(c echo.Context) error {
	var req R
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	out, err := h.svc.Create(ctx, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, out)
}

// Get handles GET on /:id.
func (h *EntityHandler[R, D]) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	out, err := h.svc.Find(ctx, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

// List: GET ?ids=1,2,3. Every id must exist.
func (h *EntityHandler[R, D]) List(c echo.Context) error {
	ids, err := queryIDs(c)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	out, err := h.svc.FindMany(ctx, ids)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

// Delete handles DELETE on /:id and answers 204.
func (h *EntityHandler[R, D]) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.svc.Remove(ctx, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteMany: DELETE ?ids=1,2,3. Nothing is deleted unless every id exists.
func (h *EntityHandler[R, D]) DeleteMany(c echo.Context) error {
	ids, err := queryIDs(c)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.svc.RemoveMany(ctx, ids); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
