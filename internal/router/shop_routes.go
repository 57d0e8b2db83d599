package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/shop-backend/internal/handler"
)

// resource is the route surface shared by clients, products and orders.
type resource interface {
	Create(echo.Context) error
	Get(echo.Context) error
	List(echo.Context) error
	Delete(echo.Context) error
	DeleteMany(echo.Context) error
}

// registerResource mounts h under prefix. Writes pass through invalidate,
// which keeps the report cache in step with the data.
func registerResource(e *echo.Echo, prefix string, h resource, invalidate echo.MiddlewareFunc) {
	g := e.Group(prefix)
	g.POST("", h.Create, invalidate)
	g.GET("", h.List)
	g.DELETE("", h.DeleteMany, invalidate)
	g.GET("/:id", h.Get)
	g.DELETE("/:id", h.Delete, invalidate)
}

// RegisterEntities registers /clients, /products and /orders.
func RegisterEntities(e *echo.Echo, clients *handler.ClientHandler, products *handler.ProductHandler, orders *handler.OrderHandler, invalidate echo.MiddlewareFunc) {
	registerResource(e, "/clients", clients, invalidate)
	registerResource(e, "/products", products, invalidate)
	registerResource(e, "/orders", orders, invalidate)
}

// RegisterShop registers the reports. Responses go through cache.
func RegisterShop(e *echo.Echo, h *handler.ShopHandler, cache echo.MiddlewareFunc) {
	g := e.Group("/shop", cache)
	g.GET("/clients/top", h.TopClients)
	g.GET("/clients/top/category", h.TopClientsInCategory)
	g.GET("/clients/debit", h.Debits)
	g.GET("/age/categories", h.CategoriesByAge)
	g.GET("/age/products", h.ProductsByAge)
	g.GET("/categories/clients", h.ClientsByCategory)
	g.GET("/categories/prices", h.CategoryPrices)
}
