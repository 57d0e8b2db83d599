// Package router wires handlers and middleware onto an Echo instance.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/shop-backend/internal/handler"
	"github.com/iliyamo/shop-backend/internal/metrics"
	"github.com/iliyamo/shop-backend/internal/middleware"
)

// Handlers groups every HTTP handler of the service.
type Handlers struct {
	Auth     *handler.AuthHandler
	Users    *handler.UserHandler
	Clients  *handler.ClientHandler
	Products *handler.ProductHandler
	Orders   *handler.OrderHandler
	Shop     *handler.ShopHandler
}

// Options carries the request-wide dependencies. RateLimit, Cache and
// Invalidate may be nil.
type Options struct {
	Tokens     middleware.AccessTokenParser
	Rules      []middleware.Rule
	RateLimit  echo.MiddlewareFunc
	Cache      echo.MiddlewareFunc
	Invalidate echo.MiddlewareFunc // purges Cache after entity writes
}

// New builds the Echo instance. Every request passes, in order: recover,
// request id, logging, metrics, authentication and authorization.
func New(h Handlers, opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handler.ErrorHandler

	rules := opts.Rules
	if rules == nil {
		rules = middleware.Rules
	}
	e.Use(
		middleware.Recover(),
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Metrics(),
		middleware.Authenticate(opts.Tokens),
		middleware.Authorize(rules),
	)

	RegisterRoutes(e)
	RegisterAuth(e, h.Auth, h.Users, orPass(opts.RateLimit))
	RegisterUsers(e, h.Users)
	RegisterEntities(e, h.Clients, h.Products, h.Orders, orPass(opts.Invalidate))
	RegisterShop(e, h.Shop, orPass(opts.Cache))
	return e
}

// RegisterRoutes registers the operational endpoints.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
}

func orPass(mw echo.MiddlewareFunc) echo.MiddlewareFunc {
	if mw == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	return mw
}
