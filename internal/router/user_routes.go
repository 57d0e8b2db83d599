package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/shop-backend/internal/handler"
)

// RegisterAuth registers login and the anonymous account flows. The POST
// endpoints go through the rate limiter.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, u *handler.UserHandler, limit echo.MiddlewareFunc) {
	e.POST("/login", a.Login, limit)

	g := e.Group("/users/login")
	g.POST("/register", u.Register, limit)
	g.POST("/activate", u.Activate, limit)
	g.POST("/token", u.ResendActivation, limit)
	g.POST("/password", u.LostPassword, limit)
	g.PATCH("/password", u.ResetPassword)
	g.POST("/refresh", a.Refresh, limit)
}

// RegisterUsers registers the authenticated account endpoints. Access is
// decided by the route rules: /users/password for any role, the rest for
// admins.
func RegisterUsers(e *echo.Echo, u *handler.UserHandler) {
	e.PATCH("/users/password", u.ChangePassword)

	g := e.Group("/users")
	g.GET("/:id", u.Get)
	g.PATCH("/:id/role", u.ChangeRole)
	g.PATCH("/:id/email", u.ChangeEmail)
	g.DELETE("/:id", u.Delete)
}
