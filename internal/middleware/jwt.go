package middleware

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/shop-backend/internal/service"
)

// AccessTokenParser resolves an Authorization header value to a principal.
type AccessTokenParser interface {
	ParseAccessToken(ctx context.Context, header string) (service.Principal, error)
}

// Authenticate binds the principal of a valid Authorization header to the
// request. Without the header the request stays anonymous and Authorize
// decides. A header that does not resolve fails the request, on public
// routes too.
func Authenticate(tokens AccessTokenParser) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return next(c)
			}
			p, err := tokens.ParseAccessToken(c.Request().Context(), header)
			if err != nil {
				return err
			}
			setPrincipal(c, p)
			return next(c)
		}
	}
}
