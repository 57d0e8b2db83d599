package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/shop-backend/internal/service"
)

const principalKey = "principal"

// PrincipalFrom returns the caller bound by Authenticate.
func PrincipalFrom(c echo.Context) (service.Principal, bool) {
	p, ok := c.Get(principalKey).(service.Principal)
	return p, ok
}

func setPrincipal(c echo.Context, p service.Principal) {
	c.Set(principalKey, p)
}

// userID names the caller for rate-limit keys and logs; "anon" when nobody
// is authenticated.
func userID(c echo.Context) string {
	if p, ok := PrincipalFrom(c); ok {
		return strconv.FormatUint(p.UserID, 10)
	}
	return "anon"
}
