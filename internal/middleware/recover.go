package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/shop-backend/internal/logger"
)

// Recover turns a handler panic into a 500 and logs it with the stack.
func Recover() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.WithRequestID(GetRequestID(c)).Error("panic",
						zap.Any("panic", rec),
						zap.String("method", c.Request().Method),
						zap.String("uri", c.Request().RequestURI),
						zap.ByteString("stack", debug.Stack()),
					)
					err = fmt.Errorf("unexpected server error: %v", rec)
				}
			}()
			return next(c)
		}
	}
}
