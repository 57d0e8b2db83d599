package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/shop-backend/internal/logger"
)

// Logging writes one structured line per finished request. Errors returned
// by the chain are rendered before logging so the logged status is the one
// the client sees; rendering twice is a no-op once the response is committed.
func Logging() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			status := c.Response().Status
			fields := []zap.Field{
				zap.String("method", req.Method),
				zap.String("path", req.URL.Path),
				zap.String("query", req.URL.RawQuery),
				zap.String("ip", c.RealIP()),
				zap.String("user", userID(c)),
				zap.Int("status_code", status),
				zap.Duration("latency", time.Since(start)),
			}
			if err != nil {
				fields = append(fields, zap.Error(err))
			}

			log := logger.WithRequestID(GetRequestID(c))
			switch {
			case status >= 500:
				log.Error("request completed with server error", fields...)
			case status >= 400:
				log.Warn("request completed with client error", fields...)
			default:
				log.Info("request completed", fields...)
			}
			return nil
		}
	}
}
