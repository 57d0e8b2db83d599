package handler

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/shop-backend/internal/apperror"
)

// requestTimeout bounds the database work of one request.
const requestTimeout = 5 * time.Second

func requestContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), requestTimeout)
}

// bind decodes the JSON body into dst; a body that does not decode is a
// validation failure.
func bind(c echo.Context, dst any) error {
	if err := (&echo.DefaultBinder{}).BindBody(c, dst); err != nil {
		return apperror.Validation("Request body is malformed")
	}
	return nil
}

// pathID parses the :id path parameter.
func pathID(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, apperror.Validation("Id must be a positive number")
	}
	return id, nil
}

// queryIDs parses ?ids=1,2,3. Repeated parameters are accepted too.
func queryIDs(c echo.Context) ([]uint64, error) {
	var ids []uint64
	for _, raw := range c.QueryParams()["ids"] {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseUint(part, 10, 64)
			if err != nil {
				return nil, apperror.Validation("Id must be a positive number, got %q", part)
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}
