package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/shop-backend/internal/apperror"
	"github.com/iliyamo/shop-backend/internal/logger"
	"github.com/iliyamo/shop-backend/internal/metrics"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Timestamp time.Time `json:"timestamp"`
	Status    int       `json:"status"`
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Path      string    `json:"path"`
}

// ErrorHandler is installed as echo.HTTPErrorHandler. apperror kinds decide
// the status; echo errors keep theirs; anything else is a 500 whose message
// is passed through.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	status, message := resolve(err)
	if status == http.StatusForbidden {
		metrics.RecordAuthFailure(string(apperror.KindOf(err)))
	}
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", zap.String("path", c.Request().URL.Path), zap.Error(err))
	}

	body := ErrorBody{
		Timestamp: time.Now().UTC(),
		Status:    status,
		Error:     http.StatusText(status),
		Message:   message,
		Path:      c.Request().URL.Path,
	}
	var werr error
	if c.Request().Method == http.MethodHead {
		werr = c.NoContent(status)
	} else {
		werr = c.JSON(status, body)
	}
	if werr != nil {
		logger.Warn("write error response", zap.Error(werr))
	}
}

func resolve(err error) (int, string) {
	var ae *apperror.Error
	if errors.As(err, &ae) {
		return apperror.HTTPStatus(ae.Kind), ae.Message
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Internal != nil {
			logger.Debug("echo error", zap.Error(he.Internal))
		}
		return he.Code, fmt.Sprint(he.Message)
	}
	return http.StatusInternalServerError, err.Error()
}
