package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/zizouhuweidi/trivia/internal/domain"
	"go.uber.org/zap"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   int    `json:"error"`
	Message string `json:"message"`
}

var statusMessages = map[int]string{
	http.StatusBadRequest:          "bad request",
	http.StatusNotFound:            "resource not found",
	http.StatusMethodNotAllowed:    "method not allowed",
	http.StatusUnprocessableEntity: "unprocessable",
	http.StatusTooManyRequests:     "too many requests",
	http.StatusInternalServerError: "internal server error",
}

func statusMessage(code int) string {
	if msg, ok := statusMessages[code]; ok {
		return msg
	}
	return http.StatusText(code)
}

// ErrorHandler renders errors as ErrorResponse bodies and logs their cause
func ErrorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		cause := err
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			cause = he.Internal
		}

		if cause != nil {
			var storeErr *domain.StoreError
			fields := []zap.Field{
				zap.Int("status", code),
				zap.String("method", c.Request().Method),
				zap.String("path", c.Path()),
				zap.Error(cause),
			}
			if code >= http.StatusInternalServerError || errors.As(cause, &storeErr) {
				logger.Error("request failed", fields...)
			} else {
				logger.Debug("request rejected", fields...)
			}
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, ErrorResponse{
				Success: false,
				Error:   code,
				Message: statusMessage(code),
			})
		}
		if err != nil {
			logger.Error("failed to write error response", zap.Error(err))
		}
	}
}

func badRequest(err error) error {
	return echo.NewHTTPError(http.StatusBadRequest).SetInternal(err)
}

func notFound(err error) error {
	return echo.NewHTTPError(http.StatusNotFound).SetInternal(err)
}

func unprocessable(err error) error {
	return echo.NewHTTPError(http.StatusUnprocessableEntity).SetInternal(err)
}

func internalError(err error) error {
	return echo.NewHTTPError(http.StatusInternalServerError).SetInternal(err)
}
