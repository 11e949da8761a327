package http

import (
	"errors"
	"log/slog"
	"net/http"

	"meddelivery/internal/generated/servers"
	"meddelivery/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

func errInvalidBody(cause error) error {
	return errs.NewValueIsInvalidErrorWithCause("request body", cause)
}

// statusCode maps domain errors to HTTP status codes. Storage failures win over
// validation errors when both are present in a joined error.
func statusCode(err error) int {
	var httpErr *echo.HTTPError
	switch {
	case errors.As(err, &httpErr):
		return httpErr.Code
	case errors.Is(err, errs.ErrStorageUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// newErrorHandler renders errors that escape the handlers (routing, parameter
// binding, panics recovered by middleware) in the API error format.
func newErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := statusCode(err)
		message := http.StatusText(code)
		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			if m, ok := httpErr.Message.(string); ok {
				message = m
			}
		}
		if code >= http.StatusInternalServerError {
			logger.ErrorContext(c.Request().Context(), "Unhandled request error",
				"method", c.Request().Method,
				"path", c.Path(),
				"error", err,
			)
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, servers.Error{Code: code, Message: message})
	}
}
