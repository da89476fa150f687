package router

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	apperrors "usersvc/internal/errors"
)

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that maps domain
// errors to their HTTP status codes, renders the standard error envelope,
// and logs unexpected errors without leaking details to the client.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		// Echo's own errors (bind failures, 404 from the router, etc.)
		var he *echo.HTTPError
		if errors.As(err, &he) {
			_ = c.JSON(he.Code, apperrors.ErrorResponse{
				Error: fmt.Sprintf("%v", he.Message),
				Code:  codeForStatus(he.Code),
			})
			return
		}

		// Request schema violations.
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			_ = c.JSON(http.StatusUnprocessableEntity, apperrors.ErrorResponse{
				Error: ve.Error(),
				Code:  "VALIDATION_ERROR",
			})
			return
		}

		httpErr := apperrors.MapErrorToHTTP(err)
		if httpErr.StatusCode == http.StatusInternalServerError {
			log.Error().
				Err(err).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Msg("unhandled error")
		}
		_ = c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "BAD_REQUEST"
	case http.StatusUnauthorized:
		return "UNAUTHORIZED"
	case http.StatusForbidden:
		return "FORBIDDEN"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case http.StatusUnprocessableEntity:
		return "VALIDATION_ERROR"
	default:
		return "HTTP_ERROR"
	}
}
