package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// ResponseSize logs one structured line per request with the serialized
// response payload size, status, and duration. The response itself passes
// through unmodified.
func ResponseSize(log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				// Run the error handler now so status and size reflect
				// what was actually written.
				c.Error(err)
			}

			res := c.Response()
			log.Info().
				Str("method", c.Request().Method).
				Str("path", c.Request().URL.Path).
				Int("status", res.Status).
				Int64("bytes", res.Size).
				Dur("duration", time.Since(start)).
				Msg("request completed")

			return err
		}
	}
}
