package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/mediflow/mediflow/internal/platform/auth"
)

// Logger emits one structured line per request, tagged with the request id
// and the acting staff member once the auth layer has resolved them.
func Logger(logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()
			rid, _ := c.Get("request_id").(string)

			err := next(c)

			evt := logger.Info()
			if err != nil {
				evt = logger.Error().Err(err)
			}

			// The auth middleware swaps the request, so the actor is read
			// after next(c) from whatever request the chain left behind.
			actor := auth.ActorIDFromContext(c.Request().Context())

			evt.
				Str("request_id", rid).
				Str("actor_id", actor).
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", c.Response().Status).
				Dur("latency", time.Since(start)).
				Str("remote_ip", c.RealIP()).
				Msg("request")

			return err
		}
	}
}
