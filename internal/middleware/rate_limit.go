package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/caching"
)

// RateLimit throttles requests per client IP using the Redis counter. A
// cache failure lets the request through rather than blocking traffic.
func RateLimit(cacheSvc caching.CacheService, limit int, window time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := c.RealIP() + ":" + c.Path()
			ctx := c.Request().Context()

			limited, err := cacheSvc.IsRateLimited(ctx, key, limit, window)
			if err != nil {
				log.Debug().Err(err).Msg("rate limit check failed")
				return next(c)
			}
			if limited {
				return echo.NewHTTPError(http.StatusTooManyRequests, "Rate limit exceeded")
			}

			if err := cacheSvc.IncrementRateLimit(ctx, key, window); err != nil {
				log.Debug().Err(err).Msg("rate limit increment failed")
			}
			return next(c)
		}
	}
}
