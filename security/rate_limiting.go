package security

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"event-hub/models"
	"event-hub/utils"

	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
	"github.com/redis/go-redis/v9"
)

const rateLimitKeyPrefix = "ratelimit:auth:"

type RateLimiter struct {
	redis   *redis.Client
	limit   int64
	window  time.Duration
	breaker *utils.CircuitBreaker
}

func NewRateLimiter(redisClient *redis.Client, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		redis:   redisClient,
		limit:   int64(limit),
		window:  window,
		breaker: utils.NewCircuitBreaker("rate-limiter"),
	}
}

// AuthRateLimit limits credential routes per client IP with a fixed window.
func (r *RateLimiter) AuthRateLimit() echo.MiddlewareFunc {
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: r,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(http.StatusForbidden, models.MessageResponse{Message: "Forbidden"})
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			slog.Warn("Rate limit exceeded", "ip", identifier, "path", c.Request().URL.Path)
			return c.JSON(http.StatusTooManyRequests, models.MessageResponse{Message: "Too many requests"})
		},
	})
}

// Allow implements middleware.RateLimiterStore. Redis failures fail open.
func (r *RateLimiter) Allow(identifier string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	var count int64
	err := r.breaker.Execute(ctx, func(ctx context.Context) error {
		var err error
		count, err = r.hit(ctx, rateLimitKeyPrefix+identifier)
		return err
	})
	if err != nil {
		slog.Warn("Rate limiter unavailable, allowing request", "ip", identifier, "error", err)
		return true, nil
	}

	if count > r.limit {
		return false, fmt.Errorf("%d requests in window", count)
	}
	return true, nil
}

func (r *RateLimiter) hit(ctx context.Context, key string) (int64, error) {
	count, err := r.redis.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		if err := r.redis.Expire(ctx, key, r.window).Err(); err != nil {
			return 0, err
		}
	}
	return count, nil
}
