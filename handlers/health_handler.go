package handlers

import (
	"net/http"

	"event-hub/utils"

	"github.com/labstack/echo/v5"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

type HealthHandler struct {
	mongo *mongo.Client
	redis *redis.Client
}

// NewHealthHandler checks Redis only when redisClient is non-nil.
func NewHealthHandler(mongoClient *mongo.Client, redisClient *redis.Client) *HealthHandler {
	return &HealthHandler{mongo: mongoClient, redis: redisClient}
}

func (h *HealthHandler) Root(c echo.Context) error {
	return c.String(http.StatusOK, "Event Server is running")
}

func (h *HealthHandler) Health(c echo.Context) error {
	ctx := c.Request().Context()

	if err := utils.MongoHealthCheck(ctx, h.mongo); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "unhealthy",
			"error":  err.Error(),
		})
	}

	if h.redis != nil {
		if err := utils.RedisHealthCheck(ctx, h.redis); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{
				"status": "unhealthy",
				"error":  err.Error(),
			})
		}
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "healthy"})
}
