package handlers

import (
	"log/slog"

	"event-hub/monitoring"
	"event-hub/security"
	"event-hub/utils"

	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
)

type RouterConfig struct {
	Events EventStore
	Users  UserStore
	Health *HealthHandler

	AllowedOrigins []string
	BodyLimit      int64
	// RateLimiter guards /login and /register. Nil disables it.
	RateLimiter *security.RateLimiter
}

func NewRouter(cfg RouterConfig) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: utils.RequestID,
	}))
	e.Use(monitoring.Middleware())
	e.Use(requestLogger())
	e.Use(middleware.Recover())
	e.Use(security.CORS(cfg.AllowedOrigins))
	if cfg.BodyLimit > 0 {
		e.Use(middleware.BodyLimit(cfg.BodyLimit))
	}

	var authMiddleware []echo.MiddlewareFunc
	if cfg.RateLimiter != nil {
		authMiddleware = append(authMiddleware, cfg.RateLimiter.AuthRateLimit())
	}

	eventHandler := NewEventHandler(cfg.Events)
	userHandler := NewUserHandler(cfg.Users)

	e.GET("/", cfg.Health.Root)
	e.GET("/health", cfg.Health.Health)

	// Event routes
	e.POST("/events", eventHandler.CreateEvent)
	e.GET("/events", eventHandler.ListEvents)
	e.POST("/events/:id/join", eventHandler.JoinEvent)
	e.PUT("/events/:id", eventHandler.UpdateEvent)
	e.DELETE("/events/:id", eventHandler.DeleteEvent)

	// User routes
	e.POST("/register", userHandler.Register, authMiddleware...)
	e.POST("/login", userHandler.Login, authMiddleware...)
	e.GET("/users", userHandler.ListUsers)

	return e
}

// requestLogger hands errors to the error handler before logging so the
// logged status matches what the client received.
func requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		HandleError:  true,
		LogLatency:   true,
		LogMethod:    true,
		LogURI:       true,
		LogRoutePath: true,
		LogStatus:    true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"route", v.RoutePath,
				"status", v.Status,
				"latency", v.Latency,
				"request_id", v.RequestID,
				"remote_ip", v.RemoteIP,
			}
			if v.Error != nil {
				slog.Warn("request", append(attrs, "error", v.Error)...)
				return nil
			}
			slog.Info("request", attrs...)
			return nil
		},
	})
}
