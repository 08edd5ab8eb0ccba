package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"event-hub/config"
	"event-hub/handlers"
	"event-hub/monitoring"
	"event-hub/security"
	"event-hub/services"
	"event-hub/utils"

	"github.com/labstack/echo/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

func Start() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	slog.SetDefault(newLogger(cfg, os.Stdout))

	bodyLimit, err := cfg.BodyLimitBytes()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// MongoDB is required; startup fails without it.
	mongoClient, err := utils.NewMongoClient(ctx, cfg.MongoConnectionURI())
	if err != nil {
		return fmt.Errorf("connect mongodb: %w", err)
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := mongoClient.Disconnect(disconnectCtx); err != nil {
			slog.Error("Failed to disconnect MongoDB", "error", err)
		}
	}()
	db := mongoClient.Database(cfg.DBName)

	// Redis is optional and only backs rate limiting.
	var redisClient *redis.Client
	var rateLimiter *security.RateLimiter
	if cfg.RedisURL != "" {
		redisClient, err = utils.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			slog.Warn("Redis unavailable, rate limiting disabled", "error", err)
		}
		if redisClient != nil {
			defer redisClient.Close()
			rateLimiter = security.NewRateLimiter(redisClient, cfg.AuthRateLimit, cfg.AuthRateWindow)
		}
	}

	notifier := services.NewNotifier(cfg)
	if pn, ok := notifier.(*services.PubNubNotifier); ok {
		defer pn.Wait()
	}

	monitor := monitoring.NewMonitor(db, services.EventsCollection, services.UsersCollection)
	monitor.Start(ctx)

	eventService := services.NewEventService(db, notifier, monitor)
	userService := services.NewUserService(db, services.NewPasswordHasher(), monitor)

	if err := userService.EnsureIndexes(ctx); err != nil {
		slog.Warn("Failed to ensure user indexes", "error", err)
	}

	e := handlers.NewRouter(handlers.RouterConfig{
		Events:         eventService,
		Users:          userService,
		Health:         handlers.NewHealthHandler(mongoClient, redisClient),
		AllowedOrigins: cfg.AllowedOrigins,
		BodyLimit:      bodyLimit,
		RateLimiter:    rateLimiter,
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("Server is running", "port", cfg.Port, "environment", cfg.Environment)
		return serve(gctx, e, ":"+cfg.Port, cfg)
	})

	if cfg.EnableMetrics {
		metrics := echo.New()
		metrics.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
		g.Go(func() error {
			slog.Info("Metrics server is running", "port", cfg.MetricsPort)
			return serve(gctx, metrics, ":"+cfg.MetricsPort, cfg)
		})
	}

	err = g.Wait()
	slog.Info("Shutting down")
	return err
}

// newLogger writes readable debug output in development and JSON elsewhere.
func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	if cfg.IsDevelopment() {
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))
}

func serve(ctx context.Context, e *echo.Echo, address string, cfg *config.Config) error {
	sc := echo.StartConfig{
		Address:         address,
		HideBanner:      true,
		HidePort:        true,
		GracefulContext: ctx,
		GracefulTimeout: cfg.ShutdownTimeout,
	}
	if err := sc.Start(e); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve %s: %w", address, err)
	}
	return nil
}
