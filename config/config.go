package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/dustin/go-humanize"
	"github.com/joho/godotenv"
)

type Config struct {
	// Server configuration
	Port            string        `env:"PORT" envDefault:"5000"`
	Environment     string        `env:"ENVIRONMENT" envDefault:"development"`
	BodyLimit       string        `env:"BODY_LIMIT" envDefault:"1M"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// MongoDB configuration
	MongoURI string `env:"MONGODB_URI"`
	DBUser   string `env:"DB_USER"`
	DBPass   string `env:"DB_PASS"`
	DBHost   string `env:"DB_HOST" envDefault:"cluster0.fgufh.mongodb.net"`
	DBName   string `env:"DB_NAME" envDefault:"eventhubDB"`

	// CORS configuration
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173,https://event-hub-client-seven.vercel.app"`

	// Redis configuration, rate limiting is disabled when empty
	RedisURL       string        `env:"REDIS_URL"`
	AuthRateLimit  int           `env:"AUTH_RATE_LIMIT" envDefault:"20"`
	AuthRateWindow time.Duration `env:"AUTH_RATE_WINDOW" envDefault:"1m"`

	// PubNub configuration, notifications are disabled when the publish key is empty
	PubNubPublishKey   string `env:"PUBNUB_PUBLISH_KEY"`
	PubNubSubscribeKey string `env:"PUBNUB_SUBSCRIBE_KEY"`
	PubNubSecretKey    string `env:"PUBNUB_SECRET_KEY"`
	PubNubChannel      string `env:"PUBNUB_CHANNEL" envDefault:"events"`

	// Monitoring
	EnableMetrics bool   `env:"ENABLE_METRICS" envDefault:"true"`
	MetricsPort   string `env:"METRICS_PORT" envDefault:"9090"`
}

// LoadConfig reads an optional .env file and then parses the process environment.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// MongoConnectionURI returns MONGODB_URI when set, otherwise an Atlas SRV URI
// assembled from the DB_* variables.
func (c *Config) MongoConnectionURI() string {
	if c.MongoURI != "" {
		return c.MongoURI
	}

	u := url.URL{
		Scheme:   "mongodb+srv",
		Host:     c.DBHost,
		Path:     "/",
		RawQuery: "retryWrites=true&w=majority&appName=Cluster0",
	}
	if c.DBUser != "" {
		u.User = url.UserPassword(c.DBUser, c.DBPass)
	}
	return u.String()
}

// BodyLimitBytes parses BODY_LIMIT ("1M", "512KB", "2MiB") into a byte count.
func (c *Config) BodyLimitBytes() (int64, error) {
	n, err := humanize.ParseBytes(c.BodyLimit)
	if err != nil {
		return 0, fmt.Errorf("parse BODY_LIMIT %q: %w", c.BodyLimit, err)
	}
	return int64(n), nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}
