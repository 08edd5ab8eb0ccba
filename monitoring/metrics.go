package monitoring

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	httpRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests by route and status",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	storeOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_operations_total",
			Help: "Total document store operations",
		},
		[]string{"collection", "operation", "status"},
	)

	eventJoins = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "event_joins_total",
			Help: "Join attempts by result",
		},
		[]string{"result"},
	)

	collectionDocuments = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "collection_documents_total",
			Help: "Estimated number of documents per collection",
		},
		[]string{"collection"},
	)
)

const (
	JoinJoined        = "joined"
	JoinAlreadyJoined = "already_joined"
	JoinFailed        = "failed"
)

// Monitor records store level metrics and periodically samples collection sizes.
// A nil *Monitor is valid and records nothing.
type Monitor struct {
	db          *mongo.Database
	collections []string
	interval    time.Duration
}

func NewMonitor(db *mongo.Database, collections ...string) *Monitor {
	return &Monitor{
		db:          db,
		collections: collections,
		interval:    30 * time.Second,
	}
}

// Start runs the collector until ctx is cancelled.
func (m *Monitor) Start(ctx context.Context) {
	if m == nil || m.db == nil {
		return
	}
	go m.collectMetrics(ctx)
}

func (m *Monitor) collectMetrics(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.collectCollectionMetrics(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.collectCollectionMetrics(ctx)
		}
	}
}

func (m *Monitor) collectCollectionMetrics(ctx context.Context) {
	for _, name := range m.collections {
		count, err := m.db.Collection(name).EstimatedDocumentCount(ctx)
		if err != nil {
			if ctx.Err() == nil {
				slog.Warn("Failed to count documents", "collection", name, "error", err)
			}
			continue
		}
		collectionDocuments.WithLabelValues(name).Set(float64(count))
	}
}

// TrackStoreOperation counts one store call, labelled success or error.
func (m *Monitor) TrackStoreOperation(collection, operation string, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	storeOperations.WithLabelValues(collection, operation, status).Inc()
}

func (m *Monitor) TrackJoin(result string) {
	if m == nil {
		return
	}
	eventJoins.WithLabelValues(result).Inc()
}

// Middleware records request counts and latency by route template. It must sit
// outside the middleware that invokes the error handler so the final status is visible.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			method := c.Request().Method

			httpRequests.WithLabelValues(method, route, strconv.Itoa(responseStatus(c, err))).Inc()
			httpDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

func responseStatus(c echo.Context, err error) int {
	if err == nil || c.Response().Committed {
		return c.Response().Status
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	return http.StatusInternalServerError
}
