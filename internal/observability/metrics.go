// Package observability provides metrics and tracing.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gorm.io/gorm"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "zestyy_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "zestyy_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// NotificationsDispatched counts notification rows written, by type.
	NotificationsDispatched = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "zestyy_notifications_dispatched_total",
		Help: "Total number of notifications stored",
	}, []string{"type"})

	// NotificationsSkipped counts notifications not written, by type and reason (self, duplicate).
	NotificationsSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "zestyy_notifications_skipped_total",
		Help: "Total number of notifications suppressed or deduplicated",
	}, []string{"type", "reason"})

	// EngagementToggles counts like, repost and follow toggles by resulting state.
	EngagementToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "zestyy_engagement_toggles_total",
		Help: "Total number of engagement toggles",
	}, []string{"kind", "state"})

	// MessagesSent counts direct messages stored.
	MessagesSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "zestyy_messages_sent_total",
		Help: "Total number of direct messages sent",
	})

	// WebSocketConnectionsTotal is the gauge of total WebSocket connections.
	WebSocketConnectionsTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "zestyy_websocket_connections_total",
		Help: "Total number of active WebSocket connections",
	})

	// WebSocketBackpressureDrops counts messages dropped due to backpressure by reason.
	WebSocketBackpressureDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "zestyy_websocket_backpressure_drops_total",
		Help: "Total number of WebSocket messages dropped due to backpressure",
	}, []string{"reason"})
)

// ToggleState renders a toggle outcome as a metric label.
func ToggleState(active bool) string {
	if active {
		return "on"
	}
	return "off"
}

const queryStartKey = "zestyy:query_start"

// InstrumentGorm records DatabaseQueryLatency for every statement db runs.
func InstrumentGorm(db *gorm.DB) error {
	before := func(tx *gorm.DB) {
		tx.InstanceSet(queryStartKey, time.Now())
	}
	after := func(operation string) func(*gorm.DB) {
		return func(tx *gorm.DB) {
			v, ok := tx.InstanceGet(queryStartKey)
			if !ok {
				return
			}
			start, ok := v.(time.Time)
			if !ok {
				return
			}
			table := tx.Statement.Table
			if table == "" {
				table = "raw"
			}
			DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
		}
	}

	cb := db.Callback()
	steps := []struct {
		op       string
		register func(before, after func(*gorm.DB)) error
	}{
		{"create", func(b, a func(*gorm.DB)) error {
			if err := cb.Create().Before("gorm:create").Register("metrics:before_create", b); err != nil {
				return err
			}
			return cb.Create().After("gorm:create").Register("metrics:after_create", a)
		}},
		{"query", func(b, a func(*gorm.DB)) error {
			if err := cb.Query().Before("gorm:query").Register("metrics:before_query", b); err != nil {
				return err
			}
			return cb.Query().After("gorm:query").Register("metrics:after_query", a)
		}},
		{"update", func(b, a func(*gorm.DB)) error {
			if err := cb.Update().Before("gorm:update").Register("metrics:before_update", b); err != nil {
				return err
			}
			return cb.Update().After("gorm:update").Register("metrics:after_update", a)
		}},
		{"delete", func(b, a func(*gorm.DB)) error {
			if err := cb.Delete().Before("gorm:delete").Register("metrics:before_delete", b); err != nil {
				return err
			}
			return cb.Delete().After("gorm:delete").Register("metrics:after_delete", a)
		}},
		{"raw", func(b, a func(*gorm.DB)) error {
			if err := cb.Raw().Before("gorm:raw").Register("metrics:before_raw", b); err != nil {
				return err
			}
			return cb.Raw().After("gorm:raw").Register("metrics:after_raw", a)
		}},
		{"row", func(b, a func(*gorm.DB)) error {
			if err := cb.Row().Before("gorm:row").Register("metrics:before_row", b); err != nil {
				return err
			}
			return cb.Row().After("gorm:row").Register("metrics:after_row", a)
		}},
	}

	for _, step := range steps {
		if err := step.register(before, after(step.op)); err != nil {
			return err
		}
	}
	return nil
}
