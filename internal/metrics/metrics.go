// Package metrics provides Prometheus metrics for the skiffd backend daemon.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	commandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skiff_commands_total",
			Help: "Total number of backend commands handled",
		},
		[]string{"command", "status"},
	)

	commandDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "skiff_command_duration_seconds",
			Help:    "Backend command duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"command"},
	)

	activeSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "skiff_active_sessions",
			Help: "Number of connected websocket sessions",
		},
	)

	droppedResponses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "skiff_dropped_responses_total",
			Help: "Responses that could not be written to a closed session",
		},
	)
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordCommand records one handled command. status is "ok" or a failure kind.
func RecordCommand(command, status string, d time.Duration) {
	commandsTotal.WithLabelValues(command, status).Inc()
	commandDuration.WithLabelValues(command).Observe(d.Seconds())
}

func SessionOpened() { activeSessions.Inc() }

func SessionClosed() { activeSessions.Dec() }

func ResponseDropped() { droppedResponses.Inc() }
