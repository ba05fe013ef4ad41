package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Gateway metrics
	GatewayRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "carenote_gateway_request_duration_seconds",
			Help:    "Duration of CareNote backend calls",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	GatewayErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "carenote_gateway_errors_total",
			Help: "Failed CareNote backend calls by operation and cause",
		},
		[]string{"operation", "cause"},
	)

	// Workspace metrics
	DocumentsInStore = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "carenote_documents_in_store",
		Help: "Documents currently held in the client-side store",
	})

	StaleSelectionsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "carenote_stale_selections_dropped_total",
		Help: "Selection responses discarded because a newer selection superseded them",
	})

	NotificationsPushed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "carenote_notifications_total",
			Help: "Transient notifications pushed to the session",
		},
		[]string{"level"},
	)
)
