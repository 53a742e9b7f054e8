package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "route", "status"})

	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: []float64{0.005, 0.025, 0.1, 0.5, 1, 2, 5},
	}, []string{"method", "route"})

	// Domain
	AssetMovements = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "zonetrack_asset_movements_total",
		Help: "Total number of committed asset movements",
	}, []string{"movement_type"})

	AlertsRaised = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "zonetrack_alerts_raised_total",
		Help: "Total number of alerts stored",
	}, []string{"type"})

	UsersCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "zonetrack_users_created_total",
		Help: "Total number of users created",
	})
)
