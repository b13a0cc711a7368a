package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gallery_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gallery_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	ListingSyncTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gallery_listing_sync_total",
			Help: "Listing sync attempts by result",
		},
		[]string{"result"},
	)

	GalleryCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gallery_items_cache_total",
			Help: "Media collection cache lookups by result",
		},
		[]string{"result"},
	)
)
