package infra_metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "kinofav"

var (
	CatalogRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "catalog_requests_total",
		Help:      "Catalog API requests by kind and result.",
	}, []string{"kind", "result"})

	CatalogLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "catalog_request_duration_seconds",
		Help:      "Catalog API request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"kind"})

	FavoriteToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "favorite_toggles_total",
		Help:      "Favorite toggles by outcome.",
	}, []string{"outcome"})

	FavoriteSubscriptions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "favorite_subscriptions",
		Help:      "Open favorites subscriptions.",
	})

	SessionClients = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "session_clients",
		Help:      "Connected websocket clients.",
	})
)

const (
	ResultOK    = "ok"
	ResultError = "error"
)
