package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketplace_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "marketplace_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	ProductsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "marketplace_products_created_total",
			Help: "Products created",
		},
	)

	ReviewsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "marketplace_reviews_created_total",
			Help: "Reviews created",
		},
	)

	CascadeDeletes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketplace_cascade_deletes_total",
			Help: "Documents removed by cascading deletes",
		},
		[]string{"entity"},
	)

	RatingRecomputations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketplace_rating_recomputations_total",
			Help: "Average rating recomputations by outcome",
		},
		[]string{"outcome"},
	)
)

func RecordHTTPRequest(method, route, status string, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func RecordCascadeDelete(entity string, n int) {
	CascadeDeletes.WithLabelValues(entity).Add(float64(n))
}

func RecordRatingRecompute(ok bool) {
	if ok {
		RatingRecomputations.WithLabelValues("ok").Inc()
		return
	}
	RatingRecomputations.WithLabelValues("failed").Inc()
}
