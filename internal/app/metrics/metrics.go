package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	changeRequestsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "finishline",
		Subsystem: "change_requests",
		Name:      "created_total",
		Help:      "Change requests created, by type.",
	}, []string{"type"})

	changeRequestsReviewed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "finishline",
		Subsystem: "change_requests",
		Name:      "reviewed_total",
		Help:      "Change request reviews, by outcome.",
	}, []string{"outcome"})

	notificationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "finishline",
		Subsystem: "notifications",
		Name:      "failures_total",
		Help:      "Change request notifications that could not be delivered.",
	})

	httpLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "finishline",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "Latency of HTTP requests by route and status.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

func ChangeRequestCreated(crType string) {
	changeRequestsCreated.WithLabelValues(crType).Inc()
}

func ChangeRequestReviewed(accepted bool) {
	outcome := "rejected"
	if accepted {
		outcome = "accepted"
	}
	changeRequestsReviewed.WithLabelValues(outcome).Inc()
}

func NotificationFailed() {
	notificationFailures.Inc()
}

// ObserveRequest records one served request. route is the gin route template.
func ObserveRequest(method, route string, status int, latency time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpLatency.WithLabelValues(method, route, strconv.Itoa(status)).Observe(latency.Seconds())
}

func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
