package utils

import (
	"strconv"
	"time"

	"github.com/kataras/iris/v12"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BookingDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "restaurant_booking_decisions_total",
		Help: "Booking capacity decisions by outcome",
	}, []string{"outcome"})

	SnapshotRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "restaurant_report_snapshots_total",
		Help: "Per-restaurant daily snapshot results",
	}, []string{"result"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "restaurant_http_request_duration_seconds",
		Help:    "Time spent serving HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

func MetricsMiddleware(ctx iris.Context) {
	start := time.Now()
	ctx.Next()

	route := ctx.GetCurrentRoute()
	path := ctx.Path()
	if route != nil {
		path = route.Path()
	}
	requestDuration.
		WithLabelValues(ctx.Method(), path, strconv.Itoa(ctx.GetStatusCode())).
		Observe(time.Since(start).Seconds())
}
