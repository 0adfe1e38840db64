package monitoring

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	// PredictionRequests counts outbound calls to the prediction service by
	// outcome: success, request_error or transport_error.
	PredictionRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prediction_requests_total",
			Help: "Total number of requests sent to the prediction service",
		},
		[]string{"outcome"},
	)

	PredictionDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "prediction_request_duration_seconds",
			Help:    "Duration of requests sent to the prediction service",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10},
		},
	)

	// BlockedSubmissions counts submissions rejected before any request was
	// issued because a field was out of range.
	BlockedSubmissions = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "prediction_submissions_blocked_total",
			Help: "Submissions blocked by field validation",
		},
	)

	ActiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "form_sessions_active",
			Help: "Number of live form sessions",
		},
	)

	initOnce sync.Once
)

const (
	OutcomeSuccess        = "success"
	OutcomeRequestError   = "request_error"
	OutcomeTransportError = "transport_error"
)

func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(RequestCounter)
		prometheus.MustRegister(RequestDuration)
		prometheus.MustRegister(PredictionRequests)
		prometheus.MustRegister(PredictionDuration)
		prometheus.MustRegister(BlockedSubmissions)
		prometheus.MustRegister(ActiveSessions)
	})
}

func ObservePrediction(outcome string, start time.Time) {
	PredictionRequests.WithLabelValues(outcome).Inc()
	PredictionDuration.Observe(time.Since(start).Seconds())
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
