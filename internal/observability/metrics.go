package observability

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_http_requests_total",
			Help: "Total number of HTTP requests processed by the chat service.",
		},
		[]string{"method", "route", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chat_http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)
	streamsActive = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "chat_streams_active",
			Help: "Number of token streams currently being relayed to clients.",
		},
		[]string{"provider"},
	)
	streamDeltasTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_stream_deltas_total",
			Help: "Total number of text deltas received from providers.",
		},
		[]string{"provider", "model"},
	)
	persistFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_message_persist_failures_total",
			Help: "Total number of failed message store writes by direction.",
		},
		[]string{"direction"},
	)
	amqpPublishErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "chat_amqp_publish_errors_total",
			Help: "Total number of AMQP publish errors.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpRequestDuration,
		streamsActive,
		streamDeltasTotal,
		persistFailuresTotal,
		amqpPublishErrorsTotal,
	)
}

// HTTPMetricsMiddleware records request counts and latencies per route.
func HTTPMetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		status := c.Writer.Status()

		httpRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
		httpRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

func IncStreamActive(provider string) {
	streamsActive.WithLabelValues(provider).Inc()
}

func DecStreamActive(provider string) {
	streamsActive.WithLabelValues(provider).Dec()
}

func AddStreamDelta(provider, model string) {
	streamDeltasTotal.WithLabelValues(provider, model).Inc()
}

func IncPersistFailure(direction string) {
	persistFailuresTotal.WithLabelValues(direction).Inc()
}

func IncAMQPPublishError() {
	amqpPublishErrorsTotal.Inc()
}
