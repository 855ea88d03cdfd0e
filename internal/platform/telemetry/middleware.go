package telemetry

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/foodgram/internal/platform/logging"
)

// HeaderTraceID carries the active trace id back to the client.
const HeaderTraceID = "X-Trace-ID"

// HTTP server metrics exported on /-/metrics.
var (
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "foodgram_http_request_duration_seconds",
			Help:    "API request latency by route and status",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "foodgram_http_requests_in_flight",
			Help: "API requests currently being served",
		},
	)
)

// Middleware returns the tracing and metrics middleware for the API.
// Requests whose path starts with one of skipPrefixes get neither a span nor
// a metric sample, so probes and static media stay out of the data.
func Middleware(serviceName string, skipPrefixes ...string) gin.HandlerFunc {
	skipped := func(r *http.Request) bool {
		for _, p := range skipPrefixes {
			if strings.HasPrefix(r.URL.Path, p) {
				return true
			}
		}

		return false
	}

	tracing := otelgin.Middleware(serviceName, otelgin.WithFilter(func(r *http.Request) bool {
		return !skipped(r)
	}))

	return func(c *gin.Context) {
		if skipped(c.Request) {
			c.Next()
			return
		}

		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		start := time.Now()

		tracing(c)

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		httpRequestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

// TraceHeader returns middleware that echoes the trace id in X-Trace-ID
// and adds it to the request logger. It must run after Middleware, inside
// the span.
func TraceHeader() gin.HandlerFunc {
	return func(c *gin.Context) {
		if sc := trace.SpanContextFromContext(c.Request.Context()); sc.HasTraceID() {
			id := sc.TraceID().String()
			c.Header(HeaderTraceID, id)
			c.Request = c.Request.WithContext(logging.With(c.Request.Context(), "trace_id", id))
		}

		c.Next()
	}
}
