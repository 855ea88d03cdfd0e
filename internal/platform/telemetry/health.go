package telemetry

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// healthCheckDuration is created on first use so it binds to the meter
// provider installed by Setup.
var healthCheckDuration = sync.OnceValue(func() metric.Float64Histogram {
	h, err := otel.Meter(instrumentationName).Float64Histogram(
		"foodgram.health.check.duration",
		metric.WithDescription("Duration of readiness dependency checks"),
		metric.WithUnit("s"),
	)
	if err != nil {
		otel.Handle(err)
	}

	return h
})

// RecordHealthCheck exports the outcome of one readiness check over OTLP.
func RecordHealthCheck(ctx context.Context, name string, healthy bool, took time.Duration) {
	h := healthCheckDuration()
	if h == nil {
		return
	}

	h.Record(ctx, took.Seconds(), metric.WithAttributes(
		attribute.String("check", name),
		attribute.Bool("healthy", healthy),
	))
}
