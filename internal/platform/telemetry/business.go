package telemetry

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// Domain counters exported on /-/metrics.
var (
	// RecipeWritesTotal counts recipe aggregate writes by operation and outcome.
	RecipeWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_recipe_writes_total",
			Help: "Recipe create, update and delete operations",
		},
		[]string{"operation", "outcome"},
	)

	// RelationTogglesTotal counts favorite and shopping cart changes.
	RelationTogglesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_relation_toggles_total",
			Help: "Favorite and shopping cart additions and removals",
		},
		[]string{"kind", "action"},
	)

	// SubscriptionTogglesTotal counts subscribe and unsubscribe calls that succeeded.
	SubscriptionTogglesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_subscription_toggles_total",
			Help: "Subscriptions created and removed",
		},
		[]string{"action"},
	)

	// ShoppingListDownloadsTotal counts rendered shopping lists.
	ShoppingListDownloadsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "foodgram_shopping_list_downloads_total",
			Help: "Shopping lists rendered for download",
		},
	)

	// LoginsTotal counts token logins by outcome.
	LoginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_logins_total",
			Help: "Token login attempts",
		},
		[]string{"outcome"},
	)
)

// Outcome returns the metric label for err.
func Outcome(err error) string {
	if err != nil {
		return "error"
	}

	return "success"
}

// StartSpan starts a span on the service tracer. It is a no-op span
// when telemetry is disabled.
func StartSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return otel.Tracer(instrumentationName).Start(ctx, name)
}
