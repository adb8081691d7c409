// Package metrics holds the Prometheus collectors for the recommendation
// gateway. Everything here is registered on the default registry and
// exposed by the router's /metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ScoringFailures counts classified scoring-engine failures. The kind
	// label distinguishes unreachable / timed_out / unavailable; control
	// flow treats them identically.
	ScoringFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scoring_failures_total",
		Help: "Scoring engine call failures by classified kind.",
	}, []string{"kind"})

	// Fallbacks counts recommendation requests served from the
	// popularity fallback instead of the scored path.
	Fallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "recommendation_fallbacks_total",
		Help: "Recommendation requests that degraded to the fallback path.",
	}, []string{"reason"})

	// ScoredItemsDropped counts ids the engine returned that did not
	// resolve in the catalog. A steadily rising count means the engine's
	// index and the catalog have drifted apart.
	ScoredItemsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scored_items_dropped_total",
		Help: "Scored ids dropped because they did not resolve in the catalog.",
	})

	// BreakerState mirrors the scoring-engine circuit breaker state
	// (0 closed, 1 half-open, 2 open).
	BreakerState = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "scoring_breaker_state",
		Help: "Circuit breaker state for the scoring engine (0=closed, 1=half-open, 2=open).",
	})
)
