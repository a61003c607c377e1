// Package metrics exposes the service's Prometheus counters.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Generations counts reply generations by outcome (ok, invalid_review,
	// rate_limit_exceeded, ai_failure).
	Generations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reviewreply_generations_total",
		Help: "Reply generations by outcome.",
	}, []string{"outcome"})

	// RateLimitRejections counts requests refused by the per-user quota.
	RateLimitRejections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reviewreply_rate_limit_rejections_total",
		Help: "Requests rejected by the hourly or daily quota.",
	})

	// SuggestionFallbacks counts suggestion responses that could not be
	// parsed and fell back to the default template and mood.
	SuggestionFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reviewreply_suggestion_fallbacks_total",
		Help: "Suggestion stage responses replaced by defaults.",
	})
)
