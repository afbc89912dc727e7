package opini

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts engine activity. A nil *Metrics records nothing.
type Metrics struct {
	// Analyses counts non-empty texts scored
	Analyses prometheus.Counter

	// BackendFallbacks counts backend failures scored as neutral, by operation
	// ("polarity" or "compound")
	BackendFallbacks *prometheus.CounterVec

	// Suggestions counts Suggest calls by whether a rewrite was offered
	Suggestions *prometheus.CounterVec
}

// NewMetrics registers the engine metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		Analyses: factory.NewCounter(prometheus.CounterOpts{
			Name: "opini_analyses_total",
			Help: "Total opinions scored",
		}),
		BackendFallbacks: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "opini_backend_fallbacks_total",
			Help: "Polarity backend failures replaced with a neutral score, by operation",
		}, []string{"operation"}),
		Suggestions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "opini_suggestions_total",
			Help: "Suggestion requests by whether a softer rewrite was found",
		}, []string{"found"}),
	}
}

func (m *Metrics) observeAnalysis() {
	if m == nil {
		return
	}
	m.Analyses.Inc()
}

func (m *Metrics) observeFallback(operation string) {
	if m == nil {
		return
	}
	m.BackendFallbacks.WithLabelValues(operation).Inc()
}

func (m *Metrics) observeSuggestion(found bool) {
	if m == nil {
		return
	}
	m.Suggestions.WithLabelValues(strconv.FormatBool(found)).Inc()
}
