package metrics

import "github.com/prometheus/client_golang/prometheus"

// Degradation Prometheus metrics.
var (
	DegradationFallbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "searchbridge",
			Name:      "degradation_fallbacks_total",
			Help:      "Total number of client-side fallbacks applied",
		},
		[]string{"feature", "policy"},
	)

	CompatibilityIssuesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "searchbridge",
			Name:      "compatibility_issues_total",
			Help:      "Total compatibility issues found by query checks",
		},
		[]string{"provider", "kind"},
	)

	CompatibilityChecksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "searchbridge",
			Name:      "compatibility_checks_total",
			Help:      "Total query compatibility checks",
		},
		[]string{"provider", "result"}, // "supported" / "degraded"
	)
)

var degradationMetricsRegistered bool

// RegisterDegradationMetrics registers Prometheus degradation metrics. Must be called once from main.
func RegisterDegradationMetrics() {
	if degradationMetricsRegistered {
		return
	}
	prometheus.MustRegister(DegradationFallbacksTotal)
	prometheus.MustRegister(CompatibilityIssuesTotal)
	prometheus.MustRegister(CompatibilityChecksTotal)
	degradationMetricsRegistered = true
}
