// Package fallback rewrites search results client-side when a
// provider lacks native support for a requested feature.
package fallback

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/searchbridge/searchbridge/capability"
	"github.com/searchbridge/searchbridge/search"
)

// Processor applies the configured degradation strategy to a result
// set. Read-only after construction, safe for concurrent use; the
// Results value passed to ProcessResults must not be shared during
// the call.
type Processor struct {
	strategy  capability.Strategy
	logger    *zap.Logger
	fallbacks *prometheus.CounterVec
}

// NewProcessor creates a fallback processor with the given strategy.
func NewProcessor(strategy capability.Strategy) *Processor {
	return &Processor{strategy: strategy, logger: zap.NewNop()}
}

// WithLogger attaches a logger for degradation warnings.
func (p *Processor) WithLogger(logger *zap.Logger) *Processor {
	p.logger = logger
	return p
}

// WithMetrics attaches a counter vector with labels (feature, policy),
// incremented once per fallback applied.
func (p *Processor) WithMetrics(fallbacks *prometheus.CounterVec) *Processor {
	p.fallbacks = fallbacks
	return p
}

// Strategy returns the degradation strategy.
func (p *Processor) Strategy() capability.Strategy { return p.strategy }

// ProcessResults patches holes in a provider response in place:
// facets and highlights are synthesized when the provider does not
// supply them natively, then missing totals and timings get defaults.
//
// supported is the feature name -> support snapshot derived from the
// provider's capability matrix; an absent key reads as unsupported.
//
// On error the results may be partially mutated: facets already
// written are not rolled back if highlighting fails afterwards.
func (p *Processor) ProcessResults(
	results *search.Results,
	query *search.Query,
	supported map[string]capability.Support,
) error {
	if len(query.Facets()) > 0 && degraded(supported, capability.FeatureFacetedSearch) {
		if err := p.applyFacetFallback(results, query); err != nil {
			return err
		}
	}

	if query.Highlight() != nil && degraded(supported, capability.FeatureHighlighting) {
		if err := p.applyHighlightFallback(results, query); err != nil {
			return err
		}
	}

	p.postProcess(results)
	return nil
}

// degraded reports whether a feature needs the client-side pass:
// Unsupported (including absent from the snapshot) or Emulated.
func degraded(supported map[string]capability.Support, feature string) bool {
	sup, ok := supported[feature]
	if !ok {
		sup = capability.Unsupported
	}
	return sup == capability.Unsupported || sup == capability.Emulated
}

// postProcess fills defaults for absent fields. TookMS 0 marks
// fallback processing, not a real provider timing.
func (p *Processor) postProcess(results *search.Results) {
	if results.Total == nil {
		total := len(results.Hits)
		results.Total = &total
	}
	if results.TookMS == nil {
		var took int64
		results.TookMS = &took
	}
}

func (p *Processor) warn(msg string, fields ...zap.Field) {
	if p.strategy.LogUnsupported {
		p.logger.Warn(msg, fields...)
	}
}

func (p *Processor) countFallback(feature, policy string) {
	if p.fallbacks != nil {
		p.fallbacks.WithLabelValues(feature, policy).Inc()
	}
}
