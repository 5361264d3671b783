// Package searchbridge maps search queries onto providers with uneven
// feature support. A Provider pairs one provider's capability matrix
// with a degradation strategy; callers check a query before sending it
// and run provider responses through the fallback pass afterwards.
package searchbridge

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/searchbridge/searchbridge/capability"
	"github.com/searchbridge/searchbridge/compat"
	"github.com/searchbridge/searchbridge/fallback"
	"github.com/searchbridge/searchbridge/search"
)

// Sentinel errors, re-exported so callers can match with errors.Is
// without importing the leaf packages.
var (
	ErrUnsupported     = search.ErrUnsupported
	ErrInternal        = search.ErrInternal
	ErrInvalidQuery    = search.ErrInvalidQuery
	ErrUnknownProvider = capability.ErrUnknownProvider
)

// Capabilities describes what a configured provider can do. Provider
// implements it; adapters wrapping a real provider client can too.
type Capabilities interface {
	// CapabilityMatrix returns the provider's full fact table.
	CapabilityMatrix() capability.Matrix

	// SupportsFeature resolves one feature name to its support level.
	// Unknown names read as unsupported.
	SupportsFeature(name string) capability.Support

	// DegradationStrategy returns the active fallback policies.
	DegradationStrategy() capability.Strategy

	// ValidateQueryCompatibility reports every gap between the query
	// and the provider. It never fails; strictness is Prepare's job.
	ValidateQueryCompatibility(query *search.Query) compat.Report
}

// Option configures a Provider.
type Option func(*providerConfig)

type providerConfig struct {
	strategy  *capability.Strategy
	logger    *zap.Logger
	fallbacks *prometheus.CounterVec
}

// WithStrategy replaces the default degradation strategy.
func WithStrategy(s capability.Strategy) Option {
	return func(cfg *providerConfig) {
		cfg.strategy = &s
	}
}

// WithLogger sets the logger for degradation warnings.
func WithLogger(logger *zap.Logger) Option {
	return func(cfg *providerConfig) {
		cfg.logger = logger
	}
}

// WithFallbackMetrics counts applied fallbacks on the given vec,
// labelled by feature and policy.
func WithFallbackMetrics(fallbacks *prometheus.CounterVec) Option {
	return func(cfg *providerConfig) {
		cfg.fallbacks = fallbacks
	}
}

// Provider binds one provider's capability matrix to a degradation
// strategy. The zero value is not usable; construct with NewProvider.
type Provider struct {
	name      string
	matrix    capability.Matrix
	strategy  capability.Strategy
	checker   *compat.Checker
	processor *fallback.Processor
}

var _ Capabilities = (*Provider)(nil)

// NewProvider creates a Provider for one of the known provider names
// (see Providers). Unknown names return ErrUnknownProvider.
func NewProvider(name string, opts ...Option) (*Provider, error) {
	matrix, err := capability.ForProvider(name)
	if err != nil {
		return nil, fmt.Errorf("searchbridge: %w", err)
	}

	cfg := &providerConfig{}
	for _, o := range opts {
		o(cfg)
	}

	strategy := capability.DefaultStrategy()
	if cfg.strategy != nil {
		strategy = *cfg.strategy
	}
	if err := strategy.Validate(); err != nil {
		return nil, fmt.Errorf("searchbridge: %w", err)
	}

	processor := fallback.NewProcessor(strategy)
	if cfg.logger != nil {
		processor = processor.WithLogger(cfg.logger)
	}
	if cfg.fallbacks != nil {
		processor = processor.WithMetrics(cfg.fallbacks)
	}

	return &Provider{
		name:      name,
		matrix:    matrix,
		strategy:  strategy,
		checker:   compat.NewChecker(matrix, strategy),
		processor: processor,
	}, nil
}

// Providers lists the supported provider names.
func Providers() []string {
	return capability.ProviderNames()
}

// Name returns the provider name this Provider was built for.
func (p *Provider) Name() string { return p.name }

// CapabilityMatrix returns a copy of the provider's fact table.
func (p *Provider) CapabilityMatrix() capability.Matrix { return p.matrix }

// SupportsFeature resolves a feature name through the matrix.
func (p *Provider) SupportsFeature(name string) capability.Support {
	return p.matrix.Feature(name)
}

// DegradationStrategy returns the strategy in effect.
func (p *Provider) DegradationStrategy() capability.Strategy {
	return p.strategy
}

// ValidateQueryCompatibility reports how well the provider supports
// the query.
func (p *Provider) ValidateQueryCompatibility(query *search.Query) compat.Report {
	return p.checker.Check(query)
}

// Prepare validates a query before it is sent. The report is always
// returned; in strict mode any compatibility issue additionally
// surfaces as ErrUnsupported instead of being degraded later.
func (p *Provider) Prepare(query *search.Query) (compat.Report, error) {
	report := p.checker.Check(query)
	if p.strategy.StrictMode && !report.FullySupported {
		return report, fmt.Errorf(
			"searchbridge: %w: provider %s: %s",
			ErrUnsupported, p.name, report.Issues[0].String(),
		)
	}
	return report, nil
}

// ProcessResults runs the fallback pass over a provider response,
// using this provider's capability snapshot.
func (p *Provider) ProcessResults(results *search.Results, query *search.Query) error {
	return p.processor.ProcessResults(results, query, p.matrix.Snapshot())
}

// EstimateImpact estimates the performance cost of the fallbacks this
// query would trigger against this provider.
func (p *Provider) EstimateImpact(query *search.Query) fallback.Impact {
	report := p.checker.Check(query)

	var features []string
	for _, issue := range report.Issues {
		if issue.Feature != "" {
			features = append(features, issue.Feature)
		}
	}
	return fallback.EstimateImpact(query, features)
}

// StreamingPaginator returns a pagination-based streaming emulation
// sized for this provider: page size capped at the provider's
// max_results_per_page when one is declared.
func (p *Provider) StreamingPaginator(pageSize, maxPages int) *fallback.Paginator {
	if limit := p.matrix.Limits.MaxResultsPerPage; limit != nil && pageSize > *limit {
		pageSize = *limit
	}
	return fallback.NewPaginator(pageSize, maxPages)
}
