package capability

import "fmt"

// FacetFallback is the policy for queries that request facets a
// provider cannot serve.
type FacetFallback string

// Facet fallback policies.
const (
	// FacetEmpty returns an empty facet object.
	FacetEmpty FacetFallback = "empty"
	// FacetClientSide counts facet values over the returned hits.
	FacetClientSide FacetFallback = "client_side"
	// FacetSeparateQueries is declared but not implemented in the
	// fallback path; it logs and behaves like FacetEmpty.
	FacetSeparateQueries FacetFallback = "separate_queries"
	// FacetError refuses the query.
	FacetError FacetFallback = "error"
)

// IsValid checks if the value is a known facet policy.
func (f FacetFallback) IsValid() bool {
	switch f {
	case FacetEmpty, FacetClientSide, FacetSeparateQueries, FacetError:
		return true
	}
	return false
}

// HighlightFallback is the policy for unsupported highlighting.
type HighlightFallback string

// Highlight fallback policies.
const (
	HighlightNone       HighlightFallback = "none"
	HighlightClientSide HighlightFallback = "client_side"
	HighlightError      HighlightFallback = "error"
)

// IsValid checks if the value is a known highlight policy.
func (h HighlightFallback) IsValid() bool {
	switch h {
	case HighlightNone, HighlightClientSide, HighlightError:
		return true
	}
	return false
}

// StreamFallback is the policy for unsupported streaming search.
type StreamFallback string

// Streaming fallback policies.
const (
	StreamPagination StreamFallback = "pagination"
	StreamError      StreamFallback = "error"
)

// IsValid checks if the value is a known streaming policy.
func (s StreamFallback) IsValid() bool {
	return s == StreamPagination || s == StreamError
}

// VectorFallback is the policy for unsupported vector search.
type VectorFallback string

// Vector search fallback policies.
const (
	VectorTextSearch VectorFallback = "text_search"
	VectorError      VectorFallback = "error"
)

// IsValid checks if the value is a known vector policy.
func (v VectorFallback) IsValid() bool {
	return v == VectorTextSearch || v == VectorError
}

// GeoFallback is the policy for unsupported geo search.
type GeoFallback string

// Geo search fallback policies.
const (
	GeoBoundingBox GeoFallback = "bounding_box"
	GeoError       GeoFallback = "error"
)

// IsValid checks if the value is a known geo policy.
func (g GeoFallback) IsValid() bool {
	return g == GeoBoundingBox || g == GeoError
}

// Strategy selects one fallback policy per degradable feature family,
// plus two global flags. One Strategy per deployment or provider
// wrapper; immutable after construction.
type Strategy struct {
	FacetFallback     FacetFallback     `json:"facet_fallback" yaml:"facet_fallback"`
	HighlightFallback HighlightFallback `json:"highlight_fallback" yaml:"highlight_fallback"`
	StreamFallback    StreamFallback    `json:"streaming_fallback" yaml:"streaming_fallback"`
	VectorFallback    VectorFallback    `json:"vector_search_fallback" yaml:"vector_search_fallback"`
	GeoFallback       GeoFallback       `json:"geo_search_fallback" yaml:"geo_search_fallback"`

	// LogUnsupported enables warning logs for every degradation
	// decision. Advisory only, never affects control flow.
	LogUnsupported bool `json:"log_unsupported_warnings" yaml:"log_unsupported_warnings"`
	// StrictMode turns "feature unsupported" into an error instead of
	// attempting a fallback.
	StrictMode bool `json:"strict_mode" yaml:"strict_mode"`
}

// DefaultStrategy is the conventional policy: degrade everything
// client-side, warn, never refuse.
func DefaultStrategy() Strategy {
	return Strategy{
		FacetFallback:     FacetClientSide,
		HighlightFallback: HighlightClientSide,
		StreamFallback:    StreamPagination,
		VectorFallback:    VectorTextSearch,
		GeoFallback:       GeoBoundingBox,
		LogUnsupported:    true,
		StrictMode:        false,
	}
}

// Validate checks every policy field.
func (s Strategy) Validate() error {
	if !s.FacetFallback.IsValid() {
		return fmt.Errorf("invalid facet_fallback %q", s.FacetFallback)
	}
	if !s.HighlightFallback.IsValid() {
		return fmt.Errorf("invalid highlight_fallback %q", s.HighlightFallback)
	}
	if !s.StreamFallback.IsValid() {
		return fmt.Errorf("invalid streaming_fallback %q", s.StreamFallback)
	}
	if !s.VectorFallback.IsValid() {
		return fmt.Errorf("invalid vector_search_fallback %q", s.VectorFallback)
	}
	if !s.GeoFallback.IsValid() {
		return fmt.Errorf("invalid geo_search_fallback %q", s.GeoFallback)
	}
	return nil
}
