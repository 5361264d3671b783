package capability

// Matrix declares one provider's feature support levels and
// performance limits. Matrices are constructed once per provider and
// never mutated; they are safe to share across goroutines.
type Matrix struct {
	ProviderName    string `json:"provider_name"`
	ProviderVersion string `json:"provider_version,omitempty"`

	Core     CoreCapabilities  `json:"core_capabilities"`
	Advanced AdvancedFeatures  `json:"advanced_features"`
	Limits   PerformanceLimits `json:"performance_limits"`

	// ProviderSpecific is the one open-ended part of the model:
	// provider quirks keyed by feature name, extended without touching
	// the core contract.
	ProviderSpecific map[string]Support `json:"provider_specific,omitempty"`
}

// CoreCapabilities are the table stakes most providers support.
// Every field must hold one of the five support levels; there is no
// "unset" state, only Unsupported.
type CoreCapabilities struct {
	FullTextSearch     Support `json:"full_text_search"`
	KeywordSearch      Support `json:"keyword_search"`
	IndexManagement    Support `json:"index_management"`
	DocumentOperations Support `json:"document_operations"`
	SchemaManagement   Support `json:"schema_management"`
	Filtering          Support `json:"filtering"`
	Pagination         Support `json:"pagination"`
}

// AdvancedFeatures are the capabilities that separate providers.
type AdvancedFeatures struct {
	FacetedSearch   Support `json:"faceted_search"`
	Highlighting    Support `json:"highlighting"`
	VectorSearch    Support `json:"vector_search"`
	GeoSearch       Support `json:"geo_search"`
	StreamingSearch Support `json:"streaming_search"`
	Autocomplete    Support `json:"autocomplete"`
	TypoTolerance   Support `json:"typo_tolerance"`
	CustomRanking   Support `json:"custom_ranking"`
	Multilingual    Support `json:"multilingual"`
	BatchOperations Support `json:"batch_operations"`
}

// PerformanceLimits hold per-provider numeric limits. nil means the
// provider documents no limit (or it depends on the deployment).
type PerformanceLimits struct {
	MaxBatchSize *int `json:"max_batch_size,omitempty"`
	// MaxQueryLength is compared against the byte length of the query
	// string, not the rune count.
	MaxQueryLength    *int `json:"max_query_length,omitempty"`
	MaxFacets         *int `json:"max_facets,omitempty"`
	MaxFilters        *int `json:"max_filters,omitempty"`
	MaxResultsPerPage *int `json:"max_results_per_page,omitempty"`
	DefaultTimeoutSec *int `json:"default_timeout_seconds,omitempty"`
	RateLimitRPS      *int `json:"rate_limit_rps,omitempty"`
}

// Core and advanced feature names, as used by Feature, Snapshot and
// the compatibility checker.
const (
	FeatureFullTextSearch     = "full_text_search"
	FeatureKeywordSearch      = "keyword_search"
	FeatureIndexManagement    = "index_management"
	FeatureDocumentOperations = "document_operations"
	FeatureSchemaManagement   = "schema_management"
	FeatureFiltering          = "filtering"
	FeaturePagination         = "pagination"

	FeatureFacetedSearch   = "faceted_search"
	FeatureHighlighting    = "highlighting"
	FeatureVectorSearch    = "vector_search"
	FeatureGeoSearch       = "geo_search"
	FeatureStreamingSearch = "streaming_search"
	FeatureAutocomplete    = "autocomplete"
	FeatureTypoTolerance   = "typo_tolerance"
	FeatureCustomRanking   = "custom_ranking"
	FeatureMultilingual    = "multilingual"
	FeatureBatchOperations = "batch_operations"
)

// FeatureNames lists every core and advanced feature name in a fixed
// order.
func FeatureNames() []string {
	return []string{
		FeatureFullTextSearch, FeatureKeywordSearch, FeatureIndexManagement,
		FeatureDocumentOperations, FeatureSchemaManagement, FeatureFiltering,
		FeaturePagination,
		FeatureFacetedSearch, FeatureHighlighting, FeatureVectorSearch,
		FeatureGeoSearch, FeatureStreamingSearch, FeatureAutocomplete,
		FeatureTypoTolerance, FeatureCustomRanking, FeatureMultilingual,
		FeatureBatchOperations,
	}
}

// Feature looks up the support level for a feature name. Known names
// dispatch to the matrix fields, anything else falls through to the
// provider-specific map, then to Unsupported.
func (m *Matrix) Feature(name string) Support {
	switch name {
	case FeatureFullTextSearch:
		return m.Core.FullTextSearch
	case FeatureKeywordSearch:
		return m.Core.KeywordSearch
	case FeatureIndexManagement:
		return m.Core.IndexManagement
	case FeatureDocumentOperations:
		return m.Core.DocumentOperations
	case FeatureSchemaManagement:
		return m.Core.SchemaManagement
	case FeatureFiltering:
		return m.Core.Filtering
	case FeaturePagination:
		return m.Core.Pagination
	case FeatureFacetedSearch:
		return m.Advanced.FacetedSearch
	case FeatureHighlighting:
		return m.Advanced.Highlighting
	case FeatureVectorSearch:
		return m.Advanced.VectorSearch
	case FeatureGeoSearch:
		return m.Advanced.GeoSearch
	case FeatureStreamingSearch:
		return m.Advanced.StreamingSearch
	case FeatureAutocomplete:
		return m.Advanced.Autocomplete
	case FeatureTypoTolerance:
		return m.Advanced.TypoTolerance
	case FeatureCustomRanking:
		return m.Advanced.CustomRanking
	case FeatureMultilingual:
		return m.Advanced.Multilingual
	case FeatureBatchOperations:
		return m.Advanced.BatchOperations
	}
	if sup, ok := m.ProviderSpecific[name]; ok {
		return sup
	}
	return Unsupported
}

// Snapshot flattens the matrix into a feature name -> support map.
// This is the read-only view the fallback processor consumes.
func (m *Matrix) Snapshot() map[string]Support {
	snap := make(map[string]Support, len(FeatureNames())+len(m.ProviderSpecific))
	for _, name := range FeatureNames() {
		snap[name] = m.Feature(name)
	}
	for name, sup := range m.ProviderSpecific {
		snap[name] = sup
	}
	return snap
}
