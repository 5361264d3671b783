package capability

import (
	"errors"
	"fmt"
)

// Provider identifiers. The set is closed: matrices are editorial
// facts about specific products, not a plugin registry.
const (
	ProviderAlgolia       = "algolia"
	ProviderElasticsearch = "elasticsearch"
	ProviderOpenSearch    = "opensearch"
	ProviderTypesense     = "typesense"
	ProviderMeilisearch   = "meilisearch"
)

// ErrUnknownProvider signals a provider identifier outside the
// supported set.
var ErrUnknownProvider = errors.New("unknown provider")

// ProviderNames lists the supported provider identifiers.
func ProviderNames() []string {
	return []string{
		ProviderAlgolia, ProviderElasticsearch, ProviderOpenSearch,
		ProviderTypesense, ProviderMeilisearch,
	}
}

// ForProvider returns the capability matrix for a provider identifier.
func ForProvider(name string) (Matrix, error) {
	switch name {
	case ProviderAlgolia:
		return Algolia(), nil
	case ProviderElasticsearch:
		return Elasticsearch(), nil
	case ProviderOpenSearch:
		return OpenSearch(), nil
	case ProviderTypesense:
		return Typesense(), nil
	case ProviderMeilisearch:
		return Meilisearch(), nil
	default:
		return Matrix{}, fmt.Errorf("%w: %q", ErrUnknownProvider, name)
	}
}

// Elasticsearch returns the ElasticSearch capability matrix.
func Elasticsearch() Matrix {
	return Matrix{
		ProviderName: ProviderElasticsearch,
		Core:         allNativeCore(),
		Advanced: AdvancedFeatures{
			FacetedSearch:   Native,
			Highlighting:    Native,
			VectorSearch:    Conditional, // requires plugins
			GeoSearch:       Native,
			StreamingSearch: Native, // via scroll API
			Autocomplete:    Native,
			TypoTolerance:   Limited, // via fuzzy queries
			CustomRanking:   Native,
			Multilingual:    Native,
			BatchOperations: Native,
		},
		Limits: PerformanceLimits{
			MaxBatchSize:      intp(1000),
			MaxQueryLength:    intp(32768),
			MaxFacets:         intp(100),
			MaxFilters:        intp(256),
			MaxResultsPerPage: intp(10000),
			DefaultTimeoutSec: intp(30),
			RateLimitRPS:      nil, // depends on configuration
		},
		ProviderSpecific: map[string]Support{
			"scroll_api":       Native,
			"percolator":       Native,
			"machine_learning": Conditional,
			"security":         Conditional,
		},
	}
}

// OpenSearch returns the OpenSearch capability matrix. It tracks the
// ElasticSearch matrix except for better vector search support.
func OpenSearch() Matrix {
	m := Elasticsearch()
	m.ProviderName = ProviderOpenSearch
	m.Advanced.VectorSearch = Native

	specific := make(map[string]Support, len(m.ProviderSpecific)+2)
	for k, v := range m.ProviderSpecific {
		specific[k] = v
	}
	specific["neural_search"] = Native
	specific["anomaly_detection"] = Native
	m.ProviderSpecific = specific

	return m
}

// Typesense returns the Typesense capability matrix.
func Typesense() Matrix {
	return Matrix{
		ProviderName: ProviderTypesense,
		Core:         allNativeCore(),
		Advanced: AdvancedFeatures{
			FacetedSearch:   Native,
			Highlighting:    Native,
			VectorSearch:    Native,
			GeoSearch:       Native,
			StreamingSearch: Unsupported, // no scroll API
			Autocomplete:    Native,
			TypoTolerance:   Native, // built-in
			CustomRanking:   Native,
			Multilingual:    Limited,
			BatchOperations: Limited, // sequential only
		},
		Limits: PerformanceLimits{
			MaxBatchSize:      intp(100), // prefers smaller batches
			MaxQueryLength:    intp(2048),
			MaxFacets:         intp(50),
			MaxFilters:        intp(100),
			MaxResultsPerPage: intp(250),
			DefaultTimeoutSec: intp(30),
		},
		ProviderSpecific: map[string]Support{
			"instant_search":     Native,
			"collection_aliases": Native,
			"curation":           Native,
		},
	}
}

// Meilisearch returns the Meilisearch capability matrix.
func Meilisearch() Matrix {
	return Matrix{
		ProviderName: ProviderMeilisearch,
		Core:         allNativeCore(),
		Advanced: AdvancedFeatures{
			FacetedSearch:   Native,
			Highlighting:    Native,
			VectorSearch:    Limited, // experimental
			GeoSearch:       Native,
			StreamingSearch: Unsupported,
			Autocomplete:    Native,
			TypoTolerance:   Native, // excellent built-in
			CustomRanking:   Native,
			Multilingual:    Native,
			BatchOperations: Native,
		},
		Limits: PerformanceLimits{
			MaxBatchSize:      intp(1000),
			MaxQueryLength:    intp(4096),
			MaxFacets:         intp(100),
			MaxFilters:        intp(200),
			MaxResultsPerPage: intp(1000),
			DefaultTimeoutSec: intp(30),
		},
		ProviderSpecific: map[string]Support{
			"stop_words":    Native,
			"synonyms":      Native,
			"ranking_rules": Native,
			"distinct":      Native,
		},
	}
}

// Algolia returns the Algolia capability matrix.
func Algolia() Matrix {
	return Matrix{
		ProviderName: ProviderAlgolia,
		Core:         allNativeCore(),
		Advanced: AdvancedFeatures{
			FacetedSearch:   Native,
			Highlighting:    Native,
			VectorSearch:    Limited, // via Recommend API
			GeoSearch:       Native,
			StreamingSearch: Unsupported,
			Autocomplete:    Native,
			TypoTolerance:   Native, // industry-leading
			CustomRanking:   Native,
			Multilingual:    Native,
			BatchOperations: Native,
		},
		Limits: PerformanceLimits{
			MaxBatchSize:      intp(1000),
			MaxQueryLength:    intp(512),
			MaxFacets:         intp(100),
			MaxFilters:        intp(100),
			MaxResultsPerPage: intp(1000),
			DefaultTimeoutSec: intp(30),
			RateLimitRPS:      intp(1000), // depends on plan
		},
		ProviderSpecific: map[string]Support{
			"analytics":       Native,
			"ab_testing":      Native,
			"personalization": Native,
			"recommend":       Native,
		},
	}
}

// allNativeCore covers the five hosted engines: every one implements
// the full core feature set natively.
func allNativeCore() CoreCapabilities {
	return CoreCapabilities{
		FullTextSearch:     Native,
		KeywordSearch:      Native,
		IndexManagement:    Native,
		DocumentOperations: Native,
		SchemaManagement:   Native,
		Filtering:          Native,
		Pagination:         Native,
	}
}

func intp(n int) *int { return &n }
