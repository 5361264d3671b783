package fallback

import (
	"encoding/json"
	"strings"

	"github.com/searchbridge/searchbridge/capability"
	"github.com/searchbridge/searchbridge/search"
)

// Impact estimates the cost of running fallbacks for a query.
type Impact int

// Impact levels, ordered.
const (
	ImpactLow Impact = iota
	ImpactMedium
	ImpactHigh
)

func (i Impact) String() string {
	switch i {
	case ImpactLow:
		return "low"
	case ImpactMedium:
		return "medium"
	case ImpactHigh:
		return "high"
	default:
		return "unknown"
	}
}

// UsesVectorSearch reports whether the query carries vector-search
// parameters in its provider-specific config.
func UsesVectorSearch(query *search.Query) bool {
	raw, ok := query.ProviderParams()
	if !ok {
		return false
	}
	var params map[string]any
	if err := json.Unmarshal([]byte(raw), &params); err != nil {
		return false
	}
	for _, key := range []string{"vector", "embedding", "semantic"} {
		if _, ok := params[key]; ok {
			return true
		}
	}
	return false
}

// UsesGeoSearch reports whether any filter looks geospatial. The
// check is deliberately crude substring matching, not a filter parser.
func UsesGeoSearch(query *search.Query) bool {
	for _, filter := range query.Filters() {
		if strings.Contains(filter, "geo_distance") ||
			strings.Contains(filter, "geo_bounding_box") ||
			strings.Contains(filter, "latitude") ||
			strings.Contains(filter, "longitude") {
			return true
		}
	}
	return false
}

// UsesAdvancedAggregations reports whether the query's faceting is
// heavy enough to count as an aggregation workload.
func UsesAdvancedAggregations(query *search.Query) bool {
	if len(query.Facets()) > 5 {
		return true
	}
	for _, facet := range query.Facets() {
		if strings.Contains(facet, "nested") {
			return true
		}
	}
	return false
}

// EstimateImpact folds the unsupported-feature list into a single
// performance impact via a monotone max.
func EstimateImpact(query *search.Query, unsupportedFeatures []string) Impact {
	impact := ImpactLow

	for _, feature := range unsupportedFeatures {
		var contribution Impact
		switch feature {
		case capability.FeatureFacetedSearch:
			switch n := len(query.Facets()); {
			case n > 10:
				contribution = ImpactHigh
			case n > 3:
				contribution = ImpactMedium
			default:
				contribution = ImpactLow
			}
		case capability.FeatureHighlighting:
			contribution = ImpactLow
		case capability.FeatureStreamingSearch:
			contribution = ImpactMedium
		case capability.FeatureVectorSearch:
			contribution = ImpactHigh
		default:
			contribution = ImpactMedium
		}
		if contribution > impact {
			impact = contribution
		}
	}

	return impact
}
