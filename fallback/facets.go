package fallback

import (
	"encoding/json"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/searchbridge/searchbridge/capability"
	"github.com/searchbridge/searchbridge/search"
)

const emptyFacets = "{}"

func (p *Processor) applyFacetFallback(results *search.Results, query *search.Query) error {
	policy := p.strategy.FacetFallback

	switch policy {
	case capability.FacetEmpty:
		p.warn("faceted search not supported by provider, returning empty facets",
			zap.String("policy", string(policy)))
		empty := emptyFacets
		results.Facets = &empty

	case capability.FacetClientSide:
		p.warn("faceted search not supported by provider, computing facets client-side",
			zap.String("policy", string(policy)),
			zap.Int("fields", len(query.Facets())))
		facets := ComputeClientSideFacets(results.Hits, query.Facets())
		data, err := json.Marshal(facets)
		if err != nil {
			return fmt.Errorf("%w: encode client-side facets: %w", search.ErrInternal, err)
		}
		encoded := string(data)
		results.Facets = &encoded

	case capability.FacetSeparateQueries:
		// Would need a second aggregation-only request through the
		// provider adapter; this core never calls back into one.
		p.warn("faceted search not supported by provider, separate queries not implemented in fallback",
			zap.String("policy", string(policy)))
		empty := emptyFacets
		results.Facets = &empty

	case capability.FacetError:
		return fmt.Errorf("%w: faceted search", search.ErrUnsupported)

	default:
		return fmt.Errorf("%w: facet fallback %q", search.ErrUnsupported, policy)
	}

	p.countFallback(capability.FeatureFacetedSearch, string(policy))
	return nil
}

// ComputeClientSideFacets counts distinct field values across the
// hits' document content. Array-valued fields count one per element.
// Fields with no occurrences are omitted from the result entirely.
// Hits with missing or unparseable content are skipped.
func ComputeClientSideFacets(hits []search.Hit, fields []string) map[string]map[string]int {
	facets := make(map[string]map[string]int)

	for _, field := range fields {
		counts := make(map[string]int)

		for i := range hits {
			if hits[i].Content == nil {
				continue
			}
			var doc map[string]any
			if err := json.Unmarshal([]byte(*hits[i].Content), &doc); err != nil {
				continue
			}
			value, ok := doc[field]
			if !ok {
				continue
			}
			if arr, ok := value.([]any); ok {
				for _, item := range arr {
					counts[facetValue(item)]++
				}
				continue
			}
			counts[facetValue(value)]++
		}

		if len(counts) > 0 {
			facets[field] = counts
		}
	}

	return facets
}

// facetValue coerces a JSON value to its facet key string.
func facetValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		data, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(data)
	}
}
