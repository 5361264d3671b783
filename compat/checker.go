package compat

import (
	"github.com/searchbridge/searchbridge/capability"
	"github.com/searchbridge/searchbridge/search"
)

// Report is the outcome of one query-support check. Created fresh per
// Check call, never persisted.
type Report struct {
	// FullySupported is true when no issues were found.
	FullySupported bool `json:"is_fully_supported"`
	// RequiresFallback is true only when a requested feature is
	// Unsupported or Emulated. A performance-limit overflow alone
	// never sets it.
	RequiresFallback bool `json:"requires_fallback"`

	Issues []Issue `json:"issues"`
}

// Checker validates queries against one provider's capability matrix
// under one degradation strategy. Read-only after construction, safe
// for concurrent use.
type Checker struct {
	matrix   capability.Matrix
	strategy capability.Strategy
}

// NewChecker creates a capability checker.
func NewChecker(matrix capability.Matrix, strategy capability.Strategy) *Checker {
	return &Checker{matrix: matrix, strategy: strategy}
}

// Matrix returns the capability matrix.
func (c *Checker) Matrix() capability.Matrix { return c.matrix }

// Strategy returns the degradation strategy.
func (c *Checker) Strategy() capability.Strategy { return c.strategy }

// Check reports how well the provider supports a query. It always
// returns a report, even for a fully degraded query; it cannot fail.
func (c *Checker) Check(q *search.Query) Report {
	var issues []Issue
	requiresFB := false

	if len(q.Facets()) > 0 {
		issue, fb := advancedFeatureIssue(
			c.matrix.Advanced.FacetedSearch,
			capability.FeatureFacetedSearch,
			"May have performance or accuracy limitations",
			string(c.strategy.FacetFallback),
			"Client-side post-processing",
			"Depends on index configuration",
		)
		if issue != nil {
			issues = append(issues, *issue)
		}
		requiresFB = requiresFB || fb
	}

	if q.Highlight() != nil {
		issue, fb := advancedFeatureIssue(
			c.matrix.Advanced.Highlighting,
			capability.FeatureHighlighting,
			"May not support all highlight options",
			string(c.strategy.HighlightFallback),
			"Client-side text processing",
			"Depends on field configuration",
		)
		if issue != nil {
			issues = append(issues, *issue)
		}
		requiresFB = requiresFB || fb
	}

	if perPage, ok := q.PerPage(); ok {
		if max := c.matrix.Limits.MaxResultsPerPage; max != nil && perPage > *max {
			issues = append(issues, performanceLimit("per_page", perPage, *max))
		}
	}

	if text, ok := q.Text(); ok {
		// Byte length, not rune count. See PerformanceLimits.MaxQueryLength.
		if max := c.matrix.Limits.MaxQueryLength; max != nil && len(text) > *max {
			issues = append(issues, performanceLimit("query_length", len(text), *max))
		}
	}

	if n := len(q.Filters()); n > 0 {
		if max := c.matrix.Limits.MaxFilters; max != nil && n > *max {
			issues = append(issues, performanceLimit("filter_count", n, *max))
		}
	}

	return Report{
		FullySupported:   len(issues) == 0,
		RequiresFallback: requiresFB,
		Issues:           issues,
	}
}

// advancedFeatureIssue maps one support level to its issue, if any.
// The second return is true when a client-side fallback is required
// (Unsupported and Emulated only).
func advancedFeatureIssue(
	sup capability.Support,
	feature, limitation, fallback, method, condition string,
) (*Issue, bool) {
	switch sup {
	case capability.Native:
		return nil, false
	case capability.Limited:
		i := limitedSupport(feature, limitation)
		return &i, false
	case capability.Unsupported:
		i := unsupportedFeature(feature, fallback)
		return &i, true
	case capability.Emulated:
		i := requiresFallback(feature, method)
		return &i, true
	case capability.Conditional:
		i := conditionalSupport(feature, condition)
		return &i, false
	default:
		// unset matrix slots read as unsupported
		i := unsupportedFeature(feature, fallback)
		return &i, true
	}
}
