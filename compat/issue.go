// Package compat validates search queries against a provider's
// capability matrix before dispatch. The check is advisory: it
// reports issues, it never blocks a query.
package compat

import "fmt"

// IssueKind tags a compatibility issue variant.
type IssueKind string

// Issue kinds.
const (
	// IssueUnsupportedFeature: the feature does not exist on the
	// provider; Fallback names the policy that will handle it.
	IssueUnsupportedFeature IssueKind = "unsupported_feature"
	// IssueLimitedSupport: the feature works with caveats.
	IssueLimitedSupport IssueKind = "limited_support"
	// IssueRequiresFallback: the feature is emulated; Method names the
	// client-side mechanism.
	IssueRequiresFallback IssueKind = "requires_fallback"
	// IssueConditionalSupport: support depends on backend state.
	IssueConditionalSupport IssueKind = "conditional_support"
	// IssuePerformanceLimit: a numeric limit is exceeded.
	IssuePerformanceLimit IssueKind = "performance_limit"
)

// Issue is one compatibility finding. Only the fields relevant to the
// Kind are populated.
type Issue struct {
	Kind IssueKind `json:"kind"`

	Feature    string `json:"feature,omitempty"`
	Fallback   string `json:"fallback,omitempty"`
	Limitation string `json:"limitation,omitempty"`
	Method     string `json:"method,omitempty"`
	Condition  string `json:"condition,omitempty"`

	Parameter string `json:"parameter,omitempty"`
	Requested string `json:"requested,omitempty"`
	Limit     string `json:"limit,omitempty"`
}

func (i Issue) String() string {
	switch i.Kind {
	case IssueUnsupportedFeature:
		return fmt.Sprintf("%s is unsupported (fallback: %s)", i.Feature, i.Fallback)
	case IssueLimitedSupport:
		return fmt.Sprintf("%s has limited support: %s", i.Feature, i.Limitation)
	case IssueRequiresFallback:
		return fmt.Sprintf("%s requires fallback: %s", i.Feature, i.Method)
	case IssueConditionalSupport:
		return fmt.Sprintf("%s is conditional: %s", i.Feature, i.Condition)
	case IssuePerformanceLimit:
		return fmt.Sprintf("%s exceeds limit: requested %s, limit %s", i.Parameter, i.Requested, i.Limit)
	default:
		return string(i.Kind)
	}
}

func unsupportedFeature(feature, fallback string) Issue {
	return Issue{Kind: IssueUnsupportedFeature, Feature: feature, Fallback: fallback}
}

func limitedSupport(feature, limitation string) Issue {
	return Issue{Kind: IssueLimitedSupport, Feature: feature, Limitation: limitation}
}

func requiresFallback(feature, method string) Issue {
	return Issue{Kind: IssueRequiresFallback, Feature: feature, Method: method}
}

func conditionalSupport(feature, condition string) Issue {
	return Issue{Kind: IssueConditionalSupport, Feature: feature, Condition: condition}
}

func performanceLimit(parameter string, requested, limit int) Issue {
	return Issue{
		Kind:      IssuePerformanceLimit,
		Parameter: parameter,
		Requested: fmt.Sprintf("%d", requested),
		Limit:     fmt.Sprintf("%d", limit),
	}
}
