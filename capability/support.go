// Package capability declares what each hosted search provider can do.
//
// The provider matrices are declarative fact tables: every value is an
// editorial judgment about the provider's real API surface, not
// something computed at runtime.
package capability

import "fmt"

// Support is the confidence level of one feature on one provider.
type Support string

// Support levels.
const (
	// Native means the provider implements the feature directly.
	Native Support = "native"
	// Limited means the feature works but with workarounds or caveats.
	Limited Support = "limited"
	// Unsupported means the provider has no form of the feature.
	Unsupported Support = "unsupported"
	// Conditional means support depends on configuration or plugins.
	Conditional Support = "conditional"
	// Emulated means the feature is reproduced client-side.
	Emulated Support = "emulated"
)

// IsValid checks if the value is one of the five support levels.
func (s Support) IsValid() bool {
	switch s {
	case Native, Limited, Unsupported, Conditional, Emulated:
		return true
	}
	return false
}

// IsAvailable reports whether the feature exists in any form.
func (s Support) IsAvailable() bool {
	return s != Unsupported && s.IsValid()
}

// IsNative reports whether the feature is natively implemented.
func (s Support) IsNative() bool {
	return s == Native
}

// NeedsFallback reports whether the feature requires a client-side
// fallback. Conditional is excluded on purpose: it means "ask the
// live backend", not "emulate". Unsupported is handled by the
// feature-family fallback policy, not by this predicate.
func (s Support) NeedsFallback() bool {
	return s == Limited || s == Emulated
}

// ParseSupport parses a support level from its string form.
func ParseSupport(s string) (Support, error) {
	sup := Support(s)
	if !sup.IsValid() {
		return "", fmt.Errorf("unknown support level %q", s)
	}
	return sup, nil
}
