package fallback

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/searchbridge/searchbridge/capability"
	"github.com/searchbridge/searchbridge/search"
)

// Defaults for client-side highlighting.
const (
	defaultPreTag  = "<mark>"
	defaultPostTag = "</mark>"

	// snippetContext is how many bytes of surrounding text a snippet
	// keeps on each side of the first match.
	snippetContext = 50

	// maxSnippetsPerField caps the deduplicated snippet list.
	maxSnippetsPerField = 3

	// minTermLength: extracted search terms this short or shorter are
	// discarded as noise.
	minTermLength = 2
)

func (p *Processor) applyHighlightFallback(results *search.Results, query *search.Query) error {
	policy := p.strategy.HighlightFallback

	switch policy {
	case capability.HighlightNone:
		p.warn("highlighting not supported by provider, removing highlights",
			zap.String("policy", string(policy)))
		for i := range results.Hits {
			results.Hits[i].Highlights = nil
		}

	case capability.HighlightClientSide:
		p.warn("highlighting not supported by provider, applying client-side highlighting",
			zap.String("policy", string(policy)),
			zap.Int("hits", len(results.Hits)))
		if cfg := query.Highlight(); cfg != nil {
			if err := clientSideHighlight(results.Hits, query, cfg); err != nil {
				return err
			}
		}

	case capability.HighlightError:
		return fmt.Errorf("%w: highlighting", search.ErrUnsupported)

	default:
		return fmt.Errorf("%w: highlight fallback %q", search.ErrUnsupported, policy)
	}

	p.countFallback(capability.FeatureHighlighting, string(policy))
	return nil
}

func clientSideHighlight(hits []search.Hit, query *search.Query, cfg *search.Highlight) error {
	terms := ExtractSearchTerms(query)

	preTag := cfg.PreTag()
	if preTag == "" {
		preTag = defaultPreTag
	}
	postTag := cfg.PostTag()
	if postTag == "" {
		postTag = defaultPostTag
	}

	for i := range hits {
		if hits[i].Content == nil {
			continue
		}
		var doc map[string]any
		if err := json.Unmarshal([]byte(*hits[i].Content), &doc); err != nil {
			continue
		}

		highlights := generateHighlights(doc, cfg.Fields(), terms, preTag, postTag, cfg.MaxLength())
		if len(highlights) == 0 {
			// Do not overwrite a native highlight (or a nil) with an
			// empty map.
			continue
		}

		data, err := json.Marshal(highlights)
		if err != nil {
			return fmt.Errorf("%w: encode highlights: %w", search.ErrInternal, err)
		}
		encoded := string(data)
		hits[i].Highlights = &encoded
	}

	return nil
}

// ExtractSearchTerms tokenizes the query text for highlighting:
// whitespace-split, non-alphanumerics stripped, lowercased, short
// tokens dropped.
func ExtractSearchTerms(query *search.Query) []string {
	text, ok := query.Text()
	if !ok {
		return nil
	}

	var terms []string
	for _, raw := range strings.Fields(text) {
		var b strings.Builder
		for _, r := range raw {
			if isAlphanumeric(r) {
				b.WriteRune(r)
			}
		}
		term := strings.ToLower(b.String())
		if len(term) > minTermLength {
			terms = append(terms, term)
		}
	}
	return terms
}

func isAlphanumeric(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func generateHighlights(
	doc map[string]any,
	fields, terms []string,
	preTag, postTag string,
	maxLength int,
) map[string][]string {
	highlights := make(map[string][]string)

	for _, field := range fields {
		text, ok := doc[field].(string)
		if !ok {
			continue
		}
		snippets := HighlightText(text, terms, preTag, postTag, maxLength)
		if len(snippets) > 0 {
			highlights[field] = snippets
		}
	}

	return highlights
}

// HighlightText extracts a context window around the first occurrence
// of each term and wraps whole-word, case-insensitive matches of the
// term in the given tags. maxLength 0 means unlimited; otherwise the
// snippet is clipped to maxLength bytes from its start. Snippets are
// sorted, deduplicated, and capped at three.
func HighlightText(text string, terms []string, preTag, postTag string, maxLength int) []string {
	var snippets []string
	textLower := strings.ToLower(text)

	for _, term := range terms {
		pos := strings.Index(textLower, term)
		if pos < 0 {
			continue
		}

		start := pos - snippetContext
		if start < 0 {
			start = 0
		}
		end := pos + len(term) + snippetContext
		if maxLength > 0 && end > start+maxLength {
			end = start + maxLength
		}
		if end > len(text) {
			end = len(text)
		}
		if start >= len(text) {
			continue
		}

		snippet := text[start:end]
		re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(term) + `\b`)
		if err != nil {
			continue
		}
		snippet = re.ReplaceAllStringFunc(snippet, func(match string) string {
			return preTag + match + postTag
		})
		snippets = append(snippets, snippet)
	}

	sort.Strings(snippets)
	snippets = dedup(snippets)
	if len(snippets) > maxSnippetsPerField {
		snippets = snippets[:maxSnippetsPerField]
	}
	return snippets
}

// dedup removes adjacent duplicates from a sorted slice.
func dedup(sorted []string) []string {
	if len(sorted) < 2 {
		return sorted
	}
	out := sorted[:1]
	for _, s := range sorted[1:] {
		if s != out[len(out)-1] {
			out = append(out, s)
		}
	}
	return out
}
