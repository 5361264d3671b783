package fallback

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/searchbridge/searchbridge/capability"
	"github.com/searchbridge/searchbridge/search"
)

func strp(s string) *string { return &s }

func threeHits() []search.Hit {
	score1, score2, score3 := 1.0, 0.8, 0.6
	return []search.Hit{
		{ID: "1", Score: &score1, Content: strp(`{"category": "books", "price": 10}`)},
		{ID: "2", Score: &score2, Content: strp(`{"category": "books", "price": 15}`)},
		{ID: "3", Score: &score3, Content: strp(`{"category": "electronics", "price": 100}`)},
	}
}

func facetQuery(t *testing.T) search.Query {
	t.Helper()
	q, err := search.NewBuilder().Text("test").Facet("category").Build()
	if err != nil {
		t.Fatalf("build query: %v", err)
	}
	return q
}

func highlightQuery(t *testing.T, text string, fields ...string) search.Query {
	t.Helper()
	h, err := search.NewHighlight(fields, "", "", 0)
	if err != nil {
		t.Fatalf("NewHighlight: %v", err)
	}
	q, err := search.NewBuilder().Text(text).HighlightWith(h).Build()
	if err != nil {
		t.Fatalf("build query: %v", err)
	}
	return q
}

func unsupportedSnapshot() map[string]capability.Support {
	return map[string]capability.Support{
		capability.FeatureFacetedSearch: capability.Unsupported,
		capability.FeatureHighlighting:  capability.Unsupported,
	}
}

func TestComputeClientSideFacets(t *testing.T) {
	facets := ComputeClientSideFacets(threeHits(), []string{"category"})

	if len(facets) != 1 {
		t.Fatalf("facets = %v, want one field", facets)
	}
	if facets["category"]["books"] != 2 {
		t.Errorf("books = %d, want 2", facets["category"]["books"])
	}
	if facets["category"]["electronics"] != 1 {
		t.Errorf("electronics = %d, want 1", facets["category"]["electronics"])
	}
}

func TestComputeClientSideFacets_ArraysAndScalars(t *testing.T) {
	hits := []search.Hit{
		{ID: "1", Content: strp(`{"tags": ["go", "search"], "price": 10, "active": true}`)},
		{ID: "2", Content: strp(`{"tags": ["go"], "price": 10.5, "active": false}`)},
	}

	facets := ComputeClientSideFacets(hits, []string{"tags", "price", "active"})

	if facets["tags"]["go"] != 2 || facets["tags"]["search"] != 1 {
		t.Errorf("tags = %v", facets["tags"])
	}
	if facets["price"]["10"] != 1 || facets["price"]["10.5"] != 1 {
		t.Errorf("price = %v", facets["price"])
	}
	if facets["active"]["true"] != 1 || facets["active"]["false"] != 1 {
		t.Errorf("active = %v", facets["active"])
	}
}

func TestComputeClientSideFacets_MissingFieldOmitted(t *testing.T) {
	facets := ComputeClientSideFacets(threeHits(), []string{"category", "color"})

	if _, ok := facets["color"]; ok {
		t.Error("field with no occurrences must be omitted, not empty")
	}
	if _, ok := facets["category"]; !ok {
		t.Error("category missing")
	}
}

func TestComputeClientSideFacets_BadContentSkipped(t *testing.T) {
	hits := append(threeHits(), search.Hit{ID: "4", Content: strp(`not json`)}, search.Hit{ID: "5"})

	facets := ComputeClientSideFacets(hits, []string{"category"})
	if facets["category"]["books"] != 2 {
		t.Errorf("books = %d, want 2", facets["category"]["books"])
	}
}

func TestProcessResults_ClientSideFacets(t *testing.T) {
	q := facetQuery(t)
	results := search.Results{Hits: threeHits()}
	p := NewProcessor(capability.DefaultStrategy())

	if err := p.ProcessResults(&results, &q, unsupportedSnapshot()); err != nil {
		t.Fatalf("ProcessResults: %v", err)
	}

	if results.Facets == nil {
		t.Fatal("Facets = nil")
	}
	var facets map[string]map[string]int
	if err := json.Unmarshal([]byte(*results.Facets), &facets); err != nil {
		t.Fatalf("decode facets: %v", err)
	}
	if facets["category"]["books"] != 2 || facets["category"]["electronics"] != 1 {
		t.Errorf("facets = %v", facets)
	}
}

func TestProcessResults_EmptyAndSeparateQueriesPolicies(t *testing.T) {
	for _, policy := range []capability.FacetFallback{capability.FacetEmpty, capability.FacetSeparateQueries} {
		t.Run(string(policy), func(t *testing.T) {
			strategy := capability.DefaultStrategy()
			strategy.FacetFallback = policy

			q := facetQuery(t)
			results := search.Results{Hits: threeHits()}
			p := NewProcessor(strategy)

			if err := p.ProcessResults(&results, &q, unsupportedSnapshot()); err != nil {
				t.Fatalf("ProcessResults: %v", err)
			}
			if results.Facets == nil || *results.Facets != "{}" {
				t.Errorf("Facets = %v, want {}", results.Facets)
			}
		})
	}
}

func TestProcessResults_FacetErrorPolicy(t *testing.T) {
	strategy := capability.DefaultStrategy()
	strategy.FacetFallback = capability.FacetError

	q := facetQuery(t)
	results := search.Results{Hits: threeHits()}
	p := NewProcessor(strategy)

	err := p.ProcessResults(&results, &q, unsupportedSnapshot())
	if !errors.Is(err, search.ErrUnsupported) {
		t.Errorf("err = %v, want ErrUnsupported", err)
	}
}

func TestProcessResults_NativeFacetsUntouched(t *testing.T) {
	q := facetQuery(t)
	native := strp(`{"category":{"books":99}}`)
	results := search.Results{Hits: threeHits(), Facets: native}
	p := NewProcessor(capability.DefaultStrategy())

	supported := map[string]capability.Support{
		capability.FeatureFacetedSearch: capability.Native,
	}
	if err := p.ProcessResults(&results, &q, supported); err != nil {
		t.Fatalf("ProcessResults: %v", err)
	}
	if results.Facets != native {
		t.Error("native facets were replaced")
	}
}

func TestProcessResults_EmulatedTriggersFallback(t *testing.T) {
	q := facetQuery(t)
	results := search.Results{Hits: threeHits()}
	p := NewProcessor(capability.DefaultStrategy())

	supported := map[string]capability.Support{
		capability.FeatureFacetedSearch: capability.Emulated,
	}
	if err := p.ProcessResults(&results, &q, supported); err != nil {
		t.Fatalf("ProcessResults: %v", err)
	}
	if results.Facets == nil {
		t.Error("emulated support must trigger the client-side pass")
	}
}

func TestHighlightText(t *testing.T) {
	snippets := HighlightText(
		"Rust is a great programming language for systems programming",
		[]string{"rust", "programming"},
		"<mark>", "</mark>", 100,
	)

	if len(snippets) == 0 {
		t.Fatal("no snippets")
	}
	joined := strings.Join(snippets, " ")
	if !strings.Contains(joined, "<mark>Rust</mark>") {
		t.Errorf("missing highlighted Rust: %q", joined)
	}
	if !strings.Contains(joined, "<mark>programming</mark>") {
		t.Errorf("missing highlighted programming: %q", joined)
	}
}

func TestHighlightText_NoMatch(t *testing.T) {
	snippets := HighlightText("nothing relevant here", []string{"zebra"}, "<b>", "</b>", 0)
	if len(snippets) != 0 {
		t.Errorf("snippets = %v, want none", snippets)
	}
}

func TestHighlightText_CapsAtThree(t *testing.T) {
	text := strings.Repeat("alpha beta gamma delta epsilon ", 4)
	snippets := HighlightText(text, []string{"alpha", "beta", "gamma", "delta", "epsilon"}, "<b>", "</b>", 0)
	if len(snippets) > 3 {
		t.Errorf("got %d snippets, want at most 3", len(snippets))
	}
}

func TestExtractSearchTerms(t *testing.T) {
	q, err := search.NewBuilder().Text("The Rust-lang: a, of IT programming!").Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	terms := ExtractSearchTerms(&q)

	want := []string{"the", "rustlang", "programming"}
	if len(terms) != len(want) {
		t.Fatalf("terms = %v, want %v", terms, want)
	}
	for i := range want {
		if terms[i] != want[i] {
			t.Errorf("terms[%d] = %q, want %q", i, terms[i], want[i])
		}
	}
}

func TestExtractSearchTerms_Unicode(t *testing.T) {
	q, err := search.NewBuilder().Text("Café Zürich naïve").Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	terms := ExtractSearchTerms(&q)

	want := []string{"café", "zürich", "naïve"}
	if len(terms) != len(want) {
		t.Fatalf("terms = %v, want %v", terms, want)
	}
	for i := range want {
		if terms[i] != want[i] {
			t.Errorf("terms[%d] = %q, want %q", i, terms[i], want[i])
		}
	}
}

func TestProcessResults_ClientSideHighlighting(t *testing.T) {
	q := highlightQuery(t, "rust programming", "title")
	results := search.Results{Hits: []search.Hit{
		{ID: "1", Content: strp(`{"title": "Learning Rust programming the hard way"}`)},
		{ID: "2", Content: strp(`{"title": "Gardening for beginners"}`)},
	}}
	p := NewProcessor(capability.DefaultStrategy())

	if err := p.ProcessResults(&results, &q, unsupportedSnapshot()); err != nil {
		t.Fatalf("ProcessResults: %v", err)
	}

	if results.Hits[0].Highlights == nil {
		t.Fatal("hit 1 has no highlights")
	}
	var highlights map[string][]string
	if err := json.Unmarshal([]byte(*results.Hits[0].Highlights), &highlights); err != nil {
		t.Fatalf("decode highlights: %v", err)
	}
	if len(highlights["title"]) == 0 {
		t.Fatalf("highlights = %v", highlights)
	}
	if !strings.Contains(highlights["title"][0], "<mark>") {
		t.Errorf("snippet missing default tag: %q", highlights["title"][0])
	}

	// No match in hit 2: its highlights stay untouched.
	if results.Hits[1].Highlights != nil {
		t.Error("hit 2 highlights should stay nil when nothing matched")
	}
}

func TestProcessResults_HighlightNonePolicy(t *testing.T) {
	strategy := capability.DefaultStrategy()
	strategy.HighlightFallback = capability.HighlightNone

	q := highlightQuery(t, "rust", "title")
	results := search.Results{Hits: []search.Hit{
		{ID: "1", Content: strp(`{"title": "rust"}`), Highlights: strp(`{"title":["stale"]}`)},
	}}
	p := NewProcessor(strategy)

	if err := p.ProcessResults(&results, &q, unsupportedSnapshot()); err != nil {
		t.Fatalf("ProcessResults: %v", err)
	}
	if results.Hits[0].Highlights != nil {
		t.Error("highlights were not cleared")
	}
}

func TestProcessResults_HighlightErrorPolicy(t *testing.T) {
	strategy := capability.DefaultStrategy()
	strategy.HighlightFallback = capability.HighlightError

	q := highlightQuery(t, "rust", "title")
	results := search.Results{Hits: threeHits()}
	p := NewProcessor(strategy)

	err := p.ProcessResults(&results, &q, unsupportedSnapshot())
	if !errors.Is(err, search.ErrUnsupported) {
		t.Errorf("err = %v, want ErrUnsupported", err)
	}
}

func TestProcessResults_PartialMutationOnError(t *testing.T) {
	// Facets succeed, highlighting then refuses: the facets written by
	// the first step stay written.
	strategy := capability.DefaultStrategy()
	strategy.HighlightFallback = capability.HighlightError

	h, err := search.NewHighlight([]string{"title"}, "", "", 0)
	if err != nil {
		t.Fatalf("NewHighlight: %v", err)
	}
	q, err := search.NewBuilder().Text("rust").Facet("category").HighlightWith(h).Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	results := search.Results{Hits: threeHits()}
	p := NewProcessor(strategy)

	if err := p.ProcessResults(&results, &q, unsupportedSnapshot()); !errors.Is(err, search.ErrUnsupported) {
		t.Fatalf("err = %v, want ErrUnsupported", err)
	}
	if results.Facets == nil {
		t.Error("facets written before the failure were rolled back")
	}
	if results.Total != nil {
		t.Error("post-processing ran despite the failure")
	}
}

func TestProcessResults_PostProcessingDefaults(t *testing.T) {
	q, err := search.NewBuilder().Text("anything").Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	results := search.Results{Hits: threeHits()}
	p := NewProcessor(capability.DefaultStrategy())

	if err := p.ProcessResults(&results, &q, nil); err != nil {
		t.Fatalf("ProcessResults: %v", err)
	}
	if results.Total == nil || *results.Total != 3 {
		t.Errorf("Total = %v, want 3", results.Total)
	}
	if results.TookMS == nil || *results.TookMS != 0 {
		t.Errorf("TookMS = %v, want 0", results.TookMS)
	}
}

func TestProcessResults_Idempotent(t *testing.T) {
	q := facetQuery(t)
	total := 42
	var took int64 = 7
	results := search.Results{Hits: threeHits(), Total: &total, TookMS: &took}
	p := NewProcessor(capability.DefaultStrategy())

	supported := map[string]capability.Support{
		capability.FeatureFacetedSearch: capability.Native,
	}

	for i := 0; i < 3; i++ {
		if err := p.ProcessResults(&results, &q, supported); err != nil {
			t.Fatalf("ProcessResults: %v", err)
		}
	}

	if *results.Total != 42 || *results.TookMS != 7 {
		t.Errorf("Total/TookMS changed: %d/%d", *results.Total, *results.TookMS)
	}
	if results.Facets != nil {
		t.Error("facets appeared without degradation")
	}
}

func TestProcessResults_AbsentSnapshotKeyReadsUnsupported(t *testing.T) {
	q := facetQuery(t)
	results := search.Results{Hits: threeHits()}
	p := NewProcessor(capability.DefaultStrategy())

	if err := p.ProcessResults(&results, &q, map[string]capability.Support{}); err != nil {
		t.Fatalf("ProcessResults: %v", err)
	}
	if results.Facets == nil {
		t.Error("absent snapshot key must behave as unsupported")
	}
}
