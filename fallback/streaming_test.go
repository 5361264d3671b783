package fallback

import (
	"testing"

	"github.com/searchbridge/searchbridge/search"
)

func TestPaginateQuery(t *testing.T) {
	q, err := search.NewBuilder().Text("stream me").Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	paginator := NewPaginator(100, 5)
	queries := paginator.PaginateQuery(&q)

	if len(queries) != 5 {
		t.Fatalf("len = %d, want 5", len(queries))
	}
	for i, pq := range queries {
		page, ok := pq.Page()
		if !ok {
			t.Fatalf("query %d has no pagination", i)
		}
		perPage, _ := pq.PerPage()
		if page != i || perPage != 100 {
			t.Errorf("query %d = page %d size %d, want page %d size 100", i, page, perPage, i)
		}
		if text, _ := pq.Text(); text != "stream me" {
			t.Errorf("query %d lost its text: %q", i, text)
		}
	}

	// The source query is untouched.
	if _, ok := q.Page(); ok {
		t.Error("PaginateQuery mutated the source query")
	}
}

func TestNewPaginator_DefaultMaxPages(t *testing.T) {
	q, err := search.NewBuilder().Text("x").Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	queries := NewPaginator(50, 0).PaginateQuery(&q)
	if len(queries) != 10 {
		t.Errorf("len = %d, want default 10", len(queries))
	}
}

func TestCombineResults(t *testing.T) {
	total := 250
	facets := `{"category":{"books":10}}`
	var took1, took2 int64 = 12, 8

	pages := []search.Results{
		{
			Hits:   []search.Hit{{ID: "1"}, {ID: "2"}},
			Total:  &total,
			Facets: &facets,
			TookMS: &took1,
		},
		{
			Hits:   []search.Hit{{ID: "3"}},
			TookMS: &took2,
		},
		{},
	}

	combined := NewPaginator(100, 3).CombineResults(pages)

	if len(combined.Hits) != 3 {
		t.Fatalf("hits = %d, want 3", len(combined.Hits))
	}
	for i, want := range []string{"1", "2", "3"} {
		if combined.Hits[i].ID != want {
			t.Errorf("hit %d = %q, want %q", i, combined.Hits[i].ID, want)
		}
	}
	if combined.Total == nil || *combined.Total != 250 {
		t.Errorf("Total = %v, want 250 from first page", combined.Total)
	}
	if combined.Facets == nil || *combined.Facets != facets {
		t.Errorf("Facets = %v, want first page's", combined.Facets)
	}
	if combined.TookMS == nil || *combined.TookMS != 20 {
		t.Errorf("TookMS = %v, want 20", combined.TookMS)
	}
	if combined.Page == nil || *combined.Page != 0 {
		t.Errorf("Page = %v, want 0", combined.Page)
	}
	if combined.PerPage == nil || *combined.PerPage != 3 {
		t.Errorf("PerPage = %v, want combined hit count 3", combined.PerPage)
	}
}

func TestCombineResults_Empty(t *testing.T) {
	combined := NewPaginator(100, 3).CombineResults(nil)

	if combined.Total == nil || *combined.Total != 0 {
		t.Errorf("Total = %v, want 0", combined.Total)
	}
	if combined.PerPage == nil || *combined.PerPage != 100 {
		t.Errorf("PerPage = %v, want configured page size", combined.PerPage)
	}
	if combined.TookMS == nil || *combined.TookMS != 0 {
		t.Errorf("TookMS = %v, want 0", combined.TookMS)
	}
	if len(combined.Hits) != 0 {
		t.Errorf("hits = %v, want none", combined.Hits)
	}
}
