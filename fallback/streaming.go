package fallback

import "github.com/searchbridge/searchbridge/search"

// defaultMaxPages bounds runaway query generation when the caller
// does not set a page cap.
const defaultMaxPages = 10

// Paginator emulates a streaming search over providers that lack a
// scroll API by fanning one query out into a bounded sequence of page
// requests.
type Paginator struct {
	pageSize int
	maxPages int
}

// NewPaginator creates a streaming-to-pagination fallback.
// maxPages <= 0 falls back to the default of 10.
func NewPaginator(pageSize, maxPages int) *Paginator {
	if maxPages <= 0 {
		maxPages = defaultMaxPages
	}
	return &Paginator{pageSize: pageSize, maxPages: maxPages}
}

// PaginateQuery clones the query once per page, pages 0..maxPages-1,
// each with the configured page size.
func (p *Paginator) PaginateQuery(query *search.Query) []search.Query {
	queries := make([]search.Query, 0, p.maxPages)
	for page := 0; page < p.maxPages; page++ {
		queries = append(queries, query.WithPage(page, p.pageSize))
	}
	return queries
}

// CombineResults concatenates page results into one result set: hits
// in page order, timings summed, total and facets taken from the
// first page. The combined set reports page 0 with per_page equal to
// the combined hit count.
func (p *Paginator) CombineResults(pages []search.Results) search.Results {
	if len(pages) == 0 {
		total := 0
		page := 0
		perPage := p.pageSize
		var took int64
		return search.Results{
			Total:   &total,
			Page:    &page,
			PerPage: &perPage,
			TookMS:  &took,
		}
	}

	var hits []search.Hit
	var took int64
	for i := range pages {
		hits = append(hits, pages[i].Hits...)
		if pages[i].TookMS != nil {
			took += *pages[i].TookMS
		}
	}

	first := &pages[0]
	combined := search.Results{
		Hits:   hits,
		TookMS: &took,
	}
	page := 0
	combined.Page = &page
	perPage := len(hits)
	combined.PerPage = &perPage
	if first.Total != nil {
		total := *first.Total
		combined.Total = &total
	}
	if first.Facets != nil {
		facets := *first.Facets
		combined.Facets = &facets
	}
	return combined
}
