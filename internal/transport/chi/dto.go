package chi

import (
	"fmt"

	"github.com/searchbridge/searchbridge/search"
)

// queryRequest is the wire form of a search query.
type queryRequest struct {
	Q              *string           `json:"q,omitempty"`
	Filters        []string          `json:"filters,omitempty"`
	Sort           []string          `json:"sort,omitempty"`
	Facets         []string          `json:"facets,omitempty"`
	Page           *int              `json:"page,omitempty"`
	PerPage        *int              `json:"per_page,omitempty"`
	Offset         *int              `json:"offset,omitempty"`
	Limit          *int              `json:"limit,omitempty"`
	Highlight      *highlightRequest `json:"highlight,omitempty"`
	ProviderParams *string           `json:"provider_params,omitempty"`
}

type highlightRequest struct {
	Fields    []string `json:"fields"`
	PreTag    string   `json:"pre_tag,omitempty"`
	PostTag   string   `json:"post_tag,omitempty"`
	MaxLength int      `json:"max_length,omitempty"`
}

// toQuery converts the wire form through the validating builder.
func (req queryRequest) toQuery() (search.Query, error) {
	b := search.NewBuilder()

	if req.Q != nil {
		b.Text(*req.Q)
	}
	b.Filters(req.Filters...)
	for _, s := range req.Sort {
		b.Sort(s)
	}
	b.Facets(req.Facets...)

	switch {
	case req.Page != nil && req.PerPage != nil:
		b.Page(*req.Page, *req.PerPage)
	case req.Page != nil || req.PerPage != nil:
		return search.Query{}, fmt.Errorf("%w: page and per_page must be set together", search.ErrInvalidQuery)
	}
	switch {
	case req.Offset != nil && req.Limit != nil:
		b.Offset(*req.Offset, *req.Limit)
	case req.Offset != nil || req.Limit != nil:
		return search.Query{}, fmt.Errorf("%w: offset and limit must be set together", search.ErrInvalidQuery)
	}

	if req.Highlight != nil {
		h, err := search.NewHighlight(
			req.Highlight.Fields,
			req.Highlight.PreTag,
			req.Highlight.PostTag,
			req.Highlight.MaxLength,
		)
		if err != nil {
			return search.Query{}, err
		}
		b.HighlightWith(h)
	}
	if req.ProviderParams != nil {
		b.ProviderParams(*req.ProviderParams)
	}

	return b.Build()
}

// hitPayload is the wire form of a search hit.
type hitPayload struct {
	ID         string   `json:"id"`
	Score      *float64 `json:"score,omitempty"`
	Content    *string  `json:"content,omitempty"`
	Highlights *string  `json:"highlights,omitempty"`
}

// resultsPayload is the wire form of a result set, used in both
// directions by the process endpoint.
type resultsPayload struct {
	Total   *int         `json:"total,omitempty"`
	Page    *int         `json:"page,omitempty"`
	PerPage *int         `json:"per_page,omitempty"`
	Hits    []hitPayload `json:"hits"`
	Facets  *string      `json:"facets,omitempty"`
	TookMS  *int64       `json:"took_ms,omitempty"`
}

func (p resultsPayload) toResults() search.Results {
	hits := make([]search.Hit, len(p.Hits))
	for i, h := range p.Hits {
		hits[i] = search.Hit{
			ID:         h.ID,
			Score:      h.Score,
			Content:    h.Content,
			Highlights: h.Highlights,
		}
	}
	return search.Results{
		Total:   p.Total,
		Page:    p.Page,
		PerPage: p.PerPage,
		Hits:    hits,
		Facets:  p.Facets,
		TookMS:  p.TookMS,
	}
}

func resultsToPayload(r search.Results) resultsPayload {
	hits := make([]hitPayload, len(r.Hits))
	for i, h := range r.Hits {
		hits[i] = hitPayload{
			ID:         h.ID,
			Score:      h.Score,
			Content:    h.Content,
			Highlights: h.Highlights,
		}
	}
	return resultsPayload{
		Total:   r.Total,
		Page:    r.Page,
		PerPage: r.PerPage,
		Hits:    hits,
		Facets:  r.Facets,
		TookMS:  r.TookMS,
	}
}
