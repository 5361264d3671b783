package search

import (
	"fmt"
	"strings"
)

// Highlight configures result highlighting.
type Highlight struct {
	fields    []string
	preTag    string
	postTag   string
	maxLength int
}

// NewHighlight validates a highlight configuration. Empty tags fall
// back to <mark>/</mark> when the client-side pass runs. maxLength 0
// means unlimited snippet length.
func NewHighlight(fields []string, preTag, postTag string, maxLength int) (Highlight, error) {
	if len(fields) == 0 {
		return Highlight{}, fmt.Errorf("%w: highlight fields are required", ErrInvalidQuery)
	}
	for _, f := range fields {
		if f == "" {
			return Highlight{}, fmt.Errorf("%w: highlight field name cannot be empty", ErrInvalidQuery)
		}
	}
	if maxLength < 0 {
		return Highlight{}, fmt.Errorf("%w: highlight max_length cannot be negative", ErrInvalidQuery)
	}
	return Highlight{fields: fields, preTag: preTag, postTag: postTag, maxLength: maxLength}, nil
}

// Fields returns the fields to highlight.
func (h *Highlight) Fields() []string { return h.fields }

// PreTag returns the opening highlight tag ("" = default).
func (h *Highlight) PreTag() string { return h.preTag }

// PostTag returns the closing highlight tag ("" = default).
func (h *Highlight) PostTag() string { return h.postTag }

// MaxLength returns the snippet length cap (0 = unlimited).
func (h *Highlight) MaxLength() int { return h.maxLength }

// Query is a validated, immutable search request.
// Degradation checks clone queries; they never mutate one in place.
type Query struct {
	text      string
	hasText   bool
	filters   []string
	sort      []string
	facets    []string
	page      *int
	perPage   *int
	offset    *int
	highlight *Highlight
	params    string
	hasParams bool
}

// Text returns the free-text query, if set.
func (q *Query) Text() (string, bool) { return q.text, q.hasText }

// Filters returns the filter expressions (provider-specific syntax).
func (q *Query) Filters() []string { return q.filters }

// Sort returns the sort expressions.
func (q *Query) Sort() []string { return q.sort }

// Facets returns the requested facet field names.
func (q *Query) Facets() []string { return q.facets }

// Page returns the page number, if set.
func (q *Query) Page() (int, bool) {
	if q.page == nil {
		return 0, false
	}
	return *q.page, true
}

// PerPage returns the page size, if set.
func (q *Query) PerPage() (int, bool) {
	if q.perPage == nil {
		return 0, false
	}
	return *q.perPage, true
}

// Offset returns the result offset, if set.
func (q *Query) Offset() (int, bool) {
	if q.offset == nil {
		return 0, false
	}
	return *q.offset, true
}

// Highlight returns the highlight configuration (nil = none).
func (q *Query) Highlight() *Highlight { return q.highlight }

// ProviderParams returns the provider-specific config JSON, if set.
func (q *Query) ProviderParams() (string, bool) { return q.params, q.hasParams }

// WithPage returns a copy of the query with pagination overridden.
// Used by the streaming-to-pagination fallback.
func (q Query) WithPage(page, perPage int) Query {
	q.page = &page
	q.perPage = &perPage
	return q
}

// Builder constructs a Query. Validation errors are collected and
// reported by Build; the first error wins.
type Builder struct {
	q   Query
	err error
}

// NewBuilder creates an empty query builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Text sets the free-text query.
func (b *Builder) Text(q string) *Builder {
	b.q.text = q
	b.q.hasText = true
	return b
}

// Filter appends a filter expression. Filter syntax is
// provider-specific and passed through opaque; only empty or
// whitespace-only filters are rejected.
func (b *Builder) Filter(filter string) *Builder {
	if err := validateFilter(filter); err != nil {
		b.fail(err)
		return b
	}
	b.q.filters = append(b.q.filters, filter)
	return b
}

// Filters appends multiple filter expressions.
func (b *Builder) Filters(filters ...string) *Builder {
	for _, f := range filters {
		b.Filter(f)
	}
	return b
}

// Sort appends a sort expression (field or field:asc|desc).
func (b *Builder) Sort(sort string) *Builder {
	if err := validateSort(sort); err != nil {
		b.fail(err)
		return b
	}
	b.q.sort = append(b.q.sort, sort)
	return b
}

// Facet appends a facet field name.
func (b *Builder) Facet(field string) *Builder {
	if field == "" {
		b.fail(fmt.Errorf("%w: facet field cannot be empty", ErrInvalidQuery))
		return b
	}
	b.q.facets = append(b.q.facets, field)
	return b
}

// Facets appends multiple facet field names.
func (b *Builder) Facets(fields ...string) *Builder {
	for _, f := range fields {
		b.Facet(f)
	}
	return b
}

// Page sets page-based pagination.
func (b *Builder) Page(page, perPage int) *Builder {
	if page < 0 {
		b.fail(fmt.Errorf("%w: page cannot be negative", ErrInvalidQuery))
		return b
	}
	if perPage <= 0 {
		b.fail(fmt.Errorf("%w: per_page must be positive", ErrInvalidQuery))
		return b
	}
	b.q.page = &page
	b.q.perPage = &perPage
	return b
}

// Offset sets offset-based pagination.
func (b *Builder) Offset(offset, limit int) *Builder {
	if offset < 0 {
		b.fail(fmt.Errorf("%w: offset cannot be negative", ErrInvalidQuery))
		return b
	}
	if limit <= 0 {
		b.fail(fmt.Errorf("%w: limit must be positive", ErrInvalidQuery))
		return b
	}
	b.q.offset = &offset
	b.q.perPage = &limit
	return b
}

// HighlightWith sets the highlight configuration.
func (b *Builder) HighlightWith(h Highlight) *Builder {
	b.q.highlight = &h
	return b
}

// ProviderParams sets the provider-specific config JSON blob.
// The blob is passed through opaque; it is not validated here.
func (b *Builder) ProviderParams(params string) *Builder {
	b.q.params = params
	b.q.hasParams = true
	return b
}

// Build returns the validated query.
func (b *Builder) Build() (Query, error) {
	if b.err != nil {
		return Query{}, b.err
	}
	return b.q, nil
}

func (b *Builder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

func validateFilter(filter string) error {
	if strings.TrimSpace(filter) == "" {
		return fmt.Errorf("%w: filter cannot be empty", ErrInvalidQuery)
	}
	return nil
}

func validateSort(sort string) error {
	if sort == "" {
		return fmt.Errorf("%w: sort cannot be empty", ErrInvalidQuery)
	}
	field, dir, ok := strings.Cut(sort, ":")
	if !ok {
		return nil // bare field name, direction defaults to asc
	}
	if field == "" {
		return fmt.Errorf("%w: sort %q has no field name", ErrInvalidQuery, sort)
	}
	switch strings.ToLower(dir) {
	case "asc", "desc":
		return nil
	default:
		return fmt.Errorf("%w: sort direction must be asc or desc, got %q", ErrInvalidQuery, dir)
	}
}
