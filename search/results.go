package search

// Hit is a single search hit. Content and Highlights carry
// JSON-encoded strings in the shared document model: Content is the
// stored document object, Highlights is a field -> [snippet] map.
type Hit struct {
	ID         string
	Score      *float64
	Content    *string
	Highlights *string
}

// Results is a provider response. Unlike Query it is mutable: the
// fallback pass fills in missing facets, highlights, total and timing
// in place. The caller owns a Results value exclusively for the
// duration of that pass.
type Results struct {
	Total   *int
	Page    *int
	PerPage *int
	Hits    []Hit
	Facets  *string // JSON object: field -> value -> count
	TookMS  *int64
}
