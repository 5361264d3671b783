package search

import "errors"

var (
	// ErrUnsupported signals a feature the provider cannot serve and the
	// configured policy refuses to degrade.
	ErrUnsupported = errors.New("unsupported feature")
	// ErrInternal signals a failure inside a client-side fallback
	// computation (JSON encode/decode).
	ErrInternal = errors.New("internal error")
	// ErrInvalidQuery signals a malformed search query.
	ErrInvalidQuery = errors.New("invalid query")
)
