package domain

import "errors"

var (
	ErrInvalidUserID = errors.New("invalid user id")
	ErrInvalidLimit  = errors.New("invalid limit")

	// ErrCatalogUnavailable is the one fatal condition: the catalog store
	// cannot be reached on either the scored or the fallback path.
	ErrCatalogUnavailable = errors.New("catalog unavailable")
)
