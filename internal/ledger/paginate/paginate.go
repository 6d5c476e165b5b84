// Package paginate slices ordered sequences into fixed-size pages.
// It never reorders its input: as long as the underlying dataset is
// stable between calls, repeated requests for the same page return
// the same items.
package paginate

import "errors"

const (
	DefaultLimit = 50
	MaxLimit     = 1000
)

// ErrInvalidParams rejects non-positive or oversized pagination parameters
// before any slicing happens.
var ErrInvalidParams = errors.New("invalid pagination parameters")

// Page is one slice of an ordered sequence plus the metadata needed to
// walk the rest of it.
type Page[T any] struct {
	Items       []T
	Page        int
	Limit       int
	TotalCount  int
	TotalPages  int
	HasNextPage bool
}

// Paginate returns the 1-indexed page of items. A page past the end yields
// empty Items with accurate metadata so callers can detect "past the end"
// without error handling.
func Paginate[T any](items []T, page, limit int) (Page[T], error) {
	if page < 1 || limit < 1 || limit > MaxLimit {
		return Page[T]{}, ErrInvalidParams
	}

	totalCount := len(items)
	totalPages := (totalCount + limit - 1) / limit

	offset := (page - 1) * limit

	var pageItems []T

	if offset < totalCount {
		end := min(offset+limit, totalCount)
		pageItems = items[offset:end]
	} else {
		pageItems = []T{}
	}

	return Page[T]{
		Items:       pageItems,
		Page:        page,
		Limit:       limit,
		TotalCount:  totalCount,
		TotalPages:  totalPages,
		HasNextPage: page < totalPages,
	}, nil
}
