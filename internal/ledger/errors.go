package ledger

import "errors"

var (
	// ErrNotFound is returned when a transaction lookup misses.
	ErrNotFound = errors.New("transaction not found")

	// ErrCustomerNotFound is returned when a customer has no entry in the store.
	ErrCustomerNotFound = errors.New("customer not found")

	// ErrMerchantNotFound is returned when a merchant has no entry in the store.
	ErrMerchantNotFound = errors.New("merchant not found")

	// ErrEmptyDataset is returned by a load that yields zero valid rows.
	// The previously active dataset, if any, stays in place.
	ErrEmptyDataset = errors.New("dataset contains no valid rows")

	// ErrNotLoaded is returned when the store is queried before any successful load.
	ErrNotLoaded = errors.New("no dataset loaded")

	// ErrInvalidFilter rejects contradictory filter bounds before any scan runs.
	ErrInvalidFilter = errors.New("invalid filter: min_amount exceeds max_amount")
)
