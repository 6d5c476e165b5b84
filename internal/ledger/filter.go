package ledger

import "github.com/shopspring/decimal"

// Filter narrows a transaction query. Nil fields impose no constraint;
// set fields combine with logical AND.
type Filter struct {
	CustomerID   *string
	MerchantCity *string
	Channel      *Channel
	MinAmount    *decimal.Decimal
	MaxAmount    *decimal.Decimal
}

// Validate rejects contradictory bounds before any scan begins.
func (f Filter) Validate() error {
	if f.MinAmount != nil && f.MaxAmount != nil && f.MinAmount.GreaterThan(*f.MaxAmount) {
		return ErrInvalidFilter
	}

	return nil
}

// Matches reports whether rec satisfies every set predicate.
func (f Filter) Matches(rec *Record) bool {
	if f.CustomerID != nil && rec.CustomerID != *f.CustomerID {
		return false
	}

	if f.MerchantCity != nil && rec.MerchantCity != *f.MerchantCity {
		return false
	}

	if f.Channel != nil && rec.Channel != *f.Channel {
		return false
	}

	if f.MinAmount != nil && rec.Amount.LessThan(*f.MinAmount) {
		return false
	}

	if f.MaxAmount != nil && rec.Amount.GreaterThan(*f.MaxAmount) {
		return false
	}

	return true
}

// Apply evaluates the filter against records, preserving their order.
// The result is a subsequence of the input; no match means an empty
// result, not an error.
func Apply(records []*Record, f Filter) ([]*Record, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	return f.apply(records), nil
}

// apply assumes the filter has already been validated.
func (f Filter) apply(records []*Record) []*Record {
	matched := make([]*Record, 0, len(records))

	for _, rec := range records {
		if f.Matches(rec) {
			matched = append(matched, rec)
		}
	}

	return matched
}
