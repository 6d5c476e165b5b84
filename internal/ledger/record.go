package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Channel represents how a transaction was carried out at the terminal.
type Channel string

const (
	ChannelChip   Channel = "Chip Transaction"
	ChannelSwipe  Channel = "Swipe Transaction"
	ChannelOnline Channel = "Online Transaction"
)

// Record is a single ledger transaction. Records are immutable once parsed;
// a fresh load replaces the whole dataset rather than editing records in place.
type Record struct {
	ID            string
	Date          time.Time
	CustomerID    string
	CardID        string
	Amount        decimal.Decimal // signed; negative amounts are refunds/reversals
	Channel       Channel
	MerchantID    string
	MerchantCity  string
	MerchantState string
	PostalCode    string
	CategoryCode  string
	ErrorFlags    []string
}

// Less reports whether r sorts before other in the ledger's total order:
// date ascending, ID ascending when dates collide.
func (r *Record) Less(other *Record) bool {
	if !r.Date.Equal(other.Date) {
		return r.Date.Before(other.Date)
	}

	return r.ID < other.ID
}
