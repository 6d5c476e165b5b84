package stats_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/cardledger/internal/fraud"
	"github.com/MrJamesThe3rd/cardledger/internal/ledger"
	"github.com/MrJamesThe3rd/cardledger/internal/stats"
)

func rec(id string, date time.Time, amount string, channel ledger.Channel, mcc string) *ledger.Record {
	return &ledger.Record{
		ID:           id,
		Date:         date,
		Amount:       decimal.RequireFromString(amount),
		Channel:      channel,
		CategoryCode: mcc,
	}
}

func day(d int) time.Time {
	return time.Date(2023, 1, d, 12, 0, 0, 0, time.UTC)
}

func newService() *stats.Service {
	return stats.NewService(fraud.NewScorer(0))
}

func TestService_Overview(t *testing.T) {
	svc := newService()

	records := []*ledger.Record{
		rec("TX1", day(2), "10.00", ledger.ChannelChip, "5411"),
		rec("TX2", day(1), "20.00", ledger.ChannelChip, "5411"),
		rec("TX3", day(3), "600.00", ledger.ChannelOnline, "5411"), // scores 0.50, flagged
	}

	o := svc.Overview(records)

	assert.Equal(t, 3, o.TotalCount)
	assert.True(t, o.TotalAmount.Equal(decimal.RequireFromString("630.00")))
	assert.True(t, o.AverageAmount.Equal(decimal.RequireFromString("210.00")))
	assert.InDelta(t, 1.0/3.0, o.FraudRate, 1e-9)
	assert.Equal(t, day(1), o.MinDate)
	assert.Equal(t, day(3), o.MaxDate)
}

func TestService_Overview_Empty(t *testing.T) {
	o := newService().Overview(nil)

	assert.Zero(t, o.TotalCount)
	assert.True(t, o.TotalAmount.IsZero())
	assert.True(t, o.AverageAmount.IsZero())
	assert.Zero(t, o.FraudRate)
}

func TestService_Daily(t *testing.T) {
	svc := newService()

	records := []*ledger.Record{
		rec("TX1", day(2), "30.00", ledger.ChannelChip, "5411"),
		rec("TX2", day(1), "10.00", ledger.ChannelChip, "5411"),
		rec("TX3", day(2), "50.00", ledger.ChannelChip, "5411"),
	}

	daily := svc.Daily(records)
	require.Len(t, daily, 2)

	// Chronological regardless of input order.
	assert.Equal(t, "2023-01-01", daily[0].Date)
	assert.Equal(t, 1, daily[0].Count)
	assert.True(t, daily[0].TotalAmount.Equal(decimal.RequireFromString("10.00")))

	assert.Equal(t, "2023-01-02", daily[1].Date)
	assert.Equal(t, 2, daily[1].Count)
	assert.True(t, daily[1].TotalAmount.Equal(decimal.RequireFromString("80.00")))
	assert.True(t, daily[1].AverageAmount.Equal(decimal.RequireFromString("40.00")))
}

func TestService_AmountDistribution(t *testing.T) {
	svc := newService()

	records := []*ledger.Record{
		rec("TX1", day(1), "10.00", ledger.ChannelChip, "5411"),   // 0-100
		rec("TX2", day(1), "600.00", ledger.ChannelChip, "5411"),  // 500-1000
		rec("TX3", day(1), "-5.00", ledger.ChannelChip, "5411"),   // refund, no bucket
		rec("TX4", day(1), "100.00", ledger.ChannelChip, "5411"),  // lower bound of 100-500
		rec("TX5", day(1), "1000.00", ledger.ChannelChip, "5411"), // 1000+
	}

	buckets := svc.AmountDistribution(records)
	require.Len(t, buckets, 4)

	assert.Equal(t, "0-100", buckets[0].Range)
	assert.Equal(t, 1, buckets[0].Count)
	assert.InDelta(t, 20.0, buckets[0].Percentage, 1e-9)

	assert.Equal(t, "100-500", buckets[1].Range)
	assert.Equal(t, 1, buckets[1].Count)

	assert.Equal(t, "500-1000", buckets[2].Range)
	assert.Equal(t, 1, buckets[2].Count)

	assert.Equal(t, "1000+", buckets[3].Range)
	assert.Equal(t, 1, buckets[3].Count)

	// The refund is counted in no bucket, so percentages sum to 80.
	var pct float64
	for _, b := range buckets {
		pct += b.Percentage
	}
	assert.InDelta(t, 80.0, pct, 1e-9)
}

func TestService_AmountDistribution_Empty(t *testing.T) {
	buckets := newService().AmountDistribution(nil)
	require.Len(t, buckets, 4)

	for _, b := range buckets {
		assert.Zero(t, b.Count)
		assert.Zero(t, b.Percentage)
	}
}

func TestService_ByChannel(t *testing.T) {
	svc := newService()

	records := []*ledger.Record{
		rec("TX1", day(1), "10.00", ledger.ChannelOnline, "5411"),
		rec("TX2", day(1), "20.00", ledger.ChannelOnline, "5411"),
		rec("TX3", day(1), "5.00", ledger.ChannelChip, "5411"),
	}

	groups := svc.ByChannel(records)
	require.Len(t, groups, 2)

	assert.Equal(t, string(ledger.ChannelOnline), groups[0].Key)
	assert.Equal(t, 2, groups[0].Count)
	assert.True(t, groups[0].TotalAmount.Equal(decimal.RequireFromString("30.00")))
	assert.True(t, groups[0].AverageAmount.Equal(decimal.RequireFromString("15.00")))

	assert.Equal(t, string(ledger.ChannelChip), groups[1].Key)
	assert.Equal(t, 1, groups[1].Count)
}

func TestService_ByCategory(t *testing.T) {
	svc := newService()

	records := []*ledger.Record{
		rec("TX1", day(1), "10.00", ledger.ChannelChip, "5411"),
		rec("TX2", day(1), "20.00", ledger.ChannelChip, "4829"),
		rec("TX3", day(1), "30.00", ledger.ChannelChip, "4829"),
	}

	groups := svc.ByCategory(records)
	require.Len(t, groups, 2)

	assert.Equal(t, "4829", groups[0].Key)
	assert.Equal(t, 2, groups[0].Count)
	assert.Equal(t, "5411", groups[1].Key)
}
