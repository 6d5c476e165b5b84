package fraud_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/cardledger/internal/fraud"
	"github.com/MrJamesThe3rd/cardledger/internal/ledger"
)

func rec(id string, amount string, channel ledger.Channel, mcc string, flags ...string) *ledger.Record {
	return &ledger.Record{
		ID:           id,
		Date:         time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		Amount:       decimal.RequireFromString(amount),
		Channel:      channel,
		CategoryCode: mcc,
		ErrorFlags:   flags,
	}
}

func TestScorer_Evaluate(t *testing.T) {
	scorer := fraud.NewScorer(0)

	tests := []struct {
		name        string
		record      *ledger.Record
		wantScore   float64
		wantFlagged bool
		wantReasons []string
	}{
		{
			name:        "clean record scores zero",
			record:      rec("TX1", "25.00", ledger.ChannelChip, "5411"),
			wantScore:   0,
			wantFlagged: false,
			wantReasons: nil,
		},
		{
			name:        "high amount alone stays under threshold",
			record:      rec("TX2", "750.00", ledger.ChannelChip, "5411"),
			wantScore:   0.35,
			wantFlagged: false,
			wantReasons: []string{"high_amount"},
		},
		{
			name:        "amount boundary is inclusive",
			record:      rec("TX3", "500.00", ledger.ChannelChip, "5411"),
			wantScore:   0.35,
			wantFlagged: false,
			wantReasons: []string{"high_amount"},
		},
		{
			name:        "error flags plus online channel crosses threshold",
			record:      rec("TX4", "25.00", ledger.ChannelOnline, "5411", "Bad PIN"),
			wantScore:   0.55,
			wantFlagged: true,
			wantReasons: []string{"error_flags", "risky_channel"},
		},
		{
			name:        "flagged category",
			record:      rec("TX5", "25.00", ledger.ChannelChip, "7995"),
			wantScore:   0.20,
			wantFlagged: false,
			wantReasons: []string{"flagged_category"},
		},
		{
			name:        "all rules trigger, score caps at 1.0",
			record:      rec("TX6", "900.00", ledger.ChannelOnline, "4829", "Technical Glitch"),
			wantScore:   1.0,
			wantFlagged: true,
			wantReasons: []string{"high_amount", "error_flags", "risky_channel", "flagged_category"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pred := scorer.Evaluate(tt.record)

			assert.InDelta(t, tt.wantScore, pred.Score, 1e-9)
			assert.Equal(t, tt.wantFlagged, pred.Flagged)
			assert.Equal(t, tt.wantReasons, pred.Reasons)
		})
	}
}

func TestScorer_Evaluate_Deterministic(t *testing.T) {
	scorer := fraud.NewScorer(0)
	record := rec("TX1", "650.00", ledger.ChannelOnline, "6011", "Bad CVV")

	first := scorer.Evaluate(record)

	for i := 0; i < 10; i++ {
		assert.Equal(t, first, scorer.Evaluate(record))
	}
}

func TestScorer_CustomThreshold(t *testing.T) {
	strict := fraud.NewScorer(0.3)

	pred := strict.Evaluate(rec("TX1", "750.00", ledger.ChannelChip, "5411"))
	assert.True(t, pred.Flagged)

	// Non-positive thresholds fall back to the default.
	fallback := fraud.NewScorer(-1)
	pred = fallback.Evaluate(rec("TX1", "750.00", ledger.ChannelChip, "5411"))
	assert.False(t, pred.Flagged)
}

func TestScorer_Summary(t *testing.T) {
	scorer := fraud.NewScorer(0)

	records := []*ledger.Record{
		rec("TX1", "25.00", ledger.ChannelChip, "5411"),
		rec("TX2", "600.00", ledger.ChannelOnline, "5411"),           // 0.50, flagged
		rec("TX3", "10.00", ledger.ChannelOnline, "5411", "Bad PIN"), // 0.55, flagged
		rec("TX4", "30.00", ledger.ChannelSwipe, "7995"),             // 0.20
	}

	s := scorer.Summary(records)

	assert.Equal(t, 2, s.FraudCount)
	assert.Equal(t, 4, s.TotalCount)
	assert.InDelta(t, 0.5, s.FraudRate, 1e-9)
	assert.True(t, s.FraudAmount.Equal(decimal.RequireFromString("610.00")))
}

func TestScorer_Summary_Empty(t *testing.T) {
	scorer := fraud.NewScorer(0)

	s := scorer.Summary(nil)

	assert.Zero(t, s.FraudCount)
	assert.Zero(t, s.TotalCount)
	assert.Zero(t, s.FraudRate)
	assert.True(t, s.FraudAmount.IsZero())
}

func TestScorer_ByChannel(t *testing.T) {
	scorer := fraud.NewScorer(0)

	records := []*ledger.Record{
		rec("TX1", "600.00", ledger.ChannelOnline, "5411"),         // flagged
		rec("TX2", "700.00", ledger.ChannelOnline, "5411"),         // flagged
		rec("TX3", "10.00", ledger.ChannelChip, "5411", "Bad PIN"), // 0.40, clean
		rec("TX4", "5.00", ledger.ChannelSwipe, "5411"),
	}

	groups := scorer.ByChannel(records)
	require.Len(t, groups, 3)

	assert.Equal(t, string(ledger.ChannelOnline), groups[0].Key)
	assert.Equal(t, 2, groups[0].FraudCount)
	assert.Equal(t, 2, groups[0].TotalCount)
	assert.InDelta(t, 1.0, groups[0].FraudRate, 1e-9)
	assert.True(t, groups[0].FraudAmount.Equal(decimal.RequireFromString("1300.00")))

	// Zero-fraud groups tie on count and sort by key.
	assert.Equal(t, string(ledger.ChannelChip), groups[1].Key)
	assert.Equal(t, string(ledger.ChannelSwipe), groups[2].Key)
}

func TestScorer_ByCategory(t *testing.T) {
	scorer := fraud.NewScorer(0)

	records := []*ledger.Record{
		rec("TX1", "600.00", ledger.ChannelOnline, "4829"), // flagged
		rec("TX2", "10.00", ledger.ChannelChip, "5411"),
	}

	groups := scorer.ByCategory(records)
	require.Len(t, groups, 2)

	assert.Equal(t, "4829", groups[0].Key)
	assert.Equal(t, 1, groups[0].FraudCount)
	assert.Equal(t, "5411", groups[1].Key)
	assert.Zero(t, groups[1].FraudCount)
}
