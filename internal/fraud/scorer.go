// Package fraud scores transactions with a fixed, deterministic rule set.
// This is rule evaluation, not a trained model: every rule is a boolean
// predicate with a documented weight, and the same record always produces
// the same score, verdict, and reasons.
package fraud

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/cardledger/internal/ledger"
)

// DefaultThreshold is the score at or above which a record is flagged.
const DefaultThreshold = 0.5

// highAmountFloor marks the high-value rule boundary.
var highAmountFloor = decimal.NewFromInt(500)

// flaggedCategories are merchant category codes with elevated fraud exposure:
// wire transfers (4829), ATM/cash disbursement (6011), betting (7995).
var flaggedCategories = map[string]struct{}{
	"4829": {},
	"6011": {},
	"7995": {},
}

type rule struct {
	name      string
	weight    float64
	triggered func(*ledger.Record) bool
}

// rules is the scoring table. Order matters: reasons are reported in
// evaluation order and are part of the response contract.
var rules = []rule{
	{
		name:   "high_amount",
		weight: 0.35,
		triggered: func(r *ledger.Record) bool {
			return r.Amount.GreaterThanOrEqual(highAmountFloor)
		},
	},
	{
		name:   "error_flags",
		weight: 0.40,
		triggered: func(r *ledger.Record) bool {
			return len(r.ErrorFlags) > 0
		},
	},
	{
		name:   "risky_channel",
		weight: 0.15,
		triggered: func(r *ledger.Record) bool {
			return r.Channel == ledger.ChannelOnline
		},
	},
	{
		name:   "flagged_category",
		weight: 0.20,
		triggered: func(r *ledger.Record) bool {
			_, ok := flaggedCategories[r.CategoryCode]
			return ok
		},
	},
}

// Prediction is the scoring outcome for a single record.
type Prediction struct {
	Score   float64
	Flagged bool
	Reasons []string
}

// Summary aggregates verdicts over a record sequence.
type Summary struct {
	FraudCount  int
	TotalCount  int
	FraudRate   float64
	FraudAmount decimal.Decimal
}

// GroupStats breaks flagged records down by one grouping key.
type GroupStats struct {
	Key         string
	FraudCount  int
	TotalCount  int
	FraudRate   float64
	FraudAmount decimal.Decimal
}

// Scorer evaluates the rule table against records.
type Scorer struct {
	threshold float64
}

// NewScorer returns a scorer flagging records whose score reaches the
// threshold. A non-positive threshold falls back to DefaultThreshold.
func NewScorer(threshold float64) *Scorer {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	return &Scorer{threshold: threshold}
}

// Evaluate scores one record. The score is the sum of triggered rule
// weights, capped at 1.0; reasons list the triggered rules in evaluation
// order.
func (s *Scorer) Evaluate(rec *ledger.Record) Prediction {
	var (
		score   float64
		reasons []string
	)

	for _, r := range rules {
		if r.triggered(rec) {
			score += r.weight
			reasons = append(reasons, r.name)
		}
	}

	if score > 1.0 {
		score = 1.0
	}

	return Prediction{
		Score:   score,
		Flagged: score >= s.threshold,
		Reasons: reasons,
	}
}

// Summary scores every record and aggregates the verdicts. An empty input
// yields a zero summary, never an error.
func (s *Scorer) Summary(records []*ledger.Record) Summary {
	summary := Summary{
		TotalCount:  len(records),
		FraudAmount: decimal.Zero,
	}

	for _, rec := range records {
		if s.Evaluate(rec).Flagged {
			summary.FraudCount++
			summary.FraudAmount = summary.FraudAmount.Add(rec.Amount)
		}
	}

	if summary.TotalCount > 0 {
		summary.FraudRate = float64(summary.FraudCount) / float64(summary.TotalCount)
	}

	return summary
}

// ByChannel groups verdicts by transaction channel, most flagged first.
func (s *Scorer) ByChannel(records []*ledger.Record) []GroupStats {
	return s.groupBy(records, func(rec *ledger.Record) string {
		return string(rec.Channel)
	})
}

// ByCategory groups verdicts by merchant category code, most flagged first.
func (s *Scorer) ByCategory(records []*ledger.Record) []GroupStats {
	return s.groupBy(records, func(rec *ledger.Record) string {
		return rec.CategoryCode
	})
}

func (s *Scorer) groupBy(records []*ledger.Record, key func(*ledger.Record) string) []GroupStats {
	groups := make(map[string]*GroupStats)

	for _, rec := range records {
		k := key(rec)

		g, ok := groups[k]
		if !ok {
			g = &GroupStats{Key: k, FraudAmount: decimal.Zero}
			groups[k] = g
		}

		g.TotalCount++

		if s.Evaluate(rec).Flagged {
			g.FraudCount++
			g.FraudAmount = g.FraudAmount.Add(rec.Amount)
		}
	}

	result := make([]GroupStats, 0, len(groups))

	for _, g := range groups {
		if g.TotalCount > 0 {
			g.FraudRate = float64(g.FraudCount) / float64(g.TotalCount)
		}

		result = append(result, *g)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].FraudCount != result[j].FraudCount {
			return result[i].FraudCount > result[j].FraudCount
		}

		return result[i].Key < result[j].Key
	})

	return result
}
