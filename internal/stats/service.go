// Package stats computes aggregate views over transaction sequences.
// Every computation is a pure function of its input: callers pass either
// the full store contents or a filtered subset, and empty input yields
// zero results rather than errors.
package stats

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/cardledger/internal/fraud"
	"github.com/MrJamesThe3rd/cardledger/internal/ledger"
)

// Amount distribution buckets. These boundaries are a documented contract,
// not computed quantiles: [0,100) [100,500) [500,1000) [1000,inf).
// Negative amounts (refunds) fall outside every bucket.
type bucketDef struct {
	label string
	min   decimal.Decimal
	max   decimal.Decimal // ignored when unbounded
	open  bool            // true for the final unbounded bucket
}

var amountBuckets = []bucketDef{
	{label: "0-100", min: decimal.NewFromInt(0), max: decimal.NewFromInt(100)},
	{label: "100-500", min: decimal.NewFromInt(100), max: decimal.NewFromInt(500)},
	{label: "500-1000", min: decimal.NewFromInt(500), max: decimal.NewFromInt(1000)},
	{label: "1000+", min: decimal.NewFromInt(1000), open: true},
}

// Overview summarizes a record sequence.
type Overview struct {
	TotalCount    int
	TotalAmount   decimal.Decimal
	AverageAmount decimal.Decimal
	FraudRate     float64
	MinDate       time.Time
	MaxDate       time.Time
}

// DailyStat is the per-calendar-day rollup.
type DailyStat struct {
	Date          string // YYYY-MM-DD, UTC
	Count         int
	TotalAmount   decimal.Decimal
	AverageAmount decimal.Decimal
}

// Bucket is one slot of the amount distribution.
type Bucket struct {
	Range      string
	Count      int
	Percentage float64
}

// GroupStat is a count/sum/mean rollup for one grouping key.
type GroupStat struct {
	Key           string
	Count         int
	TotalAmount   decimal.Decimal
	AverageAmount decimal.Decimal
}

// Service computes statistics. It carries a fraud scorer so the overview
// can report the flagged share of the input.
type Service struct {
	scorer *fraud.Scorer
}

func NewService(scorer *fraud.Scorer) *Service {
	return &Service{scorer: scorer}
}

// Overview returns count, sum, mean, fraud rate, and the date range of the
// input. An empty input yields the zero Overview.
func (s *Service) Overview(records []*ledger.Record) Overview {
	if len(records) == 0 {
		return Overview{TotalAmount: decimal.Zero, AverageAmount: decimal.Zero}
	}

	total := decimal.Zero
	minDate := records[0].Date
	maxDate := records[0].Date
	flagged := 0

	for _, rec := range records {
		total = total.Add(rec.Amount)

		if rec.Date.Before(minDate) {
			minDate = rec.Date
		}

		if rec.Date.After(maxDate) {
			maxDate = rec.Date
		}

		if s.scorer.Evaluate(rec).Flagged {
			flagged++
		}
	}

	count := len(records)

	return Overview{
		TotalCount:    count,
		TotalAmount:   total,
		AverageAmount: total.Div(decimal.NewFromInt(int64(count))),
		FraudRate:     float64(flagged) / float64(count),
		MinDate:       minDate,
		MaxDate:       maxDate,
	}
}

// Daily groups records by UTC calendar date, chronologically.
func (s *Service) Daily(records []*ledger.Record) []DailyStat {
	type group struct {
		count int
		total decimal.Decimal
	}

	days := make(map[string]*group)

	for _, rec := range records {
		day := rec.Date.UTC().Format(time.DateOnly)

		g, ok := days[day]
		if !ok {
			g = &group{total: decimal.Zero}
			days[day] = g
		}

		g.count++
		g.total = g.total.Add(rec.Amount)
	}

	dates := make([]string, 0, len(days))
	for day := range days {
		dates = append(dates, day)
	}

	sort.Strings(dates)

	result := make([]DailyStat, 0, len(dates))

	for _, day := range dates {
		g := days[day]
		result = append(result, DailyStat{
			Date:          day,
			Count:         g.count,
			TotalAmount:   g.total,
			AverageAmount: g.total.Div(decimal.NewFromInt(int64(g.count))),
		})
	}

	return result
}

// AmountDistribution counts records per fixed amount bucket. Every bucket
// appears in the result even when empty; percentages are of the whole
// input, so rows outside all buckets keep the percentages under 100.
func (s *Service) AmountDistribution(records []*ledger.Record) []Bucket {
	counts := make(map[string]int, len(amountBuckets))

	for _, rec := range records {
		for _, b := range amountBuckets {
			if rec.Amount.GreaterThanOrEqual(b.min) && (b.open || rec.Amount.LessThan(b.max)) {
				counts[b.label]++
				break
			}
		}
	}

	total := len(records)
	result := make([]Bucket, 0, len(amountBuckets))

	for _, b := range amountBuckets {
		count := counts[b.label]

		var pct float64
		if total > 0 {
			pct = float64(count) / float64(total) * 100
		}

		result = append(result, Bucket{Range: b.label, Count: count, Percentage: pct})
	}

	return result
}

// ByChannel groups by transaction channel, largest group first.
func (s *Service) ByChannel(records []*ledger.Record) []GroupStat {
	return groupBy(records, func(rec *ledger.Record) string {
		return string(rec.Channel)
	})
}

// ByCategory groups by merchant category code, largest group first.
func (s *Service) ByCategory(records []*ledger.Record) []GroupStat {
	return groupBy(records, func(rec *ledger.Record) string {
		return rec.CategoryCode
	})
}

func groupBy(records []*ledger.Record, key func(*ledger.Record) string) []GroupStat {
	type group struct {
		count int
		total decimal.Decimal
	}

	groups := make(map[string]*group)

	for _, rec := range records {
		k := key(rec)

		g, ok := groups[k]
		if !ok {
			g = &group{total: decimal.Zero}
			groups[k] = g
		}

		g.count++
		g.total = g.total.Add(rec.Amount)
	}

	result := make([]GroupStat, 0, len(groups))

	for k, g := range groups {
		result = append(result, GroupStat{
			Key:           k,
			Count:         g.count,
			TotalAmount:   g.total,
			AverageAmount: g.total.Div(decimal.NewFromInt(int64(g.count))),
		})
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}

		return result[i].Key < result[j].Key
	})

	return result
}
