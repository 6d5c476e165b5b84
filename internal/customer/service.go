// Package customer rolls transaction data up to the customer level.
package customer

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/cardledger/internal/ledger"
	"github.com/MrJamesThe3rd/cardledger/internal/ledger/paginate"
)

// Summary is the per-customer listing entry.
type Summary struct {
	CustomerID       string
	TransactionCount int
}

// Details carries the full rollup for one customer.
type Details struct {
	CustomerID       string
	TransactionCount int
	TotalAmount      decimal.Decimal
	AverageAmount    decimal.Decimal
}

// TopCustomer ranks a customer by transaction volume.
type TopCustomer struct {
	CustomerID       string
	TransactionCount int
	TotalAmount      decimal.Decimal
}

type Service struct {
	repo ledger.Repository
}

func NewService(repo ledger.Repository) *Service {
	return &Service{repo: repo}
}

// List returns one page of customer summaries, ordered by customer id so
// pages are stable against a single snapshot.
func (s *Service) List(page, limit int) (paginate.Page[Summary], error) {
	groups, ids, err := s.byCustomer()
	if err != nil {
		return paginate.Page[Summary]{}, err
	}

	summaries := make([]Summary, 0, len(ids))

	for _, id := range ids {
		summaries = append(summaries, Summary{
			CustomerID:       id,
			TransactionCount: len(groups[id]),
		})
	}

	return paginate.Paginate(summaries, page, limit)
}

// Details returns the rollup for one customer. An unknown customer id is
// ledger.ErrCustomerNotFound.
func (s *Service) Details(customerID string) (Details, error) {
	records, err := s.repo.GetByCustomer(customerID)
	if err != nil {
		return Details{}, err
	}

	total := decimal.Zero
	for _, rec := range records {
		total = total.Add(rec.Amount)
	}

	count := len(records)

	avg := decimal.Zero
	if count > 0 {
		avg = total.Div(decimal.NewFromInt(int64(count)))
	}

	return Details{
		CustomerID:       customerID,
		TransactionCount: count,
		TotalAmount:      total,
		AverageAmount:    avg,
	}, nil
}

// Top returns the n customers with the most transactions, busiest first.
func (s *Service) Top(n int) ([]TopCustomer, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: top n must be positive", paginate.ErrInvalidParams)
	}

	groups, ids, err := s.byCustomer()
	if err != nil {
		return nil, err
	}

	ranked := make([]TopCustomer, 0, len(ids))

	for _, id := range ids {
		records := groups[id]

		total := decimal.Zero
		for _, rec := range records {
			total = total.Add(rec.Amount)
		}

		ranked = append(ranked, TopCustomer{
			CustomerID:       id,
			TransactionCount: len(records),
			TotalAmount:      total,
		})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].TransactionCount != ranked[j].TransactionCount {
			return ranked[i].TransactionCount > ranked[j].TransactionCount
		}

		return ranked[i].CustomerID < ranked[j].CustomerID
	})

	if n < len(ranked) {
		ranked = ranked[:n]
	}

	return ranked, nil
}

// byCustomer groups the dataset from one repository read. Rollups built
// from several store calls could pair one snapshot's customer list with a
// later snapshot's records if a reload lands in between; a single All()
// keeps the whole rollup on one consistent view.
func (s *Service) byCustomer() (map[string][]*ledger.Record, []string, error) {
	records, err := s.repo.All()
	if err != nil {
		return nil, nil, err
	}

	groups := make(map[string][]*ledger.Record)
	for _, rec := range records {
		groups[rec.CustomerID] = append(groups[rec.CustomerID], rec)
	}

	ids := make([]string, 0, len(groups))
	for id := range groups {
		ids = append(ids, id)
	}

	sort.Strings(ids)

	return groups, ids, nil
}
