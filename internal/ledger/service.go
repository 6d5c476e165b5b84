package ledger

import (
	"fmt"
	"sort"

	"github.com/MrJamesThe3rd/cardledger/internal/ledger/paginate"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=ledger
type Repository interface {
	GetByID(id string) (*Record, error)
	GetByCustomer(customerID string) ([]*Record, error)
	GetByMerchant(merchantID string) ([]*Record, error)
	All() ([]*Record, error)
}

// Service exposes query operations over the loaded ledger: lookups,
// filtered search, and pagination. All reads go against one snapshot
// of the store, so results are stable across a single request.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ChannelCount pairs a transaction channel with its record count.
type ChannelCount struct {
	Channel Channel
	Count   int
}

func (s *Service) Get(id string) (*Record, error) {
	return s.repo.GetByID(id)
}

// List returns one page of the full ledger in its total order.
func (s *Service) List(page, limit int) (paginate.Page[*Record], error) {
	records, err := s.repo.All()
	if err != nil {
		return paginate.Page[*Record]{}, err
	}

	return paginate.Paginate(records, page, limit)
}

// Search applies the filter and paginates the matches. The filter is
// validated once, before any scan; matches keep the store's total order.
func (s *Service) Search(f Filter, page, limit int) (paginate.Page[*Record], error) {
	if err := f.Validate(); err != nil {
		return paginate.Page[*Record]{}, err
	}

	records, err := s.repo.All()
	if err != nil {
		return paginate.Page[*Record]{}, err
	}

	return paginate.Paginate(f.apply(records), page, limit)
}

// Recent returns the newest records, most recent first.
func (s *Service) Recent(limit int) (paginate.Page[*Record], error) {
	records, err := s.repo.All()
	if err != nil {
		return paginate.Page[*Record]{}, err
	}

	reversed := make([]*Record, len(records))
	for i, rec := range records {
		reversed[len(records)-1-i] = rec
	}

	return paginate.Paginate(reversed, 1, limit)
}

func (s *Service) ByCustomer(customerID string, page, limit int) (paginate.Page[*Record], error) {
	records, err := s.repo.GetByCustomer(customerID)
	if err != nil {
		return paginate.Page[*Record]{}, fmt.Errorf("listing customer transactions: %w", err)
	}

	return paginate.Paginate(records, page, limit)
}

func (s *Service) ByMerchant(merchantID string, page, limit int) (paginate.Page[*Record], error) {
	records, err := s.repo.GetByMerchant(merchantID)
	if err != nil {
		return paginate.Page[*Record]{}, fmt.Errorf("listing merchant transactions: %w", err)
	}

	return paginate.Paginate(records, page, limit)
}

// ChannelCounts tallies records per channel, largest group first.
func (s *Service) ChannelCounts() ([]ChannelCount, error) {
	records, err := s.repo.All()
	if err != nil {
		return nil, err
	}

	counts := make(map[Channel]int)
	for _, rec := range records {
		counts[rec.Channel]++
	}

	result := make([]ChannelCount, 0, len(counts))
	for ch, n := range counts {
		result = append(result, ChannelCount{Channel: ch, Count: n})
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}

		return result[i].Channel < result[j].Channel
	})

	return result, nil
}
