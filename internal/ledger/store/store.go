// Package store holds the in-memory transaction dataset. The dataset is
// loaded in full from a CSV source and then never mutated: a reload builds
// a complete replacement snapshot off to the side and installs it with a
// single atomic pointer swap. Readers that picked up the old snapshot keep
// a fully consistent view until they return.
package store

import (
	"fmt"
	"io"
	"sort"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/cardledger/internal/ledger"
)

type Store struct {
	snap atomic.Pointer[snapshot]
}

func New() *Store {
	return &Store{}
}

// snapshot is one immutable, fully indexed view of the dataset.
type snapshot struct {
	id       uuid.UUID
	loadedAt time.Time
	minDate  time.Time
	maxDate  time.Time

	ordered    []*ledger.Record // total order: date asc, id asc
	byID       map[string]*ledger.Record
	byCustomer map[string][]*ledger.Record
	byMerchant map[string][]*ledger.Record
}

// LoadResult reports what a load accepted and what it turned away.
type LoadResult struct {
	Accepted   int
	Rejected   []RejectedRow
	SnapshotID uuid.UUID
	LoadedAt   time.Time
	MinDate    time.Time
	MaxDate    time.Time
}

// Meta describes the active snapshot.
type Meta struct {
	RecordCount int
	SnapshotID  uuid.UUID
	LoadedAt    time.Time
	MinDate     time.Time
	MaxDate     time.Time
}

// Load parses every row of the source. Rows that fail validation are
// recorded in the result and skipped; they never abort the load. If no
// valid rows remain the load fails with ledger.ErrEmptyDataset and the
// previous snapshot, if any, stays active.
func (s *Store) Load(r io.Reader) (*LoadResult, error) {
	records, rejected, err := parseRecords(r)
	if err != nil {
		return nil, fmt.Errorf("reading source: %w", err)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("%w (%d rows rejected)", ledger.ErrEmptyDataset, len(rejected))
	}

	snap := buildSnapshot(records)
	s.snap.Store(snap)

	return &LoadResult{
		Accepted:   len(records),
		Rejected:   rejected,
		SnapshotID: snap.id,
		LoadedAt:   snap.loadedAt,
		MinDate:    snap.minDate,
		MaxDate:    snap.maxDate,
	}, nil
}

func buildSnapshot(records []*ledger.Record) *snapshot {
	sort.Slice(records, func(i, j int) bool {
		return records[i].Less(records[j])
	})

	snap := &snapshot{
		id:         uuid.New(),
		loadedAt:   time.Now().UTC(),
		ordered:    records,
		byID:       make(map[string]*ledger.Record, len(records)),
		byCustomer: make(map[string][]*ledger.Record),
		byMerchant: make(map[string][]*ledger.Record),
		minDate:    records[0].Date,
		maxDate:    records[len(records)-1].Date,
	}

	for _, rec := range records {
		snap.byID[rec.ID] = rec
		snap.byCustomer[rec.CustomerID] = append(snap.byCustomer[rec.CustomerID], rec)
		snap.byMerchant[rec.MerchantID] = append(snap.byMerchant[rec.MerchantID], rec)
	}

	return snap
}

func (s *Store) active() (*snapshot, error) {
	snap := s.snap.Load()
	if snap == nil {
		return nil, ledger.ErrNotLoaded
	}

	return snap, nil
}

func (s *Store) GetByID(id string) (*ledger.Record, error) {
	snap, err := s.active()
	if err != nil {
		return nil, err
	}

	rec, ok := snap.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ledger.ErrNotFound, id)
	}

	return rec, nil
}

// GetByCustomer returns the customer's records in the store's total order.
// An unknown customer is an error, distinct from a valid filter matching
// nothing.
func (s *Store) GetByCustomer(customerID string) ([]*ledger.Record, error) {
	snap, err := s.active()
	if err != nil {
		return nil, err
	}

	records, ok := snap.byCustomer[customerID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ledger.ErrCustomerNotFound, customerID)
	}

	return append([]*ledger.Record(nil), records...), nil
}

func (s *Store) GetByMerchant(merchantID string) ([]*ledger.Record, error) {
	snap, err := s.active()
	if err != nil {
		return nil, err
	}

	records, ok := snap.byMerchant[merchantID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ledger.ErrMerchantNotFound, merchantID)
	}

	return append([]*ledger.Record(nil), records...), nil
}

// All returns every record in the total order: date ascending, id breaking
// ties. The returned slice is the caller's to keep; it stays valid across
// reloads.
func (s *Store) All() ([]*ledger.Record, error) {
	snap, err := s.active()
	if err != nil {
		return nil, err
	}

	return append([]*ledger.Record(nil), snap.ordered...), nil
}

func (s *Store) Meta() (Meta, error) {
	snap, err := s.active()
	if err != nil {
		return Meta{}, err
	}

	return Meta{
		RecordCount: len(snap.ordered),
		SnapshotID:  snap.id,
		LoadedAt:    snap.loadedAt,
		MinDate:     snap.minDate,
		MaxDate:     snap.maxDate,
	}, nil
}
