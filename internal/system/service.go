// Package system exposes health, dataset metadata, and reload.
package system

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/cardledger/internal/ledger/store"
)

const (
	StatusHealthy     = "healthy"
	StatusUnavailable = "unavailable"
)

// Health reports whether the store answers queries and how fast.
type Health struct {
	Status         string
	ResponseTimeMS float64
}

// Metadata describes the active dataset.
type Metadata struct {
	TotalTransactionCount int
	SnapshotID            uuid.UUID
	DataLoadDate          time.Time
	APIVersion            string
	MinDate               time.Time
	MaxDate               time.Time
}

type Service struct {
	store   *store.Store
	csvPath string
	version string
}

func NewService(st *store.Store, csvPath, version string) *Service {
	return &Service{store: st, csvPath: csvPath, version: version}
}

// Health probes the store. A store with no loaded dataset reports
// unavailable but does not error.
func (s *Service) Health() Health {
	start := time.Now()
	_, err := s.store.Meta()
	elapsed := time.Since(start)

	status := StatusHealthy
	if err != nil {
		status = StatusUnavailable
	}

	return Health{
		Status:         status,
		ResponseTimeMS: float64(elapsed.Microseconds()) / 1000.0,
	}
}

func (s *Service) Metadata() (Metadata, error) {
	meta, err := s.store.Meta()
	if err != nil {
		return Metadata{}, err
	}

	return Metadata{
		TotalTransactionCount: meta.RecordCount,
		SnapshotID:            meta.SnapshotID,
		DataLoadDate:          meta.LoadedAt,
		APIVersion:            s.version,
		MinDate:               meta.MinDate,
		MaxDate:               meta.MaxDate,
	}, nil
}

// Reload re-reads the configured source and atomically replaces the active
// snapshot. A failed reload leaves the current snapshot in place.
func (s *Service) Reload() (*store.LoadResult, error) {
	f, err := os.Open(s.csvPath)
	if err != nil {
		return nil, fmt.Errorf("opening dataset: %w", err)
	}
	defer f.Close()

	return s.store.Load(f)
}
