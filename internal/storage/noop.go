package storage

import "github.com/shornia-blip/reino-ceramicos-dashboard/internal/types"

// Store defines the KPI archive interface. One summary row is written per
// calendar day; a refresh later the same day overwrites it.
type Store interface {
	SaveDailySummary(summary types.DailySummary) error
	GetDailySummaries(monthKey string) ([]types.DailySummary, error)
}

// NoopStore is a no-op implementation when DynamoDB is disabled. The
// dashboard is fully functional without an archive.
type NoopStore struct{}

func NewNoopStore() *NoopStore { return &NoopStore{} }

func (s *NoopStore) SaveDailySummary(_ types.DailySummary) error { return nil }
func (s *NoopStore) GetDailySummaries(_ string) ([]types.DailySummary, error) {
	return nil, nil
}
