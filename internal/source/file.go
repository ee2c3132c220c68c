package source

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/shornia-blip/reino-ceramicos-dashboard/internal/types"
)

// FileSource reads conversation records from a local JSON snapshot with the
// same array shape the API returns. Used when no API token is configured.
// The snapshot is re-read on every fetch, so swapping the file between
// refreshes takes effect without a restart. The time range is ignored; the
// normalizer applies the month window regardless.
type FileSource struct {
	path string
}

// NewFileSource creates a new FileSource
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Fetch reads and decodes the snapshot file
func (s *FileSource) Fetch(_ context.Context, _, _ time.Time) ([]types.RawRecord, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot %s: %w", s.path, err)
	}

	var records []types.RawRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %s: %w", s.path, err)
	}

	return records, nil
}
