package source

import (
	"context"
	"time"

	"github.com/shornia-blip/reino-ceramicos-dashboard/internal/types"
)

// Source produces the raw conversation records for a time range. The two
// implementations (live API, local snapshot file) are interchangeable; the
// pipeline never distinguishes them. Callers treat any error as "no data
// this cycle" and substitute an empty batch.
type Source interface {
	Fetch(ctx context.Context, from, to time.Time) ([]types.RawRecord, error)
}
