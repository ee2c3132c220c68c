package refresh

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shornia-blip/reino-ceramicos-dashboard/internal/kpi"
	"github.com/shornia-blip/reino-ceramicos-dashboard/internal/metrics"
	"github.com/shornia-blip/reino-ceramicos-dashboard/internal/pipeline"
	"github.com/shornia-blip/reino-ceramicos-dashboard/internal/source"
	"github.com/shornia-blip/reino-ceramicos-dashboard/internal/storage"
	"github.com/shornia-blip/reino-ceramicos-dashboard/internal/types"
	"github.com/shornia-blip/reino-ceramicos-dashboard/internal/views"
	"github.com/shornia-blip/reino-ceramicos-dashboard/internal/websocket"
)

// Refresher re-runs the full pipeline on a fixed interval: fetch the
// current month's records, normalize, recompute KPIs and views, publish
// the result as one immutable snapshot, and broadcast it to the hub.
//
// There is no incremental state: each cycle rebuilds everything from the
// upstream response and replaces the previous snapshot whole. An explicit
// single-flight guard drops triggers that arrive while a cycle is still
// running, so slow upstream responses can never stack refreshes.
type Refresher struct {
	src      source.Source
	store    storage.Store
	hub      *websocket.Hub
	interval time.Duration
	quotas   map[time.Weekday]int
	loc      *time.Location
	logger   zerolog.Logger

	current  atomic.Pointer[types.Snapshot]
	inFlight atomic.Bool

	// now is swappable for tests
	now func() time.Time
}

// NewRefresher creates a new Refresher. The published snapshot starts
// empty so readers never observe nil.
func NewRefresher(src source.Source, store storage.Store, hub *websocket.Hub, interval time.Duration, quotas map[time.Weekday]int, loc *time.Location, logger zerolog.Logger) *Refresher {
	if loc == nil {
		loc = time.Local
	}
	r := &Refresher{
		src:      src,
		store:    store,
		hub:      hub,
		interval: interval,
		quotas:   quotas,
		loc:      loc,
		logger:   logger.With().Str("component", "refresher").Logger(),
		now:      time.Now,
	}
	r.current.Store(r.emptySnapshot())
	return r
}

// Start runs an immediate first cycle, then refreshes on every tick until
// the context is cancelled
func (r *Refresher) Start(ctx context.Context) {
	r.logger.Info().Dur("interval", r.interval).Msg("refresher started")

	r.Refresh(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info().Msg("refresher stopped")
			return

		case <-ticker.C:
			r.Refresh(ctx)
		}
	}
}

// Refresh runs one pipeline cycle. Returns false when the trigger was
// dropped because a cycle is already in flight.
func (r *Refresher) Refresh(ctx context.Context) bool {
	if !r.inFlight.CompareAndSwap(false, true) {
		r.logger.Warn().Msg("refresh already in flight, skipping trigger")
		metrics.Get().RecordRefreshSkipped()
		return false
	}
	defer r.inFlight.Store(false)

	m := metrics.Get()
	cycleStart := time.Now()
	now := r.now().In(r.loc)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, r.loc)

	records, err := r.src.Fetch(ctx, monthStart, now)
	if err != nil {
		// The dashboard renders an empty table rather than failing
		r.logger.Warn().Err(err).Msg("fetch failed, substituting empty batch")
		m.RecordFetchError()
		records = nil
	}

	rows := pipeline.Normalize(records, now, r.loc)

	snapshot := &types.Snapshot{
		Type:        "snapshot",
		RunID:       uuid.New().String(),
		Timestamp:   now,
		WindowStart: monthStart,
		Rows:        rows,
		KPIs:        kpi.Compute(rows, now, r.quotas),
		Views:       views.All(rows, now),
	}

	r.current.Store(snapshot)
	m.UpdateSnapshotStats(rows)
	m.RecordRefreshCycle(time.Since(cycleStart), len(records), len(rows))

	r.broadcast(snapshot)
	r.archive(snapshot)

	r.logger.Info().
		Str("run_id", snapshot.RunID).
		Int("records_fetched", len(records)).
		Int("rows_kept", len(rows)).
		Dur("duration", time.Since(cycleStart)).
		Msg("snapshot published")

	return true
}

// Snapshot returns the currently published snapshot
func (r *Refresher) Snapshot() *types.Snapshot {
	return r.current.Load()
}

func (r *Refresher) broadcast(snapshot *types.Snapshot) {
	if r.hub == nil {
		return
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to marshal snapshot")
		metrics.Get().RecordRefreshError()
		return
	}

	r.hub.Broadcast(data)
	r.logger.Debug().
		Int("clients", r.hub.ClientCount()).
		Int("bytes", len(data)).
		Msg("snapshot broadcasted")
}

// archive writes today's KPI summary; a later refresh the same day simply
// overwrites the row
func (r *Refresher) archive(snapshot *types.Snapshot) {
	if r.store == nil {
		return
	}

	summary := types.DailySummary{
		MonthKey: snapshot.Timestamp.Format("2006-01"),
		Date:     snapshot.Timestamp.Format("2006-01-02"),
		KPIs:     snapshot.KPIs,
		RowCount: len(snapshot.Rows),
	}
	if err := r.store.SaveDailySummary(summary); err != nil {
		r.logger.Error().Err(err).Str("date", summary.Date).Msg("failed to archive daily summary")
	}
}

func (r *Refresher) emptySnapshot() *types.Snapshot {
	now := r.now().In(r.loc)
	return &types.Snapshot{
		Type:        "snapshot",
		RunID:       uuid.New().String(),
		Timestamp:   now,
		WindowStart: time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, r.loc),
		KPIs:        kpi.Compute(nil, now, r.quotas),
		Views:       views.All(nil, now),
	}
}
