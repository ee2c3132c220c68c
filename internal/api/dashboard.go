package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shornia-blip/reino-ceramicos-dashboard/internal/refresh"
	"github.com/shornia-blip/reino-ceramicos-dashboard/internal/types"
	"github.com/shornia-blip/reino-ceramicos-dashboard/internal/views"
)

// DashboardHandler serves the published snapshot to the web dashboard.
// Every endpoint reads the current snapshot only; nothing here derives new
// business data.
type DashboardHandler struct {
	refresher *refresh.Refresher
	logger    zerolog.Logger
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(refresher *refresh.Refresher, logger zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{
		refresher: refresher,
		logger:    logger.With().Str("component", "dashboard_handler").Logger(),
	}
}

// GetSnapshot returns the whole published snapshot
// GET /api/snapshot
func (h *DashboardHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.refresher.Snapshot())
}

// GetKPIs returns the scalar KPI set
// GET /api/kpis
func (h *DashboardHandler) GetKPIs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.refresher.Snapshot().KPIs)
}

// GetView returns one aggregation view, re-rendered with the requested
// display mode when the view is toggleable
// GET /api/views/{view}?sort=chronological|count&metric=sales|conversion
func (h *DashboardHandler) GetView(w http.ResponseWriter, r *http.Request) {
	snapshot := h.refresher.Snapshot()
	mode := sortMode(r.URL.Query().Get("sort"))

	switch chi.URLParam(r, "view") {
	case "daily":
		writeJSON(w, snapshot.Views.Daily)
	case "channels":
		writeJSON(w, snapshot.Views.Channels)
	case "hours":
		writeJSON(w, views.HoursOfCreation(snapshot.Rows, mode))
	case "assignment-hours":
		writeJSON(w, views.HoursOfAssignment(snapshot.Rows, mode))
	case "weekdays":
		writeJSON(w, views.Weekdays(snapshot.Rows, mode))
	case "branches":
		writeJSON(w, snapshot.Views.Branches)
	case "agents":
		writeJSON(w, snapshot.Views.Agents)
	case "status":
		writeJSON(w, snapshot.Views.StatusGroups)
	case "branch-performance":
		metric := types.MetricSales
		if r.URL.Query().Get("metric") == string(types.MetricConversion) {
			metric = types.MetricConversion
		}
		writeJSON(w, views.BranchPerformance(snapshot.Rows, metric))
	default:
		http.Error(w, "unknown view", http.StatusNotFound)
	}
}

// GetConversations returns the drill-down contact list, optionally
// filtered by channel, branch, agent or typing
// GET /api/conversations?channel=&branch=&agent=&typing=&limit=
func (h *DashboardHandler) GetConversations(w http.ResponseWriter, r *http.Request) {
	snapshot := h.refresher.Snapshot()
	query := r.URL.Query()

	channel := query.Get("channel")
	branch := query.Get("branch")
	agent := query.Get("agent")
	typing := query.Get("typing")

	limit := 0
	if raw := query.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	matched := make([]types.Row, 0, len(snapshot.Rows))
	for _, row := range snapshot.Rows {
		if channel != "" && string(row.Channel) != channel {
			continue
		}
		if branch != "" && row.Branch != branch {
			continue
		}
		if agent != "" && row.AgentName != agent {
			continue
		}
		if typing != "" && string(row.Typing) != typing {
			continue
		}
		matched = append(matched, row)
		if limit > 0 && len(matched) == limit {
			break
		}
	}

	writeJSON(w, matched)
}

// TriggerRefresh starts an off-interval refresh cycle. The single-flight
// guard still applies: a cycle already in flight yields 409.
// POST /api/refresh
func (h *DashboardHandler) TriggerRefresh(w http.ResponseWriter, r *http.Request) {
	if !h.refresher.Refresh(r.Context()) {
		http.Error(w, "refresh already in flight", http.StatusConflict)
		return
	}

	h.logger.Info().Msg("manual refresh completed")
	writeJSON(w, map[string]string{"status": "refreshed"})
}

func sortMode(raw string) types.SortMode {
	if raw == string(types.SortByCount) {
		return types.SortByCount
	}
	return types.SortChronological
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
