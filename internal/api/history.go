package api

import (
	"net/http"
	"regexp"
	"time"

	"github.com/rs/zerolog"
	"github.com/shornia-blip/reino-ceramicos-dashboard/internal/storage"
	"github.com/shornia-blip/reino-ceramicos-dashboard/internal/types"
)

var monthKeyPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)

// HistoryHandler serves archived daily KPI summaries from the store
type HistoryHandler struct {
	store  storage.Store
	logger zerolog.Logger
}

// NewHistoryHandler creates a new HistoryHandler
func NewHistoryHandler(store storage.Store, logger zerolog.Logger) *HistoryHandler {
	return &HistoryHandler{
		store:  store,
		logger: logger.With().Str("component", "history_handler").Logger(),
	}
}

// GetHistory returns the archived daily summaries for a month
// GET /api/history?month=YYYY-MM (defaults to the current month)
func (h *HistoryHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	monthKey := r.URL.Query().Get("month")
	if monthKey == "" {
		monthKey = time.Now().Format("2006-01")
	}
	if !monthKeyPattern.MatchString(monthKey) {
		http.Error(w, "month must be YYYY-MM", http.StatusBadRequest)
		return
	}

	summaries, err := h.store.GetDailySummaries(monthKey)
	if err != nil {
		h.logger.Error().Err(err).Str("month", monthKey).Msg("failed to get daily summaries")
		http.Error(w, "failed to retrieve history", http.StatusInternalServerError)
		return
	}

	if summaries == nil {
		summaries = []types.DailySummary{}
	}

	writeJSON(w, summaries)
}
