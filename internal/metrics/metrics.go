package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/shornia-blip/reino-ceramicos-dashboard/internal/types"
)

// Metrics holds all application metrics
type Metrics struct {
	mu sync.RWMutex

	// Refresh pipeline metrics
	RefreshCyclesTotal  int64
	RefreshSkippedTotal int64 // trigger arrived while a cycle was in flight
	RefreshErrorsTotal  int64
	FetchErrorsTotal    int64
	RecordsFetchedTotal int64
	RecordsKeptTotal    int64
	lastRefreshDuration time.Duration
	lastRefreshAt       time.Time

	// Current snapshot shape
	snapshotRows  int
	rowsByChannel map[types.Channel]int
	rowsByBranch  map[string]int
	rowsByTyping  map[types.Typing]int

	// WebSocket metrics
	WebSocketConnectionsTotal    int64
	WebSocketDisconnectionsTotal int64
	WebSocketMessagesTotal       int64
	WebSocketErrorsTotal         int64
	activeConnections            int64

	// HTTP metrics
	httpRequestsTotal map[string]map[int]int64 // endpoint -> status -> count

	// Timing
	startTime time.Time
}

// Global metrics instance
var instance *Metrics
var once sync.Once

// Get returns the singleton metrics instance
func Get() *Metrics {
	once.Do(func() {
		instance = &Metrics{
			rowsByChannel:     make(map[types.Channel]int),
			rowsByBranch:      make(map[string]int),
			rowsByTyping:      make(map[types.Typing]int),
			httpRequestsTotal: make(map[string]map[int]int64),
			startTime:         time.Now(),
		}
	})
	return instance
}

// RecordRefreshCycle records one completed refresh cycle
func (m *Metrics) RecordRefreshCycle(duration time.Duration, fetched, kept int) {
	m.mu.Lock()
	m.RefreshCyclesTotal++
	m.RecordsFetchedTotal += int64(fetched)
	m.RecordsKeptTotal += int64(kept)
	m.lastRefreshDuration = duration
	m.lastRefreshAt = time.Now()
	m.mu.Unlock()
}

// RecordRefreshSkipped counts a trigger dropped by the single-flight guard
func (m *Metrics) RecordRefreshSkipped() {
	m.mu.Lock()
	m.RefreshSkippedTotal++
	m.mu.Unlock()
}

// RecordRefreshError increments the refresh error counter
func (m *Metrics) RecordRefreshError() {
	m.mu.Lock()
	m.RefreshErrorsTotal++
	m.mu.Unlock()
}

// RecordFetchError counts an upstream fetch that had to be replaced with
// an empty batch
func (m *Metrics) RecordFetchError() {
	m.mu.Lock()
	m.FetchErrorsTotal++
	m.mu.Unlock()
}

// UpdateSnapshotStats updates the shape gauges for the published snapshot
func (m *Metrics) UpdateSnapshotStats(rows []types.Row) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.snapshotRows = len(rows)
	m.rowsByChannel = make(map[types.Channel]int)
	m.rowsByBranch = make(map[string]int)
	m.rowsByTyping = make(map[types.Typing]int)

	for _, row := range rows {
		m.rowsByChannel[row.Channel]++
		m.rowsByBranch[row.Branch]++
		m.rowsByTyping[row.Typing]++
	}
}

// RecordWebSocketConnection increments connection counters
func (m *Metrics) RecordWebSocketConnection() {
	m.mu.Lock()
	m.WebSocketConnectionsTotal++
	m.activeConnections++
	m.mu.Unlock()
}

// RecordWebSocketDisconnection increments disconnection counter
func (m *Metrics) RecordWebSocketDisconnection() {
	m.mu.Lock()
	m.WebSocketDisconnectionsTotal++
	m.activeConnections--
	m.mu.Unlock()
}

// RecordWebSocketMessage increments message counter
func (m *Metrics) RecordWebSocketMessage() {
	m.mu.Lock()
	m.WebSocketMessagesTotal++
	m.mu.Unlock()
}

// RecordWebSocketError increments WebSocket error counter
func (m *Metrics) RecordWebSocketError() {
	m.mu.Lock()
	m.WebSocketErrorsTotal++
	m.mu.Unlock()
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(endpoint string, statusCode int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.httpRequestsTotal[endpoint] == nil {
		m.httpRequestsTotal[endpoint] = make(map[int]int64)
	}
	m.httpRequestsTotal[endpoint][statusCode]++
}

// GetActiveConnections returns current WebSocket connections
func (m *Metrics) GetActiveConnections() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.activeConnections
}

// Handler returns an HTTP handler for the /metrics endpoint
func (m *Metrics) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m.mu.RLock()
		defer m.mu.RUnlock()

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")

		// Helper to write metric
		write := func(name string, value interface{}, labels ...string) {
			labelStr := ""
			if len(labels) > 0 {
				labelStr = "{"
				for i := 0; i < len(labels); i += 2 {
					if i > 0 {
						labelStr += ","
					}
					labelStr += labels[i] + "=\"" + labels[i+1] + "\""
				}
				labelStr += "}"
			}

			switch v := value.(type) {
			case int:
				w.Write([]byte(name + labelStr + " " + strconv.Itoa(v) + "\n"))
			case int64:
				w.Write([]byte(name + labelStr + " " + strconv.FormatInt(v, 10) + "\n"))
			case float64:
				w.Write([]byte(name + labelStr + " " + strconv.FormatFloat(v, 'f', 6, 64) + "\n"))
			}
		}

		// System metrics
		write("reino_uptime_seconds", time.Since(m.startTime).Seconds())

		// Refresh metrics
		write("reino_refresh_cycles_total", m.RefreshCyclesTotal)
		write("reino_refresh_skipped_total", m.RefreshSkippedTotal)
		write("reino_refresh_errors_total", m.RefreshErrorsTotal)
		write("reino_fetch_errors_total", m.FetchErrorsTotal)
		write("reino_records_fetched_total", m.RecordsFetchedTotal)
		write("reino_records_kept_total", m.RecordsKeptTotal)
		write("reino_refresh_duration_seconds", m.lastRefreshDuration.Seconds())
		if !m.lastRefreshAt.IsZero() {
			write("reino_refresh_age_seconds", time.Since(m.lastRefreshAt).Seconds())
		}

		// Snapshot shape
		write("reino_snapshot_rows", m.snapshotRows)
		for channel, count := range m.rowsByChannel {
			write("reino_rows_by_channel", count, "channel", string(channel))
		}
		for branch, count := range m.rowsByBranch {
			write("reino_rows_by_branch", count, "branch", branch)
		}
		for typing, count := range m.rowsByTyping {
			write("reino_rows_by_typing", count, "typing", string(typing))
		}

		// WebSocket metrics
		write("reino_websocket_connections_total", m.WebSocketConnectionsTotal)
		write("reino_websocket_disconnections_total", m.WebSocketDisconnectionsTotal)
		write("reino_websocket_active_connections", m.activeConnections)
		write("reino_websocket_messages_total", m.WebSocketMessagesTotal)
		write("reino_websocket_errors_total", m.WebSocketErrorsTotal)

		// HTTP metrics
		for endpoint, statusCodes := range m.httpRequestsTotal {
			for status, count := range statusCodes {
				write("reino_http_requests_total", count, "endpoint", endpoint, "status", strconv.Itoa(status))
			}
		}
	}
}
