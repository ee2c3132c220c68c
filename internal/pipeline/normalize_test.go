package pipeline

import (
	"reflect"
	"testing"
	"time"

	"github.com/shornia-blip/reino-ceramicos-dashboard/internal/types"
)

// fixed "now" for all normalization tests: Saturday 2026-08-15 12:00 UTC
var testNow = time.Date(2026, time.August, 15, 12, 0, 0, 0, time.UTC)

func millis(t time.Time) float64 {
	return float64(t.UnixMilli())
}

func TestNormalizeEmptyInput(t *testing.T) {
	if rows := Normalize(nil, testNow, time.UTC); len(rows) != 0 {
		t.Errorf("expected empty table, got %d rows", len(rows))
	}
	if rows := Normalize([]types.RawRecord{}, testNow, time.UTC); len(rows) != 0 {
		t.Errorf("expected empty table, got %d rows", len(rows))
	}
}

func TestNormalizeMissingCreatedColumn(t *testing.T) {
	// No record in the batch carries "created" at all: the whole batch is
	// unusable, not just the individual rows
	records := []types.RawRecord{
		{"id": "a", "typing": "VENTA"},
		{"id": "b", "status": "OPEN"},
	}

	if rows := Normalize(records, testNow, time.UTC); len(rows) != 0 {
		t.Errorf("expected empty table without created column, got %d rows", len(rows))
	}
}

func TestNormalizeDropsUnparseableCreated(t *testing.T) {
	records := []types.RawRecord{
		{"id": "good", "created": millis(testNow.Add(-time.Hour))},
		{"id": "bad", "created": "not-a-number"},
		{"id": "null", "created": nil},
	}

	rows := Normalize(records, testNow, time.UTC)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].ID != "good" {
		t.Errorf("expected row 'good', got %q", rows[0].ID)
	}
}

func TestNormalizeMonthWindow(t *testing.T) {
	records := []types.RawRecord{
		{"id": "in-month", "created": millis(testNow.Add(-48 * time.Hour))},
		{"id": "month-start", "created": millis(time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC))},
		{"id": "last-month", "created": millis(time.Date(2026, time.July, 31, 23, 59, 0, 0, time.UTC))},
		{"id": "future", "created": millis(testNow.Add(time.Hour))},
	}

	rows := Normalize(records, testNow, time.UTC)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	ids := map[string]bool{}
	for _, row := range rows {
		ids[row.ID] = true
	}
	if !ids["in-month"] || !ids["month-start"] {
		t.Errorf("expected in-month and month-start rows, got %v", ids)
	}
}

func TestNormalizeFullRecord(t *testing.T) {
	created := time.Date(2026, time.August, 15, 10, 30, 0, 0, time.UTC) // Saturday
	assigned := created.Add(15 * time.Minute)

	records := []types.RawRecord{{
		"id":        "c1",
		"created":   millis(created),
		"assigned":  millis(assigned),
		"channel":   map[string]any{"type": "WHATSAPP"},
		"agent":     map[string]any{"name": "R18 V - MAURICIO PUCHETA"},
		"user":      map[string]any{"id": "u1", "name": "Cliente Uno"},
		"typing":    "VENTA",
		"status":    "CLOSED",
		"direction": "IN",
		"note":      "pidió precio de porcelanato",
	}}

	rows := Normalize(records, testNow, time.UTC)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}

	row := rows[0]
	if !row.CreatedAt.Equal(created) {
		t.Errorf("expected createdAt %v, got %v", created, row.CreatedAt)
	}
	if row.HourOfDay != 10 {
		t.Errorf("expected hour 10, got %d", row.HourOfDay)
	}
	if row.Weekday != "Saturday" {
		t.Errorf("expected Saturday, got %q", row.Weekday)
	}
	if row.CalendarDay != "2026-08-15" {
		t.Errorf("expected calendar day 2026-08-15, got %q", row.CalendarDay)
	}
	if row.AssignedAt == nil || !row.AssignedAt.Equal(assigned) {
		t.Errorf("expected assignedAt %v, got %v", assigned, row.AssignedAt)
	}
	if row.AssignedHour == nil || *row.AssignedHour != 10 {
		t.Errorf("expected assigned hour 10, got %v", row.AssignedHour)
	}
	if row.Channel != types.ChannelWhatsApp {
		t.Errorf("expected WhatsApp, got %q", row.Channel)
	}
	if row.Branch != "Reino 18" {
		t.Errorf("expected branch Reino 18, got %q", row.Branch)
	}
	if row.AgentName != "MAURICIO PUCHETA" {
		t.Errorf("expected agent MAURICIO PUCHETA, got %q", row.AgentName)
	}
	if row.Typing != types.TypingVenta {
		t.Errorf("expected typing VENTA, got %q", row.Typing)
	}
	if row.StatusGroup != types.StatusFinished {
		t.Errorf("expected status group FINISHED, got %q", row.StatusGroup)
	}
	if row.UserID != "u1" {
		t.Errorf("expected user u1, got %q", row.UserID)
	}
}

func TestNormalizeDefaults(t *testing.T) {
	// Only "created" present: everything else falls back to sentinels
	records := []types.RawRecord{{
		"created": millis(testNow.Add(-time.Hour)),
	}}

	rows := Normalize(records, testNow, time.UTC)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}

	row := rows[0]
	if row.Channel != types.ChannelUnknown {
		t.Errorf("expected channel N/A, got %q", row.Channel)
	}
	if row.AgentRawName != types.NoAgent {
		t.Errorf("expected raw agent %q, got %q", types.NoAgent, row.AgentRawName)
	}
	if row.Branch != types.NoBranch {
		t.Errorf("expected branch %q, got %q", types.NoBranch, row.Branch)
	}
	if row.AgentName != types.NoAgent {
		t.Errorf("expected agent %q, got %q", types.NoAgent, row.AgentName)
	}
	if row.Typing != types.TypingUnknown {
		t.Errorf("expected typing N/A, got %q", row.Typing)
	}
	if row.Status != types.Unknown {
		t.Errorf("expected status N/A, got %q", row.Status)
	}
	if row.Direction != types.Unknown {
		t.Errorf("expected direction N/A, got %q", row.Direction)
	}
	if row.AssignedAt != nil || row.AssignedHour != nil {
		t.Error("expected no assignment columns")
	}
	if row.UserID != "" || row.UserName != "" {
		t.Error("expected empty user fields")
	}
	if row.StatusGroup != types.StatusActive {
		t.Errorf("expected status group ACTIVE, got %q", row.StatusGroup)
	}
}

func TestNormalizeMalformedSubObjects(t *testing.T) {
	// Sub-objects of the wrong type never abort the batch
	records := []types.RawRecord{{
		"created": millis(testNow.Add(-time.Hour)),
		"channel": "WHATSAPP",
		"agent":   7.0,
		"user":    nil,
	}}

	rows := Normalize(records, testNow, time.UTC)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].Channel != types.ChannelUnknown {
		t.Errorf("expected channel N/A for scalar channel, got %q", rows[0].Channel)
	}
	if rows[0].AgentName != types.NoAgent {
		t.Errorf("expected agent sentinel, got %q", rows[0].AgentName)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	records := []types.RawRecord{
		{"id": "a", "created": millis(testNow.Add(-time.Hour)), "typing": "VENTA"},
		{"id": "b", "created": millis(testNow.Add(-2 * time.Hour)), "channel": map[string]any{"type": "INSTAGRAM"}},
	}

	first := Normalize(records, testNow, time.UTC)
	second := Normalize(records, testNow, time.UTC)

	if !reflect.DeepEqual(first, second) {
		t.Error("expected identical tables from repeated normalization")
	}
}

func TestCanonicalChannel(t *testing.T) {
	tests := []struct {
		raw  string
		want types.Channel
	}{
		{"WHATSAPP", types.ChannelWhatsApp},
		{"whatsapp", types.ChannelWhatsApp},
		{"FACEBOOK", types.ChannelFacebook},
		{"MESSENGER", types.ChannelFacebook},
		{"INSTAGRAM", types.ChannelInstagram},
		{"MERCADOLIBRE", types.ChannelMercadoLibre},
		{"MERCADO LIBRE", types.ChannelMercadoLibre},
		{"MELI", types.ChannelMercadoLibre},
		{"TELEGRAM", types.ChannelUnknown},
		{"N/A", types.ChannelUnknown},
		{"", types.ChannelUnknown},
	}

	for _, tt := range tests {
		if got := CanonicalChannel(tt.raw); got != tt.want {
			t.Errorf("CanonicalChannel(%q): expected %q, got %q", tt.raw, tt.want, got)
		}
	}
}

func TestGroupStatus(t *testing.T) {
	tests := []struct {
		status string
		want   types.StatusGroup
	}{
		{"FINISHED", types.StatusFinished},
		{"closed", types.StatusFinished},
		{"Resolved", types.StatusFinished},
		{"OPEN", types.StatusActive},
		{"PENDING", types.StatusActive},
		{"N/A", types.StatusActive},
		{"", types.StatusActive},
	}

	for _, tt := range tests {
		if got := GroupStatus(tt.status); got != tt.want {
			t.Errorf("GroupStatus(%q): expected %q, got %q", tt.status, tt.want, got)
		}
	}
}
