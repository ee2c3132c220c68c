package pipeline

import (
	"strings"
	"time"

	"github.com/shornia-blip/reino-ceramicos-dashboard/internal/types"
)

// Normalize rebuilds the analysis table from a batch of raw records.
//
// The whole table is produced in one pass and never mutated afterwards.
// Rules, mirroring the upstream export's quirks:
//   - an empty batch yields an empty table
//   - when no record in the batch carries a "created" key at all, the batch
//     is unusable and yields an empty table (column-level check, the export
//     either has the field everywhere or nowhere)
//   - a record whose "created" value is missing or unparseable is dropped
//   - rows outside [first instant of now's month, now] are filtered out,
//     even when the source already scoped the request; local snapshots may
//     span months
func Normalize(records []types.RawRecord, now time.Time, loc *time.Location) []types.Row {
	if len(records) == 0 {
		return nil
	}
	if loc == nil {
		loc = time.Local
	}
	now = now.In(loc)

	if !hasCreatedColumn(records) {
		return nil
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)

	rows := make([]types.Row, 0, len(records))
	for _, record := range records {
		ms, ok := epochMillis(record, "created")
		if !ok {
			continue
		}
		createdAt := time.UnixMilli(ms).In(loc)
		if createdAt.Before(monthStart) || createdAt.After(now) {
			continue
		}

		row := types.Row{
			ID:           topString(record, "id", ""),
			CreatedAt:    createdAt,
			HourOfDay:    createdAt.Hour(),
			Weekday:      createdAt.Weekday().String(),
			CalendarDay:  createdAt.Format("2006-01-02"),
			Channel:      CanonicalChannel(nestedString(record, "channel", "type", types.Unknown)),
			AgentRawName: nestedString(record, "agent", "name", types.NoAgent),
			Typing:       types.Typing(topString(record, "typing", types.Unknown)),
			Status:       topString(record, "status", types.Unknown),
			Direction:    topString(record, "direction", types.Unknown),
			UserID:       nestedString(record, "user", "id", ""),
			UserName:     nestedString(record, "user", "name", ""),
			Note:         topString(record, "note", ""),
		}

		if ms, ok := epochMillis(record, "assigned"); ok {
			assignedAt := time.UnixMilli(ms).In(loc)
			hour := assignedAt.Hour()
			row.AssignedAt = &assignedAt
			row.AssignedHour = &hour
		}

		row.Branch, row.AgentName = ParseAgentName(row.AgentRawName)
		row.StatusGroup = GroupStatus(row.Status)

		rows = append(rows, row)
	}

	return rows
}

// hasCreatedColumn reports whether any record in the batch carries the
// "created" key
func hasCreatedColumn(records []types.RawRecord) bool {
	for _, record := range records {
		if _, ok := record["created"]; ok {
			return true
		}
	}
	return false
}

// CanonicalChannel maps the upstream channel spellings to the display
// vocabulary. Unknown or missing values collapse into "N/A".
func CanonicalChannel(raw string) types.Channel {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "WHATSAPP":
		return types.ChannelWhatsApp
	case "FACEBOOK", "MESSENGER":
		return types.ChannelFacebook
	case "INSTAGRAM":
		return types.ChannelInstagram
	case "MERCADOLIBRE", "MERCADO LIBRE", "MELI":
		return types.ChannelMercadoLibre
	default:
		return types.ChannelUnknown
	}
}

// GroupStatus collapses an upstream status into ACTIVE or FINISHED so the
// status view always fully partitions the table
func GroupStatus(status string) types.StatusGroup {
	switch strings.ToUpper(strings.TrimSpace(status)) {
	case "FINISHED", "CLOSED", "RESOLVED":
		return types.StatusFinished
	default:
		return types.StatusActive
	}
}
