package kpi

import (
	"time"

	"github.com/shornia-blip/reino-ceramicos-dashboard/internal/types"
)

// Compute derives the full KPI set from the current row table. Every value
// is a plain aggregate over the table; nothing is cached between cycles.
func Compute(rows []types.Row, now time.Time, quotas map[time.Weekday]int) types.KPISet {
	kpis := types.KPISet{
		TypingCounts:           make(map[types.Typing]int, len(types.TrackedTypings)),
		CumulativeBranchTarget: CumulativeTarget(now, quotas),
	}
	for _, typing := range types.TrackedTypings {
		kpis.TypingCounts[typing] = 0
	}

	today := now.Format("2006-01-02")

	monthUsers := make(map[string]struct{})
	todayUsers := make(map[string]struct{})
	whatsappUsers := make(map[string]struct{})
	whatsappSales := 0

	for _, row := range rows {
		kpis.TotalConversationsMonth++
		if row.UserID != "" {
			monthUsers[row.UserID] = struct{}{}
		}

		if row.CalendarDay == today {
			kpis.TotalConversationsToday++
			if row.UserID != "" {
				todayUsers[row.UserID] = struct{}{}
			}
		}

		if _, tracked := kpis.TypingCounts[row.Typing]; tracked {
			kpis.TypingCounts[row.Typing]++
		}

		if row.Channel == types.ChannelWhatsApp {
			if row.UserID != "" {
				whatsappUsers[row.UserID] = struct{}{}
			}
			if row.Typing == types.TypingVenta {
				whatsappSales++
			}
		}
	}

	kpis.UniqueContactsMonth = len(monthUsers)
	kpis.UniqueContactsToday = len(todayUsers)
	kpis.ConversionWhatsAppPct = Ratio(whatsappSales, len(whatsappUsers)) * 100

	return kpis
}

// Ratio divides a by b, resolving a zero denominator to 0 instead of NaN
func Ratio(a, b int) float64 {
	if b == 0 {
		return 0
	}
	return float64(a) / float64(b)
}
