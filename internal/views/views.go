package views

import (
	"fmt"
	"sort"
	"time"

	"github.com/shornia-blip/reino-ceramicos-dashboard/internal/kpi"
	"github.com/shornia-blip/reino-ceramicos-dashboard/internal/types"
)

// Every view here is a pure function over the snapshot's row table. Views
// with a fixed domain emit every bucket in it, count 0 included, so a chart
// never silently drops an empty category. Toggleable views take a SortMode
// or BranchMetric; switching modes re-renders the same aggregation and
// never touches the rows.

const agentViewLimit = 15

// weekdayOrder fixes the Monday-first display order of the weekday view
var weekdayOrder = []time.Weekday{
	time.Monday,
	time.Tuesday,
	time.Wednesday,
	time.Thursday,
	time.Friday,
	time.Saturday,
	time.Sunday,
}

// Daily counts conversations per calendar day, filling every day from the
// start of the current month through today
func Daily(rows []types.Row, now time.Time) []types.Bucket {
	counts := make(map[string]int)
	for _, row := range rows {
		counts[row.CalendarDay]++
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	buckets := make([]types.Bucket, 0, now.Day())
	for day := monthStart; !day.After(now); day = day.AddDate(0, 0, 1) {
		key := day.Format("2006-01-02")
		buckets = append(buckets, types.Bucket{Key: key, Count: counts[key]})
	}
	return buckets
}

// Channels counts conversations per canonical channel, observed values
// only, largest first
func Channels(rows []types.Row) []types.Bucket {
	counts := make(map[string]int)
	for _, row := range rows {
		counts[string(row.Channel)]++
	}
	return sortedByCount(counts)
}

// HoursOfCreation counts conversations per creation hour over the full
// 0-23 domain
func HoursOfCreation(rows []types.Row, mode types.SortMode) []types.Bucket {
	counts := make(map[int]int)
	for _, row := range rows {
		counts[row.HourOfDay]++
	}
	return hourBuckets(counts, 0, 23, mode)
}

// HoursOfAssignment counts conversations per assignment hour, restricted
// to the 9-18 business window. Rows without an assignment are skipped;
// the 9..18 domain is always emitted in full.
func HoursOfAssignment(rows []types.Row, mode types.SortMode) []types.Bucket {
	counts := make(map[int]int)
	for _, row := range rows {
		if row.AssignedHour == nil {
			continue
		}
		if h := *row.AssignedHour; h >= 9 && h <= 18 {
			counts[h]++
		}
	}
	return hourBuckets(counts, 9, 18, mode)
}

// Weekdays counts conversations per day of week, all seven days present,
// Monday-first or largest-first
func Weekdays(rows []types.Row, mode types.SortMode) []types.Bucket {
	counts := make(map[string]int)
	for _, row := range rows {
		counts[row.Weekday]++
	}

	buckets := make([]types.Bucket, 0, len(weekdayOrder))
	for _, day := range weekdayOrder {
		name := day.String()
		buckets = append(buckets, types.Bucket{Key: name, Count: counts[name]})
	}
	if mode == types.SortByCount {
		sortDescStable(buckets)
	}
	return buckets
}

// Branches counts conversations per Punto de Venta, largest first
func Branches(rows []types.Row) []types.Bucket {
	counts := make(map[string]int)
	for _, row := range rows {
		counts[row.Branch]++
	}
	return sortedByCount(counts)
}

// Agents counts conversations per clean agent name, largest first, capped
// to the top entries so the chart stays readable
func Agents(rows []types.Row) []types.Bucket {
	counts := make(map[string]int)
	for _, row := range rows {
		counts[row.AgentName]++
	}

	buckets := sortedByCount(counts)
	if len(buckets) > agentViewLimit {
		buckets = buckets[:agentViewLimit]
	}
	return buckets
}

// StatusGroups counts conversations per ACTIVE/FINISHED group. Both groups
// are always present and together they account for every row.
func StatusGroups(rows []types.Row) []types.Bucket {
	counts := make(map[types.StatusGroup]int)
	for _, row := range rows {
		counts[row.StatusGroup]++
	}
	return []types.Bucket{
		{Key: string(types.StatusActive), Count: counts[types.StatusActive]},
		{Key: string(types.StatusFinished), Count: counts[types.StatusFinished]},
	}
}

// BranchPerformance computes per-branch sales and conversion over the
// observed branches, ordered by the selected metric
func BranchPerformance(rows []types.Row, metric types.BranchMetric) []types.BranchPerf {
	type acc struct {
		sales int
		users map[string]struct{}
	}
	byBranch := make(map[string]*acc)

	for _, row := range rows {
		a := byBranch[row.Branch]
		if a == nil {
			a = &acc{users: make(map[string]struct{})}
			byBranch[row.Branch] = a
		}
		if row.Typing == types.TypingVenta {
			a.sales++
		}
		if row.UserID != "" {
			a.users[row.UserID] = struct{}{}
		}
	}

	perf := make([]types.BranchPerf, 0, len(byBranch))
	for branch, a := range byBranch {
		perf = append(perf, types.BranchPerf{
			Branch:         branch,
			Sales:          a.sales,
			UniqueContacts: len(a.users),
			Conversion:     kpi.Ratio(a.sales, len(a.users)) * 100,
		})
	}

	sort.SliceStable(perf, func(i, j int) bool {
		if metric == types.MetricConversion {
			if perf[i].Conversion != perf[j].Conversion {
				return perf[i].Conversion > perf[j].Conversion
			}
		} else if perf[i].Sales != perf[j].Sales {
			return perf[i].Sales > perf[j].Sales
		}
		return perf[i].Branch < perf[j].Branch
	})
	return perf
}

// All renders the default mode of every view for a snapshot
func All(rows []types.Row, now time.Time) types.ViewSet {
	return types.ViewSet{
		Daily:             Daily(rows, now),
		Channels:          Channels(rows),
		HoursOfCreation:   HoursOfCreation(rows, types.SortChronological),
		HoursOfAssignment: HoursOfAssignment(rows, types.SortChronological),
		Weekdays:          Weekdays(rows, types.SortChronological),
		Branches:          Branches(rows),
		Agents:            Agents(rows),
		StatusGroups:      StatusGroups(rows),
		BranchPerformance: BranchPerformance(rows, types.MetricSales),
	}
}

// hourBuckets fills the lo..hi hour domain and applies the sort mode
func hourBuckets(counts map[int]int, lo, hi int, mode types.SortMode) []types.Bucket {
	buckets := make([]types.Bucket, 0, hi-lo+1)
	for h := lo; h <= hi; h++ {
		buckets = append(buckets, types.Bucket{Key: hourKey(h), Count: counts[h]})
	}
	if mode == types.SortByCount {
		sortDescStable(buckets)
	}
	return buckets
}

func hourKey(h int) string {
	return fmt.Sprintf("%02d", h)
}

// sortedByCount turns a count map into buckets ordered largest first, key
// as tiebreaker so the order is deterministic
func sortedByCount(counts map[string]int) []types.Bucket {
	buckets := make([]types.Bucket, 0, len(counts))
	for key, count := range counts {
		buckets = append(buckets, types.Bucket{Key: key, Count: count})
	}
	sortDescStable(buckets)
	return buckets
}

func sortDescStable(buckets []types.Bucket) {
	sort.SliceStable(buckets, func(i, j int) bool {
		if buckets[i].Count != buckets[j].Count {
			return buckets[i].Count > buckets[j].Count
		}
		return buckets[i].Key < buckets[j].Key
	})
}
