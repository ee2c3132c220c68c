package kpi

import "time"

// CumulativeTarget sums the per-weekday daily sales quota over every
// calendar day from the 1st of today's month through today inclusive. It
// answers "how many sales should a branch have accumulated by now" and is
// a pure function of the date and the quota table.
func CumulativeTarget(today time.Time, quotas map[time.Weekday]int) int {
	total := 0
	for day := 1; day <= today.Day(); day++ {
		date := time.Date(today.Year(), today.Month(), day, 0, 0, 0, 0, today.Location())
		total += quotas[date.Weekday()]
	}
	return total
}
