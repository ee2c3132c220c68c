package kpi

import (
	"testing"
	"time"

	"github.com/shornia-blip/reino-ceramicos-dashboard/internal/config"
)

func TestCumulativeTarget(t *testing.T) {
	quotas := config.DefaultQuotas()

	tests := []struct {
		name string
		date time.Time
		want int
	}{
		{
			// 2026-08-01 is a Saturday
			name: "first of month",
			date: time.Date(2026, time.August, 1, 12, 0, 0, 0, time.UTC),
			want: 25,
		},
		{
			// Sat 1 + Sun 2
			name: "first weekend",
			date: time.Date(2026, time.August, 2, 12, 0, 0, 0, time.UTC),
			want: 35,
		},
		{
			// Sat, Sun, then Mon-Fri
			name: "first full week",
			date: time.Date(2026, time.August, 7, 12, 0, 0, 0, time.UTC),
			want: 25 + 10 + 5*50,
		},
		{
			// 3 Saturdays, 2 Sundays, 10 weekdays through the 15th
			name: "mid month",
			date: time.Date(2026, time.August, 15, 12, 0, 0, 0, time.UTC),
			want: 3*25 + 2*10 + 10*50,
		},
		{
			// Full August 2026: 5 Saturdays, 5 Sundays, 21 weekdays
			name: "full month",
			date: time.Date(2026, time.August, 31, 23, 0, 0, 0, time.UTC),
			want: 5*25 + 5*10 + 21*50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CumulativeTarget(tt.date, quotas); got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestCumulativeTargetCustomQuotas(t *testing.T) {
	// Uniform quota degenerates into day-of-month * quota
	quotas := map[time.Weekday]int{
		time.Monday:    7,
		time.Tuesday:   7,
		time.Wednesday: 7,
		time.Thursday:  7,
		time.Friday:    7,
		time.Saturday:  7,
		time.Sunday:    7,
	}

	date := time.Date(2026, time.August, 10, 0, 0, 0, 0, time.UTC)
	if got := CumulativeTarget(date, quotas); got != 70 {
		t.Errorf("expected 70, got %d", got)
	}
}

func TestCumulativeTargetDeterministic(t *testing.T) {
	quotas := config.DefaultQuotas()
	date := time.Date(2026, time.August, 15, 9, 30, 0, 0, time.UTC)

	first := CumulativeTarget(date, quotas)
	second := CumulativeTarget(date, quotas)
	if first != second {
		t.Errorf("expected deterministic result, got %d then %d", first, second)
	}
}
