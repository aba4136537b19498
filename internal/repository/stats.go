package repository

import (
	"fmt"
	"time"

	"github.com/avolkov/sadhana-tracker/internal/domain"
)

const (
	minutesPerDay = 24 * 60
	noonMinutes   = 12 * 60
)

// ComputeSleepStats aggregates sleep timing over three rolling windows
// anchored at now: the last 7 days, the last 30 days, and the last 12 full
// calendar months (the current partial month is excluded from the yearly
// window). Only entries with both bedtime and wakeTime and a non-null
// duration qualify. An empty window yields nil statistics.
func ComputeSleepStats(entries []domain.DailyEntry, now time.Time) domain.SleepStats {
	today := now.Format(domain.DateLayout)
	weekStart := now.AddDate(0, 0, -6).Format(domain.DateLayout)
	monthStart := now.AddDate(0, 0, -29).Format(domain.DateLayout)

	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	yearStart := firstOfMonth.AddDate(0, -12, 0).Format(domain.DateLayout)
	yearEnd := firstOfMonth.Format(domain.DateLayout)

	var week, month, year []domain.DailyEntry
	for _, e := range entries {
		if !qualifies(e) {
			continue
		}
		if e.ID >= weekStart && e.ID <= today {
			week = append(week, e)
		}
		if e.ID >= monthStart && e.ID <= today {
			month = append(month, e)
		}
		if e.ID >= yearStart && e.ID < yearEnd {
			year = append(year, e)
		}
	}

	return domain.SleepStats{
		Week:  windowStats(week),
		Month: windowStats(month),
		Year:  windowStats(year),
	}
}

func qualifies(e domain.DailyEntry) bool {
	return e.Sleep.Bedtime != nil && e.Sleep.WakeTime != nil && e.Sleep.DurationMin != nil
}

func windowStats(entries []domain.DailyEntry) domain.StatWindow {
	if len(entries) == 0 {
		return domain.StatWindow{}
	}

	var bedSum, wakeSum, durSum int
	for _, e := range entries {
		bedSum += shiftedClockMinutes(*e.Sleep.Bedtime)
		wakeSum += shiftedClockMinutes(*e.Sleep.WakeTime)
		durSum += *e.Sleep.DurationMin
	}

	n := len(entries)
	bedtime := formatClock((bedSum / n) % minutesPerDay)
	wakeTime := formatClock((wakeSum / n) % minutesPerDay)
	duration := formatDuration(durSum / n)

	return domain.StatWindow{
		Bedtime:  &bedtime,
		WakeTime: &wakeTime,
		Duration: &duration,
	}
}

// shiftedClockMinutes places a clock time on a 24-48h axis: times before
// noon are treated as "after midnight of the next day" so that bedtimes
// straddling midnight average sensibly (circular mean approximation).
func shiftedClockMinutes(timestamp string) int {
	t, err := time.Parse(domain.CivilTimeLayout, timestamp)
	if err != nil {
		return 0
	}
	minutes := t.Hour()*60 + t.Minute()
	if minutes < noonMinutes {
		minutes += minutesPerDay
	}
	return minutes
}

func formatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

func formatDuration(minutes int) string {
	return fmt.Sprintf("%d:%02d", minutes/60, minutes%60)
}
