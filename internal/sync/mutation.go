package sync

import (
	"gorm.io/datatypes"

	"github.com/avolkov/sadhana-tracker/internal/domain"
)

// A Mutation computes the expected effect of a write on the cached entry
// collection. Apply is pure: it never modifies its input and uses the same
// derivation rules as the repository, so the optimistic view and the
// eventual authoritative view agree when the write is uncontested.
type Mutation interface {
	Apply(entries []domain.DailyEntry) []domain.DailyEntry
}

// SleepUpdated merges new sleep fields into the date's entry, preserving
// the existing derived duration (the refetch brings the recomputed one)
// and the habit list.
type SleepUpdated struct {
	Date  string
	Sleep domain.SleepInput
}

func (m SleepUpdated) Apply(entries []domain.DailyEntry) []domain.DailyEntry {
	next := cloneEntries(entries)
	for i, e := range next {
		if e.ID != m.Date {
			continue
		}
		next[i].Sleep = domain.SleepData{
			Bedtime:        m.Sleep.Bedtime,
			WakeTime:       m.Sleep.WakeTime,
			NapDurationMin: m.Sleep.NapDurationMin,
			DurationMin:    e.Sleep.DurationMin,
		}
		return next
	}

	entry := domain.NewDailyEntry(m.Date)
	entry.Sleep = domain.SleepData{
		Bedtime:        m.Sleep.Bedtime,
		WakeTime:       m.Sleep.WakeTime,
		NapDurationMin: m.Sleep.NapDurationMin,
	}
	return append(next, entry)
}

// HabitToggled upserts the habit check for the date, synthesizing a
// complete entry (null sleep, single-item habit list) when none exists so
// intermediate consumers never see a partial shape.
type HabitToggled struct {
	Date  string
	Key   string
	Value bool
}

func (m HabitToggled) Apply(entries []domain.DailyEntry) []domain.DailyEntry {
	next := cloneEntries(entries)
	for i, e := range next {
		if e.ID != m.Date {
			continue
		}
		for j, h := range e.Habits {
			if h.Key == m.Key {
				next[i].Habits[j].Value = m.Value
				return next
			}
		}
		next[i].Habits = append(next[i].Habits, domain.HabitCheck{Key: m.Key, Value: m.Value})
		return next
	}

	entry := domain.NewDailyEntry(m.Date)
	entry.Habits = datatypes.JSONSlice[domain.HabitCheck]{{Key: m.Key, Value: m.Value}}
	return append(next, entry)
}

// HabitRemoved filters the habit check out of the date's entry; an absent
// entry leaves the collection unchanged.
type HabitRemoved struct {
	Date string
	Key  string
}

func (m HabitRemoved) Apply(entries []domain.DailyEntry) []domain.DailyEntry {
	next := cloneEntries(entries)
	for i, e := range next {
		if e.ID != m.Date {
			continue
		}
		habits := make(datatypes.JSONSlice[domain.HabitCheck], 0, len(e.Habits))
		for _, h := range e.Habits {
			if h.Key != m.Key {
				habits = append(habits, h)
			}
		}
		next[i].Habits = habits
		return next
	}
	return next
}

// HabitState reports the cached mark for (date, key): value and whether a
// row exists. The tri-state toggle cycle (unmarked -> true -> false ->
// unmarked) is decided from this.
func HabitState(entries []domain.DailyEntry, date, key string) (bool, bool) {
	for _, e := range entries {
		if e.ID == date {
			return e.HabitValue(key)
		}
	}
	return false, false
}

func cloneEntries(entries []domain.DailyEntry) []domain.DailyEntry {
	next := make([]domain.DailyEntry, len(entries))
	for i, e := range entries {
		next[i] = e
		if e.Habits != nil {
			habits := make(datatypes.JSONSlice[domain.HabitCheck], len(e.Habits))
			copy(habits, e.Habits)
			next[i].Habits = habits
		}
	}
	return next
}
