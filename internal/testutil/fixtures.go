package testutil

import (
	"gorm.io/datatypes"

	"github.com/avolkov/sadhana-tracker/internal/domain"
)

// EntryBuilder assembles DailyEntry fixtures.
type EntryBuilder struct {
	entry domain.DailyEntry
}

func NewEntryBuilder(date string) *EntryBuilder {
	return &EntryBuilder{entry: domain.NewDailyEntry(date)}
}

func (b *EntryBuilder) WithSleep(bedtime, wakeTime string, napMin int) *EntryBuilder {
	duration := domain.SleepDurationMin(&bedtime, &wakeTime, &napMin)
	b.entry.Sleep = domain.SleepData{
		Bedtime:        &bedtime,
		WakeTime:       &wakeTime,
		NapDurationMin: &napMin,
		DurationMin:    &duration,
	}
	return b
}

func (b *EntryBuilder) WithHabit(key string, value bool) *EntryBuilder {
	b.entry.Habits = append(b.entry.Habits, domain.HabitCheck{Key: key, Value: value})
	return b
}

func (b *EntryBuilder) Build() domain.DailyEntry {
	if b.entry.Habits == nil {
		b.entry.Habits = datatypes.JSONSlice[domain.HabitCheck]{}
	}
	return b.entry
}
