package domain

import (
	"time"

	"gorm.io/datatypes"
)

// CivilTimeLayout is the textual format for stored sleep timestamps.
// Values are local civil time in the business timezone, not UTC.
const CivilTimeLayout = "2006-01-02 15:04"

// DateLayout is the calendar-date key format for daily entries.
const DateLayout = "2006-01-02"

const minutesPerDay = 24 * 60

// HabitCheck is a single habit mark within a day. Absence of a key for a
// date means "unmarked"; only true/false are ever stored.
type HabitCheck struct {
	Key   string `json:"key"`
	Value bool   `json:"value"`
}

// SleepData holds the sleep timing fields of a daily entry. DurationMin is
// derived and recomputed on every sleep write, never set by callers.
type SleepData struct {
	Bedtime        *string `json:"bedtime" gorm:"column:sleep_bedtime"`
	WakeTime       *string `json:"wakeTime" gorm:"column:sleep_wake_time"`
	NapDurationMin *int    `json:"napDuration" gorm:"column:sleep_nap_duration_min"`
	DurationMin    *int    `json:"duration" gorm:"column:sleep_duration_min"`
}

// SleepInput is the caller-settable subset of SleepData.
type SleepInput struct {
	Bedtime        *string `json:"bedtime"`
	WakeTime       *string `json:"wakeTime"`
	NapDurationMin *int    `json:"napDuration"`
}

// DailyEntry is the per-calendar-date aggregate of sleep data and habit
// checks. The ID is the YYYY-MM-DD date the night of sleep ended on.
type DailyEntry struct {
	ID     string                          `json:"id" gorm:"primaryKey"`
	Date   string                          `json:"date" gorm:"index;not null"`
	Sleep  SleepData                       `json:"sleep" gorm:"embedded"`
	Habits datatypes.JSONSlice[HabitCheck] `json:"habits"`
}

func (DailyEntry) TableName() string { return "sleep_records" }

// NewDailyEntry returns a well-formed empty entry for a date: null sleep
// fields and an empty habit list. Intermediate consumers must never see a
// partial shape.
func NewDailyEntry(date string) DailyEntry {
	return DailyEntry{
		ID:     date,
		Date:   date,
		Habits: datatypes.JSONSlice[HabitCheck]{},
	}
}

// HabitValue reports the stored mark for a habit key, and whether one exists.
func (e DailyEntry) HabitValue(key string) (bool, bool) {
	for _, h := range e.Habits {
		if h.Key == key {
			return h.Value, true
		}
	}
	return false, false
}

// SleepDurationMin derives the total sleep duration in minutes. The night
// span is (wakeTime - bedtime) normalized to [0, 1440): a negative raw
// difference means bedtime crossed midnight and gets a day added. Missing
// timestamps contribute a zero night span, missing nap contributes zero nap.
func SleepDurationMin(bedtime, wakeTime *string, napMin *int) int {
	night := 0
	if bedtime != nil && wakeTime != nil {
		bed, errB := time.Parse(CivilTimeLayout, *bedtime)
		wake, errW := time.Parse(CivilTimeLayout, *wakeTime)
		if errB == nil && errW == nil {
			diff := int(wake.Sub(bed).Minutes())
			diff %= minutesPerDay
			if diff < 0 {
				diff += minutesPerDay
			}
			night = diff
		}
	}

	nap := 0
	if napMin != nil {
		nap = *napMin
	}
	return night + nap
}
