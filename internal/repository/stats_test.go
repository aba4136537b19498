package repository_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avolkov/sadhana-tracker/internal/domain"
	"github.com/avolkov/sadhana-tracker/internal/repository"
	"github.com/avolkov/sadhana-tracker/internal/testutil"
)

func TestComputeSleepStatsWindows(t *testing.T) {
	now := time.Date(2025, time.May, 15, 12, 0, 0, 0, time.UTC)

	entries := []domain.DailyEntry{
		// Inside the weekly window.
		testutil.NewEntryBuilder("2025-05-14").WithSleep("2025-05-13 23:00", "2025-05-14 07:00", 0).Build(),
		testutil.NewEntryBuilder("2025-05-15").WithSleep("2025-05-15 01:00", "2025-05-15 08:30", 30).Build(),
		// Inside the monthly window only.
		testutil.NewEntryBuilder("2025-04-20").WithSleep("2025-04-19 22:00", "2025-04-20 06:00", 0).Build(),
		// Inside the yearly window only.
		testutil.NewEntryBuilder("2025-02-10").WithSleep("2025-02-09 23:30", "2025-02-10 06:30", 0).Build(),
		// Incomplete entry, never counted.
		{ID: "2025-05-13", Date: "2025-05-13", Sleep: domain.SleepData{Bedtime: strPtr("2025-05-12 23:00")}},
		// Older than every window.
		testutil.NewEntryBuilder("2024-04-30").WithSleep("2024-04-29 23:00", "2024-04-30 07:00", 0).Build(),
	}

	stats := repository.ComputeSleepStats(entries, now)

	require.NotNil(t, stats.Week.Bedtime)
	assert.Equal(t, "00:00", *stats.Week.Bedtime)
	assert.Equal(t, "07:45", *stats.Week.WakeTime)
	assert.Equal(t, "8:00", *stats.Week.Duration)

	// Month averages the two weekly entries plus the April 20 one.
	require.NotNil(t, stats.Month.Bedtime)
	assert.Equal(t, "23:20", *stats.Month.Bedtime)
	assert.Equal(t, "07:10", *stats.Month.WakeTime)
	assert.Equal(t, "8:00", *stats.Month.Duration)

	// Year covers [2024-05-01, 2025-05-01): the April 20 and February 10
	// entries qualify, the May ones belong to the current partial month.
	require.NotNil(t, stats.Year.Bedtime)
	assert.Equal(t, "22:45", *stats.Year.Bedtime)
	assert.Equal(t, "06:15", *stats.Year.WakeTime)
	assert.Equal(t, "7:30", *stats.Year.Duration)
}

func TestComputeSleepStatsEmptyWindows(t *testing.T) {
	now := time.Date(2025, time.May, 15, 12, 0, 0, 0, time.UTC)

	entries := []domain.DailyEntry{
		testutil.NewEntryBuilder("2023-01-01").WithSleep("2022-12-31 23:00", "2023-01-01 07:00", 0).Build(),
	}

	stats := repository.ComputeSleepStats(entries, now)

	assert.Nil(t, stats.Week.Bedtime)
	assert.Nil(t, stats.Week.WakeTime)
	assert.Nil(t, stats.Week.Duration)
	assert.Nil(t, stats.Month.Bedtime)
	assert.Nil(t, stats.Year.Bedtime)
}

func TestComputeSleepStatsPartialWindows(t *testing.T) {
	now := time.Date(2025, time.May, 15, 12, 0, 0, 0, time.UTC)

	// One entry two weeks back: outside the week, inside the month,
	// outside the year (current partial month's predecessor is April;
	// May 1 belongs to the excluded partial month).
	entries := []domain.DailyEntry{
		testutil.NewEntryBuilder("2025-05-01").WithSleep("2025-04-30 23:00", "2025-05-01 07:00", 0).Build(),
	}

	stats := repository.ComputeSleepStats(entries, now)

	assert.Nil(t, stats.Week.Bedtime)
	require.NotNil(t, stats.Month.Bedtime)
	assert.Equal(t, "23:00", *stats.Month.Bedtime)
	assert.Equal(t, "07:00", *stats.Month.WakeTime)
	assert.Equal(t, "8:00", *stats.Month.Duration)
	assert.Nil(t, stats.Year.Bedtime)
}

func TestComputeSleepStatsMidnightStraddle(t *testing.T) {
	now := time.Date(2025, time.May, 15, 12, 0, 0, 0, time.UTC)

	// 23:00 and 01:00 bedtimes must average to midnight, not noon.
	entries := []domain.DailyEntry{
		testutil.NewEntryBuilder("2025-05-14").WithSleep("2025-05-13 23:00", "2025-05-14 07:00", 0).Build(),
		testutil.NewEntryBuilder("2025-05-15").WithSleep("2025-05-15 01:00", "2025-05-15 09:00", 0).Build(),
	}

	stats := repository.ComputeSleepStats(entries, now)

	require.NotNil(t, stats.Week.Bedtime)
	assert.Equal(t, "00:00", *stats.Week.Bedtime)
	assert.Equal(t, "08:00", *stats.Week.WakeTime)
}

func strPtr(s string) *string { return &s }
