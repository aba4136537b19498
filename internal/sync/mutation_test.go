package sync_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avolkov/sadhana-tracker/internal/domain"
	syncpkg "github.com/avolkov/sadhana-tracker/internal/sync"
	"github.com/avolkov/sadhana-tracker/internal/testutil"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestSleepUpdatedMergesExistingEntry(t *testing.T) {
	existing := testutil.NewEntryBuilder("2025-05-02").
		WithSleep("2025-05-01 23:30", "2025-05-02 07:20", 20).
		WithHabit("workout", true).
		Build()
	entries := []domain.DailyEntry{existing}

	m := syncpkg.SleepUpdated{
		Date: "2025-05-02",
		Sleep: domain.SleepInput{
			Bedtime:  strPtr("2025-05-01 22:00"),
			WakeTime: strPtr("2025-05-02 06:00"),
		},
	}
	next := m.Apply(entries)

	require.Len(t, next, 1)
	assert.Equal(t, "2025-05-01 22:00", *next[0].Sleep.Bedtime)
	assert.Equal(t, "2025-05-02 06:00", *next[0].Sleep.WakeTime)
	assert.Nil(t, next[0].Sleep.NapDurationMin)
	// The derived duration carries over until the refetch recomputes it.
	require.NotNil(t, next[0].Sleep.DurationMin)
	assert.Equal(t, 490, *next[0].Sleep.DurationMin)
	// The habit list is untouched.
	require.Len(t, next[0].Habits, 1)
	assert.Equal(t, "workout", next[0].Habits[0].Key)

	// The input collection is never modified.
	assert.Equal(t, "2025-05-01 23:30", *entries[0].Sleep.Bedtime)
}

func TestSleepUpdatedSynthesizesEntry(t *testing.T) {
	m := syncpkg.SleepUpdated{
		Date:  "2025-05-03",
		Sleep: domain.SleepInput{Bedtime: strPtr("2025-05-02 23:00"), NapDurationMin: intPtr(15)},
	}
	next := m.Apply(nil)

	require.Len(t, next, 1)
	assert.Equal(t, "2025-05-03", next[0].ID)
	assert.Equal(t, "2025-05-03", next[0].Date)
	assert.Equal(t, "2025-05-02 23:00", *next[0].Sleep.Bedtime)
	assert.Nil(t, next[0].Sleep.WakeTime)
	assert.Equal(t, 15, *next[0].Sleep.NapDurationMin)
	assert.Nil(t, next[0].Sleep.DurationMin)
	assert.NotNil(t, next[0].Habits)
	assert.Len(t, next[0].Habits, 0)
}

func TestHabitToggled(t *testing.T) {
	base := []domain.DailyEntry{
		testutil.NewEntryBuilder("2025-05-02").WithHabit("workout", true).Build(),
	}

	t.Run("flips existing check", func(t *testing.T) {
		next := syncpkg.HabitToggled{Date: "2025-05-02", Key: "workout", Value: false}.Apply(base)
		require.Len(t, next, 1)
		require.Len(t, next[0].Habits, 1)
		assert.False(t, next[0].Habits[0].Value)
		// Original untouched.
		assert.True(t, base[0].Habits[0].Value)
	})

	t.Run("appends new check", func(t *testing.T) {
		next := syncpkg.HabitToggled{Date: "2025-05-02", Key: "meditation", Value: true}.Apply(base)
		require.Len(t, next[0].Habits, 2)
		assert.Equal(t, "meditation", next[0].Habits[1].Key)
		assert.True(t, next[0].Habits[1].Value)
		assert.Len(t, base[0].Habits, 1)
	})

	t.Run("synthesizes complete entry", func(t *testing.T) {
		next := syncpkg.HabitToggled{Date: "2025-05-09", Key: "reading", Value: true}.Apply(base)
		require.Len(t, next, 2)
		added := next[1]
		assert.Equal(t, "2025-05-09", added.ID)
		assert.Nil(t, added.Sleep.Bedtime)
		assert.Nil(t, added.Sleep.DurationMin)
		require.Len(t, added.Habits, 1)
		assert.Equal(t, "reading", added.Habits[0].Key)
	})
}

func TestHabitRemoved(t *testing.T) {
	base := []domain.DailyEntry{
		testutil.NewEntryBuilder("2025-05-02").
			WithHabit("workout", true).
			WithHabit("meditation", false).
			Build(),
	}

	t.Run("filters the check out", func(t *testing.T) {
		next := syncpkg.HabitRemoved{Date: "2025-05-02", Key: "workout"}.Apply(base)
		require.Len(t, next[0].Habits, 1)
		assert.Equal(t, "meditation", next[0].Habits[0].Key)
		assert.Len(t, base[0].Habits, 2)
	})

	t.Run("absent entry leaves collection unchanged", func(t *testing.T) {
		next := syncpkg.HabitRemoved{Date: "2025-05-10", Key: "workout"}.Apply(base)
		assert.Equal(t, base, next)
	})

	t.Run("absent key is a no-op on the entry", func(t *testing.T) {
		next := syncpkg.HabitRemoved{Date: "2025-05-02", Key: "missing"}.Apply(base)
		assert.Len(t, next[0].Habits, 2)
	})
}

func TestHabitState(t *testing.T) {
	entries := []domain.DailyEntry{
		testutil.NewEntryBuilder("2025-05-02").
			WithHabit("workout", true).
			WithHabit("meditation", false).
			Build(),
	}

	value, ok := syncpkg.HabitState(entries, "2025-05-02", "workout")
	assert.True(t, ok)
	assert.True(t, value)

	value, ok = syncpkg.HabitState(entries, "2025-05-02", "meditation")
	assert.True(t, ok)
	assert.False(t, value)

	_, ok = syncpkg.HabitState(entries, "2025-05-02", "reading")
	assert.False(t, ok)

	_, ok = syncpkg.HabitState(entries, "2025-05-09", "workout")
	assert.False(t, ok)
}
