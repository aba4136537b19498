package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avolkov/sadhana-tracker/internal/domain"
	"github.com/avolkov/sadhana-tracker/internal/testutil"
)

func newTestHabitRepo(t *testing.T) (*habitRepository, *recordRepository) {
	t.Helper()

	st := testutil.NewTestStore(t)
	clock := time.Date(2025, time.May, 2, 12, 0, 0, 0, time.UTC)
	habits := &habitRepository{
		db: st.DB(),
		now: func() time.Time {
			clock = clock.Add(time.Second)
			return clock
		},
	}
	records := &recordRepository{
		db:     st.DB(),
		offset: testutil.BusinessOffset,
		now:    time.Now,
	}
	return habits, records
}

func TestHabitAdd(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestHabitRepo(t)

	habit, err := repo.Add(ctx, "Зарядка по утрам")
	require.NoError(t, err)
	assert.Equal(t, "зарядка-по-утрам", habit.Key)
	assert.Equal(t, "Зарядка по утрам", habit.Label)

	// A label mapping to the same key returns the existing definition.
	again, err := repo.Add(ctx, "  Зарядка   по утрам!  ")
	require.NoError(t, err)
	assert.Equal(t, habit.Key, again.Key)
	assert.Equal(t, "Зарядка по утрам", again.Label)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestHabitAddEmptyLabel(t *testing.T) {
	repo, _ := newTestHabitRepo(t)

	_, err := repo.Add(context.Background(), "   ")
	assert.ErrorIs(t, err, domain.ErrEmptyLabel)
}

func TestHabitRename(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestHabitRepo(t)

	habit, err := repo.Add(ctx, "Workout")
	require.NoError(t, err)

	renamed, err := repo.Rename(ctx, habit.Key, "Morning Workout")
	require.NoError(t, err)
	// The key never changes, so day checks keep resolving.
	assert.Equal(t, "workout", renamed.Key)
	assert.Equal(t, "Morning Workout", renamed.Label)

	_, err = repo.Rename(ctx, "missing", "Whatever")
	assert.ErrorIs(t, err, domain.ErrHabitNotFound)

	_, err = repo.Rename(ctx, habit.Key, " ")
	assert.ErrorIs(t, err, domain.ErrEmptyLabel)
}

func TestHabitDeleteLeavesDayChecks(t *testing.T) {
	ctx := context.Background()
	repo, records := newTestHabitRepo(t)

	habit, err := repo.Add(ctx, "Workout")
	require.NoError(t, err)
	require.NoError(t, records.UpdateHabitForDay(ctx, "2025-05-02", habit.Key, true))

	require.NoError(t, repo.Delete(ctx, habit.Key))

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 0)

	// The per-day check row survives as an orphan.
	entry, err := records.GetByDate(ctx, "2025-05-02")
	require.NoError(t, err)
	require.Len(t, entry.Habits, 1)
	assert.Equal(t, habit.Key, entry.Habits[0].Key)
}

func TestHabitGetAllOrder(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestHabitRepo(t)

	for _, label := range []string{"Workout", "Meditation", "Reading"} {
		_, err := repo.Add(ctx, label)
		require.NoError(t, err)
	}

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "workout", all[0].Key)
	assert.Equal(t, "meditation", all[1].Key)
	assert.Equal(t, "reading", all[2].Key)
}
