package sqlite

import (
	"context"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/avolkov/sadhana-tracker/internal/domain"
	"github.com/avolkov/sadhana-tracker/internal/repository"
)

type recordRepository struct {
	db     *gorm.DB
	offset time.Duration
	now    func() time.Time
}

func NewRecordRepository(db *gorm.DB, businessOffset time.Duration) repository.RecordRepository {
	return &recordRepository{db: db, offset: businessOffset, now: time.Now}
}

func (r *recordRepository) GetAll(ctx context.Context) ([]domain.DailyEntry, error) {
	var entries []domain.DailyEntry
	if err := r.db.WithContext(ctx).Order("id").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *recordRepository) GetByDate(ctx context.Context, date string) (*domain.DailyEntry, error) {
	var entry domain.DailyEntry
	err := r.db.WithContext(ctx).First(&entry, "id = ?", date).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrEntryNotFound
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// UpdateSleepForDay recomputes the derived duration and upserts the full
// entry, preserving any existing habit list. Bedtime/wakeTime ordering is
// not validated: a negative raw difference is read as crossing midnight.
func (r *recordRepository) UpdateSleepForDay(ctx context.Context, date string, input domain.SleepInput) error {
	entry := domain.NewDailyEntry(date)
	existing, err := r.GetByDate(ctx, date)
	if err != nil && !errors.Is(err, domain.ErrEntryNotFound) {
		return err
	}
	if existing != nil {
		entry.Habits = existing.Habits
	}

	duration := domain.SleepDurationMin(input.Bedtime, input.WakeTime, input.NapDurationMin)
	entry.Sleep = domain.SleepData{
		Bedtime:        input.Bedtime,
		WakeTime:       input.WakeTime,
		NapDurationMin: input.NapDurationMin,
		DurationMin:    &duration,
	}

	return r.db.WithContext(ctx).Save(&entry).Error
}

// UpdateHabitForDay upserts the boolean check for habitKey within the
// date's entry, creating the entry (null sleep fields) if absent. At most
// one row per (date, habitKey) ever exists.
func (r *recordRepository) UpdateHabitForDay(ctx context.Context, date, habitKey string, value bool) error {
	entry := domain.NewDailyEntry(date)
	existing, err := r.GetByDate(ctx, date)
	if err != nil && !errors.Is(err, domain.ErrEntryNotFound) {
		return err
	}
	if existing != nil {
		entry = *existing
	}

	updated := false
	for i, h := range entry.Habits {
		if h.Key == habitKey {
			entry.Habits[i].Value = value
			updated = true
			break
		}
	}
	if !updated {
		entry.Habits = append(entry.Habits, domain.HabitCheck{Key: habitKey, Value: value})
	}

	return r.db.WithContext(ctx).Save(&entry).Error
}

// RemoveHabitForDay deletes the check row for habitKey; a missing entry is
// a silent no-op.
func (r *recordRepository) RemoveHabitForDay(ctx context.Context, date, habitKey string) error {
	existing, err := r.GetByDate(ctx, date)
	if errors.Is(err, domain.ErrEntryNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	habits := make(datatypes.JSONSlice[domain.HabitCheck], 0, len(existing.Habits))
	for _, h := range existing.Habits {
		if h.Key != habitKey {
			habits = append(habits, h)
		}
	}
	existing.Habits = habits

	return r.db.WithContext(ctx).Save(existing).Error
}

// ReplaceAll swaps the whole table for the authoritative collection, used
// when mirroring a reconciled remote fetch into the local store.
func (r *recordRepository) ReplaceAll(ctx context.Context, entries []domain.DailyEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`DELETE FROM sleep_records`).Error; err != nil {
			return err
		}
		if len(entries) == 0 {
			return nil
		}
		return tx.CreateInBatches(entries, 100).Error
	})
}

// HasYesterdaySleep reports whether yesterday's entry has both bedtime and
// wakeTime. "Yesterday" is computed in the fixed business timezone, the
// same convention the date keys use.
func (r *recordRepository) HasYesterdaySleep(ctx context.Context) (bool, error) {
	yesterday := r.now().UTC().Add(r.offset).AddDate(0, 0, -1).Format(domain.DateLayout)
	entry, err := r.GetByDate(ctx, yesterday)
	if errors.Is(err, domain.ErrEntryNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return entry.Sleep.Bedtime != nil && entry.Sleep.WakeTime != nil, nil
}

func (r *recordRepository) SleepStats(ctx context.Context) (*domain.SleepStats, error) {
	entries, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	stats := repository.ComputeSleepStats(entries, r.now().UTC().Add(r.offset))
	return &stats, nil
}
