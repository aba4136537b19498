package repository

import (
	"context"

	"github.com/avolkov/sadhana-tracker/internal/domain"
)

type RecordRepository interface {
	GetAll(ctx context.Context) ([]domain.DailyEntry, error)
	GetByDate(ctx context.Context, date string) (*domain.DailyEntry, error)
	UpdateSleepForDay(ctx context.Context, date string, input domain.SleepInput) error
	UpdateHabitForDay(ctx context.Context, date, habitKey string, value bool) error
	RemoveHabitForDay(ctx context.Context, date, habitKey string) error
	ReplaceAll(ctx context.Context, entries []domain.DailyEntry) error
	HasYesterdaySleep(ctx context.Context) (bool, error)
	SleepStats(ctx context.Context) (*domain.SleepStats, error)
}

type HabitRepository interface {
	GetAll(ctx context.Context) ([]domain.HabitDefinition, error)
	Add(ctx context.Context, label string) (*domain.HabitDefinition, error)
	Rename(ctx context.Context, key, label string) (*domain.HabitDefinition, error)
	Delete(ctx context.Context, key string) error
}

type Repositories struct {
	Records RecordRepository
	Habits  HabitRepository
}
