package sqlite

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/avolkov/sadhana-tracker/internal/domain"
	"github.com/avolkov/sadhana-tracker/internal/repository"
)

type habitRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewHabitRepository(db *gorm.DB) repository.HabitRepository {
	return &habitRepository{db: db, now: time.Now}
}

func (r *habitRepository) GetAll(ctx context.Context) ([]domain.HabitDefinition, error) {
	var habits []domain.HabitDefinition
	if err := r.db.WithContext(ctx).Order("created_at").Find(&habits).Error; err != nil {
		return nil, err
	}
	return habits, nil
}

// Add creates a habit definition with a key derived from the label. Adding
// a label that maps to an existing key returns the existing definition
// unchanged.
func (r *habitRepository) Add(ctx context.Context, label string) (*domain.HabitDefinition, error) {
	if strings.TrimSpace(label) == "" {
		return nil, domain.ErrEmptyLabel
	}
	key := domain.HabitKey(label)

	var existing domain.HabitDefinition
	err := r.db.WithContext(ctx).First(&existing, "key = ?", key).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	habit := domain.HabitDefinition{
		Key:       key,
		Label:     label,
		CreatedAt: r.now().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&habit).Error; err != nil {
		return nil, err
	}
	return &habit, nil
}

// Rename changes only the display label; the key stays stable so per-day
// checks keep pointing at the same habit.
func (r *habitRepository) Rename(ctx context.Context, key, label string) (*domain.HabitDefinition, error) {
	if strings.TrimSpace(label) == "" {
		return nil, domain.ErrEmptyLabel
	}

	var habit domain.HabitDefinition
	err := r.db.WithContext(ctx).First(&habit, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrHabitNotFound
	}
	if err != nil {
		return nil, err
	}

	habit.Label = label
	if err := r.db.WithContext(ctx).Save(&habit).Error; err != nil {
		return nil, err
	}
	return &habit, nil
}

// Delete removes the definition by key. Per-day check rows referencing the
// key are deliberately left in place; consumers ignore keys with no
// definition.
func (r *habitRepository) Delete(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).Delete(&domain.HabitDefinition{}, "key = ?", key).Error
}
