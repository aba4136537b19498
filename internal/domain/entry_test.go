package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/avolkov/sadhana-tracker/internal/domain"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestSleepDurationMin(t *testing.T) {
	tests := []struct {
		name     string
		bedtime  *string
		wakeTime *string
		nap      *int
		want     int
	}{
		{
			name:     "night plus nap",
			bedtime:  strPtr("2025-05-01 23:30"),
			wakeTime: strPtr("2025-05-02 07:20"),
			nap:      intPtr(20),
			want:     490,
		},
		{
			name:     "same-date clock times crossing midnight",
			bedtime:  strPtr("2025-05-02 23:30"),
			wakeTime: strPtr("2025-05-02 07:20"),
			nap:      intPtr(0),
			want:     470,
		},
		{
			name:     "no nap",
			bedtime:  strPtr("2025-05-01 22:00"),
			wakeTime: strPtr("2025-05-02 06:00"),
			nap:      nil,
			want:     480,
		},
		{
			name:     "missing bedtime contributes only nap",
			bedtime:  nil,
			wakeTime: strPtr("2025-05-02 07:20"),
			nap:      intPtr(45),
			want:     45,
		},
		{
			name:     "all missing",
			bedtime:  nil,
			wakeTime: nil,
			nap:      nil,
			want:     0,
		},
		{
			name:     "zero-length night",
			bedtime:  strPtr("2025-05-02 07:20"),
			wakeTime: strPtr("2025-05-02 07:20"),
			nap:      intPtr(0),
			want:     0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := domain.SleepDurationMin(tt.bedtime, tt.wakeTime, tt.nap)
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got, 0)
		})
	}
}

func TestNewDailyEntryShape(t *testing.T) {
	entry := domain.NewDailyEntry("2025-05-02")

	assert.Equal(t, "2025-05-02", entry.ID)
	assert.Equal(t, "2025-05-02", entry.Date)
	assert.Nil(t, entry.Sleep.Bedtime)
	assert.Nil(t, entry.Sleep.WakeTime)
	assert.Nil(t, entry.Sleep.NapDurationMin)
	assert.Nil(t, entry.Sleep.DurationMin)
	assert.NotNil(t, entry.Habits)
	assert.Len(t, entry.Habits, 0)
}
