package domain

import (
	"regexp"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// HabitDefinition is the global catalog entry for a trackable habit.
// Per-day checks reference it by Key; deleting a definition leaves any
// existing checks in place (they are simply ignored by consumers).
type HabitDefinition struct {
	Key       string    `json:"key" gorm:"primaryKey"`
	Label     string    `json:"label" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt" gorm:"not null"`
}

func (HabitDefinition) TableName() string { return "habit_definitions" }

var habitKeyStrip = regexp.MustCompile(`[^a-zа-яё0-9-]`)

// HabitKey derives the stable slug key for a habit label. The derivation is
// deterministic: lowercase, trim, whitespace runs to single dashes, strip
// anything outside [a-zа-яё0-9-], then NFKD-decompose and drop combining
// marks. Latin and Cyrillic labels both survive.
func HabitKey(label string) string {
	s := strings.ToLower(strings.TrimSpace(label))
	s = strings.Join(strings.Fields(s), "-")
	s = habitKeyStrip.ReplaceAllString(s, "")
	s = norm.NFKD.String(s)

	var b strings.Builder
	for _, r := range s {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
