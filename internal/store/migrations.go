package store

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/avolkov/sadhana-tracker/internal/domain"
)

// A migration brings the schema from version-1 to version. Each step runs
// exactly once, inside a transaction together with the record of its own
// completion, so a step can neither run twice nor be left half-applied.
type migration struct {
	version int
	name    string
	run     func(tx *gorm.DB, offset time.Duration) error
}

var migrations = []migration{
	{version: 1, name: "initial schema", run: migrateInitialSchema},
	{version: 2, name: "add duration field", run: migrateAddDuration},
	{version: 3, name: "normalize timestamp representation", run: migrateNormalizeTimestamps},
}

func (s *Store) migrate() error {
	if err := s.db.Exec(
		`CREATE TABLE IF NOT EXISTS schema_migrations (
			version    INTEGER PRIMARY KEY,
			name       TEXT NOT NULL,
			applied_at DATETIME NOT NULL
		)`).Error; err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	var current int
	if err := s.db.
		Raw(`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).
		Scan(&current).Error; err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		err := s.db.Transaction(func(tx *gorm.DB) error {
			if err := m.run(tx, s.offset); err != nil {
				return err
			}
			return tx.Exec(
				`INSERT INTO schema_migrations (version, name, applied_at) VALUES (?, ?, ?)`,
				m.version, m.name, time.Now().UTC(),
			).Error
		})
		if err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.version, m.name, err)
		}
	}
	return nil
}

func migrateInitialSchema(tx *gorm.DB, _ time.Duration) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS sleep_records (
			id                     TEXT PRIMARY KEY,
			date                   TEXT NOT NULL,
			sleep_bedtime          TEXT,
			sleep_wake_time        TEXT,
			sleep_nap_duration_min INTEGER,
			habits                 TEXT NOT NULL DEFAULT '[]'
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sleep_records_date ON sleep_records(date)`,
		`CREATE TABLE IF NOT EXISTS habit_definitions (
			key        TEXT PRIMARY KEY,
			label      TEXT NOT NULL,
			created_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
	}
	for _, stmt := range statements {
		if err := tx.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}

type sleepTimingRow struct {
	ID                  string
	SleepBedtime        *string
	SleepWakeTime       *string
	SleepNapDurationMin *int
}

// migrateAddDuration adds the derived duration column and backfills it for
// every existing entry using the same normalization rule as live writes.
func migrateAddDuration(tx *gorm.DB, _ time.Duration) error {
	if err := tx.Exec(`ALTER TABLE sleep_records ADD COLUMN sleep_duration_min INTEGER`).Error; err != nil {
		return err
	}

	var rows []sleepTimingRow
	if err := tx.Table("sleep_records").
		Select("id", "sleep_bedtime", "sleep_wake_time", "sleep_nap_duration_min").
		Find(&rows).Error; err != nil {
		return err
	}

	for _, row := range rows {
		duration := storedDurationMin(row.SleepBedtime, row.SleepWakeTime, row.SleepNapDurationMin)
		if err := tx.Exec(
			`UPDATE sleep_records SET sleep_duration_min = ? WHERE id = ?`,
			duration, row.ID,
		).Error; err != nil {
			return err
		}
	}
	return nil
}

// migrateNormalizeTimestamps rewrites absolute RFC3339 sleep timestamps as
// local-civil-time strings, extracting calendar fields after applying the
// fixed business offset. Values already in civil form are left untouched.
func migrateNormalizeTimestamps(tx *gorm.DB, offset time.Duration) error {
	var rows []sleepTimingRow
	if err := tx.Table("sleep_records").
		Select("id", "sleep_bedtime", "sleep_wake_time").
		Find(&rows).Error; err != nil {
		return err
	}

	for _, row := range rows {
		bedtime, changedBed := normalizeTimestamp(row.SleepBedtime, offset)
		wakeTime, changedWake := normalizeTimestamp(row.SleepWakeTime, offset)
		if !changedBed && !changedWake {
			continue
		}
		if err := tx.Exec(
			`UPDATE sleep_records SET sleep_bedtime = ?, sleep_wake_time = ? WHERE id = ?`,
			bedtime, wakeTime, row.ID,
		).Error; err != nil {
			return err
		}
	}
	return nil
}

func normalizeTimestamp(value *string, offset time.Duration) (*string, bool) {
	if value == nil {
		return nil, false
	}
	t, err := time.Parse(time.RFC3339, *value)
	if err != nil {
		return value, false
	}
	civil := t.UTC().Add(offset).Format(domain.CivilTimeLayout)
	return &civil, true
}

// storedDurationMin mirrors domain.SleepDurationMin but accepts either the
// civil or the legacy RFC3339 timestamp form, since the backfill runs
// before timestamps are normalized.
func storedDurationMin(bedtime, wakeTime *string, napMin *int) int {
	night := 0
	if bedtime != nil && wakeTime != nil {
		bed, okB := parseStoredTime(*bedtime)
		wake, okW := parseStoredTime(*wakeTime)
		if okB && okW {
			diff := int(wake.Sub(bed).Minutes())
			diff %= 24 * 60
			if diff < 0 {
				diff += 24 * 60
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

func parseStoredTime(value string) (time.Time, bool) {
	if t, err := time.Parse(domain.CivilTimeLayout, value); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, true
	}
	return time.Time{}, false
}
