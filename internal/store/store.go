package store

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Store is the device-local durable database: the sleep_records and
// habit_definitions tables plus a meta key/value table. Opening a store at
// a higher schema version than previously persisted runs the pending
// migrations, in order, before any query is served.
type Store struct {
	db     *gorm.DB
	offset time.Duration
}

// Open opens (creating if needed) the store at path and brings its schema
// up to the current version. businessOffset is the fixed business-timezone
// offset used by the timestamp-normalization migration. A migration failure
// is fatal: no partially migrated store is ever returned.
func Open(path string, businessOffset time.Duration) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	s := &Store{db: db, offset: businessOffset}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate store: %w", err)
	}
	return s, nil
}

// DB exposes the underlying connection for the repository layer.
func (s *Store) DB() *gorm.DB {
	return s.db
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
