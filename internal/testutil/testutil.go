package testutil

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/avolkov/sadhana-tracker/internal/config"
	"github.com/avolkov/sadhana-tracker/internal/store"
)

// BusinessOffset is the fixed business-timezone offset used by tests.
const BusinessOffset = 3 * time.Hour

// NewTestStore opens a fresh migrated store in a per-test temp directory.
func NewTestStore(t *testing.T) *store.Store {
	t.Helper()

	path := filepath.Join(t.TempDir(), "sadhana.db")
	s, err := store.Open(path, BusinessOffset)
	if err != nil {
		t.Fatalf("failed to open test store: %v", err)
	}
	t.Cleanup(func() {
		s.Close()
	})
	return s
}

// TestConfig returns a config suitable for exercising the server in tests.
func TestConfig(t *testing.T) *config.Config {
	t.Helper()

	return &config.Config{
		DBPath:                 filepath.Join(t.TempDir(), "client.db"),
		BusinessUTCOffsetHours: 3,
		JWTSecret:              "test-secret",
		JWTExpirationMinutes:   15,
		RefreshTTLHours:        168,
	}
}
