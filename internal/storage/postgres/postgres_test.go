package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/mmynk/invoicer/internal/storage"
	"github.com/mmynk/invoicer/internal/storage/storagetest"
)

// TestPostgresStore runs the conformance suite against a real database.
// Set INVOICER_TEST_POSTGRES_URL to enable it.
func TestPostgresStore(t *testing.T) {
	url := os.Getenv("INVOICER_TEST_POSTGRES_URL")
	if url == "" {
		t.Skip("INVOICER_TEST_POSTGRES_URL not set")
	}

	storagetest.Run(t, func(t *testing.T) storage.Store {
		store, err := New(context.Background(), url)
		if err != nil {
			t.Fatalf("Failed to create store: %v", err)
		}
		return store
	})
}

func TestMigrationsOrdered(t *testing.T) {
	seen := make(map[string]bool)
	for i, m := range migrations {
		if seen[m.name] {
			t.Errorf("duplicate migration %s", m.name)
		}
		seen[m.name] = true
		if i > 0 && migrations[i-1].name >= m.name {
			t.Errorf("migration %s is out of order", m.name)
		}
		if len(checksum(m.sql)) != 64 {
			t.Errorf("checksum of %s has length %d, want 64", m.name, len(checksum(m.sql)))
		}
	}
}
