package firestore

import (
	"context"
	"os"
	"testing"

	"github.com/mmynk/invoicer/internal/storage"
	"github.com/mmynk/invoicer/internal/storage/storagetest"
)

// TestFirestoreStore runs the conformance suite against the Firestore
// emulator. Start it with `gcloud emulators firestore start` and export
// FIRESTORE_EMULATOR_HOST to enable this test.
func TestFirestoreStore(t *testing.T) {
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}

	storagetest.Run(t, func(t *testing.T) storage.Store {
		store, err := New(context.Background(), "invoicer-test")
		if err != nil {
			t.Fatalf("Failed to create store: %v", err)
		}
		return store
	})
}
