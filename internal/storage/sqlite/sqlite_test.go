package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/mmynk/invoicer/internal/models"
	"github.com/mmynk/invoicer/internal/storage"
	"github.com/mmynk/invoicer/internal/storage/storagetest"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	return store
}

func TestSQLiteStore(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Store {
		return newTestStore(t)
	})
}

func TestCounterSurvivesReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "reopen.db")
	ctx := context.Background()

	store, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, err := store.NextInvoiceNumber(ctx, models.LocalAccountID); err != nil {
			t.Fatalf("NextInvoiceNumber failed: %v", err)
		}
	}
	store.Close()

	store, err = New(dbPath)
	if err != nil {
		t.Fatalf("Failed to reopen store: %v", err)
	}
	defer store.Close()

	n, err := store.NextInvoiceNumber(ctx, models.LocalAccountID)
	if err != nil {
		t.Fatalf("NextInvoiceNumber failed: %v", err)
	}
	if n != 1003 {
		t.Errorf("number after reopen = %d, want 1003", n)
	}
}

func TestIssuedNumbersAreUnique(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()
	ctx := context.Background()

	first := &models.Invoice{Number: 1000, ClientName: "A"}
	if err := store.AddInvoice(ctx, "acct", first); err != nil {
		t.Fatalf("AddInvoice failed: %v", err)
	}

	dup := &models.Invoice{Number: 1000, ClientName: "B"}
	if err := store.AddInvoice(ctx, "acct", dup); err == nil {
		t.Error("expected a second invoice with number 1000 to be rejected")
	}

	// Drafts all share the sentinel.
	for i := 0; i < 2; i++ {
		d := &models.Invoice{IsDraft: true, Number: models.DraftNumber, ClientName: "Draft"}
		if err := store.AddInvoice(ctx, "acct", d); err != nil {
			t.Fatalf("AddInvoice(draft %d) failed: %v", i, err)
		}
	}
}
