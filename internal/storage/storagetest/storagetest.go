// Package storagetest is a conformance suite run against every
// storage.Store implementation.
package storagetest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/mmynk/invoicer/internal/models"
	"github.com/mmynk/invoicer/internal/storage"
)

// Factory returns a fresh, empty store. The suite closes it.
type Factory func(t *testing.T) storage.Store

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Run executes the full suite. Each subtest gets its own store so account
// IDs never collide across runs against a shared backend.
func Run(t *testing.T, newStore Factory) {
	tests := []struct {
		name string
		fn   func(t *testing.T, s storage.Store, acct string)
	}{
		{"NextInvoiceNumber is sequential from 1000", testSerialNumbering},
		{"NextInvoiceNumber is distinct under concurrency", testConcurrentNumbering},
		{"NextInvoiceNumber is per account", testNumberingPerAccount},
		{"empty account is rejected", testNotAuthenticated},
		{"invoice round trip", testInvoiceRoundTrip},
		{"invoices are tenant scoped", testTenantIsolation},
		{"delete missing invoice", testDeleteMissing},
		{"expense round trip", testExpenseRoundTrip},
		{"client upsert dedups by email", testClientUpsert},
		{"profile absent until saved", testProfile},
		{"gmail token lifecycle", testGmailToken},
		{"users", testUsers},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStore(t)
			defer s.Close()
			acct := fmt.Sprintf("acct-%d", time.Now().UnixNano())
			tt.fn(t, s, acct)
		})
	}
}

func testSerialNumbering(t *testing.T, s storage.Store, acct string) {
	ctx := context.Background()
	prev := int64(0)
	for i := 0; i < 10; i++ {
		n, err := s.NextInvoiceNumber(ctx, acct)
		if err != nil {
			t.Fatalf("NextInvoiceNumber failed: %v", err)
		}
		if i == 0 && n != storage.FirstInvoiceNumber {
			t.Fatalf("first number = %d, want %d", n, storage.FirstInvoiceNumber)
		}
		if i > 0 && n != prev+1 {
			t.Fatalf("number %d = %d, want %d", i, n, prev+1)
		}
		prev = n
	}
}

func testConcurrentNumbering(t *testing.T, s storage.Store, acct string) {
	ctx := context.Background()
	const workers = 8
	const perWorker = 5

	var wg sync.WaitGroup
	results := make(chan int64, workers*perWorker)
	errs := make(chan error, workers*perWorker)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				n, err := s.NextInvoiceNumber(ctx, acct)
				if err != nil {
					errs <- err
					return
				}
				results <- n
			}
		}()
	}
	wg.Wait()
	close(results)
	close(errs)

	for err := range errs {
		t.Fatalf("NextInvoiceNumber failed: %v", err)
	}

	seen := make(map[int64]bool)
	for n := range results {
		if seen[n] {
			t.Fatalf("number %d issued twice", n)
		}
		seen[n] = true
	}
	if len(seen) != workers*perWorker {
		t.Fatalf("got %d numbers, want %d", len(seen), workers*perWorker)
	}
	for n := storage.FirstInvoiceNumber; n < storage.FirstInvoiceNumber+workers*perWorker; n++ {
		if !seen[n] {
			t.Errorf("number %d was skipped", n)
		}
	}
}

func testNumberingPerAccount(t *testing.T, s storage.Store, acct string) {
	ctx := context.Background()
	s.NextInvoiceNumber(ctx, acct)
	s.NextInvoiceNumber(ctx, acct)

	n, err := s.NextInvoiceNumber(ctx, acct+"-other")
	if err != nil {
		t.Fatalf("NextInvoiceNumber failed: %v", err)
	}
	if n != storage.FirstInvoiceNumber {
		t.Errorf("other account first number = %d, want %d", n, storage.FirstInvoiceNumber)
	}
}

func testNotAuthenticated(t *testing.T, s storage.Store, _ string) {
	ctx := context.Background()
	if _, err := s.NextInvoiceNumber(ctx, ""); !errors.Is(err, storage.ErrNotAuthenticated) {
		t.Errorf("NextInvoiceNumber error = %v, want ErrNotAuthenticated", err)
	}
	if _, err := s.ListInvoices(ctx, ""); !errors.Is(err, storage.ErrNotAuthenticated) {
		t.Errorf("ListInvoices error = %v, want ErrNotAuthenticated", err)
	}
	if err := s.AddExpense(ctx, "", &models.Expense{}); !errors.Is(err, storage.ErrNotAuthenticated) {
		t.Errorf("AddExpense error = %v, want ErrNotAuthenticated", err)
	}
	if _, err := s.GetProfile(ctx, ""); !errors.Is(err, storage.ErrNotAuthenticated) {
		t.Errorf("GetProfile error = %v, want ErrNotAuthenticated", err)
	}
}

func sampleInvoice() *models.Invoice {
	return &models.Invoice{
		SchemaVersion: models.InvoiceSchemaVersion,
		Number:        1000,
		ClientName:    "Émilie Roy",
		ClientEmail:   "emilie@example.com",
		Date:          day(2024, 1, 1),
		DueDate:       day(2024, 1, 31),
		Lines: []models.LineItem{
			{ID: "line-1", Date: day(2024, 1, 1), Description: "Private lesson", Amount: 10},
			{ID: "line-2", Date: day(2024, 1, 2), Amount: 20},
		},
		Subtotal: 30,
		Tax1:     1.5,
		Tax2:     2.9925,
		Total:    34.4925,
		Tax: models.TaxSnapshot{
			Enabled: true, Rate1: 5, Rate2: 9.975,
			Label1: "GST", Label2: "QST",
			Number1: "123456789RT0001", Number2: "1234567890TQ0001",
		},
	}
}

func testInvoiceRoundTrip(t *testing.T, s storage.Store, acct string) {
	ctx := context.Background()
	inv := sampleInvoice()
	if err := s.AddInvoice(ctx, acct, inv); err != nil {
		t.Fatalf("AddInvoice failed: %v", err)
	}
	if inv.ID == "" {
		t.Fatal("expected ID to be assigned")
	}
	if inv.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be assigned")
	}

	got, err := s.GetInvoice(ctx, acct, inv.ID)
	if err != nil {
		t.Fatalf("GetInvoice failed: %v", err)
	}
	if got.Number != 1000 || got.ClientName != "Émilie Roy" || got.ClientEmail != "emilie@example.com" {
		t.Errorf("header mismatch: %+v", got)
	}
	if !got.Date.Equal(inv.Date) || !got.DueDate.Equal(inv.DueDate) {
		t.Errorf("dates = %v/%v, want %v/%v", got.Date, got.DueDate, inv.Date, inv.DueDate)
	}
	if got.Total != 34.4925 || got.Tax2 != 2.9925 {
		t.Errorf("totals not preserved exactly: total=%v tax2=%v", got.Total, got.Tax2)
	}
	if got.Tax != inv.Tax {
		t.Errorf("tax snapshot = %+v, want %+v", got.Tax, inv.Tax)
	}
	if len(got.Lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(got.Lines))
	}
	if got.Lines[0].Description != "Private lesson" || !got.Lines[1].Date.Equal(day(2024, 1, 2)) || got.Lines[1].Amount != 20 {
		t.Errorf("lines mismatch: %+v", got.Lines)
	}
	if got.AccountID != acct {
		t.Errorf("AccountID = %q, want %q", got.AccountID, acct)
	}

	draft := sampleInvoice()
	draft.Number = models.DraftNumber
	draft.IsDraft = true
	if err := s.AddInvoice(ctx, acct, draft); err != nil {
		t.Fatalf("AddInvoice(draft) failed: %v", err)
	}

	list, err := s.ListInvoices(ctx, acct)
	if err != nil {
		t.Fatalf("ListInvoices failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("got %d invoices, want 2", len(list))
	}

	if err := s.DeleteInvoice(ctx, acct, inv.ID); err != nil {
		t.Fatalf("DeleteInvoice failed: %v", err)
	}
	if _, err := s.GetInvoice(ctx, acct, inv.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetInvoice after delete error = %v, want ErrNotFound", err)
	}
}

func testTenantIsolation(t *testing.T, s storage.Store, acct string) {
	ctx := context.Background()
	inv := sampleInvoice()
	if err := s.AddInvoice(ctx, acct, inv); err != nil {
		t.Fatalf("AddInvoice failed: %v", err)
	}

	other := acct + "-other"
	list, err := s.ListInvoices(ctx, other)
	if err != nil {
		t.Fatalf("ListInvoices failed: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("other account sees %d invoices, want 0", len(list))
	}
	if _, err := s.GetInvoice(ctx, other, inv.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("cross-account GetInvoice error = %v, want ErrNotFound", err)
	}
	if err := s.DeleteInvoice(ctx, other, inv.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("cross-account DeleteInvoice error = %v, want ErrNotFound", err)
	}
}

func testDeleteMissing(t *testing.T, s storage.Store, acct string) {
	ctx := context.Background()
	if err := s.DeleteInvoice(ctx, acct, "does-not-exist"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("DeleteInvoice error = %v, want ErrNotFound", err)
	}
	if err := s.DeleteExpense(ctx, acct, "does-not-exist"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("DeleteExpense error = %v, want ErrNotFound", err)
	}
	if err := s.DeleteClient(ctx, acct, "does-not-exist"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("DeleteClient error = %v, want ErrNotFound", err)
	}
}

func testExpenseRoundTrip(t *testing.T, s storage.Store, acct string) {
	ctx := context.Background()
	withPhoto := &models.Expense{
		Date:        day(2024, 3, 2),
		Description: "Yoga mats",
		Amount:      120.5,
		Category:    models.CategoryEquipment,
		Photo:       []byte{0xff, 0xd8, 0xff, 0xe0},
		PhotoType:   "image/jpeg",
	}
	plain := &models.Expense{
		Date:        day(2024, 3, 3),
		Description: "Gas",
		Amount:      45,
		Category:    models.CategoryTravel,
	}
	for _, e := range []*models.Expense{withPhoto, plain} {
		if err := s.AddExpense(ctx, acct, e); err != nil {
			t.Fatalf("AddExpense failed: %v", err)
		}
		if e.ID == "" {
			t.Fatal("expected ID to be assigned")
		}
	}

	list, err := s.ListExpenses(ctx, acct)
	if err != nil {
		t.Fatalf("ListExpenses failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("got %d expenses, want 2", len(list))
	}
	byID := map[string]*models.Expense{}
	for _, e := range list {
		byID[e.ID] = e
	}
	got := byID[withPhoto.ID]
	if got == nil || !got.HasPhoto() || got.PhotoType != "image/jpeg" || got.Category != models.CategoryEquipment {
		t.Errorf("expense with photo mismatch: %+v", got)
	}
	if p := byID[plain.ID]; p == nil || p.HasPhoto() || !p.Date.Equal(day(2024, 3, 3)) {
		t.Errorf("plain expense mismatch: %+v", p)
	}

	if err := s.DeleteExpense(ctx, acct, plain.ID); err != nil {
		t.Fatalf("DeleteExpense failed: %v", err)
	}
	list, _ = s.ListExpenses(ctx, acct)
	if len(list) != 1 {
		t.Errorf("got %d expenses after delete, want 1", len(list))
	}
}

func testClientUpsert(t *testing.T, s storage.Store, acct string) {
	ctx := context.Background()

	first := &models.Client{Name: "Zoé Tremblay", Email: "zoe@example.com"}
	created, err := s.UpsertClient(ctx, acct, first)
	if err != nil {
		t.Fatalf("UpsertClient failed: %v", err)
	}
	if !created || first.ID == "" {
		t.Fatalf("created = %v, id = %q; want new client", created, first.ID)
	}

	other := &models.Client{Name: "Bob Martin", Email: "bob@example.com"}
	if _, err := s.UpsertClient(ctx, acct, other); err != nil {
		t.Fatalf("UpsertClient failed: %v", err)
	}

	renamed := &models.Client{Name: "Zoé Tremblay-Roy", Email: " ZOE@example.com "}
	created, err = s.UpsertClient(ctx, acct, renamed)
	if err != nil {
		t.Fatalf("UpsertClient failed: %v", err)
	}
	if created {
		t.Error("expected existing client to be updated")
	}
	if renamed.ID != first.ID {
		t.Errorf("updated ID = %q, want %q", renamed.ID, first.ID)
	}
	if renamed.UpdatedAt.IsZero() {
		t.Error("expected UpdatedAt to be set")
	}

	list, err := s.ListClients(ctx, acct)
	if err != nil {
		t.Fatalf("ListClients failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("got %d clients, want 2", len(list))
	}
	if list[0].Name != "Bob Martin" || list[1].Name != "Zoé Tremblay-Roy" {
		t.Errorf("clients = [%s, %s], want name order with updated name", list[0].Name, list[1].Name)
	}

	if err := s.DeleteClient(ctx, acct, other.ID); err != nil {
		t.Fatalf("DeleteClient failed: %v", err)
	}
	list, _ = s.ListClients(ctx, acct)
	if len(list) != 1 {
		t.Errorf("got %d clients after delete, want 1", len(list))
	}
}

func testProfile(t *testing.T, s storage.Store, acct string) {
	ctx := context.Background()
	p, err := s.GetProfile(ctx, acct)
	if err != nil {
		t.Fatalf("GetProfile failed: %v", err)
	}
	if p != nil {
		t.Fatalf("GetProfile = %+v, want nil before first save", p)
	}

	want := &models.Profile{
		Name: "Studio Lumière", BusinessType: "Yoga instructor", ServiceLabel: "Sessions",
		Address: "1 rue Principale", Phone: "555-0100", Email: "studio@example.com",
		PaymentMethod: "Interac e-Transfer", TaxesEnabled: true,
		TaxRate1: 5, TaxRate2: 9.975, TaxLabel1: "GST", TaxLabel2: "QST",
		TaxNumber1: "123", TaxNumber2: "456",
	}
	if err := s.SaveProfile(ctx, acct, want); err != nil {
		t.Fatalf("SaveProfile failed: %v", err)
	}
	got, err := s.GetProfile(ctx, acct)
	if err != nil {
		t.Fatalf("GetProfile failed: %v", err)
	}
	if got == nil {
		t.Fatal("GetProfile = nil after save")
	}
	got.UpdatedAt = want.UpdatedAt
	if *got != *want {
		t.Errorf("profile = %+v, want %+v", got, want)
	}

	want.TaxesEnabled = false
	if err := s.SaveProfile(ctx, acct, want); err != nil {
		t.Fatalf("SaveProfile (update) failed: %v", err)
	}
	got, _ = s.GetProfile(ctx, acct)
	if got.TaxesEnabled {
		t.Error("profile update not persisted")
	}
}

func testGmailToken(t *testing.T, s storage.Store, acct string) {
	ctx := context.Background()
	tok, err := s.GetGmailToken(ctx, acct)
	if err != nil || tok != nil {
		t.Fatalf("GetGmailToken = %v, %v; want nil, nil", tok, err)
	}

	want := &models.GmailToken{
		AccessToken:  "access",
		RefreshToken: "refresh",
		TokenType:    "Bearer",
		Expiry:       time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		ConnectedAt:  time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC),
	}
	if err := s.SaveGmailToken(ctx, acct, want); err != nil {
		t.Fatalf("SaveGmailToken failed: %v", err)
	}
	got, err := s.GetGmailToken(ctx, acct)
	if err != nil || got == nil {
		t.Fatalf("GetGmailToken = %v, %v", got, err)
	}
	if got.AccessToken != "access" || got.RefreshToken != "refresh" || !got.Expiry.Equal(want.Expiry) || !got.ConnectedAt.Equal(want.ConnectedAt) {
		t.Errorf("token = %+v, want %+v", got, want)
	}

	if err := s.DeleteGmailToken(ctx, acct); err != nil {
		t.Fatalf("DeleteGmailToken failed: %v", err)
	}
	got, err = s.GetGmailToken(ctx, acct)
	if err != nil || got != nil {
		t.Errorf("GetGmailToken after delete = %v, %v; want nil, nil", got, err)
	}
}

func testUsers(t *testing.T, s storage.Store, acct string) {
	ctx := context.Background()
	email := acct + "@example.com"
	u := models.NewUser(email, "Alice", "hash")
	if err := s.CreateUser(ctx, u); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	byEmail, err := s.GetUserByEmail(ctx, email)
	if err != nil || byEmail == nil || byEmail.ID != u.ID {
		t.Fatalf("GetUserByEmail = %v, %v", byEmail, err)
	}
	byID, err := s.GetUserByID(ctx, u.ID)
	if err != nil || byID == nil || byID.PasswordHash != "hash" || byID.DisplayName != "Alice" {
		t.Fatalf("GetUserByID = %v, %v", byID, err)
	}

	missing, err := s.GetUserByEmail(ctx, "nobody-"+email)
	if err != nil || missing != nil {
		t.Errorf("GetUserByEmail(missing) = %v, %v; want nil, nil", missing, err)
	}

	dup := models.NewUser(email, "Other", "hash2")
	if err := s.CreateUser(ctx, dup); !errors.Is(err, storage.ErrAlreadyExists) {
		t.Errorf("duplicate CreateUser error = %v, want ErrAlreadyExists", err)
	}
}
