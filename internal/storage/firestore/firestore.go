// Package firestore provides a Cloud Firestore implementation of the
// storage.Store interface for hosted deployments.
//
// Layout:
//
//	users/{accountID}                 invoiceNumber, profile, gmailTokens
//	users/{accountID}/invoices/{id}
//	users/{accountID}/expenses/{id}
//	users/{accountID}/clients/{id}    emailKey holds the dedup key
//	logins/{normalized email}         registered users
package firestore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/mmynk/invoicer/internal/models"
	"github.com/mmynk/invoicer/internal/storage"
)

// Ensure FirestoreStore implements storage.Store
var _ storage.Store = (*FirestoreStore)(nil)

const (
	accountsCollection = "users"
	loginsCollection   = "logins"
	invoicesCollection = "invoices"
	expensesCollection = "expenses"
	clientsCollection  = "clients"

	// maxTxAttempts bounds optimistic retries of the numbering transaction.
	maxTxAttempts = 25

	counterField = "invoiceNumber"
	profileField = "profile"
	tokenField   = "gmailTokens"
)

// FirestoreStore implements storage.Store on a Firestore client.
type FirestoreStore struct {
	client *firestore.Client
}

// New opens a client for projectID. When FIRESTORE_EMULATOR_HOST is set the
// client library connects to the emulator instead.
func New(ctx context.Context, projectID string, opts ...option.ClientOption) (*FirestoreStore, error) {
	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}
	return &FirestoreStore{client: client}, nil
}

// Close closes the client.
func (s *FirestoreStore) Close() error {
	return s.client.Close()
}

func (s *FirestoreStore) account(accountID string) *firestore.DocumentRef {
	return s.client.Collection(accountsCollection).Doc(accountID)
}

func (s *FirestoreStore) sub(accountID, collection string) *firestore.CollectionRef {
	return s.account(accountID).Collection(collection)
}

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

// NextInvoiceNumber reads and advances the counter inside a transaction.
// Firestore retries the transaction on contention, so two concurrent callers
// never commit the same read.
func (s *FirestoreStore) NextInvoiceNumber(ctx context.Context, accountID string) (int64, error) {
	const op = "NextInvoiceNumber"
	if err := storage.RequireAccount(op, accountID); err != nil {
		return 0, err
	}

	ref := s.account(accountID)
	var issued int64
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		current := storage.FirstInvoiceNumber
		snap, err := tx.Get(ref)
		switch {
		case isNotFound(err):
		case err != nil:
			return err
		default:
			if v, err := snap.DataAt(counterField); err == nil {
				if n, ok := v.(int64); ok && n >= storage.FirstInvoiceNumber {
					current = n
				}
			}
		}
		issued = current
		return tx.Set(ref, map[string]any{counterField: current + 1}, firestore.MergeAll)
	}, firestore.MaxAttempts(maxTxAttempts))
	if err != nil {
		return 0, storage.Wrap(op, fmt.Errorf("failed to advance counter: %w", err))
	}
	return issued, nil
}

// AddInvoice writes a new invoice document.
func (s *FirestoreStore) AddInvoice(ctx context.Context, accountID string, inv *models.Invoice) error {
	const op = "AddInvoice"
	if err := storage.RequireAccount(op, accountID); err != nil {
		return err
	}

	if inv.ID == "" {
		inv.ID = storage.NewID()
	}
	if inv.CreatedAt.IsZero() {
		inv.CreatedAt = time.Now()
	}
	inv.AccountID = accountID

	if _, err := s.sub(accountID, invoicesCollection).Doc(inv.ID).Create(ctx, inv); err != nil {
		return storage.Wrap(op, fmt.Errorf("failed to create invoice: %w", err))
	}
	return nil
}

// GetInvoice reads one invoice document.
func (s *FirestoreStore) GetInvoice(ctx context.Context, accountID, id string) (*models.Invoice, error) {
	const op = "GetInvoice"
	if err := storage.RequireAccount(op, accountID); err != nil {
		return nil, err
	}

	snap, err := s.sub(accountID, invoicesCollection).Doc(id).Get(ctx)
	if isNotFound(err) {
		return nil, storage.Wrap(op, fmt.Errorf("invoice %s: %w", id, storage.ErrNotFound))
	}
	if err != nil {
		return nil, storage.Wrap(op, fmt.Errorf("failed to get invoice: %w", err))
	}
	var inv models.Invoice
	if err := snap.DataTo(&inv); err != nil {
		return nil, storage.Wrap(op, fmt.Errorf("failed to decode invoice %s: %w", id, err))
	}
	inv.ID = snap.Ref.ID
	return &inv, nil
}

// ListInvoices reads every invoice document of the account.
func (s *FirestoreStore) ListInvoices(ctx context.Context, accountID string) ([]*models.Invoice, error) {
	const op = "ListInvoices"
	if err := storage.RequireAccount(op, accountID); err != nil {
		return nil, err
	}

	var invoices []*models.Invoice
	err := eachDoc(s.sub(accountID, invoicesCollection).OrderBy("createdAt", firestore.Asc).Documents(ctx),
		func(snap *firestore.DocumentSnapshot) error {
			var inv models.Invoice
			if err := snap.DataTo(&inv); err != nil {
				return fmt.Errorf("failed to decode invoice %s: %w", snap.Ref.ID, err)
			}
			inv.ID = snap.Ref.ID
			invoices = append(invoices, &inv)
			return nil
		})
	if err != nil {
		return nil, storage.Wrap(op, err)
	}
	return invoices, nil
}

// DeleteInvoice removes an invoice document.
func (s *FirestoreStore) DeleteInvoice(ctx context.Context, accountID, id string) error {
	const op = "DeleteInvoice"
	if err := storage.RequireAccount(op, accountID); err != nil {
		return err
	}
	return storage.Wrap(op, deleteExisting(ctx, s.sub(accountID, invoicesCollection).Doc(id), "invoice"))
}

// deleteExisting deletes ref, reporting ErrNotFound when it does not exist.
func deleteExisting(ctx context.Context, ref *firestore.DocumentRef, kind string) error {
	_, err := ref.Delete(ctx, firestore.Exists)
	if isNotFound(err) {
		return fmt.Errorf("%s %s: %w", kind, ref.ID, storage.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", kind, err)
	}
	return nil
}

// eachDoc drains an iterator, calling fn for every document.
func eachDoc(iter *firestore.DocumentIterator, fn func(*firestore.DocumentSnapshot) error) error {
	defer iter.Stop()
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to iterate documents: %w", err)
		}
		if err := fn(snap); err != nil {
			return err
		}
	}
}
