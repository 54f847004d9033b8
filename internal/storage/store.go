// Package storage provides abstractions for persistent data storage.
//
// Every method takes the owning account ID explicitly. An empty account ID
// fails with ErrNotAuthenticated before any I/O is attempted.
package storage

import (
	"context"

	"github.com/google/uuid"

	"github.com/mmynk/invoicer/internal/models"
)

// InvoiceStore persists invoices and the per-account invoice counter.
type InvoiceStore interface {
	// ListInvoices returns every invoice of the account, in no particular order.
	ListInvoices(ctx context.Context, accountID string) ([]*models.Invoice, error)

	// GetInvoice returns one invoice or an error wrapping ErrNotFound.
	GetInvoice(ctx context.Context, accountID, id string) (*models.Invoice, error)

	// AddInvoice persists a new invoice. ID and CreatedAt are assigned when empty.
	AddInvoice(ctx context.Context, accountID string, inv *models.Invoice) error

	// DeleteInvoice removes an invoice permanently.
	DeleteInvoice(ctx context.Context, accountID, id string) error

	// NextInvoiceNumber atomically returns the account's next invoice number
	// and advances the counter. The first number is FirstInvoiceNumber.
	// Concurrent callers never observe the same value.
	NextInvoiceNumber(ctx context.Context, accountID string) (int64, error)
}

// ExpenseStore persists expenses.
type ExpenseStore interface {
	ListExpenses(ctx context.Context, accountID string) ([]*models.Expense, error)
	AddExpense(ctx context.Context, accountID string, exp *models.Expense) error
	DeleteExpense(ctx context.Context, accountID, id string) error
}

// ClientStore persists the client directory.
type ClientStore interface {
	// ListClients returns the account's clients ordered by name.
	ListClients(ctx context.Context, accountID string) ([]*models.Client, error)

	// UpsertClient inserts the client, or updates the name of the existing
	// client whose normalized email matches. c is updated in place with the
	// stored ID and timestamps; created reports which case applied.
	UpsertClient(ctx context.Context, accountID string, c *models.Client) (created bool, err error)

	DeleteClient(ctx context.Context, accountID, id string) error
}

// ProfileStore persists the issuer profile.
type ProfileStore interface {
	// GetProfile returns nil, nil when no profile was ever saved.
	GetProfile(ctx context.Context, accountID string) (*models.Profile, error)
	SaveProfile(ctx context.Context, accountID string, p *models.Profile) error
}

// GmailTokenStore persists the OAuth token used for invoice delivery.
type GmailTokenStore interface {
	// GetGmailToken returns nil, nil when the account is not connected.
	GetGmailToken(ctx context.Context, accountID string) (*models.GmailToken, error)
	SaveGmailToken(ctx context.Context, accountID string, tok *models.GmailToken) error
	DeleteGmailToken(ctx context.Context, accountID string) error
}

// UserStore persists registered accounts (hosted mode).
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	// GetUserByEmail and GetUserByID return nil, nil when no user matches.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// Store defines the full persistence contract.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL,
// Firestore) without changing the service layer.
type Store interface {
	InvoiceStore
	ExpenseStore
	ClientStore
	ProfileStore
	GmailTokenStore
	UserStore

	// Close releases any resources held by the store.
	Close() error
}

// FirstInvoiceNumber is the number issued first for a new account.
const FirstInvoiceNumber int64 = 1000

// NewID returns a new time-ordered record identifier.
func NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}
