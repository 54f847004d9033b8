package invoicing

import (
	"context"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/mmynk/invoicer/internal/filter"
	"github.com/mmynk/invoicer/internal/metrics"
	"github.com/mmynk/invoicer/internal/models"
	"github.com/mmynk/invoicer/internal/storage"
)

// ClientListing is the result of Directory.List.
type ClientListing struct {
	Clients     []*models.Client
	Unavailable bool
}

// Directory is the client list feeding the invoice editor's client picker.
// Clients are keyed by email, compared after trimming and lowercasing.
type Directory struct {
	store   storage.ClientStore
	metrics *metrics.Metrics
}

func NewDirectory(store storage.ClientStore, mt *metrics.Metrics) *Directory {
	return &Directory{store: store, metrics: mt}
}

// Upsert adds the client, or renames the existing client with the same
// email. It reports whether a new record was created.
func (d *Directory) Upsert(ctx context.Context, accountID, name, email string) (*models.Client, bool, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" {
		return nil, false, invalid("name", "client name is required")
	}
	if email == "" {
		return nil, false, invalid("email", "client email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, false, invalid("email", "%q is not a valid email address", email)
	}

	c := &models.Client{Name: name, Email: email}
	created, err := d.store.UpsertClient(ctx, accountID, c)
	if err != nil {
		return nil, false, err
	}
	slog.Info("Client saved",
		"account_id", accountID,
		"client_id", c.ID,
		"created", created,
	)
	return c, created, nil
}

// Delete removes a client. Invoices keep their own copy of the client's
// name and email and are not affected.
func (d *Directory) Delete(ctx context.Context, accountID, id string) error {
	if err := d.store.DeleteClient(ctx, accountID, id); err != nil {
		return err
	}
	slog.Info("Client deleted", "account_id", accountID, "client_id", id)
	return nil
}

// List returns the clients ordered by name.
func (d *Directory) List(ctx context.Context, accountID string) (*ClientListing, error) {
	if err := storage.RequireAccount("ListClients", accountID); err != nil {
		return nil, err
	}
	clients, err := d.store.ListClients(ctx, accountID)
	if err != nil {
		if storage.IsUnavailable(err) {
			d.metrics.StorageUnavailable("clients")
			slog.Warn("Store unavailable, serving empty listing",
				"entity", "clients",
				"account_id", accountID,
				"error", err,
			)
			return &ClientListing{Unavailable: true}, nil
		}
		return nil, err
	}
	filter.SortClients(clients)
	return &ClientListing{Clients: clients}, nil
}
