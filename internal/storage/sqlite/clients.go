package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mmynk/invoicer/internal/models"
	"github.com/mmynk/invoicer/internal/storage"
)

// UpsertClient inserts a client or renames the one sharing its email key,
// in one statement.
func (s *SQLiteStore) UpsertClient(ctx context.Context, accountID string, c *models.Client) (bool, error) {
	const op = "UpsertClient"
	if err := storage.RequireAccount(op, accountID); err != nil {
		return false, err
	}

	now := time.Now()
	var (
		createdAt int64
		updatedAt sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO clients (id, account_id, name, email, email_key, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (account_id, email_key) DO UPDATE
			SET name = excluded.name, email = excluded.email, updated_at = ?
		RETURNING id, created_at, updated_at`,
		storage.NewID(), accountID, c.Name, c.Email, models.NormalizeEmail(c.Email), now.UnixMilli(),
		now.UnixMilli(),
	).Scan(&c.ID, &createdAt, &updatedAt)
	if err != nil {
		return false, storage.Wrap(op, fmt.Errorf("failed to upsert client: %w", err))
	}

	c.AccountID = accountID
	c.CreatedAt = time.UnixMilli(createdAt).UTC()
	c.UpdatedAt = fromMillis(updatedAt)
	return !updatedAt.Valid, nil
}

// ListClients returns the account's clients ordered by name.
func (s *SQLiteStore) ListClients(ctx context.Context, accountID string) ([]*models.Client, error) {
	const op = "ListClients"
	if err := storage.RequireAccount(op, accountID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, account_id, name, email, created_at, updated_at
		FROM clients WHERE account_id = ? ORDER BY name`,
		accountID,
	)
	if err != nil {
		return nil, storage.Wrap(op, fmt.Errorf("failed to query clients: %w", err))
	}
	defer rows.Close()

	var clients []*models.Client
	for rows.Next() {
		var (
			c         models.Client
			createdAt int64
			updatedAt sql.NullInt64
		)
		if err := rows.Scan(&c.ID, &c.AccountID, &c.Name, &c.Email, &createdAt, &updatedAt); err != nil {
			return nil, storage.Wrap(op, fmt.Errorf("failed to scan client: %w", err))
		}
		c.CreatedAt = time.UnixMilli(createdAt).UTC()
		c.UpdatedAt = fromMillis(updatedAt)
		clients = append(clients, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, storage.Wrap(op, fmt.Errorf("failed to iterate clients: %w", err))
	}
	return clients, nil
}

// DeleteClient removes a client. Invoices keep their own copy of the name
// and email.
func (s *SQLiteStore) DeleteClient(ctx context.Context, accountID, id string) error {
	const op = "DeleteClient"
	if err := storage.RequireAccount(op, accountID); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, "DELETE FROM clients WHERE id = ? AND account_id = ?", id, accountID)
	if err != nil {
		return storage.Wrap(op, fmt.Errorf("failed to delete client: %w", err))
	}
	if err := affectedOne(res); err != nil {
		return storage.Wrap(op, fmt.Errorf("client %s: %w", id, err))
	}
	return nil
}
