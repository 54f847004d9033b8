package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mmynk/invoicer/internal/models"
	"github.com/mmynk/invoicer/internal/storage"
)

// GetGmailToken returns the stored token, or nil if the account never
// connected Gmail.
func (s *SQLiteStore) GetGmailToken(ctx context.Context, accountID string) (*models.GmailToken, error) {
	const op = "GetGmailToken"
	if err := storage.RequireAccount(op, accountID); err != nil {
		return nil, err
	}

	var (
		tok         models.GmailToken
		expiry      sql.NullInt64
		connectedAt sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT access_token, refresh_token, token_type, expiry, connected_at FROM gmail_tokens WHERE account_id = ?",
		accountID,
	).Scan(&tok.AccessToken, &tok.RefreshToken, &tok.TokenType, &expiry, &connectedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storage.Wrap(op, fmt.Errorf("failed to get gmail token: %w", err))
	}

	tok.Expiry = fromMillis(expiry)
	tok.ConnectedAt = fromMillis(connectedAt)
	return &tok, nil
}

// SaveGmailToken stores or replaces the account's token.
func (s *SQLiteStore) SaveGmailToken(ctx context.Context, accountID string, tok *models.GmailToken) error {
	const op = "SaveGmailToken"
	if err := storage.RequireAccount(op, accountID); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO gmail_tokens (account_id, access_token, refresh_token, token_type, expiry, connected_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (account_id) DO UPDATE SET
			access_token = excluded.access_token, refresh_token = excluded.refresh_token,
			token_type = excluded.token_type, expiry = excluded.expiry, connected_at = excluded.connected_at`,
		accountID, tok.AccessToken, tok.RefreshToken, tok.TokenType, toMillis(tok.Expiry), toMillis(tok.ConnectedAt),
	)
	if err != nil {
		return storage.Wrap(op, fmt.Errorf("failed to save gmail token: %w", err))
	}
	return nil
}

// DeleteGmailToken forgets the account's token. Deleting a missing token is
// not an error.
func (s *SQLiteStore) DeleteGmailToken(ctx context.Context, accountID string) error {
	const op = "DeleteGmailToken"
	if err := storage.RequireAccount(op, accountID); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, "DELETE FROM gmail_tokens WHERE account_id = ?", accountID); err != nil {
		return storage.Wrap(op, fmt.Errorf("failed to delete gmail token: %w", err))
	}
	return nil
}
