package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/mmynk/invoicer/internal/models"
	"github.com/mmynk/invoicer/internal/storage"
)

// GetProfile returns the saved profile, or nil if none exists yet.
func (s *PostgresStore) GetProfile(ctx context.Context, accountID string) (*models.Profile, error) {
	const op = "GetProfile"
	if err := storage.RequireAccount(op, accountID); err != nil {
		return nil, err
	}

	var p models.Profile
	err := s.pool.QueryRow(ctx, `
		SELECT name, business_type, service_label, address, phone, email, payment_method,
			taxes_enabled, tax_rate1, tax_rate2, tax_label1, tax_label2, tax_number1, tax_number2, updated_at
		FROM profiles WHERE account_id = $1`,
		accountID,
	).Scan(&p.Name, &p.BusinessType, &p.ServiceLabel, &p.Address, &p.Phone, &p.Email, &p.PaymentMethod,
		&p.TaxesEnabled, &p.TaxRate1, &p.TaxRate2, &p.TaxLabel1, &p.TaxLabel2, &p.TaxNumber1, &p.TaxNumber2, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storage.Wrap(op, fmt.Errorf("failed to get profile: %w", err))
	}
	return &p, nil
}

// SaveProfile creates or replaces the account's profile.
func (s *PostgresStore) SaveProfile(ctx context.Context, accountID string, p *models.Profile) error {
	const op = "SaveProfile"
	if err := storage.RequireAccount(op, accountID); err != nil {
		return err
	}

	p.UpdatedAt = time.Now()
	_, err := s.pool.Exec(ctx, `
		INSERT INTO profiles (account_id, name, business_type, service_label, address, phone, email, payment_method,
			taxes_enabled, tax_rate1, tax_rate2, tax_label1, tax_label2, tax_number1, tax_number2, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (account_id) DO UPDATE SET
			name = EXCLUDED.name, business_type = EXCLUDED.business_type,
			service_label = EXCLUDED.service_label, address = EXCLUDED.address,
			phone = EXCLUDED.phone, email = EXCLUDED.email, payment_method = EXCLUDED.payment_method,
			taxes_enabled = EXCLUDED.taxes_enabled, tax_rate1 = EXCLUDED.tax_rate1, tax_rate2 = EXCLUDED.tax_rate2,
			tax_label1 = EXCLUDED.tax_label1, tax_label2 = EXCLUDED.tax_label2,
			tax_number1 = EXCLUDED.tax_number1, tax_number2 = EXCLUDED.tax_number2,
			updated_at = EXCLUDED.updated_at`,
		accountID, p.Name, p.BusinessType, p.ServiceLabel, p.Address, p.Phone, p.Email, p.PaymentMethod,
		p.TaxesEnabled, p.TaxRate1, p.TaxRate2, p.TaxLabel1, p.TaxLabel2, p.TaxNumber1, p.TaxNumber2, p.UpdatedAt,
	)
	if err != nil {
		return storage.Wrap(op, fmt.Errorf("failed to save profile: %w", err))
	}
	return nil
}

// GetGmailToken returns the stored token, or nil if not connected.
func (s *PostgresStore) GetGmailToken(ctx context.Context, accountID string) (*models.GmailToken, error) {
	const op = "GetGmailToken"
	if err := storage.RequireAccount(op, accountID); err != nil {
		return nil, err
	}

	var (
		tok                 models.GmailToken
		expiry, connectedAt *time.Time
	)
	err := s.pool.QueryRow(ctx,
		"SELECT access_token, refresh_token, token_type, expiry, connected_at FROM gmail_tokens WHERE account_id = $1",
		accountID,
	).Scan(&tok.AccessToken, &tok.RefreshToken, &tok.TokenType, &expiry, &connectedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storage.Wrap(op, fmt.Errorf("failed to get gmail token: %w", err))
	}
	tok.Expiry = derefTime(expiry)
	tok.ConnectedAt = derefTime(connectedAt)
	return &tok, nil
}

// SaveGmailToken stores or replaces the account's token.
func (s *PostgresStore) SaveGmailToken(ctx context.Context, accountID string, tok *models.GmailToken) error {
	const op = "SaveGmailToken"
	if err := storage.RequireAccount(op, accountID); err != nil {
		return err
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO gmail_tokens (account_id, access_token, refresh_token, token_type, expiry, connected_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (account_id) DO UPDATE SET
			access_token = EXCLUDED.access_token, refresh_token = EXCLUDED.refresh_token,
			token_type = EXCLUDED.token_type, expiry = EXCLUDED.expiry, connected_at = EXCLUDED.connected_at`,
		accountID, tok.AccessToken, tok.RefreshToken, tok.TokenType, nullTime(tok.Expiry), nullTime(tok.ConnectedAt),
	)
	if err != nil {
		return storage.Wrap(op, fmt.Errorf("failed to save gmail token: %w", err))
	}
	return nil
}

// DeleteGmailToken forgets the account's token.
func (s *PostgresStore) DeleteGmailToken(ctx context.Context, accountID string) error {
	const op = "DeleteGmailToken"
	if err := storage.RequireAccount(op, accountID); err != nil {
		return err
	}

	if _, err := s.pool.Exec(ctx, "DELETE FROM gmail_tokens WHERE account_id = $1", accountID); err != nil {
		return storage.Wrap(op, fmt.Errorf("failed to delete gmail token: %w", err))
	}
	return nil
}

const userColumns = "id, email, display_name, password_hash, created_at, updated_at"

// CreateUser inserts a new user.
func (s *PostgresStore) CreateUser(ctx context.Context, user *models.User) error {
	_, err := s.pool.Exec(ctx,
		"INSERT INTO users ("+userColumns+") VALUES ($1, $2, $3, $4, $5, $6)",
		user.ID, models.NormalizeEmail(user.Email), user.DisplayName, user.PasswordHash, user.CreatedAt, user.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return storage.Wrap("CreateUser", storage.ErrAlreadyExists)
	}
	if err != nil {
		return storage.Wrap("CreateUser", fmt.Errorf("failed to create user: %w", err))
	}
	return nil
}

// GetUserByEmail retrieves a user by email, or nil if none matches.
func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getUser(ctx, "email", models.NormalizeEmail(email))
}

// GetUserByID retrieves a user by ID, or nil if none matches.
func (s *PostgresStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.getUser(ctx, "id", id)
}

func (s *PostgresStore) getUser(ctx context.Context, column, value string) (*models.User, error) {
	user := &models.User{}
	err := s.pool.QueryRow(ctx,
		"SELECT "+userColumns+" FROM users WHERE "+column+" = $1", value,
	).Scan(&user.ID, &user.Email, &user.DisplayName, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storage.Wrap("GetUser", fmt.Errorf("failed to get user by %s: %w", column, err))
	}
	return user, nil
}
