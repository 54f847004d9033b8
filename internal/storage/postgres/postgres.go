// Package postgres provides a PostgreSQL-backed implementation of the
// storage.Store interface for hosted, multi-tenant deployments.
package postgres

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mmynk/invoicer/internal/storage"
)

// Ensure PostgresStore implements storage.Store
var _ storage.Store = (*PostgresStore)(nil)

// PostgresStore implements storage.Store on a pgx connection pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// New connects to databaseURL and applies pending migrations.
func New(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if err := migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// Close releases the pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

type migration struct {
	name string
	sql  string
}

// migrations are applied in order, once each, and recorded with a checksum
// so an edited migration is detected instead of silently skipped.
var migrations = []migration{
	{name: "0001_init", sql: `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    display_name TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    created_at BIGINT NOT NULL,
    updated_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS invoice_counters (
    account_id TEXT PRIMARY KEY,
    next_number BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS invoices (
    id TEXT PRIMARY KEY,
    account_id TEXT NOT NULL,
    schema_version INTEGER NOT NULL,
    number BIGINT NOT NULL,
    is_draft BOOLEAN NOT NULL DEFAULT FALSE,
    number_degraded BOOLEAN NOT NULL DEFAULT FALSE,
    client_name TEXT NOT NULL,
    client_email TEXT NOT NULL DEFAULT '',
    date DATE,
    due_date DATE,
    subtotal DOUBLE PRECISION NOT NULL,
    tax1 DOUBLE PRECISION NOT NULL,
    tax2 DOUBLE PRECISION NOT NULL,
    total DOUBLE PRECISION NOT NULL,
    taxes_enabled BOOLEAN NOT NULL DEFAULT FALSE,
    tax_rate1 DOUBLE PRECISION NOT NULL DEFAULT 0,
    tax_rate2 DOUBLE PRECISION NOT NULL DEFAULT 0,
    tax_label1 TEXT NOT NULL DEFAULT '',
    tax_label2 TEXT NOT NULL DEFAULT '',
    tax_number1 TEXT NOT NULL DEFAULT '',
    tax_number2 TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS line_items (
    invoice_id TEXT NOT NULL REFERENCES invoices(id) ON DELETE CASCADE,
    position INTEGER NOT NULL,
    id TEXT NOT NULL,
    date DATE,
    description TEXT NOT NULL DEFAULT '',
    amount DOUBLE PRECISION NOT NULL,
    PRIMARY KEY (invoice_id, position)
);

CREATE TABLE IF NOT EXISTS expenses (
    id TEXT PRIMARY KEY,
    account_id TEXT NOT NULL,
    date DATE,
    description TEXT NOT NULL DEFAULT '',
    amount DOUBLE PRECISION NOT NULL,
    category TEXT NOT NULL,
    photo BYTEA,
    photo_type TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS clients (
    id TEXT PRIMARY KEY,
    account_id TEXT NOT NULL,
    name TEXT NOT NULL,
    email TEXT NOT NULL,
    email_key TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL,
    updated_at TIMESTAMPTZ,
    UNIQUE (account_id, email_key)
);

CREATE TABLE IF NOT EXISTS profiles (
    account_id TEXT PRIMARY KEY,
    name TEXT NOT NULL DEFAULT '',
    business_type TEXT NOT NULL DEFAULT '',
    service_label TEXT NOT NULL DEFAULT '',
    address TEXT NOT NULL DEFAULT '',
    phone TEXT NOT NULL DEFAULT '',
    email TEXT NOT NULL DEFAULT '',
    payment_method TEXT NOT NULL DEFAULT '',
    taxes_enabled BOOLEAN NOT NULL DEFAULT FALSE,
    tax_rate1 DOUBLE PRECISION NOT NULL DEFAULT 0,
    tax_rate2 DOUBLE PRECISION NOT NULL DEFAULT 0,
    tax_label1 TEXT NOT NULL DEFAULT '',
    tax_label2 TEXT NOT NULL DEFAULT '',
    tax_number1 TEXT NOT NULL DEFAULT '',
    tax_number2 TEXT NOT NULL DEFAULT '',
    updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS gmail_tokens (
    account_id TEXT PRIMARY KEY,
    access_token TEXT NOT NULL,
    refresh_token TEXT NOT NULL DEFAULT '',
    token_type TEXT NOT NULL DEFAULT '',
    expiry TIMESTAMPTZ,
    connected_at TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_invoices_account_id ON invoices(account_id);
CREATE UNIQUE INDEX IF NOT EXISTS idx_invoices_issued_number
    ON invoices(account_id, number) WHERE NOT is_draft AND NOT number_degraded;
CREATE INDEX IF NOT EXISTS idx_expenses_account_id ON expenses(account_id);
CREATE INDEX IF NOT EXISTS idx_clients_account_id ON clients(account_id);
`},
}

func checksum(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}

func migrate(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			name TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			checksum TEXT NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	for _, m := range migrations {
		var applied string
		err := pool.QueryRow(ctx, "SELECT checksum FROM schema_migrations WHERE name = $1", m.name).Scan(&applied)
		switch {
		case err == nil:
			if applied != checksum(m.sql) {
				return fmt.Errorf("migration %s was modified after being applied", m.name)
			}
			continue
		case !errors.Is(err, pgx.ErrNoRows):
			return fmt.Errorf("failed to read migration %s: %w", m.name, err)
		}

		err = pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, m.sql); err != nil {
				return err
			}
			_, err := tx.Exec(ctx,
				"INSERT INTO schema_migrations (name, checksum) VALUES ($1, $2)",
				m.name, checksum(m.sql))
			return err
		})
		if err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", m.name, err)
		}
	}
	return nil
}

// nullTime maps the zero time to SQL NULL.
func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}

func derefTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func affectedOne(tag pgconn.CommandTag) error {
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
