package sqlite

import "database/sql"

// schema contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
// Dates are stored as YYYY-MM-DD text and timestamps as Unix milliseconds.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    display_name TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS invoice_counters (
    account_id TEXT PRIMARY KEY,
    next_number INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS invoices (
    id TEXT PRIMARY KEY,
    account_id TEXT NOT NULL,
    schema_version INTEGER NOT NULL,
    number INTEGER NOT NULL,
    is_draft INTEGER NOT NULL DEFAULT 0,
    number_degraded INTEGER NOT NULL DEFAULT 0,
    client_name TEXT NOT NULL,
    client_email TEXT NOT NULL DEFAULT '',
    date TEXT,
    due_date TEXT,
    subtotal REAL NOT NULL,
    tax1 REAL NOT NULL,
    tax2 REAL NOT NULL,
    total REAL NOT NULL,
    taxes_enabled INTEGER NOT NULL DEFAULT 0,
    tax_rate1 REAL NOT NULL DEFAULT 0,
    tax_rate2 REAL NOT NULL DEFAULT 0,
    tax_label1 TEXT NOT NULL DEFAULT '',
    tax_label2 TEXT NOT NULL DEFAULT '',
    tax_number1 TEXT NOT NULL DEFAULT '',
    tax_number2 TEXT NOT NULL DEFAULT '',
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS line_items (
    invoice_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    id TEXT NOT NULL,
    date TEXT,
    description TEXT NOT NULL DEFAULT '',
    amount REAL NOT NULL,
    PRIMARY KEY (invoice_id, position),
    FOREIGN KEY (invoice_id) REFERENCES invoices(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS expenses (
    id TEXT PRIMARY KEY,
    account_id TEXT NOT NULL,
    date TEXT,
    description TEXT NOT NULL DEFAULT '',
    amount REAL NOT NULL,
    category TEXT NOT NULL,
    photo BLOB,
    photo_type TEXT NOT NULL DEFAULT '',
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS clients (
    id TEXT PRIMARY KEY,
    account_id TEXT NOT NULL,
    name TEXT NOT NULL,
    email TEXT NOT NULL,
    email_key TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    updated_at INTEGER,
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
    taxes_enabled INTEGER NOT NULL DEFAULT 0,
    tax_rate1 REAL NOT NULL DEFAULT 0,
    tax_rate2 REAL NOT NULL DEFAULT 0,
    tax_label1 TEXT NOT NULL DEFAULT '',
    tax_label2 TEXT NOT NULL DEFAULT '',
    tax_number1 TEXT NOT NULL DEFAULT '',
    tax_number2 TEXT NOT NULL DEFAULT '',
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS gmail_tokens (
    account_id TEXT PRIMARY KEY,
    access_token TEXT NOT NULL,
    refresh_token TEXT NOT NULL DEFAULT '',
    token_type TEXT NOT NULL DEFAULT '',
    expiry INTEGER,
    connected_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_invoices_account_id ON invoices(account_id);
CREATE UNIQUE INDEX IF NOT EXISTS idx_invoices_issued_number
    ON invoices(account_id, number) WHERE is_draft = 0 AND number_degraded = 0;
CREATE INDEX IF NOT EXISTS idx_expenses_account_id ON expenses(account_id);
CREATE INDEX IF NOT EXISTS idx_clients_account_id ON clients(account_id);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
