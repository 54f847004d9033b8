package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mmynk/invoicer/internal/models"
	"github.com/mmynk/invoicer/internal/storage"
)

const invoiceColumns = `id, account_id, schema_version, number, is_draft, number_degraded,
	client_name, client_email, date, due_date, subtotal, tax1, tax2, total,
	taxes_enabled, tax_rate1, tax_rate2, tax_label1, tax_label2, tax_number1, tax_number2, created_at`

// NextInvoiceNumber advances the account's counter in a single statement.
// The first call inserts the row with next_number = 1001 and returns 1000.
func (s *SQLiteStore) NextInvoiceNumber(ctx context.Context, accountID string) (int64, error) {
	const op = "NextInvoiceNumber"
	if err := storage.RequireAccount(op, accountID); err != nil {
		return 0, err
	}

	var n int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO invoice_counters (account_id, next_number) VALUES (?, ?)
		ON CONFLICT (account_id) DO UPDATE SET next_number = invoice_counters.next_number + 1
		RETURNING next_number - 1`,
		accountID, storage.FirstInvoiceNumber+1,
	).Scan(&n)
	if err != nil {
		return 0, storage.Wrap(op, fmt.Errorf("failed to advance counter: %w", err))
	}
	return n, nil
}

// AddInvoice persists an invoice and its lines in one transaction.
func (s *SQLiteStore) AddInvoice(ctx context.Context, accountID string, inv *models.Invoice) error {
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

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storage.Wrap(op, fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `INSERT INTO invoices (`+invoiceColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.ID, accountID, inv.SchemaVersion, inv.Number, boolToInt(inv.IsDraft), boolToInt(inv.NumberDegraded),
		inv.ClientName, inv.ClientEmail, formatDate(inv.Date), formatDate(inv.DueDate),
		inv.Subtotal, inv.Tax1, inv.Tax2, inv.Total,
		boolToInt(inv.Tax.Enabled), inv.Tax.Rate1, inv.Tax.Rate2, inv.Tax.Label1, inv.Tax.Label2,
		inv.Tax.Number1, inv.Tax.Number2, inv.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return storage.Wrap(op, fmt.Errorf("failed to insert invoice: %w", err))
	}

	for i, line := range inv.Lines {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO line_items (invoice_id, position, id, date, description, amount) VALUES (?, ?, ?, ?, ?, ?)",
			inv.ID, i, line.ID, formatDate(line.Date), line.Description, line.Amount,
		)
		if err != nil {
			return storage.Wrap(op, fmt.Errorf("failed to insert line item: %w", err))
		}
	}

	if err := tx.Commit(); err != nil {
		return storage.Wrap(op, fmt.Errorf("failed to commit transaction: %w", err))
	}
	return nil
}

// GetInvoice retrieves one invoice with its lines.
func (s *SQLiteStore) GetInvoice(ctx context.Context, accountID, id string) (*models.Invoice, error) {
	const op = "GetInvoice"
	if err := storage.RequireAccount(op, accountID); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx,
		"SELECT "+invoiceColumns+" FROM invoices WHERE id = ? AND account_id = ?",
		id, accountID,
	)
	inv, err := scanInvoice(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.Wrap(op, fmt.Errorf("invoice %s: %w", id, storage.ErrNotFound))
	}
	if err != nil {
		return nil, storage.Wrap(op, err)
	}

	lines, err := s.loadLines(ctx, "WHERE l.invoice_id = ?", id)
	if err != nil {
		return nil, storage.Wrap(op, err)
	}
	inv.Lines = lines[inv.ID]
	return inv, nil
}

// ListInvoices returns every invoice of the account with its lines.
func (s *SQLiteStore) ListInvoices(ctx context.Context, accountID string) ([]*models.Invoice, error) {
	const op = "ListInvoices"
	if err := storage.RequireAccount(op, accountID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+invoiceColumns+" FROM invoices WHERE account_id = ? ORDER BY created_at",
		accountID,
	)
	if err != nil {
		return nil, storage.Wrap(op, fmt.Errorf("failed to query invoices: %w", err))
	}

	var invoices []*models.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			rows.Close()
			return nil, storage.Wrap(op, err)
		}
		invoices = append(invoices, inv)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, storage.Wrap(op, fmt.Errorf("failed to iterate invoices: %w", err))
	}
	// The pool has one connection; release it before the next query.
	rows.Close()

	lines, err := s.loadLines(ctx,
		"JOIN invoices i ON i.id = l.invoice_id WHERE i.account_id = ?", accountID)
	if err != nil {
		return nil, storage.Wrap(op, err)
	}
	for _, inv := range invoices {
		inv.Lines = lines[inv.ID]
	}
	return invoices, nil
}

// DeleteInvoice removes an invoice; its lines cascade.
func (s *SQLiteStore) DeleteInvoice(ctx context.Context, accountID, id string) error {
	const op = "DeleteInvoice"
	if err := storage.RequireAccount(op, accountID); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, "DELETE FROM invoices WHERE id = ? AND account_id = ?", id, accountID)
	if err != nil {
		return storage.Wrap(op, fmt.Errorf("failed to delete invoice: %w", err))
	}
	if err := affectedOne(res); err != nil {
		return storage.Wrap(op, fmt.Errorf("invoice %s: %w", id, err))
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanInvoice(row scanner) (*models.Invoice, error) {
	var (
		inv                        models.Invoice
		isDraft, degraded, taxesOn int
		date, dueDate              sql.NullString
		createdAt                  int64
	)
	err := row.Scan(
		&inv.ID, &inv.AccountID, &inv.SchemaVersion, &inv.Number, &isDraft, &degraded,
		&inv.ClientName, &inv.ClientEmail, &date, &dueDate,
		&inv.Subtotal, &inv.Tax1, &inv.Tax2, &inv.Total,
		&taxesOn, &inv.Tax.Rate1, &inv.Tax.Rate2, &inv.Tax.Label1, &inv.Tax.Label2,
		&inv.Tax.Number1, &inv.Tax.Number2, &createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan invoice: %w", err)
	}

	inv.IsDraft = isDraft != 0
	inv.NumberDegraded = degraded != 0
	inv.Tax.Enabled = taxesOn != 0
	inv.CreatedAt = time.UnixMilli(createdAt).UTC()
	if inv.Date, err = parseDate(date); err != nil {
		return nil, fmt.Errorf("invoice %s: bad date: %w", inv.ID, err)
	}
	if inv.DueDate, err = parseDate(dueDate); err != nil {
		return nil, fmt.Errorf("invoice %s: bad due date: %w", inv.ID, err)
	}
	return &inv, nil
}

// loadLines returns line items grouped by invoice ID, in position order.
// clause filters the line_items table aliased as l.
func (s *SQLiteStore) loadLines(ctx context.Context, clause string, args ...any) (map[string][]models.LineItem, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT l.invoice_id, l.id, l.date, l.description, l.amount FROM line_items l "+clause+
			" ORDER BY l.invoice_id, l.position",
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query line items: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]models.LineItem)
	for rows.Next() {
		var (
			invoiceID string
			line      models.LineItem
			date      sql.NullString
		)
		if err := rows.Scan(&invoiceID, &line.ID, &date, &line.Description, &line.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan line item: %w", err)
		}
		if line.Date, err = parseDate(date); err != nil {
			return nil, fmt.Errorf("line %s: bad date: %w", line.ID, err)
		}
		out[invoiceID] = append(out[invoiceID], line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate line items: %w", err)
	}
	return out, nil
}
