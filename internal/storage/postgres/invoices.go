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

const invoiceColumns = `id, account_id, schema_version, number, is_draft, number_degraded,
	client_name, client_email, date, due_date, subtotal, tax1, tax2, total,
	taxes_enabled, tax_rate1, tax_rate2, tax_label1, tax_label2, tax_number1, tax_number2, created_at`

// NextInvoiceNumber advances the counter with a single upsert. The conflict
// path takes a row lock, so concurrent callers serialize on the account row
// and each sees a distinct value.
func (s *PostgresStore) NextInvoiceNumber(ctx context.Context, accountID string) (int64, error) {
	const op = "NextInvoiceNumber"
	if err := storage.RequireAccount(op, accountID); err != nil {
		return 0, err
	}

	var n int64
	err := s.pool.QueryRow(ctx, `
		INSERT INTO invoice_counters (account_id, next_number) VALUES ($1, $2)
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
func (s *PostgresStore) AddInvoice(ctx context.Context, accountID string, inv *models.Invoice) error {
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

	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `INSERT INTO invoices (`+invoiceColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)`,
			inv.ID, accountID, inv.SchemaVersion, inv.Number, inv.IsDraft, inv.NumberDegraded,
			inv.ClientName, inv.ClientEmail, nullTime(inv.Date), nullTime(inv.DueDate),
			inv.Subtotal, inv.Tax1, inv.Tax2, inv.Total,
			inv.Tax.Enabled, inv.Tax.Rate1, inv.Tax.Rate2, inv.Tax.Label1, inv.Tax.Label2,
			inv.Tax.Number1, inv.Tax.Number2, inv.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert invoice: %w", err)
		}

		batch := &pgx.Batch{}
		for i, line := range inv.Lines {
			batch.Queue(
				"INSERT INTO line_items (invoice_id, position, id, date, description, amount) VALUES ($1, $2, $3, $4, $5, $6)",
				inv.ID, i, line.ID, nullTime(line.Date), line.Description, line.Amount,
			)
		}
		if batch.Len() == 0 {
			return nil
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to insert line items: %w", err)
		}
		return nil
	})
	return storage.Wrap(op, err)
}

// GetInvoice retrieves one invoice with its lines.
func (s *PostgresStore) GetInvoice(ctx context.Context, accountID, id string) (*models.Invoice, error) {
	const op = "GetInvoice"
	if err := storage.RequireAccount(op, accountID); err != nil {
		return nil, err
	}

	inv, err := scanInvoice(s.pool.QueryRow(ctx,
		"SELECT "+invoiceColumns+" FROM invoices WHERE id = $1 AND account_id = $2", id, accountID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.Wrap(op, fmt.Errorf("invoice %s: %w", id, storage.ErrNotFound))
	}
	if err != nil {
		return nil, storage.Wrap(op, err)
	}

	lines, err := s.loadLines(ctx, "WHERE l.invoice_id = $1", id)
	if err != nil {
		return nil, storage.Wrap(op, err)
	}
	inv.Lines = lines[inv.ID]
	return inv, nil
}

// ListInvoices returns every invoice of the account with its lines.
func (s *PostgresStore) ListInvoices(ctx context.Context, accountID string) ([]*models.Invoice, error) {
	const op = "ListInvoices"
	if err := storage.RequireAccount(op, accountID); err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx,
		"SELECT "+invoiceColumns+" FROM invoices WHERE account_id = $1 ORDER BY created_at", accountID)
	if err != nil {
		return nil, storage.Wrap(op, fmt.Errorf("failed to query invoices: %w", err))
	}
	invoices, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*models.Invoice, error) {
		return scanInvoice(row)
	})
	if err != nil {
		return nil, storage.Wrap(op, err)
	}

	lines, err := s.loadLines(ctx,
		"JOIN invoices i ON i.id = l.invoice_id WHERE i.account_id = $1", accountID)
	if err != nil {
		return nil, storage.Wrap(op, err)
	}
	for _, inv := range invoices {
		inv.Lines = lines[inv.ID]
	}
	return invoices, nil
}

// DeleteInvoice removes an invoice; its lines cascade.
func (s *PostgresStore) DeleteInvoice(ctx context.Context, accountID, id string) error {
	const op = "DeleteInvoice"
	if err := storage.RequireAccount(op, accountID); err != nil {
		return err
	}

	tag, err := s.pool.Exec(ctx, "DELETE FROM invoices WHERE id = $1 AND account_id = $2", id, accountID)
	if err != nil {
		return storage.Wrap(op, fmt.Errorf("failed to delete invoice: %w", err))
	}
	if err := affectedOne(tag); err != nil {
		return storage.Wrap(op, fmt.Errorf("invoice %s: %w", id, err))
	}
	return nil
}

func scanInvoice(row pgx.Row) (*models.Invoice, error) {
	var (
		inv           models.Invoice
		date, dueDate *time.Time
	)
	err := row.Scan(
		&inv.ID, &inv.AccountID, &inv.SchemaVersion, &inv.Number, &inv.IsDraft, &inv.NumberDegraded,
		&inv.ClientName, &inv.ClientEmail, &date, &dueDate,
		&inv.Subtotal, &inv.Tax1, &inv.Tax2, &inv.Total,
		&inv.Tax.Enabled, &inv.Tax.Rate1, &inv.Tax.Rate2, &inv.Tax.Label1, &inv.Tax.Label2,
		&inv.Tax.Number1, &inv.Tax.Number2, &inv.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan invoice: %w", err)
	}
	inv.Date = derefTime(date)
	inv.DueDate = derefTime(dueDate)
	return &inv, nil
}

func (s *PostgresStore) loadLines(ctx context.Context, clause string, args ...any) (map[string][]models.LineItem, error) {
	rows, err := s.pool.Query(ctx,
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
			date      *time.Time
		)
		if err := rows.Scan(&invoiceID, &line.ID, &date, &line.Description, &line.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan line item: %w", err)
		}
		line.Date = derefTime(date)
		out[invoiceID] = append(out[invoiceID], line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate line items: %w", err)
	}
	return out, nil
}
