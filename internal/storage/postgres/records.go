package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/mmynk/invoicer/internal/models"
	"github.com/mmynk/invoicer/internal/storage"
)

// AddExpense persists a new expense.
func (s *PostgresStore) AddExpense(ctx context.Context, accountID string, exp *models.Expense) error {
	const op = "AddExpense"
	if err := storage.RequireAccount(op, accountID); err != nil {
		return err
	}

	if exp.ID == "" {
		exp.ID = storage.NewID()
	}
	if exp.CreatedAt.IsZero() {
		exp.CreatedAt = time.Now()
	}
	exp.AccountID = accountID

	_, err := s.pool.Exec(ctx, `
		INSERT INTO expenses (id, account_id, date, description, amount, category, photo, photo_type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		exp.ID, accountID, nullTime(exp.Date), exp.Description, exp.Amount, string(exp.Category),
		exp.Photo, exp.PhotoType, exp.CreatedAt,
	)
	if err != nil {
		return storage.Wrap(op, fmt.Errorf("failed to insert expense: %w", err))
	}
	return nil
}

// ListExpenses returns every expense of the account.
func (s *PostgresStore) ListExpenses(ctx context.Context, accountID string) ([]*models.Expense, error) {
	const op = "ListExpenses"
	if err := storage.RequireAccount(op, accountID); err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, account_id, date, description, amount, category, photo, photo_type, created_at
		FROM expenses WHERE account_id = $1 ORDER BY created_at`,
		accountID,
	)
	if err != nil {
		return nil, storage.Wrap(op, fmt.Errorf("failed to query expenses: %w", err))
	}
	expenses, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*models.Expense, error) {
		var (
			exp      models.Expense
			date     *time.Time
			category string
		)
		if err := row.Scan(&exp.ID, &exp.AccountID, &date, &exp.Description, &exp.Amount,
			&category, &exp.Photo, &exp.PhotoType, &exp.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		exp.Date = derefTime(date)
		exp.Category = models.ExpenseCategory(category)
		return &exp, nil
	})
	if err != nil {
		return nil, storage.Wrap(op, err)
	}
	return expenses, nil
}

// DeleteExpense removes an expense.
func (s *PostgresStore) DeleteExpense(ctx context.Context, accountID, id string) error {
	const op = "DeleteExpense"
	if err := storage.RequireAccount(op, accountID); err != nil {
		return err
	}

	tag, err := s.pool.Exec(ctx, "DELETE FROM expenses WHERE id = $1 AND account_id = $2", id, accountID)
	if err != nil {
		return storage.Wrap(op, fmt.Errorf("failed to delete expense: %w", err))
	}
	if err := affectedOne(tag); err != nil {
		return storage.Wrap(op, fmt.Errorf("expense %s: %w", id, err))
	}
	return nil
}

// UpsertClient inserts a client or renames the one sharing its email key.
func (s *PostgresStore) UpsertClient(ctx context.Context, accountID string, c *models.Client) (bool, error) {
	const op = "UpsertClient"
	if err := storage.RequireAccount(op, accountID); err != nil {
		return false, err
	}

	var updatedAt *time.Time
	err := s.pool.QueryRow(ctx, `
		INSERT INTO clients (id, account_id, name, email, email_key, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (account_id, email_key) DO UPDATE
			SET name = EXCLUDED.name, email = EXCLUDED.email, updated_at = NOW()
		RETURNING id, created_at, updated_at`,
		storage.NewID(), accountID, c.Name, c.Email, models.NormalizeEmail(c.Email),
	).Scan(&c.ID, &c.CreatedAt, &updatedAt)
	if err != nil {
		return false, storage.Wrap(op, fmt.Errorf("failed to upsert client: %w", err))
	}

	c.AccountID = accountID
	c.UpdatedAt = derefTime(updatedAt)
	return updatedAt == nil, nil
}

// ListClients returns the account's clients ordered by name.
func (s *PostgresStore) ListClients(ctx context.Context, accountID string) ([]*models.Client, error) {
	const op = "ListClients"
	if err := storage.RequireAccount(op, accountID); err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, account_id, name, email, created_at, updated_at
		FROM clients WHERE account_id = $1 ORDER BY name`,
		accountID,
	)
	if err != nil {
		return nil, storage.Wrap(op, fmt.Errorf("failed to query clients: %w", err))
	}
	clients, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*models.Client, error) {
		var (
			c         models.Client
			updatedAt *time.Time
		)
		if err := row.Scan(&c.ID, &c.AccountID, &c.Name, &c.Email, &c.CreatedAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		c.UpdatedAt = derefTime(updatedAt)
		return &c, nil
	})
	if err != nil {
		return nil, storage.Wrap(op, err)
	}
	return clients, nil
}

// DeleteClient removes a client.
func (s *PostgresStore) DeleteClient(ctx context.Context, accountID, id string) error {
	const op = "DeleteClient"
	if err := storage.RequireAccount(op, accountID); err != nil {
		return err
	}

	tag, err := s.pool.Exec(ctx, "DELETE FROM clients WHERE id = $1 AND account_id = $2", id, accountID)
	if err != nil {
		return storage.Wrap(op, fmt.Errorf("failed to delete client: %w", err))
	}
	if err := affectedOne(tag); err != nil {
		return storage.Wrap(op, fmt.Errorf("client %s: %w", id, err))
	}
	return nil
}
