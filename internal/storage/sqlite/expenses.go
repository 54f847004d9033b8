package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mmynk/invoicer/internal/models"
	"github.com/mmynk/invoicer/internal/storage"
)

// AddExpense persists a new expense.
func (s *SQLiteStore) AddExpense(ctx context.Context, accountID string, exp *models.Expense) error {
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

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO expenses (id, account_id, date, description, amount, category, photo, photo_type, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		exp.ID, accountID, formatDate(exp.Date), exp.Description, exp.Amount, string(exp.Category),
		exp.Photo, exp.PhotoType, exp.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return storage.Wrap(op, fmt.Errorf("failed to insert expense: %w", err))
	}
	return nil
}

// ListExpenses returns every expense of the account.
func (s *SQLiteStore) ListExpenses(ctx context.Context, accountID string) ([]*models.Expense, error) {
	const op = "ListExpenses"
	if err := storage.RequireAccount(op, accountID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, account_id, date, description, amount, category, photo, photo_type, created_at
		FROM expenses WHERE account_id = ? ORDER BY created_at`,
		accountID,
	)
	if err != nil {
		return nil, storage.Wrap(op, fmt.Errorf("failed to query expenses: %w", err))
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		var (
			exp       models.Expense
			date      sql.NullString
			category  string
			createdAt int64
		)
		if err := rows.Scan(&exp.ID, &exp.AccountID, &date, &exp.Description, &exp.Amount,
			&category, &exp.Photo, &exp.PhotoType, &createdAt); err != nil {
			return nil, storage.Wrap(op, fmt.Errorf("failed to scan expense: %w", err))
		}
		if exp.Date, err = parseDate(date); err != nil {
			return nil, storage.Wrap(op, fmt.Errorf("expense %s: bad date: %w", exp.ID, err))
		}
		exp.Category = models.ExpenseCategory(category)
		exp.CreatedAt = time.UnixMilli(createdAt).UTC()
		expenses = append(expenses, &exp)
	}
	if err := rows.Err(); err != nil {
		return nil, storage.Wrap(op, fmt.Errorf("failed to iterate expenses: %w", err))
	}
	return expenses, nil
}

// DeleteExpense removes an expense.
func (s *SQLiteStore) DeleteExpense(ctx context.Context, accountID, id string) error {
	const op = "DeleteExpense"
	if err := storage.RequireAccount(op, accountID); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, "DELETE FROM expenses WHERE id = ? AND account_id = ?", id, accountID)
	if err != nil {
		return storage.Wrap(op, fmt.Errorf("failed to delete expense: %w", err))
	}
	if err := affectedOne(res); err != nil {
		return storage.Wrap(op, fmt.Errorf("expense %s: %w", id, err))
	}
	return nil
}
