package invoicing

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mmynk/invoicer/internal/clock"
	"github.com/mmynk/invoicer/internal/filter"
	"github.com/mmynk/invoicer/internal/metrics"
	"github.com/mmynk/invoicer/internal/models"
	"github.com/mmynk/invoicer/internal/storage"
)

// DefaultMaxPhotoBytes keeps an inline receipt under the document store's
// per-record limit.
const DefaultMaxPhotoBytes = 900 * 1024

// ExpenseForm is the input of Add.
type ExpenseForm struct {
	Date        time.Time
	Description string
	Amount      float64
	Category    string

	// Photo is an optional receipt image.
	Photo     []byte
	PhotoType string
}

// ExpenseListing is the result of List. Total sums every expense of the
// account and ignores the query; FilteredTotal sums the listed ones.
type ExpenseListing struct {
	Expenses      []*models.Expense
	Total         float64
	FilteredTotal float64
	Unavailable   bool
}

// Ledger records and lists expenses.
type Ledger struct {
	store         storage.ExpenseStore
	clock         clock.Clock
	metrics       *metrics.Metrics
	maxPhotoBytes int
}

// NewLedger creates a Ledger. maxPhotoBytes <= 0 uses DefaultMaxPhotoBytes.
func NewLedger(store storage.ExpenseStore, c clock.Clock, mt *metrics.Metrics, maxPhotoBytes int) *Ledger {
	if c == nil {
		c = clock.SystemClock{}
	}
	if maxPhotoBytes <= 0 {
		maxPhotoBytes = DefaultMaxPhotoBytes
	}
	return &Ledger{store: store, clock: c, metrics: mt, maxPhotoBytes: maxPhotoBytes}
}

// Add validates and persists an expense.
func (l *Ledger) Add(ctx context.Context, accountID string, form ExpenseForm) (*models.Expense, error) {
	if form.Date.IsZero() {
		return nil, invalid("date", "date is required")
	}
	description := strings.TrimSpace(form.Description)
	if description == "" {
		return nil, invalid("description", "description is required")
	}
	if !(form.Amount > 0) {
		return nil, invalid("amount", "amount must be greater than zero")
	}
	category, err := models.ParseExpenseCategory(form.Category)
	if err != nil {
		return nil, invalid("category", "%v", err)
	}

	exp := &models.Expense{
		Date:        form.Date,
		Description: description,
		Amount:      form.Amount,
		Category:    category,
		CreatedAt:   l.clock.Now(),
	}
	if len(form.Photo) > 0 {
		if len(form.Photo) > l.maxPhotoBytes {
			return nil, invalid("photo", "photo is larger than %d bytes", l.maxPhotoBytes)
		}
		photoType := form.PhotoType
		if photoType == "" {
			photoType = http.DetectContentType(form.Photo)
		}
		if !strings.HasPrefix(photoType, "image/") {
			return nil, invalid("photo", "photo must be an image, got %s", photoType)
		}
		exp.Photo = form.Photo
		exp.PhotoType = photoType
	}

	if err := l.store.AddExpense(ctx, accountID, exp); err != nil {
		return nil, err
	}
	slog.Info("Expense added",
		"account_id", accountID,
		"expense_id", exp.ID,
		"category", exp.Category,
		"has_photo", exp.HasPhoto(),
	)
	return exp, nil
}

// Delete removes an expense permanently.
func (l *Ledger) Delete(ctx context.Context, accountID, id string) error {
	if err := l.store.DeleteExpense(ctx, accountID, id); err != nil {
		return err
	}
	slog.Info("Expense deleted", "account_id", accountID, "expense_id", id)
	return nil
}

// List returns the expenses matching q with the account totals.
func (l *Ledger) List(ctx context.Context, accountID string, q filter.ExpenseQuery) (*ExpenseListing, error) {
	if err := storage.RequireAccount("ListExpenses", accountID); err != nil {
		return nil, err
	}
	exps, err := l.store.ListExpenses(ctx, accountID)
	if err != nil {
		if storage.IsUnavailable(err) {
			l.metrics.StorageUnavailable("expenses")
			slog.Warn("Store unavailable, serving empty listing",
				"entity", "expenses",
				"account_id", accountID,
				"error", err,
			)
			return &ExpenseListing{Unavailable: true}, nil
		}
		return nil, err
	}

	matched := filter.Expenses(exps, q, l.clock.Now())
	return &ExpenseListing{
		Expenses:      matched,
		Total:         filter.TotalExpenses(exps),
		FilteredTotal: filter.TotalExpenses(matched),
	}, nil
}

// All returns every expense of the account, newest first, for export.
func (l *Ledger) All(ctx context.Context, accountID string) ([]*models.Expense, error) {
	exps, err := l.store.ListExpenses(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return filter.Expenses(exps, filter.ExpenseQuery{}, l.clock.Now()), nil
}
