package filter

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/mmynk/invoicer/internal/models"
)

// ExpenseSort orders an expense listing.
type ExpenseSort string

const (
	ExpenseDateDesc   ExpenseSort = "date-desc"
	ExpenseDateAsc    ExpenseSort = "date-asc"
	ExpenseAmountDesc ExpenseSort = "amount-desc"
	ExpenseAmountAsc  ExpenseSort = "amount-asc"
)

// ParseExpenseSort validates a sort name. The empty string means newest first.
func ParseExpenseSort(s string) (ExpenseSort, error) {
	switch o := ExpenseSort(s); o {
	case "":
		return ExpenseDateDesc, nil
	case ExpenseDateDesc, ExpenseDateAsc, ExpenseAmountDesc, ExpenseAmountAsc:
		return o, nil
	default:
		return "", fmt.Errorf("unknown expense sort %q", s)
	}
}

// ExpenseQuery is the listing request for expenses. An empty Category
// matches every category.
type ExpenseQuery struct {
	Search   string
	Category models.ExpenseCategory
	Period   Period
	Sort     ExpenseSort
}

// Expenses applies search, category, period and sort and returns a new slice.
func Expenses(exps []*models.Expense, q ExpenseQuery, now time.Time) []*models.Expense {
	term := strings.ToLower(strings.TrimSpace(q.Search))

	out := make([]*models.Expense, 0, len(exps))
	for _, e := range exps {
		if term != "" && !matchExpense(e, term) {
			continue
		}
		if q.Category != "" && e.Category != q.Category {
			continue
		}
		if !q.Period.Contains(e.Date, now) {
			continue
		}
		out = append(out, e)
	}

	switch q.Sort {
	case ExpenseDateAsc:
		slices.SortStableFunc(out, func(a, b *models.Expense) int { return a.Date.Compare(b.Date) })
	case ExpenseAmountDesc:
		slices.SortStableFunc(out, func(a, b *models.Expense) int { return compareFloat(b.Amount, a.Amount) })
	case ExpenseAmountAsc:
		slices.SortStableFunc(out, func(a, b *models.Expense) int { return compareFloat(a.Amount, b.Amount) })
	default:
		slices.SortStableFunc(out, func(a, b *models.Expense) int { return b.Date.Compare(a.Date) })
	}
	return out
}

func matchExpense(e *models.Expense, term string) bool {
	return strings.Contains(strings.ToLower(e.Description), term) ||
		strings.Contains(formatNumber(e.Amount), term) ||
		strings.Contains(strings.ToLower(e.Category.Label()), term)
}

// TotalExpenses sums every expense amount, regardless of any filter.
func TotalExpenses(exps []*models.Expense) float64 {
	var total float64
	for _, e := range exps {
		total += e.Amount
	}
	return total
}
