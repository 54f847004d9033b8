package filter

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/mmynk/invoicer/internal/models"
)

// InvoiceSort orders an invoice listing.
type InvoiceSort string

const (
	SortDateDesc   InvoiceSort = "date-desc"
	SortDateAsc    InvoiceSort = "date-asc"
	SortClientAsc  InvoiceSort = "client-asc"
	SortClientDesc InvoiceSort = "client-desc"
	SortAmountDesc InvoiceSort = "amount-desc"
	SortAmountAsc  InvoiceSort = "amount-asc"
)

// ParseInvoiceSort validates a sort name. The empty string means newest first.
func ParseInvoiceSort(s string) (InvoiceSort, error) {
	switch o := InvoiceSort(s); o {
	case "":
		return SortDateDesc, nil
	case SortDateDesc, SortDateAsc, SortClientAsc, SortClientDesc, SortAmountDesc, SortAmountAsc:
		return o, nil
	default:
		return "", fmt.Errorf("unknown invoice sort %q", s)
	}
}

// InvoiceQuery is the listing request for invoices.
type InvoiceQuery struct {
	Search string
	Period Period
	Sort   InvoiceSort

	// OverdueOnly keeps only issued invoices past their due date.
	OverdueOnly bool
}

// Invoices applies search, period and sort to invs and returns a new slice.
// The input is not modified.
func Invoices(invs []*models.Invoice, q InvoiceQuery, now time.Time) []*models.Invoice {
	term := strings.ToLower(strings.TrimSpace(q.Search))

	out := make([]*models.Invoice, 0, len(invs))
	for _, inv := range invs {
		if term != "" && !matchInvoice(inv, term) {
			continue
		}
		if !q.Period.Contains(inv.Date, now) {
			continue
		}
		if q.OverdueOnly && !inv.IsOverdue(now) {
			continue
		}
		out = append(out, inv)
	}

	sortInvoices(out, q.Sort)
	return out
}

func matchInvoice(inv *models.Invoice, term string) bool {
	return strings.Contains(strings.ToLower(inv.ClientName), term) ||
		strings.Contains(strings.ToLower(inv.ClientEmail), term) ||
		strings.Contains(strings.ToLower(inv.NumberLabel()), term) ||
		strings.Contains(formatNumber(inv.Total), term)
}

// formatNumber renders v with the shortest exact representation, the way
// the value would be typed into a search box.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func sortInvoices(invs []*models.Invoice, order InvoiceSort) {
	switch order {
	case SortDateAsc:
		slices.SortStableFunc(invs, func(a, b *models.Invoice) int { return a.Date.Compare(b.Date) })
	case SortClientAsc, SortClientDesc:
		// Collators keep internal buffers, so each sort gets its own.
		c := collate.New(language.French)
		slices.SortStableFunc(invs, func(a, b *models.Invoice) int {
			r := c.CompareString(a.ClientName, b.ClientName)
			if order == SortClientDesc {
				return -r
			}
			return r
		})
	case SortAmountDesc:
		slices.SortStableFunc(invs, func(a, b *models.Invoice) int { return compareFloat(b.Total, a.Total) })
	case SortAmountAsc:
		slices.SortStableFunc(invs, func(a, b *models.Invoice) int { return compareFloat(a.Total, b.Total) })
	default:
		slices.SortStableFunc(invs, func(a, b *models.Invoice) int { return b.Date.Compare(a.Date) })
	}
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
