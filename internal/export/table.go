// Package export turns invoice and expense lists into spreadsheets: XLSX
// files for download and rows appended to a Google Sheet.
package export

import (
	"errors"
	"time"

	"github.com/mmynk/invoicer/internal/calculator"
	"github.com/mmynk/invoicer/internal/models"
)

// ErrEmpty is returned when there is nothing to export.
var ErrEmpty = errors.New("export: no records to export")

const dateLayout = "2006-01-02"

// Table is a sheet: a header row followed by one row per record. Cells are
// strings, ints or float64.
type Table struct {
	Name   string
	Header []string
	Rows   [][]any
}

// InvoiceTable lists one invoice per row.
func InvoiceTable(invs []*models.Invoice) (*Table, error) {
	if len(invs) == 0 {
		return nil, ErrEmpty
	}
	t := &Table{
		Name:   "Invoices",
		Header: []string{"Number", "Client", "Email", "Date", "Lines", "Total", "Status"},
	}
	for _, inv := range invs {
		status := "Invoiced"
		if inv.IsDraft {
			status = "Draft"
		}
		t.Rows = append(t.Rows, []any{
			inv.NumberLabel(),
			inv.ClientName,
			inv.ClientEmail,
			formatDate(inv.Date),
			len(inv.Lines),
			calculator.Round2(inv.Total),
			status,
		})
	}
	return t, nil
}

// ExpenseTable lists one expense per row followed by a TOTAL row summing
// every amount.
func ExpenseTable(exps []*models.Expense) (*Table, error) {
	if len(exps) == 0 {
		return nil, ErrEmpty
	}
	t := &Table{
		Name:   "Expenses",
		Header: []string{"Date", "Description", "Category", "Amount", "Photo"},
	}
	var total float64
	for _, e := range exps {
		photo := "No"
		if e.HasPhoto() {
			photo = "Yes"
		}
		t.Rows = append(t.Rows, []any{
			formatDate(e.Date),
			e.Description,
			e.Category.Label(),
			calculator.Round2(e.Amount),
			photo,
		})
		total += e.Amount
	}
	t.Rows = append(t.Rows, []any{"", "", "TOTAL", calculator.Round2(total), ""})
	return t, nil
}

// FileName returns the download name of a table exported on day now,
// e.g. Invoices_2024-03-15.xlsx.
func FileName(t *Table, now time.Time) string {
	return t.Name + "_" + now.Format(dateLayout) + ".xlsx"
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}
