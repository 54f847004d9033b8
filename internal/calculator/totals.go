// Package calculator holds the money math for invoices: line totals, tax
// amounts and display rounding, plus the in-memory line-item editor.
package calculator

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/mmynk/invoicer/internal/models"
)

// Totals is the computed money block of an invoice. Values keep full
// float64 precision; round only for display.
type Totals struct {
	Subtotal float64
	Tax1     float64
	Tax2     float64
	Total    float64
}

// ComputeTotals sums the line amounts and applies the two tax rates when
// taxes are enabled. Invalid amounts (negative, NaN, infinite) count as zero.
// Total is always Subtotal + Tax1 + Tax2, with taxes zero when disabled.
func ComputeTotals(lines []models.LineItem, tax models.TaxSnapshot) Totals {
	var t Totals
	for _, l := range lines {
		t.Subtotal += sanitize(l.Amount)
	}
	if tax.Enabled {
		t.Tax1 = t.Subtotal * tax.Rate1 / 100
		t.Tax2 = t.Subtotal * tax.Rate2 / 100
	}
	t.Total = t.Subtotal + t.Tax1 + t.Tax2
	return t
}

// Apply copies the totals onto an invoice.
func (t Totals) Apply(inv *models.Invoice) {
	inv.Subtotal = t.Subtotal
	inv.Tax1 = t.Tax1
	inv.Tax2 = t.Tax2
	inv.Total = t.Total
}

func sanitize(amount float64) float64 {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount < 0 {
		return 0
	}
	return amount
}

// Round2 rounds to cents, half away from zero, on the shortest decimal
// representation of v (so 34.4925 rounds to 34.49 and 2.675 to 2.68).
func Round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// FormatAmount renders v with exactly two decimals, e.g. "34.49".
func FormatAmount(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// FormatMoney renders v as shown on documents and listings, e.g. "34.49 $".
func FormatMoney(v float64) string {
	return FormatAmount(v) + " $"
}
