package calculator

import (
	"math"
	"testing"

	"github.com/mmynk/invoicer/internal/models"
)

func lines(amounts ...float64) []models.LineItem {
	out := make([]models.LineItem, len(amounts))
	for i, a := range amounts {
		out[i] = models.LineItem{Amount: a}
	}
	return out
}

func TestComputeTotals(t *testing.T) {
	quebec := models.TaxSnapshot{Enabled: true, Rate1: 5, Rate2: 9.975}

	tests := []struct {
		name  string
		lines []models.LineItem
		tax   models.TaxSnapshot
		want  Totals
	}{
		{
			name:  "taxes enabled",
			lines: lines(10, 20),
			tax:   quebec,
			want:  Totals{Subtotal: 30, Tax1: 1.5, Tax2: 2.9925, Total: 34.4925},
		},
		{
			name:  "taxes disabled",
			lines: lines(10, 20),
			tax:   models.TaxSnapshot{Rate1: 5, Rate2: 9.975},
			want:  Totals{Subtotal: 30, Total: 30},
		},
		{
			name:  "invalid amounts count as zero",
			lines: lines(10, math.NaN(), -5, math.Inf(1)),
			tax:   models.TaxSnapshot{},
			want:  Totals{Subtotal: 10, Total: 10},
		},
		{
			name:  "no lines",
			lines: nil,
			tax:   quebec,
			want:  Totals{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeTotals(tt.lines, tt.tax)
			if math.Abs(got.Subtotal-tt.want.Subtotal) > 1e-9 {
				t.Errorf("Subtotal = %v, want %v", got.Subtotal, tt.want.Subtotal)
			}
			if math.Abs(got.Tax1-tt.want.Tax1) > 1e-9 {
				t.Errorf("Tax1 = %v, want %v", got.Tax1, tt.want.Tax1)
			}
			if math.Abs(got.Tax2-tt.want.Tax2) > 1e-9 {
				t.Errorf("Tax2 = %v, want %v", got.Tax2, tt.want.Tax2)
			}
			if math.Abs(got.Total-tt.want.Total) > 1e-9 {
				t.Errorf("Total = %v, want %v", got.Total, tt.want.Total)
			}
		})
	}
}

func TestTotalEqualsSubtotalWithoutTaxes(t *testing.T) {
	ls := lines(0.1, 0.2, 0.3, 19.99, 1e6)
	got := ComputeTotals(ls, models.TaxSnapshot{})
	if got.Total != got.Subtotal {
		t.Errorf("Total = %v, Subtotal = %v; want exactly equal", got.Total, got.Subtotal)
	}
}

func TestTotalIsSumOfParts(t *testing.T) {
	got := ComputeTotals(lines(12.34, 56.78, 0.01), models.TaxSnapshot{Enabled: true, Rate1: 5, Rate2: 9.975})
	if got.Total != got.Subtotal+got.Tax1+got.Tax2 {
		t.Errorf("Total = %v, want Subtotal+Tax1+Tax2 = %v", got.Total, got.Subtotal+got.Tax1+got.Tax2)
	}
}

func TestFormatting(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{34.4925, "34.49"},
		{2.9925, "2.99"},
		{1.5, "1.50"},
		{2.675, "2.68"},
		{0, "0.00"},
	}
	for _, tt := range tests {
		if got := FormatAmount(tt.in); got != tt.want {
			t.Errorf("FormatAmount(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if got := FormatMoney(34.4925); got != "34.49 $" {
		t.Errorf("FormatMoney = %q, want %q", got, "34.49 $")
	}
	if got := Round2(34.4925); got != 34.49 {
		t.Errorf("Round2 = %v, want 34.49", got)
	}
}
