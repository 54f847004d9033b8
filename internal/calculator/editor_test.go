package calculator

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/mmynk/invoicer/internal/models"
)

func TestEditor(t *testing.T) {
	t.Run("add, edit and total", func(t *testing.T) {
		e := NewEditor(0)
		a, _ := e.AddLine()
		b, _ := e.AddLine()

		if err := e.SetAmountText(a, "10"); err != nil {
			t.Fatalf("SetAmountText failed: %v", err)
		}
		if err := e.SetAmountText(b, "20,00"); err != nil {
			t.Fatalf("SetAmountText failed: %v", err)
		}
		e.SetDate(a, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC))
		e.SetDescription(a, "Private lesson")

		got := e.Totals(models.TaxSnapshot{Enabled: true, Rate1: 5, Rate2: 9.975})
		if math.Abs(got.Total-34.4925) > 1e-9 {
			t.Errorf("Total = %v, want 34.4925", got.Total)
		}
		if ls := e.Lines(); ls[0].Description != "Private lesson" || !ls[0].HasDate() {
			t.Errorf("line 0 = %+v, want description and date set", ls[0])
		}
	})

	t.Run("typing garbage keeps editor usable", func(t *testing.T) {
		e := NewEditor(0)
		id, _ := e.AddLine()
		for _, raw := range []string{"", "abc", "1.2.3", "-4", "12."} {
			if err := e.SetAmountText(id, raw); err != nil {
				t.Fatalf("SetAmountText(%q) error: %v", raw, err)
			}
		}
		if got := e.Lines()[0].Amount; got != 12 {
			t.Errorf("Amount = %v, want 12 from last input", got)
		}
	})

	t.Run("remove recomputes", func(t *testing.T) {
		e := NewEditor(0)
		a, _ := e.AddLine()
		b, _ := e.AddLine()
		e.SetAmountText(a, "10")
		e.SetAmountText(b, "20")

		if err := e.RemoveLine(a); err != nil {
			t.Fatalf("RemoveLine failed: %v", err)
		}
		if got := e.Totals(models.TaxSnapshot{}).Subtotal; got != 20 {
			t.Errorf("Subtotal = %v, want 20", got)
		}
		if err := e.RemoveLine(a); !errors.Is(err, ErrUnknownLine) {
			t.Errorf("second RemoveLine error = %v, want ErrUnknownLine", err)
		}
	})

	t.Run("max lines enforced", func(t *testing.T) {
		e := NewEditor(2)
		e.AddLine()
		e.AddLine()
		if _, err := e.AddLine(); !errors.Is(err, ErrTooManyLines) {
			t.Errorf("AddLine error = %v, want ErrTooManyLines", err)
		}
		if e.Len() != 2 {
			t.Errorf("Len = %d, want 2", e.Len())
		}
	})

	t.Run("ids stay unique after removal", func(t *testing.T) {
		e := EditorFrom([]models.LineItem{{Amount: 5}, {Amount: 6}}, 0)
		first := e.Lines()[0].ID
		e.RemoveLine(first)
		id, _ := e.AddLine()
		if id == e.Lines()[0].ID {
			t.Errorf("AddLine reused id %q", id)
		}
	})

	t.Run("reopened lines keep distinct ids", func(t *testing.T) {
		e := EditorFrom([]models.LineItem{
			{ID: "line-1", Amount: 5},
			{ID: "line-2", Amount: 6},
			{Amount: 7},
		}, 0)
		third := e.Lines()[2].ID
		if third == "line-1" || third == "line-2" {
			t.Fatalf("unlabelled line got stored id %q", third)
		}

		id, err := e.AddLine()
		if err != nil {
			t.Fatalf("AddLine failed: %v", err)
		}
		seen := map[string]bool{}
		for _, l := range e.Lines() {
			if seen[l.ID] {
				t.Fatalf("duplicate id %q in %+v", l.ID, e.Lines())
			}
			seen[l.ID] = true
		}

		if err := e.SetAmountText(id, "100"); err != nil {
			t.Fatalf("SetAmountText failed: %v", err)
		}
		lines := e.Lines()
		if lines[0].Amount != 5 || lines[1].Amount != 6 || lines[3].Amount != 100 {
			t.Errorf("amounts = %v/%v/%v, want 5/6/100", lines[0].Amount, lines[1].Amount, lines[3].Amount)
		}
		if got := e.Totals(models.TaxSnapshot{}).Subtotal; got != 118 {
			t.Errorf("Subtotal = %v, want 118", got)
		}
	})
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{"42", 42},
		{" 42.50 ", 42.5},
		{"42,50", 42.5},
		{"42.50 $", 42.5},
		{"", 0},
		{"NaN", 0},
		{"-1", 0},
		{"ten", 0},
	}
	for _, tt := range tests {
		if got := ParseAmount(tt.raw); got != tt.want {
			t.Errorf("ParseAmount(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}
