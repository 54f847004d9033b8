package models

import (
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNormalizeDueDate(t *testing.T) {
	inv := &Invoice{Date: day(2024, 1, 1), SchemaVersion: 1}
	inv.Normalize()

	if want := day(2024, 1, 31); !inv.DueDate.Equal(want) {
		t.Errorf("DueDate = %v, want %v", inv.DueDate, want)
	}
	if inv.SchemaVersion != InvoiceSchemaVersion {
		t.Errorf("SchemaVersion = %d, want %d", inv.SchemaVersion, InvoiceSchemaVersion)
	}
	if inv.Tax.Label1 != DefaultTaxLabel1 || inv.Tax.Label2 != DefaultTaxLabel2 {
		t.Errorf("tax labels = %q/%q, want defaults", inv.Tax.Label1, inv.Tax.Label2)
	}
}

func TestNormalizeKeepsExplicitDueDate(t *testing.T) {
	inv := &Invoice{Date: day(2024, 1, 1), DueDate: day(2024, 1, 15)}
	inv.Normalize()
	if !inv.DueDate.Equal(day(2024, 1, 15)) {
		t.Errorf("DueDate = %v, want 2024-01-15", inv.DueDate)
	}
}

func TestIsOverdue(t *testing.T) {
	now := time.Date(2024, 3, 10, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		inv  Invoice
		want bool
	}{
		{"due yesterday", Invoice{Number: 1000, DueDate: day(2024, 3, 9)}, true},
		{"due today", Invoice{Number: 1000, DueDate: day(2024, 3, 10)}, false},
		{"due tomorrow", Invoice{Number: 1000, DueDate: day(2024, 3, 11)}, false},
		{"draft past due", Invoice{IsDraft: true, DueDate: day(2024, 1, 1)}, false},
		{"no due date", Invoice{Number: 1000}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.inv.IsOverdue(now); got != tt.want {
				t.Errorf("IsOverdue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInvoiceFileName(t *testing.T) {
	inv := &Invoice{Number: 1042, ClientName: "Marie Claire Dubois"}
	if got, want := InvoiceFileName(inv), "Invoice_1042_Marie_Claire_Dubois.pdf"; got != want {
		t.Errorf("InvoiceFileName() = %q, want %q", got, want)
	}

	draft := &Invoice{IsDraft: true, ClientName: "Acme"}
	if got, want := InvoiceFileName(draft), "Invoice_DRAFT_Acme.pdf"; got != want {
		t.Errorf("InvoiceFileName(draft) = %q, want %q", got, want)
	}
}

func TestProfileNormalize(t *testing.T) {
	p := &Profile{Name: "Studio"}
	p.Normalize()
	if p.TaxRate1 != 5 || p.TaxRate2 != 9.975 {
		t.Errorf("rates = %v/%v, want 5/9.975", p.TaxRate1, p.TaxRate2)
	}

	custom := &Profile{TaxRate1: 6, TaxRate2: 8, TaxLabel1: "HST"}
	custom.Normalize()
	if custom.TaxRate1 != 6 || custom.TaxRate2 != 8 || custom.TaxLabel1 != "HST" {
		t.Errorf("custom settings overwritten: %+v", custom)
	}
}

func TestParseExpenseCategory(t *testing.T) {
	tests := []struct {
		in      string
		want    ExpenseCategory
		wantErr bool
	}{
		{"equipment", CategoryEquipment, false},
		{"deplacement", CategoryTravel, false},
		{"autre", CategoryOther, false},
		{"groceries", "", true},
	}
	for _, tt := range tests {
		got, err := ParseExpenseCategory(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseExpenseCategory(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseExpenseCategory(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
