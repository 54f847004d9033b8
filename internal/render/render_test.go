package render

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/mmynk/invoicer/internal/models"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sampleInvoice(lines int) *models.Invoice {
	inv := &models.Invoice{
		Number:      1000,
		ClientName:  "Marie Tremblay",
		ClientEmail: "marie@example.com",
		Date:        day(2024, time.January, 1),
		DueDate:     day(2024, time.January, 31),
		Tax: models.TaxSnapshot{
			Enabled: true, Rate1: 5, Rate2: 9.975, Label1: "GST", Label2: "QST", Number1: "123456789RT0001",
		},
	}
	for i := 0; i < lines; i++ {
		inv.Lines = append(inv.Lines, models.LineItem{
			Date:        day(2024, time.January, 1+i%28),
			Description: fmt.Sprintf("Session %d", i+1),
			Amount:      10,
		})
		inv.Subtotal += 10
	}
	inv.Tax1 = inv.Subtotal * 5 / 100
	inv.Tax2 = inv.Subtotal * 9.975 / 100
	inv.Total = inv.Subtotal + inv.Tax1 + inv.Tax2
	return inv
}

func sampleProfile() *models.Profile {
	return &models.Profile{
		Name:          "Studio Nord & Fils",
		BusinessType:  "Yoga instructor",
		ServiceLabel:  "Private lessons",
		Address:       "123 rue Saint-Denis, Montréal",
		Phone:         "514-555-0100",
		Email:         "studio@example.com",
		PaymentMethod: "Interac e-Transfer",
	}
}

func TestRender(t *testing.T) {
	doc, err := NewPDF().Render(sampleInvoice(2), sampleProfile())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !bytes.HasPrefix(doc, []byte("%PDF-")) {
		t.Errorf("document does not start with a PDF header: %q", doc[:min(len(doc), 8)])
	}
}

func TestRenderWithoutProfile(t *testing.T) {
	doc, err := NewPDF().Render(sampleInvoice(1), nil)
	if !errors.Is(err, ErrProfileMissing) {
		t.Fatalf("Render error = %v, want ErrProfileMissing", err)
	}
	if doc != nil {
		t.Error("Render returned a partial document")
	}
}

func TestRenderPaginates(t *testing.T) {
	tests := []struct {
		lines int
		pages int
	}{
		{1, 1},
		{5, 1},
		{20, 2},
		{40, 3},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d lines", tt.lines), func(t *testing.T) {
			pdf, err := NewPDF().draw(sampleInvoice(tt.lines), sampleProfile())
			if err != nil {
				t.Fatalf("draw failed: %v", err)
			}
			if got := pdf.PageCount(); got != tt.pages {
				t.Errorf("PageCount() = %d, want %d", got, tt.pages)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("é", 60)
	got := Truncate(long, MaxDescriptionRunes)
	if want := strings.Repeat("é", 50) + "..."; got != want {
		t.Errorf("Truncate() = %q, want %q", got, want)
	}
	if got := Truncate("short", MaxDescriptionRunes); got != "short" {
		t.Errorf("Truncate(short) = %q", got)
	}
	exact := strings.Repeat("a", 50)
	if got := Truncate(exact, MaxDescriptionRunes); got != exact {
		t.Errorf("Truncate(50 runes) = %q, want unchanged", got)
	}
}

func TestTaxLines(t *testing.T) {
	inv := sampleInvoice(3)
	lines := TaxLines(inv)
	if len(lines) != 2 {
		t.Fatalf("TaxLines() = %d rows, want 2", len(lines))
	}
	if lines[0].Label != "GST (5%)" || lines[1].Label != "QST (9.975%)" {
		t.Errorf("labels = %q, %q", lines[0].Label, lines[1].Label)
	}
	if lines[0].Number != "123456789RT0001" || lines[1].Number != "" {
		t.Errorf("numbers = %q, %q", lines[0].Number, lines[1].Number)
	}

	inv.Tax2 = 0
	if got := TaxLines(inv); len(got) != 1 {
		t.Errorf("TaxLines() with zero QST = %d rows, want 1", len(got))
	}

	inv.Tax.Enabled = false
	if got := TaxLines(inv); got != nil {
		t.Errorf("TaxLines() with taxes off = %v, want none", got)
	}
}

func TestEmail(t *testing.T) {
	inv := sampleInvoice(2)
	inv.ClientName = "<Marie>"
	profile := sampleProfile()

	if got, want := EmailSubject(inv, profile), "Invoice #1000 - Studio Nord & Fils"; got != want {
		t.Errorf("EmailSubject() = %q, want %q", got, want)
	}

	body, err := EmailBody(inv, profile)
	if err != nil {
		t.Fatalf("EmailBody failed: %v", err)
	}
	for _, want := range []string{
		"Hello &lt;Marie&gt;,",
		"#1000",
		"January 1, 2024",
		"January 31, 2024",
		"Total: 23.00 $",
		"Payment by: Interac e-Transfer",
		"Studio Nord &amp; Fils",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}

	if _, err := EmailBody(inv, nil); !errors.Is(err, ErrProfileMissing) {
		t.Errorf("EmailBody without profile error = %v, want ErrProfileMissing", err)
	}
}
