// Package render produces the documents derived from an issued invoice: the
// PDF attached to emails and downloads, and the HTML email body.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/go-pdf/fpdf"

	"github.com/mmynk/invoicer/internal/calculator"
	"github.com/mmynk/invoicer/internal/models"
)

// ErrProfileMissing is returned when rendering without an issuer profile.
// No partial document is produced.
var ErrProfileMissing = errors.New("render: issuer profile is not configured")

const (
	// MaxDescriptionRunes bounds a line description in the table.
	MaxDescriptionRunes = 50

	pageBottom = 270.0
	rowHeight  = 10.0

	// totalsHeight covers the totals, tax numbers and payment terms.
	totalsHeight = 75.0
	dateLayout   = "January 2, 2006"
)

// PDF renders invoices as A4 documents.
type PDF struct{}

func NewPDF() *PDF {
	return &PDF{}
}

// Render draws the invoice with the issuer block of profile and the tax
// snapshot stored on the invoice.
func (r *PDF) Render(inv *models.Invoice, profile *models.Profile) ([]byte, error) {
	pdf, err := r.draw(inv, profile)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render: failed to write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *PDF) draw(inv *models.Invoice, profile *models.Profile) (*fpdf.Fpdf, error) {
	if profile == nil {
		return nil, ErrProfileMissing
	}
	if inv == nil {
		return nil, errors.New("render: nil invoice")
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Invoice "+inv.NumberLabel(), true)
	pdf.SetAuthor(profile.Name, true)
	pdf.SetAutoPageBreak(false, 15)
	pdf.AliasNbPages("")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-20)
		pdf.SetFont("Helvetica", "I", 9)
		pdf.SetTextColor(120, 120, 120)
		pdf.CellFormat(0, 5, tr("Thank you for your business!"), "", 1, "C", false, 0, "")
		pdf.CellFormat(0, 5, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	drawHeader(pdf, tr, inv, profile)
	drawClient(pdf, tr, inv)

	label := profile.ServiceLabel
	if label == "" {
		label = "Services"
	}
	pdf.SetXY(15, 85)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(44, 62, 80)
	pdf.CellFormat(0, 8, tr(label), "", 1, "L", false, 0, "")

	drawTableHeader(pdf)
	for i, line := range inv.Lines {
		if pdf.GetY()+rowHeight > pageBottom {
			pdf.AddPage()
			pdf.SetY(20)
			drawTableHeader(pdf)
		}
		drawLine(pdf, tr, i, line)
	}

	// Totals, tax numbers and payment terms stay together.
	if pdf.GetY()+totalsHeight > pageBottom {
		pdf.AddPage()
		pdf.SetY(20)
	}
	drawTotals(pdf, tr, inv)
	drawPayment(pdf, tr, profile)

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("render: failed to draw invoice: %w", err)
	}
	return pdf, nil
}

func drawHeader(pdf *fpdf.Fpdf, tr func(string) string, inv *models.Invoice, p *models.Profile) {
	pdf.SetTextColor(44, 62, 80)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Text(15, 20, tr(p.Name))

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(80, 80, 80)
	y := 27.0
	for _, s := range []string{p.BusinessType, p.Address, prefixed("Phone: ", p.Phone), prefixed("Email: ", p.Email)} {
		if s == "" {
			continue
		}
		pdf.Text(15, y, tr(s))
		y += 6
	}

	pdf.SetTextColor(44, 62, 80)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Text(140, 20, "Invoice #"+inv.NumberLabel())
	pdf.SetFont("Helvetica", "", 10)
	pdf.Text(140, 27, "Date: "+FormatDate(inv.Date))
	if !inv.DueDate.IsZero() {
		pdf.Text(140, 34, "Due: "+FormatDate(inv.DueDate))
	}
}

func drawClient(pdf *fpdf.Fpdf, tr func(string) string, inv *models.Invoice) {
	pdf.SetTextColor(44, 62, 80)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.Text(15, 60, "Bill to:")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(0, 0, 0)
	pdf.Text(15, 67, tr(inv.ClientName))
	if inv.ClientEmail != "" {
		pdf.Text(15, 73, tr(inv.ClientEmail))
	}
}

func drawTableHeader(pdf *fpdf.Fpdf) {
	pdf.SetX(15)
	pdf.SetFillColor(52, 73, 94)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(40, rowHeight, "Date", "", 0, "L", true, 0, "")
	pdf.CellFormat(105, rowHeight, "Description", "", 0, "L", true, 0, "")
	pdf.CellFormat(35, rowHeight, "Amount", "", 1, "R", true, 0, "")
}

func drawLine(pdf *fpdf.Fpdf, tr func(string) string, i int, line models.LineItem) {
	if i%2 == 0 {
		pdf.SetFillColor(245, 246, 250)
	} else {
		pdf.SetFillColor(255, 255, 255)
	}
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetX(15)

	date := ""
	if line.HasDate() {
		date = FormatDate(line.Date)
	}
	pdf.CellFormat(40, rowHeight, date, "", 0, "L", true, 0, "")
	pdf.CellFormat(105, rowHeight, tr(Truncate(line.Description, MaxDescriptionRunes)), "", 0, "L", true, 0, "")
	pdf.CellFormat(35, rowHeight, calculator.FormatMoney(line.Amount), "", 1, "R", true, 0, "")
}

func drawTotals(pdf *fpdf.Fpdf, tr func(string) string, inv *models.Invoice) {
	pdf.Ln(6)
	row := func(label, value string) {
		pdf.SetX(120)
		pdf.CellFormat(40, 7, tr(label), "", 0, "L", false, 0, "")
		pdf.CellFormat(35, 7, value, "", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(0, 0, 0)
	row("Subtotal:", calculator.FormatMoney(inv.Subtotal))

	for _, t := range TaxLines(inv) {
		pdf.SetFont("Helvetica", "", 11)
		row(t.Label+":", calculator.FormatMoney(t.Amount))
		if t.Number != "" {
			pdf.SetFont("Helvetica", "", 8)
			pdf.SetTextColor(100, 100, 100)
			pdf.SetX(120)
			pdf.CellFormat(75, 5, tr("# "+t.Name+": "+t.Number), "", 1, "L", false, 0, "")
			pdf.SetTextColor(0, 0, 0)
		}
	}

	pdf.Ln(3)
	pdf.SetX(15)
	pdf.SetFillColor(44, 62, 80)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(145, 10, "TOTAL", "", 0, "L", true, 0, "")
	pdf.CellFormat(35, 10, calculator.FormatMoney(inv.Total), "", 1, "R", true, 0, "")
}

func drawPayment(pdf *fpdf.Fpdf, tr func(string) string, p *models.Profile) {
	if p.PaymentMethod == "" && p.Email == "" {
		return
	}
	pdf.Ln(10)
	pdf.SetX(15)
	pdf.SetTextColor(44, 62, 80)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 7, "Payment terms:", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(0, 0, 0)
	if p.PaymentMethod != "" {
		pdf.SetX(15)
		pdf.MultiCell(180, 6, tr("Payment by: "+p.PaymentMethod), "", "L", false)
	}
	if p.Email != "" {
		pdf.SetX(15)
		pdf.CellFormat(0, 6, tr("Send to: "+p.Email), "", 1, "L", false, 0, "")
	}
}

// TaxLine is one tax row of the totals block.
type TaxLine struct {
	Name   string // e.g. GST
	Label  string // e.g. GST (5%)
	Amount float64
	Number string
}

// TaxLines returns the tax rows to print: none when taxes are disabled, and
// only the taxes with a positive amount otherwise.
func TaxLines(inv *models.Invoice) []TaxLine {
	if !inv.Tax.Enabled {
		return nil
	}
	var out []TaxLine
	if inv.Tax1 > 0 {
		out = append(out, TaxLine{
			Name:   inv.Tax.Label1,
			Label:  fmt.Sprintf("%s (%s%%)", inv.Tax.Label1, formatRate(inv.Tax.Rate1)),
			Amount: inv.Tax1,
			Number: inv.Tax.Number1,
		})
	}
	if inv.Tax2 > 0 {
		out = append(out, TaxLine{
			Name:   inv.Tax.Label2,
			Label:  fmt.Sprintf("%s (%s%%)", inv.Tax.Label2, formatRate(inv.Tax.Rate2)),
			Amount: inv.Tax2,
			Number: inv.Tax.Number2,
		})
	}
	return out
}

func formatRate(r float64) string {
	return strconv.FormatFloat(r, 'f', -1, 64)
}

// Truncate shortens s to max runes followed by "...".
func Truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max]) + "..."
}

// FormatDate renders a calendar date the way documents show it.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

func prefixed(prefix, s string) string {
	if s == "" {
		return ""
	}
	return prefix + s
}
