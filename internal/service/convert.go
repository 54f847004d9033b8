package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/mmynk/invoicer/internal/calculator"
	"github.com/mmynk/invoicer/internal/invoicing"
	"github.com/mmynk/invoicer/internal/models"
	"github.com/mmynk/invoicer/pkg/api"
)

// parseDate reads an optional wire date. Empty input is the zero time.
func parseDate(field, s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(api.DateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, &invoicing.ValidationError{Field: field, Message: "expected a date like 2024-01-31"}
	}
	return t, nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(api.DateLayout)
}

func unix(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}

// editLines replays the wire lines through the line-item editor, which
// enforces the line cap and parses the typed amounts.
func editLines(lines []api.Line, maxLines int) ([]models.LineItem, error) {
	ed := calculator.NewEditor(maxLines)
	for i, l := range lines {
		date, err := parseDate(fmt.Sprintf("lines[%d].date", i), l.Date)
		if err != nil {
			return nil, err
		}
		id, err := ed.AddLine()
		if err != nil {
			return nil, err
		}
		// The ID comes from AddLine, so the setters cannot miss.
		_ = ed.SetDate(id, date)
		_ = ed.SetDescription(id, l.Description)
		_ = ed.SetAmountText(id, l.Amount)
	}
	return ed.Lines(), nil
}

func formFromAPI(f api.InvoiceForm, maxLines int) (invoicing.Form, error) {
	date, err := parseDate("date", f.Date)
	if err != nil {
		return invoicing.Form{}, err
	}
	due, err := parseDate("due_date", f.DueDate)
	if err != nil {
		return invoicing.Form{}, err
	}
	lines, err := editLines(f.Lines, maxLines)
	if err != nil {
		return invoicing.Form{}, err
	}
	return invoicing.Form{
		ClientName:  f.ClientName,
		ClientEmail: f.ClientEmail,
		Date:        date,
		DueDate:     due,
		Lines:       lines,
	}, nil
}

func toAPIAmounts(t calculator.Totals) api.Amounts {
	return api.Amounts{Subtotal: t.Subtotal, Tax1: t.Tax1, Tax2: t.Tax2, Total: t.Total}
}

func roundedAmounts(t calculator.Totals) api.Amounts {
	return api.Amounts{
		Subtotal: calculator.Round2(t.Subtotal),
		Tax1:     calculator.Round2(t.Tax1),
		Tax2:     calculator.Round2(t.Tax2),
		Total:    calculator.Round2(t.Total),
	}
}

func toAPIInvoice(inv *models.Invoice, overdue bool) *api.Invoice {
	totals := calculator.Totals{Subtotal: inv.Subtotal, Tax1: inv.Tax1, Tax2: inv.Tax2, Total: inv.Total}
	lines := make([]api.Line, len(inv.Lines))
	for i, l := range inv.Lines {
		lines[i] = api.Line{
			ID:          l.ID,
			Date:        formatDate(l.Date),
			Description: l.Description,
			Amount:      calculator.FormatAmount(l.Amount),
		}
	}
	return &api.Invoice{
		ID:             inv.ID,
		Number:         inv.Number,
		Label:          inv.NumberLabel(),
		IsDraft:        inv.IsDraft,
		NumberDegraded: inv.NumberDegraded,
		ClientName:     inv.ClientName,
		ClientEmail:    inv.ClientEmail,
		Date:           formatDate(inv.Date),
		DueDate:        formatDate(inv.DueDate),
		Lines:          lines,
		Amounts:        toAPIAmounts(totals),
		Display:        roundedAmounts(totals),
		TotalText:      calculator.FormatMoney(inv.Total),
		Tax: api.TaxInfo{
			Enabled: inv.Tax.Enabled,
			Rate1:   inv.Tax.Rate1,
			Rate2:   inv.Tax.Rate2,
			Label1:  inv.Tax.Label1,
			Label2:  inv.Tax.Label2,
			Number1: inv.Tax.Number1,
			Number2: inv.Tax.Number2,
		},
		Overdue:   overdue,
		CreatedAt: unix(inv.CreatedAt),
	}
}

func toAPIExpense(e *models.Expense, withPhoto bool) *api.Expense {
	out := &api.Expense{
		ID:            e.ID,
		Date:          formatDate(e.Date),
		Description:   e.Description,
		Amount:        e.Amount,
		Category:      string(e.Category),
		CategoryLabel: e.Category.Label(),
		HasPhoto:      e.HasPhoto(),
		CreatedAt:     unix(e.CreatedAt),
	}
	if withPhoto && e.HasPhoto() {
		out.Photo = e.Photo
		out.PhotoType = e.PhotoType
	}
	return out
}

func toAPIClient(c *models.Client) *api.Client {
	return &api.Client{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		CreatedAt: unix(c.CreatedAt),
		UpdatedAt: unix(c.UpdatedAt),
	}
}

func toAPIProfile(p *models.Profile) *api.Profile {
	if p == nil {
		return nil
	}
	return &api.Profile{
		Name:          p.Name,
		BusinessType:  p.BusinessType,
		ServiceLabel:  p.ServiceLabel,
		Address:       p.Address,
		Phone:         p.Phone,
		Email:         p.Email,
		PaymentMethod: p.PaymentMethod,
		TaxesEnabled:  p.TaxesEnabled,
		TaxRate1:      p.TaxRate1,
		TaxRate2:      p.TaxRate2,
		TaxLabel1:     p.TaxLabel1,
		TaxLabel2:     p.TaxLabel2,
		TaxNumber1:    p.TaxNumber1,
		TaxNumber2:    p.TaxNumber2,
		UpdatedAt:     unix(p.UpdatedAt),
	}
}

func profileFromAPI(p api.Profile) *models.Profile {
	return &models.Profile{
		Name:          strings.TrimSpace(p.Name),
		BusinessType:  strings.TrimSpace(p.BusinessType),
		ServiceLabel:  strings.TrimSpace(p.ServiceLabel),
		Address:       strings.TrimSpace(p.Address),
		Phone:         strings.TrimSpace(p.Phone),
		Email:         strings.TrimSpace(p.Email),
		PaymentMethod: strings.TrimSpace(p.PaymentMethod),
		TaxesEnabled:  p.TaxesEnabled,
		TaxRate1:      p.TaxRate1,
		TaxRate2:      p.TaxRate2,
		TaxLabel1:     strings.TrimSpace(p.TaxLabel1),
		TaxLabel2:     strings.TrimSpace(p.TaxLabel2),
		TaxNumber1:    strings.TrimSpace(p.TaxNumber1),
		TaxNumber2:    strings.TrimSpace(p.TaxNumber2),
	}
}

func toAPIUser(u *models.User) *api.User {
	return &api.User{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		CreatedAt:   u.CreatedAt,
	}
}
