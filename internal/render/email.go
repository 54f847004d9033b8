package render

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/mmynk/invoicer/internal/calculator"
	"github.com/mmynk/invoicer/internal/models"
)

var emailTemplate = template.Must(template.New("invoice_email").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
  .header { background: #2c3e50; color: white; padding: 20px; text-align: center; border-radius: 5px; }
  .content { padding: 20px; background: #f9f9f9; margin-top: 20px; border-radius: 5px; }
  .details { background: white; padding: 15px; margin: 15px 0; border-left: 4px solid #3498db; }
  .total { font-size: 24px; color: #27ae60; font-weight: bold; }
  .footer { text-align: center; margin-top: 30px; padding-top: 20px; border-top: 1px solid #ddd; color: #777; font-size: 12px; }
</style>
</head>
<body>
  <div class="header"><h1>Invoice from {{.Issuer.Name}}</h1></div>
  <div class="content">
    <p>Hello {{.Invoice.ClientName}},</p>
    <p>Please find attached your invoice for the services provided.</p>
    <div class="details">
      <p><strong>Invoice number:</strong> #{{.Invoice.NumberLabel}}</p>
      <p><strong>Issue date:</strong> {{.IssueDate}}</p>
      {{- if .DueDate}}
      <p><strong>Due date:</strong> {{.DueDate}}</p>
      {{- end}}
      <p class="total">Total: {{.Total}}</p>
    </div>
    {{- if .Issuer.PaymentMethod}}
    <p><strong>Payment terms:</strong></p>
    <p>Payment by: {{.Issuer.PaymentMethod}}</p>
    {{- if .Issuer.Email}}
    <p>Send to: {{.Issuer.Email}}</p>
    {{- end}}
    {{- end}}
    <p>If you have any questions about this invoice, feel free to contact me.</p>
    <p>Regards,<br>
    {{.Issuer.Name}}
    {{- if .Issuer.Email}}<br>{{.Issuer.Email}}{{end}}
    {{- if .Issuer.Phone}}<br>{{.Issuer.Phone}}{{end}}</p>
  </div>
  <div class="footer"><p>This email was generated automatically by the invoicing system.</p></div>
</body>
</html>
`))

type emailData struct {
	Invoice   *models.Invoice
	Issuer    *models.Profile
	IssueDate string
	DueDate   string
	Total     string
}

// EmailSubject returns the subject line of an invoice email.
func EmailSubject(inv *models.Invoice, profile *models.Profile) string {
	return fmt.Sprintf("Invoice #%s - %s", inv.NumberLabel(), profile.Name)
}

// EmailBody renders the HTML body sent with the invoice PDF. Client and
// issuer values are escaped.
func EmailBody(inv *models.Invoice, profile *models.Profile) (string, error) {
	if profile == nil {
		return "", ErrProfileMissing
	}
	data := emailData{
		Invoice:   inv,
		Issuer:    profile,
		IssueDate: FormatDate(inv.Date),
		Total:     calculator.FormatMoney(inv.Total),
	}
	if !inv.DueDate.IsZero() {
		data.DueDate = FormatDate(inv.DueDate)
	}

	var buf bytes.Buffer
	if err := emailTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render: failed to build email body: %w", err)
	}
	return buf.String(), nil
}
