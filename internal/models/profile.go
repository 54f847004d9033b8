package models

import "time"

const (
	DefaultTaxRate1  = 5.0
	DefaultTaxRate2  = 9.975
	DefaultTaxLabel1 = "GST"
	DefaultTaxLabel2 = "QST"
)

// Profile is the issuer's business identity and tax configuration. It is
// absent until first saved; invoices cannot be generated without one.
type Profile struct {
	Name          string `json:"name" firestore:"name"`
	BusinessType  string `json:"business_type" firestore:"businessType"`
	ServiceLabel  string `json:"service_label" firestore:"serviceLabel"`
	Address       string `json:"address" firestore:"address"`
	Phone         string `json:"phone" firestore:"phone"`
	Email         string `json:"email" firestore:"email"`
	PaymentMethod string `json:"payment_method" firestore:"paymentMethod"`

	TaxesEnabled bool    `json:"taxes_enabled" firestore:"enableTaxes"`
	TaxRate1     float64 `json:"tax_rate1" firestore:"tpsRate"`
	TaxRate2     float64 `json:"tax_rate2" firestore:"tvqRate"`
	TaxLabel1    string  `json:"tax_label1" firestore:"taxLabel1"`
	TaxLabel2    string  `json:"tax_label2" firestore:"taxLabel2"`
	TaxNumber1   string  `json:"tax_number1" firestore:"tpsNumber"`
	TaxNumber2   string  `json:"tax_number2" firestore:"tvqNumber"`

	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

// Normalize fills unset rates and labels with their defaults. A zero rate is
// treated as unset.
func (p *Profile) Normalize() {
	if p.TaxRate1 == 0 {
		p.TaxRate1 = DefaultTaxRate1
	}
	if p.TaxRate2 == 0 {
		p.TaxRate2 = DefaultTaxRate2
	}
	if p.TaxLabel1 == "" {
		p.TaxLabel1 = DefaultTaxLabel1
	}
	if p.TaxLabel2 == "" {
		p.TaxLabel2 = DefaultTaxLabel2
	}
}

// TaxSnapshot copies the tax configuration for storage on an invoice.
func (p *Profile) TaxSnapshot() TaxSnapshot {
	return TaxSnapshot{
		Enabled: p.TaxesEnabled,
		Rate1:   p.TaxRate1,
		Rate2:   p.TaxRate2,
		Label1:  p.TaxLabel1,
		Label2:  p.TaxLabel2,
		Number1: p.TaxNumber1,
		Number2: p.TaxNumber2,
	}
}
