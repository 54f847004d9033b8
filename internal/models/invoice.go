package models

import (
	"strconv"
	"strings"
	"time"
	"unicode"
)

const (
	// InvoiceSchemaVersion is the record layout written by this version.
	// Version 1 records predate stored due dates and tax labels.
	InvoiceSchemaVersion = 2

	// DraftNumber is the sentinel number carried by drafts. Issued invoices
	// always have a positive number.
	DraftNumber int64 = 0

	// DraftLabel is shown in place of a number for drafts.
	DraftLabel = "DRAFT"

	// DefaultDueDays is the payment term applied when no due date is given.
	DefaultDueDays = 30
)

// LineItem is one billable row on an invoice.
type LineItem struct {
	// ID identifies the line within its invoice or editor.
	ID string `json:"id" firestore:"id"`

	// Date is the session date. The zero value means "not set yet".
	Date time.Time `json:"date" firestore:"date"`

	// Description is optional free text.
	Description string `json:"description,omitempty" firestore:"description"`

	// Amount is the non-negative price of the line.
	Amount float64 `json:"amount" firestore:"amount"`
}

// HasDate reports whether the line has a session date.
func (l LineItem) HasDate() bool {
	return !l.Date.IsZero()
}

// TaxSnapshot freezes the profile's tax configuration onto an invoice at
// creation time.
type TaxSnapshot struct {
	Enabled bool    `json:"enabled" firestore:"enabled"`
	Rate1   float64 `json:"rate1" firestore:"rate1"`
	Rate2   float64 `json:"rate2" firestore:"rate2"`
	Label1  string  `json:"label1" firestore:"label1"`
	Label2  string  `json:"label2" firestore:"label2"`

	// Number1 and Number2 are the registration numbers echoed on the document.
	Number1 string `json:"number1,omitempty" firestore:"number1"`
	Number2 string `json:"number2,omitempty" firestore:"number2"`
}

// Invoice is a bill for one client. Drafts carry DraftNumber and are excluded
// from numbering and overdue checks.
type Invoice struct {
	// ID is opaque and time-ordered (UUIDv7).
	ID string `json:"id" firestore:"-"`

	// AccountID is the owning tenant.
	AccountID string `json:"account_id" firestore:"accountId"`

	SchemaVersion int `json:"schema_version" firestore:"schemaVersion"`

	// Number is the sequential invoice number, or DraftNumber.
	Number int64 `json:"number" firestore:"invoiceNumber"`

	IsDraft bool `json:"is_draft" firestore:"isDraft"`

	// NumberDegraded is set when the number came from the timestamp fallback
	// instead of the counter, so uniqueness is not guaranteed.
	NumberDegraded bool `json:"number_degraded,omitempty" firestore:"numberDegraded"`

	ClientName  string `json:"client_name" firestore:"clientName"`
	ClientEmail string `json:"client_email,omitempty" firestore:"clientEmail"`

	// Date is the issue date.
	Date time.Time `json:"date" firestore:"date"`

	// DueDate defaults to Date + DefaultDueDays.
	DueDate time.Time `json:"due_date" firestore:"dueDate"`

	Lines []LineItem `json:"lines" firestore:"sessions"`

	Subtotal float64 `json:"subtotal" firestore:"subtotal"`
	Tax1     float64 `json:"tax1" firestore:"tps"`
	Tax2     float64 `json:"tax2" firestore:"tvq"`
	Total    float64 `json:"total" firestore:"total"`

	Tax TaxSnapshot `json:"tax" firestore:"tax"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
}

// NumberLabel returns the human-readable number: the integer for issued
// invoices and DraftLabel for drafts.
func (inv *Invoice) NumberLabel() string {
	if inv.IsDraft {
		return DraftLabel
	}
	return strconv.FormatInt(inv.Number, 10)
}

// IsOverdue reports whether an issued invoice's due date falls strictly
// before the start of the day containing now.
func (inv *Invoice) IsOverdue(now time.Time) bool {
	if inv.IsDraft || inv.DueDate.IsZero() {
		return false
	}
	return inv.DueDate.Before(StartOfDay(now))
}

// Normalize applies defaults to records written by older versions.
func (inv *Invoice) Normalize() {
	if inv.SchemaVersion < 2 {
		if inv.Tax.Label1 == "" {
			inv.Tax.Label1 = DefaultTaxLabel1
		}
		if inv.Tax.Label2 == "" {
			inv.Tax.Label2 = DefaultTaxLabel2
		}
	}
	if inv.DueDate.IsZero() && !inv.Date.IsZero() {
		inv.DueDate = DueDateFor(inv.Date, DefaultDueDays)
	}
	if inv.IsDraft {
		inv.Number = DraftNumber
	}
	inv.SchemaVersion = InvoiceSchemaVersion
}

// DueDateFor returns the issue date plus the given number of calendar days.
func DueDateFor(issue time.Time, days int) time.Time {
	return issue.AddDate(0, 0, days)
}

// StartOfDay truncates t to midnight in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// InvoiceFileName returns the document name for an invoice, with spaces in
// the client name replaced by underscores.
func InvoiceFileName(inv *Invoice) string {
	return "Invoice_" + inv.NumberLabel() + "_" + underscoreSpaces(inv.ClientName) + ".pdf"
}

func underscoreSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return '_'
		}
		return r
	}, s)
}
