// Package invoicing implements the invoice lifecycle (numbering, drafts,
// listings), the expense ledger and the client directory on top of a
// storage.Store.
package invoicing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mmynk/invoicer/internal/calculator"
	"github.com/mmynk/invoicer/internal/clock"
	"github.com/mmynk/invoicer/internal/filter"
	"github.com/mmynk/invoicer/internal/metrics"
	"github.com/mmynk/invoicer/internal/models"
	"github.com/mmynk/invoicer/internal/storage"
)

// Renderer turns an issued invoice into a document.
type Renderer interface {
	Render(inv *models.Invoice, profile *models.Profile) ([]byte, error)
}

// Form is the state of the invoice editor at submit time.
type Form struct {
	ClientName  string
	ClientEmail string

	// Date is the issue date; zero means today.
	Date time.Time

	// DueDate is optional; zero means Date plus the configured payment term.
	DueDate time.Time

	Lines []models.LineItem
}

// Issued is the outcome of Submit. The invoice is persisted even when
// rendering failed; RenderErr reports that follow-up separately.
type Issued struct {
	Invoice   *models.Invoice
	Document  []byte
	FileName  string
	RenderErr error
}

// Config tunes a Manager.
type Config struct {
	// DueDays is the payment term applied when a form has no due date.
	DueDays int

	// MaxLines caps the lines of one invoice. Zero means no limit.
	MaxLines int
}

// Manager runs the invoice lifecycle for any number of accounts.
type Manager struct {
	store     storage.Store
	profiles  *ProfileCache
	directory *Directory
	renderer  Renderer
	clock     clock.Clock
	metrics   *metrics.Metrics
	cfg       Config
}

// Option customizes a Manager.
type Option func(*Manager)

// WithRenderer sets the document renderer used after Submit and by Render.
func WithRenderer(r Renderer) Option {
	return func(m *Manager) { m.renderer = r }
}

// WithClock overrides the wall clock.
func WithClock(c clock.Clock) Option {
	return func(m *Manager) { m.clock = c }
}

// WithMetrics records lifecycle events on mt.
func WithMetrics(mt *metrics.Metrics) Option {
	return func(m *Manager) { m.metrics = mt }
}

// NewManager creates a Manager. profiles must wrap the same store.
func NewManager(store storage.Store, profiles *ProfileCache, cfg Config, opts ...Option) *Manager {
	if cfg.DueDays <= 0 {
		cfg.DueDays = models.DefaultDueDays
	}
	m := &Manager{
		store:    store,
		profiles: profiles,
		clock:    clock.SystemClock{},
		cfg:      cfg,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.directory = NewDirectory(store, m.metrics)
	return m
}

// Now returns the manager's current time.
func (m *Manager) Now() time.Time {
	return m.clock.Now()
}

// Profiles returns the profile cache shared with rendering.
func (m *Manager) Profiles() *ProfileCache {
	return m.profiles
}

// PreviewTotals computes the totals the editor shows for lines under the
// account's current tax configuration. Without a profile, taxes are off.
func (m *Manager) PreviewTotals(ctx context.Context, accountID string, lines []models.LineItem) (calculator.Totals, error) {
	if err := storage.RequireAccount("PreviewTotals", accountID); err != nil {
		return calculator.Totals{}, err
	}
	var tax models.TaxSnapshot
	profile, err := m.profiles.Get(ctx, accountID)
	if err != nil {
		return calculator.Totals{}, err
	}
	if profile != nil {
		tax = profile.TaxSnapshot()
	}
	return calculator.ComputeTotals(lines, tax), nil
}

// Submit validates the form, assigns the next invoice number, snapshots the
// profile's tax configuration and persists the invoice. The client is saved
// to the directory and the document rendered as best-effort follow-ups.
func (m *Manager) Submit(ctx context.Context, accountID string, form Form) (*Issued, error) {
	if err := m.validateSubmit(form); err != nil {
		return nil, err
	}
	if err := storage.RequireAccount("Submit", accountID); err != nil {
		return nil, err
	}

	profile, err := m.profiles.Get(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	if profile == nil {
		return nil, ErrProfileRequired
	}

	inv := m.buildInvoice(accountID, form)
	inv.Number, inv.NumberDegraded = m.nextNumber(ctx, accountID)
	inv.Tax = profile.TaxSnapshot()
	calculator.ComputeTotals(inv.Lines, inv.Tax).Apply(inv)

	if err := m.store.AddInvoice(ctx, accountID, inv); err != nil {
		return nil, err
	}
	m.metrics.InvoiceSaved(false)
	slog.Info("Invoice issued",
		"account_id", accountID,
		"invoice_id", inv.ID,
		"invoice_number", inv.Number,
		"total", calculator.FormatAmount(inv.Total),
	)

	m.saveClient(ctx, accountID, inv)

	issued := &Issued{Invoice: inv, FileName: models.InvoiceFileName(inv)}
	if m.renderer != nil {
		issued.Document, issued.RenderErr = m.renderer.Render(inv, profile)
		m.metrics.DocumentRendered(issued.RenderErr == nil)
		if issued.RenderErr != nil {
			slog.Warn("Invoice saved but rendering failed",
				"invoice_id", inv.ID,
				"error", issued.RenderErr,
			)
		}
	}
	return issued, nil
}

// SaveDraft persists the form as a draft. Drafts carry the draft sentinel,
// never consume an invoice number and are not rendered.
func (m *Manager) SaveDraft(ctx context.Context, accountID string, form Form) (*models.Invoice, error) {
	if strings.TrimSpace(form.ClientName) == "" {
		return nil, invalid("client_name", "client name is required")
	}
	if len(form.Lines) == 0 {
		return nil, invalid("lines", "add at least one line")
	}
	if err := m.checkLineCount(form); err != nil {
		return nil, err
	}
	if err := storage.RequireAccount("SaveDraft", accountID); err != nil {
		return nil, err
	}

	profile, err := m.profiles.Get(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	if profile == nil {
		return nil, ErrProfileRequired
	}

	inv := m.buildInvoice(accountID, form)
	inv.IsDraft = true
	inv.Number = models.DraftNumber
	inv.Tax = profile.TaxSnapshot()
	calculator.ComputeTotals(inv.Lines, inv.Tax).Apply(inv)

	if err := m.store.AddInvoice(ctx, accountID, inv); err != nil {
		return nil, err
	}
	m.metrics.InvoiceSaved(true)
	slog.Info("Draft saved", "account_id", accountID, "invoice_id", inv.ID)
	return inv, nil
}

func (m *Manager) validateSubmit(form Form) error {
	if strings.TrimSpace(form.ClientName) == "" {
		return invalid("client_name", "client name is required")
	}
	if len(form.Lines) == 0 {
		return invalid("lines", "add at least one line")
	}
	if err := m.checkLineCount(form); err != nil {
		return err
	}
	for i, l := range form.Lines {
		if !l.HasDate() {
			return invalid(fmt.Sprintf("lines[%d].date", i), "date is required")
		}
		if !(l.Amount > 0) {
			return invalid(fmt.Sprintf("lines[%d].amount", i), "amount must be greater than zero")
		}
	}
	if !form.DueDate.IsZero() && !form.Date.IsZero() && form.DueDate.Before(form.Date) {
		return invalid("due_date", "due date is before the issue date")
	}
	return nil
}

func (m *Manager) checkLineCount(form Form) error {
	if m.cfg.MaxLines > 0 && len(form.Lines) > m.cfg.MaxLines {
		return invalid("lines", "at most %d lines per invoice", m.cfg.MaxLines)
	}
	return nil
}

func (m *Manager) buildInvoice(accountID string, form Form) *models.Invoice {
	issue := form.Date
	if issue.IsZero() {
		issue = models.StartOfDay(m.clock.Now())
	}
	due := form.DueDate
	if due.IsZero() {
		due = models.DueDateFor(issue, m.cfg.DueDays)
	}

	lines := make([]models.LineItem, len(form.Lines))
	copy(lines, form.Lines)
	for i := range lines {
		if lines[i].ID == "" {
			lines[i].ID = fmt.Sprintf("line-%d", i+1)
		}
		lines[i].Description = strings.TrimSpace(lines[i].Description)
	}

	return &models.Invoice{
		AccountID:     accountID,
		SchemaVersion: models.InvoiceSchemaVersion,
		ClientName:    strings.TrimSpace(form.ClientName),
		ClientEmail:   strings.TrimSpace(form.ClientEmail),
		Date:          issue,
		DueDate:       due,
		Lines:         lines,
		CreatedAt:     m.clock.Now(),
	}
}

// nextNumber returns the counter's next value, or a timestamp-derived number
// flagged as degraded when the counter transaction fails.
func (m *Manager) nextNumber(ctx context.Context, accountID string) (int64, bool) {
	n, err := m.store.NextInvoiceNumber(ctx, accountID)
	if err == nil {
		return n, false
	}
	fallback := m.clock.Now().UnixMilli()
	m.metrics.NumberFallback()
	slog.Warn("Invoice counter unavailable, using timestamp number",
		"account_id", accountID,
		"invoice_number", fallback,
		"error", err,
	)
	return fallback, true
}

func (m *Manager) saveClient(ctx context.Context, accountID string, inv *models.Invoice) {
	if inv.ClientEmail == "" {
		return
	}
	if _, _, err := m.directory.Upsert(ctx, accountID, inv.ClientName, inv.ClientEmail); err != nil {
		slog.Warn("Failed to save client from invoice",
			"account_id", accountID,
			"invoice_id", inv.ID,
			"error", err,
		)
	}
}

// Get returns one invoice with defaults applied for older records.
func (m *Manager) Get(ctx context.Context, accountID, id string) (*models.Invoice, error) {
	inv, err := m.store.GetInvoice(ctx, accountID, id)
	if err != nil {
		return nil, err
	}
	inv.Normalize()
	return inv, nil
}

// Delete removes an invoice permanently.
func (m *Manager) Delete(ctx context.Context, accountID, id string) error {
	if err := m.store.DeleteInvoice(ctx, accountID, id); err != nil {
		return err
	}
	slog.Info("Invoice deleted", "account_id", accountID, "invoice_id", id)
	return nil
}

// ListedInvoice is one row of an invoice listing.
type ListedInvoice struct {
	*models.Invoice
	Overdue bool
}

// InvoiceListing is the result of List. Unavailable is set when the store
// could not be read; Invoices is then empty but that does not mean the
// account has none.
type InvoiceListing struct {
	Invoices    []ListedInvoice
	Unavailable bool
}

// List returns the account's invoices filtered and sorted by q.
func (m *Manager) List(ctx context.Context, accountID string, q filter.InvoiceQuery) (*InvoiceListing, error) {
	if err := storage.RequireAccount("ListInvoices", accountID); err != nil {
		return nil, err
	}
	invs, err := m.store.ListInvoices(ctx, accountID)
	if err != nil {
		if storage.IsUnavailable(err) {
			m.degraded("invoices", accountID, err)
			return &InvoiceListing{Unavailable: true}, nil
		}
		return nil, err
	}
	for _, inv := range invs {
		inv.Normalize()
	}

	now := m.clock.Now()
	matched := filter.Invoices(invs, q, now)
	out := &InvoiceListing{Invoices: make([]ListedInvoice, len(matched))}
	for i, inv := range matched {
		out.Invoices[i] = ListedInvoice{Invoice: inv, Overdue: inv.IsOverdue(now)}
	}
	return out, nil
}

// All returns every invoice of the account, newest first, for export.
func (m *Manager) All(ctx context.Context, accountID string) ([]*models.Invoice, error) {
	invs, err := m.store.ListInvoices(ctx, accountID)
	if err != nil {
		return nil, err
	}
	for _, inv := range invs {
		inv.Normalize()
	}
	return filter.Invoices(invs, filter.InvoiceQuery{}, m.clock.Now()), nil
}

// Render regenerates the document of an issued invoice.
func (m *Manager) Render(ctx context.Context, accountID, id string) (*Issued, error) {
	if m.renderer == nil {
		return nil, errors.New("no document renderer configured")
	}
	inv, err := m.Get(ctx, accountID, id)
	if err != nil {
		return nil, err
	}
	if inv.IsDraft {
		return nil, ErrDraft
	}
	profile, err := m.profiles.Get(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	doc, err := m.renderer.Render(inv, profile)
	m.metrics.DocumentRendered(err == nil)
	if err != nil {
		return nil, err
	}
	return &Issued{Invoice: inv, Document: doc, FileName: models.InvoiceFileName(inv)}, nil
}

func (m *Manager) degraded(entity, accountID string, err error) {
	m.metrics.StorageUnavailable(entity)
	slog.Warn("Store unavailable, serving empty listing",
		"entity", entity,
		"account_id", accountID,
		"error", err,
	)
}
