package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/invoicer/internal/calculator"
	"github.com/mmynk/invoicer/internal/export"
	"github.com/mmynk/invoicer/internal/filter"
	"github.com/mmynk/invoicer/internal/invoicing"
	"github.com/mmynk/invoicer/internal/mail"
	"github.com/mmynk/invoicer/internal/metrics"
	"github.com/mmynk/invoicer/internal/render"
	"github.com/mmynk/invoicer/pkg/api"
)

// Mailer delivers a composed message from the account's mailbox.
type Mailer interface {
	Send(ctx context.Context, accountID string, msg mail.Message) (*mail.Result, error)
}

// InvoiceService implements the InvoiceService RPC interface.
type InvoiceService struct {
	invoices *invoicing.Manager
	mailer   Mailer
	metrics  *metrics.Metrics
	maxLines int
}

// NewInvoiceService creates an InvoiceService. mailer may be nil when email
// delivery is not configured.
func NewInvoiceService(invoices *invoicing.Manager, mailer Mailer, mt *metrics.Metrics, maxLines int) *InvoiceService {
	return &InvoiceService{
		invoices: invoices,
		mailer:   mailer,
		metrics:  mt,
		maxLines: maxLines,
	}
}

// PreviewTotals computes the totals the editor shows while typing.
func (s *InvoiceService) PreviewTotals(ctx context.Context, req *connect.Request[api.PreviewTotalsRequest]) (*connect.Response[api.PreviewTotalsResponse], error) {
	accountID, err := account(ctx)
	if err != nil {
		return nil, err
	}
	lines, err := editLines(req.Msg.Lines, s.maxLines)
	if err != nil {
		return nil, toConnectError(err)
	}
	totals, err := s.invoices.PreviewTotals(ctx, accountID, lines)
	if err != nil {
		return nil, fail("PreviewTotals failed", err, "account_id", accountID)
	}
	return connect.NewResponse(&api.PreviewTotalsResponse{
		Exact:     toAPIAmounts(totals),
		Display:   roundedAmounts(totals),
		TotalText: calculator.FormatMoney(totals.Total),
	}), nil
}

// SubmitInvoice numbers and persists an invoice and returns its document.
func (s *InvoiceService) SubmitInvoice(ctx context.Context, req *connect.Request[api.SubmitInvoiceRequest]) (*connect.Response[api.SubmitInvoiceResponse], error) {
	accountID, err := account(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("SubmitInvoice request received",
		"account_id", accountID,
		"client", req.Msg.Invoice.ClientName,
		"lines_count", len(req.Msg.Invoice.Lines),
	)

	form, err := formFromAPI(req.Msg.Invoice, s.maxLines)
	if err != nil {
		return nil, fail("SubmitInvoice rejected", err, "account_id", accountID)
	}
	issued, err := s.invoices.Submit(ctx, accountID, form)
	if err != nil {
		return nil, fail("SubmitInvoice failed", err, "account_id", accountID)
	}

	resp := &api.SubmitInvoiceResponse{
		Invoice:  toAPIInvoice(issued.Invoice, false),
		Document: issued.Document,
		FileName: issued.FileName,
	}
	if issued.RenderErr != nil {
		resp.Document = nil
		resp.RenderError = issued.RenderErr.Error()
	}
	return connect.NewResponse(resp), nil
}

// SaveDraft persists the editor state without assigning a number.
func (s *InvoiceService) SaveDraft(ctx context.Context, req *connect.Request[api.SaveDraftRequest]) (*connect.Response[api.SaveDraftResponse], error) {
	accountID, err := account(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("SaveDraft request received", "account_id", accountID, "client", req.Msg.Invoice.ClientName)

	form, err := formFromAPI(req.Msg.Invoice, s.maxLines)
	if err != nil {
		return nil, fail("SaveDraft rejected", err, "account_id", accountID)
	}
	inv, err := s.invoices.SaveDraft(ctx, accountID, form)
	if err != nil {
		return nil, fail("SaveDraft failed", err, "account_id", accountID)
	}
	return connect.NewResponse(&api.SaveDraftResponse{Invoice: toAPIInvoice(inv, false)}), nil
}

// ListInvoices returns the filtered, sorted invoices of the account.
func (s *InvoiceService) ListInvoices(ctx context.Context, req *connect.Request[api.ListInvoicesRequest]) (*connect.Response[api.ListInvoicesResponse], error) {
	accountID, err := account(ctx)
	if err != nil {
		return nil, err
	}
	period, err := filter.ParsePeriod(req.Msg.Period)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	order, err := filter.ParseInvoiceSort(req.Msg.Sort)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	listing, err := s.invoices.List(ctx, accountID, filter.InvoiceQuery{
		Search:      req.Msg.Search,
		Period:      period,
		Sort:        order,
		OverdueOnly: req.Msg.OverdueOnly,
	})
	if err != nil {
		return nil, fail("ListInvoices failed", err, "account_id", accountID)
	}

	out := make([]*api.Invoice, len(listing.Invoices))
	for i, li := range listing.Invoices {
		out[i] = toAPIInvoice(li.Invoice, li.Overdue)
	}
	slog.Info("ListInvoices successful", "account_id", accountID, "count", len(out), "unavailable", listing.Unavailable)
	return connect.NewResponse(&api.ListInvoicesResponse{
		Invoices:    out,
		Count:       len(out),
		Unavailable: listing.Unavailable,
	}), nil
}

// GetInvoice returns one invoice.
func (s *InvoiceService) GetInvoice(ctx context.Context, req *connect.Request[api.GetInvoiceRequest]) (*connect.Response[api.GetInvoiceResponse], error) {
	accountID, err := account(ctx)
	if err != nil {
		return nil, err
	}
	inv, err := s.invoices.Get(ctx, accountID, req.Msg.ID)
	if err != nil {
		return nil, fail("GetInvoice failed", err, "account_id", accountID, "invoice_id", req.Msg.ID)
	}
	return connect.NewResponse(&api.GetInvoiceResponse{
		Invoice: toAPIInvoice(inv, inv.IsOverdue(s.invoices.Now())),
	}), nil
}

// DeleteInvoice removes an invoice permanently.
func (s *InvoiceService) DeleteInvoice(ctx context.Context, req *connect.Request[api.DeleteInvoiceRequest]) (*connect.Response[api.DeleteInvoiceResponse], error) {
	accountID, err := account(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.invoices.Delete(ctx, accountID, req.Msg.ID); err != nil {
		return nil, fail("DeleteInvoice failed", err, "account_id", accountID, "invoice_id", req.Msg.ID)
	}
	return connect.NewResponse(&api.DeleteInvoiceResponse{}), nil
}

// RenderInvoice regenerates the PDF of an issued invoice.
func (s *InvoiceService) RenderInvoice(ctx context.Context, req *connect.Request[api.RenderInvoiceRequest]) (*connect.Response[api.RenderInvoiceResponse], error) {
	accountID, err := account(ctx)
	if err != nil {
		return nil, err
	}
	issued, err := s.invoices.Render(ctx, accountID, req.Msg.ID)
	if err != nil {
		return nil, fail("RenderInvoice failed", err, "account_id", accountID, "invoice_id", req.Msg.ID)
	}
	return connect.NewResponse(&api.RenderInvoiceResponse{
		Document: issued.Document,
		FileName: issued.FileName,
	}), nil
}

// SendInvoiceEmail emails the invoice PDF to the client through the
// account's connected Gmail.
func (s *InvoiceService) SendInvoiceEmail(ctx context.Context, req *connect.Request[api.SendInvoiceEmailRequest]) (*connect.Response[api.SendInvoiceEmailResponse], error) {
	accountID, err := account(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("SendInvoiceEmail request received", "account_id", accountID, "invoice_id", req.Msg.ID)

	if s.mailer == nil {
		return nil, fail("SendInvoiceEmail failed", mail.ErrNotConfigured, "account_id", accountID)
	}

	issued, err := s.invoices.Render(ctx, accountID, req.Msg.ID)
	if err != nil {
		return nil, fail("SendInvoiceEmail failed", err, "account_id", accountID, "invoice_id", req.Msg.ID)
	}
	inv := issued.Invoice
	if inv.ClientEmail == "" {
		return nil, fail("SendInvoiceEmail failed", invoicing.ErrNoRecipient, "account_id", accountID, "invoice_id", inv.ID)
	}

	profile, err := s.invoices.Profiles().Get(ctx, accountID)
	if err != nil {
		return nil, fail("SendInvoiceEmail failed", err, "account_id", accountID)
	}
	body, err := render.EmailBody(inv, profile)
	if err != nil {
		return nil, fail("SendInvoiceEmail failed", err, "account_id", accountID)
	}

	result, err := s.mailer.Send(ctx, accountID, mail.Message{
		To:             inv.ClientEmail,
		Subject:        render.EmailSubject(inv, profile),
		HTMLBody:       body,
		Attachment:     issued.Document,
		AttachmentName: issued.FileName,
		AttachmentType: "application/pdf",
	})
	if err != nil {
		s.metrics.EmailSent(emailResult(err))
		return nil, fail("SendInvoiceEmail failed", err, "account_id", accountID, "invoice_id", inv.ID)
	}
	s.metrics.EmailSent("ok")

	slog.Info("Invoice emailed",
		"account_id", accountID,
		"invoice_number", inv.Number,
		"message_id", result.MessageID,
	)
	return connect.NewResponse(&api.SendInvoiceEmailResponse{
		MessageID: result.MessageID,
		Recipient: inv.ClientEmail,
	}), nil
}

func emailResult(err error) string {
	if toConnectError(err).Code() == connect.CodePermissionDenied {
		return "reauth"
	}
	return "error"
}

// ExportInvoices returns every invoice of the account as an XLSX workbook.
func (s *InvoiceService) ExportInvoices(ctx context.Context, req *connect.Request[api.ExportRequest]) (*connect.Response[api.ExportResponse], error) {
	accountID, err := account(ctx)
	if err != nil {
		return nil, err
	}
	invs, err := s.invoices.All(ctx, accountID)
	if err != nil {
		return nil, fail("ExportInvoices failed", err, "account_id", accountID)
	}
	table, err := export.InvoiceTable(invs)
	if err != nil {
		return nil, fail("ExportInvoices failed", err, "account_id", accountID)
	}
	data, err := export.XLSX(table)
	if err != nil {
		return nil, fail("ExportInvoices failed", err, "account_id", accountID)
	}

	slog.Info("Invoices exported", "account_id", accountID, "count", len(invs))
	return connect.NewResponse(&api.ExportResponse{
		Data:     data,
		FileName: export.FileName(table, s.invoices.Now()),
		Rows:     len(table.Rows),
	}), nil
}
