package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/invoicer/internal/clock"
	"github.com/mmynk/invoicer/internal/export"
	"github.com/mmynk/invoicer/internal/filter"
	"github.com/mmynk/invoicer/internal/invoicing"
	"github.com/mmynk/invoicer/internal/models"
	"github.com/mmynk/invoicer/pkg/api"
)

// ExpenseService implements the ExpenseService RPC interface.
type ExpenseService struct {
	ledger *invoicing.Ledger
	clock  clock.Clock
}

// NewExpenseService creates an ExpenseService.
func NewExpenseService(ledger *invoicing.Ledger, c clock.Clock) *ExpenseService {
	if c == nil {
		c = clock.SystemClock{}
	}
	return &ExpenseService{ledger: ledger, clock: c}
}

// AddExpense records an expense with its optional receipt photo.
func (s *ExpenseService) AddExpense(ctx context.Context, req *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error) {
	accountID, err := account(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("AddExpense request received",
		"account_id", accountID,
		"category", req.Msg.Category,
		"photo_bytes", len(req.Msg.Photo),
	)

	date, err := parseDate("date", req.Msg.Date)
	if err != nil {
		return nil, toConnectError(err)
	}
	exp, err := s.ledger.Add(ctx, accountID, invoicing.ExpenseForm{
		Date:        date,
		Description: req.Msg.Description,
		Amount:      req.Msg.Amount,
		Category:    req.Msg.Category,
		Photo:       req.Msg.Photo,
		PhotoType:   req.Msg.PhotoType,
	})
	if err != nil {
		return nil, fail("AddExpense failed", err, "account_id", accountID)
	}
	return connect.NewResponse(&api.AddExpenseResponse{Expense: toAPIExpense(exp, false)}), nil
}

// ListExpenses returns the filtered expenses with the account totals.
func (s *ExpenseService) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	accountID, err := account(ctx)
	if err != nil {
		return nil, err
	}
	period, err := filter.ParsePeriod(req.Msg.Period)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	order, err := filter.ParseExpenseSort(req.Msg.Sort)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	var category models.ExpenseCategory
	if req.Msg.Category != "" {
		if category, err = models.ParseExpenseCategory(req.Msg.Category); err != nil {
			return nil, connect.NewError(connect.CodeInvalidArgument, err)
		}
	}

	listing, err := s.ledger.List(ctx, accountID, filter.ExpenseQuery{
		Search:   req.Msg.Search,
		Category: category,
		Period:   period,
		Sort:     order,
	})
	if err != nil {
		return nil, fail("ListExpenses failed", err, "account_id", accountID)
	}

	out := make([]*api.Expense, len(listing.Expenses))
	for i, e := range listing.Expenses {
		out[i] = toAPIExpense(e, req.Msg.IncludePhotos)
	}
	slog.Info("ListExpenses successful", "account_id", accountID, "count", len(out), "unavailable", listing.Unavailable)
	return connect.NewResponse(&api.ListExpensesResponse{
		Expenses:      out,
		Count:         len(out),
		Total:         listing.Total,
		FilteredTotal: listing.FilteredTotal,
		Unavailable:   listing.Unavailable,
	}), nil
}

// DeleteExpense removes an expense permanently.
func (s *ExpenseService) DeleteExpense(ctx context.Context, req *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error) {
	accountID, err := account(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.ledger.Delete(ctx, accountID, req.Msg.ID); err != nil {
		return nil, fail("DeleteExpense failed", err, "account_id", accountID, "expense_id", req.Msg.ID)
	}
	return connect.NewResponse(&api.DeleteExpenseResponse{}), nil
}

// ExportExpenses returns every expense as an XLSX workbook with a total row.
func (s *ExpenseService) ExportExpenses(ctx context.Context, req *connect.Request[api.ExportRequest]) (*connect.Response[api.ExportResponse], error) {
	accountID, err := account(ctx)
	if err != nil {
		return nil, err
	}
	exps, err := s.ledger.All(ctx, accountID)
	if err != nil {
		return nil, fail("ExportExpenses failed", err, "account_id", accountID)
	}
	table, err := export.ExpenseTable(exps)
	if err != nil {
		return nil, fail("ExportExpenses failed", err, "account_id", accountID)
	}
	data, err := export.XLSX(table)
	if err != nil {
		return nil, fail("ExportExpenses failed", err, "account_id", accountID)
	}

	slog.Info("Expenses exported", "account_id", accountID, "count", len(exps))
	return connect.NewResponse(&api.ExportResponse{
		Data:     data,
		FileName: export.FileName(table, s.clock.Now()),
		Rows:     len(table.Rows),
	}), nil
}
