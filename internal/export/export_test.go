package export

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
	"google.golang.org/api/option"

	"github.com/mmynk/invoicer/internal/models"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sampleInvoices() []*models.Invoice {
	return []*models.Invoice{
		{
			Number: 1000, ClientName: "Marie Tremblay", ClientEmail: "marie@example.com",
			Date: day(2024, time.January, 1), Total: 34.4925,
			Lines: []models.LineItem{{Amount: 10}, {Amount: 20}},
		},
		{
			IsDraft: true, ClientName: "Bob", Date: day(2024, time.February, 3), Total: 15,
			Lines: []models.LineItem{{Amount: 15}},
		},
	}
}

func sampleExpenses() []*models.Expense {
	return []*models.Expense{
		{Date: day(2024, time.March, 2), Description: "Yoga mats", Amount: 120, Category: models.CategoryEquipment, Photo: []byte{1}},
		{Date: day(2024, time.March, 5), Description: "Bus pass", Amount: 30.555, Category: models.CategoryTravel},
	}
}

func TestInvoiceTable(t *testing.T) {
	table, err := InvoiceTable(sampleInvoices())
	if err != nil {
		t.Fatalf("InvoiceTable failed: %v", err)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(table.Rows))
	}
	first := table.Rows[0]
	if first[0] != "1000" || first[3] != "2024-01-01" || first[4] != 2 || first[5] != 34.49 || first[6] != "Invoiced" {
		t.Errorf("first row = %v", first)
	}
	if second := table.Rows[1]; second[0] != models.DraftLabel || second[6] != "Draft" {
		t.Errorf("draft row = %v", second)
	}

	if _, err := InvoiceTable(nil); !errors.Is(err, ErrEmpty) {
		t.Errorf("InvoiceTable(nil) error = %v, want ErrEmpty", err)
	}
}

func TestExpenseTable(t *testing.T) {
	table, err := ExpenseTable(sampleExpenses())
	if err != nil {
		t.Fatalf("ExpenseTable failed: %v", err)
	}
	if len(table.Rows) != 3 {
		t.Fatalf("rows = %d, want 2 expenses and a total", len(table.Rows))
	}
	if row := table.Rows[0]; row[2] != "Equipment" || row[4] != "Yes" {
		t.Errorf("first row = %v", row)
	}
	if row := table.Rows[1]; row[3] != 30.56 || row[4] != "No" {
		t.Errorf("second row = %v", row)
	}
	if total := table.Rows[2]; total[2] != "TOTAL" || total[3] != 150.56 {
		t.Errorf("total row = %v", total)
	}
}

func TestFileName(t *testing.T) {
	table, _ := ExpenseTable(sampleExpenses())
	if got := FileName(table, day(2024, time.March, 15)); got != "Expenses_2024-03-15.xlsx" {
		t.Errorf("FileName() = %q", got)
	}
}

func TestXLSX(t *testing.T) {
	table, _ := InvoiceTable(sampleInvoices())
	data, err := XLSX(table)
	if err != nil {
		t.Fatalf("XLSX failed: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("OpenReader failed: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Invoices")
	if err != nil {
		t.Fatalf("GetRows failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want header and 2 invoices", len(rows))
	}
	if strings.Join(rows[0], ",") != "Number,Client,Email,Date,Lines,Total,Status" {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][1] != "Marie Tremblay" || rows[1][5] != "34.49" {
		t.Errorf("first row = %v", rows[1])
	}
}

func TestSpreadsheetID(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"https://docs.google.com/spreadsheets/d/1AbC-dEf_123/edit#gid=0", "1AbC-dEf_123", false},
		{"1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms", "1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms", false},
		{"https://example.com/sheet", "", true},
	}
	for _, tt := range tests {
		got, err := SpreadsheetID(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("SpreadsheetID(%q) = %q, %v", tt.in, got, err)
		}
	}
}

// fakeSheets records the calls made to the Sheets API.
type fakeSheets struct {
	mu       sync.Mutex
	tabs     []string
	header   bool
	calls    []string
	appended [][]any
}

func (f *fakeSheets) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	path := r.URL.Path

	switch {
	case r.Method == http.MethodPost && strings.HasSuffix(path, ":batchUpdate"):
		f.calls = append(f.calls, "addSheet")
		f.tabs = append(f.tabs, "Invoices")
		io.WriteString(w, `{"replies":[{"addSheet":{"properties":{"sheetId":7,"title":"Invoices"}}}]}`)
	case r.Method == http.MethodPost && strings.HasSuffix(path, ":append"):
		f.calls = append(f.calls, "append")
		var vr struct {
			Values [][]any `json:"values"`
		}
		json.NewDecoder(r.Body).Decode(&vr)
		f.appended = append(f.appended, vr.Values...)
		io.WriteString(w, `{"updates":{"updatedRows":2}}`)
	case r.Method == http.MethodPut && strings.Contains(path, "/values/"):
		f.calls = append(f.calls, "header")
		f.header = true
		io.WriteString(w, `{}`)
	case r.Method == http.MethodGet && strings.Contains(path, "/values/"):
		if f.header {
			io.WriteString(w, `{"values":[["Number"]]}`)
		} else {
			io.WriteString(w, `{}`)
		}
	case r.Method == http.MethodGet:
		var sheets []map[string]any
		for _, title := range f.tabs {
			sheets = append(sheets, map[string]any{"properties": map[string]any{"title": title}})
		}
		json.NewEncoder(w).Encode(map[string]any{"sheets": sheets})
	default:
		http.Error(w, "unexpected "+r.Method+" "+path, http.StatusBadRequest)
	}
}

func TestSheetsAppend(t *testing.T) {
	fake := &fakeSheets{}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	ctx := context.Background()
	s, err := NewSheetsWithOptions(ctx, option.WithEndpoint(srv.URL+"/"), option.WithoutAuthentication())
	if err != nil {
		t.Fatalf("NewSheetsWithOptions failed: %v", err)
	}
	table, _ := InvoiceTable(sampleInvoices())
	url := "https://docs.google.com/spreadsheets/d/sheet-123/edit"

	n, err := s.Append(ctx, url, table)
	if err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if n != 2 || len(fake.appended) != 2 {
		t.Errorf("appended %d rows (server saw %d), want 2", n, len(fake.appended))
	}
	if got := strings.Join(fake.calls, ","); got != "addSheet,header,append" {
		t.Errorf("calls = %s, want addSheet,header,append", got)
	}

	fake.calls = nil
	if _, err := s.Append(ctx, url, table); err != nil {
		t.Fatalf("second Append failed: %v", err)
	}
	if got := strings.Join(fake.calls, ","); got != "append" {
		t.Errorf("second calls = %s, want append only", got)
	}
}
