package filter

import (
	"testing"
	"time"

	"github.com/mmynk/invoicer/internal/models"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestPeriodContains(t *testing.T) {
	tests := []struct {
		name   string
		period Period
		date   time.Time
		now    time.Time
		want   bool
	}{
		{"this month", PeriodThisMonth, day(2024, 3, 1), day(2024, 3, 20), true},
		{"this month other year", PeriodThisMonth, day(2023, 3, 1), day(2024, 3, 20), false},
		{"last month in march", PeriodLastMonth, day(2024, 2, 29), day(2024, 3, 1), true},
		{"last month excludes current", PeriodLastMonth, day(2024, 3, 1), day(2024, 3, 31), false},
		{"last month excludes january", PeriodLastMonth, day(2024, 1, 31), day(2024, 3, 15), false},
		{"last month wraps year", PeriodLastMonth, day(2023, 12, 15), day(2024, 1, 10), true},
		{"last month wrap excludes prior december", PeriodLastMonth, day(2022, 12, 15), day(2024, 1, 10), false},
		{"quarter start", PeriodThisQuarter, day(2024, 4, 1), day(2024, 6, 30), true},
		{"previous quarter", PeriodThisQuarter, day(2024, 3, 31), day(2024, 4, 1), false},
		{"this year", PeriodThisYear, day(2024, 1, 1), day(2024, 12, 31), true},
		{"last year", PeriodThisYear, day(2023, 12, 31), day(2024, 1, 1), false},
		{"all", PeriodAll, day(1999, 1, 1), day(2024, 1, 1), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.period.Contains(tt.date, tt.now); got != tt.want {
				t.Errorf("Contains(%v, %v) = %v, want %v", tt.date, tt.now, got, tt.want)
			}
		})
	}
}

func TestLastMonthAcrossMarch(t *testing.T) {
	invs := []*models.Invoice{
		{ID: "jan", Date: day(2024, 1, 31)},
		{ID: "feb1", Date: day(2024, 2, 1)},
		{ID: "feb29", Date: day(2024, 2, 29)},
		{ID: "mar", Date: day(2024, 3, 1)},
		{ID: "feb-2023", Date: day(2023, 2, 10)},
	}
	for d := 1; d <= 31; d++ {
		now := time.Date(2024, 3, d, 12, 0, 0, 0, time.UTC)
		got := Invoices(invs, InvoiceQuery{Period: PeriodLastMonth, Sort: SortDateAsc}, now)
		if len(got) != 2 || got[0].ID != "feb1" || got[1].ID != "feb29" {
			t.Fatalf("March %d: got %v, want [feb1 feb29]", d, ids(got))
		}
	}
}

func ids(invs []*models.Invoice) []string {
	out := make([]string, len(invs))
	for i, inv := range invs {
		out[i] = inv.ID
	}
	return out
}

func sampleInvoices() []*models.Invoice {
	return []*models.Invoice{
		{ID: "a", Number: 1000, ClientName: "Émilie Roy", ClientEmail: "emilie@example.com", Date: day(2024, 2, 10), Total: 34.4925},
		{ID: "b", Number: 1001, ClientName: "Bob Martin", ClientEmail: "bob@example.com", Date: day(2024, 3, 5), Total: 100},
		{ID: "c", IsDraft: true, ClientName: "Zoé Tremblay", ClientEmail: "zoe@example.com", Date: day(2024, 1, 2), Total: 55.5},
	}
}

func TestInvoiceSearch(t *testing.T) {
	now := day(2024, 3, 10)
	tests := []struct {
		term string
		want []string
	}{
		{"", []string{"b", "a", "c"}},
		{"BOB", []string{"b"}},
		{"example.com", []string{"b", "a", "c"}},
		{"1000", []string{"a"}},
		{"draft", []string{"c"}},
		{"34.49", []string{"a"}},
		{"55.5", []string{"c"}},
		{"nobody", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			got := ids(Invoices(sampleInvoices(), InvoiceQuery{Search: tt.term}, now))
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestInvoiceSort(t *testing.T) {
	now := day(2024, 3, 10)
	tests := []struct {
		sort InvoiceSort
		want []string
	}{
		{SortDateDesc, []string{"b", "a", "c"}},
		{SortDateAsc, []string{"c", "a", "b"}},
		{SortClientAsc, []string{"b", "a", "c"}},
		{SortClientDesc, []string{"c", "a", "b"}},
		{SortAmountDesc, []string{"b", "c", "a"}},
		{SortAmountAsc, []string{"a", "c", "b"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.sort), func(t *testing.T) {
			got := ids(Invoices(sampleInvoices(), InvoiceQuery{Sort: tt.sort}, now))
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestOverdue(t *testing.T) {
	invs := []*models.Invoice{
		{ID: "late", Number: 1000, DueDate: day(2024, 3, 9)},
		{ID: "today", Number: 1001, DueDate: day(2024, 3, 10)},
		{ID: "draft", IsDraft: true, DueDate: day(2024, 1, 1)},
	}
	got := Invoices(invs, InvoiceQuery{OverdueOnly: true}, time.Date(2024, 3, 10, 23, 0, 0, 0, time.UTC))
	if len(got) != 1 || got[0].ID != "late" {
		t.Errorf("overdue only = %v, want [late]", ids(got))
	}
}

func TestExpenses(t *testing.T) {
	exps := []*models.Expense{
		{ID: "mat", Description: "Yoga mats", Amount: 120, Category: models.CategoryEquipment, Date: day(2024, 3, 2)},
		{ID: "gas", Description: "Gas", Amount: 45.5, Category: models.CategoryTravel, Date: day(2024, 3, 8)},
		{ID: "course", Description: "Workshop", Amount: 300, Category: models.CategoryTraining, Date: day(2023, 11, 20)},
	}
	now := day(2024, 3, 10)

	t.Run("search by category label", func(t *testing.T) {
		got := Expenses(exps, ExpenseQuery{Search: "travel"}, now)
		if len(got) != 1 || got[0].ID != "gas" {
			t.Errorf("got %d expenses, want [gas]", len(got))
		}
	})

	t.Run("search by amount", func(t *testing.T) {
		got := Expenses(exps, ExpenseQuery{Search: "45.5"}, now)
		if len(got) != 1 || got[0].ID != "gas" {
			t.Errorf("got %d expenses, want [gas]", len(got))
		}
	})

	t.Run("category filter", func(t *testing.T) {
		got := Expenses(exps, ExpenseQuery{Category: models.CategoryTraining}, now)
		if len(got) != 1 || got[0].ID != "course" {
			t.Errorf("got %d expenses, want [course]", len(got))
		}
	})

	t.Run("period and amount sort", func(t *testing.T) {
		got := Expenses(exps, ExpenseQuery{Period: PeriodThisMonth, Sort: ExpenseAmountAsc}, now)
		if len(got) != 2 || got[0].ID != "gas" || got[1].ID != "mat" {
			t.Errorf("unexpected order")
		}
	})

	t.Run("total ignores filters", func(t *testing.T) {
		if got := TotalExpenses(exps); got != 465.5 {
			t.Errorf("TotalExpenses = %v, want 465.5", got)
		}
	})
}

func TestParse(t *testing.T) {
	if p, err := ParsePeriod(""); err != nil || p != PeriodAll {
		t.Errorf("ParsePeriod(\"\") = %q, %v", p, err)
	}
	if _, err := ParsePeriod("next-week"); err == nil {
		t.Error("ParsePeriod accepted unknown period")
	}
	if s, err := ParseInvoiceSort(""); err != nil || s != SortDateDesc {
		t.Errorf("ParseInvoiceSort(\"\") = %q, %v", s, err)
	}
	if _, err := ParseExpenseSort("client-asc"); err == nil {
		t.Error("ParseExpenseSort accepted client sort")
	}
}

func TestSortClients(t *testing.T) {
	clients := []*models.Client{
		{Name: "zoé"},
		{Name: "Émilie"},
		{Name: "adam"},
		{Name: "Eric"},
	}
	SortClients(clients)

	want := []string{"adam", "Émilie", "Eric", "zoé"}
	for i, c := range clients {
		if c.Name != want[i] {
			t.Fatalf("SortClients()[%d] = %q, want %q (got %v)", i, c.Name, want[i], names(clients))
		}
	}
}

func names(clients []*models.Client) []string {
	out := make([]string, len(clients))
	for i, c := range clients {
		out[i] = c.Name
	}
	return out
}
