package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/xuri/excelize/v2"

	"github.com/mmynk/invoicer/internal/config"
	"github.com/mmynk/invoicer/internal/export"
	"github.com/mmynk/invoicer/internal/models"
	"github.com/mmynk/invoicer/internal/storage/sqlite"
	"github.com/mmynk/invoicer/pkg/api"
	"github.com/mmynk/invoicer/pkg/api/apiconnect"
)

func setupHandler(t *testing.T) (*httptest.Server, *prometheus.Registry) {
	t.Helper()

	c := config.Default()
	c.StaticPath = t.TempDir()
	c.Storage.SQLitePath = filepath.Join(t.TempDir(), "test.db")
	if err := os.WriteFile(filepath.Join(c.StaticPath, "index.html"), []byte("<html>invoicer</html>"), 0o644); err != nil {
		t.Fatalf("failed to write index.html: %v", err)
	}

	store, err := openStore(context.Background(), c)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	registry := prometheus.NewRegistry()
	server := httptest.NewServer(newHandler(c, store, registry))
	t.Cleanup(server.Close)
	return server, registry
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s failed: %v", url, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}
	return resp.StatusCode, string(body)
}

func TestHandler(t *testing.T) {
	server, _ := setupHandler(t)

	t.Run("healthz", func(t *testing.T) {
		code, body := get(t, server.URL+"/healthz")
		if code != http.StatusOK || body != "ok\n" {
			t.Errorf("healthz = %d %q, want 200 \"ok\\n\"", code, body)
		}
	})

	t.Run("rpc runs as the local account", func(t *testing.T) {
		client := apiconnect.NewProfileServiceClient(http.DefaultClient, server.URL)
		resp, err := client.GetProfile(context.Background(), connect.NewRequest(&api.GetProfileRequest{}))
		if err != nil {
			t.Fatalf("GetProfile failed: %v", err)
		}
		if resp.Msg.Profile != nil {
			t.Errorf("expected no profile on a fresh store, got %+v", resp.Msg.Profile)
		}
	})

	t.Run("metrics", func(t *testing.T) {
		code, body := get(t, server.URL+"/metrics")
		if code != http.StatusOK {
			t.Fatalf("metrics status = %d, want 200", code)
		}
		if !strings.Contains(body, "invoicer_rpc_duration_seconds") {
			t.Errorf("metrics output does not include the RPC histogram")
		}
	})

	t.Run("static fallback", func(t *testing.T) {
		code, body := get(t, server.URL+"/expenses")
		if code != http.StatusOK || !strings.Contains(body, "invoicer") {
			t.Errorf("fallback = %d %q, want index.html", code, body)
		}
	})

	t.Run("unknown rpc", func(t *testing.T) {
		code, _ := get(t, server.URL+"/invoicer.v1.NoSuchService/Call")
		if code != http.StatusNotFound {
			t.Errorf("unknown rpc status = %d, want 404", code)
		}
	})

	t.Run("cors preflight", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodOptions, server.URL+apiconnect.InvoiceServiceListInvoicesProcedure, nil)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("OPTIONS failed: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("preflight status = %d, want 200", resp.StatusCode)
		}
		if got := resp.Header.Get("Access-Control-Allow-Headers"); !strings.Contains(got, "Authorization") {
			t.Errorf("Access-Control-Allow-Headers = %q, want Authorization", got)
		}
	})
}

func writeConfig(t *testing.T, dbPath string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "invoicer.yaml")
	content := "mode: local\n" +
		"storage:\n" +
		"  driver: sqlite\n" +
		"  sqlite_path: " + dbPath + "\n" +
		"log:\n" +
		"  level: error\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := Root()
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestExportCommand(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "invoicer.db")
	cfgPath := writeConfig(t, dbPath)
	outDir := t.TempDir()

	t.Run("nothing to export", func(t *testing.T) {
		_, err := run(t, "--config", cfgPath, "export", "expenses", "--out", outDir)
		if !errors.Is(err, export.ErrEmpty) {
			t.Fatalf("expected ErrEmpty, got %v", err)
		}
	})

	store, err := sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	for _, e := range []*models.Expense{
		{Date: time.Date(2024, 2, 1, 0, 0, 0, 0, time.Local), Description: "Yoga mats", Amount: 89.5, Category: models.CategoryEquipment},
		{Date: time.Date(2024, 2, 9, 0, 0, 0, 0, time.Local), Description: "Studio rent", Amount: 300, Category: models.CategoryRental},
	} {
		if err := store.AddExpense(context.Background(), models.LocalAccountID, e); err != nil {
			t.Fatalf("failed to seed expense: %v", err)
		}
	}
	store.Close()

	out, err := run(t, "--config", cfgPath, "export", "expenses", "--out", outDir)
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if !strings.Contains(out, "Wrote 3 rows") {
		t.Errorf("unexpected output %q", out)
	}

	files, _ := filepath.Glob(filepath.Join(outDir, "Expenses_*.xlsx"))
	if len(files) != 1 {
		t.Fatalf("expected one workbook, found %v", files)
	}
	f, err := excelize.OpenFile(files[0])
	if err != nil {
		t.Fatalf("failed to open workbook: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows(f.GetSheetName(0), excelize.Options{RawCellValue: true})
	if err != nil {
		t.Fatalf("failed to read rows: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("expected header, 2 expenses and a total row, got %d rows", len(rows))
	}
	if last := rows[3]; len(last) < 4 || last[2] != "TOTAL" || last[3] != "389.5" {
		t.Errorf("total row = %q, want TOTAL 389.5", last)
	}

	if _, err := run(t, "--config", cfgPath, "export", "receipts"); err == nil {
		t.Error("expected an error for an unknown export")
	}
}

func TestUserAddCommand(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "invoicer.db")
	cfgPath := writeConfig(t, dbPath)

	out, err := run(t, "--config", cfgPath, "user", "add", "--email", "marie@example.com", "--name", "Marie", "--password", "correct-horse")
	if err != nil {
		t.Fatalf("user add failed: %v", err)
	}
	if !strings.Contains(out, "marie@example.com") {
		t.Errorf("unexpected output %q", out)
	}

	if _, err := run(t, "--config", cfgPath, "user", "add", "--email", "marie@example.com", "--name", "Marie", "--password", "correct-horse"); err == nil {
		t.Error("expected an error for a duplicate email")
	}
}

func TestVersionCommand(t *testing.T) {
	SetVersion("1.2.3")
	t.Cleanup(func() { SetVersion("dev") })

	out, err := run(t, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if out != "invoicer 1.2.3\n" {
		t.Errorf("version output = %q", out)
	}
}
