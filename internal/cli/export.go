package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/mmynk/invoicer/internal/export"
	"github.com/mmynk/invoicer/internal/invoicing"
	"github.com/mmynk/invoicer/internal/models"
	"github.com/mmynk/invoicer/internal/storage"
)

var (
	exportAccount string
	exportOutDir  string
	exportSheet   string
)

var exportCmd = &cobra.Command{
	Use:   "export [invoices|expenses]",
	Short: "Export invoices or expenses to XLSX or a Google Sheet",
	Long: `Export every invoice or expense of an account. By default an XLSX
workbook named like Invoices_2024-03-15.xlsx is written to --out. With
--sheet the rows are appended to a Google Sheet instead, using the service
account in sheets.credentials_file.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"invoices", "expenses"},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		store, err := openStore(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize storage: %w", err)
		}
		defer store.Close()

		table, err := exportTable(ctx, store, args[0], exportAccount)
		if err != nil {
			return err
		}

		if exportSheet != "" {
			if cfg.Sheets.CredentialsFile == "" {
				return fmt.Errorf("sheets.credentials_file (or GOOGLE_APPLICATION_CREDENTIALS) is required for --sheet")
			}
			sheets, err := export.NewSheets(ctx, cfg.Sheets.CredentialsFile)
			if err != nil {
				return err
			}
			n, err := sheets.Append(ctx, exportSheet, table)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Appended %d rows to sheet %q\n", n, table.Name)
			return nil
		}

		data, err := export.XLSX(table)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(exportOutDir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		path := filepath.Join(exportOutDir, export.FileName(table, time.Now()))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("failed to write export: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d rows to %s\n", len(table.Rows), path)
		return nil
	},
}

func exportTable(ctx context.Context, store storage.Store, kind, accountID string) (*export.Table, error) {
	switch kind {
	case "invoices":
		manager := invoicing.NewManager(store, invoicing.NewProfileCache(store, 0),
			invoicing.Config{DueDays: cfg.Invoices.DueDays})
		invs, err := manager.All(ctx, accountID)
		if err != nil {
			return nil, err
		}
		return export.InvoiceTable(invs)
	case "expenses":
		exps, err := invoicing.NewLedger(store, nil, nil, 0).All(ctx, accountID)
		if err != nil {
			return nil, err
		}
		return export.ExpenseTable(exps)
	default:
		return nil, fmt.Errorf("unknown export %q: use invoices or expenses", kind)
	}
}

func init() {
	exportCmd.Flags().StringVar(&exportAccount, "account", models.LocalAccountID, "account to export")
	exportCmd.Flags().StringVarP(&exportOutDir, "out", "o", ".", "output directory for the XLSX file")
	exportCmd.Flags().StringVar(&exportSheet, "sheet", "", "Google Sheet URL or ID to append to")
}
