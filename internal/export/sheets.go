package export

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"regexp"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

var (
	spreadsheetURLPattern = regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9-_]+)`)
	spreadsheetIDPattern  = regexp.MustCompile(`^[a-zA-Z0-9-_]{20,}$`)
)

// SpreadsheetID extracts the ID from a Google Sheets URL. A bare ID is
// returned unchanged.
func SpreadsheetID(ref string) (string, error) {
	if m := spreadsheetURLPattern.FindStringSubmatch(ref); len(m) == 2 {
		return m[1], nil
	}
	if spreadsheetIDPattern.MatchString(ref) {
		return ref, nil
	}
	return "", fmt.Errorf("export: %q is not a Google Sheets URL", ref)
}

// Sheets appends tables to Google Sheets as a service account.
type Sheets struct {
	svc *sheets.Service
}

// NewSheets authenticates with the service-account key in credentialsFile.
func NewSheets(ctx context.Context, credentialsFile string) (*Sheets, error) {
	creds, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("export: failed to read credentials file: %w", err)
	}
	config, err := google.JWTConfigFromJSON(creds, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("export: failed to parse credentials: %w", err)
	}
	return NewSheetsWithOptions(ctx, option.WithHTTPClient(config.Client(ctx)))
}

// NewSheetsWithOptions builds the client from explicit options.
func NewSheetsWithOptions(ctx context.Context, opts ...option.ClientOption) (*Sheets, error) {
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("export: failed to create sheets service: %w", err)
	}
	return &Sheets{svc: svc}, nil
}

// Append adds t's rows to the tab named after the table, creating the tab
// and writing the header row when missing. It returns the number of rows
// appended.
func (s *Sheets) Append(ctx context.Context, spreadsheet string, t *Table) (int, error) {
	id, err := SpreadsheetID(spreadsheet)
	if err != nil {
		return 0, err
	}
	if err := s.ensureTab(ctx, id, t); err != nil {
		return 0, err
	}

	_, err = s.svc.Spreadsheets.Values.Append(id, t.Name+"!A:A", &sheets.ValueRange{
		Values: t.Rows,
	}).ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("export: failed to append rows: %w", err)
	}

	slog.Info("Rows appended to Google Sheet",
		"spreadsheet_id", id,
		"sheet", t.Name,
		"count", len(t.Rows),
	)
	return len(t.Rows), nil
}

func (s *Sheets) ensureTab(ctx context.Context, id string, t *Table) error {
	spreadsheet, err := s.svc.Spreadsheets.Get(id).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("export: failed to get spreadsheet: %w", err)
	}

	exists := false
	for _, sh := range spreadsheet.Sheets {
		if sh.Properties != nil && sh.Properties.Title == t.Name {
			exists = true
			break
		}
	}
	if !exists {
		_, err := s.svc.Spreadsheets.BatchUpdate(id, &sheets.BatchUpdateSpreadsheetRequest{
			Requests: []*sheets.Request{
				{AddSheet: &sheets.AddSheetRequest{Properties: &sheets.SheetProperties{Title: t.Name}}},
			},
		}).Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("export: failed to create sheet %s: %w", t.Name, err)
		}
	}

	headerRange := t.Name + "!1:1"
	resp, err := s.svc.Spreadsheets.Values.Get(id, headerRange).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("export: failed to read header: %w", err)
	}
	if len(resp.Values) > 0 && len(resp.Values[0]) > 0 {
		return nil
	}

	header := make([]any, len(t.Header))
	for i, h := range t.Header {
		header[i] = h
	}
	_, err = s.svc.Spreadsheets.Values.Update(id, headerRange, &sheets.ValueRange{
		Values: [][]any{header},
	}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("export: failed to write header: %w", err)
	}
	return nil
}
