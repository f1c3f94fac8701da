// Package store persists job-application records in Google Sheets, one
// worksheet per user inside a single spreadsheet. Worksheets are created
// lazily on first use and never deleted. Company names are the record key,
// compared case-insensitively; row-level consistency is delegated to the
// Sheets API, so concurrent updates to the same worksheet follow
// last-write-wins.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/api/sheets/v4"
)

// ErrNotFound is returned when a company has no row in the user's worksheet.
var ErrNotFound = errors.New("company not found")

const (
	worksheetRows   = 1000
	worksheetCols   = 10
	timestampLayout = "2006-01-02 15:04:05"
	recentLimit     = 5
)

// sheetHeader is the fixed first row of every user worksheet.
var sheetHeader = []interface{}{"Company Name", "Status", "Application Date", "Added Date", "Notes"}

// Record is one tracked job application, one worksheet row. All fields are
// stored as the user typed them; ApplicationDate in particular stays a
// free-form short date string ("15 Aug").
type Record struct {
	Company         string `json:"company"`
	Status          string `json:"status"`
	ApplicationDate string `json:"application_date"`
	AddedDate       string `json:"added_date"`
	Notes           string `json:"notes"`
}

// Update is the input to Upsert.
type Update struct {
	Company string
	Status  string
	Date    string
	Notes   string
}

// Action reports which mutation an upsert performed.
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
)

// Stats summarizes one user's records.
type Stats struct {
	TotalApplications int      `json:"total_applications"`
	Applied           int      `json:"applied"`
	NotApplied        int      `json:"not_applied"`
	NotEligible       int      `json:"not_eligible"`
	NotFixed          int      `json:"not_fixed"`
	RecentActivity    []Record `json:"recent_activity"`
}

// Store performs all record operations against one spreadsheet. It is
// constructed once at startup and shared between handlers; it holds no
// mutable state of its own.
type Store struct {
	svc           *sheets.Service
	spreadsheetID string
	now           func() time.Time
}

// New creates a Store over the given spreadsheet.
func New(svc *sheets.Service, spreadsheetID string) *Store {
	return &Store{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		now:           time.Now,
	}
}

// Ping verifies the spreadsheet is reachable with the configured credentials.
func (s *Store) Ping(ctx context.Context) error {
	_, err := s.svc.Spreadsheets.Get(s.spreadsheetID).Fields("spreadsheetId").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("get spreadsheet: %w", err)
	}
	return nil
}

// worksheetName derives the sheet tab title for a user: "User_" plus the
// phone number with "+" removed and "-" replaced by "_".
func worksheetName(userID string) string {
	return "User_" + strings.NewReplacer("+", "", "-", "_").Replace(userID)
}

// ensureWorksheet finds the user's worksheet, creating it with the header
// row when absent. Returns the worksheet title and numeric sheet ID.
func (s *Store) ensureWorksheet(ctx context.Context, userID string) (string, int64, error) {
	title := worksheetName(userID)

	ss, err := s.svc.Spreadsheets.Get(s.spreadsheetID).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return "", 0, fmt.Errorf("get spreadsheet: %w", err)
	}
	for _, sh := range ss.Sheets {
		if sh.Properties != nil && sh.Properties.Title == title {
			return title, sh.Properties.SheetId, nil
		}
	}

	resp, err := s.svc.Spreadsheets.BatchUpdate(s.spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{
					Title: title,
					GridProperties: &sheets.GridProperties{
						RowCount:    worksheetRows,
						ColumnCount: worksheetCols,
					},
				},
			},
		}},
	}).Context(ctx).Do()
	if err != nil {
		return "", 0, fmt.Errorf("add worksheet %s: %w", title, err)
	}

	var sheetID int64
	if len(resp.Replies) > 0 && resp.Replies[0].AddSheet != nil && resp.Replies[0].AddSheet.Properties != nil {
		sheetID = resp.Replies[0].AddSheet.Properties.SheetId
	}

	header := &sheets.ValueRange{Values: [][]interface{}{sheetHeader}}
	if _, err := s.svc.Spreadsheets.Values.Append(s.spreadsheetID, title+"!A1", header).
		ValueInputOption("USER_ENTERED").Context(ctx).Do(); err != nil {
		return "", 0, fmt.Errorf("write header for %s: %w", title, err)
	}

	slog.Info("worksheet created", "title", title)
	return title, sheetID, nil
}

// findRow scans column A for the company, case-insensitively. Row numbers
// are 1-based as in A1 notation; 0 means not found.
func (s *Store) findRow(ctx context.Context, title, company string) (int64, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, title+"!A:A").Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("read company column: %w", err)
	}
	want := strings.ToLower(strings.TrimSpace(company))
	for i, row := range resp.Values {
		if strings.ToLower(strings.TrimSpace(cellString(row, 0))) == want {
			return int64(i + 1), nil
		}
	}
	return 0, nil
}

// Upsert creates or updates the row for up.Company. An update overwrites
// status, application date and (when provided) notes in place; the added
// date keeps the value written at creation.
func (s *Store) Upsert(ctx context.Context, userID string, up Update) (Action, error) {
	title, _, err := s.ensureWorksheet(ctx, userID)
	if err != nil {
		return "", err
	}

	row, err := s.findRow(ctx, title, up.Company)
	if err != nil {
		return "", err
	}

	if row > 0 {
		data := []*sheets.ValueRange{
			{Range: fmt.Sprintf("%s!B%d", title, row), Values: [][]interface{}{{up.Status}}},
			{Range: fmt.Sprintf("%s!C%d", title, row), Values: [][]interface{}{{up.Date}}},
		}
		if up.Notes != "" {
			data = append(data, &sheets.ValueRange{
				Range:  fmt.Sprintf("%s!E%d", title, row),
				Values: [][]interface{}{{up.Notes}},
			})
		}
		_, err := s.svc.Spreadsheets.Values.BatchUpdate(s.spreadsheetID, &sheets.BatchUpdateValuesRequest{
			ValueInputOption: "USER_ENTERED",
			Data:             data,
		}).Context(ctx).Do()
		if err != nil {
			return "", fmt.Errorf("update row %d: %w", row, err)
		}
		slog.Info("job updated", "user", userID, "company", up.Company, "status", up.Status)
		return ActionUpdated, nil
	}

	values := &sheets.ValueRange{Values: [][]interface{}{{
		up.Company, up.Status, up.Date, s.now().Format(timestampLayout), up.Notes,
	}}}
	if _, err := s.svc.Spreadsheets.Values.Append(s.spreadsheetID, title+"!A1", values).
		ValueInputOption("USER_ENTERED").Context(ctx).Do(); err != nil {
		return "", fmt.Errorf("append row: %w", err)
	}
	slog.Info("job added", "user", userID, "company", up.Company, "status", up.Status)
	return ActionCreated, nil
}

// Delete removes the row for company. A missing company is a normal
// negative result reported as ErrNotFound; nothing is mutated.
func (s *Store) Delete(ctx context.Context, userID, company string) error {
	title, sheetID, err := s.ensureWorksheet(ctx, userID)
	if err != nil {
		return err
	}

	row, err := s.findRow(ctx, title, company)
	if err != nil {
		return err
	}
	if row == 0 {
		return ErrNotFound
	}

	_, err = s.svc.Spreadsheets.BatchUpdate(s.spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			DeleteDimension: &sheets.DeleteDimensionRequest{
				Range: &sheets.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "ROWS",
					StartIndex: row - 1,
					EndIndex:   row,
				},
			},
		}},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("delete row %d: %w", row, err)
	}
	slog.Info("job deleted", "user", userID, "company", company)
	return nil
}

// All returns every record in the user's worksheet, in sheet order.
func (s *Store) All(ctx context.Context, userID string) ([]Record, error) {
	title, _, err := s.ensureWorksheet(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, title+"!A2:E").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}

	records := make([]Record, 0, len(resp.Values))
	for _, row := range resp.Values {
		if cellString(row, 0) == "" {
			continue
		}
		records = append(records, Record{
			Company:         cellString(row, 0),
			Status:          cellString(row, 1),
			ApplicationDate: cellString(row, 2),
			AddedDate:       cellString(row, 3),
			Notes:           cellString(row, 4),
		})
	}
	return records, nil
}

// ByStatus returns records whose status equals status case-insensitively,
// in sheet order.
func (s *Store) ByStatus(ctx context.Context, userID, status string) ([]Record, error) {
	records, err := s.All(ctx, userID)
	if err != nil {
		return nil, err
	}

	var matched []Record
	for _, r := range records {
		if strings.EqualFold(strings.TrimSpace(r.Status), strings.TrimSpace(status)) {
			matched = append(matched, r)
		}
	}
	return matched, nil
}

// Upcoming returns records whose application date falls between now and
// daysAhead days from now, inclusive. Records with missing or unparseable
// dates are skipped.
func (s *Store) Upcoming(ctx context.Context, userID string, daysAhead int) ([]Record, error) {
	records, err := s.All(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	cutoff := now.AddDate(0, 0, daysAhead)

	var upcoming []Record
	for _, r := range records {
		d, ok := parseApplicationDate(r.ApplicationDate, now)
		if !ok {
			continue
		}
		if !d.Before(now) && !d.After(cutoff) {
			upcoming = append(upcoming, r)
		}
	}
	return upcoming, nil
}

// UserStats counts records by status and keeps the last up-to-five as
// recent activity, in sheet order.
func (s *Store) UserStats(ctx context.Context, userID string) (Stats, error) {
	records, err := s.All(ctx, userID)
	if err != nil {
		return Stats{}, err
	}

	st := Stats{
		TotalApplications: len(records),
		RecentActivity:    []Record{},
	}
	for _, r := range records {
		switch strings.ToLower(strings.TrimSpace(r.Status)) {
		case "applied":
			st.Applied++
		case "not applied":
			st.NotApplied++
		case "not eligible":
			st.NotEligible++
		case "not fixed":
			st.NotFixed++
		}
	}

	start := len(records) - recentLimit
	if start < 0 {
		start = 0
	}
	st.RecentActivity = append(st.RecentActivity, records[start:]...)
	return st, nil
}

// cellString reads one cell from a values row, tolerating short rows and
// non-string cells.
func cellString(row []interface{}, idx int) string {
	if idx >= len(row) || row[idx] == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(row[idx]))
}
